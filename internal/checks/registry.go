package checks

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hookgate/hookgate/internal/project"
)

// knownTools is every external binary the check table can invoke, in the
// order the doctor command reports them.
var knownTools = []string{
	"pytest", "ruff", "mypy", "bandit", "pip-audit",
	"npm", "eslint",
	"flutter",
}

// KnownTools returns the names of every tool hookgate knows how to run.
func KnownTools() []string {
	out := make([]string, len(knownTools))
	copy(out, knownTools)
	return out
}

// Override tunes or disables a single named check. Decoded from the
// per-check section of .hookgate.yaml.
type Override struct {
	Disabled       bool     `mapstructure:"disabled"`
	TimeoutSeconds int      `mapstructure:"timeout"`
	ExtraArgs      []string `mapstructure:"extra_args"`
}

// Options parameterize check selection for one engine run.
type Options struct {
	// Families limits selection to the given check families. Empty means
	// all families.
	Families []Family
	// FilePath, when set, narrows selection to the ecosystem the edited
	// file belongs to. Unknown extensions leave selection unfiltered.
	FilePath string
	// TestTimeout bounds test and typecheck runs (MAX_TEST_TIME).
	TestTimeout time.Duration
	// ToolTimeout bounds every other check.
	ToolTimeout time.Duration
	// Overrides apply per-check tuning by Definition name.
	Overrides map[string]Override
}

// Select returns the ordered list of checks applicable to the profile.
// Within each ecosystem the order is test, lint, typecheck, security, audit.
func Select(p project.Profile, opts Options) []Definition {
	var defs []Definition

	if p.HasPython {
		defs = append(defs,
			Definition{
				Name: "python-tests", Label: "Python tests",
				Family: FamilyTest, Ecosystem: "python",
				Tool: "pytest", Args: []string{"-q"},
				Applies:  pythonTestsPresent,
				Classify: testClassifier{label: "Python tests"},
			},
			Definition{
				Name: "python-lint", Label: "Ruff",
				Family: FamilyLint, Ecosystem: "python",
				Tool: "ruff", Args: []string{"check", "."},
				Classify: lintClassifier{label: "Ruff"},
			},
			Definition{
				Name: "python-typecheck", Label: "Mypy",
				Family: FamilyTypecheck, Ecosystem: "python",
				Tool: "mypy", Args: []string{"."},
				Classify: typecheckClassifier{label: "Mypy"},
			},
			Definition{
				Name: "python-security", Label: "Bandit",
				Family: FamilySecurity, Ecosystem: "python",
				Tool: "bandit", Args: []string{"-r", "."},
				Classify: securityClassifier{label: "Bandit"},
			},
			Definition{
				Name: "python-audit", Label: "pip-audit",
				Family: FamilyAudit, Ecosystem: "python",
				Tool:     "pip-audit",
				Classify: auditClassifier{label: "pip-audit"},
			},
		)
	}

	if p.HasNode {
		defs = append(defs,
			Definition{
				Name: "node-tests", Label: "Node.js tests",
				Family: FamilyTest, Ecosystem: "node",
				Tool: "npm", Args: []string{"test"},
				Applies: func(_ string, p project.Profile) (bool, string) {
					if !p.HasNodeTestScript {
						return false, "No test script in package.json"
					}
					return true, ""
				},
				Classify: testClassifier{label: "Node.js tests"},
			},
			Definition{
				Name: "node-lint", Label: "ESLint",
				Family: FamilyLint, Ecosystem: "node",
				// unix format gives the file:line:col lines classification keys on.
				Tool: "eslint", Args: []string{"--format", "unix", "."},
				Classify: lintClassifier{label: "ESLint"},
			},
			Definition{
				Name: "node-audit", Label: "npm audit",
				Family: FamilyAudit, Ecosystem: "node",
				Tool: "npm", Args: []string{"audit"},
				Applies: func(_ string, p project.Profile) (bool, string) {
					if !p.HasNodeModules {
						return false, "No node_modules directory; skipping audit"
					}
					return true, ""
				},
				Classify: auditClassifier{label: "npm audit"},
			},
		)
	}

	if p.HasMobile {
		defs = append(defs,
			Definition{
				Name: "flutter-tests", Label: "Flutter tests",
				Family: FamilyTest, Ecosystem: "mobile",
				Tool: "flutter", Args: []string{"test"},
				Applies: func(dir string, _ project.Profile) (bool, string) {
					if info, err := os.Stat(filepath.Join(dir, "test")); err != nil || !info.IsDir() {
						return false, "No Flutter test directory found"
					}
					return true, ""
				},
				Classify: testClassifier{label: "Flutter tests"},
			},
			Definition{
				Name: "flutter-analyze", Label: "Flutter analyze",
				Family: FamilyLint, Ecosystem: "mobile",
				Tool: "flutter", Args: []string{"analyze"},
				Classify: lintClassifier{label: "Flutter analyze"},
			},
		)
	}

	defs = filterDefinitions(defs, opts)

	for i := range defs {
		applyTiming(&defs[i], opts)
		if ov, ok := opts.Overrides[defs[i].Name]; ok {
			if ov.TimeoutSeconds > 0 {
				defs[i].Timeout = time.Duration(ov.TimeoutSeconds) * time.Second
			}
			defs[i].Args = append(defs[i].Args, ov.ExtraArgs...)
		}
	}

	return defs
}

func filterDefinitions(defs []Definition, opts Options) []Definition {
	families := make(map[Family]bool, len(opts.Families))
	for _, f := range opts.Families {
		families[f] = true
	}
	ecosystems := ecosystemsForFile(opts.FilePath)

	var out []Definition
	for _, def := range defs {
		if len(families) > 0 && !families[def.Family] {
			continue
		}
		if ecosystems != nil && !ecosystems[def.Ecosystem] {
			continue
		}
		if ov, ok := opts.Overrides[def.Name]; ok && ov.Disabled {
			continue
		}
		out = append(out, def)
	}
	return out
}

// ecosystemsForFile maps an edited file's extension to the ecosystems worth
// re-checking. nil means "no filtering".
func ecosystemsForFile(path string) map[string]bool {
	if path == "" {
		return nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return map[string]bool{"python": true}
	case ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs":
		return map[string]bool{"node": true}
	case ".dart":
		return map[string]bool{"mobile": true}
	default:
		return nil
	}
}

func applyTiming(def *Definition, opts Options) {
	switch def.Family {
	case FamilyTest, FamilyTypecheck:
		def.Timeout = opts.TestTimeout
	default:
		def.Timeout = opts.ToolTimeout
	}
}

// skipDirs are never descended into when looking for Python test files.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
}

func pythonTestsPresent(dir string, _ project.Profile) (bool, string) {
	if info, err := os.Stat(filepath.Join(dir, "tests")); err == nil && info.IsDir() {
		return true, ""
	}

	found := false
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "test_") && strings.HasSuffix(name, ".py") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})

	if !found {
		return false, "No Python test files found"
	}
	return true, ""
}
