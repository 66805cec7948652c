// Package project detects which ecosystems are present in a working
// directory by looking for well-known marker files.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Profile describes the ecosystems detected in a project directory.
// It is computed once per invocation and never mutated afterwards.
type Profile struct {
	Root string `json:"root"`

	HasPython bool `json:"hasPython"`
	HasNode   bool `json:"hasNode"`
	HasInfra  bool `json:"hasInfra"`
	HasMobile bool `json:"hasMobile"`

	// HasNodeTestScript is true when package.json declares a "test" script.
	HasNodeTestScript bool `json:"hasNodeTestScript"`
	// HasNodeModules is true when a node_modules directory exists, which
	// dependency audits need to produce meaningful output.
	HasNodeModules bool `json:"hasNodeModules"`
}

// Empty reports whether no ecosystem was detected. An empty profile is not
// an error: downstream the engine runs nothing and exits cleanly.
func (p Profile) Empty() bool {
	return !p.HasPython && !p.HasNode && !p.HasInfra && !p.HasMobile
}

// Ecosystems returns the names of the detected ecosystems in a stable order.
func (p Profile) Ecosystems() []string {
	var out []string
	if p.HasPython {
		out = append(out, "python")
	}
	if p.HasNode {
		out = append(out, "node")
	}
	if p.HasInfra {
		out = append(out, "infra")
	}
	if p.HasMobile {
		out = append(out, "mobile")
	}
	return out
}

// Detect inspects dir for marker files and returns the resulting Profile.
// It only reads the filesystem; absence of every marker yields an all-false
// profile rather than an error.
func Detect(dir string) Profile {
	p := Profile{Root: dir}

	p.HasPython = anyFileExists(dir, "pyproject.toml", "requirements.txt", "setup.py")

	pkgJSON := filepath.Join(dir, "package.json")
	if fileExists(pkgJSON) {
		p.HasNode = true
		p.HasNodeTestScript = packageJSONHasTestScript(pkgJSON)
		p.HasNodeModules = dirExists(filepath.Join(dir, "node_modules"))
	}

	if fileExists(filepath.Join(dir, "cdk.json")) {
		// A CDK app counts as infra only when we can tell which language
		// drives it: a Python entry point or a TypeScript package.json.
		if fileExists(filepath.Join(dir, "app.py")) || packageJSONMentionsTypescript(pkgJSON) {
			p.HasInfra = true
		}
	}

	p.HasMobile = fileExists(filepath.Join(dir, "pubspec.yaml"))

	return p
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func anyFileExists(dir string, names ...string) bool {
	for _, name := range names {
		if fileExists(filepath.Join(dir, name)) {
			return true
		}
	}
	return false
}

func packageJSONHasTestScript(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return false
	}
	script, ok := pkg.Scripts["test"]
	return ok && strings.TrimSpace(script) != ""
}

func packageJSONMentionsTypescript(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), "typescript")
}
