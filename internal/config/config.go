// Package config loads .hookgate.yaml project configuration with viper and
// applies the environment overrides the shell hooks honored (MAX_TEST_TIME,
// REPORT_FILE).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hookgate/hookgate/internal/checks"
)

// Lifecycle event names, matching the harness hook points.
const (
	EventPostEdit    = "post-edit"
	EventPostTask    = "post-task"
	EventSessionStop = "session-stop"
)

// Defaults for event behavior. These are the single source of truth; no
// other code duplicates them.
const (
	// DefaultEditTimeout bounds tool runs for per-edit hooks (seconds).
	DefaultEditTimeout = 120
	// DefaultTaskTimeout bounds tool runs for end-of-task and session hooks.
	DefaultTaskTimeout = 300

	// ConfigFileName is looked up in the project directory.
	ConfigFileName = ".hookgate"

	// EnvMaxTestTime overrides the timeout for test and typecheck runs.
	EnvMaxTestTime = "MAX_TEST_TIME"
	// EnvReportFile overrides the Markdown report path.
	EnvReportFile = "REPORT_FILE"
)

// Event configures one lifecycle hook point.
type Event struct {
	// Mode is "advisory" or "blocking".
	Mode string `mapstructure:"mode" yaml:"mode"`
	// Timeout is the per-tool wall-clock bound in seconds.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`
	// Families limits which check families run. Empty means all.
	Families []string `mapstructure:"families" yaml:"families,omitempty"`
}

// Manifest configures the agent/skill manifest generator.
type Manifest struct {
	// Dirs are the directories scanned for agent/skill markdown files.
	Dirs []string `mapstructure:"dirs" yaml:"dirs"`
	// Output is where manifest.json and INDEX.md are written.
	Output string `mapstructure:"output" yaml:"output"`
}

// Config is the top-level configuration loaded from .hookgate.yaml.
type Config struct {
	Events   map[string]Event           `mapstructure:"events" yaml:"events,omitempty"`
	Checks   map[string]checks.Override `mapstructure:"checks" yaml:"checks,omitempty"`
	Report   string                     `mapstructure:"report" yaml:"report,omitempty"`
	Log      string                     `mapstructure:"log" yaml:"log,omitempty"`
	Manifest Manifest                   `mapstructure:"manifest" yaml:"manifest,omitempty"`

	// maxTestTime is the parsed MAX_TEST_TIME override, zero when unset.
	maxTestTime int
}

// defaultEvents returns the built-in per-event behavior. Per-edit hooks are
// advisory and only re-run the fast families; end-of-task and session hooks
// are blocking and run everything.
func defaultEvents() map[string]Event {
	return map[string]Event{
		EventPostEdit: {
			Mode:     "advisory",
			Timeout:  DefaultEditTimeout,
			Families: []string{string(checks.FamilyTest), string(checks.FamilyLint)},
		},
		EventPostTask: {
			Mode:    "blocking",
			Timeout: DefaultTaskTimeout,
		},
		EventSessionStop: {
			Mode:    "blocking",
			Timeout: DefaultTaskTimeout,
		},
	}
}

// New returns a Config populated with defaults only.
func New() *Config {
	return &Config{
		Events:   defaultEvents(),
		Manifest: Manifest{Dirs: []string{"agents", "skills"}, Output: "."},
	}
}

// Load reads .hookgate.yaml from dir (if present), merges it over the
// defaults, and applies environment overrides. A missing config file is not
// an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("HOOKGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s.yaml: %w", ConfigFileName, err)
		}
	}

	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	// Unmarshal replaces the events map wholesale when the file defines one;
	// re-fill defaults for any event the file left out or left partial.
	cfg.mergeEventDefaults()

	if report := os.Getenv(EnvReportFile); report != "" {
		cfg.Report = report
	}
	if raw := os.Getenv(EnvMaxTestTime); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", EnvMaxTestTime, raw)
		}
		cfg.maxTestTime = n
	}

	return cfg, nil
}

func (c *Config) mergeEventDefaults() {
	defaults := defaultEvents()
	if c.Events == nil {
		c.Events = defaults
		return
	}
	for name, def := range defaults {
		ev, ok := c.Events[name]
		if !ok {
			c.Events[name] = def
			continue
		}
		if ev.Mode == "" {
			ev.Mode = def.Mode
		}
		if ev.Timeout <= 0 {
			ev.Timeout = def.Timeout
		}
		if ev.Families == nil {
			ev.Families = def.Families
		}
		c.Events[name] = ev
	}
}

// EventFor returns the configuration for the named event.
func (c *Config) EventFor(name string) (Event, error) {
	ev, ok := c.Events[name]
	if !ok {
		return Event{}, fmt.Errorf("unknown event %q", name)
	}
	return ev, nil
}

// CheckOptions builds the check selection options for one event run.
func (c *Config) CheckOptions(ev Event, filePath string) checks.Options {
	toolTimeout := time.Duration(ev.Timeout) * time.Second
	testTimeout := toolTimeout
	if c.maxTestTime > 0 {
		testTimeout = time.Duration(c.maxTestTime) * time.Second
	}

	families := make([]checks.Family, 0, len(ev.Families))
	for _, f := range ev.Families {
		families = append(families, checks.Family(f))
	}

	return checks.Options{
		Families:    families,
		FilePath:    filePath,
		TestTimeout: testTimeout,
		ToolTimeout: toolTimeout,
		Overrides:   c.Checks,
	}
}
