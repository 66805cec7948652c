package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execRoot runs the root command with args and the given stdin, returning
// stdout, stderr, and the execution error.
func execRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func installFakeTools(t *testing.T, scripts map[string]string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools use shell scripts")
	}
	binDir := filepath.Join(t.TempDir(), "bin")
	require.NoError(t, os.MkdirAll(binDir, 0755))
	for tool, script := range scripts {
		require.NoError(t, os.WriteFile(filepath.Join(binDir, tool), []byte("#!/bin/sh\n"+script), 0755))
	}
	t.Setenv("PATH", binDir)
}

func TestRunEmptyProjectIsClear(t *testing.T) {
	dir := t.TempDir()

	stdout, stderr, err := execRoot(t, "", "run", "--no-stdin", "--dir", dir)

	require.NoError(t, err)
	assert.Contains(t, stdout, "All checks clear (0 run)")
	assert.Empty(t, stderr)
}

func TestRunBlockingFailureExitsBlocked(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
		[]byte(`{"scripts":{"test":"jest"}}`), 0644))
	installFakeTools(t, map[string]string{"npm": "echo 'FAIL suite'\nexit 1"})

	_, stderr, err := execRoot(t, "", "run", "--no-stdin", "--dir", dir, "--event", "post-task")

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, 1, blocked.Failed)
	assert.Contains(t, stderr, "Node.js tests: FAILED")
	assert.Contains(t, stderr, "Fix these issues before completing.")
}

func TestRunAdvisoryFailureStillSucceeds(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
		[]byte(`{"scripts":{"test":"jest"}}`), 0644))
	installFakeTools(t, map[string]string{"npm": "exit 1"})

	stdout, stderr, err := execRoot(t, "", "run", "--no-stdin", "--dir", dir, "--event", "post-edit")

	require.NoError(t, err)
	assert.Contains(t, stdout, "[FAIL] Node.js tests: FAILED")
	assert.Empty(t, stderr)
}

func TestRunPayloadFilePathFiltersEcosystem(t *testing.T) {
	dir := t.TempDir()
	// Both ecosystems present; the edited .py file narrows to Python checks.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
		[]byte(`{"scripts":{"test":"jest"}}`), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tests"), 0755))
	installFakeTools(t, map[string]string{
		"pytest": "exit 0",
		"ruff":   "exit 0",
		"npm":    "exit 1",
		"eslint": "exit 1",
	})

	payload := `{"tool_input":{"file_path":"src/app.py"}}`
	stdout, _, err := execRoot(t, payload, "run", "--dir", dir, "--event", "post-edit")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Python tests: passed")
	assert.NotContains(t, stdout, "Node.js")
}

func TestRunPayloadCWDSelectsProjectDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), nil, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tests"), 0755))
	installFakeTools(t, map[string]string{"pytest": "exit 0", "ruff": "exit 0"})

	payload := `{"cwd":` + jsonString(dir) + `}`
	stdout, _, err := execRoot(t, payload, "run", "--event", "post-edit")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Python tests: passed")
}

func TestRunJSONFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), nil, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tests"), 0755))
	installFakeTools(t, map[string]string{"pytest": "exit 0", "ruff": "exit 0"})

	stdout, _, err := execRoot(t, "", "run", "--no-stdin", "--dir", dir,
		"--event", "post-edit", "--format", "json")

	require.NoError(t, err)
	assert.Contains(t, stdout, `"mode": "advisory"`)
	assert.Contains(t, stdout, `"blocked": false`)
}

func TestRunWritesReportAndLog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), nil, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tests"), 0755))
	installFakeTools(t, map[string]string{"pytest": "exit 0", "ruff": "exit 0"})

	reportPath := filepath.Join(dir, "out", "report.md")
	logPath := filepath.Join(dir, "out", "runs.ndjson")

	_, _, err := execRoot(t, "", "run", "--no-stdin", "--dir", dir,
		"--event", "post-edit", "--report", reportPath, "--log", logPath)
	require.NoError(t, err)

	reportData, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(reportData), "**Status:** CLEAR")

	logData, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logData), `"event":"post-edit"`)
}

func TestRunReportFileEnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), nil, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tests"), 0755))
	installFakeTools(t, map[string]string{"pytest": "exit 0", "ruff": "exit 0"})

	reportPath := filepath.Join(dir, "env-report.md")
	t.Setenv("REPORT_FILE", reportPath)

	_, _, err := execRoot(t, "", "run", "--no-stdin", "--dir", dir, "--event", "post-edit")
	require.NoError(t, err)

	_, err = os.Stat(reportPath)
	assert.NoError(t, err)
}

func TestRunTimeoutProducesTimedOutFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), nil, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tests"), 0755))
	// Busy loop instead of sleep: the fake PATH has no coreutils.
	installFakeTools(t, map[string]string{"pytest": "while :; do :; done", "ruff": "exit 0"})
	t.Setenv("MAX_TEST_TIME", "1")

	_, stderr, err := execRoot(t, "", "run", "--no-stdin", "--dir", dir,
		"--event", "post-edit", "--mode", "blocking")

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Contains(t, stderr, "TIMED OUT after 1s")
}

func TestRunRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execRoot(t, "", "run", "--no-stdin", "--dir", dir, "--event", "pre-commit")
	assert.Error(t, err)
	assert.False(t, errors.As(err, new(*BlockedError)))

	_, _, err = execRoot(t, "", "run", "--no-stdin", "--dir", dir, "--mode", "strict")
	assert.Error(t, err)

	_, _, err = execRoot(t, "", "run", "--no-stdin", "--dir", dir, "--format", "xml")
	assert.Error(t, err)
}

func jsonString(s string) string {
	replaced := strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(replaced, `"`, `\"`) + `"`
}
