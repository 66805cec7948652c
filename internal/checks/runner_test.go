package checks

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookgate/hookgate/internal/project"
)

// installFakeTool writes an executable shell script named tool into a
// directory prepended to PATH for the duration of the test.
func installFakeTool(t *testing.T, tool, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools use shell scripts")
	}
	binDir := filepath.Join(t.TempDir(), "bin")
	require.NoError(t, os.MkdirAll(binDir, 0755))
	path := filepath.Join(binDir, tool)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755))
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func testDefinition(tool string, timeout time.Duration) Definition {
	return Definition{
		Name: "fake-tests", Label: "Fake tests",
		Family: FamilyTest, Ecosystem: "python",
		Tool:     tool,
		Timeout:  timeout,
		Classify: testClassifier{label: "Fake tests"},
	}
}

func TestRunnerSkipsMissingTool(t *testing.T) {
	runner := &Runner{Dir: t.TempDir(), Prober: Probe([]string{"definitely-not-installed-tool"})}
	def := testDefinition("definitely-not-installed-tool", time.Second)

	out := runner.Run(context.Background(), def, project.Profile{})

	require.Len(t, out, 1)
	assert.Equal(t, StatusSkipped, out[0].Status)
	assert.Equal(t, "definitely-not-installed-tool not installed", out[0].Message)
}

func TestRunnerSkipsWhenNotApplicable(t *testing.T) {
	installFakeTool(t, "faketool", "exit 0")
	runner := &Runner{Dir: t.TempDir(), Prober: Probe([]string{"faketool"})}

	def := testDefinition("faketool", time.Second)
	def.Applies = func(string, project.Profile) (bool, string) {
		return false, "No Python test files found"
	}

	out := runner.Run(context.Background(), def, project.Profile{})

	require.Len(t, out, 1)
	assert.Equal(t, StatusSkipped, out[0].Status)
	assert.Equal(t, "No Python test files found", out[0].Message)
}

func TestRunnerClassifiesExitCodes(t *testing.T) {
	t.Run("passing tool", func(t *testing.T) {
		installFakeTool(t, "faketool", "echo ok\nexit 0")
		runner := &Runner{Dir: t.TempDir(), Prober: Probe([]string{"faketool"})}

		out := runner.Run(context.Background(), testDefinition("faketool", 5*time.Second), project.Profile{})

		require.Len(t, out, 1)
		assert.Equal(t, StatusPassed, out[0].Status)
	})

	t.Run("failing tool carries output tail", func(t *testing.T) {
		installFakeTool(t, "faketool", "echo 'FAILED test_thing'\nexit 1")
		runner := &Runner{Dir: t.TempDir(), Prober: Probe([]string{"faketool"})}

		out := runner.Run(context.Background(), testDefinition("faketool", 5*time.Second), project.Profile{})

		require.Len(t, out, 1)
		assert.Equal(t, StatusFailed, out[0].Status)
		assert.False(t, out[0].TimedOut)
		assert.Contains(t, out[0].Details, "FAILED test_thing")
	})
}

func TestRunnerTimeout(t *testing.T) {
	installFakeTool(t, "slowtool", "sleep 5")
	runner := &Runner{Dir: t.TempDir(), Prober: Probe([]string{"slowtool"})}

	out := runner.Run(context.Background(), testDefinition("slowtool", time.Second), project.Profile{})

	require.Len(t, out, 1)
	assert.Equal(t, StatusFailed, out[0].Status)
	assert.True(t, out[0].TimedOut)
	assert.Equal(t, "Fake tests: TIMED OUT after 1s", out[0].Message)
}

func TestRunnerTreatsExit124AsTimeout(t *testing.T) {
	installFakeTool(t, "wrapped", "exit 124")
	runner := &Runner{Dir: t.TempDir(), Prober: Probe([]string{"wrapped"})}

	out := runner.Run(context.Background(), testDefinition("wrapped", 30*time.Second), project.Profile{})

	require.Len(t, out, 1)
	assert.True(t, out[0].TimedOut)
	assert.Contains(t, out[0].Message, "TIMED OUT")
}

func TestRunnerRunsInProjectDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), nil, 0644))
	installFakeTool(t, "faketool", "test -f marker.txt")
	runner := &Runner{Dir: dir, Prober: Probe([]string{"faketool"})}

	out := runner.Run(context.Background(), testDefinition("faketool", 5*time.Second), project.Profile{})

	require.Len(t, out, 1)
	assert.Equal(t, StatusPassed, out[0].Status)
}

func TestProbe(t *testing.T) {
	installFakeTool(t, "probedtool", "exit 0")

	p := Probe([]string{"probedtool", "missing-tool", "probedtool"})

	assert.True(t, p.Available("probedtool"))
	assert.False(t, p.Available("missing-tool"))
	assert.False(t, p.Available("never-probed"))
	assert.Equal(t, []string{"missing-tool", "probedtool"}, p.Tools())
}
