package runlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookgate/hookgate/internal/checks"
)

func TestLoggerAppendsNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "runs.ndjson")

	l, err := Open(path)
	require.NoError(t, err)

	rec := Record{
		Timestamp: time.Now().UTC(),
		Event:     "post-task",
		Mode:      "blocking",
		Blocked:   true,
		Outcomes: []checks.Outcome{
			{Check: "python-tests", Status: checks.StatusFailed, Message: "Python tests: FAILED"},
		},
	}
	require.NoError(t, l.Log(rec))
	require.NoError(t, l.Log(Record{Event: "post-edit", Mode: "advisory"}))
	require.NoError(t, l.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		lines = append(lines, r)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 2)
	assert.Equal(t, "post-task", lines[0].Event)
	assert.True(t, lines[0].Blocked)
	assert.Equal(t, "post-edit", lines[1].Event)
}

func TestLoggerReopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.ndjson")

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Log(Record{Event: "post-edit"}))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Log(Record{Event: "session-stop"}))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "post-edit")
	assert.Contains(t, string(data), "session-stop")
}
