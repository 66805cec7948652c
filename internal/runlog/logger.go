// Package runlog appends one NDJSON record per engine run, giving a local
// history of hook activity that survives across sessions.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hookgate/hookgate/internal/checks"
)

// Record is one engine run.
type Record struct {
	Timestamp  time.Time        `json:"timestamp"`
	Event      string           `json:"event"`
	Mode       string           `json:"mode"`
	Ecosystems []string         `json:"ecosystems,omitempty"`
	Blocked    bool             `json:"blocked"`
	Outcomes   []checks.Outcome `json:"outcomes"`
}

// Logger writes records as newline-delimited JSON.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// Open creates a logger appending to path. Parent directories are created
// automatically.
func Open(path string) (*Logger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating run log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening run log: %w", err)
	}

	return &Logger{file: f, enc: json.NewEncoder(f)}, nil
}

// Log writes a single record as one JSON line.
func (l *Logger) Log(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(rec)
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
