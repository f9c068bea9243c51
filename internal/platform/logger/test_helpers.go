package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// TestLogBuffer collects JSON log lines written by a test logger. It is
// safe for concurrent writers.
type TestLogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// GetLogEntries decodes one entry per non-empty line.
func (b *TestLogBuffer) GetLogEntries() ([]map[string]interface{}, error) {
	var entries []map[string]interface{}
	sc := bufio.NewScanner(strings.NewReader(b.String()))
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		entry := map[string]interface{}{}
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, sc.Err()
}

// Messages returns the msg field of every entry, in write order.
func (b *TestLogBuffer) Messages() []string {
	entries, err := b.GetLogEntries()
	if err != nil {
		return nil
	}
	msgs := make([]string, 0, len(entries))
	for _, e := range entries {
		if m, ok := e[slog.MessageKey].(string); ok {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

// NewTestLogger returns a debug-level JSON logger and the buffer it writes
// to. The default logger is left untouched.
func NewTestLogger(t *testing.T) (*TestLogBuffer, *slog.Logger) {
	t.Helper()
	buf := &TestLogBuffer{}
	return buf, slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// AssertLogContains fails the test unless content appears in the raw output.
func AssertLogContains(t *testing.T, buf *TestLogBuffer, content string) {
	t.Helper()
	if out := buf.String(); !strings.Contains(out, content) {
		t.Errorf("log output does not contain %q:\n%s", content, out)
	}
}

// AssertLogField fails the test unless some entry has field == expected.
func AssertLogField(t *testing.T, buf *TestLogBuffer, field string, expected interface{}) {
	t.Helper()
	entries, err := buf.GetLogEntries()
	if err != nil {
		t.Fatalf("invalid log output: %v", err)
	}
	for _, e := range entries {
		if v, ok := e[field]; ok && v == expected {
			return
		}
	}
	t.Errorf("no log entry with %s=%v among %d entries:\n%s", field, expected, len(entries), buf.String())
}
