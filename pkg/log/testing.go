package log

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// TestLogger records entries in memory so tests can assert on what a run
// logged. Loggers derived with With share the same record, and it is safe
// for concurrent use (cross-validation folds log from worker goroutines).
type TestLogger struct {
	sink   *testSink
	level  Level
	fields []any
}

type testSink struct {
	mu      sync.Mutex
	entries []map[string]any
}

// NewTestLogger returns a logger capturing entries at level and above.
//
//	logger := log.NewTestLogger(log.LevelDebug)
//	summary, err := evaluation.Run(ctx, frame, cfg, evaluation.WithLogger(logger))
//	assert.True(t, logger.ContainsField(log.PhaseKey, log.PhaseTesting))
func NewTestLogger(level Level) *TestLogger {
	return &TestLogger{sink: &testSink{}, level: level}
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.record(LevelDebug, msg, fields) }
func (t *TestLogger) Info(msg string, fields ...any)  { t.record(LevelInfo, msg, fields) }
func (t *TestLogger) Warn(msg string, fields ...any)  { t.record(LevelWarn, msg, fields) }
func (t *TestLogger) Error(msg string, fields ...any) { t.record(LevelError, msg, fields) }

// With implements Logger.With.
func (t *TestLogger) With(fields ...any) Logger {
	merged := make([]any, 0, len(t.fields)+len(fields))
	merged = append(merged, t.fields...)
	merged = append(merged, fields...)
	return &TestLogger{sink: t.sink, level: t.level, fields: merged}
}

// Enabled implements Logger.Enabled.
func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return t.level <= level
}

// record stores one entry the way the JSON logger would render it: errors
// become their message and numbers decode as float64.
func (t *TestLogger) record(level Level, msg string, fields []any) {
	if level < t.level {
		return
	}
	entry := map[string]any{"level": level.String(), "message": msg}
	for _, kv := range [][]any{t.fields, fields} {
		for i := 0; i+1 < len(kv); i += 2 {
			v := kv[i+1]
			if err, ok := v.(error); ok {
				v = err.Error()
			}
			entry[fmt.Sprintf("%v", kv[i])] = v
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		entry = map[string]any{"level": level.String(), "message": msg, "log.encode_error": err.Error()}
	} else {
		entry = nil
		_ = json.Unmarshal(data, &entry)
	}

	t.sink.mu.Lock()
	t.sink.entries = append(t.sink.entries, entry)
	t.sink.mu.Unlock()
}

// GetLogEntries returns a copy of every captured entry in order.
func (t *TestLogger) GetLogEntries() []map[string]any {
	t.sink.mu.Lock()
	defer t.sink.mu.Unlock()
	return append([]map[string]any(nil), t.sink.entries...)
}

// ContainsMessage reports whether any entry's message contains message.
func (t *TestLogger) ContainsMessage(message string) bool {
	for _, e := range t.GetLogEntries() {
		if m, ok := e["message"].(string); ok && strings.Contains(m, message) {
			return true
		}
	}
	return false
}

// ContainsField reports whether any entry has key set to value. Numbers
// must be given as float64.
func (t *TestLogger) ContainsField(key string, value any) bool {
	for _, e := range t.GetLogEntries() {
		if v, ok := e[key]; ok && v == value {
			return true
		}
	}
	return false
}
