package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/regeval/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestZerologLogger_LevelsAndFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerologLogger(buf, LevelInfo)

	logger.Debug("hidden")
	logger.Info("Model fitted", ModelNameKey, "Linear Regression", SamplesKey, 70)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "Model fitted", entries[0]["message"])
	assert.Equal(t, "Linear Regression", entries[0][ModelNameKey])
	assert.Equal(t, float64(70), entries[0][SamplesKey])
}

func TestZerologLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerologLogger(buf, LevelDebug).With(ComponentKey, "evaluation")

	logger.Debug("start", PhaseKey, PhaseTraining)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "evaluation", entries[0][ComponentKey])
	assert.Equal(t, PhaseTraining, entries[0][PhaseKey])
}

func TestZerologLogger_ErrorCarriesStack(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerologLogger(buf, LevelInfo)

	err := errors.NewFitError("KNeighborsRegressor", "empty input", nil)
	logger.Error("Run aborted", ErrAttrKey, err)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, err.Error(), entries[0][ErrAttrKey])
	stack, ok := entries[0][StacktraceAttrKey].(string)
	require.True(t, ok, "stack trace should be a string field")
	assert.NotEmpty(t, stack)
}

func TestZerologLogger_Enabled(t *testing.T) {
	logger := NewZerologLogger(&bytes.Buffer{}, LevelWarn)
	ctx := context.Background()

	assert.False(t, logger.Enabled(ctx, LevelDebug))
	assert.False(t, logger.Enabled(ctx, LevelInfo))
	assert.True(t, logger.Enabled(ctx, LevelWarn))
	assert.True(t, logger.Enabled(ctx, LevelError))
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToLogLevel(tt.in)
			if tt.wantErr {
				var verr *errors.ValidationError
				assert.True(t, errors.As(err, &verr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLoggerTo_RoutesWarnings(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() {
		SetLogger(prev)
		errors.SetZerologWarnFunc(nil)
	})

	buf := &bytes.Buffer{}
	require.NoError(t, SetupLoggerTo(buf, "info", "json"))

	errors.Warn(errors.NewConvergenceWarning("SVR", 1000, "maximum iterations reached"))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "warn", entries[0]["level"])
	warning, ok := entries[0]["warning"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "SVR", warning["algorithm"])
}

func TestSetupLoggerTo_RejectsUnknownFormat(t *testing.T) {
	err := SetupLoggerTo(&bytes.Buffer{}, "info", "xml")
	var verr *errors.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestTestLogger_Capture(t *testing.T) {
	logger := NewTestLogger(LevelInfo)
	logger.With(ModelNameKey, "Random Forest").Info("Cross-validation finished", FoldKey, 5)
	logger.Debug("skipped")

	entries := logger.GetLogEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Random Forest", entries[0][ModelNameKey])
	assert.True(t, logger.ContainsMessage("Cross-validation finished"))
	assert.True(t, logger.ContainsField(ModelNameKey, "Random Forest"))
	assert.True(t, logger.ContainsField(FoldKey, float64(5)))
	assert.False(t, logger.ContainsMessage("skipped"))
}

func TestTestLogger_ConcurrentWith(t *testing.T) {
	logger := NewTestLogger(LevelDebug)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.With(FoldKey, i).Debug("fold done", ErrAttrKey, errors.New("fold failed"))
		}()
	}
	wg.Wait()

	assert.Len(t, logger.GetLogEntries(), 8)
	assert.True(t, logger.ContainsField(FoldKey, float64(7)))
	assert.True(t, logger.ContainsField(ErrAttrKey, "fold failed"))
}
