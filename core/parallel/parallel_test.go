package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/regeval/pkg/errors"
)

func TestParallelize_CoversEveryIndexOnce(t *testing.T) {
	tests := []struct {
		name  string
		items int
	}{
		{"empty", 0},
		{"single", 1},
		{"many", 1003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make([]int32, tt.items)
			err := Parallelize(tt.items, func(start, end int) error {
				for i := start; i < end; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
				return nil
			})
			require.NoError(t, err)
			for i, n := range seen {
				assert.Equal(t, int32(1), n, "index %d", i)
			}
		})
	}
}

func TestParallelize_ReturnsChunkError(t *testing.T) {
	err := Parallelize(100, func(start, end int) error {
		if start == 0 {
			return errors.New("bad chunk")
		}
		return nil
	})
	assert.EqualError(t, err, "bad chunk")
}

func TestParallelize_RecoversPanic(t *testing.T) {
	err := Parallelize(100, func(start, end int) error {
		if start <= 50 && 50 < end {
			panic("boom")
		}
		return nil
	})
	var pe *errors.PanicError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, "boom", pe.PanicValue)
}

func TestParallelizeWithThreshold_Sequential(t *testing.T) {
	var calls [][2]int
	err := ParallelizeWithThreshold(10, 100, func(start, end int) error {
		calls = append(calls, [2]int{start, end})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 10}}, calls)

	err = ParallelizeWithThreshold(10, 100, func(start, end int) error {
		panic("seq")
	})
	var pe *errors.PanicError
	assert.True(t, errors.As(err, &pe))
}
