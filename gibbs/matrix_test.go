package gibbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixCounts(t *testing.T) {
	m := NewMatrix(2, 3)
	m.Incr(1, 2)
	m.Incr(1, 2)
	m.Incr(0, 0)
	m.Decr(1, 2)

	rows, cols := m.Shape()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 1, m.Get(1, 2))
	assert.Equal(t, []int{1, 0, 0}, m.Row(0))
	assert.Equal(t, []int{0, 0, 1}, m.Row(1))
}

func TestMatrixDecrBelowZeroPanics(t *testing.T) {
	m := NewMatrix(1, 1)
	assert.PanicsWithValue(t, ErrNegativeCount, func() { m.Decr(0, 0) })
}

func TestMatrixEqual(t *testing.T) {
	a, b := NewMatrix(2, 2), NewMatrix(2, 2)
	assert.True(t, a.Equal(b))
	a.Incr(0, 1)
	assert.False(t, a.Equal(b))
	assert.False(t, NewMatrix(1, 4).Equal(NewMatrix(2, 2)))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"no topics", func(c *Config) { c.NumTopics = 0 }, false},
		{"zero alpha", func(c *Config) { c.Alpha = 0 }, false},
		{"burn-in too long", func(c *Config) { c.BurnIn = c.NumIters }, false},
		{"no lag", func(c *Config) { c.SampleLags = 0 }, false},
		{"optimization off", func(c *Config) { c.OptimizationInterval = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
