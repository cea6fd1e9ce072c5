package engine

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{name: "defaults", opts: nil},
		{name: "workers", opts: []Option{WithWorkers(8), WithParallelThreshold(100)}},
		{name: "zero workers", opts: []Option{WithWorkers(0)}, wantErr: true},
		{name: "too many workers", opts: []Option{WithWorkers(1000)}, wantErr: true},
		{name: "negative threshold", opts: []Option{WithParallelThreshold(-1)}, wantErr: true},
		{name: "empty suffix", opts: []Option{WithJoinSuffix("")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.opts...)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid config")
				return
			}
			assert.NilError(t, err)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DATATABLE_AUTO_INDEX", "true")
	t.Setenv("DATATABLE_WORKERS", "4")
	t.Setenv("DATATABLE_JOIN_SUFFIX", ".y")

	cfg, err := ConfigFromEnv()
	assert.NilError(t, err)
	assert.Equal(t, cfg.AutoIndex, true)
	assert.Equal(t, cfg.Workers, 4)
	assert.Equal(t, cfg.JoinSuffix, ".y")
	assert.Equal(t, cfg.ParallelThreshold, DefaultConfig().ParallelThreshold)

	t.Setenv("DATATABLE_WORKERS", "many")
	_, err = ConfigFromEnv()
	assert.ErrorContains(t, err, "DATATABLE_WORKERS")
}

func TestTableRejectsInvalidConfig(t *testing.T) {
	_, err := FromColumns([]Column{Col("x", []int{1})}, Configure(WithWorkers(0)))
	assert.ErrorContains(t, err, "invalid config")
}
