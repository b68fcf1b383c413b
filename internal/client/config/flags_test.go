package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		start       *Config
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name:  "all flags",
			args:  []string{"-a", "http://10.0.0.5:8000", "-t", "3", "-s", "/tmp/s.db", "-l", "debug"},
			start: &Config{},
			expected: &Config{ServerBaseURL: "http://10.0.0.5:8000", RequestTimeout: 3 * time.Second,
				StorePath: "/tmp/s.db", LogLevel: "debug"},
		},
		{
			name:     "foreign flags ignored, timeout untouched",
			args:     []string{"-c", "cfg.json", "-x", "1", "-a", "http://h:1"},
			start:    &Config{RequestTimeout: 1500 * time.Millisecond},
			expected: &Config{ServerBaseURL: "http://h:1", RequestTimeout: 1500 * time.Millisecond},
		},
		{
			name:        "incorrect timeout",
			args:        []string{"-t", "abc"},
			start:       &Config{},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(tt.start, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(tt.start, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, tt.start))
		})
	}
}
