package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/iyisakuma/NPB-GO/NPB-CG/CG/benchmark"
	"github.com/iyisakuma/NPB-GO/NPB-CG/CG/params"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// clearEnv unsets every variable the command reads for the duration of t.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NPB_CLASS", "NPB_THREADS", "CLASS", "GO_NUM_THREADS",
		"NPB_LOG_LEVEL", "NPB_FORMAT", "NPB_TIMERS", "NPB_CONFIG",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := loadConfig(newViper(), nil)
	require.NoError(t, err)

	assert.Equal(t, "S", cfg.Class.Name)
	assert.Equal(t, runtime.NumCPU(), cfg.Threads)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Timers)
}

func TestLoadConfigPositionalArgs(t *testing.T) {
	clearEnv(t)
	t.Setenv("NPB_CLASS", "A")
	cfg, err := loadConfig(newViper(), []string{"w", "3"})
	require.NoError(t, err)
	assert.Equal(t, "W", cfg.Class.Name)
	assert.Equal(t, 3, cfg.Threads)
}

func TestLoadConfigEnvironment(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantClass   string
		wantThreads int
	}{
		{"prefixed", map[string]string{"NPB_CLASS": "B", "NPB_THREADS": "6"}, "B", 6},
		{"legacy", map[string]string{"CLASS": "c", "GO_NUM_THREADS": "5"}, "C", 5},
		{"prefixed wins", map[string]string{"NPB_CLASS": "A", "CLASS": "D"}, "A", runtime.NumCPU()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := loadConfig(newViper(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClass, cfg.Class.Name)
			assert.Equal(t, tt.wantThreads, cfg.Threads)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "cg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("class: W\nthreads: 2\nlog-level: debug\nformat: yaml\ntimers: true\n"), 0o644))

	v := newViper()
	v.Set("config", path)
	cfg, err := loadConfig(v, nil)
	require.NoError(t, err)
	assert.Equal(t, "W", cfg.Class.Name)
	assert.Equal(t, 2, cfg.Threads)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "yaml", cfg.Format)
	assert.True(t, cfg.Timers)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		set  map[string]any
		want error
	}{
		{"unknown class", []string{"Q"}, nil, params.ErrUnknownClass},
		{"zero threads", []string{"S", "0"}, nil, ErrInvalidThreads},
		{"negative threads", []string{"S", "-2"}, nil, ErrInvalidThreads},
		{"non numeric threads", []string{"S", "many"}, nil, ErrInvalidThreads},
		{"bad format", nil, map[string]any{"format": "json"}, ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			v := newViper()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := loadConfig(v, tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadConfigBadLogLevel(t *testing.T) {
	clearEnv(t)
	v := newViper()
	v.Set("log-level", "loud")
	_, err := loadConfig(v, nil)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearEnv(t)
	v := newViper()
	v.Set("config", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := loadConfig(v, nil)
	assert.Error(t, err)
}

func TestRootCommandYAML(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"S", "2", "--format", "yaml", "--log-level", "warn"})
	require.NoError(t, cmd.Execute())

	var res benchmark.Result
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &res))
	assert.Equal(t, "S", res.Class)
	assert.Equal(t, 2, res.Threads)
	assert.True(t, res.Verified)
	assert.Empty(t, stderr.String())
}

func TestRootCommandText(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--class", "s", "--threads", "3", "--timers"})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.Contains(t, out, " VERIFICATION SUCCESSFUL\n")
	assert.Contains(t, out, " CG Benchmark Completed\n")
	assert.Contains(t, out, "  SECTION   Time (secs)\n")
	assert.Contains(t, stderr.String(), "state=verified")
}

func TestRootCommandRejectsBadInput(t *testing.T) {
	clearEnv(t)
	cmd := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	cmd.SetArgs([]string{"Z"})
	assert.ErrorIs(t, cmd.Execute(), params.ErrUnknownClass)

	cmd = newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	cmd.SetArgs([]string{"S", "1", "extra"})
	assert.Error(t, cmd.Execute())
}
