package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/chain-explorer/internal/config"
	"github.com/thanhnp/chain-explorer/internal/logging"
)

func TestNew(t *testing.T) {
	tests := map[string]struct {
		cfg           config.LogConfig
		expectedLevel logrus.Level
		errContains   string
	}{
		"text debug": {
			cfg:           config.LogConfig{Level: "debug", Format: "text"},
			expectedLevel: logrus.DebugLevel,
		},
		"json warn": {
			cfg:           config.LogConfig{Level: "warn", Format: "json"},
			expectedLevel: logrus.WarnLevel,
		},
		"bad level": {
			cfg:         config.LogConfig{Level: "loud"},
			errContains: "invalid log level",
		},
		"bad format": {
			cfg:         config.LogConfig{Level: "info", Format: "xml"},
			errContains: "unknown log format",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			logger, err := logging.New(test.cfg)
			if test.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedLevel, logger.GetLevel())
		})
	}
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explorer.log")
	logger, err := logging.New(config.LogConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	logger.WithField("component", "test").Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
