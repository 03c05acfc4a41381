package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/wdamron/lower/logger"
)

func TestNewWritesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf)
	log.Debug("rule")
	require.NoError(t, log.Sync())
	require.Contains(t, buf.String(), "rule")
}

func TestConfigLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	c := logger.NewConfig()
	c.Format = "json"
	c.Level = zapcore.WarnLevel
	log := logger.NewWithConfig(&buf, c)
	log.Info("dropped")
	log.Warn("kept")
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), `"msg":"kept"`)
}
