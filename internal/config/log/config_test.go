package log

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	configtypes "github.com/weisyn/seints-row/pkg/types"
	"github.com/weisyn/seints-row/pkg/utils"
)

func TestNewDefaults(t *testing.T) {
	cfg := New(nil)
	assert.Equal(t, "info", cfg.GetLevel())
	assert.Equal(t, zapcore.InfoLevel, cfg.GetZapLevel())
	assert.True(t, cfg.IsConsoleEnabled())
	assert.Empty(t, cfg.GetFilePath())
}

func TestApplyUserLogConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv(utils.HomeEnv, home)

	cfg := New(&configtypes.UserLogConfig{
		Level:    configtypes.StringPtr("debug"),
		FilePath: configtypes.StringPtr("logs/host.log"),
	})
	assert.Equal(t, zapcore.DebugLevel, cfg.GetZapLevel())
	assert.Equal(t, filepath.Join(home, "logs", "host.log"), cfg.GetFilePath())
	assert.False(t, cfg.IsConsoleEnabled())
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	cfg := New(&configtypes.UserLogConfig{Level: configtypes.StringPtr("verbose")})
	assert.Equal(t, zapcore.InfoLevel, cfg.GetZapLevel())
}

type stubProvider struct{ opts *LogOptions }

func (s stubProvider) GetLog() *LogOptions { return s.opts }

func TestNewFromProvider(t *testing.T) {
	cfg := NewFromProvider(stubProvider{opts: &LogOptions{Level: "warn"}})
	assert.Equal(t, zapcore.WarnLevel, cfg.GetZapLevel())

	assert.Equal(t, "info", NewFromProvider(struct{}{}).GetLevel())
}

func TestExplicitConsoleAndRotation(t *testing.T) {
	cfg := New(&configtypes.UserLogConfig{
		FilePath:   configtypes.StringPtr("/var/log/seints.log"),
		ToConsole:  configtypes.BoolPtr(true),
		MaxSizeMB:  configtypes.IntPtr(8),
		MaxBackups: configtypes.IntPtr(0),
		Caller:     configtypes.BoolPtr(false),
	})
	assert.True(t, cfg.IsConsoleEnabled())
	assert.False(t, cfg.IsCallerEnabled())

	maxSize, maxBackups, maxAge, compress := cfg.Rotation()
	assert.Equal(t, 8, maxSize)
	assert.Equal(t, 0, maxBackups)
	assert.Equal(t, defaultMaxAge, maxAge)
	assert.True(t, compress)
}
