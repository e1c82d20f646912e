package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weisyn/seints-row/pkg/types"
)

func TestDefaults(t *testing.T) {
	cfg := New(nil)
	assert.True(t, cfg.IsEnabled())
	assert.Equal(t, 256, cfg.GetHistorySize())
	assert.False(t, cfg.IsAsync())
}

func TestUserOverrides(t *testing.T) {
	cfg := New(&types.UserEventConfig{
		Enabled:     types.BoolPtr(false),
		HistorySize: types.IntPtr(8),
		Async:       types.BoolPtr(true),
	})
	assert.False(t, cfg.IsEnabled())
	assert.Equal(t, 8, cfg.GetHistorySize())
	assert.True(t, cfg.IsAsync())

	// 负数忽略
	cfg = New(&types.UserEventConfig{HistorySize: types.IntPtr(-1)})
	assert.Equal(t, 256, cfg.GetHistorySize())
}
