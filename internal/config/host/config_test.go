package host

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	configtypes "github.com/weisyn/seints-row/pkg/types"
)

func TestNewDefaults(t *testing.T) {
	cfg := New(nil)
	assert.Equal(t, "seints-local", cfg.GetChainID())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.GetGenesisTime())
	assert.Equal(t, 5*time.Second, cfg.GetBlockTime())
	assert.Equal(t, 10, cfg.GetMaxCallDepth())
}

func TestApplyUserHostConfig(t *testing.T) {
	version := byte(0x10)
	cfg := New(&configtypes.UserHostConfig{
		ChainID:          configtypes.StringPtr("seints-dev"),
		GenesisTime:      configtypes.StringPtr("2030-06-01T12:00:00+02:00"),
		BlockTimeSeconds: configtypes.UInt64Ptr(6),
		MaxCallDepth:     configtypes.IntPtr(3),
		AddressVersion:   &version,
	})
	assert.Equal(t, "seints-dev", cfg.GetChainID())
	assert.Equal(t, time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC), cfg.GetGenesisTime())
	assert.Equal(t, 6*time.Second, cfg.GetBlockTime())
	assert.Equal(t, 3, cfg.GetMaxCallDepth())
	assert.Equal(t, version, cfg.GetAddressVersion())
}

func TestInvalidValuesKeepDefaults(t *testing.T) {
	cfg := New(&configtypes.UserHostConfig{
		GenesisTime:      configtypes.StringPtr("yesterday"),
		BlockTimeSeconds: configtypes.UInt64Ptr(0),
		MaxCallDepth:     configtypes.IntPtr(-1),
	})
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.GetGenesisTime())
	assert.Equal(t, 5*time.Second, cfg.GetBlockTime())
	assert.Equal(t, 10, cfg.GetMaxCallDepth())
}
