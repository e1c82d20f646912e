package contractversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/seints-row/pkg/contracttest"
	"github.com/weisyn/seints-row/pkg/types"
)

func TestSetAndGet(t *testing.T) {
	store := contracttest.NewMemoryStorage()

	_, err := Get(store)
	assert.Equal(t, types.KindNotFound, types.KindOf(err))

	require.NoError(t, Set(store, "seints_row", "0.1.0"))
	got, err := Get(store)
	require.NoError(t, err)
	assert.Equal(t, VersionInfo{Contract: "seints_row", Version: "0.1.0"}, got)

	raw, err := store.Get([]byte(InfoKey))
	require.NoError(t, err)
	assert.JSONEq(t, `{"contract":"seints_row","version":"0.1.0"}`, string(raw))

	err = Set(store, "seints_row", "v1")
	assert.Equal(t, types.KindInvalidInput, types.KindOf(err))
}

func TestAssertCompatible(t *testing.T) {
	tests := []struct {
		name    string
		stored  VersionInfo
		target  VersionInfo
		wantErr bool
	}{
		{"相同版本", VersionInfo{"seints_row", "0.1.0"}, VersionInfo{"seints_row", "0.1.0"}, false},
		{"升级", VersionInfo{"seints_row", "0.0.9"}, VersionInfo{"seints_row", "0.1.0"}, false},
		{"预发布升级", VersionInfo{"seints_row", "0.1.0-rc.1"}, VersionInfo{"seints_row", "0.1.0"}, false},
		{"降级", VersionInfo{"seints_row", "0.2.0"}, VersionInfo{"seints_row", "0.1.0"}, true},
		{"身份不同", VersionInfo{"other", "0.1.0"}, VersionInfo{"seints_row", "0.1.0"}, true},
		{"非法版本", VersionInfo{"seints_row", "latest"}, VersionInfo{"seints_row", "0.1.0"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertCompatible(tt.stored, tt.target)
			if tt.wantErr {
				assert.Equal(t, types.KindUnsupportedMigration, types.KindOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestQuery(t *testing.T) {
	deps := contracttest.MockDependencies()
	deps.Querier.SetRaw("other", []byte(InfoKey), []byte(`{"contract":"cw20","version":"1.2.3"}`))

	got, err := Query(deps.Mut().Querier, "other")
	require.NoError(t, err)
	assert.Equal(t, VersionInfo{Contract: "cw20", Version: "1.2.3"}, got)

	_, err = Query(deps.Mut().Querier, "missing")
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}
