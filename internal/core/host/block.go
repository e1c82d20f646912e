package host

import (
	"time"

	hostconfig "github.com/weisyn/seints-row/internal/config/host"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/seints-row/pkg/types"
)

// blockState 持久化的区块状态，链ID始终取自配置
type blockState struct {
	Height uint64          `json:"height"`
	Time   types.Timestamp `json:"time"`
}

// loadBlock 读取当前区块，尚未推进过时为创世区块（高度 1）
func loadBlock(r storage.BadgerReader, cfg *hostconfig.Config) (types.BlockInfo, error) {
	state := blockState{Height: 1, Time: types.TimestampFromTime(cfg.GetGenesisTime())}
	if _, err := getJSON(r, blockKey, &state); err != nil {
		return types.BlockInfo{}, err
	}
	return types.BlockInfo{Height: state.Height, Time: state.Time, ChainID: cfg.GetChainID()}, nil
}

func saveBlock(tx storage.BadgerTransaction, block types.BlockInfo) error {
	return putJSON(tx, blockKey, blockState{Height: block.Height, Time: block.Time})
}

func advance(block types.BlockInfo, n uint64, blockTime time.Duration) types.BlockInfo {
	block.Height += n
	block.Time = types.Timestamp(block.Time.Nanos() + n*uint64(blockTime.Nanoseconds()))
	return block
}

func loadCode(r storage.BadgerReader, id uint64) (*CodeRecord, error) {
	var rec CodeRecord
	ok, err := getJSON(r, codeKey(id), &rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, codeNotFound(id)
	}
	return &rec, nil
}
