package msg

import "github.com/weisyn/seints-row/pkg/types"

// InstantiateMsg 创建代币
//
// owner 缺省为调用者；team_address / pool_address 缺省时对应份额归所有者
type InstantiateMsg struct {
	Name          string        `json:"name"`
	Symbol        string        `json:"symbol"`
	Decimals      uint8         `json:"decimals"`
	InitialSupply types.Uint128 `json:"initial_supply"`
	Owner         *string       `json:"owner,omitempty"`
	TeamAddress   *string       `json:"team_address,omitempty"`
	PoolAddress   *string       `json:"pool_address,omitempty"`
	MetadataURL   *string       `json:"metadata_url,omitempty"`
}

// DecodeInstantiateMsg 严格解码
func DecodeInstantiateMsg(data []byte) (*InstantiateMsg, error) {
	var m InstantiateMsg
	if err := decodeStruct("InstantiateMsg", data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// MigrateMsg 迁移参数，当前版本没有字段
type MigrateMsg struct{}

// DecodeMigrateMsg 严格解码
func DecodeMigrateMsg(data []byte) (*MigrateMsg, error) {
	var m MigrateMsg
	if err := decodeStruct("MigrateMsg", data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReceiveMsg send 触发的回调，接收方合约应支持 {"receive": {...}}
type ReceiveMsg struct {
	Sender string        `json:"sender"`
	Amount types.Uint128 `json:"amount"`
	Msg    types.Binary  `json:"msg"`
}

// Tag 实现 Variant
func (*ReceiveMsg) Tag() string { return "receive" }

// ReceiverExecuteMsg 接收方合约的执行消息外形
type ReceiverExecuteMsg struct {
	Receive *ReceiveMsg `json:"receive"`
}
