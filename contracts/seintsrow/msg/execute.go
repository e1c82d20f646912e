package msg

import "github.com/weisyn/seints-row/pkg/types"

// ExecuteMsg 状态变更消息
type ExecuteMsg interface {
	Variant
	// Dispatch 把消息交给处理器中对应的方法
	Dispatch(h ExecuteHandler) (*types.Response, error)
}

// ExecuteHandler 每个 ExecuteMsg 变体一个方法
type ExecuteHandler interface {
	Transfer(m *Transfer) (*types.Response, error)
	Burn(m *Burn) (*types.Response, error)
	Send(m *Send) (*types.Response, error)
	UpdateOwner(m *UpdateOwner) (*types.Response, error)
	UpdateMetadata(m *UpdateMetadata) (*types.Response, error)
	ReleaseVested(m *ReleaseVested) (*types.Response, error)
	ReleasePool(m *ReleasePool) (*types.Response, error)
}

// Transfer 从调用者向 recipient 转账
type Transfer struct {
	Recipient string        `json:"recipient"`
	Amount    types.Uint128 `json:"amount"`
}

// Burn 销毁调用者的代币
type Burn struct {
	Amount types.Uint128 `json:"amount"`
}

// Send 转账给合约并触发其 receive 入口
type Send struct {
	Contract string        `json:"contract"`
	Amount   types.Uint128 `json:"amount"`
	Msg      types.Binary  `json:"msg"`
}

// UpdateOwner 转移所有权（仅所有者）
type UpdateOwner struct {
	NewOwner string `json:"new_owner"`
}

// UpdateMetadata 更新元数据地址（仅所有者）
type UpdateMetadata struct {
	MetadataURL string `json:"metadata_url"`
}

// ReleaseVested 释放调用者已到期的团队锁仓
type ReleaseVested struct{}

// ReleasePool 释放调用者已到期的资金池份额
type ReleasePool struct{}

func (*Transfer) Tag() string       { return "transfer" }
func (*Burn) Tag() string           { return "burn" }
func (*Send) Tag() string           { return "send" }
func (*UpdateOwner) Tag() string    { return "update_owner" }
func (*UpdateMetadata) Tag() string { return "update_metadata" }
func (*ReleaseVested) Tag() string  { return "release_vested" }
func (*ReleasePool) Tag() string    { return "release_pool" }

func (m *Transfer) Dispatch(h ExecuteHandler) (*types.Response, error) {
	return h.Transfer(m)
}

func (m *Burn) Dispatch(h ExecuteHandler) (*types.Response, error) {
	return h.Burn(m)
}

func (m *Send) Dispatch(h ExecuteHandler) (*types.Response, error) {
	return h.Send(m)
}

func (m *UpdateOwner) Dispatch(h ExecuteHandler) (*types.Response, error) {
	return h.UpdateOwner(m)
}

func (m *UpdateMetadata) Dispatch(h ExecuteHandler) (*types.Response, error) {
	return h.UpdateMetadata(m)
}

func (m *ReleaseVested) Dispatch(h ExecuteHandler) (*types.Response, error) {
	return h.ReleaseVested(m)
}

func (m *ReleasePool) Dispatch(h ExecuteHandler) (*types.Response, error) {
	return h.ReleasePool(m)
}

var executeVariants = map[string]func() ExecuteMsg{
	"transfer":        func() ExecuteMsg { return &Transfer{} },
	"burn":            func() ExecuteMsg { return &Burn{} },
	"send":            func() ExecuteMsg { return &Send{} },
	"update_owner":    func() ExecuteMsg { return &UpdateOwner{} },
	"update_metadata": func() ExecuteMsg { return &UpdateMetadata{} },
	"release_vested":  func() ExecuteMsg { return &ReleaseVested{} },
	"release_pool":    func() ExecuteMsg { return &ReleasePool{} },
}

// DecodeExecuteMsg 解码执行消息，结构错误返回 InvalidInput
func DecodeExecuteMsg(data []byte) (ExecuteMsg, error) {
	return decodeUnion("ExecuteMsg", data, executeVariants)
}
