package types

import "fmt"

// CosmosMsg 合约请求宿主执行的消息，恰好设置一个字段
type CosmosMsg struct {
	Wasm *WasmMsg `json:"wasm,omitempty"`
	Bank *BankMsg `json:"bank,omitempty"`
}

// WasmMsg 合约模块消息，恰好设置一个字段
type WasmMsg struct {
	// Execute 调用另一个合约，sender 由宿主填为当前合约地址
	Execute *WasmExecuteMsg `json:"execute,omitempty"`
	// Instantiate 由已存储的代码创建新实例
	Instantiate *WasmInstantiateMsg `json:"instantiate,omitempty"`
	// Migrate 迁移目标合约，要求当前合约是其管理员
	Migrate *WasmMigrateMsg `json:"migrate,omitempty"`
}

// WasmExecuteMsg 跨合约调用
type WasmExecuteMsg struct {
	ContractAddr string `json:"contract_addr"`
	Msg          Binary `json:"msg"`
	Funds        []Coin `json:"funds"`
}

// WasmInstantiateMsg 跨合约实例化
type WasmInstantiateMsg struct {
	Admin  string `json:"admin,omitempty"`
	CodeID uint64 `json:"code_id"`
	Msg    Binary `json:"msg"`
	Funds  []Coin `json:"funds"`
	Label  string `json:"label"`
}

// WasmMigrateMsg 跨合约迁移
type WasmMigrateMsg struct {
	ContractAddr string `json:"contract_addr"`
	NewCodeID    uint64 `json:"new_code_id"`
	Msg          Binary `json:"msg"`
}

// BankMsg 原生代币转账
type BankMsg struct {
	Send *BankSendMsg `json:"send,omitempty"`
}

// BankSendMsg 向地址发送原生代币
type BankSendMsg struct {
	ToAddress string `json:"to_address"`
	Amount    []Coin `json:"amount"`
}

// Validate 检查消息恰好设置了一个分支
func (m CosmosMsg) Validate() error {
	switch {
	case m.Wasm != nil && m.Bank == nil:
		n := 0
		for _, set := range []bool{m.Wasm.Execute != nil, m.Wasm.Instantiate != nil, m.Wasm.Migrate != nil} {
			if set {
				n++
			}
		}
		if n != 1 {
			return InvalidInputf("wasm message must set exactly one variant, got %d", n)
		}
		return nil
	case m.Bank != nil && m.Wasm == nil:
		if m.Bank.Send == nil {
			return InvalidInputf("bank message must set a variant")
		}
		return nil
	default:
		return InvalidInputf("cosmos message must set exactly one variant")
	}
}

// String 简短描述，用于日志
func (m CosmosMsg) String() string {
	switch {
	case m.Wasm != nil && m.Wasm.Execute != nil:
		return fmt.Sprintf("wasm/execute(%s)", m.Wasm.Execute.ContractAddr)
	case m.Wasm != nil && m.Wasm.Instantiate != nil:
		return fmt.Sprintf("wasm/instantiate(code %d)", m.Wasm.Instantiate.CodeID)
	case m.Wasm != nil && m.Wasm.Migrate != nil:
		return fmt.Sprintf("wasm/migrate(%s)", m.Wasm.Migrate.ContractAddr)
	case m.Bank != nil && m.Bank.Send != nil:
		return fmt.Sprintf("bank/send(%s)", m.Bank.Send.ToAddress)
	default:
		return "unknown"
	}
}

// ReplyOn 子消息回调策略
type ReplyOn string

const (
	ReplyNever ReplyOn = "never"
)

// SubMsg 附带回调策略的消息
//
// 宿主不向合约回调 reply，子消息失败会使整个调用回滚
type SubMsg struct {
	ID      uint64    `json:"id"`
	Msg     CosmosMsg `json:"msg"`
	ReplyOn ReplyOn   `json:"reply_on"`
}

// NewSubMsg 不需要回调的子消息
func NewSubMsg(msg CosmosMsg) SubMsg {
	return SubMsg{Msg: msg, ReplyOn: ReplyNever}
}
