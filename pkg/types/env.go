package types

// BlockInfo 当前区块信息
type BlockInfo struct {
	Height  uint64    `json:"height"`
	Time    Timestamp `json:"time"`
	ChainID string    `json:"chain_id"`
}

// ContractInfo 当前执行的合约
type ContractInfo struct {
	Address Addr `json:"address"`
}

// Env 宿主提供的执行环境，在一次调用内不变
type Env struct {
	Block    BlockInfo    `json:"block"`
	Contract ContractInfo `json:"contract"`
}

// MessageInfo 调用者身份与随附资金
type MessageInfo struct {
	Sender Addr   `json:"sender"`
	Funds  []Coin `json:"funds"`
}
