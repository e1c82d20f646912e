package types

// QueryRequest 合约向宿主发出的查询，恰好设置一个字段
type QueryRequest struct {
	Wasm *WasmQuery `json:"wasm,omitempty"`
}

// WasmQuery 针对其他合约实例的查询
type WasmQuery struct {
	Smart        *SmartQuery        `json:"smart,omitempty"`
	Raw          *RawQuery          `json:"raw,omitempty"`
	ContractInfo *ContractInfoQuery `json:"contract_info,omitempty"`
}

// SmartQuery 调用目标合约的 query 入口，响应为原始字节
type SmartQuery struct {
	ContractAddr string `json:"contract_addr"`
	Msg          Binary `json:"msg"`
}

// RawQuery 直接读取目标合约存储中的一个键，响应为原始字节（缺失时为空）
type RawQuery struct {
	ContractAddr string `json:"contract_addr"`
	Key          Binary `json:"key"`
}

// ContractInfoQuery 查询实例元信息
type ContractInfoQuery struct {
	ContractAddr string `json:"contract_addr"`
}

// ContractInfoResponse 实例元信息
type ContractInfoResponse struct {
	CodeID  uint64 `json:"code_id"`
	Creator string `json:"creator"`
	Admin   string `json:"admin,omitempty"`
	Label   string `json:"label"`
}
