package msg

// QueryMsg 只读查询消息
type QueryMsg interface {
	Variant
	// Dispatch 调用处理器中对应的方法，返回该变体专属的响应类型
	Dispatch(h QueryHandler) (interface{}, error)
}

// QueryHandler 每个 QueryMsg 变体一个方法
type QueryHandler interface {
	GetTokenInfo(m *GetTokenInfo) (*TokenInfoResponse, error)
	GetBalance(m *GetBalance) (*BalanceResponse, error)
	GetOwner(m *GetOwner) (*OwnerResponse, error)
	GetMetadata(m *GetMetadata) (*MetadataResponse, error)
	GetVestingInfo(m *GetVestingInfo) (*VestingInfoResponse, error)
	GetPoolReleaseInfo(m *GetPoolReleaseInfo) (*PoolReleaseInfoResponse, error)
	AllBalances(m *AllBalances) (*AllBalancesResponse, error)
	GetContractVersion(m *GetContractVersion) (*ContractVersionResponse, error)
}

// GetTokenInfo 代币信息
type GetTokenInfo struct{}

// GetBalance 地址余额，未知地址为 0
type GetBalance struct {
	Address string `json:"address"`
}

// GetOwner 当前所有者
type GetOwner struct{}

// GetMetadata 元数据地址
type GetMetadata struct{}

// GetVestingInfo 团队锁仓计划，按到期时间（秒）分页
type GetVestingInfo struct {
	Address    string  `json:"address"`
	StartAfter *uint64 `json:"start_after,omitempty"`
	Limit      *uint32 `json:"limit,omitempty"`
}

// GetPoolReleaseInfo 资金池释放计划，按到期时间（秒）分页
type GetPoolReleaseInfo struct {
	Address    string  `json:"address"`
	StartAfter *uint64 `json:"start_after,omitempty"`
	Limit      *uint32 `json:"limit,omitempty"`
}

// AllBalances 按地址升序分页列出余额
type AllBalances struct {
	StartAfter *string `json:"start_after,omitempty"`
	Limit      *uint32 `json:"limit,omitempty"`
}

// GetContractVersion 已记录的合约身份与版本
type GetContractVersion struct{}

func (*GetTokenInfo) Tag() string       { return "get_token_info" }
func (*GetBalance) Tag() string         { return "get_balance" }
func (*GetOwner) Tag() string           { return "get_owner" }
func (*GetMetadata) Tag() string        { return "get_metadata" }
func (*GetVestingInfo) Tag() string     { return "get_vesting_info" }
func (*GetPoolReleaseInfo) Tag() string { return "get_pool_release_info" }
func (*AllBalances) Tag() string        { return "all_balances" }
func (*GetContractVersion) Tag() string { return "get_contract_version" }

func (m *GetTokenInfo) Dispatch(h QueryHandler) (interface{}, error) {
	return h.GetTokenInfo(m)
}

func (m *GetBalance) Dispatch(h QueryHandler) (interface{}, error) {
	return h.GetBalance(m)
}

func (m *GetOwner) Dispatch(h QueryHandler) (interface{}, error) {
	return h.GetOwner(m)
}

func (m *GetMetadata) Dispatch(h QueryHandler) (interface{}, error) {
	return h.GetMetadata(m)
}

func (m *GetVestingInfo) Dispatch(h QueryHandler) (interface{}, error) {
	return h.GetVestingInfo(m)
}

func (m *GetPoolReleaseInfo) Dispatch(h QueryHandler) (interface{}, error) {
	return h.GetPoolReleaseInfo(m)
}

func (m *AllBalances) Dispatch(h QueryHandler) (interface{}, error) {
	return h.AllBalances(m)
}

func (m *GetContractVersion) Dispatch(h QueryHandler) (interface{}, error) {
	return h.GetContractVersion(m)
}

var queryVariants = map[string]func() QueryMsg{
	"get_token_info":        func() QueryMsg { return &GetTokenInfo{} },
	"get_balance":           func() QueryMsg { return &GetBalance{} },
	"get_owner":             func() QueryMsg { return &GetOwner{} },
	"get_metadata":          func() QueryMsg { return &GetMetadata{} },
	"get_vesting_info":      func() QueryMsg { return &GetVestingInfo{} },
	"get_pool_release_info": func() QueryMsg { return &GetPoolReleaseInfo{} },
	"all_balances":          func() QueryMsg { return &AllBalances{} },
	"get_contract_version":  func() QueryMsg { return &GetContractVersion{} },
}

// DecodeQueryMsg 解码查询消息，结构错误返回 InvalidInput
func DecodeQueryMsg(data []byte) (QueryMsg, error) {
	return decodeUnion("QueryMsg", data, queryVariants)
}
