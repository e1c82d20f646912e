package host

import "time"

const (
	// defaultChainID 本地宿主链ID
	defaultChainID = "seints-local"

	// defaultGenesisTime 创世区块时间，固定值保证重放结果一致
	defaultGenesisTime = "2024-01-01T00:00:00Z"

	// defaultBlockTime 每个区块推进的时间
	defaultBlockTime = 5 * time.Second

	// defaultMaxCallDepth 子消息最大递归深度
	defaultMaxCallDepth = 10

	// defaultAddressVersion 合约地址的 Base58Check 版本字节
	defaultAddressVersion byte = 0x3f
)
