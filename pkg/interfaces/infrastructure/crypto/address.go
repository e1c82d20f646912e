// Package crypto 地址编解码接口
//
// 账户地址和合约地址使用同一种 Base58Check 格式：
// 版本字节(1) + 哈希(20) + 校验和(4)，校验和为双 SHA256 的前 4 字节
package crypto

// AddressManager 地址管理
type AddressManager interface {
	// Version 当前链使用的版本字节
	Version() byte

	// Encode 把 20 字节哈希编码为地址
	Encode(hash []byte) (string, error)

	// Decode 解码并校验地址，返回 20 字节哈希
	// 版本字节与当前链不一致、校验和错误或长度错误都会失败
	Decode(address string) ([]byte, error)

	// Validate 只做校验
	Validate(address string) error

	// AccountAddress 由任意种子（例如账户名）推导账户地址，本地开发时使用
	AccountAddress(seed string) string

	// ContractAddress 由代码ID与实例序号推导合约地址，结果确定且不重复
	ContractAddress(codeID, instanceSeq uint64) string
}
