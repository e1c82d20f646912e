package host

import (
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/seints-row/pkg/types"
)

// hostApi 以 Base58Check 地址实现 types.Api
type hostApi struct {
	addrs    crypto.AddressManager
	logger   log.Logger
	contract types.Addr
}

var _ types.Api = (*hostApi)(nil)

// AddrValidate 校验地址
func (a *hostApi) AddrValidate(human string) (types.Addr, error) {
	if err := a.addrs.Validate(human); err != nil {
		return "", invalidAddress(human, err)
	}
	return types.Addr(human), nil
}

// AddrCanonicalize 地址 → 20 字节哈希
func (a *hostApi) AddrCanonicalize(human string) (types.CanonicalAddr, error) {
	hash, err := a.addrs.Decode(human)
	if err != nil {
		return nil, invalidAddress(human, err)
	}
	return types.CanonicalAddr(hash), nil
}

// AddrHumanize 20 字节哈希 → 地址
func (a *hostApi) AddrHumanize(canonical types.CanonicalAddr) (types.Addr, error) {
	human, err := a.addrs.Encode(canonical)
	if err != nil {
		return "", types.InvalidInputf("invalid canonical address: %v", err)
	}
	return types.Addr(human), nil
}

// Debug 合约调试输出
func (a *hostApi) Debug(msg string) {
	a.logger.Debugf("[%s] %s", a.contract, msg)
}
