// Package address Base58Check 地址编解码
package address

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/ripemd160"

	cryptointf "github.com/weisyn/seints-row/pkg/interfaces/infrastructure/crypto"
)

const (
	// DefaultVersion 默认版本字节，编码后地址以 "S" 开头
	DefaultVersion byte = 0x3f
	// AddressHashLength 地址哈希长度
	AddressHashLength = 20

	accountDomain  = "seints/account/"
	contractDomain = "seints/contract/"
)

var (
	// ErrInvalidAddress 无效的地址格式
	ErrInvalidAddress = errors.New("invalid address format")
	// ErrInvalidAddressLength 无效的地址长度
	ErrInvalidAddressLength = errors.New("invalid address length")
	// ErrInvalidVersion 无效的版本字节
	ErrInvalidVersion = errors.New("invalid address version")
	// ErrInvalidChecksum 校验和错误
	ErrInvalidChecksum = errors.New("invalid checksum")
)

// AddressService 地址服务，版本字节在创建时确定
type AddressService struct {
	version byte
}

var _ cryptointf.AddressManager = (*AddressService)(nil)

// NewAddressService 创建地址服务
func NewAddressService(version byte) *AddressService {
	return &AddressService{version: version}
}

// Version 版本字节
func (s *AddressService) Version() byte {
	return s.version
}

// Encode 把 20 字节哈希编码为地址
func (s *AddressService) Encode(hash []byte) (string, error) {
	if len(hash) != AddressHashLength {
		return "", fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddressLength, AddressHashLength, len(hash))
	}
	return base58.CheckEncode(hash, s.version), nil
}

// Decode 解码并校验地址
func (s *AddressService) Decode(address string) ([]byte, error) {
	if address == "" {
		return nil, ErrInvalidAddress
	}
	payload, version, err := base58.CheckDecode(address)
	switch {
	case errors.Is(err, base58.ErrChecksum):
		return nil, ErrInvalidChecksum
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if version != s.version {
		return nil, fmt.Errorf("%w: got 0x%02x, want 0x%02x", ErrInvalidVersion, version, s.version)
	}
	if len(payload) != AddressHashLength {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidAddressLength, len(payload))
	}
	return payload, nil
}

// Validate 校验地址
func (s *AddressService) Validate(address string) error {
	_, err := s.Decode(address)
	return err
}

// AccountAddress 由种子推导账户地址
func (s *AddressService) AccountAddress(seed string) string {
	return base58.CheckEncode(hash160([]byte(accountDomain+seed)), s.version)
}

// ContractAddress 由代码ID与实例序号推导合约地址
func (s *AddressService) ContractAddress(codeID, instanceSeq uint64) string {
	buf := make([]byte, len(contractDomain)+16)
	n := copy(buf, contractDomain)
	binary.BigEndian.PutUint64(buf[n:], codeID)
	binary.BigEndian.PutUint64(buf[n+8:], instanceSeq)
	return base58.CheckEncode(hash160(buf), s.version)
}

// hash160 RIPEMD160(SHA256(data))
func hash160(data []byte) []byte {
	sum := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}
