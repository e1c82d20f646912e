package seintsrow

import (
	"fmt"

	"github.com/weisyn/seints-row/pkg/types"
)

// 合约错误
var (
	ErrUnauthorized         = types.NewKindError(types.KindUnauthorized, "Unauthorized")
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be greater than zero", types.ErrInvalidInput)
	ErrInvalidDecimals      = fmt.Errorf("%w: decimals must not exceed %d", types.ErrInvalidInput, MaxDecimals)
	ErrInvalidInitialSupply = fmt.Errorf("%w: initial supply must be greater than zero", types.ErrInvalidInput)
	ErrInvalidName          = fmt.Errorf("%w: name must be %d-%d characters", types.ErrInvalidInput, MinNameLength, MaxNameLength)
	ErrInvalidSymbol        = fmt.Errorf("%w: symbol must be %d-%d characters of [A-Za-z0-9-]", types.ErrInvalidInput, MinSymbolLength, MaxSymbolLength)
	ErrInvalidMetadataURL   = fmt.Errorf("%w: metadata url must be an absolute http, https or ipfs url", types.ErrInvalidInput)
	ErrNothingToRelease     = fmt.Errorf("%w: nothing to release yet", types.ErrInvalidInput)
	ErrSendToNonContract    = fmt.Errorf("%w: send target is not a contract", types.ErrInvalidInput)
)

// InsufficientBalanceError 余额不足
type InsufficientBalanceError struct {
	Required  types.Uint128
	Available types.Uint128
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient balance: required %s, available %s", e.Required, e.Available)
}

// Kind 属于调用方输入问题
func (e *InsufficientBalanceError) Kind() types.ErrorKind {
	return types.KindInvalidInput
}

// InvalidAddressError 地址校验失败
type InvalidAddressError struct {
	Field string
	Err   error
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("Invalid address in %s: %v", e.Field, e.Err)
}

func (e *InvalidAddressError) Unwrap() error {
	return e.Err
}

// Kind 属于调用方输入问题
func (e *InvalidAddressError) Kind() types.ErrorKind {
	return types.KindInvalidInput
}
