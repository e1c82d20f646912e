package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// maxUint128 2^128 - 1
var maxUint128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// Uint128 无符号 128 位整数，JSON 中序列化为十进制字符串
//
// 内部使用 256 位表示，所有运算在写回前检查是否超过 128 位上界
type Uint128 struct {
	v uint256.Int
}

// NewUint128 从 uint64 构造
func NewUint128(n uint64) Uint128 {
	var u Uint128
	u.v.SetUint64(n)
	return u
}

// ZeroUint128 返回 0
func ZeroUint128() Uint128 {
	return Uint128{}
}

// ParseUint128 解析十进制字符串
func ParseUint128(s string) (Uint128, error) {
	var u Uint128
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return u, InvalidInputf("invalid uint128 %q", s)
	}
	// 只接受规范十进制
	if len(s) > 1 && s[0] == '0' {
		return u, InvalidInputf("invalid uint128 %q: leading zero", s)
	}
	if err := u.v.SetFromDecimal(s); err != nil {
		return u, InvalidInputf("invalid uint128 %q: %v", s, err)
	}
	if u.v.Gt(maxUint128) {
		return Uint128{}, fmt.Errorf("%w: %s exceeds uint128", ErrOverflow, s)
	}
	return u, nil
}

// MustParseUint128 解析失败时 panic，仅用于常量与测试
func MustParseUint128(s string) Uint128 {
	u, err := ParseUint128(s)
	if err != nil {
		panic(err)
	}
	return u
}

// String 十进制表示
func (u Uint128) String() string {
	return u.v.Dec()
}

// IsZero 是否为 0
func (u Uint128) IsZero() bool {
	return u.v.IsZero()
}

// Uint64 返回低 64 位以及是否无损
func (u Uint128) Uint64() (uint64, bool) {
	return u.v.Uint64(), u.v.IsUint64()
}

// Cmp 比较：-1 小于，0 等于，1 大于
func (u Uint128) Cmp(o Uint128) int {
	return u.v.Cmp(&o.v)
}

// Equal 是否相等
func (u Uint128) Equal(o Uint128) bool {
	return u.v.Eq(&o.v)
}

// LT 是否小于
func (u Uint128) LT(o Uint128) bool {
	return u.v.Lt(&o.v)
}

// GTE 是否大于等于
func (u Uint128) GTE(o Uint128) bool {
	return !u.v.Lt(&o.v)
}

// CheckedAdd 加法，超过 128 位返回溢出错误
func (u Uint128) CheckedAdd(o Uint128) (Uint128, error) {
	var r Uint128
	r.v.Add(&u.v, &o.v)
	if r.v.Gt(maxUint128) {
		return Uint128{}, fmt.Errorf("%w: %s + %s", ErrOverflow, u, o)
	}
	return r, nil
}

// CheckedSub 减法，结果为负返回溢出错误
func (u Uint128) CheckedSub(o Uint128) (Uint128, error) {
	if u.v.Lt(&o.v) {
		return Uint128{}, fmt.Errorf("%w: %s - %s", ErrOverflow, u, o)
	}
	var r Uint128
	r.v.Sub(&u.v, &o.v)
	return r, nil
}

// CheckedMul 乘法
func (u Uint128) CheckedMul(o Uint128) (Uint128, error) {
	var r Uint128
	if _, overflow := r.v.MulOverflow(&u.v, &o.v); overflow || r.v.Gt(maxUint128) {
		return Uint128{}, fmt.Errorf("%w: %s * %s", ErrOverflow, u, o)
	}
	return r, nil
}

// CheckedDiv 整除，除数为 0 时返回 InvalidInput
func (u Uint128) CheckedDiv(o Uint128) (Uint128, error) {
	if o.IsZero() {
		return Uint128{}, InvalidInputf("division by zero")
	}
	var r Uint128
	r.v.Div(&u.v, &o.v)
	return r, nil
}

// MultiplyRatio 计算 u * num / denom（向下取整）
//
// 两个 128 位数的乘积不超过 256 位，中间结果不会丢失精度
func (u Uint128) MultiplyRatio(num, denom uint64) (Uint128, error) {
	if denom == 0 {
		return Uint128{}, InvalidInputf("multiply ratio: zero denominator")
	}
	var r Uint128
	r.v.Mul(&u.v, uint256.NewInt(num))
	r.v.Div(&r.v, uint256.NewInt(denom))
	if r.v.Gt(maxUint128) {
		return Uint128{}, fmt.Errorf("%w: %s * %d / %d", ErrOverflow, u, num, denom)
	}
	return r, nil
}

// MarshalJSON 十进制字符串
func (u Uint128) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON 只接受十进制字符串
func (u *Uint128) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return InvalidInputf("uint128 must be a decimal string: %v", err)
	}
	parsed, err := ParseUint128(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
