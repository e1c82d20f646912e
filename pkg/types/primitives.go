package types

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"
)

// Addr 经过 Api.AddrValidate 校验的人类可读地址
//
// 直接从字符串转换得到的 Addr 不保证有效，外部输入必须经过校验
type Addr string

// String 实现 fmt.Stringer
func (a Addr) String() string {
	return string(a)
}

// Bytes 地址的字节形式，用作存储键
func (a Addr) Bytes() []byte {
	return []byte(a)
}

// Binary 原始字节，JSON 中为标准 base64
type Binary []byte

// MarshalJSON base64 编码
func (b Binary) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.StdEncoding.EncodeToString(b))
}

// UnmarshalJSON base64 解码
func (b *Binary) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return InvalidInputf("binary must be a base64 string: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return InvalidInputf("invalid base64: %v", err)
	}
	*b = raw
	return nil
}

// String base64 表示
func (b Binary) String() string {
	return base64.StdEncoding.EncodeToString(b)
}

// Timestamp 自 Unix 纪元起的纳秒数，JSON 中为十进制字符串
type Timestamp uint64

// TimestampFromSeconds 由秒构造
func TimestampFromSeconds(sec uint64) Timestamp {
	return Timestamp(sec * uint64(time.Second))
}

// TimestampFromTime 由 time.Time 构造
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(uint64(t.UnixNano()))
}

// Nanos 纳秒
func (t Timestamp) Nanos() uint64 {
	return uint64(t)
}

// Seconds 整秒
func (t Timestamp) Seconds() uint64 {
	return uint64(t) / uint64(time.Second)
}

// PlusSeconds 增加若干秒
func (t Timestamp) PlusSeconds(sec uint64) Timestamp {
	return t + Timestamp(sec*uint64(time.Second))
}

// PlusDays 增加若干天
func (t Timestamp) PlusDays(days uint64) Timestamp {
	return t.PlusSeconds(days * 24 * 60 * 60)
}

// Time 转换为 time.Time（UTC）
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t)).UTC()
}

// String 十进制纳秒
func (t Timestamp) String() string {
	return strconv.FormatUint(uint64(t), 10)
}

// MarshalJSON 十进制字符串
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON 十进制字符串
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return InvalidInputf("timestamp must be a decimal string: %v", err)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return InvalidInputf("invalid timestamp %q: %v", s, err)
	}
	*t = Timestamp(n)
	return nil
}

// Coin 原生代币
type Coin struct {
	Denom  string  `json:"denom"`
	Amount Uint128 `json:"amount"`
}

// NewCoin 构造 Coin
func NewCoin(amount uint64, denom string) Coin {
	return Coin{Denom: denom, Amount: NewUint128(amount)}
}
