// Package types 定义合约框架的公共类型：错误分类、数值、地址、环境、响应与结果信封
package types

import (
	"errors"
	"fmt"
)

// ErrorKind 合约错误分类
//
// 宿主通过该分类向交易提交者报告失败原因，分类值会进入结果信封（JSON）
type ErrorKind string

const (
	// KindInvalidInput 调用方提供的数据格式错误或超出范围
	KindInvalidInput ErrorKind = "invalid_input"
	// KindUnauthorized 调用方不具备所需角色/身份
	KindUnauthorized ErrorKind = "unauthorized"
	// KindNotFound 预期存在的存储条目缺失
	KindNotFound ErrorKind = "not_found"
	// KindSerialization 存储字节与模式不一致（视为数据损坏）
	KindSerialization ErrorKind = "serialization"
	// KindUnsupportedMigration 升级时版本或合约身份不匹配
	KindUnsupportedMigration ErrorKind = "unsupported_migration"
	// KindHost 跨合约调用或宿主函数返回的不透明失败
	KindHost ErrorKind = "host"
)

// String 实现 fmt.Stringer
func (k ErrorKind) String() string {
	return string(k)
}

// Valid 判断分类值是否已知
func (k ErrorKind) Valid() bool {
	switch k {
	case KindInvalidInput, KindUnauthorized, KindNotFound, KindSerialization, KindUnsupportedMigration, KindHost:
		return true
	default:
		return false
	}
}

// KindError 携带分类的基础错误，作为各分类的哨兵值
type KindError struct {
	kind ErrorKind
	msg  string
}

// NewKindError 创建带分类的错误
func NewKindError(kind ErrorKind, msg string) *KindError {
	return &KindError{kind: kind, msg: msg}
}

// Error 实现 error 接口
func (e *KindError) Error() string {
	return e.msg
}

// Kind 返回错误分类
func (e *KindError) Kind() ErrorKind {
	return e.kind
}

// 各分类的哨兵错误，使用 fmt.Errorf("%w: ...") 附加细节
var (
	ErrInvalidInput         = NewKindError(KindInvalidInput, "invalid input")
	ErrUnauthorized         = NewKindError(KindUnauthorized, "unauthorized")
	ErrNotFound             = NewKindError(KindNotFound, "not found")
	ErrSerialization        = NewKindError(KindSerialization, "serialization error")
	ErrUnsupportedMigration = NewKindError(KindUnsupportedMigration, "unsupported migration")
	ErrHost                 = NewKindError(KindHost, "host error")

	// ErrOverflow 数值运算溢出，属于调用方输入问题
	ErrOverflow = fmt.Errorf("%w: overflow", ErrInvalidInput)
)

// kinded 可报告分类的错误
type kinded interface {
	Kind() ErrorKind
}

// KindOf 返回错误链上第一个可识别的分类
//
// 未分类的错误（例如存储引擎 I/O 失败）归为 KindHost
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindHost
}

// NotFoundf 构造 NotFound 错误，what 描述缺失的条目
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// InvalidInputf 构造 InvalidInput 错误
func InvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// SerializationErr 包装解码失败，target 为目标类型名
func SerializationErr(target string, err error) error {
	return fmt.Errorf("%w: parsing %s: %v", ErrSerialization, target, err)
}

// HostErr 包装宿主侧失败
func HostErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrHost, op, err)
}
