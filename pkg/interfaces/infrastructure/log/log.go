// Package log 日志接口
//
// 各模块只依赖该接口，具体实现由 internal/core/infrastructure/log 提供
package log

import "go.uber.org/zap"

// Logger 日志记录器
//
// 不提供 Fatal，错误通过返回值上报
type Logger interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})

	// With 返回附加键值对字段的记录器
	With(args ...interface{}) Logger

	// Sync 刷新缓冲区，进程退出前调用
	Sync() error

	// GetZapLogger 底层 zap 记录器，用于需要强类型字段的场景
	GetZapLogger() *zap.Logger
}
