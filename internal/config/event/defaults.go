package event

// 事件系统默认配置值
const (
	// defaultEnabled 默认启用事件发布
	defaultEnabled = true

	// defaultHistorySize 保留的最近事件数量
	defaultHistorySize = 256

	// defaultAsync 默认同步投递，调用返回时订阅者已处理完毕
	defaultAsync = false
)
