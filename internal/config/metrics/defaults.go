package metrics

const (
	// defaultEnabled 默认采集指标
	defaultEnabled = true

	// defaultNamespace 指标名前缀
	defaultNamespace = "seints"
)
