package types

import "strings"

// Attribute 键值对
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event 自定义事件，宿主会在类型前加 "wasm-" 前缀
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// NewEvent 创建事件
func NewEvent(typ string) Event {
	return Event{Type: typ}
}

// AddAttribute 追加属性
func (e Event) AddAttribute(key, value string) Event {
	e.Attributes = append(e.Attributes, Attribute{Key: key, Value: value})
	return e
}

// Response 执行类入口的成功结果
type Response struct {
	Messages   []SubMsg    `json:"messages"`
	Attributes []Attribute `json:"attributes"`
	Events     []Event     `json:"events"`
	Data       Binary      `json:"data,omitempty"`
}

// NewResponse 空响应
func NewResponse() *Response {
	return &Response{}
}

// AddAttribute 追加属性
func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// AddMessage 追加不需要回调的子消息
func (r *Response) AddMessage(msg CosmosMsg) *Response {
	r.Messages = append(r.Messages, NewSubMsg(msg))
	return r
}

// AddEvent 追加事件
func (r *Response) AddEvent(e Event) *Response {
	r.Events = append(r.Events, e)
	return r
}

// SetData 设置返回数据
func (r *Response) SetData(data []byte) *Response {
	r.Data = data
	return r
}

// Attribute 查找属性值
func (r *Response) Attribute(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// ValidateAttributes 属性键不能为空，且不能使用保留前缀 "_"
func ValidateAttributes(attrs []Attribute) error {
	for _, a := range attrs {
		if strings.TrimSpace(a.Key) == "" {
			return InvalidInputf("empty attribute key")
		}
		if strings.HasPrefix(a.Key, "_") {
			return InvalidInputf("attribute key %q uses reserved prefix", a.Key)
		}
	}
	return nil
}
