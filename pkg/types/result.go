package types

import (
	"encoding/json"
	"errors"
)

// ErrorPayload 结果信封中的错误
type ErrorPayload struct {
	ErrorKind ErrorKind `json:"kind"`
	Message   string    `json:"message"`
}

// Error 实现 error，使信封错误可以沿调用链继续传递分类
func (p *ErrorPayload) Error() string {
	return p.Message
}

// Kind 错误分类，未知分类按宿主错误处理
func (p *ErrorPayload) Kind() ErrorKind {
	if p.ErrorKind.Valid() {
		return p.ErrorKind
	}
	return KindHost
}

// NewErrorPayload 由 error 构造
func NewErrorPayload(err error) *ErrorPayload {
	return &ErrorPayload{ErrorKind: KindOf(err), Message: err.Error()}
}

// ContractResult instantiate/execute/migrate 入口的结果信封
//
//	{"ok": {...Response}} 或 {"error": {"kind": "...", "message": "..."}}
type ContractResult struct {
	Ok  *Response     `json:"ok,omitempty"`
	Err *ErrorPayload `json:"error,omitempty"`
}

// ContractOk 成功
func ContractOk(resp *Response) ContractResult {
	if resp == nil {
		resp = NewResponse()
	}
	return ContractResult{Ok: resp}
}

// ContractErr 失败
func ContractErr(err error) ContractResult {
	return ContractResult{Err: NewErrorPayload(err)}
}

// Unwrap 拆开信封
func (r ContractResult) Unwrap() (*Response, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Ok == nil {
		return nil, HostErr("contract result", errors.New("empty envelope"))
	}
	return r.Ok, nil
}

// QueryResult query 入口的结果信封，成功时携带响应 JSON
type QueryResult struct {
	Ok  json.RawMessage `json:"ok,omitempty"`
	Err *ErrorPayload   `json:"error,omitempty"`
}

// QueryOk 成功
func QueryOk(data []byte) QueryResult {
	return QueryResult{Ok: json.RawMessage(data)}
}

// QueryErr 失败
func QueryErr(err error) QueryResult {
	return QueryResult{Err: NewErrorPayload(err)}
}

// Unwrap 拆开信封
func (r QueryResult) Unwrap() ([]byte, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Ok == nil {
		return nil, HostErr("query result", errors.New("empty envelope"))
	}
	return r.Ok, nil
}
