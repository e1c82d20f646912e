// Package types 网关的请求与错误结构
package types

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	coretypes "github.com/weisyn/seints-row/pkg/types"
)

// ProblemDetails 错误响应（RFC7807）
//
// Code 为 ErrorKind，客户端按分类处理，不解析 Detail
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Code      string `json:"code"`
	TraceID   string `json:"traceId"`
	Timestamp string `json:"timestamp"`
}

// Error 实现 error 接口
func (p *ProblemDetails) Error() string {
	return p.Detail
}

// 分类对应的 HTTP 状态
var kindStatus = map[coretypes.ErrorKind]int{
	coretypes.KindInvalidInput:         http.StatusBadRequest,
	coretypes.KindSerialization:        http.StatusBadRequest,
	coretypes.KindUnauthorized:         http.StatusForbidden,
	coretypes.KindNotFound:             http.StatusNotFound,
	coretypes.KindUnsupportedMigration: http.StatusConflict,
	coretypes.KindHost:                 http.StatusInternalServerError,
}

// StatusOf 错误分类对应的 HTTP 状态
func StatusOf(kind coretypes.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NewProblemDetails 由错误构造响应，traceID 为空时生成新 ID
func NewProblemDetails(err error, instance, traceID string) *ProblemDetails {
	var pd *ProblemDetails
	if errors.As(err, &pd) {
		return pd
	}
	if traceID == "" {
		traceID = uuid.New().String()
	}
	kind := coretypes.KindOf(err)
	status := StatusOf(kind)
	return &ProblemDetails{
		Type:      "about:blank",
		Title:     http.StatusText(status),
		Status:    status,
		Detail:    err.Error(),
		Instance:  instance,
		Code:      kind.String(),
		TraceID:   traceID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
