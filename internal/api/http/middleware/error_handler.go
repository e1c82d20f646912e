package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apitypes "github.com/weisyn/seints-row/internal/api/types"
)

// ErrorHandler 把处理器登记的最后一个错误写成 Problem Details
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		problem := apitypes.NewProblemDetails(c.Errors.Last().Err, c.Request.URL.Path, GetRequestID(c))
		c.Header("Content-Type", "application/problem+json")
		c.JSON(problem.Status, problem)
	}
}

// BodyLimit 限制请求体大小
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
