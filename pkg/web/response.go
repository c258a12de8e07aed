package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
	"github.com/lk2023060901/xdooria-economy/pkg/web/errors"
)

// Response 统一响应结构
type Response struct {
	Code      int    `json:"code"`    // 业务错误码，0 表示成功
	Message   string `json:"message"`
	Data      any    `json:"data"`
	RequestID string `json:"request_id,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:      errors.CodeOK,
		Message:   "ok",
		Data:      data,
		RequestID: requestID(c),
	})
}

// Fail 按业务错误码响应，HTTP 状态码由 CodeToStatus 推导
func Fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(errors.CodeToStatus(code), Response{
		Code:      code,
		Message:   message,
		RequestID: requestID(c),
	})
}

func requestID(c *gin.Context) string {
	id, _ := logger.RequestIDFromContext(c.Request.Context())
	return id
}
