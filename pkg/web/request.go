package web

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	weberrors "github.com/lk2023060901/xdooria-economy/pkg/web/errors"
)

// BindJSON 绑定并校验 JSON 请求体，失败时写入 CodeInvalidParams 响应并返回 false
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			Fail(c, weberrors.CodeInvalidParams, verrs.Error())
			return false
		}
		Fail(c, weberrors.CodeInvalidParams, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// ParamInt64 解析路径参数为 int64
func ParamInt64(c *gin.Context, key string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil {
		Fail(c, weberrors.CodeInvalidParams, "invalid "+key)
		return 0, false
	}
	return v, true
}

// QueryInt 解析查询参数，缺省时返回 def
func QueryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		Fail(c, weberrors.CodeInvalidParams, "invalid "+key)
		return 0, false
	}
	return v, true
}
