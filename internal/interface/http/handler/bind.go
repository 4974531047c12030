package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// bindJSON 绑定请求体，失败时输出错误响应并返回false
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, bindError(err))
		return false
	}
	return true
}

// bindQuery 绑定查询参数
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.Error(c, bindError(err))
		return false
	}
	return true
}

// bindError 校验失败时按字段列出未通过的规则
func bindError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.ErrBindError.WithDetails(map[string]any{"error": err.Error()})
	}

	fields := make(map[string]any, len(ve))
	names := make([]string, 0, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		fields[name] = fe.Tag()
		names = append(names, name)
	}
	return apperrors.InvalidParams("Invalid value for: " + strings.Join(names, ", ")).WithDetails(fields)
}
