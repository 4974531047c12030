package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 1. Code 是业务错误码，按号段映射HTTP状态码
// 2. Reason 是稳定的机器可读原因，客户端据此分支处理
// 3. Err 是内部错误，仅记录日志，不返回给客户端
type AppError struct {
	Code    int            `json:"code"`
	Reason  string         `json:"reason"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d %s] %s: %v", e.Code, e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d %s] %s", e.Code, e.Reason, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，WithDetails产生的副本与原始哨兵错误视为同一错误
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Reason == t.Reason
}

// New 创建新的AppError
func New(code int, reason, message string) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Reason:  ReasonInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapDB 包装数据库错误
func WrapDB(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Reason:  ReasonDatabase,
		Message: message,
		Err:     err,
	}
}

// WithDetails 返回附带上下文的副本，不修改预定义错误
func (e *AppError) WithDetails(details map[string]any) *AppError {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	for k, v := range details {
		cp.Details[k] = v
	}
	return &cp
}

// WithMessage 返回替换了提示信息的副本
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// =========================================
// 错误码定义
// =========================================
// - 400xx: 业务规则校验失败
// - 401xx: 认证
// - 403xx: 授权/资格
// - 404xx: 资源不存在
// - 409xx: 唯一性冲突
// - 422xx: 参数错误
// - 5xxxx: 服务端错误

const (
	ErrCodeInternal      = 50000
	ErrCodeDatabaseError = 50001
	ErrCodeRedisError    = 50002

	ErrCodeUnauthorized    = 40100
	ErrCodeInvalidToken    = 40101
	ErrCodeTokenExpired    = 40102
	ErrCodeInvalidPassword = 40103

	ErrCodeForbidden = 40300

	ErrCodeNotFound = 40400

	ErrCodeBusinessError = 40000

	ErrCodeConflict = 40900

	ErrCodeInvalidParams = 42200
	ErrCodeBindError     = 42201
)

// 通用原因
const (
	ReasonInternal        = "INTERNAL_ERROR"
	ReasonDatabase        = "DATABASE_ERROR"
	ReasonCache           = "CACHE_ERROR"
	ReasonUnauthorized    = "UNAUTHORIZED"
	ReasonInvalidToken    = "INVALID_TOKEN"
	ReasonTokenExpired    = "TOKEN_EXPIRED"
	ReasonTokenRevoked    = "TOKEN_REVOKED"
	ReasonInvalidPassword = "INVALID_CREDENTIALS"
	ReasonForbidden       = "FORBIDDEN"
	ReasonNotFound        = "NOT_FOUND"
	ReasonInvalidParams   = "INVALID_PARAMS"
	ReasonBindError       = "MALFORMED_REQUEST"
)

var (
	ErrInternal      = New(ErrCodeInternal, ReasonInternal, "Internal server error")
	ErrDatabaseError = New(ErrCodeDatabaseError, ReasonDatabase, "Database error")
	ErrRedisError    = New(ErrCodeRedisError, ReasonCache, "Cache service error")

	ErrUnauthorized    = New(ErrCodeUnauthorized, ReasonUnauthorized, "Authentication required")
	ErrInvalidToken    = New(ErrCodeInvalidToken, ReasonInvalidToken, "Invalid token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, ReasonTokenExpired, "Token expired")
	ErrTokenRevoked    = New(ErrCodeTokenExpired, ReasonTokenRevoked, "Token has been revoked, please log in again")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, ReasonInvalidPassword, "Invalid email or password")
	ErrForbidden       = New(ErrCodeForbidden, ReasonForbidden, "Access denied")

	ErrNotFound = New(ErrCodeNotFound, ReasonNotFound, "Resource not found")

	ErrInvalidParams = New(ErrCodeInvalidParams, ReasonInvalidParams, "Invalid parameters")
	ErrBindError     = New(ErrCodeBindError, ReasonBindError, "Malformed request body")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error")
}

// InvalidParams 参数错误的快捷构造
func InvalidParams(message string) *AppError {
	return ErrInvalidParams.WithMessage(message)
}

// HTTPStatus 业务错误码 → HTTP状态码
func HTTPStatus(code int) int {
	switch {
	case code == 0:
		return http.StatusOK
	case code >= 50000:
		return http.StatusInternalServerError
	case code >= 42200 && code < 42300:
		return http.StatusBadRequest
	case code >= 40900 && code < 41000:
		return http.StatusConflict
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 40300 && code < 40400:
		return http.StatusForbidden
	case code >= 40100 && code < 40200:
		return http.StatusUnauthorized
	case code >= 40000 && code < 40100:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
