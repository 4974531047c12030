package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/response"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxRole   = "role"
	ctxToken  = "access_token"
	ctxClaims = "claims"
)

// TokenBlacklist 已吊销Token查询
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Token
// 2. 检查Token黑名单
// 3. 验证Token并解析角色
// 4. 将用户信息注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
//
//	api := r.Group("/api")
//	api.Use(auth.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			response.Abort(c, apperrors.ErrInvalidToken)
			return
		}

		// 用户已登出或Token被强制失效
		revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if revoked {
			response.Abort(c, apperrors.ErrTokenRevoked)
			return
		}

		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Abort(c, err)
			return
		}

		role, err := user.ParseRole(claims.Role)
		if err != nil {
			response.Abort(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, role)
		c.Set(ctxToken, tokenString)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// RequireRole 要求指定角色，必须放在RequireAuth之后
func RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Abort(c, apperrors.ErrForbidden.WithDetails(map[string]any{
			"user_id": GetUserID(c),
			"role":    role.String(),
		}))
	}
}

// GetUserID 当前登录用户ID，未登录时为空
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetRole 当前登录用户角色，未登录时为零值
func GetRole(c *gin.Context) user.Role {
	if v, ok := c.Get(ctxRole); ok {
		if r, ok := v.(user.Role); ok {
			return r
		}
	}
	return 0
}

// GetRequester 当前请求者
func GetRequester(c *gin.Context) user.Requester {
	return user.Requester{UserID: GetUserID(c), Role: GetRole(c)}
}

// GetAccessToken 当前请求的Access Token(登出时加入黑名单)
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}

// GetClaims 当前Token的Claims
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}
