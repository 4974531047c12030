package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/pkg/jwt"
)

// SessionStore 登录会话与Token黑名单
type SessionStore interface {
	SaveSession(ctx context.Context, userID string, data map[string]any, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID string) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// LoginUseCase 用户登录用例
// 1. 验证邮箱密码
// 2. 生成JWT Token对
// 3. 保存会话到Redis
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore SessionStore
	log          *slog.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore SessionStore,
	log *slog.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		log:          log,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, u.Name, u.Role.String())
	if err != nil {
		return nil, err
	}

	sessionData := map[string]any{
		"user_id":  u.ID,
		"email":    u.Email,
		"role":     u.Role.String(),
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}

	// 会话有效期 = Refresh Token有效期
	// 会话保存失败不影响登录
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, uc.jwtManager.RefreshTokenTTL()); err != nil {
		uc.log.WarnContext(ctx, "save session failed", slog.String("user_id", u.ID), slog.Any("error", err))
	}

	uc.log.InfoContext(ctx, "user logged in", slog.String("user_id", u.ID))

	return &LoginResponse{
		User:         NewUserView(u),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore SessionStore
	jwtManager   *jwt.Manager
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore SessionStore, jwtManager *jwt.Manager) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore, jwtManager: jwtManager}
}

// Execute 执行登出
// Access Token加入黑名单，防止在过期前继续使用
func (uc *LogoutUseCase) Execute(ctx context.Context, userID, accessToken string) error {
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}
	return uc.sessionStore.AddToBlacklist(ctx, accessToken, uc.jwtManager.AccessTokenTTL())
}

// RefreshTokenUseCase 用Refresh Token换取新的Access Token
// 角色从仓储重新加载，角色变更在刷新后生效
type RefreshTokenUseCase struct {
	users      user.Repository
	jwtManager *jwt.Manager
}

func NewRefreshTokenUseCase(users user.Repository, jwtManager *jwt.Manager) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{users: users, jwtManager: jwtManager}
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := uc.jwtManager.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := uc.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	access, err := uc.jwtManager.RefreshAccessToken(refreshToken, u.Email, u.Name, u.Role.String())
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{
		AccessToken: access,
		ExpiresIn:   int64(uc.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

// NopSessionStore 未启用Redis时使用，登出后Token在过期前仍然有效
type NopSessionStore struct{}

func (NopSessionStore) SaveSession(context.Context, string, map[string]any, time.Duration) error {
	return nil
}

func (NopSessionStore) DeleteSession(context.Context, string) error { return nil }

func (NopSessionStore) AddToBlacklist(context.Context, string, time.Duration) error { return nil }

// IsInBlacklist 始终返回false
func (NopSessionStore) IsInBlacklist(context.Context, string) (bool, error) { return false, nil }

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserView `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // Access Token过期时间(秒)
}

// RefreshResponse 刷新响应
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
