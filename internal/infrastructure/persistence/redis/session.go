package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

const (
	sessionPrefix   = "session:"
	blacklistPrefix = "blacklist:"
)

// SessionStore 会话存储
// 1. 登录会话 session:{user_id}，Hash结构，有效期与Refresh Token一致
// 2. Token黑名单 blacklist:{token}，有效期与Access Token一致，过期自动删除
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// SaveSession 保存用户会话
// HSet与Expire放在同一个Pipeline里，减少一次网络往返
func (s *SessionStore) SaveSession(ctx context.Context, userID string, data map[string]any, ttl time.Duration) error {
	key := sessionPrefix + userID

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, data)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return redisError(err, "save session failed")
	}
	return nil
}

// GetSession 获取用户会话，不存在时返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, userID string) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionPrefix+userID).Result()
	if err != nil {
		return nil, redisError(err, "get session failed")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除用户会话(登出)
func (s *SessionStore) DeleteSession(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, sessionPrefix+userID).Err(); err != nil {
		return redisError(err, "delete session failed")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistPrefix+token, "revoked", ttl).Err(); err != nil {
		return redisError(err, "blacklist token failed")
	}
	return nil
}

// IsInBlacklist 检查Token是否已被吊销
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, redisError(err, "check blacklist failed")
	}
	return n > 0, nil
}

func redisError(err error, message string) error {
	return &apperrors.AppError{
		Code:    apperrors.ErrRedisError.Code,
		Reason:  apperrors.ErrRedisError.Reason,
		Message: message,
		Err:     err,
	}
}
