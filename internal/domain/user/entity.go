package user

import (
	"fmt"
	"strings"
	"time"
)

// Role 用户角色(封闭枚举)
// 数据库与JSON中以字符串STUDENT/ADMIN表示，零值非法
type Role uint8

const (
	RoleStudent Role = iota + 1
	RoleAdmin
)

// ParseRole 解析角色字符串(大小写不敏感)
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STUDENT":
		return RoleStudent, nil
	case "ADMIN":
		return RoleAdmin, nil
	default:
		return 0, ErrInvalidRole.WithDetails(map[string]any{"role": s})
	}
}

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "STUDENT"
	case RoleAdmin:
		return "ADMIN"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Valid 是否为已定义的角色
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User 用户实体(聚合根)
// 1. ID形如U1、U2，由持久层的序列生成
// 2. PasswordHash是bcrypt哈希，不对外暴露
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser 创建新用户(工厂方法)
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, name, phone string, role Role) *User {
	now := time.Now()
	return &User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hashedPassword,
		Name:         strings.TrimSpace(name),
		Phone:        strings.TrimSpace(phone),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// EnsureCanBorrow 管理员不能借书
func (u *User) EnsureCanBorrow() error {
	switch u.Role {
	case RoleStudent:
		return nil
	case RoleAdmin:
		return ErrAdminCannotBorrow.WithDetails(map[string]any{
			"user_id":   u.ID,
			"user_kind": u.Role.String(),
		})
	default:
		return ErrInvalidRole
	}
}

// AccessibleBy 本人或管理员可以访问该用户的数据
func (u *User) AccessibleBy(requesterID string, requesterRole Role) bool {
	return requesterRole.IsAdmin() || u.ID == requesterID
}

// Patch 用户资料的部分更新，nil字段保持不变
type Patch struct {
	Name     *string
	Email    *string
	Phone    *string
	Role     *Role
	Password *string // 已加密
}

// Apply 应用部分更新
func (u *User) Apply(p Patch) {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Phone != nil {
		u.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Password != nil {
		u.PasswordHash = *p.Password
	}
	u.UpdatedAt = time.Now()
}

// Requester 当前请求者，来自认证信息
type Requester struct {
	UserID string
	Role   Role
}

// CanAccess 本人或管理员
func (r Requester) CanAccess(userID string) bool {
	return r.Role.IsAdmin() || r.UserID == userID
}
