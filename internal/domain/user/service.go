package user

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Service 用户领域服务
// 密码加密、校验等不属于单个实体的逻辑放在这里
type Service interface {
	// Register 注册用户，校验邮箱、密码强度、姓名
	Register(ctx context.Context, params RegisterParams) (*User, error)

	// Authenticate 邮箱+密码登录
	// 邮箱不存在与密码错误返回同一个错误，避免枚举账号
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// HashPassword 校验强度并加密
	HashPassword(password string) (string, error)

	ValidatePassword(hashedPassword, plainPassword string) error
}

// RegisterParams 注册参数
type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     Role
}

// Option 服务选项
type Option func(*service)

// WithBcryptCost 指定bcrypt cost(测试使用bcrypt.MinCost)
func WithBcryptCost(cost int) Option {
	return func(s *service) {
		s.cost = cost
	}
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务，bcrypt cost默认12
func NewService(repo Repository, opts ...Option) Service {
	s := &service{repo: repo, cost: 12}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if !IsValidEmail(params.Email) {
		return nil, ErrInvalidEmail
	}

	if err := ValidateName(params.Name); err != nil {
		return nil, err
	}

	role := params.Role
	if role == 0 {
		role = RoleStudent
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hashed, err := s.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	u := NewUser(params.Email, hashed, params.Name, params.Phone, role)

	// 邮箱唯一性由UNIQUE索引保证，Repository转换为ErrEmailDuplicate
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(u.PasswordHash, password); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) HashPassword(password string) (string, error) {
	if err := validatePasswordStrength(password); err != nil {
		return "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return string(hashed), nil
}

func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "failed to verify password")
	}
	return nil
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// IsValidEmail 邮箱格式校验
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateName 姓名2-100个字符
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 100 {
		return ErrInvalidName
	}
	return nil
}

func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 64 {
		return ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
