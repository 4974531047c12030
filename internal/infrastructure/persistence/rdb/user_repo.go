package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// userRepository 用户仓储实现
// 1. 邮箱唯一性由数据库UNIQUE索引保证(而非应用层SELECT再INSERT)
// 2. kind列保存角色名(STUDENT/ADMIN)，读取时解析回封闭的Role枚举
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 返回domain层的接口类型
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		id, err := nextID(tx, prefixUser)
		if err != nil {
			return apperrors.WrapDB(err, "generate user id failed")
		}
		model.ID = id
		if err := tx.Create(model).Error; err != nil {
			if isDuplicateError(err) {
				return user.ErrEmailDuplicate
			}
			return apperrors.WrapDB(err, "create user failed")
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var model UserModel
	if err := conn(ctx, r.db).Where("user_id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, user.ErrUserNotFound.WithDetails(map[string]any{"user_id": id})
		}
		return nil, apperrors.WrapDB(err, "query user failed")
	}
	return toUserEntity(&model)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := conn(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.WrapDB(err, "query user failed")
	}
	return toUserEntity(&model)
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	if err := conn(ctx, r.db).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return user.ErrEmailDuplicate
		}
		return apperrors.WrapDB(err, "update user failed")
	}
	u.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("user_id = ?", id).Delete(&UserModel{})
	if res.Error != nil {
		return apperrors.WrapDB(res.Error, "delete user failed")
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound.WithDetails(map[string]any{"user_id": id})
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, params user.ListParams) ([]*user.User, int64, error) {
	var (
		models []UserModel
		total  int64
	)

	query := conn(ctx, r.db).Model(&UserModel{})
	if params.Keyword != "" {
		kw := likePattern(params.Keyword)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", kw, kw)
	}
	if params.Role != nil {
		query = query.Where("kind = ?", params.Role.String())
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "count users failed")
	}

	query = query.Order("created_at DESC").Order("user_id ASC")
	if params.PageSize > 0 {
		page := max(params.Page, 1)
		query = query.Limit(params.PageSize).Offset((page - 1) * params.PageSize)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "list users failed")
	}

	users := make([]*user.User, 0, len(models))
	for i := range models {
		u, err := toUserEntity(&models[i])
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, nil
}

func toUserModel(u *user.User) *UserModel {
	m := &UserModel{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Name:      u.Name,
		Kind:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Phone != "" {
		phone := u.Phone
		m.Phone = &phone
	}
	return m
}

// toUserEntity kind列出现未知值说明数据被外部改坏，按数据库错误处理
func toUserEntity(m *UserModel) (*user.User, error) {
	role, err := user.ParseRole(m.Kind)
	if err != nil {
		return nil, apperrors.WrapDB(err, "corrupt user kind")
	}
	u := &user.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.Password,
		Name:         m.Name,
		Role:         role,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Phone != nil {
		u.Phone = *m.Phone
	}
	return u, nil
}
