package user

import (
	"time"

	"github.com/xiebiao/library/internal/domain/user"
)

// UserView 用户响应DTO，不包含密码
type UserView struct {
	ID        string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserView(u *user.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewUserViews(list []*user.User) []UserView {
	views := make([]UserView, len(list))
	for i, u := range list {
		views[i] = NewUserView(u)
	}
	return views
}
