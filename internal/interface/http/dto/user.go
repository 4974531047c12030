package dto

// RegisterRequest 注册/管理员创建用户
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100" example:"Ada Lovelace"`
	Email    string `json:"email" binding:"required,email" example:"ada@library.org"`
	Password string `json:"password" binding:"required,min=8,max=64" example:"secret123"`
	Phone    string `json:"phone" binding:"omitempty,max=20" example:"555-0100"`
	Role     string `json:"role" binding:"omitempty,role" example:"STUDENT"`
}

// LoginRequest 登录
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ada@library.org"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshRequest 刷新Access Token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateUserRequest 部分更新，只有管理员可以修改role
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Role     *string `json:"role" binding:"omitempty,role"`
	Password *string `json:"password" binding:"omitempty,min=8,max=64"`
}

// ListUsersQuery 用户列表查询参数
type ListUsersQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
	Role     string `form:"role" binding:"omitempty,role"`
}
