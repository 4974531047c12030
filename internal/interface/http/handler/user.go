package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// UserHandler 认证与用户管理
// Handler只负责解析请求、调用应用层、输出响应
type UserHandler struct {
	register   *appuser.RegisterUseCase
	login      *appuser.LoginUseCase
	logout     *appuser.LogoutUseCase
	refresh    *appuser.RefreshTokenUseCase
	profile    *appuser.ProfileUseCase
	listUsers  *appuser.ListUsersUseCase
	getUser    *appuser.GetUserUseCase
	updateUser *appuser.UpdateUserUseCase
	deleteUser *appuser.DeleteUserUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	register *appuser.RegisterUseCase,
	login *appuser.LoginUseCase,
	logout *appuser.LogoutUseCase,
	refresh *appuser.RefreshTokenUseCase,
	profile *appuser.ProfileUseCase,
	listUsers *appuser.ListUsersUseCase,
	getUser *appuser.GetUserUseCase,
	updateUser *appuser.UpdateUserUseCase,
	deleteUser *appuser.DeleteUserUseCase,
) *UserHandler {
	return &UserHandler{
		register:   register,
		login:      login,
		logout:     logout,
		refresh:    refresh,
		profile:    profile,
		listUsers:  listUsers,
		getUser:    getUser,
		updateUser: updateUser,
		deleteUser: deleteUser,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  role默认为STUDENT
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} response.Response{data=appuser.UserView} "注册成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.register.Execute(c.Request.Context(), appuser.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "User registered", u)
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证邮箱密码，返回JWT Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse} "登录成功"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.login.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logout 登出
// @Summary      登出
// @Description  删除会话并吊销当前Access Token
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	err := h.logout.Execute(c.Request.Context(), middleware.GetUserID(c), middleware.GetAccessToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "Logged out", nil)
}

// Refresh 刷新Access Token
// @Summary      刷新Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=appuser.RefreshResponse}
// @Failure      401 {object} response.Response "Token无效或已过期"
// @Router       /api/auth/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.refresh.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Verify 校验Token
// @Summary      校验Token
// @Description  返回当前Token的用户信息
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/auth/verify [get]
func (h *UserHandler) Verify(c *gin.Context) {
	claims := middleware.GetClaims(c)
	data := gin.H{
		"user_id": middleware.GetUserID(c),
		"role":    middleware.GetRole(c),
	}
	if claims != nil {
		data["email"] = claims.Email
		data["name"] = claims.Name
		data["expires_at"] = claims.ExpiresAt
	}
	response.Success(c, data)
}

// Profile 个人主页
// @Summary      个人主页
// @Description  资料、当前借阅、最近10条归还记录、待付款项、最近10条已付款项
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.ProfileResponse}
// @Router       /api/users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	result, err := h.profile.Execute(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// List 用户列表
// @Summary      用户列表(管理员)
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量"
// @Param        keyword   query string false "姓名或邮箱"
// @Param        role      query string false "角色" Enums(STUDENT, ADMIN)
// @Success      200 {object} response.Response{data=response.PageData{list=[]appuser.UserView}}
// @Router       /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q dto.ListUsersQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.listUsers.Execute(c.Request.Context(), appuser.ListUsersRequest{
		Page:     q.Page,
		PageSize: q.PageSize,
		Keyword:  q.Keyword,
		Role:     q.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// Get 用户详情
// @Summary      用户详情
// @Description  本人或管理员
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "用户ID" example(U1)
// @Success      200 {object} response.Response{data=appuser.UserView}
// @Failure      403 {object} response.Response "无权访问"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.getUser.Execute(c.Request.Context(), c.Param("id"), middleware.GetRequester(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, u)
}

// Create 管理员创建用户
// @Summary      创建用户(管理员)
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RegisterRequest true "用户信息"
// @Success      201 {object} response.Response{data=appuser.UserView}
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	h.Register(c)
}

// Update 修改用户
// @Summary      修改用户
// @Description  本人或管理员，只有管理员可以修改角色
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                true "用户ID"
// @Param        request body dto.UpdateUserRequest true "需要修改的字段"
// @Success      200 {object} response.Response{data=appuser.UserView}
// @Failure      403 {object} response.Response "无权修改"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.updateUser.Execute(c.Request.Context(), appuser.UpdateUserRequest{
		ID:        c.Param("id"),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		Password:  req.Password,
		Requester: middleware.GetRequester(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, u)
}

// Delete 删除用户
// @Summary      删除用户(管理员)
// @Description  有未归还借阅或待付款项时拒绝
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "用户ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "有未归还借阅或待付款项"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.deleteUser.Execute(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "User deleted", nil)
}
