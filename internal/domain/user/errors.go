package user

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 用户领域错误定义
var (
	ErrUserNotFound = apperrors.New(40401, "USER_NOT_FOUND", "User not found")

	ErrEmailDuplicate = apperrors.New(40901, "EMAIL_TAKEN", "User already exists")

	ErrInvalidEmail = apperrors.New(42210, "INVALID_EMAIL", "Invalid email address")

	// ErrWeakPassword 密码8-64位，需同时包含字母和数字
	ErrWeakPassword = apperrors.New(42211, "WEAK_PASSWORD", "Password must be 8-64 characters and contain letters and digits")

	ErrInvalidName = apperrors.New(42212, "INVALID_NAME", "Name must be 2-100 characters")

	ErrInvalidRole = apperrors.New(42213, "INVALID_ROLE", "Role must be STUDENT or ADMIN")

	// ErrAdminCannotBorrow 管理员账号不能借书
	ErrAdminCannotBorrow = apperrors.New(40301, "USER_IS_ADMIN", "Cannot issue books to admin users")

	ErrRoleChangeForbidden = apperrors.New(40302, "ROLE_CHANGE_FORBIDDEN", "Only admins can change user roles")

	// 删除用户的前置条件
	ErrHasActiveLoans     = apperrors.New(40010, "USER_HAS_ACTIVE_LOANS", "Cannot delete user with active book loans")
	ErrHasPendingPayments = apperrors.New(40011, "USER_HAS_PENDING_PAYMENTS", "Cannot delete user with pending payments")
)
