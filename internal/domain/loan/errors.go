package loan

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借还流程错误定义
// Reason是稳定的机器可读原因，前端据此提示“图书已借出”“存在未缴罚款”等
var (
	ErrLoanNotFound = apperrors.New(40403, "LOAN_NOT_FOUND", "Issue record not found")

	ErrAlreadyIssued = apperrors.New(40002, "BOOK_ALREADY_ISSUED", "Book is already issued")

	ErrAlreadyReturned = apperrors.New(40003, "LOAN_ALREADY_RETURNED", "Book has already been returned")

	ErrReturnBeforeIssue = apperrors.New(40004, "RETURN_BEFORE_ISSUE", "Return date cannot be before issue date")

	ErrInvalidDate = apperrors.New(42230, "INVALID_DATE", "Date must be a valid date in YYYY-MM-DD format")

	// ErrPendingPayment 用户存在PENDING状态的罚款/付款
	ErrPendingPayment = apperrors.New(40303, "PENDING_PAYMENT", "User has a pending payment")

	// ErrNotLoanOwner 续借只允许借阅人本人或管理员
	ErrNotLoanOwner = apperrors.New(40304, "NOT_LOAN_OWNER", "Only the borrower or an admin can renew this loan")
)
