package payment

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ErrPaymentNotFound = apperrors.New(40404, "PAYMENT_NOT_FOUND", "Payment not found")

	ErrInvalidAmount = apperrors.New(42240, "INVALID_AMOUNT", "Amount must be a positive number")

	ErrInvalidDescription = apperrors.New(42241, "INVALID_DESCRIPTION", "Description must be a non-empty string")

	ErrInvalidStatus = apperrors.New(42242, "INVALID_STATUS", "Status must be one of PENDING, FAILED, PAID")

	ErrNotPaymentOwner = apperrors.New(40305, "NOT_PAYMENT_OWNER", "You can only update your own payments")
)
