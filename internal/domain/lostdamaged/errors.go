package lostdamaged

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	ErrRecordNotFound = apperrors.New(40405, "LOST_DAMAGED_NOT_FOUND", "Lost or damaged book record not found")

	ErrInvalidQuantity = apperrors.New(42250, "INVALID_QUANTITY", "Quantity must be a non-negative integer")

	ErrRecordExists = apperrors.New(40920, "LOST_DAMAGED_EXISTS", "Book already has a lost or damaged record")

	ErrExceedsAvailable = apperrors.New(40020, "EXCEEDS_AVAILABLE", "Requested quantity exceeds available book quantity")
)
