package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	ErrBookNotFound = apperrors.New(40402, "BOOK_NOT_FOUND", "Book not found")

	ErrISBNDuplicate = apperrors.New(40902, "ISBN_TAKEN", "A book with this ISBN already exists")

	ErrInvalidCategory = apperrors.New(42220, "INVALID_CATEGORY", "Invalid category. Please provide a valid category from the predefined list.")

	ErrInvalidQuantity = apperrors.New(42221, "INVALID_QUANTITY", "Quantity must be a non-negative integer")

	ErrInvalidISBN = apperrors.New(42222, "INVALID_ISBN", "ISBN must contain 10 or 13 digits")

	ErrMissingFields = apperrors.New(42223, "MISSING_FIELDS", "Title, ISBN, author, publisher and category are required")

	// ErrBookUnavailable 可借数量为0
	ErrBookUnavailable = apperrors.New(40001, "BOOK_UNAVAILABLE", "Book is not available")

	// ErrBookOnLoan 存在未归还的借阅时不能删除
	ErrBookOnLoan = apperrors.New(40012, "BOOK_ON_LOAN", "Cannot delete a book that is currently issued")
)
