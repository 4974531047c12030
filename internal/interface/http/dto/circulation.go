package dto

import (
	"github.com/shopspring/decimal"
)

// IssueBookRequest 借书
type IssueBookRequest struct {
	UserID string `json:"user_id" binding:"required,userid" example:"U2"`
	BookID string `json:"book_id" binding:"required,bookid" example:"B1"`
}

// ReturnBookRequest 还书，日期格式YYYY-MM-DD
type ReturnBookRequest struct {
	ReturnDate string `json:"return_date" binding:"required,datetime=2006-01-02" example:"2025-04-20"`
}

// CreatePaymentRequest 创建付款，user_id为空时为本人
type CreatePaymentRequest struct {
	UserID      string          `json:"user_id" binding:"omitempty,userid" example:"U2"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"10.00"`
	Description string          `json:"description" binding:"required,max=255" example:"Late return fine"`
}

// UpdatePaymentRequest 提交支付结果
type UpdatePaymentRequest struct {
	Status        string `json:"status" binding:"omitempty,payment_status" example:"PAID"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,max=50" example:"card"`
	TransactionID string `json:"transaction_id" binding:"omitempty,max=100" example:"txn_0001"`
}

// PaymentStatusRequest 管理员修改状态
type PaymentStatusRequest struct {
	Status string `json:"status" binding:"required,payment_status" example:"PAID"`
}

// ListPaymentsQuery 付款列表查询参数
type ListPaymentsQuery struct {
	Status string `form:"status" binding:"omitempty,payment_status"`
}

// LostDamagedRequest 登记遗失/损坏数量
type LostDamagedRequest struct {
	BookID   string `json:"book_id" binding:"required,bookid" example:"B1"`
	Quantity *int   `json:"quantity" binding:"required,min=0" example:"1"`
}

// LostDamagedUpdateRequest 修改登记数量，0表示删除登记并恢复数量
type LostDamagedUpdateRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0" example:"0"`
}

// ListLoansQuery 借阅列表查询参数
type ListLoansQuery struct {
	UserID   string `form:"user_id" binding:"omitempty,userid"`
	BookID   string `form:"book_id" binding:"omitempty,bookid"`
	Returned *bool  `form:"returned"`
}
