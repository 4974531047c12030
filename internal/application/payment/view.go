package payment

import (
	"time"

	"github.com/xiebiao/library/internal/domain/payment"
)

// PaymentView 付款响应DTO，金额固定两位小数
type PaymentView struct {
	ID            string    `json:"payment_id"`
	UserID        string    `json:"user_id"`
	Amount        string    `json:"amount"`
	Status        string    `json:"status"`
	Description   string    `json:"description"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewPaymentView(p *payment.Payment) PaymentView {
	return PaymentView{
		ID:            p.ID,
		UserID:        p.UserID,
		Amount:        p.Amount.StringFixed(2),
		Status:        p.Status.String(),
		Description:   p.Description,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func NewPaymentViews(list []*payment.Payment) []PaymentView {
	views := make([]PaymentView, len(list))
	for i, p := range list {
		views[i] = NewPaymentView(p)
	}
	return views
}
