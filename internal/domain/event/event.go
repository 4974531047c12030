// Package event 借阅与付款相关的领域事件
//
// 事件在事务提交后发布，消费方用于发送通知。
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type 事件类型，同时作为消息的routing key
type Type string

const (
	LoanIssued           Type = "loan.issued"
	LoanReturned         Type = "loan.returned"
	LoanRenewed          Type = "loan.renewed"
	LoanOverdue          Type = "loan.overdue"
	FineCreated          Type = "fine.created"
	PaymentCreated       Type = "payment.created"
	PaymentStatusChanged Type = "payment.status_changed"
)

// Event 事件信封
// 与事件无关的字段留空
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	UserID     string    `json:"user_id,omitempty"`
	BookID     string    `json:"book_id,omitempty"`
	LoanID     string    `json:"loan_id,omitempty"`
	PaymentID  string    `json:"payment_id,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	Status     string    `json:"status,omitempty"`
	DueDate    string    `json:"due_date,omitempty"`
}

// New 创建带唯一ID的事件
func New(t Type, now time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: now.UTC(),
	}
}

// Publisher 事件发布
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
