package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status 付款状态(封闭枚举)
// 管理员可在任意状态之间修改，借还流程只会创建PENDING
type Status uint8

const (
	StatusPending Status = iota + 1
	StatusFailed
	StatusPaid
)

// ParseStatus 解析状态字符串(大小写不敏感)
func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PENDING":
		return StatusPending, nil
	case "FAILED":
		return StatusFailed, nil
	case "PAID":
		return StatusPaid, nil
	default:
		return 0, ErrInvalidStatus.WithDetails(map[string]any{
			"status":         s,
			"allowed_values": []string{"PENDING", "FAILED", "PAID"},
		})
	}
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusFailed:
		return "FAILED"
	case StatusPaid:
		return "PAID"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusFailed, StatusPaid:
		return true
	default:
		return false
	}
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid payment status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// FineDescription 逾期罚款的描述
const FineDescription = "Late return fine"

// Payment 付款/罚款记录
// 1. ID形如P1、P2
// 2. 金额使用decimal，两位小数
type Payment struct {
	ID            string
	UserID        string
	Amount        decimal.Decimal
	Status        Status
	Description   string
	PaymentMethod string
	TransactionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPayment 用户发起的付款，状态为PENDING
func NewPayment(userID string, amount decimal.Decimal, description string) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount.WithDetails(map[string]any{"amount": amount.String()})
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrInvalidDescription
	}

	now := time.Now()
	return &Payment{
		UserID:      userID,
		Amount:      amount.Round(2),
		Status:      StatusPending,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewFine 逾期归还产生的罚款
func NewFine(userID string, amount decimal.Decimal) *Payment {
	now := time.Now()
	return &Payment{
		UserID:      userID,
		Amount:      amount.Round(2),
		Status:      StatusPending,
		Description: FineDescription,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsPending 是否未结清
func (p *Payment) IsPending() bool {
	return p.Status == StatusPending
}

func (p *Payment) IsOwnedBy(userID string) bool {
	return p.UserID == userID
}

// ChangeStatus 修改状态，返回状态是否实际发生变化
func (p *Payment) ChangeStatus(s Status) (bool, error) {
	if !s.Valid() {
		return false, ErrInvalidStatus
	}
	if p.Status == s {
		return false, nil
	}
	p.Status = s
	p.UpdatedAt = time.Now()
	return true, nil
}

// Settle 记录支付方式与交易号，并修改状态
func (p *Payment) Settle(s Status, method, transactionID string) (bool, error) {
	changed, err := p.ChangeStatus(s)
	if err != nil {
		return false, err
	}
	if method != "" {
		p.PaymentMethod = method
	}
	if transactionID != "" {
		p.TransactionID = transactionID
	}
	p.UpdatedAt = time.Now()
	return changed, nil
}
