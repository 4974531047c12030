package circulation

import (
	"time"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/payment"
)

// LoanView 借阅响应DTO，日期格式YYYY-MM-DD
type LoanView struct {
	ID         string  `json:"issue_record_id"`
	UserID     string  `json:"user_id"`
	BookID     string  `json:"book_id"`
	IssueDate  string  `json:"issue_date"`
	DueDate    string  `json:"due_date"`
	ReturnDate *string `json:"return_date"`
	Returned   bool    `json:"returned"`
	PaymentID  *string `json:"payment_id"`
	Overdue    bool    `json:"overdue"`
}

// NewLoanView now用于计算是否逾期
func NewLoanView(l *loan.Loan, now time.Time) LoanView {
	v := LoanView{
		ID:        l.ID,
		UserID:    l.UserID,
		BookID:    l.BookID,
		IssueDate: loan.FormatDate(l.IssueDate),
		DueDate:   loan.FormatDate(l.DueDate),
		Returned:  l.Returned,
		PaymentID: l.PaymentID,
		Overdue:   l.IsOverdue(now),
	}
	if l.ReturnDate != nil {
		rd := loan.FormatDate(*l.ReturnDate)
		v.ReturnDate = &rd
	}
	return v
}

// NewLoanViews 批量转换
func NewLoanViews(loans []*loan.Loan, now time.Time) []LoanView {
	views := make([]LoanView, len(loans))
	for i, l := range loans {
		views[i] = NewLoanView(l, now)
	}
	return views
}

// FineView 逾期罚款摘要
type FineView struct {
	PaymentID string `json:"payment_id"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
}

func NewFineView(p *payment.Payment) FineView {
	return FineView{
		PaymentID: p.ID,
		Amount:    p.Amount.StringFixed(2),
		Status:    p.Status.String(),
	}
}
