package loan

import (
	"time"
)

// State 借阅状态
//
//	issue        renew(只修改DueDate)
//	  │           ┌──┐
//	  ▼           ▼  │
//	OPEN ─────────┴──┘
//	  │ return(逾期时产生罚款)
//	  ▼
//	RETURNED(终态)
type State int

const (
	StateOpen State = iota + 1
	StateReturned
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateReturned:
		return "RETURNED"
	default:
		return "UNKNOWN"
	}
}

// Loan 借阅记录(聚合根)
// 1. ID形如I1、I2
// 2. 日期只有日期部分有意义，统一归一化为UTC零点
// 3. PaymentID引用逾期归还产生的罚款，仅用于追溯
type Loan struct {
	ID         string
	UserID     string
	BookID     string
	IssueDate  time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Returned   bool
	PaymentID  *string
}

// NewLoan 创建OPEN状态的借阅
func NewLoan(userID, bookID string, now time.Time, policy Policy) *Loan {
	issued := DateOf(now)
	return &Loan{
		UserID:    userID,
		BookID:    bookID,
		IssueDate: issued,
		DueDate:   policy.DueDate(issued),
	}
}

func (l *Loan) State() State {
	if l.Returned {
		return StateReturned
	}
	return StateOpen
}

// IsOwnedBy 借阅是否属于指定用户
func (l *Loan) IsOwnedBy(userID string) bool {
	return l.UserID == userID
}

// IsOverdue 未归还且今天已超过应还日期
func (l *Loan) IsOverdue(now time.Time) bool {
	return !l.Returned && DateOf(now).After(l.DueDate)
}

// Return OPEN → RETURNED
// 返回late表示归还日期晚于应还日期，调用方据此创建罚款
func (l *Loan) Return(returnDate time.Time) (late bool, err error) {
	if l.Returned {
		return false, l.alreadyReturned()
	}

	rd := DateOf(returnDate)
	if rd.Before(DateOf(l.IssueDate)) {
		return false, ErrReturnBeforeIssue.WithDetails(map[string]any{
			"issue_record_id": l.ID,
			"issue_date":      FormatDate(l.IssueDate),
			"return_date":     FormatDate(rd),
		})
	}

	l.Returned = true
	l.ReturnDate = &rd
	return rd.After(DateOf(l.DueDate)), nil
}

// EnsureOpen 已归还的借阅不能再操作
func (l *Loan) EnsureOpen() error {
	if l.Returned {
		return l.alreadyReturned()
	}
	return nil
}

// AttachFine 记录罚款引用
func (l *Loan) AttachFine(paymentID string) {
	l.PaymentID = &paymentID
}

// Renew OPEN状态下把应还日期重置为 now + 借期
func (l *Loan) Renew(now time.Time, policy Policy) error {
	if l.Returned {
		return l.alreadyReturned()
	}
	l.DueDate = policy.DueDate(DateOf(now))
	return nil
}

func (l *Loan) alreadyReturned() error {
	details := map[string]any{"issue_record_id": l.ID}
	if l.ReturnDate != nil {
		details["return_date"] = FormatDate(*l.ReturnDate)
	}
	return ErrAlreadyReturned.WithDetails(details)
}
