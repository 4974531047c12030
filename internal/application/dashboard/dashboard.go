// Package dashboard 管理员仪表盘
package dashboard

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/report"
)

// StatsView 仪表盘统计，金额固定两位小数
type StatsView struct {
	TotalBooks       int64  `json:"totalBooks"`
	AvailableBooks   int64  `json:"availableBooks"`
	TotalStudents    int64  `json:"totalStudents"`
	TotalAdmins      int64  `json:"totalAdmins"`
	BooksIssued      int64  `json:"booksIssued"`
	OverdueBooks     int64  `json:"overdueBooks"`
	LostDamagedBooks int64  `json:"lostDamagedBooks"`
	PendingPayments  int64  `json:"pendingPayments"`
	TotalRevenue     string `json:"totalRevenue"`
}

// RecentIssueView 最近借阅
type RecentIssueView struct {
	ID         string `json:"issue_record_id"`
	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	IssueDate  string `json:"issue_date"`
	DueDate    string `json:"due_date"`
	Status     string `json:"status"`
}

// Service 仪表盘查询
type Service struct {
	reports report.Repository
	now     func() time.Time
}

func NewService(reports report.Repository) *Service {
	return &Service{reports: reports, now: time.Now}
}

func (s *Service) Stats(ctx context.Context) (*StatsView, error) {
	st, err := s.reports.Stats(ctx, loan.DateOf(s.now()))
	if err != nil {
		return nil, err
	}
	return &StatsView{
		TotalBooks:       st.TotalBooks,
		AvailableBooks:   st.AvailableBooks,
		TotalStudents:    st.TotalStudents,
		TotalAdmins:      st.TotalAdmins,
		BooksIssued:      st.BooksIssued,
		OverdueBooks:     st.OverdueBooks,
		LostDamagedBooks: st.LostDamagedBooks,
		PendingPayments:  st.PendingPayments,
		TotalRevenue:     st.TotalRevenue.StringFixed(2),
	}, nil
}

// RecentIssues 最近5条借阅
func (s *Service) RecentIssues(ctx context.Context) ([]RecentIssueView, error) {
	list, err := s.reports.RecentIssues(ctx, report.RecentIssuesLimit)
	if err != nil {
		return nil, err
	}

	today := loan.DateOf(s.now())
	views := make([]RecentIssueView, len(list))
	for i, r := range list {
		views[i] = RecentIssueView{
			ID:         r.ID,
			BookTitle:  r.BookTitle,
			BookAuthor: r.BookAuthor,
			UserName:   r.UserName,
			UserEmail:  r.UserEmail,
			IssueDate:  loan.FormatDate(r.IssueDate),
			DueDate:    loan.FormatDate(r.DueDate),
			Status:     r.Status(today),
		}
	}
	return views, nil
}
