// Package report 管理员仪表盘的只读统计模型
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RecentIssuesLimit 最近借阅条数
const RecentIssuesLimit = 5

// Stats 仪表盘统计
type Stats struct {
	TotalBooks       int64           `json:"totalBooks"`
	TotalStudents    int64           `json:"totalStudents"`
	TotalAdmins      int64           `json:"totalAdmins"`
	BooksIssued      int64           `json:"booksIssued"`
	OverdueBooks     int64           `json:"overdueBooks"`
	LostDamagedBooks int64           `json:"lostDamagedBooks"`
	PendingPayments  int64           `json:"pendingPayments"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	AvailableBooks   int64           `json:"availableBooks"`
}

// FillAvailable 可借总数 = 图书总数 - 借出 - 遗失/损坏，最小为0
func (s *Stats) FillAvailable() {
	s.AvailableBooks = max(s.TotalBooks-s.BooksIssued-s.LostDamagedBooks, 0)
}

// RecentIssue 最近借阅，附带用户与图书摘要
// 用户或图书已被删除时对应字段为空
type RecentIssue struct {
	ID         string
	BookTitle  string
	BookAuthor string
	UserName   string
	UserEmail  string
	IssueDate  time.Time
	DueDate    time.Time
	Returned   bool
}

// Status returned / overdue / issued
func (r RecentIssue) Status(today time.Time) string {
	switch {
	case r.Returned:
		return "returned"
	case r.DueDate.Before(today):
		return "overdue"
	default:
		return "issued"
	}
}

// Repository 统计查询
type Repository interface {
	// Stats today用于判断逾期(应还日期早于today)
	Stats(ctx context.Context, today time.Time) (*Stats, error)

	// RecentIssues 按借出日期倒序的最近limit条借阅
	RecentIssues(ctx context.Context, limit int) ([]RecentIssue, error)
}
