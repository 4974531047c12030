package rdb

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/payment"
	"github.com/xiebiao/library/internal/domain/report"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// statsRepository 仪表盘统计
// 聚合查询用goqu按方言生成SQL，用sqlx扫描结果，底层复用GORM打开的连接池
type statsRepository struct {
	db      *sqlx.DB
	builder goqu.DialectWrapper
}

// NewStatsRepository 创建统计仓储
func NewStatsRepository(gdb *gorm.DB) (report.Repository, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	dialect := Dialect(gdb)
	return &statsRepository{
		db:      sqlx.NewDb(sqlDB, dialect),
		builder: goqu.Dialect(dialect),
	}, nil
}

func (r *statsRepository) Stats(ctx context.Context, today time.Time) (*report.Stats, error) {
	today = loan.DateOf(today)
	s := &report.Stats{}

	counts := []struct {
		dest *int64
		ds   *goqu.SelectDataset
	}{
		{&s.TotalBooks, r.sum("books", "quantity")},
		{&s.TotalStudents, r.builder.From("users").
			Select(goqu.COUNT(goqu.Star())).
			Where(goqu.C("kind").Eq(user.RoleStudent.String()))},
		{&s.TotalAdmins, r.builder.From("users").
			Select(goqu.COUNT(goqu.Star())).
			Where(goqu.C("kind").Eq(user.RoleAdmin.String()))},
		{&s.BooksIssued, r.builder.From("issue_records").
			Select(goqu.COUNT(goqu.Star())).
			Where(goqu.L("returned = ?", false))},
		{&s.OverdueBooks, r.builder.From("issue_records").
			Select(goqu.COUNT(goqu.Star())).
			Where(goqu.L("returned = ?", false), goqu.C("due_date").Lt(today))},
		{&s.LostDamagedBooks, r.sum("lost_damaged_books", "quantity")},
		{&s.PendingPayments, r.builder.From("payments").
			Select(goqu.COUNT(goqu.Star())).
			Where(goqu.C("status").Eq(payment.StatusPending.String()))},
	}
	for _, c := range counts {
		if err := r.get(ctx, c.dest, c.ds); err != nil {
			return nil, err
		}
	}

	var revenue decimal.Decimal
	revenueDS := r.builder.From("payments").
		Select(goqu.COALESCE(goqu.SUM("amount"), 0)).
		Where(goqu.C("status").Eq(payment.StatusPaid.String()))
	if err := r.get(ctx, &revenue, revenueDS); err != nil {
		return nil, err
	}
	s.TotalRevenue = revenue.Round(2)

	s.FillAvailable()
	return s, nil
}

type recentIssueRow struct {
	ID         string    `db:"id"`
	BookTitle  string    `db:"book_title"`
	BookAuthor string    `db:"book_author"`
	UserName   string    `db:"user_name"`
	UserEmail  string    `db:"user_email"`
	IssueDate  time.Time `db:"issue_date"`
	DueDate    time.Time `db:"due_date"`
	Returned   bool      `db:"returned"`
}

func (r *statsRepository) RecentIssues(ctx context.Context, limit int) ([]report.RecentIssue, error) {
	if limit <= 0 {
		limit = report.RecentIssuesLimit
	}

	ds := r.builder.From(goqu.T("issue_records").As("i")).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.user_id").Eq(goqu.I("i.user_id")))).
		LeftJoin(goqu.T("books").As("b"), goqu.On(goqu.I("b.book_id").Eq(goqu.I("i.book_id")))).
		Select(
			goqu.I("i.issue_record_id").As("id"),
			goqu.COALESCE(goqu.I("b.title"), "").As("book_title"),
			goqu.COALESCE(goqu.I("b.author"), "").As("book_author"),
			goqu.COALESCE(goqu.I("u.name"), "").As("user_name"),
			goqu.COALESCE(goqu.I("u.email"), "").As("user_email"),
			goqu.I("i.issue_date").As("issue_date"),
			goqu.I("i.due_date").As("due_date"),
			goqu.I("i.returned").As("returned"),
		).
		Order(goqu.I("i.issue_date").Desc(), goqu.I("i.issue_record_id").Desc()).
		Limit(uint(limit))

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.Wrap(err, "build recent issues query failed")
	}

	var rows []recentIssueRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.WrapDB(err, "query recent issues failed")
	}

	issues := make([]report.RecentIssue, len(rows))
	for i, row := range rows {
		issues[i] = report.RecentIssue{
			ID:         row.ID,
			BookTitle:  row.BookTitle,
			BookAuthor: row.BookAuthor,
			UserName:   row.UserName,
			UserEmail:  row.UserEmail,
			IssueDate:  loan.DateOf(row.IssueDate),
			DueDate:    loan.DateOf(row.DueDate),
			Returned:   row.Returned,
		}
	}
	return issues, nil
}

func (r *statsRepository) sum(table, col string) *goqu.SelectDataset {
	return r.builder.From(table).Select(goqu.COALESCE(goqu.SUM(col), 0))
}

func (r *statsRepository) get(ctx context.Context, dest any, ds *goqu.SelectDataset) error {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return apperrors.Wrap(err, "build stats query failed")
	}
	if err := r.db.GetContext(ctx, dest, query, args...); err != nil {
		return apperrors.WrapDB(err, "query stats failed")
	}
	return nil
}
