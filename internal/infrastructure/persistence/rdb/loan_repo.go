package rdb

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/loan"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// loanRepository 借阅仓储实现(issue_records表)
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository 创建借阅仓储
func NewLoanRepository(db *gorm.DB) loan.Repository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, l *loan.Loan) error {
	model := toLoanModel(l)

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		id, err := nextID(tx, prefixLoan)
		if err != nil {
			return apperrors.WrapDB(err, "generate issue record id failed")
		}
		model.ID = id
		if err := tx.Create(model).Error; err != nil {
			return apperrors.WrapDB(err, "create issue record failed")
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.ID = model.ID
	return nil
}

func (r *loanRepository) FindByID(ctx context.Context, id string) (*loan.Loan, error) {
	return r.findOne(conn(ctx, r.db), id)
}

// LockByID SELECT ... FOR UPDATE，保证同一借阅不会被并发归还两次
func (r *loanRepository) LockByID(ctx context.Context, id string) (*loan.Loan, error) {
	return r.findOne(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *loanRepository) findOne(db *gorm.DB, id string) (*loan.Loan, error) {
	var model LoanModel
	if err := db.Where("issue_record_id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, loan.ErrLoanNotFound.WithDetails(map[string]any{"issue_record_id": id})
		}
		return nil, apperrors.WrapDB(err, "query issue record failed")
	}
	return toLoanEntity(&model), nil
}

func (r *loanRepository) Update(ctx context.Context, l *loan.Loan) error {
	if err := conn(ctx, r.db).Save(toLoanModel(l)).Error; err != nil {
		return apperrors.WrapDB(err, "update issue record failed")
	}
	return nil
}

func (r *loanRepository) FindOpenByBook(ctx context.Context, bookID string) (*loan.Loan, error) {
	var model LoanModel
	err := conn(ctx, r.db).
		Where("book_id = ? AND returned = ?", bookID, false).
		Order("issue_date DESC").
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.WrapDB(err, "query open issue record failed")
	}
	return toLoanEntity(&model), nil
}

func (r *loanRepository) List(ctx context.Context, f loan.Filter) ([]*loan.Loan, error) {
	query := conn(ctx, r.db).Model(&LoanModel{})
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.BookID != "" {
		query = query.Where("book_id = ?", f.BookID)
	}
	if f.Returned != nil {
		query = query.Where("returned = ?", *f.Returned)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	return r.find(query.Order("issue_date DESC").Order("issue_record_id DESC"))
}

func (r *loanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*loan.Loan, error) {
	query := conn(ctx, r.db).
		Where("returned = ? AND due_date < ?", false, loan.DateOf(asOf)).
		Order("due_date ASC")
	return r.find(query)
}

func (r *loanRepository) find(query *gorm.DB) ([]*loan.Loan, error) {
	var models []LoanModel
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.WrapDB(err, "list issue records failed")
	}
	loans := make([]*loan.Loan, len(models))
	for i := range models {
		loans[i] = toLoanEntity(&models[i])
	}
	return loans, nil
}

func (r *loanRepository) CountOpenByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&LoanModel{}).
		Where("user_id = ? AND returned = ?", userID, false).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.WrapDB(err, "count open issue records failed")
	}
	return n, nil
}

func (r *loanRepository) DeleteReturnedByUser(ctx context.Context, userID string) error {
	err := conn(ctx, r.db).
		Where("user_id = ? AND returned = ?", userID, true).
		Delete(&LoanModel{}).Error
	if err != nil {
		return apperrors.WrapDB(err, "delete issue records failed")
	}
	return nil
}

func toLoanModel(l *loan.Loan) *LoanModel {
	m := &LoanModel{
		ID:        l.ID,
		UserID:    l.UserID,
		BookID:    l.BookID,
		IssueDate: loan.DateOf(l.IssueDate),
		DueDate:   loan.DateOf(l.DueDate),
		Returned:  l.Returned,
		PaymentID: l.PaymentID,
	}
	if l.ReturnDate != nil {
		rd := loan.DateOf(*l.ReturnDate)
		m.ReturnDate = &rd
	}
	return m
}

func toLoanEntity(m *LoanModel) *loan.Loan {
	l := &loan.Loan{
		ID:        m.ID,
		UserID:    m.UserID,
		BookID:    m.BookID,
		IssueDate: loan.DateOf(m.IssueDate),
		DueDate:   loan.DateOf(m.DueDate),
		Returned:  m.Returned,
		PaymentID: m.PaymentID,
	}
	if m.ReturnDate != nil {
		rd := loan.DateOf(*m.ReturnDate)
		l.ReturnDate = &rd
	}
	return l
}
