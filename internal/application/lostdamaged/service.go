// Package lostdamaged 遗失/损坏登记用例
//
// 登记数量变化时，图书可借数量在同一事务内按差值反向调整。
package lostdamaged

import (
	"context"
	"log/slog"
	"time"

	bookapp "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/application/txn"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/lostdamaged"
)

// RecordView 登记响应DTO
type RecordView struct {
	ID        string    `json:"lost_damaged_book_id"`
	BookID    string    `json:"book_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewRecordView(r *lostdamaged.Record) RecordView {
	return RecordView{
		ID:        r.ID,
		BookID:    r.BookID,
		Quantity:  r.Quantity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// SaveResult Record为nil表示数量改为0后登记已删除
type SaveResult struct {
	Record  *RecordView `json:"record"`
	Created bool        `json:"created"`
	Deleted bool        `json:"deleted"`
}

// Service 遗失/损坏登记
type Service struct {
	tx      txn.Manager
	books   book.Repository
	records lostdamaged.Repository
	cache   bookapp.Cache
	log     *slog.Logger
}

func NewService(
	tx txn.Manager,
	books book.Repository,
	records lostdamaged.Repository,
	cache bookapp.Cache,
	log *slog.Logger,
) *Service {
	return &Service{
		tx:      tx,
		books:   books,
		records: records,
		cache:   cache,
		log:     log.With(slog.String("component", "lost_damaged")),
	}
}

// Record 登记某本书的遗失/损坏数量
// 该书已有登记时修改数量，否则新建；数量上限为可借数量加已登记数量
func (s *Service) Record(ctx context.Context, bookID string, quantity int) (*SaveResult, error) {
	var result SaveResult

	err := txn.Do(ctx, s.tx, s.log, func(ctx context.Context, hooks *txn.Hooks) error {
		result = SaveResult{}

		b, err := s.books.LockByID(ctx, bookID)
		if err != nil {
			return err
		}
		existing, err := s.records.FindByBook(ctx, b.ID)
		if err != nil {
			return err
		}

		current := 0
		if existing != nil {
			current = existing.Quantity
		}
		delta, err := lostdamaged.Plan(b.Quantity, current, quantity)
		if err != nil {
			return err
		}
		if err := s.adjust(ctx, hooks, b.ID, delta); err != nil {
			return err
		}

		rec := existing
		if rec == nil {
			rec = lostdamaged.NewRecord(b.ID, quantity)
			if err := s.records.Create(ctx, rec); err != nil {
				return err
			}
			result.Created = true
		} else {
			rec.SetQuantity(quantity)
			if err := s.records.Update(ctx, rec); err != nil {
				return err
			}
		}
		view := NewRecordView(rec)
		result.Record = &view
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "lost/damaged recorded",
		slog.String("lost_damaged_book_id", result.Record.ID),
		slog.String("book_id", bookID),
		slog.Int("quantity", quantity),
	)
	return &result, nil
}

// Update 修改登记数量，改为0时删除登记并恢复全部数量
func (s *Service) Update(ctx context.Context, id string, quantity int) (*SaveResult, error) {
	if quantity < 0 {
		return nil, lostdamaged.ErrInvalidQuantity
	}

	var result SaveResult
	err := txn.Do(ctx, s.tx, s.log, func(ctx context.Context, hooks *txn.Hooks) error {
		result = SaveResult{}

		rec, err := s.records.LockByID(ctx, id)
		if err != nil {
			return err
		}
		b, err := s.books.LockByID(ctx, rec.BookID)
		if err != nil {
			return err
		}

		delta, err := lostdamaged.Plan(b.Quantity, rec.Quantity, quantity)
		if err != nil {
			return err
		}
		if err := s.adjust(ctx, hooks, b.ID, delta); err != nil {
			return err
		}

		if quantity == 0 {
			result.Deleted = true
			return s.records.Delete(ctx, rec.ID)
		}
		rec.SetQuantity(quantity)
		if err := s.records.Update(ctx, rec); err != nil {
			return err
		}
		view := NewRecordView(rec)
		result.Record = &view
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "lost/damaged updated",
		slog.String("lost_damaged_book_id", id),
		slog.Int("quantity", quantity),
		slog.Bool("deleted", result.Deleted),
	)
	return &result, nil
}

// Delete 删除登记，不恢复图书数量
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.records.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "lost/damaged deleted", slog.String("lost_damaged_book_id", id))
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*RecordView, error) {
	rec, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewRecordView(rec)
	return &view, nil
}

func (s *Service) List(ctx context.Context) ([]RecordView, error) {
	list, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]RecordView, len(list))
	for i, r := range list {
		views[i] = NewRecordView(r)
	}
	return views, nil
}

func (s *Service) adjust(ctx context.Context, hooks *txn.Hooks, bookID string, delta int) error {
	if delta == 0 {
		return nil
	}
	if err := s.books.UpdateQuantity(ctx, bookID, delta); err != nil {
		return err
	}
	hooks.OnCommit("cache.invalidate", func(ctx context.Context) error {
		return s.cache.Delete(ctx, bookID)
	})
	return nil
}
