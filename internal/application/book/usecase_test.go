package book

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/infrastructure/logger"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb/rdbtest"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, id string) (*book.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*book.Book)
	return b, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, b *book.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type env struct {
	books book.Repository
	loans loan.Repository
	svc   book.Service
	cache *mockCache
}

func newEnv(t *testing.T) *env {
	db := rdbtest.Open(t)
	books := rdb.NewBookRepository(db)
	return &env{
		books: books,
		loans: rdb.NewLoanRepository(db),
		svc:   book.NewService(books),
		cache: &mockCache{},
	}
}

func (e *env) publish(t *testing.T, title, isbn string, qty int) *BookView {
	t.Helper()
	view, err := NewPublishBookUseCase(e.svc, logger.Nop()).Execute(context.Background(), PublishBookRequest{
		Title:     title,
		ISBN:      isbn,
		Author:    "Author",
		Publisher: "Publisher",
		Category:  "Programming Languages",
		Quantity:  qty,
	})
	require.NoError(t, err)
	return view
}

func TestPublishAndList(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	first := e.publish(t, "Alpha", "9780000000001", 1)
	assert.Equal(t, "B1", first.ID)
	e.publish(t, "Beta", "9780000000002", 4)

	_, err := NewPublishBookUseCase(e.svc, logger.Nop()).Execute(ctx, PublishBookRequest{
		Title: "Dup", ISBN: "9780000000001", Author: "A", Publisher: "P", Category: "Programming Languages",
	})
	assert.ErrorIs(t, err, book.ErrISBNDuplicate)

	res, err := NewListBooksUseCase(e.books).Execute(ctx, ListBooksRequest{PageSize: 500, SortBy: "quantity_desc"})
	require.NoError(t, err)
	assert.Equal(t, 100, res.PageSize, "每页最多100条")
	assert.Equal(t, 1, res.Page)
	assert.EqualValues(t, 2, res.Total)
	assert.Equal(t, "Beta", res.List[0].Title)

	found, err := NewSearchBooksUseCase(e.books).Execute(ctx, "alp")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Alpha", found[0].Title)
}

func TestGetBookReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	created := e.publish(t, "Alpha", "9780000000001", 1)
	uc := NewGetBookUseCase(e.books, e.cache, logger.Nop())

	t.Run("未命中时查库并回填", func(t *testing.T) {
		e.cache.On("Get", ctx, created.ID).Return(nil, nil).Once()
		e.cache.On("Set", ctx, mock.MatchedBy(func(b *book.Book) bool { return b.ID == created.ID })).Return(nil).Once()

		view, err := uc.Execute(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alpha", view.Title)
		e.cache.AssertExpectations(t)
	})

	t.Run("命中时不查库", func(t *testing.T) {
		e.cache.On("Get", ctx, "B77").Return(&book.Book{ID: "B77", Title: "Cached"}, nil).Once()

		view, err := uc.Execute(ctx, "B77")
		require.NoError(t, err)
		assert.Equal(t, "Cached", view.Title)
	})

	t.Run("缓存故障降级", func(t *testing.T) {
		e.cache.On("Get", ctx, created.ID).Return(nil, errors.New("redis down")).Once()
		e.cache.On("Set", ctx, mock.Anything).Return(errors.New("redis down")).Once()

		view, err := uc.Execute(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, view.ID)
	})

	t.Run("不存在", func(t *testing.T) {
		e.cache.On("Get", ctx, "B404").Return(nil, nil).Once()
		_, err := uc.Execute(ctx, "B404")
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

func TestUpdateBookInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	created := e.publish(t, "Alpha", "9780000000001", 1)
	e.cache.On("Delete", ctx, created.ID).Return(nil).Once()

	qty := 7
	title := "Alpha (2nd ed.)"
	view, err := NewUpdateBookUseCase(e.svc, e.cache, logger.Nop()).Execute(ctx, UpdateBookRequest{
		ID:       created.ID,
		Title:    &title,
		Quantity: &qty,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, view.Quantity)
	assert.Equal(t, title, view.Title)
	e.cache.AssertExpectations(t)

	negative := -1
	_, err = NewUpdateBookUseCase(e.svc, e.cache, logger.Nop()).Execute(ctx, UpdateBookRequest{ID: created.ID, Quantity: &negative})
	assert.ErrorIs(t, err, book.ErrInvalidQuantity)
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	created := e.publish(t, "Alpha", "9780000000001", 1)
	uc := NewDeleteBookUseCase(e.books, e.loans, e.cache, logger.Nop())

	open := loan.NewLoan("U1", created.ID, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), loan.DefaultPolicy())
	require.NoError(t, e.loans.Create(ctx, open))

	err := uc.Execute(ctx, created.ID)
	assert.ErrorIs(t, err, book.ErrBookOnLoan)

	_, err = open.Return(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, e.loans.Update(ctx, open))

	e.cache.On("Delete", ctx, created.ID).Return(nil).Once()
	require.NoError(t, uc.Execute(ctx, created.ID))
	e.cache.AssertExpectations(t)

	assert.ErrorIs(t, uc.Execute(ctx, created.ID), book.ErrBookNotFound)
}
