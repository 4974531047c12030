package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/logger"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb/rdbtest"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/mq"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, e event.Event) error {
	return m.Called(ctx, e).Error(0)
}

func TestMQNotifierRoutesByType(t *testing.T) {
	sender := &mockSender{}
	n := NewMQNotifier(sender, "library.events", time.Minute, logger.Nop())

	e := event.New(event.LoanIssued, time.Now())
	e.LoanID = "I1"
	sender.On("Publish", mock.Anything, "loan.issued", e).Return(nil).Once()

	require.NoError(t, n.Publish(context.Background(), e))
	sender.AssertExpectations(t)
}

func TestMQNotifierTripsBreaker(t *testing.T) {
	ctx := context.Background()
	sender := &mockSender{}
	n := NewMQNotifier(sender, "library.events", time.Minute, logger.Nop())

	brokerDown := errors.New("connection reset")
	sender.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(brokerDown)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, n.Publish(ctx, event.New(event.LoanIssued, time.Now())), brokerDown)
	}

	// 熔断后不再调用broker
	err := n.Publish(ctx, event.New(event.LoanIssued, time.Now()))
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	sender.AssertNumberOfCalls(t, "Publish", 3)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, NewLogNotifier(logger.Nop()).Publish(context.Background(), event.New(event.FineCreated, time.Now())))
}

func TestDeliveryHandler(t *testing.T) {
	ctx := context.Background()
	handler := DeliveryHandler("library.notifications", logger.Nop())

	e := event.New(event.FineCreated, time.Now())
	e.PaymentID = "P1"
	e.Amount = "10.00"
	body, err := json.Marshal(e)
	require.NoError(t, err)

	assert.NoError(t, handler(ctx, mq.Delivery{RoutingKey: "fine.created", Body: body}))
	// 格式错误的消息确认丢弃
	assert.NoError(t, handler(ctx, mq.Delivery{RoutingKey: "fine.created", Body: []byte("{not json")}))
}

func TestReminderScan(t *testing.T) {
	ctx := context.Background()
	db := rdbtest.Open(t)
	users := rdb.NewUserRepository(db)
	books := rdb.NewBookRepository(db)
	loans := rdb.NewLoanRepository(db)

	u := user.NewUser("alice@library.org", "hash", "Alice", "", user.RoleStudent)
	require.NoError(t, users.Create(ctx, u))
	b := book.NewBook("Dune", "9780441013593", "Frank Herbert", "Ace", "Reference Books", 3)
	require.NoError(t, books.Create(ctx, b))

	policy := loan.DefaultPolicy()
	overdue := loan.NewLoan(u.ID, b.ID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), policy)
	require.NoError(t, loans.Create(ctx, overdue))
	dueToday := loan.NewLoan(u.ID, b.ID, time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC), policy)
	require.NoError(t, loans.Create(ctx, dueToday))
	returned := loan.NewLoan(u.ID, b.ID, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), policy)
	_, err := returned.Return(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, loans.Create(ctx, returned))

	events := &mockPublisher{}
	events.On("Publish", mock.Anything, mock.MatchedBy(func(e event.Event) bool {
		return e.Type == event.LoanOverdue && e.LoanID == overdue.ID && e.DueDate == "2025-03-16"
	})).Return(errors.New("broker unreachable")).Once()

	r := NewReminder(loans, events, time.Hour, logger.Nop())
	r.now = func() time.Time { return time.Date(2025, 4, 9, 8, 0, 0, 0, time.UTC) }

	n, err := r.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	events.AssertExpectations(t)
}

func TestReminderRunStopsOnCancel(t *testing.T) {
	loans := &stubLoans{}
	events := &mockPublisher{}
	r := NewReminder(loans, events, time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return loans.calls() >= 2 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reminder did not stop")
	}
}

// stubLoans 只实现ListOverdue，统计调用次数
type stubLoans struct {
	loan.Repository
	mu sync.Mutex
	n  int
}

func (s *stubLoans) ListOverdue(context.Context, time.Time) ([]*loan.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return nil, nil
}

func (s *stubLoans) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
