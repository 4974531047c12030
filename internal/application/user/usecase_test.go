package user

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/payment"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/logger"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb/rdbtest"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
)

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) SaveSession(ctx context.Context, userID string, data map[string]any, ttl time.Duration) error {
	return m.Called(ctx, userID, data, ttl).Error(0)
}

func (m *mockSessions) DeleteSession(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockSessions) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	return m.Called(ctx, token, ttl).Error(0)
}

type fixture struct {
	users    user.Repository
	books    book.Repository
	loans    loan.Repository
	payments payment.Repository
	service  user.Service
	jwt      *jwt.Manager
	sessions *mockSessions
	register *RegisterUseCase
	delete   *DeleteUserUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := rdbtest.Open(t)

	f := &fixture{
		users:    rdb.NewUserRepository(db),
		books:    rdb.NewBookRepository(db),
		loans:    rdb.NewLoanRepository(db),
		payments: rdb.NewPaymentRepository(db),
		jwt:      jwt.NewManager("test-secret", time.Hour, 24*time.Hour),
		sessions: &mockSessions{},
	}
	f.service = user.NewService(f.users, user.WithBcryptCost(bcrypt.MinCost))
	f.register = NewRegisterUseCase(f.service, logger.Nop())
	f.delete = NewDeleteUserUseCase(rdb.NewTxManager(db), f.users, f.loans, f.payments, f.sessions, logger.Nop())
	return f
}

func (f *fixture) registerStudent(t *testing.T, email string) *UserView {
	t.Helper()
	view, err := f.register.Execute(context.Background(), RegisterRequest{
		Name:     "Student " + email,
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return view
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	view := f.registerStudent(t, "Alice@Library.org")
	assert.Equal(t, "U1", view.ID)
	assert.Equal(t, "alice@library.org", view.Email)
	assert.Equal(t, user.RoleStudent, view.Role)

	_, err := f.register.Execute(ctx, RegisterRequest{Name: "Again", Email: "alice@library.org", Password: "secret123"})
	assert.ErrorIs(t, err, user.ErrEmailDuplicate)

	_, err = f.register.Execute(ctx, RegisterRequest{Name: "Bob", Email: "bob@library.org", Password: "secret123", Role: "LIBRARIAN"})
	assert.ErrorIs(t, err, user.ErrInvalidRole)

	admin, err := f.register.Execute(ctx, RegisterRequest{Name: "Root", Email: "root@library.org", Password: "secret123", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)
}

func TestLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	registered := f.registerStudent(t, "alice@library.org")

	login := NewLoginUseCase(f.service, f.jwt, f.sessions, logger.Nop())

	f.sessions.On("SaveSession", mock.Anything, registered.ID, mock.Anything, 24*time.Hour).Return(nil).Once()
	resp, err := login.Execute(ctx, LoginRequest{Email: "alice@library.org", Password: "secret123", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resp.User.ID)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := f.jwt.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "STUDENT", claims.Role)

	_, err = login.Execute(ctx, LoginRequest{Email: "alice@library.org", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	_, err = login.Execute(ctx, LoginRequest{Email: "nobody@library.org", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	f.sessions.On("DeleteSession", mock.Anything, registered.ID).Return(nil).Once()
	f.sessions.On("AddToBlacklist", mock.Anything, resp.AccessToken, time.Hour).Return(nil).Once()
	require.NoError(t, NewLogoutUseCase(f.sessions, f.jwt).Execute(ctx, registered.ID, resp.AccessToken))
	f.sessions.AssertExpectations(t)
}

func TestLoginSurvivesSessionFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.registerStudent(t, "alice@library.org")

	f.sessions.On("SaveSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrRedisError)
	resp, err := NewLoginUseCase(f.service, f.jwt, f.sessions, logger.Nop()).
		Execute(ctx, LoginRequest{Email: "alice@library.org", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	registered := f.registerStudent(t, "alice@library.org")

	pair, err := f.jwt.GenerateToken(registered.ID, registered.Email, registered.Name, "STUDENT")
	require.NoError(t, err)

	// 角色变更在刷新后生效
	u, err := f.users.FindByID(ctx, registered.ID)
	require.NoError(t, err)
	u.Role = user.RoleAdmin
	require.NoError(t, f.users.Update(ctx, u))

	resp, err := NewRefreshTokenUseCase(f.users, f.jwt).Execute(ctx, pair.RefreshToken)
	require.NoError(t, err)
	claims, err := f.jwt.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", claims.Role)

	_, err = NewRefreshTokenUseCase(f.users, f.jwt).Execute(ctx, "garbage")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.registerStudent(t, "alice@library.org")
	bob := f.registerStudent(t, "bob@library.org")
	update := NewUpdateUserUseCase(f.service, f.users, logger.Nop())

	self := user.Requester{UserID: alice.ID, Role: user.RoleStudent}
	admin := user.Requester{UserID: "U99", Role: user.RoleAdmin}
	str := func(s string) *string { return &s }

	view, err := update.Execute(ctx, UpdateUserRequest{ID: alice.ID, Name: str("Alice Liddell"), Phone: str("555-0100"), Requester: self})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", view.Name)
	assert.Equal(t, "555-0100", view.Phone)

	_, err = update.Execute(ctx, UpdateUserRequest{ID: bob.ID, Name: str("Mallory"), Requester: self})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = update.Execute(ctx, UpdateUserRequest{ID: alice.ID, Role: str("ADMIN"), Requester: self})
	assert.ErrorIs(t, err, user.ErrRoleChangeForbidden)

	// 角色不变时学生也可以提交
	_, err = update.Execute(ctx, UpdateUserRequest{ID: alice.ID, Role: str("STUDENT"), Requester: self})
	assert.NoError(t, err)

	view, err = update.Execute(ctx, UpdateUserRequest{ID: alice.ID, Role: str("ADMIN"), Requester: admin})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, view.Role)

	_, err = update.Execute(ctx, UpdateUserRequest{ID: alice.ID, Email: str("bob@library.org"), Requester: admin})
	assert.ErrorIs(t, err, user.ErrEmailDuplicate)

	_, err = update.Execute(ctx, UpdateUserRequest{ID: alice.ID, Password: str("newsecret456"), Requester: self})
	require.NoError(t, err)
	_, err = f.service.Authenticate(ctx, "alice@library.org", "newsecret456")
	assert.NoError(t, err)
}

func TestGetAndListUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.registerStudent(t, "alice@library.org")
	f.registerStudent(t, "bob@library.org")

	get := NewGetUserUseCase(f.users)
	_, err := get.Execute(ctx, alice.ID, user.Requester{UserID: "U2", Role: user.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	view, err := get.Execute(ctx, alice.ID, user.Requester{UserID: alice.ID, Role: user.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, alice.Email, view.Email)

	resp, err := NewListUsersUseCase(f.users).Execute(ctx, ListUsersRequest{Keyword: "bob"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)

	resp, err = NewListUsersUseCase(f.users).Execute(ctx, ListUsersRequest{Role: "ADMIN"})
	require.NoError(t, err)
	assert.Empty(t, resp.List)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.registerStudent(t, "alice@library.org")

	b := book.NewBook("Dune", "9780441013593", "Frank Herbert", "Ace", "Reference Books", 3)
	require.NoError(t, f.books.Create(ctx, b))

	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	open := loan.NewLoan(alice.ID, b.ID, now, loan.DefaultPolicy())
	require.NoError(t, f.loans.Create(ctx, open))
	for i := 0; i < 12; i++ {
		l := loan.NewLoan(alice.ID, b.ID, now.AddDate(0, 0, -30-i), loan.DefaultPolicy())
		_, err := l.Return(now.AddDate(0, 0, -20-i))
		require.NoError(t, err)
		require.NoError(t, f.loans.Create(ctx, l))
	}
	require.NoError(t, f.payments.Create(ctx, payment.NewFine(alice.ID, decimal.NewFromInt(10))))

	resp, err := NewProfileUseCase(f.users, f.loans, f.payments).Execute(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, resp.User.ID)
	require.Len(t, resp.CurrentLoans, 1)
	assert.Equal(t, open.ID, resp.CurrentLoans[0].ID)
	assert.Len(t, resp.ReturnedLoans, ProfileHistoryLimit)
	assert.Len(t, resp.PendingPayments, 1)
	assert.Empty(t, resp.PaidPayments)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.registerStudent(t, "alice@library.org")
	b := book.NewBook("Dune", "9780441013593", "Frank Herbert", "Ace", "Reference Books", 3)
	require.NoError(t, f.books.Create(ctx, b))

	now := time.Now()
	open := loan.NewLoan(alice.ID, b.ID, now, loan.DefaultPolicy())
	require.NoError(t, f.loans.Create(ctx, open))

	err := f.delete.Execute(ctx, alice.ID)
	assert.ErrorIs(t, err, user.ErrHasActiveLoans)

	_, err = open.Return(now)
	require.NoError(t, err)
	require.NoError(t, f.loans.Update(ctx, open))

	fine := payment.NewFine(alice.ID, decimal.NewFromInt(10))
	require.NoError(t, f.payments.Create(ctx, fine))
	err = f.delete.Execute(ctx, alice.ID)
	assert.ErrorIs(t, err, user.ErrHasPendingPayments)

	_, err = fine.ChangeStatus(payment.StatusPaid)
	require.NoError(t, err)
	require.NoError(t, f.payments.Update(ctx, fine))

	f.sessions.On("DeleteSession", mock.Anything, alice.ID).Return(nil).Once()
	require.NoError(t, f.delete.Execute(ctx, alice.ID))
	f.sessions.AssertExpectations(t)

	_, err = f.users.FindByID(ctx, alice.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	_, err = f.loans.FindByID(ctx, open.ID)
	assert.ErrorIs(t, err, loan.ErrLoanNotFound)
	_, err = f.payments.FindByID(ctx, fine.ID)
	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)

	assert.ErrorIs(t, f.delete.Execute(ctx, alice.ID), user.ErrUserNotFound)
}
