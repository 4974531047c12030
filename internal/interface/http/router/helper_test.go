package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	bookapp "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/application/circulation"
	"github.com/xiebiao/library/internal/application/dashboard"
	"github.com/xiebiao/library/internal/application/lostdamaged"
	apppayment "github.com/xiebiao/library/internal/application/payment"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/event"
	"github.com/xiebiao/library/internal/domain/loan"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/logger"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb/rdbtest"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/jwt"
)

// apiResponse 统一响应结构
type apiResponse struct {
	Status  int             `json:"-"`
	Code    int             `json:"code"`
	Reason  string          `json:"reason"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decode 把data解析到dest
func (r *apiResponse) decode(t *testing.T, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, dest), "解析data失败: %s", string(r.Data))
}

// memSessions 内存会话与黑名单
type memSessions struct {
	mu        sync.Mutex
	sessions  map[string]map[string]any
	blacklist map[string]bool
}

func newMemSessions() *memSessions {
	return &memSessions{
		sessions:  make(map[string]map[string]any),
		blacklist: make(map[string]bool),
	}
}

func (m *memSessions) SaveSession(_ context.Context, userID string, data map[string]any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = data
	return nil
}

func (m *memSessions) DeleteSession(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

func (m *memSessions) AddToBlacklist(_ context.Context, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blacklist[token] = true
	return nil
}

func (m *memSessions) IsInBlacklist(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blacklist[token], nil
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// testServer 使用SQLite的完整HTTP栈
type testServer struct {
	engine   *gin.Engine
	sessions *memSessions
	events   *recordingPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := rdbtest.Open(t)
	log := logger.Nop()
	sessions := newMemSessions()
	events := &recordingPublisher{}
	cache := bookapp.NopCache{}
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)

	tx := rdb.NewTxManager(db)
	users := rdb.NewUserRepository(db)
	books := rdb.NewBookRepository(db)
	loans := rdb.NewLoanRepository(db)
	payments := rdb.NewPaymentRepository(db)
	records := rdb.NewLostDamagedRepository(db)
	reports, err := rdb.NewStatsRepository(db)
	require.NoError(t, err)

	userService := user.NewService(users, user.WithBcryptCost(bcrypt.MinCost))
	bookService := book.NewService(books)

	h := router.Handlers{
		User: handler.NewUserHandler(
			appuser.NewRegisterUseCase(userService, log),
			appuser.NewLoginUseCase(userService, jwtManager, sessions, log),
			appuser.NewLogoutUseCase(sessions, jwtManager),
			appuser.NewRefreshTokenUseCase(users, jwtManager),
			appuser.NewProfileUseCase(users, loans, payments),
			appuser.NewListUsersUseCase(users),
			appuser.NewGetUserUseCase(users),
			appuser.NewUpdateUserUseCase(userService, users, log),
			appuser.NewDeleteUserUseCase(tx, users, loans, payments, sessions, log),
		),
		Book: handler.NewBookHandler(
			bookapp.NewListBooksUseCase(books),
			bookapp.NewSearchBooksUseCase(books),
			bookapp.NewGetBookUseCase(books, cache, log),
			bookapp.NewPublishBookUseCase(bookService, log),
			bookapp.NewUpdateBookUseCase(bookService, cache, log),
			bookapp.NewDeleteBookUseCase(books, loans, cache, log),
		),
		Circulation: handler.NewCirculationHandler(
			circulation.NewService(tx, users, books, loans, payments, events, loan.DefaultPolicy(), log),
		),
		Payment: handler.NewPaymentHandler(
			apppayment.NewCreatePaymentUseCase(tx, users, payments, events, log),
			apppayment.NewUpdatePaymentUseCase(tx, payments, events, log),
			apppayment.NewListPaymentsUseCase(payments),
			apppayment.NewListUserPaymentsUseCase(users, payments),
			apppayment.NewDeletePaymentUseCase(payments),
		),
		LostDamaged: handler.NewLostDamagedHandler(lostdamaged.NewService(tx, books, records, cache, log)),
		Dashboard:   handler.NewDashboardHandler(dashboard.NewService(reports)),
		Health: handler.NewHealthHandler(handler.HealthCheck{
			Name: "database",
			Check: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		}),
	}

	engine, err := router.New(router.Options{Mode: gin.TestMode}, log, h, middleware.NewAuthMiddleware(jwtManager, sessions))
	require.NoError(t, err)

	return &testServer{engine: engine, sessions: sessions, events: events}
}

// do 发送请求并解析统一响应
func (s *testServer) do(t *testing.T, method, path string, body any, token string) *apiResponse {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body), "JSON序列化失败")
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	result := &apiResponse{Status: w.Code}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), result), "解析JSON响应失败: %s", w.Body.String())
	return result
}

type account struct {
	ID    string
	Token string
}

// registerAndLogin 注册并登录，返回用户ID和Access Token
func (s *testServer) registerAndLogin(t *testing.T, name, email, role string) account {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     name,
		"email":    email,
		"password": "secret123",
		"role":     role,
	}, "")
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)

	resp = s.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    email,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)

	var login struct {
		User struct {
			ID string `json:"user_id"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	resp.decode(t, &login)
	return account{ID: login.User.ID, Token: login.AccessToken}
}

// createBook 管理员新增图书，返回图书ID
func (s *testServer) createBook(t *testing.T, admin account, isbn string, quantity int) string {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/api/books", map[string]any{
		"title":       "Book " + isbn,
		"isbn":        isbn,
		"author":      "Author",
		"publication": "Publisher",
		"category":    "Databases",
		"quantity":    quantity,
	}, admin.Token)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)

	var b struct {
		ID string `json:"book_id"`
	}
	resp.decode(t, &b)
	return b.ID
}

func (s *testServer) bookQuantity(t *testing.T, id string) int {
	t.Helper()

	resp := s.do(t, http.MethodGet, "/api/books/"+id, nil, "")
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)

	var b struct {
		Quantity int `json:"quantity"`
	}
	resp.decode(t, &b)
	return b.Quantity
}
