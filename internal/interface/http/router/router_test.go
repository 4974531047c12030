package router_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/event"
)

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	student := s.registerAndLogin(t, "Alice", "alice@library.org", "")

	t.Run("重复邮箱返回409", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/auth/register", map[string]any{
			"name":     "Alice Again",
			"email":    "alice@library.org",
			"password": "secret123",
		}, "")
		assert.Equal(t, http.StatusConflict, resp.Status)
		assert.Equal(t, "EMAIL_TAKEN", resp.Reason)
	})

	t.Run("参数校验失败返回字段名", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/auth/register", map[string]any{
			"name":  "Bob",
			"email": "not-an-email",
		}, "")
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Contains(t, resp.Message, "email")
		assert.Contains(t, resp.Message, "password")
	})

	t.Run("错误密码返回401", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/auth/login", map[string]any{
			"email":    "alice@library.org",
			"password": "wrong1234",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("verify返回当前用户", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/auth/verify", nil, student.Token)
		require.Equal(t, http.StatusOK, resp.Status)

		var data struct {
			UserID string `json:"user_id"`
			Role   string `json:"role"`
			Email  string `json:"email"`
		}
		resp.decode(t, &data)
		assert.Equal(t, student.ID, data.UserID)
		assert.Equal(t, "STUDENT", data.Role)
		assert.Equal(t, "alice@library.org", data.Email)
	})

	t.Run("未登录返回401", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/users/profile", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		other := s.registerAndLogin(t, "Carol", "carol@library.org", "")

		resp := s.do(t, http.MethodPost, "/api/auth/logout", nil, other.Token)
		require.Equal(t, http.StatusOK, resp.Status)

		resp = s.do(t, http.MethodGet, "/api/auth/verify", nil, other.Token)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
		assert.Equal(t, "TOKEN_REVOKED", resp.Reason)
	})
}

func TestBookRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAndLogin(t, "Admin", "admin@library.org", "ADMIN")
	student := s.registerAndLogin(t, "Alice", "alice@library.org", "")

	t.Run("学生不能新增图书", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/books", map[string]any{
			"title":       "Go",
			"isbn":        "9780134190440",
			"author":      "Donovan",
			"publication": "Addison-Wesley",
			"category":    "Databases",
			"quantity":    1,
		}, student.Token)
		assert.Equal(t, http.StatusForbidden, resp.Status)
	})

	t.Run("无效分类返回400", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/books", map[string]any{
			"title":       "Go",
			"isbn":        "9780134190440",
			"author":      "Donovan",
			"publication": "Addison-Wesley",
			"category":    "Cooking",
			"quantity":    1,
		}, admin.Token)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})

	id := s.createBook(t, admin, "9780134190440", 3)
	assert.Equal(t, "B1", id)

	t.Run("ISBN重复返回409", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/books", map[string]any{
			"title":       "Copy",
			"isbn":        "9780134190440",
			"author":      "Someone",
			"publication": "Somewhere",
			"category":    "Databases",
			"quantity":    1,
		}, admin.Token)
		assert.Equal(t, http.StatusConflict, resp.Status)
	})

	t.Run("公开查询", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/books?page=1&page_size=10", nil, "")
		require.Equal(t, http.StatusOK, resp.Status)

		var page struct {
			Total int64 `json:"total"`
		}
		resp.decode(t, &page)
		assert.Equal(t, int64(1), page.Total)

		resp = s.do(t, http.MethodGet, "/api/books/search/databases", nil, "")
		require.Equal(t, http.StatusOK, resp.Status)
		var found []map[string]any
		resp.decode(t, &found)
		assert.Len(t, found, 1)

		resp = s.do(t, http.MethodGet, "/api/books/categories", nil, "")
		require.Equal(t, http.StatusOK, resp.Status)
		var categories []string
		resp.decode(t, &categories)
		assert.Contains(t, categories, "Databases")
	})

	t.Run("部分更新", func(t *testing.T) {
		resp := s.do(t, http.MethodPut, "/api/books/"+id, map[string]any{"quantity": 5}, admin.Token)
		require.Equal(t, http.StatusOK, resp.Status, resp.Message)
		assert.Equal(t, 5, s.bookQuantity(t, id))
	})

	t.Run("图书不存在返回404", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/books/B999", nil, "")
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})
}

func TestCirculationFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAndLogin(t, "Admin", "admin@library.org", "ADMIN")
	alice := s.registerAndLogin(t, "Alice", "alice@library.org", "")
	bob := s.registerAndLogin(t, "Bob", "bob@library.org", "")
	first := s.createBook(t, admin, "9780134190440", 1)
	second := s.createBook(t, admin, "9780262033848", 2)

	t.Run("不能借给管理员", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/issues", map[string]any{
			"user_id": admin.ID,
			"book_id": first,
		}, admin.Token)
		assert.Equal(t, http.StatusForbidden, resp.Status)
		assert.Equal(t, "USER_IS_ADMIN", resp.Reason)
	})

	resp := s.do(t, http.MethodPost, "/api/issues", map[string]any{
		"user_id": alice.ID,
		"book_id": first,
	}, admin.Token)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)

	var issued struct {
		ID       string `json:"issue_record_id"`
		UserID   string `json:"user_id"`
		Returned bool   `json:"returned"`
	}
	resp.decode(t, &issued)
	assert.Equal(t, alice.ID, issued.UserID)
	assert.False(t, issued.Returned)
	assert.Equal(t, 0, s.bookQuantity(t, first))

	t.Run("数量为0时不能再借", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/issues", map[string]any{
			"user_id": bob.ID,
			"book_id": first,
		}, bob.Token)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, "BOOK_UNAVAILABLE", resp.Reason)
	})

	t.Run("他人不能续借", func(t *testing.T) {
		resp := s.do(t, http.MethodPut, "/api/issues/renew/"+issued.ID, nil, bob.Token)
		assert.Equal(t, http.StatusForbidden, resp.Status)
		assert.Equal(t, "NOT_LOAN_OWNER", resp.Reason)
	})

	t.Run("借阅人可以续借", func(t *testing.T) {
		resp := s.do(t, http.MethodPut, "/api/issues/renew/"+issued.ID, nil, alice.Token)
		assert.Equal(t, http.StatusOK, resp.Status, resp.Message)
	})

	t.Run("他人不能查看借阅", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/issues/"+issued.ID, nil, bob.Token)
		assert.Equal(t, http.StatusForbidden, resp.Status)

		resp = s.do(t, http.MethodGet, "/api/issues/user/"+alice.ID, nil, alice.Token)
		assert.Equal(t, http.StatusOK, resp.Status)
	})

	t.Run("归还日期早于借出日期", func(t *testing.T) {
		resp := s.do(t, http.MethodPut, "/api/issues/return/"+issued.ID, map[string]any{
			"return_date": "2000-01-01",
		}, admin.Token)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, "RETURN_BEFORE_ISSUE", resp.Reason)
	})

	var fineID string
	t.Run("逾期归还产生罚款", func(t *testing.T) {
		resp := s.do(t, http.MethodPut, "/api/issues/return/"+issued.ID, map[string]any{
			"return_date": "2099-01-01",
		}, admin.Token)
		require.Equal(t, http.StatusOK, resp.Status, resp.Message)

		var result struct {
			Loan struct {
				Returned  bool    `json:"returned"`
				PaymentID *string `json:"payment_id"`
			} `json:"issue_record"`
			Fine *struct {
				PaymentID string `json:"payment_id"`
				Amount    string `json:"amount"`
				Status    string `json:"status"`
			} `json:"fine"`
		}
		resp.decode(t, &result)
		require.NotNil(t, result.Fine)
		assert.True(t, result.Loan.Returned)
		assert.Equal(t, "10.00", result.Fine.Amount)
		assert.Equal(t, "PENDING", result.Fine.Status)
		require.NotNil(t, result.Loan.PaymentID)
		assert.Equal(t, result.Fine.PaymentID, *result.Loan.PaymentID)
		fineID = result.Fine.PaymentID

		// 默认不恢复可借数量
		assert.Equal(t, 0, s.bookQuantity(t, first))
	})

	t.Run("重复归还返回400", func(t *testing.T) {
		resp := s.do(t, http.MethodPut, "/api/issues/return/"+issued.ID, map[string]any{
			"return_date": "2099-01-02",
		}, admin.Token)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, "LOAN_ALREADY_RETURNED", resp.Reason)
	})

	t.Run("有待付罚款不能借书", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/issues", map[string]any{
			"user_id": alice.ID,
			"book_id": second,
		}, admin.Token)
		assert.Equal(t, http.StatusForbidden, resp.Status)
		assert.Equal(t, "PENDING_PAYMENT", resp.Reason)
	})

	t.Run("付清后可以借书", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/payments/update/"+fineID, map[string]any{
			"status":         "PAID",
			"payment_method": "card",
			"transaction_id": "txn_1",
		}, alice.Token)
		require.Equal(t, http.StatusOK, resp.Status, resp.Message)

		resp = s.do(t, http.MethodPost, "/api/issues", map[string]any{
			"user_id": alice.ID,
			"book_id": second,
		}, admin.Token)
		assert.Equal(t, http.StatusCreated, resp.Status, resp.Message)
	})

	t.Run("个人主页", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/users/profile", nil, alice.Token)
		require.Equal(t, http.StatusOK, resp.Status)

		var profile struct {
			Current  []map[string]any `json:"current_issues"`
			Returned []map[string]any `json:"returned_issues"`
			Pending  []map[string]any `json:"pending_payments"`
			Paid     []map[string]any `json:"paid_payments"`
		}
		resp.decode(t, &profile)
		assert.Len(t, profile.Current, 1)
		assert.Len(t, profile.Returned, 1)
		assert.Empty(t, profile.Pending)
		assert.Len(t, profile.Paid, 1)
	})

	t.Run("有未归还借阅不能删除用户", func(t *testing.T) {
		resp := s.do(t, http.MethodDelete, "/api/users/"+alice.ID, nil, admin.Token)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, "USER_HAS_ACTIVE_LOANS", resp.Reason)
	})

	assert.Equal(t, []event.Type{
		event.LoanIssued,
		event.LoanRenewed,
		event.FineCreated,
		event.LoanReturned,
		event.PaymentStatusChanged,
		event.LoanIssued,
	}, s.events.types())
}

func TestLostDamagedAndDashboard(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAndLogin(t, "Admin", "admin@library.org", "ADMIN")
	student := s.registerAndLogin(t, "Alice", "alice@library.org", "")
	id := s.createBook(t, admin, "9780134190440", 5)

	t.Run("学生不能登记", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/lost-damaged", nil, student.Token)
		assert.Equal(t, http.StatusForbidden, resp.Status)
	})

	resp := s.do(t, http.MethodPost, "/api/lost-damaged", map[string]any{
		"book_id":  id,
		"quantity": 2,
	}, admin.Token)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)

	var saved struct {
		Record struct {
			ID string `json:"lost_damaged_book_id"`
		} `json:"record"`
		Created bool `json:"created"`
	}
	resp.decode(t, &saved)
	assert.True(t, saved.Created)
	assert.Equal(t, 3, s.bookQuantity(t, id))

	t.Run("超出可借数量", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/lost-damaged", map[string]any{
			"book_id":  id,
			"quantity": 6,
		}, admin.Token)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})

	t.Run("统计", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/dashboard/stats", nil, admin.Token)
		require.Equal(t, http.StatusOK, resp.Status, resp.Message)

		var stats struct {
			TotalStudents    int64  `json:"totalStudents"`
			TotalAdmins      int64  `json:"totalAdmins"`
			LostDamagedBooks int64  `json:"lostDamagedBooks"`
			PendingPayments  int64  `json:"pendingPayments"`
			TotalRevenue     string `json:"totalRevenue"`
		}
		resp.decode(t, &stats)
		assert.Equal(t, int64(1), stats.TotalStudents)
		assert.Equal(t, int64(1), stats.TotalAdmins)
		assert.Equal(t, int64(2), stats.LostDamagedBooks)
		assert.Equal(t, int64(0), stats.PendingPayments)
		assert.Equal(t, "0.00", stats.TotalRevenue)

		resp = s.do(t, http.MethodGet, "/api/dashboard/stats", nil, student.Token)
		assert.Equal(t, http.StatusForbidden, resp.Status)
	})

	t.Run("数量改为0恢复库存", func(t *testing.T) {
		resp := s.do(t, http.MethodPut, "/api/lost-damaged/"+saved.Record.ID, map[string]any{
			"quantity": 0,
		}, admin.Token)
		require.Equal(t, http.StatusOK, resp.Status, resp.Message)
		assert.Equal(t, 5, s.bookQuantity(t, id))

		resp = s.do(t, http.MethodGet, "/api/lost-damaged/"+saved.Record.ID, nil, admin.Token)
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})
}

func TestOperationalRoutes(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/ping", nil, "")
	assert.Equal(t, http.StatusOK, resp.Status)

	resp = s.do(t, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, resp.Status)

	var health struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	resp.decode(t, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Checks["database"])
}
