package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/command"
	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/repository"
	"github.com/Preet1920/finebookeasyaccounting/shared/cqrs"
	"github.com/Preet1920/finebookeasyaccounting/shared/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ---- mock implementations ----

type mockUserCommander struct {
	registerFn       func(cqrs.RegisterCommand) (*models.UserView, error)
	loginFn          func(cqrs.LoginCommand) (*models.SessionView, error)
	updateProfileFn  func(cqrs.UpdateProfileCommand) (*models.UserView, error)
	changePasswordFn func(cqrs.ChangePasswordCommand) error
	loggedOut        bool
}

func (m *mockUserCommander) Register(cmd cqrs.RegisterCommand) (*models.UserView, error) {
	if m.registerFn != nil {
		return m.registerFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserCommander) Login(cmd cqrs.LoginCommand) (*models.SessionView, error) {
	if m.loginFn != nil {
		return m.loginFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserCommander) Logout() { m.loggedOut = true }
func (m *mockUserCommander) UpdateProfile(cmd cqrs.UpdateProfileCommand) (*models.UserView, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserCommander) ChangePassword(cmd cqrs.ChangePasswordCommand) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(cmd)
	}
	return fmt.Errorf("not configured")
}

type mockUserQuerier struct {
	getFn func(cqrs.GetUserQuery) (*models.UserView, error)
}

func (m *mockUserQuerier) GetUser(q cqrs.GetUserQuery) (*models.UserView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockUserQuerier) Session() *models.SessionView {
	return &models.SessionView{ActiveCurrency: "USD"}
}

type mockBookCommander struct {
	addBookFn         func(cqrs.AddBookCommand) (*models.BookView, error)
	updateCurrencyFn  func(cqrs.UpdateBookCurrencyCommand) (*models.BookView, error)
	selectFn          func(cqrs.SelectBookCommand) (*models.SessionView, error)
	requestBookDelFn  func(cqrs.RequestDeleteBookCommand) (*models.Deletion, error)
	requestTxDelFn    func(cqrs.RequestDeleteTransactionCommand) (*models.Deletion, error)
	confirmFn         func(cqrs.ConfirmDeleteCommand) (*models.Deletion, error)
	addTxFn           func(cqrs.AddTransactionCommand) (*models.Transaction, error)
	updateTxFn        func(cqrs.UpdateTransactionCommand) (*models.Transaction, error)
	addMSBFn          func(cqrs.AddMSBTransactionCommand) (*models.Transaction, error)
	updateMSBFn       func(cqrs.UpdateMSBTransactionCommand) (*models.Transaction, error)
	updateMSBStatusFn func(cqrs.UpdateMSBStatusCommand) (*models.Transaction, error)
}

func (m *mockBookCommander) AddBook(cmd cqrs.AddBookCommand) (*models.BookView, error) {
	if m.addBookFn != nil {
		return m.addBookFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBookCommander) UpdateBookCurrency(cmd cqrs.UpdateBookCurrencyCommand) (*models.BookView, error) {
	if m.updateCurrencyFn != nil {
		return m.updateCurrencyFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBookCommander) SelectBook(cmd cqrs.SelectBookCommand) (*models.SessionView, error) {
	if m.selectFn != nil {
		return m.selectFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBookCommander) RequestDeleteBook(cmd cqrs.RequestDeleteBookCommand) (*models.Deletion, error) {
	if m.requestBookDelFn != nil {
		return m.requestBookDelFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBookCommander) RequestDeleteTransaction(cmd cqrs.RequestDeleteTransactionCommand) (*models.Deletion, error) {
	if m.requestTxDelFn != nil {
		return m.requestTxDelFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBookCommander) ConfirmDelete(cmd cqrs.ConfirmDeleteCommand) (*models.Deletion, error) {
	if m.confirmFn != nil {
		return m.confirmFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBookCommander) AddTransaction(cmd cqrs.AddTransactionCommand) (*models.Transaction, error) {
	if m.addTxFn != nil {
		return m.addTxFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBookCommander) UpdateTransaction(cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
	if m.updateTxFn != nil {
		return m.updateTxFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBookCommander) AddMSBTransaction(cmd cqrs.AddMSBTransactionCommand) (*models.Transaction, error) {
	if m.addMSBFn != nil {
		return m.addMSBFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBookCommander) UpdateMSBTransaction(cmd cqrs.UpdateMSBTransactionCommand) (*models.Transaction, error) {
	if m.updateMSBFn != nil {
		return m.updateMSBFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBookCommander) UpdateMSBStatus(cmd cqrs.UpdateMSBStatusCommand) (*models.Transaction, error) {
	if m.updateMSBStatusFn != nil {
		return m.updateMSBStatusFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

type mockBookQuerier struct {
	listFn  func(cqrs.ListBooksQuery) ([]models.BookView, error)
	getFn   func(cqrs.GetBookQuery) (*models.BookView, error)
	getTxFn func(cqrs.GetTransactionQuery) (*models.Transaction, error)
}

func (m *mockBookQuerier) ListBooks(q cqrs.ListBooksQuery) ([]models.BookView, error) {
	if m.listFn != nil {
		return m.listFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBookQuerier) GetBook(q cqrs.GetBookQuery) (*models.BookView, error) {
	if m.getFn != nil {
		return m.getFn(q)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockBookQuerier) GetTransaction(q cqrs.GetTransactionQuery) (*models.Transaction, error) {
	if m.getTxFn != nil {
		return m.getTxFn(q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeSession(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}
}

func newTestRouter(uc UserCommander, uq UserQuerier, bc BookCommander, bq BookQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	users := NewUserHandler(uc, uq)
	books := NewBookHandler(bc, bq)

	v1 := r.Group("/v1")
	v1.POST("/auth/register", users.Register)
	v1.POST("/auth/login", users.Login)
	v1.POST("/auth/logout", users.Logout)
	v1.GET("/session", users.GetSession)

	s := v1.Group("", fakeSession("usr-001"))
	s.GET("/profile", users.GetProfile)
	s.PATCH("/profile", users.UpdateProfile)
	s.POST("/profile/password", users.ChangePassword)
	s.GET("/books", books.ListBooks)
	s.POST("/books", books.CreateBook)
	s.GET("/books/:bookId", books.GetBook)
	s.PATCH("/books/:bookId", books.UpdateBook)
	s.POST("/books/:bookId/select", books.SelectBook)
	s.POST("/books/:bookId/deletions", books.RequestBookDeletion)
	s.GET("/books/:bookId/export", books.ExportBook)
	s.POST("/books/:bookId/transactions", books.CreateTransaction)
	s.PATCH("/books/:bookId/transactions/:transactionId", books.UpdateTransaction)
	s.POST("/books/:bookId/msb-transactions", books.CreateMSBTransaction)
	s.PUT("/books/:bookId/msb-transactions/:transactionId", books.ReplaceMSBTransaction)
	s.GET("/transactions/:transactionId", books.GetTransaction)
	s.PATCH("/transactions/:transactionId/status", books.UpdateMSBStatus)
	s.POST("/transactions/:transactionId/deletions", books.RequestTransactionDeletion)
	s.POST("/confirmations/:token", books.ConfirmDeletion)
	return r
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var aTestUser = &models.UserView{ID: "usr-001", Name: "Alice", Email: "a@x.com", PhoneNumber: "555-0100", BookCount: 1}

var aTestBook = &models.BookView{ID: "bk-001", Name: "My First Book", Currency: "USD", Type: models.BookTypeGeneral}

var aTestTransaction = &models.Transaction{
	ID: "tan-001", Description: "salary", Amount: decimal.NewFromInt(100),
	Type: models.TransactionIncome, Category: models.CategoryGeneral,
}

func aValidMSBBody() map[string]interface{} {
	return map[string]interface{}{
		"description": "to family",
		"msbDetails": map[string]interface{}{
			"senderName":        "Alice",
			"paymentType":       "CASH",
			"cashDetails":       map[string]interface{}{"receiverName": "Bob", "tokenCode": "T-1"},
			"sourceAmount":      1000,
			"sourceCurrency":    "CAD",
			"exchangeRate":      60,
			"receivingAmount":   60000,
			"receivingCurrency": "INR",
			"status":            "PENDING",
		},
	}
}

// ---- tests ----

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		registerFn     func(cqrs.RegisterCommand) (*models.UserView, error)
		expectedStatus int
	}{
		{
			name:           "success",
			body:           map[string]interface{}{"name": "Alice", "email": "a@x.com", "password": "pw"},
			registerFn:     func(cqrs.RegisterCommand) (*models.UserView, error) { return aTestUser, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - invalid email",
			body:           map[string]interface{}{"name": "Alice", "email": "nope", "password": "pw"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "conflict - duplicate email",
			body:           map[string]interface{}{"name": "Alice", "email": "a@x.com", "password": "pw"},
			registerFn:     func(cqrs.RegisterCommand) (*models.UserView, error) { return nil, command.ErrDuplicateEmail },
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "internal error",
			body:           map[string]interface{}{"name": "Alice", "email": "a@x.com", "password": "pw"},
			registerFn:     func(cqrs.RegisterCommand) (*models.UserView, error) { return nil, fmt.Errorf("boom") },
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockUserCommander{registerFn: tt.registerFn}, &mockUserQuerier{}, &mockBookCommander{}, &mockBookQuerier{})
			w := doRequest(router, http.MethodPost, "/v1/auth/register", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestLoginAndLogout(t *testing.T) {
	cmds := &mockUserCommander{loginFn: func(cmd cqrs.LoginCommand) (*models.SessionView, error) {
		if cmd.Password != "pw" {
			return nil, command.ErrInvalidCredentials
		}
		return &models.SessionView{UserID: "usr-001", LoggedIn: true}, nil
	}}
	router := newTestRouter(cmds, &mockUserQuerier{}, &mockBookCommander{}, &mockBookQuerier{})

	if w := doRequest(router, http.MethodPost, "/v1/auth/login", map[string]string{"email": "a@x.com", "password": "pw"}); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	w := doRequest(router, http.MethodPost, "/v1/auth/login", map[string]string{"email": "a@x.com", "password": "bad"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), command.ErrInvalidCredentials.Error()) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
	if w := doRequest(router, http.MethodPost, "/v1/auth/logout", nil); w.Code != http.StatusNoContent || !cmds.loggedOut {
		t.Errorf("expected 204 and logout, got %d", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/v1/session", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		changeFn       func(cqrs.ChangePasswordCommand) error
		expectedStatus int
	}{
		{
			name:           "success",
			body:           map[string]string{"currentPassword": "pw", "newPassword": "new"},
			changeFn:       func(cqrs.ChangePasswordCommand) error { return nil },
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "wrong current password",
			body:           map[string]string{"currentPassword": "x", "newPassword": "new"},
			changeFn:       func(cqrs.ChangePasswordCommand) error { return command.ErrWrongPassword },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing new password",
			body:           map[string]string{"currentPassword": "pw"},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockUserCommander{changePasswordFn: tt.changeFn}, &mockUserQuerier{}, &mockBookCommander{}, &mockBookQuerier{})
			w := doRequest(router, http.MethodPost, "/v1/profile/password", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateBook(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		addBookFn      func(cqrs.AddBookCommand) (*models.BookView, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]string{"name": "Savings", "currency": "USD", "type": "GENERAL"},
			addBookFn: func(cmd cqrs.AddBookCommand) (*models.BookView, error) {
				if cmd.OwnerID != "usr-001" {
					return nil, fmt.Errorf("unexpected owner %s", cmd.OwnerID)
				}
				return aTestBook, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - invalid type",
			body:           map[string]string{"name": "Savings", "currency": "USD", "type": "CHEQUE"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - name too short",
			body: map[string]string{"name": "ab", "currency": "USD", "type": "GENERAL"},
			addBookFn: func(cqrs.AddBookCommand) (*models.BookView, error) {
				return nil, &command.ValidationError{Field: "name", Message: command.ErrInvalidBookName.Error()}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "conflict - duplicate name",
			body:           map[string]string{"name": "savings", "currency": "USD", "type": "GENERAL"},
			addBookFn:      func(cqrs.AddBookCommand) (*models.BookView, error) { return nil, command.ErrDuplicateBookName },
			expectedStatus: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockUserCommander{}, &mockUserQuerier{}, &mockBookCommander{addBookFn: tt.addBookFn}, &mockBookQuerier{})
			w := doRequest(router, http.MethodPost, "/v1/books", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListBooksPassesTypeFilter(t *testing.T) {
	var got models.BookType
	qrys := &mockBookQuerier{listFn: func(q cqrs.ListBooksQuery) ([]models.BookView, error) {
		got = q.Type
		return []models.BookView{*aTestBook}, nil
	}}
	router := newTestRouter(&mockUserCommander{}, &mockUserQuerier{}, &mockBookCommander{}, qrys)
	w := doRequest(router, http.MethodGet, "/v1/books?type=MSB", nil)
	if w.Code != http.StatusOK || got != models.BookTypeMSB {
		t.Errorf("expected 200 with MSB filter, got %d filter=%q", w.Code, got)
	}
}

func TestDeletionFlow(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		url            string
		cmds           *mockBookCommander
		expectedStatus int
	}{
		{
			name:   "request book deletion",
			method: http.MethodPost, url: "/v1/books/bk-002/deletions",
			cmds: &mockBookCommander{requestBookDelFn: func(cmd cqrs.RequestDeleteBookCommand) (*models.Deletion, error) {
				return &models.Deletion{Token: "tok", Target: models.DeletionBook, TargetID: cmd.BookID}, nil
			}},
			expectedStatus: http.StatusAccepted,
		},
		{
			name:   "last book of type",
			method: http.MethodPost, url: "/v1/books/bk-001/deletions",
			cmds: &mockBookCommander{requestBookDelFn: func(cqrs.RequestDeleteBookCommand) (*models.Deletion, error) {
				return nil, command.ErrLastBookOfType
			}},
			expectedStatus: http.StatusConflict,
		},
		{
			name:   "request transaction deletion for unknown transaction",
			method: http.MethodPost, url: "/v1/transactions/tan-x/deletions",
			cmds: &mockBookCommander{requestTxDelFn: func(cqrs.RequestDeleteTransactionCommand) (*models.Deletion, error) {
				return nil, repository.ErrTransactionNotFound
			}},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "confirm",
			method: http.MethodPost, url: "/v1/confirmations/tok",
			cmds: &mockBookCommander{confirmFn: func(cmd cqrs.ConfirmDeleteCommand) (*models.Deletion, error) {
				if cmd.Token != "tok" || cmd.OwnerID != "usr-001" {
					return nil, command.ErrConfirmationNotFound
				}
				return &models.Deletion{Target: models.DeletionBook, TargetID: "bk-002"}, nil
			}},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "confirm expired",
			method: http.MethodPost, url: "/v1/confirmations/old",
			cmds: &mockBookCommander{confirmFn: func(cqrs.ConfirmDeleteCommand) (*models.Deletion, error) {
				return nil, command.ErrConfirmationExpired
			}},
			expectedStatus: http.StatusGone,
		},
		{
			name:   "confirm unknown",
			method: http.MethodPost, url: "/v1/confirmations/nope",
			cmds: &mockBookCommander{confirmFn: func(cqrs.ConfirmDeleteCommand) (*models.Deletion, error) {
				return nil, command.ErrConfirmationNotFound
			}},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockUserCommander{}, &mockUserQuerier{}, tt.cmds, &mockBookQuerier{})
			w := doRequest(router, tt.method, tt.url, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateTransaction(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		addTxFn        func(cqrs.AddTransactionCommand) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]interface{}{"description": "salary", "amount": 100.25, "type": "INCOME"},
			addTxFn: func(cmd cqrs.AddTransactionCommand) (*models.Transaction, error) {
				if cmd.Amount.String() != "100.25" || cmd.BookID != "bk-001" {
					return nil, fmt.Errorf("unexpected command %+v", cmd)
				}
				return aTestTransaction, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing amount",
			body:           map[string]interface{}{"description": "salary", "type": "INCOME"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - invalid type",
			body:           map[string]interface{}{"amount": 1, "type": "GIFT"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "wrong book type",
			body:           map[string]interface{}{"amount": 1, "type": "INCOME"},
			addTxFn:        func(cqrs.AddTransactionCommand) (*models.Transaction, error) { return nil, command.ErrBookTypeMismatch },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "book not found",
			body:           map[string]interface{}{"amount": 1, "type": "INCOME"},
			addTxFn:        func(cqrs.AddTransactionCommand) (*models.Transaction, error) { return nil, repository.ErrBookNotFound },
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockUserCommander{}, &mockUserQuerier{}, &mockBookCommander{addTxFn: tt.addTxFn}, &mockBookQuerier{})
			w := doRequest(router, http.MethodPost, "/v1/books/bk-001/transactions", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateTransactionPartialBody(t *testing.T) {
	cmds := &mockBookCommander{updateTxFn: func(cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
		if cmd.Description == nil || *cmd.Description != "renamed" || cmd.Amount != nil || cmd.Type != nil {
			return nil, fmt.Errorf("unexpected merge fields %+v", cmd)
		}
		return aTestTransaction, nil
	}}
	router := newTestRouter(&mockUserCommander{}, &mockUserQuerier{}, cmds, &mockBookQuerier{})
	w := doRequest(router, http.MethodPatch, "/v1/books/bk-001/transactions/tan-001", map[string]string{"description": "renamed"})
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d; body: %s", w.Code, w.Body.String())
	}
}

func TestCreateMSBTransaction(t *testing.T) {
	cmds := &mockBookCommander{addMSBFn: func(cmd cqrs.AddMSBTransactionCommand) (*models.Transaction, error) {
		if cmd.Details.PaymentType != models.PaymentCash || cmd.Details.CashDetails == nil || !cmd.Details.ReceivingAmount.Equal(decimal.NewFromInt(60000)) {
			return nil, fmt.Errorf("details not bound: %+v", cmd.Details)
		}
		return &models.Transaction{ID: "tan-002", Amount: cmd.Details.ReceivingAmount, Type: models.TransactionIncome, Category: models.CategoryMSB}, nil
	}}
	router := newTestRouter(&mockUserCommander{}, &mockUserQuerier{}, cmds, &mockBookQuerier{})
	w := doRequest(router, http.MethodPost, "/v1/books/bk-msb/msb-transactions", aValidMSBBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d; body: %s", w.Code, w.Body.String())
	}
	var got map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got["amount"] != float64(60000) {
		t.Errorf("expected amount serialised as a number, got %v", got["amount"])
	}

	body := aValidMSBBody()
	body["msbDetails"].(map[string]interface{})["paymentType"] = "CHEQUE"
	if w := doRequest(router, http.MethodPost, "/v1/books/bk-msb/msb-transactions", body); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown payment type, got %d", w.Code)
	}
}

func TestUpdateMSBStatus(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{name: "paid", body: map[string]string{"status": "PAID"}, expectedStatus: http.StatusOK},
		{name: "pending", body: map[string]string{"status": "PENDING"}, expectedStatus: http.StatusOK},
		{name: "unknown status", body: map[string]string{"status": "SETTLED"}, expectedStatus: http.StatusBadRequest},
	}
	cmds := &mockBookCommander{updateMSBStatusFn: func(cmd cqrs.UpdateMSBStatusCommand) (*models.Transaction, error) {
		return &models.Transaction{ID: cmd.TransactionID, MSBDetails: &models.MSBDetails{Status: cmd.Status}}, nil
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockUserCommander{}, &mockUserQuerier{}, cmds, &mockBookQuerier{})
			w := doRequest(router, http.MethodPatch, "/v1/transactions/tan-002/status", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestExportBook(t *testing.T) {
	qrys := &mockBookQuerier{getFn: func(q cqrs.GetBookQuery) (*models.BookView, error) {
		if q.BookID != "bk-001" {
			return nil, repository.ErrBookNotFound
		}
		view := *aTestBook
		view.Transactions = []models.Transaction{*aTestTransaction}
		return &view, nil
	}}
	router := newTestRouter(&mockUserCommander{}, &mockUserQuerier{}, &mockBookCommander{}, qrys)

	w := doRequest(router, http.MethodGet, "/v1/books/bk-001/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected CSV content type, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "tan-001") || !strings.Contains(w.Body.String(), "$100.00") {
		t.Errorf("unexpected export body %s", w.Body.String())
	}
	if w := doRequest(router, http.MethodGet, "/v1/books/bk-x/export", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
