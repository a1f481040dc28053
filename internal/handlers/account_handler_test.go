package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "mizan/internal/errors"
	"mizan/internal/models"
	"mizan/internal/pagination"
	"mizan/internal/services"
	"mizan/internal/validator"
)

const testUserID = "11111111-1111-4111-8111-111111111111"
const testAccountID = "22222222-2222-4222-8222-222222222222"
const testCurrencyID = "33333333-3333-4333-8333-333333333333"

// --- mock account service ---

type mockAccountService struct {
	createAccountFn     func(userID, name string, accountType models.AccountType, currencyID string, initialBalance decimal.Decimal, description string) (*models.Account, error)
	getUserAccountsFn   func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	getAccountByIDFn    func(userID, accountID string) (*models.Account, error)
	updateAccountFn     func(userID, accountID string, fields services.AccountUpdateFields) (*models.Account, error)
	deactivateAccountFn func(userID, accountID string) error
}

func (m *mockAccountService) CreateAccount(userID, name string, accountType models.AccountType, currencyID string, initialBalance decimal.Decimal, description string) (*models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(userID, name, accountType, currencyID, initialBalance, description)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	if m.getUserAccountsFn != nil {
		return m.getUserAccountsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Account{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockAccountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	if m.getAccountByIDFn != nil {
		return m.getAccountByIDFn(userID, accountID)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) UpdateAccount(userID, accountID string, fields services.AccountUpdateFields) (*models.Account, error) {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(userID, accountID, fields)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) DeactivateAccount(userID, accountID string) error {
	if m.deactivateAccountFn != nil {
		return m.deactivateAccountFn(userID, accountID)
	}
	return nil
}

func (m *mockAccountService) ApplyDelta(_ *gorm.DB, _ *models.Account, _ decimal.Decimal, _ models.BalanceDirection) error {
	return nil
}

// verify interface compliance
var _ services.AccountServicer = (*mockAccountService)(nil)

type mockAuditService struct{}

func (m *mockAuditService) Log(_, _, _, _, _ string, _ map[string]interface{}) {}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func setupAccountRouter(handler *AccountHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/accounts", handler.CreateAccount)
	auth.GET("/accounts", handler.GetUserAccounts)
	auth.GET("/accounts/:id", handler.GetAccountByID)
	auth.PUT("/accounts/:id", handler.UpdateAccount)
	auth.DELETE("/accounts/:id", handler.DeactivateAccount)
	return r
}

// --- tests ---

func TestAccountHandler_CreateAccount(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		acctSvc := &mockAccountService{
			createAccountFn: func(userID, name string, accountType models.AccountType, currencyID string, initialBalance decimal.Decimal, _ string) (*models.Account, error) {
				account := &models.Account{
					UserID:         userID,
					Name:           name,
					Type:           accountType,
					CurrencyID:     currencyID,
					InitialBalance: initialBalance,
					CurrentBalance: initialBalance,
					IsActive:       true,
				}
				account.ID = testAccountID
				return account, nil
			},
		}
		handler := NewAccountHandler(acctSvc, &mockAuditService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts",
			`{"name":"Checking","type":"current","currency_id":"`+testCurrencyID+`","initial_balance":"250.00"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		acct := result["account"].(map[string]interface{})
		if acct["name"] != "Checking" {
			t.Errorf("expected Checking, got %v", acct["name"])
		}
		if acct["current_balance"] != "250.00" {
			t.Errorf("expected balance 250, got %v", acct["current_balance"])
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{}, &mockAuditService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts",
			`{"type":"current","currency_id":"`+testCurrencyID+`"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid account type", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{}, &mockAuditService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts",
			`{"name":"Test","type":"offshore","currency_id":"`+testCurrencyID+`"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on malformed balance", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{}, &mockAuditService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts",
			`{"name":"Test","type":"current","currency_id":"`+testCurrencyID+`","initial_balance":"lots"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate name", func(t *testing.T) {
		acctSvc := &mockAccountService{
			createAccountFn: func(_, _ string, _ models.AccountType, _ string, _ decimal.Decimal, _ string) (*models.Account, error) {
				return nil, apperrors.ErrDuplicateAccountName
			},
		}
		handler := NewAccountHandler(acctSvc, &mockAuditService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts",
			`{"name":"Checking","type":"current","currency_id":"`+testCurrencyID+`"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_ACCOUNT_NAME")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/accounts", handler.CreateAccount)

		rec := doRequest(r, "POST", "/accounts", `{"name":"Test"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_GetUserAccounts(t *testing.T) {
	t.Run("returns 200 with paginated accounts", func(t *testing.T) {
		acctSvc := &mockAccountService{
			getUserAccountsFn: func(_ string, _ pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
				resp := pagination.NewPageResponse([]models.Account{
					{Name: "Checking"},
					{Name: "Savings"},
				}, 1, 20, 2)
				return &resp, nil
			},
		}
		handler := NewAccountHandler(acctSvc, &mockAuditService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 accounts, got %d", len(data))
		}
	})
}

func TestAccountHandler_GetAccountByID(t *testing.T) {
	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{}, &mockAuditService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		acctSvc := &mockAccountService{
			getAccountByIDFn: func(_, _ string) (*models.Account, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		handler := NewAccountHandler(acctSvc, &mockAuditService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts/"+testAccountID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_NOT_FOUND")
	})
}

func TestAccountHandler_UpdateAccount(t *testing.T) {
	t.Run("returns 200 and passes fields through", func(t *testing.T) {
		var captured services.AccountUpdateFields
		acctSvc := &mockAccountService{
			updateAccountFn: func(_, _ string, fields services.AccountUpdateFields) (*models.Account, error) {
				captured = fields
				return &models.Account{Name: *fields.Name}, nil
			},
		}
		handler := NewAccountHandler(acctSvc, &mockAuditService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "PUT", "/accounts/"+testAccountID,
			`{"name":"Renamed","color":"#ff0000"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Name == nil || *captured.Name != "Renamed" {
			t.Error("expected name to be passed to the service")
		}
		if captured.Color == nil || *captured.Color != "#ff0000" {
			t.Error("expected color to be passed to the service")
		}
		if captured.Description != nil {
			t.Error("expected absent fields to stay nil")
		}
	})

	t.Run("returns 400 on invalid color", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{}, &mockAuditService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "PUT", "/accounts/"+testAccountID, `{"color":"red"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_DeactivateAccount(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{}, &mockAuditService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "DELETE", "/accounts/"+testAccountID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestNotFoundRoute(t *testing.T) {
	t.Run("returns 404 on unregistered path", func(t *testing.T) {
		r := gin.New()
		r.NoRoute(NotFound)

		rec := doRequest(r, "GET", "/no-such-route", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOT_FOUND")
	})
}
