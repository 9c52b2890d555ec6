package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianLagraba/fin-pro/internal/cache"
	"github.com/julianLagraba/fin-pro/internal/config"
	"github.com/julianLagraba/fin-pro/internal/database"
	"github.com/julianLagraba/fin-pro/internal/events"
	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/logger"
	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

var systemCategories = []string{"Sueldo", "Alquiler", "Supermercado", "Servicios", "Ocio", "Transporte"}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "api.db"),
		},
		JWT:      config.JWTConfig{Secret: "test-secret", Issuer: "fin-pro-test", ExpireHours: 1},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
		Ledger:   config.LedgerConfig{DefaultCategory: "Sueldo", SystemCategories: systemCategories},
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedCategories(db, cfg.Ledger.SystemCategories); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := ledger.NewService(db, cache.NewMemory(64), events.Nop{}, logger.Nop(), ledger.Config{
		DefaultCategory: cfg.Ledger.DefaultCategory,
		BcryptCost:      cfg.Security.BcryptCost,
	})
	return &testAPI{t: t, engine: SetupRouter(cfg, svc, logger.Nop())}
}

func (a *testAPI) raw(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// call performs the request, checks the HTTP status and decodes data into out.
func (a *testAPI) call(method, path, token string, body any, wantStatus int, out any) apiResponse {
	a.t.Helper()
	w := a.raw(method, path, token, body)
	if w.Code != wantStatus {
		a.t.Fatalf("%s %s: status = %d, want %d, body %s", method, path, w.Code, wantStatus, w.Body.String())
	}
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		a.t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	if out != nil {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			a.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
	return resp
}

// login registers a user and returns its token.
func (a *testAPI) login(email string) string {
	a.t.Helper()
	a.call(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "Secret123",
	}, http.StatusCreated, nil)

	var data struct {
		AccessToken string `json:"access_token"`
	}
	a.call(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "Secret123",
	}, http.StatusOK, &data)
	if data.AccessToken == "" {
		a.t.Fatalf("login returned empty token")
	}
	return data.AccessToken
}

func (a *testAPI) createAccount(token, name, currency string, balance int64) models.Account {
	a.t.Helper()
	var data struct {
		Account models.Account `json:"account"`
	}
	a.call(http.MethodPost, "/api/accounts", token, gin.H{
		"name":     name,
		"currency": currency,
		"balance":  balance,
	}, http.StatusCreated, &data)
	return data.Account
}

func (a *testAPI) categoryID(token, name string) uint {
	a.t.Helper()
	var data struct {
		Categories []struct {
			ID       uint   `json:"id"`
			Name     string `json:"name"`
			IsSystem bool   `json:"is_system"`
		} `json:"categories"`
	}
	a.call(http.MethodGet, "/api/categories", token, nil, http.StatusOK, &data)
	for _, c := range data.Categories {
		if c.Name == name {
			return c.ID
		}
	}
	a.t.Fatalf("category %q not listed", name)
	return 0
}

func assertDecimal(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", what, got, want)
	}
}

func TestHealthzEchoesRequestID(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("X-Request-ID = %q, want req-123", got)
	}

	w = api.raw(http.MethodGet, "/healthz", "", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id")
	}
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("Ana@Example.com")

	var me struct {
		User struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	api.call(http.MethodGet, "/api/me", token, nil, http.StatusOK, &me)
	if me.User.Email != "ana@example.com" {
		t.Fatalf("email = %q, want lower-cased", me.User.Email)
	}

	// token in query string is accepted for downloads
	w := api.raw(http.MethodGet, "/api/me?token="+token, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("query token: status = %d", w.Code)
	}

	resp := api.call(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "ana@example.com",
		"password": "Secret123",
	}, http.StatusConflict, nil)
	if resp.Code != util.CodeConflict {
		t.Fatalf("duplicate register code = %d", resp.Code)
	}

	api.call(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "weak@example.com",
		"password": "short",
	}, http.StatusBadRequest, nil)

	resp = api.call(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ana@example.com",
		"password": "Wrong1234",
	}, http.StatusUnauthorized, nil)
	if resp.Code != util.CodeAuth {
		t.Fatalf("bad login code = %d", resp.Code)
	}

	cases := map[string]string{
		"missing": "",
		"garbage": "not-a-jwt",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			w := api.raw(http.MethodGet, "/api/accounts", tok, nil)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestChangePasswordRoute(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("pw@example.com")

	api.call(http.MethodPost, "/api/profile/password", token, gin.H{
		"old_password": "Nope12345",
		"new_password": "Another123",
	}, http.StatusBadRequest, nil)

	api.call(http.MethodPost, "/api/profile/password", token, gin.H{
		"old_password": "Secret123",
		"new_password": "Another123",
	}, http.StatusOK, nil)

	api.call(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "pw@example.com",
		"password": "Another123",
	}, http.StatusOK, nil)
}

func TestMovementAndReconcile(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("mov@example.com")

	acc := api.createAccount(token, "Banco", "ARS", 1000)
	assertDecimal(t, "opening balance", acc.Balance, "1000")
	superID := api.categoryID(token, "Supermercado")

	var created struct {
		Transaction models.Transaction `json:"transaction"`
	}
	api.call(http.MethodPost, "/api/transactions", token, gin.H{
		"account_id":  acc.ID,
		"category_id": superID,
		"amount":      "-200.50",
		"description": "compras",
		"date":        "2025-03-01",
	}, http.StatusCreated, &created)
	assertDecimal(t, "transaction amount", created.Transaction.Amount, "-200.5")

	var accounts struct {
		Accounts []models.Account `json:"accounts"`
	}
	api.call(http.MethodGet, "/api/accounts", token, nil, http.StatusOK, &accounts)
	if len(accounts.Accounts) != 1 {
		t.Fatalf("accounts = %d, want 1", len(accounts.Accounts))
	}
	assertDecimal(t, "balance", accounts.Accounts[0].Balance, "799.5")

	var rec struct {
		Reconciliation ledger.Reconciliation `json:"reconciliation"`
	}
	api.call(http.MethodGet, fmt.Sprintf("/api/accounts/%d/reconcile", acc.ID), token, nil, http.StatusOK, &rec)
	if !rec.Reconciliation.Consistent {
		t.Fatalf("reconciliation not consistent: %+v", rec.Reconciliation)
	}

	var list struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	api.call(http.MethodGet, "/api/transactions?skip=0&limit=10", token, nil, http.StatusOK, &list)
	if len(list.Transactions) != 1 {
		t.Fatalf("transactions = %d, want 1", len(list.Transactions))
	}

	api.call(http.MethodGet, "/api/transactions?limit=abc", token, nil, http.StatusBadRequest, nil)

	resp := api.call(http.MethodPost, "/api/transactions", token, gin.H{
		"account_id":  9999,
		"category_id": superID,
		"amount":      10,
	}, http.StatusNotFound, nil)
	if resp.Code != util.CodeNotFound {
		t.Fatalf("missing account code = %d", resp.Code)
	}

	// another user cannot see or move the account
	other := api.login("other@example.com")
	api.call(http.MethodPost, "/api/transactions", other, gin.H{
		"account_id":  acc.ID,
		"category_id": superID,
		"amount":      10,
	}, http.StatusNotFound, nil)
	api.call(http.MethodDelete, fmt.Sprintf("/api/accounts/%d", acc.ID), other, nil, http.StatusNotFound, nil)

	api.call(http.MethodDelete, fmt.Sprintf("/api/accounts/%d", acc.ID), token, nil, http.StatusOK, nil)
	api.call(http.MethodGet, "/api/transactions", token, nil, http.StatusOK, &list)
	if len(list.Transactions) != 0 {
		t.Fatalf("transactions after account delete = %d, want 0", len(list.Transactions))
	}
}

func TestCategoryRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("cat@example.com")

	for _, name := range systemCategories {
		id := api.categoryID(token, name)
		resp := api.call(http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), token, nil, http.StatusForbidden, nil)
		if resp.Code != util.CodeForbidden {
			t.Fatalf("delete %s code = %d", name, resp.Code)
		}
	}

	var created struct {
		Category struct {
			ID       uint `json:"id"`
			IsSystem bool `json:"is_system"`
		} `json:"category"`
	}
	api.call(http.MethodPost, "/api/categories", token, gin.H{"name": "Freelance"}, http.StatusCreated, &created)
	if created.Category.IsSystem {
		t.Fatalf("user category reported as system")
	}
	if got := api.categoryID(token, "Freelance"); got != created.Category.ID {
		t.Fatalf("listed id = %d, want %d", got, created.Category.ID)
	}

	acc := api.createAccount(token, "Caja", "ARS", 0)
	api.call(http.MethodPost, "/api/transactions", token, gin.H{
		"account_id":  acc.ID,
		"category_id": created.Category.ID,
		"amount":      50,
	}, http.StatusCreated, nil)

	path := fmt.Sprintf("/api/categories/%d", created.Category.ID)
	api.call(http.MethodDelete, path, token, nil, http.StatusConflict, nil)

	api.call(http.MethodDelete, "/api/categories/abc", token, nil, http.StatusBadRequest, nil)
	api.call(http.MethodDelete, "/api/categories/9999", token, nil, http.StatusNotFound, nil)
}

func TestPayJobRoute(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("jobs@example.com")
	acc := api.createAccount(token, "Banco", "ARS", 0)

	var client struct {
		Client models.Client `json:"client"`
	}
	api.call(http.MethodPost, "/api/clients", token, gin.H{"name": "ACME"}, http.StatusCreated, &client)

	var job struct {
		Job models.Job `json:"job"`
	}
	api.call(http.MethodPost, fmt.Sprintf("/api/clients/%d/jobs", client.Client.ID), token, gin.H{
		"description": "Logo",
		"amount":      100,
		"currency":    "USD",
		"date":        "2025-02-10",
	}, http.StatusCreated, &job)

	payPath := fmt.Sprintf("/api/jobs/%d/pay", job.Job.ID)
	var paid struct {
		Transaction models.Transaction `json:"transaction"`
	}
	api.call(http.MethodPost, payPath, token, gin.H{
		"account_id":    acc.ID,
		"exchange_rate": 350,
	}, http.StatusOK, &paid)
	assertDecimal(t, "paid amount", paid.Transaction.Amount, "35000")
	if !strings.Contains(paid.Transaction.Description, "U$S 100 x 350") {
		t.Fatalf("description = %q", paid.Transaction.Description)
	}

	resp := api.call(http.MethodPost, payPath, token, gin.H{
		"account_id":    acc.ID,
		"exchange_rate": 350,
	}, http.StatusConflict, nil)
	if resp.Code != util.CodeConflict {
		t.Fatalf("second pay code = %d", resp.Code)
	}

	var jobs struct {
		Jobs []models.Job `json:"jobs"`
	}
	api.call(http.MethodGet, fmt.Sprintf("/api/clients/%d/jobs", client.Client.ID), token, nil, http.StatusOK, &jobs)
	if len(jobs.Jobs) != 1 || !jobs.Jobs[0].IsPaid {
		t.Fatalf("jobs = %+v, want one paid job", jobs.Jobs)
	}

	var accounts struct {
		Accounts []models.Account `json:"accounts"`
	}
	api.call(http.MethodGet, "/api/accounts", token, nil, http.StatusOK, &accounts)
	assertDecimal(t, "balance", accounts.Accounts[0].Balance, "35000")
}

func TestGoalDepositRoute(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("goal@example.com")
	ars := api.createAccount(token, "Pesos", "ARS", 1000)
	usd := api.createAccount(token, "Dolares", "USD", 10)

	var goal struct {
		Goal models.Goal `json:"goal"`
	}
	api.call(http.MethodPost, "/api/goals", token, gin.H{
		"name":          "Viaje",
		"target_amount": 1000,
		"currency":      "USD",
		"deadline":      "2026-12-31",
	}, http.StatusCreated, &goal)
	if goal.Goal.Deadline == nil {
		t.Fatalf("deadline not stored")
	}
	path := fmt.Sprintf("/api/goals/%d/deposit", goal.Goal.ID)

	resp := api.call(http.MethodPost, path, token, gin.H{"account_id": ars.ID, "amount": 5}, http.StatusUnprocessableEntity, nil)
	if resp.Code != util.CodeCurrencyMismatch {
		t.Fatalf("mismatch code = %d", resp.Code)
	}
	if !strings.Contains(resp.Message, "USD") || !strings.Contains(resp.Message, "ARS") {
		t.Fatalf("mismatch message %q should name both currencies", resp.Message)
	}

	resp = api.call(http.MethodPost, path, token, gin.H{"account_id": usd.ID, "amount": 50}, http.StatusUnprocessableEntity, nil)
	if resp.Code != util.CodeInsufficientFunds {
		t.Fatalf("insufficient code = %d", resp.Code)
	}

	api.call(http.MethodPost, path, token, gin.H{"account_id": usd.ID, "amount": 0}, http.StatusBadRequest, nil)

	var dep struct {
		Transaction    models.Transaction `json:"transaction"`
		NewGoalTotal   decimal.Decimal    `json:"new_goal_total"`
		AccountBalance decimal.Decimal    `json:"account_balance"`
	}
	api.call(http.MethodPost, path, token, gin.H{"account_id": usd.ID, "amount": 4}, http.StatusOK, &dep)
	assertDecimal(t, "goal total", dep.NewGoalTotal, "4")
	assertDecimal(t, "account balance", dep.AccountBalance, "6")
	assertDecimal(t, "transaction amount", dep.Transaction.Amount, "-4")

	api.call(http.MethodDelete, fmt.Sprintf("/api/goals/%d", goal.Goal.ID), token, nil, http.StatusOK, nil)
	var goals struct {
		Goals []models.Goal `json:"goals"`
	}
	api.call(http.MethodGet, "/api/goals", token, nil, http.StatusOK, &goals)
	if len(goals.Goals) != 0 {
		t.Fatalf("goals after delete = %d", len(goals.Goals))
	}
}

func TestSubscriptionAndCardRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("subs@example.com")

	var card struct {
		CreditCard models.CreditCard `json:"credit_card"`
	}
	api.call(http.MethodPost, "/api/credit-cards", token, gin.H{
		"name":        "Visa",
		"limit":       500000,
		"closing_day": 25,
	}, http.StatusCreated, &card)

	var sub struct {
		Subscription models.Subscription `json:"subscription"`
	}
	api.call(http.MethodPost, "/api/subscriptions", token, gin.H{
		"name":        "Netflix",
		"price":       "4999.99",
		"currency":    "ARS",
		"billing_day": 5,
		"card_id":     card.CreditCard.ID,
	}, http.StatusCreated, &sub)
	if sub.Subscription.CardID == nil || *sub.Subscription.CardID != card.CreditCard.ID {
		t.Fatalf("subscription card = %v", sub.Subscription.CardID)
	}

	purchasesPath := fmt.Sprintf("/api/credit-cards/%d/purchases", card.CreditCard.ID)
	var purchases struct {
		Purchases []models.CardPurchase `json:"purchases"`
	}
	api.call(http.MethodGet, purchasesPath, token, nil, http.StatusOK, &purchases)
	if len(purchases.Purchases) != 1 {
		t.Fatalf("purchases = %d, want 1", len(purchases.Purchases))
	}
	p := purchases.Purchases[0]
	if p.Description != "Subscription: Netflix" || !p.IsRecurring || p.Installments != 1 {
		t.Fatalf("seeded purchase = %+v", p)
	}

	// foreign card
	other := api.login("other-subs@example.com")
	api.call(http.MethodPost, "/api/subscriptions", other, gin.H{
		"name":        "Spotify",
		"price":       1000,
		"billing_day": 10,
		"card_id":     card.CreditCard.ID,
	}, http.StatusNotFound, nil)

	api.call(http.MethodPost, purchasesPath, token, gin.H{
		"description":  "Heladera",
		"amount":       900000,
		"installments": 12,
		"date":         "2025-01-15",
	}, http.StatusCreated, nil)
	api.call(http.MethodGet, purchasesPath, token, nil, http.StatusOK, &purchases)
	if len(purchases.Purchases) != 2 {
		t.Fatalf("purchases = %d, want 2", len(purchases.Purchases))
	}

	api.call(http.MethodPost, purchasesPath, token, gin.H{
		"amount": 10,
		"date":   "15/01/2025",
	}, http.StatusBadRequest, nil)

	api.call(http.MethodDelete, fmt.Sprintf("/api/card-purchases/%d", p.ID), other, nil, http.StatusNotFound, nil)
	api.call(http.MethodDelete, fmt.Sprintf("/api/card-purchases/%d", p.ID), token, nil, http.StatusOK, nil)

	var subs struct {
		Subscriptions []models.Subscription `json:"subscriptions"`
	}
	api.call(http.MethodGet, "/api/subscriptions", token, nil, http.StatusOK, &subs)
	if len(subs.Subscriptions) != 1 {
		t.Fatalf("subscriptions = %d, want 1", len(subs.Subscriptions))
	}
}

func TestExportRoutes(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("export@example.com")
	acc := api.createAccount(token, "Banco", "ARS", 0)
	api.call(http.MethodPost, "/api/transactions", token, gin.H{
		"account_id":  acc.ID,
		"category_id": api.categoryID(token, "Sueldo"),
		"amount":      "1500.25",
		"description": "marzo",
		"date":        "2025-03-01",
	}, http.StatusCreated, nil)

	w := api.raw(http.MethodGet, "/api/export/csv", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("csv status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "\xEF\xBB\xBF") {
		t.Fatalf("csv missing BOM")
	}
	if !strings.Contains(body, "2025-03-01,Banco,ARS,Sueldo,1500.25,marzo") {
		t.Fatalf("csv body = %q", body)
	}

	w = api.raw(http.MethodGet, "/api/export/xlsx", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("xlsx status = %d", w.Code)
	}
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("流水明细")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("xlsx rows = %d, want header + 1", len(rows))
	}
	if rows[1][1] != "Banco" || rows[1][5] != "marzo" {
		t.Fatalf("xlsx row = %v", rows[1])
	}
}
