package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/msomdec/bank-ledger/internal/handler"
	"github.com/msomdec/bank-ledger/internal/repository/sqlite"
	"github.com/msomdec/bank-ledger/internal/service"
)

const testJWTSecret = "test-secret-key-for-handler-tests"

// newTestServer builds the full router over a fresh database and returns a
// client whose cookie jar carries the auth_token between requests.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ledger := service.NewLedgerService(db.Accounts())
	creds := service.NewCredentialService(db.Users(), testJWTSecret, 4)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(handler.NewRouter(ledger, creds, logger, false))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{Jar: jar}

	return srv, client
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func getJSON(t *testing.T, client *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

// login registers a user and signs in, leaving the session cookie in the jar.
func login(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()

	resp := postJSON(t, client, baseURL+"/api/auth/register", map[string]string{
		"username": "teller",
		"password": "hunter2hunter2",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	resp = postJSON(t, client, baseURL+"/api/auth/login", map[string]string{
		"username": "teller",
		"password": "hunter2hunter2",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
}

func createAccount(t *testing.T, client *http.Client, baseURL string, number int64, accType string, balance int64) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/accounts", map[string]any{
		"number":     number,
		"holderName": "Holder",
		"type":       accType,
		"balance":    balance,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create account %d: expected 201, got %d", number, resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv, client := newTestServer(t)

	resp := getJSON(t, client, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Fatalf("expected status=ok, got %q", body["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, client := newTestServer(t)

	resp := getJSON(t, client, srv.URL+"/metrics")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv, client := newTestServer(t)

	resp := getJSON(t, client, srv.URL+"/healthz")
	resp.Body.Close()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
}

func TestAccountRoutes_RequireAuth(t *testing.T) {
	srv, client := newTestServer(t)

	resp := getJSON(t, client, srv.URL+"/api/accounts")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", resp.StatusCode)
	}
}

func TestAuthFlow(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	resp := getJSON(t, client, srv.URL+"/api/auth/me")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	if body.User.Username != "teller" {
		t.Fatalf("expected username teller, got %q", body.User.Username)
	}

	// Logout clears the cookie; the next call is unauthenticated.
	resp = postJSON(t, client, srv.URL+"/api/auth/logout", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", resp.StatusCode)
	}

	resp = getJSON(t, client, srv.URL+"/api/auth/me")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", resp.StatusCode)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	srv, client := newTestServer(t)

	resp := postJSON(t, client, srv.URL+"/api/auth/register", map[string]string{
		"username": "alice", "password": "x",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp = postJSON(t, client, srv.URL+"/api/auth/register", map[string]string{
		"username": "alice", "password": "y",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for taken username, got %d", resp.StatusCode)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv, client := newTestServer(t)

	resp := postJSON(t, client, srv.URL+"/api/auth/login", map[string]string{
		"username": "ghost", "password": "x",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAccountLifecycle(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	createAccount(t, client, srv.URL, 101, "S", 500)

	// Duplicate number is rejected.
	resp := postJSON(t, client, srv.URL+"/api/accounts", map[string]any{
		"number": 101, "holderName": "Other", "type": "C", "balance": 0,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate create: expected 409, got %d", resp.StatusCode)
	}

	// Fetch it back.
	resp = getJSON(t, client, srv.URL+"/api/accounts/101")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		Account struct {
			Number  int64  `json:"number"`
			Type    string `json:"type"`
			Balance int64  `json:"balance"`
		} `json:"account"`
	}
	decodeBody(t, resp, &got)
	if got.Account.Number != 101 || got.Account.Type != "S" || got.Account.Balance != 500 {
		t.Fatalf("unexpected account: %+v", got.Account)
	}

	// Modify, then delete, then 404.
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/accounts/101",
		bytes.NewReader([]byte(`{"holderName":"Renamed","type":"C","balance":750}`)))
	if err != nil {
		t.Fatalf("new PUT request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("modify: expected 204, got %d", resp.StatusCode)
	}

	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/accounts/101", nil)
	if err != nil {
		t.Fatalf("new DELETE request: %v", err)
	}
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.StatusCode)
	}

	resp = getJSON(t, client, srv.URL+"/api/accounts/101")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", resp.StatusCode)
	}

	// Deleting again is still a 204.
	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/api/accounts/101", nil)
	if err != nil {
		t.Fatalf("new second DELETE request: %v", err)
	}
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("second DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("second delete: expected 204, got %d", resp.StatusCode)
	}
}

func TestDepositAndWithdraw(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	createAccount(t, client, srv.URL, 101, "S", 500)

	resp := postJSON(t, client, srv.URL+"/api/accounts/101/deposit", map[string]int64{"amount": 250})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deposit: expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		Account struct {
			Balance int64 `json:"balance"`
		} `json:"account"`
	}
	decodeBody(t, resp, &got)
	if got.Account.Balance != 750 {
		t.Fatalf("expected balance 750 after deposit, got %d", got.Account.Balance)
	}

	resp = postJSON(t, client, srv.URL+"/api/accounts/101/withdraw", map[string]int64{"amount": 250})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("withdraw: expected 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &got)
	if got.Account.Balance != 500 {
		t.Fatalf("expected balance 500 after withdraw, got %d", got.Account.Balance)
	}

	// Over-withdrawal is rejected and the balance endpoint still shows 500.
	resp = postJSON(t, client, srv.URL+"/api/accounts/101/withdraw", map[string]int64{"amount": 501})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("over-withdraw: expected 422, got %d", resp.StatusCode)
	}

	resp = getJSON(t, client, srv.URL+"/api/accounts/101/balance")
	var bal map[string]int64
	decodeBody(t, resp, &bal)
	if bal["balance"] != 500 {
		t.Fatalf("expected balance 500 after failed withdraw, got %d", bal["balance"])
	}
}

func TestAdjust_MissingAccount(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	resp := postJSON(t, client, srv.URL+"/api/accounts/404/deposit", map[string]int64{"amount": 100})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAccountNumber_Malformed(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	resp := getJSON(t, client, srv.URL+"/api/accounts/abc")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric account number, got %d", resp.StatusCode)
	}
}

func TestCreateAccount_BadType(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	resp := postJSON(t, client, srv.URL+"/api/accounts", map[string]any{
		"number": 101, "holderName": "Holder", "type": "Savings", "balance": 100,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for full-word type, got %d", resp.StatusCode)
	}
}

func TestDashboardStats(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	var got struct {
		Stats struct {
			TotalAccounts int64 `json:"totalAccounts"`
			TotalBalance  int64 `json:"totalBalance"`
			SavingsCount  int64 `json:"savingsCount"`
			CurrentCount  int64 `json:"currentCount"`
		} `json:"stats"`
	}

	resp := getJSON(t, client, srv.URL+"/api/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &got)
	if got.Stats.TotalAccounts != 0 || got.Stats.TotalBalance != 0 {
		t.Fatalf("expected zero stats, got %+v", got.Stats)
	}

	createAccount(t, client, srv.URL, 101, "S", 500)
	createAccount(t, client, srv.URL, 102, "C", 1000)

	resp = getJSON(t, client, srv.URL+"/api/dashboard")
	decodeBody(t, resp, &got)
	if got.Stats.TotalAccounts != 2 || got.Stats.TotalBalance != 1500 ||
		got.Stats.SavingsCount != 1 || got.Stats.CurrentCount != 1 {
		t.Fatalf("expected (2, 1500, 1, 1), got %+v", got.Stats)
	}
}

func TestListAccounts(t *testing.T) {
	srv, client := newTestServer(t)
	login(t, client, srv.URL)

	for i := int64(1); i <= 3; i++ {
		createAccount(t, client, srv.URL, 100+i, "S", i*100)
	}

	resp := getJSON(t, client, srv.URL+"/api/accounts")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		Accounts []struct {
			Number int64 `json:"number"`
		} `json:"accounts"`
	}
	decodeBody(t, resp, &got)
	if len(got.Accounts) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(got.Accounts))
	}
	for i, acc := range got.Accounts {
		if want := int64(101 + i); acc.Number != want {
			t.Fatalf("expected account %d at index %d, got %d", want, i, acc.Number)
		}
	}
}
