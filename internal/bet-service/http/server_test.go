package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/account"
	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/auth"
)

// stubs embutem a interface: métodos não sobrescritos entram em pânico

type stubAccounts struct {
	Accounts
	registered []account.RegisterInput
}

func (s *stubAccounts) Register(_ context.Context, in account.RegisterInput) (model.User, error) {
	s.registered = append(s.registered, in)
	return model.User{DNI: in.DNI, FirstName: in.FirstName, BirthDate: in.BirthDate, Balance: decimal.Zero}, nil
}

func (s *stubAccounts) Get(_ context.Context, dni int64) (model.User, error) {
	return model.User{DNI: dni, Balance: decimal.RequireFromString("12.50")}, nil
}

type stubBets struct {
	Bets
	err    error
	userID int64
}

func (s *stubBets) Place(_ context.Context, userID, questionID, pronosticoID int64, stake decimal.Decimal) (model.Bet, decimal.Decimal, error) {
	s.userID = userID
	if s.err != nil {
		return model.Bet{}, decimal.Zero, s.err
	}
	b := model.Bet{ID: 1, UserID: userID, QuestionID: questionID, PronosticoID: pronosticoID, Stake: stake, Status: model.BetOpen}
	return b, decimal.NewFromInt(90), nil
}

type stubCatalog struct {
	Catalog
	privileged *bool
}

func (s *stubCatalog) EventsOn(_ context.Context, day time.Time, privileged bool) ([]model.Event, error) {
	s.privileged = &privileged
	return []model.Event{{ID: 7, Description: "final", Date: day.Add(20 * time.Hour), Visibility: model.VisibilityPublic}}, nil
}

type stubSettler struct {
	total decimal.Decimal
	err   error
	calls int
}

func (s *stubSettler) Settle(context.Context, int64, int64) (decimal.Decimal, error) {
	s.calls++
	return s.total, s.err
}

type testEnv struct {
	srv      *Server
	handler  http.Handler
	tokens   *auth.Tokens
	accounts *stubAccounts
	bets     *stubBets
	catalog  *stubCatalog
	settler  *stubSettler
	metrics  *Metrics
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		tokens:   auth.NewTokens("test-secret", time.Hour),
		accounts: &stubAccounts{},
		bets:     &stubBets{},
		catalog:  &stubCatalog{},
		settler:  &stubSettler{},
		metrics:  NewMetrics(prometheus.NewRegistry()),
	}
	env.srv = NewServer(zap.NewNop(), Services{
		Accounts: env.accounts,
		Catalog:  env.catalog,
		Bets:     env.bets,
		Settler:  env.settler,
	}, env.tokens, env.metrics)
	env.handler = env.srv.Router()
	return env
}

func (e *testEnv) token(t *testing.T, id auth.Identity) string {
	t.Helper()
	tok, err := e.tokens.Issue(id)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return tok
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindConflict, http.StatusConflict},
		{apperr.KindInsufficientFunds, http.StatusPaymentRequired},
		{apperr.KindAlreadySettled, http.StatusConflict},
		{apperr.KindStoreFailure, http.StatusServiceUnavailable},
		{apperr.KindUnauthorized, http.StatusUnauthorized},
		{apperr.KindForbidden, http.StatusForbidden},
		{apperr.KindUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.kind); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestRegister(t *testing.T) {
	env := newEnv(t)

	rec := env.do(http.MethodPost, "/v1/users", "", `{"dni":123,"firstName":"Ana","lastName":"Paz","email":"ana@x.com","password":"secret1","birthDate":"2000-05-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.accounts.registered) != 1 {
		t.Fatalf("Expected one registration, got %d", len(env.accounts.registered))
	}
	if got := env.accounts.registered[0].BirthDate.Format(time.DateOnly); got != "2000-05-01" {
		t.Errorf("Expected birth date 2000-05-01, got %s", got)
	}
}

func TestRegisterRejectsInvalidPayload(t *testing.T) {
	env := newEnv(t)

	bodies := []string{
		`not json`,
		`{"dni":123}`,
		`{"dni":123,"firstName":"Ana","lastName":"Paz","email":"nope","password":"secret1","birthDate":"2000-05-01"}`,
		`{"dni":123,"firstName":"Ana","lastName":"Paz","email":"ana@x.com","password":"secret1","birthDate":"01/05/2000"}`,
	}
	for _, b := range bodies {
		rec := env.do(http.MethodPost, "/v1/users", "", b)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", b, rec.Code)
			continue
		}
		if code := errorCode(t, rec); code != apperr.CodeWrongParameters {
			t.Errorf("body %q: expected wrong_parameters, got %s", b, code)
		}
	}
	if len(env.accounts.registered) != 0 {
		t.Errorf("Expected no registrations, got %d", len(env.accounts.registered))
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newEnv(t)

	rec := env.do(http.MethodPost, "/v1/bets", "", `{"questionId":1,"pronosticoId":2,"stake":"10"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rec.Code)
	}

	rec = env.do(http.MethodGet, "/v1/me", "garbage", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for invalid token, got %d", rec.Code)
	}
}

func TestMeReturnsBalanceAsString(t *testing.T) {
	env := newEnv(t)
	tok := env.token(t, auth.Identity{UserID: 42})

	rec := env.do(http.MethodGet, "/v1/me", tok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["balance"] != "12.5" {
		t.Errorf("Expected balance \"12.5\", got %v", body["balance"])
	}
	if body["dni"] != float64(42) {
		t.Errorf("Expected dni 42, got %v", body["dni"])
	}
}

func TestPlaceBetUsesTokenIdentity(t *testing.T) {
	env := newEnv(t)
	tok := env.token(t, auth.Identity{UserID: 7})

	rec := env.do(http.MethodPost, "/v1/bets", tok, `{"questionId":1,"pronosticoId":2,"stake":"10.00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.bets.userID != 7 {
		t.Errorf("Expected bet for user 7, got %d", env.bets.userID)
	}
}

func TestPlaceBetMapsDomainErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{apperr.InsufficientFunds("balance below 10"), http.StatusPaymentRequired, apperr.CodeNotEnoughChuti},
		{apperr.Validation(apperr.CodeInvalidOutcome, "x"), http.StatusBadRequest, apperr.CodeInvalidOutcome},
		{apperr.New(apperr.KindAlreadySettled, apperr.CodeAlreadySettled, "x"), http.StatusConflict, apperr.CodeAlreadySettled},
		{apperr.New(apperr.KindForbidden, apperr.CodeUserBanned, "x"), http.StatusForbidden, apperr.CodeUserBanned},
		{apperr.Wrap(apperr.KindStoreFailure, apperr.CodeStoreUnavailable, context.DeadlineExceeded, "x"), http.StatusServiceUnavailable, apperr.CodeStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			env := newEnv(t)
			env.bets.err = tt.err
			tok := env.token(t, auth.Identity{UserID: 7})

			rec := env.do(http.MethodPost, "/v1/bets", tok, `{"questionId":1,"pronosticoId":2,"stake":"10"}`)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newEnv(t)
	user := env.token(t, auth.Identity{UserID: 7})
	admin := env.token(t, auth.Identity{UserID: 1, Admin: true})
	env.settler.total = decimal.RequireFromString("15")

	rec := env.do(http.MethodPost, "/v1/admin/questions/3/settle", user, `{"pronosticoId":4}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for regular user, got %d", rec.Code)
	}
	if env.settler.calls != 0 {
		t.Fatalf("Expected settler untouched, got %d calls", env.settler.calls)
	}

	rec = env.do(http.MethodPost, "/v1/admin/questions/3/settle", admin, `{"pronosticoId":4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Disbursed decimal.Decimal `json:"disbursed"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Disbursed.Equal(decimal.NewFromInt(15)) {
		t.Errorf("Expected disbursed 15, got %s", body.Disbursed)
	}
}

func TestSettlePartialFailure(t *testing.T) {
	env := newEnv(t)
	admin := env.token(t, auth.Identity{UserID: 1, Admin: true})
	env.settler.total = decimal.NewFromInt(5)
	env.settler.err = apperr.Wrap(apperr.KindStoreFailure, apperr.CodeSettlementFailed, context.Canceled, "bet 9")

	rec := env.do(http.MethodPost, "/v1/admin/questions/3/settle", admin, `{"pronosticoId":4}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != apperr.CodeSettlementFailed {
		t.Errorf("Expected settlement_failed, got %s", code)
	}
}

func TestListEventsPrivilege(t *testing.T) {
	env := newEnv(t)

	rec := env.do(http.MethodGet, "/v1/events?date=2026-11-01", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if env.catalog.privileged == nil || *env.catalog.privileged {
		t.Fatalf("Expected anonymous listing to be unprivileged")
	}

	admin := env.token(t, auth.Identity{UserID: 1, Admin: true})
	rec = env.do(http.MethodGet, "/v1/events?date=2026-11-01", admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !*env.catalog.privileged {
		t.Errorf("Expected privileged listing for admin token")
	}

	if rec := env.do(http.MethodGet, "/v1/events?date=nope", "", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad date, got %d", rec.Code)
	}
	if rec := env.do(http.MethodGet, "/v1/events?from=2026-11-01&to=2026-11-02", "", ""); rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for anonymous range listing, got %d", rec.Code)
	}
}

func TestRequestIDAndMetrics(t *testing.T) {
	env := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/events?date=2026-11-01", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-1" {
		t.Errorf("Expected request id echoed, got %q", got)
	}
	if rec := env.do(http.MethodGet, "/v1/events?date=2026-11-01", "", ""); rec.Header().Get("X-Request-ID") == "" {
		t.Errorf("Expected generated request id")
	}
	if n := testutil.CollectAndCount(env.metrics.Duration); n != 1 {
		t.Errorf("Expected one series for the events route, got %d", n)
	}
}
