package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/account"
	"github.com/radieske/chuti-bet/internal/bet-service/catalog"
	"github.com/radieske/chuti-bet/internal/bet-service/dto"
	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/auth"
	"github.com/radieske/chuti-bet/internal/shared/logger"
)

type Accounts interface {
	Register(ctx context.Context, in account.RegisterInput) (model.User, error)
	Login(ctx context.Context, dni int64, password string) (model.User, string, error)
	Get(ctx context.Context, dni int64) (model.User, error)
	Ban(ctx context.Context, dni int64, message string) error
	Unban(ctx context.Context, dni int64) error
	Delete(ctx context.Context, dni int64) error
	AddCard(ctx context.Context, dni int64, number string) (model.Card, error)
	Cards(ctx context.Context, dni int64) ([]model.Card, error)
	MakePayment(ctx context.Context, dni, cardID int64, amount decimal.Decimal) (model.Payment, error)
	Payments(ctx context.Context, dni int64) ([]model.Payment, error)
}

type Catalog interface {
	CreateTeam(ctx context.Context, t model.Team) (model.Team, error)
	Teams(ctx context.Context, season int) ([]model.Team, error)
	RecordMatch(ctx context.Context, teamID int64, result model.MatchResult) (model.Team, error)
	CreateEvent(ctx context.Context, in catalog.EventInput) (model.Event, error)
	Event(ctx context.Context, id int64) (model.Event, error)
	EventsOn(ctx context.Context, day time.Time, privileged bool) ([]model.Event, error)
	EventDaysInMonth(ctx context.Context, month time.Time, privileged bool) ([]time.Time, error)
	EventsBetween(ctx context.Context, from, to time.Time) ([]model.Event, error)
	ChangeDescription(ctx context.Context, id int64, desc string) error
	ChangeDate(ctx context.Context, id int64, date time.Time) error
	SetVisibility(ctx context.Context, id int64, v model.Visibility) error
	DeleteEvent(ctx context.Context, id int64) error
	CreateQuestion(ctx context.Context, eventID int64, text string, minBet decimal.Decimal, mode model.QuestionMode) (model.Question, error)
	Questions(ctx context.Context, eventID int64) ([]model.Question, error)
	CreatePrognostic(ctx context.Context, in catalog.PrognosticInput) (model.Pronostico, error)
	Pronosticos(ctx context.Context, questionID int64) ([]model.Pronostico, error)
	TeamsForQuestion(ctx context.Context, questionID int64) ([]model.Team, error)
}

type Bets interface {
	Place(ctx context.Context, userID, questionID, pronosticoID int64, stake decimal.Decimal) (model.Bet, decimal.Decimal, error)
	Cancel(ctx context.Context, userID, betID int64) (model.Bet, error)
	ForUser(ctx context.Context, userID int64, openOnly bool) ([]model.Bet, error)
}

type Settler interface {
	Settle(ctx context.Context, questionID, pronosticoID int64) (decimal.Decimal, error)
}

type Vouchers interface {
	Create(ctx context.Context, code string, maxUses int, value decimal.Decimal) (model.Voucher, error)
	Redeem(ctx context.Context, code string, userID int64) (model.Voucher, decimal.Decimal, error)
	Delete(ctx context.Context, code string) error
	List(ctx context.Context) ([]model.Voucher, error)
}

type Ledger interface {
	Adjust(ctx context.Context, userID int64, delta decimal.Decimal, note string) (decimal.Decimal, error)
	History(ctx context.Context, userID int64) ([]model.LedgerEntry, error)
}

type TokenParser interface {
	Parse(token string) (auth.Identity, error)
}

// Services agrupa as operações de domínio expostas pela fachada
type Services struct {
	Accounts Accounts
	Catalog  Catalog
	Bets     Bets
	Settler  Settler
	Vouchers Vouchers
	Ledger   Ledger
}

// Server é a fachada REST do bet-service
type Server struct {
	log     *zap.Logger
	svc     Services
	tokens  TokenParser
	metrics *Metrics
}

func NewServer(log *zap.Logger, svc Services, tokens TokenParser, metrics *Metrics) *Server {
	return &Server{log: log, svc: svc, tokens: tokens, metrics: metrics}
}

// Router retorna o roteador HTTP com os endpoints REST
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)
	r.Use(s.identify)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/users", s.register)  // cadastro
		r.Post("/sessions", s.login) // login, devolve o JWT

		// consultas públicas; o token, se houver, libera eventos restritos
		r.Get("/events", s.listEvents)
		r.Get("/events/days", s.eventDays)
		r.Get("/events/{id}/questions", s.listQuestions)
		r.Get("/questions/{id}/pronosticos", s.listPronosticos)
		r.Get("/questions/{id}/teams", s.questionTeams)
		r.Get("/teams", s.listTeams)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/me", s.me)
			r.Get("/me/bets", s.myBets)
			r.Get("/me/cards", s.myCards)
			r.Post("/me/cards", s.addCard)
			r.Get("/me/payments", s.myPayments)
			r.Post("/me/payments", s.makePayment)
			r.Get("/me/ledger", s.myLedger)
			r.Post("/bets", s.placeBet)
			r.Delete("/bets/{id}", s.cancelBet)
			r.Post("/vouchers/{code}/redeem", s.redeemVoucher)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireUser, requireAdmin)
			r.Post("/teams", s.createTeam)
			r.Post("/teams/{id}/results", s.recordMatch)
			r.Post("/events", s.createEvent)
			r.Patch("/events/{id}", s.updateEvent)
			r.Delete("/events/{id}", s.deleteEvent)
			r.Post("/events/{id}/questions", s.createQuestion)
			r.Post("/questions/{id}/pronosticos", s.createPronostico)
			r.Post("/questions/{id}/settle", s.settleQuestion)
			r.Get("/vouchers", s.listVouchers)
			r.Post("/vouchers", s.createVoucher)
			r.Delete("/vouchers/{code}", s.deleteVoucher)
			r.Post("/users/{dni}/ban", s.banUser)
			r.Delete("/users/{dni}/ban", s.unbanUser)
			r.Delete("/users/{dni}", s.deleteUser)
			r.Post("/users/{dni}/adjust", s.adjustBalance)
		})
	})
	return r
}

// requestLog anexa request_id ao logger da requisição e mede a duração por rota
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		l := s.log.With(zap.String("request_id", reqID))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(logger.Into(r.Context(), l)))

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		s.metrics.observe(r.Method, route, ww.Status(), time.Since(start))
		l.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}

// identify lê o bearer token quando presente; token inválido é 401
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if h == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			s.writeError(w, r, apperr.New(apperr.KindUnauthorized, apperr.CodeBadCredentials, "bearer token expected"))
			return
		}
		id, err := s.tokens.Parse(token)
		if err != nil {
			s.writeError(w, r, apperr.Wrap(apperr.KindUnauthorized, apperr.CodeBadCredentials, err, "invalid token"))
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromContext(r.Context()); !ok {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: apperr.CodeBadCredentials, Message: "login required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, _ := auth.FromContext(r.Context()); !id.Admin {
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: apperr.CodeAdminOnly, Message: "privileged user required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// identity só é chamada atrás de requireUser
func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

// statusFor traduz o Kind do erro de domínio em status HTTP
func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindAlreadySettled:
		return http.StatusConflict
	case apperr.KindInsufficientFunds:
		return http.StatusPaymentRequired
	case apperr.KindStoreFailure:
		return http.StatusServiceUnavailable
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	l := logger.From(r.Context(), s.log)

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		l.Error("unexpected error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "internal"})
		return
	}

	status := statusFor(ae.Kind)
	if status >= http.StatusInternalServerError {
		l.Error("request failed", zap.String("code", ae.Code), zap.Error(err))
	} else {
		l.Debug("request rejected", zap.String("code", ae.Code), zap.String("msg", ae.Msg))
	}
	writeJSON(w, status, dto.ErrorResponse{Error: ae.Code, Message: ae.Msg})
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode lê o corpo JSON e aplica as tags de validação do DTO
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation(apperr.CodeWrongParameters, "bad json")
	}
	return dto.Validate(v)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(apperr.CodeWrongParameters, name+" must be a positive integer")
	}
	return id, nil
}
