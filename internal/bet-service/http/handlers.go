package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/chuti-bet/internal/bet-service/account"
	"github.com/radieske/chuti-bet/internal/bet-service/dto"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/auth"
)

// register cria o usuário (saldo inicial zero)
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.svc.Accounts.Register(r.Context(), account.RegisterInput{
		DNI:       req.DNI,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		BirthDate: req.Birth(),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.User(u))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, token, err := s.svc.Accounts.Login(r.Context(), req.DNI, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponse{Token: token, User: dto.User(u)})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Accounts.Get(r.Context(), identity(r).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.User(u))
}

// myBets lista as apostas do usuário; ?open=true filtra só as abertas
func (s *Server) myBets(w http.ResponseWriter, r *http.Request) {
	open := r.URL.Query().Get("open") == "true"
	bets, err := s.svc.Bets.ForUser(r.Context(), identity(r).UserID, open)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Bets(bets))
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	bet, balance, err := s.svc.Bets.Place(r.Context(), identity(r).UserID, req.QuestionID, req.PronosticoID, req.Stake)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.PlaceBetResponse{Bet: dto.Bet(bet), NewBalance: balance})
}

func (s *Server) cancelBet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	bet, err := s.svc.Bets.Cancel(r.Context(), identity(r).UserID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Bet(bet))
}

func (s *Server) redeemVoucher(w http.ResponseWriter, r *http.Request) {
	v, balance, err := s.svc.Vouchers.Redeem(r.Context(), chi.URLParam(r, "code"), identity(r).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.RedeemResponse{Voucher: dto.Voucher(v), NewBalance: balance})
}

func (s *Server) myCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.svc.Accounts.Cards(r.Context(), identity(r).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Cards(cards))
}

func (s *Server) addCard(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCardRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.svc.Accounts.AddCard(r.Context(), identity(r).UserID, req.Number)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CardResponse{ID: c.ID, Last4: c.Last4})
}

func (s *Server) myPayments(w http.ResponseWriter, r *http.Request) {
	ps, err := s.svc.Accounts.Payments(r.Context(), identity(r).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Payments(ps))
}

func (s *Server) makePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.svc.Accounts.MakePayment(r.Context(), identity(r).UserID, req.CardID, req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.Payment(p))
}

func (s *Server) myLedger(w http.ResponseWriter, r *http.Request) {
	es, err := s.svc.Ledger.History(r.Context(), identity(r).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Ledger(es))
}

// listEvents aceita ?date=YYYY-MM-DD (visão pública) ou ?from=&to= (administrativa)
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id, _ := auth.FromContext(r.Context())

	if date := q.Get("date"); date != "" {
		day, err := time.Parse(time.DateOnly, date)
		if err != nil {
			s.writeError(w, r, apperr.Validation(apperr.CodeWrongParameters, "date must be YYYY-MM-DD"))
			return
		}
		evs, err := s.svc.Catalog.EventsOn(r.Context(), day, id.Admin)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.Events(evs))
		return
	}

	if q.Get("from") == "" || q.Get("to") == "" {
		s.writeError(w, r, apperr.Validation(apperr.CodeWrongParameters, "date or from/to required"))
		return
	}
	if !id.Admin {
		s.writeError(w, r, apperr.New(apperr.KindForbidden, apperr.CodeAdminOnly, "range listing is administrative"))
		return
	}
	from, err1 := parseInstant(q.Get("from"))
	to, err2 := parseInstant(q.Get("to"))
	if err1 != nil || err2 != nil {
		s.writeError(w, r, apperr.Validation(apperr.CodeWrongParameters, "from/to must be RFC3339 or YYYY-MM-DD"))
		return
	}
	evs, err := s.svc.Catalog.EventsBetween(r.Context(), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Events(evs))
}

func parseInstant(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}

// eventDays devolve os dias do mês com eventos visíveis (calendário)
func (s *Server) eventDays(w http.ResponseWriter, r *http.Request) {
	month, err := time.Parse("2006-01", r.URL.Query().Get("month"))
	if err != nil {
		s.writeError(w, r, apperr.Validation(apperr.CodeWrongParameters, "month must be YYYY-MM"))
		return
	}
	id, _ := auth.FromContext(r.Context())
	days, err := s.svc.Catalog.EventDaysInMonth(r.Context(), month, id.Admin)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format(time.DateOnly))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	qs, err := s.svc.Catalog.Questions(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Questions(qs))
}

func (s *Server) listPronosticos(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ps, err := s.svc.Catalog.Pronosticos(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Pronosticos(ps))
}

// questionTeams lista os times que podem ser escolhidos como pronóstico
func (s *Server) questionTeams(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ts, err := s.svc.Catalog.TeamsForQuestion(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Teams(ts))
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	season, err := strconv.Atoi(r.URL.Query().Get("season"))
	if err != nil {
		s.writeError(w, r, apperr.Validation(apperr.CodeWrongParameters, "season required"))
		return
	}
	ts, err := s.svc.Catalog.Teams(r.Context(), season)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Teams(ts))
}
