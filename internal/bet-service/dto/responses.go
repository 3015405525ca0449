package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
)

// Valores monetários saem como string ("12.50") para não perder precisão

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type UserResponse struct {
	DNI        int64           `json:"dni"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Email      string          `json:"email"`
	BirthDate  string          `json:"birthDate"`
	Balance    decimal.Decimal `json:"balance"`
	Privileged bool            `json:"privileged"`
	Banned     bool            `json:"banned"`
	BanMessage string          `json:"banMessage,omitempty"`
}

func User(u model.User) UserResponse {
	return UserResponse{
		DNI:        u.DNI,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		BirthDate:  u.BirthDate.Format(time.DateOnly),
		Balance:    u.Balance,
		Privileged: u.Privileged,
		Banned:     u.Banned,
		BanMessage: u.BanMessage,
	}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type BetResponse struct {
	ID           int64           `json:"id"`
	QuestionID   int64           `json:"questionId"`
	PronosticoID int64           `json:"pronosticoId"`
	Stake        decimal.Decimal `json:"stake"`
	Status       string          `json:"status"`
	Payout       decimal.Decimal `json:"payout"`
	PlacedAt     time.Time       `json:"placedAt"`
	ClosedAt     *time.Time      `json:"closedAt,omitempty"`
}

func Bet(b model.Bet) BetResponse {
	return BetResponse{
		ID:           b.ID,
		QuestionID:   b.QuestionID,
		PronosticoID: b.PronosticoID,
		Stake:        b.Stake,
		Status:       string(b.Status),
		Payout:       b.Payout,
		PlacedAt:     b.PlacedAt,
		ClosedAt:     b.ClosedAt,
	}
}

func Bets(bs []model.Bet) []BetResponse {
	out := make([]BetResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, Bet(b))
	}
	return out
}

type PlaceBetResponse struct {
	Bet        BetResponse     `json:"bet"`
	NewBalance decimal.Decimal `json:"newBalance"`
}

type CardResponse struct {
	ID    int64  `json:"id"`
	Last4 string `json:"last4"`
}

func Cards(cs []model.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, CardResponse{ID: c.ID, Last4: c.Last4})
	}
	return out
}

type PaymentResponse struct {
	ID     int64           `json:"id"`
	CardID int64           `json:"cardId"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt time.Time       `json:"paidAt"`
}

func Payment(p model.Payment) PaymentResponse {
	return PaymentResponse{ID: p.ID, CardID: p.CardID, Amount: p.Amount, PaidAt: p.PaidAt}
}

func Payments(ps []model.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, Payment(p))
	}
	return out
}

type LedgerEntryResponse struct {
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Ref          string          `json:"ref"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func Ledger(es []model.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, 0, len(es))
	for _, e := range es {
		out = append(out, LedgerEntryResponse{
			Kind:         string(e.Kind),
			Amount:       e.Amount,
			BalanceAfter: e.BalanceAfter,
			Ref:          e.Ref,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out
}

type TeamResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Season    int    `json:"season"`
	Founded   int    `json:"founded,omitempty"`
	Venue     string `json:"venue,omitempty"`
	Capacity  int    `json:"capacity,omitempty"`
	President string `json:"president,omitempty"`
	Coach     string `json:"coach,omitempty"`
	Website   string `json:"website,omitempty"`
	Won       int    `json:"won"`
	Drawn     int    `json:"drawn"`
	Lost      int    `json:"lost"`
}

func Team(t model.Team) TeamResponse {
	return TeamResponse{
		ID: t.ID, Name: t.Name, Season: t.Season, Founded: t.Founded,
		Venue: t.Venue, Capacity: t.Capacity, President: t.President,
		Coach: t.Coach, Website: t.Website,
		Won: t.Won, Drawn: t.Drawn, Lost: t.Lost,
	}
}

func Teams(ts []model.Team) []TeamResponse {
	out := make([]TeamResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, Team(t))
	}
	return out
}

type EventResponse struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	HomeTeamID  int64     `json:"homeTeamId"`
	AwayTeamID  int64     `json:"awayTeamId"`
	Visibility  string    `json:"visibility"`
}

func Event(e model.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Description: e.Description,
		Date:        e.Date,
		HomeTeamID:  e.HomeTeamID,
		AwayTeamID:  e.AwayTeamID,
		Visibility:  string(e.Visibility),
	}
}

func Events(es []model.Event) []EventResponse {
	out := make([]EventResponse, 0, len(es))
	for _, e := range es {
		out = append(out, Event(e))
	}
	return out
}

type QuestionResponse struct {
	ID       int64           `json:"id"`
	EventID  int64           `json:"eventId"`
	Text     string          `json:"text"`
	MinBet   decimal.Decimal `json:"minBet"`
	Mode     string          `json:"mode"`
	ResultID *int64          `json:"resultId,omitempty"`
}

func Question(q model.Question) QuestionResponse {
	return QuestionResponse{
		ID: q.ID, EventID: q.EventID, Text: q.Text,
		MinBet: q.MinBet, Mode: string(q.Mode), ResultID: q.ResultID,
	}
}

func Questions(qs []model.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, Question(q))
	}
	return out
}

type PronosticoResponse struct {
	ID         int64           `json:"id"`
	QuestionID int64           `json:"questionId"`
	Label      string          `json:"label"`
	TeamID     *int64          `json:"teamId,omitempty"`
	Percentage decimal.Decimal `json:"percentage"`
}

func Pronostico(p model.Pronostico) PronosticoResponse {
	return PronosticoResponse{
		ID: p.ID, QuestionID: p.QuestionID, Label: p.Label,
		TeamID: p.TeamID, Percentage: p.Percentage,
	}
}

func Pronosticos(ps []model.Pronostico) []PronosticoResponse {
	out := make([]PronosticoResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, Pronostico(p))
	}
	return out
}

type SettleResponse struct {
	QuestionID   int64           `json:"questionId"`
	PronosticoID int64           `json:"pronosticoId"`
	Disbursed    decimal.Decimal `json:"disbursed"`
}

type VoucherResponse struct {
	Code      string          `json:"code"`
	MaxUses   int             `json:"maxUses"`
	Remaining int             `json:"remaining"`
	Value     decimal.Decimal `json:"value"`
}

func Voucher(v model.Voucher) VoucherResponse {
	return VoucherResponse{Code: v.Code, MaxUses: v.MaxUses, Remaining: v.Remaining, Value: v.Value}
}

func Vouchers(vs []model.Voucher) []VoucherResponse {
	out := make([]VoucherResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, Voucher(v))
	}
	return out
}

type RedeemResponse struct {
	Voucher    VoucherResponse `json:"voucher"`
	NewBalance decimal.Decimal `json:"newBalance"`
}
