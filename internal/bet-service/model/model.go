// Package model contém os registros planos persistidos pelo bet-service.
// Relações são sempre por id (chave estrangeira), nunca por ponteiro.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User é identificado pelo DNI (documento nacional)
type User struct {
	DNI          int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	BirthDate    time.Time
	Balance      decimal.Decimal // chutis, nunca negativo
	Privileged   bool
	Banned       bool
	BanMessage   string
	DeletedAt    *time.Time
	CreatedAt    time.Time
}

type Card struct {
	ID        int64
	UserID    int64
	Token     string
	Last4     string
	CreatedAt time.Time
}

// Payment é um registro imutável de recarga
type Payment struct {
	ID     int64
	UserID int64
	CardID int64
	Amount decimal.Decimal
	PaidAt time.Time
}

type Team struct {
	ID        int64
	Name      string
	Season    int
	Founded   int
	Venue     string
	Capacity  int
	President string
	Coach     string
	Website   string
	Won       int
	Drawn     int
	Lost      int
}

type MatchResult string

const (
	MatchWin  MatchResult = "win"
	MatchDraw MatchResult = "draw"
	MatchLoss MatchResult = "loss"
)

type Visibility string

const (
	VisibilityPublic     Visibility = "public"     // todos veem
	VisibilityRestricted Visibility = "restricted" // só usuários privilegiados
	VisibilityHidden     Visibility = "hidden"     // só listagem administrativa
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityRestricted, VisibilityHidden:
		return true
	}
	return false
}

type Event struct {
	ID          int64
	Description string
	Date        time.Time
	HomeTeamID  int64
	AwayTeamID  int64
	Visibility  Visibility
}

type QuestionMode string

const (
	ModeTeam QuestionMode = "team" // pronósticos apontam para um dos times do evento
	ModeFree QuestionMode = "free" // pronósticos são texto livre
)

type Question struct {
	ID        int64
	EventID   int64
	Text      string
	MinBet    decimal.Decimal
	Mode      QuestionMode
	ResultID  *int64 // pronóstico vencedor, nil enquanto não liquidada
	SettledAt *time.Time
}

func (q Question) Resolved() bool { return q.ResultID != nil }

// Pronostico é um resultado candidato de uma pergunta
type Pronostico struct {
	ID         int64
	QuestionID int64
	Label      string
	TeamID     *int64
	Percentage decimal.Decimal // multiplicador de pagamento em %, >= 0
	OutcomeKey string          // identidade do resultado dentro da pergunta
}

type BetStatus string

const (
	BetOpen      BetStatus = "open"
	BetWon       BetStatus = "won"
	BetLost      BetStatus = "lost"
	BetCancelled BetStatus = "cancelled"
)

type Bet struct {
	ID           int64
	UserID       int64
	QuestionID   int64
	PronosticoID int64
	Stake        decimal.Decimal
	Status       BetStatus
	Payout       decimal.Decimal
	PlacedAt     time.Time
	ClosedAt     *time.Time
}

// Voucher (boleto): Remaining <= MaxUses sempre
type Voucher struct {
	Code      string
	MaxUses   int
	Remaining int
	Value     decimal.Decimal
	CreatedAt time.Time
}

type EntryKind string

const (
	EntryBetPlaced  EntryKind = "bet_placed"
	EntryBetRefund  EntryKind = "bet_refund"
	EntryBetPayout  EntryKind = "bet_payout"
	EntryVoucher    EntryKind = "voucher"
	EntryPayment    EntryKind = "payment"
	EntryAdjustment EntryKind = "adjustment"
)

// LedgerEntry registra cada mudança de saldo com sua causa (Kind + Ref)
type LedgerEntry struct {
	ID           int64
	UserID       int64
	Kind         EntryKind
	Amount       decimal.Decimal // com sinal: débito negativo
	BalanceAfter decimal.Decimal
	Ref          string
	CreatedAt    time.Time
}
