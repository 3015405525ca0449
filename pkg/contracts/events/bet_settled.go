package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Evento emitido pelo resolvedor de pagamentos para cada aposta liquidada.
type BetSettled struct {
	MessageID    string          `json:"messageId"`
	BetID        int64           `json:"betId"`
	UserID       int64           `json:"userId"`
	QuestionID   int64           `json:"questionId"`
	PronosticoID int64           `json:"pronosticoId"`
	Status       string          `json:"status"` // "won" | "lost"
	Payout       decimal.Decimal `json:"payout"`
	Ts           time.Time       `json:"ts"`
}
