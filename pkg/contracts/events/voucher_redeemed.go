package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Evento emitido após um resgate de boleto bem-sucedido.
type VoucherRedeemed struct {
	MessageID string          `json:"messageId"`
	Code      string          `json:"code"`
	UserID    int64           `json:"userId"`
	Value     decimal.Decimal `json:"value"`
	Remaining int             `json:"remaining"`
	Ts        time.Time       `json:"ts"`
}
