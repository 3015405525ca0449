package events

import "encoding/json"

// Tipos de notificação entregues ao usuário pelo WebSocket
const (
	NotifyBetSettled      = "bet_settled"
	NotifyBetCancelled    = "bet_cancelled"
	NotifyVoucherRedeemed = "voucher_redeemed"
)

// Notification é a mensagem publicada no canal Redis e repassada ao dono (UserID).
// Payload carrega o evento original sem alteração.
type Notification struct {
	UserID  int64           `json:"userId"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
