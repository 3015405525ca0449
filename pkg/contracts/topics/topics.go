package topics

const (
	// Bets
	BetPlaced    = "bet_placed"
	BetCancelled = "bet_cancelled"
	BetSettled   = "bet_settled"

	// Vouchers
	VoucherRedeemed = "voucher_redeemed"

	// Canal Redis Pub/Sub usado pelo notification-service
	NotificationsChannel = "user_notifications"
)
