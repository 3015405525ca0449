// Package voucher mantém os boletos: códigos de uso limitado que creditam
// um valor fixo, no máximo uma vez por usuário.
package voucher

//go:generate mockgen -source=voucher.go -destination=mock/store.go -package=mock

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/logger"
	"github.com/radieske/chuti-bet/pkg/contracts/events"
)

// Store: RedeemVoucher deve ser uma única operação atômica
// (compare-and-decrement de remaining + registro do par código/usuário + crédito)
type Store interface {
	CreateVoucher(ctx context.Context, v model.Voucher) (model.Voucher, error)
	VoucherByCode(ctx context.Context, code string) (model.Voucher, error)
	Vouchers(ctx context.Context) ([]model.Voucher, error)
	DeleteVoucher(ctx context.Context, code string) error
	RedeemVoucher(ctx context.Context, code string, userID int64) (model.Voucher, decimal.Decimal, error)
}

type Publisher interface {
	PublishVoucherRedeemed(ctx context.Context, e events.VoucherRedeemed) error
}

const maxCodeLen = 64

type Registry struct {
	store       Store
	pub         Publisher
	redemptions *prometheus.CounterVec
	log         *zap.Logger
}

// NewRegistry registra o contador de resgates (por resultado) em reg; reg nil desliga métricas
func NewRegistry(store Store, pub Publisher, reg prometheus.Registerer, log *zap.Logger) *Registry {
	r := &Registry{store: store, pub: pub, log: log}
	if reg != nil {
		r.redemptions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voucher_redemptions_total",
			Help: "resgates de boleto por resultado",
		}, []string{"result"})
		reg.MustRegister(r.redemptions)
	}
	return r
}

func normalize(code string) string { return strings.TrimSpace(code) }

func (r *Registry) Create(ctx context.Context, code string, maxUses int, value decimal.Decimal) (model.Voucher, error) {
	code = normalize(code)
	switch {
	case code == "" || len(code) > maxCodeLen:
		return model.Voucher{}, apperr.Validation(apperr.CodeWrongParameters, "voucher code must have 1 to 64 characters")
	case maxUses <= 0:
		return model.Voucher{}, apperr.Validation(apperr.CodeWrongParameters, "max uses must be positive")
	case !value.IsPositive():
		return model.Voucher{}, apperr.Validation(apperr.CodeWrongParameters, "voucher value must be positive")
	}

	v, err := r.store.CreateVoucher(ctx, model.Voucher{Code: code, MaxUses: maxUses, Remaining: maxUses, Value: value})
	if err != nil {
		return model.Voucher{}, err
	}
	logger.From(ctx, r.log).Info("voucher created",
		zap.String("code", code), zap.Int("max_uses", maxUses), zap.String("value", value.String()))
	return v, nil
}

// Redeem credita o valor do boleto ao usuário e devolve o boleto já decrementado
// e o novo saldo
func (r *Registry) Redeem(ctx context.Context, code string, userID int64) (model.Voucher, decimal.Decimal, error) {
	code = normalize(code)
	if code == "" {
		return model.Voucher{}, decimal.Zero, apperr.Validation(apperr.CodeWrongParameters, "voucher code is required")
	}

	log := logger.From(ctx, r.log).With(zap.String("code", code), zap.Int64("user_id", userID))
	v, balance, err := r.store.RedeemVoucher(ctx, code, userID)
	r.count(err)
	if err != nil {
		log.Info("voucher redemption refused", zap.String("reason", apperr.CodeOf(err)))
		return model.Voucher{}, decimal.Zero, err
	}

	log.Info("voucher redeemed", zap.Int("remaining", v.Remaining), zap.String("value", v.Value.String()))
	if err := r.pub.PublishVoucherRedeemed(ctx, events.VoucherRedeemed{
		Code:      v.Code,
		UserID:    userID,
		Value:     v.Value,
		Remaining: v.Remaining,
	}); err != nil {
		log.Warn("publish voucher redeemed failed", zap.Error(err))
	}
	return v, balance, nil
}

// Delete não estorna valores já creditados
func (r *Registry) Delete(ctx context.Context, code string) error {
	code = normalize(code)
	if err := r.store.DeleteVoucher(ctx, code); err != nil {
		return err
	}
	logger.From(ctx, r.log).Info("voucher deleted", zap.String("code", code))
	return nil
}

func (r *Registry) Get(ctx context.Context, code string) (model.Voucher, error) {
	return r.store.VoucherByCode(ctx, normalize(code))
}

func (r *Registry) List(ctx context.Context) ([]model.Voucher, error) {
	return r.store.Vouchers(ctx)
}

func (r *Registry) count(err error) {
	if r.redemptions == nil {
		return
	}
	result := "ok"
	if err != nil {
		switch code := apperr.CodeOf(err); code {
		case apperr.CodeVoucherNotFound, apperr.CodeVoucherExhausted, apperr.CodeVoucherUsed:
			result = code
		default:
			result = "error"
		}
	}
	r.redemptions.WithLabelValues(result).Inc()
}
