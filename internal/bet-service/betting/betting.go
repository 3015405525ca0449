package betting

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/logger"
	"github.com/radieske/chuti-bet/pkg/contracts/events"
)

// Store: PlaceBet debita o stake e grava a aposta juntos; CancelBet faz o
// compare-and-set open -> cancelled e devolve o stake juntos
type Store interface {
	UserByDNI(ctx context.Context, dni int64) (model.User, error)
	QuestionByID(ctx context.Context, id int64) (model.Question, error)
	PronosticoByID(ctx context.Context, id int64) (model.Pronostico, error)
	EventByID(ctx context.Context, id int64) (model.Event, error)
	PlaceBet(ctx context.Context, b model.Bet) (model.Bet, decimal.Decimal, error)
	CancelBet(ctx context.Context, betID, userID int64) (model.Bet, error)
	BetsByUser(ctx context.Context, userID int64, openOnly bool) ([]model.Bet, error)
}

type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishBetCancelled(ctx context.Context, e events.BetCancelled) error
}

type Metrics struct {
	Placed    prometheus.Counter
	Cancelled prometheus.Counter
	Staked    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Placed:    prometheus.NewCounter(prometheus.CounterOpts{Name: "bets_placed_total", Help: "apostas registradas"}),
		Cancelled: prometheus.NewCounter(prometheus.CounterOpts{Name: "bets_cancelled_total", Help: "apostas canceladas"}),
		Staked:    prometheus.NewCounter(prometheus.CounterOpts{Name: "bets_staked_chutis_total", Help: "chutis apostados"}),
	}
	reg.MustRegister(m.Placed, m.Cancelled, m.Staked)
	return m
}

type Service struct {
	store   Store
	pub     Publisher
	metrics *Metrics
	now     func() time.Time
	log     *zap.Logger
}

func NewService(store Store, pub Publisher, metrics *Metrics, log *zap.Logger) *Service {
	return &Service{store: store, pub: pub, metrics: metrics, now: time.Now, log: log}
}

// Place valida a aposta e debita o stake; o saldo resultante volta junto
func (s *Service) Place(ctx context.Context, userID, questionID, pronosticoID int64, stake decimal.Decimal) (model.Bet, decimal.Decimal, error) {
	if !stake.IsPositive() {
		return model.Bet{}, decimal.Zero, apperr.Validation(apperr.CodeWrongParameters, "stake must be positive")
	}

	u, err := s.store.UserByDNI(ctx, userID)
	if err != nil {
		return model.Bet{}, decimal.Zero, err
	}
	if u.Banned {
		return model.Bet{}, decimal.Zero, apperr.New(apperr.KindForbidden, apperr.CodeUserBanned, u.BanMessage)
	}

	q, err := s.store.QuestionByID(ctx, questionID)
	if err != nil {
		return model.Bet{}, decimal.Zero, err
	}
	if q.Resolved() {
		return model.Bet{}, decimal.Zero, apperr.AlreadySettled("question already settled")
	}

	p, err := s.store.PronosticoByID(ctx, pronosticoID)
	if apperr.KindOf(err) == apperr.KindNotFound || (err == nil && p.QuestionID != q.ID) {
		return model.Bet{}, decimal.Zero, apperr.Validation(apperr.CodeInvalidOutcome, "pronostico does not belong to question")
	}
	if err != nil {
		return model.Bet{}, decimal.Zero, err
	}

	if stake.LessThan(q.MinBet) {
		return model.Bet{}, decimal.Zero, apperr.Validation(apperr.CodeWrongParameters, "stake below minimum bet of "+q.MinBet.StringFixed(2))
	}

	e, err := s.store.EventByID(ctx, q.EventID)
	if err != nil {
		return model.Bet{}, decimal.Zero, err
	}
	if !e.Date.After(s.now()) {
		return model.Bet{}, decimal.Zero, apperr.Validation(apperr.CodeEventFinished, "event already started")
	}

	b, balance, err := s.store.PlaceBet(ctx, model.Bet{
		UserID:       userID,
		QuestionID:   q.ID,
		PronosticoID: p.ID,
		Stake:        stake,
		Status:       model.BetOpen,
	})
	if err != nil {
		return model.Bet{}, decimal.Zero, err
	}

	log := logger.From(ctx, s.log)
	log.Info("bet placed", zap.Int64("bet_id", b.ID), zap.Int64("user_id", userID),
		zap.Int64("question_id", q.ID), zap.String("stake", stake.String()))
	if s.metrics != nil {
		s.metrics.Placed.Inc()
		s.metrics.Staked.Add(stake.InexactFloat64())
	}
	if err := s.pub.PublishBetPlaced(ctx, events.BetPlaced{
		BetID: b.ID, UserID: userID, QuestionID: q.ID, PronosticoID: p.ID, Stake: stake,
	}); err != nil {
		log.Warn("publish bet placed failed", zap.Int64("bet_id", b.ID), zap.Error(err))
	}
	return b, balance, nil
}

// Cancel devolve o stake de uma aposta ainda aberta do próprio usuário.
// Depois da liquidação falha com AlreadySettled e o saldo não muda.
func (s *Service) Cancel(ctx context.Context, userID, betID int64) (model.Bet, error) {
	b, err := s.store.CancelBet(ctx, betID, userID)
	if err != nil {
		return model.Bet{}, err
	}

	log := logger.From(ctx, s.log)
	log.Info("bet cancelled", zap.Int64("bet_id", b.ID), zap.Int64("user_id", userID), zap.String("refund", b.Stake.String()))
	if s.metrics != nil {
		s.metrics.Cancelled.Inc()
	}
	if err := s.pub.PublishBetCancelled(ctx, events.BetCancelled{BetID: b.ID, UserID: userID, Refund: b.Stake}); err != nil {
		log.Warn("publish bet cancelled failed", zap.Int64("bet_id", b.ID), zap.Error(err))
	}
	return b, nil
}

func (s *Service) ForUser(ctx context.Context, userID int64, openOnly bool) ([]model.Bet, error) {
	return s.store.BetsByUser(ctx, userID, openOnly)
}
