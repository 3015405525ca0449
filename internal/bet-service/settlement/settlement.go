// Package settlement liquida as apostas abertas de uma pergunta quando o
// resultado é conhecido.
package settlement

//go:generate mockgen -source=settlement.go -destination=mock/store.go -package=mock

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/bet-service/model"
	"github.com/radieske/chuti-bet/internal/shared/apperr"
	"github.com/radieske/chuti-bet/internal/shared/logger"
	"github.com/radieske/chuti-bet/pkg/contracts/events"
)

// Store é a superfície de persistência usada na liquidação.
// SettleBet precisa ser atômico por aposta: transição open -> won|lost e
// crédito do payout juntos; false quando a aposta já não estava aberta.
type Store interface {
	QuestionByID(ctx context.Context, id int64) (model.Question, error)
	PronosticoByID(ctx context.Context, id int64) (model.Pronostico, error)
	RecordResult(ctx context.Context, questionID, pronosticoID int64) error
	OpenBetsByQuestion(ctx context.Context, questionID int64) ([]model.Bet, error)
	SettleBet(ctx context.Context, b model.Bet, status model.BetStatus, payout decimal.Decimal) (bool, error)
}

type Publisher interface {
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

var hundred = decimal.NewFromInt(100)

// Payout = stake * (1 + percentage/100), arredondado a centavos
func Payout(stake, percentage decimal.Decimal) decimal.Decimal {
	return stake.Mul(decimal.NewFromInt(1).Add(percentage.Div(hundred))).Round(2)
}

type Resolver struct {
	store   Store
	pub     Publisher
	metrics *Metrics
	log     *zap.Logger
}

func NewResolver(store Store, pub Publisher, metrics *Metrics, log *zap.Logger) *Resolver {
	return &Resolver{store: store, pub: pub, metrics: metrics, log: log}
}

// Settle resolve a pergunta com o pronóstico vencedor e devolve o total creditado.
//
// Repetir a chamada com o mesmo pronóstico só processa apostas que ainda
// estejam abertas (retoma liquidações interrompidas); com outro pronóstico
// falha com AlreadySettled. Uma falha de store aborta com settlement_failed;
// o que foi liquidado antes fica commitado e o total parcial acompanha o erro.
func (r *Resolver) Settle(ctx context.Context, questionID, pronosticoID int64) (decimal.Decimal, error) {
	log := logger.From(ctx, r.log).With(zap.Int64("question_id", questionID), zap.Int64("pronostico_id", pronosticoID))

	q, err := r.store.QuestionByID(ctx, questionID)
	if err != nil {
		return decimal.Zero, err
	}

	winner, err := r.store.PronosticoByID(ctx, pronosticoID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return decimal.Zero, apperr.Validation(apperr.CodeInvalidOutcome, "pronostico does not exist")
	}
	if err != nil {
		return decimal.Zero, err
	}
	if winner.QuestionID != q.ID {
		return decimal.Zero, apperr.Validation(apperr.CodeInvalidOutcome,
			fmt.Sprintf("pronostico %d does not belong to question %d", winner.ID, q.ID))
	}
	if q.Resolved() && *q.ResultID != winner.ID {
		return decimal.Zero, apperr.AlreadySettled("question already settled with another outcome")
	}

	if err := r.store.RecordResult(ctx, q.ID, winner.ID); err != nil {
		return decimal.Zero, err
	}

	bets, err := r.store.OpenBetsByQuestion(ctx, q.ID)
	if err != nil {
		return decimal.Zero, err
	}

	start := time.Now()
	log.Info("settlement started", zap.Int("open_bets", len(bets)))

	total := decimal.Zero
	won, lost := 0, 0
	for _, b := range bets {
		status, payout := model.BetLost, decimal.Zero
		if b.PronosticoID == winner.ID {
			status, payout = model.BetWon, Payout(b.Stake, winner.Percentage)
		}

		settled, err := r.store.SettleBet(ctx, b, status, payout)
		if err != nil {
			r.metrics.failed()
			log.Error("settlement aborted", zap.Int64("bet_id", b.ID), zap.String("disbursed", total.String()), zap.Error(err))
			return total, apperr.Wrap(apperr.KindStoreFailure, apperr.CodeSettlementFailed, err,
				fmt.Sprintf("settle bet %d", b.ID))
		}
		if !settled {
			// outra liquidação concorrente já fechou esta aposta
			continue
		}

		if status == model.BetWon {
			total = total.Add(payout)
			won++
		} else {
			lost++
		}
		r.metrics.bet(status, payout)
		log.Debug("bet settled", zap.Int64("bet_id", b.ID), zap.Int64("user_id", b.UserID),
			zap.String("status", string(status)), zap.String("payout", payout.String()))

		if err := r.pub.PublishBetSettled(ctx, events.BetSettled{
			BetID:        b.ID,
			UserID:       b.UserID,
			QuestionID:   q.ID,
			PronosticoID: b.PronosticoID,
			Status:       string(status),
			Payout:       payout,
		}); err != nil {
			log.Warn("publish bet settled failed", zap.Int64("bet_id", b.ID), zap.Error(err))
		}
	}

	r.metrics.settled(time.Since(start))
	log.Info("settlement finished",
		zap.Int("won", won), zap.Int("lost", lost), zap.String("disbursed", total.String()))
	return total, nil
}
