package producer

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/chuti-bet/internal/shared/kafka"
	"github.com/radieske/chuti-bet/pkg/contracts/events"
)

// Writers agrupa um writer por tópico de contrato
type Writers struct {
	BetPlaced       kafka.MessageWriter
	BetCancelled    kafka.MessageWriter
	BetSettled      kafka.MessageWriter
	VoucherRedeemed kafka.MessageWriter
}

// KafkaPublisher preenche message id e timestamp e publica com o usuário como chave,
// garantindo ordem por usuário dentro da partição
type KafkaPublisher struct {
	w   Writers
	now func() time.Time
}

func NewKafkaPublisher(w Writers) *KafkaPublisher {
	return &KafkaPublisher{w: w, now: time.Now}
}

func userKey(id int64) string { return strconv.FormatInt(id, 10) }

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.MessageID = uuid.NewString()
	e.TsUnixMs = p.now().UnixMilli()
	return kafka.WriteJSON(ctx, p.w.BetPlaced, userKey(e.UserID), e)
}

func (p *KafkaPublisher) PublishBetCancelled(ctx context.Context, e events.BetCancelled) error {
	e.MessageID = uuid.NewString()
	e.TsUnixMs = p.now().UnixMilli()
	return kafka.WriteJSON(ctx, p.w.BetCancelled, userKey(e.UserID), e)
}

func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	e.MessageID = uuid.NewString()
	e.Ts = p.now().UTC()
	return kafka.WriteJSON(ctx, p.w.BetSettled, userKey(e.UserID), e)
}

func (p *KafkaPublisher) PublishVoucherRedeemed(ctx context.Context, e events.VoucherRedeemed) error {
	e.MessageID = uuid.NewString()
	e.Ts = p.now().UTC()
	return kafka.WriteJSON(ctx, p.w.VoucherRedeemed, userKey(e.UserID), e)
}
