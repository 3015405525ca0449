package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/internal/shared/kafka"
	"github.com/radieske/chuti-bet/pkg/contracts/events"
)

type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

var errUnknownTopic = errors.New("unknown topic")

// Processor consome os eventos de apostas e boletos do Kafka e republica cada
// um como notificação do usuário no canal Redis lido pelo hub WebSocket
type Processor struct {
	Log       *zap.Logger
	Reader    kafka.MessageReader
	Publisher Broadcaster
	Channel   string
	Topics    map[string]string // tópico -> tipo da notificação

	OnConsumed  func()       // métricas (counter++)
	OnPublished func()       // métricas
	OnError     func(string) // métricas por fase

	retryDelay time.Duration
}

// Run inicia o loop de consumo; retorna quando o contexto é cancelado
func (p *Processor) Run(ctx context.Context) error {
	delay := p.retryDelay
	if delay == 0 {
		delay = 500 * time.Millisecond
	}

	for {
		topic, value, err := kafka.ReadNext(ctx, p.Reader)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}

		n, err := p.decode(topic, value)
		if err != nil {
			p.Log.Warn("invalid message", zap.String("topic", topic), zap.Error(err))
			p.fail("decode")
			continue
		}

		b, _ := json.Marshal(n)
		if err := p.Publisher.Publish(ctx, p.Channel, b); err != nil {
			p.Log.Warn("redis publish failed", zap.Int64("user_id", n.UserID), zap.Error(err))
			p.fail("publish")
			continue
		}
		if p.OnPublished != nil {
			p.OnPublished()
		}
	}
}

// decode identifica o dono do evento conforme o tipo do tópico
func (p *Processor) decode(topic string, value []byte) (events.Notification, error) {
	typ, ok := p.Topics[topic]
	if !ok {
		return events.Notification{}, fmt.Errorf("%w: %s", errUnknownTopic, topic)
	}

	var userID int64
	switch typ {
	case events.NotifyBetSettled:
		var ev events.BetSettled
		if err := json.Unmarshal(value, &ev); err != nil {
			return events.Notification{}, err
		}
		userID = ev.UserID
	case events.NotifyBetCancelled:
		var ev events.BetCancelled
		if err := json.Unmarshal(value, &ev); err != nil {
			return events.Notification{}, err
		}
		userID = ev.UserID
	case events.NotifyVoucherRedeemed:
		var ev events.VoucherRedeemed
		if err := json.Unmarshal(value, &ev); err != nil {
			return events.Notification{}, err
		}
		userID = ev.UserID
	default:
		return events.Notification{}, fmt.Errorf("%w: type %s", errUnknownTopic, typ)
	}

	if userID <= 0 {
		return events.Notification{}, errors.New("event without user")
	}
	return events.Notification{UserID: userID, Type: typ, Payload: json.RawMessage(value)}, nil
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
