package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/chuti-bet/pkg/contracts/events"
)

// StartRedisSubscriber inicia uma goroutine que escuta o canal Redis Pub/Sub
// e repassa cada notificação ao usuário correspondente via Hub
func StartRedisSubscriber(ctx context.Context, r *redis.Client, channel string, hub *Hub, log *zap.Logger) {
	sub := r.Subscribe(ctx, channel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				dispatch(hub, msg.Payload, log)
			}
		}
	}()
}

func dispatch(hub *Hub, payload string, log *zap.Logger) {
	var n events.Notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil || n.UserID <= 0 {
		log.Warn("ws subscriber invalid notification", zap.Error(err))
		return
	}
	hub.Send(n)
}
