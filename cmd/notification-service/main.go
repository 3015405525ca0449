package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/radieske/chuti-bet/internal/notification-service/consumer"
	"github.com/radieske/chuti-bet/internal/notification-service/pubsub"
	"github.com/radieske/chuti-bet/internal/notification-service/ws"
	"github.com/radieske/chuti-bet/internal/shared/auth"
	"github.com/radieske/chuti-bet/internal/shared/cache"
	"github.com/radieske/chuti-bet/internal/shared/config"
	"github.com/radieske/chuti-bet/internal/shared/kafka"
	"github.com/radieske/chuti-bet/internal/shared/logger"
	"github.com/radieske/chuti-bet/internal/shared/metrics"
	"github.com/radieske/chuti-bet/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Consumer group único sobre os três tópicos que geram notificação
	reader := kafka.NewGroupReader(cfg.KafkaBrokers, "notification",
		cfg.TopicBetSettled, cfg.TopicBetCancelled, cfg.TopicVoucherRedeemed)
	defer reader.Close()

	// Métricas Prometheus para monitoramento do processamento
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "notify_messages_consumed_total", Help: "mensagens consumidas"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "notify_messages_published_total", Help: "notificações publicadas no redis"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "notify_errors_total", Help: "erros por estágio"}, []string{"stage"})
	reg.MustRegister(consumed, published, errorsBy)

	proc := &consumer.Processor{
		Log:       log.Named("consumer"),
		Reader:    reader,
		Publisher: pubsub.NewRedisBroadcaster(redisClient),
		Channel:   cfg.RedisPubSubChannel,
		Topics: map[string]string{
			cfg.TopicBetSettled:      events.NotifyBetSettled,
			cfg.TopicBetCancelled:    events.NotifyBetCancelled,
			cfg.TopicVoucherRedeemed: events.NotifyVoucherRedeemed,
		},
		OnConsumed:  func() { consumed.Inc() },
		OnPublished: func() { published.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Hub WebSocket alimentado pelo canal Redis
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	hub := ws.NewHub(tokens, func(*http.Request) bool { return true }, log.Named("ws"))
	ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisPubSubChannel, hub, log.Named("ws"))

	r := chi.NewRouter()
	r.Get("/ws", hub.HandleWS)
	apiSrv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	metricsSrv := metrics.NewServer(cfg.MetricsPort, reg,
		metrics.Check{Name: "redis", Fn: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
		metrics.Check{Name: "kafka", Fn: func(ctx context.Context) error { return kafka.Ping(ctx, cfg.KafkaBrokers) }},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := proc.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		log.Info("notification ws listening", zap.String("addr", apiSrv.Addr))
		return serve(apiSrv)
	})
	g.Go(func() error {
		log.Info("metrics/health", zap.String("addr", metricsSrv.Addr))
		return serve(metricsSrv)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Join(apiSrv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		log.Error("notification-service stopped with error", zap.Error(err))
		return
	}
	log.Info("notification-service stopped")
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
