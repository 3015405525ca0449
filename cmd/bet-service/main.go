package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/radieske/chuti-bet/internal/bet-service/account"
	"github.com/radieske/chuti-bet/internal/bet-service/betting"
	"github.com/radieske/chuti-bet/internal/bet-service/catalog"
	bhttp "github.com/radieske/chuti-bet/internal/bet-service/http"
	"github.com/radieske/chuti-bet/internal/bet-service/ledger"
	kpub "github.com/radieske/chuti-bet/internal/bet-service/producer"
	"github.com/radieske/chuti-bet/internal/bet-service/repo"
	"github.com/radieske/chuti-bet/internal/bet-service/settlement"
	"github.com/radieske/chuti-bet/internal/bet-service/voucher"
	"github.com/radieske/chuti-bet/internal/shared/auth"
	"github.com/radieske/chuti-bet/internal/shared/cache"
	"github.com/radieske/chuti-bet/internal/shared/config"
	"github.com/radieske/chuti-bet/internal/shared/db"
	"github.com/radieske/chuti-bet/internal/shared/kafka"
	"github.com/radieske/chuti-bet/internal/shared/logger"
	"github.com/radieske/chuti-bet/internal/shared/metrics"
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

	// Postgres + schema
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if err := db.Migrate(ctx, pg); err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}
	log.Info("postgres connected")

	// Redis (cache de eventos por dia)
	rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()
	log.Info("redis connected")

	// Kafka: um writer por tópico
	writers := kafka.NewWriters(cfg.KafkaBrokers,
		cfg.TopicBetPlaced, cfg.TopicBetCancelled, cfg.TopicBetSettled, cfg.TopicVoucherRedeemed)
	defer writers.Close()
	publ := kpub.NewKafkaPublisher(kpub.Writers{
		BetPlaced:       writers.For(cfg.TopicBetPlaced),
		BetCancelled:    writers.For(cfg.TopicBetCancelled),
		BetSettled:      writers.For(cfg.TopicBetSettled),
		VoucherRedeemed: writers.For(cfg.TopicVoucherRedeemed),
	})

	// métricas próprias do serviço em registry dedicado
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// deps
	store := repo.NewPostgres(pg)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	svc := bhttp.Services{
		Accounts: account.NewService(store, tokens, cfg.MinAge, log.Named("account")),
		Catalog:  catalog.NewService(store, catalog.NewRedisCache(rdb, cfg.CatalogCacheTTL), log.Named("catalog")),
		Bets:     betting.NewService(store, publ, betting.NewMetrics(reg), log.Named("betting")),
		Settler:  settlement.NewResolver(store, publ, settlement.NewMetrics(reg), log.Named("settlement")),
		Vouchers: voucher.NewRegistry(store, publ, reg, log.Named("voucher")),
		Ledger:   ledger.NewService(store, log.Named("ledger")),
	}

	// HTTP público
	api := bhttp.NewServer(log, svc, tokens, bhttp.NewMetrics(reg))
	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// metrics/health
	metricsSrv := metrics.NewServer(cfg.MetricsPort, reg,
		metrics.Check{Name: "postgres", Fn: pg.PingContext},
		metrics.Check{Name: "redis", Fn: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		metrics.Check{Name: "kafka", Fn: func(ctx context.Context) error { return kafka.Ping(ctx, cfg.KafkaBrokers) }},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("bet-service listening", zap.String("addr", apiSrv.Addr))
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
		log.Error("bet-service stopped with error", zap.Error(err))
		return
	}
	log.Info("bet-service stopped")
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
