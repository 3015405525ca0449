package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	gateway "github.com/radieske/chuti-bet/internal/api-gateway"
	"github.com/radieske/chuti-bet/internal/shared/config"
	"github.com/radieske/chuti-bet/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	h, err := gateway.Router(cfg.BetURL, cfg.NotifyURL, log)
	if err != nil {
		log.Fatal("invalid upstream", zap.Error(err))
	}

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	log.Info("api-gateway listening",
		zap.String("addr", srv.Addr),
		zap.String("bet", cfg.BetURL),
		zap.String("notify", cfg.NotifyURL),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}
