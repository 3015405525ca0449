package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthFunc func(ctx context.Context) error

// Check é uma dependência verificada pelo /healthz (postgres, redis, kafka...)
type Check struct {
	Name string
	Fn   HealthFunc
}

// Handler expõe /metrics do gatherer informado e /healthz com as checagens em ordem;
// a primeira falha responde 503 com o nome da dependência
func Handler(g prometheus.Gatherer, checks ...Check) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for _, c := range checks {
			if err := c.Fn(ctx); err != nil {
				http.Error(w, c.Name+" not healthy: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

// NewServer monta o servidor leve de /metrics e /healthz; o main decide quando subir
func NewServer(port string, g prometheus.Gatherer, checks ...Check) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           Handler(g, checks...),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
