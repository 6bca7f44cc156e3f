package observability

import (
	"context"
	"net/http"

	"github.com/annel0/voxel-sandbox/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer поднимает единственный HTTP-эндпоинт /metrics для
// Prometheus. Все коллекторы процесса регистрируются в глобальном
// регистре, поэтому серверу достаточно стандартного handler.
type MetricsServer struct {
	srv *http.Server
}

// NewMetricsServer создаёт сервер на указанном адресе (например, ":2112").
func NewMetricsServer(addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start запускает HTTP-сервер в отдельной горутине.
func (ms *MetricsServer) Start() {
	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", ms.srv.Addr)
		if err := ms.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
}

// Stop корректно останавливает HTTP-сервер.
func (ms *MetricsServer) Stop(ctx context.Context) error {
	return ms.srv.Shutdown(ctx)
}
