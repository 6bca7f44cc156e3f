package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics агрегирует Prometheus-коллекторы движка.
type Metrics struct {
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	worldBlocks  prometheus.Gauge
	interactions *prometheus.CounterVec
}

// NewMetrics создаёт коллекторы и регистрирует их в глобальном регистре.
func NewMetrics() *Metrics {
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "engine",
			Name:      "ticks_total",
			Help:      "Общее число обработанных тиков.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "engine",
			Name:      "tick_duration_seconds",
			Help:      "Длительность обработки одного тика.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 14),
		}),
		worldBlocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "world",
			Name:      "blocks",
			Help:      "Текущее число блоков в мире.",
		}),
		interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "engine",
			Name:      "interactions_total",
			Help:      "Число взаимодействий с миром по действию и исходу.",
		}, []string{"action", "result"}),
	}

	prometheus.MustRegister(m.ticks, m.tickDuration, m.worldBlocks, m.interactions)
	return m
}

// ObserveTick учитывает завершённый тик.
func (m *Metrics) ObserveTick(d time.Duration) {
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
}

// SetWorldBlocks обновляет датчик числа блоков.
func (m *Metrics) SetWorldBlocks(n int) {
	m.worldBlocks.Set(float64(n))
}

// RecordInteraction учитывает попытку разрушения или установки.
func (m *Metrics) RecordInteraction(action string, ok bool) {
	result := "ok"
	if !ok {
		result = "rejected"
	}
	m.interactions.WithLabelValues(action, result).Inc()
}
