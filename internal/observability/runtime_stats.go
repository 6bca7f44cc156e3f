package observability

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/annel0/voxel-sandbox/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// RuntimeStats периодически снимает показатели процесса и публикует их
// как Prometheus-метрики.
type RuntimeStats struct {
	startTime time.Time
	interval  time.Duration
	quit      chan struct{}
	done      chan struct{}
	// Prometheus metrics
	cpuPercent prometheus.Gauge
	heapMB     prometheus.Gauge
	goroutines prometheus.Gauge
	uptimeSec  prometheus.Gauge
}

// NewRuntimeStats создаёт сборщик и регистрирует метрики.
// Цикл обновления запускается отдельно через Start.
func NewRuntimeStats(interval time.Duration) *RuntimeStats {
	rs := &RuntimeStats{
		startTime: time.Now(),
		interval:  interval,
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		cpuPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "process",
			Name:      "cpu_usage_percent",
			Help:      "Использование CPU процессом в процентах.",
		}),
		heapMB: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "process",
			Name:      "heap_alloc_mb",
			Help:      "Выделенная куча в мегабайтах.",
		}),
		goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "process",
			Name:      "goroutines",
			Help:      "Число активных горутин.",
		}),
		uptimeSec: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "process",
			Name:      "uptime_seconds",
			Help:      "Время работы процесса в секундах.",
		}),
	}

	prometheus.MustRegister(rs.cpuPercent, rs.heapMB, rs.goroutines, rs.uptimeSec)
	return rs
}

// Start запускает периодический сбор показателей. Метод неблокирующий.
func (rs *RuntimeStats) Start() {
	go rs.loop()
}

// Stop останавливает сбор показателей.
func (rs *RuntimeStats) Stop() {
	close(rs.quit)
	<-rs.done
}

func (rs *RuntimeStats) loop() {
	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()
	defer close(rs.done)

	for {
		select {
		case <-ticker.C:
			rs.collect()
		case <-rs.quit:
			return
		}
	}
}

func (rs *RuntimeStats) collect() {
	memMB := rs.MemoryUsageMB()
	rs.heapMB.Set(memMB)
	rs.goroutines.Set(float64(runtime.NumGoroutine()))
	rs.uptimeSec.Set(time.Since(rs.startTime).Seconds())

	cpuPct, err := rs.CPUUsage()
	if err != nil {
		logging.Trace("Не удалось получить загрузку CPU: %v", err)
		return
	}
	rs.cpuPercent.Set(cpuPct)
	logging.Trace("Показатели процесса: cpu=%.1f%% heap=%.1fMB goroutines=%d",
		cpuPct, memMB, runtime.NumGoroutine())
}

// Uptime возвращает время работы в человекочитаемом виде
func (rs *RuntimeStats) Uptime() string {
	return formatUptime(time.Since(rs.startTime))
}

func formatUptime(uptime time.Duration) string {
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	} else if hours > 0 {
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	}
	return fmt.Sprintf("%dс", seconds)
}

// MemoryUsageMB возвращает размер выделенной кучи в мегабайтах
func (rs *RuntimeStats) MemoryUsageMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / 1024 / 1024
}

// CPUUsage возвращает использование CPU процессом в процентах
func (rs *RuntimeStats) CPUUsage() (float64, error) {
	pid := int32(os.Getpid())
	proc, err := process.NewProcess(pid)
	if err != nil {
		return 0, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		// Если не удалось получить метрику процесса, пробуем системную
		cpuPercents, err := cpu.Percent(100*time.Millisecond, false)
		if err != nil || len(cpuPercents) == 0 {
			return 0, err
		}
		return cpuPercents[0], nil
	}

	return cpuPercent, nil
}

// MemoryDetails возвращает детальную статистику памяти для инструментов
func (rs *RuntimeStats) MemoryDetails() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"alloc_mb":       float64(m.Alloc) / 1024 / 1024,
		"total_alloc_mb": float64(m.TotalAlloc) / 1024 / 1024,
		"sys_mb":         float64(m.Sys) / 1024 / 1024,
		"heap_alloc_mb":  float64(m.HeapAlloc) / 1024 / 1024,
		"heap_sys_mb":    float64(m.HeapSys) / 1024 / 1024,
		"num_gc":         m.NumGC,
		"goroutines":     runtime.NumGoroutine(),
	}
}
