package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-sandbox/internal/config"
	"github.com/annel0/voxel-sandbox/internal/engine"
	"github.com/annel0/voxel-sandbox/internal/eventbus"
	"github.com/annel0/voxel-sandbox/internal/logging"
	"github.com/annel0/voxel-sandbox/internal/observability"
	"github.com/annel0/voxel-sandbox/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Путь к YAML конфигурации (по умолчанию ENV GAME_CONFIG)")
	flag.Parse()

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем систему логирования до остальных компонентов
	logging.SetLogDir(cfg.Logging.Dir)
	if err := logging.Init(); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.Close()
	logging.SetConsoleLevel(logging.ParseLevel(cfg.Logging.GetLevel()))

	logging.Info("🎮 Запуск Voxel Sandbox Server...")
	logging.Info("📡 Конфигурация: мир %dx%d (высота %d), деревья %.1f%%, хранилище=%v, метрики=%v",
		cfg.World.Size, cfg.World.Size, cfg.World.MaxHeight,
		cfg.World.TreeProbability*100, cfg.Storage.Enabled, cfg.Metrics.Enabled)

	// === ИНИЦИАЛИЗАЦИЯ КОМПОНЕНТОВ ===

	// OpenTelemetry (опционально)
	if cfg.Telemetry.Enabled {
		logging.Debug("Инициализация OpenTelemetry...")
		shutdown, err := observability.InitTelemetry(context.Background(), cfg.Telemetry.Service)
		if err != nil {
			logging.Error("❌ Ошибка инициализации телеметрии: %v", err)
			log.Fatalf("❌ Ошибка инициализации телеметрии: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logging.Error("Ошибка остановки телеметрии: %v", err)
			}
		}()
	}

	// Хранилище мира (опционально)
	var store *storage.WorldStorage
	if cfg.Storage.Enabled {
		logging.Debug("Открытие хранилища мира...")
		store, err = storage.NewWorldStorage(cfg.Storage.GetPath())
		if err != nil {
			logging.Error("❌ Ошибка открытия хранилища: %v", err)
			log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
		}
		defer store.Close()
	}

	// Шина событий со слушателями
	logging.Debug("Создание шины событий...")
	bus := eventbus.NewMemoryBus(256)
	defer bus.Close()

	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Error("❌ Ошибка подписки логгера на шину: %v", err)
		log.Fatalf("❌ Ошибка подписки логгера на шину: %v", err)
	}

	busExporter := eventbus.NewMetricsExporter(bus)
	busExporter.Start()
	defer busExporter.Stop()

	// Prometheus-метрики (опционально)
	var engineMetrics *engine.Metrics
	var metricsServer *observability.MetricsServer
	var runtimeStats *observability.RuntimeStats
	if cfg.Metrics.Enabled {
		logging.Debug("Запуск сервера метрик...")
		engineMetrics = engine.NewMetrics()
		metricsServer = observability.NewMetricsServer(cfg.Metrics.GetAddr())
		metricsServer.Start()

		runtimeStats = observability.NewRuntimeStats(5 * time.Second)
		runtimeStats.Start()
	}

	// Мир и аватар: восстановление из сохранения или новая генерация
	logging.Debug("Подготовка мира...")
	w, gen, avatar, startTick, err := engine.Bootstrap(cfg, store, bus)
	if err != nil {
		logging.Error("❌ Ошибка подготовки мира: %v", err)
		log.Fatalf("❌ Ошибка подготовки мира: %v", err)
	}

	logging.Debug("Создание движка...")
	eng, err := engine.NewEngine(engine.Options{
		World:     w,
		Generator: gen,
		Avatar:    avatar,
		Bus:       bus,
		Storage:   store,
		Metrics:   engineMetrics,
		Autosave:  time.Duration(cfg.Storage.AutosaveSec) * time.Second,
		StartTick: startTick,
	})
	if err != nil {
		logging.Error("❌ Ошибка создания движка: %v", err)
		log.Fatalf("❌ Ошибка создания движка: %v", err)
	}

	// Игровой цикл в отдельной горутине
	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() {
		runDone <- eng.Run(ctx)
	}()

	logging.Info("✅ Все подсистемы запущены")
	logging.Info("   🌍 Мир: сид %d, блоков %d", w.Seed(), w.BlockCount())
	logging.Info("   🧍 Аватар: %s на позиции (%.1f, %.1f, %.1f)",
		avatar.ID, avatar.Position.X, avatar.Position.Y, avatar.Position.Z)
	if cfg.Metrics.Enabled {
		logging.Info("   📈 Метрики: http://localhost%s/metrics", cfg.Metrics.GetAddr())
	}

	// Канал для получения сигналов ОС
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logging.Info("📡 Получен сигнал %v, завершение работы...", sig)

	// === GRACEFUL SHUTDOWN ===

	// Останавливаем игровой цикл и дожидаемся последнего тика
	cancel()
	if err := <-runDone; err != nil {
		logging.Error("Игровой цикл завершился с ошибкой: %v", err)
	}

	// Финальное сохранение мира
	if store != nil {
		logging.Debug("Финальное сохранение мира...")
		if err := eng.Save(context.Background()); err != nil {
			logging.Error("❌ Ошибка финального сохранения: %v", err)
		}
	}

	if runtimeStats != nil {
		runtimeStats.Stop()
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			logging.Error("Ошибка остановки сервера метрик: %v", err)
		}
		shutdownCancel()
	}

	logging.Info("👋 Сервер успешно остановлен: тик %d, дельт %d", eng.TickID(), w.ChangeCount())
}
