package engine

import (
	"context"
	"time"

	"github.com/annel0/voxel-sandbox/internal/config"
	"github.com/annel0/voxel-sandbox/internal/eventbus"
	"github.com/annel0/voxel-sandbox/internal/logging"
	"github.com/annel0/voxel-sandbox/internal/observability"
	"github.com/annel0/voxel-sandbox/internal/player"
	"github.com/annel0/voxel-sandbox/internal/storage"
	"github.com/annel0/voxel-sandbox/internal/world"
	"go.opentelemetry.io/otel/attribute"
)

// Bootstrap готовит мир и аватара. Если хранилище содержит сохранение,
// мир восстанавливается из него; иначе генерируется новый и включается
// журнал изменений. Возвращаемый тик продолжает счётчик прошлой сессии.
func Bootstrap(cfg *config.Config, store *storage.WorldStorage, bus eventbus.EventBus) (*world.World, *world.Generator, *player.Avatar, uint64, error) {
	if store != nil {
		meta, err := store.LoadMeta()
		if err != nil {
			return nil, nil, nil, 0, err
		}
		if meta != nil {
			w, gen, err := store.RestoreWorld(meta)
			if err != nil {
				return nil, nil, nil, 0, err
			}
			a, err := store.LoadPlayer()
			if err != nil {
				return nil, nil, nil, 0, err
			}
			if a == nil {
				a = player.NewAvatar(w.FindSafeSpawnPosition())
			}
			return w, gen, a, meta.Tick, nil
		}
	}

	seed := cfg.World.GetSeed()
	if seed == 0 {
		seed = time.Now().UnixNano()
		logging.Info("🎲 Сид не задан, выбран случайный: %d", seed)
	}

	gen := world.NewGenerator(seed, cfg.World.Size, cfg.World.MaxHeight, cfg.World.TreeProbability)
	w := world.NewWorld(seed)

	_, span := observability.Tracer("worldgen").Start(context.Background(), "world.generate")
	started := time.Now()
	stats := gen.Generate(w)
	span.SetAttributes(
		attribute.Int64("seed", seed),
		attribute.Int("blocks", stats.Blocks),
		attribute.Int("trees", stats.Trees),
	)
	span.End()

	w.EnableJournal()
	PublishWorldGenerated(bus, w, stats, time.Since(started))

	a := player.NewAvatar(w.FindSafeSpawnPosition())
	return w, gen, a, 0, nil
}

// PublishWorldGenerated сообщает шине о завершённой генерации мира.
func PublishWorldGenerated(bus eventbus.EventBus, w *world.World, stats world.GenerationStats, elapsed time.Duration) {
	if bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(engineSource, EventWorldGenerated, prioritySave, WorldGeneratedEvent{
		WorldID:    w.ID().String(),
		Seed:       w.Seed(),
		Columns:    stats.Columns,
		Blocks:     stats.Blocks,
		Trees:      stats.Trees,
		DurationMs: elapsed.Milliseconds(),
	})
	if err != nil {
		logging.Warn("Не удалось собрать событие %s: %v", EventWorldGenerated, err)
		return
	}
	if err := bus.Publish(context.Background(), ev); err != nil {
		logging.Warn("Не удалось опубликовать %s: %v", EventWorldGenerated, err)
	}
}
