package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/annel0/voxel-sandbox/internal/eventbus"
	"github.com/annel0/voxel-sandbox/internal/interact"
	"github.com/annel0/voxel-sandbox/internal/logging"
	"github.com/annel0/voxel-sandbox/internal/observability"
	"github.com/annel0/voxel-sandbox/internal/player"
	"github.com/annel0/voxel-sandbox/internal/storage"
	"github.com/annel0/voxel-sandbox/internal/vec"
	"github.com/annel0/voxel-sandbox/internal/world"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TickRate — частота игрового цикла, тиков в секунду.
const TickRate = 60

// engineSource — имя источника в конвертах событий.
const engineSource = "engine"

// moveEventThreshold — минимальное смещение между публикациями player.moved.
const moveEventThreshold = 0.5

// Options задают зависимости движка. Обязательны World, Generator и
// Avatar; nil в остальных полях отключает соответствующую подсистему.
type Options struct {
	World     *world.World
	Generator *world.Generator
	Avatar    *player.Avatar
	Input     InputSource
	Camera    CameraProvider
	Bus       eventbus.EventBus
	Storage   *storage.WorldStorage
	Metrics   *Metrics
	Autosave  time.Duration // 0 отключает автосохранение
	StartTick uint64        // Продолжение счётчика тиков после рестарта
}

// Engine — однопоточный владелец состояния мира и аватара. Все
// изменения происходят в горутине Run; фоновые подсистемы читают
// снапшоты или ходят через блокировки хранилища.
type Engine struct {
	world    *world.World
	gen      *world.Generator
	avatar   *player.Avatar
	resolver *interact.Resolver
	input    InputSource
	camera   CameraProvider
	bus      eventbus.EventBus
	store    *storage.WorldStorage
	metrics  *Metrics
	log      *logging.Logger
	tracer   oteltrace.Tracer

	autosave time.Duration
	tickID   atomic.Uint64
	lastMove vec.Vec3Float
}

// NewEngine собирает движок из готовых зависимостей.
func NewEngine(opts Options) (*Engine, error) {
	if opts.World == nil || opts.Generator == nil || opts.Avatar == nil {
		return nil, fmt.Errorf("движку необходимы мир, генератор и аватар")
	}

	e := &Engine{
		world:    opts.World,
		gen:      opts.Generator,
		avatar:   opts.Avatar,
		resolver: interact.NewResolver(opts.World),
		input:    opts.Input,
		camera:   opts.Camera,
		bus:      opts.Bus,
		store:    opts.Storage,
		metrics:  opts.Metrics,
		log:      logging.GetComponentLogger("engine"),
		tracer:   observability.Tracer("engine"),
		autosave: opts.Autosave,
		lastMove: opts.Avatar.Position,
	}
	e.tickID.Store(opts.StartTick)
	return e, nil
}

// TickID возвращает номер последнего обработанного тика.
func (e *Engine) TickID() uint64 {
	return e.tickID.Load()
}

// Avatar возвращает управляемый аватар.
func (e *Engine) Avatar() *player.Avatar {
	return e.avatar
}

// World возвращает мир движка.
func (e *Engine) World() *world.World {
	return e.world
}

// Run крутит игровой цикл на фиксированной частоте до отмены контекста.
// Тело тика пропускается, пока не истёк интервал тикера.
func (e *Engine) Run(ctx context.Context) error {
	e.publish(EventPlayerSpawned, priorityBlock, PlayerSpawnedEvent{
		PlayerID: e.avatar.ID.String(),
		Pos:      [3]float64{e.avatar.Position.X, e.avatar.Position.Y, e.avatar.Position.Z},
	})
	e.log.Info("🚀 Движок запущен: %d TPS, аватар %s", TickRate, e.avatar.ID)

	ticker := time.NewTicker(time.Second / TickRate) // 60 TPS
	defer ticker.Stop()

	var autosaveC <-chan time.Time
	if e.store != nil && e.autosave > 0 {
		autosaveTicker := time.NewTicker(e.autosave)
		defer autosaveTicker.Stop()
		autosaveC = autosaveTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			e.log.Info("Движок остановлен на тике %d", e.TickID())
			return nil
		case <-autosaveC:
			if err := e.Save(context.Background()); err != nil {
				e.log.Error("Автосохранение не удалось: %v", err)
			}
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick обрабатывает один шаг симуляции: ввод, физика, взаимодействия.
func (e *Engine) Tick() {
	start := time.Now()
	tick := e.tickID.Add(1)

	in := Idle()
	if e.input != nil {
		in = e.input.Poll()
	}
	if e.camera != nil {
		yaw, pitch := e.camera.Look()
		e.avatar.SetLook(yaw, pitch)
	}
	if in.Slot >= 0 {
		e.avatar.Inventory.Select(in.Slot)
	}

	strafe, forward := moveAxes(in)
	e.avatar.Move(strafe, forward, in.Sprint)
	if in.Jump {
		e.avatar.Jump()
	}

	e.avatar.Update(e.world)

	if in.Break {
		res, ok := e.resolver.Break(e.avatar, e.avatar.Position, e.avatar.Forward())
		if e.metrics != nil {
			e.metrics.RecordInteraction("break", ok)
		}
		if ok {
			e.publish(EventBlockBroken, priorityBlock, BlockEvent{
				Pos:  [3]int{res.Pos.X, res.Pos.Y, res.Pos.Z},
				ID:   res.ID,
				Tick: tick,
			})
		}
	}
	if in.Place {
		res, ok := e.resolver.Place(e.avatar, e.avatar.Position, e.avatar.Forward())
		if e.metrics != nil {
			e.metrics.RecordInteraction("place", ok)
		}
		if ok {
			e.publish(EventBlockPlaced, priorityBlock, BlockEvent{
				Pos:  [3]int{res.Pos.X, res.Pos.Y, res.Pos.Z},
				ID:   res.ID,
				Tick: tick,
			})
		}
	}

	e.publishMoveIfNeeded(tick)

	if e.metrics != nil {
		e.metrics.ObserveTick(time.Since(start))
		e.metrics.SetWorldBlocks(e.world.BlockCount())
	}
}

// Save сохраняет мир и игрока, публикует world.saved.
func (e *Engine) Save(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	_, span := e.tracer.Start(ctx, "engine.save")
	defer span.End()

	tick := e.TickID()
	if err := e.store.SaveWorld(e.world, e.gen, tick); err != nil {
		return fmt.Errorf("сохранение мира: %w", err)
	}
	if err := e.store.SavePlayer(e.avatar); err != nil {
		return fmt.Errorf("сохранение игрока: %w", err)
	}

	deltas := e.world.ChangeCount()
	e.publish(EventWorldSaved, prioritySave, WorldSavedEvent{
		WorldID: e.world.ID().String(),
		Deltas:  deltas,
		Tick:    tick,
	})
	e.log.Info("💾 Мир сохранён: тик %d, дельт %d", tick, deltas)
	return nil
}

// publishMoveIfNeeded публикует player.moved по накопленному смещению,
// а не каждый тик.
func (e *Engine) publishMoveIfNeeded(tick uint64) {
	if e.bus == nil {
		return
	}
	if e.avatar.Position.DistanceTo(e.lastMove) < moveEventThreshold {
		return
	}
	e.lastMove = e.avatar.Position

	e.publish(EventPlayerMoved, priorityMove, PlayerMovedEvent{
		PlayerID: e.avatar.ID.String(),
		Pos:      [3]float64{e.avatar.Position.X, e.avatar.Position.Y, e.avatar.Position.Z},
		Grounded: e.avatar.Grounded,
		Tick:     tick,
	})
}

// publish отправляет событие в шину, если она подключена.
func (e *Engine) publish(eventType string, priority int, payload interface{}) {
	if e.bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(engineSource, eventType, priority, payload)
	if err != nil {
		e.log.Warn("Не удалось собрать событие %s: %v", eventType, err)
		return
	}
	if err := e.bus.Publish(context.Background(), ev); err != nil {
		e.log.Warn("Не удалось опубликовать %s: %v", eventType, err)
	}
}
