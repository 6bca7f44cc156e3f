package eventbus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitEnvelope ждёт событие из канала не дольше секунды.
func waitEnvelope(t *testing.T, ch <-chan *Envelope) *Envelope {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(1 * time.Second):
		t.Fatal("Событие не доставлено за отведённое время")
		return nil
	}
}

func TestNewEnvelope(t *testing.T) {
	ev, err := NewEnvelope("engine", "block.placed", 5, map[string]int{"x": 1, "y": 2, "z": 3})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID, "ID должен генерироваться автоматически")
	assert.Equal(t, "engine", ev.Source)
	assert.Equal(t, "block.placed", ev.EventType)
	assert.Equal(t, 1, ev.Version, "Версия схемы по умолчанию 1")
	assert.Equal(t, 5, ev.Priority)
	assert.False(t, ev.Timestamp.IsZero(), "Timestamp должен быть заполнен")

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(ev.Payload, &decoded))
	assert.Equal(t, 2, decoded["y"], "Полезная нагрузка должна сериализоваться в JSON")
}

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	got := make(chan *Envelope, 1)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		got <- ev
	})
	require.NoError(t, err)

	ev, err := NewEnvelope("test", "world.generated", 3, nil)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))

	delivered := waitEnvelope(t, got)
	assert.Equal(t, ev.ID, delivered.ID, "Подписчик должен получить то же событие")
}

func TestMemoryBus_FilterByType(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	got := make(chan *Envelope, 4)
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{"block.placed"}}, func(ctx context.Context, ev *Envelope) {
		got <- ev
	})
	require.NoError(t, err)

	broken, _ := NewEnvelope("test", "block.broken", 3, nil)
	placed, _ := NewEnvelope("test", "block.placed", 3, nil)
	require.NoError(t, bus.Publish(context.Background(), broken))
	require.NoError(t, bus.Publish(context.Background(), placed))

	delivered := waitEnvelope(t, got)
	assert.Equal(t, "block.placed", delivered.EventType, "Фильтр по типу должен пропускать только совпадения")

	select {
	case extra := <-got:
		t.Fatalf("Лишнее событие прошло через фильтр: %s", extra.EventType)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMemoryBus_FilterBySource(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	got := make(chan *Envelope, 4)
	_, err := bus.Subscribe(context.Background(), Filter{Sources: []string{"engine"}}, func(ctx context.Context, ev *Envelope) {
		got <- ev
	})
	require.NoError(t, err)

	fromStorage, _ := NewEnvelope("storage", "world.saved", 3, nil)
	fromEngine, _ := NewEnvelope("engine", "player.moved", 3, nil)
	require.NoError(t, bus.Publish(context.Background(), fromStorage))
	require.NoError(t, bus.Publish(context.Background(), fromEngine))

	delivered := waitEnvelope(t, got)
	assert.Equal(t, "engine", delivered.Source, "Фильтр по источнику должен пропускать только совпадения")
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	got := make(chan *Envelope, 4)
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		got <- ev
	})
	require.NoError(t, err)

	first, _ := NewEnvelope("test", "tick", 3, nil)
	require.NoError(t, bus.Publish(context.Background(), first))
	waitEnvelope(t, got)

	sub.Unsubscribe()

	second, _ := NewEnvelope("test", "tick", 3, nil)
	require.NoError(t, bus.Publish(context.Background(), second))

	select {
	case <-got:
		t.Fatal("После Unsubscribe события приходить не должны")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMemoryBus_Backpressure(t *testing.T) {
	// Шина без цикла доставки: буфер можно заполнить детерминированно.
	mb := &memoryBus{
		subscribers: make(map[int]subscriber),
		buffer:      make(chan *Envelope, 1),
		capacity:    1,
		closed:      make(chan struct{}),
	}

	first, _ := NewEnvelope("test", "tick", 0, nil)
	require.NoError(t, mb.Publish(context.Background(), first))

	// Низкий приоритет при заполненном буфере отбрасывается без ошибки.
	low, _ := NewEnvelope("test", "tick", 1, nil)
	require.NoError(t, mb.Publish(context.Background(), low))
	assert.Equal(t, uint64(1), mb.Metrics().Dropped, "Событие с приоритетом <5 должно быть отброшено")

	// Высокий приоритет ждёт место до отмены контекста.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	high, _ := NewEnvelope("test", "tick", 9, nil)
	err := mb.Publish(ctx, high)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, uint64(1), mb.Metrics().Published, "Заблокированная публикация не должна учитываться")
}

func TestMemoryBus_Close(t *testing.T) {
	bus := NewMemoryBus(16)

	got := make(chan *Envelope, 8)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		got <- ev
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ev, _ := NewEnvelope("test", "tick", 5, i)
		require.NoError(t, bus.Publish(context.Background(), ev))
	}
	bus.Close()

	// Уже опубликованные события дорассылаются после Close.
	for i := 0; i < 3; i++ {
		waitEnvelope(t, got)
	}

	ev, _ := NewEnvelope("test", "tick", 5, nil)
	assert.Error(t, bus.Publish(context.Background(), ev), "Публикация в закрытую шину должна вернуть ошибку")
	assert.NotPanics(t, bus.Close, "Повторный Close не должен паниковать")
}

func TestMemoryBus_Metrics(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	for i := 0; i < 5; i++ {
		ev, _ := NewEnvelope("test", "tick", 5, nil)
		require.NoError(t, bus.Publish(context.Background(), ev))
	}

	assert.Equal(t, uint64(5), bus.Metrics().Published)
}

func TestMatchFilter(t *testing.T) {
	ev := &Envelope{EventType: "block.placed", Source: "engine"}

	assert.True(t, matchFilter(ev, Filter{}), "Пустой фильтр пропускает всё")
	assert.True(t, matchFilter(ev, Filter{Types: []string{"block.placed"}}))
	assert.False(t, matchFilter(ev, Filter{Types: []string{"block.broken"}}))
	assert.True(t, matchFilter(ev, Filter{Sources: []string{"engine"}}))
	assert.False(t, matchFilter(ev, Filter{Sources: []string{"storage"}}))
	assert.False(t, matchFilter(ev, Filter{Types: []string{"block.placed"}, Sources: []string{"storage"}}),
		"Совпадать должны и тип, и источник")
}

// Benchmarks

func BenchmarkMemoryBus_Publish(b *testing.B) {
	bus := NewMemoryBus(1024)
	defer bus.Close()

	ev, _ := NewEnvelope("bench", "tick", 0, nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bus.Publish(context.Background(), ev)
	}
}

func BenchmarkNewEnvelope(b *testing.B) {
	payload := map[string]int{"x": 1, "y": 2, "z": 3}
	for i := 0; i < b.N; i++ {
		_, _ = NewEnvelope("bench", "tick", 5, payload)
	}
}
