package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/annel0/voxel-sandbox/internal/logging"
	"github.com/annel0/voxel-sandbox/internal/player"
	"github.com/annel0/voxel-sandbox/internal/vec"
	"github.com/annel0/voxel-sandbox/internal/world"
	"github.com/annel0/voxel-sandbox/internal/world/block"
	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
)

const (
	metaKey     = "meta"
	playerKey   = "player"
	deltaPrefix = "delta:"
)

// WorldStorage хранит мета-параметры мира, дельты блоков и состояние
// игрока в BadgerDB. Полная карта блоков не сохраняется: мир
// восстанавливается регенерацией по сиду с наложением дельт.
type WorldStorage struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
}

// WorldMeta описывает параметры сохранённого мира. По ним база мира
// регенерируется детерминированно.
type WorldMeta struct {
	ID              string    `json:"id"`
	Seed            int64     `json:"seed"`
	Size            int       `json:"size"`
	MaxHeight       int       `json:"max_height"`
	TreeProbability float64   `json:"tree_probability"`
	Tick            uint64    `json:"tick"`
	SavedAt         time.Time `json:"saved_at"`
}

// PlayerState хранит сохраняемую часть состояния аватара. Скорость и
// таймер падения не сохраняются: после загрузки аватар начинает с покоя.
type PlayerState struct {
	ID       string      `json:"id"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Z        float64     `json:"z"`
	Yaw      float64     `json:"yaw"`
	Pitch    float64     `json:"pitch"`
	Slots    []SlotState `json:"slots"`
	Selected int         `json:"selected"`
}

// SlotState — сериализуемое содержимое одной ячейки инвентаря.
type SlotState struct {
	Type  block.BlockID `json:"type"`
	Count int           `json:"count,omitempty"`
}

// NewWorldStorage создает новое хранилище мира
func NewWorldStorage(dataPath string) (*WorldStorage, error) {
	dbPath := filepath.Join(dataPath, "world")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &WorldStorage{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
	}, nil
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}

	ws.isReady = false
	return ws.db.Close()
}

// SaveWorld сохраняет мета-параметры мира и журнал изменений. Ключи
// дельт, отсутствующие в журнале, удаляются: после рестарта журнал
// заново наполняется при наложении дельт, поэтому пропавший ключ
// означает изменение, вернувшееся к базовой генерации.
func (ws *WorldStorage) SaveWorld(w *world.World, gen *world.Generator, tick uint64) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	meta := WorldMeta{
		ID:              w.ID().String(),
		Seed:            gen.Seed,
		Size:            gen.Size,
		MaxHeight:       gen.MaxHeight,
		TreeProbability: gen.TreeProbability,
		Tick:            tick,
		SavedAt:         time.Now().UTC(),
	}
	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("ошибка сериализации мета-параметров: %w", err)
	}

	changes := w.Changes()

	// Собираем ключи дельт, которых больше нет в журнале
	var stale [][]byte
	err = ws.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(deltaPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			pos, perr := parseDeltaKey(string(key))
			if perr != nil {
				continue
			}
			if _, ok := changes[pos]; !ok {
				stale = append(stale, key)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка чтения ключей дельт: %w", err)
	}

	wb := ws.db.NewWriteBatch()
	defer wb.Cancel()

	if err := wb.Set([]byte(metaKey), metaData); err != nil {
		return fmt.Errorf("ошибка записи мета-параметров: %w", err)
	}
	for _, key := range stale {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("ошибка удаления устаревшей дельты: %w", err)
		}
	}
	for pos, change := range changes {
		data, merr := json.Marshal(change)
		if merr != nil {
			return fmt.Errorf("ошибка сериализации дельты %v: %w", pos, merr)
		}
		if err := wb.Set([]byte(deltaKey(pos)), data); err != nil {
			return fmt.Errorf("ошибка записи дельты %v: %w", pos, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	logging.Debug("Мир сохранён: %d дельт, удалено устаревших %d", len(changes), len(stale))
	return nil
}

// LoadMeta читает мета-параметры сохранённого мира. Если мир ещё не
// сохранялся, возвращает nil без ошибки.
func (ws *WorldStorage) LoadMeta() (*WorldMeta, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var data []byte
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	var meta WorldMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("ошибка десериализации мета-параметров: %w", err)
	}
	return &meta, nil
}

// LoadDeltas читает все сохранённые дельты блоков.
func (ws *WorldStorage) LoadDeltas() (map[vec.Vec3]world.BlockChange, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	deltas := make(map[vec.Vec3]world.BlockChange)
	err := ws.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(deltaPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			pos, perr := parseDeltaKey(string(item.Key()))
			if perr != nil {
				logging.Warn("Пропущен некорректный ключ дельты '%s': %v", item.Key(), perr)
				continue
			}
			verr := item.Value(func(val []byte) error {
				var change world.BlockChange
				if uerr := json.Unmarshal(val, &change); uerr != nil {
					return fmt.Errorf("ошибка десериализации дельты %v: %w", pos, uerr)
				}
				deltas[pos] = change
				return nil
			})
			if verr != nil {
				return verr
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения дельт из BadgerDB: %w", err)
	}
	return deltas, nil
}

// RestoreWorld регенерирует мир по сохранённым мета-параметрам и
// накладывает дельты поверх базовой генерации. Журнал включается до
// наложения, поэтому после рестарта он снова отражает все отличия от
// базы.
func (ws *WorldStorage) RestoreWorld(meta *WorldMeta) (*world.World, *world.Generator, error) {
	if meta == nil {
		return nil, nil, fmt.Errorf("мета-параметры мира отсутствуют")
	}

	id, err := uuid.Parse(meta.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("некорректный идентификатор мира: %w", err)
	}

	gen := world.NewGenerator(meta.Seed, meta.Size, meta.MaxHeight, meta.TreeProbability)
	w := world.NewWorld(meta.Seed)
	w.SetID(id)
	gen.Generate(w)
	w.EnableJournal()

	deltas, err := ws.LoadDeltas()
	if err != nil {
		return nil, nil, err
	}
	for pos, change := range deltas {
		if change.Removed {
			w.RemoveBlock(pos)
		} else {
			w.SetBlock(pos, change.ID)
		}
	}

	logging.Info("💾 Мир %s восстановлен: сид %d, дельт %d", meta.ID, meta.Seed, len(deltas))
	return w, gen, nil
}

// SavePlayer сохраняет позицию, взгляд и инвентарь аватара.
func (ws *WorldStorage) SavePlayer(a *player.Avatar) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	state := PlayerState{
		ID:       a.ID.String(),
		X:        a.Position.X,
		Y:        a.Position.Y,
		Z:        a.Position.Z,
		Yaw:      a.Yaw,
		Pitch:    a.Pitch,
		Selected: a.Inventory.Selected(),
	}
	for _, s := range a.Inventory.Slots() {
		state.Slots = append(state.Slots, SlotState{Type: s.Type, Count: s.Count})
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("ошибка сериализации состояния игрока: %w", err)
	}

	err = ws.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(playerKey), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения игрока в BadgerDB: %w", err)
	}
	return nil
}

// LoadPlayer восстанавливает аватар из сохранённого состояния. Если
// состояние не сохранялось, возвращает nil без ошибки.
func (ws *WorldStorage) LoadPlayer() (*player.Avatar, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var data []byte
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(playerKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения игрока из BadgerDB: %w", err)
	}

	var state PlayerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("ошибка десериализации состояния игрока: %w", err)
	}

	a := player.NewAvatar(vec.Vec3Float{X: state.X, Y: state.Y, Z: state.Z})
	if id, perr := uuid.Parse(state.ID); perr == nil {
		a.ID = id
	}
	a.SetLook(state.Yaw, state.Pitch)

	var slots [player.SlotCount]player.Slot
	for i, s := range state.Slots {
		if i >= player.SlotCount {
			break
		}
		slots[i] = player.Slot{Type: s.Type, Count: s.Count}
	}
	a.Inventory.Load(slots, state.Selected)

	return a, nil
}

func deltaKey(pos vec.Vec3) string {
	return fmt.Sprintf("%s%d:%d:%d", deltaPrefix, pos.X, pos.Y, pos.Z)
}

func parseDeltaKey(key string) (vec.Vec3, error) {
	var pos vec.Vec3
	rest := strings.TrimPrefix(key, deltaPrefix)
	if _, err := fmt.Sscanf(rest, "%d:%d:%d", &pos.X, &pos.Y, &pos.Z); err != nil {
		return vec.Vec3{}, err
	}
	return pos, nil
}
