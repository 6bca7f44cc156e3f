package world

import (
	"sync"

	"github.com/google/uuid"

	"github.com/annel0/voxel-sandbox/internal/physics"
	"github.com/annel0/voxel-sandbox/internal/vec"
	"github.com/annel0/voxel-sandbox/internal/world/block"

	// Поведения блоков регистрируются при импорте
	_ "github.com/annel0/voxel-sandbox/internal/world/block/implementations"
)

// Block представляет блок мира: позиция на целочисленной решётке и тип
type Block struct {
	Pos vec.Vec3
	ID  block.BlockID
}

// Bounds возвращает единичный AABB блока
func (b Block) Bounds() physics.AABB {
	return physics.BlockBounds(b.Pos)
}

// BlockChange описывает отклонение мира от сгенерированного состояния.
// Removed означает, что блок базовой генерации был разрушен.
type BlockChange struct {
	ID      block.BlockID `json:"id"`
	Removed bool          `json:"removed,omitempty"`
}

// World — разреженное хранилище блоков. Блоки существуют только там, где
// они явно установлены; остальное пространство считается воздухом.
type World struct {
	id         uuid.UUID                 // Уникальный идентификатор мира
	seed       int64                     // Сид генерации
	blocks     map[vec.Vec3]block.BlockID // Все блоки мира
	index      *SpatialIndex             // Пространственный индекс для AABB-запросов
	journal    map[vec.Vec3]BlockChange  // Изменения относительно базовой генерации
	journaling bool                      // Журналирование включается после генерации
	mu         sync.RWMutex              // Мьютекс для общего доступа
}

// NewWorld создаёт пустой мир с указанным сидом
func NewWorld(seed int64) *World {
	return &World{
		id:      uuid.New(),
		seed:    seed,
		blocks:  make(map[vec.Vec3]block.BlockID),
		index:   NewSpatialIndex(4),
		journal: make(map[vec.Vec3]BlockChange),
	}
}

// ID возвращает идентификатор мира
func (w *World) ID() uuid.UUID {
	return w.id
}

// SetID восстанавливает идентификатор мира из сохранённых метаданных
func (w *World) SetID(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.id = id
}

// Seed возвращает сид генерации
func (w *World) Seed() int64 {
	return w.seed
}

// EnableJournal включает журналирование изменений. Вызывается после
// базовой генерации: всё, что записано до этого момента, считается
// детерминированно восстановимым из сида.
func (w *World) EnableJournal() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.journaling = true
}

// SetBlock устанавливает блок в указанной позиции. Установка воздуха
// эквивалентна удалению. Повторная установка того же типа — no-op.
func (w *World) SetBlock(pos vec.Vec3, id block.BlockID) {
	if id == block.AirBlockID {
		w.RemoveBlock(pos)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	prev, exists := w.blocks[pos]
	if exists && prev == id {
		return
	}

	w.blocks[pos] = id
	if !exists {
		w.index.Insert(pos)
	}
	if w.journaling {
		w.journal[pos] = BlockChange{ID: id}
	}
}

// RemoveBlock удаляет блок в указанной позиции. Возвращает false, если
// блока там не было.
func (w *World) RemoveBlock(pos vec.Vec3) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.blocks[pos]; !exists {
		return false
	}

	delete(w.blocks, pos)
	w.index.Remove(pos)
	if w.journaling {
		w.journal[pos] = BlockChange{ID: block.AirBlockID, Removed: true}
	}
	return true
}

// GetBlock возвращает тип блока в позиции. Второе значение false означает
// воздух.
func (w *World) GetBlock(pos vec.Vec3) (block.BlockID, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	id, exists := w.blocks[pos]
	return id, exists
}

// HasBlock сообщает, занята ли позиция
func (w *World) HasBlock(pos vec.Vec3) bool {
	_, exists := w.GetBlock(pos)
	return exists
}

// IsSolidAt сообщает, занята ли позиция твёрдым блоком
func (w *World) IsSolidAt(pos vec.Vec3) bool {
	id, exists := w.GetBlock(pos)
	return exists && block.IsSolid(id)
}

// BlockCount возвращает количество блоков в мире
func (w *World) BlockCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.blocks)
}

// QueryAABB возвращает все блоки, чьи границы пересекают заданный AABB,
// в порядке возрастания (X, Y, Z).
func (w *World) QueryAABB(box physics.AABB) []Block {
	w.mu.RLock()
	defer w.mu.RUnlock()

	positions := w.index.QueryAABB(box)
	result := make([]Block, 0, len(positions))
	for _, pos := range positions {
		id, exists := w.blocks[pos]
		if !exists {
			continue
		}
		result = append(result, Block{Pos: pos, ID: id})
	}
	return result
}

// HighestAt возвращает наибольшую координату Y среди блоков колонки
// (x, z). Второе значение false означает пустую колонку. Линейный проход
// по всем блокам: используется при спавне и в инструментах, не в тике.
func (w *World) HighestAt(x, z int) (int, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	highest := 0
	found := false
	for pos := range w.blocks {
		if pos.X != x || pos.Z != z {
			continue
		}
		if !found || pos.Y > highest {
			highest = pos.Y
			found = true
		}
	}
	return highest, found
}

// FindSafeSpawnPosition возвращает точку появления аватара: два блока над
// вершиной колонки (0, 0). Для пустой колонки возвращается высота 2.
func (w *World) FindSafeSpawnPosition() vec.Vec3Float {
	highest, found := w.HighestAt(0, 0)
	if !found {
		return vec.Vec3Float{X: 0, Y: 2, Z: 0}
	}
	return vec.Vec3Float{X: 0, Y: float64(highest) + 2, Z: 0}
}

// Blocks возвращает копию всех блоков мира. Используется снапшотами
// и инструментами; в горячем пути не вызывается.
func (w *World) Blocks() map[vec.Vec3]block.BlockID {
	w.mu.RLock()
	defer w.mu.RUnlock()

	blocks := make(map[vec.Vec3]block.BlockID, len(w.blocks))
	for pos, id := range w.blocks {
		blocks[pos] = id
	}
	return blocks
}

// Changes возвращает копию журнала изменений относительно базовой
// генерации. Используется слоем хранения.
func (w *World) Changes() map[vec.Vec3]BlockChange {
	w.mu.RLock()
	defer w.mu.RUnlock()

	changes := make(map[vec.Vec3]BlockChange, len(w.journal))
	for pos, ch := range w.journal {
		changes[pos] = ch
	}
	return changes
}

// ChangeCount возвращает размер журнала изменений
func (w *World) ChangeCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.journal)
}

// IndexStats возвращает статистику пространственного индекса
func (w *World) IndexStats() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.index.Stats()
}
