package interact

import (
	"github.com/annel0/voxel-sandbox/internal/logging"
	"github.com/annel0/voxel-sandbox/internal/physics"
	"github.com/annel0/voxel-sandbox/internal/player"
	"github.com/annel0/voxel-sandbox/internal/vec"
	"github.com/annel0/voxel-sandbox/internal/world"
	"github.com/annel0/voxel-sandbox/internal/world/block"
)

// Константы взаимодействия
const (
	// MaxReach — предел дальности действий, евклидово расстояние от
	// позиции аватара до цели
	MaxReach = 5.0

	// rayLimit — длина луча прицеливания. Больше MaxReach: отсечение
	// по дальности идёт от аватара, а не от начала луча
	rayLimit = 8.0
)

// BreakResult описывает результат разрушения блока
type BreakResult struct {
	Pos      vec.Vec3      // Позиция разрушенного блока
	ID       block.BlockID // Тип разрушенного блока
	Drop     block.BlockID // Тип, отправленный в инвентарь
	PickedUp bool          // Поместился ли дроп: при полном инвентаре дроп теряется
	Distance float64       // Расстояние от аватара до блока
}

// PlaceResult описывает результат установки блока
type PlaceResult struct {
	Pos vec.Vec3      // Ячейка, в которую установлен блок
	ID  block.BlockID // Тип установленного блока
}

// Resolver выполняет прицельные действия над миром: разрушение и
// установку блоков по лучу камеры. Все отказы молчаливые: метод
// возвращает false, состояние мира и инвентаря не меняется частично.
type Resolver struct {
	world *world.World
	log   *logging.Logger
}

// NewResolver создаёт резолвер взаимодействий для указанного мира
func NewResolver(w *world.World) *Resolver {
	return &Resolver{
		world: w,
		log:   logging.GetComponentLogger("interact"),
	}
}

// Break разрушает блок под прицелом. Блок исчезает из мира, его дроп
// уходит в инвентарь аватара; при полном инвентаре дроп теряется, но
// разрушение засчитывается.
func (r *Resolver) Break(a *player.Avatar, origin, dir vec.Vec3Float) (BreakResult, bool) {
	hit, ok := r.world.Raycast(origin, dir, rayLimit)
	if !ok {
		return BreakResult{}, false
	}

	dist := a.Position.DistanceTo(hit.Block.Pos.ToFloat())
	if dist > MaxReach {
		r.log.Debug("Разрушение отклонено: блок %v на расстоянии %.2f", hit.Block.Pos, dist)
		return BreakResult{}, false
	}

	r.world.RemoveBlock(hit.Block.Pos)

	drop := block.DropOf(hit.Block.ID)
	picked := a.Inventory.Add(drop)
	if !picked {
		r.log.Debug("Инвентарь полон, дроп %s потерян", block.Name(drop))
	}

	return BreakResult{
		Pos:      hit.Block.Pos,
		ID:       hit.Block.ID,
		Drop:     drop,
		PickedUp: picked,
		Distance: dist,
	}, true
}

// Place устанавливает блок выбранного типа в ячейку, примыкающую к
// поражённой грани. Установка отклоняется целиком, если ячейка дальше
// MaxReach, пересекается с аватаром, уже занята или выбранная ячейка
// инвентаря пуста.
func (r *Resolver) Place(a *player.Avatar, origin, dir vec.Vec3Float) (PlaceResult, bool) {
	hit, ok := r.world.Raycast(origin, dir, rayLimit)
	if !ok {
		return PlaceResult{}, false
	}

	// Ячейка по ту сторону поражённой грани
	cell := hit.Point.Add(hit.Normal.Mul(0.5)).Round()

	dist := a.Position.DistanceTo(cell.ToFloat())
	if dist > MaxReach {
		r.log.Debug("Установка отклонена: ячейка %v на расстоянии %.2f", cell, dist)
		return PlaceResult{}, false
	}
	if physics.BlockBounds(cell).Intersects(a.Bounds()) {
		r.log.Debug("Установка отклонена: ячейка %v пересекается с аватаром", cell)
		return PlaceResult{}, false
	}
	if r.world.HasBlock(cell) {
		r.log.Debug("Установка отклонена: ячейка %v занята", cell)
		return PlaceResult{}, false
	}

	id, ok := a.Inventory.SelectedType()
	if !ok {
		r.log.Debug("Установка отклонена: выбранная ячейка инвентаря пуста")
		return PlaceResult{}, false
	}

	// Все проверки пройдены, мутации атомарны для вызывающего
	a.Inventory.RemoveSelected()
	r.world.SetBlock(cell, id)

	return PlaceResult{Pos: cell, ID: id}, true
}
