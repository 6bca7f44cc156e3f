package world

import (
	"fmt"
	"math"
	"sort"

	"github.com/annel0/voxel-sandbox/internal/physics"
	"github.com/annel0/voxel-sandbox/internal/vec"
)

// SpatialIndex — равномерная сетка по целочисленным ячейкам для быстрой
// выборки блоков, пересекающих заданный AABB. Стоимость запроса
// пропорциональна объёму запроса, а не размеру мира.
//
// Индекс не содержит собственных блокировок: синхронизацию обеспечивает
// владеющий им World.
type SpatialIndex struct {
	cellSize int
	cells    map[cellKey]map[vec.Vec3]struct{}
	blocks   int
}

// cellKey представляет ключ ячейки в пространственной сетке
type cellKey struct {
	x, y, z int
}

// NewSpatialIndex создаёт новый пространственный индекс
func NewSpatialIndex(cellSize int) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = 4 // Сторона ячейки по умолчанию
	}

	return &SpatialIndex{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[vec.Vec3]struct{}),
	}
}

// Insert добавляет позицию блока в индекс
func (si *SpatialIndex) Insert(pos vec.Vec3) {
	key := si.cellFor(pos)
	cell, exists := si.cells[key]
	if !exists {
		cell = make(map[vec.Vec3]struct{})
		si.cells[key] = cell
	}
	if _, dup := cell[pos]; !dup {
		cell[pos] = struct{}{}
		si.blocks++
	}
}

// Remove удаляет позицию блока из индекса
func (si *SpatialIndex) Remove(pos vec.Vec3) {
	key := si.cellFor(pos)
	cell, exists := si.cells[key]
	if !exists {
		return
	}
	if _, present := cell[pos]; !present {
		return
	}
	delete(cell, pos)
	si.blocks--
	if len(cell) == 0 {
		delete(si.cells, key)
	}
}

// QueryAABB возвращает позиции всех блоков, чьи единичные AABB пересекают
// заданный (границы включительные). Результат отсортирован по возрастанию
// кортежа (X, Y, Z): это фиксированный порядок обхода при разрешении
// коллизий.
func (si *SpatialIndex) QueryAABB(box physics.AABB) []vec.Vec3 {
	// Блок с центром p пересекает box тогда и только тогда, когда
	// p лежит в [box.Min-0.5, box.Max+0.5]
	pMin := vec.Vec3{
		X: int(math.Ceil(box.Min.X - 0.5)),
		Y: int(math.Ceil(box.Min.Y - 0.5)),
		Z: int(math.Ceil(box.Min.Z - 0.5)),
	}
	pMax := vec.Vec3{
		X: int(math.Floor(box.Max.X + 0.5)),
		Y: int(math.Floor(box.Max.Y + 0.5)),
		Z: int(math.Floor(box.Max.Z + 0.5)),
	}

	result := make([]vec.Vec3, 0, 16)

	cMin := si.cellFor(pMin)
	cMax := si.cellFor(pMax)
	for cx := cMin.x; cx <= cMax.x; cx++ {
		for cy := cMin.y; cy <= cMax.y; cy++ {
			for cz := cMin.z; cz <= cMax.z; cz++ {
				cell, exists := si.cells[cellKey{x: cx, y: cy, z: cz}]
				if !exists {
					continue
				}
				for pos := range cell {
					if pos.X >= pMin.X && pos.X <= pMax.X &&
						pos.Y >= pMin.Y && pos.Y <= pMax.Y &&
						pos.Z >= pMin.Z && pos.Z <= pMax.Z {
						result = append(result, pos)
					}
				}
			}
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Less(result[j]) })
	return result
}

// BlockCount возвращает количество индексированных блоков
func (si *SpatialIndex) BlockCount() int {
	return si.blocks
}

// CellCount возвращает количество активных ячеек
func (si *SpatialIndex) CellCount() int {
	return len(si.cells)
}

// Stats возвращает статистику индекса
func (si *SpatialIndex) Stats() string {
	maxPerCell := 0
	for _, cell := range si.cells {
		if len(cell) > maxPerCell {
			maxPerCell = len(cell)
		}
	}

	avgPerCell := 0.0
	if len(si.cells) > 0 {
		avgPerCell = float64(si.blocks) / float64(len(si.cells))
	}

	return fmt.Sprintf("SpatialIndex: %d blocks, %d cells, avg %.2f blocks/cell, max %d blocks/cell",
		si.blocks, len(si.cells), avgPerCell, maxPerCell)
}

// cellFor возвращает ключ ячейки, содержащей позицию.
// Деление с округлением вниз: для отрицательных координат обычное
// целочисленное деление Go усекает к нулю и даёт соседнюю ячейку.
func (si *SpatialIndex) cellFor(pos vec.Vec3) cellKey {
	return cellKey{
		x: floorDiv(pos.X, si.cellSize),
		y: floorDiv(pos.Y, si.cellSize),
		z: floorDiv(pos.Z, si.cellSize),
	}
}

func floorDiv(a, size int) int {
	q := a / size
	if a%size != 0 && a < 0 {
		q--
	}
	return q
}
