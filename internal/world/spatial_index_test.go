package world

import (
	"testing"

	"github.com/annel0/voxel-sandbox/internal/physics"
	"github.com/annel0/voxel-sandbox/internal/vec"
)

func TestSpatialIndexInsertRemove(t *testing.T) {
	si := NewSpatialIndex(4)

	pos := vec.Vec3{X: 1, Y: 2, Z: 3}
	si.Insert(pos)

	if si.BlockCount() != 1 {
		t.Errorf("Ожидался 1 блок после вставки, получено %d", si.BlockCount())
	}
	if si.CellCount() != 1 {
		t.Errorf("Ожидалась 1 ячейка, получено %d", si.CellCount())
	}

	// Повторная вставка не дублирует
	si.Insert(pos)
	if si.BlockCount() != 1 {
		t.Errorf("Повторная вставка не должна менять счётчик, получено %d", si.BlockCount())
	}

	si.Remove(pos)
	if si.BlockCount() != 0 {
		t.Errorf("Ожидалось 0 блоков после удаления, получено %d", si.BlockCount())
	}
	if si.CellCount() != 0 {
		t.Errorf("Пустая ячейка должна быть освобождена, получено %d", si.CellCount())
	}

	// Удаление отсутствующего блока безопасно
	si.Remove(pos)
	if si.BlockCount() != 0 {
		t.Errorf("Удаление отсутствующего блока не должно менять счётчик, получено %d", si.BlockCount())
	}
}

func TestSpatialIndexNegativeCoords(t *testing.T) {
	si := NewSpatialIndex(4)

	// Блоки по разные стороны от нуля попадают в разные ячейки
	si.Insert(vec.Vec3{X: -1, Y: 0, Z: 0})
	si.Insert(vec.Vec3{X: 0, Y: 0, Z: 0})

	if si.CellCount() != 2 {
		t.Errorf("Блоки -1 и 0 должны лежать в разных ячейках, получено %d", si.CellCount())
	}

	box := physics.AABB{
		Min: vec.Vec3Float{X: -1.5, Y: -0.5, Z: -0.5},
		Max: vec.Vec3Float{X: 0.5, Y: 0.5, Z: 0.5},
	}
	result := si.QueryAABB(box)

	if len(result) != 2 {
		t.Fatalf("Запрос через границу ячеек должен найти оба блока, получено %d", len(result))
	}
	if result[0] != (vec.Vec3{X: -1, Y: 0, Z: 0}) || result[1] != (vec.Vec3{X: 0, Y: 0, Z: 0}) {
		t.Errorf("Неверный порядок результатов: %v", result)
	}
}

func TestSpatialIndexQueryFiltersWithinCell(t *testing.T) {
	si := NewSpatialIndex(4)

	// Оба блока в одной ячейке, но только один пересекает запрос
	si.Insert(vec.Vec3{X: 0, Y: 0, Z: 0})
	si.Insert(vec.Vec3{X: 3, Y: 0, Z: 0})

	box := physics.AABB{
		Min: vec.Vec3Float{X: -0.5, Y: -0.5, Z: -0.5},
		Max: vec.Vec3Float{X: 0.5, Y: 0.5, Z: 0.5},
	}
	result := si.QueryAABB(box)

	if len(result) != 1 {
		t.Fatalf("Ожидался один блок в выборке, получено %d", len(result))
	}
	if result[0] != (vec.Vec3{X: 0, Y: 0, Z: 0}) {
		t.Errorf("Неверный блок в выборке: %v", result[0])
	}
}

func TestSpatialIndexQueryOrder(t *testing.T) {
	si := NewSpatialIndex(4)

	positions := []vec.Vec3{
		{X: 2, Y: 0, Z: 1},
		{X: 0, Y: 3, Z: 0},
		{X: 0, Y: 0, Z: 2},
		{X: 1, Y: 1, Z: 1},
		{X: 0, Y: 0, Z: 0},
	}
	for _, pos := range positions {
		si.Insert(pos)
	}

	box := physics.AABB{
		Min: vec.Vec3Float{X: -0.5, Y: -0.5, Z: -0.5},
		Max: vec.Vec3Float{X: 2.5, Y: 3.5, Z: 2.5},
	}
	result := si.QueryAABB(box)

	if len(result) != len(positions) {
		t.Fatalf("Ожидалось %d блоков, получено %d", len(positions), len(result))
	}
	for i := 1; i < len(result); i++ {
		if !result[i-1].Less(result[i]) {
			t.Errorf("Нарушен порядок: %v не раньше %v", result[i-1], result[i])
		}
	}
}

func TestSpatialIndexStats(t *testing.T) {
	si := NewSpatialIndex(4)
	si.Insert(vec.Vec3{X: 0, Y: 0, Z: 0})
	si.Insert(vec.Vec3{X: 100, Y: 0, Z: 0})

	stats := si.Stats()
	if stats == "" {
		t.Error("Статистика не должна быть пустой")
	}
}

// Benchmarks

func BenchmarkSpatialIndexInsert(b *testing.B) {
	si := NewSpatialIndex(4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		si.Insert(vec.Vec3{X: i % 64, Y: (i / 64) % 32, Z: (i / 2048) % 64})
	}
}

func BenchmarkSpatialIndexQueryAABB(b *testing.B) {
	si := NewSpatialIndex(4)
	for x := -20; x < 20; x++ {
		for z := -20; z < 20; z++ {
			for y := 0; y < 8; y++ {
				si.Insert(vec.Vec3{X: x, Y: y, Z: z})
			}
		}
	}

	box := physics.AABB{
		Min: vec.Vec3Float{X: -1.3, Y: 4.4, Z: -1.3},
		Max: vec.Vec3Float{X: 1.3, Y: 7.6, Z: 1.3},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		si.QueryAABB(box)
	}
}
