package world

import (
	"testing"

	"github.com/annel0/voxel-sandbox/internal/physics"
	"github.com/annel0/voxel-sandbox/internal/vec"
	"github.com/annel0/voxel-sandbox/internal/world/block"
	"github.com/stretchr/testify/assert"
)

func TestWorld_Creation(t *testing.T) {
	// Тест создания мира
	w := NewWorld(12345)

	assert.NotNil(t, w, "Мир должен быть создан")
	assert.Equal(t, int64(12345), w.Seed(), "Сид должен быть установлен правильно")
	assert.Equal(t, 0, w.BlockCount(), "Новый мир должен быть пустым")
	assert.Equal(t, 0, w.ChangeCount(), "Журнал нового мира должен быть пустым")
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", w.ID().String(), "Мир должен получить идентификатор")
}

func TestWorld_BlockOperations(t *testing.T) {
	// Тест установки, чтения и удаления блоков
	w := NewWorld(12345)
	pos := vec.Vec3{X: 10, Y: 3, Z: -7}

	w.SetBlock(pos, block.StoneBlockID)

	id, exists := w.GetBlock(pos)
	assert.True(t, exists, "Блок должен существовать после установки")
	assert.Equal(t, block.StoneBlockID, id, "Тип блока должен совпадать")
	assert.True(t, w.HasBlock(pos), "HasBlock должен видеть установленный блок")
	assert.True(t, w.IsSolidAt(pos), "Камень должен быть твёрдым")
	assert.Equal(t, 1, w.BlockCount(), "В мире должен быть один блок")

	// Повторная установка того же типа ничего не меняет
	w.SetBlock(pos, block.StoneBlockID)
	assert.Equal(t, 1, w.BlockCount(), "Повторная установка не должна дублировать блок")

	// Удаление
	removed := w.RemoveBlock(pos)
	assert.True(t, removed, "Первое удаление должно вернуть true")
	assert.False(t, w.HasBlock(pos), "Блок должен исчезнуть после удаления")
	assert.Equal(t, 0, w.BlockCount(), "Мир должен опустеть")

	// Удаление пустой позиции идемпотентно
	removed = w.RemoveBlock(pos)
	assert.False(t, removed, "Повторное удаление должно вернуть false")
}

func TestWorld_SetAirRemoves(t *testing.T) {
	// Установка воздуха эквивалентна удалению
	w := NewWorld(1)
	pos := vec.Vec3{X: 0, Y: 0, Z: 0}

	w.SetBlock(pos, block.DirtBlockID)
	w.SetBlock(pos, block.AirBlockID)

	assert.False(t, w.HasBlock(pos), "Установка воздуха должна удалить блок")
	assert.Equal(t, 0, w.BlockCount(), "Мир должен опустеть")
}

func TestWorld_Journal(t *testing.T) {
	// Тест журнала изменений относительно базовой генерации
	w := NewWorld(7)

	// До включения журнала записи считаются базовой генерацией
	basePos := vec.Vec3{X: 0, Y: 0, Z: 0}
	w.SetBlock(basePos, block.GrassBlockID)
	assert.Equal(t, 0, w.ChangeCount(), "Базовая генерация не должна журналироваться")

	w.EnableJournal()

	// Установка нового блока попадает в журнал
	placed := vec.Vec3{X: 1, Y: 1, Z: 1}
	w.SetBlock(placed, block.StoneBlockID)
	changes := w.Changes()
	assert.Len(t, changes, 1, "Установка должна дать одну запись журнала")
	assert.Equal(t, BlockChange{ID: block.StoneBlockID}, changes[placed], "Запись должна содержать тип блока")

	// Удаление блока базовой генерации даёт могильную запись
	w.RemoveBlock(basePos)
	changes = w.Changes()
	assert.Len(t, changes, 2, "Удаление должно дать вторую запись")
	assert.True(t, changes[basePos].Removed, "Удаление должно быть помечено как Removed")

	// Повторная установка того же типа журнал не трогает
	w.SetBlock(placed, block.StoneBlockID)
	assert.Equal(t, 2, w.ChangeCount(), "No-op установка не должна добавлять записей")
}

func TestWorld_QueryAABB(t *testing.T) {
	// Тест выборки блоков по AABB
	w := NewWorld(1)

	positions := []vec.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 10, Y: 10, Z: 10}, // Вне запроса
	}
	for _, pos := range positions {
		w.SetBlock(pos, block.StoneBlockID)
	}

	box := physics.AABB{
		Min: vec.Vec3Float{X: -1.5, Y: -0.5, Z: -0.5},
		Max: vec.Vec3Float{X: 1.5, Y: 1.5, Z: 0.5},
	}
	result := w.QueryAABB(box)

	assert.Len(t, result, 4, "Запрос должен вернуть четыре блока")
	for _, b := range result {
		assert.NotEqual(t, vec.Vec3{X: 10, Y: 10, Z: 10}, b.Pos, "Дальний блок не должен попасть в выборку")
	}

	// Порядок строго возрастающий по кортежу (X, Y, Z)
	for i := 1; i < len(result); i++ {
		assert.True(t, result[i-1].Pos.Less(result[i].Pos),
			"Результаты должны быть отсортированы: %v перед %v", result[i-1].Pos, result[i].Pos)
	}
}

func TestWorld_QueryAABB_TouchingCounts(t *testing.T) {
	// Касание граней считается пересечением
	w := NewWorld(1)
	w.SetBlock(vec.Vec3{X: 0, Y: 0, Z: 0}, block.StoneBlockID)

	// Грань блока проходит по x = 0.5; запрос начинается ровно там
	box := physics.AABB{
		Min: vec.Vec3Float{X: 0.5, Y: -0.5, Z: -0.5},
		Max: vec.Vec3Float{X: 2.0, Y: 0.5, Z: 0.5},
	}
	result := w.QueryAABB(box)

	assert.Len(t, result, 1, "Касающийся блок должен попасть в выборку")
}

func TestWorld_HighestAt(t *testing.T) {
	// Тест поиска вершины колонки
	w := NewWorld(1)

	_, found := w.HighestAt(0, 0)
	assert.False(t, found, "Пустая колонка не должна иметь вершины")

	w.SetBlock(vec.Vec3{X: 0, Y: 0, Z: 0}, block.StoneBlockID)
	w.SetBlock(vec.Vec3{X: 0, Y: 5, Z: 0}, block.GrassBlockID)
	w.SetBlock(vec.Vec3{X: 0, Y: 3, Z: 0}, block.DirtBlockID)
	w.SetBlock(vec.Vec3{X: 1, Y: 9, Z: 0}, block.StoneBlockID) // Другая колонка

	highest, found := w.HighestAt(0, 0)
	assert.True(t, found, "Колонка с блоками должна иметь вершину")
	assert.Equal(t, 5, highest, "Вершина колонки должна быть на высоте 5")
}

func TestWorld_FindSafeSpawnPosition(t *testing.T) {
	// Тест точки появления аватара
	w := NewWorld(1)

	// Пустая колонка: высота по умолчанию
	spawn := w.FindSafeSpawnPosition()
	assert.Equal(t, vec.Vec3Float{X: 0, Y: 2, Z: 0}, spawn, "Спавн над пустой колонкой должен быть на высоте 2")

	// Колонка с блоками: два блока над вершиной
	w.SetBlock(vec.Vec3{X: 0, Y: 4, Z: 0}, block.GrassBlockID)
	spawn = w.FindSafeSpawnPosition()
	assert.Equal(t, vec.Vec3Float{X: 0, Y: 6, Z: 0}, spawn, "Спавн должен быть на два блока выше вершины колонки")
}

func TestWorld_BlocksSnapshot(t *testing.T) {
	// Копия блоков не связана с миром
	w := NewWorld(1)
	pos := vec.Vec3{X: 2, Y: 2, Z: 2}
	w.SetBlock(pos, block.WoodBlockID)

	snapshot := w.Blocks()
	assert.Len(t, snapshot, 1, "Снимок должен содержать один блок")

	delete(snapshot, pos)
	assert.True(t, w.HasBlock(pos), "Изменение снимка не должно затрагивать мир")
}

// Benchmarks

func BenchmarkWorld_SetBlock(b *testing.B) {
	w := NewWorld(12345)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pos := vec.Vec3{X: i % 100, Y: (i / 100) % 64, Z: (i / 6400) % 100}
		w.SetBlock(pos, block.StoneBlockID)
	}
}

func BenchmarkWorld_GetBlock(b *testing.B) {
	w := NewWorld(12345)
	for x := 0; x < 50; x++ {
		for z := 0; z < 50; z++ {
			w.SetBlock(vec.Vec3{X: x, Y: 0, Z: z}, block.StoneBlockID)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.GetBlock(vec.Vec3{X: i % 50, Y: 0, Z: (i / 50) % 50})
	}
}

func BenchmarkWorld_QueryAABB(b *testing.B) {
	w := NewWorld(12345)
	for x := -20; x < 20; x++ {
		for z := -20; z < 20; z++ {
			for y := 0; y < 8; y++ {
				w.SetBlock(vec.Vec3{X: x, Y: y, Z: z}, block.StoneBlockID)
			}
		}
	}

	// Запрос размером с область вокруг аватара
	box := physics.AABB{
		Min: vec.Vec3Float{X: -1.3, Y: 5.0, Z: -1.3},
		Max: vec.Vec3Float{X: 1.3, Y: 8.2, Z: 1.3},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.QueryAABB(box)
	}
}
