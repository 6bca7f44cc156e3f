package world

import (
	"math"
	"math/rand"

	"github.com/annel0/voxel-sandbox/internal/util"
	"github.com/annel0/voxel-sandbox/internal/vec"
	"github.com/annel0/voxel-sandbox/internal/world/block"
)

// Константы деревьев
const (
	TrunkHeightMin = 4 // Минимальная высота ствола
	TrunkHeightVar = 3 // Разброс высоты: 4 + [0, 2]
	CanopyRadius   = 2 // Полурадиус кроны по X и Z
)

// Generator генерирует ландшафт мира: рельеф по двумерному шуму Перлина
// и деревья по детерминированным броскам на колонку.
type Generator struct {
	Seed            int64   // Сид для шума и размещения деревьев
	Size            int     // Сторона квадратной площадки в блоках (чётная)
	MaxHeight       int     // Максимальная высота рельефа
	TreeProbability float64 // Вероятность дерева в колонке (от 0 до 1)
	NoiseScale      float64 // Масштаб шума высот

	noise *util.NoiseField
}

// GenerationStats содержит итоги генерации
type GenerationStats struct {
	Columns int // Количество колонок
	Blocks  int // Количество блоков после генерации
	Trees   int // Количество посаженных деревьев
}

// NewGenerator создаёт генератор с указанными параметрами
func NewGenerator(seed int64, size, maxHeight int, treeProbability float64) *Generator {
	return &Generator{
		Seed:            seed,
		Size:            size,
		MaxHeight:       maxHeight,
		TreeProbability: treeProbability,
		NoiseScale:      0.05, // Настройка сглаженности ландшафта
		noise:           util.NewNoiseField(seed),
	}
}

// ElevationAt возвращает высоту рельефа в колонке (x, z): индекс Y
// верхнего блока земли.
func (g *Generator) ElevationAt(x, z int) int {
	noiseX := float64(x) * g.NoiseScale
	noiseZ := float64(z) * g.NoiseScale

	// Шум из [-1, 1] отображается в [0, MaxHeight] и округляется вниз
	h := (g.noise.At(noiseX, noiseZ) + 1.0) * float64(g.MaxHeight) / 2.0
	return int(math.Floor(h))
}

// Generate заполняет мир рельефом и деревьями. Площадка квадратная,
// с центром в начале координат: колонки из [-Size/2, Size/2) по обеим осям.
// Генерация детерминирована: одинаковый сид даёт одинаковый мир.
func (g *Generator) Generate(w *World) GenerationStats {
	stats := GenerationStats{}

	half := g.Size / 2
	for x := -half; x < half; x++ {
		for z := -half; z < half; z++ {
			elevation := g.ElevationAt(x, z)

			// Колонка от подножия до рельефа: трава сверху, под ней
			// до трёх слоёв земли, ниже — камень
			for y := 0; y <= elevation; y++ {
				w.SetBlock(vec.Vec3{X: x, Y: y, Z: z}, g.blockForDepth(y, elevation))
			}
			stats.Columns++

			// Детерминированный бросок на дерево: локальный генератор
			// с сидом из глобального сида и координат колонки
			columnSeed := g.Seed + int64(x)*31 + int64(z)*17
			rng := rand.New(rand.NewSource(columnSeed))
			if rng.Float64() < g.TreeProbability {
				g.placeTree(w, vec.Vec3{X: x, Y: elevation + 1, Z: z}, rng)
				stats.Trees++
			}
		}
	}

	stats.Blocks = w.BlockCount()
	return stats
}

// blockForDepth возвращает тип блока для глубины y в колонке с рельефом
// elevation
func (g *Generator) blockForDepth(y, elevation int) block.BlockID {
	switch {
	case y == elevation:
		return block.GrassBlockID
	case y > elevation-3:
		return block.DirtBlockID
	default:
		return block.StoneBlockID
	}
}

// placeTree сажает дерево с корнем ствола в root. Сначала записывается
// крона, затем ствол: над корнем оказывается ровно trunkHeight блоков
// древесины, а перекрытый слой кроны уступает стволу. Дерево
// перезаписывает любые блоки рельефа и соседних деревьев.
func (g *Generator) placeTree(w *World, root vec.Vec3, rng *rand.Rand) {
	trunkHeight := TrunkHeightMin + rng.Intn(TrunkHeightVar)
	top := root.Y + trunkHeight

	// Крона: четыре горизонтальных слоя 5x5 без угловых колонок,
	// от top-1 до top+2
	for dy := -1; dy <= 2; dy++ {
		for lx := -CanopyRadius; lx <= CanopyRadius; lx++ {
			for lz := -CanopyRadius; lz <= CanopyRadius; lz++ {
				if abs(lx) == CanopyRadius && abs(lz) == CanopyRadius {
					continue
				}
				pos := vec.Vec3{X: root.X + lx, Y: top + dy, Z: root.Z + lz}
				w.SetBlock(pos, block.LeavesBlockID)
			}
		}
	}

	// Ствол
	for h := 0; h < trunkHeight; h++ {
		w.SetBlock(vec.Vec3{X: root.X, Y: root.Y + h, Z: root.Z}, block.WoodBlockID)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
