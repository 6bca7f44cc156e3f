package physics

import (
	"math"

	"github.com/annel0/voxel-sandbox/internal/vec"
)

// Axis нумерует оси мира
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// AABB представляет выровненный по осям ограничивающий параллелепипед
type AABB struct {
	Min vec.Vec3Float
	Max vec.Vec3Float
}

// NewAABB создаёт AABB по центру и габаритам (ширина, высота, глубина)
func NewAABB(center vec.Vec3Float, width, height, depth float64) AABB {
	hw, hh, hd := width/2, height/2, depth/2
	return AABB{
		Min: vec.Vec3Float{X: center.X - hw, Y: center.Y - hh, Z: center.Z - hd},
		Max: vec.Vec3Float{X: center.X + hw, Y: center.Y + hh, Z: center.Z + hd},
	}
}

// BlockBounds возвращает единичный AABB блока с центром в его позиции
func BlockBounds(pos vec.Vec3) AABB {
	c := pos.ToFloat()
	return AABB{
		Min: vec.Vec3Float{X: c.X - 0.5, Y: c.Y - 0.5, Z: c.Z - 0.5},
		Max: vec.Vec3Float{X: c.X + 0.5, Y: c.Y + 0.5, Z: c.Z + 0.5},
	}
}

// Center возвращает центр AABB
func (b AABB) Center() vec.Vec3Float {
	return vec.Vec3Float{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// Intersects проверяет пересечение двух AABB.
// Границы включительные: касание граней считается пересечением.
func (b AABB) Intersects(other AABB) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// Expand возвращает AABB, расширенный на d во все стороны
func (b AABB) Expand(d float64) AABB {
	return AABB{
		Min: vec.Vec3Float{X: b.Min.X - d, Y: b.Min.Y - d, Z: b.Min.Z - d},
		Max: vec.Vec3Float{X: b.Max.X + d, Y: b.Max.Y + d, Z: b.Max.Z + d},
	}
}

// Penetration возвращает глубину взаимного проникновения по каждой оси:
// min(|aMax - bMin|, |aMin - bMax|). Имеет смысл только для пересекающихся AABB.
func (b AABB) Penetration(other AABB) vec.Vec3Float {
	return vec.Vec3Float{
		X: math.Min(math.Abs(b.Max.X-other.Min.X), math.Abs(b.Min.X-other.Max.X)),
		Y: math.Min(math.Abs(b.Max.Y-other.Min.Y), math.Abs(b.Min.Y-other.Max.Y)),
		Z: math.Min(math.Abs(b.Max.Z-other.Min.Z), math.Abs(b.Min.Z-other.Max.Z)),
	}
}

// MinPenetrationAxis выбирает ось наименьшего проникновения.
// Порядок ветвления фиксирован и является частью контракта разрешения
// коллизий: X только при строгом минимуме, затем Y при py < pz, иначе Z.
func MinPenetrationAxis(pen vec.Vec3Float) Axis {
	if pen.X < pen.Y && pen.X < pen.Z {
		return AxisX
	}
	if pen.Y < pen.Z {
		return AxisY
	}
	return AxisZ
}
