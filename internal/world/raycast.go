package world

import (
	"math"

	"github.com/annel0/voxel-sandbox/internal/physics"
	"github.com/annel0/voxel-sandbox/internal/vec"
	"github.com/annel0/voxel-sandbox/internal/world/block"
)

// RayHit описывает попадание луча в блок
type RayHit struct {
	Block    Block         // Блок, в который попал луч
	Point    vec.Vec3Float // Точка попадания на грани блока
	Normal   vec.Vec3Float // Нормаль грани в точке попадания
	Distance float64       // Расстояние от начала луча до точки попадания
}

// Raycast пускает луч из origin вдоль dir и возвращает ближайший твёрдый
// блок в пределах maxDistance. Блок, внутри которого начинается луч,
// не засчитывается: попаданием считается только пересечение со строго
// положительным расстоянием.
//
// Обход решётки идёт по алгоритму DDA: воксели посещаются в порядке
// удаления от начала луча, поэтому первый твёрдый блок с валидным
// пересечением и есть ближайший.
func (w *World) Raycast(origin, dir vec.Vec3Float, maxDistance float64) (RayHit, bool) {
	ray := physics.NewRay(origin, dir)

	// Текущий воксель: блоки центрированы на целых координатах,
	// границы решётки проходят по полуцелым
	voxel := origin.Round()

	d := [3]float64{ray.Dir.X, ray.Dir.Y, ray.Dir.Z}
	v := [3]int{voxel.X, voxel.Y, voxel.Z}

	var step [3]int
	var tMax, tDelta [3]float64
	o := [3]float64{origin.X, origin.Y, origin.Z}

	for axis := 0; axis < 3; axis++ {
		switch {
		case d[axis] > 0:
			step[axis] = 1
			tMax[axis] = (float64(v[axis]) + 0.5 - o[axis]) / d[axis]
			tDelta[axis] = 1.0 / d[axis]
		case d[axis] < 0:
			step[axis] = -1
			tMax[axis] = (float64(v[axis]) - 0.5 - o[axis]) / d[axis]
			tDelta[axis] = -1.0 / d[axis]
		default:
			// Ось не пересекается никогда
			step[axis] = 0
			tMax[axis] = math.Inf(1)
			tDelta[axis] = math.Inf(1)
		}
	}

	for {
		pos := vec.Vec3{X: v[0], Y: v[1], Z: v[2]}
		if id, exists := w.GetBlock(pos); exists && block.IsSolid(id) {
			if t, normal, ok := ray.IntersectAABB(physics.BlockBounds(pos)); ok && t <= maxDistance {
				return RayHit{
					Block:    Block{Pos: pos, ID: id},
					Point:    origin.Add(ray.Dir.Mul(t)),
					Normal:   normal,
					Distance: t,
				}, true
			}
		}

		// Переход в соседний воксель через ближайшую границу
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		if tMax[axis] > maxDistance {
			return RayHit{}, false
		}
		v[axis] += step[axis]
		tMax[axis] += tDelta[axis]
	}
}
