package physics

import (
	"math"

	"github.com/annel0/voxel-sandbox/internal/vec"
)

// Ray представляет луч из точки Origin вдоль направления Dir.
// Dir предполагается нормализованным: параметр t равен расстоянию.
type Ray struct {
	Origin vec.Vec3Float
	Dir    vec.Vec3Float
}

// NewRay создаёт луч с нормализованным направлением. Нулевое направление
// остаётся нулевым: такой луч не пересекает ничего.
func NewRay(origin, dir vec.Vec3Float) Ray {
	return Ray{Origin: origin, Dir: dir.Normalized()}
}

// IntersectAABB выполняет точное пересечение луча с AABB методом слэбов.
// Возвращает расстояние до точки входа, единичную нормаль грани входа и
// признак попадания. Попаданием считается только вход при строго
// положительном t: луч, начинающийся внутри AABB, промахивается.
func (r Ray) IntersectAABB(box AABB) (float64, vec.Vec3Float, bool) {
	tNear := math.Inf(-1)
	tFar := math.Inf(1)
	nearAxis := AxisX

	mins := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	maxs := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}
	origins := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dirs := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}

	for axis := 0; axis < 3; axis++ {
		if dirs[axis] == 0 {
			// Луч параллелен слэбу: либо внутри него, либо мимо
			if origins[axis] < mins[axis] || origins[axis] > maxs[axis] {
				return 0, vec.Vec3Float{}, false
			}
			continue
		}

		t1 := (mins[axis] - origins[axis]) / dirs[axis]
		t2 := (maxs[axis] - origins[axis]) / dirs[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		if t1 > tNear {
			tNear = t1
			nearAxis = Axis(axis)
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar {
			return 0, vec.Vec3Float{}, false
		}
	}

	if tNear <= 0 {
		return 0, vec.Vec3Float{}, false
	}

	normal := vec.Vec3Float{}
	sign := 1.0
	if dirs[nearAxis] > 0 {
		sign = -1.0
	}
	switch nearAxis {
	case AxisX:
		normal.X = sign
	case AxisY:
		normal.Y = sign
	case AxisZ:
		normal.Z = sign
	}

	return tNear, normal, true
}
