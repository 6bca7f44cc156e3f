package physics

import (
	"math"
	"testing"

	"github.com/annel0/voxel-sandbox/internal/vec"
)

func TestNewRayNormalizesDirection(t *testing.T) {
	r := NewRay(vec.Vec3Float{X: 1, Y: 2, Z: 3}, vec.Vec3Float{X: 3, Y: 0, Z: 4})

	if math.Abs(r.Dir.Length()-1) > 1e-12 {
		t.Errorf("Направление должно быть единичным, длина %f", r.Dir.Length())
	}
	if math.Abs(r.Dir.X-0.6) > 1e-12 || r.Dir.Y != 0 || math.Abs(r.Dir.Z-0.8) > 1e-12 {
		t.Errorf("Неверное направление после нормализации: %v", r.Dir)
	}

	// Нулевое направление остаётся нулевым, а не NaN
	zero := NewRay(vec.Vec3Float{}, vec.Vec3Float{})
	if zero.Dir != (vec.Vec3Float{}) {
		t.Errorf("Нулевое направление должно сохраниться, получено %v", zero.Dir)
	}
}

func TestIntersectAABBFrontFace(t *testing.T) {
	r := NewRay(vec.Vec3Float{}, vec.Vec3Float{X: 1})
	box := BlockBounds(vec.Vec3{X: 3, Y: 0, Z: 0})

	dist, normal, ok := r.IntersectAABB(box)

	if !ok {
		t.Fatalf("Луч вдоль +X должен попасть в блок (3,0,0)")
	}
	if math.Abs(dist-2.5) > 1e-9 {
		t.Errorf("Расстояние до ближней грани должно быть 2.5, получено %f", dist)
	}
	if normal != (vec.Vec3Float{X: -1}) {
		t.Errorf("Нормаль входа должна смотреть навстречу лучу, получено %v", normal)
	}
}

func TestIntersectAABBNormalPerAxis(t *testing.T) {
	box := BlockBounds(vec.Vec3{})

	cases := []struct {
		name   string
		origin vec.Vec3Float
		dir    vec.Vec3Float
		want   vec.Vec3Float
	}{
		{"слева", vec.Vec3Float{X: -3}, vec.Vec3Float{X: 1}, vec.Vec3Float{X: -1}},
		{"справа", vec.Vec3Float{X: 3}, vec.Vec3Float{X: -1}, vec.Vec3Float{X: 1}},
		{"снизу", vec.Vec3Float{Y: -3}, vec.Vec3Float{Y: 1}, vec.Vec3Float{Y: -1}},
		{"сверху", vec.Vec3Float{Y: 3}, vec.Vec3Float{Y: -1}, vec.Vec3Float{Y: 1}},
		{"спереди", vec.Vec3Float{Z: -3}, vec.Vec3Float{Z: 1}, vec.Vec3Float{Z: -1}},
		{"сзади", vec.Vec3Float{Z: 3}, vec.Vec3Float{Z: -1}, vec.Vec3Float{Z: 1}},
	}

	for _, tc := range cases {
		r := NewRay(tc.origin, tc.dir)
		dist, normal, ok := r.IntersectAABB(box)
		if !ok {
			t.Errorf("%s: луч должен попасть в блок", tc.name)
			continue
		}
		if math.Abs(dist-2.5) > 1e-9 {
			t.Errorf("%s: расстояние должно быть 2.5, получено %f", tc.name, dist)
		}
		if normal != tc.want {
			t.Errorf("%s: ожидалась нормаль %v, получена %v", tc.name, tc.want, normal)
		}
	}
}

func TestIntersectAABBOriginInside(t *testing.T) {
	// Луч изнутри AABB промахивается: вход требует строго положительного t
	r := NewRay(vec.Vec3Float{}, vec.Vec3Float{X: 1})
	box := BlockBounds(vec.Vec3{})

	if _, _, ok := r.IntersectAABB(box); ok {
		t.Errorf("Луч изнутри AABB не должен засчитываться попаданием")
	}
}

func TestIntersectAABBBehindOrigin(t *testing.T) {
	r := NewRay(vec.Vec3Float{}, vec.Vec3Float{X: 1})
	box := BlockBounds(vec.Vec3{X: -3, Y: 0, Z: 0})

	if _, _, ok := r.IntersectAABB(box); ok {
		t.Errorf("AABB позади начала луча не должен пересекаться")
	}
}

func TestIntersectAABBParallelSlab(t *testing.T) {
	box := BlockBounds(vec.Vec3{X: 3, Y: 0, Z: 0})

	// Луч параллелен слэбу Y и проходит внутри его диапазона
	inside := NewRay(vec.Vec3Float{Y: 0.25}, vec.Vec3Float{X: 1})
	if _, _, ok := inside.IntersectAABB(box); !ok {
		t.Errorf("Луч внутри параллельного слэба должен попасть")
	}

	// Луч параллелен слэбу Y и идёт выше него
	above := NewRay(vec.Vec3Float{Y: 2}, vec.Vec3Float{X: 1})
	if _, _, ok := above.IntersectAABB(box); ok {
		t.Errorf("Луч вне параллельного слэба должен промахнуться")
	}
}

func TestIntersectAABBDiagonal(t *testing.T) {
	// Диагональный луч в плоскости XZ входит в блок через угол:
	// при равных t нормаль берётся с первой из осей
	r := NewRay(vec.Vec3Float{}, vec.Vec3Float{X: 1, Z: 1})
	box := BlockBounds(vec.Vec3{X: 2, Y: 0, Z: 2})

	dist, normal, ok := r.IntersectAABB(box)

	if !ok {
		t.Fatalf("Диагональный луч должен попасть в блок (2,0,2)")
	}
	if want := 1.5 * math.Sqrt2; math.Abs(dist-want) > 1e-9 {
		t.Errorf("Расстояние должно быть %f, получено %f", want, dist)
	}
	if normal != (vec.Vec3Float{X: -1}) {
		t.Errorf("При входе через ребро нормаль должна быть по X, получено %v", normal)
	}
}

// Benchmarks

func BenchmarkRayIntersectAABB(b *testing.B) {
	r := NewRay(vec.Vec3Float{}, vec.Vec3Float{X: 1, Y: 0.3, Z: 0.2})
	box := BlockBounds(vec.Vec3{X: 5, Y: 1, Z: 1})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.IntersectAABB(box)
	}
}
