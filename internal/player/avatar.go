package player

import (
	"math"

	"github.com/google/uuid"

	"github.com/annel0/voxel-sandbox/internal/physics"
	"github.com/annel0/voxel-sandbox/internal/vec"
	"github.com/annel0/voxel-sandbox/internal/world"
)

// Константы аватара
const (
	Width  = 0.6 // Ширина капсулы по X и Z
	Height = 1.2 // Высота капсулы

	WalkSpeed   = 7.0 // Скорость ходьбы, блоков/с
	SprintSpeed = 9.1 // Скорость бега, блоков/с
	JumpForce   = 8.5 // Начальная вертикальная скорость прыжка

	BaseGravity         = 25.0 // Ускорение в начале падения
	GravityAcceleration = 14.0 // Прирост ускорения за секунду падения
	MaxGravity          = 35.0 // Потолок ускорения

	FixedDt = 1.0 / 60.0 // Фиксированный шаг физики
	SnapGap = 0.1        // Зазор примагничивания к опоре
)

// Avatar — управляемое игроком тело: AABB-капсула с позицией в центре,
// скоростью и ориентацией взгляда. Вся физика считается фиксированным
// шагом, независимо от реальной частоты вызовов.
type Avatar struct {
	ID        uuid.UUID
	Position  vec.Vec3Float // Центр капсулы
	Velocity  vec.Vec3Float
	Yaw       float64 // Рыскание в радианах; 0 смотрит в -Z
	Pitch     float64 // Тангаж в радианах, ограничен ±pi/2
	Grounded  bool
	FallTime  float64 // Накопленное время падения, с
	Inventory *Inventory
}

// NewAvatar создаёт аватар в указанной точке появления
func NewAvatar(spawn vec.Vec3Float) *Avatar {
	return &Avatar{
		ID:        uuid.New(),
		Position:  spawn,
		Inventory: NewInventory(),
	}
}

// Bounds возвращает AABB аватара вокруг текущей позиции
func (a *Avatar) Bounds() physics.AABB {
	return physics.NewAABB(a.Position, Width, Height, Width)
}

// SetLook задаёт ориентацию взгляда. Тангаж ограничивается прямым
// взглядом вверх и вниз.
func (a *Avatar) SetLook(yaw, pitch float64) {
	a.Yaw = yaw
	a.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, pitch))
}

// Forward возвращает единичный вектор направления взгляда
func (a *Avatar) Forward() vec.Vec3Float {
	cosPitch := math.Cos(a.Pitch)
	return vec.Vec3Float{
		X: cosPitch * math.Sin(a.Yaw),
		Y: math.Sin(a.Pitch),
		Z: -cosPitch * math.Cos(a.Yaw),
	}
}

// Move задаёт горизонтальную скорость по намерению движения в осях
// камеры: strafe вправо, forward вперёд, обычно из {-1, 0, 1}.
// Вертикальная составляющая взгляда не влияет на ходьбу. Нулевое
// намерение останавливает мгновенно, без инерции.
func (a *Avatar) Move(strafe, forward float64, sprinting bool) {
	// Горизонтальный базис из рыскания
	fwdX, fwdZ := math.Sin(a.Yaw), -math.Cos(a.Yaw)
	rightX, rightZ := math.Cos(a.Yaw), math.Sin(a.Yaw)

	wishX := fwdX*forward + rightX*strafe
	wishZ := fwdZ*forward + rightZ*strafe

	length := math.Sqrt(wishX*wishX + wishZ*wishZ)
	if length == 0 {
		a.Velocity.X = 0
		a.Velocity.Z = 0
		return
	}

	speed := WalkSpeed
	if sprinting {
		speed = SprintSpeed
	}
	a.Velocity.X = wishX / length * speed
	a.Velocity.Z = wishZ / length * speed
}

// Jump подбрасывает аватар, если он стоит на опоре. В воздухе — no-op.
func (a *Avatar) Jump() bool {
	if !a.Grounded {
		return false
	}
	a.Velocity.Y = JumpForce
	a.Grounded = false
	return true
}

// Update выполняет один фиксированный шаг физики: гравитация,
// интеграция позиции, разрешение коллизий. Интегратор предсказывающий:
// позиция сначала сдвигается по скорости, затем корректируется по
// пересечениям. Туннелирование сквозь тонкую геометрию на больших
// скоростях — известное ограничение.
func (a *Avatar) Update(w *world.World) {
	const dt = FixedDt

	if a.Grounded {
		a.FallTime = 0
	} else {
		// Ускорение растёт со временем падения до потолка
		a.FallTime += dt
		gravity := BaseGravity + a.FallTime*GravityAcceleration
		if gravity > MaxGravity {
			gravity = MaxGravity
		}
		a.Velocity.Y -= gravity * dt
	}

	a.Position = a.Position.Add(a.Velocity.Mul(dt))

	a.resolveCollisions(w)
}

// resolveCollisions корректирует позицию по всем пересекаемым блокам.
// Каждый блок разрешается независимо по оси минимального проникновения;
// блоки обходятся в порядке возрастания (X, Y, Z), и поздние поправки
// перекрывают ранние. Комбинированный вектор выталкивания не строится.
func (a *Avatar) resolveCollisions(w *world.World) {
	candidates := w.QueryAABB(a.Bounds().Expand(1))

	// Верх самой высокой опоры, найденной в этом тике
	highestBlockY := math.Inf(-1)

	for _, b := range candidates {
		// AABB пересчитывается: блок видит поправки предыдущих
		box := a.Bounds()
		blockBox := b.Bounds()
		if !box.Intersects(blockBox) {
			continue
		}

		pen := box.Penetration(blockBox)
		blockCenter := blockBox.Center()

		switch physics.MinPenetrationAxis(pen) {
		case physics.AxisY:
			if a.Position.Y > blockCenter.Y {
				// Опора: примагничивание к верхней грани. Срабатывает
				// только при снижении и не выше зазора над точкой
				// покоя, чтобы не цепляться за блоки на пролёте вверх.
				// Глубина погружения не ограничена: быстрое падение
				// вытягивается на опору целиком.
				restY := blockBox.Max.Y + Height/2
				if a.Velocity.Y <= 0 && a.Position.Y-restY < SnapGap {
					a.Position.Y = restY
					a.Velocity.Y = 0
					a.Grounded = true
					a.FallTime = 0
					highestBlockY = float64(b.Pos.Y + 1)
				}
			} else {
				// Потолок: гасится только подъём
				a.Position.Y = blockBox.Min.Y - Height/2
				a.Velocity.Y = math.Min(0, a.Velocity.Y)
			}

		case physics.AxisX:
			if a.Position.X > blockCenter.X {
				a.Position.X = blockBox.Max.X + Width/2
			} else {
				a.Position.X = blockBox.Min.X - Width/2
			}
			a.Velocity.X = 0

		case physics.AxisZ:
			if a.Position.Z > blockCenter.Z {
				a.Position.Z = blockBox.Max.Z + Width/2
			} else {
				a.Position.Z = blockBox.Min.Z - Width/2
			}
			a.Velocity.Z = 0
		}
	}

	// Опоры под ногами в этом тике не нашлось
	if a.Position.Y > highestBlockY+SnapGap {
		a.Grounded = false
	}
}
