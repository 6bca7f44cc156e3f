package engine

// InputState описывает намерения игрока на один тик.
type InputState struct {
	Forward  bool // Движение вперёд (W)
	Backward bool // Движение назад (S)
	Left     bool // Шаг влево (A)
	Right    bool // Шаг вправо (D)
	Sprint   bool // Ускорение зажато
	Jump     bool // Прыжок по фронту нажатия
	Break    bool // Разрушить блок под прицелом
	Place    bool // Установить блок из выбранной ячейки
	Slot     int  // Выбор ячейки инвентаря; -1 означает «без изменений»
}

// Idle возвращает состояние без намерений.
func Idle() InputState {
	return InputState{Slot: -1}
}

// InputSource поставляет состояние ввода. Опрашивается движковой
// горутиной раз в тик, реализация не должна блокировать.
type InputSource interface {
	Poll() InputState
}

// CameraProvider поставляет углы камеры. Луч прицеливания движок строит
// сам из позиции аватара и направления взгляда.
type CameraProvider interface {
	// Look возвращает рыскание и тангаж в радианах.
	Look() (yaw, pitch float64)
}

// moveAxes переводит булевы намерения в оси движения.
func moveAxes(in InputState) (strafe, forward float64) {
	if in.Forward {
		forward++
	}
	if in.Backward {
		forward--
	}
	if in.Right {
		strafe++
	}
	if in.Left {
		strafe--
	}
	return strafe, forward
}
