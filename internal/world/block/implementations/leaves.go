package implementations

import (
	"github.com/annel0/voxel-sandbox/internal/world/block"
)

// LeavesBehavior реализует поведение блока листвы (крона дерева)
type LeavesBehavior struct{}

// ID возвращает идентификатор блока
func (b *LeavesBehavior) ID() block.BlockID {
	return block.LeavesBlockID
}

// Name возвращает имя блока
func (b *LeavesBehavior) Name() string {
	return "Leaves"
}

// Solid возвращает true: листва, как и остальные блоки, непроходима
func (b *LeavesBehavior) Solid() bool {
	return true
}

// Drop возвращает тип, попадающий в инвентарь при разрушении
func (b *LeavesBehavior) Drop() block.BlockID {
	return block.LeavesBlockID
}

func init() {
	block.Register(block.LeavesBlockID, &LeavesBehavior{})
}
