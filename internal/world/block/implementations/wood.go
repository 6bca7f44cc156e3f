package implementations

import (
	"github.com/annel0/voxel-sandbox/internal/world/block"
)

// WoodBehavior реализует поведение блока древесины (ствол дерева)
type WoodBehavior struct{}

// ID возвращает идентификатор блока
func (b *WoodBehavior) ID() block.BlockID {
	return block.WoodBlockID
}

// Name возвращает имя блока
func (b *WoodBehavior) Name() string {
	return "Wood"
}

// Solid возвращает true: древесина непроходима
func (b *WoodBehavior) Solid() bool {
	return true
}

// Drop возвращает тип, попадающий в инвентарь при разрушении
func (b *WoodBehavior) Drop() block.BlockID {
	return block.WoodBlockID
}

func init() {
	block.Register(block.WoodBlockID, &WoodBehavior{})
}
