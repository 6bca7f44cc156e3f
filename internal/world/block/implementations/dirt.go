package implementations

import (
	"github.com/annel0/voxel-sandbox/internal/world/block"
)

// DirtBehavior реализует поведение блока земли
type DirtBehavior struct{}

// ID возвращает идентификатор блока
func (b *DirtBehavior) ID() block.BlockID {
	return block.DirtBlockID
}

// Name возвращает имя блока
func (b *DirtBehavior) Name() string {
	return "Dirt"
}

// Solid возвращает true: земля непроходима
func (b *DirtBehavior) Solid() bool {
	return true
}

// Drop возвращает тип, попадающий в инвентарь при разрушении
func (b *DirtBehavior) Drop() block.BlockID {
	return block.DirtBlockID
}

func init() {
	block.Register(block.DirtBlockID, &DirtBehavior{})
}
