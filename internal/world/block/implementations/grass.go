package implementations

import (
	"github.com/annel0/voxel-sandbox/internal/world/block"
)

// GrassBehavior реализует поведение блока травы — верхнего слоя рельефа
type GrassBehavior struct{}

// ID возвращает идентификатор блока
func (b *GrassBehavior) ID() block.BlockID {
	return block.GrassBlockID
}

// Name возвращает имя блока
func (b *GrassBehavior) Name() string {
	return "Grass"
}

// Solid возвращает true: трава непроходима
func (b *GrassBehavior) Solid() bool {
	return true
}

// Drop возвращает тип, попадающий в инвентарь при разрушении
func (b *GrassBehavior) Drop() block.BlockID {
	return block.GrassBlockID
}

func init() {
	block.Register(block.GrassBlockID, &GrassBehavior{})
}
