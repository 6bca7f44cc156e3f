package implementations

import (
	"github.com/annel0/voxel-sandbox/internal/world/block"
)

// AirBehavior реализует поведение пустого блока (воздуха)
type AirBehavior struct{}

// ID возвращает идентификатор блока
func (b *AirBehavior) ID() block.BlockID {
	return block.AirBlockID
}

// Name возвращает имя блока
func (b *AirBehavior) Name() string {
	return "Air"
}

// Solid возвращает false: воздух проходим и не перехватывает рейкаст
func (b *AirBehavior) Solid() bool {
	return false
}

// Drop возвращает AirBlockID: воздух нельзя разрушить
func (b *AirBehavior) Drop() block.BlockID {
	return block.AirBlockID
}

func init() {
	block.Register(block.AirBlockID, &AirBehavior{})
}
