package block

// BlockBehavior определяет свойства типа блока
type BlockBehavior interface {
	ID() BlockID
	Name() string
	// Solid сообщает, занимает ли блок объём: такие блоки участвуют в
	// коллизиях и перехватывают рейкаст
	Solid() bool
	// Drop возвращает тип, попадающий в инвентарь при разрушении блока
	Drop() BlockID
}
