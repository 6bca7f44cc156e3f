package block

var registry = make(map[BlockID]BlockBehavior)

// Register добавляет поведение блока в регистр
func Register(id BlockID, behavior BlockBehavior) {
	registry[id] = behavior
}

// Get возвращает поведение для указанного ID
func Get(id BlockID) (BlockBehavior, bool) {
	behavior, exists := registry[id]
	return behavior, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, exists := registry[id]
	return exists
}

// IsSolid сообщает, участвует ли блок с данным ID в коллизиях и рейкастах.
// Неизвестные ID считаются непроходимыми.
func IsSolid(id BlockID) bool {
	if behavior, exists := registry[id]; exists {
		return behavior.Solid()
	}
	return true
}

// Name возвращает отображаемое имя блока или "unknown"
func Name(id BlockID) string {
	if behavior, exists := registry[id]; exists {
		return behavior.Name()
	}
	return "unknown"
}

// DropOf возвращает тип, выпадающий при разрушении блока. Неизвестные
// ID выпадают сами собой.
func DropOf(id BlockID) BlockID {
	if behavior, exists := registry[id]; exists {
		return behavior.Drop()
	}
	return id
}

// BlockID представляет идентификатор блока
type BlockID uint16

// Константы ID блоков. Набор закрытый: песочница оперирует только
// перечисленными типами, AirBlockID означает отсутствие блока.
const (
	AirBlockID    BlockID = iota // 0
	StoneBlockID                 // 1
	GrassBlockID                 // 2
	DirtBlockID                  // 3
	WoodBlockID                  // 4
	LeavesBlockID                // 5
)
