package player

import (
	"github.com/annel0/voxel-sandbox/internal/world/block"
)

// SlotCount — количество ячеек инвентаря
const SlotCount = 9

// Slot представляет одну ячейку инвентаря
type Slot struct {
	Type  block.BlockID // Тип блока в ячейке
	Count int           // Количество; 0 означает пустую ячейку
}

// Empty сообщает, пуста ли ячейка
func (s Slot) Empty() bool {
	return s.Count == 0
}

// Inventory — панель из девяти ячеек с одной выбранной. Подбор
// предпочитает существующий стек того же типа, затем первую пустую
// ячейку; при полном инвентаре подбор отклоняется.
type Inventory struct {
	slots    [SlotCount]Slot
	selected int
}

// NewInventory создаёт пустой инвентарь с выбранной первой ячейкой
func NewInventory() *Inventory {
	return &Inventory{}
}

// Add кладёт один блок указанного типа. Возвращает false, если все
// ячейки заняты другими типами.
func (inv *Inventory) Add(id block.BlockID) bool {
	if id == block.AirBlockID {
		return false
	}

	// Сначала пополняем существующий стек
	for i := range inv.slots {
		if !inv.slots[i].Empty() && inv.slots[i].Type == id {
			inv.slots[i].Count++
			return true
		}
	}

	// Затем занимаем первую пустую ячейку
	for i := range inv.slots {
		if inv.slots[i].Empty() {
			inv.slots[i] = Slot{Type: id, Count: 1}
			return true
		}
	}

	return false
}

// RemoveSelected забирает один блок из выбранной ячейки. Возвращает тип
// забранного блока; false — если ячейка пуста.
func (inv *Inventory) RemoveSelected() (block.BlockID, bool) {
	s := &inv.slots[inv.selected]
	if s.Empty() {
		return block.AirBlockID, false
	}

	id := s.Type
	s.Count--
	if s.Count == 0 {
		s.Type = block.AirBlockID
	}
	return id, true
}

// SelectedType возвращает тип блока в выбранной ячейке; false — если
// ячейка пуста
func (inv *Inventory) SelectedType() (block.BlockID, bool) {
	s := inv.slots[inv.selected]
	if s.Empty() {
		return block.AirBlockID, false
	}
	return s.Type, true
}

// Select выбирает ячейку по индексу. Индекс вне [0, SlotCount)
// молча отклоняется.
func (inv *Inventory) Select(index int) bool {
	if index < 0 || index >= SlotCount {
		return false
	}
	inv.selected = index
	return true
}

// Selected возвращает индекс выбранной ячейки
func (inv *Inventory) Selected() int {
	return inv.selected
}

// Slot возвращает содержимое ячейки по индексу
func (inv *Inventory) Slot(index int) (Slot, bool) {
	if index < 0 || index >= SlotCount {
		return Slot{}, false
	}
	return inv.slots[index], true
}

// Slots возвращает копию всех ячеек для слоя представления
func (inv *Inventory) Slots() [SlotCount]Slot {
	return inv.slots
}

// Load восстанавливает содержимое ячеек из сохранённого состояния.
// Индекс выбранной ячейки вне диапазона заменяется нулевым.
func (inv *Inventory) Load(slots [SlotCount]Slot, selected int) {
	inv.slots = slots
	if selected < 0 || selected >= SlotCount {
		selected = 0
	}
	inv.selected = selected
}

// TotalOf возвращает суммарное количество блоков указанного типа
func (inv *Inventory) TotalOf(id block.BlockID) int {
	total := 0
	for _, s := range inv.slots {
		if !s.Empty() && s.Type == id {
			total += s.Count
		}
	}
	return total
}
