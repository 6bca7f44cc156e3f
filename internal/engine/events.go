package engine

import (
	"github.com/annel0/voxel-sandbox/internal/world/block"
)

// Типы событий, публикуемых движком в шину.
const (
	EventWorldGenerated = "world.generated"
	EventWorldSaved     = "world.saved"
	EventBlockPlaced    = "block.placed"
	EventBlockBroken    = "block.broken"
	EventPlayerSpawned  = "player.spawned"
	EventPlayerMoved    = "player.moved"
)

// Приоритеты событий: позиционные обновления при заполненном буфере
// отбрасываются первыми.
const (
	priorityMove  = 1
	priorityBlock = 5
	prioritySave  = 7
)

// WorldGeneratedEvent — полезная нагрузка world.generated.
type WorldGeneratedEvent struct {
	WorldID    string `json:"world_id"`
	Seed       int64  `json:"seed"`
	Columns    int    `json:"columns"`
	Blocks     int    `json:"blocks"`
	Trees      int    `json:"trees"`
	DurationMs int64  `json:"duration_ms"`
}

// WorldSavedEvent — полезная нагрузка world.saved.
type WorldSavedEvent struct {
	WorldID string `json:"world_id"`
	Deltas  int    `json:"deltas"`
	Tick    uint64 `json:"tick"`
}

// BlockEvent — полезная нагрузка block.placed и block.broken.
type BlockEvent struct {
	Pos  [3]int        `json:"pos"`
	ID   block.BlockID `json:"id"`
	Tick uint64        `json:"tick"`
}

// PlayerSpawnedEvent — полезная нагрузка player.spawned.
type PlayerSpawnedEvent struct {
	PlayerID string     `json:"player_id"`
	Pos      [3]float64 `json:"pos"`
}

// PlayerMovedEvent — полезная нагрузка player.moved.
type PlayerMovedEvent struct {
	PlayerID string     `json:"player_id"`
	Pos      [3]float64 `json:"pos"`
	Grounded bool       `json:"grounded"`
	Tick     uint64     `json:"tick"`
}
