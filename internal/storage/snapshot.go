package storage

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/annel0/voxel-sandbox/internal/vec"
	"github.com/annel0/voxel-sandbox/internal/world"
	"github.com/annel0/voxel-sandbox/internal/world/block"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

const snapshotVersion = 1

// SnapshotHeader — первая строка файла снапшота в JSON. Позволяет
// определить версию и мир без декодирования тела.
type SnapshotHeader struct {
	Version int       `json:"version"`
	WorldID string    `json:"world_id"`
	SavedAt time.Time `json:"saved_at"`
}

// WorldSnapshot — полный срез мира для экспорта и переноса. В отличие
// от дельт в BadgerDB содержит каждый блок, поэтому не зависит от
// версии генератора.
type WorldSnapshot struct {
	Header SnapshotHeader

	Seed            int64
	Size            int
	MaxHeight       int
	TreeProbability float64

	Blocks map[vec.Vec3]block.BlockID
}

// BuildSnapshot собирает снапшот из текущего состояния мира.
func BuildSnapshot(w *world.World, gen *world.Generator) WorldSnapshot {
	return WorldSnapshot{
		Header: SnapshotHeader{
			Version: snapshotVersion,
			WorldID: w.ID().String(),
			SavedAt: time.Now().UTC(),
		},
		Seed:            gen.Seed,
		Size:            gen.Size,
		MaxHeight:       gen.MaxHeight,
		TreeProbability: gen.TreeProbability,
		Blocks:          w.Blocks(),
	}
}

// WorldFromSnapshot восстанавливает мир из полного снапшота. Блоки
// записываются как новая база, журнал не включается.
func WorldFromSnapshot(snap WorldSnapshot) *world.World {
	w := world.NewWorld(snap.Seed)
	if id, err := uuid.Parse(snap.Header.WorldID); err == nil {
		w.SetID(id)
	}
	for pos, id := range snap.Blocks {
		w.SetBlock(pos, id)
	}
	return w
}

// WriteSnapshot записывает снапшот в файл: строка JSON-заголовка, затем
// gob-тело, всё поверх zstd.
func WriteSnapshot(path string, snap WorldSnapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, err := json.Marshal(snap.Header)
	if err != nil {
		return fmt.Errorf("ошибка сериализации заголовка: %w", err)
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("ошибка кодирования gob: %w", err)
	}
	return nil
}

// ReadSnapshot читает снапшот из файла.
func ReadSnapshot(path string) (WorldSnapshot, error) {
	var snap WorldSnapshot
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Заголовок дублируется в gob-теле, строку можно пропустить
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("ошибка чтения заголовка: %w", err)
	}

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("ошибка декодирования gob: %w", err)
	}
	return snap, nil
}

// ReadSnapshotHeader читает только строку заголовка, без тела.
func ReadSnapshotHeader(path string) (SnapshotHeader, error) {
	var header SnapshotHeader
	f, err := os.Open(path)
	if err != nil {
		return header, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return header, err
	}
	defer dec.Close()

	line, err := bufio.NewReaderSize(dec, 64*1024).ReadBytes('\n')
	if err != nil {
		return header, fmt.Errorf("ошибка чтения заголовка: %w", err)
	}
	if err := json.Unmarshal(line, &header); err != nil {
		return header, fmt.Errorf("ошибка десериализации заголовка: %w", err)
	}
	return header, nil
}
