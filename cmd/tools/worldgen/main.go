package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/annel0/voxel-sandbox/internal/storage"
	"github.com/annel0/voxel-sandbox/internal/vec"
	"github.com/annel0/voxel-sandbox/internal/world"
	"github.com/annel0/voxel-sandbox/internal/world/block"
)

func main() {
	var (
		command = flag.String("cmd", "generate", "Command: generate, inspect, export, import")
		seed    = flag.Int64("seed", 0, "World seed (0 = random)")
		size    = flag.Int("size", 64, "World side length (even)")
		height  = flag.Int("height", 32, "Maximum terrain elevation")
		trees   = flag.Float64("trees", 0.02, "Tree probability per column [0,1]")
		dataDir = flag.String("data", "", "BadgerDB data directory")
		inPath  = flag.String("in", "", "Snapshot input file")
		outPath = flag.String("out", "", "Snapshot output file")
	)
	flag.Parse()

	switch *command {
	case "generate":
		if err := generateWorld(&GenerateOptions{
			Seed:    *seed,
			Size:    *size,
			Height:  *height,
			Trees:   *trees,
			DataDir: *dataDir,
			OutPath: *outPath,
		}); err != nil {
			log.Fatalf("❌ Generate failed: %v", err)
		}

	case "inspect":
		if err := inspectWorld(*inPath, *dataDir); err != nil {
			log.Fatalf("❌ Inspect failed: %v", err)
		}

	case "export":
		if err := exportWorld(*dataDir, *outPath); err != nil {
			log.Fatalf("❌ Export failed: %v", err)
		}

	case "import":
		if err := importWorld(*inPath, *dataDir); err != nil {
			log.Fatalf("❌ Import failed: %v", err)
		}

	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: generate, inspect, export, import")
		os.Exit(1)
	}
}

type GenerateOptions struct {
	Seed    int64
	Size    int
	Height  int
	Trees   float64
	DataDir string
	OutPath string
}

// generateWorld генерирует мир и пишет его в снапшот и/или хранилище
func generateWorld(opts *GenerateOptions) error {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
		fmt.Printf("🎲 Random seed: %d\n", opts.Seed)
	}

	gen := world.NewGenerator(opts.Seed, opts.Size, opts.Height, opts.Trees)
	w := world.NewWorld(opts.Seed)

	started := time.Now()
	stats := gen.Generate(w)
	elapsed := time.Since(started)
	w.EnableJournal()

	fmt.Printf("🌍 Generated world %s\n", w.ID())
	fmt.Printf("  Seed:    %d\n", opts.Seed)
	fmt.Printf("  Area:    %dx%d columns\n", opts.Size, opts.Size)
	fmt.Printf("  Columns: %d\n", stats.Columns)
	fmt.Printf("  Blocks:  %d\n", stats.Blocks)
	fmt.Printf("  Trees:   %d\n", stats.Trees)
	fmt.Printf("  Took:    %v\n", elapsed)

	printBlockHistogram(w.Blocks())

	if opts.OutPath != "" {
		snap := storage.BuildSnapshot(w, gen)
		if err := storage.WriteSnapshot(opts.OutPath, snap); err != nil {
			return fmt.Errorf("snapshot write: %w", err)
		}
		fmt.Printf("📦 Snapshot written to %s\n", opts.OutPath)
	}

	if opts.DataDir != "" {
		store, err := storage.NewWorldStorage(opts.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveWorld(w, gen, 0); err != nil {
			return fmt.Errorf("storage save: %w", err)
		}
		fmt.Printf("💾 World saved to %s\n", opts.DataDir)
	}

	return nil
}

// inspectWorld выводит сводку по снапшоту или по сохранению в BadgerDB
func inspectWorld(inPath, dataDir string) error {
	switch {
	case inPath != "":
		header, err := storage.ReadSnapshotHeader(inPath)
		if err != nil {
			return err
		}
		fmt.Printf("📦 Snapshot %s\n", inPath)
		fmt.Printf("  Version:  %d\n", header.Version)
		fmt.Printf("  World ID: %s\n", header.WorldID)
		fmt.Printf("  Saved:    %s\n", header.SavedAt.Format(time.RFC3339))

		snap, err := storage.ReadSnapshot(inPath)
		if err != nil {
			return err
		}
		fmt.Printf("  Seed:     %d\n", snap.Seed)
		fmt.Printf("  Area:     %dx%d, height %d, trees %.2f%%\n",
			snap.Size, snap.Size, snap.MaxHeight, snap.TreeProbability*100)
		fmt.Printf("  Blocks:   %d\n", len(snap.Blocks))
		printBlockHistogram(snap.Blocks)
		return nil

	case dataDir != "":
		store, err := storage.NewWorldStorage(dataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		meta, err := store.LoadMeta()
		if err != nil {
			return err
		}
		if meta == nil {
			return fmt.Errorf("no saved world in %s", dataDir)
		}

		deltas, err := store.LoadDeltas()
		if err != nil {
			return err
		}

		fmt.Printf("💾 Saved world in %s\n", dataDir)
		fmt.Printf("  World ID: %s\n", meta.ID)
		fmt.Printf("  Seed:     %d\n", meta.Seed)
		fmt.Printf("  Area:     %dx%d, height %d, trees %.2f%%\n",
			meta.Size, meta.Size, meta.MaxHeight, meta.TreeProbability*100)
		fmt.Printf("  Tick:     %d\n", meta.Tick)
		fmt.Printf("  Saved:    %s\n", meta.SavedAt.Format(time.RFC3339))
		fmt.Printf("  Deltas:   %d\n", len(deltas))

		placed, removed := 0, 0
		for _, ch := range deltas {
			if ch.Removed {
				removed++
			} else {
				placed++
			}
		}
		fmt.Printf("    placed:  %d\n", placed)
		fmt.Printf("    removed: %d\n", removed)
		return nil

	default:
		return fmt.Errorf("either -in or -data is required")
	}
}

// exportWorld восстанавливает мир из BadgerDB и пишет полный снапшот
func exportWorld(dataDir, outPath string) error {
	if dataDir == "" || outPath == "" {
		return fmt.Errorf("both -data and -out are required")
	}

	store, err := storage.NewWorldStorage(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	meta, err := store.LoadMeta()
	if err != nil {
		return err
	}
	if meta == nil {
		return fmt.Errorf("no saved world in %s", dataDir)
	}

	w, gen, err := store.RestoreWorld(meta)
	if err != nil {
		return err
	}

	snap := storage.BuildSnapshot(w, gen)
	if err := storage.WriteSnapshot(outPath, snap); err != nil {
		return err
	}

	fmt.Printf("📦 Exported world %s (%d blocks, tick %d) to %s\n",
		meta.ID, len(snap.Blocks), meta.Tick, outPath)
	return nil
}

// importWorld читает снапшот и сохраняет его в BadgerDB как мета+дельты.
// База регенерируется по сиду, отличия снапшота от неё ложатся в журнал.
func importWorld(inPath, dataDir string) error {
	if inPath == "" || dataDir == "" {
		return fmt.Errorf("both -in and -data are required")
	}

	snap, err := storage.ReadSnapshot(inPath)
	if err != nil {
		return err
	}

	gen := world.NewGenerator(snap.Seed, snap.Size, snap.MaxHeight, snap.TreeProbability)
	w := storage.WorldFromSnapshot(snap)

	// Журнал = отличия снапшота от базовой генерации того же сида
	base := world.NewWorld(snap.Seed)
	gen.Generate(base)
	base.EnableJournal()

	for pos, id := range snap.Blocks {
		if cur, ok := base.GetBlock(pos); !ok || cur != id {
			base.SetBlock(pos, id)
		}
	}
	for pos := range base.Blocks() {
		if _, ok := snap.Blocks[pos]; !ok {
			base.RemoveBlock(pos)
		}
	}
	base.SetID(w.ID())

	store, err := storage.NewWorldStorage(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveWorld(base, gen, 0); err != nil {
		return err
	}

	fmt.Printf("💾 Imported world %s to %s (%d blocks, %d deltas)\n",
		w.ID(), dataDir, len(snap.Blocks), base.ChangeCount())
	return nil
}

// printBlockHistogram выводит блоки по типам в порядке убывания
func printBlockHistogram(blocks map[vec.Vec3]block.BlockID) {
	counts := make(map[block.BlockID]int)
	minY, maxY := 0, 0
	first := true
	for pos, id := range blocks {
		counts[id]++
		if first || pos.Y < minY {
			minY = pos.Y
		}
		if first || pos.Y > maxY {
			maxY = pos.Y
		}
		first = false
	}

	ids := make([]block.BlockID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return counts[ids[i]] > counts[ids[j]] })

	fmt.Println("  By type:")
	for _, id := range ids {
		fmt.Printf("    %-7s %d\n", block.Name(id), counts[id])
	}
	if !first {
		fmt.Printf("  Elevation: Y %d..%d\n", minY, maxY)
	}
}
