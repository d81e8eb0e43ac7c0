package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"dunesim/internal/export"
	"dunesim/internal/sims/dunes"
)

// defaultSteps holds the per-scenario step counts from the reference runs.
var defaultSteps = map[string]int{
	dunes.ScenarioTransverse: 300,
	dunes.ScenarioBarchan:    300,
	dunes.ScenarioYardang:    600,
	dunes.ScenarioNabkha:     300,
}

func main() {
	scenario := flag.String("scenario", "all", "scenario to run ("+strings.Join(dunes.ScenarioNames(), ", ")+" or all)")
	steps := flag.Int("steps", 0, "macro-steps to simulate (0 uses the scenario default)")
	size := flag.Int("size", 256, "grid resolution (cells per side)")
	seed := flag.Int64("seed", 1337, "seed for deterministic sediment seeding")
	workers := flag.Int("workers", 0, "worker goroutines per step (0 = NumCPU)")
	outDir := flag.String("out", ".", "output directory for exports")
	snapshot := flag.Int("snapshot", 100, "export a heightfield every N steps (0 disables)")
	writeObj := flag.Bool("obj", false, "also export the final terrain as an OBJ mesh")
	flag.Parse()

	names := dunes.ScenarioNames()
	if *scenario != "all" {
		names = []string{*scenario}
	}

	for _, name := range names {
		if err := runScenario(name, *steps, *size, *seed, *workers, *outDir, *snapshot, *writeObj); err != nil {
			log.Fatalf("%s: %v", name, err)
		}
	}
}

func runScenario(name string, steps, size int, seed int64, workers int, outDir string, snapshot int, writeObj bool) error {
	overrides := map[string]string{
		"w":       strconv.Itoa(size),
		"h":       strconv.Itoa(size),
		"seed":    strconv.FormatInt(seed, 10),
		"workers": strconv.Itoa(workers),
	}
	world, err := dunes.NewScenario(name, overrides)
	if err != nil {
		return err
	}
	if steps <= 0 {
		steps = defaultSteps[name]
	}

	fmt.Printf("%s: %dx%d grid, %d steps\n", name, size, size, steps)

	if err := export.JPG(snapshotPath(outDir, name, 0), world); err != nil {
		return err
	}
	for i := 1; i <= steps; i++ {
		world.Step()
		if snapshot > 0 && i%snapshot == 0 {
			if err := export.JPG(snapshotPath(outDir, name, i), world); err != nil {
				return err
			}
			fmt.Printf("\r%s: %d/%d steps", name, i, steps)
		}
	}
	fmt.Println()

	if writeObj {
		if err := export.OBJ(filepath.Join(outDir, name+".obj"), world); err != nil {
			return err
		}
	}
	return nil
}

func snapshotPath(dir, name string, step int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d.jpg", name, step))
}
