//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"strconv"

	"dunesim/internal/app"
	"dunesim/internal/core"
	_ "dunesim/internal/sims/dunes"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	scenario := flag.String("scenario", "transverse", "registered simulation to run")
	scale := flag.Int("scale", 2, "pixels per cell")
	size := flag.Int("size", 256, "grid resolution (cells per side)")
	seed := flag.Int64("seed", 1337, "simulation seed")
	tps := flag.Int("tps", 10, "macro-steps per second")
	flag.Parse()

	factory, ok := core.Sims()[*scenario]
	if !ok {
		log.Fatalf("unknown scenario %q", *scenario)
	}

	sim := factory(map[string]string{
		"w":    strconv.Itoa(*size),
		"h":    strconv.Itoa(*size),
		"seed": strconv.FormatInt(*seed, 10),
	})

	game := app.New(sim, *scale, *seed)
	gridSize := sim.Size()

	ebiten.SetWindowTitle("dunesim — " + sim.Name())
	ebiten.SetTPS(*tps)
	ebiten.SetWindowSize(gridSize.W**scale+200, gridSize.H**scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
