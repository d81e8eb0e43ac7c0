package main

import (
	"flag"
	"log"
	"strconv"

	"dunesim/internal/sims/dunes"
	"dunesim/internal/stream"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	scenario := flag.String("scenario", "transverse", "scenario preset to stream")
	size := flag.Int("size", 256, "grid resolution (cells per side)")
	seed := flag.Int64("seed", 1337, "simulation seed")
	tps := flag.Int("tps", 5, "macro-steps per second")
	flag.Parse()

	world, err := dunes.NewScenario(*scenario, map[string]string{
		"w":    strconv.Itoa(*size),
		"h":    strconv.Itoa(*size),
		"seed": strconv.FormatInt(*seed, 10),
	})
	if err != nil {
		log.Fatalf("build scenario %q: %v", *scenario, err)
	}

	srv := stream.New(world, *addr, *tps)
	log.Printf("streaming %s on ws://%s/ws", *scenario, *addr)
	log.Fatal(srv.ListenAndServe())
}
