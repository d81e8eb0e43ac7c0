package dunes

import "strconv"

// Params holds the physical tunables of the dune transport model. Threshold
// angles are expressed as tangents; the defaults correspond to roughly 33
// degrees for loose sand, 68 degrees for bedrock and a 5 to 15 degree wind
// shadow ramp, as reported in the geomorphology literature.
type Params struct {
	WindX float64
	WindY float64

	SedimentMin float64
	SedimentMax float64

	// MatterToMove is the transport quantum, in meters of sand moved per
	// saltation event.
	MatterToMove float64

	TanSediment  float64
	TanBedrock   float64
	TanShadowMin float64
	TanShadowMax float64

	Vegetation bool
	Abrasion   bool

	// Workers caps the goroutines dispatching saltation events per step.
	// Zero selects runtime.NumCPU.
	Workers int
}

// Config controls the dune simulation dimensions and seeding.
type Config struct {
	Width  int
	Height int

	// Extent is the world-space span of the X axis in meters; the Y span
	// follows from the grid aspect ratio so cells stay square. Zero derives
	// it from Width, making cells exactly one meter.
	Extent float64

	Seed int64

	Params Params
}

// DefaultConfig returns the standard configuration: medium sand supply under
// a unimodal wind, which produces transverse dunes.
func DefaultConfig() Config {
	return Config{
		Width:  256,
		Height: 256,
		Seed:   1337,
		Params: Params{
			WindX:        0,
			WindY:        3,
			SedimentMin:  3,
			SedimentMax:  5,
			MatterToMove: 0.1,
			TanSediment:  0.60,
			TanBedrock:   2.5,
			TanShadowMin: 0.08,
			TanShadowMax: 0.26,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	return fromMapWith(DefaultConfig(), cfg)
}

func fromMapWith(c Config, cfg map[string]string) Config {
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 1 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 1 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["extent"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Extent = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["wind_x"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.WindX = parsed
		}
	}
	if v, ok := cfg["wind_y"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.WindY = parsed
		}
	}
	if v, ok := cfg["sediment_min"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.SedimentMin = parsed
		}
	}
	if v, ok := cfg["sediment_max"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.SedimentMax = parsed
		}
	}
	if c.Params.SedimentMax < c.Params.SedimentMin {
		c.Params.SedimentMax = c.Params.SedimentMin
	}
	if v, ok := cfg["matter"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.MatterToMove = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.Workers = parsed
		}
	}
	if v, ok := cfg["vegetation"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Params.Vegetation = parsed
		}
	}
	if v, ok := cfg["abrasion"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Params.Abrasion = parsed
		}
	}
	return c
}
