package dunes

import (
	"fmt"

	"dunesim/internal/core"
	"dunesim/internal/gen"
)

// Scenario names reproducing the dune morphologies from the reference paper.
const (
	ScenarioTransverse = "transverse"
	ScenarioBarchan    = "barchan"
	ScenarioYardang    = "yardang"
	ScenarioNabkha     = "nabkha"
)

// ScenarioNames lists the built-in scenario presets.
func ScenarioNames() []string {
	return []string{ScenarioTransverse, ScenarioBarchan, ScenarioYardang, ScenarioNabkha}
}

// ScenarioConfig returns the preset configuration for a named scenario.
// Transverse dunes form under unimodal wind with medium to high sand supply;
// barchans need the same wind but less sand; yardangs require abrasion over
// a weak-rock mask; nabkha grow where vegetation traps sand.
func ScenarioConfig(name string) (Config, bool) {
	c := DefaultConfig()
	switch name {
	case ScenarioTransverse:
		// The defaults.
	case ScenarioBarchan:
		c.Params.SedimentMin = 0.5
		c.Params.SedimentMax = 2
		c.Params.WindX = 0
		c.Params.WindY = 5
	case ScenarioYardang:
		c.Params.SedimentMin = 0.5
		c.Params.SedimentMax = 0.5
		c.Params.WindX = 6
		c.Params.WindY = 0
		c.Params.Abrasion = true
	case ScenarioNabkha:
		c.Params.SedimentMin = 2
		c.Params.SedimentMax = 5
		c.Params.WindX = 3
		c.Params.WindY = 0
		c.Params.Vegetation = true
	default:
		return Config{}, false
	}
	return c, true
}

// NewScenario builds a world from a scenario preset, with optional key/value
// overrides, and injects the masks the scenario depends on.
func NewScenario(name string, overrides map[string]string) (*World, error) {
	cfg, ok := ScenarioConfig(name)
	if !ok {
		return nil, fmt.Errorf("dunes: unknown scenario %q", name)
	}
	cfg = fromMapWith(cfg, overrides)

	w, err := NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}

	switch name {
	case ScenarioYardang:
		hardness, err := gen.PerlinHardness{Seed: cfg.Seed}.Generate(cfg.Width, cfg.Height, w.Bounds())
		if err != nil {
			return nil, err
		}
		if err := w.SetHardnessData(hardness); err != nil {
			return nil, err
		}
	case ScenarioNabkha:
		veg, err := gen.SimplexVegetation{Seed: cfg.Seed}.Generate(cfg.Width, cfg.Height, w.Bounds())
		if err != nil {
			return nil, err
		}
		if err := w.SetVegetationData(veg); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func init() {
	core.Register("dunes", func(cfg map[string]string) core.Sim {
		w, err := NewWithConfig(FromMap(cfg))
		if err != nil {
			// FromMap only admits valid values on top of a valid default.
			panic(err)
		}
		return w
	})
	for _, name := range ScenarioNames() {
		scenario := name
		core.Register(scenario, func(cfg map[string]string) core.Sim {
			w, err := NewScenario(scenario, cfg)
			if err != nil {
				panic(err)
			}
			return w
		})
	}
}
