package dunes

import (
	"strconv"

	"dunesim/internal/core"
)

// Parameters reports the current tunables for the HUD and the streamer.
func (w *World) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{
		Groups: []core.ParameterGroup{
			{
				Name: "Wind",
				Params: []core.Parameter{
					{Key: "wind_x", Label: "Wind X", Type: core.ParamTypeFloat, Value: formatFloat(w.wind.X())},
					{Key: "wind_y", Label: "Wind Y", Type: core.ParamTypeFloat, Value: formatFloat(w.wind.Y())},
				},
			},
			{
				Name: "Transport",
				Params: []core.Parameter{
					{Key: "matter", Label: "Quantum", Type: core.ParamTypeFloat, Value: formatFloat(w.matterToMove)},
					{Key: "tan_sediment", Label: "Sand repose", Type: core.ParamTypeFloat, Value: formatFloat(w.tanSediment)},
					{Key: "tan_bedrock", Label: "Rock repose", Type: core.ParamTypeFloat, Value: formatFloat(w.tanBedrock)},
				},
			},
			{
				Name: "Modes",
				Params: []core.Parameter{
					{Key: "vegetation", Label: "Vegetation", Type: core.ParamTypeBool, Value: strconv.FormatBool(w.vegetationOn)},
					{Key: "abrasion", Label: "Abrasion", Type: core.ParamTypeBool, Value: strconv.FormatBool(w.abrasionOn)},
				},
			},
		},
	}
}

// SetFloatParameter updates a wind component or the transport quantum. Must
// be called between macro-steps, never during one.
func (w *World) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "wind_x":
		w.wind[0] = float32(value)
	case "wind_y":
		w.wind[1] = float32(value)
	case "matter":
		if value <= 0 {
			return false
		}
		w.matterToMove = float32(value)
	default:
		return false
	}
	return true
}

// SetBoolParameter toggles a simulation mode between macro-steps.
func (w *World) SetBoolParameter(key string, value bool) bool {
	switch key {
	case "vegetation":
		w.vegetationOn = value
	case "abrasion":
		w.abrasionOn = value
	default:
		return false
	}
	return true
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', 4, 32)
}
