package core

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeBool denotes boolean parameters.
	ParamTypeBool ParamType = "bool"
)

// Parameter describes a single tunable value exposed by a simulation.
type Parameter struct {
	Key         string
	Label       string
	Type        ParamType
	Value       string
	Description string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot captures the current set of tunables exposed by a sim.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// ParametersProvider exposes a live snapshot of a sim's tunables.
type ParametersProvider interface {
	Parameters() ParameterSnapshot
}

// FloatParameterSetter allows the HUD and the streamer to update floating
// point parameters between steps.
type FloatParameterSetter interface {
	SetFloatParameter(key string, value float64) bool
}

// BoolParameterSetter allows mode flags to be toggled between steps.
type BoolParameterSetter interface {
	SetBoolParameter(key string, value bool) bool
}
