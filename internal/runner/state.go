package runner

// State is a phase of a benchmark run. A Runner only ever moves forward
// through the states in declaration order, although it may skip some.
type State int32

const (
	StateConfiguring State = iota
	StateInstantiating
	StateWarmup
	StateMeasuring
	StateAggregating
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "Configuring"
	case StateInstantiating:
		return "Instantiating"
	case StateWarmup:
		return "Warmup"
	case StateMeasuring:
		return "Measuring"
	case StateAggregating:
		return "Aggregating"
	case StateTornDown:
		return "TornDown"
	default:
		return "Unknown"
	}
}
