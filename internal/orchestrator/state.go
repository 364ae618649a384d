package orchestrator

// State is the lifecycle phase of the Orchestrator.
//
//	Starting -> Running <-> Restarting -> ShuttingDown -> Stopped
type State int32

const (
	Starting State = iota
	Running
	Restarting
	ShuttingDown
	Stopped
)

func (s State) String() string {
	switch s {
	case Starting:
		return "STARTING"
	case Running:
		return "RUNNING"
	case Restarting:
		return "RESTARTING"
	case ShuttingDown:
		return "SHUTTING_DOWN"
	case Stopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}
