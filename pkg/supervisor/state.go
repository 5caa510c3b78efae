package supervisor

// State is the observed lifecycle state of the supervised instance, derived
// from the PID file and a pid liveness probe.
type State string

const (
	// StateStopped means no PID file is present: no instance is tracked
	StateStopped State = "stopped"

	// StateRunning means the PID file's process is verifiably alive
	StateRunning State = "running"

	// StateUnknown means a PID file is present but its process is not
	// alive: crash-recovery state. Left for stop/start to reconcile.
	StateUnknown State = "unknown"
)

func (s State) String() string {
	return string(s)
}
