package machine

// Status is the driver's handshake state.
type Status string

const (
	// Idle means no command is in flight.
	Idle Status = "Idle"
	// AwaitingAck means a command was written and its acknowledgement is pending.
	AwaitingAck Status = "AwaitingAck"
)

// State is a snapshot of the driver.
type State struct {
	Status  Status
	Running bool
	RunID   string

	// InFlight is the command awaiting acknowledgement, if any.
	InFlight string
	// Current is the task the in-flight command belongs to.
	Current string
	// Pending lists queued tasks not yet started.
	Pending []string

	Sent  int
	Acked int

	// Err is the reason the last run halted.
	Err string
}
