package machine

import "github.com/mastercactapus/pipetbot/coord"

// EventType classifies a line received from the controller.
type EventType int

const (
	// EventTelemetry is any informational line.
	EventTelemetry EventType = iota
	// EventDone is the completion token: the controller is ready for the next command.
	EventDone
	// EventCalibrated is the calibration-finished token.
	EventCalibrated
	// EventProbe carries a deck height measured during calibration.
	EventProbe
	// EventClosed means the connection went away.
	EventClosed
)

func (t EventType) String() string {
	switch t {
	case EventTelemetry:
		return "telemetry"
	case EventDone:
		return "done"
	case EventCalibrated:
		return "calibrated"
	case EventProbe:
		return "probe"
	case EventClosed:
		return "closed"
	}
	return "unknown"
}

// Event is a classified message from the controller.
type Event struct {
	Type  EventType
	Line  string
	Probe coord.Point
	Err   error
}
