package machine

import "github.com/mastercactapus/pipetbot/coord"

// A Link is the minimal controller connection the driver needs.
//
// Send must reject malformed commands and writes on a closed connection
// without writing anything. Events must stay open for the life of the
// Link; disconnects are reported as EventClosed.
type Link interface {
	Send(cmd string) error
	Events() <-chan Event
}

// A Calibrator is told when the controller finishes calibrating, along with
// any probe points it reported.
type Calibrator interface {
	Calibrate(probes []coord.Point) error
}
