package arduino

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mastercactapus/pipetbot/coord"
	"github.com/mastercactapus/pipetbot/machine"
)

// Tokens are the literal lines the controller uses to report progress.
type Tokens struct {
	Done       string `mapstructure:"done" yaml:"done"`
	Calibrated string `mapstructure:"calibrated" yaml:"calibrated"`
}

// DefaultTokens returns the tokens sent by the stock firmware.
func DefaultTokens() Tokens {
	return Tokens{Done: "Done", Calibrated: "Finished Calibration"}
}

func parseCoords(data string) (p coord.Point, err error) {
	parts := strings.Split(data, ",")
	if len(parts) != 3 {
		return p, errors.New("invalid number of elements")
	}
	var vals [3]float64
	for i, s := range parts {
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return p, err
		}
	}
	return coord.Point{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// parseProbe reads a "PRB:x,y,z" line, optionally wrapped in brackets.
func parseProbe(data string) (coord.Point, bool, error) {
	data = strings.TrimPrefix(data, "[")
	data = strings.TrimSuffix(data, "]")
	if !strings.HasPrefix(data, "PRB:") {
		return coord.Point{}, false, nil
	}
	p, err := parseCoords(strings.TrimPrefix(data, "PRB:"))
	return p, true, err
}

// classify turns a received line into a driver event.
func (tok Tokens) classify(line string) machine.Event {
	line = strings.TrimSpace(line)
	switch line {
	case tok.Done:
		return machine.Event{Type: machine.EventDone, Line: line}
	case tok.Calibrated:
		return machine.Event{Type: machine.EventCalibrated, Line: line}
	}
	p, ok, err := parseProbe(line)
	if ok && err == nil {
		return machine.Event{Type: machine.EventProbe, Line: line, Probe: p}
	}
	return machine.Event{Type: machine.EventTelemetry, Line: line, Err: err}
}
