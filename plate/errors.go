package plate

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration covers unknown orderings and unusable specs.
	ErrConfiguration = errors.New("plate configuration error")
	// ErrWellNotFound is returned when an identifier matches no well.
	ErrWellNotFound = errors.New("well not found")
	// ErrPlateNotFound is returned when a plate name matches no plate.
	ErrPlateNotFound = errors.New("plate not found")
)

// Error carries the failing plate and well along with a sentinel Kind.
type Error struct {
	Kind  error
	Plate string
	Well  string
	Msg   string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	s := e.Kind.Error()
	if e.Plate != "" {
		s += ": plate " + fmt.Sprintf("%q", e.Plate)
	}
	if e.Well != "" {
		s += ": well " + fmt.Sprintf("%q", e.Well)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

func (e *Error) Unwrap() error { return e.Kind }

func configErrorf(plate, format string, args ...any) error {
	return &Error{Kind: ErrConfiguration, Plate: plate, Msg: fmt.Sprintf(format, args...)}
}
