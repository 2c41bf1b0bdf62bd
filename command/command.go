// Package command is the host side of the controller's wire format.
//
// Every instruction sent to the controller is a single `name(args)` token
// with comma separated arguments, e.g. `dispense(5)` or `move(10.5,20,0)`.
package command

import (
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformed is returned for text that does not have the `name(args)` shape.
var ErrMalformed = errors.New("malformed command")

var (
	rx    = regexp.MustCompile(`^(\w+)\(((?:[\w.\-]+(?:,[\w.\-]+)*)?)\)$`)
	rxArg = regexp.MustCompile(`^[\w.\-]+$`)
	rxNam = regexp.MustCompile(`^\w+$`)
)

// Command is a single controller instruction.
type Command struct {
	Name string
	Args []string
}

// New creates a Command with numeric arguments.
func New(name string, args ...float64) Command {
	c := Command{Name: name}
	if len(args) > 0 {
		c.Args = make([]string, len(args))
		for i, a := range args {
			c.Args[i] = FormatArg(a)
		}
	}
	return c
}

// FormatArg renders f for the wire, rounded to 9 decimal places.
func FormatArg(f float64) string {
	r := math.Round(f*1e9) / 1e9
	if r == 0 && f != 0 {
		log.Printf("WARNING: argument %g rounds to 0", f)
	}
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func (c Command) String() string {
	return c.Name + "(" + strings.Join(c.Args, ",") + ")"
}

// Validate checks that the rendered command would be accepted by Check.
func (c Command) Validate() error {
	if !rxNam.MatchString(c.Name) {
		return fmt.Errorf("%w: invalid name %q", ErrMalformed, c.Name)
	}
	for _, a := range c.Args {
		if !rxArg.MatchString(a) {
			return fmt.Errorf("%w: invalid argument %q in %s", ErrMalformed, a, c.Name)
		}
	}
	return nil
}

// Check reports whether s has the shape `name(arguments)`.
func Check(s string) bool { return rx.MatchString(s) }

// Validate returns ErrMalformed (wrapped) if s fails Check.
func Validate(s string) error {
	if !Check(s) {
		return fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return nil
}

// Parse reads a single command. Surrounding whitespace is ignored.
func Parse(s string) (Command, error) {
	s = strings.TrimSpace(s)
	m := rx.FindStringSubmatch(s)
	if m == nil {
		return Command{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	c := Command{Name: m[1]}
	if m[2] != "" {
		c.Args = strings.Split(m[2], ",")
	}
	return c, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Command {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}
