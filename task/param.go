package task

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/mastercactapus/pipetbot/coord"
)

var (
	// ErrParse is returned when numeric-looking input cannot be parsed.
	ErrParse = errors.New("parse error")
	// ErrUnbound is returned when rendering a parameter that is still a placeholder.
	ErrUnbound = errors.New("unbound variable")
)

var rxNumeric = regexp.MustCompile(`^[-+]?[0-9.][0-9.eE+\-]*$`)

// Param is a task parameter: either a literal value or the name of a
// variable to be substituted before execution.
type Param struct {
	Value    float64
	Variable string
}

// Literal returns a bound parameter.
func Literal(v float64) Param { return Param{Value: v} }

// Var returns a placeholder parameter.
func Var(name string) Param { return Param{Variable: name} }

// Bound reports whether the parameter holds a literal value.
func (p Param) Bound() bool { return p.Variable == "" }

// Float returns the literal value, or ErrUnbound.
func (p Param) Float() (float64, error) {
	if !p.Bound() {
		return 0, fmt.Errorf("%w: %s", ErrUnbound, p.Variable)
	}
	return p.Value, nil
}

func (p Param) String() string {
	if !p.Bound() {
		return p.Variable
	}
	return coord.FormatFloat(p.Value)
}

// Set updates the parameter from user input.
//
// Numeric input replaces the literal value. Anything else is recorded as a
// placeholder name and the literal value is left untouched. Input that looks
// numeric but does not parse, and blank input, is logged and leaves p
// unchanged.
func (p *Param) Set(input string) error {
	input = strings.TrimSpace(input)
	if rxNumeric.MatchString(input) {
		v, err := strconv.ParseFloat(input, 64)
		if err != nil {
			err = fmt.Errorf("%w: %q is not a number", ErrParse, input)
			log.Println("ERROR: set parameter:", err)
			return err
		}
		p.Value = v
		p.Variable = ""
		return nil
	}
	if input == "" {
		err := fmt.Errorf("%w: empty value", ErrParse)
		log.Println("ERROR: set parameter:", err)
		return err
	}
	p.Variable = input
	return nil
}
