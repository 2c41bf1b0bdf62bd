package config

import (
	"fmt"
	"strings"

	"github.com/mastercactapus/pipetbot/plate"
)

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is every problem found in a Config.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Validate checks c and returns all validation errors found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, c.validateSerial()...)
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateDeck()...)
	errs = append(errs, c.validatePlates()...)
	return errs
}

func (c *Config) validateSerial() []ValidationError {
	var errs []ValidationError
	s := c.Serial
	if s.Baud <= 0 {
		errs = append(errs, ValidationError{"serial.baud", s.Baud, "must be positive"})
	}
	if s.ConnectTimeoutMs <= 0 {
		errs = append(errs, ValidationError{"serial.connect_timeout_ms", s.ConnectTimeoutMs, "must be positive"})
	}
	if s.AckTimeoutMs < 0 {
		errs = append(errs, ValidationError{"serial.ack_timeout_ms", s.AckTimeoutMs, "must not be negative"})
	}
	if strings.TrimSpace(s.DoneToken) == "" {
		errs = append(errs, ValidationError{"serial.done_token", s.DoneToken, "must not be empty"})
	}
	if strings.TrimSpace(s.CalibratedToken) == "" {
		errs = append(errs, ValidationError{"serial.calibrated_token", s.CalibratedToken, "must not be empty"})
	}
	if s.DoneToken == s.CalibratedToken {
		errs = append(errs, ValidationError{"serial.calibrated_token", s.CalibratedToken, "must differ from done_token"})
	}
	return errs
}

func (c *Config) validateServer() []ValidationError {
	if c.Server.Addr == "" {
		return []ValidationError{{"server.addr", c.Server.Addr, "must not be empty"}}
	}
	return nil
}

func (c *Config) validateDeck() []ValidationError {
	var errs []ValidationError
	d := c.Deck
	if d.Width <= 0 {
		errs = append(errs, ValidationError{"deck.width", d.Width, "must be positive"})
	}
	if d.Depth <= 0 {
		errs = append(errs, ValidationError{"deck.depth", d.Depth, "must be positive"})
	}
	if d.Height < 0 {
		errs = append(errs, ValidationError{"deck.height", d.Height, "must not be negative"})
	}
	return errs
}

func (c *Config) validatePlates() []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for i, p := range c.Plates {
		field := fmt.Sprintf("plates[%d]", i)
		if p.Name == "" {
			errs = append(errs, ValidationError{field + ".name", p.Name, "must not be empty"})
		} else if seen[p.Name] {
			errs = append(errs, ValidationError{field + ".name", p.Name, "duplicate plate name"})
		}
		seen[p.Name] = true
		if _, err := plate.ParseOrdering(p.Ordering); err != nil {
			errs = append(errs, ValidationError{field + ".ordering", p.Ordering, err.Error()})
		}
		if err := p.Specs.Validate(); err != nil {
			errs = append(errs, ValidationError{field + ".specs", p.Specs, err.Error()})
		}
	}
	return errs
}

// AddPlates places every configured plate in r.
func (c *Config) AddPlates(r *plate.Registry) error {
	for _, p := range c.Plates {
		o, err := plate.ParseOrdering(p.Ordering)
		if err != nil {
			return err
		}
		_, err = r.AddPlate(p.Name, o, p.Corner, p.Specs)
		if err != nil {
			return err
		}
	}
	return nil
}
