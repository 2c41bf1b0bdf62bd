package main

import (
	"context"
	"errors"

	"github.com/mastercactapus/pipetbot/machine"
)

// waitIdle blocks until the driver has nothing in flight and is not
// running, returning the reason a run halted, if any.
func waitIdle(ctx context.Context, m *machine.Machine) error {
	for {
		s := m.CurrentState()
		if s.Status == machine.Idle && !s.Running {
			if s.Err != "" {
				return errors.New(s.Err)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.State():
		}
	}
}
