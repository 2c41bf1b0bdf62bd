package command

import "io"

// Reader produces commands in order, returning io.EOF when exhausted.
type Reader interface {
	Read() (Command, error)
}

// CommandsReader reads from a fixed list of commands.
type CommandsReader struct {
	Commands []Command
	n        int
}

func (r *CommandsReader) Read() (Command, error) {
	if r.n == len(r.Commands) {
		return Command{}, io.EOF
	}

	r.n++
	return r.Commands[r.n-1], nil
}

// Remaining returns the number of commands not yet read.
func (r *CommandsReader) Remaining() int { return len(r.Commands) - r.n }
