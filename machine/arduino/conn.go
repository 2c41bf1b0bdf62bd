// Package arduino talks to the pipetting controller over a serial line or a
// Serial Port JSON Server bridge.
package arduino

import (
	"bufio"
	"errors"
	"io"
	"log"
	"sync"

	"github.com/mastercactapus/pipetbot/command"
	"github.com/mastercactapus/pipetbot/machine"
)

// ErrNotConnected is returned when writing without an open connection.
var ErrNotConnected = errors.New("not connected")

// Conn is an open connection to the controller.
//
// Received lines are classified and delivered to the events channel until
// the connection closes.
type Conn struct {
	rw   io.ReadWriteCloser
	tok  Tokens
	term string

	mx     sync.Mutex
	closed bool

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
	quit      <-chan struct{}
}

// NewConn starts reading from rw. Events are sent on events; the send
// blocks, so the reader applies backpressure to the device. Once quit is
// closed pending events are dropped. A nil quit never fires.
func NewConn(rw io.ReadWriteCloser, tok Tokens, terminator string, events chan<- machine.Event, quit <-chan struct{}) *Conn {
	c := &Conn{
		rw:   rw,
		tok:  tok,
		term: terminator,
		done: make(chan struct{}),
		quit: quit,
	}
	go c.readLoop(events)
	return c
}

// Done is closed when the read loop exits.
func (c *Conn) Done() <-chan struct{} { return c.done }

func (c *Conn) readLoop(events chan<- machine.Event) {
	defer close(c.done)
	scan := bufio.NewScanner(c.rw)
	for scan.Scan() {
		ev := c.tok.classify(scan.Text())
		if ev.Line == "" {
			continue
		}
		if ev.Err != nil {
			log.Println("ERROR: parse:", ev.Err)
		}
		if !c.emit(events, ev) {
			c.Close()
			return
		}
	}

	err := scan.Err()
	c.mx.Lock()
	wasClosed := c.closed
	c.closed = true
	c.mx.Unlock()
	if err != nil && !wasClosed {
		log.Println("ERROR: read from port:", err)
	}
	// release the port after a device-side failure too
	if err := c.closeRW(); err != nil && !wasClosed {
		log.Println("ERROR: close port:", err)
	}
	c.emit(events, machine.Event{Type: machine.EventClosed, Err: err})
}

func (c *Conn) emit(events chan<- machine.Event, ev machine.Event) bool {
	select {
	case events <- ev:
		return true
	case <-c.quit:
		return false
	}
}

func (c *Conn) closeRW() error {
	c.closeOnce.Do(func() { c.closeErr = c.rw.Close() })
	return c.closeErr
}

// Send validates cmd and writes it. Nothing is written for a malformed
// command or a closed connection.
func (c *Conn) Send(cmd string) error {
	err := command.Validate(cmd)
	if err != nil {
		return err
	}

	c.mx.Lock()
	defer c.mx.Unlock()
	if c.closed {
		return ErrNotConnected
	}
	_, err = io.WriteString(c.rw, cmd+c.term)
	return err
}

// Close closes the underlying stream. The read loop reports EventClosed
// once it stops.
func (c *Conn) Close() error {
	c.mx.Lock()
	c.closed = true
	c.mx.Unlock()
	return c.closeRW()
}
