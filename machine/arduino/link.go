package arduino

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mastercactapus/pipetbot/machine"
	"github.com/tarm/serial"
)

// ErrConnectTimeout is returned when a port does not open in time.
var ErrConnectTimeout = errors.New("connect timed out")

// ErrAlreadyConnected is returned by Connect while a port is open.
var ErrAlreadyConnected = errors.New("already connected")

// An OpenFunc opens a named port.
type OpenFunc func(name string, baud int) (io.ReadWriteCloser, error)

// Options configures a SerialLink.
type Options struct {
	Baud           int
	ConnectTimeout time.Duration
	Tokens         Tokens

	// Terminator is appended to every command written.
	Terminator string

	// Open defaults to opening a local serial device.
	Open OpenFunc
	// Patterns are the glob patterns searched by Ports.
	Patterns []string
}

// DefaultOptions returns the settings the stock firmware expects.
func DefaultOptions() Options {
	return Options{
		Baud:           9600,
		ConnectTimeout: 2 * time.Second,
		Tokens:         DefaultTokens(),
		Patterns:       []string{"/dev/ttyUSB*", "/dev/ttyACM*", "/dev/cu.*", "/dev/tty.usb*"},
	}
}

// OpenSerial opens a local serial device.
func OpenSerial(name string, baud int) (io.ReadWriteCloser, error) {
	p, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SerialLink owns the connection to a controller on a local port.
//
// The events channel outlives individual connections, so a driver can be
// created once and the port connected and disconnected under it.
type SerialLink struct {
	opt Options

	mx   sync.Mutex
	conn *Conn
	port string

	events    chan machine.Event
	quit      chan struct{}
	closeOnce sync.Once
}

var _ machine.Link = &SerialLink{}

// NewSerialLink creates a disconnected link.
func NewSerialLink(opt Options) *SerialLink {
	if opt.Open == nil {
		opt.Open = OpenSerial
	}
	if opt.ConnectTimeout <= 0 {
		opt.ConnectTimeout = DefaultOptions().ConnectTimeout
	}
	if opt.Tokens == (Tokens{}) {
		opt.Tokens = DefaultTokens()
	}
	return &SerialLink{
		opt:    opt,
		events: make(chan machine.Event),
		quit:   make(chan struct{}),
	}
}

// Events implements machine.Link.
func (l *SerialLink) Events() <-chan machine.Event { return l.events }

// Ports lists candidate device names. Each call scans again.
func (l *SerialLink) Ports() ([]string, error) {
	var names []string
	for _, pat := range l.opt.Patterns {
		m, err := filepath.Glob(pat)
		if err != nil {
			return nil, err
		}
		names = append(names, m...)
	}
	sort.Strings(names)
	return names, nil
}

// Port returns the connected port name, or an empty string.
func (l *SerialLink) Port() string {
	l.mx.Lock()
	defer l.mx.Unlock()
	return l.port
}

// Connect opens the named port and starts reading from it. On failure no
// connection state changes.
func (l *SerialLink) Connect(ctx context.Context, name string) error {
	l.mx.Lock()
	defer l.mx.Unlock()
	if l.conn != nil {
		return ErrAlreadyConnected
	}

	ctx, cancel := context.WithTimeout(ctx, l.opt.ConnectTimeout)
	defer cancel()

	type result struct {
		rw  io.ReadWriteCloser
		err error
	}
	ch := make(chan result, 1)
	go func() {
		rw, err := l.opt.Open(name, l.opt.Baud)
		ch <- result{rw, err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-ctx.Done():
		go func() {
			// close the port if it opens late
			if res := <-ch; res.err == nil {
				res.rw.Close()
			}
		}()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("open %s: %w", name, ErrConnectTimeout)
		}
		return ctx.Err()
	}
	if res.err != nil {
		return fmt.Errorf("open %s: %w", name, res.err)
	}

	conn := NewConn(res.rw, l.opt.Tokens, l.opt.Terminator, l.events, l.quit)
	l.conn = conn
	l.port = name
	log.Println("Connected to", name)

	go func() {
		<-conn.Done()
		l.mx.Lock()
		if l.conn == conn {
			l.conn = nil
			l.port = ""
		}
		l.mx.Unlock()
	}()
	return nil
}

// Disconnect closes the port. Later writes fail with ErrNotConnected.
func (l *SerialLink) Disconnect() error {
	l.mx.Lock()
	conn := l.conn
	l.conn = nil
	l.port = ""
	l.mx.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	return conn.Close()
}

// Close disconnects any open port and stops event delivery. Call it after
// the driver reading Events has shut down.
func (l *SerialLink) Close() error {
	err := l.Disconnect()
	if errors.Is(err, ErrNotConnected) {
		err = nil
	}
	l.closeOnce.Do(func() { close(l.quit) })
	return err
}

// Send implements machine.Link.
func (l *SerialLink) Send(cmd string) error {
	l.mx.Lock()
	conn := l.conn
	l.mx.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	return conn.Send(cmd)
}
