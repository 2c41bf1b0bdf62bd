package arduino

import (
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mastercactapus/pipetbot/command"
	"github.com/mastercactapus/pipetbot/machine"
	"github.com/mastercactapus/pipetbot/spjs"
)

var lastID int64

func nextID() string {
	id := atomic.AddInt64(&lastID, 1)
	return "cmd_" + strconv.FormatInt(id, 36)
}

// SPJSClient is the part of spjs.Client used by SPJSLink.
type SPJSClient interface {
	Messages() <-chan interface{}
	Open(port string, baud int) error
	ClosePort(port string) error
	SendJSON(v spjs.JSON) error
}

// SPJSLink reaches the controller through a Serial Port JSON Server.
type SPJSLink struct {
	sp   SPJSClient
	port string
	baud int
	tok  Tokens
	term string

	mx      sync.Mutex
	isOpen  bool
	partial string

	events    chan machine.Event
	quit      chan struct{}
	closeOnce sync.Once
}

var _ machine.Link = &SPJSLink{}

// NewSPJSLink relays commands for port through sp. The port is opened
// whenever the server lists it as closed.
func NewSPJSLink(sp SPJSClient, port string, opt Options) *SPJSLink {
	if opt.Tokens == (Tokens{}) {
		opt.Tokens = DefaultTokens()
	}
	if opt.Baud == 0 {
		opt.Baud = DefaultOptions().Baud
	}
	l := &SPJSLink{
		sp:     sp,
		port:   port,
		baud:   opt.Baud,
		tok:    opt.Tokens,
		term:   opt.Terminator,
		events: make(chan machine.Event),
		quit:   make(chan struct{}),
	}
	go l.loop()
	return l
}

// Events implements machine.Link.
func (l *SPJSLink) Events() <-chan machine.Event { return l.events }

// Connected reports whether the server has the port open.
func (l *SPJSLink) Connected() bool {
	l.mx.Lock()
	defer l.mx.Unlock()
	return l.isOpen
}

// Close asks the server to release the port and stops event delivery.
// Messages arriving afterwards are discarded.
func (l *SPJSLink) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.setOpen(false) {
			err = l.sp.ClosePort(l.port)
		}
		close(l.quit)
	})
	return err
}

func (l *SPJSLink) emit(ev machine.Event) {
	select {
	case l.events <- ev:
	case <-l.quit:
	}
}

// Send implements machine.Link.
func (l *SPJSLink) Send(cmd string) error {
	err := command.Validate(cmd)
	if err != nil {
		return err
	}
	if !l.Connected() {
		return ErrNotConnected
	}
	return l.sp.SendJSON(spjs.JSON{
		Port: l.port,
		Data: []spjs.Data{{Data: cmd + l.term, ID: nextID()}},
	})
}

func (l *SPJSLink) setOpen(open bool) (changed bool) {
	l.mx.Lock()
	defer l.mx.Unlock()
	changed = l.isOpen != open
	l.isOpen = open
	if !open {
		l.partial = ""
	}
	return changed
}

// lines splits received data into complete lines, keeping any remainder
// for the next frame.
func (l *SPJSLink) lines(data string) []string {
	l.mx.Lock()
	defer l.mx.Unlock()
	data = l.partial + data
	idx := strings.LastIndexByte(data, '\n')
	if idx < 0 {
		l.partial = data
		return nil
	}
	l.partial = data[idx+1:]
	return strings.Split(data[:idx], "\n")
}

func (l *SPJSLink) loop() {
	for msg := range l.sp.Messages() {
		select {
		case <-l.quit:
			continue
		default:
		}
		switch msg := msg.(type) {
		case *spjs.DataFrame:
			if msg.Port != l.port {
				continue
			}
			for _, line := range l.lines(msg.Data) {
				ev := l.tok.classify(line)
				if ev.Line == "" {
					continue
				}
				l.emit(ev)
			}
		case *spjs.SerialPortList:
			for _, p := range msg.SerialPorts {
				if p.Name != l.port {
					continue
				}
				if p.IsOpen {
					l.setOpen(true)
					continue
				}
				if l.setOpen(false) {
					l.emit(machine.Event{Type: machine.EventClosed})
				}
				err := l.sp.Open(l.port, l.baud)
				if err != nil {
					log.Println("ERROR: open:", err)
				}
			}
		case *spjs.CmdStatus:
			if msg.Port != l.port {
				continue
			}
			switch msg.Cmd {
			case "Open":
				l.setOpen(true)
			case "Close":
				if l.setOpen(false) {
					l.emit(machine.Event{Type: machine.EventClosed})
				}
			}
		case *spjs.ErrorMessage:
			log.Println("ERROR: spjs:", msg.Error)
		}
	}
	l.setOpen(false)
	l.emit(machine.Event{Type: machine.EventClosed})
}
