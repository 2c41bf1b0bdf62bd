// Package machine drives a program of tasks over a controller link.
//
// The driver keeps at most one command in flight: a command is written only
// after the previous one was acknowledged. All driver state is owned by a
// single goroutine; link events and caller requests are delivered to it over
// channels.
package machine

import (
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mastercactapus/pipetbot/command"
	"github.com/mastercactapus/pipetbot/coord"
	"github.com/mastercactapus/pipetbot/task"
)

var (
	// ErrAckTimeout halts a run when a command is not acknowledged in time.
	ErrAckTimeout = errors.New("timed out waiting for acknowledgement")
	// ErrDisconnected halts a run when the link closes with a command in flight.
	ErrDisconnected = errors.New("controller disconnected")
	// ErrBusy is returned for direct commands while a program is running.
	ErrBusy = errors.New("machine busy")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("machine closed")
)

// Config configures a Machine.
type Config struct {
	// Resolver resolves well addresses when tasks are rendered.
	Resolver task.Resolver

	// Calibrator is notified when the controller finishes calibrating.
	Calibrator Calibrator

	// AckTimeout bounds the wait for each acknowledgement. Zero disables it.
	AckTimeout time.Duration
}

// Machine is the execution driver.
type Machine struct {
	link Link
	cfg  Config

	ctl    chan func()
	closed chan struct{}
	once   sync.Once

	state chan State

	// owned by loop
	queue    []task.Task
	cur      *command.CommandsReader
	curTask  task.Task
	status   Status
	running  bool
	inFlight command.Command
	runID    string
	sent     int
	acked    int
	lastErr  error
	probes   []coord.Point
	timer    *time.Timer
	timeout  <-chan time.Time
}

// NewMachine starts a driver on the given link.
func NewMachine(l Link, cfg Config) *Machine {
	m := &Machine{
		link:   l,
		cfg:    cfg,
		ctl:    make(chan func()),
		closed: make(chan struct{}),
		state:  make(chan State, 1),
		status: Idle,
	}
	go m.loop()
	return m
}

// Close stops the driver. A command already written is not recalled.
func (m *Machine) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}

// State returns a channel of state changes. Slow readers miss intermediate states.
func (m *Machine) State() chan State { return m.state }

// CurrentState returns a snapshot of the driver.
func (m *Machine) CurrentState() State {
	var s State
	m.do(func() { s = m.snapshot() })
	return s
}

// Enqueue appends tasks to the queue. Tasks are copied; later edits to the
// caller's tasks do not affect the queued ones.
func (m *Machine) Enqueue(tasks ...task.Task) error {
	cp := make([]task.Task, len(tasks))
	for i, t := range tasks {
		cp[i] = task.Clone(t)
	}
	return m.do(func() {
		m.queue = append(m.queue, cp...)
	})
}

// Clear drops every queued task that has not started. An in-flight
// command still completes.
func (m *Machine) Clear() error {
	return m.do(func() { m.queue = nil })
}

// Start begins executing the queue and returns without waiting for completion.
//
// The returned error reports a failure to write the first command. An empty
// queue leaves the machine idle.
func (m *Machine) Start() error {
	var err error
	e := m.do(func() {
		if m.running {
			return
		}
		m.running = true
		m.runID = uuid.New().String()
		m.sent, m.acked = 0, 0
		m.lastErr = nil
		log.Println("Starting run", m.runID)
		err = m.advance()
	})
	if e != nil {
		return e
	}
	return err
}

// Stop prevents the next command from being written. A command already in
// flight is not cancelled; the queue is kept so Start resumes after it.
func (m *Machine) Stop() error {
	return m.do(func() {
		if m.running {
			log.Println("Stopping run", m.runID)
		}
		m.running = false
	})
}

// Send writes a single command outside of a program run.
func (m *Machine) Send(raw string) error {
	return m.direct(&task.Raw{Text: raw})
}

// Calibrate asks the controller to calibrate. Completion is reported
// through the Calibrator.
func (m *Machine) Calibrate() error {
	return m.direct(&task.Calibrate{})
}

func (m *Machine) direct(t task.Leaf) error {
	c, err := t.Command(m.cfg.Resolver)
	if err != nil {
		return err
	}
	err = c.Validate()
	if err != nil {
		return err
	}
	e := m.do(func() {
		if m.status != Idle || m.running {
			err = ErrBusy
			return
		}
		err = m.write(c)
	})
	if e != nil {
		return e
	}
	return err
}

func (m *Machine) do(fn func()) error {
	done := make(chan struct{})
	select {
	case m.ctl <- func() { fn(); close(done) }:
	case <-m.closed:
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-m.closed:
		return ErrClosed
	}
}

func (m *Machine) loop() {
	events := m.link.Events()
	for {
		select {
		case <-m.closed:
			m.stopTimer()
			return
		case fn := <-m.ctl:
			fn()
		case ev, ok := <-events:
			if !ok {
				events = nil
				ev = Event{Type: EventClosed}
			}
			m.handle(ev)
		case <-m.timeout:
			m.timeout = nil
			m.timer = nil
			m.halt(ErrAckTimeout)
		}
		m.publish()
	}
}

func (m *Machine) handle(ev Event) {
	switch ev.Type {
	case EventDone:
		if m.status != AwaitingAck || awaitsCalibration(m.inFlight) {
			log.Println("ERROR: unexpected completion token, ignoring")
			return
		}
		m.ack()
	case EventCalibrated:
		if m.cfg.Calibrator != nil {
			err := m.cfg.Calibrator.Calibrate(m.probes)
			if err != nil {
				log.Println("ERROR: calibrate:", err)
			}
		}
		m.probes = nil
		if m.status == AwaitingAck && awaitsCalibration(m.inFlight) {
			m.ack()
		}
	case EventProbe:
		m.probes = append(m.probes, ev.Probe)
	case EventClosed:
		if m.status == AwaitingAck {
			m.halt(ErrDisconnected)
		}
	default:
		log.Println("Controller:", ev.Line)
	}
}

func awaitsCalibration(c command.Command) bool { return c.Name == "calibrate" }

// ack completes the in-flight command and writes the next one.
func (m *Machine) ack() {
	m.stopTimer()
	m.status = Idle
	m.inFlight = command.Command{}
	m.acked++
	if !m.running {
		return
	}
	err := m.advance()
	if err != nil {
		log.Println("ERROR: advance:", err)
	}
}

// advance writes the next command, if any. Failures halt the run.
func (m *Machine) advance() error {
	if m.status != Idle {
		return nil
	}
	c, err := m.next()
	if err == io.EOF {
		if m.running {
			log.Println("Run complete", m.runID)
		}
		m.running = false
		m.curTask = nil
		return nil
	}
	if err != nil {
		m.halt(err)
		return err
	}

	err = m.write(c)
	if err != nil {
		m.halt(err)
	}
	return err
}

// write sends c and arms the acknowledgement timeout.
func (m *Machine) write(c command.Command) error {
	err := m.link.Send(c.String())
	if err != nil {
		return err
	}
	m.inFlight = c
	m.status = AwaitingAck
	m.sent++
	if m.cfg.AckTimeout > 0 {
		m.timer = time.NewTimer(m.cfg.AckTimeout)
		m.timeout = m.timer.C
	}
	return nil
}

// next returns the next command of the current task, rendering the next
// queued task when the current one is exhausted.
func (m *Machine) next() (command.Command, error) {
	for {
		if m.cur != nil {
			c, err := m.cur.Read()
			if err == nil {
				return c, nil
			}
			m.cur = nil
			m.curTask = nil
		}
		if !m.running || len(m.queue) == 0 {
			return command.Command{}, io.EOF
		}

		t := m.queue[0]
		m.queue = m.queue[1:]
		cmds, err := task.Render(t, m.cfg.Resolver)
		if err != nil {
			return command.Command{}, err
		}
		m.cur = &command.CommandsReader{Commands: cmds}
		m.curTask = t
	}
}

// halt abandons the current task and stops the run. Queued tasks are kept.
func (m *Machine) halt(err error) {
	log.Println("ERROR: run halted:", err)
	m.stopTimer()
	m.status = Idle
	m.running = false
	m.inFlight = command.Command{}
	m.cur = nil
	m.curTask = nil
	m.lastErr = err
}

func (m *Machine) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = nil
	m.timeout = nil
}

func (m *Machine) snapshot() State {
	s := State{
		Status:  m.status,
		Running: m.running,
		RunID:   m.runID,
		Sent:    m.sent,
		Acked:   m.acked,
	}
	if m.status == AwaitingAck {
		s.InFlight = m.inFlight.String()
	}
	if m.curTask != nil {
		s.Current = m.curTask.String()
	}
	for _, t := range m.queue {
		s.Pending = append(s.Pending, t.String())
	}
	if m.lastErr != nil {
		s.Err = m.lastErr.Error()
	}
	return s
}

func (m *Machine) publish() {
	s := m.snapshot()
	select {
	case m.state <- s:
		return
	default:
	}
	// replace a stale unread state
	select {
	case <-m.state:
	default:
	}
	select {
	case m.state <- s:
	default:
	}
}
