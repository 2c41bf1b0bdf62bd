package machine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mastercactapus/pipetbot/coord"
	"github.com/mastercactapus/pipetbot/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLink struct {
	sent   chan string
	events chan Event
	err    error
}

func newFakeLink() *fakeLink {
	return &fakeLink{
		sent:   make(chan string, 100),
		events: make(chan Event),
	}
}

func (l *fakeLink) Send(cmd string) error {
	if l.err != nil {
		return l.err
	}
	l.sent <- cmd
	return nil
}
func (l *fakeLink) Events() <-chan Event { return l.events }

func (l *fakeLink) expect(t *testing.T, cmd string) {
	t.Helper()
	select {
	case got := <-l.sent:
		assert.Equal(t, cmd, got)
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for %s", cmd)
	}
}

func (l *fakeLink) expectNothing(t *testing.T) {
	t.Helper()
	select {
	case got := <-l.sent:
		t.Fatalf("unexpected command %s", got)
	default:
	}
}

func (l *fakeLink) done()       { l.events <- Event{Type: EventDone, Line: "Done"} }
func (l *fakeLink) calibrated() { l.events <- Event{Type: EventCalibrated, Line: "Finished Calibration"} }

type fakeCalibrator struct {
	mx     sync.Mutex
	calls  int
	probes []coord.Point
}

func (c *fakeCalibrator) Calibrate(probes []coord.Point) error {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.calls++
	c.probes = probes
	return nil
}

func (c *fakeCalibrator) count() int {
	c.mx.Lock()
	defer c.mx.Unlock()
	return c.calls
}

func TestMachine_OneInFlight(t *testing.T) {
	l := newFakeLink()
	m := NewMachine(l, Config{})
	defer m.Close()

	require.NoError(t, m.Enqueue(task.NewDispense(5), task.NewDispense(10)))
	require.NoError(t, m.Start())

	l.expect(t, "dispense(5)")
	l.expectNothing(t)

	s := m.CurrentState()
	assert.Equal(t, AwaitingAck, s.Status)
	assert.Equal(t, "dispense(5)", s.InFlight)
	assert.Equal(t, []string{"Dispense:10"}, s.Pending)

	l.done()
	l.expect(t, "dispense(10)")
	l.expectNothing(t)

	l.done()
	s = m.CurrentState()
	assert.Equal(t, Idle, s.Status)
	assert.False(t, s.Running)
	assert.Equal(t, 2, s.Sent)
	assert.Equal(t, 2, s.Acked)
	assert.NotEmpty(t, s.RunID)
	l.expectNothing(t)
}

func TestMachine_Composite(t *testing.T) {
	l := newFakeLink()
	m := NewMachine(l, Config{})
	defer m.Close()

	c := task.NewComposite("prime")
	c.Add(&task.Home{}, task.NewMove(1, 2, 0), &task.Wait{Millis: task.Literal(100)})
	require.NoError(t, m.Enqueue(c))
	require.NoError(t, m.Start())

	l.expect(t, "home()")
	assert.Equal(t, "Composite:prime", m.CurrentState().Current)
	l.done()
	l.expect(t, "move(1,2,0)")
	l.done()
	l.expect(t, "wait(100)")
	l.done()
	assert.False(t, m.CurrentState().Running)
}

func TestMachine_EnqueueCopies(t *testing.T) {
	l := newFakeLink()
	m := NewMachine(l, Config{})
	defer m.Close()

	d := task.NewDispense(5)
	require.NoError(t, m.Enqueue(d))
	require.NoError(t, d.SetUserObject("7"))
	require.NoError(t, m.Start())
	l.expect(t, "dispense(5)")
}

func TestMachine_Calibrate(t *testing.T) {
	l := newFakeLink()
	cal := &fakeCalibrator{}
	m := NewMachine(l, Config{Calibrator: cal})
	defer m.Close()

	require.NoError(t, m.Enqueue(&task.Calibrate{}, &task.Home{}))
	require.NoError(t, m.Start())
	l.expect(t, "calibrate()")

	// completion tokens do not acknowledge a calibration
	l.done()
	l.expectNothing(t)
	assert.Equal(t, AwaitingAck, m.CurrentState().Status)

	l.events <- Event{Type: EventProbe, Probe: coord.Point{X: 1, Y: 2, Z: 0.5}}
	l.calibrated()
	l.expect(t, "home()")
	assert.Equal(t, 1, cal.count())
	assert.Equal(t, []coord.Point{{X: 1, Y: 2, Z: 0.5}}, cal.probes)
}

func TestMachine_CalibratedWhileIdle(t *testing.T) {
	l := newFakeLink()
	cal := &fakeCalibrator{}
	m := NewMachine(l, Config{Calibrator: cal})
	defer m.Close()

	l.calibrated()
	m.CurrentState()
	assert.Equal(t, 1, cal.count())
	l.expectNothing(t)
}

func TestMachine_Timeout(t *testing.T) {
	l := newFakeLink()
	m := NewMachine(l, Config{AckTimeout: 20 * time.Millisecond})
	defer m.Close()

	require.NoError(t, m.Enqueue(task.NewDispense(5), task.NewDispense(10)))
	require.NoError(t, m.Start())
	l.expect(t, "dispense(5)")

	assert.Eventually(t, func() bool {
		return m.CurrentState().Err == ErrAckTimeout.Error()
	}, time.Second, 5*time.Millisecond)

	s := m.CurrentState()
	assert.Equal(t, Idle, s.Status)
	assert.False(t, s.Running)
	assert.Equal(t, []string{"Dispense:10"}, s.Pending)
	l.expectNothing(t)
}

func TestMachine_Disconnect(t *testing.T) {
	l := newFakeLink()
	m := NewMachine(l, Config{})
	defer m.Close()

	require.NoError(t, m.Enqueue(task.NewDispense(5)))
	require.NoError(t, m.Start())
	l.expect(t, "dispense(5)")

	l.events <- Event{Type: EventClosed}
	s := m.CurrentState()
	assert.Equal(t, Idle, s.Status)
	assert.Equal(t, ErrDisconnected.Error(), s.Err)
}

func TestMachine_SendError(t *testing.T) {
	l := newFakeLink()
	l.err = errors.New("write failed")
	m := NewMachine(l, Config{})
	defer m.Close()

	require.NoError(t, m.Enqueue(&task.Home{}))
	err := m.Start()
	assert.EqualError(t, err, "write failed")
	assert.False(t, m.CurrentState().Running)
}

func TestMachine_RenderErrorHalts(t *testing.T) {
	l := newFakeLink()
	m := NewMachine(l, Config{})
	defer m.Close()

	require.NoError(t, m.Enqueue(&task.Home{}, &task.Dispense{Volume: task.Var("flow")}, &task.Home{}))
	require.NoError(t, m.Start())
	l.expect(t, "home()")
	l.done()

	s := m.CurrentState()
	assert.False(t, s.Running)
	assert.Contains(t, s.Err, "flow")
	assert.Equal(t, []string{"Home"}, s.Pending)
	l.expectNothing(t)
}

func TestMachine_StopResume(t *testing.T) {
	l := newFakeLink()
	m := NewMachine(l, Config{})
	defer m.Close()

	require.NoError(t, m.Enqueue(task.NewDispense(1), task.NewDispense(2)))
	require.NoError(t, m.Start())
	l.expect(t, "dispense(1)")

	require.NoError(t, m.Stop())
	l.done()
	l.expectNothing(t)
	assert.Equal(t, Idle, m.CurrentState().Status)

	require.NoError(t, m.Start())
	l.expect(t, "dispense(2)")
}

func TestMachine_Send(t *testing.T) {
	l := newFakeLink()
	m := NewMachine(l, Config{})
	defer m.Close()

	assert.Error(t, m.Send("move 3 4"))
	l.expectNothing(t)

	require.NoError(t, m.Send("move(3,4)"))
	l.expect(t, "move(3,4)")
	assert.ErrorIs(t, m.Send("home()"), ErrBusy)

	l.done()
	require.NoError(t, m.Send("home()"))
	l.expect(t, "home()")
}

func TestMachine_Clear(t *testing.T) {
	l := newFakeLink()
	m := NewMachine(l, Config{})
	defer m.Close()

	require.NoError(t, m.Enqueue(task.NewDispense(1), task.NewDispense(2)))
	require.NoError(t, m.Start())
	l.expect(t, "dispense(1)")
	require.NoError(t, m.Clear())
	l.done()
	l.expectNothing(t)
	assert.False(t, m.CurrentState().Running)
}

func TestMachine_Closed(t *testing.T) {
	m := NewMachine(newFakeLink(), Config{})
	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Start(), ErrClosed)
}
