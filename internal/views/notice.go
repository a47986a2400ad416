package views

import (
	"sync"
	"time"
)

// State is where a view's result notification currently is.
type State int

const (
	Idle State = iota
	Submitting
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Timer is the part of *time.Timer the Notice needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Notice is the submit/result state machine shared by both views:
//
//	idle -> submitting -> success|error -> idle
//
// Entering success or error schedules an automatic return to idle after the
// dismiss delay. Dismiss and Begin cancel a pending timer.
type Notice struct {
	mu       sync.Mutex
	state    State
	message  string
	delay    time.Duration
	after    AfterFunc
	timer    Timer
	gen      uint64
	onChange func(State, string)
}

// NewNotice returns an idle Notice that auto-dismisses after delay.
func NewNotice(delay time.Duration) *Notice {
	return &Notice{delay: delay, after: realAfterFunc}
}

// WithClock replaces the timer source, for tests.
func (n *Notice) WithClock(after AfterFunc) *Notice {
	n.after = after
	return n
}

// OnChange registers a callback invoked after every transition, outside the
// lock, so a host can re-render.
func (n *Notice) OnChange(f func(State, string)) {
	n.mu.Lock()
	n.onChange = f
	n.mu.Unlock()
}

// Begin moves to submitting.
func (n *Notice) Begin() {
	n.transition(Submitting, "", false)
}

// Succeed moves to success and schedules the auto-dismiss.
func (n *Notice) Succeed(msg string) {
	n.transition(Success, msg, true)
}

// Fail moves to error and schedules the auto-dismiss.
func (n *Notice) Fail(msg string) {
	n.transition(Error, msg, true)
}

// Dismiss returns to idle and clears the message.
func (n *Notice) Dismiss() {
	n.transition(Idle, "", false)
}

// State reports the current state and message.
func (n *Notice) State() (State, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state, n.message
}

func (n *Notice) transition(to State, msg string, schedule bool) {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
	n.state = to
	n.message = msg
	if schedule {
		gen := n.gen
		n.timer = n.after(n.delay, func() { n.expire(gen) })
	}
	cb := n.onChange
	n.mu.Unlock()
	if cb != nil {
		cb(to, msg)
	}
}

// expire fires the auto-dismiss unless another transition happened since the
// timer was armed.
func (n *Notice) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		return
	}
	n.timer = nil
	n.gen++
	n.state = Idle
	n.message = ""
	cb := n.onChange
	n.mu.Unlock()
	if cb != nil {
		cb(Idle, "")
	}
}
