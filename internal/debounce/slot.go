// Package debounce provides a single-slot delayed task. Scheduling a new task
// cancels the one already waiting, so only the latest request ever runs.
package debounce

import (
	"sync"
	"time"
)

type State int

const (
	Pending State = iota
	Cancelled
	Fired
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Cancelled:
		return "cancelled"
	case Fired:
		return "fired"
	default:
		return "unknown"
	}
}

// Timer is the part of *time.Timer the slot needs.
type Timer interface {
	Stop() bool
}

// AfterFunc matches time.AfterFunc and lets tests drive time by hand.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Task is one scheduled run. Its state only moves out of Pending once.
type Task struct {
	slot  *Slot
	state State
	timer Timer
}

func (t *Task) State() State {
	t.slot.mu.Lock()
	defer t.slot.mu.Unlock()
	return t.state
}

type Slot struct {
	mu        sync.Mutex
	delay     time.Duration
	afterFunc AfterFunc
	current   *Task
}

type Option func(*Slot)

func WithAfterFunc(f AfterFunc) Option {
	return func(s *Slot) { s.afterFunc = f }
}

func New(delay time.Duration, opts ...Option) *Slot {
	s := &Slot{delay: delay, afterFunc: realAfterFunc}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Schedule arranges for fn to run after the slot delay, cancelling any task
// still pending. fn runs on the timer goroutine.
func (s *Slot) Schedule(fn func()) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()

	t := &Task{slot: s, state: Pending}
	t.timer = s.afterFunc(s.delay, func() { s.fire(t, fn) })
	s.current = t
	return t
}

// Cancel drops the pending task, if any, and reports whether one existed.
func (s *Slot) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked()
}

// Pending reports whether a task is waiting to fire.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

func (s *Slot) cancelLocked() bool {
	t := s.current
	if t == nil {
		return false
	}
	t.state = Cancelled
	t.timer.Stop()
	s.current = nil
	return true
}

func (s *Slot) fire(t *Task, fn func()) {
	s.mu.Lock()
	if s.current != t || t.state != Pending {
		s.mu.Unlock()
		return
	}
	t.state = Fired
	s.current = nil
	s.mu.Unlock()

	fn()
}
