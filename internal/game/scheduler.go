package game

import (
	"sort"
	"time"
)

// EventID identifies a scheduled event so it can be cancelled
type EventID uint64

type event struct {
	id   EventID
	at   time.Duration
	turn int
	fn   func()
}

// Scheduler is a logical-time queue of one-shot events. Time only moves
// when Advance is called. Every event belongs to a turn, which lets a new
// turn drop whatever the previous one left pending.
type Scheduler struct {
	now    time.Duration
	seq    EventID
	events []event // ordered by (at, id)
}

// NewScheduler returns an empty scheduler at time zero
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current logical time
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run d after the current logical time
func (s *Scheduler) After(d time.Duration, turn int, fn func()) EventID {
	if d < 0 {
		d = 0
	}
	s.seq++
	ev := event{id: s.seq, at: s.now + d, turn: turn, fn: fn}
	i := sort.Search(len(s.events), func(i int) bool {
		e := s.events[i]
		return e.at > ev.at || (e.at == ev.at && e.id > ev.id)
	})
	s.events = append(s.events, event{})
	copy(s.events[i+1:], s.events[i:])
	s.events[i] = ev
	return ev.id
}

// Cancel removes a pending event. It reports whether the event was pending.
func (s *Scheduler) Cancel(id EventID) bool {
	for i, e := range s.events {
		if e.id == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return true
		}
	}
	return false
}

// CancelTurn removes every pending event of a turn
func (s *Scheduler) CancelTurn(turn int) {
	kept := s.events[:0]
	for _, e := range s.events {
		if e.turn != turn {
			kept = append(kept, e)
		}
	}
	s.events = kept
}

// CancelAll removes every pending event
func (s *Scheduler) CancelAll() {
	s.events = nil
}

// Pending returns the number of events waiting to fire
func (s *Scheduler) Pending() int {
	return len(s.events)
}

// Advance moves logical time forward to `to`, firing due events in order.
// Events scheduled by a callback fire in the same call if they are due.
func (s *Scheduler) Advance(to time.Duration) {
	for len(s.events) > 0 && s.events[0].at <= to {
		ev := s.events[0]
		s.events = s.events[1:]
		s.now = ev.at
		ev.fn()
	}
	if to > s.now {
		s.now = to
	}
}
