package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/comteq/jokes/internal/jokesapi"
)

// Phase is the mutually exclusive condition of the collection view.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Status is the observable collection status. Items is only meaningful in
// PhaseLoaded and Message only in PhaseFailed.
type Status struct {
	Phase   Phase
	Items   []jokesapi.Joke
	Message string
}

// Idle is the status before any load has happened.
func Idle() Status { return Status{Phase: PhaseIdle} }

// Loading marks a fetch in flight. No snapshot is implied.
func Loading() Status { return Status{Phase: PhaseLoading} }

// Loaded carries the records of the last successful full fetch in server order.
func Loaded(items []jokesapi.Joke) Status {
	return Status{Phase: PhaseLoaded, Items: jokesapi.CloneAll(items)}
}

// Failed carries the message shown to the user.
func Failed(message string) Status {
	return Status{Phase: PhaseFailed, Message: message}
}

func (s Status) String() string {
	switch s.Phase {
	case PhaseLoaded:
		return fmt.Sprintf("loaded(%d)", len(s.Items))
	case PhaseFailed:
		return fmt.Sprintf("failed(%q)", s.Message)
	default:
		return s.Phase.String()
	}
}

// Snapshot is what observers see: the status plus bookkeeping about when and
// how often it changed.
type Snapshot struct {
	Status              Status
	LastUpdated         time.Time
	Version             uint64 // increments on every transition
	ConsecutiveFailures int    // reset by a successful load
}

// Reader is the read-only side of a Store.
type Reader interface {
	Snapshot() Snapshot
	Subscribe() (<-chan Snapshot, func())
}

// Ensure Store implements Reader at compile time.
var _ Reader = (*Store)(nil)

// Store holds the single collection status. The zero value is ready to use
// and reports Idle.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	subs     map[int]chan Snapshot
	nextSub  int
}

// Set replaces the status and notifies subscribers.
func (s *Store) Set(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status.Items = jokesapi.CloneAll(status.Items)
	s.snapshot.Status = status
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.Version++
	switch status.Phase {
	case PhaseLoaded:
		s.snapshot.ConsecutiveFailures = 0
	case PhaseFailed:
		s.snapshot.ConsecutiveFailures++
	}

	for _, ch := range s.subs {
		publish(ch, s.cloneLocked())
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked()
}

// Subscribe returns a channel that receives the current snapshot immediately
// and then every later one. Delivery is coalesced: a subscriber that falls
// behind only sees the newest snapshot. The cancel func closes the channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]chan Snapshot)
	}
	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	ch <- s.cloneLocked()
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) cloneLocked() Snapshot {
	snap := s.snapshot
	snap.Status.Items = jokesapi.CloneAll(s.snapshot.Status.Items)
	return snap
}

// publish replaces any undelivered snapshot with the newer one. Callers hold
// the store lock, so no other writer races on ch.
func publish(ch chan Snapshot, snap Snapshot) {
	select {
	case <-ch:
	default:
	}
	ch <- snap
}
