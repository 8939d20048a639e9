package collection

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/comteq/jokes/internal/jokesapi"
	"github.com/comteq/jokes/internal/state"
)

// Remote is the remote collection the Syncer mirrors. *jokesapi.Client
// satisfies it; tests substitute fakes.
type Remote interface {
	ListAll(ctx context.Context) ([]jokesapi.Joke, error)
	Create(ctx context.Context, joke jokesapi.Joke) (jokesapi.Joke, error)
	Update(ctx context.Context, id int64, joke jokesapi.Joke) (jokesapi.Joke, error)
	Delete(ctx context.Context, id int64) (jokesapi.Joke, error)
}

var _ Remote = (*jokesapi.Client)(nil)

// Fallback messages used when a failure carries no description.
const (
	MsgLoadFailed   = "Unknown error"
	MsgAddFailed    = "Unknown error while adding joke"
	MsgUpdateFailed = "Unknown error while updating joke"
	MsgDeleteFailed = "Unknown error while deleting joke"
)

const defaultQueueSize = 16

// ErrStopped is returned by intents dispatched after the worker has exited.
var ErrStopped = errors.New("collection syncer stopped")

// Intent names a caller-invoked operation.
type Intent string

const (
	IntentLoad   Intent = "load"
	IntentAdd    Intent = "add"
	IntentUpdate Intent = "update"
	IntentDelete Intent = "delete"
)

// Outcome is the terminal phase an intent ended in.
type Outcome string

const (
	OutcomeLoaded Outcome = "loaded"
	OutcomeFailed Outcome = "failed"
)

// Recorder observes intent execution. Implementations must be safe for
// concurrent use.
type Recorder interface {
	IntentStarted(intent Intent)
	IntentFinished(intent Intent, outcome Outcome, elapsed time.Duration)
	CollectionSize(n int)
}

type nopRecorder struct{}

func (nopRecorder) IntentStarted(Intent)                          {}
func (nopRecorder) IntentFinished(Intent, Outcome, time.Duration) {}
func (nopRecorder) CollectionSize(int)                            {}

// Option configures a Syncer.
type Option func(*Syncer)

// WithRecorder installs metrics hooks.
func WithRecorder(r Recorder) Option {
	return func(s *Syncer) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithQueueSize sets how many intents may wait behind the running one
// before dispatchers block.
func WithQueueSize(n int) Option {
	return func(s *Syncer) {
		if n >= 0 {
			s.queueSize = n
		}
	}
}

type job struct {
	intent Intent
	run    func(ctx context.Context) state.Status
	done   chan state.Status
}

// Syncer keeps an observable view of the remote collection. Intents are
// executed one at a time, in dispatch order, by a single worker goroutine.
type Syncer struct {
	remote    Remote
	store     state.Store
	recorder  Recorder
	queueSize int

	jobs    chan job
	stopped chan struct{}
	running atomic.Bool
}

// New builds a Syncer in the Idle state. Call Start or Run before
// dispatching intents.
func New(remote Remote, opts ...Option) *Syncer {
	s := &Syncer{
		remote:    remote,
		recorder:  nopRecorder{},
		queueSize: defaultQueueSize,
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.jobs = make(chan job, s.queueSize)
	return s
}

// Start launches the worker in the background. It returns immediately.
func (s *Syncer) Start(ctx context.Context) {
	go s.Run(ctx)
}

// Run executes queued intents until ctx is cancelled. Cancelling ctx also
// aborts the request of an intent in flight; that intent still finishes with
// a Failed status. A second concurrent Run returns immediately.
func (s *Syncer) Run(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	defer close(s.stopped)

	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.jobs:
			j.done <- s.execute(ctx, j)
		}
	}
}

// Snapshot returns the current status and its bookkeeping.
func (s *Syncer) Snapshot() state.Snapshot {
	return s.store.Snapshot()
}

// Subscribe streams status changes; see state.Store.Subscribe.
func (s *Syncer) Subscribe() (<-chan state.Snapshot, func()) {
	return s.store.Subscribe()
}

// Load fetches the whole collection.
func (s *Syncer) Load(ctx context.Context) (state.Status, error) {
	return s.dispatch(ctx, IntentLoad, s.load)
}

// Add creates a record and reloads the collection on success.
func (s *Syncer) Add(ctx context.Context, setup, punchline string) (state.Status, error) {
	return s.dispatch(ctx, IntentAdd, func(ctx context.Context) state.Status {
		if _, err := s.remote.Create(ctx, jokesapi.NewJoke(setup, punchline)); err != nil {
			return s.fail(IntentAdd, err, MsgAddFailed)
		}
		return s.load(ctx)
	})
}

// Update replaces the record with the given id and reloads on success.
func (s *Syncer) Update(ctx context.Context, id int64, setup, punchline string) (state.Status, error) {
	return s.dispatch(ctx, IntentUpdate, func(ctx context.Context) state.Status {
		if _, err := s.remote.Update(ctx, id, jokesapi.NewJoke(setup, punchline).WithID(id)); err != nil {
			return s.fail(IntentUpdate, err, MsgUpdateFailed)
		}
		return s.load(ctx)
	})
}

// Delete removes the record with the given id and reloads on success.
func (s *Syncer) Delete(ctx context.Context, id int64) (state.Status, error) {
	return s.dispatch(ctx, IntentDelete, func(ctx context.Context) state.Status {
		if _, err := s.remote.Delete(ctx, id); err != nil {
			return s.fail(IntentDelete, err, MsgDeleteFailed)
		}
		return s.load(ctx)
	})
}

// dispatch queues an intent and waits for its terminal status. ctx only
// bounds the wait: once queued, the intent runs regardless.
func (s *Syncer) dispatch(ctx context.Context, intent Intent, run func(context.Context) state.Status) (state.Status, error) {
	j := job{intent: intent, run: run, done: make(chan state.Status, 1)}

	select {
	case s.jobs <- j:
	case <-s.stopped:
		return s.store.Snapshot().Status, ErrStopped
	case <-ctx.Done():
		return s.store.Snapshot().Status, ctx.Err()
	}

	select {
	case st := <-j.done:
		return st, nil
	case <-ctx.Done():
		return s.store.Snapshot().Status, ctx.Err()
	case <-s.stopped:
		select {
		case st := <-j.done:
			return st, nil
		default:
			return s.store.Snapshot().Status, ErrStopped
		}
	}
}

func (s *Syncer) execute(ctx context.Context, j job) state.Status {
	s.recorder.IntentStarted(j.intent)
	start := time.Now()

	st := j.run(ctx)

	elapsed := time.Since(start)
	outcome := OutcomeLoaded
	if st.Phase == state.PhaseFailed {
		outcome = OutcomeFailed
	} else {
		s.recorder.CollectionSize(len(st.Items))
	}
	s.recorder.IntentFinished(j.intent, outcome, elapsed)
	log.Printf("collection %s finished: %s (%s)", j.intent, st, elapsed.Round(time.Millisecond))
	return st
}

func (s *Syncer) load(ctx context.Context) state.Status {
	s.store.Set(state.Loading())
	items, err := s.remote.ListAll(ctx)
	if err != nil {
		return s.fail(IntentLoad, err, MsgLoadFailed)
	}
	st := state.Loaded(items)
	s.store.Set(st)
	return st
}

func (s *Syncer) fail(intent Intent, err error, fallback string) state.Status {
	log.Printf("collection %s failed: %v", intent, err)
	st := state.Failed(failureMessage(err, fallback))
	s.store.Set(st)
	return st
}

// describer is implemented by errors that carry a user-facing description
// separate from their diagnostic Error() text.
type describer interface {
	Description() string
}

// failureMessage picks the text shown for a failed intent.
func failureMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var msg string
	var d describer
	if errors.As(err, &d) {
		msg = d.Description()
	} else {
		msg = err.Error()
	}
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
