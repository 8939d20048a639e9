// Package collection implements the sync state machine that keeps an
// in-memory view of the remote jokes collection.
//
// # Overview
//
// A Syncer owns one state.Store and one Remote (normally *jokesapi.Client).
// Callers express what they want as intents; the Syncer talks to the server
// and moves the observable status through its four phases. Nothing outside
// this package writes the status.
//
// # Architecture
//
//	Callers (TUI, CLI, poller)         Worker goroutine
//	┌──────────────────────┐          ┌──────────────────────────┐
//	│ Load / Add /         │  jobs    │ execute(job)             │
//	│ Update / Delete      │─────────→│   remote call            │
//	│   ↓                  │  (FIFO)  │   store.Set(status)      │
//	│ wait on job.done     │←─────────│   recorder hooks         │
//	└──────────────────────┘          └──────────────────────────┘
//
// There is exactly one worker per Syncer. Intents run one at a time, in the
// order they were dispatched, so two mutations can never interleave their
// remote calls and a reload always observes every mutation queued before it.
//
// # Intents
//
//	Load             Loading → ListAll → Loaded(items) | Failed(msg)
//	Add(s, p)        Create  → Load
//	Update(id, s, p) Update  → Load
//	Delete(id)       Delete  → Load
//
// Every mutating intent is "mutate remote, then fully reload": on success the
// observable status is the result of a fresh ListAll, never a locally patched
// list. When the mutation itself fails the status becomes Failed right away
// and no reload happens. The status stays untouched while a mutation is in
// flight; only the reload passes through Loading.
//
// # Failure Messages
//
// A Failed status carries the text users see. It is picked in this order:
//
//  1. Description() of a *jokesapi.Error (the server's own text, or an HTTP
//     status line for bodiless 5xx replies)
//  2. Error() of any other error
//  3. the intent's fallback (MsgLoadFailed, MsgAddFailed, ...)
//
// The full diagnostic error always goes to the standard logger.
//
// # Waiting and Shutdown
//
// Each intent method blocks until its own intent reaches a terminal status.
// The caller's ctx only bounds the wait: once queued, an intent runs to
// completion even if its caller gave up. The worker's ctx (passed to Start
// or Run) bounds the remote calls and stops the worker; after that every
// dispatch returns ErrStopped along with the last known status.
//
// # Metrics
//
// A Recorder installed with WithRecorder sees every intent start and finish
// plus the collection size after each successful load. The metrics package
// provides the Prometheus implementation.
//
// # Usage Example
//
//	s := collection.New(client, collection.WithRecorder(collector))
//	s.Start(ctx)
//
//	st, err := s.Add(ctx, "Why?", "Because.")
//	if err != nil {
//		return err // ctx expired or the syncer stopped
//	}
//	if st.Phase == state.PhaseFailed {
//		fmt.Println(st.Message)
//	}
package collection
