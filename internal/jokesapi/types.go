package jokesapi

import (
	"errors"
	"strings"
)

// Joke mirrors a record of the remote jokes collection.
// ID is nil until the server has persisted the record.
type Joke struct {
	ID        *int64 `json:"id,omitempty"`
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

// NewJoke builds a record that has not been persisted yet.
func NewJoke(setup, punchline string) Joke {
	return Joke{Setup: setup, Punchline: punchline}
}

// WithID returns a copy of j carrying the given server id.
func (j Joke) WithID(id int64) Joke {
	j.ID = &id
	return j
}

// Key returns the server id and whether one has been assigned.
func (j Joke) Key() (int64, bool) {
	if j.ID == nil {
		return 0, false
	}
	return *j.ID, true
}

// HasID reports whether the record can be targeted for update or delete.
func (j Joke) HasID() bool {
	return j.ID != nil
}

// Equal compares records by id once assigned. Records without an id are only
// equal to other unpersisted records with the same text.
func (j Joke) Equal(other Joke) bool {
	a, okA := j.Key()
	b, okB := other.Key()
	switch {
	case okA && okB:
		return a == b
	case okA != okB:
		return false
	default:
		return j.Setup == other.Setup && j.Punchline == other.Punchline
	}
}

// Clone returns a deep copy, including the id pointer.
func (j Joke) Clone() Joke {
	if j.ID != nil {
		id := *j.ID
		j.ID = &id
	}
	return j
}

// CloneAll deep-copies a slice of records. Empty input yields nil.
func CloneAll(items []Joke) []Joke {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Joke, len(items))
	for i, item := range items {
		dup[i] = item.Clone()
	}
	return dup
}

var (
	errBlankSetup     = errors.New("setup must not be blank")
	errBlankPunchline = errors.New("punchline must not be blank")
)

// Validate reports blank text fields. Input screens call it before
// dispatching; the model itself accepts any text.
func (j Joke) Validate() error {
	if strings.TrimSpace(j.Setup) == "" {
		return errBlankSetup
	}
	if strings.TrimSpace(j.Punchline) == "" {
		return errBlankPunchline
	}
	return nil
}
