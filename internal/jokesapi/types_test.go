package jokesapi

import (
	"encoding/json"
	"testing"
)

func TestJoke_EqualKeysOnID(t *testing.T) {
	a := NewJoke("Why?", "Because.").WithID(1)
	b := NewJoke("Different", "Text").WithID(1)
	c := NewJoke("Why?", "Because.").WithID(2)
	unsaved := NewJoke("Why?", "Because.")

	if !a.Equal(b) {
		t.Fatalf("records with the same id should be equal")
	}
	if a.Equal(c) {
		t.Fatalf("records with different ids should differ")
	}
	if a.Equal(unsaved) || unsaved.Equal(a) {
		t.Fatalf("persisted and unpersisted records should differ")
	}
	if !unsaved.Equal(NewJoke("Why?", "Because.")) {
		t.Fatalf("unpersisted records with equal text should be equal")
	}
	if unsaved.Equal(NewJoke("Why?", "Nope.")) {
		t.Fatalf("unpersisted records with different text should differ")
	}
}

func TestJoke_WithIDDoesNotAlias(t *testing.T) {
	base := NewJoke("a", "b")
	one := base.WithID(1)
	two := one.WithID(2)
	if id, _ := one.Key(); id != 1 {
		t.Fatalf("WithID mutated the original: got %d", id)
	}
	if base.HasID() {
		t.Fatalf("WithID mutated the receiver")
	}
	if id, _ := two.Key(); id != 2 {
		t.Fatalf("Key = %d, want 2", id)
	}
}

func TestCloneAll_DeepCopiesIDs(t *testing.T) {
	items := []Joke{NewJoke("a", "b").WithID(1), NewJoke("c", "d")}
	dup := CloneAll(items)
	*dup[0].ID = 99
	if *items[0].ID != 1 {
		t.Fatalf("CloneAll shared id pointer")
	}
	if CloneAll(nil) != nil {
		t.Fatalf("CloneAll(nil) should be nil")
	}
}

func TestJoke_Validate(t *testing.T) {
	cases := []struct {
		name    string
		joke    Joke
		wantErr bool
	}{
		{"ok", NewJoke("Why?", "Because."), false},
		{"blank setup", NewJoke("  ", "Because."), true},
		{"blank punchline", NewJoke("Why?", "\t"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.joke.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestJoke_WireFormat(t *testing.T) {
	raw, err := json.Marshal(NewJoke("A", "B"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `{"setup":"A","punchline":"B"}` {
		t.Fatalf("unsaved record encodes as %s", raw)
	}

	var decoded Joke
	if err := json.Unmarshal([]byte(`{"id":5,"setup":"A","punchline":"B"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if id, ok := decoded.Key(); !ok || id != 5 {
		t.Fatalf("decoded id = %v, want 5", decoded.ID)
	}
}
