package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/comteq/jokes/internal/jokesapi"
)

const (
	fieldSetup = iota
	fieldPunchline
	fieldCount
)

const errFieldsRequired = "Setup and punchline are required"

// submitJokeMsg carries a validated form, text untrimmed. A nil id means add.
type submitJokeMsg struct {
	id        *int64
	setup     string
	punchline string
}

// jokeForm edits a joke's two text fields. It doubles as the add dialog
// when id is nil.
type jokeForm struct {
	id     *int64
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
}

func newJokeForm(joke *jokesapi.Joke) (jokeForm, tea.Cmd) {
	var f jokeForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 512
		in.Width = formWidth - 8
		f.inputs[i] = in
	}
	f.inputs[fieldSetup].Placeholder = "Why do programmers prefer dark mode?"
	f.inputs[fieldPunchline].Placeholder = "Because light attracts bugs."

	if joke != nil {
		if id, ok := joke.Key(); ok {
			f.id = &id
		}
		f.inputs[fieldSetup].SetValue(joke.Setup)
		f.inputs[fieldPunchline].SetValue(joke.Punchline)
	}

	cmd := f.inputs[fieldSetup].Focus()
	return f, tea.Batch(cmd, textinput.Blink)
}

func (f jokeForm) editing() bool {
	return f.id != nil
}

func (f jokeForm) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Escape):
		return f, nil, true
	case key.Matches(msg, keys.Confirm):
		if f.focus < fieldCount-1 {
			return f.setFocus(f.focus + 1), nil, false
		}
		return f.submit()
	case key.Matches(msg, keys.NextField):
		return f.setFocus((f.focus + 1) % fieldCount), nil, false
	case key.Matches(msg, keys.PrevField):
		return f.setFocus((f.focus + fieldCount - 1) % fieldCount), nil, false
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return f, cmd, false
}

func (f jokeForm) setFocus(idx int) jokeForm {
	f.inputs[f.focus].Blur()
	f.focus = idx
	f.inputs[f.focus].Focus()
	return f
}

func (f jokeForm) submit() (Modal, tea.Cmd, bool) {
	joke := jokesapi.NewJoke(f.inputs[fieldSetup].Value(), f.inputs[fieldPunchline].Value())
	if err := joke.Validate(); err != nil {
		f.err = errFieldsRequired
		return f, nil, false
	}
	// Text goes out as typed; only blank fields are rejected.
	msg := submitJokeMsg{id: f.id, setup: joke.Setup, punchline: joke.Punchline}
	return f, func() tea.Msg { return msg }, true
}

func (f jokeForm) View(theme Theme, width, _ int) string {
	styles := theme.Styles()

	title := "Add joke"
	if f.editing() {
		title = fmt.Sprintf("Edit joke %d", *f.id)
	}

	labels := [fieldCount]string{"Setup", "Punchline"}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n\n")
	for i, label := range labels {
		labelStyle := styles.MutedText
		if i == f.focus {
			labelStyle = styles.AccentText
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}
	if f.err != "" {
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("tab next field  enter save  esc cancel"))

	return dialogStyle(theme, theme.BorderFocus, width).Render(b.String())
}
