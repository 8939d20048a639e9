package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/comteq/jokes/internal/jokesapi"
	"github.com/comteq/jokes/internal/prefs"
	"github.com/comteq/jokes/internal/state"
)

// Syncer is the state machine the UI renders and dispatches intents to.
// *collection.Syncer implements it.
type Syncer interface {
	Load(ctx context.Context) (state.Status, error)
	Add(ctx context.Context, setup, punchline string) (state.Status, error)
	Update(ctx context.Context, id int64, setup, punchline string) (state.Status, error)
	Delete(ctx context.Context, id int64) (state.Status, error)
	Snapshot() state.Snapshot
	Subscribe() (<-chan state.Snapshot, func())
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Syncer    Syncer
	Prefs     prefs.Prefs
	PrefsPath string // empty uses default ~/.config/jokes/prefs.toml
	Endpoint  string // collection URL shown in the header
	LogPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	syncer    Syncer
	updates   <-chan state.Snapshot
	unsub     func()
	prefs     prefs.Prefs
	prefsPath string
	endpoint  string
	logPath   string

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	// Data state
	snapshot state.Snapshot
	selected int
	busy     int    // intents dispatched by the UI and not yet finished
	notice   string // outcome of the last UI-dispatched intent

	spinner spinner.Model
	modal   Modal

	showHelp bool

	showLogs bool
	logView  viewport.Model
	logErr   error
}

// New creates a new Bubble Tea model and subscribes to the syncer.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	userPrefs := opts.Prefs
	if userPrefs.Theme == "" {
		userPrefs = prefs.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		syncer:    opts.Syncer,
		prefs:     userPrefs,
		prefsPath: prefsPath,
		endpoint:  opts.Endpoint,
		logPath:   opts.LogPath,
		theme:     GetTheme(userPrefs.Theme),
		keys:      DefaultKeyMap(),
		spinner:   sp,
		unsub:     func() {},
	}
	if m.syncer != nil {
		m.snapshot = m.syncer.Snapshot()
		m.updates, m.unsub = m.syncer.Subscribe()
	}
	return m
}

// Close releases the status subscription.
func (m Model) Close() {
	m.unsub()
}

// Init implements tea.Model. The collection is loaded as soon as the screen
// opens.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.updates != nil {
		cmds = append(cmds, waitForSnapshot(m.updates))
	}
	if m.syncer != nil {
		cmds = append(cmds, m.dispatchLoad())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.logView = viewport.New(m.logViewWidth(), m.logViewHeight())
		} else {
			m.logView.Width = m.logViewWidth()
			m.logView.Height = m.logViewHeight()
		}
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		return m, waitForSnapshot(m.updates)

	case intentDoneMsg:
		return m.handleIntentDone(msg), nil

	case submitJokeMsg:
		return m.handleSubmit(msg)

	case deleteConfirmedMsg:
		return m.dispatchDelete(msg.id)

	case logsMsg:
		m.logErr = msg.err
		m.logView.SetContent(strings.Join(msg.lines, "\n"))
		m.logView.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}
	if m.modal != nil {
		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			m.modal.View(m.theme, m.width, m.height),
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
		)
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.showLogs {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		return m, readLogsCmd(m.logPath)
	case key.Matches(msg, m.keys.Reload):
		return m, m.dispatchLoad()
	case key.Matches(msg, m.keys.Add):
		form, cmd := newJokeForm(nil)
		m.modal = form
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		joke, _, ok := m.selectedTarget()
		if !ok {
			return m, nil
		}
		form, cmd := newJokeForm(&joke)
		m.modal = form
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		joke, id, ok := m.selectedTarget()
		if !ok {
			return m, nil
		}
		if !m.prefs.ConfirmDelete {
			return m.dispatchDelete(id)
		}
		m.modal = confirmDelete{id: id, setup: joke.Setup}
		return m, nil
	}

	return m.handleListKey(msg), nil
}

func (m Model) handleListKey(msg tea.KeyMsg) Model {
	count := len(m.items())
	if count == 0 {
		return m
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	}
	return m
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Quit):
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.showLogs = false
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, readLogsCmd(m.logPath)
	}
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

// selectedTarget returns the highlighted record when it can be edited or
// deleted. Records without an id cannot be targeted.
func (m *Model) selectedTarget() (jokesapi.Joke, int64, bool) {
	items := m.items()
	if m.selected < 0 || m.selected >= len(items) {
		return jokesapi.Joke{}, 0, false
	}
	joke := items[m.selected]
	id, ok := joke.Key()
	if !ok {
		m.notice = "Selected joke has no id yet"
		return jokesapi.Joke{}, 0, false
	}
	return joke, id, true
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

func (m *Model) clampSelection() {
	count := len(m.items())
	if m.selected >= count {
		m.selected = count - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// items returns the records on screen; empty unless the status is Loaded.
func (m Model) items() []jokesapi.Joke {
	if m.snapshot.Status.Phase != state.PhaseLoaded {
		return nil
	}
	return m.snapshot.Status.Items
}

func (m Model) handleSubmit(msg submitJokeMsg) (tea.Model, tea.Cmd) {
	if m.syncer == nil {
		return m, nil
	}
	m.busy++
	if msg.id == nil {
		return m, m.intentCmd("add", func(ctx context.Context) (state.Status, error) {
			return m.syncer.Add(ctx, msg.setup, msg.punchline)
		})
	}
	id := *msg.id
	return m, m.intentCmd("update", func(ctx context.Context) (state.Status, error) {
		return m.syncer.Update(ctx, id, msg.setup, msg.punchline)
	})
}

func (m Model) dispatchDelete(id int64) (tea.Model, tea.Cmd) {
	if m.syncer == nil {
		return m, nil
	}
	m.busy++
	return m, m.intentCmd("delete", func(ctx context.Context) (state.Status, error) {
		return m.syncer.Delete(ctx, id)
	})
}

func (m Model) dispatchLoad() tea.Cmd {
	if m.syncer == nil {
		return nil
	}
	return m.intentCmd("load", m.syncer.Load)
}

func (m Model) handleIntentDone(msg intentDoneMsg) Model {
	if msg.intent != "load" && m.busy > 0 {
		m.busy--
	}
	switch {
	case msg.err != nil:
		if !errors.Is(msg.err, context.Canceled) {
			m.notice = fmt.Sprintf("%s: %v", msg.intent, msg.err)
		}
	case msg.status.Phase == state.PhaseFailed:
		m.notice = ""
	default:
		m.notice = noticeFor(msg.intent)
	}
	return m
}

func noticeFor(intent string) string {
	switch intent {
	case "add":
		return "Joke added"
	case "update":
		return "Joke updated"
	case "delete":
		return "Joke deleted"
	default:
		return ""
	}
}

func (m Model) intentCmd(intent string, run func(context.Context) (state.Status, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		st, err := run(ctx)
		return intentDoneMsg{intent: intent, status: st, err: err}
	}
}

func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderCollection())
	return b.String()
}

// Messages

type snapshotMsg state.Snapshot

type intentDoneMsg struct {
	intent string
	status state.Status
	err    error
}

type logsMsg struct {
	lines []string
	err   error
}

// Commands

// waitForSnapshot blocks on the subscription and delivers the next status.
// A closed subscription ends the chain.
func waitForSnapshot(updates <-chan state.Snapshot) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	start := time.Now()
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		err = nil
	}
	log.Printf("ui closed after %s", time.Since(start).Round(time.Second))
	return err
}
