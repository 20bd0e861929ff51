package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/infblueocean/feello/internal/deck"
	"github.com/infblueocean/feello/internal/otel"
	"github.com/infblueocean/feello/internal/question"
)

// Options configures an App.
type Options struct {
	// ShuffleDuration is how long the shuffle animation runs before the new
	// order is committed. Zero commits immediately.
	ShuffleDuration time.Duration
	// ReduceMotion disables the card slide.
	ReduceMotion bool
	Events       *otel.Logger
	Ring         *otel.RingBuffer
}

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT talk to the question store. Collections arrive as
// QuestionsLoaded messages; all deck mutations happen inside Update.
type App struct {
	engine *deck.Engine
	opts   Options

	help    help.Model
	spinner spinner.Model
	slide   slide
	dir     deck.Direction

	loaded   bool
	source   Source
	storeErr error
	notice   string

	shuffleSeq int

	width     int
	height    int
	ready     bool
	showHelp  bool
	showDebug bool
}

// NewApp creates an App around engine.
func NewApp(engine *deck.Engine, opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StatusBarKey
	return App{
		engine:  engine,
		opts:    opts,
		help:    help.New(),
		spinner: sp,
		slide:   newSlide(),
	}
}

// Init starts the loading spinner.
func (a App) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a.opts.Events.TraceMsg(otel.KindMsgReceived, msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.ready = true
		return a, nil

	case QuestionsLoaded:
		a.engine.SetCollection(msg.Questions)
		a.loaded = true
		a.source = msg.Source
		if msg.Source == SourceRemote {
			a.storeErr = nil
		}
		return a, nil

	case StoreStatus:
		a.storeErr = msg.Err
		return a, nil

	case shuffleDone:
		if msg.seq == a.shuffleSeq && a.engine.Shuffling() {
			a.engine.CommitShuffle()
			a.dir = deck.DirNone
		}
		return a, nil

	case frameTick:
		if a.slide.step() {
			return a, frameCmd()
		}
		return a, nil

	case spinner.TickMsg:
		// The spinner only runs while loading or shuffling; dropping the
		// tick stops it.
		if a.loaded && !a.engine.Shuffling() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.notice = ""
	a.opts.Events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindKeyPress, Comp: "ui", Msg: msg.String()})

	if key.Matches(msg, keys.Quit) {
		return a, tea.Quit
	}

	if a.engine.ResetPending() {
		switch {
		case key.Matches(msg, keys.Confirm):
			a.engine.ConfirmReset()
			a.dir = deck.DirNone
		case key.Matches(msg, keys.Cancel):
			a.engine.CancelReset()
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Debug):
		a.showDebug = !a.showDebug
		return a, nil
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil
	}

	if !a.loaded {
		return a, nil
	}

	if a.engine.Snapshot().Terminal() {
		switch {
		case key.Matches(msg, keys.Prev):
			return a.navigate(deck.DirBackward)
		case key.Matches(msg, keys.Reset):
			a.engine.RequestReset()
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Next):
		return a.navigate(deck.DirForward)

	case key.Matches(msg, keys.Prev):
		return a.navigate(deck.DirBackward)

	case key.Matches(msg, keys.Shuffle):
		return a.startShuffle()

	case key.Matches(msg, keys.Themes):
		return a.toggleTheme(msg.String())

	case key.Matches(msg, keys.AllTheme):
		a.engine.SelectAll()
		a.dir = deck.DirNone
		return a, nil

	case key.Matches(msg, keys.Reset):
		a.engine.RequestReset()
		return a, nil
	}

	return a, nil
}

func (a App) navigate(dir deck.Direction) (tea.Model, tea.Cmd) {
	var moved bool
	if dir == deck.DirForward {
		moved = a.engine.Advance()
	} else {
		moved = a.engine.Retreat()
	}
	if !moved {
		return a, nil
	}
	a.dir = dir
	if a.opts.ReduceMotion {
		return a, nil
	}
	wasActive := a.slide.active
	a.slide.start(dir, max(8, a.width/4))
	if wasActive {
		// The running frame loop picks up the new target.
		return a, nil
	}
	return a, frameCmd()
}

func (a App) startShuffle() (tea.Model, tea.Cmd) {
	if a.opts.ShuffleDuration <= 0 {
		a.engine.ShuffleRemaining()
		return a, nil
	}
	if !a.engine.BeginShuffle() {
		return a, nil
	}
	a.shuffleSeq++
	seq := a.shuffleSeq
	done := tea.Tick(a.opts.ShuffleDuration, func(time.Time) tea.Msg {
		return shuffleDone{seq: seq}
	})
	return a, tea.Batch(done, a.spinner.Tick)
}

func (a App) toggleTheme(k string) (tea.Model, tea.Cmd) {
	i := int(k[0] - '1')
	themes := question.AllThemes()
	if i < 0 || i >= len(themes) {
		return a, nil
	}
	if !a.engine.ToggleTheme(themes[i]) {
		a.notice = "At least one theme must stay selected."
		return a, nil
	}
	a.dir = deck.DirNone
	return a, nil
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.showDebug {
		return lipgloss.JoinVertical(lipgloss.Left,
			debugOverlay(a.opts.Ring, a.width, a.height-1),
			debugStatusBar(a.width),
		)
	}

	s := a.engine.Snapshot()

	footer := a.renderStatusBar(s)
	if bar := a.renderErrorBar(); bar != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, bar, footer)
	}
	if a.showHelp {
		footer = lipgloss.JoinVertical(lipgloss.Left, HelpStyle.Render(a.help.View(a.helpKeys(s))), footer)
	}
	bodyHeight := max(1, a.height-lipgloss.Height(footer))

	var body string
	switch {
	case s.ResetPending:
		body = renderModal(a.width, bodyHeight)
	case !a.loaded:
		body = lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center,
			a.spinner.View()+" Chargement des questions…")
	case s.Terminal():
		body = renderEnd(s, a.width, bodyHeight)
	case s.Shuffling:
		body = lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center,
			a.spinner.View()+" Mélange…")
	default:
		body = renderDeck(s, a.dir, a.slide.offset(), a.width, bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (a App) helpKeys(s deck.Snapshot) help.KeyMap {
	if s.Terminal() {
		return endKeys{keys}
	}
	return keys
}

func (a App) renderErrorBar() string {
	switch {
	case a.notice != "":
		return ErrorStyle.Width(a.width).Render(a.notice)
	case a.storeErr != nil:
		msg := "Store unavailable: " + a.storeErr.Error()
		if a.source == SourceSeed {
			msg += " (playing the bundled questions)"
		}
		return ErrorStyle.Width(a.width).Render(truncateRunes(msg, max(10, a.width-2)))
	}
	return ""
}

// Snapshot exposes the deck state (for testing).
func (a App) Snapshot() deck.Snapshot {
	return a.engine.Snapshot()
}

// Source returns where the current collection came from.
func (a App) Source() Source {
	return a.source
}

// StoreErr returns the last store problem, if any.
func (a App) StoreErr() error {
	return a.storeErr
}

// Notice returns the transient message shown after a refused action.
func (a App) Notice() string {
	return a.notice
}

// Direction returns the last navigation direction.
func (a App) Direction() deck.Direction {
	return a.dir
}

// ShowingDebug reports whether the debug overlay is open.
func (a App) ShowingDebug() bool {
	return a.showDebug
}
