package ui

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"refract/filter"
	"refract/internal/config"
	"refract/internal/domain"
	"refract/internal/eventbus"
	"refract/internal/shell"
	"refract/internal/ui/state"
	"refract/internal/ui/views"
	"refract/reactive"
	"refract/runner"
)

// Model represents the UI state
type Model struct {
	bus      eventbus.EventBus
	config   *config.Config
	state    *state.AppState
	renderer *views.Renderer

	// Reactive helpers driving the list and the run key
	entries     *reactive.Ref[[]domain.Entry]
	entryFilter *filter.Filter[domain.Entry]
	busy        *reactive.Ref[bool] // run key disabled while a run is in flight
	runEntry    *reactive.Ref[domain.Entry]
	run         *runner.Runner[domain.RunResult]

	// Bubbles components
	textInput textinput.Model
	spin      spinner.Model

	pagerOps *PagerOps

	width  int
	height int
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, shellSvc shell.Service) *Model {
	appState := state.NewAppState()

	entries := reactive.NewRef(cfg.DomainEntries())
	entryFilter := filter.New(entries, filter.Fields[domain.Entry]("Name", "Command", "Tags"), filter.Options{
		CaseSensitive: cfg.UISettings.CaseSensitiveFilter,
		Strict:        cfg.UISettings.StrictFilter,
		Trim:          true,
	})

	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	busy := reactive.NewRef(false)
	runEntry := reactive.NewRef(domain.Entry{})

	m := &Model{
		bus:         bus,
		config:      cfg,
		state:       appState,
		renderer:    views.NewRenderer(),
		entries:     entries,
		entryFilter: entryFilter,
		busy:        busy,
		runEntry:    runEntry,
		textInput:   ti,
		spin:        sp,
		pagerOps:    NewPagerOps(),
	}

	m.run = runner.New(func(ctx context.Context) (domain.RunResult, error) {
		return shellSvc.Run(ctx, runEntry.Get())
	}, runner.Options{Disabled: busy})

	// The run key disables itself while the runner is pending
	m.run.Pending().Subscribe(func(pending bool) {
		busy.Set(pending)
	})

	return m
}

// SetProgram sets the program reference used for pager terminal handoff
func (m *Model) SetProgram(p *tea.Program) {
	m.pagerOps.SetProgram(p)
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.state.ViewportHeight = msg.Height - 6
		if m.state.ViewportHeight < 1 {
			m.state.ViewportHeight = 1
		}
		return m, nil

	case tea.KeyMsg:
		if m.state.FilterActive {
			return m.handleFilterKey(msg)
		}
		return m.handleNormalKey(msg)

	case spinner.TickMsg:
		if !m.run.Pending().Get() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case runFinishedMsg:
		// Output and error state are picked up from the runner's
		// observables and the RunCompleted bus event; this message only
		// forces a repaint at settlement.
		return m, nil

	case pagerFinishedMsg:
		if msg.err != nil {
			log.Printf("Pager failed: %v", msg.err)
			m.state.StatusMessage = "pager failed: " + msg.err.Error()
		}
		return m, nil

	case EventMsg:
		return m.handleEvent(msg.Event)
	}

	return m, nil
}

// View implements tea.Model
func (m *Model) View() string {
	visible := m.entryFilter.Result().Get()
	m.state.ClampSelection(len(visible))
	m.state.EnsureVisible()

	vs := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Entries:        visible,
		TotalEntries:   len(m.entries.Get()),
		SelectedIndex:  m.state.SelectedIndex,
		ViewportOffset: m.state.ViewportOffset,
		ViewportHeight: m.state.ViewportHeight,
		FilterActive:   m.state.FilterActive,
		FilterQuery:    m.entryFilter.Query().Get(),
		FilterInput:    m.textInput.View(),
		Pending:        m.run.Pending().Get(),
		Spinner:        m.spin.View(),
		RunningName:    m.runEntry.Get().Name,
		LastRun:        m.state.LastRun,
		StatusMessage:  m.state.StatusMessage,
		ShowHelp:       m.state.ShowHelp,
		ShowTimings:    m.config.UISettings.ShowTimings,
	}
	if failure := m.run.LastError().Get(); failure != nil {
		vs.LastError = failure.Message
	}

	return m.renderer.Render(vs)
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.entryFilter.Result().Get()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		m.state.SelectedIndex--
		m.state.ClampSelection(len(visible))
		m.state.EnsureVisible()

	case "down", "j":
		m.state.SelectedIndex++
		m.state.ClampSelection(len(visible))
		m.state.EnsureVisible()

	case "g":
		m.state.SelectedIndex = 0
		m.state.EnsureVisible()

	case "G":
		m.state.SelectedIndex = len(visible) - 1
		m.state.ClampSelection(len(visible))
		m.state.EnsureVisible()

	case "/":
		m.state.FilterActive = true
		m.state.StatusMessage = ""
		m.textInput.SetValue(m.entryFilter.Query().Get())
		m.textInput.Focus()
		return m, textinput.Blink

	case "esc":
		m.entryFilter.Query().Set("")
		m.textInput.Reset()

	case "enter":
		return m, m.runSelected(visible)

	case "o":
		return m, m.showLastOutput()

	case "?":
		m.state.ShowHelp = !m.state.ShowHelp
	}

	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		// Cancel: drop the query and return to normal mode
		m.entryFilter.Query().Set("")
		m.textInput.Blur()
		m.textInput.Reset()
		m.state.FilterActive = false
		return m, nil

	case "enter":
		// Accept the filter as it stands
		m.textInput.Blur()
		m.state.FilterActive = false
		return m, nil

	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		m.entryFilter.Query().Set(m.textInput.Value())
		m.state.ClampSelection(len(m.entryFilter.Result().Get()))
		m.state.EnsureVisible()
		return m, cmd
	}
}

// runSelected starts the selected entry through the action runner
func (m *Model) runSelected(visible []domain.Entry) tea.Cmd {
	if len(visible) == 0 {
		return nil
	}
	if m.busy.Get() {
		m.state.StatusMessage = "a run is already in flight"
		return nil
	}

	entry := visible[m.state.SelectedIndex]
	m.runEntry.Set(entry)
	m.state.StatusMessage = ""

	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			result, err := m.run.Run(context.Background())
			return runFinishedMsg{result: result, err: err}
		},
	)
}

// showLastOutput opens the most recent run's output in the pager
func (m *Model) showLastOutput() tea.Cmd {
	if m.state.LastRun == nil {
		m.state.StatusMessage = "nothing has run yet"
		return nil
	}

	content := m.state.LastRun.Output
	if content == "" {
		content = "(no output)"
	}

	return func() tea.Msg {
		return pagerFinishedMsg{err: m.pagerOps.ShowInPager(content)}
	}
}

// handleEvent processes domain events forwarded from the bus
func (m *Model) handleEvent(event eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case eventbus.RunCompletedEvent:
		m.state.RecordRun(e.Result)

	case eventbus.ConfigLoadedEvent:
		m.entries.Set(e.Entries)
		m.state.ClampSelection(len(m.entryFilter.Result().Get()))

	case eventbus.ErrorEvent:
		m.state.StatusMessage = e.Message
	}

	return m, nil
}
