// Package tui is the terminal dashboard of the app store.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slok/appstore/internal/gate"
	"github.com/slok/appstore/internal/log"
	"github.com/slok/appstore/internal/model"
	"github.com/slok/appstore/internal/orchestrator"
	"github.com/slok/appstore/internal/printer"
)

// Orchestrator is the intent dispatch interface the dashboard drives.
type Orchestrator interface {
	Snapshot() orchestrator.Snapshot
	Categorize(ctx context.Context) error
	Clone(ctx context.Context) error
	ViewDashboard() error
	InstallDependencies(ctx context.Context) error
	Run(ctx context.Context) error
	ViewReadme(ctx context.Context) error
	SelectItem(name string)
	ApplyFilter(criteria model.FilterCriteria)
	ClearFilters()
}

// Config is the dashboard configuration.
type Config struct {
	Orchestrator Orchestrator
	// Events are the orchestrator events, normally from an EventBridge.
	Events <-chan model.Event
	// Color enables colored output.
	Color bool
	// Hosted disables the alternate screen, hosted notebook terminals don't support it.
	Hosted bool
	// Clipboard copies text to the system clipboard.
	Clipboard func(text string) error
	Logger    log.Logger
}

func (c *Config) defaults() error {
	if c.Orchestrator == nil {
		return fmt.Errorf("orchestrator is required")
	}

	if c.Clipboard == nil {
		c.Clipboard = clipboard.WriteAll
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "tui.Dashboard"})

	return nil
}

const (
	defaultWidth  = 100
	defaultHeight = 30
	listMinWidth  = 28
)

// Model is the dashboard Bubble Tea model.
type Model struct {
	ctx       context.Context
	orch      Orchestrator
	events    <-chan model.Event
	clipboard func(string) error
	logger    log.Logger
	color     bool

	keys    keyMap
	styles  styles
	help    help.Model
	search  textinput.Model
	bar     progress.Model
	spinner spinner.Model
	output  viewport.Model
	md      *printer.MarkdownRenderer

	snap         orchestrator.Snapshot
	renderedOut  model.Output
	cursor       int
	categories   map[model.Category]struct{}
	kinds        map[string]struct{}
	kindCursor   int
	notice       string
	width        int
	height       int
	searchActive bool
}

// NewModel returns the dashboard model.
func NewModel(ctx context.Context, cfg Config) (Model, error) {
	if err := cfg.defaults(); err != nil {
		return Model{}, fmt.Errorf("invalid config: %w", err)
	}

	search := textinput.New()
	search.Placeholder = "search apps"
	search.Prompt = "/ "
	search.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	barOpts := []progress.Option{progress.WithoutPercentage()}
	if cfg.Color {
		barOpts = append(barOpts, progress.WithDefaultGradient())
	} else {
		barOpts = append(barOpts, progress.WithSolidFill("7"))
	}

	m := Model{
		ctx:        ctx,
		orch:       cfg.Orchestrator,
		events:     cfg.Events,
		clipboard:  cfg.Clipboard,
		logger:     cfg.Logger,
		color:      cfg.Color,
		keys:       defaultKeyMap,
		styles:     newStyles(cfg.Color),
		help:       help.New(),
		search:     search,
		bar:        progress.New(barOpts...),
		spinner:    sp,
		output:     viewport.New(defaultWidth, defaultHeight),
		categories: map[model.Category]struct{}{},
		kinds:      map[string]struct{}{},
	}
	m.resize(defaultWidth, defaultHeight)
	m.refresh()

	return m, nil
}

type intentDoneMsg struct {
	intent gate.Control
	err    error
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case eventMsg:
		m.refresh()
		return m, waitForEvent(m.events)

	case intentDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, model.ErrBusy) {
			m.logger.Debugf("%s intent finished with error: %s", msg.intent, msg.err)
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searchActive {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searchActive = false
		m.search.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(m.snap.Items) {
			m.orch.SelectItem(m.snap.Items[m.cursor].Name)
			m.refresh()
		}

	case key.Matches(msg, m.keys.Search):
		m.searchActive = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Category):
		cat, err := model.ParseCategory(msg.String())
		if err == nil {
			toggle(m.categories, cat)
			m.applyFilter()
		}

	case key.Matches(msg, m.keys.NextKind):
		if len(m.snap.Kinds) > 0 {
			m.kindCursor = (m.kindCursor + 1) % len(m.snap.Kinds)
		}

	case key.Matches(msg, m.keys.ToggleKind):
		if m.kindCursor < len(m.snap.Kinds) {
			toggle(m.kinds, m.snap.Kinds[m.kindCursor])
			m.applyFilter()
		}

	case key.Matches(msg, m.keys.ClearFilters):
		m.categories = map[model.Category]struct{}{}
		m.kinds = map[string]struct{}{}
		m.search.SetValue("")
		m.orch.ClearFilters()
		m.refresh()

	case key.Matches(msg, m.keys.Categorize):
		return m, m.dispatch(gate.ControlCategorize, m.orch.Categorize)

	case key.Matches(msg, m.keys.Clone):
		return m, m.dispatch(gate.ControlClone, m.orch.Clone)

	case key.Matches(msg, m.keys.ViewDashboard):
		return m, m.dispatch(gate.ControlViewDashboard, func(context.Context) error { return m.orch.ViewDashboard() })

	case key.Matches(msg, m.keys.Install):
		return m, m.dispatch(gate.ControlInstallDeps, m.orch.InstallDependencies)

	case key.Matches(msg, m.keys.Run):
		return m, m.dispatch(gate.ControlRun, m.orch.Run)

	case key.Matches(msg, m.keys.ViewReadme):
		return m, m.dispatch(gate.ControlViewReadme, m.orch.ViewReadme)

	case key.Matches(msg, m.keys.Copy):
		m.copyOutput()

	case key.Matches(msg, m.keys.ScrollUp):
		m.output.SetYOffset(m.output.YOffset - m.output.Height/2)

	case key.Matches(msg, m.keys.ScrollDown):
		m.output.SetYOffset(m.output.YOffset + m.output.Height/2)
	}

	return m, nil
}

// dispatch runs the intent in the background, disabled controls are ignored.
func (m Model) dispatch(ctrl gate.Control, intent func(context.Context) error) tea.Cmd {
	if !m.snap.Controls.Enabled(ctrl) {
		return nil
	}

	ctx := m.ctx
	return func() tea.Msg {
		return intentDoneMsg{intent: ctrl, err: intent(ctx)}
	}
}

func (m *Model) applyFilter() {
	cats := make([]model.Category, 0, len(m.categories))
	for c := range m.categories {
		cats = append(cats, c)
	}
	kinds := make([]string, 0, len(m.kinds))
	for k := range m.kinds {
		kinds = append(kinds, k)
	}

	m.orch.ApplyFilter(model.NewFilterCriteria(m.search.Value(), cats, kinds))
	m.refresh()
}

func (m *Model) copyOutput() {
	if m.snap.Output.Body == "" {
		m.notice = "Nothing to copy"
		return
	}

	if err := m.clipboard(m.snap.Output.Body); err != nil {
		m.logger.Warningf("Could not copy to clipboard: %s", err)
		m.notice = fmt.Sprintf("Could not copy to clipboard: %s", err)
		return
	}
	m.notice = fmt.Sprintf("Copied %q to clipboard", m.snap.Output.Title)
}

// refresh reads the orchestrator state and updates the widgets that depend on it.
func (m *Model) refresh() {
	m.snap = m.orch.Snapshot()

	if m.cursor >= len(m.snap.Items) {
		m.cursor = max(len(m.snap.Items)-1, 0)
	}
	if m.kindCursor >= len(m.snap.Kinds) {
		m.kindCursor = 0
	}

	if m.snap.Output != m.renderedOut {
		m.renderedOut = m.snap.Output
		m.renderOutput()
	}
}

func (m *Model) renderOutput() {
	if m.renderedOut.Body == "" {
		m.output.SetContent("")
		return
	}

	body := m.renderedOut.Body
	if m.md != nil {
		body = m.md.Render(fmt.Sprintf("## %s\n\n%s", m.renderedOut.Title, m.renderedOut.Body))
	}
	m.output.SetContent(body)
	m.output.GotoTop()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	listWidth := max(width*2/5, listMinWidth)
	outWidth := max(width-listWidth-4, 20)
	// Header, controls, filters, progress, status and help lines.
	chrome := 12
	if m.help.ShowAll {
		chrome += 5
	}
	bodyHeight := max(height-chrome, 5)

	m.output.Width = outWidth
	m.output.Height = bodyHeight
	m.bar.Width = max(width-20, 10)
	m.help.Width = width

	md, err := printer.NewMarkdownRenderer(outWidth-2, m.color)
	if err != nil {
		m.logger.Warningf("Markdown rendering disabled: %s", err)
		md = nil
	}
	m.md = md
	m.renderOutput()
}

func toggle[K comparable](set map[K]struct{}, k K) {
	if _, ok := set[k]; ok {
		delete(set, k)
		return
	}
	set[k] = struct{}{}
}
