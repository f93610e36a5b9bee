package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/kanban/internal/board"
	"github.com/five82/kanban/internal/logtail"
	"github.com/five82/kanban/internal/prefs"
	"github.com/five82/kanban/internal/state"
	"github.com/five82/kanban/internal/syncer"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Syncer    *syncer.Syncer
	Logger    *zap.Logger
	APIBind   string // shown in the header
	ThemeName string
	FocusList string // list id to focus on start
	PrefsPath string
	LogFile   string // enables the log view when set
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	sync      *syncer.Syncer
	store     *state.Store
	logger    *zap.Logger
	keys      keyMap
	apiBind   string
	prefsPath string
	logFile   string
	tick      time.Duration

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Data state
	snapshot state.Snapshot
	loading  bool

	// Selection: focused column and the selected row of every list.
	col  int
	rows map[string]int

	drag  *dragState
	modal Modal

	showHelp bool

	// Log view
	showLogs    bool
	logViewport viewport.Model
	logEntries  []logtail.Entry
	logReadAt   time.Time

	// Transient message in the command bar
	flash      string
	flashError bool
	flashAt    time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}

	m := Model{
		ctx:       ctx,
		sync:      opts.Syncer,
		store:     opts.Syncer.Store(),
		logger:    logger,
		keys:      DefaultKeyMap(),
		apiBind:   opts.APIBind,
		prefsPath: prefsPath,
		logFile:   opts.LogFile,
		tick:      tick,
		theme:     GetTheme(themeName),
		rows:      make(map[string]int),
	}
	m.refresh()
	if opts.FocusList != "" {
		if idx := m.snapshot.Board.ListIndex(opts.FocusList); idx >= 0 {
			m.col = idx
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.tick),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case tickMsg:
		m.refresh()
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.showLogs && time.Since(m.logReadAt) >= LogRefreshInterval {
			cmds = append(cmds, m.readLogsCmd())
		}
		return m, tea.Batch(cmds...)

	case loadDoneMsg:
		m.loading = false
		m.refresh()
		if msg.err != nil {
			m.setFlash("reload failed: "+msg.err.Error(), true)
		} else {
			m.setFlash("board reloaded", false)
		}
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case formSubmitMsg:
		m.handleFormSubmit(msg)
		return m, nil

	case deleteConfirmedMsg:
		m.handleDelete(msg.id)
		return m, nil
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

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.drag != nil {
		return m.handleDragKey(msg)
	}

	if m.showLogs {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.loadCmd()

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		m.resizeLogViewport()
		return m, m.readLogsCmd()
	}

	return m.handleBoardKey(msg)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.savePrefs()
	return m, tea.Quit
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name}
	if list, ok := m.focusedList(); ok {
		p.FocusList = list.ID
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err))
	}
}

// refresh pulls the latest snapshot from the store.
func (m *Model) refresh() {
	m.snapshot = m.store.Snapshot()
	m.clampSelection()
}

func (m *Model) setFlash(text string, isError bool) {
	m.flash = text
	m.flashError = isError
	m.flashAt = time.Now()
}

// reportError shows err in the command bar. Engine errors are expected user
// mistakes; anything else is logged as well.
func (m *Model) reportError(action string, err error) {
	m.setFlash(action+": "+err.Error(), true)
	if errors.Is(err, board.ErrInvalidReference) || errors.Is(err, board.ErrUnknownList) ||
		errors.Is(err, board.ErrEmptyText) || errors.Is(err, syncer.ErrNothingToUndo) {
		return
	}
	m.logger.Warn("board action failed", zap.String("action", action), zap.Error(err))
}

func (m *Model) handleFormSubmit(msg formSubmitMsg) {
	switch msg.mode {
	case formAdd:
		item, err := m.sync.Add(msg.text, msg.listID)
		if err != nil {
			m.reportError("add", err)
			return
		}
		m.refresh()
		if loc, ok := m.snapshot.Board.Find(item.ID); ok {
			m.focus(loc)
		}
		m.setFlash(fmt.Sprintf("added to %s", m.listLabel(msg.listID)), false)

	case formEdit:
		if _, err := m.sync.Edit(msg.itemID, msg.text); err != nil {
			m.reportError("edit", err)
			return
		}
		m.refresh()
		m.setFlash("item updated", false)
	}
}

func (m *Model) handleDelete(id string) {
	item, err := m.sync.Delete(id)
	if err != nil {
		m.reportError("delete", err)
		return
	}
	m.refresh()
	m.setFlash(fmt.Sprintf("deleted %q", truncate(item.Text, 30)), false)
}

func (m *Model) listLabel(listID string) string {
	if l, ok := m.snapshot.Board.List(listID); ok {
		return l.Label()
	}
	return listID
}

// Messages

type tickMsg time.Time

type loadDoneMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) loadCmd() tea.Cmd {
	ctx, s := m.ctx, m.sync
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ReloadTimeout)
		defer cancel()
		return loadDoneMsg{err: s.Load(ctx)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
