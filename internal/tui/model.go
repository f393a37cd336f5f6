package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/orrery/internal/layout"
	"github.com/papapumpkin/orrery/internal/lean"
	"github.com/papapumpkin/orrery/internal/progress"
	"github.com/papapumpkin/orrery/internal/session"
	"github.com/papapumpkin/orrery/internal/ui"
)

// maxMessages is how many notices the message line remembers.
const maxMessages = 3

// listWidth caps the width of the world list column.
const listWidth = 40

// AppModel is the root BubbleTea model composing all sub-views.
type AppModel struct {
	Keys      KeyMap
	StatusBar StatusBar
	Worlds    WorldView
	Detail    DetailPanel
	Footer    Footer
	Width     int
	Height    int
	Messages  []string // recent info/error messages

	requests chan<- Request

	snapshot   progress.Snapshot
	tree       layout.Layout
	level      *session.LevelUpdate
	goals      []lean.Goal
	showHidden bool
	showTree   bool
}

// NewAppModel creates a root model for the game called name. requests may
// be nil, in which case open and reload do nothing.
func NewAppModel(name string, requests chan<- Request) AppModel {
	m := AppModel{
		Keys:      DefaultKeyMap(),
		StatusBar: NewStatusBar(),
		Detail:    NewDetailPanel(80, 10),
		requests:  requests,
	}
	m.StatusBar.Name = name
	m.Footer.Bindings = FooterBindings(m.Keys)
	m.Detail.SetEmpty("waiting for the game to load")
	return m
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update handles all messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case session.TreeUpdate:
		m.snapshot, m.tree = msg.Snapshot, msg.Layout
		m.Worlds.SetSnapshot(msg.Snapshot)
		m.StatusBar.Completed = msg.Snapshot.TotalCompleted
		m.StatusBar.Total = msg.Snapshot.Total
		m.StatusBar.Worlds = len(msg.Snapshot.Worlds)
		m.StatusBar.Unlocked = 0
		for _, w := range msg.Snapshot.Worlds {
			if w.Unlocked {
				m.StatusBar.Unlocked++
			}
		}
		if m.showTree || m.level == nil {
			m.refreshDetail()
		}

	case session.HasNext:
		m.StatusBar.AllDone = !msg.Value

	case session.LevelUpdate:
		if m.level == nil || m.level.Level.SolutionPath != msg.Level.SolutionPath {
			m.goals = nil
		}
		lu := msg
		m.level = &lu
		m.Worlds.SelectPath(msg.Level.SolutionPath)
		m.refreshDetail()

	case session.StatusUpdate:
		if m.level != nil && m.level.Level.SolutionPath == msg.Path {
			m.level.Status = msg.Status
			m.refreshDetail()
		}

	case session.GoalsUpdate:
		if m.level != nil && m.level.Level.SolutionPath == msg.Path {
			m.goals = msg.Goals
			m.refreshDetail()
		}

	case session.Empty:
		m.snapshot, m.tree = progress.Snapshot{}, layout.Layout{}
		m.level, m.goals = nil, nil
		m.Worlds.SetSnapshot(progress.Snapshot{})
		m.StatusBar.Completed, m.StatusBar.Total = 0, 0
		m.StatusBar.Worlds, m.StatusBar.Unlocked = 0, 0
		m.Detail.SetEmpty("no game loaded")

	case MsgInfo:
		m.addMessage(styleInfo.Render(msg.Text))

	case MsgError:
		m.addMessage(styleError.Render("error: " + msg.Err.Error()))
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		m.Worlds.MoveUp()

	case key.Matches(msg, m.Keys.Down):
		m.Worlds.MoveDown()

	case key.Matches(msg, m.Keys.Enter):
		if lp, ok := m.Worlds.Selected(); ok {
			m.showTree = false
			return m, m.request(Request{Kind: RequestOpen, Path: lp.SolutionPath})
		}

	case key.Matches(msg, m.Keys.Next):
		if next := m.snapshot.NextPath; next != "" {
			m.Worlds.SelectPath(next)
			m.showTree = false
			return m, m.request(Request{Kind: RequestOpen, Path: next})
		}

	case key.Matches(msg, m.Keys.Hidden):
		m.showHidden = !m.showHidden
		m.refreshDetail()

	case key.Matches(msg, m.Keys.Tree):
		m.showTree = !m.showTree
		m.refreshDetail()

	case key.Matches(msg, m.Keys.Reload):
		return m, m.request(Request{Kind: RequestReload})

	default:
		m.Detail.Update(msg)
	}
	return m, nil
}

// request returns a command delivering r to the driver.
func (m AppModel) request(r Request) tea.Cmd {
	if m.requests == nil {
		return nil
	}
	ch := m.requests
	return func() tea.Msg {
		ch <- r
		return nil
	}
}

func (m *AppModel) resize(width, height int) {
	m.Width, m.Height = width, height
	m.StatusBar.Width = width
	m.Footer.Width = width

	// Status bar, message line and the two-line footer.
	body := max(height-4, 3)
	lw := min(listWidth, width/3)
	m.Worlds.Width = lw
	m.Worlds.Height = body
	// Border and padding of the detail panel take four columns and two rows.
	m.Detail.SetSize(max(width-lw-5, 10), max(body-3, 1))
	m.refreshDetail()
}

func (m *AppModel) refreshDetail() {
	switch {
	case m.showTree:
		r := ui.TreeRenderer{Width: max(m.Width-m.Worlds.Width-5, 40)}
		out := r.Render(m.tree, m.snapshot)
		if out == "" {
			m.Detail.SetEmpty("no worlds")
			return
		}
		m.Detail.SetContent("world tree", out)
	case m.level != nil:
		lu := m.level
		m.Detail.SetContent(
			LevelTitle(lu.Level),
			FormatLevel(lu.Level, lu.Status, lu.Hints, lu.Conclusion, m.showHidden, m.goals),
		)
	case m.snapshot.Total > 0:
		m.Detail.SetEmpty("select a level and press enter")
	}
}

func (m *AppModel) addMessage(s string) {
	m.Messages = append(m.Messages, s)
	if len(m.Messages) > maxMessages {
		m.Messages = m.Messages[len(m.Messages)-maxMessages:]
	}
}

// View renders the full screen.
func (m AppModel) View() string {
	list := lipgloss.NewStyle().Width(m.Worlds.Width).Render(m.Worlds.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", m.Detail.View())

	msgLine := ""
	if n := len(m.Messages); n > 0 {
		msgLine = m.Messages[n-1]
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.StatusBar.View(),
		body,
		msgLine,
		m.Footer.View(),
	)
}
