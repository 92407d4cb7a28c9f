package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/chronograph/pkg/graph"
	"github.com/dd0wney/chronograph/pkg/snapshot"
	"github.com/dd0wney/chronograph/pkg/view"
	"github.com/dd0wney/chronograph/pkg/window"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type screen int

const (
	dashboardScreen screen = iota
	verticesScreen
	vertexScreen
	windowScreen
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("down/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type model struct {
	g           *graph.Graph
	view        view.GraphView
	w           window.Window
	screen      screen
	vertexTable table.Model
	gidInput    textinput.Model
	startInput  textinput.Model
	endInput    textinput.Model
	focusStart  bool
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	startTime   time.Time
	vertexDetail string
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialModel(g *graph.Graph) model {
	gidInput := textinput.New()
	gidInput.Placeholder = "gid"
	gidInput.CharLimit = 20
	gidInput.Width = 20

	startInput := textinput.New()
	startInput.Placeholder = "start (blank = unbounded)"
	startInput.CharLimit = 20
	startInput.Width = 30

	endInput := textinput.New()
	endInput.Placeholder = "end (blank = unbounded)"
	endInput.CharLimit = 20
	endInput.Width = 30

	columns := []table.Column{
		{Title: "Gid", Width: 10},
		{Title: "OutDeg", Width: 8},
		{Title: "InDeg", Width: 8},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(ts)

	return model{
		g:           g,
		view:        view.NewBase(g),
		w:           window.Unbounded,
		screen:      dashboardScreen,
		vertexTable: t,
		gidInput:    gidInput,
		startInput:  startInput,
		endInput:    endInput,
		focusStart:  true,
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.screen = (m.screen + 1) % 4
			m.focusInputForScreen()

		case key.Matches(msg, m.keys.ShiftTab):
			if m.screen == 0 {
				m.screen = 3
			} else {
				m.screen--
			}
			m.focusInputForScreen()

		case key.Matches(msg, m.keys.Enter):
			switch m.screen {
			case verticesScreen:
				m.refreshVertexTable()
			case vertexScreen:
				m.lookupVertex()
			case windowScreen:
				m.applyWindow()
			}

		case m.screen == windowScreen && (key.Matches(msg, m.keys.Up) || key.Matches(msg, m.keys.Down)):
			m.focusStart = !m.focusStart
			m.focusInputForScreen()
		}
	}

	switch m.screen {
	case verticesScreen:
		m.vertexTable, cmd = m.vertexTable.Update(msg)
		cmds = append(cmds, cmd)
	case vertexScreen:
		m.gidInput, cmd = m.gidInput.Update(msg)
		cmds = append(cmds, cmd)
	case windowScreen:
		if m.focusStart {
			m.startInput, cmd = m.startInput.Update(msg)
		} else {
			m.endInput, cmd = m.endInput.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) focusInputForScreen() {
	m.gidInput.Blur()
	m.startInput.Blur()
	m.endInput.Blur()
	switch m.screen {
	case vertexScreen:
		m.gidInput.Focus()
	case windowScreen:
		if m.focusStart {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}
	}
}

func (m *model) applyWindow() {
	start := window.Unbounded.Start
	end := window.Unbounded.End
	if v := strings.TrimSpace(m.startInput.Value()); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			m.message = fmt.Sprintf("invalid start: %v", err)
			m.messageErr = true
			return
		}
		start = parsed
	}
	if v := strings.TrimSpace(m.endInput.Value()); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			m.message = fmt.Sprintf("invalid end: %v", err)
			m.messageErr = true
			return
		}
		end = parsed
	}

	m.w = window.New(start, end)
	m.view = view.NewWindowedView(view.NewBase(m.g), m.w)
	m.message = fmt.Sprintf("window set to [%d, %d)", start, end)
	m.messageErr = false
}

func (m *model) refreshVertexTable() {
	rows := make([]table.Row, 0)
	for _, gid := range m.g.IterVerticesWindow(m.w) {
		vv, ok := m.view.Vertex(gid)
		if !ok {
			continue
		}
		outDeg, _ := vv.OutDegree()
		inDeg, _ := vv.InDegree()
		rows = append(rows, table.Row{
			strconv.FormatUint(gid, 10),
			strconv.Itoa(outDeg),
			strconv.Itoa(inDeg),
		})
	}
	m.vertexTable.SetRows(rows)
	m.message = fmt.Sprintf("%d vertices in window", len(rows))
	m.messageErr = false
}

func (m *model) lookupVertex() {
	gidStr := strings.TrimSpace(m.gidInput.Value())
	gid, err := strconv.ParseUint(gidStr, 10, 64)
	if err != nil {
		m.message = fmt.Sprintf("invalid gid: %v", err)
		m.messageErr = true
		return
	}

	vv, ok := m.view.Vertex(gid)
	if !ok {
		m.message = fmt.Sprintf("vertex %d not found in current window", gid)
		m.messageErr = true
		m.vertexDetail = ""
		return
	}

	var b strings.Builder
	outDeg, _ := vv.OutDegree()
	inDeg, _ := vv.InDegree()
	fmt.Fprintf(&b, "gid %d  outDegree=%d  inDegree=%d\n\n", gid, outDeg, inDeg)

	names, err := m.g.PropertyNames(gid)
	if err == nil {
		for _, name := range names {
			hist, err := vv.PropertyHistory(name)
			if err != nil {
				continue
			}
			fmt.Fprintf(&b, "%s:\n", name)
			for _, tv := range hist {
				fmt.Fprintf(&b, "  t=%d -> %s\n", tv.Time, tv.Value)
			}
		}
	}

	b.WriteString("\nout-neighbours:\n")
	for nv := range vv.OutNeighbours() {
		fmt.Fprintf(&b, "  -> %d\n", nv.Id())
	}

	m.vertexDetail = b.String()
	m.message = fmt.Sprintf("looked up vertex %d", gid)
	m.messageErr = false
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("chronograph inspector"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.screen {
	case dashboardScreen:
		s.WriteString(m.renderDashboard())
	case verticesScreen:
		s.WriteString(m.renderVertices())
	case vertexScreen:
		s.WriteString(m.renderVertexLookup())
	case windowScreen:
		s.WriteString(m.renderWindow())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("x " + m.message))
		} else {
			s.WriteString(successStyle.Render("ok " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Dashboard", "Vertices", "Vertex Lookup", "Window"}
	var rendered []string
	for i, tab := range tabs {
		if screen(i) == m.screen {
			rendered = append(rendered, activeTabStyle.Render(tab))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m model) renderDashboard() string {
	uptime := time.Since(m.startTime).Round(time.Second)
	earliest, hasEarliest := m.g.EarliestTime()
	latest, hasLatest := m.g.LatestTime()

	content := fmt.Sprintf(`Statistics
----------
Vertices:  %d
Edges:     %d
Uptime:    %s

Time range
----------
Earliest:  %s
Latest:    %s

Current window: [%d, %d)`,
		m.g.NumVertices(),
		m.g.NumEdges(),
		uptime,
		formatTime(earliest, hasEarliest),
		formatTime(latest, hasLatest),
		m.w.Start, m.w.End,
	)

	return contentStyle.Render(statsBoxStyle.Render(content))
}

func formatTime(t int64, ok bool) string {
	if !ok {
		return "n/a"
	}
	return strconv.FormatInt(t, 10)
}

func (m model) renderVertices() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Vertex Browser"))
	s.WriteString("\n\n")
	s.WriteString(m.vertexTable.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to refresh against the current window"))
	return contentStyle.Render(s.String())
}

func (m model) renderVertexLookup() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Vertex Lookup"))
	s.WriteString("\n\n")
	s.WriteString(m.gidInput.View())
	s.WriteString("\n\n")
	if m.vertexDetail != "" {
		s.WriteString(m.vertexDetail)
	}
	return contentStyle.Render(s.String())
}

func (m model) renderWindow() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("Time Window"))
	s.WriteString("\n\n")
	s.WriteString("start: ")
	s.WriteString(m.startInput.View())
	s.WriteString("\n")
	s.WriteString("end:   ")
	s.WriteString(m.endInput.View())
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Tab switches field, enter applies the window to every other view"))
	return contentStyle.Render(s.String())
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <snapshot-path>", os.Args[0])
	}

	g, err := snapshot.Load(os.Args[1])
	if err != nil {
		log.Fatalf("failed to load snapshot: %v", err)
	}

	p := tea.NewProgram(initialModel(g), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("error running program: %v", err)
	}
}
