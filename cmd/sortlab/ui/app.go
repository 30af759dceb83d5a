package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sortlab/internal/chart"
	"sortlab/internal/lab"
	"sortlab/internal/results"
	"sortlab/internal/sorting"
)

// Focus targets, cycled with tab.
const (
	focusElements = iota
	focusStep
	focusPath
	focusAlgorithms
	focusResults
	numFocus
)

type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Generate   key.Binding
	Load       key.Binding
	Compare    key.Binding
	Asymptotic key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle algorithm")),
		Generate:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "generate")),
		Load:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "load file")),
		Compare:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "compare")),
		Asymptotic: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "asymptotic")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Generate, k.Load, k.Compare, k.Asymptotic, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Up, k.Down, k.Toggle},
		{k.Generate, k.Load, k.Compare, k.Asymptotic},
		{k.Help, k.Quit},
	}
}

// Plain letters act as shortcuts when no text field has focus.
var letterActions = map[string]string{
	"g": "generate",
	"l": "load",
	"c": "compare",
	"a": "asymptotic",
}

type compareDoneMsg struct {
	outcome *lab.Outcome
	err     error
}

// Model is the interactive comparison screen.
type Model struct {
	ctx    context.Context
	lab    *lab.Lab
	styles Styles
	keys   keyMap
	help   help.Model

	countInput textinput.Model
	stepInput  textinput.Model
	pathInput  textinput.Model
	results    table.Model

	focus  int
	cursor int
	busy   bool

	status    string
	statusErr bool
	warnings  []string

	width  int
	height int
}

// NewModel builds the screen around an existing session.
func NewModel(ctx context.Context, l *lab.Lab) Model {
	cfg := l.Config()

	count := textinput.New()
	count.Placeholder = "number of elements"
	count.CharLimit = 9
	count.Width = 20
	count.SetValue(strconv.Itoa(cfg.Dataset.Count))

	step := textinput.New()
	step.Placeholder = "step size"
	step.CharLimit = 9
	step.Width = 20
	step.SetValue(strconv.Itoa(cfg.Compare.Step))

	path := textinput.New()
	path.Placeholder = "data.csv"
	path.Width = 40

	columns := make([]table.Column, len(results.Header))
	for i, h := range results.Header {
		columns[i] = table.Column{Title: h, Width: max(len(h), 10)}
	}
	columns[1].Width = 22

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(12),
	)

	m := Model{
		ctx:        ctx,
		lab:        l,
		styles:     DefaultStyles(),
		keys:       defaultKeyMap(),
		help:       help.New(),
		countInput: count,
		stepInput:  step,
		pathInput:  path,
		results:    t,
		status:     "Generate or load a dataset, select algorithms, then compare.",
	}
	m.setFocus(focusElements)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if h := msg.Height - 22; h > 4 {
			m.results.SetHeight(h)
		}
		return m, nil

	case compareDoneMsg:
		m.busy = false
		m.handleCompare(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.setFocus((m.focus + 1) % numFocus)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.setFocus((m.focus + numFocus - 1) % numFocus)
		return m, nil
	case key.Matches(msg, m.keys.Generate):
		return m.run("generate")
	case key.Matches(msg, m.keys.Load):
		return m.run("load")
	case key.Matches(msg, m.keys.Compare):
		return m.run("compare")
	case key.Matches(msg, m.keys.Asymptotic):
		return m.run("asymptotic")
	}

	if m.focus == focusAlgorithms || m.focus == focusResults {
		if action, ok := letterActions[msg.String()]; ok {
			return m.run(action)
		}
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	if m.focus == focusAlgorithms {
		algs := sorting.All()
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(algs)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			if m.busy {
				m.setStatus("Wait for the running comparison to finish.", false)
				return m, nil
			}
			m.toggle(algs[m.cursor])
			return m, nil
		}
	}

	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusElements:
		m.countInput, cmd = m.countInput.Update(msg)
	case focusStep:
		m.stepInput, cmd = m.stepInput.Update(msg)
	case focusPath:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case focusResults:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(f int) {
	m.focus = f
	m.countInput.Blur()
	m.stepInput.Blur()
	m.pathInput.Blur()
	m.results.Blur()
	switch f {
	case focusElements:
		m.countInput.Focus()
	case focusStep:
		m.stepInput.Focus()
	case focusPath:
		m.pathInput.Focus()
	case focusResults:
		m.results.Focus()
	}
}

func (m *Model) toggle(alg sorting.Algorithm) {
	if m.lab.IsSelected(alg.ID) {
		m.lab.Deselect(string(alg.ID))
		return
	}
	// Lookup by ID cannot fail for a registered algorithm.
	_, _ = m.lab.Select(string(alg.ID))
}

// run performs an action. Dataset changes are synchronous; comparisons run in
// a command so the screen stays responsive.
func (m Model) run(action string) (tea.Model, tea.Cmd) {
	if m.busy {
		m.setStatus("A comparison is already running.", false)
		return m, nil
	}

	switch action {
	case "generate":
		n, err := m.lab.Generate(m.countInput.Value())
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Generated %d random data points.", n), false)

	case "load":
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			m.setFocus(focusPath)
			m.setStatus("Enter a CSV file path to load.", true)
			return m, nil
		}
		n, err := m.lab.Load(path)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Loaded %d data points from %s.", n, path), false)

	case "compare", "asymptotic":
		m.busy = true
		m.warnings = nil
		m.setStatus("Comparing...", false)
		ctx := m.ctx
		compare := m.lab.CompareFunc(m.stepInput.Value(), action == "asymptotic")
		return m, func() tea.Msg {
			out, err := compare(ctx)
			return compareDoneMsg{outcome: out, err: err}
		}
	}
	return m, nil
}

func (m *Model) handleCompare(msg compareDoneMsg) {
	if msg.err != nil {
		m.setError(msg.err)
		return
	}
	out := msg.outcome

	rows := make([]table.Row, 0, len(out.Rows))
	for _, r := range out.Rows {
		rows = append(rows, table.Row(r.Record()))
	}
	m.results.SetRows(rows)
	m.results.GotoTop()

	for _, w := range out.Warnings {
		if errors.Is(w, chart.ErrTooFewPoints) {
			m.warnings = append(m.warnings, "Chart skipped: "+w.Error())
			continue
		}
		m.warnings = append(m.warnings, w.Error())
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Compared %d algorithm(s) over %d prefix(es).",
		len(out.Report.Series), len(out.Report.Prefixes)))
	if out.ResultsPath != "" {
		parts = append(parts, "Results saved to "+out.ResultsPath+".")
	}
	if out.ChartPath != "" {
		parts = append(parts, "Chart written to "+out.ChartPath+".")
	}
	m.setStatus(strings.Join(parts, " "), false)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) setError(err error) {
	msg := err.Error()
	if msg != "" {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	m.setStatus(msg, true)
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render("sortlab · algorithm comparison"))
	sb.WriteString("\n\n")

	sb.WriteString(m.field("Elements", m.countInput, focusElements))
	sb.WriteString(m.field("Step", m.stepInput, focusStep))
	sb.WriteString(m.field("Data file", m.pathInput, focusPath))
	sb.WriteString(m.styles.Label.Render("Dataset") +
		m.styles.Body.Render(fmt.Sprintf("%d values", len(m.lab.Data()))) + "\n\n")

	sb.WriteString(m.algorithmList())
	sb.WriteString("\n")

	tablePanel := m.styles.Panel
	if m.focus == focusResults {
		tablePanel = tablePanel.BorderForeground(m.styles.Theme.Accent)
	}
	sb.WriteString(tablePanel.Render(m.results.View()))
	sb.WriteString("\n")

	statusStyle := m.styles.Success
	if m.statusErr {
		statusStyle = m.styles.Error
	} else if m.busy {
		statusStyle = m.styles.Info
	}
	sb.WriteString(statusStyle.Render(m.status))
	sb.WriteString("\n")
	for _, w := range m.warnings {
		sb.WriteString(m.styles.Warning.Render("! " + w))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) field(label string, in textinput.Model, f int) string {
	l := m.styles.Label
	if m.focus == f {
		l = l.Foreground(m.styles.Theme.Accent)
	}
	return l.Render(label) + in.View() + "\n"
}

func (m Model) algorithmList() string {
	var sb strings.Builder
	title := m.styles.Title.Render("Algorithms")
	if m.focus == focusAlgorithms {
		title += m.styles.Muted.Render("  (space toggles, g/l/c/a run actions)")
	}
	sb.WriteString(title + "\n")

	for i, alg := range sorting.All() {
		cursor := "  "
		if m.focus == focusAlgorithms && i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		box := "[ ]"
		name := m.styles.Body.Render(alg.Name)
		if m.lab.IsSelected(alg.ID) {
			box = "[x]"
			name = m.styles.Selected.Render(alg.Name)
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cursor, box+" ", name))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Run starts the interactive screen and blocks until the user quits.
func Run(ctx context.Context, l *lab.Lab) error {
	p := tea.NewProgram(NewModel(ctx, l), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run interactive mode: %w", err)
	}
	return nil
}
