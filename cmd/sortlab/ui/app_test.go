package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sortlab/internal/config"
	"sortlab/internal/lab"
	"sortlab/internal/sorting"
)

func newTestModel(t *testing.T) (Model, *lab.Lab) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Dataset.Count = 30
	cfg.Dataset.Seed = 7
	cfg.Compare.Step = 10
	cfg.Output.Results = filepath.Join(dir, "results.csv")
	cfg.Output.Chart = filepath.Join(dir, "chart.svg")
	l := lab.New(cfg, nil, nil)
	return NewModel(context.Background(), l), l
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGenerateFromInput(t *testing.T) {
	m, l := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if got := len(l.Data()); got != 30 {
		t.Fatalf("expected 30 values, got %d", got)
	}
	if m.statusErr || !strings.Contains(m.status, "Generated 30") {
		t.Errorf("unexpected status %q (err=%v)", m.status, m.statusErr)
	}

	m.countInput.SetValue("lots")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if !m.statusErr || m.status != "Please enter a valid number." {
		t.Errorf("unexpected status %q (err=%v)", m.status, m.statusErr)
	}
	if got := len(l.Data()); got != 30 {
		t.Errorf("invalid count changed the dataset: %d values", got)
	}
}

func TestLoadRequiresPath(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if !m.statusErr || m.focus != focusPath {
		t.Errorf("expected focus on path with error, got focus=%d status=%q", m.focus, m.status)
	}

	m.pathInput.SetValue(filepath.Join(t.TempDir(), "nope.csv"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if !m.statusErr || !strings.Contains(m.status, "not found") {
		t.Errorf("expected not-found error, got %q", m.status)
	}
}

func TestFocusCycle(t *testing.T) {
	m, _ := newTestModel(t)
	for i := 0; i < numFocus; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.focus != focusElements {
		t.Errorf("expected focus to wrap to elements, got %d", m.focus)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != focusResults {
		t.Errorf("expected shift+tab to wrap to results, got %d", m.focus)
	}
}

func TestToggleAlgorithms(t *testing.T) {
	m, l := newTestModel(t)
	m.setFocus(focusAlgorithms)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !l.IsSelected(sorting.Insertion) {
		t.Fatal("expected insertion sort to be selected")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, runes("x"))
	if !l.IsSelected(sorting.Bubble) {
		t.Fatal("expected bubble sort to be selected")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if l.IsSelected(sorting.Bubble) {
		t.Error("expected second toggle to deselect bubble sort")
	}

	for i := 0; i < 10; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != len(sorting.All())-1 {
		t.Errorf("cursor should stop at the last algorithm, got %d", m.cursor)
	}
	if !strings.Contains(m.View(), "[x] ") {
		t.Error("view should mark selected algorithms")
	}
}

func TestCompareFromAlgorithmList(t *testing.T) {
	m, l := newTestModel(t)
	if err := l.GenerateN(30); err != nil {
		t.Fatal(err)
	}
	m.setFocus(focusAlgorithms)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	m, cmd := update(t, m, runes("a"))
	if cmd == nil || !m.busy {
		t.Fatal("expected a running comparison")
	}

	// A second request while busy is refused.
	m, again := update(t, m, runes("c"))
	if again != nil {
		t.Error("expected no command while busy")
	}

	m, _ = update(t, m, cmd())
	if m.busy {
		t.Error("busy flag should clear after completion")
	}
	if m.statusErr {
		t.Fatalf("unexpected error: %s", m.status)
	}
	rows := m.results.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected one row per prefix, got %d", len(rows))
	}
	if rows[0][1] != "Insertion Sort" || rows[0][0] != "10" {
		t.Errorf("unexpected first row %v", rows[0])
	}
	if !strings.Contains(m.status, "Chart written") {
		t.Errorf("status should report the chart, got %q", m.status)
	}
}

func TestCompareWithoutData(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m, _ = update(t, m, cmd())
	if !m.statusErr || m.status != "Please load or generate data first." {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestToggleRefusedWhileComparing(t *testing.T) {
	m, l := newTestModel(t)
	if err := l.GenerateN(30); err != nil {
		t.Fatal(err)
	}
	m.setFocus(focusAlgorithms)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil || !m.busy {
		t.Fatal("expected a running comparison")
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !l.IsSelected(sorting.Insertion) {
		t.Error("toggle while comparing should leave the selection unchanged")
	}
	if !strings.Contains(m.status, "Wait for the running comparison") {
		t.Errorf("unexpected status %q", m.status)
	}

	m, _ = update(t, m, <-done)
	if m.statusErr {
		t.Fatalf("unexpected error: %s", m.status)
	}
	if got := len(m.results.Rows()); got != 2 {
		t.Errorf("expected one row per selected algorithm, got %d", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if l.IsSelected(sorting.Insertion) {
		t.Error("toggle should work again once the comparison finished")
	}
}
