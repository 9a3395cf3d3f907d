package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LasCondes/ilstringpatcher/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	literalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type literalEntry struct {
	name    string
	literal string
}

// literalBrowserModel is a read-only list browser over a completed run's
// recovered literals: arrow keys move the selection, "/" opens a substring
// filter over names and values.
type literalBrowserModel struct {
	all       []literalEntry
	visible   []literalEntry
	selected  int
	filter    textinput.Model
	filtering bool
}

func newLiteralBrowserModel(r pipeline.Report) literalBrowserModel {
	names := make([]string, 0, len(r.Literals))
	for name := range r.Literals {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]literalEntry, len(names))
	for i, name := range names {
		entries[i] = literalEntry{name: name, literal: r.Literals[name]}
	}

	ti := textinput.New()
	ti.Placeholder = "filter by name or text"
	ti.Prompt = "/ "
	ti.Width = 40

	return literalBrowserModel{all: entries, visible: append([]literalEntry(nil), entries...), filter: ti}
}

func (m *literalBrowserModel) applyFilter() {
	q := strings.ToLower(m.filter.Value())
	if q == "" {
		m.visible = append([]literalEntry(nil), m.all...)
	} else {
		matched := make([]literalEntry, 0, len(m.all))
		for _, e := range m.all {
			if strings.Contains(strings.ToLower(e.name), q) || strings.Contains(strings.ToLower(e.literal), q) {
				matched = append(matched, e)
			}
		}
		m.visible = matched
	}
	if m.selected >= len(m.visible) {
		m.selected = 0
	}
}

func (m literalBrowserModel) Init() tea.Cmd {
	return nil
}

func (m literalBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filtering {
		switch keyMsg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		case "enter":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, nil
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
	}
	return m, nil
}

func (m literalBrowserModel) View() string {
	view := titleStyle.Render(fmt.Sprintf("recovered literals (%d/%d)", len(m.visible), len(m.all))) + "\n\n"

	if len(m.visible) == 0 {
		view += "no literals match.\n"
	}
	for i, e := range m.visible {
		line := fmt.Sprintf("%s -> %s", nameStyle.Render(e.name), literalStyle.Render(e.literal))
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		view += line + "\n"
	}

	view += "\n"
	if m.filtering {
		view += m.filter.View() + "\n" + helpStyle.Render("enter to apply, esc to clear")
	} else {
		view += helpStyle.Render("up/down to browse, / to filter, q to quit")
	}
	return view
}

func runInteractive(r pipeline.Report) error {
	_, err := tea.NewProgram(newLiteralBrowserModel(r)).Run()
	return err
}
