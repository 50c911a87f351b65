package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/memlayout/endian"
	"github.com/wippyai/memlayout/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	recordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666")).
			Padding(0, 1)
)

// orders is the cycle of byte orders the explorer shows.
var orders = []endian.Endianness{endian.Unspecified, endian.Native, endian.Little, endian.Big}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Nested   key.Binding
	Order    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Nested, k.Order, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Nested, k.Order},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous record"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next record"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "b"),
		key.WithHelp("pgup", "scroll up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "f", " "),
		key.WithHelp("pgdn", "scroll down"),
	),
	Nested: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "toggle nested"),
	),
	Order: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "cycle byte order"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type explorerModel struct {
	records  []*schema.Schema
	help     help.Model
	viewport viewport.Model
	selected int
	order    int
	width    int
	height   int
	nested   bool
	ready    bool
}

func newExplorerModel(records []*schema.Schema, order endian.Endianness) *explorerModel {
	m := &explorerModel{
		records: records,
		help:    help.New(),
		nested:  true,
	}
	for i, o := range orders {
		if o == order {
			m.order = i
		}
	}
	return m
}

func runInteractive(records []*schema.Schema, order endian.Endianness) error {
	p := tea.NewProgram(newExplorerModel(records, order), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *explorerModel) Init() tea.Cmd {
	return nil
}

func (m *explorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		w, h := m.contentSize()
		if !m.ready {
			m.viewport = viewport.New(w, h)
			m.ready = true
		} else {
			m.viewport.Width, m.viewport.Height = w, h
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.selected > 0 {
				m.selected--
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, keys.Down):
			if m.selected < len(m.records)-1 {
				m.selected++
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, keys.Nested):
			m.nested = !m.nested
			m.refresh()
			return m, nil
		case key.Matches(msg, keys.Order):
			m.order = (m.order + 1) % len(orders)
			m.refresh()
			return m, nil
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			if m.ready {
				_, m.viewport.Height = m.contentSize()
			}
			return m, nil
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// contentSize is the viewport size left after the title, record list
// and help lines.
func (m *explorerModel) contentSize() (int, int) {
	w := m.width - lipgloss.Width(m.recordList()) - 1
	h := m.height - 2 - lipgloss.Height(m.help.View(keys))
	return max(w, 20), max(h, 3)
}

func (m *explorerModel) refresh() {
	if !m.ready || len(m.records) == 0 {
		return
	}
	s := m.records[m.selected]
	l := schema.DescribeAt(s, 0, orders[m.order], m.nested)
	m.viewport.SetContent(renderTable(l, m.viewport.Width))
	m.viewport.GotoTop()
}

func (m *explorerModel) recordList() string {
	var b strings.Builder
	for i, s := range m.records {
		line := fmt.Sprintf("%s (%d)", s.Name, s.Width)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(recordStyle.Render("  " + line))
		}
		if i < len(m.records)-1 {
			b.WriteByte('\n')
		}
	}
	return listStyle.Render(b.String())
}

func (m *explorerModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := titleStyle.Render(fmt.Sprintf("memlayout  %d records  order: %s",
		len(m.records), orders[m.order]))
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.recordList(), " ", m.viewport.View())
	return lipgloss.JoinVertical(lipgloss.Left, title, body, m.help.View(keys))
}
