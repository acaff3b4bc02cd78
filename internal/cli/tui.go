package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/followgraph/pkg/graph"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// NodeListModel - Interactive node selection
// =============================================================================

// NodeItem is one row of the node picker.
type NodeItem struct {
	Node      graph.Node
	Followers int
	Following int
}

// NodeItems lists every node of g in graph order with its degree counts.
func NodeItems(g *graph.Graph) []NodeItem {
	nodes := g.Nodes()
	items := make([]NodeItem, len(nodes))
	for i, n := range nodes {
		items[i] = NodeItem{
			Node:      n,
			Followers: len(g.Followers(n.ID)),
			Following: len(g.Following(n.ID)),
		}
	}
	return items
}

// NodeListModel is the bubbletea model for interactive node selection.
// Typing filters the list by id or label; enter selects the node under the
// cursor.
type NodeListModel struct {
	Items    []NodeItem
	Filter   string
	Cursor   int
	Offset   int
	Height   int
	Selected *graph.Node

	visible []int
}

// NewNodeListModel creates a new node list model.
func NewNodeListModel(items []NodeItem) NodeListModel {
	m := NodeListModel{Items: items, Height: 15}
	m.applyFilter()
	return m
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.move(-1)
		case tea.KeyDown:
			m.move(1)
		case tea.KeyPgUp:
			m.move(-m.Height)
		case tea.KeyPgDown:
			m.move(m.Height)
		case tea.KeyEnter:
			if len(m.visible) == 0 {
				return m, nil
			}
			n := m.Items[m.visible[m.Cursor]].Node
			m.Selected = &n
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.Filter = string(r[:len(r)-1])
				m.applyFilter()
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.clampOffset()
	}
	return m, nil
}

func (m *NodeListModel) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.visible)-1)
	m.clampOffset()
}

func (m *NodeListModel) clampOffset() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *NodeListModel) applyFilter() {
	var visible []int
	f := strings.ToLower(m.Filter)
	for i, it := range m.Items {
		if f == "" || strings.Contains(strings.ToLower(it.Node.ID), f) ||
			strings.Contains(strings.ToLower(it.Node.Label), f) {
			visible = append(visible, i)
		}
	}
	m.visible = visible
	m.Cursor, m.Offset = 0, 0
}

// Visible returns the items that pass the current filter.
func (m NodeListModel) Visible() []NodeItem {
	out := make([]NodeItem, len(m.visible))
	for i, idx := range m.visible {
		out[i] = m.Items[idx]
	}
	return out
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select User"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  type to filter  ⏎ select  esc quit"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("filter: ") + StyleValue.Render(m.Filter))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor, it.Node.ID, it.Node.Label,
			fmt.Sprintf("%d", it.Followers), fmt.Sprintf("%d", it.Following),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Id", "Label", "Followers", "Following").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(m.visible) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(m.visible))))

	return b.String()
}
