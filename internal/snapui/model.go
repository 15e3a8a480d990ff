// Package snapui provides the Bubble Tea snapshot inspector.
package snapui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"passgram/internal/model"
	"passgram/internal/tokens"
)

const (
	tabOverview = iota
	tabTemplates
	tabWords
	tabDigits
	tabFrags
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea snapshot inspector.
type Model struct {
	snap  *model.Snapshot
	frags tokens.Table

	tabs      []string
	activeTab int
	overview  viewport.Model
	list      table.Model

	width  int
	height int

	filterMode  bool
	filterInput textinput.Model
	filters     []string
}

// NewModel constructs an inspector over a loaded snapshot. The FRAG table
// may be nil when none was trained.
func NewModel(snap *model.Snapshot, frags tokens.Table) *Model {
	m := &Model{
		snap:  snap,
		frags: frags,
		tabs:  []string{"Overview", "Templates", "Words", "Digits", "Frags"},
	}
	m.filters = make([]string, len(m.tabs))
	m.overview = viewport.New(0, 0)
	m.filterInput = textinput.New()
	m.filterInput.Prompt = "Filter: "
	m.filterInput.CharLimit = 0
	m.filterInput.Cursor.SetMode(cursor.CursorBlink)
	m.list = table.New(table.WithHeight(1))
	m.list.SetStyles(listStyles())
	m.refreshContents()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.refreshContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			if m.activeTab != tabOverview {
				return m.startFilter()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabOverview {
				m.overview.GotoTop()
			} else {
				m.list.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabOverview {
				m.overview.GotoBottom()
			} else {
				m.list.GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabOverview {
				var cmd tea.Cmd
				m.overview, cmd = m.overview.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.list.SetWidth(m.width)
	m.list.SetHeight(maxInt(1, bodyHeight-1))
	promptWidth := lipgloss.Width(m.filterInput.Prompt)
	m.filterInput.Width = maxInt(10, m.width-promptWidth-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabOverview {
		m.list.Blur()
	} else {
		m.list.Focus()
	}
	m.refreshContents()
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterInput.SetValue(m.filters[m.activeTab])
	return m, m.filterInput.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.filters[m.activeTab] = strings.TrimSpace(m.filterInput.Value())
		m.filterMode = false
		m.filterInput.Blur()
		m.refreshContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *Model) refreshContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(m.renderOverview(width))
	if m.activeTab != tabOverview {
		m.list.SetColumns(listColumns(m.activeTab))
		m.list.SetRows(m.listRows())
		m.list.GotoTop()
	}
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := fmt.Sprintf("Snapshot: %d passwords, %d unique templates",
		m.snap.TotalTemplates, m.snap.UniqueTemplates)
	if f := m.filters[m.activeTab]; f != "" {
		summary += fmt.Sprintf("  filter=%q", f)
	}
	summary = truncateLine(summary, m.width)
	return tabs + "\n" + padLines(headerStyle.Render(summary), m.width)
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	_, bodyHeight, _ := m.layoutHeights()
	if m.activeTab == tabOverview {
		return fitLines(m.overview.View(), m.width, bodyHeight)
	}
	if len(m.list.Rows()) == 0 {
		return fitLines("No entries.", m.width, bodyHeight)
	}
	return fitLines(tableMutedStyle.Render(m.list.View()), m.width, bodyHeight)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.filterInput.View()
	}
	help := "Nav: left/right  Scroll: up/down  Top/Bottom: g/G  Quit: q"
	if m.activeTab != tabOverview {
		help = "Nav: left/right  Scroll: up/down  Filter: /  Top/Bottom: g/G  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderOverview(width int) string {
	cards := []string{
		metricCard("Passwords", fmt.Sprintf("%d", m.snap.TotalTemplates)),
		metricCard("Templates", fmt.Sprintf("%d", m.snap.UniqueTemplates)),
		metricCard("Top Words", fmt.Sprintf("%d", len(m.snap.TopWords))),
		metricCard("Top Digits", fmt.Sprintf("%d", len(m.snap.TopDigits))),
		metricCard("Frag Table", fmt.Sprintf("%d", len(m.frags))),
	}
	var body string
	if width < 80 {
		body = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		body = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	if m.snap.Filter != nil {
		body += "\n" + headerStyle.Render(fmt.Sprintf("Trained on lines of length >= %d", m.snap.Filter.MinLen))
	}
	return strings.TrimRight(body, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func listColumns(tab int) []table.Column {
	if tab == tabTemplates {
		return []table.Column{
			{Title: "Template", Width: 32},
			{Title: "Count", Width: 10},
			{Title: "Share", Width: 8},
		}
	}
	return []table.Column{
		{Title: "Token", Width: 28},
		{Title: "Count", Width: 10},
	}
}

func (m *Model) listRows() []table.Row {
	filter := strings.ToLower(m.filters[m.activeTab])
	switch m.activeTab {
	case tabTemplates:
		rows := make([]table.Row, 0, len(m.snap.TopTemplates))
		for _, e := range m.snap.TopTemplates {
			if filter != "" && !strings.Contains(strings.ToLower(e.Template), filter) {
				continue
			}
			share := 0.0
			if m.snap.TotalTemplates > 0 {
				share = float64(e.Count) / float64(m.snap.TotalTemplates) * 100
			}
			rows = append(rows, table.Row{
				e.Template,
				fmt.Sprintf("%d", e.Count),
				fmt.Sprintf("%.2f%%", share),
			})
		}
		return rows
	case tabWords:
		return tokenEntryRows(m.snap.TopWords, filter)
	case tabDigits:
		return tokenEntryRows(m.snap.TopDigits, filter)
	case tabFrags:
		rows := make([]table.Row, 0, len(m.frags))
		for _, e := range m.frags {
			if filter != "" && !strings.Contains(strings.ToLower(e.Token), filter) {
				continue
			}
			rows = append(rows, table.Row{e.Token, fmt.Sprintf("%d", e.Count)})
		}
		return rows
	}
	return nil
}

func tokenEntryRows(entries []model.TokenEntry, filter string) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		if filter != "" && !strings.Contains(strings.ToLower(e.Token), filter) {
			continue
		}
		rows = append(rows, table.Row{e.Token, fmt.Sprintf("%d", e.Count)})
	}
	return rows
}

func listStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
