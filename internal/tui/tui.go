// Package tui is a full-screen browser for converted hand histories.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const handPrefix = "PokerStars Hand #"

// Highlighter styles a rendered hand block for display.
type Highlighter func(block string) string

// BrowserModel is the Bubble Tea model paging through converted hands one at
// a time.
type BrowserModel struct {
	hands     []string
	numbers   []string
	highlight Highlighter
	current   int

	// UI components
	handViewport viewport.Model
	searchInput  textinput.Model
	searching    bool
	status       string

	// Dimensions
	width    int
	height   int
	quitting bool
}

// NewBrowser creates a browser over hand blocks as produced by the
// converter. highlight may be nil.
func NewBrowser(hands []string, highlight Highlighter) *BrowserModel {
	if highlight == nil {
		highlight = func(s string) string { return s }
	}

	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "game number"
	ti.CharLimit = 64
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "/ "

	m := &BrowserModel{
		hands:        hands,
		numbers:      make([]string, len(hands)),
		highlight:    highlight,
		handViewport: vp,
		searchInput:  ti,
	}
	for i, h := range hands {
		m.numbers[i] = gameNumber(h)
	}
	m.show(0)
	return m
}

// gameNumber reads the hand id from a PokerStars header line.
func gameNumber(block string) string {
	header, _, _ := strings.Cut(block, "\n")
	rest, ok := strings.CutPrefix(header, handPrefix)
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, ":")
	return id
}

// Current returns the index of the hand on screen.
func (m *BrowserModel) Current() int {
	return m.current
}

// Status returns the last status message, such as a failed search.
func (m *BrowserModel) Status() string {
	return m.status
}

// Searching reports whether the search input has focus.
func (m *BrowserModel) Searching() bool {
	return m.searching
}

func (m *BrowserModel) show(idx int) {
	if len(m.hands) == 0 {
		m.handViewport.SetContent(InfoStyle.Render("No hands to show"))
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.hands) {
		idx = len(m.hands) - 1
	}
	m.current = idx
	m.handViewport.SetContent(m.highlight(m.hands[idx]))
	m.handViewport.GotoTop()
}

// Find returns the index of the first hand at or after the current one whose
// game number contains query, wrapping around.
func (m *BrowserModel) Find(query string) (int, bool) {
	query = strings.TrimSpace(query)
	if query == "" || len(m.hands) == 0 {
		return 0, false
	}
	for off := 0; off < len(m.hands); off++ {
		i := (m.current + off) % len(m.hands)
		if strings.Contains(m.numbers[i], query) {
			return i, true
		}
	}
	return 0, false
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages in the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "n", "right", "l":
			m.status = ""
			m.show(m.current + 1)
			return m, nil
		case "p", "left", "h":
			m.status = ""
			m.show(m.current - 1)
			return m, nil
		case "home":
			m.show(0)
			return m, nil
		case "end":
			m.show(len(m.hands) - 1)
			return m, nil
		case "/":
			m.searching = true
			m.status = ""
			m.searchInput.SetValue("")
			return m, m.searchInput.Focus()
		}
	}

	var cmd tea.Cmd
	m.handViewport, cmd = m.handViewport.Update(msg)
	return m, cmd
}

func (m *BrowserModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		query := m.searchInput.Value()
		m.searching = false
		m.searchInput.Blur()
		if idx, ok := m.Find(query); ok {
			m.show(idx)
		} else {
			m.status = fmt.Sprintf("no hand matching %q", strings.TrimSpace(query))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// resize fits the viewport between the header and footer rows plus the pane
// border.
func (m *BrowserModel) resize() {
	w := m.width - 2
	h := m.height - 4
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	m.handViewport.Width = w
	m.handViewport.Height = h
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	pane := PaneStyle
	if m.searching {
		pane = SearchPaneStyle
	}
	body := pane.
		Width(m.handViewport.Width).
		Height(m.handViewport.Height).
		Render(m.handViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m *BrowserModel) renderHeader() string {
	if len(m.hands) == 0 {
		return HeaderStyle.Render("0 hands")
	}
	title := fmt.Sprintf("Hand %d of %d", m.current+1, len(m.hands))
	if n := m.numbers[m.current]; n != "" {
		title += "  #" + n
	}
	return HeaderStyle.Render(title)
}

func (m *BrowserModel) renderFooter() string {
	switch {
	case m.searching:
		return m.searchInput.View()
	case m.status != "":
		return ErrorStyle.Render(m.status)
	default:
		return InfoStyle.Render("n/p next/prev • ↑↓ scroll • / find hand • q quit")
	}
}

// Run shows the browser full-screen until the user quits.
func Run(hands []string, highlight Highlighter, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(NewBrowser(hands, highlight), opts...).Run()
	return err
}
