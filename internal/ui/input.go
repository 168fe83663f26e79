package ui

import (
	"sort"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/riggingtools/vertex-blender/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateSearchCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.searchCursor, cmd = m.searchCursor.Update(msg)
	return cmd
}

func (m *Model) startSearch() {
	m.searching = true
	m.searchCursorDirty = true
	m.applySearch()
}

func (m *Model) stopSearch(clear bool) {
	m.searching = false
	if clear {
		m.searchText = ""
		events.Filter.Cleared(m.influencePane.Name())
	}
	m.applySearch()
}

// handleSearchKey edits the live search text. It reports whether the key was
// consumed; unconsumed keys fall through to the normal key surface.
func (m *Model) handleSearchKey(key tea.KeyMsg) bool {
	switch key.String() {
	case "esc":
		m.stopSearch(true)
		return true
	case "enter":
		m.stopSearch(false)
		return true
	case "ctrl+u":
		if m.searchText == "" {
			return true
		}
		m.searchText = ""
		m.searchCursorDirty = true
		events.Filter.Cleared(m.influencePane.Name())
		m.applySearch()
		return true
	}
	switch key.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if m.searchText == "" {
			return true
		}
		runes := []rune(m.searchText)
		m.searchText = string(runes[:len(runes)-1])
		m.searchCursorDirty = true
		events.Filter.Backspace(m.influencePane.Name(), m.searchText)
		m.applySearch()
		return true
	case tea.KeyRunes:
		if key.Alt || len(key.Runes) == 0 {
			return false
		}
		for _, r := range key.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		m.searchText += string(key.Runes)
		m.searchCursorDirty = true
		events.Filter.Append(m.influencePane.Name(), m.searchText)
		m.applySearch()
		return true
	case tea.KeySpace:
		m.searchText += " "
		m.searchCursorDirty = true
		m.applySearch()
		return true
	}
	return false
}

// applySearch feeds the wrapped search pattern through the influence pane's
// engine. Matching is case-sensitive glob; the cursor additionally jumps to
// the best fuzzy match so near-misses stay reachable while typing.
func (m *Model) applySearch() {
	eng := m.influencePane.Engine()
	if m.searchText == "" {
		m.resetVisibility()
		m.influencePane.ScrollToTop()
		return
	}

	rows, err := eng.FilterRowsByPattern("*" + m.searchText + "*")
	if err != nil {
		m.errMsg = err.Error()
		events.UI.Error(err)
		return
	}
	m.errMsg = ""
	_ = eng.SetVisible(rows...)
	events.Filter.Pattern(m.influencePane.Name(), m.searchText, len(rows))
	m.jumpToBestMatch()
}

func (m *Model) jumpToBestMatch() {
	eng := m.influencePane.Engine()
	active := eng.ActiveRows()
	if len(active) == 0 {
		return
	}
	labels := make([]string, len(active))
	for i, row := range active {
		labels[i] = eng.Source().Label(row)
	}
	ranks := fuzzy.RankFindFold(m.searchText, labels)
	if len(ranks) == 0 {
		m.influencePane.ScrollToTop()
		return
	}
	sort.Sort(ranks)
	m.influencePane.ScrollTo(active[ranks[0].OriginalIndex])
}

func (m *Model) searchPrompt() string {
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.searchCursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		m.searchCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.searchCursor.TextStyle = lipgloss.Style{}
	}
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	if !m.searching {
		if m.searchText == "" {
			return ""
		}
		return prompt + render(styles.Filter, m.searchText)
	}
	if m.searchText == "" {
		placeholder := "(type to filter influences)"
		runes := []rune(placeholder)
		caretRune := string(runes[0])
		rest := string(runes[1:])
		if styles.FilterPlaceholder != nil {
			m.searchCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		return prompt + m.renderSearchCursor(caretRune) + render(styles.FilterPlaceholder, rest)
	}
	return prompt + render(styles.Filter, m.searchText) + m.renderSearchCursor(" ")
}

func (m *Model) renderSearchCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.searchCursor.SetChar(char)

	base := m.searchCursor.TextStyle.Copy()
	base = base.Inline(true)

	if m.searchCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		base = base.Inherit(cursorStyle).Blink(false)
		return base.Render(char)
	}
	return base.Reverse(true).Render(char)
}
