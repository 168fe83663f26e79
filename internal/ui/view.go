package ui

import (
	"fmt"
	"strings"

	"github.com/riggingtools/vertex-blender/internal/format/table"
	"github.com/riggingtools/vertex-blender/internal/skin"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const paneGap = 2

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
}

// View implements tea.Model: the two panes side by side above a full-width
// bottom bar (status line + search prompt).
func (m *Model) View() string {
	paneW := m.paneWidth()
	paneH := m.paneHeight()
	m.influencePane.SetHeight(paneH)
	m.weightPane.SetHeight(paneH)

	left := m.renderPane(m.influencePane, paneW, paneH, false)
	right := m.renderPane(m.weightPane, paneW, paneH, true)
	gap := strings.Repeat(" ", paneGap)
	gapCol := strings.TrimRight(strings.Repeat(gap+"\n", paneH+1), "\n")
	top := lipgloss.JoinHorizontal(lipgloss.Top, left, gapCol, right)

	var status styledLine
	if m.errMsg != "" {
		status = styledLine{text: "Error: " + m.errMsg, style: styles.Error}
	} else if info := m.currentInfo(); info != "" {
		status = styledLine{text: info, style: styles.Info}
	} else {
		status = styledLine{text: m.statusLine(), style: styles.Header}
	}

	sections := []string{
		top,
		renderLines(applyWidth([]styledLine{status}, m.width)),
		m.searchPrompt(),
	}
	if m.showFooter {
		footer := styledLine{
			text:  "tab focus  enter select  space mark  / search  e envelope  p precision  1-5 presets  +/- add  [/] scale  q quit",
			style: styles.Footer,
		}
		sections = append(sections, renderLines(applyWidth([]styledLine{footer}, m.width)))
	}
	return strings.Join(sections, "\n")
}

// renderPane draws one pane: a title row with counts, then the viewport rows.
// The weight pane additionally shows the display weight per influence row.
func (m *Model) renderPane(p *Pane, width, height int, withWeights bool) string {
	eng := p.Engine()
	title := fmt.Sprintf("%s %d/%d", p.Name(), eng.NumActiveRows(), eng.Source().RowCount())
	titleStyle := styles.PaneTitle
	if p == m.focus {
		titleStyle = styles.FocusedPaneTitle
	}

	lines := make([]styledLine, 0, height+1)
	lines = append(lines, styledLine{text: title, style: titleStyle})

	rows, start := p.VisibleRows()
	if len(rows) == 0 {
		empty := "(no influences)"
		if m.searchText != "" && !withWeights {
			empty = fmt.Sprintf("No matches for %q", m.searchText)
		}
		lines = append(lines, styledLine{text: empty, style: styles.Info})
	}

	texts := m.rowTexts(p, rows, withWeights)
	for i, row := range rows {
		lines = append(lines, m.buildItemLine(p, row, start+i, texts[i], width))
	}
	for len(lines) < height+1 {
		lines = append(lines, styledLine{})
	}
	lines = applyWidth(lines, width)
	rendered := renderLines(lines)

	// Pad every rendered row to exactly width visible columns so the join
	// keeps the right pane flush regardless of content length.
	padded := strings.Split(rendered, "\n")
	for i, row := range padded {
		w := lipgloss.Width(row)
		if w > width {
			padded[i] = truncate.StringWithTail(row, uint(width-1), "…")
		} else if w < width {
			padded[i] = row + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(padded, "\n")
}

// rowTexts resolves the display text per row. Weight pane rows are aligned
// as a two-column label/value table.
func (m *Model) rowTexts(p *Pane, rows []int, withWeights bool) []string {
	texts := make([]string, len(rows))
	if !withWeights {
		for i, row := range rows {
			texts[i] = p.Engine().Source().Label(row)
		}
		return texts
	}
	display := m.orch.DisplayWeights()
	cells := make([][]string, len(rows))
	for i, row := range rows {
		value := ""
		if weight, ok := display[skin.InfluenceID(row)]; ok {
			value = fmt.Sprintf("%.3f", weight)
		}
		cells[i] = []string{p.Engine().Source().Label(row), value}
	}
	return table.Format(cells, []table.Alignment{table.AlignLeft, table.AlignRight})
}

// buildItemLine constructs a single styledLine for an influence row.
func (m *Model) buildItemLine(p *Pane, row, idx int, text string, width int) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator

	markDisplay := ""
	if p.MultiSelect() {
		mark := " "
		if p.IsMarked(row) {
			mark = "✓"
		}
		markDisplay = fmt.Sprintf("[%s] ", mark)
	}
	if idx == p.CursorIndex() && p == m.focus {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	} else if p.Engine().IsRowSelected(row) {
		lineStyle = styles.MarkedItem
	}

	fullText := indicator + " " + markDisplay + text
	if width > 0 {
		if pad := width - len([]rune(fullText)); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1, // just the ▌ character
	}
}

func (m *Model) paneWidth() int {
	if m.width <= 0 {
		return 40
	}
	w := (m.width - paneGap) / 2
	if w < 10 {
		w = 10
	}
	return w
}

func (m *Model) paneHeight() int {
	used := 1 // pane title
	used += 2 // status + prompt rows
	if m.showFooter {
		used++
	}
	if m.height <= 0 {
		return 20
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		result[i] = styledLine{
			text:          truncateText(line.text, width),
			style:         line.style,
			prefixStyle:   line.prefixStyle,
			highlightFrom: line.highlightFrom,
		}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
