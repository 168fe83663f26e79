package ui

import (
	"sort"

	"github.com/riggingtools/vertex-blender/internal/engine"
	"github.com/riggingtools/vertex-blender/internal/logging/events"
)

// Pane is one influence list: cursor, viewport, and selection state over the
// active rows of its filter engine. It implements engine.View; applying a
// selection re-fires the engine's selection-changed entry point, which is the
// reentrancy the sync context guards against.
type Pane struct {
	name        string
	engine      *engine.Engine
	multiSelect bool

	cursor int // index into the active rows
	offset int // viewport offset into the active rows
	height int // rows available for items

	selection []int
	marks     map[int]struct{}
}

// NewPane constructs a pane. Attach must be called once the engine exists.
func NewPane(name string) *Pane {
	return &Pane{name: name, marks: map[int]struct{}{}}
}

// Attach wires the pane to its engine.
func (p *Pane) Attach(e *engine.Engine) {
	p.engine = e
}

// Engine returns the pane's filter engine.
func (p *Pane) Engine() *engine.Engine {
	return p.engine
}

// Name returns the pane's display name.
func (p *Pane) Name() string {
	return p.name
}

// SetMultiSelect toggles extended selection. Leaving the mode drops marks.
func (p *Pane) SetMultiSelect(enabled bool) {
	p.multiSelect = enabled
	if !enabled {
		p.marks = map[int]struct{}{}
	}
}

// MultiSelect reports whether extended selection is active.
func (p *Pane) MultiSelect() bool {
	return p.multiSelect
}

// SetHeight sets the number of item rows the viewport can show.
func (p *Pane) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	p.height = height
	p.clamp()
}

// SelectedRows returns the applied selection in application order.
func (p *Pane) SelectedRows() []int {
	return append([]int(nil), p.selection...)
}

// ApplySelection replaces the selection (clear-and-replace) and re-fires the
// engine's selection-changed handler, exactly as a host list view would.
func (p *Pane) ApplySelection(rows []int) {
	p.selection = append(p.selection[:0], rows...)
	if p.engine != nil {
		p.engine.OnSelectionChanged()
	}
}

// ScrollTo moves the cursor to the given row and brings it into view.
func (p *Pane) ScrollTo(row int) {
	active := p.engine.ActiveRows()
	for i, r := range active {
		if r == row {
			p.cursor = i
			break
		}
	}
	p.clamp()
}

// ScrollToTop resets the cursor and viewport to the first row.
func (p *Pane) ScrollToTop() {
	p.cursor = 0
	p.offset = 0
}

// CursorRow returns the row id under the cursor, or -1 on an empty list.
func (p *Pane) CursorRow() int {
	active := p.engine.ActiveRows()
	if len(active) == 0 {
		return -1
	}
	if p.cursor >= len(active) {
		return active[len(active)-1]
	}
	return active[p.cursor]
}

// MoveCursor moves the cursor by delta rows, clamped to the list.
func (p *Pane) MoveCursor(delta int) {
	p.cursor += delta
	p.clamp()
	events.UI.Cursor(p.name, p.cursor)
}

// Activate selects the row under the cursor.
func (p *Pane) Activate() {
	row := p.CursorRow()
	if row < 0 {
		return
	}
	p.ApplySelection([]int{row})
}

// ToggleMark flips the extended-selection mark on the row under the cursor.
func (p *Pane) ToggleMark() {
	if !p.multiSelect {
		return
	}
	row := p.CursorRow()
	if row < 0 {
		return
	}
	if _, ok := p.marks[row]; ok {
		delete(p.marks, row)
	} else {
		p.marks[row] = struct{}{}
	}
}

// IsMarked reports whether the row carries an extended-selection mark.
func (p *Pane) IsMarked(row int) bool {
	_, ok := p.marks[row]
	return ok
}

// ApplyMarks replaces the selection with the marked rows, in row order.
// Without marks it falls back to activating the cursor row.
func (p *Pane) ApplyMarks() {
	if len(p.marks) == 0 {
		p.Activate()
		return
	}
	rows := make([]int, 0, len(p.marks))
	for row := range p.marks {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	p.ApplySelection(rows)
}

// VisibleRows returns the slice of active rows inside the viewport, plus the
// viewport's starting index.
func (p *Pane) VisibleRows() ([]int, int) {
	active := p.engine.ActiveRows()
	if p.height <= 0 || len(active) <= p.height {
		return active, 0
	}
	p.clamp()
	end := p.offset + p.height
	if end > len(active) {
		end = len(active)
	}
	return active[p.offset:end], p.offset
}

// CursorIndex returns the cursor position within the active rows.
func (p *Pane) CursorIndex() int {
	return p.cursor
}

func (p *Pane) clamp() {
	active := p.engine.ActiveRows()
	if len(active) == 0 {
		p.cursor = 0
		p.offset = 0
		return
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(active) {
		p.cursor = len(active) - 1
	}
	if p.height <= 0 {
		return
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.height {
		p.offset = p.cursor - p.height + 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
	maxOffset := len(active) - p.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if p.offset > maxOffset {
		p.offset = maxOffset
	}
}
