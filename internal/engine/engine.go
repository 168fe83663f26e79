package engine

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidRow rejects setter input containing negative row ids.
var ErrInvalidRow = errors.New("row ids must be non-negative")

// EventKind discriminates engine notifications.
type EventKind int

const (
	// EventSelectionChanged fires after a non-empty view selection has been
	// cached and the filter re-run. It fires regardless of auto-select.
	EventSelectionChanged EventKind = iota
	// EventAutoSelectEnabled fires when auto-select transitions to on and a
	// one-time selection match with the sibling is required.
	EventAutoSelectEnabled
)

// Event describes a state change observers may react to.
type Event struct {
	Kind EventKind
	Rows []int
}

// Listener receives engine events.
type Listener func(Event)

// Engine owns visibility, override, and selection state for one list and
// decides per row whether it is shown. Selection changes flow in through
// OnSelectionChanged and out through the attached View.
type Engine struct {
	source Source
	view   View

	visible   map[int]struct{}
	selected  []int
	overrides map[int]struct{}

	activeRows   []int
	inactiveRows []int

	autoSelect bool
	listeners  []Listener
}

// New constructs an Engine over the given source and view. Auto-select
// starts enabled, matching single-select editing mode.
func New(source Source, view View) *Engine {
	if view == nil {
		view = NullView{}
	}
	return &Engine{
		source:     source,
		view:       view,
		visible:    map[int]struct{}{},
		overrides:  map[int]struct{}{},
		autoSelect: true,
	}
}

// SetView swaps the attached view.
func (e *Engine) SetView(view View) {
	if view == nil {
		view = NullView{}
	}
	e.view = view
}

// Source returns the label source backing this engine.
func (e *Engine) Source() Source {
	return e.source
}

// Subscribe registers a listener for engine events.
func (e *Engine) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) notify(ev Event) {
	for _, fn := range e.listeners {
		fn(ev)
	}
}

func validateRows(rows []int) error {
	for _, row := range rows {
		if row < 0 {
			return fmt.Errorf("%w (got %d)", ErrInvalidRow, row)
		}
	}
	return nil
}

// SetVisible replaces the visibility set and re-runs the filter. The whole
// call is rejected before any mutation when a row id is negative.
func (e *Engine) SetVisible(rows ...int) error {
	if err := validateRows(rows); err != nil {
		return err
	}
	e.visible = toSet(rows)
	e.Invalidate()
	return nil
}

// Visible returns the rows explicitly shown regardless of selection.
func (e *Engine) Visible() []int {
	return fromSet(e.visible)
}

// NumVisible returns the size of the visibility set.
func (e *Engine) NumVisible() int {
	return len(e.visible)
}

// SetOverrides replaces the one-shot override set and re-runs the filter.
func (e *Engine) SetOverrides(rows ...int) error {
	if err := validateRows(rows); err != nil {
		return err
	}
	e.overrides = toSet(rows)
	e.Invalidate()
	return nil
}

// Overrides returns the rows still holding an unconsumed filter bypass.
func (e *Engine) Overrides() []int {
	return fromSet(e.overrides)
}

// SelectedRows returns the cached selection in the order it was applied.
func (e *Engine) SelectedRows() []int {
	return append([]int(nil), e.selected...)
}

// setSelectedRows caches the selection without emitting events; it exists
// purely as an optimization for the filter pass.
func (e *Engine) setSelectedRows(rows []int) {
	e.selected = append(e.selected[:0], rows...)
}

// AutoSelect reports whether local selection changes mirror to the sibling.
func (e *Engine) AutoSelect() bool {
	return e.autoSelect
}

// SetAutoSelect toggles selection mirroring. Enabling it performs a one-time
// selection match with the sibling via subscribed controllers.
func (e *Engine) SetAutoSelect(enabled bool) {
	e.autoSelect = enabled
	if enabled {
		e.notify(Event{Kind: EventAutoSelectEnabled, Rows: e.SelectedRows()})
	}
}

// ActiveRows returns the rows accepted by the last filter pass, in row order.
func (e *Engine) ActiveRows() []int {
	return append([]int(nil), e.activeRows...)
}

// InactiveRows returns the rows rejected by the last filter pass.
func (e *Engine) InactiveRows() []int {
	return append([]int(nil), e.inactiveRows...)
}

// NumActiveRows returns the accepted-row count from the last filter pass.
func (e *Engine) NumActiveRows() int {
	return len(e.activeRows)
}

// NumInactiveRows returns the rejected-row count from the last filter pass.
func (e *Engine) NumInactiveRows() int {
	return len(e.inactiveRows)
}

// Invalidate runs a full filter pass. Overrides are consumed two-phase: the
// set is snapshotted and cleared up front, and the snapshot applies to this
// pass only. A row is accepted iff its label is non-empty and it is in the
// visibility set, the cached selection, or the override snapshot. Null rows
// consume their override without being accepted.
func (e *Engine) Invalidate() {
	bypass := e.overrides
	e.overrides = map[int]struct{}{}

	selected := toSet(e.selected)
	e.activeRows = e.activeRows[:0]
	e.inactiveRows = e.inactiveRows[:0]

	count := e.source.RowCount()
	for row := 0; row < count; row++ {
		if e.source.Label(row) == "" {
			e.inactiveRows = append(e.inactiveRows, row)
			continue
		}
		_, vis := e.visible[row]
		_, sel := selected[row]
		_, over := bypass[row]
		if vis || sel || over {
			e.activeRows = append(e.activeRows, row)
		} else {
			e.inactiveRows = append(e.inactiveRows, row)
		}
	}
}

// IsRowHidden reports whether the last filter pass rejected the row.
func (e *Engine) IsRowHidden(row int) bool {
	for _, r := range e.inactiveRows {
		if r == row {
			return true
		}
	}
	return false
}

// IsRowSelected reports whether the view currently holds the row selected.
func (e *Engine) IsRowSelected(row int) bool {
	for _, r := range e.view.SelectedRows() {
		if r == row {
			return true
		}
	}
	return false
}

// SelectRows is the central selection-setting routine. Hidden rows are
// granted a one-shot override so selecting them temporarily reveals them.
// A non-empty request replaces the view selection and scrolls to the first
// requested row; an empty request falls back to the first active row, or
// does nothing when the list is empty.
func (e *Engine) SelectRows(rows []int) error {
	if err := validateRows(rows); err != nil {
		return err
	}

	hidden := make([]int, 0, len(rows))
	for _, row := range rows {
		if e.IsRowHidden(row) {
			hidden = append(hidden, row)
		}
	}
	if len(hidden) > 0 {
		if err := e.SetOverrides(hidden...); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		e.view.ApplySelection(append([]int(nil), rows...))
		e.view.ScrollTo(rows[0])
		return nil
	}

	if len(e.activeRows) > 0 {
		e.view.ApplySelection([]int{e.activeRows[0]})
		e.view.ScrollToTop()
	}
	return nil
}

// OnSelectionChanged is the reactive entry point bound to the view's
// selection signal. An empty view selection is ignored so transient
// clear-then-set flickers cannot clobber the cached rows. Otherwise the new
// selection is cached, the filter re-run, and subscribers notified; the
// notification fires regardless of auto-select so downstream recomputes can
// always react.
func (e *Engine) OnSelectionChanged() {
	rows := e.view.SelectedRows()
	if len(rows) == 0 {
		return
	}
	e.setSelectedRows(rows)
	e.Invalidate()
	e.notify(Event{Kind: EventSelectionChanged, Rows: append([]int(nil), rows...)})
}

func toSet(rows []int) map[int]struct{} {
	set := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		set[row] = struct{}{}
	}
	return set
}

func fromSet(set map[int]struct{}) []int {
	rows := make([]int, 0, len(set))
	for row := range set {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	return rows
}
