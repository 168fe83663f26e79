package engine

import (
	"errors"
	"reflect"
	"testing"
)

type fakeView struct {
	engine    *Engine
	selection []int
	applied   int
	scrolled  []int
	topScroll int
}

func (v *fakeView) SelectedRows() []int {
	return append([]int(nil), v.selection...)
}

func (v *fakeView) ApplySelection(rows []int) {
	v.applied++
	v.selection = append([]int(nil), rows...)
	if v.engine != nil {
		v.engine.OnSelectionChanged()
	}
}

func (v *fakeView) ScrollTo(row int) {
	v.scrolled = append(v.scrolled, row)
}

func (v *fakeView) ScrollToTop() {
	v.topScroll++
}

func newTestEngine(labels ...string) (*Engine, *fakeView) {
	view := &fakeView{}
	e := New(NewTable(labels...), view)
	return e, view
}

func TestFilterPassScenario(t *testing.T) {
	e, view := newTestEngine("a", "b", "c", "d", "e")

	if err := e.SetVisible(0, 2, 4); err != nil {
		t.Fatalf("SetVisible: %v", err)
	}
	view.selection = []int{2}
	e.OnSelectionChanged()
	if err := e.SetOverrides(4); err != nil {
		t.Fatalf("SetOverrides: %v", err)
	}

	if got := e.ActiveRows(); !reflect.DeepEqual(got, []int{0, 2, 4}) {
		t.Fatalf("expected active rows [0 2 4], got %v", got)
	}
	if got := e.InactiveRows(); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("expected inactive rows [1 3], got %v", got)
	}
	if got := e.Overrides(); len(got) != 0 {
		t.Fatalf("expected overrides consumed, got %v", got)
	}
}

func TestFilterPassIsIdempotent(t *testing.T) {
	e, view := newTestEngine("a", "b", "c", "d")
	if err := e.SetVisible(1, 3); err != nil {
		t.Fatalf("SetVisible: %v", err)
	}
	view.selection = []int{1}
	e.OnSelectionChanged()

	active := e.ActiveRows()
	inactive := e.InactiveRows()
	e.Invalidate()
	if !reflect.DeepEqual(e.ActiveRows(), active) {
		t.Fatalf("active rows drifted: %v vs %v", e.ActiveRows(), active)
	}
	if !reflect.DeepEqual(e.InactiveRows(), inactive) {
		t.Fatalf("inactive rows drifted: %v vs %v", e.InactiveRows(), inactive)
	}
}

func TestOverrideIsOneShot(t *testing.T) {
	e, _ := newTestEngine("a", "b", "c")

	if err := e.SetOverrides(1); err != nil {
		t.Fatalf("SetOverrides: %v", err)
	}
	if got := e.Overrides(); len(got) != 0 {
		t.Fatalf("expected override consumed by the pass, got %v", got)
	}
	if !reflect.DeepEqual(e.ActiveRows(), []int{1}) {
		t.Fatalf("expected override to reveal row 1, got %v", e.ActiveRows())
	}

	e.Invalidate()
	if e.NumActiveRows() != 0 {
		t.Fatalf("expected second pass to hide row 1 again, got %v", e.ActiveRows())
	}
}

func TestNullRowsAlwaysInactive(t *testing.T) {
	e, view := newTestEngine("a", "", "c")

	if err := e.SetVisible(0, 1, 2); err != nil {
		t.Fatalf("SetVisible: %v", err)
	}
	if !reflect.DeepEqual(e.ActiveRows(), []int{0, 2}) {
		t.Fatalf("expected null row excluded, got %v", e.ActiveRows())
	}
	if !e.IsRowHidden(1) {
		t.Fatal("expected null row to be hidden")
	}

	// Neither an override nor a cached selection may resurrect a null row.
	if err := e.SetOverrides(1); err != nil {
		t.Fatalf("SetOverrides: %v", err)
	}
	if !reflect.DeepEqual(e.InactiveRows(), []int{1}) {
		t.Fatalf("expected null row inactive under override, got %v", e.InactiveRows())
	}
	view.selection = []int{0, 1}
	e.OnSelectionChanged()
	if !e.IsRowHidden(1) {
		t.Fatal("expected null row hidden even while selected")
	}
}

func TestSelectRowsGrantsOverrideForHiddenRows(t *testing.T) {
	e, view := newTestEngine("a", "b", "c")
	if err := e.SetVisible(0); err != nil {
		t.Fatalf("SetVisible: %v", err)
	}
	if !e.IsRowHidden(2) {
		t.Fatal("expected row 2 hidden before selection")
	}

	if err := e.SelectRows([]int{2}); err != nil {
		t.Fatalf("SelectRows: %v", err)
	}
	if !reflect.DeepEqual(view.selection, []int{2}) {
		t.Fatalf("expected view selection [2], got %v", view.selection)
	}
	if e.IsRowHidden(2) {
		t.Fatal("expected hidden row revealed via one-shot override")
	}
	if got := view.scrolled; !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("expected scroll to row 2, got %v", got)
	}
}

func TestSelectRowsEmptyFallsBackToFirstActive(t *testing.T) {
	e, view := newTestEngine("a", "b", "c")
	if err := e.SetVisible(1, 2); err != nil {
		t.Fatalf("SetVisible: %v", err)
	}

	if err := e.SelectRows(nil); err != nil {
		t.Fatalf("SelectRows: %v", err)
	}
	if !reflect.DeepEqual(view.selection, []int{1}) {
		t.Fatalf("expected fallback selection [1], got %v", view.selection)
	}
	if view.topScroll != 1 {
		t.Fatalf("expected scroll to top, got %d", view.topScroll)
	}
}

func TestSelectRowsEmptyWithNoActiveRowsIsNoOp(t *testing.T) {
	e, view := newTestEngine("", "")
	if err := e.SelectRows(nil); err != nil {
		t.Fatalf("SelectRows: %v", err)
	}
	if view.applied != 0 || view.topScroll != 0 {
		t.Fatalf("expected no view mutation, got applied=%d topScroll=%d", view.applied, view.topScroll)
	}
}

func TestSettersRejectNegativeRowsBeforeMutation(t *testing.T) {
	e, _ := newTestEngine("a", "b")
	if err := e.SetVisible(0, 1); err != nil {
		t.Fatalf("SetVisible: %v", err)
	}

	if err := e.SetVisible(1, -2); !errors.Is(err, ErrInvalidRow) {
		t.Fatalf("expected ErrInvalidRow, got %v", err)
	}
	if got := e.Visible(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("expected visibility set untouched, got %v", got)
	}
	if err := e.SetOverrides(-1); !errors.Is(err, ErrInvalidRow) {
		t.Fatalf("expected ErrInvalidRow, got %v", err)
	}
	if err := e.SelectRows([]int{-5}); !errors.Is(err, ErrInvalidRow) {
		t.Fatalf("expected ErrInvalidRow, got %v", err)
	}
}

func TestOnSelectionChangedIgnoresEmptySelection(t *testing.T) {
	e, view := newTestEngine("a", "b")
	view.selection = []int{1}
	e.OnSelectionChanged()

	view.selection = nil
	e.OnSelectionChanged()
	if got := e.SelectedRows(); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("expected cached selection preserved, got %v", got)
	}
}

func TestSelectionChangedNotifiesRegardlessOfAutoSelect(t *testing.T) {
	e, view := newTestEngine("a", "b")
	e.SetAutoSelect(false)

	events := 0
	e.Subscribe(func(ev Event) {
		if ev.Kind == EventSelectionChanged {
			events++
		}
	})
	view.selection = []int{0}
	e.OnSelectionChanged()
	if events != 1 {
		t.Fatalf("expected 1 selection event, got %d", events)
	}
}

func TestIsRowSelectedQueriesView(t *testing.T) {
	e, view := newTestEngine("a", "b", "c")
	view.selection = []int{2}
	if !e.IsRowSelected(2) {
		t.Fatal("expected row 2 selected")
	}
	if e.IsRowSelected(0) {
		t.Fatal("expected row 0 not selected")
	}
}
