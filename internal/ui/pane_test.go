package ui

import (
	"reflect"
	"testing"

	"github.com/riggingtools/vertex-blender/internal/engine"
)

func newTestPane(labels ...string) (*Pane, *engine.Engine) {
	p := NewPane("test")
	e := engine.New(engine.NewTable(labels...), p)
	p.Attach(e)
	rows := make([]int, len(labels))
	for i := range labels {
		rows[i] = i
	}
	if err := e.SetVisible(rows...); err != nil {
		panic(err)
	}
	return p, e
}

func TestApplySelectionReentersEngine(t *testing.T) {
	p, e := newTestPane("Root", "L_Arm", "R_Arm")

	p.ApplySelection([]int{2})

	if got := e.SelectedRows(); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("expected engine to cache [2], got %v", got)
	}
	if got := p.SelectedRows(); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("expected pane selection [2], got %v", got)
	}
}

func TestMoveCursorClamps(t *testing.T) {
	p, _ := newTestPane("a", "b", "c")

	p.MoveCursor(-5)
	if p.CursorRow() != 0 {
		t.Fatalf("expected cursor at row 0, got %d", p.CursorRow())
	}
	p.MoveCursor(10)
	if p.CursorRow() != 2 {
		t.Fatalf("expected cursor clamped to row 2, got %d", p.CursorRow())
	}
}

func TestViewportFollowsCursor(t *testing.T) {
	p, _ := newTestPane("a", "b", "c", "d", "e")
	p.SetHeight(2)

	p.MoveCursor(3)
	rows, start := p.VisibleRows()
	if start != 2 {
		t.Fatalf("expected viewport offset 2, got %d", start)
	}
	if !reflect.DeepEqual(rows, []int{2, 3}) {
		t.Fatalf("expected visible rows [2 3], got %v", rows)
	}

	p.ScrollToTop()
	rows, start = p.VisibleRows()
	if start != 0 || rows[0] != 0 {
		t.Fatalf("expected viewport reset, got start=%d rows=%v", start, rows)
	}
}

func TestScrollToBringsRowIntoView(t *testing.T) {
	p, _ := newTestPane("a", "b", "c", "d", "e")
	p.SetHeight(2)

	p.ScrollTo(4)
	if p.CursorRow() != 4 {
		t.Fatalf("expected cursor on row 4, got %d", p.CursorRow())
	}
	rows, _ := p.VisibleRows()
	found := false
	for _, row := range rows {
		if row == 4 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected row 4 inside viewport, got %v", rows)
	}
}

func TestToggleMarkRequiresMultiSelect(t *testing.T) {
	p, _ := newTestPane("a", "b")

	p.ToggleMark()
	if p.IsMarked(0) {
		t.Fatal("mark applied outside multi-select mode")
	}

	p.SetMultiSelect(true)
	p.ToggleMark()
	if !p.IsMarked(0) {
		t.Fatal("expected row 0 marked")
	}
	p.ToggleMark()
	if p.IsMarked(0) {
		t.Fatal("expected mark toggled off")
	}
}

func TestApplyMarksSelectsMarkedRows(t *testing.T) {
	p, e := newTestPane("a", "b", "c")
	p.SetMultiSelect(true)

	p.ToggleMark()
	p.MoveCursor(2)
	p.ToggleMark()
	p.ApplyMarks()

	if got := e.SelectedRows(); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Fatalf("expected selection [0 2], got %v", got)
	}

	p.SetMultiSelect(false)
	if p.IsMarked(0) {
		t.Fatal("expected marks dropped on leaving multi-select")
	}
}
