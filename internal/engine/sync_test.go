package engine

import (
	"reflect"
	"testing"
)

// newLinkedPair builds two engines whose fake views re-fire
// OnSelectionChanged from ApplySelection, mimicking native selection
// signals.
func newLinkedPair(labels ...string) (*Engine, *fakeView, *Engine, *fakeView, *Controller) {
	leftView := &fakeView{}
	left := New(NewTable(labels...), leftView)
	leftView.engine = left

	rightView := &fakeView{}
	right := New(NewTable(labels...), rightView)
	rightView.engine = right

	ctrl := Pair(left, right)
	return left, leftView, right, rightView, ctrl
}

func TestMatchSelectionPushesOnce(t *testing.T) {
	left, leftView, _, rightView, _ := newLinkedPair("a", "b", "c")

	// Simulate a user selection on the left view. The controller must push
	// it to the right exactly once; the right view's reentrant signal must
	// not bounce the push back.
	leftView.selection = []int{1}
	left.OnSelectionChanged()

	if rightView.applied != 1 {
		t.Fatalf("expected exactly one push to sibling, got %d", rightView.applied)
	}
	if leftView.applied != 0 {
		t.Fatalf("expected no bounce back to initiator, got %d", leftView.applied)
	}
	if !reflect.DeepEqual(rightView.selection, []int{1}) {
		t.Fatalf("expected sibling selection [1], got %v", rightView.selection)
	}
}

func TestMatchSelectionRevealsHiddenSiblingRows(t *testing.T) {
	left, leftView, right, rightView, _ := newLinkedPair("a", "b", "c")
	if err := right.SetVisible(0); err != nil {
		t.Fatalf("SetVisible: %v", err)
	}

	leftView.selection = []int{2}
	left.OnSelectionChanged()

	if !reflect.DeepEqual(rightView.selection, []int{2}) {
		t.Fatalf("expected hidden sibling row selected, got %v", rightView.selection)
	}
	if right.IsRowHidden(2) {
		t.Fatal("expected sibling row revealed by override")
	}
}

func TestAutoSelectDisabledSkipsPush(t *testing.T) {
	left, leftView, _, rightView, _ := newLinkedPair("a", "b")
	left.SetAutoSelect(false)

	leftView.selection = []int{0}
	left.OnSelectionChanged()

	if rightView.applied != 0 {
		t.Fatalf("expected no push with auto-select off, got %d", rightView.applied)
	}
}

func TestEnablingAutoSelectMatchesImmediately(t *testing.T) {
	left, leftView, _, rightView, _ := newLinkedPair("a", "b")
	left.SetAutoSelect(false)
	leftView.selection = []int{1}
	left.OnSelectionChanged()
	if rightView.applied != 0 {
		t.Fatalf("expected no push yet, got %d", rightView.applied)
	}

	left.SetAutoSelect(true)
	if rightView.applied != 1 {
		t.Fatalf("expected one-time match on enable, got %d", rightView.applied)
	}
	if !reflect.DeepEqual(rightView.selection, []int{1}) {
		t.Fatalf("expected sibling selection [1], got %v", rightView.selection)
	}
}

func TestNestedMatchSelectionIsNoOp(t *testing.T) {
	left, leftView, _, rightView, ctrl := newLinkedPair("a", "b")
	leftView.selection = []int{0}
	left.setSelectedRows([]int{0})

	if !ctrl.Context().Begin() {
		t.Fatal("expected to acquire the sync context")
	}
	ctrl.MatchSelection(left)
	if rightView.applied != 0 {
		t.Fatalf("expected nested push suppressed, got %d", rightView.applied)
	}
	ctrl.Context().End()
	if ctrl.Context().Pending() {
		t.Fatal("expected context released")
	}
}

func TestIndependentPairsDoNotBlockEachOther(t *testing.T) {
	leftA, leftAView, _, rightAView, _ := newLinkedPair("a", "b")
	leftB, leftBView, _, rightBView, _ := newLinkedPair("a", "b")

	// While pair A's push is mid-flight, pair B starts its own push. Each
	// pair owns its sync context, so B must go through.
	rightAView.engine.Subscribe(func(ev Event) {
		if ev.Kind != EventSelectionChanged {
			return
		}
		if rightBView.applied == 0 {
			leftBView.selection = []int{1}
			leftB.OnSelectionChanged()
		}
	})

	leftAView.selection = []int{0}
	leftA.OnSelectionChanged()

	if rightAView.applied != 1 {
		t.Fatalf("expected pair A push, got %d", rightAView.applied)
	}
	if rightBView.applied != 1 {
		t.Fatalf("expected pair B push despite pair A in flight, got %d", rightBView.applied)
	}
}

func TestSiblingLookup(t *testing.T) {
	left, _, right, _, ctrl := newLinkedPair("a")
	if ctrl.Sibling(left) != right || ctrl.Sibling(right) != left {
		t.Fatal("expected symmetric sibling lookup")
	}
	stranger := New(NewTable("z"), nil)
	if ctrl.Sibling(stranger) != nil {
		t.Fatal("expected nil sibling for unpaired engine")
	}
}
