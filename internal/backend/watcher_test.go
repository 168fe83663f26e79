package backend

import (
	"testing"
	"time"

	"github.com/riggingtools/vertex-blender/internal/skin"
)

func newTestSource(t *testing.T) *skin.Memory {
	t.Helper()
	m := skin.NewMemory([]string{"Root"}, map[skin.VertexID]skin.WeightMap{0: {0: 1}})
	if err := m.Bind(); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	return m
}

func drain(w *Watcher) []Event {
	var events []Event
	for {
		select {
		case evt := <-w.Events():
			events = append(events, evt)
		default:
			return events
		}
	}
}

func TestWatcherForwardsNotifications(t *testing.T) {
	source := newTestSource(t)
	w := NewWatcher(source, 0)
	defer w.Stop()

	source.SetSoftSelection(skin.SoftSelection{0: 1})
	if err := source.ApplyWeights(map[skin.VertexID]skin.WeightMap{0: {0: 1}}); err != nil {
		t.Fatalf("ApplyWeights: %v", err)
	}
	source.Undo()
	source.Redo()

	events := drain(w)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d (%v)", len(events), events)
	}
	kinds := []Kind{events[0].Kind, events[1].Kind, events[2].Kind}
	want := []Kind{KindSelection, KindUndo, KindRedo}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d: expected kind %d, got %d", i, want[i], kinds[i])
		}
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	source := newTestSource(t)
	w := NewWatcher(source, time.Minute)
	defer w.Stop()

	for i := 0; i < 10; i++ {
		source.SetSoftSelection(skin.SoftSelection{0: 1})
	}

	events := drain(w)
	if len(events) != 1 {
		t.Fatalf("expected 1 coalesced event, got %d", len(events))
	}
}

func TestWatcherStopRemovesHooks(t *testing.T) {
	source := newTestSource(t)
	w := NewWatcher(source, 0)
	w.Stop()

	source.SetSoftSelection(skin.SoftSelection{0: 1})
	if events := drain(w); len(events) != 0 {
		t.Fatalf("expected no events after Stop, got %d", len(events))
	}
}

func TestGateAllowsAfterInterval(t *testing.T) {
	g := newGate(10 * time.Millisecond)
	if !g.allow() {
		t.Fatal("first call should pass")
	}
	if g.allow() {
		t.Fatal("second call inside interval should be rejected")
	}
	time.Sleep(15 * time.Millisecond)
	if !g.allow() {
		t.Fatal("call after interval should pass")
	}
}
