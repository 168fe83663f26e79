// Package backend bridges weight-source notifications into events the UI
// update loop can consume, coalescing notification bursts.
package backend

import (
	"time"

	"github.com/riggingtools/vertex-blender/internal/skin"
)

// Kind represents the type of host notification forwarded by the watcher.
type Kind int

const (
	KindSelection Kind = iota
	KindUndo
	KindRedo
)

// Event conveys one forwarded host notification.
type Event struct {
	Kind Kind
	At   time.Time
}

// Watcher subscribes to a weight source's notification hooks and republishes
// them on a channel. Bursts of a single kind inside the coalescing window are
// collapsed into one event; a full channel drops rather than blocks, since a
// dropped notification is recovered by the next invalidation anyway.
type Watcher struct {
	source skin.Notifier
	hooks  []skin.Handle
	gates  map[Kind]*gate
	events chan Event
}

// NewWatcher registers hooks on the source. The window bounds how often one
// notification kind is forwarded; zero disables coalescing.
func NewWatcher(source skin.Notifier, window time.Duration) *Watcher {
	w := &Watcher{
		source: source,
		events: make(chan Event, 16),
		gates: map[Kind]*gate{
			KindSelection: newGate(window),
			KindUndo:      newGate(window),
			KindRedo:      newGate(window),
		},
	}
	w.hooks = []skin.Handle{
		source.OnSelectionChanged(func() { w.publish(KindSelection) }),
		source.OnUndo(func() { w.publish(KindUndo) }),
		source.OnRedo(func() { w.publish(KindRedo) }),
	}
	return w
}

// Events returns the channel of forwarded notifications.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop removes the notification hooks. The channel is left open; pending
// events may still be drained.
func (w *Watcher) Stop() {
	for _, h := range w.hooks {
		w.source.RemoveHook(h)
	}
	w.hooks = nil
}

func (w *Watcher) publish(kind Kind) {
	if !w.gates[kind].allow() {
		return
	}
	select {
	case w.events <- Event{Kind: kind, At: time.Now()}:
	default:
	}
}
