package engine

import "github.com/riggingtools/vertex-blender/internal/logging/events"

// SyncContext is the cycle breaker shared by the two engines of one pair.
// Exactly one synchronization push may be in flight per pair; nested
// attempts are no-ops. It is deliberately per-pair state, never global, so
// independent pairs in the same process cannot falsely block each other.
type SyncContext struct {
	pending bool
}

// Begin marks a push as in flight. It reports false when another push is
// already running, in which case the caller must back off.
func (c *SyncContext) Begin() bool {
	if c.pending {
		return false
	}
	c.pending = true
	return true
}

// End clears the in-flight marker.
func (c *SyncContext) End() {
	c.pending = false
}

// Pending reports whether a synchronization push is in flight.
func (c *SyncContext) Pending() bool {
	return c.pending
}

// Controller pairs two sibling engines and propagates selection from one to
// the other. It subscribes to both engines rather than being wired into
// them, so the engines never hold cross-object method bindings.
type Controller struct {
	ctx   *SyncContext
	left  *Engine
	right *Engine
}

// Pair wires two engines together as siblings and returns their controller.
func Pair(left, right *Engine) *Controller {
	c := &Controller{ctx: &SyncContext{}, left: left, right: right}
	left.Subscribe(c.listenerFor(left))
	right.Subscribe(c.listenerFor(right))
	return c
}

// Context exposes the pair's shared synchronization context.
func (c *Controller) Context() *SyncContext {
	return c.ctx
}

// Sibling returns the engine paired with the given one, or nil for a
// stranger.
func (c *Controller) Sibling(e *Engine) *Engine {
	switch e {
	case c.left:
		return c.right
	case c.right:
		return c.left
	default:
		return nil
	}
}

func (c *Controller) listenerFor(e *Engine) Listener {
	return func(ev Event) {
		switch ev.Kind {
		case EventSelectionChanged:
			if e.AutoSelect() {
				c.MatchSelection(e)
			}
		case EventAutoSelectEnabled:
			c.MatchSelection(e)
		}
	}
}

// MatchSelection replaces the sibling's selection with the initiator's
// cached rows. The sibling's view emits its own selection-changed signal in
// response, which would re-enter this method; the pending flag cuts that
// cycle so the push runs exactly once.
func (c *Controller) MatchSelection(initiator *Engine) {
	sibling := c.Sibling(initiator)
	if sibling == nil {
		return
	}
	if !c.ctx.Begin() {
		events.Sync.Suppressed(c.sideOf(initiator))
		return
	}
	defer c.ctx.End()

	rows := initiator.SelectedRows()
	events.Sync.Push(c.sideOf(initiator), rows)
	// Cached rows were validated when they entered the initiator, so the
	// only SelectRows failure mode cannot occur here.
	_ = sibling.SelectRows(rows)
}

func (c *Controller) sideOf(e *Engine) string {
	if e == c.left {
		return "left"
	}
	return "right"
}
