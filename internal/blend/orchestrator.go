// Package blend turns single user edit actions into atomic, falloff-weighted
// batch updates against a weight source, and keeps the weight pane's cached
// display state in step with the host selection.
package blend

import (
	"fmt"
	"sort"

	"github.com/riggingtools/vertex-blender/internal/engine"
	"github.com/riggingtools/vertex-blender/internal/logging/events"
	"github.com/riggingtools/vertex-blender/internal/skin"
)

// computeFn is one of the source's pure per-vertex weight functions.
type computeFn func(existing skin.WeightMap, active skin.InfluenceID, sources []skin.InfluenceID, amount, falloff float64) (skin.WeightMap, error)

// Orchestrator mediates between the two filter engines and a weight source.
// The influence engine's selection names the active influence; the weight
// engine's rows name the redistribution sources. All edits go through one
// ApplyWeights call per user action.
type Orchestrator struct {
	source    skin.Source
	influence *engine.Engine
	weights   *engine.Engine

	precision bool
	bound     bool
	hooks     []skin.Handle

	soft     skin.SoftSelection
	snapshot map[skin.VertexID]skin.WeightMap
	display  skin.WeightMap
}

// New wires an orchestrator over the influence and weight engines. The
// orchestrator starts unbound; nothing touches the source until Bind.
func New(source skin.Source, influence, weights *engine.Engine) *Orchestrator {
	return &Orchestrator{
		source:    source,
		influence: influence,
		weights:   weights,
		soft:      skin.SoftSelection{},
		snapshot:  map[skin.VertexID]skin.WeightMap{},
		display:   skin.WeightMap{},
	}
}

// Bound reports whether a weighted object is currently bound.
func (o *Orchestrator) Bound() bool {
	return o.bound
}

// Bind attaches the weight source and registers the host notification hooks.
// A failed bind leaves the orchestrator inactive.
func (o *Orchestrator) Bind() error {
	if o.bound {
		return nil
	}
	if err := o.source.Bind(); err != nil {
		events.Blend.BindFailed(err)
		return fmt.Errorf("bind weight source: %w", err)
	}
	o.hooks = []skin.Handle{
		o.source.OnSelectionChanged(o.InvalidateWeights),
		o.source.OnUndo(o.InvalidateWeights),
		o.source.OnRedo(o.InvalidateWeights),
	}
	o.bound = true
	o.InvalidateWeights()
	events.Blend.Bound()
	return nil
}

// Unbind removes the notification hooks and releases the source. Cached
// selection and weight state is cleared.
func (o *Orchestrator) Unbind() {
	if !o.bound {
		return
	}
	for _, h := range o.hooks {
		o.source.RemoveHook(h)
	}
	o.hooks = nil
	o.source.Release()
	o.bound = false
	o.soft = skin.SoftSelection{}
	o.snapshot = map[skin.VertexID]skin.WeightMap{}
	o.display = skin.WeightMap{}
	events.Blend.Unbound()
}

// Precision reports whether the weight pane is in extended-selection mode.
func (o *Orchestrator) Precision() bool {
	return o.precision
}

// SetPrecision switches the source-influence resolution between extended
// selection (precision) and active-rows-minus-selection (single select).
func (o *Orchestrator) SetPrecision(enabled bool) {
	o.precision = enabled
	events.Blend.Precision(enabled)
}

// ActiveInfluence returns the first selected influence row.
func (o *Orchestrator) ActiveInfluence() (skin.InfluenceID, error) {
	rows := o.influence.SelectedRows()
	if len(rows) == 0 {
		return 0, ErrNoActiveInfluence
	}
	return skin.InfluenceID(rows[0]), nil
}

// SourceInfluences resolves the influences weight is redistributed across.
// Precision mode uses the weight pane's selection; single-select mode uses
// its active rows. The active influence is excluded either way.
func (o *Orchestrator) SourceInfluences() ([]skin.InfluenceID, error) {
	active, err := o.ActiveInfluence()
	if err != nil {
		return nil, err
	}

	var rows []int
	if o.precision {
		rows = o.weights.SelectedRows()
	} else {
		rows = o.weights.ActiveRows()
	}
	if len(rows) == 0 {
		return nil, ErrNoSelection
	}

	excluded := map[int]struct{}{int(active): {}}
	if !o.precision {
		for _, row := range o.weights.SelectedRows() {
			excluded[row] = struct{}{}
		}
	}

	sources := make([]skin.InfluenceID, 0, len(rows))
	for _, row := range rows {
		if _, skip := excluded[row]; skip {
			continue
		}
		sources = append(sources, skin.InfluenceID(row))
	}
	return sources, nil
}

// SetWeight moves the active influence toward amount on every soft-selected
// vertex, one atomic batch.
func (o *Orchestrator) SetWeight(amount float64) error {
	return o.edit("set", o.source.SetWeights, amount)
}

// ApplyPreset is SetWeight under a preset value.
func (o *Orchestrator) ApplyPreset(amount float64) error {
	return o.edit("preset", o.source.SetWeights, amount)
}

// IncrementWeight adds amount to the active influence; pull negates it.
func (o *Orchestrator) IncrementWeight(amount float64, pull bool) error {
	if pull {
		amount = -amount
	}
	return o.edit("increment", o.source.IncrementWeights, amount)
}

// ScaleWeight scales the active influence by percent; pull negates it.
func (o *Orchestrator) ScaleWeight(percent float64, pull bool) error {
	if pull {
		percent = -percent
	}
	return o.edit("scale", o.source.ScaleWeights, percent)
}

// edit is the shared batch protocol: resolve active and sources up front,
// compute one replacement vector per soft-selected vertex, then commit the
// whole batch with a single ApplyWeights call. Any per-vertex failure aborts
// before the apply; a failed apply leaves the cached snapshot untouched.
func (o *Orchestrator) edit(op string, compute computeFn, amount float64) error {
	if !o.bound {
		return skin.ErrNotBound
	}
	active, err := o.ActiveInfluence()
	if err != nil {
		events.Blend.EditFailed(op, err)
		return err
	}
	sources, err := o.SourceInfluences()
	if err != nil {
		events.Blend.EditFailed(op, err)
		return err
	}
	if len(o.soft) == 0 {
		events.Blend.EditFailed(op, ErrNoSelection)
		return ErrNoSelection
	}

	updates := make(map[skin.VertexID]skin.WeightMap, len(o.soft))
	for _, vertex := range o.sortedVertices() {
		updated, err := compute(o.snapshot[vertex], active, sources, amount, o.soft[vertex])
		if err != nil {
			events.Blend.EditFailed(op, err)
			return fmt.Errorf("vertex %d: %w", vertex, err)
		}
		updates[vertex] = updated
	}
	if err := o.source.ApplyWeights(updates); err != nil {
		events.Blend.EditFailed(op, err)
		return err
	}

	events.Blend.Edit(op, int(active), len(sources), len(updates))
	o.InvalidateWeights()
	return nil
}

// InvalidateWeights rebuilds the cached soft selection and weight snapshot
// and feeds the influences carrying weight into the weight pane's visibility
// set. With no vertices selected the display is empty; with one it is that
// vertex's vector; with more it is the selection average.
func (o *Orchestrator) InvalidateWeights() {
	if !o.bound {
		return
	}
	o.soft = o.source.CurrentSoftSelection()
	vertices := o.sortedVertices()
	o.snapshot = o.source.WeightsFor(vertices...)

	switch len(vertices) {
	case 0:
		o.display = skin.WeightMap{}
	case 1:
		o.display = o.snapshot[vertices[0]].Clone()
	default:
		snapshots := make([]skin.WeightMap, 0, len(vertices))
		for _, vertex := range vertices {
			snapshots = append(snapshots, o.snapshot[vertex])
		}
		o.display = o.source.AverageWeights(snapshots...)
	}

	rows := make([]int, 0, len(o.display))
	for id, weight := range o.display {
		if weight > 0 {
			rows = append(rows, int(id))
		}
	}
	sort.Ints(rows)
	_ = o.weights.SetVisible(rows...)
	events.Blend.Invalidate(len(vertices), len(rows))
}

// DisplayWeights returns the vector shown in the weight pane.
func (o *Orchestrator) DisplayWeights() skin.WeightMap {
	return o.display.Clone()
}

// SoftSelection returns the cached soft selection.
func (o *Orchestrator) SoftSelection() skin.SoftSelection {
	selection := make(skin.SoftSelection, len(o.soft))
	for vertex, falloff := range o.soft {
		selection[vertex] = falloff
	}
	return selection
}

// VertexCount returns the number of soft-selected vertices.
func (o *Orchestrator) VertexCount() int {
	return len(o.soft)
}

// CopyWeights passes through to the source clipboard.
func (o *Orchestrator) CopyWeights() error {
	if !o.bound {
		return skin.ErrNotBound
	}
	return o.source.CopyWeights()
}

// PasteWeights pastes the clipboard pairwise and refreshes the display.
func (o *Orchestrator) PasteWeights() error {
	return o.passThrough(o.source.PasteWeights)
}

// PasteAverageWeights pastes the clipboard average and refreshes the display.
func (o *Orchestrator) PasteAverageWeights() error {
	return o.passThrough(o.source.PasteAverageWeights)
}

// BlendVertices blends the selection toward its average and refreshes the
// display.
func (o *Orchestrator) BlendVertices() error {
	return o.passThrough(o.source.BlendVertices)
}

func (o *Orchestrator) passThrough(fn func() error) error {
	if !o.bound {
		return skin.ErrNotBound
	}
	if err := fn(); err != nil {
		return err
	}
	o.InvalidateWeights()
	return nil
}

// SelectAffectedVertices pushes the vertices driven by the selected
// influences as the new host selection.
func (o *Orchestrator) SelectAffectedVertices() error {
	if !o.bound {
		return skin.ErrNotBound
	}
	rows := o.influence.SelectedRows()
	if len(rows) == 0 {
		return ErrNoActiveInfluence
	}
	ids := make([]skin.InfluenceID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, skin.InfluenceID(row))
	}
	o.source.SelectVertices(o.source.VerticesByInfluence(ids))
	return nil
}

// SaveWeights writes the source's weights to a file.
func (o *Orchestrator) SaveWeights(path string) error {
	if !o.bound {
		return skin.ErrNotBound
	}
	if err := o.source.SaveWeights(path); err != nil {
		return err
	}
	events.Skin.Saved(path)
	return nil
}

// LoadWeights replaces the source's weights from a file and refreshes the
// display.
func (o *Orchestrator) LoadWeights(path string) error {
	if !o.bound {
		return skin.ErrNotBound
	}
	if err := o.source.LoadWeights(path); err != nil {
		return err
	}
	events.Skin.Loaded(path, len(o.source.Influences().IDs()))
	o.InvalidateWeights()
	return nil
}

func (o *Orchestrator) sortedVertices() []skin.VertexID {
	vertices := make([]skin.VertexID, 0, len(o.soft))
	for vertex := range o.soft {
		vertices = append(vertices, vertex)
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })
	return vertices
}
