package skin

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

type hookKind int

const (
	hookSelection hookKind = iota
	hookUndo
	hookRedo
)

type hook struct {
	kind hookKind
	fn   func()
}

// Memory is an in-memory Source, optionally round-tripped through a JSON
// weights file. It stands in for a host skin deformer: it owns the weight
// table, the soft selection, a clipboard, and an undo ring, and fires the
// same notification hooks a host would.
type Memory struct {
	influences Influences
	weights    map[VertexID]WeightMap
	soft       SoftSelection

	clipboard      []WeightMap
	clipboardOrder []VertexID

	undo []map[VertexID]WeightMap
	redo []map[VertexID]WeightMap

	hooks      map[Handle]hook
	nextHandle Handle
	bound      bool
}

// NewMemory builds a source over the given influence names (indexed by
// influence id, "" for gaps) and per-vertex weights.
func NewMemory(influences []string, weights map[VertexID]WeightMap) *Memory {
	m := &Memory{
		influences: NewInfluences(influences),
		weights:    make(map[VertexID]WeightMap, len(weights)),
		soft:       SoftSelection{},
		hooks:      map[Handle]hook{},
	}
	for vertex, vector := range weights {
		m.weights[vertex] = vector.Clone()
	}
	return m
}

// Bind attaches the source. It fails when there is nothing editable to bind.
func (m *Memory) Bind() error {
	if len(m.influences.IDs()) == 0 || len(m.weights) == 0 {
		return ErrNothingToBind
	}
	m.bound = true
	return nil
}

// Release detaches the source.
func (m *Memory) Release() {
	m.bound = false
}

// Valid reports whether a weighted object is bound.
func (m *Memory) Valid() bool {
	return m.bound
}

// Influences returns the influence collection.
func (m *Memory) Influences() Influences {
	return m.influences
}

// SetSoftSelection replaces the soft selection and fires the host
// selection-changed notification.
func (m *Memory) SetSoftSelection(selection SoftSelection) {
	m.soft = make(SoftSelection, len(selection))
	for vertex, falloff := range selection {
		m.soft[vertex] = clamp01(falloff)
	}
	m.fire(hookSelection)
}

// CurrentSoftSelection returns a copy of the soft selection.
func (m *Memory) CurrentSoftSelection() SoftSelection {
	selection := make(SoftSelection, len(m.soft))
	for vertex, falloff := range m.soft {
		selection[vertex] = falloff
	}
	return selection
}

// WeightsFor returns copies of the weight vectors for the given vertices.
// Unknown vertices are skipped.
func (m *Memory) WeightsFor(vertices ...VertexID) map[VertexID]WeightMap {
	snapshots := make(map[VertexID]WeightMap, len(vertices))
	for _, vertex := range vertices {
		if vector, ok := m.weights[vertex]; ok {
			snapshots[vertex] = vector.Clone()
		}
	}
	return snapshots
}

// AverageWeights means the supplied vectors and renormalizes the result.
func (m *Memory) AverageWeights(snapshots ...WeightMap) WeightMap {
	return averageWeights(snapshots)
}

// SetWeights moves the active influence toward amount, scaled by falloff,
// redistributing the difference across the source influences. Pure; the
// existing vector is never mutated.
func (m *Memory) SetWeights(existing WeightMap, active InfluenceID, sources []InfluenceID, amount, falloff float64) (WeightMap, error) {
	if !m.influences.Contains(active) {
		return nil, fmt.Errorf("active influence %d: %w", active, ErrUnknownInfluence)
	}
	current := existing[active]
	target := clamp01(current + (clamp01(amount)-current)*clamp01(falloff))
	return redistribute(existing, active, sources, target)
}

// IncrementWeights adds amount (scaled by falloff) to the active influence.
func (m *Memory) IncrementWeights(existing WeightMap, active InfluenceID, sources []InfluenceID, amount, falloff float64) (WeightMap, error) {
	if !m.influences.Contains(active) {
		return nil, fmt.Errorf("active influence %d: %w", active, ErrUnknownInfluence)
	}
	target := clamp01(existing[active] + amount*clamp01(falloff))
	return redistribute(existing, active, sources, target)
}

// ScaleWeights multiplies the active influence by 1+percent (scaled by
// falloff).
func (m *Memory) ScaleWeights(existing WeightMap, active InfluenceID, sources []InfluenceID, percent, falloff float64) (WeightMap, error) {
	if !m.influences.Contains(active) {
		return nil, fmt.Errorf("active influence %d: %w", active, ErrUnknownInfluence)
	}
	target := clamp01(existing[active] * (1 + percent*clamp01(falloff)))
	return redistribute(existing, active, sources, target)
}

// ApplyWeights commits a batch. Every vector is validated before anything is
// mutated; a rejected batch leaves the weight table untouched. A successful
// commit records one undo snapshot for the touched vertices.
func (m *Memory) ApplyWeights(updates map[VertexID]WeightMap) error {
	if !m.bound {
		return ErrNotBound
	}
	for _, vertex := range sortedVertexIDs(updates) {
		if _, ok := m.weights[vertex]; !ok {
			return fmt.Errorf("vertex %d: %w", vertex, ErrInvalidBatch)
		}
		if err := validateVector(m.influences, updates[vertex]); err != nil {
			return fmt.Errorf("vertex %d: %w", vertex, err)
		}
	}

	before := make(map[VertexID]WeightMap, len(updates))
	for vertex := range updates {
		before[vertex] = m.weights[vertex].Clone()
	}
	m.undo = append(m.undo, before)
	m.redo = nil

	for vertex, vector := range updates {
		m.weights[vertex] = vector.Clone()
	}
	return nil
}

// Undo restores the most recent snapshot and fires the undo notification.
func (m *Memory) Undo() bool {
	if len(m.undo) == 0 {
		return false
	}
	snapshot := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, m.swapIn(snapshot))
	m.fire(hookUndo)
	return true
}

// Redo reapplies the most recently undone snapshot.
func (m *Memory) Redo() bool {
	if len(m.redo) == 0 {
		return false
	}
	snapshot := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, m.swapIn(snapshot))
	m.fire(hookRedo)
	return true
}

func (m *Memory) swapIn(snapshot map[VertexID]WeightMap) map[VertexID]WeightMap {
	previous := make(map[VertexID]WeightMap, len(snapshot))
	for vertex, vector := range snapshot {
		previous[vertex] = m.weights[vertex].Clone()
		m.weights[vertex] = vector.Clone()
	}
	return previous
}

// CopyWeights captures the soft-selected vertices' vectors, in vertex order.
func (m *Memory) CopyWeights() error {
	if !m.bound {
		return ErrNotBound
	}
	order := sortedSelection(m.soft)
	m.clipboard = m.clipboard[:0]
	m.clipboardOrder = m.clipboardOrder[:0]
	for _, vertex := range order {
		if vector, ok := m.weights[vertex]; ok {
			m.clipboard = append(m.clipboard, vector.Clone())
			m.clipboardOrder = append(m.clipboardOrder, vertex)
		}
	}
	return nil
}

// PasteWeights applies the clipboard vectors pairwise onto the current
// selection, in vertex order, as one atomic batch.
func (m *Memory) PasteWeights() error {
	if len(m.clipboard) == 0 {
		return ErrEmptyClipboard
	}
	targets := sortedSelection(m.soft)
	updates := make(map[VertexID]WeightMap)
	for i, vertex := range targets {
		if i >= len(m.clipboard) {
			break
		}
		updates[vertex] = m.clipboard[i].Clone()
	}
	return m.ApplyWeights(updates)
}

// PasteAverageWeights applies the clipboard's averaged vector to every
// selected vertex.
func (m *Memory) PasteAverageWeights() error {
	if len(m.clipboard) == 0 {
		return ErrEmptyClipboard
	}
	average := averageWeights(m.clipboard)
	updates := make(map[VertexID]WeightMap)
	for vertex := range m.soft {
		updates[vertex] = average.Clone()
	}
	return m.ApplyWeights(updates)
}

// BlendVertices pulls every selected vertex toward the selection's averaged
// vector, scaled by its falloff.
func (m *Memory) BlendVertices() error {
	if !m.bound {
		return ErrNotBound
	}
	vertices := sortedSelection(m.soft)
	if len(vertices) < 2 {
		return nil
	}
	snapshots := make([]WeightMap, 0, len(vertices))
	for _, vertex := range vertices {
		snapshots = append(snapshots, m.weights[vertex])
	}
	average := averageWeights(snapshots)

	updates := make(map[VertexID]WeightMap, len(vertices))
	for _, vertex := range vertices {
		falloff := clamp01(m.soft[vertex])
		existing := m.weights[vertex]
		blended := WeightMap{}
		for _, id := range m.influences.IDs() {
			blended[id] = existing[id] + (average[id]-existing[id])*falloff
		}
		updates[vertex] = normalizeWeights(blended)
	}
	return m.ApplyWeights(updates)
}

// VerticesByInfluence returns every vertex carrying weight on any of the
// given influences, in vertex order.
func (m *Memory) VerticesByInfluence(ids []InfluenceID) []VertexID {
	wanted := make(map[InfluenceID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var vertices []VertexID
	for vertex, vector := range m.weights {
		for id := range wanted {
			if vector[id] > weightEpsilon {
				vertices = append(vertices, vertex)
				break
			}
		}
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })
	return vertices
}

// SelectVertices replaces the soft selection with the given vertices at full
// falloff, firing the selection-changed notification.
func (m *Memory) SelectVertices(vertices []VertexID) {
	selection := make(SoftSelection, len(vertices))
	for _, vertex := range vertices {
		selection[vertex] = 1
	}
	m.SetSoftSelection(selection)
}

type weightsFile struct {
	Influences []string               `json:"influences"`
	Weights    map[VertexID]WeightMap `json:"weights"`
}

// SaveWeights writes the influence names and weight table as JSON.
func (m *Memory) SaveWeights(path string) error {
	if !m.bound {
		return ErrNotBound
	}
	names := make([]string, m.influences.LastIndex()+1)
	for id := range names {
		names[id] = m.influences.Name(InfluenceID(id))
	}
	payload, err := json.MarshalIndent(weightsFile{Influences: names, Weights: m.weights}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode weights: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write weights: %w", err)
	}
	return nil
}

// LoadWeights replaces the influence names and weight table from a JSON
// file and fires the selection-changed notification so cached state is
// rebuilt.
func (m *Memory) LoadWeights(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read weights: %w", err)
	}
	var file weightsFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return fmt.Errorf("decode weights: %w", err)
	}
	m.influences = NewInfluences(file.Influences)
	m.weights = make(map[VertexID]WeightMap, len(file.Weights))
	for vertex, vector := range file.Weights {
		m.weights[vertex] = vector.Clone()
	}
	m.undo = nil
	m.redo = nil
	m.fire(hookSelection)
	return nil
}

// OnSelectionChanged registers a component-selection-changed hook.
func (m *Memory) OnSelectionChanged(fn func()) Handle {
	return m.addHook(hookSelection, fn)
}

// OnUndo registers an undo hook.
func (m *Memory) OnUndo(fn func()) Handle {
	return m.addHook(hookUndo, fn)
}

// OnRedo registers a redo hook.
func (m *Memory) OnRedo(fn func()) Handle {
	return m.addHook(hookRedo, fn)
}

// RemoveHook unregisters a hook; unknown handles are ignored.
func (m *Memory) RemoveHook(h Handle) {
	delete(m.hooks, h)
}

func (m *Memory) addHook(kind hookKind, fn func()) Handle {
	m.nextHandle++
	m.hooks[m.nextHandle] = hook{kind: kind, fn: fn}
	return m.nextHandle
}

func (m *Memory) fire(kind hookKind) {
	for _, h := range m.hooks {
		if h.kind == kind && h.fn != nil {
			h.fn()
		}
	}
}

func sortedVertexIDs(updates map[VertexID]WeightMap) []VertexID {
	vertices := make([]VertexID, 0, len(updates))
	for vertex := range updates {
		vertices = append(vertices, vertex)
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })
	return vertices
}

func sortedSelection(selection SoftSelection) []VertexID {
	vertices := make([]VertexID, 0, len(selection))
	for vertex := range selection {
		vertices = append(vertices, vertex)
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })
	return vertices
}
