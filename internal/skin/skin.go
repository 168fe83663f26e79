// Package skin defines the weight-source capability the editor consumes:
// influence identities, per-vertex weight queries and writes, soft-selection
// falloffs, and host notification hooks. The editor core never touches
// geometry; everything flows through a Source.
package skin

import "errors"

var (
	// ErrNotBound marks operations attempted before a successful Bind.
	ErrNotBound = errors.New("skin: no weighted object bound")
	// ErrNothingToBind marks a Bind with no usable host selection.
	ErrNothingToBind = errors.New("skin: host selection holds no weighted object")
	// ErrUnknownInfluence marks a weight operation naming a missing influence.
	ErrUnknownInfluence = errors.New("skin: unknown influence")
	// ErrInvalidBatch marks an ApplyWeights call whose vectors fail validation.
	ErrInvalidBatch = errors.New("skin: invalid weight batch")
	// ErrEmptyClipboard marks a paste with nothing copied.
	ErrEmptyClipboard = errors.New("skin: clipboard is empty")
)

// VertexID identifies a weighted vertex.
type VertexID int

// InfluenceID identifies a weight contributor, e.g. a skeletal joint.
type InfluenceID int

// WeightMap holds one vertex's weights keyed by influence.
type WeightMap map[InfluenceID]float64

// SoftSelection maps each selected vertex to a falloff strength in [0,1].
type SoftSelection map[VertexID]float64

// Influences is an indexable influence collection. Ids between 0 and
// LastIndex with an empty name are gaps left by removed influences; they
// surface as null rows in the editor.
type Influences struct {
	names []string
}

// NewInfluences builds a collection from names indexed by influence id.
func NewInfluences(names []string) Influences {
	return Influences{names: append([]string(nil), names...)}
}

// Name returns the influence name for the id, or "" for gaps and strangers.
func (i Influences) Name(id InfluenceID) string {
	if id < 0 || int(id) >= len(i.names) {
		return ""
	}
	return i.names[id]
}

// LastIndex returns the highest influence id, or -1 when empty.
func (i Influences) LastIndex() InfluenceID {
	return InfluenceID(len(i.names) - 1)
}

// Contains reports whether the id names a live (non-gap) influence.
func (i Influences) Contains(id InfluenceID) bool {
	return i.Name(id) != ""
}

// IDs returns every live influence id in ascending order.
func (i Influences) IDs() []InfluenceID {
	ids := make([]InfluenceID, 0, len(i.names))
	for id := range i.names {
		if i.names[id] != "" {
			ids = append(ids, InfluenceID(id))
		}
	}
	return ids
}

// Handle identifies a registered notification hook.
type Handle int

// Notifier exposes the host's zero-argument notification surface. Each hook
// fires on the event-processing thread and signals that cached selection or
// weight state must be rebuilt.
type Notifier interface {
	OnSelectionChanged(fn func()) Handle
	OnUndo(fn func()) Handle
	OnRedo(fn func()) Handle
	RemoveHook(h Handle)
}

// Binder attaches and detaches the source to the host's current selection.
type Binder interface {
	Bind() error
	Release()
	Valid() bool
}

// Reader queries influence and weight state.
type Reader interface {
	Influences() Influences
	CurrentSoftSelection() SoftSelection
	WeightsFor(vertices ...VertexID) map[VertexID]WeightMap
	AverageWeights(snapshots ...WeightMap) WeightMap
}

// Writer computes and commits weight changes. The three per-vertex functions
// are pure: they take one vertex's existing weights plus the shared edit
// parameters and return the replacement vector. ApplyWeights is the atomic
// batch commit; it either applies every vector or none.
type Writer interface {
	SetWeights(existing WeightMap, active InfluenceID, sources []InfluenceID, amount, falloff float64) (WeightMap, error)
	IncrementWeights(existing WeightMap, active InfluenceID, sources []InfluenceID, amount, falloff float64) (WeightMap, error)
	ScaleWeights(existing WeightMap, active InfluenceID, sources []InfluenceID, percent, falloff float64) (WeightMap, error)
	ApplyWeights(updates map[VertexID]WeightMap) error
}

// Clipboard covers the copy/paste/blend pass-throughs.
type Clipboard interface {
	CopyWeights() error
	PasteWeights() error
	PasteAverageWeights() error
	BlendVertices() error
}

// Selector maps influences back to the vertices they drive and pushes a
// vertex selection to the host.
type Selector interface {
	VerticesByInfluence(ids []InfluenceID) []VertexID
	SelectVertices(vertices []VertexID)
}

// Persister round-trips weights through a file.
type Persister interface {
	SaveWeights(path string) error
	LoadWeights(path string) error
}

// Source is the full weight-source capability.
type Source interface {
	Binder
	Reader
	Writer
	Clipboard
	Selector
	Persister
	Notifier
}

// Clone returns an independent copy of a weight vector.
func (w WeightMap) Clone() WeightMap {
	dup := make(WeightMap, len(w))
	for id, weight := range w {
		dup[id] = weight
	}
	return dup
}

// Sum returns the total weight held by the vector.
func (w WeightMap) Sum() float64 {
	total := 0.0
	for _, weight := range w {
		total += weight
	}
	return total
}
