package engine

// View is the narrow surface an Engine drives when it changes a selection.
// ApplySelection uses clear-and-replace semantics and may synchronously
// re-enter the engine's OnSelectionChanged, exactly like a native selection
// signal would; the sync context exists to absorb that reentrancy.
type View interface {
	SelectedRows() []int
	ApplySelection(rows []int)
	ScrollTo(row int)
	ScrollToTop()
}

// NullView discards selection commands and reports an empty selection.
// Engines that have not been attached to a pane yet use it as a stand-in.
type NullView struct{}

func (NullView) SelectedRows() []int       { return nil }
func (NullView) ApplySelection(rows []int) {}
func (NullView) ScrollTo(row int)          {}
func (NullView) ScrollToTop()              {}
