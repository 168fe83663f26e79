package events

import "github.com/riggingtools/vertex-blender/internal/logging"

type SkinTracer struct{}

var Skin = SkinTracer{}

func (SkinTracer) SelectionChanged(vertices int) {
	logging.Trace("skin.selection", map[string]interface{}{"vertices": vertices})
}

func (SkinTracer) Undo() {
	logging.Trace("skin.undo", nil)
}

func (SkinTracer) Redo() {
	logging.Trace("skin.redo", nil)
}

func (SkinTracer) Saved(path string) {
	logging.Trace("skin.save", map[string]interface{}{"path": path})
}

func (SkinTracer) Loaded(path string, influences int) {
	logging.Trace("skin.load", map[string]interface{}{"path": path, "influences": influences})
}
