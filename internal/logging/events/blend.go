package events

import "github.com/riggingtools/vertex-blender/internal/logging"

type BlendTracer struct{}

var Blend = BlendTracer{}

func (BlendTracer) Bound() {
	logging.Trace("blend.bind", nil)
}

func (BlendTracer) BindFailed(err error) {
	if err == nil {
		return
	}
	logging.Trace("blend.bind.failed", map[string]interface{}{"error": err.Error()})
}

func (BlendTracer) Unbound() {
	logging.Trace("blend.unbind", nil)
}

func (BlendTracer) Edit(op string, active int, sources, vertices int) {
	logging.Trace("blend.edit", map[string]interface{}{
		"op":       op,
		"active":   active,
		"sources":  sources,
		"vertices": vertices,
	})
}

func (BlendTracer) EditFailed(op string, err error) {
	if err == nil {
		return
	}
	logging.Trace("blend.edit.failed", map[string]interface{}{"op": op, "error": err.Error()})
}

func (BlendTracer) Invalidate(vertices int, influences int) {
	logging.Trace("blend.invalidate", map[string]interface{}{
		"vertices":   vertices,
		"influences": influences,
	})
}

func (BlendTracer) Precision(enabled bool) {
	logging.Trace("blend.precision", map[string]interface{}{"enabled": enabled})
}
