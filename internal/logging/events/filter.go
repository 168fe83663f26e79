package events

import "github.com/riggingtools/vertex-blender/internal/logging"

type FilterTracer struct{}

var Filter = FilterTracer{}

func (FilterTracer) Pattern(pane, pattern string, matches int) {
	logging.Trace("filter.pattern", map[string]interface{}{
		"pane":    pane,
		"pattern": pattern,
		"matches": matches,
	})
}

func (FilterTracer) Cleared(pane string) {
	logging.Trace("filter.clear", map[string]interface{}{"pane": pane})
}

func (FilterTracer) Append(pane, text string) {
	logging.Trace("filter.append", map[string]interface{}{"pane": pane, "text": text})
}

func (FilterTracer) Backspace(pane, text string) {
	logging.Trace("filter.backspace", map[string]interface{}{"pane": pane, "text": text})
}
