package events

import "github.com/riggingtools/vertex-blender/internal/logging"

type SyncTracer struct{}

var Sync = SyncTracer{}

func (SyncTracer) Push(initiator string, rows []int) {
	logging.Trace("sync.push", map[string]interface{}{"initiator": initiator, "rows": rows})
}

func (SyncTracer) Suppressed(initiator string) {
	logging.Trace("sync.suppressed", map[string]interface{}{"initiator": initiator})
}

func (SyncTracer) AutoSelect(pane string, enabled bool) {
	logging.Trace("sync.auto-select", map[string]interface{}{"pane": pane, "enabled": enabled})
}
