package ui

import (
	"github.com/riggingtools/vertex-blender/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

// waitForBackendEvent blocks on the watcher channel and republishes the next
// host notification as a Bubble Tea message.
func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: event}
	}
}

// handleBackendEventMsg reacts to forwarded host notifications. The
// orchestrator has already rebuilt its caches through its own hooks; the UI
// only needs a repaint and, for selection changes, a viewport reset on the
// weight pane.
func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	evt, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	if evt.event.Kind == backend.KindSelection {
		m.weightPane.ScrollToTop()
	}
	return waitForBackendEvent(m.backend)
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	return nil
}
