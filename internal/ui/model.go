package ui

import (
	"fmt"
	"reflect"
	"time"

	"github.com/riggingtools/vertex-blender/internal/backend"
	"github.com/riggingtools/vertex-blender/internal/blend"
	"github.com/riggingtools/vertex-blender/internal/engine"
	"github.com/riggingtools/vertex-blender/internal/logging/events"
	"github.com/riggingtools/vertex-blender/internal/settings"
	"github.com/riggingtools/vertex-blender/internal/skin"
	"github.com/riggingtools/vertex-blender/internal/theme"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Edit step sizes for the push/pull keys.
const (
	incrementStep = 0.05
	scaleStep     = 0.05
)

var presetAmounts = []float64{0, 0.25, 0.5, 0.75, 1}

// Model implements the Bubble Tea model for the weight editor: two mirrored
// influence panes, a live search prompt, and the edit key surface.
type Model struct {
	source  skin.Source
	orch    *blend.Orchestrator
	ctrl    *engine.Controller
	backend *backend.Watcher

	influencePane *Pane
	weightPane    *Pane
	focus         *Pane

	envelope    bool
	searching   bool
	searchText  string
	weightsPath string
	prefs       *settings.Settings

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	searchCursor      cursor.Model
	searchCursorDirty bool

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI over a weight source and configuration.
func NewModel(source skin.Source, weightsPath string, width, height int, showFooter, verbose bool, watcher *backend.Watcher, prefs *settings.Settings) *Model {
	influencePane := NewPane("influences")
	weightPane := NewPane("weights")

	labels := labelColumn(source.Influences())
	influenceEng := engine.New(engine.NewTable(labels...), influencePane)
	weightEng := engine.New(engine.NewTable(labels...), weightPane)
	influencePane.Attach(influenceEng)
	weightPane.Attach(weightEng)

	m := &Model{
		source:        source,
		orch:          blend.New(source, influenceEng, weightEng),
		ctrl:          engine.Pair(influenceEng, weightEng),
		backend:       watcher,
		influencePane: influencePane,
		weightPane:    weightPane,
		weightsPath:   weightsPath,
		prefs:         prefs,
		showFooter:    showFooter,
		verbose:       verbose,
	}
	m.focus = influencePane
	m.resetVisibility()

	if width > 0 {
		m.width = width
		m.fixedWidth = true
	}
	if height > 0 {
		m.height = height
		m.fixedHeight = true
	}

	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.searchCursor = c

	m.registerHandlers()
	return m
}

// Orchestrator exposes the edit orchestrator, mainly for tests.
func (m *Model) Orchestrator() *blend.Orchestrator {
	return m.orch
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if cmd := m.searchCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateSearchCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.searchCursorDirty {
		m.searchCursorDirty = false
		m.searchCursor.Blink = false
		if cmd := m.searchCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if m.searching {
		if handled := m.handleSearchKey(key); handled {
			return nil
		}
	}

	switch key.String() {
	case "ctrl+c", "q":
		m.persistPrefs()
		return tea.Quit
	case "tab":
		m.switchFocus()
	case "up", "k":
		m.focus.MoveCursor(-1)
	case "down", "j":
		m.focus.MoveCursor(1)
	case "pgup":
		m.focus.MoveCursor(-m.paneHeight())
	case "pgdown":
		m.focus.MoveCursor(m.paneHeight())
	case "enter":
		m.activateFocused()
	case " ":
		m.focus.ToggleMark()
	case "/":
		m.startSearch()
	case "e":
		m.toggleEnvelope()
	case "p":
		m.togglePrecision()
	case "1", "2", "3", "4", "5":
		idx := int(key.String()[0] - '1')
		m.runEdit("preset", func() error { return m.orch.ApplyPreset(presetAmounts[idx]) })
	case "+", "=":
		m.runEdit("add", func() error { return m.orch.IncrementWeight(incrementStep, false) })
	case "-":
		m.runEdit("subtract", func() error { return m.orch.IncrementWeight(incrementStep, true) })
	case "]":
		m.runEdit("scale up", func() error { return m.orch.ScaleWeight(scaleStep, false) })
	case "[":
		m.runEdit("scale down", func() error { return m.orch.ScaleWeight(scaleStep, true) })
	case "c":
		m.runEdit("copy", m.orch.CopyWeights)
	case "v":
		m.runEdit("paste", m.orch.PasteWeights)
	case "V":
		m.runEdit("paste average", m.orch.PasteAverageWeights)
	case "b":
		m.runEdit("blend", m.orch.BlendVertices)
	case "a":
		m.runEdit("select affected", m.orch.SelectAffectedVertices)
	case "s":
		m.saveWeights()
	case "o":
		m.loadWeights()
	}
	return nil
}

func (m *Model) switchFocus() {
	if m.focus == m.influencePane {
		m.focus = m.weightPane
	} else {
		m.focus = m.influencePane
	}
	events.UI.Focus(m.focus.Name())
}

// activateFocused applies the focused pane's cursor row (or marks) as the new
// selection. Activating a weight row mirrors it into the influence pane via
// the sync controller.
func (m *Model) activateFocused() {
	if m.focus.MultiSelect() {
		m.focus.ApplyMarks()
		return
	}
	m.focus.Activate()
}

func (m *Model) toggleEnvelope() {
	if m.envelope {
		m.orch.Unbind()
		m.envelope = false
		events.UI.Envelope(false)
		m.setInfo("envelope off")
		return
	}
	if err := m.orch.Bind(); err != nil {
		m.errMsg = err.Error()
		events.UI.Error(err)
		return
	}
	m.envelope = true
	m.errMsg = ""
	events.UI.Envelope(true)
	m.setInfo("envelope on")
}

// togglePrecision switches the weight pane between single and extended
// selection. Auto-select is disabled in precision mode so the weight pane's
// extended selection is not clobbered by mirroring.
func (m *Model) togglePrecision() {
	precision := !m.orch.Precision()
	m.orch.SetPrecision(precision)
	m.weightPane.SetMultiSelect(precision)
	m.influencePane.Engine().SetAutoSelect(!precision)
	m.weightPane.Engine().SetAutoSelect(!precision)
	events.Sync.AutoSelect(m.influencePane.Name(), !precision)
	events.Sync.AutoSelect(m.weightPane.Name(), !precision)
	if precision {
		m.setInfo("precision mode on")
	} else {
		m.setInfo("precision mode off")
	}
}

func (m *Model) runEdit(label string, fn func() error) {
	if !m.envelope {
		m.errMsg = "envelope is off"
		return
	}
	if err := fn(); err != nil {
		m.errMsg = err.Error()
		events.UI.Error(err)
		return
	}
	m.errMsg = ""
	if m.verbose {
		m.setInfo(label + " done")
	}
}

func (m *Model) saveWeights() {
	if m.weightsPath == "" {
		m.errMsg = "no weights file configured"
		return
	}
	m.runEdit("save", func() error { return m.orch.SaveWeights(m.weightsPath) })
}

func (m *Model) loadWeights() {
	if m.weightsPath == "" {
		m.errMsg = "no weights file configured"
		return
	}
	m.runEdit("load", func() error {
		if err := m.orch.LoadWeights(m.weightsPath); err != nil {
			return err
		}
		m.reloadLabels()
		return nil
	})
}

// reloadLabels rebuilds both label tables after the influence set changed.
func (m *Model) reloadLabels() {
	labels := labelColumn(m.source.Influences())
	for _, pane := range []*Pane{m.influencePane, m.weightPane} {
		if table, ok := pane.Engine().Source().(*engine.Table); ok {
			table.SetLabels(labels)
		}
	}
	m.resetVisibility()
}

// resetVisibility shows every live influence in the influence pane. The
// weight pane's visibility is owned by the orchestrator's invalidation.
func (m *Model) resetVisibility() {
	rows := make([]int, 0)
	infs := m.source.Influences()
	for _, id := range infs.IDs() {
		rows = append(rows, int(id))
	}
	_ = m.influencePane.Engine().SetVisible(rows...)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	events.UI.Resize(m.width, m.height)
	h := m.paneHeight()
	m.influencePane.SetHeight(h)
	m.weightPane.SetHeight(h)
	return nil
}

// persistPrefs records the window geometry before quitting. Save failures
// are logged and otherwise ignored.
func (m *Model) persistPrefs() {
	if m.prefs == nil {
		return
	}
	m.prefs.SetWindowSize(m.width, m.height)
	if err := m.prefs.Save(); err != nil {
		events.UI.Error(err)
	}
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func (m *Model) statusLine() string {
	if !m.envelope {
		return "envelope off"
	}
	count := m.orch.VertexCount()
	mode := "single"
	if m.orch.Precision() {
		mode = "precision"
	}
	return fmt.Sprintf("%d vertices  %s mode", count, mode)
}

func labelColumn(infs skin.Influences) []string {
	last := infs.LastIndex()
	if last < 0 {
		return nil
	}
	labels := make([]string, int(last)+1)
	for id := range labels {
		labels[id] = infs.Name(skin.InfluenceID(id))
	}
	return labels
}
