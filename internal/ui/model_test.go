package ui

import (
	"reflect"
	"strings"
	"testing"

	"github.com/riggingtools/vertex-blender/internal/skin"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestSource() *skin.Memory {
	return skin.NewMemory(
		[]string{"Root", "L_Arm", "R_Arm"},
		map[skin.VertexID]skin.WeightMap{
			0: {0: 0.5, 1: 0.3, 2: 0.2},
			1: {0: 1.0},
		},
	)
}

func newTestModel(source skin.Source) *Model {
	return NewModel(source, "", 80, 24, true, false, nil, nil)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(keyMsg(k))
	}
}

func TestEnvelopeToggleBindsAndReleases(t *testing.T) {
	source := newTestSource()
	m := newTestModel(source)

	press(m, "e")
	if !m.envelope || !m.Orchestrator().Bound() {
		t.Fatal("expected envelope on after pressing e")
	}
	if !source.Valid() {
		t.Fatal("expected source bound")
	}

	press(m, "e")
	if m.envelope || m.Orchestrator().Bound() {
		t.Fatal("expected envelope off after second press")
	}
	if source.Valid() {
		t.Fatal("expected source released")
	}
}

func TestEnvelopeBindFailureSetsError(t *testing.T) {
	m := newTestModel(skin.NewMemory(nil, nil))

	press(m, "e")
	if m.envelope {
		t.Fatal("expected envelope to stay off on bind failure")
	}
	if m.errMsg == "" {
		t.Fatal("expected bind error message")
	}
}

func TestEditKeysRequireEnvelope(t *testing.T) {
	m := newTestModel(newTestSource())

	press(m, "1")
	if m.errMsg != "envelope is off" {
		t.Fatalf("expected envelope-off error, got %q", m.errMsg)
	}
}

func TestSearchFiltersInfluencePane(t *testing.T) {
	m := newTestModel(newTestSource())
	eng := m.influencePane.Engine()

	press(m, "/", "A", "r", "m")
	if got := eng.ActiveRows(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("expected active rows [1 2], got %v", got)
	}

	press(m, "esc")
	if got := eng.ActiveRows(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("expected filter cleared, got %v", got)
	}
	if m.searching {
		t.Fatal("expected search mode exited")
	}
}

func TestSearchEnterKeepsFilter(t *testing.T) {
	m := newTestModel(newTestSource())
	eng := m.influencePane.Engine()

	press(m, "/", "R", "o", "o", "t", "enter")
	if m.searching {
		t.Fatal("expected search mode exited")
	}
	if got := eng.ActiveRows(); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("expected filter kept, got %v", got)
	}
}

func TestPrecisionToggle(t *testing.T) {
	m := newTestModel(newTestSource())

	press(m, "p")
	if !m.Orchestrator().Precision() {
		t.Fatal("expected precision mode on")
	}
	if !m.weightPane.MultiSelect() {
		t.Fatal("expected weight pane in multi-select")
	}
	if m.influencePane.Engine().AutoSelect() || m.weightPane.Engine().AutoSelect() {
		t.Fatal("expected auto-select disabled in precision mode")
	}

	press(m, "p")
	if m.Orchestrator().Precision() || m.weightPane.MultiSelect() {
		t.Fatal("expected precision mode off")
	}
	if !m.influencePane.Engine().AutoSelect() {
		t.Fatal("expected auto-select restored")
	}
}

func TestActivateMirrorsSelectionToWeightPane(t *testing.T) {
	m := newTestModel(newTestSource())

	press(m, "enter")
	if got := m.weightPane.Engine().SelectedRows(); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("expected weight pane selection [0], got %v", got)
	}

	press(m, "down", "enter")
	if got := m.weightPane.Engine().SelectedRows(); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("expected weight pane selection [1], got %v", got)
	}
}

func TestPresetEditAppliesWeights(t *testing.T) {
	source := newTestSource()
	m := newTestModel(source)

	press(m, "e")
	source.SetSoftSelection(skin.SoftSelection{0: 1})
	press(m, "enter", "5")

	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
	got := source.WeightsFor(0)[0]
	if got[0] != 1 {
		t.Fatalf("expected full weight on influence 0, got %v", got)
	}
}

func TestIncrementKeysPushAndPull(t *testing.T) {
	source := newTestSource()
	m := newTestModel(source)

	press(m, "e")
	source.SetSoftSelection(skin.SoftSelection{0: 1})
	press(m, "enter", "-")

	got := source.WeightsFor(0)[0][0]
	if got >= 0.5 {
		t.Fatalf("expected weight pulled below 0.5, got %v", got)
	}

	press(m, "+")
	after := source.WeightsFor(0)[0][0]
	if after <= got {
		t.Fatalf("expected weight pushed back up, got %v", after)
	}
}

func TestTabSwitchesFocus(t *testing.T) {
	m := newTestModel(newTestSource())

	if m.focus != m.influencePane {
		t.Fatal("expected initial focus on influence pane")
	}
	press(m, "tab")
	if m.focus != m.weightPane {
		t.Fatal("expected focus on weight pane")
	}
	press(m, "tab")
	if m.focus != m.influencePane {
		t.Fatal("expected focus back on influence pane")
	}
}

func TestViewRendersPaneTitles(t *testing.T) {
	m := newTestModel(newTestSource())

	out := m.View()
	if !strings.Contains(out, "influences") {
		t.Fatal("expected influence pane title in view")
	}
	if !strings.Contains(out, "weights") {
		t.Fatal("expected weight pane title in view")
	}
	if !strings.Contains(out, "envelope off") {
		t.Fatal("expected envelope status in view")
	}
}

func TestViewShowsWeightsAfterBind(t *testing.T) {
	source := newTestSource()
	m := newTestModel(source)

	press(m, "e")
	source.SetSoftSelection(skin.SoftSelection{0: 1})

	out := m.View()
	if !strings.Contains(out, "0.500") {
		t.Fatalf("expected weight value in view, got:\n%s", out)
	}
}
