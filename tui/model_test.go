package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-kontrol/config"
	"go-kontrol/control"
	"go-kontrol/midi"
	"go-kontrol/rig"
	"go-kontrol/scene"
	"go-kontrol/theme"
)

type fakeController struct {
	id     string
	values map[uint8]float64
}

func (f *fakeController) ID() string { return f.id }
func (f *fakeController) Value(cc uint8) float64 { return f.values[cc] }
func (f *fakeController) Events() <-chan midi.ControlEvent { return nil }
func (f *fakeController) Close() error { return nil }

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func newTestModel(t *testing.T) (Model, *rig.Rig, *scene.Scene) {
	t.Helper()
	sc := scene.Demo()
	r := rig.New(sc, rig.DefaultOptions())
	m := NewModel(r, nil, theme.New(nil), nil)
	m.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	return m, r, sc
}

func TestAddBindingFlow(t *testing.T) {
	m, r, _ := newTestModel(t)
	assert.Contains(t, m.View(), "no bindings")

	// a with no owners picks the object first
	m = press(t, m, "a")
	assert.Equal(t, modePickObject, m.mode)
	assert.Equal(t, []string{"GameControl", "Bird", "ColumnPool"}, m.picker.items)

	m = press(t, m, "enter")
	assert.Equal(t, modePickChannel, m.mode)
	assert.Len(t, m.picker.items, 16)
	assert.Equal(t, "Knob 1", m.picker.items[0])

	m = press(t, m, "j", "enter")
	assert.Equal(t, modePickComponent, m.mode)
	assert.Equal(t, []string{"GameControl"}, m.picker.items)

	m = press(t, m, "enter")
	assert.Equal(t, modePickAttribute, m.mode)
	assert.Equal(t, []string{"ScrollSpeed", "Score"}, m.picker.items)

	m = press(t, m, "enter")
	assert.Equal(t, modeList, m.mode)

	bindings := r.Bindings("GameControl")
	require.Len(t, bindings, 1)
	assert.Equal(t, control.Channel{Kind: control.Knob, Index: 1}, bindings[0].Channel)
	assert.Equal(t, "GameControl.ScrollSpeed", bindings[0].Target.String())

	view := m.View()
	assert.Contains(t, view, "Knob 2")
	assert.Contains(t, view, "GameControl.ScrollSpeed")
	assert.Contains(t, view, "-1.500")

	// the bound channel is no longer offered
	m = press(t, m, "a")
	assert.Len(t, m.picker.items, 15)
	assert.NotContains(t, m.picker.items, "Knob 2")
	m = press(t, m, "esc")
	assert.Equal(t, modeList, m.mode)
	assert.Len(t, r.Bindings("GameControl"), 1)
}

func TestCancelLeavesUnconfiguredBinding(t *testing.T) {
	m, r, _ := newTestModel(t)
	m = press(t, m, "n", "j", "enter", "enter", "esc")

	bindings := r.Bindings("Bird")
	require.Len(t, bindings, 1)
	assert.False(t, bindings[0].IsResolved())
	assert.Contains(t, m.View(), "(unbound)")

	// e picks a target for the selected binding
	m = press(t, m, "e", "enter", "j", "enter")
	assert.Equal(t, "Rigidbody2D.Mass", r.Bindings("Bird")[0].Target.String())
}

func TestScaleRemoveAndSave(t *testing.T) {
	m, r, _ := newTestModel(t)
	_, err := r.AddBinding("Bird", control.Channel{Kind: control.Slider, Index: 2})
	require.NoError(t, err)
	require.NoError(t, r.SetTarget("Bird", 0, "Bird", "UpForce"))

	m = press(t, m, "+", "+", "+", "-")
	assert.Equal(t, 3, r.Bindings("Bird")[0].Scale)
	assert.Contains(t, m.View(), "x3")

	m = press(t, m, "-", "-", "-", "-")
	assert.Equal(t, 1, r.Bindings("Bird")[0].Scale)

	m = press(t, m, "s")
	assert.Equal(t, "saved", m.status)
	cfg, err := config.LoadFile(m.ConfigPath)
	require.NoError(t, err)
	owner := cfg.FindOwner("Bird")
	require.NotNil(t, owner)
	assert.Equal(t, "UpForce", owner.Bindings[0].Attribute)

	m = press(t, m, "x")
	assert.Empty(t, r.Owners())
	assert.Contains(t, m.View(), "no bindings")
}

func TestOwnerSwitching(t *testing.T) {
	m, r, _ := newTestModel(t)
	_, err := r.AddBinding("Bird", control.Channel{Kind: control.Slider, Index: 0})
	require.NoError(t, err)
	_, err = r.AddBinding("ColumnPool", control.Channel{Kind: control.Slider, Index: 0})
	require.NoError(t, err)

	assert.Equal(t, "Bird", m.currentOwner())
	m = press(t, m, "tab")
	assert.Equal(t, "ColumnPool", m.currentOwner())
	assert.Contains(t, m.View(), "ColumnPool (2/2)")
	m = press(t, m, "tab")
	assert.Equal(t, "Bird", m.currentOwner())
}

func TestDiagnosticsShown(t *testing.T) {
	m, r, _ := newTestModel(t)
	_, err := r.AddBinding("GameControl", control.Channel{Kind: control.Slider, Index: 0})
	require.NoError(t, err)
	require.NoError(t, r.SetTarget("GameControl", 0, "GameControl", "Nope"))
	r.Tick()

	assert.Contains(t, m.View(), "resolution failed")
}

func TestDeviceEvents(t *testing.T) {
	m, r, sc := newTestModel(t)
	_, err := r.AddBinding("GameControl", control.Channel{Kind: control.Slider, Index: 0})
	require.NoError(t, err)
	require.NoError(t, r.SetTarget("GameControl", 0, "GameControl", "ScrollSpeed"))

	fc := &fakeController{id: "nanoKONTROL2", values: map[uint8]float64{0: 0.5}}
	next, _ := m.Update(DeviceEventMsg{Type: midi.DeviceConnected, Controller: fc, ID: fc.id})
	m = next.(Model)
	assert.Contains(t, m.View(), "[nanoKONTROL2]")

	r.Tick()
	obj, _ := sc.Object("GameControl")
	c, _ := obj.Component("GameControl")
	assert.InDelta(t, -1.0, c.(*scene.GameControl).ScrollSpeed, 1e-9)

	fc.values[43] = 1
	r.Tick()
	assert.Contains(t, m.View(), "FROZEN")

	next, _ = m.Update(DeviceEventMsg{Type: midi.DeviceDisconnected, ID: fc.id})
	m = next.(Model)
	assert.Contains(t, m.View(), "[no surface]")
	r.Tick()
	assert.False(t, r.Frozen())
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, cmd := m.Update(key("q"))
	assert.NotNil(t, cmd)
	assert.Empty(t, next.View())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, clamp(-4, 1, 10))
	assert.Equal(t, 10, clamp(40, 1, 10))
	assert.Equal(t, 0.5, clamp(0.5, 0.0, 1.0))
}
