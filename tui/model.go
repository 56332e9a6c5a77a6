package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-kontrol/config"
	"go-kontrol/control"
	"go-kontrol/debug"
	"go-kontrol/midi"
	"go-kontrol/rig"
	"go-kontrol/theme"
	"go-kontrol/widgets"
)

type mode int

const (
	modeList mode = iota
	modePickObject
	modePickChannel
	modePickComponent
	modePickAttribute
)

var pickerTitles = map[mode]string{
	modePickObject:    "Owner object",
	modePickChannel:   "Channel",
	modePickComponent: "Component",
	modePickAttribute: "Attribute",
}

// picker is a single-choice list
type picker struct {
	items    []string
	channels []control.Channel // parallel to items in modePickChannel
	cursor   int
}

func (p *picker) move(d int) {
	if len(p.items) == 0 {
		return
	}
	p.cursor = clamp(p.cursor+d, 0, len(p.items)-1)
}

func (p picker) selected() (string, bool) {
	if len(p.items) == 0 {
		return "", false
	}
	return p.items[p.cursor], true
}

type Model struct {
	Rig        *rig.Rig
	DeviceMgr  *midi.DeviceManager // nil when running without hardware
	Theme      *theme.Theme
	Config     *config.Config
	ConfigPath string // where s saves; empty uses the default location

	owner            int // index into Rig.Owners()
	cursor           int // selected binding of the owner
	mode             mode
	picker           picker
	object           string // object being edited by the pickers
	binding          int    // binding being edited by the component/attribute pickers
	pendingComponent string
	status           string
	quitting         bool

	controller midi.Controller // current controller (may be nil)
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(r *rig.Rig, deviceMgr *midi.DeviceManager, th *theme.Theme, cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return Model{
		Rig:       r,
		DeviceMgr: deviceMgr,
		Theme:     th,
		Config:    cfg,
	}
}

func ListenForUpdates(r *rig.Rig) tea.Cmd {
	return func() tea.Msg {
		<-r.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	if deviceMgr == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Rig),
		ListenForDevices(m.DeviceMgr),
	)
}

// currentOwner returns the selected owner object, or "" if there are none
func (m Model) currentOwner() string {
	owners := m.Rig.Owners()
	if len(owners) == 0 {
		return ""
	}
	return owners[clamp(m.owner, 0, len(owners)-1)]
}

// fixCursor keeps owner and cursor inside the current lists
func (m *Model) fixCursor() {
	owners := m.Rig.Owners()
	if len(owners) == 0 {
		m.owner, m.cursor = 0, 0
		return
	}
	m.owner = clamp(m.owner, 0, len(owners)-1)
	n := len(m.Rig.Bindings(owners[m.owner]))
	m.cursor = clamp(m.cursor, 0, max(n-1, 0))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode != modeList {
			return m.updatePicker(msg)
		}
		return m.updateList(msg)

	case UpdateMsg:
		return m, ListenForUpdates(m.Rig)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.controller = event.Controller
			m.Rig.SetSource(event.Controller)
			m.status = "connected " + event.ID
		} else if event.Type == midi.DeviceDisconnected {
			if m.controller != nil && m.controller.ID() == event.ID {
				m.controller = nil
				m.Rig.SetSource(nil)
				m.status = "disconnected " + event.ID
			}
		}
		debug.Log("tui", "device event %d %s", event.Type, event.ID)
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	owner := m.currentOwner()

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		m.cursor++

	case "k", "up":
		m.cursor--

	case "tab":
		m.owner++
		if m.owner >= len(m.Rig.Owners()) {
			m.owner = 0
		}
		m.cursor = 0

	case "n":
		m.openPicker(modePickObject)

	case "a":
		if owner == "" {
			m.openPicker(modePickObject)
		} else {
			m.object = owner
			m.openPicker(modePickChannel)
		}

	case "e", "enter":
		if owner != "" && len(m.Rig.Bindings(owner)) > 0 {
			m.object = owner
			m.binding = m.cursor
			m.openPicker(modePickComponent)
		}

	case "+", "=":
		m.adjustScale(owner, 1)

	case "-", "_":
		m.adjustScale(owner, -1)

	case "x":
		if owner != "" {
			if err := m.Rig.RemoveBinding(owner, m.cursor); err != nil {
				m.status = err.Error()
			}
		}

	case "r":
		m.Rig.Resync()
		m.status = "resynced"

	case "s":
		m.save()
	}

	m.fixCursor()
	return m, nil
}

func (m *Model) adjustScale(owner string, d int) {
	if owner == "" {
		return
	}
	bindings := m.Rig.Bindings(owner)
	if m.cursor >= len(bindings) {
		return
	}
	scale := clamp(bindings[m.cursor].EffectiveScale()+d, 1, maxScale)
	if err := m.Rig.SetScale(owner, m.cursor, scale); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) save() {
	cfg := m.Rig.Config(m.Config)
	var err error
	if m.ConfigPath != "" {
		err = cfg.SaveFile(m.ConfigPath)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		m.status = "save failed: " + err.Error()
		debug.Get("tui").Error("save failed", "err", err)
		return
	}
	m.Config = cfg
	m.status = "saved"
}

// openPicker fills the picker for mode from the rig
func (m *Model) openPicker(md mode) {
	p := picker{}
	switch md {
	case modePickObject:
		p.items = m.Rig.Objects()
	case modePickChannel:
		p.channels = m.Rig.Available(m.object)
		for _, ch := range p.channels {
			p.items = append(p.items, ch.Name())
		}
	case modePickComponent:
		p.items = m.Rig.Components(m.object)
	case modePickAttribute:
		p.items = m.Rig.Members(m.object, m.pendingComponent)
	}
	m.mode = md
	m.picker = p
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeList
		m.fixCursor()
		return m, nil

	case "j", "down":
		m.picker.move(1)

	case "k", "up":
		m.picker.move(-1)

	case "enter", " ":
		item, ok := m.picker.selected()
		if !ok {
			m.mode = modeList
			m.status = "nothing to choose"
			m.fixCursor()
			return m, nil
		}
		m.choose(item)
	}
	return m, nil
}

// choose advances the add/edit flow: object, channel, component, attribute
func (m *Model) choose(item string) {
	switch m.mode {
	case modePickObject:
		m.object = item
		m.openPicker(modePickChannel)

	case modePickChannel:
		ch := m.picker.channels[m.picker.cursor]
		i, err := m.Rig.AddBinding(m.object, ch)
		if err != nil {
			m.status = err.Error()
			m.mode = modeList
			return
		}
		m.selectOwner(m.object)
		m.cursor = i
		m.binding = i
		m.openPicker(modePickComponent)

	case modePickComponent:
		m.pendingComponent = item
		m.openPicker(modePickAttribute)

	case modePickAttribute:
		if err := m.Rig.SetTarget(m.object, m.binding, m.pendingComponent, item); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("bound %s.%s", m.pendingComponent, item)
			debug.Get("tui").Info("binding set", "object", m.object, "target", m.pendingComponent+"."+item)
		}
		m.mode = modeList
		m.fixCursor()
	}
}

func (m *Model) selectOwner(object string) {
	for i, o := range m.Rig.Owners() {
		if o == object {
			m.owner = i
			return
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	owners := m.Rig.Owners()
	owner := m.currentOwner()

	// Header with device status
	deviceStatus := "no surface"
	if m.controller != nil {
		deviceStatus = m.controller.ID()
	}
	ownerStatus := "no owners"
	if owner != "" {
		ownerStatus = fmt.Sprintf("%s (%d/%d)", owner, clamp(m.owner, 0, len(owners)-1)+1, len(owners))
	}
	header := headerStyle.Render(fmt.Sprintf("go-kontrol  %s  [%s]", ownerStatus, deviceStatus))
	if m.Rig.Frozen() {
		header += "  " + warnStyle.Render(string(m.Theme.Symbols.Frozen)+" FROZEN")
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.renderBindings(owner))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderSurface(m.Theme, m.surfaceState(owner)))
	out.WriteString("\n\n")

	if m.mode != modeList {
		out.WriteString(m.renderPicker())
		out.WriteString("\n\n")
		out.WriteString(dimStyle.Render(widgets.RenderKeyLine(pickerKeys)))
	} else {
		out.WriteString(dimStyle.Render(widgets.RenderKeyLine(listKeys)))
	}

	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(m.status))
	}
	return out.String()
}

var listKeys = []widgets.KeyBinding{
	{Key: "j/k", Desc: "move"},
	{Key: "tab", Desc: "owner"},
	{Key: "a", Desc: "add"},
	{Key: "n", Desc: "new owner"},
	{Key: "e", Desc: "target"},
	{Key: "+/-", Desc: "scale"},
	{Key: "x", Desc: "remove"},
	{Key: "r", Desc: "resync"},
	{Key: "s", Desc: "save"},
	{Key: "q", Desc: "quit"},
}

var pickerKeys = []widgets.KeyBinding{
	{Key: "j/k", Desc: "move"},
	{Key: "enter", Desc: "choose"},
	{Key: "esc", Desc: "cancel"},
}

func (m Model) renderBindings(owner string) string {
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	if owner == "" {
		return dimStyle.Render("no bindings, press a to add one")
	}

	diags := map[int]string{}
	for _, d := range m.Rig.Diagnostics() {
		if d.Object == owner {
			diags[d.Index] = d.Kind.String()
		}
	}

	var lines []string
	for i, b := range m.Rig.Bindings(owner) {
		target := "(unbound)"
		if b.IsResolved() {
			target = b.Target.String()
		}
		value := "-"
		if v, err := m.Rig.CurrentValue(owner, i); err == nil {
			value = fmt.Sprintf("%.3f", v)
		}

		line := fmt.Sprintf("%-9s %-32s x%-3d %10s", b.Channel.Name(), target, b.EffectiveScale(), value)
		if kind, ok := diags[i]; ok {
			line += " " + warnStyle.Render(string(m.Theme.Symbols.Warning)+" "+kind)
		}

		marker := "  "
		if i == m.cursor {
			marker = string(m.Theme.Symbols.Cursor) + " "
			line = cursorStyle.Render(line)
		}
		lines = append(lines, marker+line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) surfaceState(owner string) widgets.SurfaceState {
	st := widgets.SurfaceState{
		Values:   map[int]float64{},
		Bound:    map[int]bool{},
		Selected: -1,
		Frozen:   m.Rig.Frozen(),
	}
	if m.controller != nil {
		for _, ch := range control.AllChannels() {
			st.Values[ch.ID()] = m.controller.Value(uint8(ch.ID()))
		}
	}
	for i, b := range m.Rig.Bindings(owner) {
		st.Bound[b.Channel.ID()] = true
		if i == m.cursor {
			st.Selected = b.Channel.ID()
		}
	}
	return st
}

func (m Model) renderPicker() string {
	titleStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)

	title := pickerTitles[m.mode]
	if m.object != "" && m.mode != modePickObject {
		title += " for " + m.object
	}
	lines := []string{titleStyle.Render(title)}
	if len(m.picker.items) == 0 {
		lines = append(lines, "  (none)")
	}
	for i, item := range m.picker.items {
		if i == m.picker.cursor {
			lines = append(lines, cursorStyle.Render(string(m.Theme.Symbols.Cursor)+" "+item))
		} else {
			lines = append(lines, "  "+item)
		}
	}
	return strings.Join(lines, "\n")
}
