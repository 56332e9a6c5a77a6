package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-kontrol/control"
)

const sample = `
port: nanoKONTROL2
freeze_cc: 41
tick_rate: 30
owners:
  - object: GameControl
    bindings:
      - component: GameControl
        attribute: ScrollSpeed
        scale: 2
        channel: {kind: slider, index: 0}
      - scale: 1
        channel: {kind: Knob, index: 7}
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "nanoKONTROL2", cfg.Port)
	assert.Equal(t, 41, cfg.FreezeCC)
	assert.Equal(t, 30, cfg.TickRate)

	owner := cfg.FindOwner("GameControl")
	require.NotNil(t, owner)
	bindings, err := owner.ToBindings()
	require.NoError(t, err)
	require.Len(t, bindings, 2)

	assert.True(t, bindings[0].IsResolved())
	assert.Equal(t, control.TargetRef{Component: "GameControl", Attribute: "ScrollSpeed"}, *bindings[0].Target)
	assert.Equal(t, 2, bindings[0].Scale)
	assert.Equal(t, control.Channel{Kind: control.Slider, Index: 0}, bindings[0].Channel)

	assert.False(t, bindings[1].IsResolved())
	assert.Nil(t, bindings[1].Target)
	assert.Equal(t, control.Channel{Kind: control.Knob, Index: 7}, bindings[1].Channel)

	assert.Nil(t, cfg.FindOwner("Bird"))
}

func TestLoadDefaultsFillGaps(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, "port: other\n"))
	require.NoError(t, err)
	assert.Equal(t, "other", cfg.Port)
	assert.Equal(t, 43, cfg.FreezeCC)
	assert.Equal(t, 60, cfg.TickRate)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad tick rate", "tick_rate: 0\n"},
		{"bad freeze cc", "freeze_cc: 200\n"},
		{"bad kind", "owners:\n  - object: A\n    bindings:\n      - channel: {kind: button, index: 0}\n"},
		{"bad index", "owners:\n  - object: A\n    bindings:\n      - channel: {kind: knob, index: 8}\n"},
		{"duplicate owner", "owners:\n  - object: A\n  - object: A\n"},
		{"nameless owner", "owners:\n  - bindings: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := LoadFile(writeFile(t, "owners: [\n"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	b0 := control.NewBinding(control.Channel{Kind: control.Knob, Index: 2})
	b0.SetTarget("Rigidbody2D", "GravityScale")
	b0.Scale = 5
	b1 := control.NewBinding(control.Channel{Kind: control.Slider, Index: 4})

	cfg := DefaultConfig()
	cfg.SetOwner(FromBindings("Bird", []control.Binding{*b0, *b1}))
	cfg.SetOwner(FromBindings("Bird", []control.Binding{*b0, *b1}))
	require.Len(t, cfg.Owners, 1)
	assert.Equal(t, "knob", cfg.Owners[0].Bindings[0].Channel.Kind)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	bindings, err := loaded.Owners[0].ToBindings()
	require.NoError(t, err)
	assert.Equal(t, *b0, *bindings[0])
	assert.Equal(t, *b1, *bindings[1])
}

func TestConfigPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/kontrol.yaml")
	p, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/kontrol.yaml", p)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GO_KONTROL_TICK_RATE", "120")
	t.Setenv("GO_KONTROL_PORT", "nanoKONTROL2 SLIDER/KNOB")

	cfg, err := LoadFile(writeFile(t, sample))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.TickRate)
	assert.Equal(t, "nanoKONTROL2 SLIDER/KNOB", cfg.Port)
	assert.Equal(t, 41, cfg.FreezeCC)
	require.Len(t, cfg.Owners, 1)

	cfg, err = LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.TickRate)

	t.Setenv("GO_KONTROL_FREEZE_CC", "500")
	_, err = LoadFile(writeFile(t, sample))
	assert.ErrorIs(t, err, ErrInvalid)

	t.Setenv("GO_KONTROL_FREEZE_CC", "loud")
	_, err = LoadFile(writeFile(t, sample))
	assert.Error(t, err)
}
