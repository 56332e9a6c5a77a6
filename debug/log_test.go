package debug

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type buffer struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

func (b *buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *buffer) Close() error {
	b.closed = true
	return nil
}

func (b *buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestDisabledLoggingIsSilent(t *testing.T) {
	Disable()
	Log("engine", "nothing %d", 1)
	Get("engine").Info("nothing")
}

func TestLogCategories(t *testing.T) {
	b := &buffer{}
	EnableWriter(b)
	defer Disable()

	Log("engine", "tick %d", 7)
	Get("rig").Info("owner added", "object", "Bird")

	out := b.String()
	assert.Contains(t, out, "debug logging started")
	assert.Contains(t, out, `msg="tick 7" category=engine`)
	assert.Contains(t, out, "category=rig")
	assert.Contains(t, out, "object=Bird")

	SetLevel(slog.LevelWarn)
	Log("engine", "hidden")
	assert.NotContains(t, b.String(), "hidden")
	SetLevel(slog.LevelDebug)

	Disable()
	assert.True(t, b.closed)
}

func TestLogEvery(t *testing.T) {
	b := &buffer{}
	EnableWriter(b)
	defer Disable()

	for i := 0; i < 10; i++ {
		LogEvery(5, "midi_in", "cc burst")
	}
	assert.Equal(t, 2, bytes.Count([]byte(b.String()), []byte("cc burst")))
}
