package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-kontrol/debug"
)

// Surface is a knob/slider controller such as a nanoKONTROL.
// It keeps the last value of every control number regardless of MIDI channel.
type Surface struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	mu     sync.RWMutex
	values [128]uint8
	closed bool

	events chan ControlEvent
}

// NewSurface starts listening on inPort
func NewSurface(id string, inPort drivers.In) (*Surface, error) {
	s := &Surface{
		id:     id,
		inPort: inPort,
		events: make(chan ControlEvent, 32),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			var channel, cc, value uint8
			if msg.GetControlChange(&channel, &cc, &value) {
				s.set(channel, cc, value)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		s.stopFunc = stop
	}

	return s, nil
}

func (s *Surface) set(channel, cc, value uint8) {
	if cc > 127 {
		return
	}
	debug.LogEvery(50, "midi_in", "cc ch=%d cc=%d value=%d", channel, cc, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.values[cc] = value
	select {
	case s.events <- ControlEvent{Channel: channel, CC: cc, Value: value}:
	default:
	}
}

func (s *Surface) ID() string {
	return s.id
}

func (s *Surface) Value(cc uint8) float64 {
	if cc > 127 {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Normalize(s.values[cc])
}

// Raw returns the unnormalized 7-bit value of cc
func (s *Surface) Raw(cc uint8) uint8 {
	if cc > 127 {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[cc]
}

func (s *Surface) Events() <-chan ControlEvent {
	return s.events
}

func (s *Surface) Close() error {
	if s.stopFunc != nil {
		s.stopFunc()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}
