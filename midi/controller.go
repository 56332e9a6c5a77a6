package midi

import "go-kontrol/control"

// ControlEvent is sent when a control change arrives from a surface
type ControlEvent struct {
	Channel uint8 // MIDI channel the message arrived on
	CC      uint8
	Value   uint8
}

// ControlSource reports the last known position of every control number
type ControlSource interface {
	// Value returns the normalized position (0-1) of control cc on any channel
	Value(cc uint8) float64
}

// Controller is a connected control surface
type Controller interface {
	ControlSource

	ID() string

	// Events delivers control changes as they arrive. Slow readers drop events;
	// Value always reflects the latest state.
	Events() <-chan ControlEvent

	// Lifecycle
	Close() error
}

// Sampler returns a raw channel reader for src, where each channel is read
// from the control number equal to its id
func Sampler(src ControlSource) func(control.Channel) float64 {
	return func(ch control.Channel) float64 {
		if src == nil {
			return 0
		}
		return src.Value(uint8(ch.ID()))
	}
}

// Held reports whether the control at cc is away from zero, used for
// momentary buttons such as the freeze control
func Held(src ControlSource, cc uint8) bool {
	if src == nil {
		return false
	}
	return src.Value(cc) > 0
}

// Normalize converts a 7-bit controller value to 0-1 with 64 mapping exactly to 0.5
func Normalize(v uint8) float64 {
	switch {
	case v == 0:
		return 0
	case v == 64:
		return 0.5
	case v >= 127:
		return 1
	case v < 64:
		return float64(v) / 128
	default:
		return float64(v-1) / 126
	}
}
