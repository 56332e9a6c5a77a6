package control

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidChannel is returned when a channel kind or index is out of range
var ErrInvalidChannel = errors.New("invalid channel")

// Kind identifies the type of physical control
type Kind int

const (
	Knob Kind = iota
	Slider
)

// ChannelsPerKind is the number of controls of each kind on the surface
const ChannelsPerKind = 8

// knobOffset is where knobs start in the flat channel id space
const knobOffset = 16

func (k Kind) String() string {
	switch k {
	case Knob:
		return "Knob"
	case Slider:
		return "Slider"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses "knob" or "slider" (any case)
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "knob":
		return Knob, nil
	case "slider":
		return Slider, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidChannel, s)
	}
}

// Channel is one physical continuous control on the surface.
// Channels are comparable values; two channels are equal when kind and index match.
type Channel struct {
	Kind  Kind
	Index int
}

// NewChannel validates kind and index
func NewChannel(kind Kind, index int) (Channel, error) {
	if kind != Knob && kind != Slider {
		return Channel{}, fmt.Errorf("%w: unknown kind %d", ErrInvalidChannel, int(kind))
	}
	if index < 0 || index >= ChannelsPerKind {
		return Channel{}, fmt.Errorf("%w: %s index %d out of range", ErrInvalidChannel, kind, index)
	}
	return Channel{Kind: kind, Index: index}, nil
}

// ID returns the flat channel id: sliders 0-7, knobs 16-23.
// This is also the control change number the surface sends.
func (c Channel) ID() int {
	if c.Kind == Knob {
		return c.Index + knobOffset
	}
	return c.Index
}

// Name returns the display label, e.g. "Knob 1" or "Slider 8"
func (c Channel) Name() string {
	return fmt.Sprintf("%s %d", c.Kind, c.Index+1)
}

func (c Channel) String() string {
	return c.Name()
}

var catalog = buildCatalog()

func buildCatalog() []Channel {
	all := make([]Channel, 0, 2*ChannelsPerKind)
	for i := 0; i < ChannelsPerKind; i++ {
		all = append(all, Channel{Kind: Knob, Index: i})
	}
	for i := 0; i < ChannelsPerKind; i++ {
		all = append(all, Channel{Kind: Slider, Index: i})
	}
	return all
}

// AllChannels returns every addressable channel: knobs 0-7, then sliders 0-7
func AllChannels() []Channel {
	out := make([]Channel, len(catalog))
	copy(out, catalog)
	return out
}

// ChannelByID is the inverse of Channel.ID
func ChannelByID(id int) (Channel, bool) {
	for _, c := range catalog {
		if c.ID() == id {
			return c, true
		}
	}
	return Channel{}, false
}

// Available returns the catalog channels not already in bound, in catalog order
func Available(bound []Channel) []Channel {
	used := make(map[Channel]bool, len(bound))
	for _, c := range bound {
		used[c] = true
	}
	var out []Channel
	for _, c := range catalog {
		if !used[c] {
			out = append(out, c)
		}
	}
	return out
}
