package engine

import (
	"errors"

	"go-kontrol/control"
)

var (
	// ErrUnresolved means the binding has no target yet
	ErrUnresolved = errors.New("binding has no target")
	// ErrResolutionFailed means the named component or attribute does not exist
	ErrResolutionFailed = errors.New("target could not be resolved")
	// ErrTargetUnavailable means the target was destroyed or is otherwise invalid
	ErrTargetUnavailable = errors.New("target unavailable")
)

// Accessor reads and writes one numeric attribute on one target
type Accessor interface {
	Read() (float64, error)
	Write(v float64) error
}

// Resolver turns a TargetRef into an Accessor.
// Implementations return an error wrapping ErrResolutionFailed rather than a
// partially working accessor.
type Resolver interface {
	Resolve(ref control.TargetRef) (Accessor, error)
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc func(ref control.TargetRef) (Accessor, error)

func (f ResolverFunc) Resolve(ref control.TargetRef) (Accessor, error) {
	return f(ref)
}

// Sampler returns the raw position of a channel, nominally in [0, 1]
type Sampler func(ch control.Channel) float64
