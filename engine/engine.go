// Package engine applies controller movement to bound attributes using
// soft takeover: each tick only the change in a control's position since the
// previous tick is added to the target, so a control whose absolute position
// disagrees with the target never causes a jump.
//
// An Engine is not safe for concurrent use. The caller owns the binding list
// and must not mutate it while Tick is running.
package engine

import (
	"errors"
	"fmt"

	"go-kontrol/control"
)

// Engine holds the last observed scaled position of every channel it has processed
type Engine struct {
	resolver Resolver
	previous map[int]float64 // keyed by Channel.ID()
}

// New creates an engine that resolves targets through r
func New(r Resolver) *Engine {
	return &Engine{
		resolver: r,
		previous: make(map[int]float64),
	}
}

// Tick processes every binding once. Unresolved bindings are skipped.
// Failures are returned as diagnostics in input order and never stop the batch.
//
// The channel's previous position is updated even when freeze is set or the
// target cannot be read, so writes resume from the true last position once
// the freeze is lifted.
func (e *Engine) Tick(bindings []*control.Binding, sample Sampler, freeze bool) []Diagnostic {
	var diags []Diagnostic

	for i, b := range bindings {
		if !b.IsResolved() {
			continue
		}
		ref := *b.Target

		acc, err := e.resolver.Resolve(ref)
		if err == nil && acc == nil {
			err = ErrResolutionFailed
		}
		if err != nil {
			diags = append(diags, Diagnostic{
				Index:   i,
				Channel: b.Channel,
				Target:  ref,
				Kind:    ResolutionFailed,
				Err:     classify(err, ErrResolutionFailed),
			})
			continue
		}

		id := b.Channel.ID()
		scaled := sample(b.Channel) * float64(b.EffectiveScale())
		delta := scaled - e.previous[id]

		current, readErr := acc.Read()
		e.previous[id] = scaled

		if readErr != nil {
			diags = append(diags, Diagnostic{
				Index:   i,
				Channel: b.Channel,
				Target:  ref,
				Kind:    TargetUnavailable,
				Err:     classify(readErr, ErrTargetUnavailable),
			})
			continue
		}

		if freeze {
			continue
		}

		if err := acc.Write(current + delta); err != nil {
			diags = append(diags, Diagnostic{
				Index:   i,
				Channel: b.Channel,
				Target:  ref,
				Kind:    TargetUnavailable,
				Err:     classify(err, ErrTargetUnavailable),
			})
		}
	}

	return diags
}

// CurrentValue reads the bound attribute without touching channel state
func (e *Engine) CurrentValue(b *control.Binding) (float64, error) {
	if !b.IsResolved() {
		return 0, ErrUnresolved
	}
	acc, err := e.resolver.Resolve(*b.Target)
	if err != nil {
		return 0, classify(err, ErrResolutionFailed)
	}
	if acc == nil {
		return 0, ErrResolutionFailed
	}
	v, err := acc.Read()
	if err != nil {
		return 0, classify(err, ErrTargetUnavailable)
	}
	return v, nil
}

// Previous returns the last scaled position recorded for ch
func (e *Engine) Previous(ch control.Channel) (float64, bool) {
	v, ok := e.previous[ch.ID()]
	return v, ok
}

// Reset forgets all recorded positions
func (e *Engine) Reset() {
	clear(e.previous)
}

// classify makes sure err matches kind under errors.Is
func classify(err, kind error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
