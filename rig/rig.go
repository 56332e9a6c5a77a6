// Package rig runs the binding engines for a scene. It owns every binding
// list, so edits from the editor and ticks never overlap.
package rig

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-kontrol/control"
	"go-kontrol/debug"
	"go-kontrol/engine"
	"go-kontrol/midi"
	"go-kontrol/scene"
	"go-kontrol/target"
)

var (
	ErrUnknownObject = errors.New("unknown object")
	ErrNoBinding     = errors.New("no such binding")
)

// Options configures the tick loop
type Options struct {
	FreezeCC uint8 // control that suppresses writes while held
	TickRate int   // ticks per second
}

// DefaultOptions matches the nanoKONTROL2 layout
func DefaultOptions() Options {
	return Options{FreezeCC: 43, TickRate: 60}
}

// Diagnostic is an engine diagnostic tagged with the owning object
type Diagnostic struct {
	Object string
	engine.Diagnostic
}

// owner is one object's binding list and the engine that drives it
type owner struct {
	object   *scene.Object
	engine   *engine.Engine
	bindings []*control.Binding
}

// Rig holds all owners and the current control source
type Rig struct {
	scene *scene.Scene
	opts  Options

	mu     sync.Mutex
	owners []*owner
	source midi.ControlSource
	frozen bool
	diags  []Diagnostic
	ticks  uint64

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// New creates a rig over sc
func New(sc *scene.Scene, opts Options) *Rig {
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultOptions().TickRate
	}
	return &Rig{
		scene:      sc,
		opts:       opts,
		UpdateChan: make(chan struct{}, 1),
	}
}

// SetSource swaps the control source (nil when no surface is connected).
// Recorded positions belong to the old surface and are forgotten.
func (r *Rig) SetSource(src midi.ControlSource) {
	r.mu.Lock()
	r.source = src
	r.reset()
	r.mu.Unlock()
	debug.Log("rig", "control source changed, engines reset")
	r.notify()
}

// Reset forgets every recorded control position
func (r *Rig) Reset() {
	r.mu.Lock()
	r.reset()
	r.mu.Unlock()
}

func (r *Rig) reset() {
	for _, o := range r.owners {
		o.engine.Reset()
	}
}

func (r *Rig) findOwner(object string) *owner {
	for _, o := range r.owners {
		if o.object.Name == object {
			return o
		}
	}
	return nil
}

// ownerFor returns the owner for object, creating it if needed (caller holds mu)
func (r *Rig) ownerFor(object string) (*owner, error) {
	if o := r.findOwner(object); o != nil {
		return o, nil
	}
	o, err := r.newOwner(object)
	if err != nil {
		return nil, err
	}
	r.owners = append(r.owners, o)
	debug.Get("rig").Info("owner added", "object", object)
	return o, nil
}

// newOwner builds an owner with a fresh engine without registering it
func (r *Rig) newOwner(object string) (*owner, error) {
	obj, ok := r.scene.Object(object)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownObject, object)
	}
	return &owner{
		object: obj,
		engine: engine.New(target.NewResolver(obj)),
	}, nil
}

// AddOwner registers object as a binding list owner
func (r *Rig) AddOwner(object string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.ownerFor(object)
	return err
}

// Owners lists owning objects in the order they were added
func (r *Rig) Owners() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.owners))
	for _, o := range r.owners {
		names = append(names, o.object.Name)
	}
	return names
}

// AddBinding appends an unconfigured binding for ch to object's list
func (r *Rig) AddBinding(object string, ch control.Channel) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, err := r.ownerFor(object)
	if err != nil {
		return 0, err
	}
	o.bindings = append(o.bindings, control.NewBinding(ch))
	return len(o.bindings) - 1, nil
}

func (r *Rig) binding(object string, i int) (*owner, *control.Binding, error) {
	o := r.findOwner(object)
	if o == nil {
		return nil, nil, fmt.Errorf("%w: %q has no bindings", ErrUnknownObject, object)
	}
	if i < 0 || i >= len(o.bindings) {
		return nil, nil, fmt.Errorf("%w: %s[%d]", ErrNoBinding, object, i)
	}
	return o, o.bindings[i], nil
}

// SetTarget points binding i of object at component.attribute
func (r *Rig) SetTarget(object string, i int, component, attribute string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, b, err := r.binding(object, i)
	if err != nil {
		return err
	}
	b.SetTarget(component, attribute)
	return nil
}

// SetScale changes the scale of binding i of object
func (r *Rig) SetScale(object string, i int, scale int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, b, err := r.binding(object, i)
	if err != nil {
		return err
	}
	b.Scale = scale
	return nil
}

// RemoveBinding deletes binding i of object. An owner left without
// bindings is dropped along with its engine.
func (r *Rig) RemoveBinding(object string, i int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, _, err := r.binding(object, i)
	if err != nil {
		return err
	}
	o.bindings = append(o.bindings[:i], o.bindings[i+1:]...)
	if len(o.bindings) == 0 {
		for j, other := range r.owners {
			if other == o {
				r.owners = append(r.owners[:j], r.owners[j+1:]...)
				break
			}
		}
		debug.Get("rig").Info("owner removed", "object", object)
	}
	return nil
}

// Bindings returns a copy of object's binding list
func (r *Rig) Bindings(object string) []control.Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := r.findOwner(object)
	if o == nil {
		return nil
	}
	out := make([]control.Binding, len(o.bindings))
	for i, b := range o.bindings {
		out[i] = *b
		if b.Target != nil {
			t := *b.Target
			out[i].Target = &t
		}
	}
	return out
}

// CurrentValue reads the attribute behind binding i of object without side effects
func (r *Rig) CurrentValue(object string, i int) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, b, err := r.binding(object, i)
	if err != nil {
		return 0, err
	}
	return o.engine.CurrentValue(b)
}

// Tick samples the surface once and runs every owner's engine
func (r *Rig) Tick() []Diagnostic {
	r.mu.Lock()
	freeze := midi.Held(r.source, r.opts.FreezeCC)
	diags := r.tick(freeze)
	r.mu.Unlock()
	return diags
}

// Resync records the current control positions without writing anything,
// so the next tick only applies movement from here
func (r *Rig) Resync() {
	r.mu.Lock()
	r.tick(true)
	r.mu.Unlock()
}

// tick runs one pass (caller holds mu)
func (r *Rig) tick(freeze bool) []Diagnostic {
	sample := engine.Sampler(midi.Sampler(r.source))

	var diags []Diagnostic
	for _, o := range r.owners {
		for _, d := range o.engine.Tick(o.bindings, sample, freeze) {
			diags = append(diags, Diagnostic{Object: o.object.Name, Diagnostic: d})
		}
	}

	if freeze != r.frozen {
		debug.Log("rig", "freeze=%v", freeze)
	}
	r.frozen = freeze
	r.diags = diags
	r.ticks++

	if len(diags) > 0 {
		debug.LogEvery(r.opts.TickRate, "engine", "%d diagnostics, first: %v", len(diags), diags[0].Error())
	}
	return diags
}

// Diagnostics returns the diagnostics of the most recent tick
func (r *Rig) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}

// Frozen reports whether the last tick was frozen
func (r *Rig) Frozen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frozen
}

// Ticks returns how many ticks have run
func (r *Rig) Ticks() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// Run ticks at the configured rate until ctx is done
func (r *Rig) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(r.opts.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick()
			r.notify()
		}
	}
}

// notify wakes the TUI without blocking
func (r *Rig) notify() {
	select {
	case r.UpdateChan <- struct{}{}:
	default:
	}
}
