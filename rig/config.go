package rig

import (
	"fmt"

	"go-kontrol/config"
	"go-kontrol/control"
	"go-kontrol/debug"
	"go-kontrol/target"
)

// OptionsFromConfig takes tick settings from cfg
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		FreezeCC: uint8(cfg.FreezeCC),
		TickRate: cfg.TickRate,
	}
}

// LoadConfig replaces every owner with the binding lists in cfg.
// Owners naming objects missing from the scene are skipped and reported.
// If any binding list is invalid the current owners are left untouched.
func (r *Rig) LoadConfig(cfg *config.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var owners []*owner
	var missing []string
	for _, oc := range cfg.Owners {
		bindings, err := oc.ToBindings()
		if err != nil {
			return fmt.Errorf("owner %q: %w", oc.Object, err)
		}
		if len(bindings) == 0 {
			continue
		}
		o, err := r.newOwner(oc.Object)
		if err != nil {
			missing = append(missing, oc.Object)
			continue
		}
		o.bindings = bindings
		owners = append(owners, o)
	}
	r.owners = owners
	debug.Log("rig", "loaded %d owners from config", len(r.owners))

	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrUnknownObject, missing)
	}
	return nil
}

// Config returns a copy of base with its owners replaced by the rig's
// current binding lists
func (r *Rig) Config(base *config.Config) *config.Config {
	cfg := *base
	cfg.Owners = nil
	for _, name := range r.Owners() {
		cfg.SetOwner(config.FromBindings(name, r.Bindings(name)))
	}
	return &cfg
}

// Objects lists every object in the scene, for the editor's owner picker
func (r *Rig) Objects() []string {
	objs := r.scene.Objects()
	names := make([]string, 0, len(objs))
	for _, o := range objs {
		names = append(names, o.Name)
	}
	return names
}

// Components lists the components attached to object
func (r *Rig) Components(object string) []string {
	obj, ok := r.scene.Object(object)
	if !ok {
		return nil
	}
	return target.Components(obj)
}

// Members lists the bindable attributes of component on object
func (r *Rig) Members(object, component string) []string {
	obj, ok := r.scene.Object(object)
	if !ok {
		return nil
	}
	return target.ComponentMembers(obj, component)
}

// Available lists the channels object has not bound yet
func (r *Rig) Available(object string) []control.Channel {
	bindings := r.Bindings(object)
	bound := make([]control.Channel, 0, len(bindings))
	for _, b := range bindings {
		bound = append(bound, b.Channel)
	}
	return control.Available(bound)
}
