package control

import "fmt"

// TargetRef names one attribute on one component of the owning object
type TargetRef struct {
	Component string
	Attribute string
}

func (r TargetRef) String() string {
	return r.Component + "." + r.Attribute
}

// Binding pairs a channel with a target attribute and a scale factor.
// A nil Target means the user has not picked an attribute yet.
type Binding struct {
	Target  *TargetRef
	Scale   int
	Channel Channel
}

// NewBinding creates an unconfigured binding for ch with scale 1
func NewBinding(ch Channel) *Binding {
	return &Binding{Scale: 1, Channel: ch}
}

// IsResolved reports whether the binding names both a component and an attribute
func (b *Binding) IsResolved() bool {
	return b != nil && b.Target != nil && b.Target.Component != "" && b.Target.Attribute != ""
}

// EffectiveScale returns Scale, or 1 when Scale is zero or negative
func (b *Binding) EffectiveScale() int {
	if b.Scale < 1 {
		return 1
	}
	return b.Scale
}

// SetTarget points the binding at component.attribute
func (b *Binding) SetTarget(component, attribute string) {
	b.Target = &TargetRef{Component: component, Attribute: attribute}
}

func (b *Binding) String() string {
	if b.Target == nil {
		return fmt.Sprintf("%s -> (unbound)", b.Channel.Name())
	}
	return fmt.Sprintf("%s -> %s x%d", b.Channel.Name(), b.Target, b.Scale)
}
