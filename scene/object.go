package scene

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	ErrDuplicateComponent = errors.New("component already attached")
	ErrNotStructPointer   = errors.New("component must be a pointer to a struct")
)

// Object is a named container of components. Components are pointers to
// structs and are addressed by their type name, so an object holds at most
// one component of each type.
type Object struct {
	Name string

	mu         sync.RWMutex
	components []any
}

// NewObject creates an empty object
func NewObject(name string) *Object {
	return &Object{Name: name}
}

// TypeName returns the name a component is addressed by
func TypeName(component any) string {
	t := reflect.TypeOf(component)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

// Add attaches a component
func (o *Object) Add(component any) error {
	v := reflect.ValueOf(component)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrNotStructPointer, component)
	}

	name := TypeName(component)

	o.mu.Lock()
	defer o.mu.Unlock()
	for _, c := range o.components {
		if TypeName(c) == name {
			return fmt.Errorf("%w: %s on %s", ErrDuplicateComponent, name, o.Name)
		}
	}
	o.components = append(o.components, component)
	return nil
}

// MustAdd is Add for building fixed scenes
func (o *Object) MustAdd(components ...any) *Object {
	for _, c := range components {
		if err := o.Add(c); err != nil {
			panic(err)
		}
	}
	return o
}

// Component finds a live component by exact type name
func (o *Object) Component(name string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, c := range o.components {
		if TypeName(c) == name {
			return c, true
		}
	}
	return nil, false
}

// ComponentNames lists attached components in the order they were added
func (o *Object) ComponentNames() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	names := make([]string, 0, len(o.components))
	for _, c := range o.components {
		names = append(names, TypeName(c))
	}
	return names
}

// Destroy detaches a component. Anyone still holding it will see Alive return false.
func (o *Object) Destroy(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, c := range o.components {
		if TypeName(c) == name {
			o.components = append(o.components[:i], o.components[i+1:]...)
			return true
		}
	}
	return false
}

// Alive reports whether component is still attached to this object
func (o *Object) Alive(component any) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, c := range o.components {
		if c == component {
			return true
		}
	}
	return false
}

// Scene is an ordered set of uniquely named objects
type Scene struct {
	mu      sync.RWMutex
	objects []*Object
}

func New() *Scene {
	return &Scene{}
}

// Add inserts obj, replacing any object with the same name
func (s *Scene) Add(obj *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.objects {
		if o.Name == obj.Name {
			s.objects[i] = obj
			return
		}
	}
	s.objects = append(s.objects, obj)
}

// Object looks up an object by name
func (s *Scene) Object(name string) (*Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// Objects returns a snapshot of all objects
func (s *Scene) Objects() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}
