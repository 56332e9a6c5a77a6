package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectComponents(t *testing.T) {
	obj := NewObject("Bird")
	rb := &Rigidbody2D{GravityScale: 1}
	require.NoError(t, obj.Add(rb))
	require.NoError(t, obj.Add(&Bird{}))

	assert.Equal(t, []string{"Rigidbody2D", "Bird"}, obj.ComponentNames())

	c, ok := obj.Component("Rigidbody2D")
	require.True(t, ok)
	assert.Same(t, rb, c)

	_, ok = obj.Component("rigidbody2d")
	assert.False(t, ok, "lookup is case-sensitive")

	assert.ErrorIs(t, obj.Add(&Bird{}), ErrDuplicateComponent)
	assert.ErrorIs(t, obj.Add(Bird{}), ErrNotStructPointer)
	assert.ErrorIs(t, obj.Add((*Bird)(nil)), ErrNotStructPointer)
}

func TestDestroy(t *testing.T) {
	obj := NewObject("Bird")
	rb := &Rigidbody2D{}
	obj.MustAdd(rb)
	assert.True(t, obj.Alive(rb))

	assert.True(t, obj.Destroy("Rigidbody2D"))
	assert.False(t, obj.Alive(rb))
	assert.False(t, obj.Destroy("Rigidbody2D"))

	_, ok := obj.Component("Rigidbody2D")
	assert.False(t, ok)

	// a fresh component of the same type is a different target
	rb2 := &Rigidbody2D{}
	obj.MustAdd(rb2)
	assert.True(t, obj.Alive(rb2))
	assert.False(t, obj.Alive(rb))

	// re-adding a destroyed component brings it back
	assert.True(t, obj.Destroy("Rigidbody2D"))
	obj.MustAdd(rb)
	assert.True(t, obj.Alive(rb))
	assert.False(t, obj.Alive(rb2))
}

func TestDemoScene(t *testing.T) {
	s := Demo()
	names := []string{}
	for _, o := range s.Objects() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"GameControl", "Bird", "ColumnPool"}, names)

	gc, ok := s.Object("GameControl")
	require.True(t, ok)
	c, ok := gc.Component("GameControl")
	require.True(t, ok)
	assert.Equal(t, -1.5, c.(*GameControl).ScrollSpeed)

	s.Add(NewObject("GameControl"))
	gc2, _ := s.Object("GameControl")
	assert.Empty(t, gc2.ComponentNames())
	assert.Len(t, s.Objects(), 3)
}
