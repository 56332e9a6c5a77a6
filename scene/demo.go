package scene

// Components of the demo scene, modelled on a small side-scrolling game.

type GameControl struct {
	ScrollSpeed float64
	Score       int
	GameOver    bool
	Title       string
}

type Rigidbody2D struct {
	GravityScale float64
	Mass         float64
	LinearDrag   float64

	velocity float64
}

// Velocity is exposed as a getter/setter pair rather than a field
func (r *Rigidbody2D) Velocity() float64 {
	return r.velocity
}

func (r *Rigidbody2D) SetVelocity(v float64) {
	r.velocity = v
}

type Bird struct {
	UpForce float32
	Dead    bool
}

type ColumnPool struct {
	PoolSize  int
	SpawnRate float64
	ColumnMin float32
	ColumnMax float32
}

// Demo builds the sample scene used when no other host is attached
func Demo() *Scene {
	s := New()
	s.Add(NewObject("GameControl").MustAdd(&GameControl{
		ScrollSpeed: -1.5,
		Title:       "Flappy",
	}))
	s.Add(NewObject("Bird").MustAdd(
		&Rigidbody2D{GravityScale: 1, Mass: 1},
		&Bird{UpForce: 200},
	))
	s.Add(NewObject("ColumnPool").MustAdd(&ColumnPool{
		PoolSize:  5,
		SpawnRate: 3,
		ColumnMin: -1,
		ColumnMax: 3.5,
	}))
	return s
}
