package systems

import (
	"math"
	"math/rand"
	"testing"
)

func TestIsColliding(t *testing.T) {
	tests := []struct {
		name string
		a, b Particle
		want bool
	}{
		{
			name: "overlapping now",
			a:    NewParticle(10, 10, 0, 0, 5),
			b:    NewParticle(12, 10, 0, 0, 5),
			want: true,
		},
		{
			name: "touching is not colliding",
			a:    NewParticle(0, 0, 0, 0, 5),
			b:    NewParticle(10, 0, 0, 0, 5),
			want: false,
		},
		{
			name: "apart and still",
			a:    NewParticle(0, 0, 0, 0, 5),
			b:    NewParticle(50, 0, 0, 0, 5),
			want: false,
		},
		{
			name: "apart now, overlapping next tick",
			a:    NewParticle(0, 0, 6, 0, 5),
			b:    NewParticle(20, 0, -6, 0, 5),
			want: true,
		},
		{
			name: "apart and separating",
			a:    NewParticle(0, 0, -6, 0, 5),
			b:    NewParticle(20, 0, 6, 0, 5),
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsColliding(tc.a, tc.b); got != tc.want {
				t.Errorf("IsColliding = %v, want %v", got, tc.want)
			}
			if got := IsColliding(tc.b, tc.a); got != tc.want {
				t.Errorf("IsColliding (swapped) = %v, want %v", got, tc.want)
			}
		})
	}
}

// TestResolveConservesMomentum checks m1*v1 + m2*v2 along both axes for random pairs.
func TestResolveConservesMomentum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		a := NewParticle(rng.Float32()*100, rng.Float32()*100, rng.Float32()*8-4, rng.Float32()*8-4, rng.Float32()*20+2)
		b := NewParticle(rng.Float32()*100, rng.Float32()*100, rng.Float32()*8-4, rng.Float32()*8-4, rng.Float32()*20+2)

		ma, mb := float64(a.Mass()), float64(b.Mass())
		px := ma*float64(a.Vel.X) + mb*float64(b.Vel.X)
		py := ma*float64(a.Vel.Y) + mb*float64(b.Vel.Y)

		Resolve(a, b)

		gotX := ma*float64(a.Vel.X) + mb*float64(b.Vel.X)
		gotY := ma*float64(a.Vel.Y) + mb*float64(b.Vel.Y)

		tol := 1e-4 * (math.Abs(px) + math.Abs(py) + ma + mb)
		if math.Abs(gotX-px) > tol || math.Abs(gotY-py) > tol {
			t.Fatalf("pair %d: momentum (%f, %f) -> (%f, %f)", i, px, py, gotX, gotY)
		}
	}
}

func TestResolveEqualMassHeadOn(t *testing.T) {
	a := NewParticle(0, 0, 2, 0, 5)
	b := NewParticle(9, 0, -2, 0, 5)

	if !Resolve(a, b) {
		t.Fatal("Resolve returned false for distinct centers")
	}

	// Equal masses swap their normal velocity components
	if math.Abs(float64(a.Vel.X+2)) > 1e-5 || math.Abs(float64(b.Vel.X-2)) > 1e-5 {
		t.Errorf("velocities after head-on = (%f, %f), want (-2, 2)", a.Vel.X, b.Vel.X)
	}
	if a.Vel.Y != 0 || b.Vel.Y != 0 {
		t.Errorf("tangential velocity changed: (%f, %f)", a.Vel.Y, b.Vel.Y)
	}
}

func TestResolveDoesNotMovePositions(t *testing.T) {
	a := NewParticle(10, 10, 1, 2, 5)
	b := NewParticle(12, 11, -1, 0, 3)

	Resolve(a, b)

	if a.Pos.X != 10 || a.Pos.Y != 10 || b.Pos.X != 12 || b.Pos.Y != 11 {
		t.Errorf("Resolve moved positions: a=(%f,%f) b=(%f,%f)", a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y)
	}
}

func TestCoincidentCentersAreSkipped(t *testing.T) {
	a := NewParticle(5, 5, 1, -1, 4)
	b := NewParticle(5, 5, -1, 1, 4)

	if Resolve(a, b) {
		t.Error("Resolve should skip coincident centers")
	}
	if CorrectPosition(a, b) {
		t.Error("CorrectPosition should skip coincident centers")
	}

	for _, v := range []float32{a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y, a.Vel.X, a.Vel.Y, b.Vel.X, b.Vel.Y} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("degenerate pair produced non-finite state: a=%+v/%+v b=%+v/%+v", *a.Pos, *a.Vel, *b.Pos, *b.Vel)
		}
	}
	if a.Vel.X != 1 || b.Vel.X != -1 {
		t.Error("velocities changed for coincident centers")
	}
}

// TestOverlapScenario seeds two resting particles 2px apart with radius 5.
func TestOverlapScenario(t *testing.T) {
	a := NewParticle(10, 10, 0, 0, 5)
	b := NewParticle(12, 10, 0, 0, 5)

	if !IsColliding(a, b) {
		t.Fatal("expected overlapping particles to collide")
	}

	Resolve(a, b)
	if a.Vel.X != 0 || a.Vel.Y != 0 || b.Vel.X != 0 || b.Vel.Y != 0 {
		t.Errorf("resting particles gained velocity from Resolve: a=%+v b=%+v", *a.Vel, *b.Vel)
	}
	if a.Pos.X != 10 || b.Pos.X != 12 {
		t.Error("Resolve alone must not separate particles")
	}

	if !CorrectPosition(a, b) {
		t.Fatal("CorrectPosition returned false for overlapping particles")
	}

	d := distance(a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y)
	if d < a.Body.Size+b.Body.Size-1e-4 {
		t.Errorf("distance after correction = %f, want >= %f", d, a.Body.Size+b.Body.Size)
	}
	// Each side moves half the overlap
	if math.Abs(float64(a.Pos.X-6)) > 1e-4 || math.Abs(float64(b.Pos.X-16)) > 1e-4 {
		t.Errorf("positions after correction = (%f, %f), want (6, 16)", a.Pos.X, b.Pos.X)
	}
}

func TestCorrectPositionNoOverlap(t *testing.T) {
	a := NewParticle(0, 0, 0, 0, 2)
	b := NewParticle(10, 0, 0, 0, 2)

	if CorrectPosition(a, b) {
		t.Error("CorrectPosition moved separated particles")
	}
	if a.Pos.X != 0 || b.Pos.X != 10 {
		t.Error("positions changed without overlap")
	}
}

func TestMassDerivedFromSize(t *testing.T) {
	for _, size := range []float32{0.5, 2, 5, 12.25, 24} {
		p := NewParticle(0, 0, 0, 0, size)
		want := (size + 1) * (size + 1)
		if p.Mass() != want {
			t.Errorf("Mass(size=%v) = %v, want %v", size, p.Mass(), want)
		}

		p.Body.Size = size * 2
		want = (size*2 + 1) * (size*2 + 1)
		if p.Mass() != want {
			t.Errorf("Mass after resize to %v = %v, want %v", size*2, p.Mass(), want)
		}
	}
}
