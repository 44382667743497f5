package components

// Position represents a particle's center in surface pixels.
type Position struct {
	X, Y float32
}

// Velocity represents a particle's displacement per tick.
type Velocity struct {
	X, Y float32
}
