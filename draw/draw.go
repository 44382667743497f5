// Package draw defines the host-neutral drawing instructions produced by the
// simulation. A host replays a Frame in order onto whatever surface it owns.
package draw

// Kind identifies a drawing primitive.
type Kind uint8

const (
	Circle Kind = iota // filled circle at (X, Y) with Radius
	Line               // segment from (X, Y) to (X2, Y2)
)

// String returns the primitive name.
func (k Kind) String() string {
	switch k {
	case Circle:
		return "circle"
	case Line:
		return "line"
	default:
		return "unknown"
	}
}

// Command is a single drawing instruction. Color is packed 0xRRGGBB.
type Command struct {
	Kind   Kind
	X, Y   float32
	Radius float32 // Circle only
	X2, Y2 float32 // Line only
	Color  uint32
}

// Frame is the ordered list of commands for one tick.
type Frame struct {
	Tick     int32
	Commands []Command
}

// Reset empties the frame, keeping allocated capacity.
func (f *Frame) Reset(tick int32) {
	f.Tick = tick
	f.Commands = f.Commands[:0]
}

// AddCircle appends a circle command.
func (f *Frame) AddCircle(x, y, radius float32, color uint32) {
	f.Commands = append(f.Commands, Command{Kind: Circle, X: x, Y: y, Radius: radius, Color: color})
}

// AddLine appends a line command.
func (f *Frame) AddLine(x1, y1, x2, y2 float32, color uint32) {
	f.Commands = append(f.Commands, Command{Kind: Line, X: x1, Y: y1, X2: x2, Y2: y2, Color: color})
}

// CopyTo overwrites dst with the contents of f, reusing dst's buffer.
func (f *Frame) CopyTo(dst *Frame) {
	dst.Tick = f.Tick
	dst.Commands = append(dst.Commands[:0], f.Commands...)
}

// Count returns the number of commands of kind k.
func (f *Frame) Count(k Kind) int {
	n := 0
	for i := range f.Commands {
		if f.Commands[i].Kind == k {
			n++
		}
	}
	return n
}
