// Package renderer replays simulation frames onto a raylib window.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/surfaceplay/draw"
)

// Canvas draws draw.Frame commands with raylib. It must be used from the
// thread that owns the window.
type Canvas struct {
	Background rl.Color
	frame      draw.Frame
}

// NewCanvas creates a canvas that clears to black.
func NewCanvas() *Canvas {
	return &Canvas{Background: rl.Black}
}

// Frame returns the canvas's frame buffer, for the simulation to copy into.
func (c *Canvas) Frame() *draw.Frame {
	return &c.frame
}

// Draw clears the screen and replays the buffered frame in order.
// Call between rl.BeginDrawing and rl.EndDrawing.
func (c *Canvas) Draw() {
	rl.ClearBackground(c.Background)

	for i := range c.frame.Commands {
		cmd := &c.frame.Commands[i]
		color := ToColor(cmd.Color)

		switch cmd.Kind {
		case draw.Line:
			rl.DrawLineV(rl.Vector2{X: cmd.X, Y: cmd.Y}, rl.Vector2{X: cmd.X2, Y: cmd.Y2}, color)
		case draw.Circle:
			radius := cmd.Radius
			if radius < 0.5 {
				radius = 0.5
			}
			rl.DrawCircleV(rl.Vector2{X: cmd.X, Y: cmd.Y}, radius, color)
		}
	}
}

// ToColor converts a packed 0xRRGGBB value to an opaque raylib color.
func ToColor(rgb uint32) rl.Color {
	return rl.Color{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
		A: 255,
	}
}
