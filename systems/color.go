package systems

import (
	"math/rand"

	"github.com/pthm-cable/surfaceplay/components"
)

// DeriveColor computes a particle color from its state: red grows with x
// across the field, green grows toward the top edge, blue grows with size².
// Each channel is clamped to [0, 255].
func DeriveColor(x, y, size float32, b Bounds) uint32 {
	var r, g uint8
	if b.Width > 0 {
		r = clampChannel(x * 256 / b.Width)
	}
	if b.Height > 0 {
		g = clampChannel((b.Height - y) * 256 / b.Height)
	}
	blue := clampChannel(size * size)
	return components.PackRGB(r, g, blue)
}

// RandomColor returns a uniformly random 0xRRGGBB color.
func RandomColor(rng *rand.Rand) uint32 {
	r := uint8(rng.Intn(256))
	g := uint8(rng.Intn(256))
	b := uint8(rng.Intn(256))
	return components.PackRGB(r, g, b)
}
