package components

// Body holds the physical extent of a particle.
type Body struct {
	Size float32 // radius in pixels, always > 0
}

// Mass returns the particle's mass, derived from its radius.
// It is never stored so it cannot drift from Size.
func (b Body) Mass() float32 {
	s := b.Size + 1
	return s * s
}

// Tint holds a packed 0xRRGGBB color chosen at spawn time.
// It is only drawn under the random color policy.
type Tint struct {
	RGB uint32
}

// RGBChannels unpacks the color into 8-bit channels.
func (t Tint) RGBChannels() (r, g, b uint8) {
	return uint8(t.RGB >> 16), uint8(t.RGB >> 8), uint8(t.RGB)
}

// PackRGB packs 8-bit channels into 0xRRGGBB.
func PackRGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
