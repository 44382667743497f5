package systems

import "math"

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float32) float32 {
	return float32(math.Sqrt(float64(distanceSq(x1, y1, x2, y2))))
}

// Speed returns the magnitude of a velocity vector.
func Speed(vx, vy float32) float32 {
	return float32(math.Sqrt(float64(vx*vx + vy*vy)))
}

// clampChannel truncates v toward zero and clamps it to [0, 255].
func clampChannel(v float32) uint8 {
	if !(v > 0) { // also catches NaN
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
