package astro

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// vecToEquatorial returns the direction of v, a vector in the equatorial
// frame, as RA/Dec. The zero vector maps to RA 0, Dec 0.
func vecToEquatorial(v r3.Vec) Equatorial {
	r := r3.Norm(v)
	if r == 0 {
		return Equatorial{}
	}
	return Equatorial{
		RADeg:  normalizeAngle360(radToDeg(math.Atan2(v.Y, v.X))),
		DecDeg: radToDeg(math.Asin(clamp(v.Z/r, -1, 1))),
	}
}
