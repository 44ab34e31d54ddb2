package geometry

// Ray describes one beam for drawing a scan-geometry diagram.
type Ray struct {
	AzimuthDeg   float64
	ElevationDeg float64

	// Unit direction cosine (same as row i of A).
	DX, DY, DZ float64

	// Point where the beam reaches unit height (range 1/sind(el)). Beams at
	// or below the horizon keep unit range instead.
	X, Y, Z float64
}

// Rays returns a Ray per beam in pattern order.
func Rays(p ScanPattern) []Ray {
	out := make([]Ray, 0, p.Beams())
	for i := 0; i < p.Beams(); i++ {
		az, el := p.Azimuth[i], p.Elevation[i]
		r := Ray{
			AzimuthDeg:   az,
			ElevationDeg: el,
			DX:           Cosd(el) * Cosd(az),
			DY:           Cosd(el) * Sind(az),
			DZ:           Sind(el),
		}

		rng := 1.0
		if r.DZ > 0 {
			rng = 1 / r.DZ
		}
		r.X, r.Y, r.Z = rng*r.DX, rng*r.DY, rng*r.DZ
		out = append(out, r)
	}
	return out
}
