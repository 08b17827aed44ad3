package geo

// LatLon is a geographic point, (lat, lon) in degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// LineLength returns the geodesic length of a polyline: the sum of the
// haversine distances between consecutive vertices.
func LineLength(pts []LatLon) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += Haversine(pts[i-1].Lat, pts[i-1].Lon, pts[i].Lat, pts[i].Lon)
	}
	return total
}

// PointAtFraction walks pts (a polyline of at least 2 vertices) and returns
// the point at normalized arc-length fraction f in [0, 1], linearly
// interpolating within the segment the fraction falls in. f is clamped to
// [0, 1]. Degenerate (zero-length) polylines return the first vertex.
func PointAtFraction(pts []LatLon, f float64) LatLon {
	if len(pts) == 0 {
		return LatLon{}
	}
	if len(pts) == 1 {
		return pts[0]
	}
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}

	total := LineLength(pts)
	if total <= 0 {
		return pts[0]
	}
	target := f * total

	var walked float64
	for i := 1; i < len(pts); i++ {
		segLen := Haversine(pts[i-1].Lat, pts[i-1].Lon, pts[i].Lat, pts[i].Lon)
		if walked+segLen >= target || i == len(pts)-1 {
			if segLen == 0 {
				return pts[i-1]
			}
			t := (target - walked) / segLen
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			return LatLon{
				Lat: pts[i-1].Lat + t*(pts[i].Lat-pts[i-1].Lat),
				Lon: pts[i-1].Lon + t*(pts[i].Lon-pts[i-1].Lon),
			}
		}
		walked += segLen
	}
	return pts[len(pts)-1]
}
