package geo

import "math"

// LocalProjector maps WGS84 lat/lon onto a local tangent plane (meters,
// x east / y north) anchored at a fixed center point, and back.
type LocalProjector interface {
	ToLocal(lat, lon float64) (x, y float64)
	FromLocal(x, y float64) (lat, lon float64)
}

// EquirectangularFast is a cheap tangent-plane projection: fine for the
// short distances (tens of meters) involved in projecting a GPS sample onto
// a nearby road segment, not for continent-scale work.
type EquirectangularFast struct {
	lat0, lon0 float64
	cosLat0    float64
}

func NewEquirectangularFast(lat0, lon0 float64) *EquirectangularFast {
	return &EquirectangularFast{
		lat0:    lat0,
		lon0:    lon0,
		cosLat0: math.Cos(lat0 * math.Pi / 180),
	}
}

func (m *EquirectangularFast) ToLocal(lat, lon float64) (x, y float64) {
	x = (lon - m.lon0) * math.Pi / 180 * m.cosLat0 * earthRadiusMeters
	y = (lat - m.lat0) * math.Pi / 180 * earthRadiusMeters
	return x, y
}

func (m *EquirectangularFast) FromLocal(x, y float64) (lat, lon float64) {
	lat = m.lat0 + (y/earthRadiusMeters)*180/math.Pi
	lon = m.lon0 + (x/(earthRadiusMeters*m.cosLat0))*180/math.Pi
	return lat, lon
}

// ScaleAt returns the local scale factors in degrees per meter, along
// latitude and longitude respectively. Independent of the query point for
// this projection; the argument is accepted for interface symmetry with
// projections whose scale varies across the plane.
func (m *EquirectangularFast) ScaleAt(lat, lon float64) (sLat, sLon float64) {
	sLat = 180 / math.Pi / earthRadiusMeters
	sLon = 180 / math.Pi / (earthRadiusMeters * m.cosLat0)
	return sLat, sLon
}

// AzimuthalEquidistant preserves distance and direction from the anchor
// point exactly, at the cost of more trig per call, and stays accurate
// further from center than EquirectangularFast. No other package in this
// module uses it.
type AzimuthalEquidistant struct {
	lat0, lon0   float64
	lat0r, lon0r float64
	sinLat0      float64
	cosLat0      float64
}

func NewAzimuthalEquidistant(lat0, lon0 float64) *AzimuthalEquidistant {
	lat0r := lat0 * math.Pi / 180
	return &AzimuthalEquidistant{
		lat0:    lat0,
		lon0:    lon0,
		lat0r:   lat0r,
		lon0r:   lon0 * math.Pi / 180,
		sinLat0: math.Sin(lat0r),
		cosLat0: math.Cos(lat0r),
	}
}

func (m *AzimuthalEquidistant) ToLocal(lat, lon float64) (x, y float64) {
	latr := lat * math.Pi / 180
	dlon := lon*math.Pi/180 - m.lon0r

	cosC := m.sinLat0*math.Sin(latr) + m.cosLat0*math.Cos(latr)*math.Cos(dlon)
	cosC = math.Max(-1, math.Min(1, cosC))
	c := math.Acos(cosC)
	if c == 0 {
		return 0, 0
	}

	k := c / math.Sin(c)
	x = k * math.Cos(latr) * math.Sin(dlon) * earthRadiusMeters
	y = k * (m.cosLat0*math.Sin(latr) - m.sinLat0*math.Cos(latr)*math.Cos(dlon)) * earthRadiusMeters
	return x, y
}

func (m *AzimuthalEquidistant) FromLocal(x, y float64) (lat, lon float64) {
	rho := math.Sqrt(x*x + y*y)
	c := rho / earthRadiusMeters
	if c == 0 {
		return m.lat0, m.lon0
	}

	sinC := math.Sin(c)
	cosC := math.Cos(c)

	latr := math.Asin(cosC*m.sinLat0 + (y*sinC*m.cosLat0)/rho)
	lonr := m.lon0r + math.Atan2(
		x*sinC,
		rho*m.cosLat0*cosC-y*m.sinLat0*sinC,
	)

	return latr * 180 / math.Pi, lonr * 180 / math.Pi
}

// PointToSegmentMeters projects point p onto segment a-b within the given
// local frame and returns the perpendicular distance in meters plus the
// clamped projection ratio along the segment, and the projected point's
// coordinates in the same frame the caller passed in for a and b.
func PointToSegmentMeters(proj LocalProjector, pLat, pLon, aLat, aLon, bLat, bLon float64) (dist, ratio, projLat, projLon float64) {
	px, py := proj.ToLocal(pLat, pLon)
	ax, ay := proj.ToLocal(aLat, aLon)
	bx, by := proj.ToLocal(bLat, bLon)

	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy

	if lenSq == 0 {
		return Haversine(pLat, pLon, aLat, aLon), 0, aLat, aLon
	}

	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	cx := ax + t*dx
	cy := ay + t*dy
	projLat, projLon = proj.FromLocal(cx, cy)

	ddx := px - cx
	ddy := py - cy
	return math.Sqrt(ddx*ddx + ddy*ddy), t, projLat, projLon
}

// HeadingDegrees returns the bearing in degrees [0, 360) from (lat1,lon1)
// to (lat2,lon2), measured clockwise from true north. Mirrors the forward
// azimuth formula used to label road direction and overtaking-event bearing.
func HeadingDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	theta := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(theta+360, 360)
}
