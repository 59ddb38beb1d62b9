package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Bounds struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// Polygon is an ordered ring of points; the closing edge is implicit.
type Polygon []Point

// ParsePolygon parses the "lat,lon:lat,lon:..." form accepted by the crimes endpoint.
func ParsePolygon(s string) (Polygon, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("polygon is empty")
	}

	pairs := strings.Split(s, ":")
	if len(pairs) < 3 {
		return nil, fmt.Errorf("polygon must have at least 3 points, got %d", len(pairs))
	}

	poly := make(Polygon, 0, len(pairs))
	for i, pair := range pairs {
		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("point %d: expected lat,lon, got %q", i, pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("point %d: invalid latitude: %w", i, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("point %d: invalid longitude: %w", i, err)
		}
		if lat < -90 || lat > 90 {
			return nil, fmt.Errorf("point %d: latitude out of range [-90, 90]", i)
		}
		if lon < -180 || lon > 180 {
			return nil, fmt.Errorf("point %d: longitude out of range [-180, 180]", i)
		}
		poly = append(poly, Point{Lat: lat, Lon: lon})
	}

	return poly, nil
}

// String encodes the polygon back into the query parameter form.
func (p Polygon) String() string {
	pairs := make([]string, len(p))
	for i, pt := range p {
		pairs[i] = strconv.FormatFloat(pt.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(pt.Lon, 'f', -1, 64)
	}
	return strings.Join(pairs, ":")
}

func (p Polygon) Bounds() Bounds {
	if len(p) == 0 {
		return Bounds{}
	}
	b := Bounds{MinLat: p[0].Lat, MinLon: p[0].Lon, MaxLat: p[0].Lat, MaxLon: p[0].Lon}
	for _, pt := range p[1:] {
		if pt.Lat < b.MinLat {
			b.MinLat = pt.Lat
		}
		if pt.Lat > b.MaxLat {
			b.MaxLat = pt.Lat
		}
		if pt.Lon < b.MinLon {
			b.MinLon = pt.Lon
		}
		if pt.Lon > b.MaxLon {
			b.MaxLon = pt.Lon
		}
	}
	return b
}

// Polygon returns the bounding box as a four-corner ring.
func (b Bounds) Polygon() Polygon {
	return Polygon{
		{Lat: b.MinLat, Lon: b.MinLon},
		{Lat: b.MaxLat, Lon: b.MinLon},
		{Lat: b.MaxLat, Lon: b.MaxLon},
		{Lat: b.MinLat, Lon: b.MaxLon},
	}
}

// AreaKm2 is the surface covered by the box, with the length of a degree
// taken at the box's middle latitude.
func (b Bounds) AreaKm2() float64 {
	mid := (b.MinLat + b.MaxLat) / 2 * math.Pi / 180

	kmPerLatDeg := (111132.92 - 559.82*math.Cos(2*mid)) / 1000
	kmPerLonDeg := 111412.84 * math.Cos(mid) / 1000

	height := (b.MaxLat - b.MinLat) * kmPerLatDeg
	width := (b.MaxLon - b.MinLon) * kmPerLonDeg
	return math.Abs(height * width)
}
