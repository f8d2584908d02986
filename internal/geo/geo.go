// Package geo provides the lat/long primitives behind the map pane:
// points, bounding boxes, viewport pan/zoom, and projection of
// coordinates onto a terminal cell grid.
package geo

import "math"

// MetersPerDegreeLat is close enough for accuracy circles and pan steps;
// longitude degrees shrink with cos(lat) and are corrected where it matters.
const MetersPerDegreeLat = 111320.0

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// BoundingBox is the rectangular region currently visible on the map,
// described by its northeast and southwest corners.
type BoundingBox struct {
	NE Point
	SW Point
}

// BoxAround builds a box of the given spans (degrees) centered on p.
func BoxAround(p Point, latSpan, lonSpan float64) BoundingBox {
	return BoundingBox{
		NE: Point{Lat: p.Lat + latSpan/2, Lon: p.Lon + lonSpan/2},
		SW: Point{Lat: p.Lat - latSpan/2, Lon: p.Lon - lonSpan/2},
	}
}

// Contains reports whether p lies within the box (inclusive).
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.SW.Lat && p.Lat <= b.NE.Lat &&
		p.Lon >= b.SW.Lon && p.Lon <= b.NE.Lon
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Point {
	return Point{
		Lat: (b.NE.Lat + b.SW.Lat) / 2,
		Lon: (b.NE.Lon + b.SW.Lon) / 2,
	}
}

// Height returns the latitude span in degrees.
func (b BoundingBox) Height() float64 { return b.NE.Lat - b.SW.Lat }

// Width returns the longitude span in degrees.
func (b BoundingBox) Width() float64 { return b.NE.Lon - b.SW.Lon }

// Pan shifts the box by the given fractions of its own spans. Positive
// dLat moves north, positive dLon moves east.
func (b BoundingBox) Pan(dLatFrac, dLonFrac float64) BoundingBox {
	dLat := b.Height() * dLatFrac
	dLon := b.Width() * dLonFrac
	return BoundingBox{
		NE: Point{Lat: b.NE.Lat + dLat, Lon: b.NE.Lon + dLon},
		SW: Point{Lat: b.SW.Lat + dLat, Lon: b.SW.Lon + dLon},
	}
}

// Zoom scales the box spans about its center. A factor below 1 zooms in,
// above 1 zooms out.
func (b BoundingBox) Zoom(factor float64) BoundingBox {
	c := b.Center()
	return BoxAround(c, b.Height()*factor, b.Width()*factor)
}

// Cell projects p onto a cols x rows grid covering the box. Row 0 is the
// northern edge, column 0 the western edge. ok is false when p falls
// outside the box or the grid is degenerate.
func (b BoundingBox) Cell(p Point, cols, rows int) (col, row int, ok bool) {
	if cols <= 0 || rows <= 0 || b.Width() <= 0 || b.Height() <= 0 {
		return 0, 0, false
	}
	if !b.Contains(p) {
		return 0, 0, false
	}
	fx := (p.Lon - b.SW.Lon) / b.Width()
	fy := (b.NE.Lat - p.Lat) / b.Height()
	col = int(fx * float64(cols))
	row = int(fy * float64(rows))
	if col >= cols {
		col = cols - 1
	}
	if row >= rows {
		row = rows - 1
	}
	return col, row, true
}

// DegreesForMeters converts a ground distance to degree spans at the
// given latitude: the latitude span, and the wider longitude span.
func DegreesForMeters(meters, atLat float64) (latDeg, lonDeg float64) {
	latDeg = meters / MetersPerDegreeLat
	scale := math.Cos(atLat * math.Pi / 180)
	if scale < 0.01 {
		scale = 0.01
	}
	lonDeg = latDeg / scale
	return latDeg, lonDeg
}
