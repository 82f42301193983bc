package world

import "fmt"

// Point is a tile coordinate in the game world.
type Point struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Plane int `json:"plane"` // floor level, 0 is ground
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Plane)
}

// Zone is an axis-aligned rectangle of tiles on a single plane.
// Corners may be given in any order.
type Zone struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// NewZone builds a zone from two corner points. Both corners must share a plane.
func NewZone(from, to Point) Zone {
	return Zone{From: from, To: to}
}

// Contains reports whether p lies inside the zone, edges included.
func (z Zone) Contains(p Point) bool {
	if p.Plane != z.From.Plane {
		return false
	}
	minX, maxX := ordered(z.From.X, z.To.X)
	minY, maxY := ordered(z.From.Y, z.To.Y)
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}

func ordered(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// At returns a pointer to a point, for optional locations in quest data.
func At(x, y, plane int) *Point {
	return &Point{X: x, Y: y, Plane: plane}
}
