// Package geo implements the exact-sign volume kernel and the
// segment/triangle intersection core (spec components A and B). Both are
// ported from the original knife sources (intersection.c) rather than
// rewritten from a generic determinant routine, so that the sign
// conventions used by the rest of the pipeline match the original bit for
// bit.
package geo

// Point3 is a 3-D coordinate. It is the same shape as gosl/gm.Point but
// kept local so geo has no dependency on entity ownership.
type Point3 struct {
	X, Y, Z float64
}

// Sub returns a-b as a plain vector (stored as Point3 for reuse).
func Sub(a, b Point3) Point3 {
	return Point3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Add returns a+b.
func Add(a, b Point3) Point3 {
	return Point3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Scale returns a scaled by s.
func Scale(a Point3, s float64) Point3 {
	return Point3{a.X * s, a.Y * s, a.Z * s}
}

// Centroid returns the unweighted average of pts, or the zero point for an
// empty slice.
func Centroid(pts []Point3) Point3 {
	if len(pts) == 0 {
		return Point3{}
	}
	var sum Point3
	for _, p := range pts {
		sum = Add(sum, p)
	}
	return Scale(sum, 1/float64(len(pts)))
}

// Cross returns a×b.
func Cross(a, b Point3) Point3 {
	return Point3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Dot returns a·b.
func Dot(a, b Point3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Volume6 computes six times the signed volume of the tetrahedron
// (a,b,c,d) via the expanded determinant of (b-d, c-d, a-d). This is the
// direct port of intersection.c's intersection_volume6, including its
// exact term ordering and final negation, so that sign parity with the
// side0/side1/side2 convention in Intersect matches the original.
func Volume6(a, b, c, d Point3) float64 {
	ad := Sub(a, d)
	bd := Sub(b, d)
	cd := Sub(c, d)

	m11 := ad.X * (bd.Y*cd.Z - cd.Y*bd.Z)
	m12 := ad.Y * (bd.X*cd.Z - cd.X*bd.Z)
	m13 := ad.Z * (bd.X*cd.Y - cd.X*bd.Y)

	det := m11 - m12 + m13
	return -det
}

// DefaultTolerance returns the default degeneracy tolerance for a mesh
// whose bounding extent is maxExtent, per spec §4.A: 1e-12·maxExtent³.
func DefaultTolerance(maxExtent float64) float64 {
	return 1e-12 * maxExtent * maxExtent * maxExtent
}
