package geo

import "github.com/afcarl/knife/status"

// Result is the outcome of a successful (HIT) intersection test.
type Result struct {
	T       float64 // parameter along the segment, in (0,1)
	U, V, W float64 // barycentric coordinates in the triangle, sum to 1
}

// Intersect classifies the crossing of the directed segment (s0,s1)
// through the triangle (t0,t1,t2), following spec §4.B's six-volume sign
// test, ported from intersection.c's intersection_core.
//
// Returns (status.SUCCESS, Result) on a clean hit, (status.NO_INT, _) when
// the segment misses the triangle's plane or its footprint, and
// (status.DEGENERATE, _) when either endpoint volume, or (for a segment
// whose endpoints lie on opposite sides of the plane) any of the three
// side volumes, lands within tol of zero — the caller must treat this as a hard error, never a guessed
// resolution (spec §9).
func Intersect(t0, t1, t2, s0, s1 Point3, tol float64) (status.Code, Result) {
	topV := Volume6(t0, t1, t2, s0)
	botV := Volume6(t0, t1, t2, s1)

	if abs(topV) < tol || abs(botV) < tol {
		return status.DEGENERATE, Result{}
	}
	if sameSign(topV, botV) {
		return status.NO_INT, Result{}
	}

	side0 := Volume6(t1, t2, s0, s1)
	side1 := Volume6(t2, t0, s0, s1)
	side2 := Volume6(t0, t1, s0, s1)

	if abs(side0) < tol || abs(side1) < tol || abs(side2) < tol {
		return status.DEGENERATE, Result{}
	}

	if !(sameSign3(side0, side1, side2)) {
		return status.NO_INT, Result{}
	}

	total := topV - botV
	t := topV / total

	sideTotal := side0 + side1 + side2
	u := side0 / sideTotal
	v := side1 / sideTotal
	w := side2 / sideTotal

	return status.SUCCESS, Result{T: t, U: u, V: v, W: w}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

func sameSign3(a, b, c float64) bool {
	return (a > 0 && b > 0 && c > 0) || (a < 0 && b < 0 && c < 0)
}
