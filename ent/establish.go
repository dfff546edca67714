package ent

import (
	"github.com/afcarl/knife/geo"
	"github.com/afcarl/knife/status"
)

// EstablishBetween implements spec §4.E's establish_between: each of
// domainTri's three segments is tested against surfTri, and each of
// surfTri's three segments is tested against domainTri, via geo.Intersect
// (spec §4.B). Every HIT is recorded in arena as an Intersection. Zero
// hits is the ordinary no-cut result (status.NO_INT, not an error); one
// hit is a tangent touch (status.DEGENERATE); two hits form a Cut,
// registered on both triangles' cut lists and on each hit's own segment;
// three or more hits means a coplanar or repeated intersection
// (status.DEGENERATE).
func EstablishBetween(arena *Arena, tol float64, domainTri, surfTri *Triangle) (*Cut, status.Code) {
	var hits []*Intersection

	for _, seg := range domainTri.Segs {
		x, code := testSegmentAgainstTriangle(arena, tol, seg, surfTri)
		if code.Fatal() {
			return nil, code
		}
		if code == status.SUCCESS {
			hits = append(hits, x)
		}
	}
	for _, seg := range surfTri.Segs {
		x, code := testSegmentAgainstTriangle(arena, tol, seg, domainTri)
		if code.Fatal() {
			return nil, code
		}
		if code == status.SUCCESS {
			hits = append(hits, x)
		}
	}

	switch len(hits) {
	case 0:
		return nil, status.NO_INT
	case 1:
		return nil, status.Errf(status.DEGENERATE,
			"single tangent intersection between domain triangle %d and surface triangle %d",
			domainTri.Index, surfTri.Index).Code
	case 2:
		c := &Cut{I0: hits[0], I1: hits[1], Domain: domainTri, Surf: surfTri}
		domainTri.AddCut(c)
		surfTri.AddCut(c)
		hits[0].Segment.AddIntersection(hits[0])
		hits[1].Segment.AddIntersection(hits[1])
		return c, status.SUCCESS
	default:
		return nil, status.Errf(status.DEGENERATE,
			"%d-way coplanar or repeated intersection between domain triangle %d and surface triangle %d",
			len(hits), domainTri.Index, surfTri.Index).Code
	}
}

// testSegmentAgainstTriangle runs the intersection core with seg's own
// orientation (Node0->Node1) against tri, tagging a successful hit's
// Intersection with Triangle=tri (the point lives in tri's reference
// simplex) and Segment=seg (the point lives at parameter T along seg).
func testSegmentAgainstTriangle(arena *Arena, tol float64, seg *Segment, tri *Triangle) (*Intersection, status.Code) {
	code, res := geo.Intersect(
		tri.Corners[0].P3(), tri.Corners[1].P3(), tri.Corners[2].P3(),
		seg.Node0.P3(), seg.Node1.P3(), tol)
	switch code {
	case status.SUCCESS:
		return arena.New(tri, seg, res.T, res.U, res.V, res.W), status.SUCCESS
	case status.NO_INT:
		return nil, status.NO_INT
	default:
		return nil, code
	}
}
