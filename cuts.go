package knife

import (
	"github.com/cpmech/gosl/io"

	"github.com/afcarl/knife/ent"
	"github.com/afcarl/knife/geo"
	"github.com/afcarl/knife/neartree"
	"github.com/afcarl/knife/poly"
	"github.com/afcarl/knife/status"
)

// fail prints a diagnostic identifying the offending entities (spec §7:
// "a literal identification of the offending triangles") and returns code
// unchanged, so Domain.Run can abort the pipeline without emitting partial
// results.
func (d *Domain) fail(code status.Code, format string, args ...interface{}) status.Code {
	io.PfRed(format+"\n", args...)
	return code
}

// establishCuts implements spec §4.I step 4: for every dual triangle of
// every non-ghost poly, query the near-tree for overlapping cutting-
// surface triangles and run ent.EstablishBetween against each candidate.
// Any DEGENERATE result is fatal.
func (d *Domain) establishCuts() status.Code {
	for _, p := range d.polys {
		if p.Topology == poly.GHOST {
			continue
		}
		for _, bm := range p.Boundary {
			tri := bm.Triangle
			center, radius := triangleSphere(tri)
			candidates, code := d.queryNearTree(center, radius)
			if code.Fatal() {
				return d.fail(code, "near-tree query overflowed around dual triangle %d", tri.Index)
			}
			for _, j := range candidates {
				surf := d.surfTri[j]
				_, ecode := ent.EstablishBetween(d.arena, d.tol, tri, surf)
				if ecode == status.NO_INT {
					continue
				}
				if ecode.Fatal() {
					return d.fail(ecode,
						"degenerate cut between primal (dual) triangle %d and surface triangle %d: %s",
						tri.Index, j, ecode)
				}
			}
		}
	}
	return status.SUCCESS
}

// triangulateAll implements spec §4.I step 5: run the triangulator on
// every dual triangle and every cutting-surface triangle.
func (d *Domain) triangulateAll() status.Code {
	for _, p := range d.polys {
		if p.Topology == poly.GHOST {
			continue
		}
		for _, bm := range p.Boundary {
			if code := bm.Triangle.Triangulate(); code.Fatal() {
				return d.fail(code, "triangulation failed on dual triangle %d", bm.Triangle.Index)
			}
		}
	}
	for _, t := range d.surfTri {
		if code := t.Triangulate(); code.Fatal() {
			return d.fail(code, "triangulation failed on surface triangle %d", t.Index)
		}
	}
	return status.SUCCESS
}

func triangleSphere(t *ent.Triangle) (geo.Point3, float64) {
	p0, p1, p2 := t.Corners[0].P3(), t.Corners[1].P3(), t.Corners[2].P3()
	center := geo.Centroid([]geo.Point3{p0, p1, p2})
	return center, maxDist(center, p0, p1, p2)
}

// queryNearTree wraps neartree.Query, doubling the candidate cap on a
// BIGGER result until the query succeeds or an internal sanity limit is
// hit (spec §4.C: Query is bounded by a caller-supplied cap).
func (d *Domain) queryNearTree(center geo.Point3, radius float64) ([]int, status.Code) {
	const sanityLimit = 1 << 20
	capN := 64
	for {
		code, list := neartree.Query(d.tree, center.X, center.Y, center.Z, radius, capN, nil)
		if code == status.BIGGER {
			capN *= 2
			if capN > sanityLimit {
				return nil, status.BIGGER
			}
			continue
		}
		return list, status.SUCCESS
	}
}
