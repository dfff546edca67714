package knife

import "github.com/afcarl/knife/poly"

// effectiveTopology returns p's topology for propagation purposes: a
// GHOST poly always reads as INTERIOR (spec §4.I step 8) since its true
// classification belongs to a neighbouring partition this Domain instance
// never computes; GHOST itself is never written by the sweep below.
func effectiveTopology(p *poly.Poly) poly.Topology {
	if p.Topology == poly.GHOST {
		return poly.INTERIOR
	}
	return p.Topology
}

// propagateTopology implements spec §4.I steps 7-8: a CUT poly seeds
// EXTERIOR into an INTERIOR neighbour across a primal edge when none of
// the CUT poly's active sub-triangles touch that edge's midpoint node;
// EXTERIOR then spreads along further INTERIOR neighbours to a fixed
// point. Folding both rules into one iterate-to-fixed-point loop is safe
// because neither rule is ever un-done once applied — checking an
// already-resolved edge again is redundant, not incorrect.
func (d *Domain) propagateTopology() {
	changed := true
	for changed {
		changed = false
		for e := 0; e < d.Primal.NEdge(); e++ {
			ends := d.Primal.Edge(e)
			p0, p1 := d.polys[ends[0]], d.polys[ends[1]]
			t0, t1 := effectiveTopology(p0), effectiveTopology(p1)

			if t0 == poly.CUT && t1 == poly.INTERIOR && p1.Topology != poly.GHOST {
				if !p0.NodeHasActive(d.edgeMidNode(e)) {
					p1.Topology = poly.EXTERIOR
					changed = true
				}
			}
			if t1 == poly.CUT && t0 == poly.INTERIOR && p0.Topology != poly.GHOST {
				if !p1.NodeHasActive(d.edgeMidNode(e)) {
					p0.Topology = poly.EXTERIOR
					changed = true
				}
			}
			if t0 == poly.EXTERIOR && t1 == poly.INTERIOR && p1.Topology != poly.GHOST {
				p1.Topology = poly.EXTERIOR
				changed = true
			}
			if t1 == poly.EXTERIOR && t0 == poly.INTERIOR && p0.Topology != poly.GHOST {
				p0.Topology = poly.EXTERIOR
				changed = true
			}
		}
	}
}
