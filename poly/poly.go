// Package poly implements the polyhedron region painter (spec component
// H), the algorithmic heart of the pipeline: cut activation, paint,
// uncut-mask propagation, cutting-surface gathering, region collapse, and
// centroid/volume/directed-area emission.
package poly

import (
	"math"
	"strconv"

	"github.com/katalvlaran/lvlath/graph"

	"github.com/afcarl/knife/ent"
	"github.com/afcarl/knife/geo"
	"github.com/afcarl/knife/mask"
	"github.com/afcarl/knife/status"
)

// Topology is a poly's classification relative to the cutting surface
// (spec §4.I, GLOSSARY).
type Topology int

const (
	INTERIOR Topology = iota
	CUT
	EXTERIOR
	GHOST
)

func (t Topology) String() string {
	switch t {
	case INTERIOR:
		return "INTERIOR"
	case CUT:
		return "CUT"
	case EXTERIOR:
		return "EXTERIOR"
	case GHOST:
		return "GHOST"
	default:
		return "UNKNOWN"
	}
}

// Poly is the ordered collection of masks bounding one median dual cell
// (Boundary) plus whatever cutting-surface masks have been gathered near
// it (Surf), together with a topology classification. Region ids are
// minted from a counter field, never a package or process global, per the
// design note on replacing the original source's global counters.
type Poly struct {
	Index      int
	Boundary   []*mask.Mask
	Surf       []*mask.Mask
	Topology   Topology
	nextRegion int
	triMask    map[*ent.Triangle]*mask.Mask
}

// New creates an empty poly, initially INTERIOR.
func New(index int) *Poly {
	return &Poly{Index: index, Topology: INTERIOR, triMask: make(map[*ent.Triangle]*mask.Mask)}
}

// AddBoundary registers a boundary mask (one facet of this poly's median
// dual cell) owned by this poly.
func (p *Poly) AddBoundary(m *mask.Mask) {
	p.Boundary = append(p.Boundary, m)
	p.triMask[m.Triangle] = m
}

func (p *Poly) adopt(m *mask.Mask) {
	p.Surf = append(p.Surf, m)
	p.triMask[m.Triangle] = m
}

// ensureSurf returns the existing surf mask for tri if this poly has
// already touched it, or creates and registers a new one.
func (p *Poly) ensureSurf(tri *ent.Triangle, inward bool) *mask.Mask {
	if m, ok := p.triMask[tri]; ok {
		return m
	}
	m := mask.New(tri, inward)
	p.adopt(m)
	return m
}

// HasCut reports whether any boundary mask's triangle carries a cut.
func (p *Poly) HasCut() bool {
	for _, m := range p.Boundary {
		if len(m.Triangle.Cuts) > 0 {
			return true
		}
	}
	return false
}

func (p *Poly) newRegionID() int {
	p.nextRegion++
	return p.nextRegion
}

func volumeOf(m *mask.Mask, subtris []int, apex geo.Point3) float64 {
	var sum float64
	for _, i := range subtris {
		pts := m.Triangle.SubtriPoints(i)
		sum += geo.Volume6(apex, pts[0], pts[1], pts[2])
	}
	return sum
}

// partnerTriangle returns the other triangle of cut c, given that one end
// is tri. c.Domain/c.Surf are recorded directly at establishment (see
// ent/establish.go), so this does not depend on the two intersections'
// own Triangle fields, which may both name the same triangle.
func partnerTriangle(c *ent.Cut, tri *ent.Triangle) *ent.Triangle {
	a, b := c.Triangles()
	switch tri {
	case a:
		return b
	case b:
		return a
	default:
		return nil
	}
}

// ActivateAtCuts implements spec §4.H's "Activation at cuts": for every
// cut on every boundary mask, it locates (creating if necessary) the
// cutting-surface mask on the other side, splits both triangles into
// their two chord-bounded sub-regions, measures a signed volume between a
// stable "probe" sub-region of the cutting surface and each candidate
// sub-region of the boundary triangle (fanned from the chord's own 3-D
// location, which both triangles share), and activates the sub-region
// picked by orientation with a freshly minted region id — symmetrically
// on the matching side of the cutting-surface triangle.
//
// inwardOf reports whether a cutting-surface triangle is inward-pointing;
// Domain supplies it from the Surface collaborator's own per-triangle
// orientation data. tol is the degeneracy threshold for the two measured
// volumes (mirroring geo.Intersect's tolerance parameter).
func (p *Poly) ActivateAtCuts(inwardOf func(*ent.Triangle) bool, tol float64) status.Code {
	for _, bm := range p.Boundary {
		for _, c := range bm.Triangle.Cuts {
			other := partnerTriangle(c, bm.Triangle)
			if other == nil {
				return status.Errf(status.INCONSISTENT, "cut does not reference boundary triangle %d", bm.Triangle.Index).Code
			}
			m2 := p.ensureSurf(other, inwardOf(other))

			a, b, ok := bm.ChordSubnodes(c.I0, c.I1)
			if !ok {
				return status.Errf(status.INCONSISTENT, "chord endpoints missing on triangle %d", bm.Triangle.Index).Code
			}
			a2, b2, ok2 := m2.ChordSubnodes(c.I0, c.I1)
			if !ok2 {
				return status.Errf(status.INCONSISTENT, "chord endpoints missing on triangle %d", other.Index).Code
			}

			region0, region1, code := twoSides(bm, a, b)
			if code.Fatal() {
				return code
			}
			probeRegion, altProbeRegion, code := twoSides(m2, a2, b2)
			if code.Fatal() {
				return code
			}
			if m2.ComponentArea(altProbeRegion) > m2.ComponentArea(probeRegion) {
				probeRegion, altProbeRegion = altProbeRegion, probeRegion
			}

			apex := geo.Scale(geo.Add(bm.Triangle.Point3(a), bm.Triangle.Point3(b)), 0.5)
			probeVol := volumeOf(m2, probeRegion, apex)
			vol0 := volumeOf(bm, region0, apex) - probeVol
			vol1 := volumeOf(bm, region1, apex) - probeVol

			if (vol0 > 0) == (vol1 > 0) || math.Abs(vol0) < tol || math.Abs(vol1) < tol {
				return status.Errf(status.DEGENERATE,
					"cut activation degenerate on triangles %d/%d: vol0=%g vol1=%g",
					bm.Triangle.Index, other.Index, vol0, vol1).Code
			}

			var targetT []int
			pickLarger := vol0 > vol1
			if !m2.Inward {
				pickLarger = !pickLarger
			}
			if pickLarger {
				targetT = region0
			} else {
				targetT = region1
			}

			regionID := p.newRegionID()
			bm.ActivateComponent(targetT, regionID)

			targetVol := volumeOf(bm, targetT, apex)
			volC := volumeOf(m2, probeRegion, apex) - targetVol
			volD := volumeOf(m2, altProbeRegion, apex) - targetVol
			var targetTprime []int
			pickProbe := volC > volD
			if !bm.Inward {
				pickProbe = !pickProbe
			}
			if pickProbe {
				targetTprime = probeRegion
			} else {
				targetTprime = altProbeRegion
			}
			m2.ActivateComponent(targetTprime, regionID)
		}
	}
	return status.SUCCESS
}

// twoSides returns the two sub-regions m's triangle is split into by the
// chord (a,b), per spec §4.H. If the chord happens to lie exactly on the
// triangle's own boundary edge (one incident subtri only), both sides
// degenerate to the same component.
func twoSides(m *mask.Mask, a, b int) ([]int, []int, status.Code) {
	seeds := m.SubtrisOnEdge(a, b)
	switch len(seeds) {
	case 0:
		return nil, nil, status.Errf(status.INCONSISTENT, "chord (%d,%d) bounds no subtri of triangle %d", a, b, m.Triangle.Index).Code
	case 1:
		side := m.ComponentAcrossChord(seeds[0], a, b)
		return side, side, status.SUCCESS
	default:
		side0 := m.ComponentAcrossChord(seeds[0], a, b)
		side1 := m.ComponentAcrossChord(seeds[1], a, b)
		return side0, side1, status.SUCCESS
	}
}

// PaintAll runs 4.G paint over every mask this poly owns, then verifies
// paint consistency across all of them.
func (p *Poly) PaintAll() status.Code {
	for _, m := range p.Boundary {
		m.Paint()
	}
	for _, m := range p.Surf {
		m.Paint()
	}
	for _, m := range p.Boundary {
		if code := m.VerifyPaint(); code.Fatal() {
			return code
		}
	}
	for _, m := range p.Surf {
		if code := m.VerifyPaint(); code.Fatal() {
			return code
		}
	}
	return status.SUCCESS
}

func segEdgeIndex(t *ent.Triangle, seg *ent.Segment) int {
	for i, s := range t.Segs {
		if s == seg {
			return i
		}
	}
	return -1
}

// ActivateUncutMasks implements spec §4.H's "Activate uncut masks":
// repeatedly, for every boundary mask whose triangle carries no cut, if
// any of its three uncut-segment neighbours (another mask of this same
// poly, sharing a facet edge with no recorded intersections) already
// carries an active region, activate the whole mask under that region.
// Iterates to a fixed point and returns whether anything changed.
func (p *Poly) ActivateUncutMasks() bool {
	anyChange := false
	changed := true
	for changed {
		changed = false
		for _, bm := range p.Boundary {
			if len(bm.Triangle.Cuts) > 0 {
				continue
			}
			if _, ok := bm.FirstActiveRegion(); ok {
				continue
			}
			for _, seg := range bm.Triangle.Segs {
				if len(seg.Intersections) != 0 {
					continue
				}
				other := seg.Other(bm.Triangle)
				if other == nil {
					continue
				}
				nm, ok := p.triMask[other]
				if !ok {
					continue
				}
				if region, ok := nm.FirstActiveRegion(); ok {
					bm.ActivateAll(region)
					changed = true
					anyChange = true
					break
				}
			}
		}
	}
	return anyChange
}

// neighbourRegionFor looks for an already-gathered, already-active
// neighbour of tri across one of its uncut segments.
func (p *Poly) neighbourRegionFor(tri *ent.Triangle) (int, bool) {
	for _, seg := range tri.Segs {
		if len(seg.Intersections) != 0 {
			continue
		}
		other := seg.Other(tri)
		if other == nil {
			continue
		}
		nm, ok := p.triMask[other]
		if !ok {
			continue
		}
		if region, ok := nm.FirstActiveRegion(); ok {
			return region, true
		}
	}
	return 0, false
}

// buildSurfGraph performs the mechanical, order-independent reachability
// discovery needed before a deterministic BFS can run: starting from the
// already-gathered seed triangles, it walks every uncut-segment neighbour
// (a cut segment blocks the gather, since the cutting surface stops being
// contiguous there) and records the resulting adjacency as an
// github.com/katalvlaran/lvlath/graph.Graph.
func buildSurfGraph(seeds []*ent.Triangle) (*graph.Graph, map[string]*ent.Triangle) {
	g := graph.NewGraph(false, false)
	byID := make(map[string]*ent.Triangle)
	visited := make(map[*ent.Triangle]bool)
	idOf := func(t *ent.Triangle) string { return strconv.Itoa(t.Index) }

	var queue []*ent.Triangle
	for _, t := range seeds {
		if visited[t] {
			continue
		}
		visited[t] = true
		g.AddVertex(&graph.Vertex{ID: idOf(t)})
		byID[idOf(t)] = t
		queue = append(queue, t)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, seg := range cur.Segs {
			if len(seg.Intersections) != 0 {
				continue
			}
			other := seg.Other(cur)
			if other == nil {
				continue
			}
			if !visited[other] {
				visited[other] = true
				g.AddVertex(&graph.Vertex{ID: idOf(other)})
				byID[idOf(other)] = other
				queue = append(queue, other)
			}
			g.AddEdge(idOf(cur), idOf(other), 1)
		}
	}
	return g, byID
}

// GatherSurf implements spec §4.H's "Gather cutting-surface masks": a
// breadth-first walk outward from the cutting-surface triangles already
// touched by ActivateAtCuts, along uncut-segment adjacency, creating a
// new single-subtri surf mask for each newly reached triangle and
// activating it under whichever already-visited neighbour's region it
// borders. The walk order is driven by
// github.com/katalvlaran/lvlath/graph's BFS so that, given the same
// inputs, masks are always created in the same deterministic order (spec
// §5).
func (p *Poly) GatherSurf(inwardOf func(*ent.Triangle) bool) status.Code {
	if len(p.Surf) == 0 {
		return status.SUCCESS
	}
	seeds := make([]*ent.Triangle, len(p.Surf))
	for i, m := range p.Surf {
		seeds[i] = m.Triangle
	}
	g, byID := buildSurfGraph(seeds)

	processed := make(map[string]bool)
	for _, seed := range seeds {
		id := strconv.Itoa(seed.Index)
		if processed[id] {
			continue
		}
		_, err := g.BFS(id, &graph.BFSOptions{
			OnVisit: func(v *graph.Vertex, depth int) error {
				processed[v.ID] = true
				tri := byID[v.ID]
				if _, ok := p.triMask[tri]; ok {
					return nil
				}
				region, found := p.neighbourRegionFor(tri)
				if !found {
					return nil
				}
				nm := mask.New(tri, inwardOf(tri))
				nm.ActivateAll(region)
				p.adopt(nm)
				return nil
			},
		})
		if err != nil {
			return status.Errf(status.INCONSISTENT, "surf gather BFS from triangle %s: %v", id, err).Code
		}
	}
	return status.SUCCESS
}

func distinctRegion(m *mask.Mask, subtris []int) int {
	for _, i := range subtris {
		if r := m.Region(i); r != 0 {
			return r
		}
	}
	return 0
}

func (p *Poly) relabelAll(a, b int) {
	if a == b {
		return
	}
	for _, m := range p.Boundary {
		m.CollapseRegions(a, b)
	}
	for _, m := range p.Surf {
		m.CollapseRegions(a, b)
	}
}

func (p *Poly) unifyAcrossEdge(mA, mB *mask.Mask, eA, eB int) bool {
	subsA := mA.SubtrisOnEdge(eA, (eA+1)%3)
	subsB := mB.SubtrisOnEdge(eB, (eB+1)%3)
	rA := distinctRegion(mA, subsA)
	rB := distinctRegion(mB, subsB)
	if rA == 0 || rB == 0 || rA == rB {
		return false
	}
	p.relabelAll(rA, rB)
	return true
}

func (p *Poly) unifyAcrossChord(mA, mB *mask.Mask, a, b, a2, b2 int) bool {
	subsA := mA.SubtrisOnEdge(a, b)
	subsB := mB.SubtrisOnEdge(a2, b2)
	rA := distinctRegion(mA, subsA)
	rB := distinctRegion(mB, subsB)
	if rA == 0 || rB == 0 || rA == rB {
		return false
	}
	p.relabelAll(rA, rB)
	return true
}

// CollapseRegions implements spec §4.H's consistency loop: repeat the
// three union rules (cut pairs, uncut boundary-segment neighbours, surf
// segment neighbours) until no pair remains split across what should be
// one connected region. Terminates because each successful union strictly
// decreases the number of distinct labels.
func (p *Poly) CollapseRegions() status.Code {
	changed := true
	for changed {
		changed = false
		for _, bm := range p.Boundary {
			for _, c := range bm.Triangle.Cuts {
				other := partnerTriangle(c, bm.Triangle)
				if other == nil {
					continue
				}
				m2, ok := p.triMask[other]
				if !ok {
					continue
				}
				a, b, ok1 := bm.ChordSubnodes(c.I0, c.I1)
				a2, b2, ok2 := m2.ChordSubnodes(c.I0, c.I1)
				if !ok1 || !ok2 {
					continue
				}
				if p.unifyAcrossChord(bm, m2, a, b, a2, b2) {
					changed = true
				}
			}
		}
		for _, bm := range p.Boundary {
			for e, seg := range bm.Triangle.Segs {
				if len(seg.Intersections) != 0 {
					continue
				}
				other := seg.Other(bm.Triangle)
				if other == nil {
					continue
				}
				nm, ok := p.triMask[other]
				if !ok {
					continue
				}
				e2 := segEdgeIndex(other, seg)
				if e2 < 0 {
					continue
				}
				if p.unifyAcrossEdge(bm, nm, e, e2) {
					changed = true
				}
			}
		}
		for _, sm := range p.Surf {
			for e, seg := range sm.Triangle.Segs {
				other := seg.Other(sm.Triangle)
				if other == nil {
					continue
				}
				nm, ok := p.triMask[other]
				if !ok {
					continue
				}
				e2 := segEdgeIndex(other, seg)
				if e2 < 0 {
					continue
				}
				if p.unifyAcrossEdge(sm, nm, e, e2) {
					changed = true
				}
			}
		}
	}
	return status.SUCCESS
}

// CompactLabels renumbers every region 0..k in first-occurrence order
// (0 stays inactive), per spec §4.H. Must be called after CollapseRegions
// has reached its fixed point.
func (p *Poly) CompactLabels() {
	mapping := make(map[int]int)
	next := 1
	relabel := func(m *mask.Mask) {
		n := m.NSubtri()
		for i := 0; i < n; i++ {
			r := m.Region(i)
			if r == 0 {
				continue
			}
			nr, ok := mapping[r]
			if !ok {
				nr = next
				mapping[r] = nr
				next++
			}
			m.SetRegion(i, nr)
		}
	}
	for _, m := range p.Boundary {
		relabel(m)
	}
	for _, m := range p.Surf {
		relabel(m)
	}
	p.nextRegion = next - 1
}

// RegionCount returns the number of distinct active regions, valid after
// CompactLabels.
func (p *Poly) RegionCount() int {
	return p.nextRegion
}

// CentroidVolume implements spec §4.H's volume/centroid accumulation for
// one region: Σ (1/6)·(x0−origin)·((x1−origin)×(x2−origin)) over every
// active sub-triangle in the region, sign-flipped on inward-pointing
// masks, falling back to the unweighted average of sub-triangle centers
// when the accumulated volume is too small to divide by safely.
func (p *Poly) CentroidVolume(region int, origin geo.Point3) (geo.Point3, float64) {
	var volume float64
	var weighted geo.Point3
	var centers []geo.Point3

	accumulate := func(m *mask.Mask) {
		sign := 1.0
		if m.Inward {
			sign = -1.0
		}
		n := m.NSubtri()
		for i := 0; i < n; i++ {
			if m.Region(i) != region {
				continue
			}
			pts := m.Triangle.SubtriPoints(i)
			x0 := geo.Sub(pts[0], origin)
			x1 := geo.Sub(pts[1], origin)
			x2 := geo.Sub(pts[2], origin)
			contribution := sign * geo.Dot(x0, geo.Cross(x1, x2)) / 6
			volume += contribution
			center := geo.Centroid(pts[:])
			weighted = geo.Add(weighted, geo.Scale(center, contribution))
			centers = append(centers, center)
		}
	}
	for _, m := range p.Boundary {
		accumulate(m)
	}
	for _, m := range p.Surf {
		accumulate(m)
	}

	if math.Abs(volume) < 1e-14 {
		return geo.Centroid(centers), volume
	}
	return geo.Scale(weighted, 1/volume), volume
}

// ActivateWhole marks every sub-triangle of every boundary mask active
// under a single region 1. This is the emission convention for a poly
// that never goes through the cut-activation pipeline because it carries
// no cut (spec §4.I's "emission is the uncut dual" scenario): its entire
// median-dual cell counts as one region, whether it ends up classified
// INTERIOR or EXTERIOR by topology propagation.
func (p *Poly) ActivateWhole() {
	for _, m := range p.Boundary {
		m.ActivateAll(1)
	}
	p.nextRegion = 1
}

// NodeHasActive reports whether any of this poly's boundary masks has an
// active sub-triangle touching corner n — the "mask_surrounding_node_
// activity" check spec §4.I's topology propagation uses to decide whether
// a CUT poly actually has material on the side nearest a given primal
// edge midpoint.
func (p *Poly) NodeHasActive(n *ent.Node) bool {
	for _, m := range p.Boundary {
		corner := -1
		for k, c := range m.Triangle.Corners {
			if c == n {
				corner = k
				break
			}
		}
		if corner < 0 {
			continue
		}
		for i, st := range m.Triangle.Subtris {
			if m.Region(i) == 0 {
				continue
			}
			if st.V[0] == corner || st.V[1] == corner || st.V[2] == corner {
				return true
			}
		}
	}
	return false
}

// DirectedArea implements spec §4.H's directed-area contribution about a
// primal edge midpoint node n: the sum, over every boundary mask of this
// poly whose triangle has n as one of its three corners, of
// (sub-triangle reference area · triangle area · unit normal), signed by
// the mask's inward flag, restricted to active sub-triangles touching
// that corner.
func (p *Poly) DirectedArea(n *ent.Node) geo.Point3 {
	var sum geo.Point3
	for _, m := range p.Boundary {
		corner := -1
		for k, c := range m.Triangle.Corners {
			if c == n {
				corner = k
				break
			}
		}
		if corner < 0 {
			continue
		}
		sign := 1.0
		if m.Inward {
			sign = -1.0
		}
		normal := m.Triangle.Normal()
		mag := math.Sqrt(geo.Dot(normal, normal))
		if mag == 0 {
			continue
		}
		unit := geo.Scale(normal, 1/mag)
		for i, st := range m.Triangle.Subtris {
			if m.Region(i) == 0 {
				continue
			}
			if st.V[0] != corner && st.V[1] != corner && st.V[2] != corner {
				continue
			}
			area := m.Triangle.SubtriArea(i)
			sum = geo.Add(sum, geo.Scale(unit, area*sign))
		}
	}
	return sum
}
