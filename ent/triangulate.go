package ent

import (
	"github.com/afcarl/knife/status"
)

// cornerUV gives the reference-simplex (U,V) coordinates of each of a
// triangle's three corners: corner0=(0,0), corner1=(1,0), corner2=(0,1).
var cornerUV = [3][2]float64{{0, 0}, {1, 0}, {0, 1}}

const uvEps = 1e-9

// edgeIndex returns the local edge index (0,1,2) of seg within t, or -1 if
// seg does not border t.
func (t *Triangle) edgeIndex(seg *Segment) int {
	for i, s := range t.Segs {
		if s == seg {
			return i
		}
	}
	return -1
}

// edgeUV maps a parameter tl in [0,1] along local edge e (from corner e to
// corner (e+1)%3) to reference-simplex (U,V) coordinates.
func edgeUV(e int, tl float64) (u, v float64) {
	a := cornerUV[e]
	b := cornerUV[(e+1)%3]
	return a[0] + tl*(b[0]-a[0]), a[1] + tl*(b[1]-a[1])
}

// Triangulate runs the full per-triangle triangulation pass (spec §4.F):
// first every segment intersection as an edge subnode, then every cut
// chord as a constraint, preserving the reference-area invariant at each
// step.
func (t *Triangle) Triangulate() status.Code {
	if code := t.InsertSegmentIntersections(); code.Fatal() {
		return code
	}
	return t.InsertCuts()
}

// InsertSegmentIntersections walks the triangle's three segments in order
// and inserts every recorded Intersection as an edge subnode, in ascending
// parameter order per segment, per spec §4.F's ordering rule. It is safe
// to call more than once; already-inserted intersections are skipped.
func (t *Triangle) InsertSegmentIntersections() status.Code {
	for e, seg := range t.Segs {
		ordered := orderedByParam(seg.Intersections, seg, e, t)
		for _, x := range ordered {
			if t.hasIntersectionSubnode(x) {
				continue
			}
			tl := localParam(seg, e, t, x.T)
			u, v := edgeUV(e, tl)
			if code := t.insertPoint(u, v, IntersectionSubnode, -1, x); code.Fatal() {
				return code
			}
		}
	}
	return status.SUCCESS
}

// localParam converts an intersection's global segment parameter (always
// measured from seg.Node0 to seg.Node1) into the local parameter along
// this triangle's edge e, flipping direction if the edge traverses the
// segment corner1->corner0 (t) -> corner0->corner1 (t') the other way.
func localParam(seg *Segment, e int, t *Triangle, globalT float64) float64 {
	a, b := t.Corners[e], t.Corners[(e+1)%3]
	if seg.Node0 == a && seg.Node1 == b {
		return globalT
	}
	if seg.Node0 == b && seg.Node1 == a {
		return 1 - globalT
	}
	// segment shared by edge but with different endpoints never happens
	// for a manifold mesh; fall back to the raw parameter.
	return globalT
}

// orderedByParam returns seg's intersections sorted by ascending local
// parameter along triangle t's edge e (spec §4.F ordering rule), broken
// ties by arena index for determinism.
func orderedByParam(xs []*Intersection, seg *Segment, e int, t *Triangle) []*Intersection {
	out := make([]*Intersection, len(xs))
	copy(out, xs)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			pi := localParam(seg, e, t, out[j].T)
			pj := localParam(seg, e, t, out[j-1].T)
			if pi < pj || (pi == pj && out[j].ArenaIndex() < out[j-1].ArenaIndex()) {
				out[j], out[j-1] = out[j-1], out[j]
			} else {
				break
			}
		}
	}
	return out
}

func (t *Triangle) hasIntersectionSubnode(x *Intersection) bool {
	for _, sn := range t.Subnodes {
		if sn.Kind == IntersectionSubnode && sn.Intersection == x {
			return true
		}
	}
	return false
}

// InsertCuts inserts every cut chord registered on this triangle as a
// constraint edge, in registration order, flipping diagonals until each
// chord exists between two subnodes (spec §4.F).
func (t *Triangle) InsertCuts() status.Code {
	for _, c := range t.Cuts {
		a, code := t.subnodeForCutEnd(c.I0)
		if code.Fatal() {
			return code
		}
		b, code := t.subnodeForCutEnd(c.I1)
		if code.Fatal() {
			return code
		}
		if code := t.insertChordEdge(a, b); code.Fatal() {
			return code
		}
	}
	return status.SUCCESS
}

// subnodeForCutEnd locates (inserting if necessary) the subnode for one
// endpoint of a cut. If x.Triangle == t, x's barycentric coordinates are
// already expressed in t's own reference simplex (an interior point,
// typically). Otherwise x.Segment must be one of t's edges, and the point
// is located via the segment's parameter (spec's note on how a cut's two
// endpoints relate to the triangles they constrain).
func (t *Triangle) subnodeForCutEnd(x *Intersection) (int, status.Code) {
	if idx := t.indexOfIntersection(x); idx >= 0 {
		return idx, status.SUCCESS
	}
	if x.Triangle == t {
		return t.insertPointIdx(x.V, x.W, IntersectionSubnode, -1, x)
	}
	e := t.edgeIndex(x.Segment)
	if e < 0 {
		return 0, status.Errf(status.INCONSISTENT, "cut endpoint does not belong to triangle %d", t.Index).Code
	}
	tl := localParam(x.Segment, e, t, x.T)
	u, v := edgeUV(e, tl)
	return t.insertPointIdx(u, v, IntersectionSubnode, -1, x)
}

func (t *Triangle) indexOfIntersection(x *Intersection) int {
	for i, sn := range t.Subnodes {
		if sn.Kind == IntersectionSubnode && sn.Intersection == x {
			return i
		}
	}
	return -1
}

// insertPoint is the status-only wrapper around insertPointIdx, used when
// the caller only needs to know whether the insertion succeeded.
func (t *Triangle) insertPoint(u, v float64, kind SubnodeKind, corner int, x *Intersection) status.Code {
	_, code := t.insertPointIdx(u, v, kind, corner, x)
	return code
}

// InsertInterior inserts an interior point (given in reference-simplex
// (u,v) coordinates) tied to intersection x, returning its subnode index.
// Exported for callers outside ent that need to place probe points or cut
// endpoints directly, such as package poly's sub-region activation.
func (t *Triangle) InsertInterior(u, v float64, x *Intersection) (int, status.Code) {
	return t.insertPointIdx(u, v, IntersectionSubnode, -1, x)
}

// InsertChord ensures an edge exists between subnodes a and b, flipping
// diagonals as needed (spec §4.F). Exported alongside InsertInterior.
func (t *Triangle) InsertChord(a, b int) status.Code {
	return t.insertChordEdge(a, b)
}

// SubnodeIndex returns the subnode index already holding intersection x on
// this triangle, or -1 if x has not been inserted yet. Exported for
// package poly's cut-activation logic, which needs the raw subnode
// indices bounding a chord rather than a subtri lookup.
func (t *Triangle) SubnodeIndex(x *Intersection) int {
	return t.indexOfIntersection(x)
}

// insertPointIdx inserts a point at reference-simplex coordinates (u,v)
// into the triangulation, splitting whichever subtri currently contains
// it (spec §4.F), and returns its subnode index. If a subnode already
// exists at (u,v) within tolerance, its index is returned unchanged.
func (t *Triangle) insertPointIdx(u, v float64, kind SubnodeKind, corner int, x *Intersection) (int, status.Code) {
	for i, sn := range t.Subnodes {
		if approxEq(sn.U, u) && approxEq(sn.V, v) {
			return i, status.SUCCESS
		}
	}

	newIdx := len(t.Subnodes)
	t.Subnodes = append(t.Subnodes, Subnode{Kind: kind, Corner: corner, Intersection: x, U: u, V: v})

	for i, st := range t.Subtris {
		p0, p1, p2 := t.Subnodes[st.V[0]], t.Subnodes[st.V[1]], t.Subnodes[st.V[2]]
		l0, l1, l2, inside := barycentric(u, v, p0.U, p0.V, p1.U, p1.V, p2.U, p2.V)
		if !inside {
			continue
		}

		switch onEdgeOf(l0, l1, l2) {
		case -1:
			// strictly interior: 3-way fan split.
			t.Subtris[i] = Subtri{V: [3]int{newIdx, st.V[1], st.V[2]}, Weight: st.Weight * l0}
			t.Subtris = append(t.Subtris,
				Subtri{V: [3]int{st.V[0], newIdx, st.V[2]}, Weight: st.Weight * l1},
				Subtri{V: [3]int{st.V[0], st.V[1], newIdx}, Weight: st.Weight * l2},
			)
			return newIdx, status.SUCCESS
		case 0:
			return t.splitEdge(newIdx, st.V[1], st.V[2], l1, l2), status.SUCCESS
		case 1:
			return t.splitEdge(newIdx, st.V[2], st.V[0], l2, l0), status.SUCCESS
		case 2:
			return t.splitEdge(newIdx, st.V[0], st.V[1], l0, l1), status.SUCCESS
		}
	}

	// point not contained by any existing subtri: numerical edge case,
	// internal sizing bug per spec's failure taxonomy.
	t.Subnodes = t.Subnodes[:len(t.Subnodes)-1]
	return 0, status.Errf(status.ARRAY_BOUND, "point (%g,%g) not contained by any subtri of triangle %d", u, v, t.Index).Code
}

// splitEdge replaces every subtri that has (va,vb) as an edge with two new
// subtris meeting at newIdx, preserving the reference-area invariant.
// There are at most two such subtris on a conforming triangulation (the
// pair sharing that edge); a boundary edge of the whole triangle has one.
func (t *Triangle) splitEdge(newIdx, va, vb int, lWeightA, lWeightB float64) int {
	var kept []Subtri
	for _, st := range t.Subtris {
		opp, hasEdge := oppositeVertex(st, va, vb)
		if !hasEdge {
			kept = append(kept, st)
			continue
		}
		kept = append(kept,
			Subtri{V: [3]int{opp, va, newIdx}, Weight: st.Weight * lWeightB},
			Subtri{V: [3]int{opp, newIdx, vb}, Weight: st.Weight * lWeightA},
		)
	}
	t.Subtris = kept
	return newIdx
}

// oppositeVertex reports the third vertex of st when st has edge (va,vb)
// (in either order) among its three vertices.
func oppositeVertex(st Subtri, va, vb int) (int, bool) {
	has := func(x int) bool { return st.V[0] == x || st.V[1] == x || st.V[2] == x }
	if !has(va) || !has(vb) {
		return 0, false
	}
	for _, v := range st.V {
		if v != va && v != vb {
			return v, true
		}
	}
	return 0, false
}

// insertChordEdge ensures an edge exists between subnodes a and b by
// flipping diagonals, per spec §4.F.
func (t *Triangle) insertChordEdge(a, b int) status.Code {
	if t.hasEdge(a, b) {
		return status.SUCCESS
	}
	const maxFlips = 500
	for i := 0; i < maxFlips; i++ {
		if t.hasEdge(a, b) {
			return status.SUCCESS
		}
		flipped := t.flipOneCrossing(a, b)
		if !flipped {
			return status.Errf(status.INCONSISTENT, "cannot establish chord (%d,%d) on triangle %d", a, b, t.Index).Code
		}
	}
	return status.Errf(status.INCONSISTENT, "chord insertion exceeded flip budget on triangle %d", t.Index).Code
}

func (t *Triangle) hasEdge(a, b int) bool {
	for _, st := range t.Subtris {
		has := func(x int) bool { return st.V[0] == x || st.V[1] == x || st.V[2] == x }
		if has(a) && has(b) {
			return true
		}
	}
	return false
}

// flipOneCrossing finds an interior subtri edge that properly crosses
// segment (a,b) in the reference plane and flips its diagonal. Edges are
// scanned in subtri index order, then local edge order, and the first
// crossing edge with a neighbouring subtri is flipped, so the result is
// deterministic.
func (t *Triangle) flipOneCrossing(a, b int) bool {
	pa, pb := t.Subnodes[a], t.Subnodes[b]

	type edgeKey struct{ lo, hi int }
	seen := map[edgeKey]bool{}

	for i := 0; i < len(t.Subtris); i++ {
		st := t.Subtris[i]
		for k := 0; k < 3; k++ {
			p := st.V[k]
			q := st.V[(k+1)%3]
			key := edgeKey{min2(p, q), max2(p, q)}
			if seen[key] {
				continue
			}
			seen[key] = true
			if p == a || p == b || q == a || q == b {
				continue
			}
			if !segmentsCross(t.Subnodes[p], t.Subnodes[q], pa, pb) {
				continue
			}
			j, r, s := t.findOpposingSubtri(p, q, i)
			if j < 0 {
				continue
			}
			t.applyFlip(i, j, p, q, r, s)
			return true
		}
	}
	return false
}

// findOpposingSubtri returns the index of the other subtri sharing edge
// (p,q) besides skip, plus the two opposite vertices (r from the subtri
// at skip, s from the found one).
func (t *Triangle) findOpposingSubtri(p, q, skip int) (int, int, int) {
	r, _ := oppositeVertex(t.Subtris[skip], p, q)
	for j, st := range t.Subtris {
		if j == skip {
			continue
		}
		if s, ok := oppositeVertex(st, p, q); ok {
			return j, r, s
		}
	}
	return -1, r, 0
}

// applyFlip replaces the two subtris at indices i and j (sharing edge
// p-q, with opposite vertices r and s respectively) with the diagonal
// flipped to r-s, splitting their combined area along the new diagonal.
func (t *Triangle) applyFlip(i, j, p, q, r, s int) {
	total := t.Subtris[i].Weight + t.Subtris[j].Weight
	areaPQR := triArea(t.Subnodes[p], t.Subnodes[q], t.Subnodes[r])
	areaPQS := triArea(t.Subnodes[p], t.Subnodes[q], t.Subnodes[s])
	sum := areaPQR + areaPQS
	var wRSP, wRSQ float64
	if sum > 0 {
		wRSP = total * (triArea(t.Subnodes[r], t.Subnodes[s], t.Subnodes[p]) / sum)
		wRSQ = total - wRSP
	} else {
		wRSP = total / 2
		wRSQ = total / 2
	}
	t.Subtris[i] = Subtri{V: [3]int{r, s, p}, Weight: wRSP}
	t.Subtris[j] = Subtri{V: [3]int{s, r, q}, Weight: wRSQ}
}

func triArea(a, b, c Subnode) float64 {
	area := (b.U-a.U)*(c.V-a.V) - (c.U-a.U)*(b.V-a.V)
	if area < 0 {
		area = -area
	}
	return 0.5 * area
}

// segmentsCross reports whether open segments (p0,p1) and (q0,q1) cross
// properly in the reference plane (no shared endpoints, which the caller
// has already excluded).
func segmentsCross(p0, p1, q0, q1 Subnode) bool {
	d1 := cross2(q1.U-q0.U, q1.V-q0.V, p0.U-q0.U, p0.V-q0.V)
	d2 := cross2(q1.U-q0.U, q1.V-q0.V, p1.U-q0.U, p1.V-q0.V)
	d3 := cross2(p1.U-p0.U, p1.V-p0.V, q0.U-p0.U, q0.V-p0.V)
	d4 := cross2(p1.U-p0.U, p1.V-p0.V, q1.U-p0.U, q1.V-p0.V)
	return sign(d1) != sign(d2) && sign(d3) != sign(d4)
}

func cross2(ax, ay, bx, by float64) float64 { return ax*by - ay*bx }

func sign(v float64) int {
	if v > uvEps {
		return 1
	}
	if v < -uvEps {
		return -1
	}
	return 0
}

func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func approxEq(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < uvEps
}

// barycentric computes the barycentric coordinates of (u,v) with respect
// to the 2-D triangle (u0,v0),(u1,v1),(u2,v2), returning inside=false if
// the point lies strictly outside (beyond tolerance).
func barycentric(u, v, u0, v0, u1, v1, u2, v2 float64) (l0, l1, l2 float64, inside bool) {
	det := (v1-v2)*(u0-u2) + (u2-u1)*(v0-v2)
	if det == 0 {
		return 0, 0, 0, false
	}
	l0 = ((v1-v2)*(u-u2) + (u2-u1)*(v-v2)) / det
	l1 = ((v2-v0)*(u-u2) + (u0-u2)*(v-v2)) / det
	l2 = 1 - l0 - l1
	const tol = 1e-7
	if l0 < -tol || l1 < -tol || l2 < -tol {
		return l0, l1, l2, false
	}
	return l0, l1, l2, true
}

// onEdgeOf reports which barycentric coordinate (if any) is ~0, meaning
// the point lies on the edge opposite that vertex; -1 means strictly
// interior.
func onEdgeOf(l0, l1, l2 float64) int {
	const tol = 1e-7
	switch {
	case l0 < tol:
		return 0
	case l1 < tol:
		return 1
	case l2 < tol:
		return 2
	default:
		return -1
	}
}
