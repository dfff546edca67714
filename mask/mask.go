// Package mask wraps a triangle with orientation and a per-sub-triangle
// activity+region label (spec component G), grounded on the original
// knife mask.h's inward_pointing_normal/active array shape.
package mask

import (
	"github.com/afcarl/knife/ent"
	"github.com/afcarl/knife/geo"
	"github.com/afcarl/knife/status"
)

// Mask wraps one triangle's subtri list with per-subtri (active, region).
// Region 0 means inactive. Masks are owned by exactly one Poly at a time.
type Mask struct {
	Triangle *ent.Triangle
	Inward   bool
	region   []int
}

// New creates a mask over tri with every subtri initially inactive.
func New(tri *ent.Triangle, inward bool) *Mask {
	return &Mask{Triangle: tri, Inward: inward, region: make([]int, len(tri.Subtris))}
}

// resize grows the region slice to match the triangle's current subtri
// count (the triangulator may still be appending subtris when a Mask is
// first created during the cut pass).
func (m *Mask) resize() {
	if n := len(m.Triangle.Subtris); n > len(m.region) {
		grown := make([]int, n)
		copy(grown, m.region)
		m.region = grown
	}
}

// NSubtri returns the current number of sub-triangles.
func (m *Mask) NSubtri() int {
	m.resize()
	return len(m.region)
}

// Active reports whether sub-triangle i is active.
func (m *Mask) Active(i int) bool {
	m.resize()
	return m.region[i] != 0
}

// Region returns the region label of sub-triangle i (0 if inactive).
func (m *Mask) Region(i int) int {
	m.resize()
	return m.region[i]
}

// SetRegion sets the region label of sub-triangle i.
func (m *Mask) SetRegion(i, region int) {
	m.resize()
	m.region[i] = region
}

// DeactivateAll clears every sub-triangle's region to 0.
func (m *Mask) DeactivateAll() {
	m.resize()
	for i := range m.region {
		m.region[i] = 0
	}
}

// ActivateAll marks every sub-triangle active under the given region.
func (m *Mask) ActivateAll(region int) {
	m.resize()
	for i := range m.region {
		m.region[i] = region
	}
}

// SubtriByIntersections locates the sub-triangle whose edge is the chord
// (i0,i1) — ported from knife mask.h's mask_find_subtri_with — returning
// its index and whether it was found. Both subnodes bounding the chord
// must already have been inserted by the triangulator.
func (m *Mask) SubtriByIntersections(i0, i1 *ent.Intersection) (int, bool) {
	t := m.Triangle
	a := indexOfIntersection(t, i0)
	b := indexOfIntersection(t, i1)
	if a < 0 || b < 0 {
		return 0, false
	}
	for i, st := range t.Subtris {
		has := func(x int) bool { return st.V[0] == x || st.V[1] == x || st.V[2] == x }
		if has(a) && has(b) {
			return i, true
		}
	}
	return 0, false
}

func indexOfIntersection(t *ent.Triangle, x *ent.Intersection) int {
	for i, sn := range t.Subnodes {
		if sn.Kind == ent.IntersectionSubnode && sn.Intersection == x {
			return i
		}
	}
	return -1
}

// ActivateSubtri activates a single sub-triangle index under region.
func (m *Mask) ActivateSubtri(subtri, region int) status.Code {
	m.resize()
	if subtri < 0 || subtri >= len(m.region) {
		return status.Errf(status.ARRAY_BOUND, "subtri %d out of range [0,%d)", subtri, len(m.region)).Code
	}
	m.region[subtri] = region
	return status.SUCCESS
}

// adjacent reports whether sub-triangles i and j of the mask's triangle
// share a sub-edge that is NOT a cut chord — the adjacency relation paint
// flood-fills across (spec §4.G).
func (m *Mask) adjacent(i, j int, chordEdges map[[2]int]bool) bool {
	ti, tj := m.Triangle.Subtris[i], m.Triangle.Subtris[j]
	shared := sharedEdge(ti, tj)
	if shared == nil {
		return false
	}
	key := edgeKey(shared[0], shared[1])
	return !chordEdges[key]
}

func sharedEdge(a, b ent.Subtri) *[2]int {
	var common []int
	bHas := func(x int) bool { return b.V[0] == x || b.V[1] == x || b.V[2] == x }
	for _, v := range a.V {
		if bHas(v) {
			common = append(common, v)
		}
	}
	if len(common) != 2 {
		return nil
	}
	return &[2]int{common[0], common[1]}
}

func edgeKey(a, b int) [2]int {
	if a <= b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}

// chordEdgeSet builds the set of subnode-pair edges that are cut chords
// for this mask's triangle: an edge between the two subnodes bounding
// each registered cut.
func (m *Mask) chordEdgeSet() map[[2]int]bool {
	set := make(map[[2]int]bool)
	t := m.Triangle
	for _, c := range t.Cuts {
		a := indexOfIntersection(t, c.I0)
		b := indexOfIntersection(t, c.I1)
		if a >= 0 && b >= 0 {
			set[edgeKey(a, b)] = true
		}
	}
	return set
}

// Paint flood-fills region labels over the triangle's subtri-adjacency
// graph (two subtris adjacent iff they share a sub-edge that is not a cut
// chord), propagating the first non-zero region label found to every
// reachable active subtri (spec §4.G). Sub-triangles that start with
// region 0 and have no active neighbour stay inactive.
func (m *Mask) Paint() {
	m.resize()
	n := len(m.region)
	chords := m.chordEdgeSet()

	changed := true
	for changed {
		changed = false
		for i := 0; i < n; i++ {
			if m.region[i] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				if i == j || m.region[j] != 0 {
					continue
				}
				if m.adjacent(i, j, chords) {
					m.region[j] = m.region[i]
					changed = true
				}
			}
		}
	}
}

// VerifyPaint checks spec §4.G's paint-consistency invariant: every
// active subtri has a region, and every pair of adjacent active subtris
// (not separated by a chord) shares a region.
func (m *Mask) VerifyPaint() status.Code {
	m.resize()
	n := len(m.region)
	chords := m.chordEdgeSet()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !m.adjacent(i, j, chords) {
				continue
			}
			if m.region[i] == 0 || m.region[j] == 0 {
				continue
			}
			if m.region[i] != m.region[j] {
				return status.Errf(status.INCONSISTENT,
					"subtris %d and %d of triangle %d share an uncut edge but carry regions %d and %d",
					i, j, m.Triangle.Index, m.region[i], m.region[j]).Code
			}
		}
	}
	return status.SUCCESS
}

// CollapseRegions replaces every occurrence of region b with a.
func (m *Mask) CollapseRegions(a, b int) {
	m.resize()
	if a == b {
		return
	}
	for i := range m.region {
		if m.region[i] == b {
			m.region[i] = a
		}
	}
}

// ChordSubnodes returns the two subnode indices bounding the chord
// (i0,i1) on this mask's triangle, if both have been inserted.
func (m *Mask) ChordSubnodes(i0, i1 *ent.Intersection) (int, int, bool) {
	a := m.Triangle.SubnodeIndex(i0)
	b := m.Triangle.SubnodeIndex(i1)
	if a < 0 || b < 0 {
		return 0, 0, false
	}
	return a, b, true
}

// ComponentAcrossChord returns the indices of every sub-triangle reachable
// from seed without crossing the specific edge (chordA,chordB) — i.e. one
// of the two sub-regions the chord (i0,i1) splits the triangle into (spec
// §4.H "T is split by (i0,i1) into two sub-regions"). Unlike Paint, this
// blocks only the one named chord edge, not every registered cut, so that
// a triangle carrying more than one cut still yields the correct
// sub-region for the cut under consideration.
func (m *Mask) ComponentAcrossChord(seed, chordA, chordB int) []int {
	m.resize()
	n := len(m.region)
	blocked := edgeKey(chordA, chordB)
	visited := make([]bool, n)
	visited[seed] = true
	queue := []int{seed}
	out := []int{seed}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			shared := sharedEdge(m.Triangle.Subtris[cur], m.Triangle.Subtris[j])
			if shared == nil {
				continue
			}
			if edgeKey(shared[0], shared[1]) == blocked {
				continue
			}
			visited[j] = true
			queue = append(queue, j)
			out = append(out, j)
		}
	}
	return out
}

// ComponentArea returns the sum of the reference-area weights of the given
// sub-triangle indices.
func (m *Mask) ComponentArea(subtris []int) float64 {
	var sum float64
	for _, i := range subtris {
		sum += m.Triangle.Subtris[i].Weight
	}
	return sum
}

// ComponentPoints3D returns the 3-D corner points of every sub-triangle in
// the given index list.
func (m *Mask) ComponentPoints3D(subtris []int) [][3]geo.Point3 {
	out := make([][3]geo.Point3, len(subtris))
	for k, i := range subtris {
		out[k] = m.Triangle.SubtriPoints(i)
	}
	return out
}

// ActivateComponent sets region on every sub-triangle index in subtris.
func (m *Mask) ActivateComponent(subtris []int, region int) {
	m.resize()
	for _, i := range subtris {
		m.region[i] = region
	}
}

// SubtrisOnEdge returns the indices of every sub-triangle having both a
// and b among its three vertices (at most two for an interior edge, one
// for an edge lying on the triangle's own boundary).
func (m *Mask) SubtrisOnEdge(a, b int) []int {
	var out []int
	for i, st := range m.Triangle.Subtris {
		has := func(x int) bool { return st.V[0] == x || st.V[1] == x || st.V[2] == x }
		if has(a) && has(b) {
			out = append(out, i)
		}
	}
	return out
}

// FirstActiveRegion returns the first non-zero region label found, in
// subtri index order, and whether any was found.
func (m *Mask) FirstActiveRegion() (int, bool) {
	m.resize()
	for _, r := range m.region {
		if r != 0 {
			return r, true
		}
	}
	return 0, false
}

// Regions returns the set of distinct non-zero region labels present.
func (m *Mask) Regions() map[int]bool {
	m.resize()
	out := make(map[int]bool)
	for _, r := range m.region {
		if r != 0 {
			out[r] = true
		}
	}
	return out
}
