package knife

import (
	"testing"

	"github.com/afcarl/knife/poly"
	"github.com/afcarl/knife/status"
)

// tetPrimal is a single unit tetrahedron: nodes 0..3 at the origin and the
// three unit axis points, one cell, its four triangular faces all on the
// boundary, and the six edges between its corners. It exercises exactly
// the Primal accessors Domain.buildDual/ensureTriFaceTags actually call.
type tetPrimal struct {
	pos   [4][3]float64
	tris  [4][3]int
	edges [][2]int
}

func newTetPrimal() *tetPrimal {
	return &tetPrimal{
		pos: [4][3]float64{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
		tris: [4][3]int{
			{1, 2, 3},
			{0, 2, 3},
			{0, 1, 3},
			{0, 1, 2},
		},
		edges: [][2]int{
			{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
		},
	}
}

func (t *tetPrimal) NCell() int  { return 1 }
func (t *tetPrimal) NTri() int   { return 4 }
func (t *tetPrimal) NEdge() int  { return len(t.edges) }
func (t *tetPrimal) NFace() int  { return 4 }
func (t *tetPrimal) NNode() int  { return 4 }
func (t *tetPrimal) NNode0() int { return 4 }

func (t *tetPrimal) Cell(i int) [4]int { return [4]int{0, 1, 2, 3} }
func (t *tetPrimal) Tri(i int) [3]int  { return t.tris[i] }
func (t *tetPrimal) Edge(i int) [2]int { return t.edges[i] }
func (t *tetPrimal) Face(i int) ([3]int, int) { return t.tris[i], i + 1 }

func (t *tetPrimal) XYZ(n int) (float64, float64, float64) {
	p := t.pos[n]
	return p[0], p[1], p[2]
}

func (t *tetPrimal) C2T(cell, side int) (int, status.Code) {
	if cell != 0 || side < 0 || side > 3 {
		return 0, status.NOT_FOUND
	}
	return side, status.SUCCESS
}

func (t *tetPrimal) C2E(cell, slot int) (int, status.Code) {
	return 0, status.NOT_FOUND
}

func sameSet3(a, b [3]int) bool {
	for _, x := range a {
		found := false
		for _, y := range b {
			if x == y {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (t *tetPrimal) FindEdge(n0, n1 int) (int, status.Code) {
	for i, e := range t.edges {
		if (e[0] == n0 && e[1] == n1) || (e[0] == n1 && e[1] == n0) {
			return i, status.SUCCESS
		}
	}
	return 0, status.NOT_FOUND
}

func (t *tetPrimal) FindTri(n0, n1, n2 int) (int, status.Code) {
	want := [3]int{n0, n1, n2}
	for i, tr := range t.tris {
		if sameSet3(want, tr) {
			return i, status.SUCCESS
		}
	}
	return 0, status.NOT_FOUND
}

func (t *tetPrimal) FindFaceSide(face, cell int) (int, status.Code) { return 0, status.NOT_FOUND }
func (t *tetPrimal) FindTriSide(tri, cell int) (int, status.Code)   { return tri, status.SUCCESS }
func (t *tetPrimal) FindCellSide(cell, neighbour int) (int, status.Code) {
	return 0, status.NOT_FOUND
}

func (t *tetPrimal) CellsAtNode(node int) []int { return []int{0} }
func (t *tetPrimal) FacesAtNode(node int) []int { return nil }

// missSurface is a single triangle placed far away from the unit
// tetrahedron, so it never registers a cut (spec §8's "missed surface"
// scenario: emission is the uncut dual).
type missSurface struct{}

func (missSurface) NTriangle() int { return 1 }
func (missSurface) NSegment() int  { return 3 }
func (missSurface) NNode() int     { return 3 }

func (missSurface) Triangle(i int) [3]int { return [3]int{0, 1, 2} }
func (missSurface) Segment(i int) [2]int  { return [2]int{0, 1} }

func (missSurface) Node(i int) (float64, float64, float64) {
	pts := [3][3]float64{
		{100, 100, 100},
		{101, 100, 100},
		{100, 101, 100},
	}
	p := pts[i]
	return p[0], p[1], p[2]
}

func (missSurface) NodeIndex(node int) (int, status.Code)    { return node, status.SUCCESS }
func (missSurface) TriangleIndex(tri int) (int, status.Code) { return tri, status.SUCCESS }
func (missSurface) Inward(tri int) bool                      { return true }

func TestRunWithMissedSurfaceLeavesEveryPolyInteriorWithOneRegion(t *testing.T) {
	d := &Domain{Primal: newTetPrimal(), Surface: missSurface{}}
	if code := d.Run(); code.Fatal() {
		t.Fatalf("Run failed: %s", code)
	}
	for _, p := range d.polys {
		if p.Topology != poly.INTERIOR {
			t.Fatalf("poly %d: got topology %s, want INTERIOR", p.Index, p.Topology)
		}
		if n := p.RegionCount(); n != 1 {
			t.Fatalf("poly %d: got %d regions, want 1", p.Index, n)
		}
	}

	emitted, code := d.Emit()
	if code.Fatal() {
		t.Fatalf("Emit failed: %s", code)
	}
	if len(emitted) != 4 {
		t.Fatalf("got %d emitted polys, want 4", len(emitted))
	}
	for _, pe := range emitted {
		if len(pe.Regions) != 1 {
			t.Fatalf("poly %d: got %d emitted regions, want 1", pe.Index, len(pe.Regions))
		}
		if pe.Regions[0].Volume <= 0 {
			t.Fatalf("poly %d: region volume %g, want > 0", pe.Index, pe.Regions[0].Volume)
		}
	}
}

func TestRunRejectsNilCollaborators(t *testing.T) {
	d := &Domain{}
	code := d.Run()
	if !code.Fatal() {
		t.Fatalf("got %s, want a fatal code for nil Primal/Surface", code)
	}
}

// wallCutSurface is a single small triangle positioned to pierce the
// dual wall shared between node 0 and node 1's median-dual cells (the
// triangle built from primal tri {0,1,2} and edge (0,1): corners at the
// tet's one cell centroid (0.25,0.25,0.25), that tri's centroid
// (1/3,1/3,0), and that edge's midpoint (0.5,0,0)). Its two crossing
// segments were placed at two points strictly interior to that wall (not
// on its edges, so no barycentric coordinate is exactly zero) and its
// third vertex keeps the triangle small and local to the cell centroid,
// so this exercises spec §8 scenario 1: a real, non-degenerate cut.
type wallCutSurface struct{}

func (wallCutSurface) NTriangle() int { return 1 }
func (wallCutSurface) NSegment() int  { return 3 }
func (wallCutSurface) NNode() int     { return 3 }

func (wallCutSurface) Triangle(i int) [3]int { return [3]int{0, 1, 2} }
func (wallCutSurface) Segment(i int) [2]int  { return [2]int{0, 1} }

func (wallCutSurface) Node(i int) (float64, float64, float64) {
	pts := [3][3]float64{
		{0.15, 0.2, 0.2},
		{0.3075, 0.2525, 0.1475},
		{0.3425, 0.1825, 0.1475},
	}
	p := pts[i]
	return p[0], p[1], p[2]
}

func (wallCutSurface) NodeIndex(node int) (int, status.Code)     { return node, status.SUCCESS }
func (wallCutSurface) TriangleIndex(tri int) (int, status.Code) { return tri, status.SUCCESS }
func (wallCutSurface) Inward(tri int) bool                      { return true }

func TestRunWithPiercingSurfaceProducesACutWithPositiveVolume(t *testing.T) {
	d := &Domain{Primal: newTetPrimal(), Surface: wallCutSurface{}}
	if code := d.Run(); code.Fatal() {
		t.Fatalf("Run failed: %s", code)
	}

	var sawCut bool
	for _, p := range d.polys {
		if p.Topology != poly.CUT {
			continue
		}
		sawCut = true
		if n := p.RegionCount(); n < 1 {
			t.Fatalf("poly %d: got %d regions, want at least 1", p.Index, n)
		}
	}
	if !sawCut {
		t.Fatalf("expected at least one poly to be classified CUT")
	}

	emitted, code := d.Emit()
	if code.Fatal() {
		t.Fatalf("Emit failed: %s", code)
	}
	const tetVolume = 1.0 / 6.0
	for _, pe := range emitted {
		for _, re := range pe.Regions {
			if re.Volume <= 0 || re.Volume > tetVolume {
				t.Fatalf("poly %d region %d: volume %g out of (0, %g]", pe.Index, re.Region, re.Volume, tetVolume)
			}
		}
	}
}
