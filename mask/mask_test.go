package mask

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/afcarl/knife/ent"
)

func buildTriangle(index int) (*ent.Triangle, *ent.Node, *ent.Node, *ent.Node) {
	n0 := ent.NewNode(0, 0, 0, 0)
	n1 := ent.NewNode(1, 1, 0, 0)
	n2 := ent.NewNode(2, 0, 1, 0)
	s0 := ent.NewSegment(0, n0, n1)
	s1 := ent.NewSegment(1, n1, n2)
	s2 := ent.NewSegment(2, n2, n0)
	tri := ent.NewTriangle(index, [3]*ent.Segment{s0, s1, s2}, [3]*ent.Node{n0, n1, n2}, ent.EmptyFaceTag)
	return tri, n0, n1, n2
}

func TestActivateAllAndDeactivateAll(tst *testing.T) {
	chk.PrintTitle("ActivateAllAndDeactivateAll")

	tri, _, _, _ := buildTriangle(0)
	m := New(tri, false)
	if m.NSubtri() != 1 {
		tst.Fatalf("expected 1 subtri before any split, got %d", m.NSubtri())
	}
	m.ActivateAll(1)
	if !m.Active(0) || m.Region(0) != 1 {
		tst.Fatalf("expected subtri 0 active under region 1")
	}
	m.DeactivateAll()
	if m.Active(0) {
		tst.Fatalf("expected subtri 0 inactive after DeactivateAll")
	}
}

func TestPaintPropagatesAcrossUncutEdges(tst *testing.T) {
	chk.PrintTitle("PaintPropagatesAcrossUncutEdges")

	tri, _, _, _ := buildTriangle(0)
	arena := ent.NewArena()
	x := arena.New(tri, tri.Segs[0], 0, 0.3, 0.3, 0.4)
	_, code := tri.InsertInterior(x.V, x.W, x)
	if code.Fatal() {
		tst.Fatalf("insert interior point: %s", code)
	}
	if len(tri.Subtris) != 3 {
		tst.Fatalf("expected 3 subtris, got %d", len(tri.Subtris))
	}

	m := New(tri, false)
	m.SetRegion(0, 7)
	m.Paint()
	for i := 0; i < m.NSubtri(); i++ {
		if m.Region(i) != 7 {
			tst.Fatalf("expected subtri %d painted region 7, got %d", i, m.Region(i))
		}
	}
	if code := m.VerifyPaint(); code.Fatal() {
		tst.Fatalf("VerifyPaint: %s", code)
	}
}

func TestPaintDoesNotCrossChord(tst *testing.T) {
	chk.PrintTitle("PaintDoesNotCrossChord")

	tri, _, _, _ := buildTriangle(0)
	arena := ent.NewArena()
	xa := arena.New(tri, tri.Segs[0], 0, 0.6, 0.2, 0.2)
	xb := arena.New(tri, tri.Segs[0], 0, 0.2, 0.6, 0.2)
	a, code := tri.InsertInterior(xa.V, xa.W, xa)
	if code.Fatal() {
		tst.Fatalf("insert a: %s", code)
	}
	b, code := tri.InsertInterior(xb.V, xb.W, xb)
	if code.Fatal() {
		tst.Fatalf("insert b: %s", code)
	}
	if code := tri.InsertChord(a, b); code.Fatal() {
		tst.Fatalf("InsertChord: %s", code)
	}
	c := &ent.Cut{I0: xa, I1: xb}
	tri.AddCut(c)

	m := New(tri, false)
	// activate one subtri on one side of the chord only.
	side, ok := m.SubtriByIntersections(xa, xb)
	if !ok {
		tst.Fatalf("expected to find the subtri bounded by the chord")
	}
	m.SetRegion(side, 3)
	m.Paint()
	if code := m.VerifyPaint(); code.Fatal() {
		tst.Fatalf("VerifyPaint: %s", code)
	}
	// not every subtri should have been painted, since the chord blocks
	// propagation to whatever lies on the opposite side.
	allPainted := true
	for i := 0; i < m.NSubtri(); i++ {
		if !m.Active(i) {
			allPainted = false
		}
	}
	if allPainted {
		tst.Fatalf("expected the chord to block paint from reaching every subtri")
	}
}

func TestCollapseRegions(tst *testing.T) {
	chk.PrintTitle("CollapseRegions")

	tri, _, _, _ := buildTriangle(0)
	arena := ent.NewArena()
	x := arena.New(tri, tri.Segs[0], 0, 0.3, 0.3, 0.4)
	_, code := tri.InsertInterior(x.V, x.W, x)
	if code.Fatal() {
		tst.Fatalf("insert interior point: %s", code)
	}

	m := New(tri, false)
	m.SetRegion(0, 1)
	m.SetRegion(1, 2)
	m.SetRegion(2, 2)
	m.CollapseRegions(1, 2)
	for i := 0; i < m.NSubtri(); i++ {
		if m.Region(i) != 1 {
			tst.Fatalf("expected subtri %d collapsed to region 1, got %d", i, m.Region(i))
		}
	}
	regions := m.Regions()
	if len(regions) != 1 || !regions[1] {
		tst.Fatalf("expected exactly region {1} to remain, got %v", regions)
	}
}
