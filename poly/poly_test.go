package poly

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/afcarl/knife/ent"
	"github.com/afcarl/knife/mask"
)

func twoNeighbourTriangles() (*ent.Triangle, *ent.Triangle) {
	n0 := ent.NewNode(0, 0, 0, 0)
	n1 := ent.NewNode(1, 1, 0, 0)
	n2 := ent.NewNode(2, 0, 1, 0)
	n3 := ent.NewNode(3, 1, 1, 0)

	sA0 := ent.NewSegment(0, n0, n1)
	sA1 := ent.NewSegment(1, n1, n2)
	sA2 := ent.NewSegment(2, n2, n0)
	triA := ent.NewTriangle(0, [3]*ent.Segment{sA0, sA1, sA2}, [3]*ent.Node{n0, n1, n2}, ent.EmptyFaceTag)

	sB0 := ent.NewSegment(3, n1, n3)
	sB1 := ent.NewSegment(4, n3, n2)
	triB := ent.NewTriangle(1, [3]*ent.Segment{sB0, sB1, sA1}, [3]*ent.Node{n1, n3, n2}, ent.EmptyFaceTag)

	return triA, triB
}

func TestActivateUncutMasksPropagatesAcrossSharedSegment(tst *testing.T) {
	chk.PrintTitle("ActivateUncutMasksPropagatesAcrossSharedSegment")

	triA, triB := twoNeighbourTriangles()
	mA := mask.New(triA, false)
	mB := mask.New(triB, false)

	p := New(0)
	p.AddBoundary(mA)
	p.AddBoundary(mB)

	mA.ActivateAll(7)

	if !p.ActivateUncutMasks() {
		tst.Fatalf("expected ActivateUncutMasks to report a change")
	}
	region, ok := mB.FirstActiveRegion()
	if !ok || region != 7 {
		tst.Fatalf("expected neighbour mask to inherit region 7, got %d (found=%v)", region, ok)
	}
}

func TestActivateUncutMasksConvergesWithoutActiveSeed(tst *testing.T) {
	chk.PrintTitle("ActivateUncutMasksConvergesWithoutActiveSeed")

	triA, triB := twoNeighbourTriangles()
	mA := mask.New(triA, false)
	mB := mask.New(triB, false)

	p := New(0)
	p.AddBoundary(mA)
	p.AddBoundary(mB)

	if p.ActivateUncutMasks() {
		tst.Fatalf("expected no change when no mask starts active")
	}
	if _, ok := mA.FirstActiveRegion(); ok {
		tst.Fatalf("expected mA to remain inactive")
	}
	if _, ok := mB.FirstActiveRegion(); ok {
		tst.Fatalf("expected mB to remain inactive")
	}
}

func TestCompactLabelsRenumbersInFirstOccurrenceOrder(tst *testing.T) {
	chk.PrintTitle("CompactLabelsRenumbersInFirstOccurrenceOrder")

	triA, triB := twoNeighbourTriangles()
	mA := mask.New(triA, false)
	mB := mask.New(triB, false)

	p := New(0)
	p.AddBoundary(mA)
	p.AddBoundary(mB)

	mA.SetRegion(0, 9)
	mB.SetRegion(0, 4)

	p.CompactLabels()

	if r := mA.Region(0); r != 1 {
		tst.Fatalf("expected mA's region to become 1 (first occurrence), got %d", r)
	}
	if r := mB.Region(0); r != 2 {
		tst.Fatalf("expected mB's region to become 2, got %d", r)
	}
	if p.RegionCount() != 2 {
		tst.Fatalf("expected region count 2, got %d", p.RegionCount())
	}
}

func TestCollapseRegionsUnitesAcrossSharedUncutSegment(tst *testing.T) {
	chk.PrintTitle("CollapseRegionsUnitesAcrossSharedUncutSegment")

	triA, triB := twoNeighbourTriangles()
	mA := mask.New(triA, false)
	mB := mask.New(triB, false)

	p := New(0)
	p.AddBoundary(mA)
	p.AddBoundary(mB)

	mA.ActivateAll(1)
	mB.ActivateAll(2)

	if code := p.CollapseRegions(); code.Fatal() {
		tst.Fatalf("CollapseRegions: %s", code)
	}
	ra, _ := mA.FirstActiveRegion()
	rb, _ := mB.FirstActiveRegion()
	if ra != rb {
		tst.Fatalf("expected both masks to share one region after collapse, got %d and %d", ra, rb)
	}
}

func TestDirectedAreaZeroWithNoActiveSubtri(tst *testing.T) {
	chk.PrintTitle("DirectedAreaZeroWithNoActiveSubtri")

	triA, _ := twoNeighbourTriangles()
	mA := mask.New(triA, false)
	p := New(0)
	p.AddBoundary(mA)

	area := p.DirectedArea(triA.Corners[0])
	if area.X != 0 || area.Y != 0 || area.Z != 0 {
		tst.Fatalf("expected zero directed area with nothing active, got %+v", area)
	}
}
