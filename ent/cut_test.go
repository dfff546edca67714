package ent

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestCutAppearsOnBothTriangles(tst *testing.T) {
	chk.PrintTitle("CutAppearsOnBothTriangles")

	triA, _, _, _ := buildTriangle(0)
	triB, _, _, _ := buildTriangle(1)
	arena := NewArena()

	i0 := arena.New(triA, triA.Segs[0], 0.5, 0.5, 0.25, 0.25)
	i1 := arena.New(triB, triB.Segs[0], 0.5, 0.5, 0.25, 0.25)
	c := &Cut{I0: i0, I1: i1, Domain: triA, Surf: triB}
	triA.AddCut(c)
	triB.AddCut(c)

	if len(triA.Cuts) != 1 || triA.Cuts[0] != c {
		tst.Fatalf("cut not recorded on triangle A")
	}
	if len(triB.Cuts) != 1 || triB.Cuts[0] != c {
		tst.Fatalf("cut not recorded on triangle B")
	}
	if triA.Cuts[0].I0 != triB.Cuts[0].I0 || triA.Cuts[0].I1 != triB.Cuts[0].I1 {
		tst.Fatalf("cut endpoints differ by identity across triangles")
	}
}
