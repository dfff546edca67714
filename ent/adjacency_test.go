package ent

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestAdjacencyDedupIgnoresOrder(tst *testing.T) {
	chk.PrintTitle("AdjacencyDedupIgnoresOrder")

	adj := NewAdjacency()
	n0 := NewNode(0, 0, 0, 0)
	n1 := NewNode(1, 1, 0, 0)

	s1, created1 := adj.Segment(n0, n1)
	if !created1 {
		tst.Fatalf("expected first lookup to create a segment")
	}
	s2, created2 := adj.Segment(n1, n0)
	if created2 {
		tst.Fatalf("expected second lookup (reversed) to reuse the segment")
	}
	if s1 != s2 {
		tst.Fatalf("expected the same segment pointer regardless of endpoint order")
	}
	if adj.Len() != 1 {
		tst.Fatalf("expected 1 registered segment, got %d", adj.Len())
	}
}
