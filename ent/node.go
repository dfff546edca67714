// Package ent holds the geometric atoms of the pipeline: Node, Segment,
// Triangle, Intersection and Cut (spec components D and E), plus the
// per-triangle triangulator (component F). Identity (pointer equality) is
// the only equality the algorithms use; two nodes at the same physical
// position coming from different primal entities remain distinct, per
// spec §4.D.
package ent

import (
	"github.com/cpmech/gosl/gm"

	"github.com/afcarl/knife/geo"
)

// Node is a 3-D point, immutable after creation. It is owned by whichever
// surface or domain created it; ent never frees or mutates a Node.
type Node struct {
	Index int
	Pos   gm.Point
}

// NewNode creates a node at (x,y,z) tagged with index.
func NewNode(index int, x, y, z float64) *Node {
	return &Node{Index: index, Pos: gm.Point{X: x, Y: y, Z: z}}
}

// P3 converts the node's position to a geo.Point3.
func (n *Node) P3() geo.Point3 {
	return geo.Point3{X: n.Pos.X, Y: n.Pos.Y, Z: n.Pos.Z}
}
