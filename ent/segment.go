package ent

// Segment is an ordered pair of nodes. It owns the ordered list of
// Intersections recorded against it (insertion order preserved, one per
// crossing triangle) and weakly references the triangles that use it —
// Segment does not own those triangles, it only remembers them so package
// poly can find which other triangle shares an edge (spec §4.D).
type Segment struct {
	Index         int
	Node0, Node1  *Node
	Intersections []*Intersection
	triangles     []*Triangle
}

// NewSegment creates a segment between node0 and node1.
func NewSegment(index int, node0, node1 *Node) *Segment {
	return &Segment{Index: index, Node0: node0, Node1: node1}
}

// AddIntersection appends x to the segment's intersection list unless an
// intersection against the same triangle is already present (spec §4.E
// step 2: at most one Intersection per (segment, triangle) pair).
func (s *Segment) AddIntersection(x *Intersection) bool {
	for _, have := range s.Intersections {
		if have.Triangle == x.Triangle {
			return false
		}
	}
	s.Intersections = append(s.Intersections, x)
	return true
}

// registerTriangle records that tri borders this segment. Invariant: a
// segment appears in exactly two triangles on a closed 2-manifold, or in
// exactly one if it is a boundary segment.
func (s *Segment) registerTriangle(tri *Triangle) {
	for _, t := range s.triangles {
		if t == tri {
			return
		}
	}
	s.triangles = append(s.triangles, tri)
}

// Triangles returns the triangles bordering this segment, in registration
// order.
func (s *Segment) Triangles() []*Triangle {
	return s.triangles
}

// Other returns the triangle bordering this segment other than tri, or nil
// if tri is the only one (boundary segment) or isn't one of them.
func (s *Segment) Other(tri *Triangle) *Triangle {
	var other *Triangle
	found := false
	for _, t := range s.triangles {
		if t == tri {
			found = true
		} else if other == nil {
			other = t
		}
	}
	if !found {
		return nil
	}
	return other
}
