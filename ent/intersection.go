package ent

// Intersection pairs a triangle, the segment that crosses its plane, the
// parameter along that segment, and the barycentric coordinates of the
// crossing point within the triangle. It is created only when the
// intersection core reports a hit (spec §4.B/§4.E) and is shared-immutable
// thereafter between the owning Segment's list and the Triangle that
// references it.
type Intersection struct {
	arenaIndex int
	Triangle   *Triangle
	Segment    *Segment
	T          float64
	U, V, W    float64
}

// ArenaIndex returns the position this intersection occupies in its
// owning Domain's arena, used as a stable identity for determinism and to
// break the Segment/Triangle ownership cycle (spec §9): Intersections are
// allocated once in a per-Domain arena and referred to by index rather
// than shared pointers changing hands.
func (x *Intersection) ArenaIndex() int { return x.arenaIndex }

// Arena owns every Intersection created during the cut-establishment pass
// (spec §4.E). After that pass, Intersections are read-only (spec §5).
type Arena struct {
	items []*Intersection
}

// NewArena creates an empty intersection arena.
func NewArena() *Arena {
	return &Arena{}
}

// New allocates a new Intersection in the arena with a stable, monotonic
// index and returns it.
func (a *Arena) New(tri *Triangle, seg *Segment, t, u, v, w float64) *Intersection {
	x := &Intersection{
		arenaIndex: len(a.items),
		Triangle:   tri,
		Segment:    seg,
		T:          t,
		U:          u,
		V:          v,
		W:          w,
	}
	a.items = append(a.items, x)
	return x
}

// Len returns the number of intersections allocated so far.
func (a *Arena) Len() int { return len(a.items) }

// At returns the intersection at arena index i.
func (a *Arena) At(i int) *Intersection { return a.items[i] }
