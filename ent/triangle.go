package ent

import (
	"math"

	"github.com/afcarl/knife/geo"
)

// EmptyFaceTag marks a triangle with no boundary-face tag (an interior
// dual triangle), per spec §4.D.
const EmptyFaceTag = -1

// SubnodeKind distinguishes a triangle corner from an inserted
// intersection point.
type SubnodeKind int

const (
	// CornerSubnode is one of the triangle's own three corners.
	CornerSubnode SubnodeKind = iota
	// IntersectionSubnode is a point introduced by an Intersection.
	IntersectionSubnode
)

// Subnode is one vertex of a triangle's sub-triangulation: either a
// corner of the triangle, or a reference to an Intersection, located at
// planar coordinates (U,V) in the triangle's reference simplex (U,V are
// the second and third barycentric weights; the first is 1-U-V). Working
// in this 2-D reference-simplex plane, rather than 3-D space, keeps the
// triangulator scale-free (spec §9) and reduces every geometric predicate
// it needs to ordinary 2-D cross products.
type Subnode struct {
	Kind         SubnodeKind
	Corner       int // valid when Kind == CornerSubnode
	Intersection *Intersection
	U, V         float64
}

// Subtri is one sub-triangle: three subnode indices (into the owning
// Triangle's Subnodes slice) and a reference-area weight in [0,1]. The
// weights of every Subtri belonging to a Triangle sum to 1 (spec §3, §8).
type Subtri struct {
	V      [3]int
	Weight float64
}

// Triangle is three segments in order, with an optional boundary-face tag
// and, once triangulated, a sub-triangulation (spec §4.D, §4.F).
type Triangle struct {
	Index    int
	Segs     [3]*Segment
	Corners  [3]*Node
	FaceTag  int
	Cuts     []*Cut
	Subnodes []Subnode
	Subtris  []Subtri
}

// NewTriangle creates a triangle from its three ordered segments and
// corner nodes (corners[i] is the node shared by segs[i-1] and segs[i],
// i.e. the usual cyclic convention seen in gofem/shp's FaceLocalV tables),
// registers itself on each segment, and seeds the sub-triangulation with
// the single whole-triangle subtri.
func NewTriangle(index int, segs [3]*Segment, corners [3]*Node, faceTag int) *Triangle {
	t := &Triangle{
		Index:   index,
		Segs:    segs,
		Corners: corners,
		FaceTag: faceTag,
	}
	for _, s := range segs {
		s.registerTriangle(t)
	}
	t.Subnodes = []Subnode{
		{Kind: CornerSubnode, Corner: 0, U: 0, V: 0},
		{Kind: CornerSubnode, Corner: 1, U: 1, V: 0},
		{Kind: CornerSubnode, Corner: 2, U: 0, V: 1},
	}
	t.Subtris = []Subtri{{V: [3]int{0, 1, 2}, Weight: 1}}
	return t
}

// AddCut appends c to this triangle's cut list, skipping duplicates (at
// most one cut exists per triangle pair — spec §3 invariant).
func (t *Triangle) AddCut(c *Cut) {
	for _, have := range t.Cuts {
		if have == c {
			return
		}
	}
	t.Cuts = append(t.Cuts, c)
}

// Point3 returns the subnode's actual 3-D position, reconstructed from its
// reference-simplex barycentric coordinates and this triangle's corners.
func (t *Triangle) Point3(subnodeIdx int) geo.Point3 {
	sn := t.Subnodes[subnodeIdx]
	b0 := 1 - sn.U - sn.V
	c0, c1, c2 := t.Corners[0].P3(), t.Corners[1].P3(), t.Corners[2].P3()
	return geo.Point3{
		X: b0*c0.X + sn.U*c1.X + sn.V*c2.X,
		Y: b0*c0.Y + sn.U*c1.Y + sn.V*c2.Y,
		Z: b0*c0.Z + sn.U*c1.Z + sn.V*c2.Z,
	}
}

// Area is the planar (3-D) area of the whole triangle, used to scale
// reference-area Subtri weights into absolute areas.
func (t *Triangle) Area() float64 {
	p0, p1, p2 := t.Corners[0].P3(), t.Corners[1].P3(), t.Corners[2].P3()
	cr := geo.Cross(geo.Sub(p1, p0), geo.Sub(p2, p0))
	return 0.5 * math.Sqrt(geo.Dot(cr, cr))
}

// Normal returns the triangle's (unnormalized) geometric normal,
// consistent with corner winding order 0,1,2.
func (t *Triangle) Normal() geo.Point3 {
	p0, p1, p2 := t.Corners[0].P3(), t.Corners[1].P3(), t.Corners[2].P3()
	return geo.Cross(geo.Sub(p1, p0), geo.Sub(p2, p0))
}

// SubtriPoints returns the three 3-D corner positions of sub-triangle i.
func (t *Triangle) SubtriPoints(i int) [3]geo.Point3 {
	st := t.Subtris[i]
	return [3]geo.Point3{t.Point3(st.V[0]), t.Point3(st.V[1]), t.Point3(st.V[2])}
}

// SubtriArea returns the absolute (physical) area of sub-triangle i: its
// reference-area weight scaled by this triangle's absolute area (spec §9).
func (t *Triangle) SubtriArea(i int) float64 {
	return t.Subtris[i].Weight * t.Area()
}
