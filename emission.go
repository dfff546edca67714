package knife

import (
	"github.com/afcarl/knife/ent"
	"github.com/afcarl/knife/geo"
	"github.com/afcarl/knife/mask"
	"github.com/afcarl/knife/poly"
	"github.com/afcarl/knife/status"
)

// IntersectionDescriptor identifies one of a cut's two crossing points,
// for an active surface sub-triangle's "parent intersection descriptors"
// (spec §6's Emission interface).
type IntersectionDescriptor struct {
	SegmentIndex  int
	TriangleIndex int
	T, U, V, W    float64
}

// SubtriEmission is one active sub-triangle's emitted geometry.
type SubtriEmission struct {
	XYZ     [3]geo.Point3
	Area    float64
	Normal  geo.Point3
	FaceTag int

	// ParentTriangleIndex and ParentIntersections are populated only for
	// surface sub-triangles (spec §6): the owning surface triangle's
	// index, and the cut endpoints bounding it, if any.
	ParentTriangleIndex int
	ParentIntersections []IntersectionDescriptor
}

// RegionEmission is one region's emitted volume, centroid, directed-area
// contributions, and active sub-triangles (spec §6).
type RegionEmission struct {
	Region       int
	Centroid     geo.Point3
	Volume       float64
	DirectedArea map[int]geo.Point3 // keyed by adjacent primal edge index
	Boundary     []SubtriEmission
	Surf         []SubtriEmission
}

// PolyEmission is one poly's full emitted result.
type PolyEmission struct {
	Index    int
	Topology poly.Topology
	Regions  []RegionEmission
}

// Emit walks the Emission interface (spec §6) over every non-ghost poly,
// producing one PolyEmission per poly with its region count, and per
// region its centroid, volume, directed-area contributions over every
// primal edge incident to the poly's node, and its active sub-triangles.
// Ghost polys are never emitted (spec §4.I step 8).
func (d *Domain) Emit() ([]PolyEmission, status.Code) {
	out := make([]PolyEmission, 0, len(d.polys))
	for _, p := range d.polys {
		if p.Topology == poly.GHOST {
			continue
		}
		pe, code := d.emitPoly(p)
		if code.Fatal() {
			return nil, code
		}
		out = append(out, pe)
	}
	return out, status.SUCCESS
}

func (d *Domain) emitPoly(p *poly.Poly) (PolyEmission, status.Code) {
	pe := PolyEmission{Index: p.Index, Topology: p.Topology}
	n := p.RegionCount()
	for r := 1; r <= n; r++ {
		re, code := d.emitRegion(p, r)
		if code.Fatal() {
			return pe, code
		}
		pe.Regions = append(pe.Regions, re)
	}
	return pe, status.SUCCESS
}

func (d *Domain) emitRegion(p *poly.Poly, region int) (RegionEmission, status.Code) {
	re := RegionEmission{Region: region, DirectedArea: make(map[int]geo.Point3)}
	re.Centroid, re.Volume = p.CentroidVolume(region, geo.Point3{})

	for _, m := range p.Boundary {
		re.Boundary = append(re.Boundary, emitMaskSubtris(m, region, -1)...)
	}
	for _, m := range p.Surf {
		idx, ok := d.surfIndexOf[m.Triangle]
		if !ok {
			return re, status.Errf(status.ARRAY_BOUND, "surf mask's triangle %d has no known surface index", m.Triangle.Index).Code
		}
		re.Surf = append(re.Surf, emitMaskSubtris(m, region, idx)...)
	}

	for e := 0; e < d.Primal.NEdge(); e++ {
		ends := d.Primal.Edge(e)
		if ends[0] != p.Index && ends[1] != p.Index {
			continue
		}
		mid := d.edgeMidNode(e)
		re.DirectedArea[e] = p.DirectedArea(mid)
	}
	return re, status.SUCCESS
}

// emitMaskSubtris returns the emitted geometry of every active
// sub-triangle of m carrying the given region label. surfIdx is the
// owning surface triangle's index, or -1 for a boundary mask (which has
// no surface parent).
func emitMaskSubtris(m *mask.Mask, region, surfIdx int) []SubtriEmission {
	var out []SubtriEmission
	tri := m.Triangle
	normal := tri.Normal()
	faceTag := tri.FaceTag
	n := m.NSubtri()
	for i := 0; i < n; i++ {
		if m.Region(i) != region {
			continue
		}
		pts := tri.SubtriPoints(i)
		sub := SubtriEmission{
			XYZ:                 pts,
			Area:                tri.SubtriArea(i),
			Normal:              normal,
			FaceTag:             faceTag,
			ParentTriangleIndex: surfIdx,
		}
		if surfIdx >= 0 {
			sub.ParentIntersections = cutDescriptorsFor(tri)
		}
		out = append(out, sub)
	}
	return out
}

func cutDescriptorsFor(tri *ent.Triangle) []IntersectionDescriptor {
	var out []IntersectionDescriptor
	for _, c := range tri.Cuts {
		out = append(out, descriptorOf(c.I0), descriptorOf(c.I1))
	}
	return out
}

func descriptorOf(x *ent.Intersection) IntersectionDescriptor {
	return IntersectionDescriptor{
		SegmentIndex:  x.Segment.Index,
		TriangleIndex: x.Triangle.Index,
		T:             x.T,
		U:             x.U,
		V:             x.V,
		W:             x.W,
	}
}
