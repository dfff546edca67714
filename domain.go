package knife

import (
	"math"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/afcarl/knife/ent"
	"github.com/afcarl/knife/geo"
	"github.com/afcarl/knife/mask"
	"github.com/afcarl/knife/neartree"
	"github.com/afcarl/knife/poly"
	"github.com/afcarl/knife/status"
)

// Domain drives the whole pipeline (spec §4.I). It owns every entity it
// creates for its lifetime (spec §9); Primal and Surface are read-only
// collaborators it never mutates.
type Domain struct {
	Primal  Primal
	Surface Surface

	// ToleranceFunc, if set, overrides the default degeneracy tolerance
	// policy (geo.DefaultTolerance): it is evaluated once, at the start of
	// Run, as ToleranceFunc.F(maxExtent, nil), mirroring gofem's use of
	// fun.Func as a pluggable scalar callback (e.g. FaceCond.Func).
	ToleranceFunc fun.Func
	// Verbose enables gosl/io trace logging of each pipeline stage,
	// following the teacher's fem.Global.Verbose convention.
	Verbose bool

	tol float64

	arena   *ent.Arena
	dualAdj *ent.Adjacency
	surfAdj *ent.Adjacency

	cellCentroid []*ent.Node
	triCentroid  []*ent.Node
	edgeMid      []*ent.Node
	triFaceTag   []int
	nextNodeIdx  int
	nextTriIdx   int

	polys []*poly.Poly

	surfTri     []*ent.Triangle
	surfIndexOf map[*ent.Triangle]int
	tree        *neartree.Sphere
}

// trace logs a pipeline-stage message when Verbose is set, tagging the
// MPI rank the way fem/stat.go tags its own progress output.
func (d *Domain) trace(format string, args ...interface{}) {
	if !d.Verbose {
		return
	}
	if mpi.IsOn() {
		io.Pfcyan("[rank %d] ", mpi.Rank())
	}
	io.Pf(format+"\n", args...)
}

// Run executes the full pipeline (spec §4.I, steps 1-8) and returns the
// first fatal status encountered, or status.SUCCESS.
func (d *Domain) Run() status.Code {
	if d.Primal == nil || d.Surface == nil {
		return status.Errf(status.NULL, "domain requires both a Primal and a Surface collaborator").Code
	}

	d.arena = ent.NewArena()
	d.dualAdj = ent.NewAdjacency()
	d.surfAdj = ent.NewAdjacency()
	d.surfIndexOf = make(map[*ent.Triangle]int)

	extent := d.estimateExtent()
	if d.ToleranceFunc != nil {
		d.tol = d.ToleranceFunc.F(extent, nil)
	} else {
		d.tol = geo.DefaultTolerance(extent)
	}
	d.trace("tolerance = %g (extent=%g)", d.tol, extent)

	if code := d.buildDual(); code.Fatal() {
		return code
	}
	d.trace("built %d polys (dual nodes)", len(d.polys))

	if code := d.buildSurface(); code.Fatal() {
		return code
	}
	d.trace("built %d cutting-surface triangles", len(d.surfTri))

	if code := d.establishCuts(); code.Fatal() {
		return code
	}

	if code := d.triangulateAll(); code.Fatal() {
		return code
	}

	for _, p := range d.polys {
		if p.Topology == poly.GHOST || !p.HasCut() {
			continue
		}
		if code := p.ActivateAtCuts(d.inwardOf, d.tol); code.Fatal() {
			return code
		}
		if code := p.PaintAll(); code.Fatal() {
			return code
		}
		for p.ActivateUncutMasks() {
		}
		if code := p.GatherSurf(d.inwardOf); code.Fatal() {
			return code
		}
		if code := p.CollapseRegions(); code.Fatal() {
			return code
		}
		p.CompactLabels()
		p.Topology = poly.CUT
		d.trace("poly %d: CUT, %d regions", p.Index, p.RegionCount())
	}

	for _, p := range d.polys {
		if p.Topology == poly.GHOST || p.HasCut() {
			continue
		}
		p.ActivateWhole()
	}

	d.propagateTopology()

	return status.SUCCESS
}

// inwardOf reports whether a cutting-surface triangle is inward-pointing,
// dispatched to the Surface collaborator via the reverse index built in
// buildSurface.
func (d *Domain) inwardOf(tri *ent.Triangle) bool {
	idx, ok := d.surfIndexOf[tri]
	if !ok {
		return false
	}
	return d.Surface.Inward(idx)
}

// estimateExtent walks every primal node once to find the largest side of
// the mesh's axis-aligned bounding box, used to scale the default degeneracy tolerance (spec
// §4.A).
func (d *Domain) estimateExtent() float64 {
	n := d.Primal.NNode()
	if n == 0 {
		return 1
	}
	var minX, minY, minZ, maxX, maxY, maxZ float64
	for i := 0; i < n; i++ {
		x, y, z := d.Primal.XYZ(i)
		if i == 0 {
			minX, maxX = x, x
			minY, maxY = y, y
			minZ, maxZ = z, z
			continue
		}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
		if z < minZ {
			minZ = z
		}
		if z > maxZ {
			maxZ = z
		}
	}
	dx, dy, dz := maxX-minX, maxY-minY, maxZ-minZ
	ext := dx
	if dy > ext {
		ext = dy
	}
	if dz > ext {
		ext = dz
	}
	if ext <= 0 {
		return 1
	}
	return ext
}

// cellCentroidNode lazily creates and caches the dual node at cell c's
// centroid.
func (d *Domain) cellCentroidNode(c int) *ent.Node {
	if d.cellCentroid == nil {
		d.cellCentroid = make([]*ent.Node, d.Primal.NCell())
	}
	if d.cellCentroid[c] != nil {
		return d.cellCentroid[c]
	}
	verts := d.Primal.Cell(c)
	var x, y, z float64
	for _, v := range verts {
		vx, vy, vz := d.Primal.XYZ(v)
		x += vx
		y += vy
		z += vz
	}
	nd := ent.NewNode(d.nextNodeIndex(), x/4, y/4, z/4)
	d.cellCentroid[c] = nd
	return nd
}

// triCentroidNode lazily creates and caches the dual node at tri's
// centroid.
func (d *Domain) triCentroidNode(tri int) *ent.Node {
	if d.triCentroid == nil {
		d.triCentroid = make([]*ent.Node, d.Primal.NTri())
	}
	if d.triCentroid[tri] != nil {
		return d.triCentroid[tri]
	}
	verts := d.Primal.Tri(tri)
	var x, y, z float64
	for _, v := range verts {
		vx, vy, vz := d.Primal.XYZ(v)
		x += vx
		y += vy
		z += vz
	}
	nd := ent.NewNode(d.nextNodeIndex(), x/3, y/3, z/3)
	d.triCentroid[tri] = nd
	return nd
}

// edgeMidNode lazily creates and caches the dual node at edge e's
// midpoint — this is the node N spec §4.I step 7 names as the site of
// topology-propagation decisions between the two polys an edge connects.
func (d *Domain) edgeMidNode(e int) *ent.Node {
	if d.edgeMid == nil {
		d.edgeMid = make([]*ent.Node, d.Primal.NEdge())
	}
	if d.edgeMid[e] != nil {
		return d.edgeMid[e]
	}
	verts := d.Primal.Edge(e)
	x0, y0, z0 := d.Primal.XYZ(verts[0])
	x1, y1, z1 := d.Primal.XYZ(verts[1])
	nd := ent.NewNode(d.nextNodeIndex(), (x0+x1)/2, (y0+y1)/2, (z0+z1)/2)
	d.edgeMid[e] = nd
	return nd
}

// nextNodeIndex mints a monotonic node index (starting at 1) for dual
// (centroid/midpoint) nodes. It is unique only among dual nodes: primal and
// cutting-surface nodes are numbered from 0 on their own, and cutting-
// surface segments are deduplicated in a separate adjacency index
// (d.surfAdj), so the numbers may coincide. Scoped as a Domain field rather than a package global, per the
// design note on replacing the original source's global counters.
func (d *Domain) nextNodeIndex() int {
	d.nextNodeIdx++
	return d.nextNodeIdx
}

// ensureTriFaceTags precomputes, once, the boundary-face tag (or
// ent.EmptyFaceTag) of every primal Tri entity, by walking the Face
// accessor and resolving each face's node triple back to a Tri index via
// FindTri (spec §6's adjacency accessors).
func (d *Domain) ensureTriFaceTags() status.Code {
	if d.triFaceTag != nil {
		return status.SUCCESS
	}
	d.triFaceTag = make([]int, d.Primal.NTri())
	for i := range d.triFaceTag {
		d.triFaceTag[i] = ent.EmptyFaceTag
	}
	for f := 0; f < d.Primal.NFace(); f++ {
		nodes, tag := d.Primal.Face(f)
		triID, code := d.Primal.FindTri(nodes[0], nodes[1], nodes[2])
		if code == status.NOT_FOUND {
			continue
		}
		if code.Fatal() {
			return code
		}
		d.triFaceTag[triID] = tag
	}
	return status.SUCCESS
}

// buildDual constructs one Poly per primal node (spec §4.I steps 1-2):
// local nodes (index < NNode0) get a fully-built boundary of dual
// triangles; nodes beyond the local partition become empty GHOST polys
// (spec step 8), whose geometry this Domain never needs since they are
// never emitted.
func (d *Domain) buildDual() status.Code {
	if code := d.ensureTriFaceTags(); code.Fatal() {
		return code
	}
	n := d.Primal.NNode()
	n0 := d.Primal.NNode0()
	d.polys = make([]*poly.Poly, n)
	for i := 0; i < n; i++ {
		if i >= n0 {
			p := poly.New(i)
			p.Topology = poly.GHOST
			d.polys[i] = p
			continue
		}
		p, code := d.buildPolyBoundary(i)
		if code.Fatal() {
			return code
		}
		d.polys[i] = p
	}
	return status.SUCCESS
}

// buildPolyBoundary populates one local node's median-dual boundary: for
// every cell touching the node, and every one of that cell's four
// triangular faces that also touches the node, it contributes two dual
// triangles (cell-centroid, face-centroid, edge-midpoint) — one per edge
// of that face incident to the node. Cell/face/edge-midpoint dual nodes
// and the segments between them are shared across every contributing cell
// via d.dualAdj, which is exactly what gives two neighbouring dual
// triangles (from different cells, or from the two faces meeting at one
// edge) the common segment identity package poly's adjacency logic
// depends on (spec §4.D).
func (d *Domain) buildPolyBoundary(n int) (*poly.Poly, status.Code) {
	p := poly.New(n)
	for _, c := range d.Primal.CellsAtNode(n) {
		cc := d.cellCentroidNode(c)
		for side := 0; side < 4; side++ {
			triID, code := d.Primal.C2T(c, side)
			if code == status.NOT_FOUND {
				continue
			}
			if code.Fatal() {
				return nil, code
			}
			triNodes := d.Primal.Tri(triID)
			touches := false
			for _, gn := range triNodes {
				if gn == n {
					touches = true
					break
				}
			}
			if !touches {
				continue
			}
			tc := d.triCentroidNode(triID)
			for _, other := range triNodes {
				if other == n {
					continue
				}
				edgeID, ecode := d.Primal.FindEdge(n, other)
				if ecode == status.NOT_FOUND {
					continue
				}
				if ecode.Fatal() {
					return nil, ecode
				}
				em := d.edgeMidNode(edgeID)
				tri := d.newDualTriangle(cc, tc, em, d.triFaceTag[triID])
				// the mask is inward-pointing when the triangle's normal
				// points toward this poly's own node.
				nx, ny, nz := d.Primal.XYZ(n)
				inward := geo.Dot(tri.Normal(), geo.Sub(geo.Point3{X: nx, Y: ny, Z: nz}, cc.P3())) > 0
				p.AddBoundary(mask.New(tri, inward))
			}
		}
	}
	return p, status.SUCCESS
}

// newDualTriangle builds one (cellCentroid, triCentroid, edgeMid) dual
// triangle, deduplicating its three segments against d.dualAdj so that
// two dual triangles sharing two of these three dual nodes also share the
// same *ent.Segment object.
func (d *Domain) newDualTriangle(cc, tc, em *ent.Node, faceTag int) *ent.Triangle {
	s0, _ := d.dualAdj.Segment(cc, tc)
	s1, _ := d.dualAdj.Segment(tc, em)
	s2, _ := d.dualAdj.Segment(em, cc)
	idx := d.nextTriIdx
	d.nextTriIdx++
	return ent.NewTriangle(idx, [3]*ent.Segment{s0, s1, s2}, [3]*ent.Node{cc, tc, em}, faceTag)
}

// buildSurface converts every Surface triangle into an ent.Triangle, once,
// sharing segments via d.surfAdj exactly as buildDual shares them via
// d.dualAdj, and records each one's bounding sphere in the near-tree
// (spec §4.I step 3).
func (d *Domain) buildSurface() status.Code {
	count := d.Surface.NTriangle()
	d.surfTri = make([]*ent.Triangle, count)
	surfNode := make([]*ent.Node, d.Surface.NNode())
	nodeAt := func(i int) *ent.Node {
		if surfNode[i] == nil {
			x, y, z := d.Surface.Node(i)
			surfNode[i] = ent.NewNode(i, x, y, z)
		}
		return surfNode[i]
	}

	for i := 0; i < count; i++ {
		verts := d.Surface.Triangle(i)
		n0, n1, n2 := nodeAt(verts[0]), nodeAt(verts[1]), nodeAt(verts[2])
		s0, _ := d.surfAdj.Segment(n0, n1)
		s1, _ := d.surfAdj.Segment(n1, n2)
		s2, _ := d.surfAdj.Segment(n2, n0)
		tri := ent.NewTriangle(i, [3]*ent.Segment{s0, s1, s2}, [3]*ent.Node{n0, n1, n2}, i)
		d.surfTri[i] = tri
		d.surfIndexOf[tri] = i

		center := geo.Centroid([]geo.Point3{n0.P3(), n1.P3(), n2.P3()})
		radius := maxDist(center, n0.P3(), n1.P3(), n2.P3())
		d.tree = neartree.Insert(d.tree, neartree.New(i, center.X, center.Y, center.Z, radius))
	}
	return status.SUCCESS
}

func maxDist(center geo.Point3, pts ...geo.Point3) float64 {
	var maxSq float64
	for _, p := range pts {
		v := geo.Sub(p, center)
		d := geo.Dot(v, v)
		if d > maxSq {
			maxSq = d
		}
	}
	return math.Sqrt(maxSq)
}
