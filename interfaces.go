// Package knife implements the cut-cell geometry engine: it wires
// packages geo, neartree, ent, mask and poly into the Domain pipeline
// driver (spec component I). Primal and Surface are the two read-only
// collaborator interfaces a caller must supply; Domain never mutates
// either one.
package knife

import "github.com/afcarl/knife/status"

// Primal is the read-only view of the volume mesh the dual is built over
// (spec §6's "Primal interface"). Every adjacency accessor returns
// status.NOT_FOUND, not a panic, on a miss — NOT_FOUND is an expected
// negative result, swallowed by most callers (spec §7).
type Primal interface {
	NCell() int
	NTri() int
	NEdge() int
	NFace() int
	NNode() int
	// NNode0 is the size of the local partition; nodes at index >= NNode0
	// belong to the ghost layer (spec §4.I step 8).
	NNode0() int

	// Cell returns the 4 node indices of tetrahedron i.
	Cell(i int) [4]int
	// Tri returns the 3 node indices of the i-th unique triangular cell
	// face (interior or boundary).
	Tri(i int) [3]int
	// Edge returns the 2 node indices of edge i.
	Edge(i int) [2]int
	// Face returns the 3 node indices of boundary face i and its face tag.
	Face(i int) (nodes [3]int, faceTag int)

	// XYZ returns the coordinates of node.
	XYZ(node int) (x, y, z float64)

	// C2T maps cell c's local face slot (0..3) to a global Tri index.
	C2T(cell, side int) (int, status.Code)
	// C2E maps cell c's local edge slot (0..5) to a global Edge index.
	C2E(cell, slot int) (int, status.Code)
	// FindEdge looks up the edge between n0 and n1.
	FindEdge(n0, n1 int) (int, status.Code)
	// FindTri looks up the unique triangular face spanning n0,n1,n2.
	FindTri(n0, n1, n2 int) (int, status.Code)
	// FindFaceSide looks up face's local slot within cell.
	FindFaceSide(face, cell int) (int, status.Code)
	// FindTriSide looks up tri's local slot within cell.
	FindTriSide(tri, cell int) (int, status.Code)
	// FindCellSide looks up neighbour's local slot within cell.
	FindCellSide(cell, neighbour int) (int, status.Code)

	// CellsAtNode lists every cell incident to node.
	CellsAtNode(node int) []int
	// FacesAtNode lists every boundary face incident to node.
	FacesAtNode(node int) []int
}

// Surface is the read-only view of the cutting surface (spec §6's
// "Surface interface").
type Surface interface {
	NTriangle() int
	NSegment() int
	NNode() int

	// Triangle returns the 3 node indices of surface triangle i.
	Triangle(i int) [3]int
	// Segment returns the 2 node indices of surface segment i.
	Segment(i int) [2]int
	// Node returns the coordinates of surface node i.
	Node(i int) (x, y, z float64)

	// NodeIndex and TriangleIndex support lookup during sensitivity
	// emission (spec §6); both return status.NOT_FOUND on a miss.
	NodeIndex(node int) (int, status.Code)
	TriangleIndex(tri int) (int, status.Code)

	// Inward reports whether triangle i's corner winding gives an
	// inward-pointing normal relative to the solid it bounds. The
	// distilled Surface interface omits orientation; this accessor is
	// added because package poly's ActivateAtCuts needs a per-triangle
	// inward flag and nothing else in the core supplies one.
	Inward(tri int) bool
}
