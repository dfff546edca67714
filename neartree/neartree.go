// Package neartree implements the bounding-sphere binary tree used to
// narrow intersection candidates to near-enough pairs (spec component C).
// It is a direct port of the original knife near.c: insert descends into
// the closer child and updates that child's running bound; query recurses
// into a child only when the target sphere's nearest point lies within the
// child's recorded bound, and always tests the current node's own sphere
// after recursing into both children.
package neartree

import (
	"math"

	"github.com/afcarl/knife/status"
)

// Sphere is anything the tree can index: a center and a radius.
type Sphere struct {
	Index          int
	X, Y, Z        float64
	Radius         float64
	left, right    *Sphere
	leftB, rightB  float64 // leftBound/rightBound, see package doc
}

// New creates a standalone sphere node ready to be inserted or used as the
// tree root.
func New(index int, x, y, z, radius float64) *Sphere {
	return &Sphere{Index: index, X: x, Y: y, Z: z, Radius: radius}
}

func distance(a, b *Sphere) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Insert inserts child into the subtree rooted at root and returns the
// (possibly unchanged) root. The tree is static after build: no rebalance,
// no delete.
func Insert(root, child *Sphere) *Sphere {
	if root == nil {
		return child
	}
	childBound := distance(root, child) + child.Radius

	if root.left == nil {
		root.left = child
		root.leftB = childBound
		return root
	}
	if root.right == nil {
		root.right = child
		root.rightB = childBound
		return root
	}

	leftDist := distance(root.left, child)
	rightDist := distance(root.right, child)

	if leftDist < rightDist {
		if root.left == Insert(root.left, child) {
			root.leftB = math.Max(childBound, root.leftB)
			return root
		}
	} else {
		if root.right == Insert(root.right, child) {
			root.rightB = math.Max(childBound, root.rightB)
			return root
		}
	}
	return root
}

// Query appends to list every indexed sphere that overlaps the sphere
// (x,y,z,radius), up to cap entries. Returns status.BIGGER (with list
// truncated to cap) if more matches exist than cap allows, status.SUCCESS
// otherwise.
func Query(root *Sphere, x, y, z, radius float64, cap int, list []int) (status.Code, []int) {
	target := &Sphere{X: x, Y: y, Z: z, Radius: radius}
	return query(root, target, cap, list)
}

func query(root, target *Sphere, cap int, list []int) (status.Code, []int) {
	if root == nil {
		return status.SUCCESS, list
	}

	dist := distance(root, target)
	safeZone := dist - target.Radius

	var code status.Code
	if root.left != nil && safeZone <= root.leftB {
		code, list = query(root.left, target, cap, list)
		if code == status.BIGGER {
			return code, list
		}
	}
	if root.right != nil && safeZone <= root.rightB {
		code, list = query(root.right, target, cap, list)
		if code == status.BIGGER {
			return code, list
		}
	}

	if root.Radius >= safeZone {
		if len(list) >= cap {
			return status.BIGGER, list
		}
		list = append(list, root.Index)
	}

	return status.SUCCESS, list
}
