package neartree

import (
	"math/rand"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/afcarl/knife/status"
)

// naive collects every sphere that overlaps (x,y,z,r) by brute force, for
// cross-checking the tree's completeness property (spec §8).
func naive(spheres []*Sphere, x, y, z, r float64) []int {
	var out []int
	for _, s := range spheres {
		d := distance(s, &Sphere{X: x, Y: y, Z: z})
		if s.Radius >= d-r {
			out = append(out, s.Index)
		}
	}
	return out
}

func TestNearTreeCompleteness(tst *testing.T) {
	chk.PrintTitle("NearTreeCompleteness")

	rng := rand.New(rand.NewSource(42))
	n := 200
	spheres := make([]*Sphere, n)
	var root *Sphere
	for i := 0; i < n; i++ {
		s := New(i, rng.Float64()*10, rng.Float64()*10, rng.Float64()*10, rng.Float64()*0.5)
		spheres[i] = s
		if root == nil {
			root = s
		} else {
			root = Insert(root, s)
		}
	}

	for q := 0; q < 20; q++ {
		qx, qy, qz := rng.Float64()*10, rng.Float64()*10, rng.Float64()*10
		qr := rng.Float64() * 2

		code, got := Query(root, qx, qy, qz, qr, n, nil)
		if code != status.SUCCESS {
			tst.Fatalf("unexpected code %s", code)
		}
		want := naive(spheres, qx, qy, qz, qr)

		gotSet := map[int]bool{}
		for _, idx := range got {
			gotSet[idx] = true
		}
		for _, idx := range want {
			if !gotSet[idx] {
				tst.Fatalf("missing overlapping sphere %d from query (%v,%v,%v,%v)", idx, qx, qy, qz, qr)
			}
		}
	}
}

func TestNearTreeBiggerWhenCapExceeded(tst *testing.T) {
	chk.PrintTitle("NearTreeBiggerWhenCapExceeded")

	root := New(0, 0, 0, 0, 1)
	root = Insert(root, New(1, 0.1, 0, 0, 1))
	root = Insert(root, New(2, -0.1, 0, 0, 1))

	code, list := Query(root, 0, 0, 0, 1, 1, nil)
	if code != status.BIGGER {
		tst.Fatalf("expected BIGGER, got %s (list=%v)", code, list)
	}
}
