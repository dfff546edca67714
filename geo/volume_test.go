package geo

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestVolume6SignSymmetry(tst *testing.T) {
	chk.PrintTitle("Volume6SignSymmetry")

	a := Point3{0, 0, 0}
	b := Point3{1, 0, 0}
	c := Point3{0, 1, 0}
	d := Point3{0, 0, 1}

	v := Volume6(a, b, c, d)
	chk.Scalar(tst, "swap(a,b)", 1e-15, Volume6(b, a, c, d), -v)
	chk.Scalar(tst, "swap(c,d)", 1e-15, Volume6(a, b, d, c), -v)
	chk.Scalar(tst, "even perm", 1e-15, Volume6(b, c, a, d), v)
}

func TestVolume6UnitTet(tst *testing.T) {
	chk.PrintTitle("Volume6UnitTet")

	a := Point3{0, 0, 0}
	b := Point3{1, 0, 0}
	c := Point3{0, 1, 0}
	d := Point3{0, 0, 1}

	// volume of the unit right tet is 1/6, so six times that is 1.
	chk.Scalar(tst, "vol6", 1e-14, abs(Volume6(a, b, c, d)), 1.0)
}
