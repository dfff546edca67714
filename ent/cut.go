package ent

// Cut is an ordered pair of Intersections shared by two crossing
// triangles (spec §4.E), plus the two triangles themselves. Domain and
// Surf are recorded directly at establishment, since Intersection.Triangle
// alone is ambiguous: when both chord endpoints land on the same
// triangle's edges (the common case where a dual triangle's two edges are
// both pierced by one cutter, or symmetrically both pierced on the
// cutter's own edges), I0.Triangle and I1.Triangle are equal and neither
// names the other triangle of the pair.
type Cut struct {
	I0, I1       *Intersection
	Domain, Surf *Triangle
}

// Triangles returns the two triangles this cut straddles.
func (c *Cut) Triangles() (a, b *Triangle) {
	return c.Domain, c.Surf
}
