package geom

// Segment is a line segment between two world-space points.
type Segment struct {
	A, B Vec
}

// SegmentsIntersect reports whether the two segments cross, using the
// standard determinant-based parametric test. Writing s as A + t·(B-A) and
// u likewise, the segments intersect when both parameters fall in [0,1].
//
// Determinants with magnitude below [Epsilon] are treated as parallel and
// therefore non-crossing, which matches the behavior the crossing resolver
// depends on: coincident or near-parallel rays never count as a crossing.
func SegmentsIntersect(s, u Segment) bool {
	d1 := s.B.Sub(s.A)
	d2 := u.B.Sub(u.A)

	det := d1.X*d2.Y - d1.Y*d2.X
	if det > -Epsilon && det < Epsilon {
		return false
	}

	w := u.A.Sub(s.A)
	t := (w.X*d2.Y - w.Y*d2.X) / det
	v := (w.X*d1.Y - w.Y*d1.X) / det

	return t >= 0 && t <= 1 && v >= 0 && v <= 1
}
