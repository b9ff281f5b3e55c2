package geo

// parallelEpsilon is the tolerance below which two segment directions are
// treated as parallel (or degenerate) in ClosestApproach.
const parallelEpsilon = 1e-10

// Segment is a finite straight line between two points.
type Segment struct {
	Start Vec3
	End   Vec3
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.Start.DistanceTo(s.End)
}

// PointAt returns the point at parameter t along the segment, clamped to [0,1].
func (s Segment) PointAt(t float64) Vec3 {
	return s.Start.Lerp(s.End, t)
}

// Approach describes the closest pair of points between two finite segments.
// T1 and T2 are the clamped parametric positions along each segment.
// Parallel reports that the directions were within tolerance of parallel
// (or degenerate), in which case T1 is anchored at 0 rather than solved.
type Approach struct {
	T1       float64
	T2       float64
	P1       Vec3
	P2       Vec3
	Distance float64
	Parallel bool
}

// ClosestApproach computes the minimum distance between two finite 3D
// segments along with the closest points and their parameters.
//
// The unconstrained minimum of the infinite lines is solved from the
// linear system built on the direction vectors; both parameters are then
// clamped to [0,1] since the segments are finite. Degenerate segments
// (zero-length, i.e. a stationary point) fall into the parallel branch and
// never divide by a zero direction.
func ClosestApproach(a, b Segment) Approach {
	d1 := a.End.Sub(a.Start)
	d2 := b.End.Sub(b.Start)
	w0 := a.Start.Sub(b.Start)

	aa := d1.Dot(d1)
	bb := d1.Dot(d2)
	cc := d2.Dot(d2)
	dd := d1.Dot(w0)
	ee := d2.Dot(w0)

	denom := aa*cc - bb*bb
	parallel := abs(denom) < parallelEpsilon

	var t1, t2 float64
	if parallel {
		// Parallel or degenerate: anchor on a's start and project onto b.
		t1 = 0
		if abs(bb) > parallelEpsilon {
			t2 = dd / bb
		} else {
			t2 = 0
		}
	} else {
		t1 = (bb*ee - cc*dd) / denom
		t2 = (aa*ee - bb*dd) / denom
	}

	t1 = Clamp01(t1)
	t2 = Clamp01(t2)

	p1 := a.Start.Add(d1.Scale(t1))
	p2 := b.Start.Add(d2.Scale(t2))

	return Approach{T1: t1, T2: t2, P1: p1, P2: p2, Distance: p1.DistanceTo(p2), Parallel: parallel}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
