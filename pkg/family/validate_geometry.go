package family

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Tier 2: profile geometry
// ---------------------------------------------------------------------------

// MinProfilePoints is the smallest closed polygon the model accepts.
const MinProfilePoints = 3

// geometryEpsilon is the tolerance, in mm, for coincident points and
// zero-area checks.
const geometryEpsilon = 1e-9

// validateProfile checks the profile is a simple closed polygon with finite
// coordinates and no zero-length edges.
func validateProfile(f *FamilyData) []ValidationError {
	pts := f.Extrusion.ProfilePoints
	if len(pts) < MinProfilePoints {
		return []ValidationError{{
			Subject:  "profile",
			Message:  fmt.Sprintf("has %d points, need at least %d", len(pts), MinProfilePoints),
			Severity: SeverityError,
		}}
	}

	for i, p := range pts {
		if !pointFinite(p) {
			return []ValidationError{{
				Subject:  fmt.Sprintf("profile point #%d", i),
				Message:  fmt.Sprintf("coordinate (%v, %v) is not finite", p.X, p.Y),
				Severity: SeverityError,
			}}
		}
	}

	var errs []ValidationError
	for i := range pts {
		a, b := f.Extrusion.Edge(i)
		if samePoint(a, b) {
			errs = append(errs, ValidationError{
				Subject:  fmt.Sprintf("profile edge #%d", i),
				Message:  "has zero length",
				Severity: SeverityError,
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	if math.Abs(SignedArea(pts)) <= geometryEpsilon {
		errs = append(errs, ValidationError{
			Subject:  "profile",
			Message:  "encloses no area",
			Severity: SeverityError,
		})
	}
	if i, j, ok := firstSelfIntersection(f.Extrusion); ok {
		errs = append(errs, ValidationError{
			Subject:  "profile",
			Message:  fmt.Sprintf("edges #%d and #%d intersect", i, j),
			Severity: SeverityError,
		})
	}
	return errs
}

// SignedArea returns the shoelace area of the closed polygon. Positive for
// counter-clockwise winding.
func SignedArea(pts []Point2D) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// IsSimple reports whether the closed profile has no self-intersections.
func IsSimple(e ExtrusionData) bool {
	_, _, hit := firstSelfIntersection(e)
	return !hit
}

// firstSelfIntersection returns the first pair of non-adjacent edges that
// touch or cross.
func firstSelfIntersection(e ExtrusionData) (int, int, bool) {
	n := len(e.ProfilePoints)
	if n < MinProfilePoints {
		return 0, 0, false
	}
	for i := 0; i < n; i++ {
		a1, a2 := e.Edge(i)
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				// Adjacent edges share an endpoint; only a fold-back overlap counts.
				if adjacentOverlap(e, i, j) {
					return i, j, true
				}
				continue
			}
			b1, b2 := e.Edge(j)
			if segmentsIntersect(a1, a2, b1, b2) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// adjacentOverlap reports whether two consecutive edges fold back onto each
// other (collinear and pointing in opposite directions).
func adjacentOverlap(e ExtrusionData, i, j int) bool {
	a1, a2 := e.Edge(i)
	b1, b2 := e.Edge(j)
	u, v := a2.Sub(a1), b2.Sub(b1)
	if math.Abs(cross(u, v)) > geometryEpsilon {
		return false
	}
	return u.X*v.X+u.Y*v.Y < 0
}

func cross(u, v Point2D) float64 {
	return u.X*v.Y - u.Y*v.X
}

func orientation(a, b, c Point2D) int {
	v := cross(b.Sub(a), c.Sub(a))
	switch {
	case v > geometryEpsilon:
		return 1
	case v < -geometryEpsilon:
		return -1
	default:
		return 0
	}
}

func onSegment(a, b, p Point2D) bool {
	return math.Min(a.X, b.X)-geometryEpsilon <= p.X && p.X <= math.Max(a.X, b.X)+geometryEpsilon &&
		math.Min(a.Y, b.Y)-geometryEpsilon <= p.Y && p.Y <= math.Max(a.Y, b.Y)+geometryEpsilon
}

func segmentsIntersect(p1, p2, q1, q2 Point2D) bool {
	o1 := orientation(p1, p2, q1)
	o2 := orientation(p1, p2, q2)
	o3 := orientation(q1, q2, p1)
	o4 := orientation(q1, q2, p2)

	if o1 != o2 && o3 != o4 && o1 != 0 && o2 != 0 && o3 != 0 && o4 != 0 {
		return true
	}
	if o1 == 0 && onSegment(p1, p2, q1) {
		return true
	}
	if o2 == 0 && onSegment(p1, p2, q2) {
		return true
	}
	if o3 == 0 && onSegment(q1, q2, p1) {
		return true
	}
	if o4 == 0 && onSegment(q1, q2, p2) {
		return true
	}
	return false
}

func samePoint(a, b Point2D) bool {
	return math.Abs(a.X-b.X) <= geometryEpsilon && math.Abs(a.Y-b.Y) <= geometryEpsilon
}
