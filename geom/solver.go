package geom

import "math"

// Polynomial root solving for curve extrema.
// The quadratic solver follows kurbo's numerically stable formulation.

// SolveQuadratic finds real roots of the quadratic equation ax^2 + bx + c = 0.
// Returns roots sorted in ascending order.
//
// The function is numerically robust:
//   - If a is zero or nearly zero, treats as linear equation
//   - If all coefficients are zero, returns a single 0.0
//   - Handles edge cases with NaN and Inf gracefully
func SolveQuadratic(a, b, c float64) []float64 {
	sc0 := c / a
	sc1 := b / a

	if !isFinite(sc0) || !isFinite(sc1) {
		return solveLinear(b, c)
	}

	arg := sc1*sc1 - 4.0*sc0
	if !isFinite(arg) {
		// Overflow in discriminant: one root from sc1*x + x^2 = 0.
		return sortedPair(-sc1, sc0/-sc1)
	}
	if arg < 0.0 {
		return nil
	}
	if arg == 0.0 {
		return []float64{-0.5 * sc1}
	}

	// See: https://math.stackexchange.com/questions/866331
	root1 := -0.5 * (sc1 + math.Copysign(math.Sqrt(arg), sc1))
	return sortedPair(root1, sc0/root1)
}

func sortedPair(root1, root2 float64) []float64 {
	if !isFinite(root2) {
		return []float64{root1}
	}
	if root1 > root2 {
		return []float64{root2, root1}
	}
	return []float64{root1, root2}
}

// solveLinear handles the case when a is zero or very small.
func solveLinear(b, c float64) []float64 {
	root := -c / b
	if isFinite(root) {
		return []float64{root}
	}
	if c == 0.0 && b == 0.0 {
		return []float64{0.0}
	}
	return nil
}

// SolveQuadraticOpenUnit returns the roots of ax^2 + bx + c = 0 that lie
// strictly inside (0, 1). Curve endpoints are always part of a bounding
// box, so roots at the boundary add nothing.
func SolveQuadraticOpenUnit(a, b, c float64) []float64 {
	var result []float64
	for _, r := range SolveQuadratic(a, b, c) {
		if r > 0 && r < 1 {
			result = append(result, r)
		}
	}
	return result
}
