package dwt

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Forward computes the forward DWT of values in place.
//
// On entry values must hold 2^logN residues in the canonical range, in
// natural order. On exit it holds the transform in bit-reversed order,
// fully reduced. roots is the forward root table, addressed per stage by
// an accumulating offset; a full table has one entry per buffer slot,
// with index 0 reserved.
func (t *Transformer[V]) Forward(values []V, logN int, roots []V) error {
	return t.forward(values, logN, roots, nil)
}

// ForwardScaled computes the forward DWT of values in place and
// multiplies every output slot by scalar, folding the multiplication
// into the terminal stage rather than running a separate pass.
func (t *Transformer[V]) ForwardScaled(values []V, logN int, roots []V, scalar V) error {
	return t.forward(values, logN, roots, &scalar)
}

// Backward computes the backward DWT of values in place: the mirrored
// stage schedule of [Transformer.Forward], consuming the backward root
// table. Input is expected in bit-reversed order, output is restored to
// natural order in the canonical range.
//
// Backward does not divide by the transform size; compose with
// [Transformer.BackwardScaled] and a scalar of 1/n for an exact inverse.
func (t *Transformer[V]) Backward(values []V, logN int, roots []V) error {
	return t.backward(values, logN, roots, nil)
}

// BackwardScaled computes the backward DWT of values in place and
// multiplies every output slot by scalar, folded into the terminal
// stage. With scalar = 1/n it is the exact inverse of the forward
// transform.
func (t *Transformer[V]) BackwardScaled(values []V, logN int, roots []V, scalar V) error {
	return t.backward(values, logN, roots, &scalar)
}

// checkSizes enforces the call contract. Violations are programming
// errors, not runtime conditions.
func checkSizes[V constraints.Unsigned](values, roots []V, logN int) int {

	if logN < 1 {
		panic(fmt.Sprintf("invalid transform size: logN=%d < 1", logN))
	}

	n := 1 << logN

	if len(values) != n {
		panic(fmt.Sprintf("invalid buffer: len(values)=%d != 2^logN=%d", len(values), n))
	}

	if len(roots) < n {
		panic(fmt.Sprintf("invalid root table: len(roots)=%d < %d", len(roots), n))
	}

	return n
}

// forward runs the staged Cooley-Tukey decomposition: gap halves from n
// while the butterfly group count m doubles, and the root offset rho
// accumulates the number of roots consumed by prior stages (index 0 of
// the table is reserved, hence the initial offset of 1).
//
// Loop invariant at the start of iteration k: m = 2^k, gap = n/2^(k+1)
// and rho = 2^k. The loop stops at m = n/2, where the terminal kernel
// runs the last round of butterflies with full reduction.
func (t *Transformer[V]) forward(values []V, logN int, roots []V, scalar *V) error {

	n := checkSizes(values, roots, logN)

	a := t.arith

	gap, m, rho := n, 1, 1
	for ; m < n>>1; rho, m = rho+m, m<<1 {

		gap >>= 1

		stage := stageParams{gap: gap, rho: rho}

		var err error
		if gap < MinimumGapForLoopUnrolledKernel {
			err = t.disp.Dispatch(m*gap, func(start, end int) {
				forwardSmallGap(a, values, roots, stage, start, end)
			})
		} else {
			err = t.disp.Dispatch(m*(gap/Unroll), func(start, end int) {
				forwardLargeGap(a, values, roots, stage, start, end)
			})
		}
		if err != nil {
			return fmt.Errorf("forward stage gap=%d: %w", gap, err)
		}
	}

	var err error
	if scalar != nil {
		s := *scalar
		err = t.disp.Dispatch(m, func(start, end int) {
			forwardLastRoundScalar(a, values, roots, rho, s, start, end)
		})
	} else {
		err = t.disp.Dispatch(m, func(start, end int) {
			forwardLastRound(a, values, roots, rho, start, end)
		})
	}
	if err != nil {
		return fmt.Errorf("forward last round: %w", err)
	}

	return nil
}

// backward runs the mirrored schedule: gap doubles from 1 while the
// group count h halves from n/2, with the same accumulating root offset
// convention. The terminal stage is the single group of gap = n/2
// butterflies; the optional scalar is folded into it.
func (t *Transformer[V]) backward(values []V, logN int, roots []V, scalar *V) error {

	n := checkSizes(values, roots, logN)

	a := t.arith

	gap, h, rho := 1, n>>1, 1
	for ; h > 1; rho, h, gap = rho+h, h>>1, gap<<1 {

		stage := stageParams{gap: gap, rho: rho}

		var err error
		if gap < MinimumGapForLoopUnrolledKernel {
			err = t.disp.Dispatch(h*gap, func(start, end int) {
				backwardSmallGap(a, values, roots, stage, start, end)
			})
		} else {
			err = t.disp.Dispatch(h*(gap/Unroll), func(start, end int) {
				backwardLargeGap(a, values, roots, stage, start, end)
			})
		}
		if err != nil {
			return fmt.Errorf("backward stage gap=%d: %w", gap, err)
		}
	}

	var err error
	if scalar != nil {
		s := *scalar
		err = t.disp.Dispatch(gap, func(start, end int) {
			backwardLastRoundScalar(a, values, roots, gap, rho, s, start, end)
		})
	} else {
		err = t.disp.Dispatch(gap, func(start, end int) {
			backwardLastRound(a, values, roots, gap, rho, start, end)
		})
	}
	if err != nil {
		return fmt.Errorf("backward last round: %w", err)
	}

	return nil
}

// stageParams is the ephemeral descriptor of one interior stage.
type stageParams struct {
	gap int // butterfly span
	rho int // running offset into the root table
}
