package dwt

import "golang.org/x/exp/constraints"

// forwardSmallGap applies one unit per butterfly over the domain
// [start, end) of m*gap units. Unit idx decodes into butterfly group
// i = idx/gap and position j = idx%gap; group i combines the slot pair
// at i*2*gap + j and i*2*gap + j + gap with root rho+i.
//
// Outputs are left in the extended range below 4M for cheaper guard
// checks in the next stage.
func forwardSmallGap[V constraints.Unsigned](a Arithmetic[V], values, roots []V, stage stageParams, start, end int) {

	gap, rho := stage.gap, stage.rho

	for idx := start; idx < end; idx++ {

		i, j := idx/gap, idx%gap

		r := roots[rho+i]

		x := i*(gap<<1) + j
		y := x + gap

		u := a.Guard(values[x])
		v := a.MulRoot(values[y], r)
		values[x] = a.Add(u, v)
		values[y] = a.Sub(u, v)
	}
}

// forwardLargeGap applies one unit per Unroll adjacent butterflies over
// the domain [start, end) of m*(gap/Unroll) units. The root depends only
// on the butterfly group, so one lookup serves the four pairs.
func forwardLargeGap[V constraints.Unsigned](a Arithmetic[V], values, roots []V, stage stageParams, start, end int) {

	gap, rho := stage.gap, stage.rho
	w := gap / Unroll

	for idx := start; idx < end; idx++ {

		i, j := idx/w, idx%w

		r := roots[rho+i]

		x := i*(gap<<1) + j*Unroll
		y := x + gap

		u := a.Guard(values[x])
		v := a.MulRoot(values[y], r)
		values[x] = a.Add(u, v)
		values[y] = a.Sub(u, v)

		u = a.Guard(values[x+1])
		v = a.MulRoot(values[y+1], r)
		values[x+1] = a.Add(u, v)
		values[y+1] = a.Sub(u, v)

		u = a.Guard(values[x+2])
		v = a.MulRoot(values[y+2], r)
		values[x+2] = a.Add(u, v)
		values[y+2] = a.Sub(u, v)

		u = a.Guard(values[x+3])
		v = a.MulRoot(values[y+3], r)
		values[x+3] = a.Add(u, v)
		values[y+3] = a.Sub(u, v)
	}
}

// forwardLastRound applies one unit per terminal butterfly pair at
// absolute positions 2i and 2i+1. This is the only stage producing
// fully reduced output.
func forwardLastRound[V constraints.Unsigned](a Arithmetic[V], values, roots []V, rho, start, end int) {

	for i := start; i < end; i++ {

		r := roots[rho+i]

		u := a.Guard(values[2*i])
		v := a.MulRoot(values[2*i+1], r)

		values[2*i] = a.Reduce(a.Add(u, v))
		values[2*i+1] = a.Reduce(a.Sub(u, v))
	}
}

// forwardLastRoundScalar folds a global multiplicative normalization
// into the terminal round: u is scaled directly and the root is
// pre-multiplied by the scalar, which is algebraically the same as
// scaling the whole output by scalar after a plain last round.
func forwardLastRoundScalar[V constraints.Unsigned](a Arithmetic[V], values, roots []V, rho int, scalar V, start, end int) {

	for i := start; i < end; i++ {

		scaledRoot := a.MulRootScalar(roots[rho+i], scalar)

		u := a.MulScalar(a.Guard(values[2*i]), scalar)
		v := a.MulRoot(values[2*i+1], scaledRoot)

		values[2*i] = a.Reduce(a.Add(u, v))
		values[2*i+1] = a.Reduce(a.Sub(u, v))
	}
}

// backwardSmallGap is the Gentleman-Sande mirror of [forwardSmallGap]:
// the root multiplies the difference after the combine. Even slots stay
// below 2M through the guard, odd slots through the lazy root product.
func backwardSmallGap[V constraints.Unsigned](a Arithmetic[V], values, roots []V, stage stageParams, start, end int) {

	gap, rho := stage.gap, stage.rho

	for idx := start; idx < end; idx++ {

		i, j := idx/gap, idx%gap

		r := roots[rho+i]

		x := i*(gap<<1) + j
		y := x + gap

		u, v := values[x], values[y]
		values[x] = a.Guard(a.Add(u, v))
		values[y] = a.MulRootLazy(a.Sub(u, v), r)
	}
}

// backwardLargeGap is the unrolled mirror of [forwardLargeGap].
func backwardLargeGap[V constraints.Unsigned](a Arithmetic[V], values, roots []V, stage stageParams, start, end int) {

	gap, rho := stage.gap, stage.rho
	w := gap / Unroll

	for idx := start; idx < end; idx++ {

		i, j := idx/w, idx%w

		r := roots[rho+i]

		x := i*(gap<<1) + j*Unroll
		y := x + gap

		u, v := values[x], values[y]
		values[x] = a.Guard(a.Add(u, v))
		values[y] = a.MulRootLazy(a.Sub(u, v), r)

		u, v = values[x+1], values[y+1]
		values[x+1] = a.Guard(a.Add(u, v))
		values[y+1] = a.MulRootLazy(a.Sub(u, v), r)

		u, v = values[x+2], values[y+2]
		values[x+2] = a.Guard(a.Add(u, v))
		values[y+2] = a.MulRootLazy(a.Sub(u, v), r)

		u, v = values[x+3], values[y+3]
		values[x+3] = a.Guard(a.Add(u, v))
		values[y+3] = a.MulRootLazy(a.Sub(u, v), r)
	}
}

// backwardLastRound runs the single terminal group of gap = n/2
// butterflies sharing one root, with full reduction to canonical range.
func backwardLastRound[V constraints.Unsigned](a Arithmetic[V], values, roots []V, gap, rho, start, end int) {

	r := roots[rho]

	for j := start; j < end; j++ {
		u, v := values[j], values[j+gap]
		values[j] = a.Reduce(a.Add(u, v))
		values[j+gap] = a.MulRoot(a.Sub(u, v), r)
	}
}

// backwardLastRoundScalar merges the 1/n normalization of an inverse
// transform into the terminal round, saving a full pass over the buffer.
func backwardLastRoundScalar[V constraints.Unsigned](a Arithmetic[V], values, roots []V, gap, rho int, scalar V, start, end int) {

	r := roots[rho]
	scaledRoot := a.MulRootScalar(r, scalar)

	for j := start; j < end; j++ {
		u, v := values[j], values[j+gap]
		values[j] = a.MulScalar(a.Guard(a.Add(u, v)), scalar)
		values[j+gap] = a.MulRoot(a.Sub(u, v), scaledRoot)
	}
}
