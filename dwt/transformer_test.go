package dwt_test

import (
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	"github.com/Pro7ech/dwt/dwt"
	"github.com/Pro7ech/dwt/ring"
	"github.com/Pro7ech/dwt/utils"
	"github.com/Pro7ech/dwt/utils/concurrency"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func modMul(x, y, q uint64) uint64 {
	res := new(big.Int).Mul(new(big.Int).SetUint64(x), new(big.Int).SetUint64(y))
	return res.Mod(res, new(big.Int).SetUint64(q)).Uint64()
}

// mform switches each entry of p to the Montgomery domain.
func mform(p []uint64, q uint64) (out []uint64) {
	out = make([]uint64, len(p))
	ring.MFormVec(p, out, q, ring.GetBRedConstant(q))
	return
}

// TestTwoStageScenario pins the engine to hand-computed vectors:
// N=4, modulus 17, primitive 8th root psi=2, one interior stage (gap=2)
// and one final round.
func TestTwoStageScenario(t *testing.T) {

	modulus := uint64(17)

	// forward table: psi^bitreverse(i), psi = 2
	rootsForward := mform([]uint64{1, 4, 2, 8}, modulus)
	// backward table: (psi^-1)^(bitreverse(i-1)+1), psi^-1 = 9
	rootsBackward := mform([]uint64{1, 9, 15, 13}, modulus)

	tr := dwt.NewTransformer[uint64](ring.NewModArith(modulus), concurrency.Sequential{})

	p := []uint64{1, 2, 3, 4}
	require.NoError(t, tr.Forward(p, 2, rootsForward))
	require.Equal(t, []uint64{15, 11, 13, 16}, p)

	// scalar 1/4 mod 17 = 13, merged into the terminal stage of the
	// backward transform, round-trips exactly
	nInv := ring.MForm(13, modulus, ring.GetBRedConstant(modulus))
	require.NoError(t, tr.BackwardScaled(p, 2, rootsBackward, nInv))
	require.Equal(t, []uint64{1, 2, 3, 4}, p)

	// unscaled backward leaves the output multiplied by N=4
	p = []uint64{1, 2, 3, 4}
	require.NoError(t, tr.Forward(p, 2, rootsForward))
	require.NoError(t, tr.Backward(p, 2, rootsBackward))
	require.Equal(t, []uint64{4, 8, 12, 16}, p)
}

// TestTwoPointBoundary exercises logN = 1: the interior decomposition is
// never entered and the transform is the direct two-point butterfly.
func TestTwoPointBoundary(t *testing.T) {

	r, err := ring.NewRing(2, 17)
	require.NoError(t, err)

	q := r.Modulus
	psi := ring.IMForm(r.RootsForward[1], q, r.MRedConstant)

	a, b := uint64(5), uint64(11)

	p := []uint64{a, b}
	require.NoError(t, r.Forward(p))

	require.Equal(t, (a+modMul(psi, b, q))%q, p[0])
	require.Equal(t, (a+q-modMul(psi, b, q))%q, p[1])

	require.NoError(t, r.Backward(p))
	require.Equal(t, []uint64{a, b}, p)
}

// TestForwardReference compares the engine against the O(N^2) definition
// of the negacyclic DWT: out[bitreverse(k)] = sum_j p[j] * psi^((2k+1)*j).
func TestForwardReference(t *testing.T) {

	rng := rand.New(rand.NewSource(0))

	for _, N := range []int{2, 4, 16, 32} {

		r, err := ring.NewRing(N, 65537)
		require.NoError(t, err)

		t.Run(fmt.Sprintf("N=%d", N), func(t *testing.T) {

			q := r.Modulus
			logN := uint64(r.LogN())
			psi := ring.IMForm(r.RootsForward[1], q, r.MRedConstant)

			p := r.NewPoly()
			for i := range p {
				p[i] = rng.Uint64() % q
			}

			want := r.NewPoly()
			for k := 0; k < N; k++ {
				var acc uint64
				for j := 0; j < N; j++ {
					acc = ring.CRed(acc+modMul(p[j], ring.ModExp(psi, uint64((2*k+1)*j), q), q), q)
				}
				want[utils.BitReverse64(uint64(k), logN)] = acc
			}

			require.NoError(t, r.Forward(p))
			require.Empty(t, cmp.Diff(want, p))
		})
	}
}

// TestScalarMergeEquivalence checks that folding a scalar into the
// terminal stage equals a plain transform followed by an independent
// full-buffer scalar multiplication.
func TestScalarMergeEquivalence(t *testing.T) {

	rng := rand.New(rand.NewSource(0))

	for _, N := range []int{2, 4, 64, 512} {

		r, err := ring.NewRing(N, 0x3ee0001)
		require.NoError(t, err)

		t.Run(fmt.Sprintf("N=%d", N), func(t *testing.T) {

			scalar := uint64(12345) % r.Modulus

			p1 := r.NewPoly()
			for i := range p1 {
				p1[i] = rng.Uint64() % r.Modulus
			}
			p2 := make([]uint64, N)
			copy(p2, p1)

			require.NoError(t, r.ForwardScaled(p1, scalar))

			require.NoError(t, r.Forward(p2))
			r.MulScalar(p2, scalar, p2)

			require.Empty(t, cmp.Diff(p2, p1))

			// same law for the backward direction
			require.NoError(t, r.BackwardUnscaled(p1))
			r.MulScalar(p1, scalar, p1)

			require.NoError(t, r.Transformer().BackwardScaled(p2, r.LogN(), r.RootsBackward,
				ring.MForm(scalar, r.Modulus, r.BRedConstant)))

			require.Empty(t, cmp.Diff(p1, p2))
		})
	}
}

// rangeChecker wraps a Dispatcher and verifies the lazy reduction
// invariant after every stage barrier: no slot ever reaches 4*modulus.
type rangeChecker struct {
	inner   dwt.Dispatcher
	values  []uint64
	modulus uint64
	t       *testing.T
}

func (rc *rangeChecker) Dispatch(units int, kernel func(start, end int)) error {
	if err := rc.inner.Dispatch(units, kernel); err != nil {
		return err
	}
	for i, v := range rc.values {
		require.Less(rc.t, v, 4*rc.modulus, "slot %d out of the lazy range after a stage", i)
	}
	return nil
}

func TestRangeInvariant(t *testing.T) {

	rng := rand.New(rand.NewSource(0))

	primes, err := ring.GenDWTPrimes(61, 1<<11, 1)
	require.NoError(t, err)

	// largest supported modulus: the lazy bounds are tight
	q := primes[0]

	r, err := ring.NewRing(1024, q)
	require.NoError(t, err)

	rc := &rangeChecker{inner: concurrency.Sequential{}, modulus: q, t: t}
	tr := dwt.NewTransformer[uint64](ring.NewModArith(q), rc)

	p := r.NewPoly()
	for i := range p {
		p[i] = rng.Uint64() % q
	}
	rc.values = p

	require.NoError(t, tr.Forward(p, r.LogN(), r.RootsForward))
	for _, v := range p {
		require.Less(t, v, q)
	}

	require.NoError(t, tr.BackwardScaled(p, r.LogN(), r.RootsBackward, r.NInv))
	for _, v := range p {
		require.Less(t, v, q)
	}
}

// TestParallelMatchesSequential checks that a transform dispatched on a
// worker pool is bit-exact with the sequential reference mode.
func TestParallelMatchesSequential(t *testing.T) {

	rng := rand.New(rand.NewSource(0))

	primes, err := ring.GenDWTPrimes(55, 1<<13, 1)
	require.NoError(t, err)

	q := primes[0]

	r, err := ring.NewRing(4096, q)
	require.NoError(t, err)

	pool := concurrency.NewPool(0)
	defer pool.Close()

	seq := dwt.NewTransformer[uint64](ring.NewModArith(q), concurrency.Sequential{})
	par := dwt.NewTransformer[uint64](ring.NewModArith(q), pool)

	p1 := r.NewPoly()
	for i := range p1 {
		p1[i] = rng.Uint64() % q
	}
	p2 := make([]uint64, len(p1))
	copy(p2, p1)

	require.NoError(t, seq.Forward(p1, r.LogN(), r.RootsForward))
	require.NoError(t, par.Forward(p2, r.LogN(), r.RootsForward))
	require.Empty(t, cmp.Diff(p1, p2))

	require.NoError(t, seq.BackwardScaled(p1, r.LogN(), r.RootsBackward, r.NInv))
	require.NoError(t, par.BackwardScaled(p2, r.LogN(), r.RootsBackward, r.NInv))
	require.Empty(t, cmp.Diff(p1, p2))
}

func TestContractViolations(t *testing.T) {

	r, err := ring.NewRing(16, 65537)
	require.NoError(t, err)

	tr := r.Transformer()

	require.Panics(t, func() { _ = tr.Forward(r.NewPoly(), 0, r.RootsForward) })
	require.Panics(t, func() { _ = tr.Forward(make([]uint64, 8), r.LogN(), r.RootsForward) })
	require.Panics(t, func() { _ = tr.Forward(r.NewPoly(), r.LogN(), r.RootsForward[:8]) })
	require.Panics(t, func() { _ = tr.Backward(make([]uint64, 32), r.LogN(), r.RootsBackward) })
}

// TestDispatchFailure checks that a failing device aborts the call with
// the error surfaced instead of leaving it silent.
func TestDispatchFailure(t *testing.T) {

	r, err := ring.NewRing(16, 65537)
	require.NoError(t, err)

	pool := concurrency.NewPool(2)
	pool.Close()

	tr := dwt.NewTransformer[uint64](ring.NewModArith(r.Modulus), pool)

	require.ErrorIs(t, tr.Forward(r.NewPoly(), r.LogN(), r.RootsForward), concurrency.ErrClosed)
	require.ErrorIs(t, tr.Backward(r.NewPoly(), r.LogN(), r.RootsBackward), concurrency.ErrClosed)
}

func benchmarkTransform(b *testing.B, logN int, backward bool) {

	primes, err := ring.GenDWTPrimes(55, uint64(2<<logN), 1)
	require.NoError(b, err)

	r, err := ring.NewRing(1<<logN, primes[0])
	require.NoError(b, err)

	p := r.NewPoly()
	rng := rand.New(rand.NewSource(0))
	for i := range p {
		p[i] = rng.Uint64() % r.Modulus
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if backward {
			_ = r.Backward(p)
		} else {
			_ = r.Forward(p)
		}
	}
}

func BenchmarkForward(b *testing.B) {
	for _, logN := range []int{12, 14, 16} {
		b.Run(fmt.Sprintf("logN=%d", logN), func(b *testing.B) {
			benchmarkTransform(b, logN, false)
		})
	}
}

func BenchmarkBackward(b *testing.B) {
	for _, logN := range []int{12, 14, 16} {
		b.Run(fmt.Sprintf("logN=%d", logN), func(b *testing.B) {
			benchmarkTransform(b, logN, true)
		})
	}
}
