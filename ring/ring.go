package ring

import (
	"fmt"
	"math/bits"

	"github.com/Pro7ech/dwt/dwt"
	"github.com/Pro7ech/dwt/utils"
)

// MaxModulusBits is the largest modulus bit-size enabling the lazy
// reduction discipline of the transform: intermediate butterfly values
// reach 4*Modulus and must fit a word.
const MaxModulusBits = 61

// DWTTable stores all the constants that are specifically tied to the DWT.
type DWTTable struct {
	NthRoot       uint64   // 2N, the order of the primitive root of unity
	PrimitiveRoot uint64   // smallest generator of Z_q^*
	RootsForward  []uint64 // powers of the 2N-th primitive root in Montgomery form (bit-reversed order)
	RootsBackward []uint64 // powers of its inverse in Montgomery form (scrambled order, see GenDWTTable)
	NInv          uint64   // N^-1 mod Modulus in Montgomery form
}

// Ring is a struct storing the precomputations for fast modular reduction
// and the negacyclic DWT for a given prime modulus, i.e. the evaluation
// machinery of Z[X]/(X^N+1) with coefficients mod Modulus.
type Ring struct {
	// Polynomial degree
	N int

	Modulus uint64

	// Unique factors of Modulus-1
	Factors []uint64

	// Fast reduction constants
	BRedConstant [2]uint64 // Barrett Reduction
	MRedConstant uint64    // Montgomery Reduction

	*DWTTable // DWT related constants

	arith       ModArith
	transformer *dwt.Transformer[uint64]
}

// NewRing creates a new [Ring] with degree N and prime modulus Modulus and
// generates its DWT table on the default dispatcher. An error is returned
// with a nil *Ring in the case of non DWT-enabling parameters.
func NewRing(N int, Modulus uint64) (*Ring, error) {
	return NewRingWithDispatcher(N, Modulus, nil)
}

// NewRingWithDispatcher creates a new [Ring] whose transforms are issued
// on the given [dwt.Dispatcher]. If disp is nil, a default worker pool
// shared by all transforms of the Ring is used.
func NewRingWithDispatcher(N int, Modulus uint64, disp dwt.Dispatcher) (r *Ring, err error) {

	if !utils.IsPowerOfTwo(N) || N < 2 {
		return nil, fmt.Errorf("invalid ring degree: N=%d must be a power of 2 greater than 1", N)
	}

	if bits.Len64(Modulus) > MaxModulusBits {
		return nil, fmt.Errorf("invalid modulus: %d exceeds %d bits", Modulus, MaxModulusBits)
	}

	r = &Ring{}

	r.N = N
	r.Modulus = Modulus

	r.BRedConstant = GetBRedConstant(Modulus)
	r.MRedConstant = GetMRedConstant(Modulus)

	r.arith = NewModArith(Modulus)
	r.transformer = dwt.NewTransformer[uint64](r.arith, disp)

	r.DWTTable = &DWTTable{NthRoot: uint64(2 * N)}

	if err = r.GenDWTTable(); err != nil {
		return nil, err
	}

	return
}

// LogN returns log2(N).
func (r *Ring) LogN() int {
	return bits.Len64(uint64(r.N) - 1)
}

// NewPoly allocates a zero coefficient vector of degree N.
func (r *Ring) NewPoly() []uint64 {
	return make([]uint64, r.N)
}

// Arith returns the [ModArith] of the Ring.
func (r *Ring) Arith() ModArith {
	return r.arith
}

// Transformer returns the [dwt.Transformer] of the Ring.
func (r *Ring) Transformer() *dwt.Transformer[uint64] {
	return r.transformer
}

// GenDWTTable generates the DWT tables of the Ring. The fields
// PrimitiveRoot and Factors can be set manually beforehand to bypass the
// search for the primitive root (which requires factoring Modulus-1).
//
// Table ordering: RootsForward[i] holds the bitreverse(i)-th power of the
// primitive 2N-th root psi, so that stage m of the forward transform
// reads its roots contiguously at offsets [m, 2m). RootsBackward[i]
// holds the (bitreverse(i-1)+1)-th power of psi^-1; this unnatural order
// gives the mirrored backward schedule the same contiguous access
// pattern. Index 0 of both tables is reserved.
func (r *Ring) GenDWTTable() (err error) {

	if r.N == 0 || r.Modulus == 0 {
		return fmt.Errorf("invalid ring parameters (missing)")
	}

	Modulus := r.Modulus
	NthRoot := r.NthRoot

	if !IsPrime(Modulus) {
		return fmt.Errorf("invalid modulus: %d is not prime", Modulus)
	}

	if Modulus&(NthRoot-1) != 1 {
		return fmt.Errorf("invalid modulus: %d != 1 mod NthRoot=%d", Modulus, NthRoot)
	}

	// It is possible to manually set the primitive root along with the
	// factors of q-1. If both are set, checks that the root is indeed
	// primitive. Else, factorizes q-1 and finds a primitive root.
	if r.PrimitiveRoot != 0 && r.Factors != nil {
		if err = CheckPrimitiveRoot(r.PrimitiveRoot, Modulus, r.Factors); err != nil {
			return
		}
	} else {
		if r.PrimitiveRoot, r.Factors, err = PrimitiveRoot(Modulus, r.Factors); err != nil {
			return
		}
	}

	logN := uint64(bits.Len64(NthRoot>>1) - 1)
	n := NthRoot >> 1

	// N^(-1) mod Modulus in Montgomery form
	r.NInv = MForm(ModInverse(n, Modulus), Modulus, r.BRedConstant)

	// Psi is a primitive 2N-th root: Psi^N = -1 mod Modulus
	Psi := ModExp(r.PrimitiveRoot, (Modulus-1)/NthRoot, Modulus)

	if ModExp(Psi, NthRoot>>1, Modulus) != Modulus-1 {
		return fmt.Errorf("invalid 2Nth primitive root: psi^N != -1 mod Modulus, something went wrong")
	}

	PsiMont := MForm(Psi, Modulus, r.BRedConstant)
	PsiInvMont := MForm(ModInverse(Psi, Modulus), Modulus, r.BRedConstant)

	r.RootsForward = make([]uint64, n)
	r.RootsBackward = make([]uint64, n)

	r.RootsForward[0] = MForm(1, Modulus, r.BRedConstant)
	r.RootsBackward[0] = MForm(1, Modulus, r.BRedConstant)

	// RootsForward[bitreverse(j)] = RootsForward[bitreverse(j-1)] * Psi
	for j := uint64(1); j < n; j++ {

		indexReversePrev := utils.BitReverse64(j-1, logN)
		indexReverseNext := utils.BitReverse64(j, logN)

		r.RootsForward[indexReverseNext] = MRed(r.RootsForward[indexReversePrev], PsiMont, Modulus, r.MRedConstant)
	}

	// RootsBackward[bitreverse(j-1)+1] = PsiInv^j
	power := r.RootsBackward[0]
	for j := uint64(1); j < n; j++ {
		power = MRed(power, PsiInvMont, Modulus, r.MRedConstant)
		r.RootsBackward[utils.BitReverse64(j-1, logN)+1] = power
	}

	return
}

// Forward evaluates the forward DWT of p in place: input in natural
// order and canonical range, output in bit-reversed order and canonical
// range. The length of p must be exactly N.
func (r *Ring) Forward(p []uint64) error {
	return r.transformer.Forward(p, r.LogN(), r.RootsForward)
}

// ForwardScaled evaluates the forward DWT of p in place and multiplies
// every output slot by scalar, folded into the terminal stage.
func (r *Ring) ForwardScaled(p []uint64, scalar uint64) error {
	return r.transformer.ForwardScaled(p, r.LogN(), r.RootsForward, MForm(scalar, r.Modulus, r.BRedConstant))
}

// Backward evaluates the inverse DWT of p in place: input in bit-reversed
// order (as left by [Ring.Forward]), output in natural order and
// canonical range. The 1/N normalization is merged into the terminal
// stage of the transform.
func (r *Ring) Backward(p []uint64) error {
	return r.transformer.BackwardScaled(p, r.LogN(), r.RootsBackward, r.NInv)
}

// BackwardUnscaled evaluates the inverse DWT of p in place without the
// 1/N normalization, leaving outputs scaled by N.
func (r *Ring) BackwardUnscaled(p []uint64) error {
	return r.transformer.Backward(p, r.LogN(), r.RootsBackward)
}
