// Package dwt implements an in-place discrete weighted transform (DWT)
// over a finite ring of residues modulo a fixed modulus.
//
// The DWT is a variation on the discrete Fourier transform over arbitrary
// rings that realizes negacyclic convolution: the transform of size n uses
// the powers of a primitive 2n-th root of unity, so that the point-wise
// product of two transformed coefficient vectors, transformed back, equals
// the product of the two polynomials in Z[X]/(X^n+1).
//
// The engine decomposes an n-point transform into log2(n) sequential
// stages of parallel butterflies. Interior stages keep values in an
// extended range below four times the modulus (lazy reduction); only the
// terminal stage reduces to the canonical range. The forward transform
// takes input in natural order and leaves output in bit-reversed order,
// the backward transform takes bit-reversed input and restores natural
// order, so that a forward/backward pair composes to the identity without
// any explicit permutation pass.
package dwt

import (
	"github.com/Pro7ech/dwt/utils/concurrency"
	"golang.org/x/exp/constraints"
)

const (
	// MinimumGapForLoopUnrolledKernel is the smallest butterfly gap for
	// which a stage is dispatched on the unrolled large-gap kernel.
	MinimumGapForLoopUnrolledKernel = 4

	// Unroll is the fixed number of adjacent butterfly pairs processed by
	// one unit of the large-gap kernel. Within one butterfly group the
	// root is invariant, so batching adjacent pairs amortizes the root
	// lookup and keeps memory access contiguous.
	Unroll = 4
)

// Arithmetic is the capability set of bounded single-word modular
// operations consumed by the stage kernels, for a residue type V.
// Roots and scalars are opaque to the engine; they are simply handed
// back to the Arithmetic along with buffer values.
//
// The operations must satisfy the numeric contracts of the lazy
// reduction discipline, for a modulus M:
//
//	Guard(x)            x in [0,4M)        -> [0,2M)
//	Add(u, v)           no reduction       -> u+v
//	Sub(u, v)           kept non-negative  -> u-v+2M
//	MulRoot(x, r)                          -> [0,M)
//	MulRootLazy(x, r)                      -> [0,2M)
//	MulScalar(u, s)                        -> [0,M)
//	MulRootScalar(r, s) root times scalar, usable as a root
//	Reduce(x)           x in [0,4M)        -> [0,M)
type Arithmetic[V constraints.Unsigned] interface {
	Guard(x V) V
	Add(u, v V) V
	Sub(u, v V) V
	MulRoot(x, r V) V
	MulRootLazy(x, r V) V
	MulScalar(u, s V) V
	MulRootScalar(r, s V) V
	Reduce(x V) V
}

// Dispatcher abstracts the device executing one stage of the transform.
// Dispatch runs kernel over the logical index domain [0, units), possibly
// concurrently and in any order, and blocks until every unit has executed.
// The blocking is mandatory: stage k+1 of the transform reads values
// written by stage k.
//
// Units of a single dispatch never alias each other's buffer slots, so a
// Dispatcher is free to partition the domain arbitrarily.
type Dispatcher interface {
	Dispatch(units int, kernel func(start, end int)) error
}

// Transformer computes forward and backward DWTs of power-of-two size,
// in place, on an [Arithmetic] and a [Dispatcher].
//
// A Transformer is safe for concurrent use on distinct buffers.
type Transformer[V constraints.Unsigned] struct {
	arith Arithmetic[V]
	disp  Dispatcher
}

// NewTransformer instantiates a new [Transformer]. If disp is nil, a
// [concurrency.Pool] with one worker per available CPU is used.
func NewTransformer[V constraints.Unsigned](arith Arithmetic[V], disp Dispatcher) *Transformer[V] {
	if disp == nil {
		disp = concurrency.NewPool(0)
	}
	return &Transformer[V]{arith: arith, disp: disp}
}
