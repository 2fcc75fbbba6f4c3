package ring

// ModArith implements the bounded modular operations consumed by the
// transform kernels for a single uint64 modulus. Roots and scalars are
// expected in the Montgomery domain.
//
// The operations follow the lazy reduction discipline of the engine:
// interior butterflies keep values below 4*Modulus and only the final
// round reduces to the canonical range [0, Modulus).
type ModArith struct {
	Modulus      uint64
	TwoModulus   uint64
	MRedConstant uint64
}

// NewModArith returns the [ModArith] for the given modulus.
// The modulus is required to be odd and below 2^61 so that no
// intermediate value of the lazy discipline overflows a word.
func NewModArith(modulus uint64) ModArith {
	return ModArith{
		Modulus:      modulus,
		TwoModulus:   modulus << 1,
		MRedConstant: GetMRedConstant(modulus),
	}
}

// Guard brings x from [0, 4*Modulus) back under 2*Modulus
// with a single conditional subtraction.
func (a ModArith) Guard(x uint64) uint64 {
	if x >= a.TwoModulus {
		x -= a.TwoModulus
	}
	return x
}

// Add returns u + v without reduction.
// For u < 2*Modulus and v < Modulus the result is below 3*Modulus.
func (a ModArith) Add(u, v uint64) uint64 {
	return u + v
}

// Sub returns u - v + 2*Modulus, kept non-negative.
// For u < 2*Modulus and v < 2*Modulus the result is below 4*Modulus.
func (a ModArith) Sub(u, v uint64) uint64 {
	return u + a.TwoModulus - v
}

// MulRoot returns x*r mod Modulus in [0, Modulus),
// with r in the Montgomery domain.
func (a ModArith) MulRoot(x, r uint64) uint64 {
	return MRed(x, r, a.Modulus, a.MRedConstant)
}

// MulRootLazy returns x*r mod Modulus in [0, 2*Modulus),
// with r in the Montgomery domain.
func (a ModArith) MulRootLazy(x, r uint64) uint64 {
	return MRedLazy(x, r, a.Modulus, a.MRedConstant)
}

// MulScalar returns u*s mod Modulus in [0, Modulus),
// with s in the Montgomery domain.
func (a ModArith) MulScalar(u, s uint64) uint64 {
	return MRed(u, s, a.Modulus, a.MRedConstant)
}

// MulRootScalar returns r*s mod Modulus in [0, Modulus), with both r and s
// in the Montgomery domain. The result remains in the Montgomery domain.
func (a ModArith) MulRootScalar(r, s uint64) uint64 {
	return MRed(r, s, a.Modulus, a.MRedConstant)
}

// Reduce brings x from [0, 4*Modulus) to the canonical range [0, Modulus).
func (a ModArith) Reduce(x uint64) uint64 {
	if x >= a.TwoModulus {
		x -= a.TwoModulus
	}
	if x >= a.Modulus {
		x -= a.Modulus
	}
	return x
}
