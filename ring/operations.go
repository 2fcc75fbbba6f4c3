// Package ring implements single-word modular arithmetic and the
// precomputations required by the discrete weighted transform, for
// moduli enabling negacyclic convolution in Z[X]/(X^N+1).
package ring

import (
	"math/big"
	"math/bits"
)

// CRed returns a mod q where a is required to be in the range [0, 2q-1].
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}

// GetBRedConstant computes the constant for the BRed algorithm.
// Returns [floor(2^128/q) / 2^64, floor(2^128/q) mod 2^64].
func GetBRedConstant(q uint64) [2]uint64 {
	bigR := new(big.Int).Lsh(new(big.Int).SetUint64(1), 128)
	bigR.Quo(bigR, new(big.Int).SetUint64(q))

	mhi := new(big.Int).Rsh(bigR, 64).Uint64()
	mlo := bigR.Uint64()

	return [2]uint64{mhi, mlo}
}

// BRedAdd computes a mod q where a is required to be at most 64 bits.
func BRedAdd(a, q uint64, bredconstant [2]uint64) (r uint64) {
	mhi, _ := bits.Mul64(a, bredconstant[0])
	r = a - mhi*q
	if r >= q {
		r -= q
	}
	return
}

// BRedAddLazy computes a mod q in constant time.
// The result is between 0 and 2*q-1.
func BRedAddLazy(a, q uint64, bredconstant [2]uint64) uint64 {
	mhi, _ := bits.Mul64(a, bredconstant[0])
	return a - mhi*q
}

// BRed computes x*y mod q.
func BRed(x, y, q uint64, bredconstant [2]uint64) (r uint64) {
	r = BRedLazy(x, y, q, bredconstant)
	if r >= q {
		r -= q
	}
	return
}

// BRedLazy computes x*y mod q in constant time.
// The result is between 0 and 2*q-1.
func BRedLazy(x, y, q uint64, bredconstant [2]uint64) (r uint64) {

	mhi, mlo := bits.Mul64(x, y)

	// Computes the quotient estimate floor((mhi*2^64 + mlo) * (2^128/q) / 2^128)
	hhi, _ := bits.Mul64(mlo, bredconstant[1])

	t0hi, t0lo := bits.Mul64(mhi, bredconstant[1])
	t1hi, t1lo := bits.Mul64(mlo, bredconstant[0])

	lo, carry := bits.Add64(t0lo, t1lo, 0)
	hi := t0hi + t1hi + carry

	_, carry = bits.Add64(lo, hhi, 0)
	hi += carry

	// r = x*y - floor(x*y/q)*q, exact mod 2^64 since the result fits a word
	r = mlo - (mhi*bredconstant[0]+hi)*q

	return
}

// GetMRedConstant computes the constant qInv = (q^-1) mod 2^64 required for MRed.
func GetMRedConstant(q uint64) (qInv uint64) {
	qInv = q

	// Newton iteration, doubles the number of correct bits each step
	for i := 0; i < 5; i++ {
		qInv *= 2 - q*qInv
	}

	return
}

// MForm switches a to the Montgomery domain by computing a*2^64 mod q.
func MForm(a, q uint64, bredconstant [2]uint64) (r uint64) {
	mhi, _ := bits.Mul64(a, bredconstant[1])
	r = -(a*bredconstant[0] + mhi) * q
	if r >= q {
		r -= q
	}
	return
}

// IMForm switches a from the Montgomery domain back to the
// standard domain by computing a*(1/2^64) mod q.
func IMForm(a, q, qInv uint64) (r uint64) {
	r, _ = bits.Mul64(a*qInv, q)
	r = q - r
	if r >= q {
		r -= q
	}
	return
}

// MRed computes x*y*(1/2^64) mod q.
func MRed(x, y, q, qInv uint64) (r uint64) {
	mhi, mlo := bits.Mul64(x, y)
	hhi, _ := bits.Mul64(mlo*qInv, q)
	r = mhi - hhi + q
	if r >= q {
		r -= q
	}
	return
}

// MRedLazy computes x*y*(1/2^64) mod q in constant time.
// The result is between 0 and 2*q-1.
func MRedLazy(x, y, q, qInv uint64) (r uint64) {
	mhi, mlo := bits.Mul64(x, y)
	hhi, _ := bits.Mul64(mlo*qInv, q)
	return mhi - hhi + q
}

// ModExp performs the modular exponentiation x^e mod q,
// x and q are required to be at most 64 bits to avoid an overflow.
func ModExp(x, e, q uint64) (result uint64) {
	bredconstant := GetBRedConstant(q)
	result = 1
	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			result = BRed(result, x, q, bredconstant)
		}
		x = BRed(x, x, q, bredconstant)
	}
	return result
}

// ModExpMontgomery performs the modular exponentiation x^e mod q in the
// Montgomery domain, with x in the Montgomery domain.
func ModExpMontgomery(x, e, q, qInv uint64, bredconstant [2]uint64) (result uint64) {
	result = MForm(1, q, bredconstant)
	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			result = MRed(result, x, q, qInv)
		}
		x = MRed(x, x, q, qInv)
	}
	return result
}

// ModInverse computes the multiplicative inverse of a mod q, with q prime.
func ModInverse(a, q uint64) uint64 {
	return ModExp(a, q-2, q)
}
