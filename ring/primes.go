package ring

import (
	"fmt"
	"math/big"
)

// IsPrime applies the Baillie-PSW, i.e. Miller-Rabin + Lucas primality test to res.
// It returns true if res is prime.
func IsPrime(res uint64) bool {
	return new(big.Int).SetUint64(res).ProbablyPrime(0)
}

// GetFactors returns all the distinct prime factors of m by
// trial division followed by Pollard's rho on the remaining cofactor.
func GetFactors(m uint64) (factors []uint64) {

	if m < 2 {
		return
	}

	appendFactor := func(p uint64) {
		for _, f := range factors {
			if f == p {
				return
			}
		}
		factors = append(factors, p)
	}

	for _, p := range []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31} {
		for m%p == 0 {
			appendFactor(p)
			m /= p
		}
	}

	var factor func(n uint64)
	factor = func(n uint64) {
		if n == 1 {
			return
		}
		if IsPrime(n) {
			appendFactor(n)
			return
		}
		d := pollardRho(n)
		factor(d)
		factor(n / d)
	}

	factor(m)

	return
}

// pollardRho returns a non-trivial factor of n, with n composite and odd.
func pollardRho(n uint64) uint64 {

	bredconstant := GetBRedConstant(n)

	gcd := func(a, b uint64) uint64 {
		for b != 0 {
			a, b = b, a%b
		}
		return a
	}

	for c := uint64(1); ; c++ {

		f := func(x uint64) uint64 {
			return CRed(BRed(x, x, n, bredconstant)+c, n)
		}

		x, y, d := uint64(2), uint64(2), uint64(1)

		for d == 1 {
			x = f(x)
			y = f(f(y))
			if x > y {
				d = gcd(x-y, n)
			} else {
				d = gcd(y-x, n)
			}
		}

		if d != n {
			return d
		}
	}
}

// CheckFactors checks that the given list of factors contains
// all the unique primes of m.
func CheckFactors(m uint64, factors []uint64) (err error) {

	for _, factor := range factors {
		if !IsPrime(factor) {
			return fmt.Errorf("composite factor %d", factor)
		}
		for m%factor == 0 {
			m /= factor
		}
	}

	if m != 1 {
		return fmt.Errorf("incomplete factor list: cofactor %d remains", m)
	}

	return
}

// PrimitiveRoot computes the smallest primitive root of the given prime q.
// The unique factors of q-1 can be given to speed up the search for the root.
func PrimitiveRoot(q uint64, factors []uint64) (uint64, []uint64, error) {

	if factors != nil {
		if err := CheckFactors(q-1, factors); err != nil {
			return 0, factors, err
		}
	} else {
		factors = GetFactors(q - 1)
	}

	notFoundPrimitiveRoot := true

	var g uint64 = 1

	for notFoundPrimitiveRoot {
		g++
		for _, factor := range factors {
			// if for any factor of q-1, g^(q-1)/factor = 1 mod q, g is not a primitive root
			if ModExp(g, (q-1)/factor, q) == 1 {
				notFoundPrimitiveRoot = true
				break
			}
			notFoundPrimitiveRoot = false
		}
	}

	return g, factors, nil
}

// CheckPrimitiveRoot checks that g is a valid primitive root mod q,
// given the factors of q-1.
func CheckPrimitiveRoot(g, q uint64, factors []uint64) (err error) {

	if err = CheckFactors(q-1, factors); err != nil {
		return
	}

	for _, factor := range factors {
		if ModExp(g, (q-1)/factor, q) == 1 {
			return fmt.Errorf("invalid primitive root %d", g)
		}
	}

	return
}

// GenDWTPrimes generates n primes of bit-size bitSize that are congruent
// to 1 mod nthRoot, hence enabling the negacyclic DWT of degree nthRoot/2.
func GenDWTPrimes(bitSize, nthRoot uint64, n int) (primes []uint64, err error) {

	if bitSize > 61 {
		return nil, fmt.Errorf("invalid bitSize: must be at most 61 to enable the lazy reduction discipline")
	}

	if bitSize < 2 {
		return nil, fmt.Errorf("invalid bitSize: must be at least 2")
	}

	// first candidate of the form 2^bitSize + 1 mod nthRoot below 2^(bitSize+1)
	candidate := uint64(1<<bitSize) + 1

	for len(primes) < n && candidate < uint64(1)<<(bitSize+1) {
		if IsPrime(candidate) {
			primes = append(primes, candidate)
		}
		candidate += nthRoot
	}

	if len(primes) != n {
		return nil, fmt.Errorf("cannot GenDWTPrimes: not enough primes of bit-size %d congruent to 1 mod %d", bitSize, nthRoot)
	}

	return
}
