package ring

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var testModuli = []uint64{17, 97, 65537, 0x3ee0001, 0x1fffffffffe00001}

func modMul(x, y, q uint64) uint64 {
	res := new(big.Int).Mul(new(big.Int).SetUint64(x), new(big.Int).SetUint64(y))
	return res.Mod(res, new(big.Int).SetUint64(q)).Uint64()
}

func TestCRed(t *testing.T) {
	for _, q := range testModuli {
		require.Equal(t, uint64(0), CRed(0, q))
		require.Equal(t, q-1, CRed(q-1, q))
		require.Equal(t, uint64(0), CRed(q, q))
		require.Equal(t, q-1, CRed(2*q-1, q))
	}
}

func TestBRed(t *testing.T) {

	rng := rand.New(rand.NewSource(0))

	for _, q := range testModuli {

		bredconstant := GetBRedConstant(q)

		for i := 0; i < 1024; i++ {

			x, y := rng.Uint64()%q, rng.Uint64()%q

			want := modMul(x, y, q)

			require.Equal(t, want, BRed(x, y, q, bredconstant))

			lazy := BRedLazy(x, y, q, bredconstant)
			require.Less(t, lazy, 2*q)
			require.Equal(t, want, CRed(lazy, q))
		}

		// BRedAdd reduces arbitrary words
		for i := 0; i < 1024; i++ {
			a := rng.Uint64()
			require.Equal(t, a%q, BRedAdd(a, q, bredconstant))
			require.Less(t, BRedAddLazy(a, q, bredconstant), 2*q)
			require.Equal(t, a%q, CRed(BRedAddLazy(a, q, bredconstant), q))
		}
	}
}

func TestMRed(t *testing.T) {

	rng := rand.New(rand.NewSource(0))

	for _, q := range testModuli {

		bredconstant := GetBRedConstant(q)
		mredconstant := GetMRedConstant(q)

		for i := 0; i < 1024; i++ {

			x, y := rng.Uint64()%q, rng.Uint64()%q

			want := modMul(x, y, q)

			// x * MForm(y) * 2^-64 = x*y mod q
			require.Equal(t, want, MRed(x, MForm(y, q, bredconstant), q, mredconstant))

			lazy := MRedLazy(x, MForm(y, q, bredconstant), q, mredconstant)
			require.Less(t, lazy, 2*q)
			require.Equal(t, want, CRed(lazy, q))
		}
	}
}

func TestMForm(t *testing.T) {

	rng := rand.New(rand.NewSource(0))

	for _, q := range testModuli {

		bredconstant := GetBRedConstant(q)
		mredconstant := GetMRedConstant(q)

		for i := 0; i < 1024; i++ {
			x := rng.Uint64() % q
			require.Equal(t, x, IMForm(MForm(x, q, bredconstant), q, mredconstant))
		}
	}
}

func TestModExp(t *testing.T) {

	for _, q := range testModuli {

		require.Equal(t, uint64(1), ModExp(1, 0xffff, q))
		require.Equal(t, uint64(1), ModExp(5, 0, q))

		// Fermat
		require.Equal(t, uint64(1), ModExp(2, q-1, q))

		for _, a := range []uint64{2, 3, 5, q - 2} {
			inv := ModInverse(a, q)
			require.Equal(t, uint64(1), modMul(a, inv, q))
		}

		bredconstant := GetBRedConstant(q)
		mredconstant := GetMRedConstant(q)

		x := uint64(7)
		want := ModExp(x, 1<<12, q)
		got := IMForm(ModExpMontgomery(MForm(x, q, bredconstant), 1<<12, q, mredconstant, bredconstant), q, mredconstant)
		require.Equal(t, want, got)
	}
}

func TestPrimes(t *testing.T) {

	require.True(t, IsPrime(2))
	require.True(t, IsPrime(0x1fffffffffe00001))
	require.False(t, IsPrime(1))
	require.False(t, IsPrime(0x3ee0001-1))

	factors := GetFactors(16)
	require.Equal(t, []uint64{2}, factors)

	// 0x3ee0001 - 1 = 2^17 * 503
	factors = GetFactors(0x3ee0001 - 1)
	require.ElementsMatch(t, []uint64{2, 503}, factors)
	require.NoError(t, CheckFactors(0x3ee0001-1, factors))
	require.Error(t, CheckFactors(0x3ee0001-1, []uint64{2}))

	g, factors, err := PrimitiveRoot(17, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(3), g)
	require.NoError(t, CheckPrimitiveRoot(g, 17, factors))
	require.Error(t, CheckPrimitiveRoot(2, 17, factors))
}

func TestGenDWTPrimes(t *testing.T) {

	primes, err := GenDWTPrimes(55, 1<<12, 3)
	require.NoError(t, err)
	require.Equal(t, 3, len(primes))

	for _, p := range primes {
		require.True(t, IsPrime(p))
		require.Equal(t, uint64(1), p&(1<<12-1))
		require.Equal(t, 56, big.NewInt(0).SetUint64(p).BitLen())
	}

	_, err = GenDWTPrimes(62, 1<<12, 1)
	require.Error(t, err)
}
