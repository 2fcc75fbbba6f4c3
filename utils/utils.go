// Package utils implements small helpers shared across the module.
package utils

// BitReverse64 returns the bit-reversal of the first bitLen bits of index.
func BitReverse64(index, bitLen uint64) (revIndex uint64) {
	for i := uint64(0); i < bitLen; i++ {
		revIndex |= ((index >> i) & 1) << (bitLen - 1 - i)
	}
	return
}

// IsPowerOfTwo reports whether x is a non-zero power of two.
func IsPowerOfTwo(x int) bool {
	return x > 0 && x&(x-1) == 0
}

// Min returns the minimum between two int.
func Min(x, y int) int {
	if x > y {
		return y
	}
	return x
}
