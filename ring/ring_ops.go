package ring

// Add evaluates p3 = p1 + p2 mod Modulus.
func (r *Ring) Add(p1, p2, p3 []uint64) {
	AddVec(p1, p2, p3, r.Modulus)
}

// Sub evaluates p3 = p1 - p2 mod Modulus.
func (r *Ring) Sub(p1, p2, p3 []uint64) {
	SubVec(p1, p2, p3, r.Modulus)
}

// Reduce evaluates p2 = p1 mod Modulus.
func (r *Ring) Reduce(p1, p2 []uint64) {
	BarrettReduceVec(p1, p2, r.Modulus, r.BRedConstant)
}

// MForm switches p1 to the Montgomery domain.
func (r *Ring) MForm(p1, p2 []uint64) {
	MFormVec(p1, p2, r.Modulus, r.BRedConstant)
}

// IMForm switches p1 back from the Montgomery domain.
func (r *Ring) IMForm(p1, p2 []uint64) {
	IMFormVec(p1, p2, r.Modulus, r.MRedConstant)
}

// MulCoeffsMontgomery evaluates p3 = p1 * p2 mod Modulus, with p2 in the
// Montgomery domain. This is the point-wise product of the evaluation
// representation: for p1, p2 the forward DWT of two coefficient vectors,
// the inverse DWT of p3 is their negacyclic convolution.
func (r *Ring) MulCoeffsMontgomery(p1, p2, p3 []uint64) {
	MulMontgomeryReduceVec(p1, p2, p3, r.Modulus, r.MRedConstant)
}

// MulScalar evaluates p2 = p1 * scalar mod Modulus.
func (r *Ring) MulScalar(p1 []uint64, scalar uint64, p2 []uint64) {
	MulScalarMontgomeryReduceVec(p1, MForm(scalar, r.Modulus, r.BRedConstant), p2, r.Modulus, r.MRedConstant)
}
