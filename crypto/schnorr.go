package crypto

import "math/big"

// Signature is an aggregated Schnorr signature (R.x, gamma) as defined in
// the GLOSSARY: gamma = k + e*x, e = H(R.x || Y || sighash).
type Signature struct {
	Rx    [32]byte
	Gamma *big.Int
}

// LocalPartialSignature computes this participant's contribution
// gamma_i = k_i + e*x_i to the aggregated signature (spec §4.7). The
// challenge e is an input, not a result.
func LocalPartialSignature(ki, xi *big.Int, e *big.Int) *big.Int {
	lskic := new(big.Int).Mul(xi, e)
	gamma := new(big.Int).Add(ki, lskic)
	return gamma.Mod(gamma, Order())
}

// VerifyPartialSignature checks that gamma_i*G - e*X_i equals the expected
// local nonce point derived from the sender's VSS commitments, per spec
// §4.7 "Master, on BlockSig".
func VerifyPartialSignature(gammaI *big.Int, e *big.Int, publicShare Point, expectedNonce Point) bool {
	lhs := BaseMul(gammaI)
	rhs := Add(expectedNonce, Mul(publicShare, e))
	return Eq(lhs, rhs)
}

// AggregateSignature combines the accepted partial signatures into the
// final Schnorr signature over (R, gamma), keyed by each participant's
// 1-based evaluation point.
//
// Each gamma_i = k_i + e*x_i is built from Shamir shares (of the combined
// nonce secret and of the long-term group secret) evaluated at i, not
// from the reconstructed secrets themselves; summing them unweighted does
// not recover k + e*x. Every gamma_i must first be scaled by its Lagrange
// coefficient over the participant point set, exactly as reconstructing
// any other Shamir-shared value would (spec §4.7, "Master, on reaching
// threshold partial signatures").
func AggregateSignature(r Point, gammas map[int]*big.Int) Signature {
	points := make([]int, 0, len(gammas))
	for p := range gammas {
		points = append(points, p)
	}

	gamma := big.NewInt(0)
	for p, g := range gammas {
		lambda := LagrangeCoefficient(p, points)
		weighted := new(big.Int).Mul(g, lambda)
		gamma.Add(gamma, weighted)
		gamma.Mod(gamma, Order())
	}
	return Signature{Rx: ToBytes32(r.X), Gamma: gamma}
}
