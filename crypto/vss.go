package crypto

import (
	"fmt"
	"math/big"
)

// VSSScheme is a Feldman verifiable-secret-sharing commitment vector: the
// base-point commitments to a dealer's polynomial coefficients, lowest
// degree first. VSSScheme[0] is the commitment to the shared secret itself.
//
// Grounded on the teacher's poly.go (GenPoly/CalculatePoly), generalized
// from a plain secret-sharing scheme into a verifiable one by carrying the
// per-coefficient commitments alongside the shares, as spec §3 requires.
type VSSScheme struct {
	Commitments []Point
}

// Share is a single evaluation of a dealer's polynomial, destined for the
// participant at EvalPoint.
type Share struct {
	EvalPoint int
	Value     *big.Int
}

// GeneratePolynomial samples a random polynomial of degree threshold-1 whose
// constant term is secret.
func GeneratePolynomial(secret *big.Int, threshold int) ([]*big.Int, error) {
	coeffs := make([]*big.Int, threshold)
	coeffs[0] = new(big.Int).Mod(secret, Order())
	for i := 1; i < threshold; i++ {
		c, err := RandomScalar()
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}
	return coeffs, nil
}

// EvaluatePolynomial computes f(x) mod the group order for the polynomial
// represented by coeffs (lowest degree first).
func EvaluatePolynomial(coeffs []*big.Int, x int) *big.Int {
	result := new(big.Int)
	bigX := big.NewInt(int64(x))
	pow := big.NewInt(1)
	for _, c := range coeffs {
		term := new(big.Int).Mul(pow, c)
		result.Add(result, term)
		pow.Mul(pow, bigX)
	}
	return result.Mod(result, Order())
}

// CommitPolynomial computes the Feldman commitment vector g^{a_0}, g^{a_1}, ...
func CommitPolynomial(coeffs []*big.Int) VSSScheme {
	commitments := make([]Point, len(coeffs))
	for i, c := range coeffs {
		commitments[i] = BaseMul(c)
	}
	return VSSScheme{Commitments: commitments}
}

// ShareAtIndices deals shares of secret to every evaluation point in
// 1..n inclusive under the given threshold, returning the VSS commitment
// and one share per recipient index.
func ShareAtIndices(secret *big.Int, threshold, n int) (VSSScheme, []Share, error) {
	coeffs, err := GeneratePolynomial(secret, threshold)
	if err != nil {
		return VSSScheme{}, nil, err
	}
	scheme := CommitPolynomial(coeffs)
	shares := make([]Share, n)
	for i := 0; i < n; i++ {
		point := i + 1
		shares[i] = Share{EvalPoint: point, Value: EvaluatePolynomial(coeffs, point)}
	}
	return scheme, shares, nil
}

// VerifyShare checks that share is consistent with scheme at evalPoint:
// g^share == sum_i commitments[i]^(evalPoint^i).
func VerifyShare(scheme VSSScheme, evalPoint int, share *big.Int) bool {
	lhs := BaseMul(share)
	return Eq(lhs, scheme.CommitmentAt(evalPoint))
}

// CommitmentAt evaluates the dealer's commitment polynomial at x without
// requiring the secret: sum_i commitments[i]^(x^i). Used to derive a
// participant's public share from one dealer's contribution, and summed
// across dealers to get that participant's full aggregated public share
// (spec §4.5, §4.7).
func (s VSSScheme) CommitmentAt(x int) Point {
	rhs := s.Commitments[0]
	pow := big.NewInt(1)
	bigX := big.NewInt(int64(x))
	for i := 1; i < len(s.Commitments); i++ {
		pow.Mul(pow, bigX)
		rhs = Add(rhs, Mul(s.Commitments[i], pow))
	}
	return rhs
}

// SecretCommitment returns the commitment to the constant term of the
// dealer's polynomial, i.e. g^secret — used to aggregate the group public
// key from every dealer's contribution.
func (s VSSScheme) SecretCommitment() (Point, error) {
	if len(s.Commitments) == 0 {
		return Point{}, fmt.Errorf("empty vss scheme")
	}
	return s.Commitments[0], nil
}

// LagrangeCoefficient computes lambda_i(0), the Lagrange basis polynomial
// for evaluation point xi evaluated at 0, over the point set points: the
// weight a Shamir share at xi must carry before summing shares to
// reconstruct a secret shared among exactly the signers at points.
//
// Grounded on the teacher's poly.go (deriveInterpolatingValue): numerator
// accumulates every other point's x-coordinate, denominator accumulates
// (x_j - x_i), and the result is numerator * denominator^-1 mod the group
// order.
func LagrangeCoefficient(xi int, points []int) *big.Int {
	num := big.NewInt(1)
	den := big.NewInt(1)
	bigXi := big.NewInt(int64(xi))
	for _, xj := range points {
		if xj == xi {
			continue
		}
		bigXj := big.NewInt(int64(xj))
		num.Mul(num, bigXj)
		num.Mod(num, Order())
		den.Mul(den, new(big.Int).Sub(bigXj, bigXi))
		den.Mod(den, Order())
	}
	den.ModInverse(den, Order())
	return num.Mul(num, den).Mod(num, Order())
}
