// Package crypto wraps secp256k1 point arithmetic, Feldman VSS sharing,
// Schnorr partial-signature aggregation, and the signer identity type used
// throughout the federation.
//
// The curve operations are grounded on the teacher's curve.go, generalized
// to use the module's declared btcec dependency instead of go-ethereum's
// secp256k1 package (not part of this module's dependency set).
package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
)

var curve = btcec.S256()

// Point is a point on the secp256k1 curve.
type Point struct {
	X *big.Int
	Y *big.Int
}

// BaseMul returns s*G.
func BaseMul(s *big.Int) Point {
	x, y := curve.ScalarBaseMult(modN(s).Bytes())
	return Point{x, y}
}

// Mul returns s*P.
func Mul(p Point, s *big.Int) Point {
	x, y := curve.ScalarMult(p.X, p.Y, modN(s).Bytes())
	return Point{x, y}
}

// Add returns a+b.
func Add(a, b Point) Point {
	x, y := curve.Add(a.X, a.Y, b.X, b.Y)
	return Point{x, y}
}

// Neg returns -p, with Y reduced into [0, P) so the result compares equal
// to any other representation of the same curve point.
func Neg(p Point) Point {
	y := new(big.Int).Neg(p.Y)
	y.Mod(y, curve.P)
	return Point{X: new(big.Int).Set(p.X), Y: y}
}

// Sub returns a-b.
func Sub(a, b Point) Point {
	return Add(a, Neg(b))
}

// Identity returns the point at infinity, represented canonically.
func Identity() Point {
	g := Point{new(big.Int).Set(curve.Gx), new(big.Int).Set(curve.Gy)}
	return Add(g, Neg(g))
}

// IsInfinity reports whether p is the point at infinity.
func IsInfinity(p Point) bool {
	return p.X.Sign() == 0 && p.Y.Sign() == 0
}

// HasEvenY reports the parity of the point's y-coordinate.
func HasEvenY(p Point) bool {
	return p.Y.Bit(0) == 0
}

// Eq reports whether two points are equal.
func Eq(a, b Point) bool {
	return a.X.Cmp(b.X) == 0 && a.Y.Cmp(b.Y) == 0
}

// Order returns the order of the secp256k1 group.
func Order() *big.Int {
	return new(big.Int).Set(curve.N)
}

// ToBytes32 serializes a scalar as a fixed 32-byte big-endian array.
func ToBytes32(x *big.Int) [32]byte {
	var b [32]byte
	x.FillBytes(b[:])
	return b
}

// FromBytes32 deserializes a fixed 32-byte big-endian array into a scalar.
func FromBytes32(b [32]byte) *big.Int {
	return new(big.Int).SetBytes(b[:])
}

// CompressedBytes serializes the point in 33-byte SEC1 compressed form.
func (p Point) CompressedBytes() []byte {
	out := make([]byte, 33)
	if p.Y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	xb := p.X.Bytes()
	copy(out[33-len(xb):], xb)
	return out
}

// PointFromCompressed parses a 33-byte SEC1 compressed point.
func PointFromCompressed(b []byte) (Point, error) {
	pub, err := btcec.ParsePubKey(b, curve)
	if err != nil {
		return Point{}, err
	}
	return Point{X: pub.X, Y: pub.Y}, nil
}

// LiftX recovers the point with the given x-coordinate and even y, BIP-340
// style. The bidirectional VSS nonce trick (spec §4.7) guarantees the
// aggregated nonce point used for any completed signature has even y, so
// this is sufficient to reconstruct R from a signature's x-only Rx.
func LiftX(x *big.Int) (Point, error) {
	p := curve.P
	ySq := new(big.Int).Exp(x, big.NewInt(3), p)
	ySq.Add(ySq, big.NewInt(7))
	ySq.Mod(ySq, p)

	y := new(big.Int).ModSqrt(ySq, p)
	if y == nil {
		return Point{}, fmt.Errorf("no curve point for x-coordinate")
	}
	if y.Bit(0) != 0 {
		y.Sub(p, y)
	}
	return Point{X: new(big.Int).Set(x), Y: y}, nil
}

// RandomScalar returns a uniformly random scalar modulo the group order.
func RandomScalar() (*big.Int, error) {
	b := make([]byte, 32)
	for {
		if _, err := rand.Read(b); err != nil {
			return nil, err
		}
		i := new(big.Int).SetBytes(b)
		if i.Cmp(curve.N) < 0 && i.Sign() != 0 {
			return i, nil
		}
	}
}

func modN(s *big.Int) *big.Int {
	return new(big.Int).Mod(s, curve.N)
}
