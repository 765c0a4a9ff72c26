package crypto

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
)

// base58Alphabet is the Bitcoin base58 alphabet, used by DecodeWIF below.
//
// No dependency in this module's pack provides a base58/WIF decoder (the
// teacher's go.mod carries only the bare btcec package, not btcutil), so
// this narrow decode is implemented directly on the standard library. See
// DESIGN.md for the justification entry.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func base58Decode(s string) ([]byte, error) {
	result := new(big.Int)
	base := big.NewInt(58)
	for _, r := range s {
		idx := -1
		for i, c := range base58Alphabet {
			if c == r {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, fmt.Errorf("invalid base58 character %q", r)
		}
		result.Mul(result, base)
		result.Add(result, big.NewInt(int64(idx)))
	}

	decoded := result.Bytes()

	// Restore leading zero bytes, each encoded as a leading '1'.
	numLeadingZeros := 0
	for _, r := range s {
		if r != '1' {
			break
		}
		numLeadingZeros++
	}

	out := make([]byte, numLeadingZeros+len(decoded))
	copy(out[numLeadingZeros:], decoded)
	return out, nil
}

// DecodeWIF decodes a Wallet Import Format private key into a btcec private
// key, validating the trailing double-SHA256 checksum, the payload length,
// and the version byte (0x80 mainnet or 0xef testnet).
func DecodeWIF(wif string) (*btcec.PrivateKey, error) {
	decoded, err := base58Decode(wif)
	if err != nil {
		return nil, fmt.Errorf("decode wif: %w", err)
	}
	if len(decoded) < 5 {
		return nil, fmt.Errorf("wif too short")
	}

	payload := decoded[:len(decoded)-4]
	checksum := decoded[len(decoded)-4:]

	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	for i := 0; i < 4; i++ {
		if checksum[i] != second[i] {
			return nil, fmt.Errorf("wif checksum mismatch")
		}
	}

	// payload = version(1) || key(32) || [compressed-flag(1)]
	if len(payload) != 33 && len(payload) != 34 {
		return nil, fmt.Errorf("wif payload has invalid length %d", len(payload))
	}
	if payload[0] != 0x80 && payload[0] != 0xef {
		return nil, fmt.Errorf("wif has unknown version byte %#x", payload[0])
	}
	keyBytes := payload[1:33]
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), keyBytes)
	return priv, nil
}

// PublicKeyFor returns the compressed-serializable public key for priv.
func PublicKeyFor(priv *btcec.PrivateKey) *btcec.PublicKey {
	return priv.PubKey()
}
