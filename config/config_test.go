package config

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec"
)

// wifFor mirrors crypto.DecodeWIF's inverse for test fixtures; the crypto
// package exports no WIF or base58 encoder to reuse here.
func wifFor(t *testing.T, b byte) (wif string, pubkeyHex string) {
	t.Helper()
	var keyBytes [32]byte
	keyBytes[31] = b
	keyBytes[0] = 1

	payload := append([]byte{0x80}, keyBytes[:]...)
	payload = append(payload, 0x01)
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	full := append(payload, second[:4]...)
	wif = base58Encode(full)

	_, pub := btcec.PrivKeyFromBytes(btcec.S256(), keyBytes[:])
	return wif, hex.EncodeToString(pub.SerializeCompressed())
}

const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func base58Encode(b []byte) string {
	n := new(big.Int).SetBytes(b)
	base := big.NewInt(58)
	mod := new(big.Int)
	var out []byte
	zero := big.NewInt(0)
	for n.Cmp(zero) > 0 {
		n.DivMod(n, base, mod)
		out = append([]byte{alphabet[mod.Int64()]}, out...)
	}
	for _, x := range b {
		if x != 0 {
			break
		}
		out = append([]byte{'1'}, out...)
	}
	return string(out)
}

func TestResolveHappyPath(t *testing.T) {
	selfWIF, selfPub := wifFor(t, 1)
	_, otherPub := wifFor(t, 2)

	cfg := Config{
		PubkeyList: []string{selfPub, otherPub},
		PrivateKey: selfWIF,
		Threshold:  2,
	}
	r, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(r.Signers) != 2 || r.Threshold != 2 {
		t.Fatalf("unexpected resolved config: %+v", r)
	}

	found := false
	for _, id := range r.Signers {
		if id == r.Self {
			found = true
		}
	}
	if !found {
		t.Fatal("resolved self is not among the resolved signers")
	}
}

func TestResolveRejectsEmptyPubkeyList(t *testing.T) {
	selfWIF, _ := wifFor(t, 1)
	cfg := Config{PrivateKey: selfWIF, Threshold: 1}
	if _, err := cfg.Resolve(); err == nil {
		t.Fatal("expected an error for an empty pubkey list")
	}
}

func TestResolveRejectsBadThreshold(t *testing.T) {
	selfWIF, selfPub := wifFor(t, 1)
	cfg := Config{PubkeyList: []string{selfPub}, PrivateKey: selfWIF, Threshold: 2}
	if _, err := cfg.Resolve(); err == nil {
		t.Fatal("expected an error for a threshold exceeding the signer count")
	}
}

func TestResolveRejectsSelfNotInFederation(t *testing.T) {
	selfWIF, _ := wifFor(t, 1)
	_, other1 := wifFor(t, 2)
	_, other2 := wifFor(t, 3)
	cfg := Config{PubkeyList: []string{other1, other2}, PrivateKey: selfWIF, Threshold: 1}
	if _, err := cfg.Resolve(); err == nil {
		t.Fatal("expected an error when self is not among pubkey_list")
	}
}

func TestResolveRejectsMalformedWIF(t *testing.T) {
	_, selfPub := wifFor(t, 1)
	cfg := Config{PubkeyList: []string{selfPub}, PrivateKey: "not-a-valid-wif", Threshold: 1}
	if _, err := cfg.Resolve(); err == nil {
		t.Fatal("expected an error for a malformed WIF")
	}
}

func TestBuildRegistrySetsSelfIndex(t *testing.T) {
	selfWIF, selfPub := wifFor(t, 1)
	_, otherPub := wifFor(t, 2)
	cfg := Config{PubkeyList: []string{selfPub, otherPub}, PrivateKey: selfWIF, Threshold: 1}

	r, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	registry, err := cfg.BuildRegistry(r)
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	if idx := registry.SelfIndex(0); idx < 0 {
		t.Fatalf("SelfIndex = %d, want a valid index", idx)
	}
}
