// Package config defines the signer's runtime configuration and the
// validation that turns CLI input into the values a node.Config is built
// from (spec §6).
package config

import (
	"time"

	"github.com/btcsuite/btcd/btcec"

	"github.com/tapyrus-federation/signerd/crypto"
	"github.com/tapyrus-federation/signerd/federation"
	"github.com/tapyrus-federation/signerd/signererr"
)

// Config mirrors the Rust original's NodeParameters / CLI surface (spec
// §6): the federation's pubkey list, this node's private key, the
// threshold, the RPC and transport endpoints, and the operational knobs.
type Config struct {
	PubkeyList []string
	PrivateKey string // WIF-encoded

	Threshold int

	RPCHost string
	RPCPort int
	RPCUser string
	RPCPass string

	TransportHost string
	TransportPort int

	MasterFlag bool

	RoundDuration time.Duration
	LogLevel      string
	Quiet         bool
	SkipIBD       bool
}

// Resolved is the parsed, validated form of Config, ready to build a
// federation.Registry and a node.Config from.
type Resolved struct {
	Self       crypto.SignerID
	PrivateKey *btcec.PrivateKey
	Signers    []crypto.SignerID
	Threshold  int
}

// Resolve parses and validates c, producing the typed values the rest of
// the system depends on. All failures are signererr.Config, fatal per
// spec §7.
func (c Config) Resolve() (Resolved, error) {
	priv, err := crypto.DecodeWIF(c.PrivateKey)
	if err != nil {
		return Resolved{}, signererr.New(signererr.Config, "decode private key", err)
	}
	self := crypto.SignerIDFromPublicKey(crypto.PublicKeyFor(priv))

	if len(c.PubkeyList) == 0 {
		return Resolved{}, signererr.New(signererr.Config, "validate pubkey list", errEmptyPubkeyList)
	}

	signers := make([]crypto.SignerID, 0, len(c.PubkeyList))
	for _, hexKey := range c.PubkeyList {
		b, err := decodeHexPubkey(hexKey)
		if err != nil {
			return Resolved{}, signererr.New(signererr.Config, "parse pubkey_list", err)
		}
		id, err := crypto.ParseSignerID(b)
		if err != nil {
			return Resolved{}, signererr.New(signererr.Config, "parse pubkey_list", err)
		}
		signers = append(signers, id)
	}
	crypto.SortSignerIDs(signers)

	if c.Threshold < 1 || c.Threshold > len(signers) {
		return Resolved{}, signererr.New(signererr.Config, "validate threshold", errBadThreshold)
	}

	found := false
	for _, id := range signers {
		if id == self {
			found = true
			break
		}
	}
	if !found {
		return Resolved{}, signererr.New(signererr.Config, "validate private key", errSelfNotInFederation)
	}

	return Resolved{Self: self, PrivateKey: priv, Signers: signers, Threshold: c.Threshold}, nil
}

// BuildRegistry constructs the single-federation Registry this
// configuration describes, activation height 0 (spec §4.1: "a single
// federation, activation height 0, is the common case").
func (c Config) BuildRegistry(r Resolved) (*federation.Registry, error) {
	selfIndex := -1
	for i, id := range r.Signers {
		if id == r.Self {
			selfIndex = i
			break
		}
	}
	fed := federation.Federation{
		ActivationHeight: 0,
		Signers:          r.Signers,
		Threshold:        r.Threshold,
		SelfIndex:        selfIndex,
	}
	return federation.NewRegistry([]federation.Federation{fed})
}
