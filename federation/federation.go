// Package federation resolves, for a given block height, the active set of
// signers, threshold, and aggregated group public key (spec §4.1).
package federation

import (
	"fmt"
	"sort"

	"github.com/tapyrus-federation/signerd/crypto"
	"golang.org/x/exp/slices"
)

// Federation describes the signer set active from ActivationHeight onward,
// until superseded by a later-activating Federation in the same Registry.
type Federation struct {
	ActivationHeight uint64
	Signers          []crypto.SignerID // canonical byte-lexicographic order
	Threshold        int
	AggregatedPubkey crypto.Point
	// SelfIndex is this node's index within Signers, or -1 if this node is
	// not a member of this federation.
	SelfIndex int
}

// N returns the federation size.
func (f Federation) N() int {
	return len(f.Signers)
}

// IndexOf returns the index of id within the signer list, or -1.
func (f Federation) IndexOf(id crypto.SignerID) int {
	for i, s := range f.Signers {
		if s == id {
			return i
		}
	}
	return -1
}

// Registry holds the ordered list of federations and resolves the active
// one for a given block height.
type Registry struct {
	federations []Federation // ascending ActivationHeight
}

// NewRegistry builds a Registry from federations in any order, sorting them
// by activation height and canonicalizing each signer list.
func NewRegistry(federations []Federation) (*Registry, error) {
	if len(federations) == 0 {
		return nil, fmt.Errorf("federation registry requires at least one federation")
	}

	fs := make([]Federation, len(federations))
	copy(fs, federations)

	for i := range fs {
		if fs[i].Threshold < 1 || fs[i].Threshold > len(fs[i].Signers) {
			return nil, fmt.Errorf("invalid threshold %d for federation of %d signers",
				fs[i].Threshold, len(fs[i].Signers))
		}
		crypto.SortSignerIDs(fs[i].Signers)
	}

	slices.SortFunc(fs, func(a, b Federation) int {
		switch {
		case a.ActivationHeight < b.ActivationHeight:
			return -1
		case a.ActivationHeight > b.ActivationHeight:
			return 1
		default:
			return 0
		}
	})

	return &Registry{federations: fs}, nil
}

// Get returns the federation whose activation height is the largest not
// exceeding height.
func (r *Registry) Get(height uint64) Federation {
	idx := sort.Search(len(r.federations), func(i int) bool {
		return r.federations[i].ActivationHeight > height
	})
	if idx == 0 {
		return r.federations[0]
	}
	return r.federations[idx-1]
}

// Threshold returns the threshold active at height.
func (r *Registry) Threshold(height uint64) int {
	return r.Get(height).Threshold
}

// SignerList returns the ordered signer list active at height.
func (r *Registry) SignerList(height uint64) []crypto.SignerID {
	return r.Get(height).Signers
}

// SelfIndex returns this node's index within the federation active at
// height.
func (r *Registry) SelfIndex(height uint64) int {
	return r.Get(height).SelfIndex
}

// AggregatedPublicKey returns the group public key active at height.
func (r *Registry) AggregatedPublicKey(height uint64) crypto.Point {
	return r.Get(height).AggregatedPubkey
}
