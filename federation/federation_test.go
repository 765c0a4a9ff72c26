package federation

import (
	"testing"

	"github.com/tapyrus-federation/signerd/crypto"
)

func signerID(b byte) crypto.SignerID {
	var id crypto.SignerID
	id[0] = 0x02 // valid compressed-key prefix; contents are only used as sort keys here
	id[32] = b
	return id
}

func TestNewRegistryRejectsEmpty(t *testing.T) {
	if _, err := NewRegistry(nil); err == nil {
		t.Fatal("expected error for an empty registry")
	}
}

func TestNewRegistryRejectsBadThreshold(t *testing.T) {
	fed := Federation{
		ActivationHeight: 0,
		Signers:          []crypto.SignerID{signerID(1), signerID(2)},
		Threshold:        3,
	}
	if _, err := NewRegistry([]Federation{fed}); err == nil {
		t.Fatal("expected error for a threshold exceeding the signer count")
	}
}

func TestNewRegistryCanonicalizesSignerOrder(t *testing.T) {
	fed := Federation{
		ActivationHeight: 0,
		Signers:          []crypto.SignerID{signerID(3), signerID(1), signerID(2)},
		Threshold:        2,
	}
	r, err := NewRegistry([]Federation{fed})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	got := r.SignerList(0)
	want := []crypto.SignerID{signerID(1), signerID(2), signerID(3)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("signer list not canonicalized: got %v, want %v", got, want)
		}
	}
}

func TestRegistryGetResolvesByHeight(t *testing.T) {
	early := Federation{ActivationHeight: 0, Signers: []crypto.SignerID{signerID(1)}, Threshold: 1}
	late := Federation{ActivationHeight: 100, Signers: []crypto.SignerID{signerID(2)}, Threshold: 1}

	// Construct out of order to confirm NewRegistry sorts by activation height.
	r, err := NewRegistry([]Federation{late, early})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	cases := []struct {
		height uint64
		want   crypto.SignerID
	}{
		{0, signerID(1)},
		{50, signerID(1)},
		{99, signerID(1)},
		{100, signerID(2)},
		{1000, signerID(2)},
	}
	for _, c := range cases {
		got := r.Get(c.height)
		if len(got.Signers) != 1 || got.Signers[0] != c.want {
			t.Fatalf("Get(%d) = %v, want signer %v", c.height, got.Signers, c.want)
		}
	}
}

func TestFederationIndexOf(t *testing.T) {
	fed := Federation{
		Signers: []crypto.SignerID{signerID(1), signerID(2), signerID(3)},
	}
	if idx := fed.IndexOf(signerID(2)); idx != 1 {
		t.Fatalf("IndexOf = %d, want 1", idx)
	}
	if idx := fed.IndexOf(signerID(9)); idx != -1 {
		t.Fatalf("IndexOf for absent signer = %d, want -1", idx)
	}
}

func TestFederationN(t *testing.T) {
	fed := Federation{Signers: []crypto.SignerID{signerID(1), signerID(2)}}
	if fed.N() != 2 {
		t.Fatalf("N() = %d, want 2", fed.N())
	}
}
