package ephemeral

import "github.com/btcsuite/btcd/btcec"

// PrivateKey and PublicKey are ephemeral secp256k1 keypairs generated fresh
// for a single DKG run, used only to derive a pairwise SymmetricEcdhKey for
// encrypting that run's NodeVSS shares - never the long-lived federation
// signing key.
type PrivateKey btcec.PrivateKey
type PublicKey btcec.PublicKey

// KeyPair is one signer's ephemeral keypair for a DKG run.
type KeyPair struct {
	PrivateKey *PrivateKey
	PublicKey  *PublicKey
}

// GenerateKeyPair creates a fresh ephemeral keypair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		PrivateKey: (*PrivateKey)(priv),
		PublicKey:  (*PublicKey)(priv.PubKey()),
	}, nil
}

// Marshal serializes the public key to 33-byte SEC1 compressed form, the
// form carried over the wire alongside a NodeVSS payload.
func (pk *PublicKey) Marshal() []byte {
	return (*btcec.PublicKey)(pk).SerializeCompressed()
}

// UnmarshalPublicKey parses a 33-byte SEC1 compressed public key.
func UnmarshalPublicKey(b []byte) (*PublicKey, error) {
	pub, err := btcec.ParsePubKey(b, btcec.S256())
	if err != nil {
		return nil, err
	}
	return (*PublicKey)(pub), nil
}
