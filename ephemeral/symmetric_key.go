package ephemeral

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec"
)

// SymmetricEcdhKey seals one dealer's NodeVSS share to one recipient: the
// sha256 of the two ephemeral keys' ECDH shared point, fed into a
// nacl/secretbox. Neither side needs to send the key itself, only their
// already-exchanged ephemeral public keys.
type SymmetricEcdhKey struct {
	box *box
}

// Ecdh derives the pairwise key a sender would use to seal a share bound
// for the holder of publicKey. The recipient derives the identical key by
// calling Ecdh with the roles reversed - standard Diffie-Hellman symmetry.
func (pk *PrivateKey) Ecdh(publicKey *PublicKey) *SymmetricEcdhKey {
	shared := btcec.GenerateSharedSecret(
		(*btcec.PrivateKey)(pk),
		(*btcec.PublicKey)(publicKey),
	)

	return &SymmetricEcdhKey{
		box: newBox(sha256.Sum256(shared)),
	}
}

// Encrypt seals a share's scalar bytes for the key's recipient.
func (sek *SymmetricEcdhKey) Encrypt(plaintext []byte) ([]byte, error) {
	return sek.box.encrypt(plaintext)
}

// Decrypt opens a share sealed with the matching SymmetricEcdhKey on the
// sender's side.
func (sek *SymmetricEcdhKey) Decrypt(ciphertext []byte) (plaintext []byte, err error) {
	return sek.box.decrypt(ciphertext)
}
