package ephemeral

import (
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// box is a NaCl secretbox keyed with a 32-byte symmetric key, used to
// encrypt one signer's plaintext (a DKG share, in this package's sole
// caller) under a key derived from an ECDH exchange with the recipient.
type box struct {
	key [32]byte
}

func newBox(key [32]byte) *box {
	return &box{key: key}
}

// encrypt prepends a fresh random nonce to the sealed ciphertext; a new
// nonce each call is why two encryptions of the same plaintext never
// produce the same bytes.
func (b *box) encrypt(plaintext []byte) ([]byte, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &b.key), nil
}

func (b *box) decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < 24 {
		return nil, errors.New("symmetric key decryption failed")
	}
	var nonce [24]byte
	copy(nonce[:], ciphertext[:24])
	plaintext, ok := secretbox.Open(nil, ciphertext[24:], &nonce, &b.key)
	if !ok {
		return nil, errors.New("symmetric key decryption failed")
	}
	return plaintext, nil
}
