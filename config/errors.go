package config

import (
	"encoding/hex"
	"errors"
)

var (
	errEmptyPubkeyList     = errors.New("pubkey_list must not be empty")
	errBadThreshold        = errors.New("threshold must satisfy 1 <= threshold <= len(pubkey_list)")
	errSelfNotInFederation = errors.New("private_key's public key is not a member of pubkey_list")
)

func decodeHexPubkey(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
