package node

import (
	"fmt"
	"math/big"

	"github.com/tapyrus-federation/signerd/crypto"
	"github.com/tapyrus-federation/signerd/ephemeral"
	"github.com/tapyrus-federation/signerd/signererr"
	"github.com/tapyrus-federation/signerd/transport"
)

// onNodeVSS implements the DKG receiver step (spec §4.5 step 4): unseal
// the dealer's share, verify it against its commitment at this node's
// index, then record it. Called only while runDKG's collection loop is
// running.
func (n *Node) onNodeVSS(
	msg transport.Message,
	selfPoint int,
	dealerVSS map[crypto.SignerID]crypto.VSSScheme,
	shareToSelf map[crypto.SignerID]*big.Int,
	ephemeralPubs map[crypto.SignerID]*ephemeral.PublicKey,
	ownEphemeralPriv *ephemeral.PrivateKey,
) error {
	if _, already := dealerVSS[msg.Sender]; already {
		return nil
	}

	p, err := decodePayload[nodeVSSPayload](msg.Payload)
	if err != nil {
		return err
	}
	scheme, err := p.VSS.toScheme()
	if err != nil {
		return err
	}

	senderPub, ok := ephemeralPubs[msg.Sender]
	if !ok {
		return signererr.New(signererr.Dkg, "dkg share", fmt.Errorf("no ephemeral key announced for %s", msg.Sender))
	}
	plaintext, err := ownEphemeralPriv.Ecdh(senderPub).Decrypt(p.Share)
	if err != nil {
		return signererr.New(signererr.VssVerification, "dkg share", fmt.Errorf("unseal share from %s: %w", msg.Sender, err))
	}
	share := scalarFromBytes(plaintext)

	if !crypto.VerifyShare(scheme, selfPoint, share) {
		return signererr.New(signererr.VssVerification, "dkg share", errInvalidShare(msg.Sender))
	}

	dealerVSS[msg.Sender] = scheme
	shareToSelf[msg.Sender] = share
	return nil
}
