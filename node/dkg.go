package node

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/tapyrus-federation/signerd/crypto"
	"github.com/tapyrus-federation/signerd/ephemeral"
	"github.com/tapyrus-federation/signerd/signererr"
	"github.com/tapyrus-federation/signerd/transport"
)

func errInvalidShare(sender crypto.SignerID) error {
	return fmt.Errorf("share from %s failed verification", sender)
}

// exchangeEphemeralKeys broadcasts a fresh ECDH public key and collects
// one from every signer (including itself), buffering any NodeVSS that
// arrives early - a fast dealer's share can reach us before every
// pubkey has. Buffered messages are handed back so the caller can
// process them once every pubkey is known.
func (n *Node) exchangeEphemeralKeys(ctx context.Context, ownPriv *ephemeral.PrivateKey, ownPub *ephemeral.PublicKey) (map[crypto.SignerID]*ephemeral.PublicKey, []transport.Message, error) {
	n.broadcast(KindEphemeralPubKey, encodePayload(ephemeralPubKeyPayload{PubKey: ownPub.Marshal()}))

	pubs := map[crypto.SignerID]*ephemeral.PublicKey{n.self: ownPub}
	var buffered []transport.Message

	for len(pubs) < n.fed.N() {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case msg := <-n.inbox:
			switch msg.Kind {
			case KindEphemeralPubKey:
				if _, already := pubs[msg.Sender]; already {
					continue
				}
				p, err := decodePayload[ephemeralPubKeyPayload](msg.Payload)
				if err != nil {
					return nil, nil, signererr.New(signererr.Dkg, "decode ephemeral pubkey", err)
				}
				pub, err := ephemeral.UnmarshalPublicKey(p.PubKey)
				if err != nil {
					return nil, nil, signererr.New(signererr.Dkg, "parse ephemeral pubkey", err)
				}
				pubs[msg.Sender] = pub
			case KindNodeVSS:
				buffered = append(buffered, msg)
			default:
				n.logger.WithField("kind", msg.Kind).Debug("ignoring non-DKG message during DKG")
			}
		case err := <-n.transportErrs:
			n.logger.WithError(err).Warn("transport error during DKG")
		}
	}
	return pubs, buffered, nil
}

// runDKG executes the one-time Feldman VSS key generation (spec §4.5).
// Every signer deals its own polynomial and receives a share from every
// other dealer (including itself); once all N shares have arrived and
// verified, it aggregates its private share and the group's public key.
// Shares travel encrypted under a per-process ephemeral ECDH key agreed
// with each recipient, so a share never crosses the transport in the
// clear.
//
// DKG runs exactly once per process; failure here is fatal (spec §4.5
// "Failure policy").
func (n *Node) runDKG(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(dkgStartDelay):
	}

	ownKeys, err := ephemeral.GenerateKeyPair()
	if err != nil {
		return signererr.New(signererr.Dkg, "generate ephemeral key", err)
	}
	ephemeralPubs, buffered, err := n.exchangeEphemeralKeys(ctx, ownKeys.PrivateKey, ownKeys.PublicKey)
	if err != nil {
		return err
	}

	selfPoint := n.fed.SelfIndex + 1
	secret := new(big.Int).Mod(n.priv.D, crypto.Order())

	scheme, shares, err := crypto.ShareAtIndices(secret, n.fed.Threshold, n.fed.N())
	if err != nil {
		return signererr.New(signererr.Dkg, "deal polynomial", err)
	}

	dealerVSS := make(map[crypto.SignerID]crypto.VSSScheme, n.fed.N())
	shareToSelf := make(map[crypto.SignerID]*big.Int, n.fed.N())
	var failures *multierror.Error

	for j, id := range n.fed.Signers {
		share := shares[j]
		sealed, err := ownKeys.PrivateKey.Ecdh(ephemeralPubs[id]).Encrypt(scalarBytes(share.Value))
		if err != nil {
			return signererr.New(signererr.Dkg, "seal share", err)
		}
		p := nodeVSSPayload{VSS: toWireVSS(scheme), Share: sealed}
		n.send(id, KindNodeVSS, encodePayload(p))
	}

	for _, msg := range buffered {
		if err := n.onNodeVSS(msg, selfPoint, dealerVSS, shareToSelf, ephemeralPubs, ownKeys.PrivateKey); err != nil {
			failures = multierror.Append(failures, err)
		}
	}

	for len(dealerVSS) < n.fed.N() && failures == nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-n.inbox:
			if msg.Kind != KindNodeVSS {
				n.logger.WithField("kind", msg.Kind).Debug("ignoring non-DKG message during DKG")
				continue
			}
			if err := n.onNodeVSS(msg, selfPoint, dealerVSS, shareToSelf, ephemeralPubs, ownKeys.PrivateKey); err != nil {
				failures = multierror.Append(failures, err)
			}
		case err := <-n.transportErrs:
			n.logger.WithError(err).Warn("transport error during DKG")
		}
	}

	if failures.ErrorOrNil() != nil {
		return signererr.New(signererr.Dkg, "verify shares", failures.ErrorOrNil())
	}

	privateShare := big.NewInt(0)
	groupPublicKey := crypto.Identity()
	for _, id := range n.fed.Signers {
		privateShare.Add(privateShare, shareToSelf[id])
		commitment, err := dealerVSS[id].SecretCommitment()
		if err != nil {
			return signererr.New(signererr.Dkg, "aggregate group key", err)
		}
		groupPublicKey = crypto.Add(groupPublicKey, commitment)
	}
	privateShare.Mod(privateShare, crypto.Order())

	n.keys = &SharedKeys{
		PrivateShare:      privateShare,
		GroupPublicKey:    groupPublicKey,
		DealerCommitments: dealerVSS,
	}
	n.logger.Info("dkg complete")
	return nil
}

