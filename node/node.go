package node

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcec"
	"github.com/sirupsen/logrus"

	"github.com/tapyrus-federation/signerd/crypto"
	"github.com/tapyrus-federation/signerd/federation"
	"github.com/tapyrus-federation/signerd/log"
	"github.com/tapyrus-federation/signerd/roundctl"
	"github.com/tapyrus-federation/signerd/rpc"
	"github.com/tapyrus-federation/signerd/transport"
)

// pollInterval is the event loop's non-blocking poll cadence (spec §5).
const pollInterval = 300 * time.Millisecond

// ibdPollInterval paces getblockchaininfo polling while waiting out initial
// block download.
const ibdPollInterval = 5 * time.Second

// dkgStartDelay is the grace period after the transport is ready, letting
// late-subscribing peers receive DKG unicasts (spec §4.5 step 1).
const dkgStartDelay = 5 * time.Second

// Node runs the single-threaded cooperative event loop that owns all
// signer state: DKG bootstrap, round-robin master election, and the
// per-round block signing protocol.
//
// Grounded on the original node's synchronous `SignerNode::start` loop
// (original_source/src/signer_node/mod.rs), which polls a stop signal, an
// inbox of network messages, and a round timer in that order with no
// locking, since exactly one goroutine ever touches this struct's fields
// after Run begins.
type Node struct {
	self crypto.SignerID
	priv *btcec.PrivateKey
	fed  federation.Federation

	transport transport.Transport
	rpcClient rpc.Client

	roundDuration time.Duration
	skipIBD       bool
	masterFlag    bool

	timer *roundctl.Timer

	state NodeState
	keys  *SharedKeys
	round *roundState

	inbox         <-chan transport.Message
	transportErrs <-chan error

	logger *logrus.Entry
}

// Config is the subset of a node's runtime configuration needed to
// construct it; cmd/signerd builds one from a validated config.Config.
type Config struct {
	Self          crypto.SignerID
	PrivateKey    *btcec.PrivateKey
	Registry      *federation.Registry
	Transport     transport.Transport
	RPC           rpc.Client
	RoundDuration time.Duration
	SkipIBD       bool
	// MasterFlag is a diagnostic label carried over from the CLI's
	// --master flag; round-robin scheduling alone decides who leads a
	// round (spec "Open questions").
	MasterFlag bool
}

// New constructs a Node in its initial Joining state.
func New(cfg Config) *Node {
	height := uint64(0) // the registry's genesis federation; round height tracking beyond that is a Non-goal
	return &Node{
		self:          cfg.Self,
		priv:          cfg.PrivateKey,
		fed:           cfg.Registry.Get(height),
		transport:     cfg.Transport,
		rpcClient:     cfg.RPC,
		roundDuration: cfg.RoundDuration,
		skipIBD:       cfg.SkipIBD,
		masterFlag:    cfg.MasterFlag,
		timer:         roundctl.NewTimer(),
		state:         JoiningState{},
		logger:        log.For("node"),
	}
}

// Run blocks until ctx is cancelled, driving the DKG bootstrap followed by
// the round-robin event loop. It returns early with the error if waiting
// for IBD or running DKG fails.
func (n *Node) Run(ctx context.Context) error {
	if err := n.waitForIBD(ctx); err != nil {
		return err
	}

	n.inbox, n.transportErrs = n.transport.Start(n.self)

	if n.masterFlag {
		n.logger.Info("--master flag set; round-robin scheduling decides the actual master")
	}

	if err := n.runDKG(ctx); err != nil {
		return err
	}

	n.startRound(n.nextMasterIndex())

	for {
		select {
		case <-ctx.Done():
			n.timer.Stop()
			return ctx.Err()
		default:
		}

		if n.poll(ctx) {
			continue
		}

		select {
		case <-ctx.Done():
			n.timer.Stop()
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// poll services exactly one of the inbox, timer, or transport-error
// channels if one is immediately ready, in that priority order, and
// reports whether it handled anything (so Run can skip its sleep).
func (n *Node) poll(ctx context.Context) bool {
	select {
	case msg := <-n.inbox:
		n.handleMessage(ctx, msg)
		return true
	default:
	}

	select {
	case <-n.timer.C():
		n.handleTimeout(ctx)
		return true
	default:
	}

	select {
	case err := <-n.transportErrs:
		n.logger.WithError(err).Warn("transport error")
		return true
	default:
	}

	return false
}

func (n *Node) waitForIBD(ctx context.Context) error {
	if n.skipIBD {
		return nil
	}
	for {
		info, err := n.rpcClient.GetBlockchainInfo(ctx)
		if err == nil && !info.InitialBlockDownload {
			return nil
		}
		if err != nil {
			n.logger.WithError(err).Warn("getblockchaininfo failed while waiting out IBD")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ibdPollInterval):
		}
	}
}

func (n *Node) nextMasterIndex() int {
	return roundctl.NextMasterIndex(schedulerState(n.state), n.fed.N())
}

// startRound restarts the round timer and either enters the master path
// or becomes a member waiting on masterIndex (spec §4.6).
func (n *Node) startRound(masterIndex int) {
	n.timer.Restart(n.roundDuration)
	n.round = newRoundState(masterIndex)

	if roundctl.IsMaster(masterIndex, n.fed.SelfIndex) {
		n.state = MasterState{Index: masterIndex}
		n.logger.WithField("round_id", n.round.id).WithField("master_index", masterIndex).Info("starting round as master")
		n.runMasterPath()
		return
	}

	n.state = MemberState{MasterIndex: masterIndex}
	n.logger.WithField("round_id", n.round.id).WithField("master_index", masterIndex).Info("starting round as member")
}

func (n *Node) handleTimeout(ctx context.Context) {
	n.logger.Warn("round timed out")
	n.broadcast(KindRoundFailure, nil)
	n.startRound(n.nextMasterIndex())
}

func (n *Node) handleMessage(ctx context.Context, msg transport.Message) {
	switch msg.Kind {
	case KindCandidateBlock:
		n.onCandidateBlock(ctx, msg)
	case KindBlockVSS:
		n.onBlockVSS(ctx, msg)
	case KindBlockParticipants:
		n.onBlockParticipants(msg)
	case KindBlockSig:
		n.onBlockSig(ctx, msg)
	case KindCompletedBlock:
		n.onCompletedBlock(msg)
	case KindRoundFailure:
		n.onRoundFailure(msg)
	default:
		n.logger.WithField("kind", msg.Kind).Debug("ignoring message of unknown kind")
	}
}

func (n *Node) broadcast(kind string, payload []byte) {
	if err := n.transport.Broadcast(transport.Message{Kind: kind, Sender: n.self, Payload: payload}); err != nil {
		n.logger.WithError(err).WithField("kind", kind).Warn("broadcast failed")
	}
}

func (n *Node) send(to crypto.SignerID, kind string, payload []byte) {
	if err := n.transport.Send(transport.Message{Kind: kind, Sender: n.self, Receiver: &to, Payload: payload}, to); err != nil {
		n.logger.WithError(err).WithField("kind", kind).WithField("to", to).Warn("send failed")
	}
}
