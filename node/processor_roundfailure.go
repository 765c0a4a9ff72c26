package node

import "github.com/tapyrus-federation/signerd/transport"

// onRoundFailure implements "RoundFailure" (spec §4.7): informational
// only. The receiving node does not change state; the round timer alone
// decides when to advance after a stall.
func (n *Node) onRoundFailure(msg transport.Message) {
	n.logger.WithField("sender", msg.Sender).Debug("peer reported round failure")
}
