// Package node implements the signer's per-node state machine: the DKG
// bootstrap, the round-robin master election, and the per-round block
// signing protocol (spec §4).
package node

import "github.com/tapyrus-federation/signerd/roundctl"

// NodeState is the tagged union of the states a node can occupy (spec
// §3, §4.8): Joining, Master, Member{MasterIndex}, and the transient
// RoundComplete{MasterIndex, NextMasterIndex}.
//
// Grounded on the teacher's use of small unexported structs behind an
// interface for coordinator-side session state (coordinator.go), adapted
// here to a four-variant round lifecycle instead of a single session type.
type NodeState interface {
	isNodeState()
	// Kind reports which scheduler tag this state corresponds to, so the
	// round scheduler can be a pure function independent of this package.
	Kind() roundctl.PrevKind
}

// JoiningState is the initial state, before DKG has completed.
type JoiningState struct{}

func (JoiningState) isNodeState()          {}
func (JoiningState) Kind() roundctl.PrevKind { return roundctl.Joining }

// MasterState means this node is the master of the current round.
type MasterState struct {
	Index int
}

func (MasterState) isNodeState()          {}
func (MasterState) Kind() roundctl.PrevKind { return roundctl.Master }

// MemberState means this node is following the master at MasterIndex for
// the current round.
type MemberState struct {
	MasterIndex int
}

func (MemberState) isNodeState()          {}
func (MemberState) Kind() roundctl.PrevKind { return roundctl.Member }

// RoundCompleteState is reached immediately after a round's block is
// signed and submitted; the event loop consumes it on the same tick it is
// entered, starting the next round at NextMasterIndex.
type RoundCompleteState struct {
	MasterIndex     int
	NextMasterIndex int
}

func (RoundCompleteState) isNodeState()          {}
func (RoundCompleteState) Kind() roundctl.PrevKind { return roundctl.RoundComplete }

func schedulerState(s NodeState) roundctl.PrevState {
	switch v := s.(type) {
	case JoiningState:
		return roundctl.PrevState{Kind: roundctl.Joining}
	case MasterState:
		return roundctl.PrevState{Kind: roundctl.Master, MasterIndex: v.Index}
	case MemberState:
		return roundctl.PrevState{Kind: roundctl.Member, MasterIndex: v.MasterIndex}
	case RoundCompleteState:
		return roundctl.PrevState{Kind: roundctl.RoundComplete, NextMasterIndex: v.NextMasterIndex}
	default:
		return roundctl.PrevState{Kind: roundctl.Joining}
	}
}
