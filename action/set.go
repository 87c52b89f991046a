package action

import (
	"sort"

	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/transport"
)

// canonicalRank orders action types the way OpenFlow mandates an action
// set be executed: copy_ttl_in, pop, push, TTL-decrement, set_field,
// set_queue, group, and output last.
var canonicalRank = map[ofp.ActionType]int{
	ofp.ActionTypeCopyTTLIn:    0,
	ofp.ActionTypePopVLAN:      1,
	ofp.ActionTypePopMPLS:      1,
	ofp.ActionTypePopPBB:       1,
	ofp.ActionTypePushMPLS:     2,
	ofp.ActionTypePushVLAN:     2,
	ofp.ActionTypePushPBB:      2,
	ofp.ActionTypeCopyTTLOut:   3,
	ofp.ActionTypeDecMPLSTTL:   3,
	ofp.ActionTypeDecNwTTL:     3,
	ofp.ActionTypeSetMPLSTTL:   3,
	ofp.ActionTypeSetNwTTL:     3,
	ofp.ActionTypeSetField:     4,
	ofp.ActionTypeSetQueue:     5,
	ofp.ActionTypeGroup:        6,
	ofp.ActionTypeExperimenter: 4,
	ofp.ActionTypeOutput:       7,
}

func rank(t ofp.ActionType) int {
	if r, ok := canonicalRank[t]; ok {
		return r
	}
	// Unknown action types sort alongside set_field, ahead of output.
	return 4
}

// Set is the per-packet deferred action set: at most one action per
// type, executed in OpenFlow canonical order at pipeline termination.
type Set struct {
	actions map[ofp.ActionType]ofp.Action
}

// NewSet returns an empty action set.
func NewSet() *Set {
	return &Set{actions: make(map[ofp.ActionType]ofp.Action)}
}

// Write merges new into the set: an action of a type already present
// replaces the existing one, otherwise it is inserted.
func (s *Set) Write(new ofp.Actions) {
	for _, a := range new {
		s.actions[a.Type()] = a
	}
}

// Clear empties the set.
func (s *Set) Clear() {
	s.actions = make(map[ofp.ActionType]ofp.Action)
}

// Len returns the number of distinct action types currently held.
func (s *Set) Len() int {
	return len(s.actions)
}

// HasOutput reports whether the set carries an output action.
func (s *Set) HasOutput() bool {
	_, ok := s.actions[ofp.ActionTypeOutput]
	return ok
}

// Ordered returns the set's actions sorted into canonical execution
// order. Ties (there should be none, since the set is keyed by type)
// are broken by action type for determinism.
func (s *Set) Ordered() ofp.Actions {
	out := make(ofp.Actions, 0, len(s.actions))
	for _, a := range s.actions {
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i].Type()), rank(out[j].Type())
		if ri != rj {
			return ri < rj
		}
		return out[i].Type() < out[j].Type()
	})

	return out
}

// Execute runs the set against pkt in canonical order using the action
// evaluator, submitting output side effects to egress/ctrl.
func (s *Set) Execute(pkt Mutable, egress transport.Egress, ctrl transport.Controller) error {
	return Apply(s.Ordered(), pkt, egress, ctrl)
}
