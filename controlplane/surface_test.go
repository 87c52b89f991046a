package controlplane

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/netrack/ofswitch/flowtable"
	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/ofputil"
	"github.com/netrack/ofswitch/pipeline"
	"github.com/netrack/ofswitch/transport"
)

func newTestSurface() *Surface {
	p := pipeline.New(transport.DiscardEgress, transport.DiscardController)
	p.AddTable(0, flowtable.New(flowtable.MissDrop))
	return New(p)
}

func TestModifyFlowAddBadTableID(t *testing.T) {
	s := newTestSurface()

	err := s.ModifyFlow(&ofp.FlowMod{Table: 5, Command: ofp.FlowAdd})
	cpErr, ok := err.(*Error)
	if !ok || cpErr.Kind != ErrBadTableID {
		t.Fatalf("Expected ErrBadTableID, got %v", err)
	}
}

func TestModifyFlowAddOverlapRejected(t *testing.T) {
	s := newTestSurface()

	ok := s.ModifyFlow(&ofp.FlowMod{Table: 0, Command: ofp.FlowAdd, Priority: 50})
	if ok != nil {
		t.Fatalf("Unexpected error on first add: %s", ok)
	}

	err := s.ModifyFlow(&ofp.FlowMod{
		Table: 0, Command: ofp.FlowAdd, Priority: 50,
		Flags: ofp.FlowFlagCheckOverlap,
	})
	cpErr, ok2 := err.(*Error)
	if !ok2 || cpErr.Kind != ErrOverlap {
		t.Fatalf("Expected ErrOverlap, got %v", err)
	}

	stats := s.TableStatsAll([]ofp.Table{0})
	if len(stats) != 1 || stats[0].Active != 1 {
		t.Fatalf("Expected the table to remain unchanged after rejection, got %+v", stats)
	}
}

func TestModifyFlowDeleteRemovesEntry(t *testing.T) {
	s := newTestSurface()
	s.ModifyFlow(&ofp.FlowMod{Table: 0, Command: ofp.FlowAdd, Priority: 1, Cookie: 42})

	if err := s.ModifyFlow(&ofp.FlowMod{Table: 0, Command: ofp.FlowDelete, Cookie: 42, CookieMask: ^uint64(0)}); err != nil {
		t.Fatalf("Unexpected error on delete: %s", err)
	}

	stats := s.FlowStatsForTable(0)
	if len(stats) != 0 {
		t.Fatalf("Expected no entries remaining, got %d", len(stats))
	}
}

func TestModifyTableSetsMissConfig(t *testing.T) {
	s := newTestSurface()

	if err := s.ModifyTable(&ofp.TableMod{Table: 0, Config: 1}); err != nil {
		t.Fatalf("ModifyTable failed: %s", err)
	}
	if got := s.Pipeline.Table(0).Miss; got != flowtable.MissContinue {
		t.Fatalf("Expected miss policy to become MissContinue, got %v", got)
	}
}

func TestModifyTableAllAppliesToEveryTable(t *testing.T) {
	s := newTestSurface()
	s.Pipeline.AddTable(1, flowtable.New(flowtable.MissDrop))

	if err := s.ModifyTable(&ofp.TableMod{Table: ofp.TableAll, Config: 0}); err != nil {
		t.Fatalf("ModifyTable failed: %s", err)
	}

	for _, id := range []ofp.Table{0, 1} {
		if got := s.Pipeline.Table(id).Miss; got != flowtable.MissController {
			t.Fatalf("Expected table %d miss policy to become MissController, got %v", id, got)
		}
	}
}

func TestSetMissConfigUnknownTable(t *testing.T) {
	s := newTestSurface()
	err := s.SetMissConfig(9, flowtable.MissController)
	cpErr, ok := err.(*Error)
	if !ok || cpErr.Kind != ErrBadTableID {
		t.Fatalf("Expected ErrBadTableID, got %v", err)
	}
}

// TestModifyFlowFromOfputilRequest drives ModifyFlow with a flow-mod
// decoded off the wire from an ofputil request builder, the same path
// a controller connection takes.
func TestModifyFlowFromOfputilRequest(t *testing.T) {
	s := newTestSurface()

	req, err := ofputil.FlowDrop(0)
	if err != nil {
		t.Fatalf("FlowDrop failed: %s", err)
	}

	var fm ofp.FlowMod
	if _, err := fm.ReadFrom(req.Body); err != nil {
		t.Fatalf("Decoding flow-mod failed: %s", err)
	}
	if err := s.ModifyFlow(&fm); err != nil {
		t.Fatalf("ModifyFlow failed: %s", err)
	}

	stats := s.FlowStatsForTable(0)
	if len(stats) != 1 {
		t.Fatalf("Expected one entry installed, got %d", len(stats))
	}

	match := ofputil.ExtendedMatch(ofputil.MatchInPort(3))
	flushReq, err := ofputil.FlowFlush(0, match)
	if err != nil {
		t.Fatalf("FlowFlush failed: %s", err)
	}

	var flushFM ofp.FlowMod
	if _, err := flushFM.ReadFrom(flushReq.Body); err != nil {
		t.Fatalf("Decoding flush flow-mod failed: %s", err)
	}
	if diff := cmp.Diff(match, flushFM.Match); diff != "" {
		t.Fatalf("Flush request match mismatch (-want +got):\n%s", diff)
	}
}

// TestModifyFlowWithExtendedMatchAndActions installs an entry built
// with ofputil's match and action helpers, then confirms a packet
// carrying the matching in-port field is routed by it.
func TestModifyFlowWithExtendedMatchAndActions(t *testing.T) {
	s := newTestSurface()

	match := ofputil.ExtendedMatch(ofputil.MatchInPort(3))
	instrs := ofputil.ActionsApply(&ofp.ActionOutput{Port: 7})

	err := s.ModifyFlow(&ofp.FlowMod{
		Table: 0, Command: ofp.FlowAdd, Priority: 10,
		Match: match, Instructions: instrs,
	})
	if err != nil {
		t.Fatalf("ModifyFlow failed: %s", err)
	}

	entry := s.Pipeline.Table(0).Lookup(match.Fields, 64)
	if entry == nil {
		t.Fatal("Expected the installed entry to match an in-port-3 packet")
	}
}

// TestAsyncFilterDropsUnrequestedReason builds a packet-in mask with
// ofputil's bitmap helpers and checks the filter honors it.
func TestAsyncFilterDropsUnrequestedReason(t *testing.T) {
	var sent []ofp.PacketInReason
	inner := transport.ControllerFunc(func(reason ofp.PacketInReason, snap transport.Snapshot) error {
		sent = append(sent, reason)
		return nil
	})

	f := NewAsyncFilter(inner)
	f.SetAsyncConfig(&ofp.AsyncConfig{
		PacketInMask: ofputil.AsyncConfigMask(
			ofputil.PacketInReasonBitmap(ofp.PacketInReasonNoMatch), 0,
		),
	})

	f.Send(ofp.PacketInReasonNoMatch, transport.Snapshot{})
	f.Send(ofp.PacketInReasonAction, transport.Snapshot{})

	if len(sent) != 1 || sent[0] != ofp.PacketInReasonNoMatch {
		t.Fatalf("Expected only the requested reason to be forwarded, got %v", sent)
	}
}

func TestErrKindString(t *testing.T) {
	if ErrOverlap.String() != "overlap" {
		t.Fatalf("Unexpected string: %s", ErrOverlap.String())
	}
}
