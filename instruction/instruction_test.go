package instruction

import (
	"testing"

	"github.com/netrack/ofswitch/action"
	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/transport"
)

type fakePacket struct {
	metadata uint64
	fields   []ofp.XM
}

func (p *fakePacket) Snapshot() transport.Snapshot {
	return transport.Snapshot{Fields: append([]ofp.XM(nil), p.fields...)}
}

func (p *fakePacket) Field(t ofp.XMType) *ofp.XM {
	for i := range p.fields {
		if p.fields[i].Type == t {
			return &p.fields[i]
		}
	}
	return nil
}

func (p *fakePacket) SetField(xm ofp.XM) { p.fields = append(p.fields, xm) }

func (p *fakePacket) NetworkTTL() (uint8, bool)  { return 0, false }
func (p *fakePacket) SetNetworkTTL(uint8)        {}
func (p *fakePacket) MPLSTTL() (uint8, bool)     { return 0, false }
func (p *fakePacket) SetMPLSTTL(uint8)           {}
func (p *fakePacket) PushVLAN(uint16)            {}
func (p *fakePacket) PopVLAN() bool              { return false }
func (p *fakePacket) PushMPLS(uint16)            {}
func (p *fakePacket) PopMPLS(uint16) bool        { return false }

func (p *fakePacket) SetMetadata(value, mask uint64) {
	p.metadata = (p.metadata &^ mask) | (value & mask)
}

func TestEvaluateDefaultsToOutput(t *testing.T) {
	pkt := &fakePacket{}
	set := action.NewSet()

	step, err := Evaluate(nil, pkt, set, nil, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %s", err)
	}
	if step.Kind != StepOutput {
		t.Fatal("Expected empty instruction list to resolve to output")
	}
}

func TestEvaluateGotoTable(t *testing.T) {
	pkt := &fakePacket{}
	set := action.NewSet()

	instrs := ofp.Instructions{&ofp.InstructionGotoTable{Table: 3}}
	step, err := Evaluate(instrs, pkt, set, nil, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %s", err)
	}
	if step.Kind != StepGoto || step.Table != 3 {
		t.Fatalf("Expected goto(3), got %+v", step)
	}
}

func TestEvaluateWriteMetadata(t *testing.T) {
	pkt := &fakePacket{}
	set := action.NewSet()

	instrs := ofp.Instructions{&ofp.InstructionWriteMetadata{Metadata: 0xff, MetadataMask: 0x0f}}
	if _, err := Evaluate(instrs, pkt, set, nil, nil); err != nil {
		t.Fatalf("Evaluate failed: %s", err)
	}
	if pkt.metadata != 0x0f {
		t.Fatalf("Expected masked metadata write, got %#x", pkt.metadata)
	}
}

func TestEvaluateWriteThenClearActionsEmptiesSet(t *testing.T) {
	pkt := &fakePacket{}
	set := action.NewSet()

	instrs := ofp.Instructions{
		&ofp.InstructionWriteActions{Actions: ofp.Actions{&ofp.ActionOutput{Port: 1}}},
		&ofp.InstructionClearActions{},
	}
	if _, err := Evaluate(instrs, pkt, set, nil, nil); err != nil {
		t.Fatalf("Evaluate failed: %s", err)
	}
	if set.Len() != 0 {
		t.Fatalf("Expected action set to be empty after clear-actions, got %d entries", set.Len())
	}
}

func TestEvaluateWriteActionsAccumulatesByType(t *testing.T) {
	pkt := &fakePacket{}
	set := action.NewSet()

	instrs := ofp.Instructions{
		&ofp.InstructionWriteActions{Actions: ofp.Actions{&ofp.ActionOutput{Port: 1}}},
		&ofp.InstructionWriteActions{Actions: ofp.Actions{&ofp.ActionOutput{Port: 2}}},
	}
	if _, err := Evaluate(instrs, pkt, set, nil, nil); err != nil {
		t.Fatalf("Evaluate failed: %s", err)
	}
	if set.Len() != 1 {
		t.Fatalf("Expected the second write to replace the first by type, got %d entries", set.Len())
	}
	if !set.HasOutput() {
		t.Fatal("Expected the action set to carry an output action")
	}
}

func TestEvaluateApplyActionsRunsImmediately(t *testing.T) {
	pkt := &fakePacket{}
	set := action.NewSet()

	xm := ofp.XM{Type: ofp.XMTypeEthDst, Value: ofp.XMValue{7}}
	instrs := ofp.Instructions{
		&ofp.InstructionApplyActions{Actions: ofp.Actions{&ofp.ActionSetField{Field: xm}}},
	}
	if _, err := Evaluate(instrs, pkt, set, nil, nil); err != nil {
		t.Fatalf("Evaluate failed: %s", err)
	}
	if pkt.Field(ofp.XMTypeEthDst) == nil {
		t.Fatal("Expected apply-actions to mutate the packet immediately")
	}
}
