package packet

import (
	"testing"

	"github.com/netrack/ofswitch/ofp"
)

func TestNewCopiesFields(t *testing.T) {
	fields := []ofp.XM{{Type: ofp.XMTypeEthDst, Value: ofp.XMValue{1}}}
	pkt := New(1, fields, []byte("payload"))

	fields[0].Value = ofp.XMValue{9}
	if pkt.Fields()[0].Value[0] != 1 {
		t.Fatal("Expected packet fields to be an independent copy")
	}
}

func TestSetFieldInsertsAndOverwrites(t *testing.T) {
	pkt := New(1, nil, nil)

	pkt.SetField(ofp.XM{Type: ofp.XMTypeEthDst, Value: ofp.XMValue{1}})
	if len(pkt.Fields()) != 1 {
		t.Fatalf("Expected one field, got %d", len(pkt.Fields()))
	}

	pkt.SetField(ofp.XM{Type: ofp.XMTypeEthDst, Value: ofp.XMValue{2}})
	if len(pkt.Fields()) != 1 {
		t.Fatalf("Expected overwrite in place, got %d fields", len(pkt.Fields()))
	}
	if pkt.Field(ofp.XMTypeEthDst).Value[0] != 2 {
		t.Fatal("Expected field value to be overwritten")
	}
}

func TestSetMetadataMasksBits(t *testing.T) {
	pkt := New(1, nil, nil)

	pkt.SetMetadata(0xff, 0x0f)
	if pkt.Metadata() != 0x0f {
		t.Fatalf("Expected masked write, got %#x", pkt.Metadata())
	}

	pkt.SetMetadata(0x00, 0x0f)
	if pkt.Metadata() != 0 {
		t.Fatalf("Expected masked clear, got %#x", pkt.Metadata())
	}
}

func TestVLANStack(t *testing.T) {
	pkt := New(1, nil, nil)

	if pkt.PopVLAN() {
		t.Fatal("Expected pop on empty stack to fail")
	}

	pkt.PushVLAN(0x8100)
	if !pkt.PopVLAN() {
		t.Fatal("Expected pop to succeed after push")
	}
	if pkt.PopVLAN() {
		t.Fatal("Expected stack to be empty after balanced push/pop")
	}
}

func TestMPLSTTLPresenceTracksStack(t *testing.T) {
	pkt := New(1, nil, nil)

	if _, ok := pkt.MPLSTTL(); ok {
		t.Fatal("Expected no MPLS TTL before any push")
	}

	pkt.PushMPLS(0x8847)
	if _, ok := pkt.MPLSTTL(); !ok {
		t.Fatal("Expected MPLS TTL to be present after push")
	}

	pkt.PopMPLS(0x0800)
	if _, ok := pkt.MPLSTTL(); ok {
		t.Fatal("Expected MPLS TTL to clear once the stack empties")
	}
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	pkt := New(1, []ofp.XM{{Type: ofp.XMTypeEthDst}}, []byte("hi"))
	snap := pkt.Snapshot()

	pkt.SetField(ofp.XM{Type: ofp.XMTypeEthDst, Value: ofp.XMValue{1}})
	pkt.Payload[0] = 'H'

	if len(snap.Fields) != 1 || snap.Fields[0].Value != nil {
		t.Fatal("Expected snapshot fields to predate the mutation")
	}
	if snap.Payload[0] != 'h' {
		t.Fatal("Expected snapshot payload to predate the mutation")
	}
}
