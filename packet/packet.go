// Package packet models the in-flight packet state the pipeline
// evaluates and mutates as it walks the flow tables.
package packet

import (
	"github.com/netrack/ofswitch/action"
	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/transport"
)

var _ action.Mutable = (*Packet)(nil)

// Packet is the mutable state a single packet carries through the
// pipeline: its ingress metadata, OXM match fields, the deferred action
// set accumulated by write-actions instructions, and the TTL/header
// stack state the action evaluator operates on.
//
// Packet satisfies action.Mutable structurally; this package imports
// action for the Set type, action never imports this package back.
type Packet struct {
	InPort ofp.PortNo
	Size   uint64

	fields   []ofp.XM
	metadata uint64

	// actionSet is the deferred action set built up by write-actions
	// instructions and run at pipeline termination.
	actionSet *action.Set

	nwTTL   uint8
	hasNWTTL bool

	mplsTTL   uint8
	hasMPLSTTL bool

	vlanStack []uint16
	mplsStack []uint16

	Payload []byte
}

// New returns a packet seeded with its ingress port and OXM fields.
// fields is copied so later mutation of the caller's slice never
// leaks into the packet.
func New(inPort ofp.PortNo, fields []ofp.XM, payload []byte) *Packet {
	return &Packet{
		InPort:  inPort,
		Size:    uint64(len(payload)),
		fields:    append([]ofp.XM(nil), fields...),
		actionSet: action.NewSet(),
		Payload:   payload,
	}
}

// Fields returns the packet's current OXM match fields.
func (p *Packet) Fields() []ofp.XM {
	return p.fields
}

// Actions returns the packet's deferred action set.
func (p *Packet) Actions() *action.Set {
	return p.actionSet
}

// Snapshot returns an immutable copy of the packet's state, taken at
// the point an output action hands it to a collaborator.
func (p *Packet) Snapshot() transport.Snapshot {
	return transport.Snapshot{
		InPort:  p.InPort,
		Size:    p.Size,
		Fields:  append([]ofp.XM(nil), p.fields...),
		Payload: append([]byte(nil), p.Payload...),
	}
}

// Field returns the packet's OXM field of the given type, or nil when
// absent.
func (p *Packet) Field(t ofp.XMType) *ofp.XM {
	for i := range p.fields {
		if p.fields[i].Type == t {
			return &p.fields[i]
		}
	}
	return nil
}

// SetField overwrites the field matching xm's type, inserting it when
// the packet does not already carry one.
func (p *Packet) SetField(xm ofp.XM) {
	if f := p.Field(xm.Type); f != nil {
		*f = xm
		return
	}
	p.fields = append(p.fields, xm)
}

// Metadata returns the 64-bit pipeline metadata register.
func (p *Packet) Metadata() uint64 {
	return p.metadata
}

// SetMetadata replaces bits selected by mask with the corresponding
// bits of value, leaving the rest untouched. A zero mask is a no-op,
// an all-ones mask a full replace.
func (p *Packet) SetMetadata(value, mask uint64) {
	p.metadata = (p.metadata &^ mask) | (value & mask)
}

// NetworkTTL returns the IPv4 TTL / IPv6 hop limit and whether the
// packet carries a network-layer header to own one.
func (p *Packet) NetworkTTL() (uint8, bool) {
	return p.nwTTL, p.hasNWTTL
}

// SetNetworkTTL sets the network-layer TTL.
func (p *Packet) SetNetworkTTL(ttl uint8) {
	p.nwTTL, p.hasNWTTL = ttl, true
}

// MPLSTTL returns the outermost MPLS shim TTL and whether one is
// present.
func (p *Packet) MPLSTTL() (uint8, bool) {
	return p.mplsTTL, p.hasMPLSTTL
}

// SetMPLSTTL sets the outermost MPLS shim TTL.
func (p *Packet) SetMPLSTTL(ttl uint8) {
	p.mplsTTL, p.hasMPLSTTL = ttl, true
}

// PushVLAN pushes a new VLAN tag of the given Ethertype onto the
// packet's header stack.
func (p *Packet) PushVLAN(ethertype uint16) {
	p.vlanStack = append(p.vlanStack, ethertype)
}

// PopVLAN pops the outermost VLAN tag, reporting whether one existed.
func (p *Packet) PopVLAN() bool {
	if len(p.vlanStack) == 0 {
		return false
	}
	p.vlanStack = p.vlanStack[:len(p.vlanStack)-1]
	return true
}

// PushMPLS pushes a new MPLS shim header of the given Ethertype.
func (p *Packet) PushMPLS(ethertype uint16) {
	p.mplsStack = append(p.mplsStack, ethertype)
	p.hasMPLSTTL = true
}

// PopMPLS pops the outermost MPLS shim header, reporting whether one
// existed.
func (p *Packet) PopMPLS(ethertype uint16) bool {
	if len(p.mplsStack) == 0 {
		return false
	}
	p.mplsStack = p.mplsStack[:len(p.mplsStack)-1]
	p.hasMPLSTTL = len(p.mplsStack) > 0
	return true
}
