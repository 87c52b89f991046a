package transport

import "github.com/netrack/ofswitch/ofp"

// Snapshot is an immutable copy of packet state handed to a collaborator.
// It is taken at the point the datapath decides to hand the packet off,
// so later in-place mutation of the original packet never leaks into it.
type Snapshot struct {
	InPort  ofp.PortNo
	Size    uint64
	Fields  []ofp.XM
	Payload []byte
}

// Egress is the sink a datapath submits packets to when an output
// action names a concrete switch port. Implementations own the actual
// port I/O (see transport/vport for a netlink-backed one).
type Egress interface {
	Emit(port ofp.PortNo, snap Snapshot) error
}

// Controller is the sink a datapath submits packets to on a
// controller-bound table miss or an explicit output(CONTROLLER) action.
type Controller interface {
	Send(reason ofp.PacketInReason, snap Snapshot) error
}

// EgressFunc is an adapter to allow ordinary functions to serve as Egress.
type EgressFunc func(ofp.PortNo, Snapshot) error

// Emit implements the Egress interface.
func (fn EgressFunc) Emit(port ofp.PortNo, snap Snapshot) error {
	return fn(port, snap)
}

// ControllerFunc is an adapter to allow ordinary functions to serve as
// Controller.
type ControllerFunc func(ofp.PacketInReason, Snapshot) error

// Send implements the Controller interface.
func (fn ControllerFunc) Send(reason ofp.PacketInReason, snap Snapshot) error {
	return fn(reason, snap)
}

// DiscardEgress is an Egress that drops every packet handed to it.
var DiscardEgress = EgressFunc(func(ofp.PortNo, Snapshot) error { return nil })

// DiscardController is a Controller that drops every packet handed to it.
var DiscardController = ControllerFunc(func(ofp.PacketInReason, Snapshot) error { return nil })
