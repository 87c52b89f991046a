// Package action implements the apply-actions evaluator and the
// per-packet action-set manager of the OpenFlow pipeline.
package action

import (
	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/transport"
)

// Mutable is the packet surface the action evaluator operates on. The
// concrete implementation lives in package packet; action never imports
// it directly, it only depends on this interface.
type Mutable interface {
	// Snapshot returns an immutable copy of the packet state, taken at
	// the point an output action hands it to a collaborator.
	Snapshot() transport.Snapshot

	// Field returns the packet's OXM field of the given type, or nil.
	Field(t ofp.XMType) *ofp.XM

	// SetField overwrites the packet's OXM field matching xm's type,
	// adding it when absent.
	SetField(xm ofp.XM)

	// NetworkTTL returns the IPv4/IPv6 TTL and whether it is present.
	NetworkTTL() (uint8, bool)
	SetNetworkTTL(ttl uint8)

	// MPLSTTL returns the outermost MPLS shim TTL and whether it is
	// present.
	MPLSTTL() (uint8, bool)
	SetMPLSTTL(ttl uint8)

	PushVLAN(ethertype uint16)
	PopVLAN() bool

	PushMPLS(ethertype uint16)
	PopMPLS(ethertype uint16) bool
}

// decTTL decrements a TTL value, clamping at zero.
func decTTL(ttl uint8) uint8 {
	if ttl == 0 {
		return 0
	}
	return ttl - 1
}

// Apply executes actions in list order against pkt, submitting output
// side effects to egress or ctrl. It never fails due to the contents of
// the action list itself; the only errors it can return come from the
// egress/controller collaborators.
func Apply(actions ofp.Actions, pkt Mutable, egress transport.Egress, ctrl transport.Controller) error {
	for _, a := range actions {
		switch act := a.(type) {
		case *ofp.ActionOutput:
			if err := output(act, pkt, egress, ctrl); err != nil {
				return err
			}

		case *ofp.ActionGroup:
			// group processing is a stubbed collaborator touch-point
			// in this core; accepted without error.
		case *ofp.ActionSetQueue:
			// queue assignment is stubbed likewise.

		case *ofp.ActionCopyTTLOut:
			ttl, ok := pkt.NetworkTTL()
			if _, outer := pkt.MPLSTTL(); ok && outer {
				pkt.SetMPLSTTL(ttl)
			}
		case *ofp.ActionCopyTTLIn:
			ttl, ok := pkt.MPLSTTL()
			if _, inner := pkt.NetworkTTL(); ok && inner {
				pkt.SetNetworkTTL(ttl)
			}

		case *ofp.ActionSetMPLSTTL:
			if _, ok := pkt.MPLSTTL(); ok {
				pkt.SetMPLSTTL(act.TTL)
			}
		case *ofp.ActionDecMPLSTTL:
			if ttl, ok := pkt.MPLSTTL(); ok {
				pkt.SetMPLSTTL(decTTL(ttl))
			}
		case *ofp.ActionSetNetworkTTL:
			if _, ok := pkt.NetworkTTL(); ok {
				pkt.SetNetworkTTL(act.TTL)
			}
		case *ofp.ActionDecNetworkTTL:
			if ttl, ok := pkt.NetworkTTL(); ok {
				pkt.SetNetworkTTL(decTTL(ttl))
			}

		case *ofp.ActionPushVLAN:
			pkt.PushVLAN(act.EtherType)
		case *ofp.ActionPopVLAN:
			pkt.PopVLAN()
		case *ofp.ActionPushMPLS:
			pkt.PushMPLS(act.EtherType)
		case *ofp.ActionPopMPLS:
			pkt.PopMPLS(act.EtherType)

		case *ofp.ActionSetField:
			pkt.SetField(act.Field)

		case *ofp.ActionExperimenter:
			// treated as a no-op in this core.

		default:
			// Unknown or malformed actions are dropped silently;
			// the decoder is responsible for rejecting them earlier.
		}
	}

	return nil
}

// output runs the side effect of a single output action: the controller
// port is routed to ctrl, everything else to egress.
func output(act *ofp.ActionOutput, pkt Mutable, egress transport.Egress, ctrl transport.Controller) error {
	snap := pkt.Snapshot()

	if act.Port == ofp.PortController {
		if ctrl == nil {
			return nil
		}
		return ctrl.Send(ofp.PacketInReasonAction, snap)
	}

	if egress == nil {
		return nil
	}
	return egress.Emit(act.Port, snap)
}
