// Package vport implements an Egress collaborator that emits packets
// to kernel datapath ports over a generic netlink "ovs_packet"
// connection, the same family the host's Open vSwitch datapath
// exposes for OVS_PACKET_CMD_EXECUTE.
package vport

import (
	"fmt"
	"os"
	"strings"

	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/netlink"

	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/transport"
)

const packetFamilyName = "ovs_packet"

// Attribute identifiers within the ovs_packet family's
// OVS_PACKET_CMD_EXECUTE command.
const (
	attrPacket  = 1
	attrKey     = 2
	attrActions = 3
)

const cmdExecute = 1

// Egress submits packets for output through the kernel datapath's
// generic netlink interface. It implements transport.Egress.
type Egress struct {
	conn   *genetlink.Conn
	family genetlink.Family
}

// Dial opens a generic netlink connection and resolves the
// "ovs_packet" family. Returns os.ErrNotExist when the family is
// unavailable on this host (e.g. the openvswitch kernel module isn't
// loaded).
func Dial() (*Egress, error) {
	conn, err := genetlink.Dial(nil)
	if err != nil {
		return nil, err
	}
	return newEgress(conn)
}

// newEgress resolves the "ovs_packet" family on an already-dialed
// connection. Split out from Dial so tests can supply a genltest
// connection instead of a real netlink socket.
func newEgress(conn *genetlink.Conn) (*Egress, error) {
	families, err := conn.ListFamilies()
	if err != nil {
		conn.Close()
		return nil, err
	}

	for _, f := range families {
		if strings.EqualFold(f.Name, packetFamilyName) {
			return &Egress{conn: conn, family: f}, nil
		}
	}

	conn.Close()
	return nil, os.ErrNotExist
}

// Close releases the underlying netlink connection.
func (e *Egress) Close() error {
	return e.conn.Close()
}

// Emit sends snap's payload out the kernel vport identified by port.
func (e *Egress) Emit(port ofp.PortNo, snap transport.Snapshot) error {
	ae := netlink.NewAttributeEncoder()
	ae.Bytes(attrPacket, snap.Payload)
	ae.Uint32(attrKey, uint32(port))

	data, err := ae.Encode()
	if err != nil {
		return fmt.Errorf("vport: encode attributes: %w", err)
	}

	msg := genetlink.Message{
		Header: genetlink.Header{
			Command: cmdExecute,
			Version: e.family.Version,
		},
		Data: data,
	}

	_, err = e.conn.Execute(msg, e.family.ID, netlink.Request|netlink.Acknowledge)
	return err
}

var _ transport.Egress = (*Egress)(nil)
