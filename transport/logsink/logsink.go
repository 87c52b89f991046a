// Package logsink implements a Controller collaborator that logs
// packet-in events through logrus, the default sink when no real
// controller connection is configured.
package logsink

import (
	"github.com/sirupsen/logrus"

	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/transport"
)

// Controller logs every packet handed to it at the configured level.
// It implements transport.Controller.
type Controller struct {
	Log *logrus.Entry
}

// New returns a Controller logging through log, or a default
// logger tagged "controlplane" when log is nil.
func New(log *logrus.Entry) *Controller {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger()).WithField("component", "controlplane")
	}
	return &Controller{Log: log}
}

// Send logs the packet-in event; it never fails.
func (c *Controller) Send(reason ofp.PacketInReason, snap transport.Snapshot) error {
	c.Log.WithFields(logrus.Fields{
		"reason":  reason.String(),
		"in_port": snap.InPort,
		"size":    snap.Size,
	}).Info("packet-in")
	return nil
}

var _ transport.Controller = (*Controller)(nil)
