package logsink

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/transport"
)

func TestSendLogsPacketIn(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.Out = &buf
	logger.SetFormatter(&logrus.JSONFormatter{})

	c := New(logrus.NewEntry(logger))

	err := c.Send(ofp.PacketInReasonNoMatch, transport.Snapshot{InPort: 1, Size: 64})
	if err != nil {
		t.Fatalf("Send failed: %s", err)
	}

	if !bytes.Contains(buf.Bytes(), []byte("packet-in")) {
		t.Fatalf("Expected log output to mention packet-in, got %s", buf.String())
	}
}

func TestNewDefaultsToStandardLogger(t *testing.T) {
	c := New(nil)
	if c.Log == nil {
		t.Fatal("Expected a default logger entry")
	}
}
