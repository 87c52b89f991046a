package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/netrack/ofswitch/controlplane"
	"github.com/netrack/ofswitch/flowtable"
	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/pipeline"
	"github.com/netrack/ofswitch/transport"
)

func TestSamplePopulatesTableGauges(t *testing.T) {
	p := pipeline.New(transport.DiscardEgress, transport.DiscardController)
	tbl := flowtable.New(flowtable.MissDrop)
	tbl.Add(1, ofp.Match{}, nil, 7, 0, false)
	p.AddTable(0, tbl)
	tbl.Lookup(nil, 64)

	surface := controlplane.New(p)
	reg := prometheus.NewRegistry()
	r := NewRegistry(surface, reg)

	r.Sample([]ofp.Table{0})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %s", err)
	}

	var found bool
	for _, mf := range families {
		if mf.GetName() == "ofswitch_table_lookups_total" {
			found = true
			if len(mf.Metric) != 1 || mf.Metric[0].GetGauge().GetValue() != 1 {
				t.Fatalf("Expected one lookup recorded, got %v", mf.Metric)
			}
		}
	}
	if !found {
		t.Fatal("Expected ofswitch_table_lookups_total to be registered")
	}
}
