package ofputil

import (
	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/transport"
)

// TableFlush returns a flow modification request that deletes all
// entries from the given table.
func TableFlush(table ofp.Table) (*transport.Request, error) {
	body, err := transport.NewReader(&ofp.FlowMod{
		Table:    table,
		Command:  ofp.FlowDelete,
		Buffer:   ofp.NoBuffer,
		OutPort:  ofp.PortAny,
		OutGroup: ofp.GroupAny,
		Match:    ofp.Match{Type: ofp.MatchTypeXM},
	})
	if err != nil {
		return nil, err
	}

	return transport.NewRequest(transport.TypeFlowMod, body)
}

// FlowFlush returns a flow modification request that deletes all
// entries matching the given match from the given table.
func FlowFlush(table ofp.Table, match ofp.Match) (*transport.Request, error) {
	body, err := transport.NewReader(&ofp.FlowMod{
		Table:    table,
		Command:  ofp.FlowDelete,
		Buffer:   ofp.NoBuffer,
		OutPort:  ofp.PortAny,
		OutGroup: ofp.GroupAny,
		Match:    match,
	})
	if err != nil {
		return nil, err
	}

	return transport.NewRequest(transport.TypeFlowMod, body)
}

// FlowDrop returns a flow modification request that installs a
// catch-all, instruction-less (drop) entry into the given table.
func FlowDrop(table ofp.Table) (*transport.Request, error) {
	body, err := transport.NewReader(&ofp.FlowMod{
		Table:   table,
		Command: ofp.FlowAdd,
		Buffer:  ofp.NoBuffer,
		Match:   ofp.Match{Type: ofp.MatchTypeXM},
	})
	if err != nil {
		return nil, err
	}

	return transport.NewRequest(transport.TypeFlowMod, body)
}
