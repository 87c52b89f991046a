// Package pipeline drives packets through the flow table registry:
// table 0 is always the entry point, goto-table instructions chain to
// higher-numbered tables, and the action set accumulated along the
// way is executed when an entry yields output.
package pipeline

import (
	"sync"

	"github.com/netrack/ofswitch/action"
	"github.com/netrack/ofswitch/flowtable"
	"github.com/netrack/ofswitch/instruction"
	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/transport"
)

// Disposition is the pipeline's terminal verdict for a routed packet.
type Disposition int

const (
	// Drop means the packet was discarded, by a table miss with the
	// drop policy, a bad goto target, or an action set with no output.
	Drop Disposition = iota

	// Controller means the packet was handed to the controller
	// collaborator, by miss policy or an explicit output(CONTROLLER)
	// action.
	Controller

	// Output means the packet's action set executed an output action.
	Output
)

// Packet is the surface pipeline operates on: the instruction
// evaluator's Mutable plus the deferred action set the table-0 entry
// point starts empty.
type Packet interface {
	instruction.Mutable
	Actions() *action.Set
}

// Pipeline is a registry of flow tables addressed by table id, with
// the collaborator sinks actions submit output to.
type Pipeline struct {
	mu     sync.RWMutex
	tables map[ofp.Table]*flowtable.Table

	Egress     transport.Egress
	Controller transport.Controller
}

// New returns an empty pipeline. Tables must be added with AddTable
// before packets can be routed through them.
func New(egress transport.Egress, ctrl transport.Controller) *Pipeline {
	return &Pipeline{
		tables:     make(map[ofp.Table]*flowtable.Table),
		Egress:     egress,
		Controller: ctrl,
	}
}

// AddTable registers a table under id, replacing any table already
// registered there.
func (p *Pipeline) AddTable(id ofp.Table, t *flowtable.Table) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tables[id] = t
}

// Table returns the table registered under id, or nil.
func (p *Pipeline) Table(id ofp.Table) *flowtable.Table {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tables[id]
}

// TableIDs returns the ids of every registered table, in no particular
// order.
func (p *Pipeline) TableIDs() []ofp.Table {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]ofp.Table, 0, len(p.tables))
	for id := range p.tables {
		ids = append(ids, id)
	}
	return ids
}

// Route runs pkt through the pipeline starting at table 0 and returns
// the ultimate disposition.
func (p *Pipeline) Route(pkt Packet) Disposition {
	return p.route(pkt, 0)
}

func (p *Pipeline) route(pkt Packet, id ofp.Table) Disposition {
	t := p.Table(id)
	if t == nil {
		return Drop
	}

	snap := pkt.Snapshot()

	e := t.Lookup(snap.Fields, snap.Size)
	if e == nil {
		return p.miss(pkt, t, id)
	}

	step, err := instruction.Evaluate(e.Instructions, pkt, pkt.Actions(), p.Egress, p.Controller)
	if err != nil {
		return Drop
	}

	switch step.Kind {
	case instruction.StepGoto:
		if step.Table <= id {
			return Drop
		}
		return p.route(pkt, step.Table)

	default:
		return p.finish(pkt)
	}
}

func (p *Pipeline) miss(pkt Packet, t *flowtable.Table, id ofp.Table) Disposition {
	switch t.Miss {
	case flowtable.MissDrop:
		return Drop
	case flowtable.MissController:
		if p.Controller != nil {
			p.Controller.Send(ofp.PacketInReasonNoMatch, pkt.Snapshot())
		}
		return Controller
	case flowtable.MissContinue:
		return p.route(pkt, id+1)
	default:
		return Drop
	}
}

func (p *Pipeline) finish(pkt Packet) Disposition {
	set := pkt.Actions()
	hasOutput := set.HasOutput()

	if err := set.Execute(pkt, p.Egress, p.Controller); err != nil {
		return Drop
	}

	if hasOutput {
		return Output
	}
	return Drop
}
