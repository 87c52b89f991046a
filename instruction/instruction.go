// Package instruction implements the per-entry instruction evaluator:
// it walks a flow entry's instruction list and resolves the packet's
// next pipeline step.
package instruction

import (
	"github.com/netrack/ofswitch/action"
	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/transport"
)

// StepKind distinguishes the two terminal outcomes an instruction list
// can resolve to.
type StepKind int

const (
	// StepOutput is the default outcome: execute the packet's action
	// set at pipeline termination.
	StepOutput StepKind = iota

	// StepGoto redirects the pipeline to another table.
	StepGoto
)

// Step is the instruction evaluator's terminal value.
type Step struct {
	Kind  StepKind
	Table ofp.Table
}

// Mutable is the packet surface instructions other than apply-actions
// operate on directly.
type Mutable interface {
	action.Mutable
	SetMetadata(value, mask uint64)
}

// ActionWriter is satisfied by a packet's deferred action set.
type ActionWriter interface {
	Write(ofp.Actions)
	Clear()
}

// Evaluate walks instrs in order against pkt, applying apply-actions
// immediately, folding write-actions/clear-actions into actions, and
// write-metadata into pkt. It returns the resolved next step; the last
// goto-table instruction encountered wins, matching the teacher's
// left-to-right instruction order.
func Evaluate(instrs ofp.Instructions, pkt Mutable, actions ActionWriter, egress transport.Egress, ctrl transport.Controller) (Step, error) {
	step := Step{Kind: StepOutput}

	for _, inst := range instrs {
		switch i := inst.(type) {
		case *ofp.InstructionApplyActions:
			if err := action.Apply(i.Actions, pkt, egress, ctrl); err != nil {
				return step, err
			}

		case *ofp.InstructionWriteActions:
			actions.Write(i.Actions)

		case *ofp.InstructionClearActions:
			actions.Clear()

		case *ofp.InstructionWriteMetadata:
			pkt.SetMetadata(i.Metadata, i.MetadataMask)

		case *ofp.InstructionGotoTable:
			step = Step{Kind: StepGoto, Table: i.Table}

		case *ofp.InstructionMeter:
			// metering is a stubbed collaborator touch-point; accepted
			// without effect on packet or step.

		default:
			// unrecognized instructions are ignored; the decoder is
			// responsible for rejecting them earlier.
		}
	}

	return step, nil
}
