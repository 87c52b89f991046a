// Package controlplane exposes the operations a controller connection
// drives against the pipeline: flow and table modification, and
// read-only statistics snapshots.
package controlplane

import (
	"github.com/netrack/ofswitch/flowtable"
	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/pipeline"
	"github.com/netrack/ofswitch/transport"
)

// ErrKind classifies a modify_flow failure.
type ErrKind int

const (
	ErrOverlap ErrKind = iota
	ErrBadTableID
	ErrBadInstruction
	ErrBadAction
	ErrBadMatch
)

var errKindText = map[ErrKind]string{
	ErrOverlap:        "overlap",
	ErrBadTableID:     "bad_table_id",
	ErrBadInstruction: "bad_instruction",
	ErrBadAction:      "bad_action",
	ErrBadMatch:       "bad_match",
}

func (k ErrKind) String() string {
	if s, ok := errKindText[k]; ok {
		return s
	}
	return "unknown"
}

// Error reports a rejected control-plane operation, carrying the
// OpenFlow error type/code a caller can use to build an ofp_error_msg.
type Error struct {
	Kind ErrKind
	Type ofp.ErrType
	Code ofp.ErrCode
}

func (e *Error) Error() string {
	return "controlplane: " + e.Kind.String()
}

func newError(kind ErrKind, code ofp.ErrCode) *Error {
	return &Error{Kind: kind, Type: ofp.ErrTypeFlowModFailed, Code: code}
}

// Surface is the control-plane-facing view of a pipeline: it drives
// flow/table modification and serves statistics requests.
type Surface struct {
	Pipeline *pipeline.Pipeline
}

// New returns a control-plane surface fronting p.
func New(p *pipeline.Pipeline) *Surface {
	return &Surface{Pipeline: p}
}

// ModifyFlow applies fm against the pipeline's table registry,
// returning a classified Error on rejection.
func (s *Surface) ModifyFlow(fm *ofp.FlowMod) error {
	t := s.Pipeline.Table(fm.Table)
	if t == nil {
		return newError(ErrBadTableID, ofp.ErrCodeFlowModFailedBadTableID)
	}

	switch fm.Command {
	case ofp.FlowAdd:
		check := fm.Flags&ofp.FlowFlagCheckOverlap != 0
		if _, err := t.Add(fm.Priority, fm.Match, fm.Instructions, fm.Cookie, fm.Flags, check); err != nil {
			return newError(ErrOverlap, ofp.ErrCodeFlowModFailedOverlap)
		}
		return nil

	case ofp.FlowModify:
		t.Modify(fm.Cookie, fm.CookieMask, false, fm.Priority, fm.Match, fm.Instructions)
		return nil

	case ofp.FlowModifyStrict:
		t.Modify(fm.Cookie, fm.CookieMask, true, fm.Priority, fm.Match, fm.Instructions)
		return nil

	case ofp.FlowDelete:
		t.Delete(fm.Cookie, fm.CookieMask, false, fm.Priority, fm.Match)
		return nil

	case ofp.FlowDeleteStrict:
		t.Delete(fm.Cookie, fm.CookieMask, true, fm.Priority, fm.Match)
		return nil

	default:
		return newError(ErrBadInstruction, ofp.ErrCodeFlowModFailedBadCommand)
	}
}

// missConfigOf decodes a table-mod's deprecated miss-config bits (the
// two bits ofp.TableConfigDeprecatedMask selects) into a flowtable
// miss policy, following the legacy OFPTC_TABLE_MISS_* encoding:
// CONTROLLER=0, CONTINUE=1, DROP=2.
func missConfigOf(cfg ofp.TableConfig) flowtable.MissConfig {
	switch cfg & ofp.TableConfigDeprecatedMask {
	case 0:
		return flowtable.MissController
	case 1:
		return flowtable.MissContinue
	default:
		return flowtable.MissDrop
	}
}

// ModifyTable applies a table-mod's miss_config to the addressed
// table, or to every registered table when Table is ofp.TableAll.
func (s *Surface) ModifyTable(tm *ofp.TableMod) error {
	miss := missConfigOf(tm.Config)

	if tm.Table == ofp.TableAll {
		for _, id := range s.Pipeline.TableIDs() {
			s.SetMissConfig(id, miss)
		}
		return nil
	}

	return s.SetMissConfig(tm.Table, miss)
}

// SetMissConfig changes table id's miss policy in place.
func (s *Surface) SetMissConfig(id ofp.Table, miss flowtable.MissConfig) error {
	t := s.Pipeline.Table(id)
	if t == nil {
		return newError(ErrBadTableID, ofp.ErrCodeFlowModFailedBadTableID)
	}
	t.Miss = miss
	return nil
}

// TableStats is a read-only snapshot of one table's counters.
type TableStats struct {
	Table   ofp.Table
	Active  int
	Lookups uint64
	Matches uint64
}

// FlowStats is a read-only snapshot of one entry's counters.
type FlowStats struct {
	Priority    uint16
	Cookie      uint64
	Packets     uint64
	Bytes       uint64
	InstallTime int64
}

// TableStatsAll returns a snapshot of every registered table's
// counters. Unregistered table ids are simply absent.
func (s *Surface) TableStatsAll(ids []ofp.Table) []TableStats {
	out := make([]TableStats, 0, len(ids))
	for _, id := range ids {
		t := s.Pipeline.Table(id)
		if t == nil {
			continue
		}
		out = append(out, TableStats{
			Table:   id,
			Active:  len(t.Entries()),
			Lookups: t.Counters.Lookups(),
			Matches: t.Counters.Matches(),
		})
	}
	return out
}

// FlowStatsForTable returns a snapshot of every entry's counters in
// table id, or nil if the table does not exist.
func (s *Surface) FlowStatsForTable(id ofp.Table) []FlowStats {
	t := s.Pipeline.Table(id)
	if t == nil {
		return nil
	}

	entries := t.Entries()
	out := make([]FlowStats, 0, len(entries))
	for _, e := range entries {
		out = append(out, FlowStats{
			Priority:    e.Priority,
			Cookie:      e.Cookie,
			Packets:     e.Counters.Packets(),
			Bytes:       e.Counters.Bytes(),
			InstallTime: e.Counters.InstallTime(),
		})
	}
	return out
}

// AsyncFilter wraps a transport.Controller with the switch's current
// asynchronous-message masks, dropping packet-in notifications whose
// reason bit the controller has not asked for. Only PacketInMask is
// consulted: port-status and flow-removed notifications have no
// equivalent source in this pipeline.
type AsyncFilter struct {
	Controller transport.Controller
	mask       [2]uint32
}

// NewAsyncFilter returns a filter that forwards every packet-in,
// matching the OpenFlow default async-config masks.
func NewAsyncFilter(ctrl transport.Controller) *AsyncFilter {
	return &AsyncFilter{Controller: ctrl, mask: [2]uint32{^uint32(0), ^uint32(0)}}
}

// SetAsyncConfig replaces the filter's packet-in mask from an
// ofp.AsyncConfig message.
func (f *AsyncFilter) SetAsyncConfig(cfg *ofp.AsyncConfig) {
	f.mask = cfg.PacketInMask
}

// Send forwards the packet-in to the wrapped controller only when
// reason's bit is set in the current mask's master half.
func (f *AsyncFilter) Send(reason ofp.PacketInReason, snap transport.Snapshot) error {
	if f.mask[0]&(1<<uint32(reason)) == 0 {
		return nil
	}
	return f.Controller.Send(reason, snap)
}

var _ transport.Controller = (*AsyncFilter)(nil)

// DescStats, AggregateStats, PortStats, QueueStats and GroupStats are
// empty shells: this core carries no switch description, port, queue
// or group state, so these accessors exist to complete the
// control-plane surface without carrying real semantics.
type DescStats struct{}
type AggregateStats struct{}
type PortStats struct{}
type QueueStats struct{}
type GroupStats struct{}

func (s *Surface) DescStats() DescStats           { return DescStats{} }
func (s *Surface) AggregateStats() AggregateStats { return AggregateStats{} }
func (s *Surface) PortStatsAll() []PortStats       { return nil }
func (s *Surface) QueueStatsAll() []QueueStats     { return nil }
func (s *Surface) GroupStatsAll() []GroupStats     { return nil }
