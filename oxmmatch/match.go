// Package oxmmatch implements the OXM match evaluator: whether a flow
// entry's match fields are satisfied by a packet's fields.
package oxmmatch

import "github.com/netrack/ofswitch/ofp"

// Match reports whether entry matches the packet's fields: every field
// in entry must have a field-equal counterpart among fields (same
// class and type; value, masked by entry's mask when present, equal to
// the identically masked packet value). An entry with no fields is the
// wildcard catch-all and matches every packet.
func Match(entry ofp.Match, fields []ofp.XM) bool {
	for _, want := range entry.Fields {
		if !matchOne(want, fields) {
			return false
		}
	}
	return true
}

func matchOne(want ofp.XM, fields []ofp.XM) bool {
	for _, got := range fields {
		if got.Class != want.Class || got.Type != want.Type {
			continue
		}
		if valueEqual(want, got) {
			return true
		}
	}
	return false
}

// valueEqual compares want's value against got's, masking both sides
// by want's mask when one is present.
func valueEqual(want, got ofp.XM) bool {
	if len(want.Mask) == 0 {
		return bytesEqual(want.Value, got.Value)
	}

	wv := maskBytes(want.Value, want.Mask)
	gv := maskBytes(got.Value, want.Mask)
	return bytesEqual(wv, gv)
}

func maskBytes(v, mask ofp.XMValue) ofp.XMValue {
	n := len(v)
	if len(mask) < n {
		n = len(mask)
	}
	out := make(ofp.XMValue, len(v))
	copy(out, v)
	for i := 0; i < n; i++ {
		out[i] &= mask[i]
	}
	return out
}

func bytesEqual(a, b ofp.XMValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
