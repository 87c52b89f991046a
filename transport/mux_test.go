package transport

import (
	"testing"
)

func TestMultiMatcher(t *testing.T) {
	xid := uint32(42)

	// A function, that matches the type of the request.
	mf1 := func(r *Request) bool {
		return r.Header.Type == TypeHello
	}

	// A function, that matches the transaction id.
	mf2 := func(r *Request) bool {
		return r.Header.XID == xid
	}

	matcher := MultiMatcher(&MatcherFunc{mf1}, &MatcherFunc{mf2})

	r, _ := NewRequest(TypePacketIn, nil)
	if matcher.Match(r) {
		t.Errorf("Matched request with different type")
	}

	r, _ = NewRequest(TypeHello, nil)
	r.Header.XID = xid + 1

	if matcher.Match(r) {
		t.Errorf("Matched request with different transaction id")
	}

	r.Header.XID = xid
	if !matcher.Match(r) {
		t.Errorf("Request supposed to match")
	}
}

func TestTypeMuxHandle(t *testing.T) {
	mux := NewTypeMux()

	var called bool
	mux.HandleFunc(TypePacketIn, func(rw ResponseWriter, r *Request) {
		called = true

		if r.Header.XID != 42 {
			t.Errorf("Wrong transaction id passed: %d", r.Header.XID)
		}
	})

	mux.HandleFunc(TypeEchoRequest, func(rw ResponseWriter, r *Request) {
		t.Errorf("This handler should never be called")
	})

	r, _ := NewRequest(TypePacketIn, nil)
	r.Header.XID = 42

	mux.Serve(&response{}, r)

	if !called {
		t.Error("Registered handler was not called")
	}
}

func TestTypeMuxDefaultHandler(t *testing.T) {
	mux := NewTypeMux()
	mux.HandleFunc(TypePacketIn, func(rw ResponseWriter, r *Request) {
		t.Error("This handler should never be called")
	})

	// A Hello request does not match any registered handler, so
	// it must fall through to DefaultHandler without panicking.
	r, _ := NewRequest(TypeHello, nil)
	mux.Serve(&response{}, r)
}

func TestTypeMuxHandleOnce(t *testing.T) {
	mux := NewTypeMux()

	var calls int
	mux.HandleOnce(TypeEchoRequest, HandlerFunc(func(rw ResponseWriter, r *Request) {
		calls++
	}))

	r, _ := NewRequest(TypeEchoRequest, nil)

	mux.Serve(&response{}, r)
	mux.Serve(&response{}, r)

	if calls != 1 {
		t.Errorf("Disposable handler was called %d times, want 1", calls)
	}
}
