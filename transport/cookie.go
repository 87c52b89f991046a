package transport

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
)

type CookieJar interface {
	SetCookies(uint64)
	Cookies() uint64
}

// CookieReader is the interface to read cookie jars.
//
// CookieReader parses the body of the handling request and returns the
// cookie jar with containing cookies or nil when error occurs.
type CookieReader interface {
	ReadCookie(io.Reader) (CookieJar, error)
}

// The CookieReaderFunc is an adapter to allow use of ordinary functions
// as cookie readers. If fn is a function with the appropriate signature,
// CookieReaderFunc(fn) is a CookieReader that calls fn.
type CookieReaderFunc func(io.Reader) (CookieJar, error)

// ReadCookie calls the function with the specified reader argument.
func (fn CookieReaderFunc) ReadCookie(r io.Reader) (CookieJar, error) {
	return fn(r)
}

// CookieReaderOf returns a CookieReader that decodes the wire
// representation of the given cookie jar by delegating to its own
// ReadFrom method.
func CookieReaderOf(jar CookieJar) CookieReader {
	rf, ok := jar.(io.ReaderFrom)
	if !ok {
		return CookieReaderFunc(func(io.Reader) (CookieJar, error) {
			return nil, errors.New("transport: cookie jar does not support reading")
		})
	}

	return CookieReaderFunc(func(r io.Reader) (CookieJar, error) {
		if _, err := rf.ReadFrom(r); err != nil {
			return nil, err
		}
		return jar, nil
	})
}

// CookieFilter provides mechanism to hook up the message handler with an
// opaque data. Filter is safe for concurrent use by multiple goroutines.
type CookieFilter struct {
	Cookies uint64

	// Reader is an OpenFlow message unmarshaler. CookieFilter will use
	// it to access the request cookie value. If the cookie matches, the
	// registered handler will be called to process the request. Otherwise
	// the request will be skipped.
	Reader CookieReader
}

// Match implements the Matcher interface. It compares the cookie carried
// by the message with the configured one.
//
// Cookie of each incoming request will be compared to the given cookie
// jar cookie. If the request cookie matches the registered one, the given
// handler will be used to process the request.
func (f *CookieFilter) Match(r *Request) bool {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return false
	}

	// Parse the incoming request to access the cookies.
	jar, err := f.Reader.ReadCookie(bytes.NewBuffer(body))
	if err != nil {
		return false
	}

	r.Body = bytes.NewBuffer(body)
	return jar.Cookies() == f.Cookies
}
