// Package testutils provides shared test infrastructure.
package testutils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// Payload returns the body for the n-th request, counting from 1. A nil
// body makes the server answer 500.
type Payload func(n int) []byte

// Unique returns a distinct body for every request.
func Unique() Payload {
	return func(n int) []byte {
		return []byte(fmt.Sprintf("payload-%d", n))
	}
}

// Fixed returns the same body for every request.
func Fixed(body []byte) Payload {
	return func(int) []byte { return body }
}

// FailOn wraps p so that request n fails with 500.
func FailOn(p Payload, fail int) Payload {
	return func(n int) []byte {
		if n == fail {
			return nil
		}
		return p(n)
	}
}

// PayloadServer serves one payload per request at every path.
type PayloadServer struct {
	*httptest.Server

	// ContentType is sent with every successful response.
	ContentType string

	requests atomic.Int64
}

// Requests returns the number of requests served so far.
func (s *PayloadServer) Requests() int {
	return int(s.requests.Load())
}

// StartPayloadServer starts a server answering every GET with the next
// payload. The server is closed when the test ends.
func StartPayloadServer(t *testing.T, p Payload) *PayloadServer {
	t.Helper()

	s := &PayloadServer{ContentType: "image/jpeg"}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body := p(int(s.requests.Add(1)))
		if body == nil {
			http.Error(w, "unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", s.ContentType)
		w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}
