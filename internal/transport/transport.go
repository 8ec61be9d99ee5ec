// Package transport implements the TCP-connect-then-optional-TLS byte
// pipe a Context transaction sends its formatted HTTP request over and
// reads its response from.
//
// The state machine described in the root package drives this package
// with blocking calls under a context.Context deadline rather than the
// would-block/readiness style the embedded C core uses; a single
// goroutine per transaction makes that the natural shape in Go, and
// Context.Await/LastResult/OnOutcome all observe the same goroutine
// rather than stepping a non-blocking state machine themselves.
package transport

import (
	"context"
	"time"
)

// Transport is the byte-level pipe a transaction sends its request over
// and reads its response from. TCP implements it directly; TLS wraps
// another Transport to add a handshake step ahead of Send/Recv.
type Transport interface {
	// Connect tries addrs in order (already interleaved IPv6-then-IPv4
	// by the caller), giving each address up to addressTimeout before
	// moving on to the next, and returns once one connects or ctx is
	// done. addressTimeout is the wait-connect timer duration; it is
	// applied fresh per address so a hang on one address doesn't starve
	// the others of their own window.
	Connect(ctx context.Context, addrs []string, port int, addressTimeout time.Duration) error

	// Send writes the full contents of p, blocking until it's flushed
	// or ctx is done.
	Send(ctx context.Context, p []byte) error

	// Recv reads into buf and returns the number of bytes read. Like
	// io.Reader, 0 < n <= len(buf); io.EOF signals the peer closed the
	// connection.
	Recv(ctx context.Context, buf []byte) (int, error)

	// Close releases the underlying connection. Safe to call more than
	// once and safe to call concurrently with a blocked Send/Recv,
	// which must then return promptly with an error.
	Close() error
}
