package pncore

import (
	"context"
	"strconv"
	"time"

	"github.com/pnsdk/pncore/internal/resolver"
	"github.com/pnsdk/pncore/internal/transport"
)

// fakeResolver satisfies addressResolver without any network I/O, so
// state machine tests exercise resolve→connect→send→receive→parse end
// to end against a MockTransport instead of real sockets.
type fakeResolver struct {
	result resolver.Result
	err    error
}

func (f fakeResolver) Resolve(context.Context, string) (resolver.Result, error) {
	return f.result, f.err
}

var loopbackResolver = fakeResolver{result: resolver.Result{IPv4: []string{"127.0.0.1"}}}

// rawHTTPResponse builds a minimal HTTP/1.1 response a MockTransport can
// serve byte-for-byte, mirroring the fixtures internal/httpengine's own
// tests use.
func rawHTTPResponse(status int, statusText string, body string) []byte {
	return []byte("HTTP/1.1 " + strconv.Itoa(status) + " " + statusText +
		"\r\nContent-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body)
}

// newTestContext builds a Context wired to a MockTransport serving
// recvData and an in-memory resolver, bypassing DNS and sockets.
func newTestContext(recvData []byte, opts ...Option) (*Context, *transport.MockTransport) {
	mock := transport.NewMockTransport()
	mock.RecvData = recvData

	base := []Option{
		WithOrigin("test.invalid"),
		WithPublishKey("demo"),
		WithSubscribeKey("demo"),
		withResolver(loopbackResolver),
		withTransportFactory(func(string, bool) transport.Transport { return mock }),
	}
	ctx := NewContext(append(base, opts...)...)
	return ctx, mock
}

// awaitWithin blocks on ctx.Await but fails the surrounding test via the
// returned ok=false if it takes longer than d, so a hung transaction
// never makes a test suite stall rather than report a red test.
func awaitWithin(c *Context, d time.Duration) (ResultCode, bool) {
	type outcome struct {
		code ResultCode
	}
	done := make(chan outcome, 1)
	go func() { done <- outcome{c.Await()} }()
	select {
	case o := <-done:
		return o.code, true
	case <-time.After(d):
		return 0, false
	}
}
