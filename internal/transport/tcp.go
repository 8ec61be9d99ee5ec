package transport

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
)

// TCP is a Transport over a single net.Conn, chosen by trying a list of
// addresses in order and keeping the first that connects. dialFunc is a
// seam for tests: it defaults to a real net.Dialer but can be swapped for
// a fake that blocks past a deadline without opening a socket.
type TCP struct {
	mu       sync.Mutex
	conn     net.Conn
	dialFunc func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewTCP returns an unconnected TCP transport.
func NewTCP() *TCP {
	dialer := net.Dialer{Control: PlatformControl}
	return &TCP{dialFunc: dialer.DialContext}
}

// Connect tries each address in turn, applying PlatformControl so every
// attempt gets TCP_NODELAY and keepalive before data ever flows. Each
// address gets its own sub-deadline of addressTimeout, derived fresh
// from ctx, per §4.3: a hang on one cached address must not consume the
// window the next address would otherwise get. ctx itself (bounded by
// the overall transaction timer) remains the outer bound on the whole
// loop.
func (t *TCP) Connect(ctx context.Context, addrs []string, port int, addressTimeout time.Duration) error {
	portStr := strconv.Itoa(port)

	var lastErr error
	timedOut := false
	for _, addr := range addrs {
		if ctx.Err() != nil {
			return &pnerrors.TransportError{
				Operation: "connect",
				Code:      pnerrors.ResultConnectionTimeout,
				Err:       ctx.Err(),
			}
		}

		addrCtx, cancel := context.WithTimeout(ctx, addressTimeout)
		conn, err := t.dialFunc(addrCtx, "tcp", net.JoinHostPort(addr, portStr))
		if err != nil {
			if addrCtx.Err() != nil {
				timedOut = true
			}
			cancel()
			lastErr = err
			continue
		}
		cancel()

		t.mu.Lock()
		t.conn = conn
		t.mu.Unlock()
		return nil
	}

	if lastErr == nil {
		lastErr = &pnerrors.ValidationError{
			Field:   "addresses",
			Message: "no addresses to connect to",
		}
	}
	code := pnerrors.ResultConnectError
	if timedOut {
		code = pnerrors.ResultConnectionTimeout
	}
	return &pnerrors.TransportError{
		Operation: "connect",
		Code:      code,
		Err:       lastErr,
		Details:   "exhausted all candidate addresses",
	}
}

func (t *TCP) Send(ctx context.Context, p []byte) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return &pnerrors.TransportError{Operation: "send", Code: pnerrors.ResultIOError, Err: net.ErrClosed}
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(dl)
	}
	if _, err := conn.Write(p); err != nil {
		return &pnerrors.TransportError{Operation: "send", Code: pnerrors.ResultIOError, Err: err}
	}
	return nil
}

func (t *TCP) Recv(ctx context.Context, buf []byte) (int, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return 0, &pnerrors.TransportError{Operation: "recv", Code: pnerrors.ResultIOError, Err: net.ErrClosed}
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(dl)
	}
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		return 0, &pnerrors.TransportError{Operation: "recv", Code: pnerrors.ResultIOError, Err: err}
	}
	return n, err
}

func (t *TCP) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// InterleaveAddresses orders resolved addresses IPv6-first per §4.3,
// keeping each family's internal order stable.
func InterleaveAddresses(ipv6, ipv4 []string) []string {
	out := make([]string, 0, len(ipv6)+len(ipv4))
	out = append(out, ipv6...)
	out = append(out, ipv4...)
	return out
}
