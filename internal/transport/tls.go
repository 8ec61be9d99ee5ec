package transport

import (
	"context"
	"crypto/tls"
	"net"
	"sync"
	"time"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
)

// TLSTransport wraps another Transport's Connect with a handshake, then
// forwards Send/Recv/Close to the TLS-wrapped connection. The inner
// Transport must be a *TCP: tls.Client needs a net.Conn to wrap, not the
// narrower Transport interface.
type TLSTransport struct {
	inner    *TCP
	config   *tls.Config
	mu       sync.Mutex
	tlsConn  *tls.Conn
	hostname string
}

// NewTLSTransport returns a Transport that performs a TLS handshake
// against hostname (used for SNI and certificate verification)
// immediately after the inner TCP connect succeeds.
func NewTLSTransport(hostname string, config *tls.Config) *TLSTransport {
	cfg := config
	if cfg == nil {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if cfg.ServerName == "" {
		cfg = cfg.Clone()
		cfg.ServerName = hostname
	}
	return &TLSTransport{
		inner:    NewTCP(),
		config:   cfg,
		hostname: hostname,
	}
}

func (t *TLSTransport) Connect(ctx context.Context, addrs []string, port int, addressTimeout time.Duration) error {
	if err := t.inner.Connect(ctx, addrs, port, addressTimeout); err != nil {
		return err
	}

	t.inner.mu.Lock()
	raw := t.inner.conn
	t.inner.mu.Unlock()

	handshakeCtx, cancel := context.WithTimeout(ctx, addressTimeout)
	defer cancel()

	tlsConn := tls.Client(raw, t.config)
	if dl, ok := handshakeCtx.Deadline(); ok {
		_ = tlsConn.SetDeadline(dl)
	}
	if err := tlsConn.HandshakeContext(handshakeCtx); err != nil {
		_ = raw.Close()
		return &pnerrors.TransportError{
			Operation: "tls-handshake",
			Code:      pnerrors.ResultTLSError,
			Err:       err,
			Details:   t.hostname,
		}
	}

	t.mu.Lock()
	t.tlsConn = tlsConn
	t.mu.Unlock()
	return nil
}

func (t *TLSTransport) Send(ctx context.Context, p []byte) error {
	t.mu.Lock()
	conn := t.tlsConn
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

func (t *TLSTransport) Recv(ctx context.Context, buf []byte) (int, error) {
	t.mu.Lock()
	conn := t.tlsConn
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

func (t *TLSTransport) Close() error {
	t.mu.Lock()
	conn := t.tlsConn
	t.tlsConn = nil
	t.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return t.inner.Close()
}
