package pncore

import (
	"context"
	"errors"
	"strings"

	"github.com/pnsdk/pncore/internal/clock"
	pnerrors "github.com/pnsdk/pncore/internal/errors"
	"github.com/pnsdk/pncore/internal/httpengine"
	"github.com/pnsdk/pncore/internal/resolver"
	"github.com/pnsdk/pncore/internal/transport"
)

// request is what an operation method builds before handing control to
// runTransaction: everything the state machine needs to resolve,
// connect, format, send, and parse, without runTransaction needing to
// know which operation it's running.
type request struct {
	kind  TransactionKind
	path  string
	query string
	// parse decodes resp.Body and applies it to the Context (cursor,
	// queue, lastPublishResult, ...). A non-nil error here becomes
	// ResultFormatError unless it unwraps to a more specific code.
	parse func(c *Context, body []byte) error
}

// start is the common entry point every public operation method
// (Publish, Subscribe, History, ...) funnels through. It returns
// ResultStarted immediately and runs the transaction on a new
// goroutine, exactly mirroring the "operation call never blocks, Await
// observes the same machine" contract in the package doc comment.
func (c *Context) start(req request) ResultCode {
	c.txMu.Lock()
	if c.inFlight {
		c.txMu.Unlock()
		return ResultInProgress
	}

	done := make(chan struct{})
	txCtx, cancel := context.WithTimeout(context.Background(), c.cfg.transactionTimeout)
	c.inFlight = true
	c.done = done
	c.cancelTx = cancel
	c.txMu.Unlock()

	c.timers.Arm(clock.StageTransaction, c.cfg.transactionTimeout.Milliseconds())

	go c.run(txCtx, cancel, done, req)

	return ResultStarted
}

// failSync rejects an operation before any transaction starts, for
// validation failures caught while building the request (an empty
// channel name, a message that can't be marshalled, ...).
// Unlike start, it returns the terminal code directly rather than
// ResultStarted, since nothing was ever in flight; Await and
// LastResult immediately reflect it.
func (c *Context) failSync(code ResultCode, err error) ResultCode {
	c.txMu.Lock()
	if c.inFlight {
		c.txMu.Unlock()
		return ResultInProgress
	}
	c.result = code
	c.lastErr = err
	c.done = closedChan()
	c.txMu.Unlock()
	return code
}

func (c *Context) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}, req request) {
	result, err, httpStatus := c.execute(ctx, req)
	cancel()
	c.timers.DisarmAll()

	if req.kind == KindSubscribe && result != ResultOK {
		c.cursorMu.Lock()
		c.lastOK = false
		c.cursorMu.Unlock()
	}

	c.txMu.Lock()
	c.inFlight = false
	c.result = result
	c.lastErr = err
	c.lastHTTP = httpStatus
	c.cancelTx = nil
	c.txMu.Unlock()
	close(done)

	c.callbackMu.Lock()
	cb := c.callback
	c.callbackMu.Unlock()
	if cb != nil {
		cb(c, req.kind, result)
	}
}

// execute runs the resolve → connect → send → receive → parse pipeline
// once. It's the Go-idiomatic collapse of the state machine in §4.7:
// rather than stepping a non-blocking machine across readiness
// notifications, one goroutine blocks at each suspension point, and ctx
// cancellation (transaction timer, wait-connect timer nested within,
// or explicit Cancel) unblocks it at the next read/write/dial.
func (c *Context) execute(ctx context.Context, req request) (ResultCode, error, int) {
	if ctx.Err() != nil {
		return c.classifyCancellation(ctx)
	}

	addrResult, err := c.resolveAddresses(ctx)
	if err != nil {
		return ResultDNSError, err, 0
	}

	tr := c.cfg.transportFactory(c.cfg.origin, c.cfg.useTLS)
	defer tr.Close()

	// Each address gets its own wait-connect window (addressTimeout,
	// applied fresh per address inside Connect); ctx itself carries only
	// the overall transaction deadline as a backstop, per §4.3/E5.
	c.timers.Arm(clock.StageConnect, c.cfg.connectTimeout.Milliseconds())
	addrs := transport.InterleaveAddresses(addrResult.IPv6, addrResult.IPv4)
	err = tr.Connect(ctx, addrs, c.port(), c.cfg.connectTimeout)
	c.timers.Disarm(clock.StageConnect)
	if err != nil {
		// The cached address list just failed; a retried transaction
		// should re-resolve rather than hand back the same bad list.
		c.addrCache.Invalidate()
		if ctx.Err() != nil {
			return c.classifyCancellation(ctx)
		}
		var te *pnerrors.TransportError
		if errors.As(err, &te) {
			return te.Code, err, 0
		}
		return ResultConnectError, err, 0
	}

	reqBytes, err := httpengine.Format(httpengine.Request{
		Host:       c.cfg.origin,
		Path:       req.path,
		Query:      req.query,
		AcceptGzip: c.cfg.useGzip,
	}, c.cfg.bufMaxLen)
	if err != nil {
		return ResultInvalidParameters, err, 0
	}

	if err := tr.Send(ctx, reqBytes); err != nil {
		if ctx.Err() != nil {
			return c.classifyCancellation(ctx)
		}
		return ResultIOError, err, 0
	}

	resp, err := httpengine.Read(ctx, tr, c.cfg.replyMaxLen)
	if err != nil {
		if ctx.Err() != nil {
			return c.classifyCancellation(ctx)
		}
		var fe *pnerrors.FormatError
		if errors.As(err, &fe) && strings.Contains(fe.Message, "reply-too-big") {
			return ResultFormatError, err, 0
		}
		return ResultIOError, err, 0
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ResultHTTPError, &pnerrors.TransportError{
			Operation: req.kind.String(),
			Code:      ResultHTTPError,
			Err:       errors.New("non-2xx response"),
			Details:   bodyPreview(resp.Body),
		}, resp.StatusCode
	}

	if req.parse != nil {
		if err := req.parse(c, resp.Body); err != nil {
			return classifyParseError(err), err, resp.StatusCode
		}
	}

	return ResultOK, nil, resp.StatusCode
}

// classifyParseError maps a parse callback's error to the specific
// result code a domain failure (publish rejected server-side, an
// authorization error on a token operation) should report, falling
// back to ResultFormatError for anything that isn't one of those.
func classifyParseError(err error) ResultCode {
	var pubErr *pnerrors.PublishError
	if errors.As(err, &pubErr) {
		return ResultPublishFailed
	}
	var authErr *pnerrors.AuthError
	if errors.As(err, &authErr) {
		return ResultAuthorizationError
	}
	return ResultFormatError
}

func (c *Context) classifyCancellation(ctx context.Context) (ResultCode, error, int) {
	if ctx.Err() == context.DeadlineExceeded {
		return ResultTimeout, ctx.Err(), 0
	}
	return ResultCancelled, ctx.Err(), 0
}

func (c *Context) port() int {
	if c.cfg.useTLS {
		return 443
	}
	return 80
}

// resolveAddresses implements the idle→resolving short-circuit: a
// fresh cached address list from the previous transaction on this
// Context is reused directly, skipping DNS entirely, per §4.7. The
// cache is invalidated whenever a cached address subsequently fails to
// connect, so a stale entry is never retried forever.
func (c *Context) resolveAddresses(ctx context.Context) (resolver.Result, error) {
	if cached, ok := c.addrCache.Get(); ok {
		return cached, nil
	}
	result, err := c.cfg.resolver.Resolve(ctx, c.cfg.origin)
	if err != nil {
		return resolver.Result{}, err
	}
	c.addrCache.Set(result)
	return result, nil
}

func bodyPreview(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
