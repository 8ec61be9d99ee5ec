package pncore

import (
	"context"
	"sync"

	"github.com/pnsdk/pncore/internal/clock"
	"github.com/pnsdk/pncore/internal/resolver"
	"github.com/pnsdk/pncore/internal/respparser"
	"github.com/pnsdk/pncore/internal/telemetry"
)

// Context is the per-connection state machine that drives exactly one
// transaction at a time. See the package doc comment for the full
// picture; this file holds construction, the subscribe cursor, the
// message queue, and the three I/O personalities.
type Context struct {
	cfg config

	spanID string

	txMu     sync.Mutex
	inFlight bool
	done     chan struct{}
	result   ResultCode
	lastErr  error
	lastHTTP int
	cancelTx context.CancelFunc

	callbackMu sync.Mutex
	callback   func(*Context, TransactionKind, ResultCode)

	cursorMu  sync.Mutex
	timetoken string
	region    int
	lastOK    bool

	queueMu sync.Mutex
	queue   []respparser.SubscribeMessage

	addrCache resolver.Cache
	timers    *clock.Queue

	publishMu         sync.Mutex
	lastPublishResult string

	historyMu   sync.Mutex
	lastHistory HistoryResult

	presenceMu   sync.Mutex
	lastPresence respparser.PresenceResult

	tokenMu   sync.Mutex
	lastToken string

	timeMu         sync.Mutex
	lastServerTime string
}

// NewContext constructs a single heap-allocated Context. Most hosted Go
// programs want exactly this; see Pool for the fixed-size allocation
// model used by embedded deployments.
func NewContext(opts ...Option) *Context {
	cfg := newConfig(opts...)
	return &Context{
		cfg:       cfg,
		spanID:    telemetry.NewSpanID(),
		timetoken: "0",
		done:      closedChan(),
		timers:    clock.NewQueue(cfg.clock),
	}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// reset restores a Context to its just-allocated state, used by Pool
// when a released Context is handed back out.
func (c *Context) reset() {
	c.txMu.Lock()
	c.inFlight = false
	c.result = ResultOK
	c.lastErr = nil
	c.lastHTTP = 0
	c.done = closedChan()
	c.txMu.Unlock()

	c.callbackMu.Lock()
	c.callback = nil
	c.callbackMu.Unlock()

	c.cursorMu.Lock()
	c.timetoken = "0"
	c.region = 0
	c.lastOK = false
	c.cursorMu.Unlock()

	c.queueMu.Lock()
	c.queue = nil
	c.queueMu.Unlock()

	c.addrCache.Invalidate()
	c.timers.DisarmAll()

	c.publishMu.Lock()
	c.lastPublishResult = ""
	c.publishMu.Unlock()

	c.historyMu.Lock()
	c.lastHistory = HistoryResult{}
	c.historyMu.Unlock()

	c.presenceMu.Lock()
	c.lastPresence = respparser.PresenceResult{}
	c.presenceMu.Unlock()

	c.tokenMu.Lock()
	c.lastToken = ""
	c.tokenMu.Unlock()

	c.timeMu.Lock()
	c.lastServerTime = ""
	c.timeMu.Unlock()
}

// Await blocks the calling goroutine until the in-flight transaction,
// if any, reaches a terminal outcome, then returns that outcome. If no
// transaction is in flight it returns immediately with the last result.
func (c *Context) Await() ResultCode {
	c.txMu.Lock()
	done := c.done
	c.txMu.Unlock()

	<-done

	c.txMu.Lock()
	defer c.txMu.Unlock()
	return c.result
}

// LastResult never blocks. It returns ResultStarted while a transaction
// is in flight, and the terminal outcome of the most recent transaction
// otherwise.
func (c *Context) LastResult() ResultCode {
	c.txMu.Lock()
	defer c.txMu.Unlock()
	if c.inFlight {
		return ResultStarted
	}
	return c.result
}

// OnOutcome registers a callback invoked exactly once per transaction,
// on its terminal transition. Registering nil clears any existing
// callback. The callback runs on the transaction goroutine after the
// Context has already returned to idle and holds none of its locks. It
// must not start another transaction on this Context synchronously.
func (c *Context) OnOutcome(cb func(ctx *Context, kind TransactionKind, result ResultCode)) {
	c.callbackMu.Lock()
	defer c.callbackMu.Unlock()
	c.callback = cb
}

// Cancel is always safe to call. From any non-idle state it closes the
// transport, disarms timers, and transitions to ResultCancelled; for a
// Context with a registered OnOutcome callback, that callback receives
// a single cancelled completion. Cancel is idempotent.
func (c *Context) Cancel() {
	c.txMu.Lock()
	cancel := c.cancelTx
	c.txMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Get drains one message from the parsed subscribe queue, in the order
// the service delivered them. ok is false once the queue is empty.
func (c *Context) Get() (respparser.SubscribeMessage, bool) {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	if len(c.queue) == 0 {
		return respparser.SubscribeMessage{}, false
	}
	msg := c.queue[0]
	c.queue = c.queue[1:]
	return msg, true
}

// TransactionTimeRemaining returns how many milliseconds are left on
// the in-flight transaction's overall timer, or 0 if none is armed.
// Useful for a non-blocking caller polling LastResult to show progress.
func (c *Context) TransactionTimeRemaining() int64 {
	return c.timers.Remaining(clock.StageTransaction)
}

// ConnectTimeRemaining returns how many milliseconds are left on the
// current connect attempt's wait-connect timer, or 0 if the Context
// isn't currently in the connect stage.
func (c *Context) ConnectTimeRemaining() int64 {
	return c.timers.Remaining(clock.StageConnect)
}

// LastHTTPStatus returns the HTTP status code of the most recently
// completed transaction, or 0 if none has completed yet.
func (c *Context) LastHTTPStatus() int {
	c.txMu.Lock()
	defer c.txMu.Unlock()
	return c.lastHTTP
}

// LastPublishResult returns the server-supplied description field of
// the most recent publish transaction's envelope.
func (c *Context) LastPublishResult() string {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	return c.lastPublishResult
}

// LastError returns the typed error the most recent transaction failed
// with, or nil on success.
func (c *Context) LastError() error {
	c.txMu.Lock()
	defer c.txMu.Unlock()
	return c.lastErr
}

// Timetoken returns the subscribe cursor's current timetoken and
// region.
func (c *Context) Timetoken() (string, int) {
	c.cursorMu.Lock()
	defer c.cursorMu.Unlock()
	return c.timetoken, c.region
}

// SetTimetoken overrides the subscribe cursor, used to resume a
// subscribe loop from a previously saved position.
func (c *Context) SetTimetoken(timetoken string, region int) {
	c.cursorMu.Lock()
	defer c.cursorMu.Unlock()
	c.timetoken = timetoken
	c.region = region
}
