package pncore

import (
	"sync"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
)

// Pool manages a fixed-size set of reusable contexts, mirroring
// PUBNUB_CTX_MAX-style embedded deployments that allocate contexts from
// a static array instead of the heap. Thread safety on the pool is a
// pool-level lock, not a per-context one — acquiring a Context from the
// pool never blocks on that Context's own transaction state.
type Pool struct {
	mu    sync.Mutex
	opts  []Option
	slots []*Context
	taken []bool
}

// NewPool constructs a Pool of size contexts, each built with opts. Use
// DefaultContextPoolSize when the spec's PUBNUB_CTX_MAX default applies.
func NewPool(size int, opts ...Option) *Pool {
	if size <= 0 {
		size = DefaultContextPoolSize
	}
	p := &Pool{
		opts:  opts,
		slots: make([]*Context, size),
		taken: make([]bool, size),
	}
	for i := range p.slots {
		p.slots[i] = NewContext(opts...)
	}
	return p
}

// Alloc reserves and returns an idle Context from the pool, or returns a
// *pnerrors.ResourceError (Resource "context-pool") if every slot is
// currently taken.
func (p *Pool) Alloc() (*Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, taken := range p.taken {
		if !taken {
			p.taken[i] = true
			return p.slots[i], nil
		}
	}
	return nil, &pnerrors.ResourceError{
		Resource: "context-pool",
		Message:  "no idle context available",
	}
}

// Free returns ctx to the pool. A Context with a transaction still in
// flight is not released; Free reports that by returning false so the
// caller can retry once the transaction completes (Await or a callback
// outcome), matching the spec's "freed only when idle" lifecycle rule.
func (p *Pool) Free(ctx *Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, slot := range p.slots {
		if slot != ctx {
			continue
		}
		if !p.taken[i] {
			return true
		}
		ctx.txMu.Lock()
		busy := ctx.inFlight
		ctx.txMu.Unlock()
		if busy {
			return false
		}
		ctx.reset()
		p.taken[i] = false
		return true
	}
	return false
}

// Size returns the pool's fixed capacity.
func (p *Pool) Size() int {
	return len(p.slots)
}

// InUse returns the number of slots currently allocated.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, taken := range p.taken {
		if taken {
			n++
		}
	}
	return n
}
