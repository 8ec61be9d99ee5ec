package pncore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolAllocExhaustionAndFree(t *testing.T) {
	p := NewPool(2)
	assert.Equal(t, 2, p.Size())

	a, err := p.Alloc()
	require.NoError(t, err)
	b, err := p.Alloc()
	require.NoError(t, err)
	assert.Equal(t, 2, p.InUse())

	_, err = p.Alloc()
	require.Error(t, err)

	assert.True(t, p.Free(a))
	assert.Equal(t, 1, p.InUse())

	c, err := p.Alloc()
	require.NoError(t, err)
	assert.Same(t, a, c, "freed slot should be handed back out")

	assert.True(t, p.Free(b))
	assert.True(t, p.Free(c))
}

func TestPoolFreeRefusesBusyContext(t *testing.T) {
	p := NewPool(1)
	ctx, err := p.Alloc()
	require.NoError(t, err)

	ctx.txMu.Lock()
	ctx.inFlight = true
	ctx.txMu.Unlock()

	assert.False(t, p.Free(ctx))

	ctx.txMu.Lock()
	ctx.inFlight = false
	ctx.txMu.Unlock()
	assert.True(t, p.Free(ctx))
}

func TestNewPoolDefaultsSize(t *testing.T) {
	p := NewPool(0)
	assert.Equal(t, DefaultContextPoolSize, p.Size())
}
