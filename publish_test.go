package pncore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishOK(t *testing.T) {
	ctx, _ := newTestContext(rawHTTPResponse(200, "OK", `[1,"Sent","17000000000000000"]`))

	got := ctx.Publish("hello_world", "hi")
	require.Equal(t, ResultStarted, got)

	result, ok := awaitWithin(ctx, time.Second)
	require.True(t, ok, "transaction did not complete")
	assert.Equal(t, ResultOK, result)
	assert.Equal(t, "Sent", ctx.LastPublishResult())
}

func TestPublishFailed(t *testing.T) {
	ctx, _ := newTestContext(rawHTTPResponse(200, "OK", `[0,"Invalid","0"]`))

	ctx.Publish("hello_world", "hi")
	result, ok := awaitWithin(ctx, time.Second)
	require.True(t, ok)
	assert.Equal(t, ResultPublishFailed, result)
	assert.Equal(t, "Invalid", ctx.LastPublishResult())
}

func TestPublishEmptyChannelFailsBeforeNetworkIO(t *testing.T) {
	ctx, mock := newTestContext(nil)

	got := ctx.Publish("", "hi")
	assert.Equal(t, ResultInvalidChannel, got)
	assert.Equal(t, 0, mock.ConnectCalls())
}

// TestSingleTransactionInvariant is property 1: a second operation
// started while the first is non-terminal reports in-progress and does
// not disturb the first transaction's eventual outcome.
func TestSingleTransactionInvariant(t *testing.T) {
	ctx, _ := newTestContext(rawHTTPResponse(200, "OK", `[1,"Sent","1"]`))

	ctx.Publish("room", "first")
	second := ctx.Publish("room", "second")
	assert.Equal(t, ResultInProgress, second)

	result, ok := awaitWithin(ctx, time.Second)
	require.True(t, ok)
	assert.Equal(t, ResultOK, result)
	assert.Equal(t, "Sent", ctx.LastPublishResult())
}
