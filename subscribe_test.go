package pncore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeHandshakeThenMessage(t *testing.T) {
	handshake, _ := newTestContext(rawHTTPResponse(200, "OK", `{"t":{"t":"16000","r":"1"},"m":[]}`))

	tt, region := handshake.Timetoken()
	assert.Equal(t, "0", tt)
	assert.Equal(t, 0, region)

	handshake.Subscribe([]string{"hello_world"}, nil)
	result, ok := awaitWithin(handshake, time.Second)
	require.True(t, ok)
	assert.Equal(t, ResultOK, result)

	tt, region = handshake.Timetoken()
	assert.Equal(t, "16000", tt)
	assert.Equal(t, 1, region)

	_, hasMsg := handshake.Get()
	assert.False(t, hasMsg)
}

func TestSubscribeDeliversMessageInOrder(t *testing.T) {
	ctx, _ := newTestContext(rawHTTPResponse(200, "OK",
		`{"t":{"t":"16001","r":"1"},"m":[{"c":"hello_world","d":"\"msg\""}]}`))
	ctx.SetTimetoken("16000", 1)

	ctx.Subscribe([]string{"hello_world"}, nil)
	result, ok := awaitWithin(ctx, time.Second)
	require.True(t, ok)
	require.Equal(t, ResultOK, result)

	tt, region := ctx.Timetoken()
	assert.Equal(t, "16001", tt)
	assert.Equal(t, 1, region)

	msg, hasMsg := ctx.Get()
	require.True(t, hasMsg)
	assert.Equal(t, "hello_world", msg.Channel)
	assert.Equal(t, `"\"msg\""`, string(msg.Payload))

	_, hasMsg = ctx.Get()
	assert.False(t, hasMsg, "queue should be drained after one Get")
}

// TestTimetokenStabilityOnFailure is property 3: with MissedMessagesOK
// left at its default (disabled), a failed subscribe must not mutate
// the stored cursor.
func TestTimetokenStabilityOnFailure(t *testing.T) {
	ctx, _ := newTestContext(rawHTTPResponse(200, "OK", `not json`))
	ctx.SetTimetoken("16000", 1)

	ctx.Subscribe([]string{"hello_world"}, nil)
	result, ok := awaitWithin(ctx, time.Second)
	require.True(t, ok)
	assert.Equal(t, ResultFormatError, result)

	tt, region := ctx.Timetoken()
	assert.Equal(t, "16000", tt)
	assert.Equal(t, 1, region)
}

// TestTimetokenMonotonicitySuccessPath is property 2: across a run of
// successful subscribes, the stored timetoken never decreases.
func TestTimetokenMonotonicitySuccessPath(t *testing.T) {
	responses := []string{
		`{"t":{"t":"100","r":0},"m":[]}`,
		`{"t":{"t":"200","r":0},"m":[]}`,
		`{"t":{"t":"300","r":0},"m":[]}`,
	}

	var prev int64
	for _, body := range responses {
		ctx, _ := newTestContext(rawHTTPResponse(200, "OK", body))
		ctx.Subscribe([]string{"room"}, nil)
		result, ok := awaitWithin(ctx, time.Second)
		require.True(t, ok)
		require.Equal(t, ResultOK, result)

		tt, _ := ctx.Timetoken()
		n := mustAtoi(t, tt)
		assert.GreaterOrEqual(t, n, prev)
		prev = n
	}
}

func mustAtoi(t *testing.T, s string) int64 {
	t.Helper()
	var n int64
	for _, r := range s {
		n = n*10 + int64(r-'0')
	}
	return n
}

func TestSubscribeRequiresAtLeastOneChannel(t *testing.T) {
	ctx, mock := newTestContext(nil)
	got := ctx.Subscribe(nil, nil)
	assert.Equal(t, ResultInvalidChannel, got)
	assert.Equal(t, 0, mock.ConnectCalls())
}
