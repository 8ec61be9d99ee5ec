package pncore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantTokenRequiresSecretKey(t *testing.T) {
	ctx, mock := newTestContext(nil)
	got := ctx.GrantToken(map[string]int{"room": 7}, 60)
	assert.Equal(t, ResultAuthorizationError, got)
	assert.Equal(t, 0, mock.ConnectCalls())
}

func TestGrantTokenParsesTokenOnSuccess(t *testing.T) {
	ctx, mock := newTestContext(rawHTTPResponse(200, "OK", `{"data":"p0thisAKFsdGVzdA"}`),
		WithSecretKey("sec"))

	got := ctx.GrantToken(map[string]int{"room": 7}, 60)
	require.Equal(t, ResultStarted, got)
	result, ok := awaitWithin(ctx, time.Second)
	require.True(t, ok)
	require.Equal(t, ResultOK, result)
	assert.Equal(t, "p0thisAKFsdGVzdA", ctx.LastToken())

	sent := mock.SendCalls()
	require.Len(t, sent, 1)
	assert.Contains(t, string(sent[0]), "signature=")
}

func TestGrantTokenServerErrorYieldsAuthorizationError(t *testing.T) {
	ctx, _ := newTestContext(rawHTTPResponse(200, "OK", `{"error":{"message":"Insufficient permissions"}}`),
		WithSecretKey("sec"))

	ctx.GrantToken(map[string]int{"room": 7}, 60)
	result, ok := awaitWithin(ctx, time.Second)
	require.True(t, ok)
	assert.Equal(t, ResultAuthorizationError, result)
}

func TestRevokeTokenRequiresToken(t *testing.T) {
	ctx, _ := newTestContext(nil, WithSecretKey("sec"))
	got := ctx.RevokeToken("")
	assert.Equal(t, ResultInvalidParameters, got)
}
