package pncore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnsdk/pncore/internal/crypto"
)

// TestPublishEncryptsPayloadOnWire exercises WithCipherKey end to end
// through Publish: the plaintext message must never appear on the wire,
// only its ciphertext, wrapped in a JSON string.
func TestPublishEncryptsPayloadOnWire(t *testing.T) {
	ctx, mock := newTestContext(rawHTTPResponse(200, "OK", `[1,"Sent","1"]`),
		WithCipherKey("s3cr3t", true))

	ctx.Publish("room", map[string]string{"text": "top secret"})
	_, ok := awaitWithin(ctx, time.Second)
	require.True(t, ok)

	sent := mock.SendCalls()
	require.Len(t, sent, 1)
	assert.NotContains(t, string(sent[0]), "top secret")
}

// TestSubscribeDecryptsMessagePayload feeds a subscribe envelope whose
// message payload is legacy-cipher ciphertext and checks Get() yields
// the decrypted plaintext, proving the crypto module is wired into the
// subscribe parse path, not just unit-tested in isolation.
func TestSubscribeDecryptsMessagePayload(t *testing.T) {
	legacy := crypto.NewLegacy("s3cr3t")
	plaintext, err := json.Marshal(map[string]string{"text": "hello"})
	require.NoError(t, err)
	ciphertext, err := legacy.Encrypt(plaintext)
	require.NoError(t, err)

	envelope := `{"t":{"t":"15000000000000000","r":4},"m":[{"c":"room","d":` + string(ciphertext) + `}]}`
	ctx, _ := newTestContext(rawHTTPResponse(200, "OK", envelope), WithCipherKey("s3cr3t", true))

	ctx.Subscribe([]string{"room"}, nil)
	result, ok := awaitWithin(ctx, time.Second)
	require.True(t, ok)
	require.Equal(t, ResultOK, result)

	msg, ok := ctx.Get()
	require.True(t, ok)
	assert.Equal(t, "room", msg.Channel)
	assert.JSONEq(t, `{"text":"hello"}`, string(msg.Payload))
	tt, region := ctx.Timetoken()
	assert.Equal(t, "15000000000000000", tt)
	assert.Equal(t, 4, region)
}

// TestSubscribeDropsUndecryptableMessageButKeepsCursor confirms a single
// bad ciphertext doesn't fail the whole transaction and the envelope's
// cursor is still adopted, matching the documented per-message failure
// handling in parseSubscribe.
func TestSubscribeDropsUndecryptableMessageButKeepsCursor(t *testing.T) {
	envelope := `{"t":{"t":"16000000000000000","r":0},"m":[{"c":"room","d":"not-valid-base64!!"}]}`
	ctx, _ := newTestContext(rawHTTPResponse(200, "OK", envelope), WithCipherKey("s3cr3t", true))

	ctx.Subscribe([]string{"room"}, nil)
	result, ok := awaitWithin(ctx, time.Second)
	require.True(t, ok)
	assert.Equal(t, ResultOK, result)

	_, ok = ctx.Get()
	assert.False(t, ok)
	tt, _ := ctx.Timetoken()
	assert.Equal(t, "16000000000000000", tt)
}
