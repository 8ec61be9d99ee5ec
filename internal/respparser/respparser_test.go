package respparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
)

func TestParsePublishSuccess(t *testing.T) {
	result, err := ParsePublish([]byte(`[1,"Sent","17543112345678901"]`))
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "Sent", result.Description)
	assert.Equal(t, "17543112345678901", result.Timetoken)
}

func TestParsePublishFailureStatus(t *testing.T) {
	result, err := ParsePublish([]byte(`[0,"Invalid Key","0"]`))
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, "Invalid Key", result.Description)
}

func TestParsePublishMalformedYieldsFormatError(t *testing.T) {
	_, err := ParsePublish([]byte(`{"not":"an array"}`))
	require.Error(t, err)
	var fe *pnerrors.FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestParseSubscribeHandshake(t *testing.T) {
	result, err := ParseSubscribe([]byte(`{"t":{"t":"17543112345678901","r":4},"m":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "17543112345678901", result.Timetoken)
	assert.Equal(t, 4, result.Region)
	assert.Empty(t, result.Messages)
}

// TestParseSubscribeHandshakeWithQuotedRegion reproduces scenario E3's
// literal envelope, where region is sent as a quoted string ("r":"1")
// rather than a bare number.
func TestParseSubscribeHandshakeWithQuotedRegion(t *testing.T) {
	result, err := ParseSubscribe([]byte(`{"t":{"t":"16000","r":"1"},"m":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "16000", result.Timetoken)
	assert.Equal(t, 1, result.Region)
	assert.Empty(t, result.Messages)
}

func TestParseSubscribeWithMessages(t *testing.T) {
	body := `{"t":{"t":"17543112345999999","r":4},"m":[
		{"c":"room-1","d":{"hello":"world"}},
		{"c":"room-2","d":"plain string payload"}
	]}`
	result, err := ParseSubscribe([]byte(body))
	require.NoError(t, err)
	require.Len(t, result.Messages, 2)
	assert.Equal(t, "room-1", result.Messages[0].Channel)
	assert.JSONEq(t, `{"hello":"world"}`, string(result.Messages[0].Payload))
	assert.Equal(t, "room-2", result.Messages[1].Channel)
}

func TestParseHistory(t *testing.T) {
	body := `[["msg1","msg2"],"15000000000000000","15000000000099999"]`
	result, err := ParseHistory([]byte(body))
	require.NoError(t, err)
	assert.Len(t, result.Messages, 2)
	assert.Equal(t, "15000000000000000", result.Start)
	assert.Equal(t, "15000000000099999", result.End)
}

func TestParsePresence(t *testing.T) {
	body := `{"status":200,"message":"OK","service":"Presence","payload":{"uuids":["a","b"],"occupancy":2}}`
	result, err := ParsePresence([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, 200, result.Status)
	assert.Equal(t, "Presence", result.Service)
	assert.Contains(t, string(result.Payload), "occupancy")
}

func TestParseTime(t *testing.T) {
	timetoken, err := ParseTime([]byte(`[17543112345678901]`))
	require.NoError(t, err)
	assert.Equal(t, "17543112345678901", timetoken)
}

func TestParseTokenSuccess(t *testing.T) {
	result, err := ParseToken([]byte(`{"data":"p0F2AkF0GmEI03VDdHRsGDxDcmVzpURjaGFuoQ=="}`))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Empty(t, result.ErrorMessage)
}

func TestParseTokenError(t *testing.T) {
	result, err := ParseToken([]byte(`{"error":{"message":"Invalid signature"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Invalid signature", result.ErrorMessage)
}
