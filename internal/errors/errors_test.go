package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultCodeString(t *testing.T) {
	cases := []struct {
		code ResultCode
		want string
	}{
		{ResultOK, "ok"},
		{ResultStarted, "started"},
		{ResultInProgress, "in-progress"},
		{ResultCancelled, "cancelled"},
		{ResultDNSError, "dns-error"},
		{ResultConnectError, "connect-error"},
		{ResultConnectionTimeout, "connection-timeout"},
		{ResultIOError, "io-error"},
		{ResultTLSError, "tls-error"},
		{ResultTimeout, "timeout"},
		{ResultHTTPError, "http-error"},
		{ResultReplyTooBig, "reply-too-big"},
		{ResultFormatError, "format-error"},
		{ResultPublishFailed, "publish-failed"},
		{ResultDecryptError, "decrypt-error"},
		{ResultInvalidChannel, "invalid-channel"},
		{ResultInvalidParameters, "invalid-parameters"},
		{ResultAuthorizationError, "authorization-error"},
		{ResultOutOfMemory, "out-of-memory"},
		{ResultContextPoolExhausted, "context-pool-exhausted"},
		{ResultCode(999), "unknown"},
	}
	for _, tt := range cases {
		assert.Equal(t, tt.want, tt.code.String())
	}
}

func TestTransportError(t *testing.T) {
	underlying := fmt.Errorf("connection refused")

	withDetails := &TransportError{
		Operation: "connect",
		Code:      ResultConnectError,
		Err:       underlying,
		Details:   "tried 3 addresses",
	}
	assert.Contains(t, withDetails.Error(), "connect-error")
	assert.Contains(t, withDetails.Error(), "connect")
	assert.Contains(t, withDetails.Error(), "tried 3 addresses")

	withoutDetails := &TransportError{
		Operation: "resolve",
		Code:      ResultDNSError,
		Err:       underlying,
	}
	assert.Contains(t, withoutDetails.Error(), "dns-error")
	assert.NotContains(t, withoutDetails.Error(), "()")

	var err error = withDetails
	assert.True(t, errors.Is(err, underlying))
	var te *TransportError
	assert.True(t, errors.As(err, &te))
}

func TestValidationError(t *testing.T) {
	withValue := &ValidationError{
		Field:   "channel",
		Value:   "",
		Message: "channel cannot be empty",
	}
	assert.Contains(t, withValue.Error(), "channel")
	assert.Contains(t, withValue.Error(), "channel cannot be empty")
	assert.Contains(t, withValue.Error(), "value:")

	withoutValue := &ValidationError{
		Field:   "timetoken",
		Message: "timetoken must be numeric",
	}
	assert.Contains(t, withoutValue.Error(), "timetoken must be numeric")

	var err error = withValue
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestFormatError(t *testing.T) {
	underlying := fmt.Errorf("unexpected EOF")
	withOffset := &FormatError{
		Operation: "parse subscribe envelope",
		Offset:    128,
		Message:   "truncated array",
		Err:       underlying,
	}
	assert.Contains(t, withOffset.Error(), "parse subscribe envelope")
	assert.Contains(t, withOffset.Error(), "offset 128")
	assert.Contains(t, withOffset.Error(), "truncated array")
	assert.Contains(t, withOffset.Error(), "unexpected EOF")

	noOffset := &FormatError{
		Operation: "parse publish reply",
		Offset:    -1,
		Message:   "expected array, got object",
	}
	assert.NotContains(t, noOffset.Error(), "offset")

	var err error = withOffset
	assert.True(t, errors.Is(err, underlying))
	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestPublishError(t *testing.T) {
	err := &PublishError{Description: "Invalid Key"}
	assert.Contains(t, err.Error(), "publish failed")
	assert.Contains(t, err.Error(), "Invalid Key")
}

func TestDecryptError(t *testing.T) {
	underlying := fmt.Errorf("cipher: message authentication failed")
	err := &DecryptError{Channel: "room-42", Err: underlying}
	assert.Contains(t, err.Error(), "room-42")
	assert.True(t, errors.Is(err, underlying))
}

func TestAuthError(t *testing.T) {
	err := &AuthError{Operation: "grant-token", Message: "signature mismatch"}
	assert.Contains(t, err.Error(), "grant-token")
	assert.Contains(t, err.Error(), "signature mismatch")
}

func TestResourceError(t *testing.T) {
	err := &ResourceError{Resource: "context-pool", Message: "all 8 contexts in use"}
	assert.Contains(t, err.Error(), "context-pool")
	assert.Contains(t, err.Error(), "all 8 contexts in use")
}
