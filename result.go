package pncore

import pnerrors "github.com/pnsdk/pncore/internal/errors"

// ResultCode is the single outcome every transaction completes with.
// Aliased from internal/errors so callers never need to import it
// directly to compare against a Context's LastResult.
type ResultCode = pnerrors.ResultCode

// The full result-code taxonomy, named after the pubnub_res constants
// this core's outcomes mirror.
const (
	ResultOK                   = pnerrors.ResultOK
	ResultStarted              = pnerrors.ResultStarted
	ResultInProgress           = pnerrors.ResultInProgress
	ResultCancelled            = pnerrors.ResultCancelled
	ResultDNSError             = pnerrors.ResultDNSError
	ResultConnectError         = pnerrors.ResultConnectError
	ResultConnectionTimeout    = pnerrors.ResultConnectionTimeout
	ResultIOError              = pnerrors.ResultIOError
	ResultTLSError             = pnerrors.ResultTLSError
	ResultTimeout              = pnerrors.ResultTimeout
	ResultHTTPError            = pnerrors.ResultHTTPError
	ResultReplyTooBig          = pnerrors.ResultReplyTooBig
	ResultFormatError          = pnerrors.ResultFormatError
	ResultPublishFailed        = pnerrors.ResultPublishFailed
	ResultDecryptError         = pnerrors.ResultDecryptError
	ResultInvalidChannel       = pnerrors.ResultInvalidChannel
	ResultInvalidParameters    = pnerrors.ResultInvalidParameters
	ResultAuthorizationError   = pnerrors.ResultAuthorizationError
	ResultOutOfMemory          = pnerrors.ResultOutOfMemory
	ResultContextPoolExhausted = pnerrors.ResultContextPoolExhausted
)

// TransactionKind identifies which operation a transaction is running,
// passed to an OnOutcome callback alongside the result.
type TransactionKind int

const (
	KindPublish TransactionKind = iota
	KindSubscribe
	KindHistory
	KindTime
	KindHereNow
	KindWhereNow
	KindSetState
	KindGetState
	KindGrantToken
	KindRevokeToken
)

func (k TransactionKind) String() string {
	switch k {
	case KindPublish:
		return "publish"
	case KindSubscribe:
		return "subscribe"
	case KindHistory:
		return "history"
	case KindTime:
		return "time"
	case KindHereNow:
		return "here-now"
	case KindWhereNow:
		return "where-now"
	case KindSetState:
		return "set-state"
	case KindGetState:
		return "get-state"
	case KindGrantToken:
		return "grant-token"
	case KindRevokeToken:
		return "revoke-token"
	default:
		return "unknown"
	}
}
