// Package httpengine formats HTTP/1.1 requests into a Context's bounded
// send buffer and parses the status line, headers, and body (chunked or
// length-delimited, optionally gzip-decoded) out of the response.
package httpengine

import (
	"fmt"
	"strings"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
)

// Request describes the single GET request a transaction sends. The
// core only ever issues GETs; publish payloads are percent-encoded into
// the request path like the rest of the pub/sub wire protocol.
type Request struct {
	Host       string
	Path       string
	Query      string
	AcceptGzip bool
}

// Format writes the request into a []byte no larger than maxLen,
// returning a *pnerrors.ValidationError if it would overflow
// PUBNUB_BUF_MAXLEN.
func Format(req Request, maxLen int) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "GET %s", req.Path)
	if req.Query != "" {
		fmt.Fprintf(&b, "?%s", req.Query)
	}
	b.WriteString(" HTTP/1.1\r\n")
	fmt.Fprintf(&b, "Host: %s\r\n", req.Host)
	b.WriteString("User-Agent: pncore\r\n")
	if req.AcceptGzip {
		b.WriteString("Accept-Encoding: gzip\r\n")
	}
	b.WriteString("Connection: keep-alive\r\n\r\n")

	out := b.String()
	if maxLen > 0 && len(out) > maxLen {
		return nil, &pnerrors.ValidationError{
			Field:   "request",
			Value:   len(out),
			Message: fmt.Sprintf("formatted request exceeds PUBNUB_BUF_MAXLEN (%d)", maxLen),
		}
	}
	return []byte(out), nil
}
