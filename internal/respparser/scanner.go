// Package respparser extracts the well-known fields out of each
// operation's JSON response envelope. It never builds a general object
// model of the body: every operation decodes only the handful of
// top-level array slots or object keys it actually needs, and leaves
// message/state payloads as json.RawMessage so they pass through to the
// caller undecoded, exactly as received.
package respparser

import (
	"bytes"
	"encoding/json"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
)

func newDecoder(body []byte) *json.Decoder {
	d := json.NewDecoder(bytes.NewReader(body))
	d.UseNumber()
	return d
}

func formatErr(op string, msg string, err error) error {
	return &pnerrors.FormatError{Operation: op, Offset: -1, Message: msg, Err: err}
}

// trimSpace mirrors the tolerance for surrounding whitespace the spec
// calls for; json.Unmarshal already tolerates interior whitespace, so
// this only needs to handle a body that is nothing but whitespace.
func trimSpace(body []byte) []byte {
	return bytes.TrimSpace(body)
}
