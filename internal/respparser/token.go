package respparser

import "encoding/json"

// TokenResult is the grant/revoke-token envelope: either a token string
// on success or an error object the caller turns into *pnerrors.AuthError.
type TokenResult struct {
	Token        string
	ErrorMessage string
}

type tokenWire struct {
	Data json.RawMessage `json:"data"`
	Err  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ParseToken decodes a grant/revoke-token envelope. The token itself is
// the JSON-string-encoded "data" field; a present "error" object takes
// precedence and is surfaced as ErrorMessage instead.
func ParseToken(body []byte) (TokenResult, error) {
	var wire tokenWire
	if err := json.Unmarshal(trimSpace(body), &wire); err != nil {
		return TokenResult{}, formatErr("parse token", "expected a data/error object", err)
	}

	if wire.Err != nil {
		return TokenResult{ErrorMessage: wire.Err.Message}, nil
	}

	var token string
	if err := json.Unmarshal(wire.Data, &token); err != nil {
		return TokenResult{}, formatErr("parse token", "data is not a token string", err)
	}
	return TokenResult{Token: token}, nil
}
