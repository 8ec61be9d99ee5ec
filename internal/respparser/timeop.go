package respparser

import "encoding/json"

// ParseTime decodes a time envelope: a single-element array holding the
// server's current timetoken.
func ParseTime(body []byte) (string, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(trimSpace(body), &arr); err != nil {
		return "", formatErr("parse time", "expected a 1-element array", err)
	}
	if len(arr) < 1 {
		return "", formatErr("parse time", "expected [timetoken]", nil)
	}
	return decodeTimetoken(arr[0])
}
