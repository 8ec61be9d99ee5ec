package respparser

import "encoding/json"

// HistoryResult is the [messages, start, end] envelope a history
// transaction's response decodes to. Each entry of Messages is kept
// raw; history messages are never decrypted automatically the way
// subscribe messages can be, since a history call may span both
// encrypted and plaintext eras of a channel.
type HistoryResult struct {
	Messages []json.RawMessage
	Start    string
	End      string
}

// ParseHistory decodes a history envelope.
func ParseHistory(body []byte) (HistoryResult, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(trimSpace(body), &arr); err != nil {
		return HistoryResult{}, formatErr("parse history", "expected a 3-element array", err)
	}
	if len(arr) < 3 {
		return HistoryResult{}, formatErr("parse history", "expected [messages, start, end]", nil)
	}

	var messages []json.RawMessage
	if err := json.Unmarshal(arr[0], &messages); err != nil {
		return HistoryResult{}, formatErr("parse history", "messages is not an array", err)
	}

	start, err := decodeTimetoken(arr[1])
	if err != nil {
		return HistoryResult{}, formatErr("parse history", "start is not valid", err)
	}
	end, err := decodeTimetoken(arr[2])
	if err != nil {
		return HistoryResult{}, formatErr("parse history", "end is not valid", err)
	}

	return HistoryResult{Messages: messages, Start: start, End: end}, nil
}
