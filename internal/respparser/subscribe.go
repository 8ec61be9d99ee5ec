package respparser

import (
	"encoding/json"
	"strconv"
)

// SubscribeMessage is one entry from the subscribe envelope's "m"
// array. Payload is kept as raw JSON; the core hands it to Context.Get
// callers undecoded, decrypting it first when a crypto module is
// configured.
type SubscribeMessage struct {
	Channel string
	Payload json.RawMessage
}

// SubscribeResult is the {t: {t, r}, m: [...]} envelope a subscribe
// transaction's response decodes to.
type SubscribeResult struct {
	Timetoken string
	Region    int
	Messages  []SubscribeMessage
}

type subscribeCursor struct {
	T string          `json:"t"`
	R json.RawMessage `json:"r"`
}

type subscribeMessageWire struct {
	Channel string          `json:"c"`
	Data    json.RawMessage `json:"d"`
}

type subscribeEnvelope struct {
	Cursor   subscribeCursor        `json:"t"`
	Messages []subscribeMessageWire `json:"m"`
}

// ParseSubscribe decodes a v2 subscribe envelope. The returned cursor is
// always present even when Messages is empty, which is the shape of the
// handshake response: a fresh timetoken with no messages.
func ParseSubscribe(body []byte) (SubscribeResult, error) {
	var env subscribeEnvelope
	if err := json.Unmarshal(trimSpace(body), &env); err != nil {
		return SubscribeResult{}, formatErr("parse subscribe", "expected {t: {t, r}, m: [...]}", err)
	}
	if env.Cursor.T == "" {
		return SubscribeResult{}, formatErr("parse subscribe", "missing cursor timetoken", nil)
	}

	messages := make([]SubscribeMessage, 0, len(env.Messages))
	for _, m := range env.Messages {
		messages = append(messages, SubscribeMessage{Channel: m.Channel, Payload: m.Data})
	}

	region, err := decodeRegion(env.Cursor.R)
	if err != nil {
		return SubscribeResult{}, formatErr("parse subscribe", "region is not valid", err)
	}

	return SubscribeResult{
		Timetoken: env.Cursor.T,
		Region:    region,
		Messages:  messages,
	}, nil
}

// decodeRegion accepts either a quoted string or a bare number, since the
// service is not fully consistent about which it sends (mirrors
// decodeTimetoken in publish.go). An absent region defaults to 0.
func decodeRegion(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return 0, nil
		}
		return strconv.Atoi(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	v, err := n.Int64()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
