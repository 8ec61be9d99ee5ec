package respparser

import "encoding/json"

// PresenceResult is the {status, message, service, payload} shape
// shared by here-now, where-now, set-state, and get-state responses.
// Payload is left raw: here-now's occupant list and state's state
// object have different shapes, and the caller for each operation knows
// which one to expect.
type PresenceResult struct {
	Status  int
	Service string
	Message string
	Payload json.RawMessage
}

type presenceWire struct {
	Status  json.Number     `json:"status"`
	Service string          `json:"service"`
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload"`
}

// ParsePresence decodes a here-now/where-now/state envelope.
func ParsePresence(body []byte) (PresenceResult, error) {
	var wire presenceWire
	if err := json.Unmarshal(trimSpace(body), &wire); err != nil {
		return PresenceResult{}, formatErr("parse presence", "expected a status/service/payload object", err)
	}

	status := 0
	if wire.Status != "" {
		n, err := wire.Status.Int64()
		if err != nil {
			return PresenceResult{}, formatErr("parse presence", "status is not an integer", err)
		}
		status = int(n)
	}

	return PresenceResult{
		Status:  status,
		Service: wire.Service,
		Message: wire.Message,
		Payload: wire.Payload,
	}, nil
}
