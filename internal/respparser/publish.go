package respparser

import "encoding/json"

// PublishResult is the [status, description, timetoken] envelope a
// publish transaction's response body decodes to.
type PublishResult struct {
	OK          bool
	Description string
	Timetoken   string
}

// ParsePublish decodes a publish envelope. status==1 maps to OK; any
// other value leaves OK false with a nil error, and Context.Publish then
// reports it as *pnerrors.PublishError, keeping Description as the
// operation's last-known result.
func ParsePublish(body []byte) (PublishResult, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(trimSpace(body), &arr); err != nil {
		return PublishResult{}, formatErr("parse publish", "expected a 3-element array", err)
	}
	if len(arr) < 3 {
		return PublishResult{}, formatErr("parse publish", "expected [status, description, timetoken]", nil)
	}

	var status json.Number
	if err := json.Unmarshal(arr[0], &status); err != nil {
		return PublishResult{}, formatErr("parse publish", "status is not a number", err)
	}

	var description string
	if err := json.Unmarshal(arr[1], &description); err != nil {
		return PublishResult{}, formatErr("parse publish", "description is not a string", err)
	}

	timetoken, err := decodeTimetoken(arr[2])
	if err != nil {
		return PublishResult{}, formatErr("parse publish", "timetoken is not valid", err)
	}

	return PublishResult{
		OK:          status.String() == "1",
		Description: description,
		Timetoken:   timetoken,
	}, nil
}

// decodeTimetoken accepts either a quoted string or a bare number, since
// the service is not fully consistent about which it sends.
func decodeTimetoken(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
