package pncore

import (
	"encoding/json"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
	"github.com/pnsdk/pncore/internal/respparser"
)

// Publish starts a publish transaction for message on channel. message
// is marshalled to JSON; if a crypto module is configured via
// WithCipherKey, the marshalled payload is encrypted and wrapped in a
// JSON string before being placed in the request path.
//
// Returns ResultStarted once the transaction is running, or a terminal
// code directly if validation fails before any network I/O:
// ResultInvalidChannel for an empty channel, ResultInvalidParameters if
// message can't be marshalled or encrypted. A formatted request that
// would exceed PUBNUB_BUF_MAXLEN is detected inside the transaction,
// after connecting, and ends it with ResultInvalidParameters.
func (c *Context) Publish(channel string, message any) ResultCode {
	channelSeg, err := commaJoinChannels("channel", []string{channel})
	if err != nil {
		return c.failSync(ResultInvalidChannel, err)
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return c.failSync(ResultInvalidParameters, &pnerrors.ValidationError{
			Field: "message", Message: "message could not be marshalled to JSON",
		})
	}

	if c.cfg.crypto != nil {
		payload, err = c.cfg.crypto.Encrypt(payload)
		if err != nil {
			return c.failSync(ResultInvalidParameters, err)
		}
	}

	path := "/publish/" + c.cfg.publishKey + "/" + c.cfg.subscribeKey + "/0/" + channelSeg + "/0/" + pathEscape(string(payload))
	query := buildQuery(c, nil)

	return c.start(request{
		kind:  KindPublish,
		path:  path,
		query: query,
		parse: func(c *Context, body []byte) error {
			result, err := respparser.ParsePublish(body)
			if err != nil {
				return err
			}
			c.publishMu.Lock()
			c.lastPublishResult = result.Description
			c.publishMu.Unlock()
			if !result.OK {
				return &pnerrors.PublishError{Description: result.Description}
			}
			return nil
		},
	})
}
