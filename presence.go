package pncore

import (
	"encoding/json"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
	"github.com/pnsdk/pncore/internal/respparser"
)

// HereNow starts a transaction listing the occupants of channels. The
// occupant list is whatever shape the service returns in the envelope's
// payload field; retrieve it raw via LastPresence and unmarshal it into
// whatever structure the caller expects.
func (c *Context) HereNow(channels []string) ResultCode {
	return c.presenceTransaction(KindHereNow, channels, "/v2/presence/sub-key/"+c.cfg.subscribeKey+"/channel/", nil)
}

// WhereNow starts a transaction listing the channels a uuid currently
// occupies. uuid defaults to the Context's configured UUID when empty.
func (c *Context) WhereNow(uuid string) ResultCode {
	if uuid == "" {
		uuid = c.cfg.uuid
	}
	if uuid == "" {
		return c.failSync(ResultInvalidParameters, &pnerrors.ValidationError{
			Field: "uuid", Message: "uuid is required when the Context has none configured",
		})
	}
	path := "/v2/presence/sub-key/" + c.cfg.subscribeKey + "/uuid/" + pathEscape(uuid)
	return c.start(request{
		kind:  KindWhereNow,
		path:  path,
		query: buildQuery(c, nil),
		parse: c.parsePresence,
	})
}

// SetState starts a transaction publishing state (an arbitrary
// JSON-serializable value) for the Context's uuid on channels.
func (c *Context) SetState(channels []string, state any) ResultCode {
	channelSeg, err := commaJoinChannels("channel", channels)
	if err != nil {
		return c.failSync(ResultInvalidChannel, err)
	}
	if c.cfg.uuid == "" {
		return c.failSync(ResultInvalidParameters, &pnerrors.ValidationError{
			Field: "uuid", Message: "WithUUID is required for SetState",
		})
	}
	encoded, err := json.Marshal(state)
	if err != nil {
		return c.failSync(ResultInvalidParameters, &pnerrors.ValidationError{
			Field: "state", Message: "state could not be marshalled to JSON",
		})
	}

	path := "/v2/presence/sub-key/" + c.cfg.subscribeKey + "/channel/" + channelSeg + "/uuid/" + pathEscape(c.cfg.uuid) + "/data"
	query := buildQuery(c, [][2]string{{"state", string(encoded)}})

	return c.start(request{
		kind:  KindSetState,
		path:  path,
		query: query,
		parse: c.parsePresence,
	})
}

// GetState starts a transaction fetching the Context's uuid's
// previously set state on channels.
func (c *Context) GetState(channels []string) ResultCode {
	channelSeg, err := commaJoinChannels("channel", channels)
	if err != nil {
		return c.failSync(ResultInvalidChannel, err)
	}
	if c.cfg.uuid == "" {
		return c.failSync(ResultInvalidParameters, &pnerrors.ValidationError{
			Field: "uuid", Message: "WithUUID is required for GetState",
		})
	}

	path := "/v2/presence/sub-key/" + c.cfg.subscribeKey + "/channel/" + channelSeg + "/uuid/" + pathEscape(c.cfg.uuid)
	return c.start(request{
		kind:  KindGetState,
		path:  path,
		query: buildQuery(c, nil),
		parse: c.parsePresence,
	})
}

func (c *Context) presenceTransaction(kind TransactionKind, channels []string, pathPrefix string, extra [][2]string) ResultCode {
	channelSeg, err := commaJoinChannels("channel", channels)
	if err != nil {
		return c.failSync(ResultInvalidChannel, err)
	}
	return c.start(request{
		kind:  kind,
		path:  pathPrefix + channelSeg,
		query: buildQuery(c, extra),
		parse: c.parsePresence,
	})
}

func (c *Context) parsePresence(_ *Context, body []byte) error {
	result, err := respparser.ParsePresence(body)
	if err != nil {
		return err
	}
	c.presenceMu.Lock()
	c.lastPresence = result
	c.presenceMu.Unlock()
	return nil
}

// LastPresence returns the payload of the most recently completed
// HereNow, WhereNow, SetState, or GetState transaction.
func (c *Context) LastPresence() respparser.PresenceResult {
	c.presenceMu.Lock()
	defer c.presenceMu.Unlock()
	return c.lastPresence
}
