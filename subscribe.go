package pncore

import (
	"strconv"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
	"github.com/pnsdk/pncore/internal/respparser"
)

// Subscribe starts a subscribe transaction on channels and, optionally,
// channelGroups. The first call after Context creation is the
// handshake: timetoken is still "0", the transaction returns quickly,
// and Get yields nothing. Every subsequent call long-polls with the
// Context's stored timetoken and region, and any messages the service
// delivered are available via Get once the transaction completes.
//
// On success the new (timetoken, region) pair always replaces the
// stored cursor. On failure the previous cursor is kept — unless
// WithMissedMessagesOK is enabled, in which case a subscribe issued
// after a prior failure starts a fresh handshake (timetoken "0")
// instead of resuming from the retained cursor, trading message loss
// for recovering from whatever made the previous attempt fail.
func (c *Context) Subscribe(channels []string, channelGroups []string) ResultCode {
	if len(channels) == 0 && len(channelGroups) == 0 {
		return c.failSync(ResultInvalidChannel, &pnerrors.ValidationError{
			Field: "channels", Message: "at least one channel or channel-group is required",
		})
	}

	channelSeg := ","
	if len(channels) > 0 {
		seg, err := commaJoinChannels("channels", channels)
		if err != nil {
			return c.failSync(ResultInvalidChannel, err)
		}
		channelSeg = seg
	}

	timetoken, region := c.subscribeCursor()
	extra := [][2]string{{"tt", timetoken}}
	if region != "" {
		extra = append(extra, [2]string{"tr", region})
	}
	if len(channelGroups) > 0 {
		groupSeg, err := commaJoinChannels("channel-group", channelGroups)
		if err != nil {
			return c.failSync(ResultInvalidChannel, err)
		}
		extra = append(extra, [2]string{"channel-group", groupSeg})
	}

	path := "/v2/subscribe/" + c.cfg.subscribeKey + "/" + channelSeg + "/0"
	query := buildQuery(c, extra)

	return c.start(request{
		kind:  KindSubscribe,
		path:  path,
		query: query,
		parse: c.parseSubscribe,
	})
}

// subscribeCursor returns the timetoken/region a new Subscribe call
// should use: the retained cursor, or "0"/"" to force a fresh handshake
// when WithMissedMessagesOK is enabled and the last subscribe failed.
func (c *Context) subscribeCursor() (timetoken string, region string) {
	c.cursorMu.Lock()
	defer c.cursorMu.Unlock()
	if c.cfg.missedMessagesOK && !c.lastOK && c.timetoken != "0" {
		return "0", ""
	}
	if c.region == 0 {
		return c.timetoken, ""
	}
	return c.timetoken, strconv.Itoa(c.region)
}

// parseSubscribe adopts the result's cursor on success per the
// timetoken-retention invariant, decrypts each message payload when a
// crypto module is configured, and appends the drained messages to the
// queue in service order. A message that fails to decrypt is dropped
// from the queue but does not fail the transaction.
func (c *Context) parseSubscribe(_ *Context, body []byte) error {
	result, err := respparser.ParseSubscribe(body)
	if err != nil {
		c.cursorMu.Lock()
		c.lastOK = false
		c.cursorMu.Unlock()
		return err
	}

	messages := result.Messages
	if c.cfg.crypto != nil {
		decoded := make([]respparser.SubscribeMessage, 0, len(messages))
		for _, msg := range messages {
			plain, decErr := c.cfg.crypto.Decrypt(msg.Payload)
			if decErr != nil {
				c.cfg.logger.Warn("subscribe message decrypt failed", "channel", msg.Channel, "error", decErr)
				continue
			}
			decoded = append(decoded, respparser.SubscribeMessage{Channel: msg.Channel, Payload: plain})
		}
		messages = decoded
	}

	c.queueMu.Lock()
	c.queue = append(c.queue, messages...)
	c.queueMu.Unlock()

	c.cursorMu.Lock()
	c.timetoken = result.Timetoken
	c.region = result.Region
	c.lastOK = true
	c.cursorMu.Unlock()

	return nil
}
