package pncore

import (
	"encoding/json"
	"strconv"

	"github.com/pnsdk/pncore/internal/respparser"
)

// HistoryMessage is one entry from a History response: raw JSON, left
// undecoded the same way Subscribe leaves message payloads undecoded,
// since a history span may cross both encrypted and plaintext eras of
// a channel and only the caller knows which applies to which entry.
type HistoryMessage = json.RawMessage

// HistoryResult is what History's parse callback deposits; retrieve it
// with Context.LastHistory after Await/LastResult reports ResultOK.
type HistoryResult struct {
	Messages []HistoryMessage
	Start    string
	End      string
}

// History starts a history transaction fetching up to count messages
// from channel. count is capped at 100 per the service's page size, and
// a count of zero or less also requests 100; includeToken requests
// per-message timetokens in the envelope.
func (c *Context) History(channel string, count int, includeToken bool) ResultCode {
	channelSeg, err := commaJoinChannels("channel", []string{channel})
	if err != nil {
		return c.failSync(ResultInvalidChannel, err)
	}
	if count <= 0 {
		count = 100
	}
	if count > 100 {
		count = 100
	}

	extra := [][2]string{
		{"count", strconv.Itoa(count)},
		{"include_token", strconv.FormatBool(includeToken)},
	}

	path := "/v2/history/sub-key/" + c.cfg.subscribeKey + "/channel/" + channelSeg
	query := buildQuery(c, extra)

	return c.start(request{
		kind:  KindHistory,
		path:  path,
		query: query,
		parse: func(c *Context, body []byte) error {
			result, err := respparser.ParseHistory(body)
			if err != nil {
				return err
			}
			c.historyMu.Lock()
			c.lastHistory = HistoryResult{Messages: result.Messages, Start: result.Start, End: result.End}
			c.historyMu.Unlock()
			return nil
		},
	})
}

// LastHistory returns the result of the most recently completed
// History transaction.
func (c *Context) LastHistory() HistoryResult {
	c.historyMu.Lock()
	defer c.historyMu.Unlock()
	return c.lastHistory
}
