package pncore

import "github.com/pnsdk/pncore/internal/respparser"

// Time starts a time transaction, fetching the server's current
// timetoken. The result is available via LastServerTime once the
// transaction completes successfully; it is independent of the
// subscribe cursor and never mutates it.
func (c *Context) Time() ResultCode {
	return c.start(request{
		kind: KindTime,
		path: "/time/0",
		parse: func(c *Context, body []byte) error {
			tt, err := respparser.ParseTime(body)
			if err != nil {
				return err
			}
			c.timeMu.Lock()
			c.lastServerTime = tt
			c.timeMu.Unlock()
			return nil
		},
	})
}

// LastServerTime returns the timetoken fetched by the most recently
// completed Time transaction.
func (c *Context) LastServerTime() string {
	c.timeMu.Lock()
	defer c.timeMu.Unlock()
	return c.lastServerTime
}
