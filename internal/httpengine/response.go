package httpengine

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
	"github.com/pnsdk/pncore/internal/transport"
)

// Response is the decoded result of a GET: the status code and the
// fully read (and, if needed, gzip-decoded) body, both bounded by
// PUBNUB_REPLY_MAXLEN.
type Response struct {
	StatusCode int
	Body       []byte
}

var errOverflow = errors.New("httpengine: response exceeded reply cap")

// transportReader adapts transport.Transport.Recv, which takes a
// context per call, to the plain io.Reader bufio.Reader and
// http.ReadResponse expect.
type transportReader struct {
	ctx context.Context
	t   transport.Transport
}

func (r transportReader) Read(p []byte) (int, error) {
	n, err := r.t.Recv(r.ctx, p)
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	return n, err
}

// cappedReader enforces PUBNUB_REPLY_MAXLEN on the raw bytes read from
// the transport (status line and headers included) and remembers whether
// the cap was the reason reading stopped. Decompressed gzip output is
// checked against the same cap separately, in Read.
type cappedReader struct {
	r         io.Reader
	remaining int
	exceeded  bool
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.remaining <= 0 {
		c.exceeded = true
		return 0, errOverflow
	}
	if len(p) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= n
	return n, err
}

// Read performs the full receive path: read the status line and
// headers via net/http's wire-compatible parser, then drain the body
// (chunked or length-delimited, both handled by http.Response.Body)
// through a cap, decompressing first if Content-Encoding: gzip.
func Read(ctx context.Context, t transport.Transport, maxLen int) (*Response, error) {
	if maxLen <= 0 {
		maxLen = transport.DefaultReplyMaxLen
	}

	capped := &cappedReader{r: transportReader{ctx: ctx, t: t}, remaining: maxLen}
	br := bufio.NewReader(capped)

	httpResp, err := http.ReadResponse(br, nil)
	if err != nil {
		if capped.exceeded || errors.Is(err, errOverflow) {
			return nil, &pnerrors.FormatError{Operation: "read response", Offset: -1, Message: "reply-too-big", Err: err}
		}
		return nil, &pnerrors.TransportError{Operation: "read response", Code: pnerrors.ResultIOError, Err: err}
	}
	defer httpResp.Body.Close()

	var bodyReader io.Reader = httpResp.Body
	if httpResp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(httpResp.Body)
		if err != nil {
			return nil, &pnerrors.FormatError{Operation: "gzip decode", Offset: -1, Message: "invalid gzip stream", Err: err}
		}
		defer gz.Close()
		bodyReader = gz
	}

	body, err := io.ReadAll(io.LimitReader(bodyReader, int64(maxLen)+1))
	if err != nil {
		if capped.exceeded || errors.Is(err, errOverflow) {
			return nil, &pnerrors.FormatError{Operation: "read body", Offset: -1, Message: "reply-too-big", Err: err}
		}
		return nil, &pnerrors.TransportError{Operation: "read body", Code: pnerrors.ResultIOError, Err: err}
	}
	if len(body) > maxLen {
		return nil, &pnerrors.FormatError{Operation: "read body", Offset: maxLen, Message: "reply-too-big"}
	}

	return &Response{StatusCode: httpResp.StatusCode, Body: body}, nil
}
