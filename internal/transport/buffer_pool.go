package transport

import "sync"

// DefaultReplyMaxLen is PUBNUB_REPLY_MAXLEN: the receive cap
// httpengine.Read falls back to when given none. Pooled buffers are
// sized to this default.
const DefaultReplyMaxLen = 1024

// bufferPool holds reusable DefaultReplyMaxLen-sized buffers. The
// Context receive path (httpengine.Read) does not draw from it; it
// allocates the body it returns.
var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, DefaultReplyMaxLen)
		return &buf
	},
}

// GetBuffer returns a pointer to a DefaultReplyMaxLen-sized buffer from
// the pool. Callers needing a larger cap (WithReplyMaxLen) allocate their
// own and skip the pool entirely.
//
// The caller must return the buffer with PutBuffer, typically via defer.
func GetBuffer() *[]byte {
	return bufferPool.Get().(*[]byte)
}

// PutBuffer zeroes and returns a buffer to the pool. The caller must not
// use the buffer after calling PutBuffer.
func PutBuffer(bufPtr *[]byte) {
	buf := *bufPtr
	for i := range buf {
		buf[i] = 0
	}
	bufferPool.Put(bufPtr)
}
