package pncore

import (
	"strings"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
)

// unreservedByte reports whether b needs no escaping under the
// service's reserved set: A-Z a-z 0-9 . - _ ~ — stricter than
// net/url.PathEscape, which leaves RFC 3986 sub-delims like "!" and "*"
// unescaped in a path segment. Channel names and publish payloads both
// go through this, never through net/url's own escaper.
func unreservedByte(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '.' || b == '-' || b == '_' || b == '~':
		return true
	default:
		return false
	}
}

// pathEscape percent-encodes one path segment (a channel name, a
// publish payload, ...) against the strict reserved set every URL this
// client builds must respect.
func pathEscape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		if unreservedByte(b) {
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hexDigit(b >> 4))
		sb.WriteByte(hexDigit(b & 0x0f))
	}
	return sb.String()
}

func hexDigit(n byte) byte {
	const digits = "0123456789ABCDEF"
	return digits[n&0x0f]
}

// commaJoinChannels validates and joins a channel/channel-group list
// for use in a path segment or query value, per the channel-naming
// rules: non-empty, no commas (the list separator itself), no
// whitespace-only names.
func commaJoinChannels(field string, channels []string) (string, error) {
	if len(channels) == 0 {
		return "", &pnerrors.ValidationError{Field: field, Message: "at least one channel is required"}
	}
	escaped := make([]string, 0, len(channels))
	for _, ch := range channels {
		trimmed := strings.TrimSpace(ch)
		if trimmed == "" {
			return "", &pnerrors.ValidationError{Field: field, Value: ch, Message: "channel name cannot be blank"}
		}
		if strings.Contains(trimmed, ",") {
			return "", &pnerrors.ValidationError{Field: field, Value: ch, Message: "channel name cannot contain a comma"}
		}
		escaped = append(escaped, pathEscape(trimmed))
	}
	return strings.Join(escaped, ","), nil
}

// buildQuery assembles a query string from the common auth/uuid
// parameters plus operation-specific pairs, in a stable order so tests
// can assert on it directly. Every value goes through pathEscape, not
// net/url's query escaper, so the result never contains a "+" for
// space or any other character outside the service's reserved set.
func buildQuery(c *Context, extra [][2]string) string {
	pairs := make([][2]string, 0, len(extra)+2)
	if c.cfg.authKey != "" {
		pairs = append(pairs, [2]string{"auth", c.cfg.authKey})
	}
	if c.cfg.uuid != "" {
		pairs = append(pairs, [2]string{"uuid", c.cfg.uuid})
	}
	pairs = append(pairs, extra...)
	return encodeQuery(pairs)
}

// encodeQuery joins key=value pairs with "&", percent-encoding each
// value with pathEscape. Keys are always literal ASCII identifiers
// (tt, auth, count, ...) and never need escaping themselves.
func encodeQuery(pairs [][2]string) string {
	var sb strings.Builder
	for i, kv := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(kv[0])
		sb.WriteByte('=')
		sb.WriteString(pathEscape(kv[1]))
	}
	return sb.String()
}
