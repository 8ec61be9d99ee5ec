package pncore

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
	"github.com/pnsdk/pncore/internal/respparser"
)

// GrantToken starts a grant-token transaction, asking the service to
// mint a token scoped to resources (a map of resource name to a
// bitmask of permissions, interpreted only by the server) with the
// given ttl in minutes. Requires WithSecretKey; the request path and
// query are signed with it the way every administrative endpoint is.
func (c *Context) GrantToken(resources map[string]int, ttlMinutes int) ResultCode {
	if c.cfg.secretKey == "" {
		return c.failSync(ResultAuthorizationError, &pnerrors.AuthError{
			Operation: "grant-token", Message: "WithSecretKey is required",
		})
	}
	permissions, err := json.Marshal(resources)
	if err != nil {
		return c.failSync(ResultInvalidParameters, &pnerrors.ValidationError{
			Field: "resources", Message: "resources could not be marshalled to JSON",
		})
	}

	path := "/v3/pam/" + c.cfg.subscribeKey + "/grant"
	query := c.signedQuery(path, [][2]string{
		{"permissions", string(permissions)},
		{"ttl", strconv.Itoa(ttlMinutes)},
	})

	return c.start(request{
		kind:  KindGrantToken,
		path:  path,
		query: query,
		parse: c.parseToken,
	})
}

// RevokeToken starts a revoke-token transaction, invalidating a
// previously granted token. Requires WithSecretKey.
func (c *Context) RevokeToken(token string) ResultCode {
	if c.cfg.secretKey == "" {
		return c.failSync(ResultAuthorizationError, &pnerrors.AuthError{
			Operation: "revoke-token", Message: "WithSecretKey is required",
		})
	}
	if token == "" {
		return c.failSync(ResultInvalidParameters, &pnerrors.ValidationError{
			Field: "token", Message: "token is required",
		})
	}

	path := "/v3/pam/" + c.cfg.subscribeKey + "/grant/" + pathEscape(token)
	query := c.signedQuery(path, nil)

	return c.start(request{
		kind:  KindRevokeToken,
		path:  path,
		query: query,
		parse: c.parseToken,
	})
}

func (c *Context) parseToken(_ *Context, body []byte) error {
	result, err := respparser.ParseToken(body)
	if err != nil {
		return err
	}
	if result.ErrorMessage != "" {
		return &pnerrors.AuthError{Operation: "grant/revoke-token", Message: result.ErrorMessage}
	}
	c.tokenMu.Lock()
	c.lastToken = result.Token
	c.tokenMu.Unlock()
	return nil
}

// LastToken returns the token minted by the most recently completed
// GrantToken transaction.
func (c *Context) LastToken() string {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	return c.lastToken
}

// signedQuery builds the query string for an administrative endpoint:
// extra plus the timestamp and (when configured) uuid parameters, sorted
// by key, then an
// HMAC-SHA256 signature over "<subKey>\n<pubKey>\n<path>\n<query>"
// keyed by the secret key, base64-encoded and appended as "signature".
func (c *Context) signedQuery(path string, extra [][2]string) string {
	params := append([][2]string{}, extra...)
	params = append(params, [2]string{"timestamp", strconv.FormatInt(c.cfg.clock.NowMillis()/1000, 10)})
	if c.cfg.uuid != "" {
		params = append(params, [2]string{"uuid", c.cfg.uuid})
	}
	sort.Slice(params, func(i, j int) bool { return params[i][0] < params[j][0] })
	queryForSigning := encodeQuery(params)

	signInput := fmt.Sprintf("%s\n%s\n%s\n%s", c.cfg.subscribeKey, c.cfg.publishKey, path, queryForSigning)
	mac := hmac.New(sha256.New, []byte(c.cfg.secretKey))
	mac.Write([]byte(signInput))
	signature := base64.URLEncoding.EncodeToString(mac.Sum(nil))

	if queryForSigning == "" {
		return "signature=" + signature
	}
	return queryForSigning + "&signature=" + signature
}
