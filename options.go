package pncore

import (
	"context"
	"time"

	"github.com/pnsdk/pncore/internal/clock"
	"github.com/pnsdk/pncore/internal/crypto"
	"github.com/pnsdk/pncore/internal/pal"
	"github.com/pnsdk/pncore/internal/resolver"
	"github.com/pnsdk/pncore/internal/telemetry"
	"github.com/pnsdk/pncore/internal/transport"
)

// addressResolver is the narrow interface the state machine needs out
// of internal/resolver.Resolver — just enough that tests can substitute
// a canned resolver instead of issuing real DNS queries.
type addressResolver interface {
	Resolve(ctx context.Context, hostname string) (resolver.Result, error)
}

// Numeric defaults, named after the PUBNUB_* constants they replace.
const (
	DefaultContextPoolSize = 4

	DefaultBufMaxLen   = 256
	DefaultReplyMaxLen = 1024

	DefaultTransactionTimeout = 310 * time.Second
	MinTransactionTimeout     = 200 * time.Millisecond
	DefaultWaitConnectTimeout = 10 * time.Second
	MinWaitConnectTimeout     = 5 * time.Second

	DefaultMaxDNSQueries  = 3
	DefaultMaxDNSRotation = 3
	DefaultDNSServer      = "8.8.8.8"

	DefaultOrigin = "ps.pndsn.com"
)

// config collects every knob a Context can be constructed with. Its
// zero value is never used directly; newConfig seeds the defaults
// above, and each Option mutates the result.
type config struct {
	origin       string
	subscribeKey string
	publishKey   string
	secretKey    string
	authKey      string
	uuid         string

	useTLS           bool
	useGzip          bool
	missedMessagesOK bool
	randomIV         bool

	bufMaxLen   int
	replyMaxLen int

	transactionTimeout time.Duration
	connectTimeout     time.Duration

	dnsServers []string
	enableIPv6 bool

	logger telemetry.Logger
	clock  clock.Clock
	crypto crypto.Module

	transportFactory func(hostname string, useTLS bool) transport.Transport
	resolver         addressResolver
}

func newConfig(opts ...Option) config {
	cfg := config{
		origin:             DefaultOrigin,
		useTLS:             true,
		bufMaxLen:          DefaultBufMaxLen,
		replyMaxLen:        DefaultReplyMaxLen,
		transactionTimeout: DefaultTransactionTimeout,
		connectTimeout:     DefaultWaitConnectTimeout,
		dnsServers:         []string{DefaultDNSServer},
		logger:             telemetry.Default(),
		clock:              clock.System{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.transportFactory == nil {
		cfg.transportFactory = defaultTransportFactory
	}
	if cfg.resolver == nil {
		cfg.resolver = resolver.NewResolver(resolver.Options{
			Servers:    cfg.dnsServers,
			EnableIPv6: cfg.enableIPv6,
			Logger:     cfg.logger,
		})
	}
	return cfg
}

func defaultTransportFactory(hostname string, useTLS bool) transport.Transport {
	if useTLS {
		return transport.NewTLSTransport(hostname, nil)
	}
	return transport.NewTCP()
}

// Option configures a Context at construction time.
type Option func(*config)

// WithOrigin sets the service origin hostname. Defaults to
// DefaultOrigin.
func WithOrigin(origin string) Option {
	return func(c *config) { c.origin = origin }
}

// WithSubscribeKey sets the subscribe key used on every transaction.
func WithSubscribeKey(key string) Option {
	return func(c *config) { c.subscribeKey = key }
}

// WithPublishKey sets the publish key, required only for Publish.
func WithPublishKey(key string) Option {
	return func(c *config) { c.publishKey = key }
}

// WithSecretKey sets the secret key used to sign grant/revoke token
// requests.
func WithSecretKey(key string) Option {
	return func(c *config) { c.secretKey = key }
}

// WithAuthKey sets the auth token attached to every request.
func WithAuthKey(key string) Option {
	return func(c *config) { c.authKey = key }
}

// WithUUID sets the client identifier sent as the uuid query parameter.
func WithUUID(uuid string) Option {
	return func(c *config) { c.uuid = uuid }
}

// WithTLS enables or disables HTTPS. Defaults to enabled.
func WithTLS(enabled bool) Option {
	return func(c *config) { c.useTLS = enabled }
}

// WithGzip requests gzip-encoded responses (PUBNUB_RECEIVE_GZIP_RESPONSE).
func WithGzip(enabled bool) Option {
	return func(c *config) { c.useGzip = enabled }
}

// WithMissedMessagesOK controls what happens to the stored subscribe
// cursor after a failed subscribe (PUBNUB_MISSMSG_OK). When enabled, a
// handshake timetoken received after a failure replaces the stored
// cursor even though messages published during the gap are lost. When
// disabled (the default), the Context keeps retrying with the last
// known-good cursor instead of silently skipping ahead.
func WithMissedMessagesOK(enabled bool) Option {
	return func(c *config) { c.missedMessagesOK = enabled }
}

// WithRandomIV records the PUBNUB_RAND_INIT_VECTOR setting. The setting
// is not read anywhere: the AES-CBC variant chosen by WithCipherKey
// always takes a fresh IV from crypto/rand, and the legacy variant always
// uses its fixed IV, whether this option is enabled or not.
func WithRandomIV(enabled bool) Option {
	return func(c *config) { c.randomIV = enabled }
}

// WithCipherKey configures payload encryption. legacy selects the
// fixed-IV SHA-256 variant used by old SDK versions; otherwise the
// random-IV AES-CBC variant is used.
func WithCipherKey(passphrase string, legacy bool) Option {
	return func(c *config) {
		if legacy {
			c.crypto = crypto.NewLegacy(passphrase)
			return
		}
		c.crypto = crypto.NewAESCBC(passphrase, pal.CryptoRandPRNG{})
	}
}

// WithBufMaxLen overrides PUBNUB_BUF_MAXLEN, the formatted request cap.
func WithBufMaxLen(n int) Option {
	return func(c *config) { c.bufMaxLen = n }
}

// WithReplyMaxLen overrides PUBNUB_REPLY_MAXLEN, the response body cap.
func WithReplyMaxLen(n int) Option {
	return func(c *config) { c.replyMaxLen = n }
}

// WithTransactionTimeout overrides the per-transaction timer. Values
// below MinTransactionTimeout are clamped up to it.
func WithTransactionTimeout(d time.Duration) Option {
	return func(c *config) {
		if d < MinTransactionTimeout {
			d = MinTransactionTimeout
		}
		c.transactionTimeout = d
	}
}

// WithConnectTimeout overrides the wait-connect timer. Values below
// MinWaitConnectTimeout are clamped up to it.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *config) {
		if d < MinWaitConnectTimeout {
			d = MinWaitConnectTimeout
		}
		c.connectTimeout = d
	}
}

// WithDNSServers overrides the DNS server rotation list. Defaults to
// DefaultDNSServer.
func WithDNSServers(servers ...string) Option {
	return func(c *config) { c.dnsServers = servers }
}

// WithIPv6 enables AAAA resolution alongside A.
func WithIPv6(enabled bool) Option {
	return func(c *config) { c.enableIPv6 = enabled }
}

// WithLogger installs a structured logger. Defaults to a no-op.
func WithLogger(logger telemetry.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clk clock.Clock) Option {
	return func(c *config) { c.clock = clk }
}

// withTransportFactory overrides how a Context obtains a Transport for
// each connect. Unexported: real callers get TCP/TLS from
// defaultTransportFactory, and only this package's tests substitute a
// transport.MockTransport.
func withTransportFactory(f func(hostname string, useTLS bool) transport.Transport) Option {
	return func(c *config) { c.transportFactory = f }
}

// withResolver overrides address resolution entirely, for tests.
func withResolver(r addressResolver) Option {
	return func(c *config) { c.resolver = r }
}
