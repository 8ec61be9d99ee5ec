// Package resolver resolves an origin hostname to a short list of
// A/AAAA addresses, retrying against the configured DNS server and
// rotating to the next configured server on repeated failure.
//
// It replaces the platform split the embedded C core makes between
// PUBNUB_USE_MDNS and a plain resolv.conf-style resolver with one
// unified path: a standard DNS query sent over UDP with miekg/dns,
// regardless of what's installed on the host.
package resolver

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"

	pnerrors "github.com/pnsdk/pncore/internal/errors"
	"github.com/pnsdk/pncore/internal/telemetry"
)

// Defaults per the numeric constants table.
const (
	DefaultMaxIPv4Addresses = 2
	DefaultMaxIPv6Addresses = 1
	DefaultMaxDNSQueries    = 3
	DefaultMaxDNSRotation   = 3
	DefaultDNSServer        = "8.8.8.8"
	DefaultQueryTimeout     = 2 * time.Second
)

// Result is the address list a successful resolve produces, already
// split by family for transport.InterleaveAddresses.
type Result struct {
	IPv4 []string
	IPv6 []string
}

// Empty reports whether the resolve produced no usable addresses at all.
func (r Result) Empty() bool {
	return len(r.IPv4) == 0 && len(r.IPv6) == 0
}

// Options configures a Resolver. The zero value is not usable; use
// NewResolver to apply defaults.
type Options struct {
	Servers          []string
	MaxIPv4Addresses int
	MaxIPv6Addresses int
	MaxQueries       int
	MaxRotation      int
	QueryTimeout     time.Duration
	EnableIPv6       bool
	Logger           telemetry.Logger
}

// Resolver resolves hostnames against one or more DNS servers, rotating
// between them on repeated timeout.
type Resolver struct {
	opts Options
	dial func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewResolver returns a Resolver with defaults filled in for any zero
// field of opts.
func NewResolver(opts Options) *Resolver {
	if len(opts.Servers) == 0 {
		opts.Servers = []string{DefaultDNSServer}
	}
	if opts.MaxIPv4Addresses == 0 {
		opts.MaxIPv4Addresses = DefaultMaxIPv4Addresses
	}
	if opts.MaxIPv6Addresses == 0 {
		opts.MaxIPv6Addresses = DefaultMaxIPv6Addresses
	}
	if opts.MaxQueries == 0 {
		opts.MaxQueries = DefaultMaxDNSQueries
	}
	if opts.MaxRotation == 0 {
		opts.MaxRotation = DefaultMaxDNSRotation
	}
	if opts.QueryTimeout == 0 {
		opts.QueryTimeout = DefaultQueryTimeout
	}
	if opts.Logger == nil {
		opts.Logger = telemetry.Default()
	}
	var dialer net.Dialer
	return &Resolver{opts: opts, dial: dialer.DialContext}
}

// Resolve queries for A records, and AAAA too when EnableIPv6 is set,
// rotating across opts.Servers on repeated per-server failure.
//
// Partial success is success: if AAAA queries fail but A succeeds (or
// vice versa), Resolve returns the addresses it has rather than an
// error. Only total failure across every server and family yields
// dns-error.
func (r *Resolver) Resolve(ctx context.Context, hostname string) (Result, error) {
	var result Result
	var lastErr error

	// Rotation always runs MaxRotation full rounds, even with fewer
	// configured servers than that: Servers[i%len(Servers)] below wraps
	// back over a short list so Property 8 (MaxQueries x MaxRotation
	// total queries before dns-error) holds regardless of server count.
	rotations := r.opts.MaxRotation
	if rotations == 0 {
		rotations = len(r.opts.Servers)
	}

	for i := 0; i < rotations; i++ {
		server := r.opts.Servers[i%len(r.opts.Servers)]

		if addrs, err := r.queryWithRetry(ctx, server, hostname, dns.TypeA); err == nil {
			result.IPv4 = capAddresses(addrs, r.opts.MaxIPv4Addresses)
		} else {
			lastErr = err
			r.opts.Logger.Warn("dns query failed", "server", server, "type", "A", "err", err)
		}

		if r.opts.EnableIPv6 {
			if addrs, err := r.queryWithRetry(ctx, server, hostname, dns.TypeAAAA); err == nil {
				result.IPv6 = capAddresses(addrs, r.opts.MaxIPv6Addresses)
			} else {
				lastErr = err
				r.opts.Logger.Warn("dns query failed", "server", server, "type", "AAAA", "err", err)
			}
		}

		if !result.Empty() {
			return result, nil
		}
	}

	if lastErr == nil {
		lastErr = &pnerrors.ValidationError{Field: "hostname", Value: hostname, Message: "no DNS servers configured"}
	}
	return Result{}, &pnerrors.TransportError{
		Operation: "resolve",
		Code:      pnerrors.ResultDNSError,
		Err:       lastErr,
		Details:   hostname,
	}
}

func capAddresses(addrs []string, max int) []string {
	if max > 0 && len(addrs) > max {
		return addrs[:max]
	}
	return addrs
}

// queryWithRetry resends the same query up to opts.MaxQueries times
// against server, waiting opts.QueryTimeout between attempts.
func (r *Resolver) queryWithRetry(ctx context.Context, server, hostname string, qtype uint16) ([]string, error) {
	var lastErr error
	for attempt := 0; attempt < r.opts.MaxQueries; attempt++ {
		addrs, err := r.query(ctx, server, hostname, qtype)
		if err == nil {
			return addrs, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
