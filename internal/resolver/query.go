package resolver

import (
	"context"
	"net"

	"github.com/miekg/dns"
)

// query sends one A or AAAA query to server and returns the address
// strings from the answer section, honoring ctx and opts.QueryTimeout.
func (r *Resolver) query(ctx context.Context, server, hostname string, qtype uint16) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(hostname), qtype)
	msg.RecursionDesired = true

	packed, err := msg.Pack()
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, r.opts.QueryTimeout)
	defer cancel()

	conn, err := r.dial(queryCtx, "udp", net.JoinHostPort(server, "53"))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if dl, ok := queryCtx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	if _, err := conn.Write(packed); err != nil {
		return nil, err
	}

	buf := make([]byte, dns.DefaultMsgSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, err
	}

	reply := new(dns.Msg)
	if err := reply.Unpack(buf[:n]); err != nil {
		return nil, err
	}

	return extractAddresses(reply, qtype), nil
}

func extractAddresses(reply *dns.Msg, qtype uint16) []string {
	addrs := make([]string, 0, len(reply.Answer))
	for _, rr := range reply.Answer {
		switch qtype {
		case dns.TypeA:
			if a, ok := rr.(*dns.A); ok {
				addrs = append(addrs, a.A.String())
			}
		case dns.TypeAAAA:
			if aaaa, ok := rr.(*dns.AAAA); ok {
				addrs = append(addrs, aaaa.AAAA.String())
			}
		}
	}
	return addrs
}
