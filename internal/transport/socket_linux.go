//go:build linux

package transport

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// setSocketOptions tunes a unicast TCP socket on Linux: disable Nagle's
// algorithm so small publish/subscribe requests aren't held back waiting
// for a full segment, and enable keepalive so a half-open connection to
// the origin is detected without waiting for the transaction timer.
func setSocketOptions(fd uintptr) error {
	if err := unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
		return fmt.Errorf("failed to set TCP_NODELAY: %w", err)
	}
	if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1); err != nil {
		return fmt.Errorf("failed to set SO_KEEPALIVE: %w", err)
	}
	return nil
}

// platformControl is the syscall.RawConn.Control callback net.Dialer uses
// to apply setSocketOptions before the connection is handed back.
func platformControl(_, _ string, c syscall.RawConn) error {
	var sockoptErr error
	err := c.Control(func(fd uintptr) {
		sockoptErr = setSocketOptions(fd)
	})
	if err != nil {
		return fmt.Errorf("raw conn control failed: %w", err)
	}
	return sockoptErr
}

// PlatformControl returns the platform-specific control function for
// net.Dialer.Control, used by the TCP transport when dialing the origin.
func PlatformControl(network, address string, c syscall.RawConn) error {
	return platformControl(network, address, c)
}
