//go:build windows

package transport

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"
)

// setSocketOptions tunes a unicast TCP socket on Windows: disable
// Nagle's algorithm and enable keepalive. SO_KEEPALIVE intervals are
// left at the OS default; this core doesn't need fine control over
// probe timing.
func setSocketOptions(fd uintptr) error {
	if err := windows.SetsockoptInt(windows.Handle(fd), windows.IPPROTO_TCP, windows.TCP_NODELAY, 1); err != nil {
		return fmt.Errorf("failed to set TCP_NODELAY: %w", err)
	}
	if err := windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_KEEPALIVE, 1); err != nil {
		return fmt.Errorf("failed to set SO_KEEPALIVE: %w", err)
	}
	return nil
}

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
