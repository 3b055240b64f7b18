package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// netAddr joins host and port into a dialable address.
func netAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// checkTCP succeeds if a TCP connection to host:port completes before the
// context deadline. The connection is closed immediately; nothing is sent.
func checkTCP(ctx context.Context, spec Spec) error {
	addr := netAddr(spec.Host, spec.Port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	_ = conn.Close()

	return nil
}
