package listener

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
)

// Push dials addr and writes every line of r to it. It then half-closes the
// connection and drains the server's output until the server hangs up, so no
// line is lost to a reset. It returns the number of lines sent.
func Push(ctx context.Context, addr string, r io.Reader) (int, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	w := bufio.NewWriter(conn)
	sent := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if _, err := w.WriteString(sc.Text() + "\n"); err != nil {
			return sent, fmt.Errorf("write line %d: %w", sent+1, err)
		}
		sent++
	}
	if err := sc.Err(); err != nil {
		return sent, fmt.Errorf("read input: %w", err)
	}
	if err := w.Flush(); err != nil {
		return sent, fmt.Errorf("flush: %w", err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		if err := tc.CloseWrite(); err != nil {
			return sent, fmt.Errorf("close write: %w", err)
		}
	}
	if _, err := io.Copy(io.Discard, conn); err != nil && ctx.Err() == nil {
		return sent, fmt.Errorf("drain: %w", err)
	}
	return sent, nil
}
