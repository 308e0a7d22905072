package transport

import (
	"fmt"
	"net"
	"time"

	"github.com/jrub/queued/internal/dispatch"
)

// Call opens a connection to the daemon's unix socket at path, sends req,
// and reads back exactly one reply — the spec's "one request per connection,
// one response, then close" contract from the client's side.
func Call(path string, req dispatch.Request, timeout time.Duration) (dispatch.Reply, error) {
	var reply dispatch.Reply

	conn, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return reply, fmt.Errorf("dial %q: %w", path, err)
	}
	defer conn.Close()

	if timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(timeout))
	}

	if err := writeFrame(conn, req); err != nil {
		return reply, fmt.Errorf("send request: %w", err)
	}

	if err := readFrame(conn, &reply); err != nil {
		return reply, fmt.Errorf("read reply: %w", err)
	}

	return reply, nil
}
