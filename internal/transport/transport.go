// Package transport supplies the concrete local IPC channel the spec treats
// as an out-of-scope collaborator ("the core sees only decoded request
// records arriving over a local IPC channel"). It frames one gob-encoded
// value per connection behind a 4-byte big-endian length prefix, over a unix
// domain socket — enough for the daemon to be runnable and testable
// end-to-end without pretending to specify a production wire protocol.
package transport

import (
	"fmt"
	"net"

	"github.com/jrub/queued/internal/dispatch"
)

// MaxFrameSize bounds a single frame in either direction: requests read by
// the daemon and replies read by Call. The spec notes request bodies are
// small and read in one recv with a fixed-size buffer; this is that buffer's
// ceiling, not a streaming protocol's. A reply larger than this (for example
// a show listing with large captured output) fails to read in Call.
const MaxFrameSize = 64 << 10 // 64KiB

// Listen opens the unix domain socket at path, removing any stale socket
// file left behind by an unclean shutdown first.
func Listen(path string) (net.Listener, error) {
	_ = removeIfSocket(path)

	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on %q: %w", path, err)
	}
	return l, nil
}

// ReadRequest reads exactly one framed, gob-encoded dispatch.Request from
// conn. A malformed frame or decode failure is returned as an error; per the
// spec, the caller must drop the connection without replying in that case.
func ReadRequest(conn net.Conn) (dispatch.Request, error) {
	var req dispatch.Request
	err := readFrame(conn, &req)
	return req, err
}

// WriteReply frames and writes a single gob-encoded dispatch.Reply to conn.
func WriteReply(conn net.Conn, reply dispatch.Reply) error {
	return writeFrame(conn, reply)
}
