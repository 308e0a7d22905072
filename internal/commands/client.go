package commands

import (
	"fmt"
	"io"

	"github.com/jrub/queued/internal/client"
	"github.com/jrub/queued/internal/dispatch"
	"github.com/jrub/queued/internal/transport"
)

// call sends req to the daemon listening on cfg's socket and prints its
// reply, the same shape every queuectl subcommand needs.
func call(w io.Writer, cfg *client.Config, req dispatch.Request) error {
	reply, err := transport.Call(cfg.SocketPath(), req, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("contact queued: %w", err)
	}

	if reply.Show != nil {
		printShow(w, reply.Show)
		return nil
	}

	fmt.Fprintln(w, reply.Text)
	return nil
}

func printShow(w io.Writer, s *dispatch.ShowReply) {
	fmt.Fprintf(w, "Process:\t%s\n", s.Process)
	fmt.Fprintf(w, "Status:\t\t%s\n", s.Status)
	fmt.Fprintf(w, "Current:\t%s\n\n", s.Current)

	if s.Data.Empty {
		fmt.Fprintln(w, "Queue is empty")
		return
	}
	if s.Data.Jobs == nil {
		return
	}

	for id, j := range s.Data.Jobs {
		fmt.Fprintf(w, "#%d %s\tpath: %s\tstatus: %s", id, j.Command, j.Path, j.Status)
		if j.ReturnCode != nil {
			fmt.Fprintf(w, "\treturncode: %d", *j.ReturnCode)
		}
		fmt.Fprintln(w)
	}
}
