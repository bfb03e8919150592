package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/finder/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	r := mcp.Runner{Name: "finder"}
	var transport string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the folder tree over the Model Context Protocol.",
		Long: base.Wrap80("Start an MCP server whose tools list, create, rename, move and delete " +
			"folders and manage favorites. Folders and favorites are also readable as resources."),
		Example: `
finder mcp
finder mcp --addr 0.0.0.0:9000 --path /finder
finder mcp --transport stdio
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch t := mcp.Transport(strings.ToLower(strings.TrimSpace(transport))); t {
			case mcp.TransportHTTP, mcp.TransportStdio:
				r.Transport = t
			default:
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", transport)
			}

			s, err := openSession(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer s.Close()

			r.Controller = s.ctl
			r.Version = version
			r.OnListening = func(a net.Addr) {
				fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s%s\n",
					displayAddr(a), mcp.EndpointPath(r.Path))
			}
			return r.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "Transport, one of 'http' or 'stdio'.")
	cmd.Flags().StringVar(&r.Addr, "addr", mcp.DefaultAddr, "Listen address for the http transport, port 0 picks a free one.")
	cmd.Flags().StringVar(&r.Path, "path", mcp.DefaultPath, "Endpoint path for the http transport.")

	topLevel.AddCommand(cmd)
}

// displayAddr is the address a client should dial; wildcard hosts become
// loopback.
func displayAddr(a net.Addr) string {
	tcp, ok := a.(*net.TCPAddr)
	if !ok {
		return a.String()
	}
	host := "127.0.0.1"
	if tcp.IP != nil && !tcp.IP.IsUnspecified() {
		host = tcp.IP.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(tcp.Port))
}
