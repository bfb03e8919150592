package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/finder/pkg/finder"
	"tableflip.dev/finder/pkg/logging"
)

// Transport selects how clients reach the server.
type Transport string

const (
	TransportHTTP  Transport = "http"
	TransportStdio Transport = "stdio"
)

const (
	DefaultAddr = "127.0.0.1:8080"
	DefaultPath = "/mcp"

	shutdownGrace = 5 * time.Second
)

var logger = logging.For("mcp")

// Runner serves the folder tree of one controller over MCP.
type Runner struct {
	Controller *finder.Controller
	Name       string
	Version    string
	Transport  Transport

	// Addr and Path locate the HTTP endpoint.
	Addr string
	Path string
	// OnListening, when set, is called with the bound HTTP address.
	OnListening func(net.Addr)
}

// Do serves until ctx is cancelled (http) or the client hangs up (stdio).
func (r Runner) Do(ctx context.Context) error {
	if r.Controller == nil {
		return errNoController
	}
	srv := r.newServer()

	switch r.Transport {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		logger.Debug("serving over stdio")
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("mcp: unknown transport %q", r.Transport)
	}
}

func (r Runner) newServer() *server.MCPServer {
	name, version := r.Name, r.Version
	if name == "" {
		name = "finder"
	}
	if version == "" {
		version = "dev"
	}
	srv := server.NewMCPServer(name+" MCP", version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Browse, create, rename, move and delete folders and manage favorites."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	svc := NewService(r.Controller)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

// EndpointPath turns p into an absolute URL path, DefaultPath when blank.
func EndpointPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	addr := r.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	path := EndpointPath(r.Path)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	logger.WithField("addr", ln.Addr().String()).WithField("path", path).Info("serving over http")
	if r.OnListening != nil {
		r.OnListening(ln.Addr())
	}

	mux := http.NewServeMux()
	mux.Handle(path, server.NewStreamableHTTPServer(srv))
	hs := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := hs.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return hs.Shutdown(sctx)
	})
	return g.Wait()
}
