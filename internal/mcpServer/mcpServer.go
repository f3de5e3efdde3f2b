package mcpServer

import (
	"context"
	"net/http"
	"time"

	"github.com/akolanti/FaqSearch/internal/rag"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "0.1.0"

// Server exposes the retrieval service as an MCP tool so agent hosts
// can call it without going through the REST api.
type Server struct {
	service rag.Service
	topK    int
	server  *mcp.Server
	logger  *logger_i.Logger
}

func NewServer(service rag.Service, topK int) *Server {
	impl := &mcp.Implementation{
		Name:    "faq-search-server",
		Version: Version,
	}

	s := &Server{
		service: service,
		topK:    topK,
		server:  mcp.NewServer(impl, nil),
		logger:  logger_i.NewLogger("MCP Server"),
	}
	s.registerTools()

	return s
}

// Run serves over stdio and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server listening on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()

	s.logger.Info("MCP server listening at", "address", addr)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
