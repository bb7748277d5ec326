package remote

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mark3labs/stepdeck/internal/logger"
)

// Server manages an embedded MCP HTTP server exposing navigation tools.
type Server struct {
	control   Control
	mcpServer *server.MCPServer
	stdServer *http.Server
	port      int
	mu        sync.Mutex
}

// New creates a server for control. It is not started until Start.
func New(control Control) *Server {
	return &Server{control: control}
}

// Start starts the MCP HTTP server on a random loopback port and returns it.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	s.mcpServer = server.NewMCPServer(
		"stepdeck",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find available port: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	))
	s.stdServer = &http.Server{Handler: mux}

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Debug("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.stdServer = nil
	s.mcpServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the MCP endpoint URL.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("slide-status",
			mcp.WithDescription("Report the current step, its files and the navigation flags"),
		),
		s.handleStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("slide-goto",
			mcp.WithDescription("Jump to a step by zero-based index; out-of-range values are clamped"),
			mcp.WithNumber("index", mcp.Required(),
				mcp.Description("Zero-based step index"),
			),
		),
		s.handleGoto,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("slide-next",
			mcp.WithDescription("Advance one step, wrapping only when the deck loops"),
		),
		s.handleNext,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("slide-prev",
			mcp.WithDescription("Go back one step"),
		),
		s.handlePrev,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("slide-select-file",
			mcp.WithDescription("Make a file of the current step the active editor tab"),
			mcp.WithString("filename", mcp.Required(),
				mcp.Description("File name as shown on the tab"),
			),
		),
		s.handleSelectFile,
	)
}
