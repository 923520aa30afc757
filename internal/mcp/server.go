package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/koopa0/wbserver/internal/restcountries"
	"github.com/koopa0/wbserver/internal/worldbank"
)

// Server wraps the MCP SDK server and the wbserver backends.
type Server struct {
	mcpServer *mcp.Server
	logger    *slog.Logger
	name      string
	version   string

	dataFile  string
	countries *restcountries.Client
	worldBank *worldbank.Client
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger

	// DataFile is the local indicator snapshot path. It is read fresh on
	// every resource access, never cached.
	DataFile string

	Countries *restcountries.Client
	WorldBank *worldbank.Client
}

// NewServer creates the MCP server and registers every resource and tool.
// Registration is the complete routing table: an operation not registered
// here does not exist.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.DataFile == "" {
		return nil, fmt.Errorf("data file path is required")
	}
	if cfg.Countries == nil {
		return nil, fmt.Errorf("REST Countries client is required")
	}
	if cfg.WorldBank == nil {
		return nil, fmt.Errorf("World Bank client is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		logger:    logger,
		name:      cfg.Name,
		version:   cfg.Version,
		dataFile:  cfg.DataFile,
		countries: cfg.Countries,
		worldBank: cfg.WorldBank,
	}

	s.registerResources()
	if err := s.registerCountryTools(); err != nil {
		return nil, fmt.Errorf("registering country tools: %w", err)
	}
	if err := s.registerIndicatorTools(); err != nil {
		return nil, fmt.Errorf("registering indicator tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport. This is a blocking
// call that handles all MCP protocol communication.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// HTTPHandler returns the streamable HTTP handler for the server. Session
// handling is the SDK's; one Server serves every session.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}
