package mcp

import (
	"context"

	"demandcast/internal/config"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server holds the state for the MCP server.
type Server struct {
	cfg     *config.AppConfig
	store   *DatasetStore
	version string
}

// NewServer creates a new MCP server.
func NewServer(cfg *config.AppConfig, version string) *Server {
	if cfg == nil {
		cfg = &config.AppConfig{DataPath: "."}
	}
	return &Server{cfg: cfg, store: NewDatasetStore(), version: version}
}

// Store exposes the dataset cache.
func (s *Server) Store() *DatasetStore {
	return s.store
}

// Build creates the protocol server with every tool registered.
func (s *Server) Build() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "demandcast", Version: s.version}, nil)
	s.registerTools(server)
	return server
}

// Start serves MCP over stdio until ctx is cancelled or stdin closes.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Bool("mermaid", s.cfg.EnableMermaidCharts).Msg("MCP Server starting Stdio loop")
	if err := s.Build().Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Error().Err(err).Msg("MCP Server stopped")
		return err
	}
	return nil
}
