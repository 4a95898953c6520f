// ABOUTME: MCP server setup for the workout log.
// ABOUTME: Wraps the MCP server with the repository and the workout domain services.
package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tmccoy01/healthplus/internal/calendar"
	"github.com/tmccoy01/healthplus/internal/category"
	"github.com/tmccoy01/healthplus/internal/storage"
	"github.com/tmccoy01/healthplus/internal/workout"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	manager   *workout.Manager
	registry  *category.Registry
	cal       calendar.Calendar
	now       func() time.Time
}

// NewServer creates a new MCP server over repo. cal buckets days for the timeline.
func NewServer(repo storage.Repository, cal calendar.Calendar) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "healthplus",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		manager:   workout.NewManager(repo),
		registry:  category.NewRegistry(repo),
		cal:       cal,
		now:       time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
