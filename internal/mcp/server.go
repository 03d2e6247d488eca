package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	"github.com/ziadkadry99/lucky-universe/internal/slot"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Generator produces a fortune record.
type Generator interface {
	Generate(ctx context.Context, u fortune.UserData) (fortune.Record, error)
}

// Server wraps an MCP server that exposes the fortune tools.
type Server struct {
	fortunes Generator
	slots    *slot.Machine
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(fortunes Generator, slots *slot.Machine) *Server {
	if slots == nil {
		slots = slot.NewMachine(nil)
	}
	s := &Server{
		fortunes: fortunes,
		slots:    slots,
	}

	s.mcp = server.NewMCPServer(
		"lucky",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(generateFortuneTool, s.handleGenerateFortune)
	s.mcp.AddTool(luckyNumbersTool, s.handleLuckyNumbers)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
