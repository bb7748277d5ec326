package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
)

// statusResult renders the current snapshot as the tool result.
func (s *Server) statusResult() (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(s.control.Status(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.statusResult()
}

func (s *Server) handleGoto(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}

	raw, ok := args["index"]
	if !ok {
		return mcp.NewToolResultError("missing 'index' parameter"), nil
	}
	// JSON numbers arrive as float64
	f, ok := raw.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return mcp.NewToolResultError("'index' must be an integer"), nil
	}

	// int conversion of an out-of-range float is implementation-defined
	f = math.Max(math.MinInt32, math.Min(f, math.MaxInt32))
	s.control.JumpTo(int(f))
	return s.statusResult()
}

func (s *Server) handleNext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.control.Next()
	return s.statusResult()
}

func (s *Server) handlePrev(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.control.Prev()
	return s.statusResult()
}

func (s *Server) handleSelectFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}

	filename, ok := args["filename"].(string)
	if !ok || filename == "" {
		return mcp.NewToolResultError("missing or empty 'filename' parameter"), nil
	}

	status := s.control.Status()
	if !slices.Contains(status.Files, filename) {
		return mcp.NewToolResultError(fmt.Sprintf("step %d has no file %q (files: %v)", status.Index, filename, status.Files)), nil
	}

	s.control.SelectFile(filename)
	return s.statusResult()
}
