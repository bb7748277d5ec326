package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mark3labs/stepdeck/internal/logger"
	"github.com/mark3labs/stepdeck/internal/slideshow"
)

const endpointFile = "remote.url"

// ErrNoEndpoint means no presenter with remote tools is running for the
// data directory.
var ErrNoEndpoint = errors.New("no running presentation with remote tools")

// WriteEndpoint records url under dataDir so ctl commands can find it.
func WriteEndpoint(dataDir, url string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return os.WriteFile(filepath.Join(dataDir, endpointFile), []byte(url+"\n"), 0644)
}

// ReadEndpoint returns the url recorded by WriteEndpoint.
func ReadEndpoint(dataDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, endpointFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoEndpoint
	}
	if err != nil {
		return "", err
	}
	url := strings.TrimSpace(string(data))
	if url == "" {
		return "", ErrNoEndpoint
	}
	return url, nil
}

// RemoveEndpoint deletes the endpoint file. A missing file is not an error.
func RemoveEndpoint(dataDir string) error {
	err := os.Remove(filepath.Join(dataDir, endpointFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Client calls the navigation tools of a running presenter.
type Client struct {
	c *client.Client
}

// Dial connects to the MCP endpoint at url and performs the handshake.
func Dial(ctx context.Context, url string) (*Client, error) {
	c, err := client.NewStreamableHttpClient(url)
	if err != nil {
		return nil, fmt.Errorf("creating MCP client: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}

	init := mcp.InitializeRequest{}
	init.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	init.Params.ClientInfo = mcp.Implementation{Name: "stepdeck-ctl", Version: "1.0.0"}
	if _, err := c.Initialize(ctx, init); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initializing MCP session: %w", err)
	}
	logger.Debug("remote: connected to %s", url)
	return &Client{c: c}, nil
}

// Close ends the session.
func (c *Client) Close() error {
	return c.c.Close()
}

// Status returns the presenter's current snapshot.
func (c *Client) Status(ctx context.Context) (slideshow.Snapshot, error) {
	return c.call(ctx, "slide-status", nil)
}

// Next advances the presentation.
func (c *Client) Next(ctx context.Context) (slideshow.Snapshot, error) {
	return c.call(ctx, "slide-next", nil)
}

// Prev steps back.
func (c *Client) Prev(ctx context.Context) (slideshow.Snapshot, error) {
	return c.call(ctx, "slide-prev", nil)
}

// JumpTo moves to a zero-based step index.
func (c *Client) JumpTo(ctx context.Context, index int) (slideshow.Snapshot, error) {
	return c.call(ctx, "slide-goto", map[string]any{"index": index})
}

// SelectFile switches the active editor tab.
func (c *Client) SelectFile(ctx context.Context, filename string) (slideshow.Snapshot, error) {
	return c.call(ctx, "slide-select-file", map[string]any{"filename": filename})
}

func (c *Client) call(ctx context.Context, tool string, args map[string]any) (slideshow.Snapshot, error) {
	var snap slideshow.Snapshot

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	if args != nil {
		req.Params.Arguments = args
	}
	res, err := c.c.CallTool(ctx, req)
	if err != nil {
		return snap, fmt.Errorf("%s: %w", tool, err)
	}

	text := resultText(res)
	if res.IsError {
		return snap, fmt.Errorf("%s: %s", tool, text)
	}
	if err := json.Unmarshal([]byte(text), &snap); err != nil {
		return snap, fmt.Errorf("%s: decoding status: %w", tool, err)
	}
	return snap, nil
}

func resultText(res *mcp.CallToolResult) string {
	var parts []string
	for _, content := range res.Content {
		if text, ok := content.(mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}
