// Package assets loads device models and screen images for a showcase from
// local files or http(s) URLs.
package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"device-showcase/scene"
	"device-showcase/showcase"
)

// maxImageBytes bounds remote image downloads.
const maxImageBytes = 64 << 20

// Loader implements showcase.AssetLoader.
type Loader struct {
	// Client fetches http(s) locators. Nil uses a client with a 30s timeout.
	Client *http.Client
	Logger *slog.Logger
	// MaxTextureSize bounds decoded images; 0 means scene.MaxTextureSize.
	MaxTextureSize int
	// Placeholder, when set, makes LoadModel return a built-in device of the
	// given type instead of reading a file.
	Placeholder string
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// LoadModel reads a glTF/GLB model.
func (l *Loader) LoadModel(ctx context.Context, path string) (*scene.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, &showcase.AssetError{Kind: showcase.AssetModel, Locator: path, Err: err}
	}
	if l.Placeholder != "" {
		return PlaceholderDevice(l.Placeholder), nil
	}
	root, err := scene.LoadGLTF(path, l.logger())
	if err != nil {
		return nil, &showcase.AssetError{Kind: showcase.AssetModel, Locator: path, Err: err}
	}
	l.logger().Debug("model loaded", "path", path, "nodes", countNodes(root))
	return root, nil
}

// LoadTexture reads and decodes a PNG, JPEG, WebP or TGA image from a file
// path, a file:// URL or an http(s) URL.
func (l *Loader) LoadTexture(ctx context.Context, locator string) (*scene.Texture, error) {
	tex, err := l.loadTexture(ctx, locator)
	if err != nil {
		return nil, &showcase.AssetError{Kind: showcase.AssetTexture, Locator: locator, Err: err}
	}
	l.logger().Debug("texture loaded", "locator", locator, "width", tex.Width, "height", tex.Height)
	return tex, nil
}

func (l *Loader) loadTexture(ctx context.Context, locator string) (*scene.Texture, error) {
	r, err := l.open(ctx, locator)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return scene.DecodeTexture(locator, r, l.MaxTextureSize)
}

func (l *Loader) open(ctx context.Context, locator string) (io.ReadCloser, error) {
	if locator == "" {
		return nil, fmt.Errorf("empty locator")
	}
	u, err := url.Parse(locator)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path, including Windows drive letters.
		return os.Open(locator)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return os.Open(u.Path)
	case "http", "https":
		return l.fetch(ctx, u.String())
	}
	return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
}

func (l *Loader) fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = defaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}
	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, maxImageBytes), resp.Body}, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func countNodes(root *scene.Node) int {
	n := 0
	root.Traverse(func(*scene.Node) { n++ })
	return n
}
