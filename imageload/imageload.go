// Package imageload resolves image sources referenced by layout trees.
// It handles data URIs, http(s) URLs and local file paths, and sniffs the
// decoded dimensions so renderers can lay images out without decoding the
// full pixel data themselves.
package imageload

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lvillar/doclayout"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	defaultMaxBytes    = 20 << 20
	defaultHTTPTimeout = 30 * time.Second
)

// Loader fetches and decodes image sources. It implements
// doclayout.ImageLoader.
type Loader struct {
	client   *http.Client
	maxBytes int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the HTTP client used for remote sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithMaxBytes bounds the size of a fetched image.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// New returns a Loader with a timeout-bounded HTTP client.
func New(opts ...Option) *Loader {
	l := &Loader{
		client:   &http.Client{Timeout: defaultHTTPTimeout},
		maxBytes: defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves src into decoded image bytes plus format and dimensions.
func (l *Loader) Load(ctx context.Context, src string) (doclayout.ImageData, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return l.fromDataURI(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fromURL(ctx, src)
	default:
		return l.fromFile(src)
	}
}

func (l *Loader) fromDataURI(src string) (doclayout.ImageData, error) {
	comma := strings.IndexByte(src, ',')
	if comma < 0 {
		return doclayout.ImageData{}, fmt.Errorf("imageload: malformed data URI")
	}
	header, payload := src[len("data:"):comma], src[comma+1:]
	if !strings.HasSuffix(header, ";base64") {
		return doclayout.ImageData{}, fmt.Errorf("imageload: data URI is not base64 encoded")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return doclayout.ImageData{}, fmt.Errorf("imageload: decoding data URI: %w", err)
	}
	if int64(len(raw)) > l.maxBytes {
		return doclayout.ImageData{}, fmt.Errorf("imageload: data URI exceeds %d bytes", l.maxBytes)
	}
	return describe(raw)
}

func (l *Loader) fromURL(ctx context.Context, src string) (doclayout.ImageData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return doclayout.ImageData{}, fmt.Errorf("imageload: building request for %q: %w", src, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return doclayout.ImageData{}, fmt.Errorf("imageload: fetching %q: %w", src, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return doclayout.ImageData{}, fmt.Errorf("imageload: fetching %q: status %s", src, resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return doclayout.ImageData{}, fmt.Errorf("imageload: reading %q: %w", src, err)
	}
	if int64(len(raw)) > l.maxBytes {
		return doclayout.ImageData{}, fmt.Errorf("imageload: %q exceeds %d bytes", src, l.maxBytes)
	}
	return describe(raw)
}

func (l *Loader) fromFile(src string) (doclayout.ImageData, error) {
	info, err := os.Stat(src)
	if err != nil {
		return doclayout.ImageData{}, fmt.Errorf("imageload: opening %q: %w", src, err)
	}
	if info.Size() > l.maxBytes {
		return doclayout.ImageData{}, fmt.Errorf("imageload: %q exceeds %d bytes", src, l.maxBytes)
	}
	raw, err := os.ReadFile(src)
	if err != nil {
		return doclayout.ImageData{}, fmt.Errorf("imageload: reading %q: %w", src, err)
	}
	return describe(raw)
}

// describe sniffs format and dimensions from the encoded bytes without a
// full decode.
func describe(raw []byte) (doclayout.ImageData, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return doclayout.ImageData{}, fmt.Errorf("imageload: decoding image: %w", err)
	}
	return doclayout.ImageData{
		Bytes:  raw,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
