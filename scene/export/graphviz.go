// ABOUTME: Renders exported DOT text to SVG or PNG by piping it through the graphviz dot command.
// ABOUTME: RenderCache memoizes renders by content hash so repeated image exports skip graphviz.
package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

var (
	// ErrGraphvizMissing is returned when the dot command is not on PATH.
	ErrGraphvizMissing = errors.New("graphviz dot command not found")

	// ErrUnsupportedFormat is returned for image formats other than svg and png.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// ImageType returns the content type for an image format.
func ImageType(format string) string {
	if format == "png" {
		return "image/png"
	}
	return "image/svg+xml"
}

// RenderFunc turns DOT text into an image.
type RenderFunc func(ctx context.Context, dotText, format string) ([]byte, error)

// GraphvizAvailable reports whether the dot command is installed.
func GraphvizAvailable() bool {
	_, err := exec.LookPath("dot")
	return err == nil
}

// RenderGraphviz renders dotText as svg or png.
func RenderGraphviz(ctx context.Context, dotText, format string) ([]byte, error) {
	if format != "svg" && format != "png" {
		return nil, fmt.Errorf("%w: %q (want svg or png)", ErrUnsupportedFormat, format)
	}
	if !GraphvizAvailable() {
		return nil, fmt.Errorf("%w: install graphviz to export %s", ErrGraphvizMissing, format)
	}

	cmd := exec.CommandContext(ctx, "dot", "-T"+format)
	cmd.Stdin = strings.NewReader(dotText)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("graphviz dot command failed: %w: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// RenderCache wraps a RenderFunc with an in-memory cache keyed by the
// sha256 of the DOT text and the format. Errors are never cached.
type RenderCache struct {
	render  RenderFunc
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewRenderCache returns a cache whose entries expire after ttl.
func NewRenderCache(render RenderFunc, ttl time.Duration) *RenderCache {
	return &RenderCache{render: render, ttl: ttl, entries: make(map[string]cacheEntry)}
}

// Render returns the cached image for dotText, rendering it on a miss.
func (c *RenderCache) Render(ctx context.Context, dotText, format string) ([]byte, error) {
	key := fmt.Sprintf("%x:%s", sha256.Sum256([]byte(dotText)), format)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Since(entry.createdAt) < c.ttl {
		return entry.data, nil
	}

	data, err := c.render(ctx, dotText, format)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c.mu.Lock()
	for k, e := range c.entries {
		if now.Sub(e.createdAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{data: data, createdAt: now}
	c.mu.Unlock()
	return data, nil
}

// Len returns the number of cached renders.
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
