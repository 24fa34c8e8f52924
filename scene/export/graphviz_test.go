// ABOUTME: Tests for the graphviz render cache and format validation.
// ABOUTME: A counting fake stands in for the dot command.
package export_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/2389-research/tracie/scene/export"
)

type fakeRenderer struct {
	calls atomic.Int64
	err   error
}

func (f *fakeRenderer) render(_ context.Context, dotText, format string) ([]byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(format + ":" + dotText), nil
}

func TestRenderCacheHitsAndKeys(t *testing.T) {
	f := &fakeRenderer{}
	cache := export.NewRenderCache(f.render, time.Minute)
	ctx := context.Background()

	for range 3 {
		got, err := cache.Render(ctx, "digraph a {}", "svg")
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if string(got) != "svg:digraph a {}" {
			t.Errorf("Render = %q", got)
		}
	}
	if n := f.calls.Load(); n != 1 {
		t.Errorf("renderer called %d times, want 1", n)
	}

	if _, err := cache.Render(ctx, "digraph a {}", "png"); err != nil {
		t.Fatalf("Render png: %v", err)
	}
	if _, err := cache.Render(ctx, "digraph b {}", "svg"); err != nil {
		t.Fatalf("Render b: %v", err)
	}
	if n := f.calls.Load(); n != 3 {
		t.Errorf("renderer called %d times, want 3", n)
	}
	if cache.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cache.Len())
	}
}

func TestRenderCacheExpiry(t *testing.T) {
	f := &fakeRenderer{}
	cache := export.NewRenderCache(f.render, time.Nanosecond)
	ctx := context.Background()

	_, _ = cache.Render(ctx, "digraph a {}", "svg")
	time.Sleep(time.Millisecond)
	_, _ = cache.Render(ctx, "digraph a {}", "svg")
	if n := f.calls.Load(); n != 2 {
		t.Errorf("renderer called %d times, want 2", n)
	}
	if cache.Len() != 1 {
		t.Errorf("expired entries kept: Len() = %d", cache.Len())
	}
}

func TestRenderCacheDoesNotCacheErrors(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeRenderer{err: boom}
	cache := export.NewRenderCache(f.render, time.Minute)

	for range 2 {
		if _, err := cache.Render(context.Background(), "digraph a {}", "svg"); !errors.Is(err, boom) {
			t.Errorf("err = %v, want boom", err)
		}
	}
	if f.calls.Load() != 2 || cache.Len() != 0 {
		t.Errorf("calls=%d len=%d, want 2 and 0", f.calls.Load(), cache.Len())
	}
}

func TestRenderGraphvizRejectsFormat(t *testing.T) {
	if _, err := export.RenderGraphviz(context.Background(), "digraph a {}", "gif"); !errors.Is(err, export.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestImageType(t *testing.T) {
	if export.ImageType("png") != "image/png" || export.ImageType("svg") != "image/svg+xml" {
		t.Error("unexpected content types")
	}
}
