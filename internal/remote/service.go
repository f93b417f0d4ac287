// Package remote describes the realtime key-path data service and
// mirrors local chat activity into it.
package remote

import (
	"context"
	"strings"
)

// Service is a hierarchical key-path store with live subscriptions.
// Paths are slash-delimited; values are JSON-shaped trees
// (map[string]any, []any, string, float64, bool). A nil value means
// absent.
type Service interface {
	Set(ctx context.Context, path string, value any) error
	Get(ctx context.Context, path string) (any, error)
	// Push stores value under a generated, time-ordered child key of path.
	Push(ctx context.Context, path string, value any) (string, error)
	// Update sets each child of path named in partial.
	Update(ctx context.Context, path string, partial map[string]any) error
	Remove(ctx context.Context, path string) error
	// Subscribe calls fn with the value at path now and after every change
	// at, above or below it, until the returned func is called or ctx ends.
	Subscribe(ctx context.Context, path string, fn func(value any)) (func(), error)
}

// Join builds a path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// related reports whether a change at changed can affect the value at
// watched.
func related(watched, changed []string) bool {
	n := min(len(watched), len(changed))
	for i := range n {
		if watched[i] != changed[i] {
			return false
		}
	}
	return true
}
