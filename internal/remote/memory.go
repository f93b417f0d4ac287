package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/matheus3301/modernchat/internal/bus"
)

// ErrInvalidPath is returned for an empty path where a child is required.
var ErrInvalidPath = errors.New("remote: invalid path")

// change is the payload of remote.changed events.
type change struct {
	service *Memory
	path    []string
}

// Memory is an in-process Service. Change notifications travel over a
// bus so subscribers run on their own goroutines.
type Memory struct {
	mu   sync.RWMutex
	root map[string]any
	bus  *bus.Bus
}

// NewMemory creates an empty tree publishing changes on b. A nil b gets a
// private bus.
func NewMemory(b *bus.Bus) *Memory {
	if b == nil {
		b = bus.New()
	}
	return &Memory{root: map[string]any{}, bus: b}
}

func (m *Memory) Set(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	parts := splitPath(path)
	if len(parts) == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	m.mu.Lock()
	if v == nil {
		removeAt(m.root, parts)
	} else {
		setAt(m.root, parts, v)
	}
	m.mu.Unlock()

	m.notify(parts)
	return nil
}

func (m *Memory) Get(ctx context.Context, path string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(getAt(m.root, splitPath(path))), nil
}

func (m *Memory) Push(ctx context.Context, path string, value any) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("push key: %w", err)
	}
	key := id.String()
	if err := m.Set(ctx, Join(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}

func (m *Memory) Update(ctx context.Context, path string, partial map[string]any) error {
	for k, v := range partial {
		if err := m.Set(ctx, Join(path, k), v); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) Remove(ctx context.Context, path string) error {
	return m.Set(ctx, path, nil)
}

func (m *Memory) Subscribe(ctx context.Context, path string, fn func(value any)) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	watched := splitPath(path)
	ch, unsub := m.bus.Subscribe(bus.KindRemoteChanged, 64)
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		defer unsub()
		if v, err := m.Get(ctx, path); err == nil {
			fn(v)
		}
		for {
			select {
			case evt := <-ch:
				c, ok := evt.Payload.(change)
				if !ok || c.service != m || !related(watched, c.path) {
					continue
				}
				v, err := m.Get(ctx, path)
				if err != nil {
					return
				}
				fn(v)
			case <-ctx.Done():
				return
			}
		}
	}()
	return cancel, nil
}

func (m *Memory) notify(parts []string) {
	m.bus.Publish(bus.NewEvent(bus.KindRemoteChanged, change{service: m, path: parts}))
}

func setAt(node map[string]any, parts []string, v any) {
	for _, p := range parts[:len(parts)-1] {
		child, ok := node[p].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[p] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = v
}

func removeAt(node map[string]any, parts []string) {
	for _, p := range parts[:len(parts)-1] {
		child, ok := node[p].(map[string]any)
		if !ok {
			return
		}
		node = child
	}
	delete(node, parts[len(parts)-1])
}

func getAt(node map[string]any, parts []string) any {
	var cur any = node
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		if cur, ok = m[p]; !ok {
			return nil
		}
	}
	if m, ok := cur.(map[string]any); ok && len(m) == 0 {
		return nil
	}
	return cur
}

// normalize converts v to its JSON tree form.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, c := range t {
			out[k] = clone(c)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, c := range t {
			out[i] = clone(c)
		}
		return out
	default:
		return t
	}
}
