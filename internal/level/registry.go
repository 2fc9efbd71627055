package level

import (
	"fmt"
	"sort"
	"sync"
)

// Info contains metadata about a registered level.
type Info struct {
	ID     string
	Name   string
	Bricks int
}

// Factory builds a fresh copy of a level.
type Factory func() *Level

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register adds a level factory to the registry.
// Typically called from init(). Panics on duplicate IDs.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("level: %q already registered", id))
	}
	factories[id] = f
}

// List returns information about all registered levels, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for id, f := range factories {
		lvl := f()
		result = append(result, Info{
			ID:     id,
			Name:   lvl.Name,
			Bricks: lvl.Count(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get builds the level with the given ID.
func Get(id string) (*Level, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("level: unknown level %q", id)
	}
	return f(), nil
}

// Exists checks if a level with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
