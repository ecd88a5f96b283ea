package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
)

// Descriptor is the registered contract of one flow.
type Descriptor struct {
	Name   string             `json:"name"`
	Input  *jsonschema.Schema `json:"input"`
	Output *jsonschema.Schema `json:"output"`
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Descriptor{}
)

// Register installs or replaces the descriptor under name.
func Register(name string, d Descriptor) error {
	name = normalizeName(name)
	if name == "" {
		return fmt.Errorf("schema name is required for registration")
	}
	if d.Input == nil || d.Output == nil {
		return fmt.Errorf("schema %q: input and output schemas are required", name)
	}
	d.Name = name

	registryMu.Lock()
	registry[name] = d
	registryMu.Unlock()
	return nil
}

// Resolve returns the descriptor registered under name.
func Resolve(name string) (Descriptor, error) {
	name = normalizeName(name)
	if name == "" {
		return Descriptor{}, fmt.Errorf("schema name is required for lookup")
	}
	registryMu.RLock()
	d, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown schema %q", name)
	}
	return d, nil
}

// Names returns every registered name, sorted.
func Names() []string {
	registryMu.RLock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	registryMu.RUnlock()
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
