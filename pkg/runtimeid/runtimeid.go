// Package runtimeid identifies the runtimes a Handle or Callable can belong
// to (spec.md §6.4): a small well-known ID space plus an optional YAML
// overlay a deployment can use to register additional foreign runtimes by
// name without a code change.
package runtimeid

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ID identifies one runtime. The zero value, Host, is reserved for this
// process's own (Go) runtime.
type ID uint64

// Host is the well-known ID for the runtime this CDTS engine itself runs
// in, as opposed to any foreign runtime a Handle or Callable might
// originate from. Resolves Open Question #3 (spec.md §9): "is this handle
// local" is answered by comparing RuntimeID to Host, not by a separate
// policy flag, so the comparison is always available even before a
// Registry is populated.
const Host ID = 0

var wellKnown = map[ID]string{
	Host: "host",
}

// Registry maps runtime IDs to human-readable names, seeded with the
// well-known set and optionally extended from a YAML overlay file.
type Registry struct {
	mu    sync.RWMutex
	names map[ID]string
}

// NewRegistry returns a Registry seeded with the well-known runtime IDs.
func NewRegistry() *Registry {
	names := make(map[ID]string, len(wellKnown))
	for id, name := range wellKnown {
		names[id] = name
	}
	return &Registry{names: names}
}

// overlayFile is the YAML shape a registry overlay file is parsed as:
//
//	runtimes:
//	  100: jvm
//	  200: python311
type overlayFile struct {
	Runtimes map[ID]string `yaml:"runtimes"`
}

// LoadOverlay reads path as YAML and registers every entry into r,
// overwriting any existing name for a given ID but never removing the
// well-known entries.
func (r *Registry) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("runtimeid: read overlay %s: %w", path, err)
	}
	var f overlayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("runtimeid: parse overlay %s: %w", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, name := range f.Runtimes {
		r.names[id] = name
	}
	return nil
}

// Register adds or renames a single runtime ID.
func (r *Registry) Register(id ID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[id] = name
}

// Name returns the registered name for id, or a placeholder if id is
// unregistered.
func (r *Registry) Name(id ID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.names[id]; ok {
		return name
	}
	return fmt.Sprintf("runtime(%d)", id)
}

// IsLocal reports whether id is Host: the comparison described on Host,
// under a name callers can use instead of comparing against Host directly
// (spec.md §9 Open Question on runtime_id == HOST_RUNTIME_ID).
func IsLocal(id ID) bool {
	return id == Host
}
