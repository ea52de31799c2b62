package area

import "sync"

// MemoryResolver serves definitions registered in memory, keyed by file
// reference. The zero value is ready to use.
type MemoryResolver struct {
	mu    sync.RWMutex
	files map[string][]Definition
}

// NewMemoryResolver creates a resolver serving defs under file.
func NewMemoryResolver(file string, defs ...Definition) *MemoryResolver {
	r := &MemoryResolver{}
	r.Add(file, defs...)
	return r
}

// Add registers definitions under file. Definitions with the same id are
// kept in insertion order.
func (r *MemoryResolver) Add(file string, defs ...Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.files == nil {
		r.files = make(map[string][]Definition)
	}
	r.files[file] = append(r.files[file], defs...)
}

// Lookup implements Resolver.
func (r *MemoryResolver) Lookup(file, id string) ([]Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Definition
	for _, def := range r.files[file] {
		if def.ID == id {
			matches = append(matches, def)
		}
	}
	return matches, nil
}
