package preprocess

import (
	"fmt"
	"sync"

	"github.com/rubiojr/sid/hash"
)

// Registry records every literal seen alongside its hash and reports a
// collision when two different literals map to the same value. Install
// one on a Preprocessor to opt in; sharing a single Registry across
// the Preprocessors of a parallel run makes the check project-wide.
//
// Safe for concurrent use.
type Registry struct {
	mu   sync.Mutex
	seen map[uint32]string
}

// NewRegistry creates an empty collision registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[uint32]string)}
}

// record notes that literal hashed to h. Returns ErrHashCollision
// (wrapped) if a different literal already claimed h.
func (r *Registry) record(h uint32, literal []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.seen[h]
	if ok && prev != string(literal) {
		return fmt.Errorf("%w: %s maps to both %q and %q",
			ErrHashCollision, hash.Format(h), prev, literal)
	}
	r.seen[h] = string(literal)
	return nil
}

// Len returns the number of distinct hashes recorded.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
