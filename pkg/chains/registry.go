package chains

import (
	"fmt"
	"slices"
	"sync"
)

// ChainInfo is the display metadata of a chain
type ChainInfo struct {
	Name   string
	Symbol string
}

// Registry resolves display metadata for chains. It always knows the built-in
// chains and can be extended with names for chains outside that set.
type Registry struct {
	extra map[uint32]ChainInfo
	mu    sync.RWMutex
}

var (
	globalRegistry     *Registry
	globalRegistryOnce sync.Once
)

// NewRegistry creates a registry holding only the built-in chains
func NewRegistry() *Registry {
	return &Registry{
		extra: make(map[uint32]ChainInfo),
	}
}

// DefaultRegistry returns the process-wide registry, creating it on first use
func DefaultRegistry() *Registry {
	globalRegistryOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// ResetDefaultRegistry drops the process-wide registry (useful for testing)
func ResetDefaultRegistry() {
	globalRegistry = nil
	globalRegistryOnce = sync.Once{}
}

// Register adds metadata for a chain outside the built-in set.
// Registering the same id again replaces the previous entry (idempotent).
func (r *Registry) Register(id uint32, info ChainInfo) error {
	if Chain(id).IsKnown() {
		return fmt.Errorf("chain %d is built in and cannot be overridden", id)
	}
	if info.Name == "" {
		return fmt.Errorf("chain %d: name is required", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.extra[id] = info
	return nil
}

// Get returns the metadata for a chain id
func (r *Registry) Get(id uint32) (ChainInfo, error) {
	c := Chain(id)
	if c.IsKnown() {
		return ChainInfo{Name: c.String(), Symbol: c.Token().String()}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	info, exists := r.extra[id]
	if !exists {
		return ChainInfo{}, fmt.Errorf("no metadata registered for chain: %d", id)
	}
	return info, nil
}

// Describe returns the metadata for a chain, falling back to the generic
// "Other Network" description when nothing is registered
func (r *Registry) Describe(c Chain) ChainInfo {
	if info, err := r.Get(c.ID()); err == nil {
		return info
	}
	return ChainInfo{Name: c.String(), Symbol: TokenOther.String()}
}

// IsSupported checks if metadata is available for a chain id
func (r *Registry) IsSupported(id uint32) bool {
	_, err := r.Get(id)
	return err == nil
}

// SupportedChainIDs returns all chain ids with metadata, in ascending order
func (r *Registry) SupportedChainIDs() []uint32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint32, 0, len(knownChains)+len(r.extra))
	for c := range knownChains {
		ids = append(ids, c.ID())
	}
	for id := range r.extra {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Unregister removes metadata added with Register. Built-in chains are kept.
func (r *Registry) Unregister(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.extra, id)
}
