package address

import (
    "sort"
    "sync"

    "go.uber.org/zap"
)

// Registry is the set of addresses currently backed by a live endpoint.
// It is created per world with Init and released with Teardown; it is safe
// for concurrent use.
type Registry struct {
    mu    sync.RWMutex
    addrs map[Address]struct{}
    live  bool
}

// Init returns an empty registry for a freshly loaded world.
func Init() *Registry {
    zap.L().Debug("address registry init")
    return &Registry{addrs: make(map[Address]struct{}), live: true}
}

// Teardown drops every address. Further Add calls are ignored until the
// registry is replaced by a new Init.
func (r *Registry) Teardown() {
    r.mu.Lock()
    n := len(r.addrs)
    r.addrs = make(map[Address]struct{})
    r.live = false
    r.mu.Unlock()
    zap.L().Debug("address registry teardown", zap.Int("dropped", n))
}

// Add inserts addr. Inserting an existing or invalid address is a no-op.
func (r *Registry) Add(addr Address) {
    if !addr.Valid() { return }
    r.mu.Lock()
    defer r.mu.Unlock()
    if !r.live { return }
    if _, ok := r.addrs[addr]; ok { return }
    r.addrs[addr] = struct{}{}
    zap.L().Debug("address added", zap.Stringer("addr", addr))
}

// Remove deletes addr if present.
func (r *Registry) Remove(addr Address) {
    r.mu.Lock()
    _, ok := r.addrs[addr]
    delete(r.addrs, addr)
    r.mu.Unlock()
    if ok { zap.L().Debug("address removed", zap.Stringer("addr", addr)) }
}

// Contains reports whether addr is registered.
func (r *Registry) Contains(addr Address) bool {
    r.mu.RLock(); defer r.mu.RUnlock()
    _, ok := r.addrs[addr]
    return ok
}

// Len returns the number of registered addresses.
func (r *Registry) Len() int {
    r.mu.RLock(); defer r.mu.RUnlock()
    return len(r.addrs)
}

// Cleanup drops every address for which resolvable returns false and returns
// the removed addresses in ascending order. The predicate is called without
// the registry lock held.
func (r *Registry) Cleanup(resolvable func(Address) bool) []Address {
    if resolvable == nil { return nil }
    var gone []Address
    for _, a := range r.List(None) {
        if !resolvable(a) { gone = append(gone, a) }
    }
    for _, a := range gone { r.Remove(a) }
    if len(gone) > 0 { zap.L().Info("address cleanup", zap.Int("removed", len(gone))) }
    return gone
}

// List returns a sorted snapshot of registered addresses, leaving out
// excluding (pass None to list everything).
func (r *Registry) List(excluding Address) []Address {
    r.mu.RLock()
    out := make([]Address, 0, len(r.addrs))
    for a := range r.addrs {
        if a == excluding { continue }
        out = append(out, a)
    }
    r.mu.RUnlock()
    sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
    return out
}
