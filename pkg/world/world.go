// Package world is the in-process location service the link core consumes:
// it knows which addresses exist, materializes a location (and its
// endpoint) the first time it is needed and tracks which locations are still
// loading.
package world

import (
    "context"
    "errors"
    "fmt"
    "sort"
    "sync"

    "go.uber.org/zap"

    "github.com/mrdav30/Rimgate-sub001/pkg/address"
    "github.com/mrdav30/Rimgate-sub001/pkg/link"
)

var (
    ErrUnknownLocation = errors.New("world: unknown location")
    ErrDuplicate       = errors.New("world: location already defined")
    ErrTornDown        = errors.New("world: torn down")
)

// Location describes a place able to host an endpoint.
type Location struct {
    Address     address.Address
    Name        string
    IrisPresent bool
    Position    link.Position
}

type site struct {
    loc          Location
    materialized bool
    loading      bool
}

// World owns the registry and the link network of one loaded world.
type World struct {
    mu    sync.RWMutex
    sites map[address.Address]*site
    reg   *address.Registry
    net   *link.Network
    down  bool
}

// New loads an empty world. The network is wired to the world for
// provisioning and for the loading predicate.
func New(cfg link.Config, opts ...link.Option) *World {
    w := &World{sites: make(map[address.Address]*site), reg: address.Init()}
    opts = append(opts, link.WithProvisioner(w), link.WithLoading(w.IsLoading))
    w.net = link.NewNetwork(cfg, w.reg, opts...)
    return w
}

func (w *World) Network() *link.Network { return w.net }

func (w *World) Registry() *address.Registry { return w.reg }

// Define makes a location known without materializing it.
func (w *World) Define(loc Location) error {
    if !loc.Address.Valid() { return fmt.Errorf("define %s: %w", loc.Address, ErrUnknownLocation) }
    w.mu.Lock()
    defer w.mu.Unlock()
    if w.down { return fmt.Errorf("define %s: %w", loc.Address, ErrTornDown) }
    if _, ok := w.sites[loc.Address]; ok { return fmt.Errorf("define %s: %w", loc.Address, ErrDuplicate) }
    w.sites[loc.Address] = &site{loc: loc}
    zap.L().Debug("location defined", zap.Stringer("addr", loc.Address), zap.String("name", loc.Name))
    return nil
}

// Location returns the definition at addr.
func (w *World) Location(addr address.Address) (Location, bool) {
    w.mu.RLock(); defer w.mu.RUnlock()
    s, ok := w.sites[addr]
    if !ok { return Location{}, false }
    return s.loc, true
}

// Locations lists every defined location in address order.
func (w *World) Locations() []Location {
    w.mu.RLock()
    out := make([]Location, 0, len(w.sites))
    for _, s := range w.sites { out = append(out, s.loc) }
    w.mu.RUnlock()
    sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
    return out
}

// Materialized reports whether the location at addr currently hosts a live endpoint.
func (w *World) Materialized(addr address.Address) bool {
    w.mu.RLock(); defer w.mu.RUnlock()
    s, ok := w.sites[addr]
    return ok && s.materialized
}

// Materialize instantiates the location at addr and attaches its endpoint.
// Materializing twice returns the same endpoint.
func (w *World) Materialize(addr address.Address) (*link.Endpoint, error) {
    w.mu.Lock()
    if w.down {
        w.mu.Unlock()
        return nil, fmt.Errorf("materialize %s: %w", addr, ErrTornDown)
    }
    s, ok := w.sites[addr]
    if !ok {
        w.mu.Unlock()
        return nil, fmt.Errorf("materialize %s: %w", addr, ErrUnknownLocation)
    }
    first := !s.materialized
    s.materialized = true
    loc := s.loc
    w.mu.Unlock()

    e, err := w.net.Attach(addr, link.EndpointOptions{IrisPresent: loc.IrisPresent, Position: loc.Position})
    if err != nil { return nil, err }
    if first { zap.L().Info("location materialized", zap.Stringer("addr", addr), zap.String("name", loc.Name)) }
    return e, nil
}

// ResolveOrProvision implements link.Provisioner.
func (w *World) ResolveOrProvision(ctx context.Context, addr address.Address) (*link.Endpoint, error) {
    if err := ctx.Err(); err != nil { return nil, err }
    if e, ok := w.net.Endpoint(addr); ok { return e, nil }
    return w.Materialize(addr)
}

// Resolvable reports whether addr names a defined location; used by
// registry cleanup.
func (w *World) Resolvable(addr address.Address) bool {
    w.mu.RLock(); defer w.mu.RUnlock()
    _, ok := w.sites[addr]
    return ok
}

// SetLoading marks the location at addr as being in a long-running load.
func (w *World) SetLoading(addr address.Address, loading bool) {
    w.mu.Lock()
    if s, ok := w.sites[addr]; ok { s.loading = loading }
    w.mu.Unlock()
}

// IsLoading implements link.LoadingFunc.
func (w *World) IsLoading(addr address.Address) bool {
    w.mu.RLock(); defer w.mu.RUnlock()
    s, ok := w.sites[addr]
    return ok && s.loading
}

// Destroy removes the location for good. Its endpoint closes with cascade
// before the address is released.
func (w *World) Destroy(addr address.Address) bool {
    w.mu.Lock()
    _, ok := w.sites[addr]
    delete(w.sites, addr)
    w.mu.Unlock()
    if !ok { return false }
    w.net.Detach(addr, true)
    zap.L().Info("location destroyed", zap.Stringer("addr", addr))
    return true
}

// Unload drops the location's materialized state without cooperating with
// the far side: the peer finds out through destination loss. The location
// stays defined and can be materialized again.
func (w *World) Unload(addr address.Address) bool {
    w.mu.Lock()
    s, ok := w.sites[addr]
    if ok { s.materialized, s.loading = false, false }
    w.mu.Unlock()
    if !ok { return false }
    w.net.Detach(addr, false)
    zap.L().Info("location unloaded", zap.Stringer("addr", addr))
    return true
}

// Cleanup drops registry entries whose location is no longer defined.
func (w *World) Cleanup() []address.Address { return w.net.CleanupAddresses(w.Resolvable) }

// Teardown unloads every materialized location and releases the registry.
// A torn down world refuses Define, Materialize and Restore; load a new
// World instead.
func (w *World) Teardown() {
    w.mu.Lock()
    w.down = true
    for _, s := range w.sites { s.materialized, s.loading = false, false }
    w.mu.Unlock()
    for _, a := range w.net.Addresses() { w.net.Detach(a, true) }
    w.reg.Teardown()
}

// Restore rebuilds the network from st and marks every restored endpoint's
// location as materialized. Locations must already be defined.
func (w *World) Restore(st link.NetworkState) error {
    w.mu.Lock()
    if w.down {
        w.mu.Unlock()
        return fmt.Errorf("restore: %w", ErrTornDown)
    }
    for _, es := range st.Endpoints {
        if _, ok := w.sites[es.Address]; !ok {
            w.mu.Unlock()
            return fmt.Errorf("restore %s: %w", es.Address, ErrUnknownLocation)
        }
    }
    for _, s := range w.sites { s.materialized = false }
    for _, es := range st.Endpoints { w.sites[es.Address].materialized = true }
    w.mu.Unlock()
    return w.net.Restore(st)
}
