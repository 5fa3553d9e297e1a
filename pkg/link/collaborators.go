package link

import (
    "context"

    "github.com/mrdav30/Rimgate-sub001/pkg/address"
    "github.com/mrdav30/Rimgate-sub001/pkg/transit"
)

// Provisioner resolves the endpoint hosted at an address, materializing its
// location first when needed. It must be idempotent for addresses that are
// already provisioned. Any error is reported to the dialer as ErrUnresolvable.
type Provisioner interface {
    ResolveOrProvision(ctx context.Context, addr address.Address) (*Endpoint, error)
}

// LoadingFunc reports whether the location at addr is in the middle of a
// long-running load; a receiver whose peer is loading does not idle-close.
type LoadingFunc func(addr address.Address) bool

// Effects receives fire-and-forget notifications. Implementations must not
// call back into the Network.
type Effects interface {
    LinkOpened(at address.Address, role Role, peer address.Address)
    LinkClosed(at address.Address)
    InstabilityPulse(at address.Address, pos Position)
    ObjectMaterialized(at address.Address, pos Position, obj transit.Object, commanded bool)
    ObjectEjected(at address.Address, pos Position, obj transit.Object, commanded bool)
    ObjectDestroyed(at address.Address, obj transit.Object, reason DestroyReason)
}

type nopEffects struct{}

func (nopEffects) LinkOpened(address.Address, Role, address.Address)                    {}
func (nopEffects) LinkClosed(address.Address)                                           {}
func (nopEffects) InstabilityPulse(address.Address, Position)                           {}
func (nopEffects) ObjectMaterialized(address.Address, Position, transit.Object, bool)   {}
func (nopEffects) ObjectEjected(address.Address, Position, transit.Object, bool)        {}
func (nopEffects) ObjectDestroyed(address.Address, transit.Object, DestroyReason)       {}
