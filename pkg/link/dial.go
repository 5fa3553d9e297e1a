package link

import (
    "context"
    "fmt"

    "go.uber.org/zap"

    "github.com/mrdav30/Rimgate-sub001/pkg/address"
)

// Dial links e (as originator) with the endpoint at target (as receiver).
// The target is resolved, or its location provisioned, through the
// Network's Provisioner. On failure nothing changes and an error wrapping
// ErrUserRejection is returned.
func (e *Endpoint) Dial(ctx context.Context, target address.Address) error {
    if e.detached { return fmt.Errorf("dial %s -> %s: %w", e.addr, target, ErrUnknownEndpoint) }
    if e.active { return fmt.Errorf("dial %s -> %s: %w", e.addr, target, ErrAlreadyActive) }
    if target == e.addr { return fmt.Errorf("dial %s -> %s: %w", e.addr, target, ErrSelfDial) }
    if !target.Valid() { return fmt.Errorf("dial %s -> %s: %w", e.addr, target, ErrUnresolvable) }

    peer := e.net.resolve(target)
    if peer == nil && e.net.prov != nil {
        p, err := e.net.prov.ResolveOrProvision(ctx, target)
        if err != nil {
            zap.L().Warn("dial target provisioning failed", zap.Stringer("addr", e.addr), zap.Stringer("target", target), zap.Error(err))
            return fmt.Errorf("dial %s -> %s: %w (%v)", e.addr, target, ErrUnresolvable, err)
        }
        peer = p
    }
    // the provisioner may hand back an endpoint it never attached here
    if peer == nil || peer.net != e.net || e.net.resolve(target) != peer {
        return fmt.Errorf("dial %s -> %s: %w", e.addr, target, ErrUnresolvable)
    }
    if peer.active { return fmt.Errorf("dial %s -> %s: %w", e.addr, target, ErrTargetActive) }
    if e.active { return fmt.Errorf("dial %s -> %s: %w", e.addr, target, ErrAlreadyActive) }

    e.open(RoleOriginator, peer.addr)
    peer.open(RoleReceiver, e.addr)
    zap.L().Info("link opened", zap.Stringer("originator", e.addr), zap.Stringer("receiver", peer.addr))
    e.net.fx.LinkOpened(e.addr, RoleOriginator, peer.addr)
    e.net.fx.LinkOpened(peer.addr, RoleReceiver, e.addr)
    return nil
}

func (e *Endpoint) open(role Role, peer address.Address) {
    e.active = true
    e.role = role
    e.peerAddr = peer
    e.ticksSinceOpened = 0
    e.ticksSinceIncomingDrained = 0
    e.deliveryThreshold = e.net.deliveryThreshold()
    // an endpoint that gets dialed gives up its own scheduled dial
    e.clearScheduledDial()
}

// ScheduleDial arms a dial to target after delay steps. A non-positive delay
// dials immediately. The pending request is cleared when it fires, whether
// or not the dial succeeds.
func (e *Endpoint) ScheduleDial(ctx context.Context, target address.Address, delay int) error {
    if e.detached { return fmt.Errorf("schedule dial %s -> %s: %w", e.addr, target, ErrUnknownEndpoint) }
    if e.active { return fmt.Errorf("schedule dial %s -> %s: %w", e.addr, target, ErrAlreadyActive) }
    if target == e.addr { return fmt.Errorf("schedule dial %s -> %s: %w", e.addr, target, ErrSelfDial) }
    if !target.Valid() { return fmt.Errorf("schedule dial %s -> %s: %w", e.addr, target, ErrUnresolvable) }
    if delay <= 0 {
        e.clearScheduledDial()
        return e.Dial(ctx, target)
    }
    e.queuedOpenAddr = target
    e.queuedOpenDelay = delay
    zap.L().Debug("dial scheduled", zap.Stringer("addr", e.addr), zap.Stringer("target", target), zap.Int("delay", delay))
    return nil
}

// CancelScheduledDial drops a pending scheduled dial, if any.
func (e *Endpoint) CancelScheduledDial() {
    if e.queuedOpenDelay > 0 { zap.L().Debug("scheduled dial cancelled", zap.Stringer("addr", e.addr), zap.Stringer("target", e.queuedOpenAddr)) }
    e.clearScheduledDial()
}

func (e *Endpoint) clearScheduledDial() {
    e.queuedOpenAddr = address.None
    e.queuedOpenDelay = 0
}

// stepScheduledDial counts the pending dial down and fires it at zero.
func (e *Endpoint) stepScheduledDial(ctx context.Context) {
    if e.queuedOpenDelay <= 0 { return }
    e.queuedOpenDelay--
    if e.queuedOpenDelay > 0 { return }
    target := e.queuedOpenAddr
    e.clearScheduledDial()
    if err := e.Dial(ctx, target); err != nil {
        zap.L().Info("scheduled dial rejected", zap.Stringer("addr", e.addr), zap.Stringer("target", target), zap.Error(err))
    }
}
