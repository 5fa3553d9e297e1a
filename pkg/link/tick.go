package link

import (
    "context"

    "go.uber.org/zap"
)

// step runs one discrete update of e.
func (e *Endpoint) step(ctx context.Context) {
    e.stepScheduledDial(ctx)
    if !e.active { return }

    e.ticksSinceOpened++
    e.ticksSinceIncomingDrained++

    e.stepInstability()
    e.stepForward()
    e.stepDeliver()
    e.stepIdle()
}

// stepInstability fires cosmetic pulses early in the link's life while the
// iris is open. Transported objects are never touched.
func (e *Endpoint) stepInstability() {
    cfg := e.net.cfg
    if e.irisActive || e.ticksSinceOpened > cfg.InstabilityWindow { return }
    if cfg.InstabilityChance <= 0 || e.net.rng.Float64() >= cfg.InstabilityChance { return }
    r := cfg.InstabilityRadius
    at := e.pos
    if r > 0 {
        at.X += e.net.rng.Intn(2*r+1) - r
        at.Z += e.net.rng.Intn(2*r+1) - r
    }
    e.net.fx.InstabilityPulse(e.addr, at)
}

// stepForward moves the outgoing queue to the peer. A receiver must never
// originate transit, so whatever sits in its outgoing queue is destroyed.
// When the peer cannot be resolved the queue stays put until close drains it.
func (e *Endpoint) stepForward() {
    if e.outgoing.IsEmpty() { return }
    if e.role == RoleReceiver {
        for _, obj := range e.outgoing.DrainAll() {
            zap.L().Warn("protocol violation: object in receiver outgoing queue destroyed",
                zap.Stringer("addr", e.addr), zap.String("obj", string(obj.ID)))
            e.net.fx.ObjectDestroyed(e.addr, obj, DestroyProtocolViolation)
        }
        return
    }
    peer := e.Peer()
    if peer == nil || !peer.linkedTo(e) { return }
    objs := e.outgoing.DrainAll()
    for _, obj := range objs {
        if obj.NeedsRedraft() { peer.pendingRedraft[obj.ID] = struct{}{} }
    }
    peer.incoming.AppendAll(objs)
    zap.L().Debug("objects forwarded", zap.Stringer("from", e.addr), zap.Stringer("to", peer.addr), zap.Int("count", len(objs)))
}

// stepDeliver releases at most one incoming object per step once the
// randomized delivery delay has elapsed.
func (e *Endpoint) stepDeliver() {
    if e.incoming.IsEmpty() || e.ticksSinceIncomingDrained <= e.deliveryThreshold { return }
    obj, _ := e.incoming.DequeueFront()
    e.ticksSinceIncomingDrained = 0
    e.deliveryThreshold = e.net.deliveryThreshold()
    _, redraft := e.pendingRedraft[obj.ID]
    delete(e.pendingRedraft, obj.ID)
    if e.irisActive {
        zap.L().Debug("object blocked by iris", zap.Stringer("addr", e.addr), zap.String("obj", string(obj.ID)))
        e.net.fx.ObjectDestroyed(e.addr, obj, DestroyBlocked)
        return
    }
    zap.L().Debug("object materialized", zap.Stringer("addr", e.addr), zap.String("obj", string(obj.ID)), zap.Bool("commanded", redraft))
    e.net.fx.ObjectMaterialized(e.addr, e.pos, obj, redraft)
}

// stepIdle closes links that have gone quiet or lost their destination.
func (e *Endpoint) stepIdle() {
    peer := e.Peer()
    if e.role == RoleReceiver && e.externalHolds == 0 &&
        e.ticksSinceIncomingDrained > e.net.cfg.IdleCloseTicks && !e.net.peerLoading(e.peerAddr) {
        zap.L().Info("link idle, closing", zap.Stringer("addr", e.addr), zap.Stringer("peer", e.peerAddr), zap.Int("idle_ticks", e.ticksSinceIncomingDrained))
        e.Close(true)
        return
    }
    if peer == nil {
        // destination gone: finish delivering what already arrived, then close
        if e.incoming.IsEmpty() {
            zap.L().Info("link destination lost, closing", zap.Stringer("addr", e.addr), zap.Stringer("peer", e.peerAddr))
            e.Close(false)
        }
        return
    }
    if !peer.linkedTo(e) {
        // the peer closed without cascading; follow it
        zap.L().Info("peer no longer linked, closing", zap.Stringer("addr", e.addr), zap.Stringer("peer", e.peerAddr))
        e.Close(false)
    }
}
