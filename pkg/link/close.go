package link

import (
    "go.uber.org/zap"

    "github.com/mrdav30/Rimgate-sub001/pkg/address"
    "github.com/mrdav30/Rimgate-sub001/pkg/transit"
)

// Close tears the link down. Both queues are drained by ejecting their
// contents at the endpoint, never discarded. With cascade the peer is closed
// with cascade=false, so mutual closing stops after one hop. Closing an
// inactive endpoint, or one no longer part of the network, does nothing.
func (e *Endpoint) Close(cascade bool) {
    if !e.active || e.detached { return }
    peer := e.Peer()
    // mark inactive first so a re-entrant Close from the peer is a no-op
    e.active = false

    out := e.outgoing.DrainAll()
    in := e.incoming.DrainAll()
    for _, obj := range out {
        e.net.fx.ObjectEjected(e.addr, e.pos, obj, obj.NeedsRedraft())
    }
    for _, obj := range in {
        _, redraft := e.pendingRedraft[obj.ID]
        e.net.fx.ObjectEjected(e.addr, e.pos, obj, redraft)
    }
    prevPeer, prevRole := e.peerAddr, e.role
    e.reset()
    zap.L().Info("link closed", zap.Stringer("addr", e.addr), zap.Stringer("peer", prevPeer), zap.Stringer("role", prevRole),
        zap.Int("ejected", len(out)+len(in)), zap.Bool("cascade", cascade))
    e.net.fx.LinkClosed(e.addr)

    if cascade && peer != nil && peer.active && peer.peerAddr == e.addr {
        peer.Close(false)
    }
}

func (e *Endpoint) reset() {
    e.active = false
    e.role = RoleNone
    e.peerAddr = address.None
    e.pendingRedraft = make(map[transit.ObjectID]struct{})
    e.ticksSinceOpened = 0
    e.ticksSinceIncomingDrained = 0
    e.deliveryThreshold = 0
}
