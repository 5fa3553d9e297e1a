package link

import (
    "fmt"

    "go.uber.org/zap"

    "github.com/mrdav30/Rimgate-sub001/pkg/address"
    "github.com/mrdav30/Rimgate-sub001/pkg/transit"
)

// Endpoint is one side of a transit link, bound to a world address.
// The peer is held as an address only and resolved through the Network on
// demand, so neither side owns the other.
type Endpoint struct {
    net      *Network
    addr     address.Address
    pos      Position
    detached bool

    active   bool
    role     Role
    peerAddr address.Address

    outgoing transit.Buffer
    incoming transit.Buffer
    // ids that resume commanded behaviour once they materialize here
    pendingRedraft map[transit.ObjectID]struct{}

    irisPresent       bool
    irisActive        bool
    irisTogglePending bool

    ticksSinceOpened          int
    ticksSinceIncomingDrained int
    deliveryThreshold         int

    queuedOpenAddr  address.Address
    queuedOpenDelay int

    externalHolds int
}

func newEndpoint(n *Network, addr address.Address, opts EndpointOptions) *Endpoint {
    return &Endpoint{
        net:            n,
        addr:           addr,
        pos:            opts.Position,
        irisPresent:    opts.IrisPresent,
        pendingRedraft: make(map[transit.ObjectID]struct{}),
    }
}

func (e *Endpoint) Address() address.Address { return e.addr }

func (e *Endpoint) Position() Position { return e.pos }

func (e *Endpoint) Active() bool { return e.active }

func (e *Endpoint) Role() Role { return e.role }

// PeerAddress is the remote side of the current link, or address.None.
func (e *Endpoint) PeerAddress() address.Address { return e.peerAddr }

// Peer resolves the remote endpoint; nil when inactive or when the peer's
// location is gone.
func (e *Endpoint) Peer() *Endpoint {
    if !e.active { return nil }
    return e.net.resolve(e.peerAddr)
}

func (e *Endpoint) State() State {
    switch {
    case e.active:
        return StateActive
    case e.queuedOpenDelay > 0:
        return StatePendingOpen
    default:
        return StateInactive
    }
}

// linkedTo reports whether e is active with other as its peer.
func (e *Endpoint) linkedTo(other *Endpoint) bool {
    return e.active && other != nil && e.peerAddr == other.addr
}

// Send queues obj for departure. Only linked endpoints that are still part
// of the network accept objects.
func (e *Endpoint) Send(obj transit.Object) error {
    if e.detached { return fmt.Errorf("send at %s: %w", e.addr, ErrUnknownEndpoint) }
    if !e.active { return fmt.Errorf("send at %s: %w", e.addr, ErrInactive) }
    if obj.ID == "" { obj.ID = transit.NewObjectID() }
    e.outgoing.Enqueue(obj)
    zap.L().Debug("object queued", zap.Stringer("addr", e.addr), zap.String("obj", string(obj.ID)), zap.Stringer("kind", obj.Kind), zap.Stringer("role", e.role))
    return nil
}

// PushExternalHold suppresses idle auto-close until the matching Pop.
func (e *Endpoint) PushExternalHold() { e.externalHolds++ }

// PopExternalHold releases one hold; the count never drops below zero.
func (e *Endpoint) PopExternalHold() {
    if e.externalHolds > 0 { e.externalHolds-- }
}

func (e *Endpoint) ExternalHolds() int { return e.externalHolds }

// Status is a read-only view for display by the command layer.
type Status struct {
    Address                   address.Address
    State                     State
    Role                      Role
    Peer                      address.Address
    IrisPresent               bool
    IrisActive                bool
    IrisTogglePending         bool
    TicksSinceOpened          int
    TicksSinceIncomingDrained int
    QueuedOpenAddress         address.Address
    QueuedOpenDelay           int
    ExternalHolds             int
    Outgoing                  int
    Incoming                  int
    PendingRedraft            int
}

func (e *Endpoint) Status() Status {
    return Status{
        Address:                   e.addr,
        State:                     e.State(),
        Role:                      e.role,
        Peer:                      e.peerAddr,
        IrisPresent:               e.irisPresent,
        IrisActive:                e.irisActive,
        IrisTogglePending:         e.irisTogglePending,
        TicksSinceOpened:          e.ticksSinceOpened,
        TicksSinceIncomingDrained: e.ticksSinceIncomingDrained,
        QueuedOpenAddress:         e.queuedOpenAddr,
        QueuedOpenDelay:           e.queuedOpenDelay,
        ExternalHolds:             e.externalHolds,
        Outgoing:                  e.outgoing.Len(),
        Incoming:                  e.incoming.Len(),
        PendingRedraft:            len(e.pendingRedraft),
    }
}
