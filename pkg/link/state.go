package link

import (
    "fmt"
    "sort"

    "go.uber.org/zap"

    "github.com/mrdav30/Rimgate-sub001/pkg/address"
    "github.com/mrdav30/Rimgate-sub001/pkg/transit"
)

// EndpointState is the serializable form of an Endpoint. The peer is kept
// as an address and re-resolved after restore.
type EndpointState struct {
    Address                   address.Address    `json:"address"`
    Position                  Position           `json:"position"`
    Active                    bool               `json:"active"`
    Role                      Role               `json:"role"`
    Peer                      address.Address    `json:"peer"`
    Outgoing                  []transit.Object   `json:"outgoing,omitempty"`
    Incoming                  []transit.Object   `json:"incoming,omitempty"`
    PendingRedraft            []transit.ObjectID `json:"pending_redraft,omitempty"`
    IrisPresent               bool               `json:"iris_present"`
    IrisActive                bool               `json:"iris_active"`
    IrisTogglePending         bool               `json:"iris_toggle_pending"`
    TicksSinceOpened          int                `json:"ticks_since_opened"`
    TicksSinceIncomingDrained int                `json:"ticks_since_incoming_drained"`
    DeliveryThreshold         int                `json:"delivery_threshold"`
    QueuedOpenAddress         address.Address    `json:"queued_open_address"`
    QueuedOpenDelay           int                `json:"queued_open_delay"`
    ExternalHoldCount         int                `json:"external_hold_count"`
}

// NetworkState is the serializable form of a whole Network.
type NetworkState struct {
    Tick      uint64            `json:"tick"`
    Addresses []address.Address `json:"addresses"`
    Endpoints []EndpointState   `json:"endpoints"`
}

// Snapshot captures e.
func (e *Endpoint) Snapshot() EndpointState {
    st := EndpointState{
        Address:                   e.addr,
        Position:                  e.pos,
        Active:                    e.active,
        Role:                      e.role,
        Peer:                      e.peerAddr,
        Outgoing:                  e.outgoing.Snapshot(),
        Incoming:                  e.incoming.Snapshot(),
        IrisPresent:               e.irisPresent,
        IrisActive:                e.irisActive,
        IrisTogglePending:         e.irisTogglePending,
        TicksSinceOpened:          e.ticksSinceOpened,
        TicksSinceIncomingDrained: e.ticksSinceIncomingDrained,
        DeliveryThreshold:         e.deliveryThreshold,
        QueuedOpenAddress:         e.queuedOpenAddr,
        QueuedOpenDelay:           e.queuedOpenDelay,
        ExternalHoldCount:         e.externalHolds,
    }
    for id := range e.pendingRedraft { st.PendingRedraft = append(st.PendingRedraft, id) }
    sort.Slice(st.PendingRedraft, func(i, j int) bool { return st.PendingRedraft[i] < st.PendingRedraft[j] })
    return st
}

// Snapshot captures every endpoint and the registry contents.
func (n *Network) Snapshot() NetworkState {
    st := NetworkState{Tick: n.tick, Addresses: n.reg.List(address.None)}
    for _, a := range n.Addresses() { st.Endpoints = append(st.Endpoints, n.eps[a].Snapshot()) }
    return st
}

// Restore replaces the network contents with st. Registry entries are
// rebuilt from st.Addresses, so an endpoint whose address was released
// before the save stays unresolvable after it.
func (n *Network) Restore(st NetworkState) error {
    seen := make(map[address.Address]bool, len(st.Endpoints))
    for _, es := range st.Endpoints {
        if !es.Address.Valid() { return fmt.Errorf("restore: endpoint with invalid address") }
        if seen[es.Address] { return fmt.Errorf("restore: duplicate endpoint %s", es.Address) }
        seen[es.Address] = true
        if es.Active && (es.Role == RoleNone || !es.Peer.Valid()) {
            return fmt.Errorf("restore: active endpoint %s without role or peer", es.Address)
        }
    }

    // handles to the replaced endpoints must stop working
    for _, e := range n.eps { e.detached = true }
    for _, a := range n.reg.List(address.None) { n.reg.Remove(a) }
    n.eps = make(map[address.Address]*Endpoint, len(st.Endpoints))
    n.tick = st.Tick
    for _, es := range st.Endpoints {
        e := newEndpoint(n, es.Address, EndpointOptions{IrisPresent: es.IrisPresent, Position: es.Position})
        e.active = es.Active
        e.role = es.Role
        e.peerAddr = es.Peer
        e.outgoing.AppendAll(es.Outgoing)
        e.incoming.AppendAll(es.Incoming)
        for _, id := range es.PendingRedraft { e.pendingRedraft[id] = struct{}{} }
        e.irisActive = es.IrisActive && es.IrisPresent
        e.irisTogglePending = es.IrisTogglePending && es.IrisPresent
        e.ticksSinceOpened = es.TicksSinceOpened
        e.ticksSinceIncomingDrained = es.TicksSinceIncomingDrained
        e.deliveryThreshold = es.DeliveryThreshold
        e.queuedOpenAddr = es.QueuedOpenAddress
        e.queuedOpenDelay = es.QueuedOpenDelay
        e.externalHolds = es.ExternalHoldCount
        if !e.active { e.role, e.peerAddr = RoleNone, address.None }
        n.eps[es.Address] = e
    }
    for _, a := range st.Addresses { n.reg.Add(a) }

    // half-linked pairs are repaired by the next step; report them
    for _, e := range n.eps {
        if !e.active { continue }
        if p := n.resolve(e.peerAddr); p != nil && !p.linkedTo(e) {
            zap.L().Warn("restored link is not mutual", zap.Stringer("addr", e.addr), zap.Stringer("peer", e.peerAddr))
        }
    }
    zap.L().Info("network restored", zap.Uint64("tick", n.tick), zap.Int("endpoints", len(n.eps)))
    return nil
}
