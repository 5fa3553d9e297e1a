package effects

import (
    "sync"

    "github.com/mrdav30/Rimgate-sub001/pkg/address"
    "github.com/mrdav30/Rimgate-sub001/pkg/link"
    "github.com/mrdav30/Rimgate-sub001/pkg/transit"
)

// Kind labels a recorded notification.
type Kind string

const (
    KindOpened       Kind = "opened"
    KindClosed       Kind = "closed"
    KindPulse        Kind = "pulse"
    KindMaterialized Kind = "materialized"
    KindEjected      Kind = "ejected"
    KindDestroyed    Kind = "destroyed"
)

// Event is one recorded notification. Fields that do not apply to Kind are zero.
type Event struct {
    Kind      Kind
    At        address.Address
    Peer      address.Address
    Role      link.Role
    Pos       link.Position
    Object    transit.Object
    Commanded bool
    Reason    link.DestroyReason
}

// Recorder keeps every notification in order. Safe for concurrent use.
type Recorder struct {
    mu     sync.Mutex
    events []Event
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) add(ev Event) { r.mu.Lock(); r.events = append(r.events, ev); r.mu.Unlock() }

func (r *Recorder) LinkOpened(at address.Address, role link.Role, peer address.Address) {
    r.add(Event{Kind: KindOpened, At: at, Role: role, Peer: peer})
}

func (r *Recorder) LinkClosed(at address.Address) { r.add(Event{Kind: KindClosed, At: at}) }

func (r *Recorder) InstabilityPulse(at address.Address, pos link.Position) {
    r.add(Event{Kind: KindPulse, At: at, Pos: pos})
}

func (r *Recorder) ObjectMaterialized(at address.Address, pos link.Position, obj transit.Object, commanded bool) {
    r.add(Event{Kind: KindMaterialized, At: at, Pos: pos, Object: obj, Commanded: commanded})
}

func (r *Recorder) ObjectEjected(at address.Address, pos link.Position, obj transit.Object, commanded bool) {
    r.add(Event{Kind: KindEjected, At: at, Pos: pos, Object: obj, Commanded: commanded})
}

func (r *Recorder) ObjectDestroyed(at address.Address, obj transit.Object, reason link.DestroyReason) {
    r.add(Event{Kind: KindDestroyed, At: at, Object: obj, Reason: reason})
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
    r.mu.Lock(); defer r.mu.Unlock()
    return append([]Event(nil), r.events...)
}

// Filter returns the recorded events of kind k, optionally restricted to one
// address (pass address.None for all).
func (r *Recorder) Filter(k Kind, at address.Address) []Event {
    r.mu.Lock(); defer r.mu.Unlock()
    var out []Event
    for _, ev := range r.events {
        if ev.Kind != k { continue }
        if at.Valid() && ev.At != at { continue }
        out = append(out, ev)
    }
    return out
}

// Count returns how many events of kind k were recorded anywhere.
func (r *Recorder) Count(k Kind) int { return len(r.Filter(k, address.None)) }

// Reset forgets everything recorded.
func (r *Recorder) Reset() { r.mu.Lock(); r.events = nil; r.mu.Unlock() }

// Objects returns the objects of every event of kind k, in order.
func (r *Recorder) Objects(k Kind) []transit.Object {
    var out []transit.Object
    for _, ev := range r.Filter(k, address.None) { out = append(out, ev.Object) }
    return out
}
