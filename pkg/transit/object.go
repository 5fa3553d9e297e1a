// Package transit holds the objects carried across a link and the ordered
// buffers that keep them while in flight.
package transit

import (
    "github.com/google/uuid"
)

// ObjectID is the stable identity of a transported object.
type ObjectID string

// NewObjectID returns a fresh random identity.
func NewObjectID() ObjectID { return ObjectID(uuid.NewString()) }

// Kind tags what travels through the link.
type Kind uint8

const (
    KindCargo Kind = iota // inert matter
    KindActor             // something with behaviour that can be commanded
)

func (k Kind) String() string {
    switch k {
    case KindCargo:
        return "cargo"
    case KindActor:
        return "actor"
    default:
        return "unknown"
    }
}

// Object is a reference to a transported object. Commanded marks actors that
// were under direct command when they departed and must resume it on arrival.
type Object struct {
    ID        ObjectID `json:"id"`
    Kind      Kind     `json:"kind"`
    Label     string   `json:"label,omitempty"`
    Commanded bool     `json:"commanded,omitempty"`
}

// Cargo builds an inert object with a fresh identity.
func Cargo(label string) Object { return Object{ID: NewObjectID(), Kind: KindCargo, Label: label} }

// Actor builds an actor with a fresh identity.
func Actor(label string, commanded bool) Object {
    return Object{ID: NewObjectID(), Kind: KindActor, Label: label, Commanded: commanded}
}

// NeedsRedraft reports whether the object must resume commanded behaviour
// after it materializes.
func (o Object) NeedsRedraft() bool { return o.Kind == KindActor && o.Commanded }
