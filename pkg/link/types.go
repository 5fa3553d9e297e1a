package link

import (
    "fmt"
)

// Role is the side an active endpoint plays in its link.
type Role uint8

const (
    RoleNone Role = iota
    RoleOriginator
    RoleReceiver
)

func (r Role) String() string {
    switch r {
    case RoleOriginator:
        return "originator"
    case RoleReceiver:
        return "receiver"
    default:
        return "none"
    }
}

// State is the coarse lifecycle state of an endpoint.
type State uint8

const (
    StateInactive State = iota
    StatePendingOpen
    StateActive
)

func (s State) String() string {
    switch s {
    case StatePendingOpen:
        return "pending-open"
    case StateActive:
        return "active"
    default:
        return "inactive"
    }
}

// DestroyReason says why an object was destroyed instead of delivered.
type DestroyReason uint8

const (
    // DestroyBlocked: the receiving iris was closed at delivery time.
    DestroyBlocked DestroyReason = iota + 1
    // DestroyProtocolViolation: the object sat in a receiver's outgoing queue.
    DestroyProtocolViolation
)

func (d DestroyReason) String() string {
    switch d {
    case DestroyBlocked:
        return "blocked"
    case DestroyProtocolViolation:
        return "protocol-violation"
    default:
        return "unknown"
    }
}

// Position is a world cell.
type Position struct {
    X int `json:"x"`
    Z int `json:"z"`
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Z) }

// Config holds the timing constants of the protocol, in steps.
type Config struct {
    // InstabilityWindow is the number of steps after opening during which
    // instability pulses may fire.
    InstabilityWindow int
    // InstabilityChance is the per-step probability of a pulse inside the window.
    InstabilityChance float64
    // InstabilityRadius bounds the pulse offset from the endpoint, in cells.
    InstabilityRadius int
    // DeliveryDelayMin and DeliveryDelayMax bound the randomized wait between deliveries.
    DeliveryDelayMin int
    DeliveryDelayMax int
    // IdleCloseTicks is how long a receiver may go without a delivery before it closes.
    IdleCloseTicks int
}

// DefaultConfig returns the stock protocol timings.
func DefaultConfig() Config {
    return Config{
        InstabilityWindow: 200,
        InstabilityChance: 0.05,
        InstabilityRadius: 3,
        DeliveryDelayMin:  10,
        DeliveryDelayMax:  80,
        IdleCloseTicks:    2500,
    }
}

func (c Config) normalized() Config {
    d := DefaultConfig()
    if c.InstabilityWindow < 0 { c.InstabilityWindow = 0 }
    if c.InstabilityChance < 0 { c.InstabilityChance = 0 }
    if c.InstabilityChance > 1 { c.InstabilityChance = 1 }
    if c.InstabilityRadius < 0 { c.InstabilityRadius = d.InstabilityRadius }
    if c.DeliveryDelayMin < 0 { c.DeliveryDelayMin = 0 }
    if c.DeliveryDelayMax < c.DeliveryDelayMin { c.DeliveryDelayMax = c.DeliveryDelayMin }
    if c.IdleCloseTicks <= 0 { c.IdleCloseTicks = d.IdleCloseTicks }
    return c
}
