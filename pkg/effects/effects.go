// Package effects provides presentation sinks for link notifications: a zap
// logger, an in-memory recorder and a fan-out.
package effects

import (
    "go.uber.org/zap"

    "github.com/mrdav30/Rimgate-sub001/pkg/address"
    "github.com/mrdav30/Rimgate-sub001/pkg/link"
    "github.com/mrdav30/Rimgate-sub001/pkg/transit"
)

// Logger writes every notification to a zap logger.
type Logger struct{ L *zap.Logger }

// NewLogger returns a Logger on l, or on the global logger when l is nil.
func NewLogger(l *zap.Logger) Logger {
    if l == nil { l = zap.L() }
    return Logger{L: l.Named("fx")}
}

func (g Logger) LinkOpened(at address.Address, role link.Role, peer address.Address) {
    g.L.Info("link open", zap.Stringer("at", at), zap.Stringer("role", role), zap.Stringer("peer", peer))
}

func (g Logger) LinkClosed(at address.Address) {
    g.L.Info("link closed", zap.Stringer("at", at))
}

func (g Logger) InstabilityPulse(at address.Address, pos link.Position) {
    g.L.Debug("instability pulse", zap.Stringer("at", at), zap.Stringer("pos", pos))
}

func (g Logger) ObjectMaterialized(at address.Address, pos link.Position, obj transit.Object, commanded bool) {
    g.L.Debug("object materialized", zap.Stringer("at", at), zap.Stringer("pos", pos), zap.String("obj", string(obj.ID)), zap.String("label", obj.Label), zap.Bool("commanded", commanded))
}

func (g Logger) ObjectEjected(at address.Address, pos link.Position, obj transit.Object, commanded bool) {
    g.L.Debug("object ejected", zap.Stringer("at", at), zap.Stringer("pos", pos), zap.String("obj", string(obj.ID)), zap.Bool("commanded", commanded))
}

func (g Logger) ObjectDestroyed(at address.Address, obj transit.Object, reason link.DestroyReason) {
    g.L.Info("object destroyed", zap.Stringer("at", at), zap.String("obj", string(obj.ID)), zap.Stringer("reason", reason))
}

// Multi fans every notification out to each sink in order.
type Multi []link.Effects

func (m Multi) LinkOpened(at address.Address, role link.Role, peer address.Address) {
    for _, fx := range m { fx.LinkOpened(at, role, peer) }
}

func (m Multi) LinkClosed(at address.Address) {
    for _, fx := range m { fx.LinkClosed(at) }
}

func (m Multi) InstabilityPulse(at address.Address, pos link.Position) {
    for _, fx := range m { fx.InstabilityPulse(at, pos) }
}

func (m Multi) ObjectMaterialized(at address.Address, pos link.Position, obj transit.Object, commanded bool) {
    for _, fx := range m { fx.ObjectMaterialized(at, pos, obj, commanded) }
}

func (m Multi) ObjectEjected(at address.Address, pos link.Position, obj transit.Object, commanded bool) {
    for _, fx := range m { fx.ObjectEjected(at, pos, obj, commanded) }
}

func (m Multi) ObjectDestroyed(at address.Address, obj transit.Object, reason link.DestroyReason) {
    for _, fx := range m { fx.ObjectDestroyed(at, obj, reason) }
}
