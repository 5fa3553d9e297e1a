package effects

import (
    "testing"

    "go.uber.org/zap"

    "github.com/mrdav30/Rimgate-sub001/pkg/link"
    "github.com/mrdav30/Rimgate-sub001/pkg/transit"
)

func TestMultiFansOutInOrder(t *testing.T) {
    a, b := NewRecorder(), NewRecorder()
    var fx link.Effects = Multi{a, b, NewLogger(zap.NewNop())}
    obj := transit.Cargo("crate")
    fx.LinkOpened(1, link.RoleOriginator, 2)
    fx.ObjectMaterialized(2, link.Position{X: 1}, obj, false)
    fx.ObjectDestroyed(2, obj, link.DestroyBlocked)
    fx.LinkClosed(1)
    for _, r := range []*Recorder{a, b} {
        evs := r.Events()
        if len(evs) != 4 { t.Fatalf("expected 4 events, got %d", len(evs)) }
        if evs[0].Kind != KindOpened || evs[3].Kind != KindClosed { t.Fatalf("order mismatch: %+v", evs) }
        if evs[2].Reason != link.DestroyBlocked { t.Fatalf("reason lost: %v", evs[2].Reason) }
    }
}

func TestRecorderFilter(t *testing.T) {
    r := NewRecorder()
    r.ObjectEjected(1, link.Position{}, transit.Cargo("x"), false)
    r.ObjectEjected(2, link.Position{}, transit.Cargo("y"), true)
    r.InstabilityPulse(2, link.Position{X: 3, Z: -1})
    if n := len(r.Filter(KindEjected, 2)); n != 1 { t.Fatalf("Filter(ejected, 2)=%d", n) }
    if r.Count(KindEjected) != 2 || r.Count(KindPulse) != 1 { t.Fatalf("counts mismatch") }
    if objs := r.Objects(KindEjected); len(objs) != 2 || objs[1].Label != "y" { t.Fatalf("objects mismatch: %v", objs) }
    r.Reset()
    if len(r.Events()) != 0 { t.Fatalf("reset left events") }
}
