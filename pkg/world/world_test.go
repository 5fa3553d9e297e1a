package world

import (
    "context"
    "testing"

    "github.com/stretchr/testify/require"

    "github.com/mrdav30/Rimgate-sub001/pkg/address"
    "github.com/mrdav30/Rimgate-sub001/pkg/effects"
    "github.com/mrdav30/Rimgate-sub001/pkg/link"
    "github.com/mrdav30/Rimgate-sub001/pkg/transit"
)

func cfg() link.Config {
    c := link.DefaultConfig()
    c.InstabilityChance = 0
    c.DeliveryDelayMin, c.DeliveryDelayMax = 1, 3
    c.IdleCloseTicks = 30
    return c
}

func newWorld(t *testing.T, rec *effects.Recorder, addrs ...address.Address) *World {
    t.Helper()
    w := New(cfg(), link.WithEffects(rec), link.WithSeed(3))
    for _, a := range addrs {
        require.NoError(t, w.Define(Location{Address: a, Name: a.String(), IrisPresent: true, Position: link.Position{X: int(a)}}))
    }
    return w
}

func TestDefine(t *testing.T) {
    w := newWorld(t, effects.NewRecorder(), 1)
    require.ErrorIs(t, w.Define(Location{Address: 1}), ErrDuplicate)
    require.ErrorIs(t, w.Define(Location{Address: address.None}), ErrUnknownLocation)
    loc, ok := w.Location(1)
    require.True(t, ok)
    require.Equal(t, "addr:1", loc.Name)
    require.False(t, w.Materialized(1))
    require.Empty(t, w.Registry().List(address.None))
}

func TestDialProvisionsRemoteLocation(t *testing.T) {
    rec := effects.NewRecorder()
    w := newWorld(t, rec, 1, 2)
    ctx := context.Background()
    home, err := w.Materialize(1)
    require.NoError(t, err)

    require.NoError(t, home.Dial(ctx, 2))
    require.True(t, w.Materialized(2))
    require.Equal(t, []address.Address{2}, w.Network().DialTargets(1))

    remote, ok := w.Network().Endpoint(2)
    require.True(t, ok)
    require.Equal(t, link.RoleReceiver, remote.Role())
    require.Equal(t, link.Position{X: 2}, remote.Position())

    again, err := w.ResolveOrProvision(ctx, 2)
    require.NoError(t, err)
    require.Same(t, remote, again)

    err = home.Dial(ctx, 7)
    require.ErrorIs(t, err, link.ErrAlreadyActive)
    other, err := w.Materialize(2)
    require.NoError(t, err)
    require.Same(t, remote, other)
}

func TestDialUnknownLocation(t *testing.T) {
    w := newWorld(t, effects.NewRecorder(), 1)
    home, err := w.Materialize(1)
    require.NoError(t, err)
    err = home.Dial(context.Background(), 9)
    require.ErrorIs(t, err, link.ErrUnresolvable)
    require.ErrorIs(t, err, link.ErrUserRejection)
    require.False(t, home.Active())

    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    _, err = w.ResolveOrProvision(ctx, 1)
    require.ErrorIs(t, err, context.Canceled)
}

func TestLoadingSuppressesIdleClose(t *testing.T) {
    rec := effects.NewRecorder()
    w := newWorld(t, rec, 1, 2)
    ctx := context.Background()
    home, _ := w.Materialize(1)
    require.NoError(t, home.Dial(ctx, 2))
    w.SetLoading(1, true)
    require.True(t, w.IsLoading(1))
    require.NoError(t, w.Network().Run(ctx, 100))
    require.True(t, home.Active())

    w.SetLoading(1, false)
    require.NoError(t, w.Network().Run(ctx, 1))
    require.False(t, home.Active())
    require.Equal(t, 2, rec.Count(effects.KindClosed))
}

func TestUnloadLetsPeerNotice(t *testing.T) {
    rec := effects.NewRecorder()
    w := newWorld(t, rec, 1, 2)
    ctx := context.Background()
    home, _ := w.Materialize(1)
    require.NoError(t, home.Dial(ctx, 2))

    require.True(t, w.Unload(2))
    require.True(t, home.Active())
    require.False(t, w.Registry().Contains(2))
    require.NoError(t, w.Network().Run(ctx, 1))
    require.False(t, home.Active())

    // the location can come back and be dialed again
    require.NoError(t, home.Dial(ctx, 2))
    require.True(t, w.Materialized(2))
    require.False(t, w.Unload(42))
}

func TestDestroyCascades(t *testing.T) {
    rec := effects.NewRecorder()
    w := newWorld(t, rec, 1, 2)
    ctx := context.Background()
    home, _ := w.Materialize(1)
    require.NoError(t, home.Dial(ctx, 2))
    require.NoError(t, home.Send(transit.Cargo("crate")))

    require.True(t, w.Destroy(1))
    remote, _ := w.Network().Endpoint(2)
    require.False(t, remote.Active())
    require.Equal(t, 1, rec.Count(effects.KindEjected))
    require.False(t, w.Resolvable(1))
    require.Equal(t, []address.Address{2}, w.Registry().List(address.None))
    require.False(t, w.Destroy(1))
}

func TestCleanupDropsUndefined(t *testing.T) {
    w := newWorld(t, effects.NewRecorder(), 1)
    _, err := w.Materialize(1)
    require.NoError(t, err)
    w.Registry().Add(99)
    require.Equal(t, []address.Address{99}, w.Cleanup())
    require.Equal(t, []address.Address{1}, w.Registry().List(address.None))
}

func TestTeardownAndRestore(t *testing.T) {
    rec := effects.NewRecorder()
    w := newWorld(t, rec, 1, 2, 3)
    ctx := context.Background()
    home, _ := w.Materialize(1)
    require.NoError(t, home.Dial(ctx, 2))
    require.NoError(t, home.Send(transit.Actor("scout", true)))
    require.NoError(t, w.Network().Run(ctx, 1))
    st := w.Network().Snapshot()

    w.Teardown()
    require.Zero(t, w.Registry().Len())
    require.False(t, w.Materialized(1))

    w2 := newWorld(t, rec, 1, 2, 3)
    require.NoError(t, w2.Restore(st))
    require.True(t, w2.Materialized(1))
    require.True(t, w2.Materialized(2))
    require.False(t, w2.Materialized(3))
    e2, ok := w2.Network().Endpoint(2)
    require.True(t, ok)
    require.Equal(t, 1, e2.Status().PendingRedraft)
    require.Equal(t, st, w2.Network().Snapshot())

    require.ErrorIs(t, newWorld(t, rec, 1).Restore(st), ErrUnknownLocation)
}

func TestTornDownWorldRefusesLoads(t *testing.T) {
    w := newWorld(t, effects.NewRecorder(), 1, 2)
    ctx := context.Background()
    home, err := w.Materialize(1)
    require.NoError(t, err)
    st := w.Network().Snapshot()
    w.Teardown()

    _, err = w.Materialize(1)
    require.ErrorIs(t, err, ErrTornDown)
    require.False(t, w.Materialized(1))
    require.ErrorIs(t, w.Define(Location{Address: 5}), ErrTornDown)
    require.ErrorIs(t, w.Restore(st), ErrTornDown)

    _, err = w.ResolveOrProvision(ctx, 2)
    require.ErrorIs(t, err, ErrTornDown)
    require.ErrorIs(t, home.Dial(ctx, 2), link.ErrUnknownEndpoint)
}

func TestRestoreRetiresMaterializedHandles(t *testing.T) {
    rec := effects.NewRecorder()
    w := newWorld(t, rec, 1, 2)
    ctx := context.Background()
    old, err := w.Materialize(1)
    require.NoError(t, err)
    require.NoError(t, w.Restore(w.Network().Snapshot()))

    require.ErrorIs(t, old.Dial(ctx, 2), link.ErrUnknownEndpoint)
    require.ErrorIs(t, old.Send(transit.Cargo("crate")), link.ErrUnknownEndpoint)
    require.False(t, w.Materialized(2))
    require.Zero(t, rec.Count(effects.KindOpened))

    cur, ok := w.Network().Endpoint(1)
    require.True(t, ok)
    require.NoError(t, cur.Dial(ctx, 2))
    remote, _ := w.Network().Endpoint(2)
    require.Equal(t, address.Address(1), remote.PeerAddress())
}
