package link_test

import (
    "context"
    "errors"
    "testing"

    "github.com/mrdav30/Rimgate-sub001/pkg/address"
    "github.com/mrdav30/Rimgate-sub001/pkg/effects"
    "github.com/mrdav30/Rimgate-sub001/pkg/link"
)

// testConfig: no instability noise, fixed delivery delay of 2 steps, short idle timeout.
func testConfig() link.Config {
    return link.Config{
        InstabilityWindow: 10,
        InstabilityChance: 0,
        InstabilityRadius: 2,
        DeliveryDelayMin:  2,
        DeliveryDelayMax:  2,
        IdleCloseTicks:    50,
    }
}

type lazyProvisioner struct {
    n     *link.Network
    known map[address.Address]bool
    calls int
}

func (p *lazyProvisioner) ResolveOrProvision(_ context.Context, a address.Address) (*link.Endpoint, error) {
    p.calls++
    if !p.known[a] { return nil, errors.New("no such location") }
    return p.n.Attach(a, link.EndpointOptions{IrisPresent: true})
}

type fixture struct {
    t   *testing.T
    ctx context.Context
    n   *link.Network
    rec *effects.Recorder
}

func newFixture(t *testing.T, cfg link.Config, addrs ...address.Address) *fixture {
    t.Helper()
    rec := effects.NewRecorder()
    n := link.NewNetwork(cfg, address.Init(), link.WithEffects(rec), link.WithSeed(7))
    for _, a := range addrs {
        if _, err := n.Attach(a, link.EndpointOptions{IrisPresent: true, Position: link.Position{X: int(a) * 10}}); err != nil {
            t.Fatalf("attach %v: %v", a, err)
        }
    }
    return &fixture{t: t, ctx: context.Background(), n: n, rec: rec}
}

func (f *fixture) ep(a address.Address) *link.Endpoint {
    f.t.Helper()
    e, ok := f.n.Endpoint(a)
    if !ok { f.t.Fatalf("no endpoint at %v", a) }
    return e
}

func (f *fixture) dial(from, to address.Address) {
    f.t.Helper()
    if err := f.n.Dial(f.ctx, from, to); err != nil { f.t.Fatalf("dial %v->%v: %v", from, to, err) }
}

func (f *fixture) steps(k int) {
    for i := 0; i < k; i++ {
        f.n.Step(f.ctx)
        f.checkMutual()
    }
}

// stepUntil steps until cond holds, failing after max steps.
func (f *fixture) stepUntil(max int, cond func() bool) int {
    f.t.Helper()
    for i := 1; i <= max; i++ {
        f.steps(1)
        if cond() { return i }
    }
    f.t.Fatalf("condition not reached within %d steps", max)
    return 0
}

// checkMutual asserts that every active endpoint with a resolvable peer is
// mirrored by that peer.
func (f *fixture) checkMutual() {
    f.t.Helper()
    for _, a := range f.n.Addresses() {
        e, ok := f.n.Endpoint(a)
        if !ok || !e.Active() { continue }
        if e.Role() == link.RoleNone { f.t.Fatalf("%v active without role", a) }
        p := e.Peer()
        if p == nil { continue }
        if !p.Active() || p.PeerAddress() != a {
            f.t.Fatalf("link %v->%v not mutual: peer active=%v peer.peer=%v", a, p.Address(), p.Active(), p.PeerAddress())
        }
        if p.Role() == e.Role() { f.t.Fatalf("both sides of %v<->%v are %v", a, p.Address(), e.Role()) }
    }
}
