package link

import (
    "context"
    "fmt"
    "math/rand"
    "sort"
    "time"

    "go.uber.org/zap"

    "github.com/mrdav30/Rimgate-sub001/pkg/address"
)

// Network owns the endpoints of one world and drives them step by step.
type Network struct {
    cfg     Config
    reg     *address.Registry
    eps     map[address.Address]*Endpoint
    prov    Provisioner
    fx      Effects
    loading LoadingFunc
    rng     *rand.Rand
    tick    uint64
}

// Option customizes a Network.
type Option func(*Network)

// WithProvisioner sets the collaborator used by Dial to resolve targets.
func WithProvisioner(p Provisioner) Option { return func(n *Network) { n.prov = p } }

// WithEffects sets the presentation sink.
func WithEffects(fx Effects) Option {
    return func(n *Network) { if fx != nil { n.fx = fx } }
}

// WithLoading sets the predicate consulted by idle-close.
func WithLoading(f LoadingFunc) Option { return func(n *Network) { n.loading = f } }

// WithSeed makes delivery timing and instability reproducible.
func WithSeed(seed int64) Option { return func(n *Network) { n.rng = rand.New(rand.NewSource(seed)) } }

// NewNetwork builds an empty network over reg.
func NewNetwork(cfg Config, reg *address.Registry, opts ...Option) *Network {
    n := &Network{
        cfg: cfg.normalized(),
        reg: reg,
        eps: make(map[address.Address]*Endpoint),
        fx:  nopEffects{},
    }
    for _, o := range opts { o(n) }
    if n.rng == nil { n.rng = rand.New(rand.NewSource(time.Now().UnixNano())) }
    if n.reg == nil { n.reg = address.Init() }
    return n
}

// SetProvisioner replaces the provisioning collaborator; used when the
// provisioner itself needs the network to exist first.
func (n *Network) SetProvisioner(p Provisioner) { n.prov = p }

// SetLoading replaces the loading predicate.
func (n *Network) SetLoading(f LoadingFunc) { n.loading = f }

func (n *Network) Config() Config { return n.cfg }

func (n *Network) Registry() *address.Registry { return n.reg }

// Tick returns the number of completed steps.
func (n *Network) Tick() uint64 { return n.tick }

// EndpointOptions describes the hardware of a new endpoint.
type EndpointOptions struct {
    IrisPresent bool
    Position    Position
}

// Attach creates the endpoint hosted at addr and registers the address.
// Attaching an address that already hosts an endpoint returns the existing one.
func (n *Network) Attach(addr address.Address, opts EndpointOptions) (*Endpoint, error) {
    if !addr.Valid() { return nil, fmt.Errorf("attach %s: %w", addr, ErrUnresolvable) }
    if e, ok := n.eps[addr]; ok { return e, nil }
    e := newEndpoint(n, addr, opts)
    n.eps[addr] = e
    n.reg.Add(addr)
    zap.L().Info("endpoint attached", zap.Stringer("addr", addr), zap.Bool("iris", opts.IrisPresent), zap.Stringer("pos", opts.Position))
    return e, nil
}

// Detach destroys the endpoint at addr: any link is closed first, a pending
// scheduled dial is cancelled and the address is released. With cascade the
// peer is closed too; without it the peer discovers the loss on its own step.
func (n *Network) Detach(addr address.Address, cascade bool) bool {
    e, ok := n.eps[addr]
    if !ok { return false }
    e.Close(cascade)
    e.clearScheduledDial()
    delete(n.eps, addr)
    n.reg.Remove(addr)
    e.detached = true
    zap.L().Info("endpoint detached", zap.Stringer("addr", addr), zap.Bool("cascade", cascade))
    return true
}

// Endpoint returns the live endpoint at addr.
func (n *Network) Endpoint(addr address.Address) (*Endpoint, bool) {
    e := n.resolve(addr)
    return e, e != nil
}

// resolve maps an address to a live endpoint, or nil. An address dropped
// from the registry no longer resolves even if its endpoint is still known.
func (n *Network) resolve(addr address.Address) *Endpoint {
    if !addr.Valid() || !n.reg.Contains(addr) { return nil }
    return n.eps[addr]
}

// Addresses returns the addresses of all attached endpoints in ascending order.
func (n *Network) Addresses() []address.Address {
    out := make([]address.Address, 0, len(n.eps))
    for a := range n.eps { out = append(out, a) }
    sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
    return out
}

// DialTargets lists the addresses a dial menu at from can offer.
func (n *Network) DialTargets(from address.Address) []address.Address { return n.reg.List(from) }

// CleanupAddresses drops registry entries whose location no longer resolves.
func (n *Network) CleanupAddresses(resolvable func(address.Address) bool) []address.Address {
    return n.reg.Cleanup(resolvable)
}

// Dial links from (as originator) to to (as receiver).
func (n *Network) Dial(ctx context.Context, from, to address.Address) error {
    e := n.resolve(from)
    if e == nil { return fmt.Errorf("dial from %s: %w", from, ErrUnknownEndpoint) }
    return e.Dial(ctx, to)
}

// Close closes the link at addr, cascading to its peer.
func (n *Network) Close(addr address.Address) error {
    e := n.resolve(addr)
    if e == nil { return fmt.Errorf("close %s: %w", addr, ErrUnknownEndpoint) }
    e.Close(true)
    return nil
}

// Step advances the simulation by one step, visiting every endpoint once in
// address order. Endpoints attached during the step are first visited on the
// next one; endpoints detached during the step are skipped.
func (n *Network) Step(ctx context.Context) {
    for _, a := range n.Addresses() {
        e, ok := n.eps[a]
        if !ok || e.detached { continue }
        e.step(ctx)
    }
    n.tick++
}

// Run performs steps until count steps ran or ctx is done.
func (n *Network) Run(ctx context.Context, count int) error {
    for i := 0; i < count; i++ {
        if err := ctx.Err(); err != nil { return err }
        n.Step(ctx)
    }
    return nil
}

func (n *Network) deliveryThreshold() int {
    lo, hi := n.cfg.DeliveryDelayMin, n.cfg.DeliveryDelayMax
    if hi <= lo { return lo }
    return lo + n.rng.Intn(hi-lo+1)
}

func (n *Network) peerLoading(addr address.Address) bool {
    if n.loading == nil { return false }
    return n.loading(addr)
}
