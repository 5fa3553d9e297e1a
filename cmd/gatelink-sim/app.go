package main

import (
    "context"
    "errors"
    "fmt"
    "io"
    "os"
    "os/signal"
    "path/filepath"
    "text/tabwriter"
    "time"

    "go.uber.org/zap"

    "github.com/mrdav30/Rimgate-sub001/pkg/address"
    "github.com/mrdav30/Rimgate-sub001/pkg/config"
    "github.com/mrdav30/Rimgate-sub001/pkg/effects"
    "github.com/mrdav30/Rimgate-sub001/pkg/link"
    "github.com/mrdav30/Rimgate-sub001/pkg/observability"
    "github.com/mrdav30/Rimgate-sub001/pkg/persist"
    "github.com/mrdav30/Rimgate-sub001/pkg/persist/codec"
    "github.com/mrdav30/Rimgate-sub001/pkg/transit"
    "github.com/mrdav30/Rimgate-sub001/pkg/world"
)

// run is the main entry point after CLI parsing.
func run(opts Options) int {
    cfg, err := config.Load(opts.ConfigPath)
    if err != nil {
        _, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
        return 1
    }
    applyOverrides(cfg, opts)

    logger, err := observability.SetupLogger(cfg.Log)
    if err != nil {
        _, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
        return 1
    }
    defer func() { _ = logger.Sync() }()
    zap.L().Info("gatelink-sim started", zap.String("app", cfg.AppName))
    zap.L().Debug("effective configuration", zap.Any("config", cfg))

    codecs, err := codec.NewRegistry()
    if err != nil {
        zap.L().Error("codec setup failed", zap.Error(err))
        return 1
    }
    slots, err := persist.NewSlotStore(codecs, cfg.Persist.Format, filepath.Join(cfg.DataDir, "saves"))
    if err != nil {
        zap.L().Error("slot store setup failed", zap.Error(err))
        return 1
    }

    rec := effects.NewRecorder()
    w, err := buildWorld(cfg, effects.Multi{effects.NewLogger(zap.L()), rec})
    if err != nil {
        zap.L().Error("world setup failed", zap.Error(err))
        return 1
    }
    defer w.Teardown()

    if opts.LoadSlot != "" {
        st, err := slots.Load(opts.LoadSlot)
        if err == nil { err = w.Restore(st) }
        if err != nil {
            zap.L().Error("restore failed", zap.String("slot", opts.LoadSlot), zap.Error(err))
            return 1
        }
    }

    if opts.List {
        printDialTargets(os.Stdout, w)
        return 0
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
    defer stop()

    started := time.Now()
    if err := simulate(ctx, w, cfg.Sim); err != nil && !errors.Is(err, context.Canceled) {
        zap.L().Error("simulation failed", zap.Error(err))
        return 1
    }
    zap.L().Info("simulation finished", zap.Uint64("tick", w.Network().Tick()), zap.Duration("took", time.Since(started)))
    printSummary(os.Stdout, w, rec)

    if cfg.Persist.Slot != "" {
        if err := slots.Save(cfg.Persist.Slot, w.Network().Snapshot()); err != nil {
            zap.L().Error("save failed", zap.String("slot", cfg.Persist.Slot), zap.Error(err))
            return 1
        }
    }
    return 0
}

func applyOverrides(cfg *config.Config, opts Options) {
    if opts.Ticks > 0 { cfg.Sim.Ticks = opts.Ticks }
    if opts.Seed != 0 { cfg.Link.Seed = opts.Seed }
    if opts.Format != "" { cfg.Persist.Format = opts.Format }
    if opts.SaveSlot != "" { cfg.Persist.Slot = opts.SaveSlot }
}

func linkConfig(c config.LinkConfig) link.Config {
    return link.Config{
        InstabilityWindow: c.InstabilityWindow,
        InstabilityChance: c.InstabilityChance,
        InstabilityRadius: c.InstabilityRadius,
        DeliveryDelayMin:  c.DeliveryDelayMin,
        DeliveryDelayMax:  c.DeliveryDelayMax,
        IdleCloseTicks:    c.IdleCloseTicks,
    }
}

// buildWorld defines every configured location and materializes the ones
// flagged as loaded at start.
func buildWorld(cfg *config.Config, fx link.Effects) (*world.World, error) {
    seed := cfg.Link.Seed
    if seed == 0 { seed = time.Now().UnixNano() }
    w := world.New(linkConfig(cfg.Link), link.WithEffects(fx), link.WithSeed(seed))
    for _, lc := range cfg.World.Locations {
        loc := world.Location{
            Address:     address.Address(lc.Address),
            Name:        lc.Name,
            IrisPresent: lc.Iris,
            Position:    link.Position{X: lc.X, Z: lc.Z},
        }
        if err := w.Define(loc); err != nil { return nil, err }
        if !lc.Materialized { continue }
        if _, err := w.Materialize(loc.Address); err != nil { return nil, err }
    }
    return w, nil
}

// simulate arms the configured dials and iris states, then steps the
// network sim.Ticks times, sending each shipment on its tick.
func simulate(ctx context.Context, w *world.World, sim config.SimConfig) error {
    for _, a := range sim.IrisClosed {
        e, err := w.ResolveOrProvision(ctx, address.Address(a))
        if err != nil { return err }
        if err := e.SetIris(true); err != nil { return fmt.Errorf("close iris at %s: %w", e.Address(), err) }
    }
    for _, d := range sim.Dials {
        e, err := w.ResolveOrProvision(ctx, address.Address(d.From))
        if err != nil { return err }
        if err := e.ScheduleDial(ctx, address.Address(d.To), d.Delay); err != nil {
            zap.L().Warn("dial rejected", zap.Int32("from", d.From), zap.Int32("to", d.To), zap.Error(err))
        }
    }

    net := w.Network()
    start := net.Tick()
    for i := 0; i < sim.Ticks; i++ {
        if err := ctx.Err(); err != nil { return err }
        rel := int(net.Tick() - start)
        for _, sh := range sim.Shipments {
            if sh.AtTick == rel { ship(w, sh) }
        }
        net.Step(ctx)
    }
    return nil
}

func ship(w *world.World, sh config.ShipmentConfig) {
    e, ok := w.Network().Endpoint(address.Address(sh.From))
    if !ok {
        zap.L().Warn("shipment from unloaded location", zap.Int32("from", sh.From))
        return
    }
    for i := 0; i < sh.Count; i++ {
        label := fmt.Sprintf("%s-%d", sh.Kind, i+1)
        obj := transit.Cargo(label)
        if sh.Kind == "actor" { obj = transit.Actor(label, sh.Commanded) }
        if err := e.Send(obj); err != nil {
            zap.L().Warn("shipment refused", zap.Stringer("from", e.Address()), zap.Error(err))
            return
        }
    }
}

func printDialTargets(out io.Writer, w *world.World) {
    tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
    fmt.Fprintln(tw, "FROM\tNAME\tTARGETS")
    for _, a := range w.Network().Addresses() {
        loc, _ := w.Location(a)
        fmt.Fprintf(tw, "%s\t%s\t%v\n", a, loc.Name, w.Network().DialTargets(a))
    }
    _ = tw.Flush()
}

func printSummary(out io.Writer, w *world.World, rec *effects.Recorder) {
    tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
    fmt.Fprintln(tw, "ADDR\tNAME\tSTATE\tROLE\tPEER\tIRIS\tOUT\tIN\tHOLDS")
    for _, a := range w.Network().Addresses() {
        e, _ := w.Network().Endpoint(a)
        loc, _ := w.Location(a)
        s := e.Status()
        iris := "-"
        if s.IrisPresent {
            iris = "open"
            if s.IrisActive { iris = "closed" }
        }
        fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n", s.Address, loc.Name, s.State, s.Role, s.Peer, iris, s.Outgoing, s.Incoming, s.ExternalHolds)
    }
    _ = tw.Flush()
    fmt.Fprintf(out, "\nopened=%d closed=%d materialized=%d ejected=%d destroyed=%d pulses=%d\n",
        rec.Count(effects.KindOpened), rec.Count(effects.KindClosed), rec.Count(effects.KindMaterialized),
        rec.Count(effects.KindEjected), rec.Count(effects.KindDestroyed), rec.Count(effects.KindPulse))
}
