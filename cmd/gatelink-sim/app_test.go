package main

import (
    "bytes"
    "context"
    "strings"
    "testing"

    "github.com/mrdav30/Rimgate-sub001/pkg/config"
    "github.com/mrdav30/Rimgate-sub001/pkg/effects"
    "github.com/mrdav30/Rimgate-sub001/pkg/link"
)

func testConfig() *config.Config {
    cfg := config.Default()
    cfg.Link.Seed = 5
    cfg.Link.InstabilityChance = 0
    cfg.Link.DeliveryDelayMin, cfg.Link.DeliveryDelayMax = 2, 4
    cfg.Link.IdleCloseTicks = 40
    cfg.World.Locations = []config.LocationConfig{
        {Address: 1, Name: "home", Iris: true, Materialized: true},
        {Address: 2, Name: "outpost", Iris: true},
        {Address: 3, Name: "ruins"},
    }
    cfg.Sim = config.SimConfig{
        Ticks: 100,
        Dials: []config.DialConfig{{From: 1, To: 2, Delay: 2}},
        Shipments: []config.ShipmentConfig{
            {From: 1, Count: 2, Kind: "cargo", AtTick: 3},
            {From: 1, Count: 1, Kind: "actor", Commanded: true, AtTick: 3},
        },
    }
    return cfg
}

func TestSimulateDeliversAndIdleCloses(t *testing.T) {
    cfg := testConfig()
    rec := effects.NewRecorder()
    w, err := buildWorld(cfg, rec)
    if err != nil { t.Fatalf("build: %v", err) }
    if err := simulate(context.Background(), w, cfg.Sim); err != nil { t.Fatalf("simulate: %v", err) }

    got := rec.Filter(effects.KindMaterialized, 2)
    if len(got) != 3 { t.Fatalf("want 3 arrivals at outpost, got %d", len(got)) }
    if !got[2].Commanded || got[2].Object.Label != "actor-1" { t.Fatalf("actor should arrive last and commanded: %+v", got[2]) }
    if rec.Count(effects.KindClosed) != 2 { t.Fatalf("link should idle close on both sides, closed=%d", rec.Count(effects.KindClosed)) }
    if e, _ := w.Network().Endpoint(1); e.Active() { t.Fatalf("home still active") }
}

func TestSimulateClosedIris(t *testing.T) {
    cfg := testConfig()
    cfg.Sim.IrisClosed = []int32{2}
    rec := effects.NewRecorder()
    w, err := buildWorld(cfg, rec)
    if err != nil { t.Fatalf("build: %v", err) }
    if err := simulate(context.Background(), w, cfg.Sim); err != nil { t.Fatalf("simulate: %v", err) }
    if n := len(rec.Filter(effects.KindDestroyed, 2)); n != 3 { t.Fatalf("want 3 blocked, got %d", n) }
    for _, ev := range rec.Filter(effects.KindDestroyed, 2) {
        if ev.Reason != link.DestroyBlocked { t.Fatalf("unexpected reason %v", ev.Reason) }
    }
}

func TestSimulateIrisWithoutIrisFails(t *testing.T) {
    cfg := testConfig()
    cfg.Sim.IrisClosed = []int32{3}
    w, err := buildWorld(cfg, effects.NewRecorder())
    if err != nil { t.Fatalf("build: %v", err) }
    if err := simulate(context.Background(), w, cfg.Sim); err == nil { t.Fatalf("expected error closing a missing iris") }
}

func TestPrintDialTargets(t *testing.T) {
    cfg := testConfig()
    w, err := buildWorld(cfg, effects.NewRecorder())
    if err != nil { t.Fatalf("build: %v", err) }
    var buf bytes.Buffer
    printDialTargets(&buf, w)
    // only home is loaded, and nothing else is registered yet
    if !strings.Contains(buf.String(), "addr:1") || !strings.Contains(buf.String(), "home") {
        t.Fatalf("unexpected listing:\n%s", buf.String())
    }
}

func TestApplyOverrides(t *testing.T) {
    cfg := testConfig()
    applyOverrides(cfg, Options{Ticks: 9, Seed: 4, Format: "json", SaveSlot: "s1"})
    if cfg.Sim.Ticks != 9 || cfg.Link.Seed != 4 || cfg.Persist.Format != "json" || cfg.Persist.Slot != "s1" {
        t.Fatalf("overrides not applied: %+v %+v %+v", cfg.Sim, cfg.Link, cfg.Persist)
    }
}
