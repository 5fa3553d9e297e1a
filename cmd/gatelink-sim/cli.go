package main

import (
    "flag"
    "os"
)

// Options holds CLI options for the simulator.
type Options struct {
    ConfigPath string
    Ticks      int
    Seed       int64
    Format     string
    SaveSlot   string
    LoadSlot   string
    List       bool
}

// ParseFlags parses CLI flags from args and returns Options.
func ParseFlags(args []string) Options {
    fs := flag.NewFlagSet("gatelink-sim", flag.ExitOnError)
    var opts Options
    fs.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config file")
    fs.IntVar(&opts.Ticks, "ticks", 0, "Steps to simulate (overrides sim.ticks)")
    fs.Int64Var(&opts.Seed, "seed", 0, "RNG seed (overrides link.seed)")
    fs.StringVar(&opts.Format, "format", "", "Save format: json, cbor, proto, msgpack")
    fs.StringVar(&opts.SaveSlot, "save", "", "Slot to save into after the run (overrides persist.slot)")
    fs.StringVar(&opts.LoadSlot, "load", "", "Slot to restore before the run")
    fs.BoolVar(&opts.List, "list", false, "Print dial targets for every materialized location and exit")
    _ = fs.Parse(args)
    return opts
}

func main() { os.Exit(run(ParseFlags(os.Args[1:]))) }
