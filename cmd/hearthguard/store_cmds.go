package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Hearthguard-Labs/hearthguard/pkg/baseline"
	"github.com/Hearthguard-Labs/hearthguard/pkg/config"
	"github.com/Hearthguard-Labs/hearthguard/pkg/migrate"
	"github.com/Hearthguard-Labs/hearthguard/pkg/scoring"
	"github.com/Hearthguard-Labs/hearthguard/pkg/snapshot"
)

func runShowCmd(cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print canonical JSON instead of the text report")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	kv, slots, _, err := openSlots(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "show: %v\n", err)
		return 1
	}
	defer func() { _ = kv.Close() }()

	snap, err := slots.ReadLatest(context.Background())
	if errors.Is(err, migrate.ErrNoSnapshot) {
		fmt.Fprintln(stdout, "no snapshot yet; run `hearthguard score` first")
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "show: %v\n", err)
		return 1
	}
	return printSnapshot(stdout, stderr, snap, *asJSON)
}

func runHistoryCmd(cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	kv, slots, _, err := openSlots(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return 1
	}
	defer func() { _ = kv.Close() }()

	entries, err := slots.ReadHistory(context.Background())
	if err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "history is empty")
		return 0
	}
	for _, snap := range entries {
		fmt.Fprintf(stdout, "%s  %s  overall %3d  %s\n",
			snap.ID, snap.CreatedAt.Format("2006-01-02 15:04"), snap.Overall, snap.Band.Label)
	}
	return 0
}

func runBaselineCmd(cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "usage: hearthguard baseline <set|show>")
		return 2
	}

	kv, slots, _, err := openSlots(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "baseline: %v\n", err)
		return 1
	}
	defer func() { _ = kv.Close() }()

	ctx := context.Background()
	switch args[0] {
	case "set":
		latest, err := slots.ReadLatest(ctx)
		if errors.Is(err, migrate.ErrNoSnapshot) {
			fmt.Fprintln(stderr, "baseline: no snapshot to pin; run `hearthguard score` first")
			return 1
		}
		if err != nil {
			fmt.Fprintf(stderr, "baseline: %v\n", err)
			return 1
		}
		if err := slots.WriteBaseline(ctx, latest); err != nil {
			fmt.Fprintf(stderr, "baseline: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "baseline pinned to snapshot %s\n", latest.ID)
		return 0
	case "show":
		base, err := slots.ReadBaseline(ctx)
		if errors.Is(err, migrate.ErrNoSnapshot) {
			fmt.Fprintln(stdout, "no baseline set")
			return 0
		}
		if err != nil {
			fmt.Fprintf(stderr, "baseline: %v\n", err)
			return 1
		}
		return printSnapshot(stdout, stderr, base, false)
	default:
		fmt.Fprintf(stderr, "baseline: unknown subcommand %q\n", args[0])
		return 2
	}
}

func runDiffCmd(cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	kv, slots, _, err := openSlots(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "diff: %v\n", err)
		return 1
	}
	defer func() { _ = kv.Close() }()

	ctx := context.Background()
	current, err := slots.ReadLatest(ctx)
	if errors.Is(err, migrate.ErrNoSnapshot) {
		fmt.Fprintln(stdout, "no snapshot yet; run `hearthguard score` first")
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "diff: %v\n", err)
		return 1
	}

	base, err := slots.ReadBaseline(ctx)
	if errors.Is(err, migrate.ErrNoSnapshot) {
		base = nil
	} else if err != nil {
		fmt.Fprintf(stderr, "diff: %v\n", err)
		return 1
	}

	diff, err := baseline.Compare(current, base)
	if errors.Is(err, baseline.ErrNoBaseline) {
		fmt.Fprintln(stdout, "no baseline set; `hearthguard baseline set` pins the current snapshot")
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "diff: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "overall %+d\n", diff.Overall)
	for _, lens := range scoring.SortedLenses(diff.Lenses) {
		fmt.Fprintf(stdout, "%-10s %+d\n", lens, diff.Lenses[lens])
	}
	return 0
}

func runExportCmd(cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	kv, slots, _, err := openSlots(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}
	defer func() { _ = kv.Close() }()

	snap, err := slots.ReadLatest(context.Background())
	if errors.Is(err, migrate.ErrNoSnapshot) {
		fmt.Fprintln(stderr, "export: no snapshot to export")
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}

	raw, err := snapshot.Serialize(snap)
	if err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}
	if *out == "" {
		fmt.Fprintln(stdout, string(raw))
		return 0
	}
	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "exported snapshot %s to %s\n", snap.ID, *out)
	return 0
}

// runMigrateCmd migrates either a supplied record file or the stored slots.
// Reading a slot already migrates and writes back, so the store path is
// just a forced read of everything.
func runMigrateCmd(cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "migrate a record file to canonical JSON on stdout instead of the store")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	kv, slots, pack, err := openSlots(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "migrate: %v\n", err)
		return 1
	}
	defer func() { _ = kv.Close() }()

	if *in != "" {
		raw, err := os.ReadFile(*in)
		if err != nil {
			fmt.Fprintf(stderr, "migrate: %v\n", err)
			return 1
		}
		migrator := migrate.Migrator{Bands: pack.Bands}
		snap, shape, err := migrator.Migrate(raw)
		if errors.Is(err, migrate.ErrNoSnapshot) {
			fmt.Fprintln(stderr, "migrate: input is not a snapshot record")
			return 1
		}
		if err != nil {
			fmt.Fprintf(stderr, "migrate: %v\n", err)
			return 1
		}
		fmt.Fprintf(stderr, "detected shape: %s\n", shape)
		return printSnapshot(stdout, stderr, snap, true)
	}

	ctx := context.Background()
	migrated := 0
	if _, err := slots.ReadLatest(ctx); err == nil {
		migrated++
	}
	if _, err := slots.ReadBaseline(ctx); err == nil {
		migrated++
	}
	if entries, err := slots.ReadHistory(ctx); err == nil {
		migrated += len(entries)
	}
	fmt.Fprintf(stdout, "checked %d stored records\n", migrated)
	return 0
}
