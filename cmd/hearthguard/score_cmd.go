package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Hearthguard-Labs/hearthguard/pkg/config"
	"github.com/Hearthguard-Labs/hearthguard/pkg/content"
	"github.com/Hearthguard-Labs/hearthguard/pkg/events"
	"github.com/Hearthguard-Labs/hearthguard/pkg/scoring"
	"github.com/Hearthguard-Labs/hearthguard/pkg/snapshot"
)

// runScoreCmd computes a snapshot from an answers file, persists it to the
// latest slot and history, optionally pins it as the baseline, and emits
// the snapshot-updated event.
func runScoreCmd(cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	fs.SetOutput(stderr)
	answersPath := fs.String("answers", "", "JSON file mapping question id to chosen option id")
	focus := fs.String("focus", "", "pin the focus lens instead of defaulting to the weakest")
	asBaseline := fs.Bool("baseline", false, "also store this snapshot as the baseline")
	asJSON := fs.Bool("json", false, "print canonical JSON instead of the text report")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *answersPath == "" {
		fmt.Fprintln(stderr, "score: -answers is required")
		return 2
	}

	answers, err := readAnswers(*answersPath)
	if err != nil {
		fmt.Fprintf(stderr, "score: %v\n", err)
		return 1
	}

	kv, slots, pack, err := openSlots(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "score: %v\n", err)
		return 1
	}
	defer func() { _ = kv.Close() }()

	builder, err := snapshot.NewBuilder(pack)
	if err != nil {
		fmt.Fprintf(stderr, "score: %v\n", err)
		return 1
	}

	var opts snapshot.Options
	if *focus != "" {
		opts.FocusOverride = content.NormalizeLens(*focus)
	}
	snap, err := builder.Build(answers, opts)
	if err != nil {
		fmt.Fprintf(stderr, "score: %v\n", err)
		return 1
	}

	ctx := context.Background()
	if err := slots.WriteLatest(ctx, snap); err != nil {
		fmt.Fprintf(stderr, "score: %v\n", err)
		return 1
	}
	if err := slots.AppendHistory(ctx, snap); err != nil {
		fmt.Fprintf(stderr, "score: %v\n", err)
		return 1
	}
	if *asBaseline {
		if err := slots.WriteBaseline(ctx, snap); err != nil {
			fmt.Fprintf(stderr, "score: %v\n", err)
			return 1
		}
	}

	hub := events.NewHub()
	hub.Subscribe(func(s *snapshot.Snapshot) {
		slog.Info("snapshot updated", "id", s.ID, "overall", s.Overall, "band", s.Band.Slug)
	})
	hub.Publish(snap)

	return printSnapshot(stdout, stderr, snap, *asJSON)
}

func readAnswers(path string) (scoring.Answers, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var answers scoring.Answers
	if err := json.Unmarshal(raw, &answers); err != nil {
		return nil, fmt.Errorf("parse answers %q: %w", path, err)
	}
	return answers, nil
}

func printSnapshot(stdout, stderr io.Writer, snap *snapshot.Snapshot, asJSON bool) int {
	if asJSON {
		raw, err := snapshot.Serialize(snap)
		if err != nil {
			fmt.Fprintf(stderr, "serialize: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(raw))
		return 0
	}
	fmt.Fprint(stdout, snapshot.Report(snap))
	return 0
}
