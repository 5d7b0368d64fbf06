// Command hearthguard computes, stores and compares household digital
// safety snapshots from questionnaire answers.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Hearthguard-Labs/hearthguard/pkg/config"
	"github.com/Hearthguard-Labs/hearthguard/pkg/content"
	"github.com/Hearthguard-Labs/hearthguard/pkg/migrate"
	"github.com/Hearthguard-Labs/hearthguard/pkg/store"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint, split out for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		usage(stderr)
		return 2
	}

	cfg := config.Load()
	setupLogging(stderr, cfg.LogLevel)

	switch args[1] {
	case "score":
		return runScoreCmd(cfg, args[2:], stdout, stderr)
	case "show":
		return runShowCmd(cfg, args[2:], stdout, stderr)
	case "history":
		return runHistoryCmd(cfg, args[2:], stdout, stderr)
	case "baseline":
		return runBaselineCmd(cfg, args[2:], stdout, stderr)
	case "diff":
		return runDiffCmd(cfg, args[2:], stdout, stderr)
	case "export":
		return runExportCmd(cfg, args[2:], stdout, stderr)
	case "migrate":
		return runMigrateCmd(cfg, args[2:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[1])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `usage: hearthguard <command> [flags]

commands:
  score     compute a snapshot from an answers file and store it
  show      print the latest snapshot
  history   list stored snapshots, newest first
  baseline  set or show the comparison baseline
  diff      compare the latest snapshot against the baseline
  export    write the latest snapshot as canonical JSON
  migrate   migrate a stored or supplied record to the canonical shape

environment:
  HEARTHGUARD_STORE        memory | file | sqlite | postgres | redis (default file)
  HEARTHGUARD_STORE_DSN    path / connection string / address for the backend
  HEARTHGUARD_PACK         content pack file (default: embedded pack)
  HEARTHGUARD_HISTORY_CAP  history length (default 24)
  LOG_LEVEL                DEBUG | INFO | WARN | ERROR`)
}

func setupLogging(w io.Writer, level string) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

// openSlots wires the configured backend, pack-aware migrator and slot
// layer. The caller must Close the returned KV.
func openSlots(cfg *config.Config) (store.KV, *store.Slots, *content.Pack, error) {
	pack, err := loadPack(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	kv, err := store.Open(cfg.StoreBackend, cfg.StoreDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	migrator := &migrate.Migrator{Bands: pack.Bands}
	slots := store.NewSlots(kv, migrator, cfg.HistoryCap, slog.Default())
	return kv, slots, pack, nil
}

func loadPack(cfg *config.Config) (*content.Pack, error) {
	if cfg.PackPath == "" {
		return content.DefaultPack()
	}
	return content.LoadPack(cfg.PackPath)
}
