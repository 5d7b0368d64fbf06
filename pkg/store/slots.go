package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Hearthguard-Labs/hearthguard/pkg/migrate"
	"github.com/Hearthguard-Labs/hearthguard/pkg/snapshot"
)

// Slot keys. One household per store; multi-tenant layouts would prefix
// these, which is why they are not exported.
const (
	keyLatest   = "hearthguard:latest"
	keyHistory  = "hearthguard:history"
	keyBaseline = "hearthguard:baseline"
)

// DefaultHistoryCap bounds the rolling history list. Oldest entries are
// evicted beyond it.
const DefaultHistoryCap = 24

// Slots is the snapshot lifecycle layer over a KV backend. Reads run the
// schema migrator and write migrated records back in canonical shape, so
// each legacy record pays the migration cost once.
type Slots struct {
	kv       KV
	migrator *migrate.Migrator
	cap      int
	log      *slog.Logger
}

// NewSlots wires the slot layer. historyCap <= 0 selects the default.
func NewSlots(kv KV, migrator *migrate.Migrator, historyCap int, log *slog.Logger) *Slots {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	if log == nil {
		log = slog.Default()
	}
	return &Slots{kv: kv, migrator: migrator, cap: historyCap, log: log}
}

// ReadLatest returns the latest snapshot, migrated to canonical shape.
// Absence and unrecoverable stored data both surface as
// migrate.ErrNoSnapshot.
func (s *Slots) ReadLatest(ctx context.Context) (*snapshot.Snapshot, error) {
	return s.readSlot(ctx, keyLatest)
}

// WriteLatest replaces the latest slot with the canonical serialization of
// snap.
func (s *Slots) WriteLatest(ctx context.Context, snap *snapshot.Snapshot) error {
	return s.writeSlot(ctx, keyLatest, snap)
}

// ReadBaseline returns the baseline snapshot, migrated to canonical shape.
func (s *Slots) ReadBaseline(ctx context.Context) (*snapshot.Snapshot, error) {
	return s.readSlot(ctx, keyBaseline)
}

// WriteBaseline copies snap into the baseline slot.
func (s *Slots) WriteBaseline(ctx context.Context, snap *snapshot.Snapshot) error {
	return s.writeSlot(ctx, keyBaseline, snap)
}

// AppendHistory prepends snap to the history list and evicts entries
// beyond the cap.
func (s *Slots) AppendHistory(ctx context.Context, snap *snapshot.Snapshot) error {
	raw, err := snapshot.Serialize(snap)
	if err != nil {
		return err
	}

	entries, err := s.rawHistory(ctx)
	if err != nil {
		return err
	}
	entries = append([]json.RawMessage{raw}, entries...)
	if len(entries) > s.cap {
		entries = entries[:s.cap]
	}

	out, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keyHistory, string(out))
}

// ReadHistory returns the history list, newest first, each entry migrated
// to canonical shape. Entries that cannot be interpreted as any snapshot
// generation are skipped, not fatal: one corrupt record must not hide the
// rest of the household's history.
func (s *Slots) ReadHistory(ctx context.Context) ([]*snapshot.Snapshot, error) {
	entries, err := s.rawHistory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*snapshot.Snapshot, 0, len(entries))
	for i, raw := range entries {
		snap, _, err := s.migrator.Migrate(raw)
		if err != nil {
			s.log.Warn("skipping unreadable history entry", "index", i)
			continue
		}
		out = append(out, snap)
	}
	return out, nil
}

// Clear removes every slot.
func (s *Slots) Clear(ctx context.Context) error {
	for _, key := range []string{keyLatest, keyHistory, keyBaseline} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Slots) readSlot(ctx context.Context, key string) (*snapshot.Snapshot, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, migrate.ErrNoSnapshot
	}

	snap, shape, err := s.migrator.Migrate([]byte(raw))
	if err != nil {
		return nil, err
	}
	if shape != migrate.ShapeV3 {
		// Write back canonical so future reads skip migration. Best
		// effort: a failed write-back still returns the migrated record.
		if err := s.writeSlot(ctx, key, snap); err != nil {
			s.log.Warn("migration write-back failed", "key", key, "error", err)
		} else {
			s.log.Info("migrated stored snapshot", "key", key, "from", string(shape))
		}
	}
	return snap, nil
}

func (s *Slots) writeSlot(ctx context.Context, key string, snap *snapshot.Snapshot) error {
	raw, err := snapshot.Serialize(snap)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Slots) rawHistory(ctx context.Context) ([]json.RawMessage, error) {
	raw, ok, err := s.kv.Get(ctx, keyHistory)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		// A history list that is not a list at all starts over empty.
		s.log.Warn("history slot unreadable, starting fresh")
		return nil, nil
	}
	return entries, nil
}
