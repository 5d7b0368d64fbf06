// Package migrate normalizes persisted snapshot records of any historical
// generation into the canonical shape. Three shapes exist in the wild:
//
//   - legacy-v1: no schemaVersion, qualitative "tone"/"certificationLevel"
//     fields, numeric scores under "score"/"scores".
//   - legacy-v2: "hdss" overall with "lensScores" and a "stage" string.
//   - canonical-v3: schemaVersion "3".
//
// Detection is by presence of version-discriminating fields, applied once
// per read. Transitions preserve the original answers, recompute what the
// legacy shape cannot supply directly instead of inventing values, and
// never fail on a partially-populated record. Stored data that is not an
// object at all is "no snapshot", not an error.
package migrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Hearthguard-Labs/hearthguard/pkg/content"
	"github.com/Hearthguard-Labs/hearthguard/pkg/scoring"
	"github.com/Hearthguard-Labs/hearthguard/pkg/snapshot"
)

// ErrNoSnapshot means the stored value could not be interpreted as any
// snapshot generation. Callers treat it as absence, not failure.
var ErrNoSnapshot = errors.New("no snapshot")

// Shape names a snapshot record generation.
type Shape string

const (
	ShapeV1 Shape = "legacy-v1"
	ShapeV2 Shape = "legacy-v2"
	ShapeV3 Shape = "canonical-v3"
)

// Migrator carries the band table used to re-derive band labels for legacy
// records. Bands may be nil; legacy labels are then kept as authored.
type Migrator struct {
	Bands []content.Band
}

// Migrate parses a stored record and returns its canonical form plus the
// shape it was found in. A ShapeV3 result needed no migration; anything
// else should be written back in canonical form by the caller.
func (m *Migrator) Migrate(raw []byte) (*snapshot.Snapshot, Shape, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, "", ErrNoSnapshot
	}

	shape := DetectShape(obj)
	switch shape {
	case ShapeV3:
		s, err := m.passThrough(raw)
		return s, shape, err
	case ShapeV1:
		return m.fromLegacy(obj, "tone"), shape, nil
	default:
		return m.fromLegacy(obj, "stage"), shape, nil
	}
}

// DetectShape classifies a decoded record by its discriminating fields.
func DetectShape(obj map[string]any) Shape {
	version, _ := obj["schemaVersion"].(string)
	if version == snapshot.SchemaVersion {
		return ShapeV3
	}
	if version == "" {
		if _, ok := obj["tone"]; ok {
			return ShapeV1
		}
	}
	if _, ok := obj["hdss"]; ok {
		return ShapeV2
	}
	return ShapeV3
}

// passThrough decodes a canonical record, filling gaps a sloppy writer may
// have left: nil maps become empty, missing rankings are re-derived, and a
// missing id is recomputed from the record's own identity inputs.
func (m *Migrator) passThrough(raw []byte) (*snapshot.Snapshot, error) {
	var s snapshot.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, ErrNoSnapshot
	}
	s.SchemaVersion = snapshot.SchemaVersion
	if s.Lenses == nil {
		s.Lenses = map[content.Lens]int{}
	}
	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
	if s.Actions == nil {
		s.Actions = []snapshot.ActionItem{}
	}
	if (s.Strongest == "" || s.Weakest == "") && len(s.Lenses) > 0 {
		s.Strongest, s.Weakest = scoring.Rank(s.Lenses)
	}
	if s.Focus == "" {
		s.Focus = s.Weakest
	}
	if s.ID == "" {
		id, err := snapshot.DeriveID(s.CreatedAt, s.Answers)
		if err != nil {
			return nil, err
		}
		s.ID = id
	}
	return &s, nil
}

// fromLegacy lifts either legacy generation. The two differ only in which
// field carried the qualitative label; the numeric fields are read through
// the same aliases because historical writers mixed them freely.
func (m *Migrator) fromLegacy(obj map[string]any, labelField string) *snapshot.Snapshot {
	answers := answersOf(obj["answers"])
	lenses := lensesOf(firstPresent(obj, "lensScores", "scores", "lenses"))

	overall, haveOverall := intOf(firstPresent(obj, "hdss", "score", "overall"))
	if !haveOverall {
		if len(lenses) > 0 {
			overall = scoring.Overall(lenses)
		} else {
			overall = 0
		}
	}
	overall = scoring.ClampPercent(overall)

	createdAt := timeOf(firstPresent(obj, "createdAt", "ts", "timestamp"))

	strongest, weakest := scoring.Rank(lenses)
	focus := weakest
	if f, ok := obj["focus"].(string); ok && f != "" {
		focus = content.NormalizeLens(f)
	}

	label, _ := obj[labelField].(string)
	band := m.resolveBand(label, overall)

	id, _ := obj["id"].(string)
	if id == "" {
		id, _ = snapshot.DeriveID(createdAt, answers)
	}

	return &snapshot.Snapshot{
		SchemaVersion: snapshot.SchemaVersion,
		CreatedAt:     createdAt,
		ID:            id,
		Overall:       overall,
		Lenses:        lenses,
		Band:          band,
		Strongest:     strongest,
		Weakest:       weakest,
		Focus:         focus,
		Actions:       []snapshot.ActionItem{},
		Answers:       answers,
	}
}

// resolveBand maps a legacy qualitative label onto the loaded band table.
// A label that matches no known band does not survive migration: with a
// table present the band is re-derived from the migrated overall, and only
// without a table is the authored label kept verbatim.
func (m *Migrator) resolveBand(label string, overall int) snapshot.BandRef {
	normalized := slugify(label)
	for _, b := range m.Bands {
		if b.Slug == normalized || slugify(b.Label) == normalized {
			return snapshot.BandRef{Label: b.Label, Slug: b.Slug}
		}
	}
	if len(m.Bands) > 0 {
		b := scoring.Classify(m.Bands, overall)
		return snapshot.BandRef{Label: b.Label, Slug: b.Slug}
	}
	if label == "" {
		return snapshot.BandRef{Label: scoring.UnknownBand.Label, Slug: scoring.UnknownBand.Slug}
	}
	return snapshot.BandRef{Label: label, Slug: normalized}
}

func firstPresent(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func answersOf(v any) map[string]string {
	out := map[string]string{}
	raw, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for k, val := range raw {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

func lensesOf(v any) map[content.Lens]int {
	out := map[content.Lens]int{}
	raw, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for k, val := range raw {
		if n, ok := intOf(val); ok {
			out[content.NormalizeLens(k)] = scoring.ClampPercent(n)
		}
	}
	return out
}

func intOf(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return int(f + 0.5), true
	case float64:
		return int(n + 0.5), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

// timeOf accepts the timestamp spellings legacy writers used: RFC 3339
// strings, unix seconds, or unix milliseconds. Missing means the zero time.
func timeOf(v any) time.Time {
	switch t := v.(type) {
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed.Truncate(time.Second).UTC()
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			if n > 1_000_000_000_000 {
				return time.UnixMilli(n).Truncate(time.Second).UTC()
			}
			return time.Unix(n, 0).UTC()
		}
	}
	return time.Time{}
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "-")
}
