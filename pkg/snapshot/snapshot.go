// Package snapshot defines the canonical signal record and the builder
// that assembles one from an answer set and a content pack. A snapshot is
// immutable once built: every change to the household's signal is a new
// record that replaces the old one wholesale.
package snapshot

import (
	"fmt"
	"time"

	"github.com/Hearthguard-Labs/hearthguard/pkg/canon"
	"github.com/Hearthguard-Labs/hearthguard/pkg/content"
	"github.com/Hearthguard-Labs/hearthguard/pkg/scoring"
)

// SchemaVersion is the canonical record generation. Older persisted shapes
// are migrated forward to this one on read.
const SchemaVersion = "3"

// MaxActions caps the recommended-action list.
const MaxActions = 8

// BandRef is the classified band as recorded on the snapshot.
type BandRef struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// ActionItem is one recommended action carried on the snapshot.
type ActionItem struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Lens    content.Lens `json:"lens"`
	Summary string       `json:"summary"`
	Steps   []string     `json:"steps,omitempty"`
}

// InsightRef is the narrative copy selected for the focus lens.
type InsightRef struct {
	ID   string       `json:"id"`
	Lens content.Lens `json:"lens"`
	Text string       `json:"text"`
}

// Snapshot is the canonical, versioned signal record.
type Snapshot struct {
	SchemaVersion string               `json:"schemaVersion"`
	CreatedAt     time.Time            `json:"createdAt"`
	ID            string               `json:"id"`
	Overall       int                  `json:"overall"`
	Lenses        map[content.Lens]int `json:"lenses"`
	Band          BandRef              `json:"band"`
	Strongest     content.Lens         `json:"strongest"`
	Weakest       content.Lens         `json:"weakest"`
	Focus         content.Lens         `json:"focus"`
	Actions       []ActionItem         `json:"actions"`
	Insight       *InsightRef          `json:"insight,omitempty"`
	Answers       map[string]string    `json:"answers"`
}

// DeriveID computes the stable snapshot id from the creation time truncated
// to whole seconds and the answer set. Two computations with identical
// truncated time and identical answers yield identical ids.
func DeriveID(createdAt time.Time, answers map[string]string) (string, error) {
	if answers == nil {
		answers = map[string]string{}
	}
	digest, err := canon.Hash(map[string]any{
		"createdAt": createdAt.Truncate(time.Second).Unix(),
		"answers":   answers,
	})
	if err != nil {
		return "", fmt.Errorf("derive id: %w", err)
	}
	return digest[:16], nil
}

// Validate checks the internal consistency a canonical snapshot must hold:
// version, ranges, and overall/lenses agreement modulo rounding.
func Validate(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("nil snapshot")
	}
	if s.SchemaVersion != SchemaVersion {
		return fmt.Errorf("schema version %q, want %q", s.SchemaVersion, SchemaVersion)
	}
	if s.Overall < 0 || s.Overall > 100 {
		return fmt.Errorf("overall %d out of range", s.Overall)
	}
	for lens, v := range s.Lenses {
		if v < 0 || v > 100 {
			return fmt.Errorf("lens %s score %d out of range", lens, v)
		}
	}
	if len(s.Lenses) > 0 && s.Overall != scoring.Overall(s.Lenses) {
		return fmt.Errorf("overall %d inconsistent with lenses (want %d)", s.Overall, scoring.Overall(s.Lenses))
	}
	if len(s.Actions) > MaxActions {
		return fmt.Errorf("%d actions exceeds cap %d", len(s.Actions), MaxActions)
	}
	return nil
}

// CloneAnswers copies an answer set, normalizing nil to an empty map.
func CloneAnswers(answers map[string]string) map[string]string {
	out := make(map[string]string, len(answers))
	for k, v := range answers {
		out[k] = v
	}
	return out
}
