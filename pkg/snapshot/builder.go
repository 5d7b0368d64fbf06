package snapshot

import (
	"fmt"
	"time"

	"github.com/Hearthguard-Labs/hearthguard/pkg/content"
	"github.com/Hearthguard-Labs/hearthguard/pkg/eligibility"
	"github.com/Hearthguard-Labs/hearthguard/pkg/scoring"
	"github.com/Hearthguard-Labs/hearthguard/pkg/selector"
)

// insightKind is the narrative pool consulted for the focus lens.
const insightKind = "focus"

// Builder turns answer sets into canonical snapshots. It is pure given its
// inputs: the pack, the answers, and the clock value used for createdAt are
// the only things that participate. Safe for concurrent use.
type Builder struct {
	pack *content.Pack
	elig *eligibility.Evaluator
	now  func() time.Time
}

// Options adjust a single Build call.
type Options struct {
	// At supplies the creation time; zero means "now". It is truncated to
	// whole seconds before deriving the snapshot id.
	At time.Time
	// FocusOverride pins the focus lens instead of defaulting to weakest.
	FocusOverride content.Lens
}

// NewBuilder validates the pack's eligibility expressions up front and
// returns a builder bound to the pack. A pack whose CEL fails to compile is
// a content-authoring bug and is rejected here, not during Build.
func NewBuilder(pack *content.Pack) (*Builder, error) {
	if pack == nil || len(pack.Questions) == 0 {
		return nil, fmt.Errorf("%w: empty pack", content.ErrInvalidPack)
	}
	elig, err := eligibility.NewEvaluator()
	if err != nil {
		return nil, err
	}
	for _, a := range pack.Actions {
		if a.Eligibility.When == "" {
			continue
		}
		if err := elig.Compile(a.Eligibility.When); err != nil {
			return nil, fmt.Errorf("%w: action %q: %v", content.ErrInvalidPack, a.ID, err)
		}
	}
	return &Builder{pack: pack, elig: elig, now: time.Now}, nil
}

// WithClock replaces the builder's clock. Tests pin it; production leaves
// it alone.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build computes the canonical snapshot for one completed questionnaire
// session.
func (b *Builder) Build(answers scoring.Answers, opts Options) (*Snapshot, error) {
	at := opts.At
	if at.IsZero() {
		at = b.now()
	}
	createdAt := at.Truncate(time.Second).UTC()

	lenses := scoring.LensScores(b.pack, answers)
	overall := scoring.Overall(lenses)
	band := scoring.Classify(b.pack.Bands, overall)
	strongest, weakest := scoring.Rank(lenses)
	focus := scoring.Focus(weakest, opts.FocusOverride)

	id, err := DeriveID(createdAt, answers)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		SchemaVersion: SchemaVersion,
		CreatedAt:     createdAt,
		ID:            id,
		Overall:       overall,
		Lenses:        lenses,
		Band:          BandRef{Label: band.Label, Slug: band.Slug},
		Strongest:     strongest,
		Weakest:       weakest,
		Focus:         focus,
		Actions:       b.selectActions(id, overall, lenses),
		Insight:       b.selectInsight(focus, id),
		Answers:       CloneAnswers(answers),
	}
	if err := Validate(s); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return s, nil
}

// selectActions filters the action pool by eligibility, then keeps at most
// MaxActions of them. When the eligible set overflows the cap, the kept
// window is rotated by the selection hash so the choice stays a pure
// function of the snapshot id, not of any runtime state.
func (b *Builder) selectActions(snapshotID string, overall int, lenses map[content.Lens]int) []ActionItem {
	var eligible []content.ActionSeed
	for _, seed := range b.pack.Actions {
		// Compile errors were rejected in NewBuilder; an evaluation error
		// here (say, a lens the expression names but the pack never scores)
		// makes the action ineligible rather than failing the build.
		ok, err := b.elig.Eligible(seed.Eligibility, overall, lenses)
		if err != nil || !ok {
			continue
		}
		eligible = append(eligible, seed)
	}

	items := make([]ActionItem, 0, MaxActions)
	if n := len(eligible); n > MaxActions {
		start := selector.Index("all:action:"+snapshotID, n)
		for i := 0; i < MaxActions; i++ {
			seed := eligible[(start+i)%n]
			items = append(items, actionItem(seed))
		}
	} else {
		for _, seed := range eligible {
			items = append(items, actionItem(seed))
		}
	}
	return items
}

func (b *Builder) selectInsight(focus content.Lens, snapshotID string) *InsightRef {
	pool := b.pack.InsightsFor(focus, insightKind)
	picked := selector.Pick(pool, fmt.Sprintf("%s:%s:%s", focus, insightKind, snapshotID))
	if picked == nil {
		return nil
	}
	return &InsightRef{ID: picked.ID, Lens: picked.Lens, Text: picked.Text}
}

func actionItem(seed content.ActionSeed) ActionItem {
	steps := make([]string, len(seed.Steps))
	copy(steps, seed.Steps)
	return ActionItem{
		ID:      seed.ID,
		Title:   seed.Title,
		Lens:    seed.Lens,
		Summary: seed.Summary,
		Steps:   steps,
	}
}
