package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPack marks a content-authoring failure. It is a hard error:
// scoring is never attempted against a pack that failed validation.
var ErrInvalidPack = errors.New("content pack invalid")

// packConstraint is the pack major line this engine understands.
const packConstraint = "^1.0.0"

// LoadPack reads, validates and normalizes a content pack from disk.
// JSON packs are additionally checked against the embedded JSON Schema
// before decoding; YAML packs rely on the structural validation below.
func LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pack %q: %w", path, err)
	}

	var pack Pack
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := validateJSONPack(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("%w: parse %q: %v", ErrInvalidPack, path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("%w: parse %q: %v", ErrInvalidPack, path, err)
		}
	}

	if err := pack.Finalize(); err != nil {
		return nil, err
	}
	return &pack, nil
}

// ParsePackYAML decodes and finalizes a pack from in-memory YAML.
func ParsePackYAML(data []byte) (*Pack, error) {
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	if err := pack.Finalize(); err != nil {
		return nil, err
	}
	return &pack, nil
}

// Finalize checks the pack version against the supported line, normalizes
// weights and lens tags, and validates the tables. It must run exactly once
// before the pack is handed to the engine.
func (p *Pack) Finalize() error {
	if p.Version == "" {
		return fmt.Errorf("%w: missing version", ErrInvalidPack)
	}
	v, err := semver.NewVersion(p.Version)
	if err != nil {
		return fmt.Errorf("%w: version %q: %v", ErrInvalidPack, p.Version, err)
	}
	c, err := semver.NewConstraint(packConstraint)
	if err != nil {
		return fmt.Errorf("pack constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: version %s outside supported line %s", ErrInvalidPack, v, packConstraint)
	}

	if err := p.normalize(); err != nil {
		return err
	}
	return p.validate()
}

func (p *Pack) normalize() error {
	div, err := p.scaleDivisor()
	if err != nil {
		return err
	}

	for qi := range p.Questions {
		q := &p.Questions[qi]
		q.Lens = NormalizeLens(string(q.Lens))
		for oi := range q.Options {
			q.Options[oi].Weight = clamp01(q.Options[oi].Weight / div)
		}
	}
	for i := range p.Rules {
		p.Rules[i].Value = clamp01(p.Rules[i].Value / div)
	}
	for i := range p.Actions {
		a := &p.Actions[i]
		a.Lens = NormalizeLens(string(a.Lens))
		if a.Eligibility.Lens != "" {
			a.Eligibility.Lens = NormalizeLens(string(a.Eligibility.Lens))
		}
		if a.Eligibility.MaxOverall == 0 {
			a.Eligibility.MaxOverall = 100
		}
		if a.Eligibility.MaxLens == 0 {
			a.Eligibility.MaxLens = 100
		}
	}
	for i := range p.Insights {
		p.Insights[i].Lens = NormalizeLens(string(p.Insights[i].Lens))
	}
	p.WeightScale = ScaleUnit
	return nil
}

func (p *Pack) scaleDivisor() (float64, error) {
	switch p.WeightScale {
	case "", ScaleUnit:
		return 1, nil
	case ScalePercent:
		return 100, nil
	case ScaleTwenty:
		return 20, nil
	default:
		return 0, fmt.Errorf("%w: unknown weight_scale %q", ErrInvalidPack, p.WeightScale)
	}
}

func (p *Pack) validate() error {
	if len(p.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidPack)
	}
	seenQ := make(map[string]bool, len(p.Questions))
	for _, q := range p.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question with empty id", ErrInvalidPack)
		}
		if seenQ[q.ID] {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidPack, q.ID)
		}
		seenQ[q.ID] = true
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %q has no options", ErrInvalidPack, q.ID)
		}
		seenO := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if o.ID == "" {
				return fmt.Errorf("%w: question %q has an option with empty id", ErrInvalidPack, q.ID)
			}
			if seenO[o.ID] {
				return fmt.Errorf("%w: question %q duplicate option id %q", ErrInvalidPack, q.ID, o.ID)
			}
			seenO[o.ID] = true
		}
	}

	if err := validateBands(p.Bands); err != nil {
		return err
	}

	seenA := make(map[string]bool, len(p.Actions))
	for _, a := range p.Actions {
		if a.ID == "" {
			return fmt.Errorf("%w: action with empty id", ErrInvalidPack)
		}
		if seenA[a.ID] {
			return fmt.Errorf("%w: duplicate action id %q", ErrInvalidPack, a.ID)
		}
		seenA[a.ID] = true
		if len(a.Steps) > 6 {
			return fmt.Errorf("%w: action %q has %d steps (max 6)", ErrInvalidPack, a.ID, len(a.Steps))
		}
	}
	return nil
}

// validateBands enforces an ordered, contiguous, non-overlapping band table
// covering [0,100]. The classifier still fails closed at runtime, but a
// malformed table is an authoring bug and is rejected at load.
func validateBands(bands []Band) error {
	if len(bands) == 0 {
		return fmt.Errorf("%w: no bands", ErrInvalidPack)
	}
	next := 0
	for i, b := range bands {
		if b.Label == "" || b.Slug == "" {
			return fmt.Errorf("%w: band %d missing label or slug", ErrInvalidPack, i)
		}
		if b.Min != next {
			return fmt.Errorf("%w: band %q starts at %d, expected %d", ErrInvalidPack, b.Slug, b.Min, next)
		}
		if b.Max < b.Min {
			return fmt.Errorf("%w: band %q has max < min", ErrInvalidPack, b.Slug)
		}
		next = b.Max + 1
	}
	if next != 101 {
		return fmt.Errorf("%w: band table ends at %d, expected 100", ErrInvalidPack, next-1)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
