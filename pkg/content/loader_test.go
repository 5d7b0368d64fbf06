package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPack_LoadsAndNormalizes(t *testing.T) {
	pack, err := DefaultPack()
	require.NoError(t, err)

	assert.Len(t, pack.Questions, 10)
	assert.Equal(t, ScaleUnit, pack.WeightScale)

	// Authored on the 0-20 scale; after normalization every weight sits in
	// [0,1] and the top options are exactly 1.
	for _, q := range pack.Questions {
		for _, o := range q.Options {
			assert.GreaterOrEqual(t, o.Weight, 0.0, "question %s option %s", q.ID, o.ID)
			assert.LessOrEqual(t, o.Weight, 1.0, "question %s option %s", q.ID, o.ID)
		}
	}
	q := pack.Questions[0]
	assert.Equal(t, "net-router-password", q.ID)
	assert.Equal(t, 1.0, q.Options[0].Weight)
	assert.Equal(t, 0.5, q.Options[1].Weight)

	// Two questions per lens, five lenses.
	byLens := pack.QuestionsByLens()
	assert.Len(t, byLens, 5)
	for lens, qs := range byLens {
		assert.Len(t, qs, 2, "lens %s", lens)
	}
}

func TestPack_VersionGate(t *testing.T) {
	for _, tc := range []struct {
		version string
		ok      bool
	}{
		{"1.0.0", true},
		{"1.7.3", true},
		{"2.0.0", false},
		{"0.9.0", false},
		{"", false},
		{"not-a-version", false},
	} {
		pack := minimalPack()
		pack.Version = tc.version
		err := pack.Finalize()
		if tc.ok {
			assert.NoError(t, err, "version %q", tc.version)
		} else {
			assert.ErrorIs(t, err, ErrInvalidPack, "version %q", tc.version)
		}
	}
}

func TestPack_WeightScales(t *testing.T) {
	pack := minimalPack()
	pack.WeightScale = ScalePercent
	pack.Questions[0].Options[0].Weight = 80
	require.NoError(t, pack.Finalize())
	assert.Equal(t, 0.8, pack.Questions[0].Options[0].Weight)

	pack = minimalPack()
	pack.WeightScale = "furlongs"
	assert.ErrorIs(t, pack.Finalize(), ErrInvalidPack)
}

func TestPack_WeightClamped(t *testing.T) {
	pack := minimalPack()
	pack.Questions[0].Options[0].Weight = 3.5
	require.NoError(t, pack.Finalize())
	assert.Equal(t, 1.0, pack.Questions[0].Options[0].Weight)
}

func TestPack_ValidationFailures(t *testing.T) {
	t.Run("duplicate question id", func(t *testing.T) {
		pack := minimalPack()
		pack.Questions = append(pack.Questions, pack.Questions[0])
		assert.ErrorIs(t, pack.Finalize(), ErrInvalidPack)
	})

	t.Run("question without options", func(t *testing.T) {
		pack := minimalPack()
		pack.Questions[0].Options = nil
		assert.ErrorIs(t, pack.Finalize(), ErrInvalidPack)
	})

	t.Run("band gap", func(t *testing.T) {
		pack := minimalPack()
		pack.Bands = []Band{
			{Min: 0, Max: 49, Label: "Low", Slug: "low"},
			{Min: 60, Max: 100, Label: "High", Slug: "high"},
		}
		assert.ErrorIs(t, pack.Finalize(), ErrInvalidPack)
	})

	t.Run("band table short of 100", func(t *testing.T) {
		pack := minimalPack()
		pack.Bands = []Band{{Min: 0, Max: 90, Label: "Low", Slug: "low"}}
		assert.ErrorIs(t, pack.Finalize(), ErrInvalidPack)
	})

	t.Run("too many steps", func(t *testing.T) {
		pack := minimalPack()
		pack.Actions = []ActionSeed{{
			ID:    "a1",
			Title: "t",
			Lens:  LensNetwork,
			Steps: []string{"1", "2", "3", "4", "5", "6", "7"},
		}}
		assert.ErrorIs(t, pack.Finalize(), ErrInvalidPack)
	})
}

func TestPack_UnknownLensNormalized(t *testing.T) {
	pack := minimalPack()
	pack.Questions[0].Lens = "finances"
	require.NoError(t, pack.Finalize())
	assert.Equal(t, LensUnknown, pack.Questions[0].Lens)
}

func TestPack_EligibilityDefaults(t *testing.T) {
	pack := minimalPack()
	pack.Actions = []ActionSeed{{ID: "a1", Title: "t", Lens: LensNetwork}}
	require.NoError(t, pack.Finalize())
	assert.Equal(t, 100, pack.Actions[0].Eligibility.MaxOverall)
	assert.Equal(t, 100, pack.Actions[0].Eligibility.MaxLens)
}

func TestLoadPack_JSONSchema(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "pack.json")
	require.NoError(t, os.WriteFile(good, []byte(`{
		"version": "1.0.0",
		"questions": [
			{"id": "q1", "lens": "network", "options": [{"id": "a", "weight": 1}]}
		],
		"bands": [{"min": 0, "max": 100, "label": "All", "slug": "all"}]
	}`), 0o644))
	pack, err := LoadPack(good)
	require.NoError(t, err)
	assert.Len(t, pack.Questions, 1)

	// Missing required "version" fails schema validation before decoding.
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{
		"questions": [], "bands": []
	}`), 0o644))
	_, err = LoadPack(bad)
	assert.ErrorIs(t, err, ErrInvalidPack)
}

func TestLoadPack_YAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: "1.0.0"
weight_scale: twenty
questions:
  - id: q1
    lens: scams
    options:
      - { id: a, weight: 20 }
      - { id: b, weight: 5 }
bands:
  - { min: 0, max: 100, label: All, slug: all }
`), 0o644))

	pack, err := LoadPack(path)
	require.NoError(t, err)
	assert.Equal(t, LensScams, pack.Questions[0].Lens)
	assert.Equal(t, 1.0, pack.Questions[0].Options[0].Weight)
	assert.Equal(t, 0.25, pack.Questions[0].Options[1].Weight)
}

func minimalPack() *Pack {
	return &Pack{
		Version: "1.0.0",
		Questions: []Question{
			{
				ID:   "q1",
				Lens: LensNetwork,
				Options: []Option{
					{ID: "a", Weight: 1},
					{ID: "b", Weight: 0},
				},
			},
		},
		Bands: []Band{{Min: 0, Max: 100, Label: "All", Slug: "all"}},
	}
}
