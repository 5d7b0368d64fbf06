package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hearthguard-Labs/hearthguard/pkg/content"
)

func twoLensPack() *content.Pack {
	return &content.Pack{
		Version: "1.0.0",
		Questions: []content.Question{
			{ID: "n1", Lens: content.LensNetwork, Options: []content.Option{
				{ID: "good", Weight: 1.0},
				{ID: "bad", Weight: 0.0},
			}},
			{ID: "n2", Lens: content.LensNetwork, Options: []content.Option{
				{ID: "good", Weight: 1.0},
				{ID: "bad", Weight: 0.0},
			}},
			{ID: "s1", Lens: content.LensScams, Options: []content.Option{
				{ID: "good", Weight: 0.8},
				{ID: "bad", Weight: 0.2},
			}},
		},
		Rules: []content.Rule{
			{Question: "n1", Option: "legacy-good", Value: 0.9},
		},
	}
}

func TestLensScores_NeutralDefault(t *testing.T) {
	pack := twoLensPack()
	scores := LensScores(pack, Answers{})

	// Every unanswered question contributes 0.5, so every lens lands on 50.
	assert.Equal(t, map[content.Lens]int{
		content.LensNetwork: 50,
		content.LensScams:   50,
	}, scores)
	assert.Equal(t, 50, Overall(scores))
}

func TestLensScores_UnansweredStaysInDenominator(t *testing.T) {
	pack := twoLensPack()
	scores := LensScores(pack, Answers{"n1": "good"})

	// (1.0 + 0.5) / 2, not 1.0 / 1.
	assert.Equal(t, 75, scores[content.LensNetwork])
}

func TestLensScores_RuleOverride(t *testing.T) {
	pack := twoLensPack()
	scores := LensScores(pack, Answers{"n1": "legacy-good", "n2": "good"})

	// legacy-good is not a declared option; the rule table supplies 0.9.
	assert.Equal(t, 95, scores[content.LensNetwork])
}

func TestLensScores_UnrecognizedChoiceIsNeutral(t *testing.T) {
	pack := twoLensPack()
	with := LensScores(pack, Answers{"s1": "no-such-option"})
	without := LensScores(pack, Answers{})
	assert.Equal(t, without, with)
}

func TestLensScores_OmitsLensWithoutQuestions(t *testing.T) {
	pack := twoLensPack()
	scores := LensScores(pack, Answers{})
	_, ok := scores[content.LensWellbeing]
	assert.False(t, ok, "lens without questions must be omitted, not reported as 0")
}

func TestOverall(t *testing.T) {
	assert.Equal(t, 0, Overall(nil))
	assert.Equal(t, 78, Overall(map[content.Lens]int{
		content.LensNetwork: 80,
		content.LensDevices: 75,
	}))
	// Rounded, not truncated.
	assert.Equal(t, 67, Overall(map[content.Lens]int{
		content.LensNetwork: 100,
		content.LensDevices: 100,
		content.LensPrivacy: 0,
	}))
}

func TestRank_TieBreakCanonicalOrder(t *testing.T) {
	lenses := map[content.Lens]int{
		content.LensWellbeing: 70,
		content.LensScams:     70,
		content.LensNetwork:   70,
	}
	for i := 0; i < 50; i++ {
		strongest, weakest := Rank(lenses)
		require.Equal(t, content.LensNetwork, strongest)
		require.Equal(t, content.LensNetwork, weakest)
	}
}

func TestRank(t *testing.T) {
	strongest, weakest := Rank(map[content.Lens]int{
		content.LensNetwork:   40,
		content.LensDevices:   90,
		content.LensWellbeing: 10,
	})
	assert.Equal(t, content.LensDevices, strongest)
	assert.Equal(t, content.LensWellbeing, weakest)
}

func TestFocus(t *testing.T) {
	assert.Equal(t, content.LensScams, Focus(content.LensScams, ""))
	assert.Equal(t, content.LensPrivacy, Focus(content.LensScams, content.LensPrivacy))
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0, ClampPercent(-3))
	assert.Equal(t, 100, ClampPercent(140))
	assert.Equal(t, 55, ClampPercent(55))
}
