// Package scoring holds the pure arithmetic of the signal: per-lens
// aggregation, the overall score, band classification, and the
// strongest/weakest/focus ranking. Every function is deterministic over its
// inputs; map iteration never influences a result.
package scoring

import (
	"math"
	"sort"

	"github.com/Hearthguard-Labs/hearthguard/pkg/content"
)

// neutralValue is what an unanswered or unrecognized answer contributes.
// Unanswered questions stay in the denominator at this value; they are
// never scored as zero.
const neutralValue = 0.5

// Answers maps question id to the chosen option id. Single-select only;
// upstream multi-select UIs must pass the first selection.
type Answers map[string]string

// LensScores computes one integer percentage per lens that has at least
// one question. Lenses with zero questions are omitted entirely.
func LensScores(pack *content.Pack, answers Answers) map[content.Lens]int {
	byLens := pack.QuestionsByLens()
	out := make(map[content.Lens]int, len(byLens))
	for lens, questions := range byLens {
		if len(questions) == 0 {
			continue
		}
		sum := 0.0
		for _, q := range questions {
			sum += resolveValue(pack, q, answers)
		}
		out[lens] = roundPercent(sum / float64(len(questions)))
	}
	return out
}

// resolveValue maps one question to its answered value in [0,1]: the
// declared option weight when the chosen option is known, else a
// scoring-rule override, else neutral.
func resolveValue(pack *content.Pack, q content.Question, answers Answers) float64 {
	chosen, ok := answers[q.ID]
	if !ok || chosen == "" {
		return neutralValue
	}
	for _, o := range q.Options {
		if o.ID == chosen {
			return o.Weight
		}
	}
	if v, ok := pack.RuleValue(q.ID, chosen); ok {
		return v
	}
	return neutralValue
}

// Overall is the unweighted mean of the present lens percentages, so each
// topic contributes equally regardless of how many questions probe it.
func Overall(lenses map[content.Lens]int) int {
	if len(lenses) == 0 {
		return 0
	}
	sum := 0
	for _, v := range lenses {
		sum += v
	}
	return ClampPercent(int(math.Round(float64(sum) / float64(len(lenses)))))
}

// Rank returns the strongest and weakest lenses. Ties resolve to the
// earliest lens in canonical order, so the same scores always produce the
// same ranking regardless of map iteration order.
func Rank(lenses map[content.Lens]int) (strongest, weakest content.Lens) {
	ordered := SortedLenses(lenses)
	if len(ordered) == 0 {
		return "", ""
	}
	strongest, weakest = ordered[0], ordered[0]
	for _, l := range ordered[1:] {
		if lenses[l] > lenses[strongest] {
			strongest = l
		}
		if lenses[l] < lenses[weakest] {
			weakest = l
		}
	}
	return strongest, weakest
}

// Focus returns the lens the household should act on next: the explicit
// override when one is pinned, otherwise the weakest lens.
func Focus(weakest, override content.Lens) content.Lens {
	if override != "" {
		return override
	}
	return weakest
}

// SortedLenses returns the present lenses in canonical order.
func SortedLenses(lenses map[content.Lens]int) []content.Lens {
	out := make([]content.Lens, 0, len(lenses))
	for l := range lenses {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank() < out[j].Rank() })
	return out
}

// ClampPercent clamps to [0,100].
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func roundPercent(avg float64) int {
	return ClampPercent(int(math.Round(avg * 100)))
}
