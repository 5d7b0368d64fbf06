// Package content defines the static content tables the scoring engine
// consumes: the question table, scoring-rule overrides, the band table, and
// the action/insight pools. Tables are authored as YAML or JSON "packs",
// validated and normalized at load time; the engine never sees a raw pack.
package content

// Lens is one of the fixed household-safety topics questions and
// recommendations are grouped by.
type Lens string

const (
	LensNetwork   Lens = "network"
	LensDevices   Lens = "devices"
	LensPrivacy   Lens = "privacy"
	LensScams     Lens = "scams"
	LensWellbeing Lens = "wellbeing"

	// LensUnknown absorbs unrecognized lens tags. Unknown lenses are
	// scored like any other, never rejected.
	LensUnknown Lens = "unknown"
)

// CanonicalLensOrder is the tie-break order for rankings. LensUnknown sorts
// after every named lens.
var CanonicalLensOrder = []Lens{
	LensNetwork,
	LensDevices,
	LensPrivacy,
	LensScams,
	LensWellbeing,
	LensUnknown,
}

var lensRank = func() map[Lens]int {
	m := make(map[Lens]int, len(CanonicalLensOrder))
	for i, l := range CanonicalLensOrder {
		m[l] = i
	}
	return m
}()

// Rank returns the lens's position in the canonical order. Unrecognized
// values rank with LensUnknown.
func (l Lens) Rank() int {
	if r, ok := lensRank[l]; ok {
		return r
	}
	return lensRank[LensUnknown]
}

// NormalizeLens maps an arbitrary lens tag to a known Lens.
func NormalizeLens(s string) Lens {
	l := Lens(s)
	if _, ok := lensRank[l]; ok && l != LensUnknown {
		return l
	}
	return LensUnknown
}

// Option is a single selectable answer. Weight is normalized to [0,1] at
// load time regardless of the pack's declared scale.
type Option struct {
	ID     string  `yaml:"id" json:"id"`
	Label  string  `yaml:"label" json:"label"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// Question is one questionnaire entry tagged with a lens.
type Question struct {
	ID      string   `yaml:"id" json:"id"`
	Lens    Lens     `yaml:"lens" json:"lens"`
	Text    string   `yaml:"text" json:"text"`
	Options []Option `yaml:"options" json:"options"`
}

// Rule overrides the value of a (question, option) pair when the option is
// not declared with a usable weight in the question table.
type Rule struct {
	Question string  `yaml:"question" json:"question"`
	Option   string  `yaml:"option" json:"option"`
	Value    float64 `yaml:"value" json:"value"`
}

// Band is one qualitative range of the overall score. The band table must
// be ordered, contiguous and non-overlapping over [0,100].
type Band struct {
	Min     int    `yaml:"min" json:"min"`
	Max     int    `yaml:"max" json:"max"`
	Label   string `yaml:"label" json:"label"`
	Slug    string `yaml:"slug" json:"slug"`
	Message string `yaml:"message" json:"message"`
}

// Eligibility gates an action seed on the computed scores. A zero
// MaxOverall/MaxLens means "no upper bound" and is normalized to 100.
// When is an optional CEL expression over `overall` and `lenses`; it must
// also hold for the seed to be eligible.
type Eligibility struct {
	MinOverall int    `yaml:"min_overall" json:"min_overall"`
	MaxOverall int    `yaml:"max_overall" json:"max_overall"`
	Lens       Lens   `yaml:"lens,omitempty" json:"lens,omitempty"`
	MinLens    int    `yaml:"min_lens" json:"min_lens"`
	MaxLens    int    `yaml:"max_lens" json:"max_lens"`
	When       string `yaml:"when,omitempty" json:"when,omitempty"`
}

// ActionSeed is a small, concrete recommended behavior tied to one lens.
type ActionSeed struct {
	ID          string      `yaml:"id" json:"id"`
	Title       string      `yaml:"title" json:"title"`
	Lens        Lens        `yaml:"lens" json:"lens"`
	Summary     string      `yaml:"summary" json:"summary"`
	Steps       []string    `yaml:"steps" json:"steps"`
	Eligibility Eligibility `yaml:"eligibility" json:"eligibility"`
}

// Insight is one piece of narrative copy, grouped by lens and kind.
type Insight struct {
	ID   string `yaml:"id" json:"id"`
	Lens Lens   `yaml:"lens" json:"lens"`
	Kind string `yaml:"kind" json:"kind"`
	Text string `yaml:"text" json:"text"`
}

// WeightScale names the numeric scale a pack's option weights and rule
// values are authored on.
type WeightScale string

const (
	ScaleUnit    WeightScale = "unit"    // 0..1
	ScalePercent WeightScale = "percent" // 0..100
	ScaleTwenty  WeightScale = "twenty"  // 0..20
)

// Pack is one loaded, normalized content pack.
type Pack struct {
	Version     string       `yaml:"version" json:"version"`
	WeightScale WeightScale  `yaml:"weight_scale" json:"weight_scale"`
	Questions   []Question   `yaml:"questions" json:"questions"`
	Rules       []Rule       `yaml:"rules" json:"rules"`
	Bands       []Band       `yaml:"bands" json:"bands"`
	Actions     []ActionSeed `yaml:"actions" json:"actions"`
	Insights    []Insight    `yaml:"insights" json:"insights"`
}

// QuestionsByLens groups the question table by lens, preserving table order
// within each lens.
func (p *Pack) QuestionsByLens() map[Lens][]Question {
	out := make(map[Lens][]Question)
	for _, q := range p.Questions {
		out[q.Lens] = append(out[q.Lens], q)
	}
	return out
}

// RuleValue looks up a scoring-rule override for a chosen option.
func (p *Pack) RuleValue(questionID, optionID string) (float64, bool) {
	for _, r := range p.Rules {
		if r.Question == questionID && r.Option == optionID {
			return r.Value, true
		}
	}
	return 0, false
}

// InsightsFor returns the insight pool for one (lens, kind), in table order.
func (p *Pack) InsightsFor(lens Lens, kind string) []Insight {
	var out []Insight
	for _, in := range p.Insights {
		if in.Lens == lens && in.Kind == kind {
			out = append(out, in)
		}
	}
	return out
}
