package snapshot

import (
	"fmt"
	"strings"

	"github.com/Hearthguard-Labs/hearthguard/pkg/canon"
	"github.com/Hearthguard-Labs/hearthguard/pkg/scoring"
)

// Serialize renders the snapshot in RFC 8785 canonical JSON: stable key
// order, byte-identical across processes. This is the download/export
// format; it carries no engine logic of its own.
func Serialize(s *Snapshot) ([]byte, error) {
	return canon.Marshal(s)
}

// Report renders a human-readable text summary suitable for printing.
func Report(s *Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Household signal %s\n", s.ID)
	fmt.Fprintf(&b, "Taken: %s\n", s.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Overall: %d/100 (%s)\n", s.Overall, s.Band.Label)
	b.WriteString("\nLenses:\n")
	for _, lens := range scoring.SortedLenses(s.Lenses) {
		marker := " "
		switch lens {
		case s.Focus:
			marker = "*"
		case s.Strongest:
			marker = "+"
		}
		fmt.Fprintf(&b, "  %s %-10s %3d\n", marker, lens, s.Lenses[lens])
	}
	if s.Insight != nil {
		fmt.Fprintf(&b, "\n%s\n", s.Insight.Text)
	}
	if len(s.Actions) > 0 {
		b.WriteString("\nRecommended actions:\n")
		for i, a := range s.Actions {
			fmt.Fprintf(&b, "  %d. [%s] %s\n", i+1, a.Lens, a.Title)
			for _, step := range a.Steps {
				fmt.Fprintf(&b, "     - %s\n", step)
			}
		}
	}
	return b.String()
}
