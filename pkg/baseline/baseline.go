// Package baseline compares a current snapshot against a stored comparison
// anchor.
package baseline

import (
	"errors"
	"fmt"

	"github.com/Hearthguard-Labs/hearthguard/pkg/content"
	"github.com/Hearthguard-Labs/hearthguard/pkg/snapshot"
)

// ErrNoBaseline is the explicit "nothing to compare against" result. It is
// distinct from a zero delta.
var ErrNoBaseline = errors.New("no baseline")

// Diff is the change between two canonical snapshots. Lenses holds one
// delta per lens present in both snapshots; a lens present in only one is
// omitted rather than defaulted, which would fake a regression or an
// improvement.
type Diff struct {
	Overall int                  `json:"overall"`
	Lenses  map[content.Lens]int `json:"lenses"`
}

// Compare returns current minus base.
func Compare(current, base *snapshot.Snapshot) (*Diff, error) {
	if current == nil {
		return nil, fmt.Errorf("compare: nil current snapshot")
	}
	if base == nil {
		return nil, ErrNoBaseline
	}

	d := &Diff{
		Overall: current.Overall - base.Overall,
		Lenses:  make(map[content.Lens]int),
	}
	for lens, cur := range current.Lenses {
		if prev, ok := base.Lenses[lens]; ok {
			d.Lenses[lens] = cur - prev
		}
	}
	return d, nil
}
