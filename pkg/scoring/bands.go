package scoring

import "github.com/Hearthguard-Labs/hearthguard/pkg/content"

// UnknownBand is the fail-closed sentinel returned when no band matches.
// Classification must never block snapshot creation, so a malformed table
// degrades to this full-range band instead of an error.
var UnknownBand = content.Band{
	Min:   0,
	Max:   100,
	Label: "Unknown",
	Slug:  "unknown",
}

// Classify returns the first band whose [min,max] range contains the score,
// inclusive on both ends.
func Classify(bands []content.Band, overall int) content.Band {
	for _, b := range bands {
		if overall >= b.Min && overall <= b.Max {
			return b
		}
	}
	return UnknownBand
}
