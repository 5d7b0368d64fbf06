package content

import (
	_ "embed"
	"fmt"
)

//go:embed defaultpack.yaml
var defaultPackYAML []byte

// DefaultPack returns the content pack compiled into the binary. Each call
// returns a fresh value; packs are treated as immutable after Finalize but
// callers get their own copy regardless.
func DefaultPack() (*Pack, error) {
	pack, err := ParsePackYAML(defaultPackYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded pack: %w", err)
	}
	return pack, nil
}
