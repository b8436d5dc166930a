// Package dice parses and evaluates dice notation expressions like
// "2d20kh1+3" into totals with human-readable breakdowns.
package dice

import (
	"github.com/KirkDiggler/solo-rpg-api/internal/pkg/rng"
)

// Roller rolls a single die. Abstracting the die behind an interface lets
// tests fix the faces and assert exact totals and breakdowns.
type Roller interface {
	// Roll returns a uniform random face in [1, sides]
	Roll(sides int) int
}

type sourceRoller struct {
	src rng.Source
}

// NewRoller creates a Roller backed by the given randomness source
func NewRoller(src rng.Source) Roller {
	return &sourceRoller{src: src}
}

func (r *sourceRoller) Roll(sides int) int {
	return r.src.Intn(sides) + 1
}
