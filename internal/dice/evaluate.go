package dice

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
)

// InvalidBreakdown is the breakdown string of the sentinel result returned
// for input that fails to parse.
const InvalidBreakdown = "Invalid notation"

// RollResult is the outcome of evaluating one dice expression
type RollResult struct {
	// Total is the final numeric result after all modifiers
	Total int `json:"total"`

	// Rolls holds the die faces that counted toward Total. Dice dropped by
	// a keep filter are excluded here but still appear in Breakdown.
	Rolls []int `json:"rolls"`

	// Notation is the trimmed original expression
	Notation string `json:"notation"`

	// Breakdown is the human-readable derivation, e.g. "[11]+5 = 16"
	Breakdown string `json:"breakdown"`
}

// Config holds the dependencies for the evaluator
type Config struct {
	Roller Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Roller == nil {
		return errors.InvalidArgument("roller is required")
	}
	return nil
}

// Evaluator evaluates dice notation strings. Its Evaluate method never
// fails: a dice roller UI must survive any keystroke, so bad input maps to
// a sentinel result instead of an error.
type Evaluator struct {
	roller Roller
}

// NewEvaluator creates an evaluator with the provided dependencies
func NewEvaluator(cfg *Config) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Evaluator{roller: cfg.Roller}, nil
}

// Evaluate parses and rolls a dice expression. Malformed or oversized input
// returns the sentinel result (total 0, no rolls, "Invalid notation") and
// is reported through the log only.
func (e *Evaluator) Evaluate(notation string) *RollResult {
	expr, err := Parse(notation)
	if err != nil {
		slog.Warn("invalid dice notation",
			"notation", notation,
			"error", err,
		)
		return &RollResult{
			Total:     0,
			Rolls:     []int{},
			Notation:  strings.TrimSpace(notation),
			Breakdown: InvalidBreakdown,
		}
	}

	return expr.Roll(e.roller)
}

// Roll evaluates the expression with the given roller
func (expr *Expression) Roll(roller Roller) *RollResult {
	total := 0
	rolls := []int{}
	parts := make([]string, 0, len(expr.terms))

	for i, t := range expr.terms {
		if t.group == nil {
			total += t.sign * t.constant
			parts = append(parts, signedPrefix(i, t.sign)+strconv.Itoa(t.constant))
			continue
		}

		all := make([]int, t.group.Count)
		for j := range all {
			all[j] = roller.Roll(t.group.Sides)
		}

		kept := keepFilter(all, t.group)
		sum := 0
		for _, face := range kept {
			sum += face
		}

		total += t.sign * sum
		rolls = append(rolls, kept...)
		parts = append(parts, signedPrefix(i, t.sign)+renderGroup(all, kept, t.group))
	}

	return &RollResult{
		Total:     total,
		Rolls:     rolls,
		Notation:  expr.Notation,
		Breakdown: renderBreakdown(expr, parts, total),
	}
}

// keepFilter applies the group's keep filter. Kept dice are returned in
// descending order for keep-highest and ascending for keep-lowest; without
// a filter the rolled order is preserved.
func keepFilter(all []int, g *Group) []int {
	if g.Keep == KeepAll {
		return all
	}

	sorted := make([]int, len(all))
	copy(sorted, all)
	if g.Keep == KeepHighest {
		sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	} else {
		sort.Ints(sorted)
	}

	return sorted[:g.KeepCount]
}

func renderGroup(all, kept []int, g *Group) string {
	if g.Keep == KeepAll {
		return renderFaces(all)
	}

	direction := "highest"
	if g.Keep == KeepLowest {
		direction = "lowest"
	}

	return renderFaces(all) + " keep " + direction + " " + strconv.Itoa(g.KeepCount) + ": " + renderFaces(kept)
}

func renderFaces(faces []int) string {
	strs := make([]string, len(faces))
	for i, f := range faces {
		strs[i] = strconv.Itoa(f)
	}
	return "[" + strings.Join(strs, ", ") + "]"
}

func signedPrefix(index, sign int) string {
	if sign < 0 {
		return "-"
	}
	if index == 0 {
		// The first term never carries a leading "+"
		return ""
	}
	return "+"
}

// renderBreakdown assembles the final breakdown string. A lone unmodified,
// unfiltered single die collapses to just its total.
func renderBreakdown(expr *Expression, parts []string, total int) string {
	if len(expr.terms) == 1 {
		only := expr.terms[0]
		if only.group != nil && only.group.Count == 1 && only.group.Keep == KeepAll {
			return strconv.Itoa(total)
		}
	}

	return strings.Join(parts, "") + " = " + strconv.Itoa(total)
}
