package dice

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/solo-rpg-api/internal/errors"
)

// Parsing bounds. Anything larger is rejected before a single die is rolled
// so pathological input like "1000d1000" cannot allocate its way into
// trouble.
const (
	MaxCount = 100
	MaxSides = 1000
)

// Keep selects which dice of a group count toward the total
type Keep int

// Keep modes
const (
	KeepAll Keep = iota
	KeepHighest
	KeepLowest
)

// Group is one dice term of an expression: count dice of a given size with
// an optional keep filter.
type Group struct {
	Count     int
	Sides     int
	Keep      Keep
	KeepCount int
}

// term is one signed component of an expression: either a dice group or a
// flat integer modifier.
type term struct {
	sign     int // +1 or -1
	group    *Group
	constant int
}

// Expression is a parsed dice notation string, ready to be rolled any
// number of times.
type Expression struct {
	// Notation is the trimmed original input
	Notation string

	terms []term
}

var (
	groupRegex    = regexp.MustCompile(`^(\d*)d(\d+)(?:k([hl])(\d+))?$`)
	constantRegex = regexp.MustCompile(`^\d+$`)
)

// Parse parses a dice notation string. Input is case-insensitive and
// whitespace is ignored. Malformed input yields an InvalidArgument error;
// counts or sides beyond the parsing bounds yield an OutOfRange error.
func Parse(notation string) (*Expression, error) {
	trimmed := strings.TrimSpace(notation)
	if trimmed == "" {
		return nil, errors.InvalidArgument("dice notation is empty")
	}

	normalized := strings.ToLower(strings.Join(strings.Fields(trimmed), ""))

	expr := &Expression{Notation: trimmed}
	sign := 1
	start := 0
	first := true

	for pos := 0; pos <= len(normalized); pos++ {
		if pos < len(normalized) && normalized[pos] != '+' && normalized[pos] != '-' {
			continue
		}

		raw := normalized[start:pos]
		t, err := parseTerm(raw, sign, first)
		if err != nil {
			return nil, err
		}
		expr.terms = append(expr.terms, t)
		first = false

		if pos < len(normalized) {
			if normalized[pos] == '+' {
				sign = 1
			} else {
				sign = -1
			}
			start = pos + 1
		}
	}

	return expr, nil
}

func parseTerm(raw string, sign int, first bool) (term, error) {
	if raw == "" {
		return term{}, errors.InvalidArgument("dice notation has an empty term")
	}

	if matches := groupRegex.FindStringSubmatch(raw); matches != nil {
		return parseGroup(matches, sign)
	}

	if constantRegex.MatchString(raw) {
		if first {
			// The grammar requires the expression to start with a dice
			// group; a bare integer is only valid as a modifier.
			return term{}, errors.InvalidArgumentf("dice notation must start with a dice group, got %q", raw)
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return term{}, errors.InvalidArgumentf("invalid modifier %q", raw)
		}
		return term{sign: sign, constant: value}, nil
	}

	return term{}, errors.InvalidArgumentf("unrecognized dice term %q", raw)
}

func parseGroup(matches []string, sign int) (term, error) {
	count := 1
	if matches[1] != "" {
		parsed, err := strconv.Atoi(matches[1])
		if err != nil {
			return term{}, errors.InvalidArgumentf("invalid dice count %q", matches[1])
		}
		count = parsed
	}
	if count < 1 {
		return term{}, errors.InvalidArgument("dice count must be positive")
	}
	if count > MaxCount {
		return term{}, errors.Newf(errors.CodeOutOfRange, "dice count %d exceeds maximum %d", count, MaxCount)
	}

	sides, err := strconv.Atoi(matches[2])
	if err != nil {
		return term{}, errors.InvalidArgumentf("invalid die size %q", matches[2])
	}
	if sides < 1 {
		return term{}, errors.InvalidArgument("die size must be positive")
	}
	if sides > MaxSides {
		return term{}, errors.Newf(errors.CodeOutOfRange, "die size %d exceeds maximum %d", sides, MaxSides)
	}

	group := &Group{Count: count, Sides: sides}

	if matches[3] != "" {
		keepCount, err := strconv.Atoi(matches[4])
		if err != nil {
			return term{}, errors.InvalidArgumentf("invalid keep count %q", matches[4])
		}
		if keepCount < 1 || keepCount > count {
			return term{}, errors.InvalidArgumentf("keep count %d must be between 1 and %d", keepCount, count)
		}
		if matches[3] == "h" {
			group.Keep = KeepHighest
		} else {
			group.Keep = KeepLowest
		}
		group.KeepCount = keepCount
	}

	return term{sign: sign, group: group}, nil
}
