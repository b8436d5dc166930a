package dice_test

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/solo-rpg-api/internal/dice"
	"github.com/KirkDiggler/solo-rpg-api/internal/pkg/rng"
)

// fixedRoller replays a fixed sequence of die faces
type fixedRoller struct {
	faces []int
	next  int
}

func (r *fixedRoller) Roll(sides int) int {
	face := r.faces[r.next]
	r.next++
	if face < 1 || face > sides {
		panic(fmt.Sprintf("scripted face %d out of range for d%d", face, sides))
	}
	return face
}

func newEvaluator(t *testing.T, faces ...int) *dice.Evaluator {
	t.Helper()

	e, err := dice.NewEvaluator(&dice.Config{Roller: &fixedRoller{faces: faces}})
	require.NoError(t, err)
	return e
}

func TestEvaluator_Evaluate(t *testing.T) {
	testCases := []struct {
		notation  string
		faces     []int
		total     int
		rolls     []int
		breakdown string
	}{
		{
			notation:  "1d20+5",
			faces:     []int{11},
			total:     16,
			rolls:     []int{11},
			breakdown: "[11]+5 = 16",
		},
		{
			notation:  "2d20kh1",
			faces:     []int{3, 18},
			total:     18,
			rolls:     []int{18},
			breakdown: "[3, 18] keep highest 1: [18] = 18",
		},
		{
			notation:  "1d6",
			faces:     []int{4},
			total:     4,
			rolls:     []int{4},
			breakdown: "4",
		},
		{
			notation:  "1d8-2",
			faces:     []int{7},
			total:     5,
			rolls:     []int{7},
			breakdown: "[7]-2 = 5",
		},
		{
			notation:  "2d6",
			faces:     []int{3, 4},
			total:     7,
			rolls:     []int{3, 4},
			breakdown: "[3, 4] = 7",
		},
		{
			notation:  "3d6+2",
			faces:     []int{1, 5, 6},
			total:     14,
			rolls:     []int{1, 5, 6},
			breakdown: "[1, 5, 6]+2 = 14",
		},
		{
			notation:  "2d20kl1",
			faces:     []int{14, 9},
			total:     9,
			rolls:     []int{9},
			breakdown: "[14, 9] keep lowest 1: [9] = 9",
		},
		{
			notation:  "4d6kh3",
			faces:     []int{2, 6, 3, 5},
			total:     14,
			rolls:     []int{6, 5, 3},
			breakdown: "[2, 6, 3, 5] keep highest 3: [6, 5, 3] = 14",
		},
		{
			notation:  "2d20kh1+3",
			faces:     []int{3, 18},
			total:     21,
			rolls:     []int{18},
			breakdown: "[3, 18] keep highest 1: [18]+3 = 21",
		},
		{
			notation:  "1d20+2d6+3",
			faces:     []int{12, 3, 5},
			total:     23,
			rolls:     []int{12, 3, 5},
			breakdown: "[12]+[3, 5]+3 = 23",
		},
		{
			notation:  "1d8-1d4",
			faces:     []int{7, 2},
			total:     5,
			rolls:     []int{7, 2},
			breakdown: "[7]-[2] = 5",
		},
		{
			notation:  "d20",
			faces:     []int{17},
			total:     17,
			rolls:     []int{17},
			breakdown: "17",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.notation, func(t *testing.T) {
			result := newEvaluator(t, tc.faces...).Evaluate(tc.notation)

			assert.Equal(t, tc.total, result.Total)
			assert.Equal(t, tc.rolls, result.Rolls)
			assert.Equal(t, tc.breakdown, result.Breakdown)
			assert.Equal(t, tc.notation, result.Notation)
		})
	}
}

func TestEvaluator_InvalidNotation(t *testing.T) {
	e := newEvaluator(t)

	testCases := []string{
		"",
		"garbage",
		"101d6",
		"1d1001",
		"5+1d6",
	}

	for _, notation := range testCases {
		t.Run("notation "+notation, func(t *testing.T) {
			result := e.Evaluate(notation)

			assert.Equal(t, 0, result.Total)
			assert.Empty(t, result.Rolls)
			assert.Equal(t, dice.InvalidBreakdown, result.Breakdown)
		})
	}
}

func TestEvaluator_ScriptedSource(t *testing.T) {
	// The rng.Scripted source yields Intn values, so a face of 11 on a d20
	// is scripted as 10.
	roller := dice.NewRoller(rng.NewScripted(10))
	e, err := dice.NewEvaluator(&dice.Config{Roller: roller})
	require.NoError(t, err)

	result := e.Evaluate("1d20+5")
	assert.Equal(t, 16, result.Total)
	assert.Equal(t, "[11]+5 = 16", result.Breakdown)
}

func TestNewEvaluator_RequiresRoller(t *testing.T) {
	_, err := dice.NewEvaluator(&dice.Config{})
	require.Error(t, err)
}

// reparseTotal extracts the total back out of a breakdown string, so the
// display never drifts from the numeric result.
func reparseTotal(t *testing.T, breakdown string) int {
	t.Helper()

	idx := strings.LastIndex(breakdown, " = ")
	if idx < 0 {
		total, err := strconv.Atoi(breakdown)
		require.NoError(t, err, "breakdown %q is neither a total nor a derivation", breakdown)
		return total
	}

	total, err := strconv.Atoi(breakdown[idx+3:])
	require.NoError(t, err)
	return total
}

func TestEvaluator_Properties(t *testing.T) {
	roller := dice.NewRoller(rng.NewSeeded(1))
	e, err := dice.NewEvaluator(&dice.Config{Roller: roller})
	require.NoError(t, err)

	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, dice.MaxCount).Draw(rt, "count")
		sides := rapid.IntRange(1, dice.MaxSides).Draw(rt, "sides")
		modifier := rapid.IntRange(0, 50).Draw(rt, "modifier")

		notation := fmt.Sprintf("%dd%d", count, sides)
		if modifier > 0 {
			notation += fmt.Sprintf("+%d", modifier)
		}

		result := e.Evaluate(notation)

		if len(result.Rolls) != count {
			rt.Fatalf("expected %d rolls, got %d", count, len(result.Rolls))
		}

		sum := 0
		for _, face := range result.Rolls {
			if face < 1 || face > sides {
				rt.Fatalf("face %d out of range [1, %d]", face, sides)
			}
			sum += face
		}

		if result.Total != sum+modifier {
			rt.Fatalf("total %d != sum %d + modifier %d", result.Total, sum, modifier)
		}

		if got := reparseTotal(t, result.Breakdown); got != result.Total {
			rt.Fatalf("breakdown total %d drifted from result total %d", got, result.Total)
		}
	})
}

func TestEvaluator_KeepProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(2, 10).Draw(rt, "count")
		keep := rapid.IntRange(1, count).Draw(rt, "keep")
		faces := make([]int, count)
		for i := range faces {
			faces[i] = rapid.IntRange(1, 20).Draw(rt, fmt.Sprintf("face%d", i))
		}

		highest := rapid.Bool().Draw(rt, "highest")
		direction := "kh"
		if !highest {
			direction = "kl"
		}
		notation := fmt.Sprintf("%dd20%s%d", count, direction, keep)

		e, err := dice.NewEvaluator(&dice.Config{Roller: &fixedRoller{faces: faces}})
		if err != nil {
			rt.Fatal(err)
		}

		result := e.Evaluate(notation)

		if len(result.Rolls) != keep {
			rt.Fatalf("expected %d kept rolls, got %d", keep, len(result.Rolls))
		}

		// The kept set must be exactly the top (or bottom) K of the rolled
		// faces.
		sorted := append([]int(nil), faces...)
		if highest {
			for i := 0; i < len(sorted); i++ {
				for j := i + 1; j < len(sorted); j++ {
					if sorted[j] > sorted[i] {
						sorted[i], sorted[j] = sorted[j], sorted[i]
					}
				}
			}
		} else {
			for i := 0; i < len(sorted); i++ {
				for j := i + 1; j < len(sorted); j++ {
					if sorted[j] < sorted[i] {
						sorted[i], sorted[j] = sorted[j], sorted[i]
					}
				}
			}
		}

		expectedSum := 0
		for i := 0; i < keep; i++ {
			expectedSum += sorted[i]
			if result.Rolls[i] != sorted[i] {
				rt.Fatalf("kept roll %d: expected %d, got %d", i, sorted[i], result.Rolls[i])
			}
		}

		if result.Total != expectedSum {
			rt.Fatalf("total %d != kept sum %d", result.Total, expectedSum)
		}
	})
}
