// Package dice parses, validates, rolls and formats rolls in the classic
// NdS±M dice notation.
package dice

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gillepool/awoobot/internal/random"
)

// Default bounds of a roll.
const (
	DefaultMaxCount = 20
	DefaultMaxSides = 100
)

var (
	ErrNoMatch             = errors.New("dice: no dice expression found")
	ErrNonPositiveGeometry = errors.New("dice: count and sides must be positive")
	ErrTooManyDice         = errors.New("dice: too many dice")
	ErrTooManySides        = errors.New("dice: too many sides")
)

// Expression is a parsed roll like 3d6+2.
type Expression struct {
	Count    int
	Sides    int
	Modifier int
}

// Outcome is the result of rolling an Expression.
type Outcome struct {
	Expression Expression
	Rolls      []int
	Total      int
	Reason     string
}

// Limits bounds the expressions accepted by Validate.
type Limits struct {
	MaxCount int
	MaxSides int
}

// DefaultLimits returns the default bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxCount: DefaultMaxCount,
		MaxSides: DefaultMaxSides,
	}
}

// expr matches <count>d<sides> with an optional signed modifier. Only the
// first occurrence in the input is used.
var expr = regexp.MustCompile(`(?i)(\d+)d(\d+)(?:([+-])(\d+))?`)

// Parse extracts the first dice expression from raw. Text around the
// expression is ignored. Digit groups that do not fit into an int saturate
// so that Validate reports them as out of bounds.
func Parse(raw string) (Expression, error) {
	m := expr.FindStringSubmatch(raw)
	if m == nil {
		return Expression{}, ErrNoMatch
	}

	e := Expression{
		Count: atoi(m[1]),
		Sides: atoi(m[2]),
	}
	if m[4] != "" {
		e.Modifier = atoi(m[4])
		if m[3] == "-" {
			e.Modifier = -e.Modifier
		}
	}
	return e, nil
}

// atoi parses a string of ASCII digits, saturating at math.MaxInt32.
func atoi(digits string) int {
	n, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		// only a range error is possible for a pure digit string
		return math.MaxInt32
	}
	return int(n)
}

// Validate checks the bounds of a roll. The first failing rule wins: non
// positive count or sides, then too many dice and then too many sides. Any
// modifier is accepted.
func (l Limits) Validate(count, sides, modifier int) (Expression, error) {
	switch {
	case count <= 0 || sides <= 0:
		return Expression{}, ErrNonPositiveGeometry
	case count > l.MaxCount:
		return Expression{}, ErrTooManyDice
	case sides > l.MaxSides:
		return Expression{}, ErrTooManySides
	}
	return Expression{Count: count, Sides: sides, Modifier: modifier}, nil
}

// Validate checks e against the default limits.
func Validate(e Expression) (Expression, error) {
	return DefaultLimits().Validate(e.Count, e.Sides, e.Modifier)
}

// Roll draws e.Count dice in [1, e.Sides] from src and adds the modifier.
func Roll(src *random.Source, e Expression) Outcome {
	rolls := make([]int, e.Count)
	total := e.Modifier
	for i := range rolls {
		rolls[i] = src.Range(1, e.Sides)
		total += rolls[i]
	}

	return Outcome{
		Expression: e,
		Rolls:      rolls,
		Total:      total,
	}
}

// Format renders an outcome, e.g.
//
//	rolled 3d6: **18**\r\n_Results:_ `[ 6 + 6 + 6 ] = 18`
//
// followed by a reason line if the outcome has one.
func Format(o Outcome, original string) string {
	var b strings.Builder

	b.WriteString("rolled ")
	b.WriteString(original)
	b.WriteString(": **")
	b.WriteString(strconv.Itoa(o.Total))
	b.WriteString("**\r\n_Results:_ `[ ")
	for i, r := range o.Rolls {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(strconv.Itoa(r))
	}
	b.WriteString(" ]")
	b.WriteString(modifierSuffix(o.Expression.Modifier))
	b.WriteString(" = ")
	b.WriteString(strconv.Itoa(o.Total))
	b.WriteString("`")

	if o.Reason != "" {
		b.WriteString("\r\n_Reason:_ ")
		b.WriteString(o.Reason)
	}

	return b.String()
}

func modifierSuffix(modifier int) string {
	switch {
	case modifier > 0:
		return " + " + strconv.Itoa(modifier)
	case modifier < 0:
		return " - " + strconv.Itoa(-modifier)
	default:
		return ""
	}
}
