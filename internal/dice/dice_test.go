package dice

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/gillepool/awoobot/internal/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Expression
		err  error
	}{
		{name: "plain", raw: "3d6", want: Expression{Count: 3, Sides: 6}},
		{name: "positive modifier", raw: "3d6+2", want: Expression{Count: 3, Sides: 6, Modifier: 2}},
		{name: "negative modifier", raw: "2d10-1", want: Expression{Count: 2, Sides: 10, Modifier: -1}},
		{name: "upper case", raw: "1D20", want: Expression{Count: 1, Sides: 20}},
		{name: "surrounded by text", raw: "roll4d8+1please", want: Expression{Count: 4, Sides: 8, Modifier: 1}},
		{name: "first match wins", raw: "1d4 2d6", want: Expression{Count: 1, Sides: 4}},
		{name: "zero dice", raw: "0d6", want: Expression{Count: 0, Sides: 6}},
		{name: "dangling sign", raw: "1d6+", want: Expression{Count: 1, Sides: 6}},
		{name: "count overflow saturates", raw: "99999999999999999999d6", want: Expression{Count: 2147483647, Sides: 6}},
		{name: "no match", raw: "Hello, world!", err: ErrNoMatch},
		{name: "missing count", raw: "d6", err: ErrNoMatch},
		{name: "empty", raw: "", err: ErrNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	limits := DefaultLimits()

	tests := []struct {
		name                   string
		count, sides, modifier int
		err                    error
	}{
		{name: "smallest", count: 1, sides: 1},
		{name: "largest", count: 20, sides: 100, modifier: -1000000},
		{name: "zero dice", count: 0, sides: 6, err: ErrNonPositiveGeometry},
		{name: "zero sides", count: 1, sides: 0, err: ErrNonPositiveGeometry},
		{name: "negative", count: -1, sides: -1, err: ErrNonPositiveGeometry},
		{name: "too many dice", count: 21, sides: 6, err: ErrTooManyDice},
		{name: "too many sides", count: 3, sides: 101, err: ErrTooManySides},
		{name: "dice checked before sides", count: 21, sides: 101, err: ErrTooManyDice},
		{name: "geometry checked first", count: 0, sides: 101, err: ErrNonPositiveGeometry},
		{name: "large modifier", count: 1, sides: 6, modifier: 1000001},
		{name: "saturated modifier", count: 1, sides: 6, modifier: -math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := limits.Validate(tt.count, tt.sides, tt.modifier)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Expression{Count: tt.count, Sides: tt.sides, Modifier: tt.modifier}, got)
		})
	}
}

func TestCustomLimits(t *testing.T) {
	limits := Limits{MaxCount: 100, MaxSides: 1000}

	_, err := limits.Validate(50, 500, 10)
	assert.NoError(t, err)

	_, err = limits.Validate(101, 6, 0)
	assert.ErrorIs(t, err, ErrTooManyDice)
}

func TestEveryValidExpressionRollsInBounds(t *testing.T) {
	src := random.New(1)

	for n := 1; n <= DefaultMaxCount; n++ {
		for s := 1; s <= DefaultMaxSides; s++ {
			raw := fmt.Sprintf("%dd%d", n, s)

			parsed, err := Parse(raw)
			require.NoError(t, err, raw)
			e, err := Validate(parsed)
			require.NoError(t, err, raw)

			outcome := Roll(src, e)
			require.Len(t, outcome.Rolls, n, raw)

			sum := 0
			for _, r := range outcome.Rolls {
				require.True(t, r >= 1 && r <= s, "%s rolled %d", raw, r)
				sum += r
			}
			require.Equal(t, sum, outcome.Total, raw)
		}
	}
}

func TestValidateRejectsOutOfBounds(t *testing.T) {
	for n := 21; n <= 40; n++ {
		_, err := Validate(Expression{Count: n, Sides: 6})
		assert.ErrorIs(t, err, ErrTooManyDice)
	}
	for s := 101; s <= 120; s++ {
		_, err := Validate(Expression{Count: 1, Sides: s})
		assert.ErrorIs(t, err, ErrTooManySides)
	}
}

func TestRollAddsModifier(t *testing.T) {
	outcome := Roll(random.New(3), Expression{Count: 4, Sides: 1, Modifier: -21})

	assert.Equal(t, []int{1, 1, 1, 1}, outcome.Rolls)
	assert.Equal(t, -17, outcome.Total)
}

func TestRollDeterministic(t *testing.T) {
	e := Expression{Count: 10, Sides: 20}
	assert.Equal(t, Roll(random.New(99), e), Roll(random.New(99), e))
}

func TestFormat(t *testing.T) {
	outcome := Outcome{
		Expression: Expression{Count: 3, Sides: 6},
		Rolls:      []int{6, 6, 6},
		Total:      18,
	}

	assert.Equal(t, "rolled 3d6: **18**\r\n_Results:_ `[ 6 + 6 + 6 ] = 18`", Format(outcome, "3d6"))
}

func TestFormatModifier(t *testing.T) {
	outcome := Outcome{Expression: Expression{Count: 1, Sides: 6, Modifier: 21}, Rolls: []int{3}, Total: 24}
	assert.Contains(t, Format(outcome, "1d6+21"), "`[ 3 ] + 21 = 24`")

	outcome = Outcome{Expression: Expression{Count: 1, Sides: 6, Modifier: -21}, Rolls: []int{3}, Total: -18}
	assert.Contains(t, Format(outcome, "1d6-21"), "`[ 3 ] - 21 = -18`")

	outcome = Outcome{Expression: Expression{Count: 1, Sides: 1}, Rolls: []int{1}, Total: 1}
	assert.Contains(t, Format(outcome, "1d1"), "`[ 1 ] = 1`")
}

func TestFormatReason(t *testing.T) {
	outcome := Outcome{
		Expression: Expression{Count: 1, Sides: 1},
		Rolls:      []int{1},
		Total:      1,
		Reason:     "rolling for stats",
	}

	formatted := Format(outcome, "1d1")
	assert.True(t, strings.HasSuffix(formatted, "\r\n_Reason:_ rolling for stats"))
	assert.Equal(t, 1, strings.Count(formatted, "_Reason:_"))

	outcome.Reason = ""
	assert.NotContains(t, Format(outcome, "1d1"), "_Reason:_")
}

func TestValidateAcceptsLargeModifiers(t *testing.T) {
	parsed, err := Parse("1d6+1000001")
	require.NoError(t, err)

	e, err := Validate(parsed)
	require.NoError(t, err)
	assert.Equal(t, Expression{Count: 1, Sides: 6, Modifier: 1000001}, e)

	parsed, err = Parse("20d100-99999999999")
	require.NoError(t, err)

	e, err = Validate(parsed)
	require.NoError(t, err)

	outcome := Roll(random.New(7), e)
	assert.Equal(t, -math.MaxInt32, e.Modifier)
	assert.LessOrEqual(t, outcome.Total, -math.MaxInt32+2000)
}
