package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gillepool/awoobot/internal/dice"
	"github.com/gillepool/awoobot/internal/message"
	"go.uber.org/zap"
)

// lastRoll is stored per author so the roll can be repeated.
type lastRoll struct {
	Dice string `json:"dice"`
}

func lastRollKey(authorID string) string {
	return "roll:last:" + authorID
}

// Roll rolls the dice of the first argument. All other arguments form the
// reason of the roll.
func (c *Commands) Roll(msg *message.Message, args ...string) error {
	var diceStr, reason string
	if len(args) > 0 {
		diceStr = args[0]
		reason = strings.Join(args[1:], " ")
	}

	ok, err := c.roll(msg, diceStr, reason)
	if err != nil || !ok {
		return err
	}

	if err := c.Storage.Set(lastRollKey(msg.AuthorID), lastRoll{Dice: diceStr}); err != nil {
		c.Logger.Warn("Failed to remember roll", zap.String("author_id", msg.AuthorID), zap.Error(err))
	}
	return nil
}

// Reroll repeats the last successful roll of the author.
func (c *Commands) Reroll(msg *message.Message, args ...string) error {
	var last lastRoll
	found, err := c.Storage.Get(lastRollKey(msg.AuthorID), &last)
	if err != nil {
		c.Logger.Warn("Failed to load last roll", zap.String("author_id", msg.AuthorID), zap.Error(err))
		return apologize(msg)
	}
	if !found {
		return msg.Reply(fmt.Sprintf("%s, you haven't rolled anything yet!", msg.Mention()), nil)
	}

	_, err = c.roll(msg, last.Dice, strings.Join(args, " "))
	return err
}

// Forget drops the last roll of the author.
func (c *Commands) Forget(msg *message.Message, _ ...string) error {
	found, err := c.Storage.Delete(lastRollKey(msg.AuthorID))
	if err != nil {
		c.Logger.Warn("Failed to forget last roll", zap.String("author_id", msg.AuthorID), zap.Error(err))
		return apologize(msg)
	}
	if !found {
		return msg.Reply(fmt.Sprintf("%s, you haven't rolled anything yet!", msg.Mention()), nil)
	}

	return msg.Reply(fmt.Sprintf("%s, I forgot your last roll.", msg.Mention()), nil)
}

// roll replies with the outcome of diceStr, or with the reason it cannot be
// rolled. It reports whether the dice were rolled.
func (c *Commands) roll(msg *message.Message, diceStr, reason string) (bool, error) {
	parsed, err := dice.Parse(diceStr)
	if err == nil {
		parsed, err = c.Limits.Validate(parsed.Count, parsed.Sides, parsed.Modifier)
	}
	if err != nil {
		return false, msg.Reply(rejection(msg, diceStr, err), nil)
	}

	outcome := dice.Roll(c.Random, parsed)
	outcome.Reason = reason

	return true, msg.Reply(msg.Mention()+" "+dice.Format(outcome, diceStr), nil)
}

func rejection(msg *message.Message, diceStr string, err error) string {
	switch {
	case errors.Is(err, dice.ErrNoMatch):
		return fmt.Sprintf("%s, I can't parse the string `%s` as a dice roll!", msg.Mention(), diceStr)
	case errors.Is(err, dice.ErrNonPositiveGeometry):
		return fmt.Sprintf("%s, please don't make me do math that involves non-Euclidean geometry!", msg.Mention())
	case errors.Is(err, dice.ErrTooManyDice):
		return fmt.Sprintf("%s, please roll fewer dice!", msg.Mention())
	case errors.Is(err, dice.ErrTooManySides):
		return fmt.Sprintf("%s, please roll dice with fewer sides!", msg.Mention())
	default:
		return fmt.Sprintf("Sorry %s, but I couldn't process your request. :c", msg.Mention())
	}
}
