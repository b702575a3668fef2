package commands

import (
	"fmt"

	"github.com/gillepool/awoobot/internal/message"
	"github.com/gillepool/awoobot/internal/random"
)

// Choose picks one of the options at random.
func (c *Commands) Choose(msg *message.Message, options ...string) error {
	if len(options) <= 1 {
		return msg.Reply(fmt.Sprintf("%s, you've got to give me some options to choose _from!_", msg.Mention()), nil)
	}

	return msg.Reply(c.choiceReply(msg.Mention(), random.Pick(c.Random, options)), nil)
}

func (c *Commands) choiceReply(mention, choice string) string {
	replies := []string{
		fmt.Sprintf("Not that I'm an expert, %s, but maybe try `%s`?", mention, choice),
		fmt.Sprintf("%s, all things being equal, I'd have to go with `%s`.", mention, choice),
		fmt.Sprintf("I dunno... `%s`? Is that a good call, %s?", choice, mention),
		fmt.Sprintf("You might hate me for this, %s, but I pick `%s`!", mention, choice),
	}

	return random.Pick(c.Random, replies)
}
