package commands

import (
	"fmt"

	"github.com/gillepool/awoobot/internal/adapter"
	"github.com/gillepool/awoobot/internal/message"
	"github.com/gillepool/awoobot/internal/random"
	"go.uber.org/zap"
)

// Spin mentions a random online member other than the author.
func (c *Commands) Spin(msg *message.Message, _ ...string) error {
	guild, ok := msg.Guild()
	if !ok {
		return msg.Reply(fmt.Sprintf("%s, spinning the bottle only works in a server!", msg.Mention()), nil)
	}

	members, err := guild.OnlineMembers(msg.GuildID)
	if err != nil {
		c.Logger.Warn("Failed to list online members", zap.String("guild_id", msg.GuildID), zap.Error(err))
		return apologize(msg)
	}

	var candidates []adapter.Member
	for _, m := range members {
		if !m.Bot && m.ID != msg.AuthorID {
			candidates = append(candidates, m)
		}
	}

	if len(candidates) == 0 {
		return msg.Reply(fmt.Sprintf("%s spins the bottle... but there's nobody else around for it to point to. :c", msg.Mention()), nil)
	}

	choice := random.Pick(c.Random, candidates)
	return msg.Reply(fmt.Sprintf("%s spins the bottle... and it comes to a stop pointing toward %s!", msg.Mention(), message.Mention(choice.ID)), nil)
}
