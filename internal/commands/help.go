package commands

import (
	"fmt"
	"strings"

	"github.com/gillepool/awoobot/internal/message"
)

// Help lists all registered commands.
func (c *Commands) Help(msg *message.Message, _ ...string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, here's what I can do:", msg.Mention())

	for _, cmd := range c.registry.Commands() {
		fmt.Fprintf(&b, "\n`%s%s` %s", c.Prefix, cmd.Usage, cmd.Description)
	}

	return msg.Reply(b.String(), nil)
}
