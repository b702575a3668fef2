package message

import (
	"context"
	"fmt"

	"github.com/gillepool/awoobot/internal/adapter"
)

// A Message is created by the router from a ReceiveMessageEvent and passed to
// the handler of the command it invokes. It carries the identity of the
// author and the capability to reply in the channel the message came from.
type Message struct {
	Context  context.Context
	ID       string // The ID of the message, identifying it at least uniquely within the Channel
	Text     string
	AuthorID string
	Channel  string
	GuildID  string      // empty outside of guilds
	Data     interface{} // corresponds to the ReceiveMessageEvent.Data field

	Adapter adapter.Adapter
}

// Mention returns the chat markup that mentions the author.
func (msg *Message) Mention() string {
	return Mention(msg.AuthorID)
}

// Mention returns the chat markup that mentions the user with the given ID.
func Mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

// RoleMention returns the chat markup that mentions a role.
func RoleMention(roleID string) string {
	return fmt.Sprintf("<@&%s>", roleID)
}

// Reply sends text to the channel of the message. If attachment is not nil
// it is sent along with the text.
func (msg *Message) Reply(text string, attachment *adapter.Attachment) error {
	if attachment == nil {
		return msg.Adapter.Send(text, msg.Channel)
	}

	return msg.Adapter.SendAttachment(text, msg.Channel, *attachment)
}

// Guild returns the guild capability of the adapter if the message was sent
// inside a guild and the adapter supports it.
func (msg *Message) Guild() (adapter.Guild, bool) {
	if msg.GuildID == "" {
		return nil, false
	}

	g, ok := msg.Adapter.(adapter.Guild)
	return g, ok
}
