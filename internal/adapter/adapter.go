package adapter

import (
	"io"

	"github.com/gillepool/awoobot/internal/brain"
)

// An Adapter connects the Brain to a chat service. It emits a
// ReceiveMessageEvent for every message it sees and delivers replies.
type Adapter interface {
	RegisterAt(*brain.Brain)
	Send(text, channel string) error
	SendAttachment(text, channel string, file Attachment) error
	Close() error
}

// An Attachment is a file sent along with a reply.
type Attachment struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// A Member is a user of a guild.
type Member struct {
	ID   string
	Name string
	Bot  bool
}

// A Role is a named role of a guild.
type Role struct {
	ID   string
	Name string
}

// Guild is an optional capability of an Adapter that exposes the members and
// roles of a guild (server).
type Guild interface {
	// OnlineMembers returns all members of the guild that are currently online.
	OnlineMembers(guildID string) ([]Member, error)
	// Roles returns every role of the guild.
	Roles(guildID string) ([]Role, error)
	// MemberRoles returns the roles the member currently holds.
	MemberRoles(guildID, userID string) ([]Role, error)
	AddMemberRole(guildID, userID, roleID string) error
	RemoveMemberRole(guildID, userID, roleID string) error
}
