package adapter

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gillepool/awoobot/internal/brain"
	"github.com/gillepool/awoobot/internal/events"
	"go.uber.org/zap"
)

type DiscordAdapter struct {
	Client *discordgo.Session
	logger *zap.Logger
	events chan discordEvent
	done   chan struct{}
}

type discordEvent struct {
	Message discordgo.Message
}

// NewDiscordAdapter creates a Discord session for the given bot token and
// connects it. The caller must call Close to disconnect.
func NewDiscordAdapter(token string, logger *zap.Logger) (*DiscordAdapter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	discordAdapter := &DiscordAdapter{
		Client: client,
		logger: logger,
		events: make(chan discordEvent, 64),
		done:   make(chan struct{}),
	}

	// Message content and presences are privileged intents and have to be
	// enabled for the bot in the developer portal.
	client.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildPresences
	client.StateEnabled = true

	// This function will be called every time a new message is created on any
	// channel that the authenticated bot has access to.
	client.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if ignoreMessage(m.Message) {
			return
		}
		select {
		case discordAdapter.events <- discordEvent{Message: *m.Message}:
		case <-discordAdapter.done:
		}
	})

	client.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Info("Connected to Discord",
			zap.String("user", r.User.Username),
			zap.Int("guilds", len(r.Guilds)),
		)
	})

	if err := client.Open(); err != nil {
		return nil, fmt.Errorf("open discord session: %w", err)
	}

	return discordAdapter, nil
}

// ignoreMessage reports whether a message must never reach the Brain. This
// covers messages written by any bot, including our own replies.
func ignoreMessage(msg *discordgo.Message) bool {
	return msg == nil || msg.Author == nil || msg.Author.Bot
}

func (a *DiscordAdapter) handleDiscordEvents(b *brain.Brain) {
	for {
		select {
		case msg := <-a.events:
			a.handleMessageEvent(msg.Message, b)
		case <-a.done:
			return
		}
	}
}

func (a *DiscordAdapter) handleMessageEvent(msg discordgo.Message, b *brain.Brain) {
	b.Emit(receiveMessageEvent(msg))
}

func receiveMessageEvent(msg discordgo.Message) events.ReceiveMessageEvent {
	return events.ReceiveMessageEvent{
		Text:     msg.Content,
		Channel:  msg.ChannelID,
		GuildID:  msg.GuildID,
		ID:       msg.ID,
		AuthorID: msg.Author.ID,
		Data:     msg,
	}
}

func (a *DiscordAdapter) RegisterAt(b *brain.Brain) {
	go a.handleDiscordEvents(b)
}

// Send sends a text message to the given channel.
func (a *DiscordAdapter) Send(text, channelID string) error {
	a.logger.Debug("Sending message to channel", zap.String("channel_id", channelID))
	_, err := a.Client.ChannelMessageSend(channelID, text)
	return err
}

// SendAttachment sends a text message with a single file to the given channel.
func (a *DiscordAdapter) SendAttachment(text, channelID string, file Attachment) error {
	a.logger.Debug("Sending attachment to channel",
		zap.String("channel_id", channelID),
		zap.String("file", file.Name),
	)
	_, err := a.Client.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: text,
		Files: []*discordgo.File{{
			Name:        file.Name,
			ContentType: file.ContentType,
			Reader:      file.Reader,
		}},
	})
	return err
}

// OnlineMembers implements the Guild interface from the session state. It
// requires the guild members and presences intents.
func (a *DiscordAdapter) OnlineMembers(guildID string) ([]Member, error) {
	guild, err := a.Client.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("lookup guild %s: %w", guildID, err)
	}

	var online []Member
	for _, m := range guild.Members {
		if m.User == nil {
			continue
		}

		presence, err := a.Client.State.Presence(guildID, m.User.ID)
		if err != nil || presence.Status != discordgo.StatusOnline {
			continue
		}

		online = append(online, Member{ID: m.User.ID, Name: m.User.Username, Bot: m.User.Bot})
	}

	return online, nil
}

func (a *DiscordAdapter) Roles(guildID string) ([]Role, error) {
	roles, err := a.Client.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("fetch roles of guild %s: %w", guildID, err)
	}

	return convertRoles(roles), nil
}

func (a *DiscordAdapter) MemberRoles(guildID, userID string) ([]Role, error) {
	member, err := a.Client.GuildMember(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch member %s: %w", userID, err)
	}

	all, err := a.Roles(guildID)
	if err != nil {
		return nil, err
	}

	return filterRoles(all, member.Roles), nil
}

func (a *DiscordAdapter) AddMemberRole(guildID, userID, roleID string) error {
	a.logger.Info("Adding role", zap.String("guild_id", guildID), zap.String("user_id", userID), zap.String("role_id", roleID))
	return a.Client.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (a *DiscordAdapter) RemoveMemberRole(guildID, userID, roleID string) error {
	a.logger.Info("Removing role", zap.String("guild_id", guildID), zap.String("user_id", userID), zap.String("role_id", roleID))
	return a.Client.GuildMemberRoleRemove(guildID, userID, roleID)
}

func convertRoles(roles []*discordgo.Role) []Role {
	result := make([]Role, 0, len(roles))
	for _, r := range roles {
		result = append(result, Role{ID: r.ID, Name: r.Name})
	}
	return result
}

// filterRoles returns the roles whose IDs are contained in ids, keeping the
// order of roles.
func filterRoles(roles []Role, ids []string) []Role {
	held := make(map[string]bool, len(ids))
	for _, id := range ids {
		held[strings.TrimSpace(id)] = true
	}

	var result []Role
	for _, r := range roles {
		if held[r.ID] {
			result = append(result, r)
		}
	}
	return result
}

// Close disconnects from Discord and stops emitting events.
func (a *DiscordAdapter) Close() error {
	select {
	case <-a.done:
		return nil
	default:
		close(a.done)
	}

	return a.Client.Close()
}
