package commands

import (
	"fmt"
	"strings"

	"github.com/gillepool/awoobot/internal/adapter"
	"github.com/gillepool/awoobot/internal/message"
	"github.com/gillepool/awoobot/internal/random"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const teamSuffix = "Team"

// Teams lists the colors of the supported team roles. The role of a team is
// named "<color> Team".
var Teams = []string{"Blue", "Gold", "Green", "Pink", "Purple", "Red"}

// Team moves the author into the team named by the arguments, or into a
// random team without arguments. A member is in at most one team.
func (c *Commands) Team(msg *message.Message, args ...string) error {
	guild, ok := msg.Guild()
	if !ok {
		return msg.Reply(fmt.Sprintf("%s, picking a team only works in a server!", msg.Mention()), nil)
	}

	var newTeam string
	if len(args) == 0 {
		if err := msg.Reply(fmt.Sprintf("If you won't pick a team, %s, then I'll pick one for you!", msg.Mention()), nil); err != nil {
			return err
		}
		newTeam = random.Pick(c.Random, Teams) + " " + teamSuffix
	} else {
		newTeam = teamName(strings.Join(args, " "))
	}

	if !isTeam(newTeam) {
		return msg.Reply(fmt.Sprintf("%s, the `%s` isn't a valid role.", msg.Mention(), newTeam), nil)
	}

	roles, err := guild.Roles(msg.GuildID)
	if err != nil {
		c.Logger.Warn("Failed to list roles", zap.String("guild_id", msg.GuildID), zap.Error(err))
		return apologize(msg)
	}
	joining, ok := findRole(roles, newTeam)
	if !ok {
		c.Logger.Warn("Team role is missing", zap.String("guild_id", msg.GuildID), zap.String("role", newTeam))
		return apologize(msg)
	}

	held, err := guild.MemberRoles(msg.GuildID, msg.AuthorID)
	if err != nil {
		c.Logger.Warn("Failed to list member roles", zap.String("user_id", msg.AuthorID), zap.Error(err))
		return apologize(msg)
	}

	current := teamRoles(held)
	if len(current) > 1 {
		c.Logger.Error("Member is in more than one team", zap.String("user_id", msg.AuthorID), zap.Int("teams", len(current)))
		return apologize(msg)
	}

	if len(current) == 0 {
		if err := guild.AddMemberRole(msg.GuildID, msg.AuthorID, joining.ID); err != nil {
			c.Logger.Warn("Failed to add team role", zap.String("user_id", msg.AuthorID), zap.Error(err))
			return apologize(msg)
		}
		return msg.Reply(fmt.Sprintf("%s joined the %s!", msg.Mention(), message.RoleMention(joining.ID)), nil)
	}

	old := current[0]
	if old.Name == newTeam {
		return msg.Reply(fmt.Sprintf("%s, you're already on the %s!", msg.Mention(), newTeam), nil)
	}

	if err := guild.RemoveMemberRole(msg.GuildID, msg.AuthorID, old.ID); err != nil {
		c.Logger.Warn("Failed to remove team role", zap.String("user_id", msg.AuthorID), zap.Error(err))
		return apologize(msg)
	}
	if err := guild.AddMemberRole(msg.GuildID, msg.AuthorID, joining.ID); err != nil {
		c.Logger.Warn("Failed to add team role", zap.String("user_id", msg.AuthorID), zap.Error(err))
		return apologize(msg)
	}

	return msg.Reply(fmt.Sprintf("%s left the %s and joined the %s!", msg.Mention(), old.Name, message.RoleMention(joining.ID)), nil)
}

// teamName turns user input like "blue" or "BLUE team" into "Blue Team".
func teamName(input string) string {
	name := strings.Join(strings.Fields(input), " ")
	if len(name) >= len(teamSuffix) && strings.EqualFold(name[len(name)-len(teamSuffix):], teamSuffix) {
		name = strings.TrimSpace(name[:len(name)-len(teamSuffix)])
	}

	return cases.Title(language.English).String(name) + " " + teamSuffix
}

func isTeam(name string) bool {
	for _, color := range Teams {
		if name == color+" "+teamSuffix {
			return true
		}
	}
	return false
}

func findRole(roles []adapter.Role, name string) (adapter.Role, bool) {
	for _, r := range roles {
		if r.Name == name {
			return r, true
		}
	}
	return adapter.Role{}, false
}

func teamRoles(roles []adapter.Role) []adapter.Role {
	var teams []adapter.Role
	for _, r := range roles {
		if strings.HasSuffix(r.Name, teamSuffix) {
			teams = append(teams, r)
		}
	}
	return teams
}
