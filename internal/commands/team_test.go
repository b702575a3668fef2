package commands

import (
	"strings"
	"testing"

	"github.com/gillepool/awoobot/internal/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teamGuild(a *fakeAdapter) {
	a.roles = []adapter.Role{
		{ID: "r-blue", Name: "Blue Team"},
		{ID: "r-gold", Name: "Gold Team"},
		{ID: "r-green", Name: "Green Team"},
		{ID: "r-pink", Name: "Pink Team"},
		{ID: "r-purple", Name: "Purple Team"},
		{ID: "r-red", Name: "Red Team"},
		{ID: "r-mod", Name: "Moderator"},
	}
}

func TestTeamJoin(t *testing.T) {
	c, a := newCommands(t)
	teamGuild(a)
	a.memberRoles["42"] = []string{"r-mod"}

	require.NoError(t, c.Team(newMessage(a, "g1"), "blue"))

	assert.Equal(t, "<@42> joined the <@&r-blue>!", a.last())
	assert.Equal(t, []string{"r-mod", "r-blue"}, a.memberRoles["42"])
}

func TestTeamSwitch(t *testing.T) {
	c, a := newCommands(t)
	teamGuild(a)
	a.memberRoles["42"] = []string{"r-red"}

	require.NoError(t, c.Team(newMessage(a, "g1"), "GOLD", "team"))

	assert.Equal(t, "<@42> left the Red Team and joined the <@&r-gold>!", a.last())
	assert.Equal(t, []string{"r-gold"}, a.memberRoles["42"])
}

func TestTeamAlreadyJoined(t *testing.T) {
	c, a := newCommands(t)
	teamGuild(a)
	a.memberRoles["42"] = []string{"r-pink"}

	require.NoError(t, c.Team(newMessage(a, "g1"), "pink"))

	assert.Equal(t, "<@42>, you're already on the Pink Team!", a.last())
	assert.Equal(t, []string{"r-pink"}, a.memberRoles["42"])
}

func TestTeamInvalid(t *testing.T) {
	c, a := newCommands(t)
	teamGuild(a)

	require.NoError(t, c.Team(newMessage(a, "g1"), "orange"))

	assert.Equal(t, "<@42>, the `Orange Team` isn't a valid role.", a.last())
	assert.Empty(t, a.memberRoles["42"])
}

func TestTeamRandom(t *testing.T) {
	c, a := newCommands(t)
	teamGuild(a)

	require.NoError(t, c.Team(newMessage(a, "g1")))

	texts := a.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, "If you won't pick a team, <@42>, then I'll pick one for you!", texts[0])
	assert.True(t, strings.HasPrefix(texts[1], "<@42> joined the <@&r-"), texts[1])
	assert.Len(t, a.memberRoles["42"], 1)
}

func TestTeamMissingRole(t *testing.T) {
	c, a := newCommands(t)
	a.roles = []adapter.Role{{ID: "r-blue", Name: "Blue Team"}}

	require.NoError(t, c.Team(newMessage(a, "g1"), "red"))

	assert.Equal(t, "Sorry <@42>, but I couldn't process your request. :c", a.last())
}

func TestTeamMoreThanOneTeam(t *testing.T) {
	c, a := newCommands(t)
	teamGuild(a)
	a.memberRoles["42"] = []string{"r-red", "r-blue"}

	require.NoError(t, c.Team(newMessage(a, "g1"), "gold"))

	assert.Equal(t, "Sorry <@42>, but I couldn't process your request. :c", a.last())
	assert.Equal(t, []string{"r-red", "r-blue"}, a.memberRoles["42"])
}

func TestTeamOutsideGuild(t *testing.T) {
	c, a := newCommands(t)

	require.NoError(t, c.Team(newMessage(a, ""), "blue"))

	assert.Equal(t, "<@42>, picking a team only works in a server!", a.last())
}

func TestTeamName(t *testing.T) {
	assert.Equal(t, "Blue Team", teamName("blue"))
	assert.Equal(t, "Blue Team", teamName("BLUE team"))
	assert.Equal(t, "Purple Team", teamName("  purple  "))
	assert.Equal(t, "Sky Blue Team", teamName("sky blue"))
}
