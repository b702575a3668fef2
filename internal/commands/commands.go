// Package commands implements the chat commands of the bot.
package commands

import (
	"context"
	"fmt"

	"github.com/gillepool/awoobot/internal/dice"
	"github.com/gillepool/awoobot/internal/message"
	"github.com/gillepool/awoobot/internal/random"
	"github.com/gillepool/awoobot/internal/router"
	"github.com/gillepool/awoobot/internal/storage"
	"go.uber.org/zap"
)

// A MemeRenderer writes captions onto the image at url and returns a PNG.
type MemeRenderer interface {
	Render(ctx context.Context, url, top, bottom string) ([]byte, error)
}

// Commands holds the dependencies shared by all command handlers.
type Commands struct {
	Prefix   string
	Random   *random.Source
	Limits   dice.Limits
	Storage  *storage.Storage
	Renderer MemeRenderer
	Logger   *zap.Logger

	registry *router.Registry
}

// Registry builds the registry of all commands. It must be called once
// before any message is routed.
func (c *Commands) Registry() (*router.Registry, error) {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	registry, err := router.NewRegistry(
		router.NewCommand("choose", "choose <option> <option> [option...]", "Picks one of the options for you.", c.Choose),
		router.NewCommand("forget", "forget", "Forgets your last roll.", c.Forget),
		router.NewCommand("help", "help", "Lists all commands.", c.Help),
		router.NewCommand("meme", `meme <image url> "<top text>" ["<bottom text>"]`, "Writes text onto an image.", c.Meme),
		router.NewCommand("reroll", "reroll [reason...]", "Rolls your last dice again.", c.Reroll),
		router.NewCommand("roll", "roll <NdS[+M|-M]> [reason...]", "Rolls N dice with S sides and adds the modifier M.", c.Roll),
		router.NewCommand("spin", "spin", "Spins the bottle and points at someone online.", c.Spin),
		router.NewCommand("team", "team [color]", "Joins a team, or a random one if you don't pick.", c.Team),
	)
	if err != nil {
		return nil, err
	}

	c.registry = registry
	return registry, nil
}

// apologize tells the author that something went wrong without details.
func apologize(msg *message.Message) error {
	return msg.Reply(fmt.Sprintf("Sorry %s, but I couldn't process your request. :c", msg.Mention()), nil)
}
