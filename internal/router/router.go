// Package router turns chat messages into command invocations.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gillepool/awoobot/internal/adapter"
	"github.com/gillepool/awoobot/internal/brain"
	"github.com/gillepool/awoobot/internal/events"
	"github.com/gillepool/awoobot/internal/message"
	"go.uber.org/zap"
)

// ErrNotCommand is returned by Parse for text that does not start with the
// command prefix.
var ErrNotCommand = errors.New("router: not a command")

// Outcome describes what the router did with a message.
type Outcome int

const (
	// Ignored messages are not addressed to the bot or could not be tokenized.
	Ignored Outcome = iota
	// Unknown messages are addressed to the bot but name no registered command.
	Unknown
	// Dispatched messages were handed to the handler of their command.
	Dispatched
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Unknown:
		return "unknown"
	case Dispatched:
		return "dispatched"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// An Invocation is a parsed command call.
type Invocation struct {
	Name string
	Args []string
}

// Parse splits text into a command name and its arguments if text starts with
// prefix. The name is lower-cased.
func Parse(prefix, text string) (Invocation, error) {
	if !strings.HasPrefix(text, prefix) {
		return Invocation{}, ErrNotCommand
	}

	tokens, err := Tokenize(strings.TrimPrefix(text, prefix))
	if err != nil {
		return Invocation{}, err
	}
	if len(tokens) == 0 || tokens[0] == "" {
		return Invocation{}, ErrNotCommand
	}

	return Invocation{
		Name: normalize(tokens[0]),
		Args: tokens[1:],
	}, nil
}

// Router dispatches messages to the commands of a Registry.
type Router struct {
	prefix   string
	registry *Registry
	adapter  adapter.Adapter
	logger   *zap.Logger
}

func New(prefix string, registry *Registry, a adapter.Adapter, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Router{
		prefix:   prefix,
		registry: registry,
		adapter:  a,
		logger:   logger,
	}
}

// Prefix returns the command prefix.
func (r *Router) Prefix() string {
	return r.prefix
}

// HandleMessage routes evt. Its signature makes it usable as Brain handler.
// A message that invoked a command is not passed to any later handler.
func (r *Router) HandleMessage(ctx context.Context, evt events.ReceiveMessageEvent) error {
	outcome, err := r.Route(ctx, evt)
	if outcome == Dispatched {
		brain.FinishEventContent(ctx)
	}
	return err
}

// Route dispatches evt to the handler of the command it invokes. Messages
// that are no command and unknown commands are dropped without a reply. The
// error of the handler is returned unchanged.
func (r *Router) Route(ctx context.Context, evt events.ReceiveMessageEvent) (Outcome, error) {
	inv, err := Parse(r.prefix, evt.Text)
	switch {
	case errors.Is(err, ErrNotCommand):
		return Ignored, nil
	case err != nil:
		r.logger.Debug("Ignoring message", zap.String("message_id", evt.ID), zap.Error(err))
		return Ignored, nil
	}

	cmd, ok := r.registry.Lookup(inv.Name)
	if !ok {
		r.logger.Debug("Unknown command", zap.String("command", inv.Name), zap.String("author_id", evt.AuthorID))
		return Unknown, nil
	}

	msg := &message.Message{
		Context:  ctx,
		ID:       evt.ID,
		Text:     evt.Text,
		AuthorID: evt.AuthorID,
		Channel:  evt.Channel,
		GuildID:  evt.GuildID,
		Data:     evt.Data,
		Adapter:  r.adapter,
	}

	r.logger.Info("Executing command",
		zap.String("command", cmd.Name),
		zap.Int("args", len(inv.Args)),
		zap.String("author_id", evt.AuthorID),
		zap.String("channel", evt.Channel),
	)

	return Dispatched, cmd.Handler(msg, inv.Args...)
}
