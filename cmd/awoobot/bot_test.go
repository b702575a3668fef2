package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gillepool/awoobot/internal/adapter"
	"github.com/gillepool/awoobot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestBotRunsCommandsFromTheCLI(t *testing.T) {
	cfg := &config.Config{
		Adapter:        config.AdapterCLI,
		Name:           "AwooBot",
		Prefix:         "!",
		MaxDice:        20,
		MaxSides:       100,
		HandlerTimeout: time.Second,
	}

	bot, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	out := new(syncBuffer)
	cli := bot.Adapter.(*adapter.CLIAdapter)
	cli.Author = "tester"
	cli.Output = out
	cli.Input = io.NopCloser(strings.NewReader("hello there\n!dance\n!roll 2d1+1 for science\n!choose one\n"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "you've got to give me some options")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bot did not stop")
	}

	output := out.String()
	assert.Contains(t, output, "<@tester> rolled 2d1+1: **3**\r\n_Results:_ `[ 1 + 1 ] + 1 = 3`\r\n_Reason:_ for science")
	assert.Equal(t, 2, strings.Count(output, "<@tester>"), "only !roll and !choose reply")
}
