package adapter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gillepool/awoobot/internal/brain"
	"github.com/gillepool/awoobot/internal/events"
	"go.uber.org/zap"
)

// CLIChannel is the channel name of every message read by the CLIAdapter.
const CLIChannel = "cli"

type CLIAdapter struct {
	Prefix  string
	Input   io.ReadCloser
	Output  io.Writer
	Author  string     // used to set the author of the messages, defaults to os.Getenv("USER")
	mu      sync.Mutex // protects the Output and closing channel
	closing chan chan error
	logger  *zap.Logger
}

// NewCLIAdapter creates a new CLIAdapter. The caller must call Close
// to make the CLIAdapter stop reading messages and emitting events.
func NewCLIAdapter(name string, logger *zap.Logger) *CLIAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CLIAdapter{
		Prefix:  fmt.Sprintf("%s > ", name),
		Input:   os.Stdin,
		Output:  os.Stdout,
		Author:  os.Getenv("USER"),
		closing: make(chan chan error),
		logger:  logger,
	}
}

// RegisterAt starts the CLIAdapter by reading messages from stdin and emitting
// a ReceiveMessageEvent for each of them. Additionally the adapter hooks into
// the InitEvent to print a nice prefix to stdout to show to the user it is
// ready to accept input.
func (a *CLIAdapter) RegisterAt(b *brain.Brain) {
	b.RegisterHandler(func(evt events.InitEvent) {
		_ = a.print(a.Prefix)
	})

	go a.loop(b)
}

func (a *CLIAdapter) loop(b *brain.Brain) {
	input := a.readLines()

	// The adapter loop is built to stay responsive even if the Brain stops
	// processing events so we can safely close the CLIAdapter.
	//
	// We want to print the prefix each time when the Brain has completely
	// processed a ReceiveMessageEvent and before we are emitting the next one.
	// This gives us a shell-like behavior which signals to the user that they
	// can input more data on the CLI. This channel is buffered so we do not
	// block the Brain when it executes the callback.
	callback := make(chan brain.Event, 1)
	callbackFun := func(evt brain.Event) {
		callback <- evt
	}

	var lines = input // channel represents the case that we receive a new message
	var seq int

	for {
		select {
		case msg, ok := <-lines:
			if !ok {
				// no more input from stdin
				lines = nil // disable this case and wait for closing signal
				continue
			}

			seq++
			lines = nil // disable this case and wait for the callback
			b.Emit(events.ReceiveMessageEvent{
				ID:       fmt.Sprint(seq),
				Text:     msg,
				AuthorID: a.Author,
				Channel:  CLIChannel,
			}, callbackFun)

		case <-callback:
			// This case is executed after all ReceiveMessageEvent handlers have
			// completed and we can continue with the next line.
			_ = a.print(a.Prefix)
			lines = input // activate first case again

		case result := <-a.closing:
			if lines == nil {
				// We were just waiting for our callback
				_ = a.print(a.Prefix)
			}

			_ = a.print("\n")
			result <- a.Input.Close()
			return
		}
	}
}

// readLines reads lines from stdin and returns them in a channel.
// All strings in the returned channel will not include the trailing newline.
// The channel is closed automatically when a.Input is closed.
func (a *CLIAdapter) readLines() <-chan string {
	r := bufio.NewReader(a.Input)
	lines := make(chan string)
	go func() {
		// This goroutine will exit when we call a.Input.Close() which will make
		// r.ReadString(…) return an io.EOF.
		for {
			line, err := r.ReadString('\n')
			switch {
			case err == io.EOF:
				if line != "" {
					lines <- strings.TrimRight(line, "\r\n")
				}
				close(lines)
				return
			case err != nil:
				a.logger.Warn("Failed to read from input", zap.Error(err))
				close(lines)
				return
			}

			lines <- strings.TrimRight(line, "\r\n")
		}
	}()

	return lines
}

// Send implements the Adapter interface by sending the given text to stdout.
// The channel argument is required by the Adapter interface but is otherwise ignored.
func (a *CLIAdapter) Send(text, channel string) error {
	return a.print(text + "\n")
}

// SendAttachment prints the text followed by a short description of the
// attachment since a terminal cannot show images.
func (a *CLIAdapter) SendAttachment(text, channel string, file Attachment) error {
	n, err := io.Copy(io.Discard, file.Reader)
	if err != nil {
		return fmt.Errorf("read attachment: %w", err)
	}

	return a.print(fmt.Sprintf("%s\n[attachment %s, %d bytes]\n", text, file.Name, n))
}

// Close makes the CLIAdapter stop emitting any new events or printing any output.
// Calling this function more than once will result in an error.
func (a *CLIAdapter) Close() error {
	a.mu.Lock()
	closing := a.closing
	a.mu.Unlock()

	if closing == nil {
		return errors.New("already closed")
	}

	callback := make(chan error)
	closing <- callback
	err := <-callback

	// Mark CLIAdapter as closed by setting its closing channel to nil.
	// This will prevent any more output to be printed after this function returns.
	a.mu.Lock()
	a.closing = nil
	a.mu.Unlock()

	return err
}

func (a *CLIAdapter) print(msg string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closing == nil {
		return errors.New("adapter is closed")
	}

	_, err := fmt.Fprint(a.Output, msg)
	return err
}
