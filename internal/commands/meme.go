package commands

import (
	"bytes"
	"fmt"

	"github.com/asaskevich/govalidator"
	"github.com/gillepool/awoobot/internal/adapter"
	"github.com/gillepool/awoobot/internal/message"
	"go.uber.org/zap"
)

// Meme renders the top and optional bottom text onto the image at the URL of
// the first argument.
func (c *Commands) Meme(msg *message.Message, args ...string) error {
	var url, top, bottom string
	switch {
	case len(args) >= 3:
		bottom = args[2]
		fallthrough
	case len(args) == 2:
		url, top = args[0], args[1]
	}

	if url == "" || top == "" || !govalidator.IsRequestURL(url) {
		return msg.Reply(fmt.Sprintf("%s, please give me something to actually meme with!", msg.Mention()), nil)
	}

	data, err := c.Renderer.Render(msg.Context, url, top, bottom)
	if err != nil {
		c.Logger.Warn("Failed to render meme", zap.String("url", url), zap.Error(err))
		return apologize(msg)
	}

	return msg.Reply(fmt.Sprintf("%s, here's that meme you ordered:", msg.Mention()), &adapter.Attachment{
		Name:        "meme.png",
		ContentType: "image/png",
		Reader:      bytes.NewReader(data),
	})
}
