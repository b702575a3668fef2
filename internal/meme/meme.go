// Package meme renders captions onto images.
package meme

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	"image/png"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp" // register decoder
)

const (
	fontSize         = 108
	minFontSize      = 12
	margin           = 24
	outlineThickness = 4
	maxImageBytes    = 8 << 20
	maxImageSide     = 8192
	maxImagePixels   = 40 << 20
)

// ErrImageTooLarge is returned for images whose dimensions exceed what the
// renderer is willing to allocate.
var ErrImageTooLarge = errors.New("meme: image too large")

// Gravity selects where a caption is placed.
type Gravity int

const (
	North Gravity = iota
	South
)

// Renderer downloads images and writes captions onto them.
type Renderer struct {
	client *http.Client
	font   *opentype.Font
	logger *zap.Logger
}

// NewRenderer creates a Renderer using the font at fontPath, or the bundled Go
// Bold font if fontPath is empty.
func NewRenderer(fontPath string, client *http.Client, logger *zap.Logger) (*Renderer, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	data := gobold.TTF
	if fontPath != "" {
		var err error
		data, err = os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	return &Renderer{client: client, font: f, logger: logger}, nil
}

// Render downloads the image at url, writes top at the top and the optional
// bottom text at the bottom and returns the result as PNG.
func (r *Renderer) Render(ctx context.Context, url, top, bottom string) ([]byte, error) {
	src, err := r.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(src.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)

	if err := r.caption(img, top, North); err != nil {
		return nil, err
	}
	if bottom != "" {
		if err := r.caption(img, bottom, South); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	r.logger.Debug("Rendered meme", zap.String("url", url), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (r *Renderer) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	// The header declares the size of the pixel buffer the decoder allocates,
	// so it is checked before the image is decoded.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if err := checkSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 || width > maxImageSide || height > maxImageSide || width*height > maxImagePixels {
		return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, width, height)
	}
	return nil
}

// caption draws white text with a black outline. The font shrinks until the
// text fits between the horizontal margins.
func (r *Renderer) caption(img *image.RGBA, text string, gravity Gravity) error {
	bounds := img.Bounds()

	face, width, err := r.fit(text, bounds.Dx()-2*margin)
	if err != nil {
		return err
	}
	defer face.Close()

	metrics := face.Metrics()
	x := fixed.I(bounds.Min.X) + (fixed.I(bounds.Dx())-width)/2

	var y fixed.Int26_6
	switch gravity {
	case North:
		y = fixed.I(bounds.Min.Y+margin) + metrics.Ascent
	case South:
		y = fixed.I(bounds.Max.Y-margin) - metrics.Descent
	}

	d := &font.Drawer{Dst: img, Src: image.NewUniform(color.Black), Face: face}
	for dx := -outlineThickness; dx <= outlineThickness; dx++ {
		for dy := -outlineThickness; dy <= outlineThickness; dy++ {
			if dx*dx+dy*dy > outlineThickness*outlineThickness {
				continue
			}
			d.Dot = fixed.Point26_6{X: x + fixed.I(dx), Y: y + fixed.I(dy)}
			d.DrawString(text)
		}
	}

	d.Src = image.NewUniform(color.White)
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)

	return nil
}

// fit returns the largest face not exceeding fontSize that renders text at
// most maxWidth pixels wide, together with the text width.
func (r *Renderer) fit(text string, maxWidth int) (font.Face, fixed.Int26_6, error) {
	for size := fontSize; ; size -= 4 {
		if size < minFontSize {
			size = minFontSize
		}

		face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("create font face: %w", err)
		}

		width := font.MeasureString(face, text)
		if width <= fixed.I(maxWidth) || size == minFontSize {
			return face, width, nil
		}
		face.Close()
	}
}
