// Package talisman draws a lucky mascot sticker for a wish, preferring a
// real image model and falling back to pixel-art SVG from the text model.
package talisman

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	"github.com/ziadkadry99/lucky-universe/internal/llm"
)

// DefaultDescription is used when the design step yields nothing.
const DefaultDescription = "A cute fluffy rabbit smiling happily"

// Source says which path produced the image.
type Source string

const (
	SourceImage Source = "image"
	SourceSVG   Source = "svg"
)

var (
	// ErrGenerationFailed is returned when both the image model and the SVG
	// fallback failed.
	ErrGenerationFailed = errors.New("talisman generation failed")
	// ErrNoSVG means the text model answered without any <svg> markup.
	ErrNoSVG = errors.New("response contains no svg")
)

// Image is a finished talisman.
type Image struct {
	DataURL     string `json:"dataUrl"`
	MIMEType    string `json:"mimeType"`
	Source      Source `json:"source"`
	Description string `json:"description"`
	Wish        string `json:"wish"`
}

// Generator runs the design, image and fallback steps.
type Generator struct {
	provider   llm.Provider
	model      string
	imageModel string
	logger     *zap.Logger
}

// NewGenerator creates a talisman generator.
func NewGenerator(provider llm.Provider, model, imageModel string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		provider:   provider,
		model:      model,
		imageModel: imageModel,
		logger:     logger.Named("talisman"),
	}
}

// Generate produces a sticker for wish. The design step never fails the
// whole flow; only the loss of both image paths does.
func (g *Generator) Generate(ctx context.Context, wish string, u fortune.UserData) (*Image, error) {
	if err := fortune.ValidateWish(wish); err != nil {
		return nil, err
	}
	wish = strings.TrimSpace(wish)
	if u.MBTI == "" {
		u.MBTI = fortune.DefaultMBTI
	}

	desc := g.describe(ctx, wish, u)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, imgErr := g.render(ctx, desc)
	if imgErr == nil {
		img.Wish = wish
		return img, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.logger.Warn("image model unavailable, switching to svg", zap.Error(imgErr))

	svg, svgErr := g.pixelArt(ctx, desc)
	if svgErr != nil {
		g.logger.Error("svg fallback failed", zap.Error(svgErr))
		return nil, fmt.Errorf("%w: image: %w; svg: %w", ErrGenerationFailed, imgErr, svgErr)
	}
	svg.Wish = wish
	return svg, nil
}

func (g *Generator) describe(ctx context.Context, wish string, u fortune.UserData) string {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: DesignPrompt(wish, u.MBTI)}},
		Temperature: 1.0,
	})
	if err != nil {
		g.logger.Warn("character design failed, using default", zap.Error(err))
		return DefaultDescription
	}
	desc := strings.TrimSpace(resp.Content)
	if desc == "" {
		return DefaultDescription
	}
	return desc
}

func (g *Generator) render(ctx context.Context, desc string) (*Image, error) {
	ip, ok := llm.AsImageProvider(g.provider)
	if !ok {
		return nil, llm.ErrImagesUnsupported
	}
	resp, err := ip.GenerateImage(ctx, llm.ImageRequest{
		Model:       g.imageModel,
		Prompt:      StickerPrompt(desc),
		AspectRatio: "1:1",
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, llm.ErrEmptyResponse
	}
	mime := resp.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &Image{
		DataURL:     DataURL(mime, resp.Data),
		MIMEType:    mime,
		Source:      SourceImage,
		Description: desc,
	}, nil
}

func (g *Generator) pixelArt(ctx context.Context, desc string) (*Image, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: PixelArtPrompt(desc)}},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}
	svg, err := ExtractSVG(resp.Content)
	if err != nil {
		return nil, err
	}
	return &Image{
		DataURL:     DataURL("image/svg+xml", []byte(svg)),
		MIMEType:    "image/svg+xml",
		Source:      SourceSVG,
		Description: desc,
	}, nil
}

var (
	svgPattern   = regexp.MustCompile(`(?i)<svg[\s\S]*?</svg>`)
	fencePattern = regexp.MustCompile("```(?:xml|svg)?")
)

// ExtractSVG pulls the first <svg>...</svg> element out of model output,
// or strips code fences when the closing tag is missing.
func ExtractSVG(text string) (string, error) {
	text = strings.TrimSpace(text)
	if m := svgPattern.FindString(text); m != "" {
		return m, nil
	}
	stripped := strings.TrimSpace(fencePattern.ReplaceAllString(text, ""))
	if !strings.Contains(strings.ToLower(stripped), "<svg") {
		return "", ErrNoSVG
	}
	return stripped, nil
}

// DataURL encodes data as a base64 data URL.
func DataURL(mime string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}
