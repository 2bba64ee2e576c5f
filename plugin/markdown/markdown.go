// Package markdown renders word notes (markdown) to HTML.
package markdown

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Service renders markdown notes to HTML.
type Service interface {
	RenderHTML(source string) (string, error)
}

type service struct {
	md goldmark.Markdown
}

// Option configures the markdown service.
type Option func(*options)

type options struct {
	hardWraps bool
}

// WithHardWraps renders single newlines as <br>, which matches how notes are
// written in the flashcard editor.
func WithHardWraps() Option {
	return func(o *options) {
		o.hardWraps = true
	}
}

// NewService creates a markdown rendering service. Raw HTML in notes is
// escaped, not passed through.
func NewService(opts ...Option) Service {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	gmOpts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
	}
	if o.hardWraps {
		gmOpts = append(gmOpts, goldmark.WithRendererOptions(html.WithHardWraps()))
	}

	return &service{md: goldmark.New(gmOpts...)}
}

func (s *service) RenderHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(source), &buf); err != nil {
		return "", errors.Wrap(err, "failed to render markdown")
	}
	return buf.String(), nil
}
