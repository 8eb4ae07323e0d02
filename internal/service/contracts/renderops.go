package contracts

import (
	"context"

	"github.com/collabglam/contractflow/internal/render"
	"github.com/collabglam/contractflow/internal/tokens"
)

// RenderPreview renders the contract document on demand without persisting
// anything. Locked contracts return the frozen snapshot verbatim.
func (s *Service) RenderPreview(ctx context.Context, id, requestedTZ string) (html string, err error) {
	defer func() { s.metrics.ObserveOp("preview", err) }()

	c, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if c.Locked() && c.RenderedTextSnapshot != "" {
		return c.RenderedTextSnapshot, nil
	}

	start := s.now()
	tm := tokens.Build(c, requestedTZ)
	html = render.Document(c, tm)
	s.metrics.ObserveRender(s.now().Sub(start))
	return html, nil
}

// ExportDocument renders the contract and asks the export service for the
// document bytes. When the export service is unavailable it degrades to the
// plain-text rendering instead of failing.
func (s *Service) ExportDocument(ctx context.Context, id, requestedTZ string) (data []byte, contentType string, err error) {
	defer func() { s.metrics.ObserveOp("export", err) }()

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}

	var tm tokens.Map
	var html string
	if c.Locked() && c.RenderedTextSnapshot != "" {
		tm = tokens.Map(c.TemplateTokensSnapshot)
		html = c.RenderedTextSnapshot
	} else {
		tm = tokens.Build(c, requestedTZ)
		html = render.Document(c, tm)
	}

	if s.documents != nil {
		out, renderErr := s.documents.Render(ctx, html)
		if renderErr == nil {
			return out, "application/pdf", nil
		}
		s.logger.Warn("document export degraded to plain text", "contract_id", c.ID, "error", renderErr)
	}
	return []byte(render.PlainText(c, tm)), "text/plain; charset=utf-8", nil
}
