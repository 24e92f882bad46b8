package gallery

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/cmxu/whereami/internal/repository"
)

const (
	defaultFit     = "scale-down"
	defaultQuality = 85
)

type TransformRequest struct {
	Width   int
	Height  int
	Fit     string
	Quality int
	Format  string
}

// ParseTransform reads the w, h, fit, q and f query parameters. Missing or
// malformed values fall back to the defaults.
func ParseTransform(query url.Values) TransformRequest {
	req := TransformRequest{
		Fit:     defaultFit,
		Quality: defaultQuality,
	}

	if v, err := strconv.Atoi(query.Get("w")); err == nil && v > 0 {
		req.Width = v
	}
	if v, err := strconv.Atoi(query.Get("h")); err == nil && v > 0 {
		req.Height = v
	}
	if v := query.Get("fit"); v != "" {
		req.Fit = v
	}
	if v, err := strconv.Atoi(query.Get("q")); err == nil && v > 0 {
		req.Quality = v
	}
	req.Format = query.Get("f")

	return req
}

func (r TransformRequest) IsTransformation() bool {
	return r.Width > 0 || r.Height > 0 || r.Format != ""
}

// Transformer rewrites a stored object according to the request before it
// is served.
type Transformer interface {
	Transform(ctx context.Context, object *repository.Object, req TransformRequest) (*repository.Object, error)
}

// Passthrough serves the original object unchanged. Resize parameters are
// accepted and logged so callers keep a stable URL contract until real
// transformation lands.
type Passthrough struct {
	Logger *slog.Logger
}

func (p *Passthrough) Transform(ctx context.Context, object *repository.Object, req TransformRequest) (*repository.Object, error) {
	if req.IsTransformation() && p.Logger != nil {
		p.Logger.Info(
			"transformation requested, serving original",
			slog.Int("w", req.Width),
			slog.Int("h", req.Height),
			slog.String("fit", req.Fit),
			slog.Int("q", req.Quality),
			slog.String("f", req.Format),
		)
	}

	return object, nil
}
