package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/cmxu/whereami/internal/entity"
	"github.com/cmxu/whereami/internal/repository"
)

// CuratorEmail is the account whose uploads make up the curated listing.
const CuratorEmail = "public@geo.cmxu.io"

const (
	maxRandomCount = 50
	minRandomFetch = 100

	defaultContentType = "image/jpeg"

	thumbnailPreset = "?w=300&h=300&fit=cover&q=80"
	previewPreset   = "?w=800&h=600&fit=scale-down&q=85"
)

type Gallery struct {
	storage     repository.Storage
	images      repository.Images
	transformer Transformer
	logger      *slog.Logger
}

type Config struct {
	Storage     repository.Storage
	Images      repository.Images
	Transformer Transformer
	Logger      *slog.Logger
}

func New(c Config) *Gallery {
	transformer := c.Transformer
	if transformer == nil {
		transformer = &Passthrough{Logger: c.Logger}
	}

	return &Gallery{
		storage:     c.Storage,
		images:      c.Images,
		transformer: transformer,
		logger:      c.Logger,
	}
}

type Image struct {
	entity.ImageMetadata
	Src        string `json:"src,omitempty"`
	URL        string `json:"url,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

type Page struct {
	Images  []Image `json:"images"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
	HasMore bool    `json:"hasMore"`
}

// Object resolves a public image path to its storage key and returns the
// stored object. Transform parameters are applied by the configured
// transformer.
func (g *Gallery) Object(ctx context.Context, path string, req TransformRequest) (*repository.Object, error) {
	if g.storage == nil {
		return nil, fmt.Errorf("storage binding: %w", entity.ErrNotConfigured)
	}
	if path == "" {
		return nil, fmt.Errorf("image path required: %w", entity.ErrInvalidInput)
	}

	key := entity.ObjectKey(path)

	object, err := g.storage.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}

	if object.ContentType == nil || *object.ContentType == "" {
		contentType := defaultContentType
		object.ContentType = &contentType
	}

	return g.transformer.Transform(ctx, object, req)
}

// Random returns up to count public images. The page fetched from the
// metadata store is shuffled and the head taken, so the result is uniform
// over the fetched page only, not over the full public corpus.
func (g *Gallery) Random(ctx context.Context, count int) ([]Image, error) {
	if g.images == nil {
		return nil, fmt.Errorf("metadata store: %w", entity.ErrNotConfigured)
	}

	if count < 1 {
		count = 1
	}
	if count > maxRandomCount {
		count = maxRandomCount
	}

	fetch := count * 3
	if fetch < minRandomFetch {
		fetch = minRandomFetch
	}

	population, err := g.images.Public(ctx, fetch, 0)
	if err != nil {
		return nil, fmt.Errorf("public images: %w", err)
	}
	if len(population) == 0 {
		return nil, fmt.Errorf("no public images available: %w", entity.ErrNotFound)
	}

	rand.Shuffle(len(population), func(i, j int) {
		population[i], population[j] = population[j], population[i]
	})

	if count > len(population) {
		count = len(population)
	}

	images := make([]Image, 0, count)
	for _, meta := range population[:count] {
		src := imageSrc(meta)
		if meta.ThumbnailURL == "" {
			meta.ThumbnailURL = src + thumbnailPreset
		}

		images = append(images, Image{
			ImageMetadata: meta,
			Src:           src,
		})
	}

	return images, nil
}

// Curated lists the public uploads of the curator account.
func (g *Gallery) Curated(ctx context.Context, limit, offset int) (*Page, error) {
	if g.images == nil {
		return nil, fmt.Errorf("metadata store: %w", entity.ErrNotConfigured)
	}

	if limit < 1 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}

	curated, err := g.images.Curated(ctx, CuratorEmail, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("curated images: %w", err)
	}

	total, err := g.images.CuratedCount(ctx, CuratorEmail)
	if err != nil {
		return nil, fmt.Errorf("curated count: %w", err)
	}

	images := make([]Image, 0, len(curated))
	for _, meta := range curated {
		src := imageSrc(meta)
		if meta.ThumbnailURL == "" {
			meta.ThumbnailURL = src + thumbnailPreset
		}

		images = append(images, Image{
			ImageMetadata: meta,
			URL:           src,
			PreviewURL:    src + previewPreset,
		})
	}

	return &Page{
		Images:  images,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}

func imageSrc(meta entity.ImageMetadata) string {
	return "/api/images/" + meta.ID + "/" + meta.Filename
}
