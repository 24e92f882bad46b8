package repository

import (
	"context"
	"io"

	"github.com/cmxu/whereami/internal/entity"
)

type Object struct {
	ContentType   *string
	ContentLength *int64
	Content       io.ReadCloser
}

type Storage interface {
	Download(ctx context.Context, key string) (*Object, error)
}

type Images interface {
	Public(ctx context.Context, limit, offset int) ([]entity.ImageMetadata, error)
	PublicCount(ctx context.Context) (int, error)
	Curated(ctx context.Context, curatorEmail string, limit, offset int) ([]entity.ImageMetadata, error)
	CuratedCount(ctx context.Context, curatorEmail string) (int, error)
	ByID(ctx context.Context, id string) (*entity.ImageMetadata, error)
}

type Games interface {
	ByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Game, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type Users interface {
	ByID(ctx context.Context, id string) (*entity.UserProfile, error)
}

// ImageIndex is the key-value image namespace: per-image point lookups and
// the list of public image ids maintained by the upload path.
type ImageIndex interface {
	Image(ctx context.Context, id string) (*entity.ImageMetadata, error)
	PublicImageIDs(ctx context.Context) ([]string, error)
}

// GameIndex is the key-value game namespace.
type GameIndex interface {
	Game(ctx context.Context, id string) (*entity.Game, error)
}
