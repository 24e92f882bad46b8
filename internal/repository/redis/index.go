package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmxu/whereami/internal/entity"
	"github.com/redis/go-redis/v9"
)

const (
	keyPublicImages = "public_images"
	keyImagePrefix  = "image:"
	keyGamePrefix   = "game:"
)

// ImageIndex is the key-value image namespace: image:<id> holds a metadata
// record, public_images holds the JSON array of public image ids written by
// the upload path.
type ImageIndex struct {
	client redis.Cmdable
}

func NewImageIndex(client redis.Cmdable) *ImageIndex {
	return &ImageIndex{client: client}
}

func (i *ImageIndex) Image(ctx context.Context, id string) (*entity.ImageMetadata, error) {
	data, err := i.client.Get(ctx, keyImagePrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("image %s: %w", id, entity.ErrNotFound)
		}

		return nil, fmt.Errorf("get image %s: %w", id, err)
	}

	var image entity.ImageMetadata
	if err := json.Unmarshal([]byte(data), &image); err != nil {
		return nil, fmt.Errorf("unmarshal image %s: %w", id, err)
	}

	return &image, nil
}

func (i *ImageIndex) PublicImageIDs(ctx context.Context) ([]string, error) {
	data, err := i.client.Get(ctx, keyPublicImages).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("get public images: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return nil, fmt.Errorf("unmarshal public images: %w", err)
	}

	return ids, nil
}

// GameIndex is the key-value game namespace: game:<id> holds a game record.
type GameIndex struct {
	client redis.Cmdable
}

func NewGameIndex(client redis.Cmdable) *GameIndex {
	return &GameIndex{client: client}
}

func (g *GameIndex) Game(ctx context.Context, id string) (*entity.Game, error) {
	data, err := g.client.Get(ctx, keyGamePrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("game %s: %w", id, entity.ErrNotFound)
		}

		return nil, fmt.Errorf("get game %s: %w", id, err)
	}

	var game entity.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, fmt.Errorf("unmarshal game %s: %w", id, err)
	}

	return &game, nil
}
