package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cmxu/whereami/internal/entity"
	"github.com/cmxu/whereami/internal/repository"
)

const maxLimit = 100

type Service struct {
	gameIndex  repository.GameIndex
	imageIndex repository.ImageIndex
	games      repository.Games
	users      repository.Users
	logger     *slog.Logger
}

type Config struct {
	GameIndex  repository.GameIndex
	ImageIndex repository.ImageIndex
	Games      repository.Games
	Users      repository.Users
	Logger     *slog.Logger
}

func New(c Config) *Service {
	return &Service{
		gameIndex:  c.GameIndex,
		imageIndex: c.ImageIndex,
		games:      c.Games,
		users:      c.Users,
		logger:     c.Logger,
	}
}

type Game struct {
	entity.Game
	AverageRating float64 `json:"averageRating"`
	ImageCount    int     `json:"imageCount"`
	URL           string  `json:"url"`
}

type Page struct {
	Games   []Game `json:"games"`
	Total   int    `json:"total"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	HasMore bool   `json:"hasMore"`
}

// GameImages resolves every member image of a game. Lookups run
// concurrently; images deleted since the game was built are dropped, a
// failing lookup fails the whole request.
func (s *Service) GameImages(ctx context.Context, gameID string) ([]entity.ImageMetadata, error) {
	if s.gameIndex == nil || s.imageIndex == nil {
		return nil, fmt.Errorf("kv stores: %w", entity.ErrNotConfigured)
	}
	if gameID == "" {
		return nil, fmt.Errorf("game id required: %w", entity.ErrInvalidInput)
	}

	game, err := s.gameIndex.Game(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", gameID, err)
	}

	var (
		wg      sync.WaitGroup
		results = make([]*entity.ImageMetadata, len(game.ImageIDs))
		errs    = make([]error, len(game.ImageIDs))
	)
	for i, id := range game.ImageIDs {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()

			image, err := s.imageIndex.Image(ctx, id)
			if err != nil {
				if !errors.Is(err, entity.ErrNotFound) {
					errs[i] = err
				}
				return
			}

			results[i] = image
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("image lookup: %w", err)
		}
	}

	images := make([]entity.ImageMetadata, 0, len(results))
	for _, image := range results {
		if image != nil {
			images = append(images, *image)
		}
	}

	return images, nil
}

// UserGames lists the games owned by a user, newest first.
func (s *Service) UserGames(ctx context.Context, userID string, limit, offset int) (*Page, error) {
	if s.games == nil || s.users == nil {
		return nil, fmt.Errorf("metadata store: %w", entity.ErrNotConfigured)
	}
	if userID == "" {
		return nil, fmt.Errorf("user id required: %w", entity.ErrInvalidInput)
	}

	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	if _, err := s.users.ByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}

	owned, err := s.games.ByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("user games: %w", err)
	}

	total, err := s.games.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user games count: %w", err)
	}

	enriched := make([]Game, 0, len(owned))
	for _, game := range owned {
		var average float64
		if game.RatingCount > 0 {
			average = game.Rating / float64(game.RatingCount)
		}

		enriched = append(enriched, Game{
			Game:          game,
			AverageRating: average,
			ImageCount:    len(game.ImageIDs),
			URL:           "/games/" + game.ID,
		})
	}

	return &Page{
		Games:   enriched,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}, nil
}
