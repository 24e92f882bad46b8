package games

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmxu/whereami/internal/entity"
)

type fakeGameIndex struct {
	games map[string]entity.Game
}

func (f *fakeGameIndex) Game(ctx context.Context, id string) (*entity.Game, error) {
	game, ok := f.games[id]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", id, entity.ErrNotFound)
	}

	return &game, nil
}

type fakeImageIndex struct {
	images map[string]entity.ImageMetadata
	err    error
}

func (f *fakeImageIndex) Image(ctx context.Context, id string) (*entity.ImageMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}

	image, ok := f.images[id]
	if !ok {
		return nil, fmt.Errorf("image %s: %w", id, entity.ErrNotFound)
	}

	return &image, nil
}

func (f *fakeImageIndex) PublicImageIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.images))
	for id := range f.images {
		ids = append(ids, id)
	}

	return ids, nil
}

type fakeGames struct {
	byUser map[string][]entity.Game
}

func (f *fakeGames) ByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Game, error) {
	owned := f.byUser[userID]
	if offset >= len(owned) {
		return nil, nil
	}
	if offset+limit > len(owned) {
		limit = len(owned) - offset
	}

	return owned[offset : offset+limit], nil
}

func (f *fakeGames) CountByUser(ctx context.Context, userID string) (int, error) {
	return len(f.byUser[userID]), nil
}

type fakeUsers struct {
	users map[string]entity.UserProfile
}

func (f *fakeUsers) ByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, entity.ErrNotFound)
	}

	return &user, nil
}

func newService(gameIndex *fakeGameIndex, imageIndex *fakeImageIndex, owned *fakeGames, users *fakeUsers) *Service {
	if gameIndex == nil {
		gameIndex = &fakeGameIndex{}
	}
	if imageIndex == nil {
		imageIndex = &fakeImageIndex{}
	}
	if owned == nil {
		owned = &fakeGames{}
	}
	if users == nil {
		users = &fakeUsers{}
	}

	return New(Config{
		GameIndex:  gameIndex,
		ImageIndex: imageIndex,
		Games:      owned,
		Users:      users,
	})
}

func TestService_GameImages(t *testing.T) {
	s := newService(
		&fakeGameIndex{games: map[string]entity.Game{
			"g1": {ID: "g1", ImageIDs: []string{"img1", "img2", "img3"}},
		}},
		&fakeImageIndex{images: map[string]entity.ImageMetadata{
			"img1": {ID: "img1", Filename: "a.jpg"},
			"img2": {ID: "img2", Filename: "b.jpg"},
			"img3": {ID: "img3", Filename: "c.jpg"},
		}},
		nil, nil,
	)

	images, err := s.GameImages(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, "img1", images[0].ID)
	assert.Equal(t, "img3", images[2].ID)
}

func TestService_GameImagesMissingGame(t *testing.T) {
	s := newService(nil, nil, nil, nil)

	_, err := s.GameImages(context.Background(), "gone")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestService_GameImagesEmptyID(t *testing.T) {
	s := newService(nil, nil, nil, nil)

	_, err := s.GameImages(context.Background(), "")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestService_GameImagesDeletedImagesDropOut(t *testing.T) {
	s := newService(
		&fakeGameIndex{games: map[string]entity.Game{
			"g1": {ID: "g1", ImageIDs: []string{"img1", "deleted", "img3"}},
		}},
		&fakeImageIndex{images: map[string]entity.ImageMetadata{
			"img1": {ID: "img1"},
			"img3": {ID: "img3"},
		}},
		nil, nil,
	)

	images, err := s.GameImages(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "img1", images[0].ID)
	assert.Equal(t, "img3", images[1].ID)
}

func TestService_GameImagesLookupFailure(t *testing.T) {
	s := newService(
		&fakeGameIndex{games: map[string]entity.Game{
			"g1": {ID: "g1", ImageIDs: []string{"img1"}},
		}},
		&fakeImageIndex{err: errors.New("connection refused")},
		nil, nil,
	)

	_, err := s.GameImages(context.Background(), "g1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrNotFound)
}

func TestService_UserGames(t *testing.T) {
	s := newService(nil, nil,
		&fakeGames{byUser: map[string][]entity.Game{
			"u1": {
				{ID: "g1", ImageIDs: []string{"a", "b"}, Rating: 9, RatingCount: 2},
				{ID: "g2", ImageIDs: []string{"c"}},
			},
		}},
		&fakeUsers{users: map[string]entity.UserProfile{
			"u1": {ID: "u1", Username: "carol"},
		}},
	)

	page, err := s.UserGames(context.Background(), "u1", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.False(t, page.HasMore)
	require.Len(t, page.Games, 2)

	first := page.Games[0]
	assert.Equal(t, 4.5, first.AverageRating)
	assert.Equal(t, 2, first.ImageCount)
	assert.Equal(t, "/games/g1", first.URL)

	second := page.Games[1]
	assert.Zero(t, second.AverageRating)
	assert.Equal(t, 1, second.ImageCount)
}

func TestService_UserGamesMissingUser(t *testing.T) {
	s := newService(nil, nil, &fakeGames{}, &fakeUsers{})

	_, err := s.UserGames(context.Background(), "ghost", 50, 0)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestService_UserGamesEmptyID(t *testing.T) {
	s := newService(nil, nil, nil, nil)

	_, err := s.UserGames(context.Background(), "", 50, 0)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestService_UserGamesPagination(t *testing.T) {
	owned := make([]entity.Game, 0, 7)
	for i := 0; i < 7; i++ {
		owned = append(owned, entity.Game{ID: fmt.Sprintf("g%d", i)})
	}

	s := newService(nil, nil,
		&fakeGames{byUser: map[string][]entity.Game{"u1": owned}},
		&fakeUsers{users: map[string]entity.UserProfile{"u1": {ID: "u1"}}},
	)

	page, err := s.UserGames(context.Background(), "u1", 5, 0)
	require.NoError(t, err)
	assert.Len(t, page.Games, 5)
	assert.True(t, page.HasMore)

	page, err = s.UserGames(context.Background(), "u1", 5, 5)
	require.NoError(t, err)
	assert.Len(t, page.Games, 2)
	assert.False(t, page.HasMore)

	// limit above the cap is clamped
	page, err = s.UserGames(context.Background(), "u1", 500, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
}
