package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmxu/whereami/internal/entity"
	"github.com/cmxu/whereami/internal/repository"
	"github.com/lib/pq"
)

type gameRepo struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) repository.Games {
	return &gameRepo{db: db}
}

func (r *gameRepo) ByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Game, error) {
	query := `
		SELECT
			id, name, description, image_ids, created_by, created_at,
			is_public, play_count, rating, rating_count, tags, difficulty
		FROM games
		WHERE created_by = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query user games: %w", err)
	}
	defer rows.Close()

	var games []entity.Game
	for rows.Next() {
		var (
			game        entity.Game
			description sql.NullString
			createdAt   time.Time
			difficulty  sql.NullString
		)

		if err := rows.Scan(
			&game.ID,
			&game.Name,
			&description,
			pq.Array(&game.ImageIDs),
			&game.CreatedBy,
			&createdAt,
			&game.IsPublic,
			&game.PlayCount,
			&game.Rating,
			&game.RatingCount,
			pq.Array(&game.Tags),
			&difficulty,
		); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}

		game.Description = description.String
		game.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		game.Difficulty = difficulty.String

		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return games, nil
}

func (r *gameRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM games WHERE created_by = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count user games: %w", err)
	}

	return count, nil
}
