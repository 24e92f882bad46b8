package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmxu/whereami/internal/entity"
	"github.com/cmxu/whereami/internal/repository"
)

type userRepo struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.Users {
	return &userRepo{db: db}
}

func (r *userRepo) ByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	query := `
		SELECT
			id, username, email, avatar, games_created, games_played,
			total_score, average_score, joined_at
		FROM users
		WHERE id = $1`

	var (
		user     entity.UserProfile
		username sql.NullString
		email    sql.NullString
		avatar   sql.NullString
		joinedAt time.Time
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&username,
		&email,
		&avatar,
		&user.GamesCreated,
		&user.GamesPlayed,
		&user.TotalScore,
		&user.AverageScore,
		&joinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, entity.ErrNotFound)
		}

		return nil, fmt.Errorf("query user %s: %w", id, err)
	}

	user.Username = username.String
	user.Email = email.String
	user.Avatar = avatar.String
	user.JoinedAt = joinedAt.UTC().Format(time.RFC3339)

	return &user, nil
}
