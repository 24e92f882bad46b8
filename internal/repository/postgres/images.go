package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmxu/whereami/internal/entity"
	"github.com/cmxu/whereami/internal/repository"
	"github.com/lib/pq"
)

type imageRepo struct {
	db *sql.DB
}

func NewImageRepository(db *sql.DB) repository.Images {
	return &imageRepo{db: db}
}

const imageColumns = `
	id, filename, storage_key, location_lat, location_lng,
	uploaded_by, uploaded_at, is_public, tags, thumbnail_url`

func (r *imageRepo) Public(ctx context.Context, limit, offset int) ([]entity.ImageMetadata, error) {
	query := `
		SELECT` + imageColumns + `
		FROM images
		WHERE is_public = true
		ORDER BY uploaded_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query public images: %w", err)
	}
	defer rows.Close()

	return scanImages(rows)
}

func (r *imageRepo) PublicCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM images WHERE is_public = true`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count public images: %w", err)
	}

	return count, nil
}

func (r *imageRepo) Curated(ctx context.Context, curatorEmail string, limit, offset int) ([]entity.ImageMetadata, error) {
	query := `
		SELECT
			i.id, i.filename, i.storage_key, i.location_lat, i.location_lng,
			i.uploaded_by, i.uploaded_at, i.is_public, i.tags, i.thumbnail_url
		FROM images i
		JOIN users u ON i.uploaded_by = u.id
		WHERE u.email = $1 AND i.is_public = true
		ORDER BY i.uploaded_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, curatorEmail, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query curated images: %w", err)
	}
	defer rows.Close()

	return scanImages(rows)
}

func (r *imageRepo) CuratedCount(ctx context.Context, curatorEmail string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM images i
		JOIN users u ON i.uploaded_by = u.id
		WHERE u.email = $1 AND i.is_public = true`

	var count int
	if err := r.db.QueryRowContext(ctx, query, curatorEmail).Scan(&count); err != nil {
		return 0, fmt.Errorf("count curated images: %w", err)
	}

	return count, nil
}

func (r *imageRepo) ByID(ctx context.Context, id string) (*entity.ImageMetadata, error) {
	query := `
		SELECT` + imageColumns + `
		FROM images
		WHERE id = $1`

	image, err := scanImage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("image %s: %w", id, entity.ErrNotFound)
		}

		return nil, fmt.Errorf("query image %s: %w", id, err)
	}

	return image, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (*entity.ImageMetadata, error) {
	var (
		image        entity.ImageMetadata
		uploadedBy   sql.NullString
		uploadedAt   time.Time
		thumbnailURL sql.NullString
	)

	if err := row.Scan(
		&image.ID,
		&image.Filename,
		&image.StorageKey,
		&image.Location.Lat,
		&image.Location.Lng,
		&uploadedBy,
		&uploadedAt,
		&image.IsPublic,
		pq.Array(&image.Tags),
		&thumbnailURL,
	); err != nil {
		return nil, err
	}

	image.UploadedBy = uploadedBy.String
	image.UploadedAt = uploadedAt.UTC().Format(time.RFC3339)
	image.ThumbnailURL = thumbnailURL.String

	return &image, nil
}

func scanImages(rows *sql.Rows) ([]entity.ImageMetadata, error) {
	var images []entity.ImageMetadata
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}

		images = append(images, *image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return images, nil
}
