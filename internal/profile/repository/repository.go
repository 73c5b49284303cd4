package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commonerrors "github.com/kechcole/Blog-App/internal/common/errors"
	"github.com/kechcole/Blog-App/internal/profile/domain"
)

var (
	ErrProfileNotFound = commonerrors.ErrProfileNotFound
	ErrProfileExists   = commonerrors.ErrProfileExists
)

type Repository interface {
	Create(ctx context.Context, profile domain.Profile) error
	FindByUserID(ctx context.Context, userID string) (domain.Profile, error)
	UpdateImagePath(ctx context.Context, userID, imagePath string) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, profile domain.Profile) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO profiles (user_id, image_path, created_at) VALUES ($1, $2, $3)`,
		profile.UserID,
		profile.ImagePath,
		profile.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrProfileExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT user_id, image_path, created_at FROM profiles WHERE user_id = $1`,
		userID,
	)

	var profile domain.Profile
	err := row.Scan(&profile.UserID, &profile.ImagePath, &profile.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, ErrProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}

func (r *PgRepository) UpdateImagePath(ctx context.Context, userID, imagePath string) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE profiles SET image_path = $2 WHERE user_id = $1`,
		userID,
		imagePath,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
