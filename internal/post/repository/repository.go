package repository

import (
	"context"
	"errors"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commonerrors "github.com/kechcole/Blog-App/internal/common/errors"
	"github.com/kechcole/Blog-App/internal/post/domain"
)

var ErrPostNotFound = commonerrors.ErrPostNotFound

type Repository interface {
	Create(ctx context.Context, post domain.Post) error
	FindByID(ctx context.Context, id domain.ID) (domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	Update(ctx context.Context, post domain.Post) error
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, post domain.Post) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO posts (id, title, content, author_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		string(post.ID),
		post.Title,
		post.Content,
		post.AuthorID,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, title, content, author_id, created_at FROM posts WHERE id = $1`,
		string(id),
	)

	var post domain.Post
	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, fmt.Errorf("failed to find post by id: %w", err)
	}

	return post, nil
}

// List returns every post newest first. Ties on created_at are broken by id
// so the order is stable across re-queries.
func (r *PgRepository) List(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, title, content, author_id, created_at
		 FROM posts
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return posts, nil
}

// Update rewrites title and content only; author and created_at are immutable.
func (r *PgRepository) Update(ctx context.Context, post domain.Post) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE posts SET title = $2, content = $3 WHERE id = $1`,
		string(post.ID),
		post.Title,
		post.Content,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}
