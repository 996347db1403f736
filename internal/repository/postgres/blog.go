package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/internal/repository"
	"github.com/skinsewa/api/pkg/errors"
)

type blogRepository struct {
	db *sqlx.DB
}

func NewBlogRepository(db *sqlx.DB) repository.BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) List(ctx context.Context) ([]*model.BlogPost, error) {
	query := `SELECT * FROM blog_posts ORDER BY date DESC`
	var posts []*model.BlogPost
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}

func (r *blogRepository) Get(ctx context.Context, id uuid.UUID) (*model.BlogPost, error) {
	query := `SELECT * FROM blog_posts WHERE id = $1`
	var post model.BlogPost
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("blog post", err)
		}
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}
	return &post, nil
}
