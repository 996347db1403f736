package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/internal/repository"
	"github.com/skinsewa/api/pkg/errors"
)

type communityRepository struct {
	BaseRepository
}

func NewCommunityRepository(db *sqlx.DB) repository.CommunityRepository {
	return &communityRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *communityRepository) CreatePost(ctx context.Context, post *model.CommunityPost) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Date.IsZero() {
		post.Date = now
	}
	post.Version = 1

	if err := encodePollOptions(post); err != nil {
		return err
	}

	query := `
		INSERT INTO community_posts (
			id, title, description, author, author_image, date,
			likes, comments, shares, tags, is_poll, poll_type,
			poll_options, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Description, post.Author, post.AuthorImage, post.Date,
		post.Likes, post.Comments, post.Shares, post.Tags, post.IsPoll, post.PollType,
		post.PollOptionsJSON, post.Version, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *communityRepository) GetPost(ctx context.Context, id uuid.UUID) (*model.CommunityPost, error) {
	query := `SELECT * FROM community_posts WHERE id = $1`
	var post model.CommunityPost
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("post", err)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if err := decodePollOptions(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *communityRepository) ListPosts(ctx context.Context) ([]*model.CommunityPost, error) {
	query := `SELECT * FROM community_posts ORDER BY date DESC`
	var posts []*model.CommunityPost
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	for _, post := range posts {
		if err := decodePollOptions(post); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (r *communityRepository) HasLiked(ctx context.Context, postID uuid.UUID, viewerID string) (bool, error) {
	return r.junctionExists(ctx, "post_likes", postID, viewerID)
}

func (r *communityRepository) HasShared(ctx context.Context, postID uuid.UUID, viewerID string) (bool, error) {
	return r.junctionExists(ctx, "post_shares", postID, viewerID)
}

func (r *communityRepository) HasVoted(ctx context.Context, postID uuid.UUID, viewerID string) (bool, error) {
	return r.junctionExists(ctx, "poll_votes", postID, viewerID)
}

func (r *communityRepository) junctionExists(ctx context.Context, table string, postID uuid.UUID, viewerID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE post_id = $1 AND viewer_id = $2)`, table)
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, postID, viewerID); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return exists, nil
}

func (r *communityRepository) ListLikedPostIDs(ctx context.Context, viewerID string) ([]uuid.UUID, error) {
	return r.listJunctionPostIDs(ctx, "post_likes", viewerID)
}

func (r *communityRepository) ListSharedPostIDs(ctx context.Context, viewerID string) ([]uuid.UUID, error) {
	return r.listJunctionPostIDs(ctx, "post_shares", viewerID)
}

func (r *communityRepository) ListVotedPostIDs(ctx context.Context, viewerID string) ([]uuid.UUID, error) {
	return r.listJunctionPostIDs(ctx, "poll_votes", viewerID)
}

func (r *communityRepository) listJunctionPostIDs(ctx context.Context, table, viewerID string) ([]uuid.UUID, error) {
	query := fmt.Sprintf(`SELECT DISTINCT post_id FROM %s WHERE viewer_id = $1`, table)
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, query, viewerID); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return ids, nil
}

// LikePost inserts the junction record and increments the counter in
// one transaction so a failure leaves neither write behind.
func (r *communityRepository) LikePost(ctx context.Context, postID uuid.UUID, viewerID string) (*model.CommunityPost, error) {
	var post *model.CommunityPost
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO post_likes (id, post_id, viewer_id, created_at) VALUES ($1, $2, $3, $4)`,
			uuid.New(), postID, viewerID, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert like: %w", err)
		}
		post, err = bumpPost(ctx, tx, postID, `likes = likes + 1`)
		return err
	})
	return post, err
}

func (r *communityRepository) UnlikePost(ctx context.Context, postID uuid.UUID, viewerID string) (*model.CommunityPost, error) {
	var post *model.CommunityPost
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM post_likes WHERE post_id = $1 AND viewer_id = $2`,
			postID, viewerID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errors.Conflict("post is not liked by this viewer")
		}
		post, err = bumpPost(ctx, tx, postID, `likes = likes - 1`)
		return err
	})
	return post, err
}

func (r *communityRepository) SharePost(ctx context.Context, postID uuid.UUID, viewerID string) (*model.CommunityPost, error) {
	var post *model.CommunityPost
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO post_shares (id, post_id, viewer_id, created_at) VALUES ($1, $2, $3, $4)`,
			uuid.New(), postID, viewerID, time.Now(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
		post, err = bumpPost(ctx, tx, postID, `shares = shares + 1`)
		return err
	})
	return post, err
}

// VotePoll records one junction row per selected option and rewrites
// the whole options array with incremented counts, atomically.
func (r *communityRepository) VotePoll(ctx context.Context, postID uuid.UUID, viewerID string, optionIDs []int) (*model.CommunityPost, error) {
	var post *model.CommunityPost
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var locked model.CommunityPost
		if err := tx.GetContext(ctx, &locked, `SELECT * FROM community_posts WHERE id = $1 FOR UPDATE`, postID); err != nil {
			if err == sql.ErrNoRows {
				return errors.NotFound("post", err)
			}
			return fmt.Errorf("failed to lock post: %w", err)
		}
		if err := decodePollOptions(&locked); err != nil {
			return err
		}

		selected := make(map[int]bool, len(optionIDs))
		for _, id := range optionIDs {
			selected[id] = true
			_, err := tx.ExecContext(ctx,
				`INSERT INTO poll_votes (id, post_id, option_id, viewer_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
				uuid.New(), postID, id, viewerID, time.Now(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert vote: %w", err)
			}
		}

		for i := range locked.PollOptions {
			if selected[locked.PollOptions[i].ID] {
				locked.PollOptions[i].Votes++
			}
		}
		if err := encodePollOptions(&locked); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE community_posts SET poll_options = $1, version = version + 1, updated_at = $2 WHERE id = $3`,
			locked.PollOptionsJSON, time.Now(), postID,
		)
		if err != nil {
			return fmt.Errorf("failed to update poll options: %w", err)
		}

		var err2 error
		post, err2 = getPostTx(ctx, tx, postID)
		return err2
	})
	return post, err
}

func (r *communityRepository) AddComment(ctx context.Context, comment *model.PostComment) (*model.CommunityPost, error) {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.Date.IsZero() {
		comment.Date = time.Now()
	}

	var post *model.CommunityPost
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO post_comments (id, post_id, author, author_image, text, date) VALUES ($1, $2, $3, $4, $5, $6)`,
			comment.ID, comment.PostID, comment.Author, comment.AuthorImage, comment.Text, comment.Date,
		)
		if err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}
		post, err = bumpPost(ctx, tx, comment.PostID, `comments = comments + 1`)
		return err
	})
	return post, err
}

func (r *communityRepository) ListComments(ctx context.Context, postID uuid.UUID) ([]*model.PostComment, error) {
	query := `SELECT * FROM post_comments WHERE post_id = $1 ORDER BY date ASC`
	var comments []*model.PostComment
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (r *communityRepository) CountLikes(ctx context.Context, postID uuid.UUID) (int, error) {
	return r.countJunction(ctx, "post_likes", postID)
}

func (r *communityRepository) CountShares(ctx context.Context, postID uuid.UUID) (int, error) {
	return r.countJunction(ctx, "post_shares", postID)
}

func (r *communityRepository) CountComments(ctx context.Context, postID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM post_comments WHERE post_id = $1`
	if err := r.db.GetContext(ctx, &count, query, postID); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

func (r *communityRepository) countJunction(ctx context.Context, table string, postID uuid.UUID) (int, error) {
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE post_id = $1`, table)
	if err := r.db.GetContext(ctx, &count, query, postID); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// SetCounters overwrites the denormalized counters, used by the
// reconciliation sweep when they drift from the junction tables.
func (r *communityRepository) SetCounters(ctx context.Context, postID uuid.UUID, likes, shares, comments int) error {
	query := `
		UPDATE community_posts
		SET likes = $1, shares = $2, comments = $3, version = version + 1, updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, likes, shares, comments, time.Now(), postID)
	if err != nil {
		return fmt.Errorf("failed to set counters: %w", err)
	}
	return nil
}

// bumpPost applies a counter delta, advances the version and returns
// the updated row, all inside the caller's transaction.
func bumpPost(ctx context.Context, tx *sqlx.Tx, postID uuid.UUID, counterExpr string) (*model.CommunityPost, error) {
	query := fmt.Sprintf(
		`UPDATE community_posts SET %s, version = version + 1, updated_at = $1 WHERE id = $2`,
		counterExpr,
	)
	res, err := tx.ExecContext(ctx, query, time.Now(), postID)
	if err != nil {
		return nil, fmt.Errorf("failed to update post counters: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errors.NotFound("post", nil)
	}
	return getPostTx(ctx, tx, postID)
}

func getPostTx(ctx context.Context, tx *sqlx.Tx, postID uuid.UUID) (*model.CommunityPost, error) {
	var post model.CommunityPost
	if err := tx.GetContext(ctx, &post, `SELECT * FROM community_posts WHERE id = $1`, postID); err != nil {
		return nil, fmt.Errorf("failed to reload post: %w", err)
	}
	if err := decodePollOptions(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func encodePollOptions(post *model.CommunityPost) error {
	if post.PollOptions == nil {
		post.PollOptionsJSON = []byte("[]")
		return nil
	}
	data, err := json.Marshal(post.PollOptions)
	if err != nil {
		return fmt.Errorf("failed to marshal poll options: %w", err)
	}
	post.PollOptionsJSON = data
	return nil
}

func decodePollOptions(post *model.CommunityPost) error {
	if len(post.PollOptionsJSON) == 0 {
		post.PollOptions = nil
		return nil
	}
	if err := json.Unmarshal(post.PollOptionsJSON, &post.PollOptions); err != nil {
		return fmt.Errorf("failed to unmarshal poll options: %w", err)
	}
	return nil
}
