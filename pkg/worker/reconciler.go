package worker

import (
	"context"
	"time"

	"github.com/skinsewa/api/internal/repository"
	"github.com/skinsewa/api/pkg/logger"
)

// Reconciler periodically recounts the like, share and comment
// counters from the junction tables and repairs any drift. The
// junction rows are the source of truth; the denormalized counters on
// the post exist only to make the bulk feed load cheap.
type Reconciler struct {
	repo     repository.CommunityRepository
	interval time.Duration
	logger   *logger.Logger
}

func NewReconciler(repo repository.CommunityRepository, interval time.Duration, logger *logger.Logger) *Reconciler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Reconciler{
		repo:     repo,
		interval: interval,
		logger:   logger,
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Starting counter reconciler")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Shutting down counter reconciler")
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				r.logger.Error(err, "Failed to reconcile counters")
			}
		}
	}
}

// Sweep runs one full reconciliation pass.
func (r *Reconciler) Sweep(ctx context.Context) error {
	posts, err := r.repo.ListPosts(ctx)
	if err != nil {
		return err
	}

	repaired := 0
	for _, post := range posts {
		likes, err := r.repo.CountLikes(ctx, post.ID)
		if err != nil {
			return err
		}
		shares, err := r.repo.CountShares(ctx, post.ID)
		if err != nil {
			return err
		}
		comments, err := r.repo.CountComments(ctx, post.ID)
		if err != nil {
			return err
		}

		if likes == post.Likes && shares == post.Shares && comments == post.Comments {
			continue
		}

		r.logger.Warn("counter drift detected",
			"post_id", post.ID,
			"likes", post.Likes, "actual_likes", likes,
			"shares", post.Shares, "actual_shares", shares,
			"comments", post.Comments, "actual_comments", comments)

		if err := r.repo.SetCounters(ctx, post.ID, likes, shares, comments); err != nil {
			return err
		}
		repaired++
	}

	if repaired > 0 {
		r.logger.Info("reconciliation sweep repaired counters", "posts", repaired)
	}
	return nil
}
