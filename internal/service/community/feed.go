package community

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/pkg/logger"
	"github.com/skinsewa/api/pkg/messaging"
)

// Feed is an in-memory view of the community posts kept fresh by
// broker notifications. Posts carry a monotonically increasing version
// stamp; a notification older than the copy already held is dropped,
// so delayed deliveries cannot roll a counter backwards.
type Feed struct {
	mu     sync.RWMutex
	posts  map[uuid.UUID]*model.CommunityPost
	logger *logger.Logger
}

func NewFeed(logger *logger.Logger) *Feed {
	return &Feed{
		posts:  make(map[uuid.UUID]*model.CommunityPost),
		logger: logger,
	}
}

// Load replaces the view with a fresh bulk fetch.
func (f *Feed) Load(posts []*model.CommunityPost) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.posts = make(map[uuid.UUID]*model.CommunityPost, len(posts))
	for _, post := range posts {
		f.posts[post.ID] = post
	}
}

// Apply merges a change notification into the view. It returns false
// when the notification is stale, i.e. its version is not newer than
// the copy already held.
func (f *Feed) Apply(post *model.CommunityPost) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, ok := f.posts[post.ID]
	if ok && post.Version <= current.Version {
		return false
	}
	f.posts[post.ID] = post
	return true
}

// Posts returns the view ordered newest first.
func (f *Feed) Posts() []*model.CommunityPost {
	f.mu.RLock()
	defer f.mu.RUnlock()

	posts := make([]*model.CommunityPost, 0, len(f.posts))
	for _, post := range f.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
	return posts
}

// Get returns the held copy of a post, if any.
func (f *Feed) Get(id uuid.UUID) (*model.CommunityPost, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	post, ok := f.posts[id]
	return post, ok
}

// Start subscribes to the post channels and applies notifications
// until the context is cancelled.
func (f *Feed) Start(ctx context.Context, broker messaging.Broker) error {
	created, err := broker.Subscribe(ctx, model.EventPostCreated)
	if err != nil {
		return err
	}
	updated, err := broker.Subscribe(ctx, model.EventPostUpdated)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case data, ok := <-created:
				if !ok {
					return
				}
				f.handle(data)
			case data, ok := <-updated:
				if !ok {
					return
				}
				f.handle(data)
			}
		}
	}()
	return nil
}

func (f *Feed) handle(data []byte) {
	var post model.CommunityPost
	if err := json.Unmarshal(data, &post); err != nil {
		f.logger.Error(err, "failed to decode post notification")
		return
	}
	if !f.Apply(&post) {
		f.logger.Debug("dropped stale post notification", "post_id", post.ID, "version", post.Version)
	}
}
