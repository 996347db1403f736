package community

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/pkg/errors"
	"github.com/skinsewa/api/pkg/logger"
)

// memoryRepo mimics the postgres repository semantics: junction records
// enforce at-most-once interactions, counter writes bump the version.
type memoryRepo struct {
	posts    map[uuid.UUID]*model.CommunityPost
	comments map[uuid.UUID][]*model.PostComment
	likes    map[uuid.UUID]map[string]bool
	shares   map[uuid.UUID]map[string]bool
	votes    map[uuid.UUID]map[string]bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		posts:    make(map[uuid.UUID]*model.CommunityPost),
		comments: make(map[uuid.UUID][]*model.PostComment),
		likes:    make(map[uuid.UUID]map[string]bool),
		shares:   make(map[uuid.UUID]map[string]bool),
		votes:    make(map[uuid.UUID]map[string]bool),
	}
}

func (r *memoryRepo) CreatePost(_ context.Context, post *model.CommunityPost) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	post.Date = time.Now()
	post.Version = 1
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *memoryRepo) GetPost(_ context.Context, id uuid.UUID) (*model.CommunityPost, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, errors.NotFound("post", nil)
	}
	copied := *post
	return &copied, nil
}

func (r *memoryRepo) ListPosts(_ context.Context) ([]*model.CommunityPost, error) {
	posts := make([]*model.CommunityPost, 0, len(r.posts))
	for _, post := range r.posts {
		copied := *post
		posts = append(posts, &copied)
	}
	return posts, nil
}

func flagged(m map[uuid.UUID]map[string]bool, postID uuid.UUID, viewerID string) bool {
	return m[postID][viewerID]
}

func setFlag(m map[uuid.UUID]map[string]bool, postID uuid.UUID, viewerID string) {
	if m[postID] == nil {
		m[postID] = make(map[string]bool)
	}
	m[postID][viewerID] = true
}

func (r *memoryRepo) HasLiked(_ context.Context, postID uuid.UUID, viewerID string) (bool, error) {
	return flagged(r.likes, postID, viewerID), nil
}

func (r *memoryRepo) HasShared(_ context.Context, postID uuid.UUID, viewerID string) (bool, error) {
	return flagged(r.shares, postID, viewerID), nil
}

func (r *memoryRepo) HasVoted(_ context.Context, postID uuid.UUID, viewerID string) (bool, error) {
	return flagged(r.votes, postID, viewerID), nil
}

func listIDs(m map[uuid.UUID]map[string]bool, viewerID string) []uuid.UUID {
	var ids []uuid.UUID
	for postID, viewers := range m {
		if viewers[viewerID] {
			ids = append(ids, postID)
		}
	}
	return ids
}

func (r *memoryRepo) ListLikedPostIDs(_ context.Context, viewerID string) ([]uuid.UUID, error) {
	return listIDs(r.likes, viewerID), nil
}

func (r *memoryRepo) ListSharedPostIDs(_ context.Context, viewerID string) ([]uuid.UUID, error) {
	return listIDs(r.shares, viewerID), nil
}

func (r *memoryRepo) ListVotedPostIDs(_ context.Context, viewerID string) ([]uuid.UUID, error) {
	return listIDs(r.votes, viewerID), nil
}

func (r *memoryRepo) LikePost(ctx context.Context, postID uuid.UUID, viewerID string) (*model.CommunityPost, error) {
	post, ok := r.posts[postID]
	if !ok {
		return nil, errors.NotFound("post", nil)
	}
	setFlag(r.likes, postID, viewerID)
	post.Likes++
	post.Version++
	return r.GetPost(ctx, postID)
}

func (r *memoryRepo) UnlikePost(ctx context.Context, postID uuid.UUID, viewerID string) (*model.CommunityPost, error) {
	if !flagged(r.likes, postID, viewerID) {
		return nil, errors.Conflict("post is not liked by this viewer")
	}
	post := r.posts[postID]
	delete(r.likes[postID], viewerID)
	post.Likes--
	post.Version++
	return r.GetPost(ctx, postID)
}

func (r *memoryRepo) SharePost(ctx context.Context, postID uuid.UUID, viewerID string) (*model.CommunityPost, error) {
	post, ok := r.posts[postID]
	if !ok {
		return nil, errors.NotFound("post", nil)
	}
	setFlag(r.shares, postID, viewerID)
	post.Shares++
	post.Version++
	return r.GetPost(ctx, postID)
}

func (r *memoryRepo) VotePoll(ctx context.Context, postID uuid.UUID, viewerID string, optionIDs []int) (*model.CommunityPost, error) {
	post, ok := r.posts[postID]
	if !ok {
		return nil, errors.NotFound("post", nil)
	}
	setFlag(r.votes, postID, viewerID)
	for i := range post.PollOptions {
		for _, id := range optionIDs {
			if post.PollOptions[i].ID == id {
				post.PollOptions[i].Votes++
			}
		}
	}
	post.Version++
	return r.GetPost(ctx, postID)
}

func (r *memoryRepo) AddComment(ctx context.Context, comment *model.PostComment) (*model.CommunityPost, error) {
	post, ok := r.posts[comment.PostID]
	if !ok {
		return nil, errors.NotFound("post", nil)
	}
	comment.ID = uuid.New()
	comment.Date = time.Now()
	r.comments[comment.PostID] = append(r.comments[comment.PostID], comment)
	post.Comments++
	post.Version++
	return r.GetPost(ctx, comment.PostID)
}

func (r *memoryRepo) ListComments(_ context.Context, postID uuid.UUID) ([]*model.PostComment, error) {
	return r.comments[postID], nil
}

func (r *memoryRepo) CountLikes(_ context.Context, postID uuid.UUID) (int, error) {
	return len(r.likes[postID]), nil
}

func (r *memoryRepo) CountShares(_ context.Context, postID uuid.UUID) (int, error) {
	return len(r.shares[postID]), nil
}

func (r *memoryRepo) CountComments(_ context.Context, postID uuid.UUID) (int, error) {
	return len(r.comments[postID]), nil
}

func (r *memoryRepo) SetCounters(_ context.Context, postID uuid.UUID, likes, shares, comments int) error {
	post, ok := r.posts[postID]
	if !ok {
		return errors.NotFound("post", nil)
	}
	post.Likes = likes
	post.Shares = shares
	post.Comments = comments
	post.Version++
	return nil
}

type memoryOutbox struct {
	events []*model.OutboxEvent
}

func (o *memoryOutbox) Create(_ context.Context, event *model.OutboxEvent) error {
	o.events = append(o.events, event)
	return nil
}

func (o *memoryOutbox) GetPendingEvents(context.Context, int) ([]*model.OutboxEvent, error) {
	return o.events, nil
}

func (o *memoryOutbox) UpdateStatus(context.Context, uuid.UUID, string, *string) error {
	return nil
}

func newTestService() (*Service, *memoryRepo, *memoryOutbox) {
	repo := newMemoryRepo()
	outbox := &memoryOutbox{}
	return NewService(repo, outbox, logger.NewLogger(nil)), repo, outbox
}

func seedPost(t *testing.T, repo *memoryRepo) *model.CommunityPost {
	t.Helper()
	post := &model.CommunityPost{Title: "Managing eczema flares", Description: "What works for you?"}
	require.NoError(t, repo.CreatePost(context.Background(), post))
	return post
}

func seedPoll(t *testing.T, repo *memoryRepo, pollType model.PollType) *model.CommunityPost {
	t.Helper()
	pt := pollType
	post := &model.CommunityPost{
		Title:       "Best sunscreen type?",
		Description: "Vote below",
		IsPoll:      true,
		PollType:    &pt,
		PollOptions: []model.PollOption{
			{ID: 1, Text: "Mineral"},
			{ID: 2, Text: "Chemical"},
			{ID: 3, Text: "Hybrid"},
		},
	}
	require.NoError(t, repo.CreatePost(context.Background(), post))
	return post
}

func TestToggleLikePairRestoresCounter(t *testing.T) {
	svc, repo, outbox := newTestService()
	post := seedPost(t, repo)
	ctx := context.Background()

	updated, liked, err := svc.ToggleLike(ctx, post.ID, "viewer-1")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, updated.Likes)

	updated, liked, err = svc.ToggleLike(ctx, post.ID, "viewer-1")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, updated.Likes)

	// Both mutations notified subscribers.
	assert.Len(t, outbox.events, 2)
	assert.Equal(t, model.EventPostUpdated, outbox.events[0].EventType)
}

func TestToggleLikeBumpsVersion(t *testing.T) {
	svc, repo, _ := newTestService()
	post := seedPost(t, repo)

	updated, _, err := svc.ToggleLike(context.Background(), post.ID, "viewer-1")
	require.NoError(t, err)
	assert.Greater(t, updated.Version, post.Version)
}

func TestShareIsOneWay(t *testing.T) {
	svc, repo, outbox := newTestService()
	post := seedPost(t, repo)
	ctx := context.Background()

	updated, err := svc.Share(ctx, post.ID, "viewer-1")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Shares)
	assert.Len(t, outbox.events, 1)

	// A second share is a no-op with no new notification.
	updated, err = svc.Share(ctx, post.ID, "viewer-1")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Shares)
	assert.Len(t, outbox.events, 1)
}

func TestVoteRejectsEmptySelection(t *testing.T) {
	svc, repo, _ := newTestService()
	post := seedPoll(t, repo, model.PollTypeMultiple)

	_, err := svc.Vote(context.Background(), post.ID, "viewer-1", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBadRequest))
}

func TestVoteRejectsSecondVote(t *testing.T) {
	svc, repo, _ := newTestService()
	post := seedPoll(t, repo, model.PollTypeSingle)
	ctx := context.Background()

	updated, err := svc.Vote(ctx, post.ID, "viewer-1", []int{2})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.PollOptions[1].Votes)

	_, err = svc.Vote(ctx, post.ID, "viewer-1", []int{1})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConflict))

	// The first vote still stands.
	current, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.PollOptions[0].Votes)
	assert.Equal(t, 1, current.PollOptions[1].Votes)
}

func TestVoteSingleChoiceRejectsMultipleOptions(t *testing.T) {
	svc, repo, _ := newTestService()
	post := seedPoll(t, repo, model.PollTypeSingle)

	_, err := svc.Vote(context.Background(), post.ID, "viewer-1", []int{1, 2})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBadRequest))
}

func TestVoteMultipleChoiceCountsEachOption(t *testing.T) {
	svc, repo, _ := newTestService()
	post := seedPoll(t, repo, model.PollTypeMultiple)

	updated, err := svc.Vote(context.Background(), post.ID, "viewer-1", []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.PollOptions[0].Votes)
	assert.Equal(t, 0, updated.PollOptions[1].Votes)
	assert.Equal(t, 1, updated.PollOptions[2].Votes)
}

func TestVoteRejectsUnknownOption(t *testing.T) {
	svc, repo, _ := newTestService()
	post := seedPoll(t, repo, model.PollTypeMultiple)

	_, err := svc.Vote(context.Background(), post.ID, "viewer-1", []int{9})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBadRequest))
}

func TestVoteRejectsNonPollPost(t *testing.T) {
	svc, repo, _ := newTestService()
	post := seedPost(t, repo)

	_, err := svc.Vote(context.Background(), post.ID, "viewer-1", []int{1})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBadRequest))
}

func TestAddCommentIncrementsCounter(t *testing.T) {
	svc, repo, outbox := newTestService()
	post := seedPost(t, repo)
	ctx := context.Background()

	comment, err := svc.AddComment(ctx, post.ID, "viewer-1", "Oatmeal baths helped me")
	require.NoError(t, err)
	assert.Equal(t, "Oatmeal baths helped me", comment.Text)
	assert.Contains(t, comment.AuthorImage, "viewer-1")

	current, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.Comments)

	// Comment channel and post channel both notified.
	require.Len(t, outbox.events, 2)
	assert.Equal(t, model.EventCommentCreated, outbox.events[0].EventType)
	assert.Equal(t, model.EventPostUpdated, outbox.events[1].EventType)
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	svc, repo, _ := newTestService()
	post := seedPost(t, repo)

	_, err := svc.AddComment(context.Background(), post.ID, "viewer-1", "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBadRequest))
}

func TestCreateTopicWithPoll(t *testing.T) {
	svc, _, outbox := newTestService()

	post, err := svc.CreateTopic(context.Background(), "viewer-1", &model.CreateTopicRequest{
		Title:       "Retinol frequency",
		Description: "How often do you apply?",
		IsPoll:      true,
		PollType:    model.PollTypeSingle,
		PollOptions: []string{"Daily", "", "Weekly"},
	})
	require.NoError(t, err)

	assert.True(t, post.IsPoll)
	require.Len(t, post.PollOptions, 2, "blank options are dropped")
	assert.Equal(t, 1, post.PollOptions[0].ID)
	assert.Equal(t, 2, post.PollOptions[1].ID)
	assert.Equal(t, []string(post.Tags), []string{"New", "Discussion"})

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventPostCreated, outbox.events[0].EventType)
}

func TestCreateTopicPollNeedsTwoOptions(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateTopic(context.Background(), "viewer-1", &model.CreateTopicRequest{
		Title:       "Poll",
		Description: "desc",
		IsPoll:      true,
		PollType:    model.PollTypeSingle,
		PollOptions: []string{"Only one"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBadRequest))
}

func TestLoadAllReturnsViewerState(t *testing.T) {
	svc, repo, _ := newTestService()
	liked := seedPost(t, repo)
	other := seedPost(t, repo)
	poll := seedPoll(t, repo, model.PollTypeSingle)
	ctx := context.Background()

	_, _, err := svc.ToggleLike(ctx, liked.ID, "viewer-1")
	require.NoError(t, err)
	_, err = svc.Vote(ctx, poll.ID, "viewer-1", []int{1})
	require.NoError(t, err)

	snapshot, err := svc.LoadAll(ctx, "viewer-1")
	require.NoError(t, err)

	assert.Len(t, snapshot.Posts, 3)
	assert.True(t, snapshot.Viewer.Liked[liked.ID])
	assert.False(t, snapshot.Viewer.Liked[other.ID])
	assert.True(t, snapshot.Viewer.Voted[poll.ID])
	assert.Empty(t, snapshot.Viewer.Shared)
}
