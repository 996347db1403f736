package community

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/skinsewa/api/internal/model"
	"github.com/skinsewa/api/internal/repository"
	"github.com/skinsewa/api/pkg/errors"
	"github.com/skinsewa/api/pkg/logger"
)

// Service owns the community interactions: bulk loads, the like
// toggle, one-way shares, poll votes and comments. Every post mutation
// also writes an outbox event so subscribers get a change notification.
type Service struct {
	repo   repository.CommunityRepository
	outbox repository.OutboxRepository
	logger *logger.Logger
}

func NewService(repo repository.CommunityRepository, outbox repository.OutboxRepository, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		outbox: outbox,
		logger: logger,
	}
}

// Snapshot is the initial bulk fetch: all posts plus the viewer's
// interaction state.
type Snapshot struct {
	Posts  []*model.CommunityPost `json:"posts"`
	Viewer model.ViewerState      `json:"viewer"`
}

func (s *Service) LoadAll(ctx context.Context, viewerID string) (*Snapshot, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	state := model.ViewerState{
		Liked:  make(map[uuid.UUID]bool),
		Shared: make(map[uuid.UUID]bool),
		Voted:  make(map[uuid.UUID]bool),
	}

	liked, err := s.repo.ListLikedPostIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for _, id := range liked {
		state.Liked[id] = true
	}

	shared, err := s.repo.ListSharedPostIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for _, id := range shared {
		state.Shared[id] = true
	}

	voted, err := s.repo.ListVotedPostIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for _, id := range voted {
		state.Voted[id] = true
	}

	return &Snapshot{Posts: posts, Viewer: state}, nil
}

// ToggleLike flips the viewer's like state. Liking twice returns the
// counter to its original value, so a like/unlike pair is a no-op.
func (s *Service) ToggleLike(ctx context.Context, postID uuid.UUID, viewerID string) (*model.CommunityPost, bool, error) {
	liked, err := s.repo.HasLiked(ctx, postID, viewerID)
	if err != nil {
		return nil, false, err
	}

	var post *model.CommunityPost
	if liked {
		post, err = s.repo.UnlikePost(ctx, postID, viewerID)
	} else {
		post, err = s.repo.LikePost(ctx, postID, viewerID)
	}
	if err != nil {
		return nil, liked, err
	}

	s.emit(ctx, model.EventPostUpdated, post)
	return post, !liked, nil
}

// Share is one-way: sharing an already-shared post is a no-op.
func (s *Service) Share(ctx context.Context, postID uuid.UUID, viewerID string) (*model.CommunityPost, error) {
	shared, err := s.repo.HasShared(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	if shared {
		return s.repo.GetPost(ctx, postID)
	}

	post, err := s.repo.SharePost(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, model.EventPostUpdated, post)
	return post, nil
}

// Vote submits the viewer's poll choices. An empty selection, a second
// vote, or more than one option on a single-choice poll is rejected
// before any write.
func (s *Service) Vote(ctx context.Context, postID uuid.UUID, viewerID string, optionIDs []int) (*model.CommunityPost, error) {
	if len(optionIDs) == 0 {
		return nil, errors.BadRequest("no poll options selected", nil)
	}

	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsPoll {
		return nil, errors.BadRequest("post is not a poll", nil)
	}
	if post.PollType != nil && *post.PollType == model.PollTypeSingle && len(optionIDs) > 1 {
		return nil, errors.BadRequest("single-choice poll accepts exactly one option", nil)
	}

	valid := make(map[int]bool, len(post.PollOptions))
	for _, opt := range post.PollOptions {
		valid[opt.ID] = true
	}
	for _, id := range optionIDs {
		if !valid[id] {
			return nil, errors.BadRequest(fmt.Sprintf("unknown poll option %d", id), nil)
		}
	}

	voted, err := s.repo.HasVoted(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, errors.Conflict("viewer has already voted on this poll")
	}

	updated, err := s.repo.VotePoll(ctx, postID, viewerID, optionIDs)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, model.EventPostUpdated, updated)
	return updated, nil
}

// AddComment inserts the comment and bumps the parent's counter in one
// transaction, then notifies both channels.
func (s *Service) AddComment(ctx context.Context, postID uuid.UUID, viewerID, text string) (*model.PostComment, error) {
	if text == "" {
		return nil, errors.BadRequest("comment text is required", nil)
	}

	comment := &model.PostComment{
		PostID:      postID,
		Author:      "You",
		AuthorImage: avatarURL(viewerID),
		Text:        text,
	}

	post, err := s.repo.AddComment(ctx, comment)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, model.EventCommentCreated, comment)
	s.emit(ctx, model.EventPostUpdated, post)
	return comment, nil
}

// CreateTopic creates a discussion post, optionally with a poll.
func (s *Service) CreateTopic(ctx context.Context, viewerID string, req *model.CreateTopicRequest) (*model.CommunityPost, error) {
	post := &model.CommunityPost{
		Title:       req.Title,
		Description: req.Description,
		Author:      "You",
		AuthorImage: avatarURL(viewerID),
		Tags:        []string{"New", "Discussion"},
		IsPoll:      req.IsPoll,
	}

	if req.IsPoll {
		if req.PollType != model.PollTypeSingle && req.PollType != model.PollTypeMultiple {
			return nil, errors.BadRequest("poll type must be single or multiple", nil)
		}
		pollType := req.PollType
		post.PollType = &pollType

		options := make([]model.PollOption, 0, len(req.PollOptions))
		for _, text := range req.PollOptions {
			if text == "" {
				continue
			}
			options = append(options, model.PollOption{ID: len(options) + 1, Text: text})
		}
		if len(options) < 2 {
			return nil, errors.BadRequest("a poll needs at least two options", nil)
		}
		post.PollOptions = options
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.emit(ctx, model.EventPostCreated, post)
	return post, nil
}

func (s *Service) GetPost(ctx context.Context, postID uuid.UUID) (*model.CommunityPost, error) {
	return s.repo.GetPost(ctx, postID)
}

func (s *Service) ListComments(ctx context.Context, postID uuid.UUID) ([]*model.PostComment, error) {
	return s.repo.ListComments(ctx, postID)
}

// emit records a change notification in the outbox. The mutation has
// already committed, so a failure here only delays the notification
// until the reconciliation sweep.
func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal outbox payload", "event_type", eventType)
		return
	}
	if err := s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	}); err != nil {
		s.logger.Error(err, "failed to create outbox event", "event_type", eventType)
	}
}

func avatarURL(viewerID string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + viewerID
}
