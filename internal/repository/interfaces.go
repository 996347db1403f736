package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/skinsewa/api/internal/model"
)

// CommunityRepository persists posts, comments and the per-viewer
// junction records. Counter mutations and their junction writes happen
// in one transaction, and every post mutation bumps the post version.
type CommunityRepository interface {
	CreatePost(ctx context.Context, post *model.CommunityPost) error
	GetPost(ctx context.Context, id uuid.UUID) (*model.CommunityPost, error)
	ListPosts(ctx context.Context) ([]*model.CommunityPost, error)

	HasLiked(ctx context.Context, postID uuid.UUID, viewerID string) (bool, error)
	HasShared(ctx context.Context, postID uuid.UUID, viewerID string) (bool, error)
	HasVoted(ctx context.Context, postID uuid.UUID, viewerID string) (bool, error)

	ListLikedPostIDs(ctx context.Context, viewerID string) ([]uuid.UUID, error)
	ListSharedPostIDs(ctx context.Context, viewerID string) ([]uuid.UUID, error)
	ListVotedPostIDs(ctx context.Context, viewerID string) ([]uuid.UUID, error)

	LikePost(ctx context.Context, postID uuid.UUID, viewerID string) (*model.CommunityPost, error)
	UnlikePost(ctx context.Context, postID uuid.UUID, viewerID string) (*model.CommunityPost, error)
	SharePost(ctx context.Context, postID uuid.UUID, viewerID string) (*model.CommunityPost, error)
	VotePoll(ctx context.Context, postID uuid.UUID, viewerID string, optionIDs []int) (*model.CommunityPost, error)

	AddComment(ctx context.Context, comment *model.PostComment) (*model.CommunityPost, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]*model.PostComment, error)

	CountLikes(ctx context.Context, postID uuid.UUID) (int, error)
	CountShares(ctx context.Context, postID uuid.UUID) (int, error)
	CountComments(ctx context.Context, postID uuid.UUID) (int, error)
	SetCounters(ctx context.Context, postID uuid.UUID, likes, shares, comments int) error
}

type ClinicRepository interface {
	Create(ctx context.Context, clinic *model.Clinic) error
	Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	GetByUsername(ctx context.Context, username string) (*model.Clinic, error)
	List(ctx context.Context) ([]*model.Clinic, error)

	CreatePatientReport(ctx context.Context, report *model.PatientReport) error
	ListPatientReports(ctx context.Context, clinicID uuid.UUID) ([]*model.PatientReport, error)

	CreateAppointment(ctx context.Context, appt *model.Appointment) error
	ListAppointments(ctx context.Context, clinicID uuid.UUID) ([]*model.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
}

type BlogRepository interface {
	List(ctx context.Context) ([]*model.BlogPost, error)
	Get(ctx context.Context, id uuid.UUID) (*model.BlogPost, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error
}
