package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PollType string

const (
	PollTypeSingle   PollType = "single"
	PollTypeMultiple PollType = "multiple"
)

// PollOption is one votable choice attached to a poll post. Options are
// stored as a JSON array on the post row and rewritten whole on vote.
type PollOption struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// CommunityPost is one discussion post. Version increases by one on
// every counter or poll mutation; feed consumers drop notifications
// whose version is not newer than the one they hold.
type CommunityPost struct {
	Base
	Title           string          `db:"title" json:"title"`
	Description     string          `db:"description" json:"description"`
	Author          string          `db:"author" json:"author"`
	AuthorImage     string          `db:"author_image" json:"author_image"`
	Date            time.Time       `db:"date" json:"date"`
	Likes           int             `db:"likes" json:"likes"`
	Comments        int             `db:"comments" json:"comments"`
	Shares          int             `db:"shares" json:"shares"`
	Tags            pq.StringArray  `db:"tags" json:"tags"`
	IsPoll          bool            `db:"is_poll" json:"is_poll"`
	PollType        *PollType       `db:"poll_type" json:"poll_type,omitempty"`
	PollOptionsJSON json.RawMessage `db:"poll_options" json:"-"`
	PollOptions     []PollOption    `json:"poll_options,omitempty"`
	Version         int64           `db:"version" json:"version"`
}

// PostComment is one comment under a post. Comments are never edited or
// deleted; ordering is by date ascending within a post.
type PostComment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PostID      uuid.UUID `db:"post_id" json:"post_id"`
	Author      string    `db:"author" json:"author"`
	AuthorImage string    `db:"author_image" json:"author_image"`
	Text        string    `db:"text" json:"text"`
	Date        time.Time `db:"date" json:"date"`
}

// ViewerState is the per-viewer interaction state returned alongside a
// bulk post fetch, keyed by post id.
type ViewerState struct {
	Liked  map[uuid.UUID]bool `json:"liked"`
	Shared map[uuid.UUID]bool `json:"shared"`
	Voted  map[uuid.UUID]bool `json:"voted"`
}

type CreateTopicRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	IsPoll      bool     `json:"is_poll"`
	PollType    PollType `json:"poll_type"`
	PollOptions []string `json:"poll_options"`
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type VoteRequest struct {
	SelectedOptions []int `json:"selected_options" binding:"required"`
}

// Event types published on the broker for community changes.
const (
	EventPostUpdated    = "POST_UPDATED"
	EventPostCreated    = "POST_CREATED"
	EventCommentCreated = "COMMENT_CREATED"
)
