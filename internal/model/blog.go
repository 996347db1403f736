package model

import (
	"time"

	"github.com/lib/pq"
)

// BlogPost is one educational article shown on the conditions page.
type BlogPost struct {
	Base
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	FullContent string         `db:"full_content" json:"full_content"`
	Category    string         `db:"category" json:"category"`
	Image       string         `db:"image" json:"image"`
	ReadingTime string         `db:"reading_time" json:"reading_time"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	AuthorName  string         `db:"author_name" json:"author_name,omitempty"`
	AuthorImage string         `db:"author_image" json:"author_image,omitempty"`
	AuthorTitle string         `db:"author_title" json:"author_title,omitempty"`
	Date        time.Time      `db:"date" json:"date"`
	URL         string         `db:"url" json:"url,omitempty"`
}
