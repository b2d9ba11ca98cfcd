// Package models defines the portal publication entity. News, life stories,
// press releases and bulletins share one model distinguished by kind.
package models

import (
	"time"

	id "solidario/pkg/domain"
)

// Kind classifies a publication. Values double as URL segments on the
// public portal.
type Kind string

const (
	KindNews         Kind = "noticia"
	KindStory        Kind = "historia"
	KindPressRelease Kind = "comunicado"
	KindBulletin     Kind = "boletin"
)

// Kinds lists all publication kinds in portal menu order.
var Kinds = []Kind{KindNews, KindStory, KindPressRelease, KindBulletin}

// ParseKind validates a kind string from a URL or request body.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Status is the publication lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Publication is one piece of portal content.
type Publication struct {
	ID            id.PublicationID `json:"id"`
	Kind          Kind             `json:"kind"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	Summary       string           `json:"summary"`
	Body          string           `json:"body"`
	CoverImageURL string           `json:"cover_image_url,omitempty"`
	Status        Status           `json:"status"`
	AuthorID      id.UserID        `json:"author_id"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Published reports whether the publication is visible on the public
// portal.
func (p *Publication) Published() bool {
	return p.Status == StatusPublished
}

// Clone returns a deep copy.
func (p *Publication) Clone() *Publication {
	clone := *p
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		clone.PublishedAt = &t
	}
	return &clone
}
