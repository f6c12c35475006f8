package domain

import "time"

type PostVisibility string

const (
	PostVisibilityPublic  PostVisibility = "Public"
	PostVisibilityMembers PostVisibility = "Members"
)

func (v PostVisibility) Valid() bool {
	return v == PostVisibilityPublic || v == PostVisibilityMembers
}

// Post is a piece of content written by a user, optionally attached to a club.
// Members posts always carry a club.
type Post struct {
	ID         int32          `json:"id"`
	UserID     int32          `json:"user_id"`
	ClubID     *int32         `json:"club_id,omitempty"`
	Content    string         `json:"content"`
	Visibility PostVisibility `json:"visibility"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  *time.Time     `json:"updated_at,omitempty"`

	// Read-model fields
	AuthorName string     `json:"author_name"`
	ClubName   *string    `json:"club_name,omitempty"`
	ClubStatus ClubStatus `json:"-"`
}

func (p *Post) IsMembersOnly() bool {
	return p.Visibility == PostVisibilityMembers
}

// PostAudience selects which rows a listing may return.
type PostAudience int

const (
	// PostAudiencePublic: Public posts not attached to an inactive club.
	PostAudiencePublic PostAudience = iota
	// PostAudienceViewer: the viewer's own posts, Public posts, and Members posts of clubs
	// where the viewer is an Approved member.
	PostAudienceViewer
	// PostAudienceAll: every post.
	PostAudienceAll
)

type PostSort int

const (
	PostSortNewest PostSort = iota
	PostSortClubNameAsc
	PostSortClubNameDesc
)

// PostFilter narrows post listings. Limit and Offset page the result.
type PostFilter struct {
	Audience   PostAudience
	ViewerID   int32
	ClubID     *int32
	Visibility *PostVisibility
	Search     string
	Sort       PostSort
	Limit      int32
	Offset     int32
}
