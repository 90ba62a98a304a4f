package posts

import (
	"errors"
	"time"

	"github.com/2beens/blogposts/internal/authors"
	"github.com/2beens/blogposts/pkg"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrTitleRequired = errors.New("title is required")
)

// EmbeddedAuthor is the author name stored inline with a post
type EmbeddedAuthor struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// BlogPost references its author either by embedding the name (Author) or by
// the id of a standalone author (AuthorID). A referenced author is only known
// after the service resolved it into ResolvedAuthor.
type BlogPost struct {
	ID             string
	Author         *EmbeddedAuthor
	AuthorID       string
	ResolvedAuthor *authors.Author
	Title          string
	Content        *string
	Created        time.Time
}

// SerializedPost is the only post representation written to clients.
type SerializedPost struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Content *string   `json:"content"`
	Title   string    `json:"title"`
	Created time.Time `json:"created"`
}

func AuthorName(firstName, lastName string) string {
	return pkg.TrimmedJoin(firstName, lastName)
}

func (p *BlogPost) AuthorName() string {
	switch {
	case p.Author != nil:
		return AuthorName(p.Author.FirstName, p.Author.LastName)
	case p.ResolvedAuthor != nil:
		return AuthorName(p.ResolvedAuthor.FirstName, p.ResolvedAuthor.LastName)
	default:
		return ""
	}
}

// IsReference reports whether the post points to a standalone author.
func (p *BlogPost) IsReference() bool {
	return p.Author == nil && p.AuthorID != ""
}

func (p *BlogPost) Serialize() SerializedPost {
	return SerializedPost{
		ID:      p.ID,
		Author:  p.AuthorName(),
		Content: p.Content,
		Title:   p.Title,
		Created: p.Created,
	}
}

func SerializeAll(posts []*BlogPost) []SerializedPost {
	serialized := make([]SerializedPost, 0, len(posts))
	for _, p := range posts {
		serialized = append(serialized, p.Serialize())
	}
	return serialized
}

// PostUpdate carries the subset of fields a client sent with an update.
// Nil Title means untouched; Content and the author are only applied when
// their Set flag is on, since both may legitimately be set to empty.
type PostUpdate struct {
	Title *string

	SetContent bool
	Content    *string

	SetAuthor bool
	Author    *EmbeddedAuthor
	AuthorID  string
}

func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && !u.SetContent && !u.SetAuthor
}

// Apply merges the update into p. Used by stores that cannot express a
// partial update natively.
func (u PostUpdate) Apply(p *BlogPost) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.SetContent {
		p.Content = u.Content
	}
	if u.SetAuthor {
		p.Author = u.Author
		p.AuthorID = u.AuthorID
		p.ResolvedAuthor = nil
	}
}
