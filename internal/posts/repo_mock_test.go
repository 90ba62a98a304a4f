package posts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/blogposts/internal/authors"
)

var _ postsRepo = (*repoMock)(nil)

// repoMock is an in-memory postsRepo. It stores copies, so callers can't
// mutate stored posts behind its back.
type repoMock struct {
	Posts       map[string]*BlogPost
	CreateCalls int
	mutex       sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Posts: make(map[string]*BlogPost),
	}
}

func (r *repoMock) PostsCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Posts)
}

func (r *repoMock) Find(_ context.Context) ([]*BlogPost, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	posts := make([]*BlogPost, 0, len(r.Posts))
	for _, p := range r.Posts {
		posts = append(posts, copyPost(p))
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Created.Before(posts[j].Created)
	})

	return posts, nil
}

func (r *repoMock) FindByID(_ context.Context, id string) (*BlogPost, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, ok := r.Posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return copyPost(p), nil
}

func (r *repoMock) Create(_ context.Context, post *BlogPost) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.CreateCalls++
	if post.Title == "" {
		return ErrTitleRequired
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.Created.IsZero() {
		post.Created = time.Now().UTC()
	}

	r.Posts[post.ID] = copyPost(post)
	return nil
}

func (r *repoMock) FindByIDAndUpdate(_ context.Context, id string, upd PostUpdate) (*BlogPost, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if upd.Title != nil && *upd.Title == "" {
		return nil, ErrTitleRequired
	}
	p, ok := r.Posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	upd.Apply(p)

	return copyPost(p), nil
}

func (r *repoMock) FindByIDAndRemove(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.Posts, id)

	return nil
}

func copyPost(p *BlogPost) *BlogPost {
	c := *p
	if p.Author != nil {
		a := *p.Author
		c.Author = &a
	}
	if p.Content != nil {
		content := *p.Content
		c.Content = &content
	}
	c.ResolvedAuthor = nil
	return &c
}

var _ authorsResolver = (*authorsMock)(nil)

type authorsMock struct {
	Authors      map[string]*authors.Author
	GetManyCalls int
	mutex        sync.Mutex
}

func newAuthorsMock(all ...*authors.Author) *authorsMock {
	m := &authorsMock{
		Authors: make(map[string]*authors.Author),
	}
	for _, a := range all {
		m.Authors[a.ID] = a
	}
	return m
}

func (m *authorsMock) Get(_ context.Context, id string) (*authors.Author, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	a, ok := m.Authors[id]
	if !ok {
		return nil, authors.ErrAuthorNotFound
	}
	return a, nil
}

func (m *authorsMock) GetMany(_ context.Context, ids []string) (map[string]*authors.Author, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.GetManyCalls++
	found := make(map[string]*authors.Author, len(ids))
	for _, id := range ids {
		if a, ok := m.Authors[id]; ok {
			found[id] = a
		}
	}
	return found, nil
}
