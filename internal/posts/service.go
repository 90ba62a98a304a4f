package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/blogposts/internal/authors"
	"github.com/2beens/blogposts/internal/cache"
	"github.com/2beens/blogposts/internal/telemetry/metrics"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=posts_test

type postsRepo interface {
	Find(ctx context.Context) ([]*BlogPost, error)
	FindByID(ctx context.Context, id string) (*BlogPost, error)
	Create(ctx context.Context, post *BlogPost) error
	FindByIDAndUpdate(ctx context.Context, id string, upd PostUpdate) (*BlogPost, error)
	FindByIDAndRemove(ctx context.Context, id string) error
}

type authorsResolver interface {
	Get(ctx context.Context, id string) (*authors.Author, error)
	GetMany(ctx context.Context, ids []string) (map[string]*authors.Author, error)
}

// Service sits between the HTTP handlers and the posts store. Every post it
// returns has its author reference resolved.
type Service struct {
	repo           postsRepo
	authors        authorsResolver
	cache          cache.Cache
	metricsManager *metrics.Manager
}

func NewService(
	repo postsRepo,
	authorsResolver authorsResolver,
	postsCache cache.Cache,
	metricsManager *metrics.Manager,
) *Service {
	if postsCache == nil {
		postsCache = cache.Nop{}
	}
	return &Service{
		repo:           repo,
		authors:        authorsResolver,
		cache:          postsCache,
		metricsManager: metricsManager,
	}
}

func cacheKey(id string) string {
	return "post::" + id
}

func generationKey(id string) string {
	return "post-gen::" + id
}

// cachedPost is a post as kept in the cache. It is only served while its
// generation is still the current generation of the post.
type cachedPost struct {
	Generation string         `json:"gen"`
	Post       SerializedPost `json:"post"`
}

func (s *Service) List(ctx context.Context) ([]*BlogPost, error) {
	posts, err := s.repo.Find(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.resolveAuthors(ctx, posts); err != nil {
		return nil, err
	}

	return posts, nil
}

func (s *Service) Get(ctx context.Context, id string) (SerializedPost, error) {
	// read before the store, so a write finishing in between retires
	// whatever this call ends up caching
	gen := s.generation(ctx, id)

	if cached, ok := s.cache.Get(ctx, cacheKey(id)); ok && gen != "" {
		var entry cachedPost
		if err := json.Unmarshal(cached, &entry); err != nil {
			log.Warnf("drop undecodable cached post %s", id)
		} else if entry.Generation == gen {
			s.metricsManager.CacheLookup(true)
			return entry.Post, nil
		}
	}
	s.metricsManager.CacheLookup(false)

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SerializedPost{}, err
	}
	if err := s.resolveAuthor(ctx, post); err != nil {
		return SerializedPost{}, err
	}

	serialized := post.Serialize()
	if gen == "" {
		return serialized, nil
	}
	if encoded, err := json.Marshal(cachedPost{Generation: gen, Post: serialized}); err != nil {
		log.Errorf("marshal post %s for cache: %s", id, err)
	} else if err := s.cache.Set(ctx, cacheKey(id), encoded); err != nil {
		log.Errorf("cache post %s: %s", id, err)
	}

	return serialized, nil
}

func (s *Service) Create(ctx context.Context, post *BlogPost) (*BlogPost, error) {
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.metricsManager.PostWritten("create")

	if err := s.resolveAuthor(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *Service) Update(ctx context.Context, id string, upd PostUpdate) error {
	if _, err := s.repo.FindByIDAndUpdate(ctx, id, upd); err != nil {
		return err
	}
	s.metricsManager.PostWritten("update")
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.FindByIDAndRemove(ctx, id); err != nil {
		return err
	}
	s.metricsManager.PostWritten("delete")
	s.invalidate(ctx, id)
	return nil
}

// invalidate retires every cached copy of the post, including copies still
// being written by reads that started before the store write.
func (s *Service) invalidate(ctx context.Context, id string) {
	s.newGeneration(ctx, id)
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Errorf("invalidate cached post %s: %s", id, err)
	}
}

// generation returns the current cache generation of the post, starting a
// new one when none is stored. An empty generation means the cache is
// unusable and nothing should be read from or written to it.
func (s *Service) generation(ctx context.Context, id string) string {
	if gen, ok := s.cache.Get(ctx, generationKey(id)); ok && len(gen) > 0 {
		return string(gen)
	}
	return s.newGeneration(ctx, id)
}

func (s *Service) newGeneration(ctx context.Context, id string) string {
	gen := uuid.NewString()
	if err := s.cache.Set(ctx, generationKey(id), []byte(gen)); err != nil {
		log.Errorf("new cache generation for post %s: %s", id, err)
		return ""
	}
	return gen
}

// resolveAuthor fills in the referenced author of a single post.
// An author that no longer exists resolves to an empty name.
func (s *Service) resolveAuthor(ctx context.Context, post *BlogPost) error {
	if !post.IsReference() {
		return nil
	}

	author, err := s.authors.Get(ctx, post.AuthorID)
	if err != nil {
		if !errors.Is(err, authors.ErrAuthorNotFound) {
			return fmt.Errorf("resolve author %s: %w", post.AuthorID, err)
		}
		author = &authors.Author{ID: post.AuthorID}
	}
	post.ResolvedAuthor = author

	return nil
}

// resolveAuthors fills in all referenced authors with a single lookup
func (s *Service) resolveAuthors(ctx context.Context, posts []*BlogPost) error {
	seen := make(map[string]struct{})
	var ids []string
	for _, p := range posts {
		if !p.IsReference() {
			continue
		}
		if _, ok := seen[p.AuthorID]; !ok {
			seen[p.AuthorID] = struct{}{}
			ids = append(ids, p.AuthorID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	found, err := s.authors.GetMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve %d authors: %w", len(ids), err)
	}

	for _, p := range posts {
		if !p.IsReference() {
			continue
		}
		if a, ok := found[p.AuthorID]; ok {
			p.ResolvedAuthor = a
		} else {
			p.ResolvedAuthor = &authors.Author{ID: p.AuthorID}
		}
	}

	return nil
}
