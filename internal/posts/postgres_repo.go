package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/blogposts/internal/telemetry/tracing"
)

// automatic prepared statement caching in pgx covers the repeated queries:
// https://github.com/jackc/pgx/wiki/Automatic-Prepared-Statement-Caching

const postColumns = `id, author_first_name, author_last_name, author_id, title, content, created`

var _ postsRepo = (*PostgresRepo)(nil)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{
		db: db,
	}
}

func (r *PostgresRepo) Find(ctx context.Context) (_ []*BlogPost, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsPgRepo.Find")
	defer func() { tracing.EndSpan(span, err) }()

	rows, err := r.db.Query(ctx, `SELECT `+postColumns+` FROM blog_post ORDER BY created`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}

	posts, err := pgx.CollectRows(rows, scanPost)
	if err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	if posts == nil {
		posts = []*BlogPost{}
	}

	return posts, nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (_ *BlogPost, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsPgRepo.FindByID")
	span.SetAttributes(attribute.String("id", id))
	defer func() { tracing.EndSpan(span, err) }()

	postID, parseErr := uuid.Parse(id)
	if parseErr != nil {
		return nil, ErrPostNotFound
	}

	rows, err := r.db.Query(ctx, `SELECT `+postColumns+` FROM blog_post WHERE id = $1`, postID)
	if err != nil {
		return nil, fmt.Errorf("query post %s: %w", id, err)
	}

	return collectOnePost(rows, id)
}

func (r *PostgresRepo) Create(ctx context.Context, post *BlogPost) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsPgRepo.Create")
	defer func() { tracing.EndSpan(span, err) }()

	if post.Title == "" {
		return ErrTitleRequired
	}
	if post.Created.IsZero() {
		post.Created = time.Now().UTC().Truncate(time.Microsecond)
	}

	firstName, lastName, authorID := authorColumns(post.Author, post.AuthorID)
	id := uuid.New()
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO blog_post (`+postColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, firstName, lastName, authorID, post.Title, post.Content, post.Created,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	post.ID = id.String()
	return nil
}

func (r *PostgresRepo) FindByIDAndUpdate(ctx context.Context, id string, upd PostUpdate) (_ *BlogPost, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsPgRepo.FindByIDAndUpdate")
	span.SetAttributes(attribute.String("id", id))
	defer func() { tracing.EndSpan(span, err) }()

	if upd.Title != nil && *upd.Title == "" {
		return nil, ErrTitleRequired
	}
	if upd.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	postID, parseErr := uuid.Parse(id)
	if parseErr != nil {
		return nil, ErrPostNotFound
	}

	query, args := updateStatement(postID, upd)
	log.Tracef("updating post %s: %s", id, query)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}

	return collectOnePost(rows, id)
}

// updateStatement builds an UPDATE touching only the columns present in upd
func updateStatement(id uuid.UUID, upd PostUpdate) (string, []any) {
	var sets []string
	args := []any{id}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.SetContent {
		set("content", upd.Content)
	}
	if upd.SetAuthor {
		firstName, lastName, authorID := authorColumns(upd.Author, upd.AuthorID)
		set("author_first_name", firstName)
		set("author_last_name", lastName)
		set("author_id", authorID)
	}

	query := `UPDATE blog_post SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + postColumns
	return query, args
}

func (r *PostgresRepo) FindByIDAndRemove(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsPgRepo.FindByIDAndRemove")
	span.SetAttributes(attribute.String("id", id))
	defer func() { tracing.EndSpan(span, err) }()

	postID, parseErr := uuid.Parse(id)
	if parseErr != nil {
		return ErrPostNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM blog_post WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}

	return nil
}

// authorColumns maps either author form to the three author columns.
// A NULL author_id marks an embedded author.
func authorColumns(embedded *EmbeddedAuthor, authorID string) (string, string, *string) {
	if embedded != nil {
		return embedded.FirstName, embedded.LastName, nil
	}
	if authorID == "" {
		return "", "", nil
	}
	return "", "", &authorID
}

func collectOnePost(rows pgx.Rows, id string) (*BlogPost, error) {
	post, err := pgx.CollectExactlyOneRow(rows, scanPost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("scan post %s: %w", id, err)
	}
	return post, nil
}

func scanPost(row pgx.CollectableRow) (*BlogPost, error) {
	var (
		id        uuid.UUID
		firstName string
		lastName  string
		authorID  *string
	)
	p := &BlogPost{}
	if err := row.Scan(&id, &firstName, &lastName, &authorID, &p.Title, &p.Content, &p.Created); err != nil {
		return nil, err
	}

	p.ID = id.String()
	if authorID != nil {
		p.AuthorID = *authorID
	} else {
		p.Author = &EmbeddedAuthor{FirstName: firstName, LastName: lastName}
	}

	return p, nil
}
