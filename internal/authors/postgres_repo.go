package authors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/blogposts/internal/telemetry/tracing"
	"github.com/2beens/blogposts/pkg"
)

var _ authorsRepo = (*PostgresRepo)(nil)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{
		db: db,
	}
}

func (r *PostgresRepo) Create(ctx context.Context, author *Author) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authorsPgRepo.Create")
	defer func() { tracing.EndSpan(span, err) }()

	id := uuid.New()
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO author (id, first_name, last_name, user_name) VALUES ($1, $2, $3, $4)`,
		id, author.FirstName, author.LastName, author.UserName,
	)
	if err != nil {
		if pkg.IsDuplicateKeyError(err) {
			return ErrUserNameTaken
		}
		return fmt.Errorf("insert author: %w", err)
	}

	author.ID = id.String()
	return nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (_ *Author, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authorsPgRepo.Get")
	span.SetAttributes(attribute.String("id", id))
	defer func() { tracing.EndSpan(span, err) }()

	authorID, parseErr := uuid.Parse(id)
	if parseErr != nil {
		return nil, ErrAuthorNotFound
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, first_name, last_name, user_name FROM author WHERE id = $1`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("query author %s: %w", id, err)
	}

	author, err := pgx.CollectExactlyOneRow(rows, scanAuthor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("scan author %s: %w", id, err)
	}

	return author, nil
}

func (r *PostgresRepo) GetMany(ctx context.Context, ids []string) (_ map[string]*Author, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authorsPgRepo.GetMany")
	span.SetAttributes(attribute.Int("ids", len(ids)))
	defer func() { tracing.EndSpan(span, err) }()

	found := make(map[string]*Author, len(ids))
	authorIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if authorID, err := uuid.Parse(id); err == nil {
			authorIDs = append(authorIDs, authorID)
		}
	}
	if len(authorIDs) == 0 {
		return found, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, first_name, last_name, user_name FROM author WHERE id = ANY($1)`,
		authorIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query authors: %w", err)
	}

	authors, err := pgx.CollectRows(rows, scanAuthor)
	if err != nil {
		return nil, fmt.Errorf("scan authors: %w", err)
	}
	for _, a := range authors {
		found[a.ID] = a
	}

	return found, nil
}

func (r *PostgresRepo) All(ctx context.Context) (_ []*Author, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authorsPgRepo.All")
	defer func() { tracing.EndSpan(span, err) }()

	rows, err := r.db.Query(ctx, `SELECT id, first_name, last_name, user_name FROM author ORDER BY user_name`)
	if err != nil {
		return nil, fmt.Errorf("query authors: %w", err)
	}

	all, err := pgx.CollectRows(rows, scanAuthor)
	if err != nil {
		return nil, fmt.Errorf("scan authors: %w", err)
	}
	if all == nil {
		all = []*Author{}
	}

	return all, nil
}

func scanAuthor(row pgx.CollectableRow) (*Author, error) {
	var id uuid.UUID
	a := &Author{}
	if err := row.Scan(&id, &a.FirstName, &a.LastName, &a.UserName); err != nil {
		return nil, err
	}
	a.ID = id.String()
	return a, nil
}
