package authors

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/blogposts/internal/telemetry/tracing"
	"github.com/2beens/blogposts/pkg"
)

const CollectionName = "authors"

type authorDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	UserName  string             `bson:"userName"`
}

func (d *authorDocument) toAuthor() *Author {
	return &Author{
		ID:        d.ID.Hex(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		UserName:  d.UserName,
	}
}

var _ authorsRepo = (*Repo)(nil)

// Repo keeps authors in a mongo collection with a unique userName index
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		coll: db.Collection(CollectionName),
	}
}

func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userName", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("ux_author_user_name"),
	})
	if err != nil {
		return fmt.Errorf("create authors userName index: %w", err)
	}
	return nil
}

func (r *Repo) Create(ctx context.Context, author *Author) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authorsRepo.Create")
	defer func() { tracing.EndSpan(span, err) }()

	res, err := r.coll.InsertOne(ctx, authorDocument{
		FirstName: author.FirstName,
		LastName:  author.LastName,
		UserName:  author.UserName,
	})
	if err != nil {
		if pkg.IsDuplicateKeyError(err) {
			return ErrUserNameTaken
		}
		return fmt.Errorf("insert author: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	author.ID = oid.Hex()

	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Author, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authorsRepo.Get")
	span.SetAttributes(attribute.String("id", id))
	defer func() { tracing.EndSpan(span, err) }()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrAuthorNotFound
	}

	var doc authorDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("find author %s: %w", id, err)
	}

	return doc.toAuthor(), nil
}

// GetMany returns the found authors keyed by id. Unknown and malformed ids are skipped.
func (r *Repo) GetMany(ctx context.Context, ids []string) (_ map[string]*Author, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authorsRepo.GetMany")
	span.SetAttributes(attribute.Int("ids", len(ids)))
	defer func() { tracing.EndSpan(span, err) }()

	found := make(map[string]*Author, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return found, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find authors: %w", err)
	}

	var docs []authorDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}

	for i := range docs {
		a := docs[i].toAuthor()
		found[a.ID] = a
	}

	return found, nil
}

func (r *Repo) All(ctx context.Context) (_ []*Author, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authorsRepo.All")
	defer func() { tracing.EndSpan(span, err) }()

	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "userName", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find authors: %w", err)
	}

	var docs []authorDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}

	all := make([]*Author, 0, len(docs))
	for i := range docs {
		all = append(all, docs[i].toAuthor())
	}

	return all, nil
}
