package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/blogposts/internal/telemetry/tracing"
)

const CollectionName = "blogposts"

type authorDocument struct {
	FirstName string `bson:"firstName"`
	LastName  string `bson:"lastName"`
}

type postDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Author   *authorDocument    `bson:"author,omitempty"`
	AuthorID string             `bson:"authorId,omitempty"`
	Title    string             `bson:"title"`
	Content  *string            `bson:"content"`
	Created  time.Time          `bson:"created"`
}

func (d *postDocument) toPost() *BlogPost {
	p := &BlogPost{
		ID:       d.ID.Hex(),
		AuthorID: d.AuthorID,
		Title:    d.Title,
		Content:  d.Content,
		Created:  d.Created,
	}
	if d.Author != nil {
		p.Author = &EmbeddedAuthor{
			FirstName: d.Author.FirstName,
			LastName:  d.Author.LastName,
		}
	}
	return p
}

var _ postsRepo = (*Repo)(nil)

// Repo keeps blog posts in the "blogposts" mongo collection
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		coll: db.Collection(CollectionName),
	}
}

func (r *Repo) Find(ctx context.Context) (_ []*BlogPost, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.Find")
	defer func() { tracing.EndSpan(span, err) }()

	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]*BlogPost, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toPost())
	}

	return posts, nil
}

func (r *Repo) FindByID(ctx context.Context, id string) (_ *BlogPost, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.FindByID")
	span.SetAttributes(attribute.String("id", id))
	defer func() { tracing.EndSpan(span, err) }()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	var doc postDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post %s: %w", id, err)
	}

	return doc.toPost(), nil
}

// Create inserts the post and fills in its ID. Created is set to the current
// time unless the caller already provided one.
func (r *Repo) Create(ctx context.Context, post *BlogPost) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.Create")
	defer func() { tracing.EndSpan(span, err) }()

	if post.Title == "" {
		return ErrTitleRequired
	}
	if post.Created.IsZero() {
		post.Created = time.Now().UTC().Truncate(time.Millisecond)
	}

	doc := postDocument{
		AuthorID: post.AuthorID,
		Title:    post.Title,
		Content:  post.Content,
		Created:  post.Created,
	}
	if post.Author != nil {
		doc.Author = &authorDocument{
			FirstName: post.Author.FirstName,
			LastName:  post.Author.LastName,
		}
		doc.AuthorID = ""
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	post.ID = oid.Hex()

	return nil
}

// FindByIDAndUpdate $sets only the fields present in upd and returns the
// updated post.
func (r *Repo) FindByIDAndUpdate(ctx context.Context, id string, upd PostUpdate) (_ *BlogPost, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.FindByIDAndUpdate")
	span.SetAttributes(attribute.String("id", id))
	defer func() { tracing.EndSpan(span, err) }()

	if upd.Title != nil && *upd.Title == "" {
		return nil, ErrTitleRequired
	}
	if upd.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	var doc postDocument
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		updateDocument(upd),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}

	return doc.toPost(), nil
}

func updateDocument(upd PostUpdate) bson.M {
	set := bson.M{}
	unset := bson.M{}

	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.SetContent {
		set["content"] = upd.Content
	}
	if upd.SetAuthor {
		if upd.Author != nil {
			set["author"] = authorDocument{
				FirstName: upd.Author.FirstName,
				LastName:  upd.Author.LastName,
			}
			unset["authorId"] = ""
		} else {
			set["authorId"] = upd.AuthorID
			unset["author"] = ""
		}
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func (r *Repo) FindByIDAndRemove(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.FindByIDAndRemove")
	span.SetAttributes(attribute.String("id", id))
	defer func() { tracing.EndSpan(span, err) }()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}

	return nil
}
