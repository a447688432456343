package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/escola-conecta/blog-api/internal/core/domain"
	"github.com/escola-conecta/blog-api/internal/core/ports"
)

const postsCollection = "posts"

// PostRepository implements ports.PostRepository on the posts collection.
// Comments live embedded in their post document.
type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: db.Collection(postsCollection)}
}

type mongoComment struct {
	ID        primitive.ObjectID `bson:"_id"`
	Author    string             `bson:"author"`
	AuthorID  string             `bson:"author_id"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
}

type mongoPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Content     string             `bson:"content"`
	Author      string             `bson:"author"`
	Category    string             `bson:"category,omitempty"`
	Tags        []string           `bson:"tags"`
	Published   bool               `bson:"published"`
	Status      string             `bson:"status"`
	ScheduledAt time.Time          `bson:"scheduled_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
	Comments    []mongoComment     `bson:"comments"`
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	doc, err := toMongoPost(p)
	if err != nil {
		return nil, err
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	created := *p
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var mp mongoPost
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return mp.toDomain(), nil
}

// List returns a page of posts matching filter, newest first, plus the
// unpaginated total.
func (r *PostRepository) List(ctx context.Context, filter ports.ListPostsFilter) ([]*domain.Post, int64, error) {
	query := listQuery(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.Skip)).
		SetLimit(int64(filter.Limit))

	posts, err := r.findAll(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostRepository) Update(ctx context.Context, id string, upd ports.PostUpdate) (*domain.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Author != nil {
		set["author"] = *upd.Author
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Tags != nil {
		set["tags"] = *upd.Tags
	}
	if upd.Published != nil {
		set["published"] = *upd.Published
	}
	if upd.Status != nil {
		set["status"] = string(*upd.Status)
	}
	if upd.ScheduledAt != nil {
		set["scheduled_at"] = *upd.ScheduledAt
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mp mongoPost
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// Search matches query case-insensitively against title, content and tags
// of published posts. The query is quoted so user input cannot inject
// regex metacharacters.
func (r *PostRepository) Search(ctx context.Context, query string, skip, limit int) ([]*domain.Post, int64, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"status": string(domain.StatusPublished),
		"$or": bson.A{
			bson.M{"title": re},
			bson.M{"content": re},
			bson.M{"tags": bson.M{"$in": bson.A{re}}},
		},
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count search results: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	posts, err := r.findAll(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// SetComments replaces the embedded comment array. Comments without an id
// are new appends and get one assigned here.
func (r *PostRepository) SetComments(ctx context.Context, id string, comments []domain.Comment) (*domain.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	docs := make([]mongoComment, len(comments))
	for i, c := range comments {
		cid := primitive.NilObjectID
		if c.ID != "" {
			cid, err = primitive.ObjectIDFromHex(c.ID)
			if err != nil {
				return nil, domain.ErrInvalidID
			}
		} else {
			cid = primitive.NewObjectID()
		}
		docs[i] = mongoComment{
			ID:        cid,
			Author:    c.Author,
			AuthorID:  c.AuthorID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}
	}

	update := bson.M{"$set": bson.M{
		"comments":   docs,
		"updated_at": time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mp mongoPost
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("set comments: %w", err)
	}
	return mp.toDomain(), nil
}

// EnsureIndexes creates the listing and search support indexes.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *PostRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Post, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cur.Close(ctx)

	var posts []*domain.Post
	for cur.Next(ctx) {
		var mp mongoPost
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, mp.toDomain())
	}
	return posts, cur.Err()
}

// listQuery builds the visibility filter for listings. The staff variant
// unions drafts and published posts with the caller's own private posts.
func listQuery(filter ports.ListPostsFilter) bson.M {
	if filter.PublishedOnly {
		return bson.M{"status": string(domain.StatusPublished)}
	}
	return bson.M{"$or": bson.A{
		bson.M{"status": bson.M{"$in": bson.A{
			string(domain.StatusPublished),
			string(domain.StatusDraft),
		}}},
		bson.M{
			"status": string(domain.StatusPrivate),
			"author": filter.CurrentAuthor,
		},
	}}
}

func toMongoPost(p *domain.Post) (mongoPost, error) {
	comments := make([]mongoComment, 0, len(p.Comments))
	for _, c := range p.Comments {
		cid, err := primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return mongoPost{}, domain.ErrInvalidID
		}
		comments = append(comments, mongoComment{
			ID:        cid,
			Author:    c.Author,
			AuthorID:  c.AuthorID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return mongoPost{
		Title:       p.Title,
		Content:     p.Content,
		Author:      p.Author,
		Category:    p.Category,
		Tags:        p.Tags,
		Published:   p.Published,
		Status:      string(p.Status),
		ScheduledAt: p.ScheduledAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Comments:    comments,
	}, nil
}

func (mp *mongoPost) toDomain() *domain.Post {
	comments := make([]domain.Comment, len(mp.Comments))
	for i, c := range mp.Comments {
		comments[i] = domain.Comment{
			ID:        c.ID.Hex(),
			Author:    c.Author,
			AuthorID:  c.AuthorID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}
	}
	return &domain.Post{
		ID:          mp.ID.Hex(),
		Title:       mp.Title,
		Content:     mp.Content,
		Author:      mp.Author,
		Category:    mp.Category,
		Tags:        mp.Tags,
		Published:   mp.Published,
		Status:      domain.PostStatus(mp.Status),
		ScheduledAt: mp.ScheduledAt,
		CreatedAt:   mp.CreatedAt,
		UpdatedAt:   mp.UpdatedAt,
		Comments:    comments,
	}
}
