package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/escola-conecta/blog-api/internal/core/domain"
)

func TestToMongoPost_MalformedCommentID(t *testing.T) {
	p := &domain.Post{
		Title:  "Hello",
		Author: "Prof. Silva",
		Status: domain.StatusPublished,
		Comments: []domain.Comment{
			{ID: "not-a-hex-id", Author: "Student", Content: "hi"},
		},
	}

	if _, err := toMongoPost(p); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID for malformed comment id, got %v", err)
	}
}

func TestToMongoPost_RoundTrip(t *testing.T) {
	cid := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)
	p := &domain.Post{
		Title:     "Hello",
		Content:   "World",
		Author:    "Prof. Silva",
		Tags:      []string{"math"},
		Published: true,
		Status:    domain.StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
		Comments: []domain.Comment{
			{ID: cid.Hex(), Author: "Student", AuthorID: "u1", Content: "hi", CreatedAt: now},
		},
	}

	doc, err := toMongoPost(p)
	if err != nil {
		t.Fatalf("toMongoPost returned error: %v", err)
	}
	if len(doc.Comments) != 1 || doc.Comments[0].ID != cid {
		t.Fatalf("comment id not preserved: %+v", doc.Comments)
	}

	back := doc.toDomain()
	if back.Title != p.Title || back.Status != p.Status {
		t.Fatalf("post fields not preserved: %+v", back)
	}
	if back.Comments[0].ID != cid.Hex() {
		t.Fatalf("comment id not round-tripped: %s", back.Comments[0].ID)
	}
}

func TestLastLoginUpdate_BumpsUpdatedAt(t *testing.T) {
	at := time.Now().UTC()

	update := lastLoginUpdate(at)
	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected $set document, got %+v", update)
	}
	if set["last_login"] != at {
		t.Fatalf("last_login not set: %+v", set)
	}
	if set["updated_at"] != at {
		t.Fatalf("updated_at must move with last_login: %+v", set)
	}
}

func TestObjectID_Malformed(t *testing.T) {
	if _, err := objectID("nope"); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}
