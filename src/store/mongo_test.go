package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/theleywin/Backend-Dissuade/src/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoPosts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("by id decodes the whole aggregate", func(mt *mtest.T) {
		posts := NewMongo(mt.DB, time.Second).Stores().Posts
		id := primitive.NewObjectID()
		liker := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "text", Value: "hello world"},
			{Key: "likes", Value: bson.A{bson.D{{Key: "user", Value: liker}}}},
			{Key: "rev", Value: int64(3)},
		}))

		post, err := posts.ByID(context.Background(), id)
		if err != nil {
			mt.Fatalf("ByID: %v", err)
		}
		if post.Text != "hello world" || post.Rev != 3 || len(post.Likes) != 1 || post.Likes[0].User != liker {
			mt.Fatalf("unexpected post %+v", post)
		}
		if post.Comments == nil {
			mt.Fatalf("comments should be normalized to an empty slice")
		}
	})

	mt.Run("missing post is not found", func(mt *mtest.T) {
		posts := NewMongo(mt.DB, time.Second).Stores().Posts
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch))

		if _, err := posts.ByID(context.Background(), primitive.NewObjectID()); !errors.Is(err, models.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("save bumps the revision", func(mt *mtest.T) {
		posts := NewMongo(mt.DB, time.Second).Stores().Posts
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		post := models.NewPost(primitive.NewObjectID(), "hello world", "", "")
		post.Id = primitive.NewObjectID()
		post.Rev = 4
		if err := posts.Save(context.Background(), &post); err != nil {
			mt.Fatalf("Save: %v", err)
		}
		if post.Rev != 5 {
			mt.Fatalf("expected rev 5, got %d", post.Rev)
		}
	})

	mt.Run("save of a document without revision", func(mt *mtest.T) {
		posts := NewMongo(mt.DB, time.Second).Stores().Posts
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		post := models.NewPost(primitive.NewObjectID(), "hello world", "", "")
		post.Id = primitive.NewObjectID()
		if err := posts.Save(context.Background(), &post); err != nil {
			mt.Fatalf("Save: %v", err)
		}
		if post.Rev != 1 {
			mt.Fatalf("expected rev 1, got %d", post.Rev)
		}
	})

	mt.Run("stale save conflicts", func(mt *mtest.T) {
		posts := NewMongo(mt.DB, time.Second).Stores().Posts
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		post := models.NewPost(primitive.NewObjectID(), "hello world", "", "")
		post.Id = primitive.NewObjectID()
		post.Rev = 4
		if err := posts.Save(context.Background(), &post); !errors.Is(err, models.ErrConflict) {
			mt.Fatalf("expected ErrConflict, got %v", err)
		}
		if post.Rev != 4 {
			mt.Fatalf("revision should be restored after a conflict, got %d", post.Rev)
		}
	})

	mt.Run("delete of a missing post", func(mt *mtest.T) {
		posts := NewMongo(mt.DB, time.Second).Stores().Posts
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		if err := posts.Delete(context.Background(), primitive.NewObjectID()); !errors.Is(err, models.ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("network failures surface as store unavailable", func(mt *mtest.T) {
		posts := NewMongo(mt.DB, time.Second).Stores().Posts
		failure := mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    9001,
			Message: "socket exception",
			Name:    "SocketException",
			Labels:  []string{"NetworkError"},
		})
		mt.AddMockResponses(failure, failure)

		if _, err := posts.ByID(context.Background(), primitive.NewObjectID()); !errors.Is(err, models.ErrStoreUnavailable) {
			mt.Fatalf("expected ErrStoreUnavailable, got %v", err)
		}
	})
}

func TestMongoProfiles(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate handle on insert", func(mt *mtest.T) {
		profiles := NewMongo(mt.DB, time.Second).Stores().Profiles
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: `E11000 duplicate key error collection: test.profiles index: handle_1 dup key: { handle: "jdoe" }`,
		}))

		profile := models.NewProfile(primitive.NewObjectID())
		profile.Handle = "jdoe"
		if err := profiles.Insert(context.Background(), &profile); !errors.Is(err, models.ErrDuplicateHandle) {
			mt.Fatalf("expected ErrDuplicateHandle, got %v", err)
		}
	})

	mt.Run("second profile for a user", func(mt *mtest.T) {
		profiles := NewMongo(mt.DB, time.Second).Stores().Profiles
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: `E11000 duplicate key error collection: test.profiles index: user_1 dup key: { handle: "x" }`,
		}))

		profile := models.NewProfile(primitive.NewObjectID())
		profile.Handle = "fresh"
		if err := profiles.Insert(context.Background(), &profile); !errors.Is(err, models.ErrProfileExists) {
			mt.Fatalf("expected ErrProfileExists, got %v", err)
		}
	})

	mt.Run("edit onto a taken handle", func(mt *mtest.T) {
		profiles := NewMongo(mt.DB, time.Second).Stores().Profiles
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: `E11000 duplicate key error collection: test.profiles index: handle_1 dup key: { handle: "jdoe" }`,
		}))

		profile := models.NewProfile(primitive.NewObjectID())
		profile.Id = primitive.NewObjectID()
		profile.Handle = "jdoe"
		profile.Rev = 2
		if err := profiles.Save(context.Background(), &profile); !errors.Is(err, models.ErrDuplicateHandle) {
			mt.Fatalf("expected ErrDuplicateHandle, got %v", err)
		}
		if profile.Rev != 2 {
			mt.Fatalf("revision should be restored after a failed save, got %d", profile.Rev)
		}
	})

	mt.Run("insert assigns id and first revision", func(mt *mtest.T) {
		profiles := NewMongo(mt.DB, time.Second).Stores().Profiles
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		profile := models.NewProfile(primitive.NewObjectID())
		profile.Handle = "jdoe"
		if err := profiles.Insert(context.Background(), &profile); err != nil {
			mt.Fatalf("Insert: %v", err)
		}
		if profile.Id.IsZero() || profile.Rev != 1 {
			mt.Fatalf("unexpected id/rev %s/%d", profile.Id.Hex(), profile.Rev)
		}
	})

	mt.Run("by handle", func(mt *mtest.T) {
		profiles := NewMongo(mt.DB, time.Second).Stores().Profiles
		owner := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.profiles", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "user", Value: owner},
			{Key: "handle", Value: "jdoe"},
			{Key: "skills", Value: bson.A{"go"}},
		}))

		profile, err := profiles.ByHandle(context.Background(), "jdoe")
		if err != nil {
			mt.Fatalf("ByHandle: %v", err)
		}
		if profile.User != owner || len(profile.Skills) != 1 || profile.Experience == nil {
			mt.Fatalf("unexpected profile %+v", profile)
		}
	})
}

func TestRevFilter(t *testing.T) {
	id := primitive.NewObjectID()

	current := revFilter(id, 3)
	if current["_id"] != id || current["rev"] != int64(3) {
		t.Fatalf("unexpected filter %v", current)
	}

	legacy := revFilter(id, 0)
	in, ok := legacy["rev"].(bson.M)
	if !ok {
		t.Fatalf("legacy filter should match a missing rev: %v", legacy)
	}
	values, _ := in["$in"].(bson.A)
	if len(values) != 2 || values[0] != int64(0) || values[1] != nil {
		t.Fatalf("unexpected legacy rev match %v", in)
	}
}

func TestIndexField(t *testing.T) {
	tests := map[string]string{
		`E11000 duplicate key error collection: test.profiles index: handle_1 dup key: { handle: "a" }`: "handle",
		`E11000 duplicate key error collection: test.profiles index: user_1 dup key: { user: "handle" }`: "user",
		"E11000 duplicate key error": "",
	}
	for message, want := range tests {
		if got := indexField(message); got != want {
			t.Fatalf("indexField(%q) = %q, want %q", message, got, want)
		}
	}
}

func TestMongoUsers(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email", func(mt *mtest.T) {
		users := NewMongo(mt.DB, time.Second).Stores().Users
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.users index: email_1",
		}))

		if err := users.Insert(context.Background(), &models.User{Email: "a@b.c"}); !errors.Is(err, models.ErrEmailTaken) {
			mt.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	mt.Run("by ids skips the query for no ids", func(mt *mtest.T) {
		users := NewMongo(mt.DB, time.Second).Stores().Users

		list, err := users.ByIDs(context.Background(), nil)
		if err != nil || len(list) != 0 {
			mt.Fatalf("ByIDs(nil) = %v, %v", list, err)
		}
	})
}
