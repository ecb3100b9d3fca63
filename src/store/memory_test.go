package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/theleywin/Backend-Dissuade/src/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryDuplicateHandleIsRejected(t *testing.T) {
	ctx := context.Background()
	profiles := NewMemory().Stores().Profiles

	u2 := models.NewProfile(primitive.NewObjectID())
	u2.Handle = "jdoe"
	if err := profiles.Insert(ctx, &u2); err != nil {
		t.Fatalf("insert: %v", err)
	}

	u3 := models.NewProfile(primitive.NewObjectID())
	u3.Handle = "jdoe"
	if err := profiles.Insert(ctx, &u3); !errors.Is(err, models.ErrDuplicateHandle) {
		t.Fatalf("expected ErrDuplicateHandle, got %v", err)
	}
	if _, err := profiles.ByUser(ctx, u3.User); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("rejected profile was written: %v", err)
	}

	again := models.NewProfile(u2.User)
	again.Handle = "other"
	if err := profiles.Insert(ctx, &again); !errors.Is(err, models.ErrProfileExists) {
		t.Fatalf("expected ErrProfileExists, got %v", err)
	}
}

func TestMemorySaveIsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	posts := NewMemory().Stores().Posts

	post := models.NewPost(primitive.NewObjectID(), "hello world", "Ann", "")
	if err := posts.Insert(ctx, &post); err != nil {
		t.Fatal(err)
	}

	first, _ := posts.ByID(ctx, post.Id)
	second, _ := posts.ByID(ctx, post.Id)

	if err := first.Like(primitive.NewObjectID()); err != nil {
		t.Fatal(err)
	}
	if err := posts.Save(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if first.Rev != 2 {
		t.Fatalf("expected rev 2, got %d", first.Rev)
	}

	if err := second.Like(primitive.NewObjectID()); err != nil {
		t.Fatal(err)
	}
	if err := posts.Save(ctx, second); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("stale save should conflict, got %v", err)
	}

	stored, _ := posts.ByID(ctx, post.Id)
	if len(stored.Likes) != 1 {
		t.Fatalf("expected the first writer's like only, got %+v", stored.Likes)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	posts := NewMemory().Stores().Posts

	post := models.NewPost(primitive.NewObjectID(), "hello world", "Ann", "")
	if err := posts.Insert(ctx, &post); err != nil {
		t.Fatal(err)
	}

	loaded, _ := posts.ByID(ctx, post.Id)
	if err := loaded.Like(primitive.NewObjectID()); err != nil {
		t.Fatal(err)
	}

	again, _ := posts.ByID(ctx, post.Id)
	if len(again.Likes) != 0 {
		t.Fatalf("unsaved mutation leaked into the store")
	}
}

func TestMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	posts := NewMemory().Stores().Posts

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, text := range []string{"old", "new", "mid"} {
		p := models.NewPost(primitive.NewObjectID(), text, "", "")
		p.Date = base.Add(time.Duration([]int{0, 2, 1}[i]) * time.Hour)
		if err := posts.Insert(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}

	list, err := posts.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].Text != "new" || list[1].Text != "mid" || list[2].Text != "old" {
		t.Fatalf("unexpected order: %v %v %v", list[0].Text, list[1].Text, list[2].Text)
	}
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	users := NewMemory().Stores().Users

	ann := models.User{Name: "Ann", Email: "ann@example.com"}
	if err := users.Insert(ctx, &ann); err != nil {
		t.Fatal(err)
	}
	if ann.Id.IsZero() {
		t.Fatalf("id not assigned")
	}
	dup := models.User{Name: "Ann 2", Email: "ann@example.com"}
	if err := users.Insert(ctx, &dup); !errors.Is(err, models.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	found, err := users.ByEmail(ctx, "ann@example.com")
	if err != nil || found.Id != ann.Id {
		t.Fatalf("ByEmail: %v %v", found, err)
	}

	list, err := users.ByIDs(ctx, []primitive.ObjectID{ann.Id, primitive.NewObjectID()})
	if err != nil || len(list) != 1 {
		t.Fatalf("ByIDs: %v %v", list, err)
	}

	if err := users.Delete(ctx, ann.Id); err != nil {
		t.Fatal(err)
	}
	if _, err := users.ByID(ctx, ann.Id); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
