// Package store persists users, profiles and posts as whole documents.
//
// Aggregates are always loaded and saved in full. Save is a compare-and-swap on
// the aggregate's Rev: it only succeeds when nobody else saved since the load,
// and bumps Rev on success. A lost race is reported as models.ErrConflict.
package store

import (
	"context"

	"github.com/theleywin/Backend-Dissuade/src/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostStore interface {
	// List returns every post, newest first.
	List(ctx context.Context) ([]models.Post, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	Insert(ctx context.Context, post *models.Post) error
	Save(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProfileStore interface {
	List(ctx context.Context) ([]models.Profile, error)
	ByUser(ctx context.Context, user primitive.ObjectID) (*models.Profile, error)
	ByHandle(ctx context.Context, handle string) (*models.Profile, error)
	// Insert and Save fail with models.ErrDuplicateHandle when another profile
	// owns the handle, and Insert with models.ErrProfileExists when the user
	// already has one.
	Insert(ctx context.Context, profile *models.Profile) error
	Save(ctx context.Context, profile *models.Profile) error
	DeleteByUser(ctx context.Context, user primitive.ObjectID) error
}

type UserStore interface {
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	// Insert fails with models.ErrEmailTaken when the e-mail is registered.
	Insert(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Stores bundles the three collections a running server needs.
type Stores struct {
	Posts    PostStore
	Profiles ProfileStore
	Users    UserStore
}
