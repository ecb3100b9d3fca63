package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theleywin/Backend-Dissuade/src/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	postsCollection    = "posts"
	profilesCollection = "profiles"
	usersCollection    = "users"
)

// Mongo keeps every aggregate as one document in its own collection.
type Mongo struct {
	timeout  time.Duration
	posts    *mongo.Collection
	profiles *mongo.Collection
	users    *mongo.Collection
}

func NewMongo(db *mongo.Database, timeout time.Duration) *Mongo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Mongo{
		timeout:  timeout,
		posts:    db.Collection(postsCollection),
		profiles: db.Collection(profilesCollection),
		users:    db.Collection(usersCollection),
	}
}

func (m *Mongo) Stores() Stores {
	return Stores{
		Posts:    mongoPosts{m},
		Profiles: mongoProfiles{m},
		Users:    mongoUsers{m},
	}
}

// EnsureIndexes creates the unique indexes the uniqueness invariants rely on.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	unique := options.Index().SetUnique(true)
	if _, err := m.profiles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "handle", Value: 1}}, Options: unique},
	}); err != nil {
		return classify("create profile indexes", err)
	}
	if _, err := m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	}); err != nil {
		return classify("create user indexes", err)
	}
	if _, err := m.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: -1}},
	}); err != nil {
		return classify("create post indexes", err)
	}
	return nil
}

func (m *Mongo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.timeout)
}

// replace writes doc over the stored document only if its revision is still
// rev, bumping rev on success.
func (m *Mongo) replace(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, rev *int64, doc interface{}) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	prev := *rev
	*rev = prev + 1
	res, err := coll.ReplaceOne(ctx, revFilter(id, prev), doc)
	if err != nil {
		*rev = prev
		return err
	}
	if res.MatchedCount == 0 {
		*rev = prev
		return models.ErrConflict
	}
	return nil
}

// revFilter matches id at revision rev. Documents written before revisions
// existed load with rev 0 and have no rev field, which null matches.
func revFilter(id primitive.ObjectID, rev int64) bson.M {
	if rev == 0 {
		return bson.M{"_id": id, "rev": bson.M{"$in": bson.A{int64(0), nil}}}
	}
	return bson.M{"_id": id, "rev": rev}
}

func (m *Mongo) findOne(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return coll.FindOne(ctx, filter).Decode(out)
}

func (m *Mongo) insert(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	_, err := coll.InsertOne(ctx, doc)
	return err
}

func (m *Mongo) deleteOne(ctx context.Context, coll *mongo.Collection, filter interface{}) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// classify turns driver errors into the models sentinels.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, mongo.ErrClientDisconnected),
		mongo.IsTimeout(err),
		mongo.IsNetworkError(err):
		return fmt.Errorf("%s: %w: %v", op, models.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// duplicateKey reports the leading field of the unique index a write
// collided with. Servers that send keyPattern are read from it, older ones
// from the index name in the message ("index: handle_1 dup key").
func duplicateKey(err error) (string, bool) {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return "", false
	}
	for _, e := range we.WriteErrors {
		if e.Code != 11000 && e.Code != 11001 {
			continue
		}
		if len(e.Raw) > 0 {
			if pattern, ok := e.Raw.Lookup("keyPattern").DocumentOK(); ok {
				if elems, err := pattern.Elements(); err == nil && len(elems) > 0 {
					return elems[0].Key(), true
				}
			}
		}
		return indexField(e.Message), true
	}
	return "", false
}

func indexField(message string) string {
	_, rest, ok := strings.Cut(message, "index: ")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, " ")
	if i := strings.LastIndex(name, "_"); i > 0 {
		return name[:i]
	}
	return name
}

type mongoPosts struct{ m *Mongo }

func (s mongoPosts) List(ctx context.Context) ([]models.Post, error) {
	ctx, cancel := s.m.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := s.m.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify("list posts", err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, classify("decode posts", err)
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts, nil
}

func (s mongoPosts) ByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := s.m.findOne(ctx, s.m.posts, bson.M{"_id": id}, &post); err != nil {
		return nil, classify("find post", err)
	}
	post.Normalize()
	return &post, nil
}

func (s mongoPosts) Insert(ctx context.Context, post *models.Post) error {
	if post.Id.IsZero() {
		post.Id = primitive.NewObjectID()
	}
	post.Rev = 1
	post.Normalize()
	return classify("insert post", s.m.insert(ctx, s.m.posts, post))
}

func (s mongoPosts) Save(ctx context.Context, post *models.Post) error {
	post.Normalize()
	return classify("save post", s.m.replace(ctx, s.m.posts, post.Id, &post.Rev, post))
}

func (s mongoPosts) Delete(ctx context.Context, id primitive.ObjectID) error {
	return classify("delete post", s.m.deleteOne(ctx, s.m.posts, bson.M{"_id": id}))
}

type mongoProfiles struct{ m *Mongo }

func (s mongoProfiles) List(ctx context.Context) ([]models.Profile, error) {
	ctx, cancel := s.m.withTimeout(ctx)
	defer cancel()

	cursor, err := s.m.profiles.Find(ctx, bson.M{})
	if err != nil {
		return nil, classify("list profiles", err)
	}
	defer cursor.Close(ctx)

	profiles := []models.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, classify("decode profiles", err)
	}
	return profiles, nil
}

func (s mongoProfiles) ByUser(ctx context.Context, user primitive.ObjectID) (*models.Profile, error) {
	return s.findOne(ctx, bson.M{"user": user})
}

func (s mongoProfiles) ByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	return s.findOne(ctx, bson.M{"handle": handle})
}

func (s mongoProfiles) findOne(ctx context.Context, filter bson.M) (*models.Profile, error) {
	var profile models.Profile
	if err := s.m.findOne(ctx, s.m.profiles, filter, &profile); err != nil {
		return nil, classify("find profile", err)
	}
	profile.Normalize()
	return &profile, nil
}

func (s mongoProfiles) Insert(ctx context.Context, profile *models.Profile) error {
	if profile.Id.IsZero() {
		profile.Id = primitive.NewObjectID()
	}
	profile.Rev = 1
	profile.Normalize()
	err := s.m.insert(ctx, s.m.profiles, profile)
	if field, ok := duplicateKey(err); ok {
		return profileDuplicate(field)
	}
	return classify("insert profile", err)
}

func (s mongoProfiles) Save(ctx context.Context, profile *models.Profile) error {
	profile.Normalize()
	err := s.m.replace(ctx, s.m.profiles, profile.Id, &profile.Rev, profile)
	if field, ok := duplicateKey(err); ok {
		return profileDuplicate(field)
	}
	return classify("save profile", err)
}

func profileDuplicate(field string) error {
	if field == "handle" {
		return models.ErrDuplicateHandle
	}
	return models.ErrProfileExists
}

func (s mongoProfiles) DeleteByUser(ctx context.Context, user primitive.ObjectID) error {
	return classify("delete profile", s.m.deleteOne(ctx, s.m.profiles, bson.M{"user": user}))
}

type mongoUsers struct{ m *Mongo }

func (s mongoUsers) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.m.findOne(ctx, s.m.users, bson.M{"_id": id}, &user); err != nil {
		return nil, classify("find user", err)
	}
	return &user, nil
}

func (s mongoUsers) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}

	ctx, cancel := s.m.withTimeout(ctx)
	defer cancel()

	cursor, err := s.m.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, classify("list users", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &users); err != nil {
		return nil, classify("decode users", err)
	}
	return users, nil
}

func (s mongoUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.m.findOne(ctx, s.m.users, bson.M{"email": email}, &user); err != nil {
		return nil, classify("find user", err)
	}
	return &user, nil
}

func (s mongoUsers) Insert(ctx context.Context, user *models.User) error {
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	err := s.m.insert(ctx, s.m.users, user)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrEmailTaken
	}
	return classify("insert user", err)
}

func (s mongoUsers) Delete(ctx context.Context, id primitive.ObjectID) error {
	return classify("delete user", s.m.deleteOne(ctx, s.m.users, bson.M{"_id": id}))
}
