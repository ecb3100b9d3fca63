package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/theleywin/Backend-Dissuade/src/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process store with the same uniqueness and revision rules
// as Mongo. Aggregates are copied on the way in and out, so callers never
// share slices with the stored state.
type Memory struct {
	mu       sync.RWMutex
	posts    map[primitive.ObjectID]models.Post
	profiles map[primitive.ObjectID]models.Profile
	users    map[primitive.ObjectID]models.User
}

func NewMemory() *Memory {
	return &Memory{
		posts:    map[primitive.ObjectID]models.Post{},
		profiles: map[primitive.ObjectID]models.Profile{},
		users:    map[primitive.ObjectID]models.User{},
	}
}

func (m *Memory) Stores() Stores {
	return Stores{
		Posts:    memoryPosts{m},
		Profiles: memoryProfiles{m},
		Users:    memoryUsers{m},
	}
}

func copyPost(p models.Post) models.Post {
	p.Likes = slices.Clone(p.Likes)
	p.Comments = slices.Clone(p.Comments)
	p.Normalize()
	return p
}

func copyProfile(p models.Profile) models.Profile {
	p.Skills = slices.Clone(p.Skills)
	p.Experience = slices.Clone(p.Experience)
	p.Education = slices.Clone(p.Education)
	p.Normalize()
	return p
}

type memoryPosts struct{ m *Memory }

func (s memoryPosts) List(ctx context.Context) ([]models.Post, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.m.posts))
	for _, p := range s.m.posts {
		posts = append(posts, copyPost(p))
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Date.After(posts[j].Date) })
	return posts, nil
}

func (s memoryPosts) ByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	p, ok := s.m.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := copyPost(p)
	return &out, nil
}

func (s memoryPosts) Insert(ctx context.Context, post *models.Post) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if post.Id.IsZero() {
		post.Id = primitive.NewObjectID()
	}
	post.Rev = 1
	s.m.posts[post.Id] = copyPost(*post)
	return nil
}

func (s memoryPosts) Save(ctx context.Context, post *models.Post) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	stored, ok := s.m.posts[post.Id]
	if !ok || stored.Rev != post.Rev {
		return models.ErrConflict
	}
	post.Rev++
	s.m.posts[post.Id] = copyPost(*post)
	return nil
}

func (s memoryPosts) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.posts[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.m.posts, id)
	return nil
}

type memoryProfiles struct{ m *Memory }

func (s memoryProfiles) List(ctx context.Context) ([]models.Profile, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	profiles := make([]models.Profile, 0, len(s.m.profiles))
	for _, p := range s.m.profiles {
		profiles = append(profiles, copyProfile(p))
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Date.Before(profiles[j].Date) })
	return profiles, nil
}

func (s memoryProfiles) find(match func(models.Profile) bool) (*models.Profile, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, p := range s.m.profiles {
		if match(p) {
			out := copyProfile(p)
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s memoryProfiles) ByUser(ctx context.Context, user primitive.ObjectID) (*models.Profile, error) {
	return s.find(func(p models.Profile) bool { return p.User == user })
}

func (s memoryProfiles) ByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	return s.find(func(p models.Profile) bool { return p.Handle == handle })
}

// conflicts reports which unique key of profile is already held by a
// different stored profile.
func (s memoryProfiles) conflicts(profile *models.Profile) error {
	for id, p := range s.m.profiles {
		if id == profile.Id {
			continue
		}
		if p.Handle == profile.Handle {
			return models.ErrDuplicateHandle
		}
		if p.User == profile.User {
			return models.ErrProfileExists
		}
	}
	return nil
}

func (s memoryProfiles) Insert(ctx context.Context, profile *models.Profile) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if profile.Id.IsZero() {
		profile.Id = primitive.NewObjectID()
	}
	if err := s.conflicts(profile); err != nil {
		return err
	}
	profile.Rev = 1
	s.m.profiles[profile.Id] = copyProfile(*profile)
	return nil
}

func (s memoryProfiles) Save(ctx context.Context, profile *models.Profile) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	stored, ok := s.m.profiles[profile.Id]
	if !ok || stored.Rev != profile.Rev {
		return models.ErrConflict
	}
	if err := s.conflicts(profile); err != nil {
		return err
	}
	profile.Rev++
	s.m.profiles[profile.Id] = copyProfile(*profile)
	return nil
}

func (s memoryProfiles) DeleteByUser(ctx context.Context, user primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for id, p := range s.m.profiles {
		if p.User == user {
			delete(s.m.profiles, id)
			return nil
		}
	}
	return models.ErrNotFound
}

type memoryUsers struct{ m *Memory }

func (s memoryUsers) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	u, ok := s.m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s memoryUsers) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	users := []models.User{}
	for _, id := range ids {
		if u, ok := s.m.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s memoryUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, u := range s.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s memoryUsers) Insert(ctx context.Context, user *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, u := range s.m.users {
		if u.Email == user.Email {
			return models.ErrEmailTaken
		}
	}
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	s.m.users[user.Id] = *user
	return nil
}

func (s memoryUsers) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.m.users, id)
	return nil
}
