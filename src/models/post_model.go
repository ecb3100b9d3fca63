package models

import (
	"time"

	"github.com/theleywin/Backend-Dissuade/src/collection"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	Id       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User     primitive.ObjectID `json:"user" bson:"user"`
	Text     string             `json:"text" bson:"text"`
	Name     string             `json:"name" bson:"name"`
	Avatar   string             `json:"avatar" bson:"avatar"`
	Likes    []Like             `json:"likes" bson:"likes"`
	Comments []Comment          `json:"comments" bson:"comments"`
	Date     time.Time          `json:"date" bson:"date"`
	Rev      int64              `json:"rev" bson:"rev"`
}

// Like marks a user's membership in a post's likes; it has no id of its own.
type Like struct {
	User primitive.ObjectID `json:"user" bson:"user"`
}

type Comment struct {
	Id     primitive.ObjectID `json:"_id" bson:"_id"`
	User   primitive.ObjectID `json:"user" bson:"user"`
	Text   string             `json:"text" bson:"text"`
	Name   string             `json:"name" bson:"name"`
	Avatar string             `json:"avatar" bson:"avatar"`
	Date   time.Time          `json:"date" bson:"date"`
}

var likes = collection.Policy[Like, primitive.ObjectID]{
	Key:       func(l Like) primitive.ObjectID { return l.User },
	Unique:    true,
	Duplicate: ErrAlreadyLiked,
	Missing:   ErrNotLiked,
}

var comments = collection.Policy[Comment, primitive.ObjectID]{
	Key:     func(c Comment) primitive.ObjectID { return c.Id },
	NewKey:  primitive.NewObjectID,
	SetKey:  func(c *Comment, id primitive.ObjectID) { c.Id = id },
	Missing: ErrCommentNotFound,
}

func NewPost(author primitive.ObjectID, text, name, avatar string) Post {
	return Post{
		User:     author,
		Text:     text,
		Name:     name,
		Avatar:   avatar,
		Likes:    []Like{},
		Comments: []Comment{},
		Date:     time.Now().UTC(),
	}
}

// Normalize replaces nil collections with empty ones so they encode as [].
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// CanDelete reports ErrNotAuthorized unless caller wrote the post.
func (p *Post) CanDelete(caller primitive.ObjectID) error {
	if p.User != caller {
		return ErrNotAuthorized
	}
	return nil
}

func (p *Post) Like(user primitive.ObjectID) error {
	out, _, err := likes.Append(p.Likes, Like{User: user})
	if err != nil {
		return err
	}
	p.Likes = out
	return nil
}

func (p *Post) Unlike(user primitive.ObjectID) error {
	out, _, err := likes.Remove(p.Likes, user)
	if err != nil {
		return err
	}
	p.Likes = out
	return nil
}

// AddComment appends c with a fresh id and returns the stored comment.
func (p *Post) AddComment(c Comment) (Comment, error) {
	if c.Date.IsZero() {
		c.Date = time.Now().UTC()
	}
	out, stored, err := comments.Append(p.Comments, c)
	if err != nil {
		return Comment{}, err
	}
	p.Comments = out
	return stored, nil
}

// RemoveComment deletes a comment written by caller. A comment written by
// someone else is reported as ErrNotAuthorized and left in place.
func (p *Post) RemoveComment(id, caller primitive.ObjectID) error {
	i := comments.FindIndex(p.Comments, id)
	if i == collection.NotFound {
		return ErrCommentNotFound
	}
	if p.Comments[i].User != caller {
		return ErrNotAuthorized
	}
	out, err := collection.RemoveAt(p.Comments, i)
	if err != nil {
		return ErrCommentNotFound
	}
	p.Comments = out
	return nil
}
