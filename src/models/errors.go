package models

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateHandle    = errors.New("That handle already exists")
	ErrProfileExists      = errors.New("User already has a profile")
	ErrEmailTaken         = errors.New("Email already exists")
	ErrInvalidCredentials = errors.New("Password incorrect")
	ErrAlreadyLiked       = errors.New("User already liked this post")
	ErrNotLiked           = errors.New("You have not yet liked this post")
	ErrCommentNotFound    = errors.New("No such comment exists")
	ErrEntryNotFound      = errors.New("No such entry found at that ID")
	ErrNotAuthorized      = errors.New("User is not authorized to do that")
	ErrConflict           = errors.New("The record was changed by another request, reload and retry")
	ErrStoreUnavailable   = errors.New("The database is unavailable, try again later")
)
