// Package collection implements append, lookup and removal over the ordered
// sub-document slices embedded in posts and profiles.
//
// Every function returns a new slice and leaves its input untouched, so a failed
// mutation never leaves a half-modified aggregate behind.
package collection

import (
	"errors"
	"slices"
)

// NotFound is the index reported when no entry matches.
const NotFound = -1

// ErrNotFound is returned by RemoveAt for the NotFound index and by a Policy
// without its own Missing error.
var ErrNotFound = errors.New("collection: entry not found")

// FindIndex returns the position of the first entry satisfying match, or NotFound.
func FindIndex[T any](items []T, match func(T) bool) int {
	for i, item := range items {
		if match(item) {
			return i
		}
	}
	return NotFound
}

// RemoveAt deletes the entry at i, shifting the following entries left.
func RemoveAt[T any](items []T, i int) ([]T, error) {
	if i == NotFound || i < 0 || i >= len(items) {
		return items, ErrNotFound
	}
	return slices.Delete(slices.Clone(items), i, i+1), nil
}

// Policy describes one kind of embedded collection: how entries are identified,
// whether identities must be unique, and whether new entries get a fresh id.
type Policy[T any, K comparable] struct {
	// Key returns the identity an entry is matched by.
	Key func(T) K

	// Unique rejects an Append whose key is already present with Duplicate.
	Unique    bool
	Duplicate error

	// NewKey and SetKey assign a server-side id on Append. Leave both nil when
	// the caller supplies the identity (likes are keyed by the user).
	NewKey func() K
	SetKey func(*T, K)

	// Missing is returned by Remove when no entry has the key.
	Missing error
}

// FindIndex returns the position of the entry with key, or NotFound.
func (p Policy[T, K]) FindIndex(items []T, key K) int {
	return FindIndex(items, func(item T) bool { return p.Key(item) == key })
}

// Append adds entry at the end of items and returns the stored entry, which
// carries the assigned id when the policy assigns one.
func (p Policy[T, K]) Append(items []T, entry T) ([]T, T, error) {
	if p.NewKey != nil && p.SetKey != nil {
		key := p.NewKey()
		for p.FindIndex(items, key) != NotFound {
			key = p.NewKey()
		}
		p.SetKey(&entry, key)
	}

	if p.Unique && p.FindIndex(items, p.Key(entry)) != NotFound {
		var zero T
		return items, zero, p.duplicate()
	}

	return append(slices.Clip(items), entry), entry, nil
}

// Remove deletes the entry with key and returns it.
func (p Policy[T, K]) Remove(items []T, key K) ([]T, T, error) {
	i := p.FindIndex(items, key)
	if i == NotFound {
		var zero T
		return items, zero, p.missing()
	}
	removed := items[i]
	out, err := RemoveAt(items, i)
	if err != nil {
		var zero T
		return items, zero, err
	}
	return out, removed, nil
}

func (p Policy[T, K]) missing() error {
	if p.Missing != nil {
		return p.Missing
	}
	return ErrNotFound
}

func (p Policy[T, K]) duplicate() error {
	if p.Duplicate != nil {
		return p.Duplicate
	}
	return errors.New("collection: duplicate entry")
}
