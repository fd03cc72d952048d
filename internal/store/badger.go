// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/feedrank/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	postKeyPrefix     = "post:"
	userPostKeyPrefix = "user_posts:"
)

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM; nothing survives Close.
	InMemory bool
}

// OpenBadger opens a BadgerDB with logging suppressed.
func OpenBadger(o BadgerOptions) (*badger.DB, error) {
	var opts badger.Options
	if o.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if o.Path == "" {
			return nil, errors.New("open badger db: path is required")
		}
		opts = badger.DefaultOptions(o.Path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return db, nil
}

// BadgerPostStore implements PostStore using BadgerDB for durable storage.
type BadgerPostStore struct {
	db *badger.DB
}

// NewBadgerPostStore creates a store over an open database. The caller
// owns db and closes it.
func NewBadgerPostStore(db *badger.DB) *BadgerPostStore {
	return &BadgerPostStore{db: db}
}

func postKey(id string) []byte {
	return []byte(postKeyPrefix + id)
}

// userPostPrefix length-prefixes userID so that one user's range never
// contains another's, even when ids contain ':'.
func userPostPrefix(userID string) string {
	return userPostKeyPrefix + strconv.Itoa(len(userID)) + ":" + userID + ":"
}

func userPostKey(userID, postID string) []byte {
	return []byte(userPostPrefix(userID) + postID)
}

// ListAll returns every post, ordered by key.
func (s *BadgerPostStore) ListAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(postKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var p models.Post
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			posts = append(posts, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

// ListByUser returns the posts authored by userID via the user index.
func (s *BadgerPostStore) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	var posts []models.Post

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(userPostPrefix(userID))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var postID string
			if err := it.Item().Value(func(val []byte) error {
				postID = string(val)
				return nil
			}); err != nil {
				return err
			}

			p, err := getPost(txn, postID)
			if errors.Is(err, ErrNotFound) {
				continue // dangling index entry
			}
			if err != nil {
				return err
			}
			posts = append(posts, *p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}

	return posts, nil
}

// Append stores a new post and its user index entry in one transaction.
func (s *BadgerPostStore) Append(ctx context.Context, post models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if post.ID == "" {
		return errors.New("append post: empty id")
	}

	p := post.Canonical()
	data, err := json.Marshal(&p)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(postKey(p.ID))
		if err == nil {
			return fmt.Errorf("append post %s: %w", p.ID, ErrAlreadyExists)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get post: %w", err)
		}

		if err := txn.Set(postKey(p.ID), data); err != nil {
			return fmt.Errorf("set post: %w", err)
		}
		if err := txn.Set(userPostKey(p.AuthorID, p.ID), []byte(p.ID)); err != nil {
			return fmt.Errorf("set user mapping: %w", err)
		}
		return nil
	})
}

// Update applies update inside a single read-write transaction.
func (s *BadgerPostStore) Update(ctx context.Context, postID string, update models.PostUpdate) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var updated *models.Post
	err := s.db.Update(func(txn *badger.Txn) error {
		p, err := getPost(txn, postID)
		if err != nil {
			return err
		}

		update.Apply(p)
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal post: %w", err)
		}
		if err := txn.Set(postKey(postID), data); err != nil {
			return fmt.Errorf("set post: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update post %s: %w", postID, err)
	}

	return updated, nil
}

// Count returns the number of stored posts.
func (s *BadgerPostStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(postKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return ctx.Err()
	})
	return count, err
}

func getPost(txn *badger.Txn, id string) (*models.Post, error) {
	item, err := txn.Get(postKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	var p models.Post
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &p)
	}); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	return &p, nil
}

var _ PostStore = (*BadgerPostStore)(nil)

// CollectGarbage rewrites value log files until badger reports nothing left
// to reclaim and returns the number of rewrites. In-memory databases and
// concurrent GC runs are not errors.
func CollectGarbage(db *badger.DB, discardRatio float64) (int, error) {
	rewrites := 0
	for {
		err := db.RunValueLogGC(discardRatio)
		switch {
		case err == nil:
			rewrites++
		case errors.Is(err, badger.ErrNoRewrite),
			errors.Is(err, badger.ErrGCInMemoryMode),
			errors.Is(err, badger.ErrRejected):
			return rewrites, nil
		default:
			return rewrites, fmt.Errorf("run value log gc: %w", err)
		}
	}
}
