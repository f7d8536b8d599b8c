package store

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.etcd.io/bbolt"
	"librarian/internal/domain"
	"librarian/internal/port"
)

var (
	bucketMeta        = []byte("meta")
	bucketCollections = []byte("collections")
	bucketEntries     = []byte("entries")

	keySpace          = []byte("space")
	keyDimension      = []byte("dimension")
	keyEmbeddingModel = []byte("embedding_model")
	keyCreatedAt      = []byte("created_at")
)

// BoltStore is a persistent vector store: one bbolt file holding any number
// of named collections. It is opened per process and is not meant to be
// shared by concurrent writers.
type BoltStore struct {
	db     *bbolt.DB
	logger *slog.Logger
}

var _ port.VectorStore = (*BoltStore)(nil)

// Open opens or creates the store at path and brings its schema up to date.
func Open(path string) (*BoltStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, domain.InvalidArgument("index path must be a non-empty string")
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketMeta, bucketCollections} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltStore{
		db:     db,
		logger: slog.Default().With("component", "vector-store"),
	}

	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// EnsureCollection returns the named collection, creating it with space when
// it does not exist yet.
func (s *BoltStore) EnsureCollection(name, space string) (port.Collection, bool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, false, domain.InvalidArgument("collection name must be non-empty")
	}
	if _, err := DistanceFunc(space); err != nil {
		return nil, false, err
	}

	var (
		coll    *Collection
		created bool
	)
	err := s.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(bucketCollections)
		if b := root.Bucket([]byte(name)); b != nil {
			coll = &Collection{db: s.db, name: name, space: string(b.Get(keySpace))}
			return nil
		}

		b, err := root.CreateBucket([]byte(name))
		if err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
		if _, err := b.CreateBucket(bucketEntries); err != nil {
			return err
		}
		if err := b.Put(keySpace, []byte(space)); err != nil {
			return err
		}
		if err := b.Put(keyCreatedAt, []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
			return err
		}
		coll = &Collection{db: s.db, name: name, space: space}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("collection created", "name", name, "space", space)
	} else if coll.space != space {
		s.logger.Debug("reusing collection with its own space", "name", name, "space", coll.space, "requested", space)
	}
	return coll, created, nil
}

// OpenCollection returns an existing collection without creating it.
func (s *BoltStore) OpenCollection(name string) (*Collection, error) {
	var coll *Collection
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketCollections).Bucket([]byte(name))
		if b == nil {
			return fmt.Errorf("%w: collection %q", ErrCollectionNotFound, name)
		}
		coll = &Collection{db: s.db, name: name, space: string(b.Get(keySpace))}
		return nil
	})
	return coll, err
}

// DropCollection deletes a collection and every entry in it.
func (s *BoltStore) DropCollection(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(bucketCollections)
		if root.Bucket([]byte(name)) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(name))
	})
}

// CollectionNames lists collections in name order.
func (s *BoltStore) CollectionNames() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCollections).ForEach(func(k, v []byte) error {
			if v == nil {
				names = append(names, string(k))
			}
			return nil
		})
	})
	sort.Strings(names)
	return names, err
}
