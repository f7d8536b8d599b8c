package store

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"go.etcd.io/bbolt"
	"librarian/internal/domain"
	"librarian/internal/port"
)

// ErrCollectionNotFound is returned by OpenCollection for unknown names.
var ErrCollectionNotFound = errors.New("collection not found")

// Collection is a named set of index entries inside a BoltStore. Search is
// brute force over every stored vector, which is plenty for a book catalog.
type Collection struct {
	db    *bbolt.DB
	name  string
	space string
}

var _ port.Collection = (*Collection)(nil)

// CollectionInfo describes a collection for display.
type CollectionInfo struct {
	Name           string `json:"name"`
	Space          string `json:"space"`
	Dimension      int    `json:"dimension"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	Count          int    `json:"count"`
}

func (c *Collection) Name() string  { return c.name }
func (c *Collection) Space() string { return c.space }

func (c *Collection) bucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	b := tx.Bucket(bucketCollections).Bucket([]byte(c.name))
	if b == nil {
		return nil, fmt.Errorf("%w: collection %q", ErrCollectionNotFound, c.name)
	}
	return b, nil
}

// Upsert adds or overwrites entries by ID.
func (c *Collection) Upsert(entries []domain.IndexEntry) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b, err := c.bucket(tx)
		if err != nil {
			return err
		}
		return putEntries(b, entries)
	})
}

// Sync upserts entries and deletes every stored ID not among them in the
// same transaction, so the collection ends up holding exactly entries.
func (c *Collection) Sync(entries []domain.IndexEntry) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b, err := c.bucket(tx)
		if err != nil {
			return err
		}
		if err := putEntries(b, entries); err != nil {
			return err
		}

		keep := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			keep[e.ID] = struct{}{}
		}

		eb := b.Bucket(bucketEntries)
		var stale [][]byte
		err = eb.ForEach(func(k, _ []byte) error {
			if _, ok := keep[string(k)]; !ok {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := eb.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func putEntries(b *bbolt.Bucket, entries []domain.IndexEntry) error {
	dim := 0
	if raw := b.Get(keyDimension); raw != nil {
		dim, _ = strconv.Atoi(string(raw))
	}

	eb := b.Bucket(bucketEntries)
	for _, e := range entries {
		if e.ID == "" {
			return domain.InvalidArgument("entry id must be non-empty")
		}
		if len(e.Vector) == 0 {
			return domain.InvalidArgument("entry %s has no vector", e.ID)
		}
		if dim == 0 {
			dim = len(e.Vector)
			if err := b.Put(keyDimension, []byte(strconv.Itoa(dim))); err != nil {
				return err
			}
		}
		if len(e.Vector) != dim {
			return fmt.Errorf("vector dimension mismatch for entry %s: expected %d, got %d", e.ID, dim, len(e.Vector))
		}

		data, err := encodeEntry(e)
		if err != nil {
			return err
		}
		if err := eb.Put([]byte(e.ID), data); err != nil {
			return err
		}
	}
	return nil
}

// Query returns the k nearest entries to vector ordered by ascending
// distance. Ties keep catalog ordinal order.
func (c *Collection) Query(vector []float32, k int) ([]domain.Neighbor, error) {
	if k <= 0 {
		return nil, domain.InvalidArgument("k must be positive, got %d", k)
	}
	distance, err := DistanceFunc(c.space)
	if err != nil {
		return nil, err
	}

	var neighbors []domain.Neighbor
	err = c.db.View(func(tx *bbolt.Tx) error {
		b, err := c.bucket(tx)
		if err != nil {
			return err
		}
		if raw := b.Get(keyDimension); raw != nil {
			if dim, _ := strconv.Atoi(string(raw)); dim != len(vector) {
				return fmt.Errorf("query dimension mismatch: expected %d, got %d", dim, len(vector))
			}
		}

		return b.Bucket(bucketEntries).ForEach(func(k, v []byte) error {
			e, err := decodeEntry(string(k), v)
			if err != nil {
				return nil // Skip corrupted entries
			}
			neighbors = append(neighbors, domain.Neighbor{
				ID:       e.ID,
				Document: e.Document,
				Metadata: e.Metadata,
				Distance: distance(vector, e.Vector),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return RankNeighbors(neighbors, k), nil
}

// RankNeighbors orders neighbors by ascending distance and keeps the first k.
// Ties keep catalog ordinal order.
func RankNeighbors(neighbors []domain.Neighbor, k int) []domain.Neighbor {
	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Distance != neighbors[j].Distance {
			return neighbors[i].Distance < neighbors[j].Distance
		}
		return idLess(neighbors[i].ID, neighbors[j].ID)
	})

	if k > len(neighbors) {
		k = len(neighbors)
	}
	return neighbors[:k]
}

// idLess orders decimal ordinals numerically and anything else lexically.
func idLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// Count returns the number of entries in the collection.
func (c *Collection) Count() (int, error) {
	n := 0
	err := c.db.View(func(tx *bbolt.Tx) error {
		b, err := c.bucket(tx)
		if err != nil {
			return err
		}
		n = b.Bucket(bucketEntries).Stats().KeyN
		return nil
	})
	return n, err
}

// SetEmbeddingModel records which model produced the stored vectors.
func (c *Collection) SetEmbeddingModel(model string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b, err := c.bucket(tx)
		if err != nil {
			return err
		}
		return b.Put(keyEmbeddingModel, []byte(model))
	})
}

// Info returns the collection's stored attributes and entry count.
func (c *Collection) Info() (CollectionInfo, error) {
	info := CollectionInfo{Name: c.name, Space: c.space}
	err := c.db.View(func(tx *bbolt.Tx) error {
		b, err := c.bucket(tx)
		if err != nil {
			return err
		}
		if raw := b.Get(keyDimension); raw != nil {
			info.Dimension, _ = strconv.Atoi(string(raw))
		}
		info.EmbeddingModel = string(b.Get(keyEmbeddingModel))
		info.CreatedAt = string(b.Get(keyCreatedAt))
		info.Count = b.Bucket(bucketEntries).Stats().KeyN
		return nil
	})
	return info, err
}

// DistanceFn measures how far apart two vectors are; smaller is closer.
type DistanceFn func(a, b []float32) float64

// DistanceFunc returns the distance for a collection space.
func DistanceFunc(space string) (DistanceFn, error) {
	switch space {
	case port.SpaceCosine:
		return cosineDistance, nil
	case port.SpaceL2:
		return squaredL2, nil
	case port.SpaceIP:
		return innerProductDistance, nil
	default:
		return nil, domain.InvalidArgument("unsupported distance space %q", space)
	}
}

// cosineDistance is 1 - cosine similarity, in [0, 2].
func cosineDistance(a, b []float32) float64 {
	return 1 - cosineSimilarity(a, b)
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim))
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func innerProductDistance(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return 1 - dot
}
