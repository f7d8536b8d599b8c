package store

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"librarian/internal/domain"
)

type storedEntry struct {
	Document string            `msgpack:"d"`
	Metadata map[string]string `msgpack:"m,omitempty"`
	Vector   []float32         `msgpack:"v"`
}

func encodeEntry(e domain.IndexEntry) ([]byte, error) {
	data, err := msgpack.Marshal(storedEntry{
		Document: e.Document,
		Metadata: e.Metadata,
		Vector:   e.Vector,
	})
	if err != nil {
		return nil, fmt.Errorf("encode entry %s: %w", e.ID, err)
	}
	return data, nil
}

func decodeEntry(id string, data []byte) (domain.IndexEntry, error) {
	var stored storedEntry
	if err := msgpack.Unmarshal(data, &stored); err != nil {
		return domain.IndexEntry{}, fmt.Errorf("decode entry %s: %w", id, err)
	}
	return domain.IndexEntry{
		ID:       id,
		Document: stored.Document,
		Metadata: stored.Metadata,
		Vector:   stored.Vector,
	}, nil
}
