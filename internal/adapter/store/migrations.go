package store

import (
	"fmt"
	"strconv"

	"go.etcd.io/bbolt"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var keySchemaVersion = []byte("schema_version")

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// SchemaVersion returns the stored schema version, 0 for a fresh file.
func (s *BoltStore) SchemaVersion() (int, error) {
	version := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketMeta).Get(keySchemaVersion)
		if raw == nil {
			return nil
		}
		v, err := strconv.Atoi(string(raw))
		if err != nil {
			return fmt.Errorf("corrupt schema version %q: %w", raw, err)
		}
		version = v
		return nil
	})
	return version, err
}

// CheckMigration reports whether the file needs upgrading. A file written by
// a newer schema is an error.
func (s *BoltStore) CheckMigration() (*MigrationResult, error) {
	version, err := s.SchemaVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &MigrationResult{
		OldVersion: version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case version == 0:
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	case version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", version, CurrentSchemaVersion)
	case version > CurrentSchemaVersion:
		return nil, fmt.Errorf("index created by newer version (v%d > v%d)", version, CurrentSchemaVersion)
	}

	return result, nil
}

// Migrate performs any necessary schema migrations.
func (s *BoltStore) Migrate() error {
	result, err := s.CheckMigration()
	if err != nil {
		return err
	}
	if !result.NeedsMigration {
		return nil
	}

	s.logger.Debug("migrating index", "reason", result.Reason)
	for v := result.OldVersion; v < CurrentSchemaVersion; v++ {
		if err := s.runMigration(v, v+1); err != nil {
			return fmt.Errorf("migration from v%d to v%d failed: %w", v, v+1, err)
		}
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keySchemaVersion, []byte(strconv.Itoa(CurrentSchemaVersion)))
	})
}

// runMigration runs a specific version migration.
func (s *BoltStore) runMigration(from, to int) error {
	switch {
	case from == 0 && to == 1:
		return s.db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucketCollections)
			return err
		})
	default:
		return nil
	}
}
