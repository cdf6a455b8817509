package unitstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// IndexFile is the name of the index database inside the work directory.
	IndexFile = "units.db"
	// DefaultTimeout bounds how long Open waits for the index file lock.
	DefaultTimeout = time.Second
)

var unitsBucket = []byte("units")

// ErrNotFound is returned when updating a unit that was never reserved.
var ErrNotFound = errors.New("unitstore: unit not found")

// Store is the on-disk unit store.
type Store struct {
	dir string
	db  *bolt.DB
	now func() time.Time
	pid int
}

// Option configures a Store.
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithTimeout sets how long Open waits for another process to release the
// index.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// Open opens the store in dir, creating the directory and the index if
// needed.
func Open(dir string, opts ...Option) (*Store, error) {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work directory %s: %w", dir, err)
	}
	db, err := bolt.Open(filepath.Join(dir, IndexFile), 0o600, &bolt.Options{Timeout: o.timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open unit index in %s: %w", dir, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(unitsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize unit index: %w", err)
	}
	return &Store{dir: dir, db: db, now: time.Now, pid: os.Getpid()}, nil
}

// Dir returns the work directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the location of the unit file called name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Reserve claims name for generation. It returns true if the caller must
// write and compile the unit: the name is unknown, its previous compile
// failed, or its file has disappeared. Otherwise the unit is a cache hit and
// Reserve returns false.
func (s *Store) Reserve(name, hash string) (bool, error) {
	reserved := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(unitsBucket)
		now := s.now()

		if raw := b.Get([]byte(name)); raw != nil {
			var rec Record
			if err := json.Unmarshal(raw, &rec); err != nil {
				return fmt.Errorf("corrupt record for %s: %w", name, err)
			}
			if rec.Status != StatusFailed && s.fileExists(name) {
				return nil
			}
		}

		reserved = true
		return put(b, Record{
			Name:      name,
			Hash:      hash,
			PID:       s.pid,
			Status:    StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return false, fmt.Errorf("failed to reserve unit %s: %w", name, err)
	}
	return reserved, nil
}

// Write stores source under name. The file is replaced atomically.
func (s *Store) Write(name, source string) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create unit file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(source); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write unit %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write unit %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		return fmt.Errorf("failed to move unit %s into place: %w", name, err)
	}
	return nil
}

// MarkCompiled records that the toolchain accepted the unit.
func (s *Store) MarkCompiled(name string) error {
	return s.update(name, func(rec *Record) {
		rec.Status = StatusCompiled
		rec.Error = ""
		rec.Compilations++
	})
}

// MarkFailed records that the toolchain rejected the unit.
func (s *Store) MarkFailed(name string, cause error) error {
	return s.update(name, func(rec *Record) {
		rec.Status = StatusFailed
		if cause != nil {
			rec.Error = cause.Error()
		}
	})
}

// Lookup returns the record of name.
func (s *Store) Lookup(name string) (Record, bool, error) {
	var rec Record
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(unitsBucket).Get([]byte(name))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &rec)
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to look up unit %s: %w", name, err)
	}
	return rec, found, nil
}

// List returns all records ordered by name.
func (s *Store) List() ([]Record, error) {
	var recs []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(unitsBucket).ForEach(func(_, raw []byte) error {
			var rec Record
			if err := json.Unmarshal(raw, &rec); err != nil {
				return err
			}
			recs = append(recs, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return recs, nil
}

// Close releases the index.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) update(name string, fn func(*Record)) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(unitsBucket)
		raw := b.Get([]byte(name))
		if raw == nil {
			return ErrNotFound
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		fn(&rec)
		rec.UpdatedAt = s.now()
		return put(b, rec)
	})
	if err != nil {
		return fmt.Errorf("failed to update unit %s: %w", name, err)
	}
	return nil
}

func (s *Store) fileExists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

func put(b *bolt.Bucket, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return b.Put([]byte(rec.Name), raw)
}
