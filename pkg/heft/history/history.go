// Package history keeps an audit log of files heft moved to the trash,
// stored in a Badger database under the user's data directory.
package history

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/jamesainslie/heft/pkg/heft/logging"
)

var logger = logging.Get("history")

// Key layout:
//
//	r:<unix-nanos big endian><id> -> JSON Record
//	i:<id>                         -> r: key
const (
	prefixRecord = "r:"
	prefixID     = "i:"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("history record not found")

// Record is one trash operation.
type Record struct {
	ID     string    `json:"id" yaml:"id"`
	Time   time.Time `json:"time" yaml:"time"`
	Path   string    `json:"path" yaml:"path"`
	Size   int64     `json:"size" yaml:"size"`
	Method string    `json:"method" yaml:"method"`
}

// Store is the history database. It is safe for concurrent use.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens or creates the store in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	return open(opts)
}

// OpenInMemory returns a store that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a new entry for a trashed file and returns it.
func (s *Store) Record(path string, size int64, method string) (Record, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Record{}, fmt.Errorf("generating id: %w", err)
	}
	rec := Record{
		ID:     id.String(),
		Time:   s.now().UTC(),
		Path:   path,
		Size:   size,
		Method: method,
	}
	if err := s.Add(rec); err != nil {
		return Record{}, err
	}
	logger.Debug("recorded", "id", rec.ID, "path", path)
	return rec, nil
}

// Add stores rec as is.
func (s *Store) Add(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	key := recordKey(rec.Time, rec.ID)

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte(prefixID+rec.ID), key)
	})
	if err != nil {
		return fmt.Errorf("storing record: %w", err)
	}
	return nil
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		idx, err := txn.Get([]byte(prefixID + id))
		if err != nil {
			return err
		}
		key, err := idx.ValueCopy(nil)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("reading record: %w", err)
	}
	return rec, nil
}

// List returns up to limit records, newest first. A limit of zero or less
// returns everything.
func (s *Store) List(limit int) ([]Record, error) {
	records := []Record{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(prefixRecord)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(append([]byte(prefixRecord), 0xff)); it.Valid(); it.Next() {
			if limit > 0 && len(records) >= limit {
				break
			}
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// Totals returns the number of records and the bytes they account for.
func (s *Store) Totals() (int, int64, error) {
	records, err := s.List(0)
	if err != nil {
		return 0, 0, err
	}
	var bytes int64
	for _, r := range records {
		bytes += r.Size
	}
	return len(records), bytes, nil
}

// Prune deletes records older than the cutoff and returns how many went.
func (s *Store) Prune(cutoff time.Time) (int, error) {
	var doomed []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixRecord)
		it := txn.NewIterator(opts)
		defer it.Close()

		end := recordKey(cutoff, "")
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if string(item.Key()) >= string(end) {
				break
			}
			var rec Record
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			doomed = append(doomed, rec)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scanning records: %w", err)
	}
	if len(doomed) == 0 {
		return 0, nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, rec := range doomed {
		if err := wb.Delete(recordKey(rec.Time, rec.ID)); err != nil {
			return 0, fmt.Errorf("deleting record: %w", err)
		}
		if err := wb.Delete([]byte(prefixID + rec.ID)); err != nil {
			return 0, fmt.Errorf("deleting record: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("deleting records: %w", err)
	}

	logger.Info("pruned history", "records", len(doomed), "cutoff", cutoff)
	return len(doomed), nil
}

// PruneDays deletes records older than days days. Zero or less keeps all.
func (s *Store) PruneDays(days int) (int, error) {
	if days <= 0 {
		return 0, nil
	}
	return s.Prune(s.now().Add(-time.Duration(days) * 24 * time.Hour))
}

func recordKey(t time.Time, id string) []byte {
	key := make([]byte, 0, len(prefixRecord)+8+len(id))
	key = append(key, prefixRecord...)
	key = binary.BigEndian.AppendUint64(key, uint64(t.UnixNano()))
	return append(key, id...)
}
