package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/dshills/keybind/internal/input/keymap"
)

var bucketOverrides = []byte("overrides")

// BoltStore keeps overrides in a bbolt database, one key per command.
type BoltStore struct {
	db     *bolt.DB
	path   string
	logger logrus.FieldLogger
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string, opts ...Option) (*BoltStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("overrides db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrapf(err, "creating %s", filepath.Dir(path))
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening overrides db %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketOverrides)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "initializing overrides db")
	}

	o := buildOptions(opts)
	return &BoltStore{
		db:     db,
		path:   path,
		logger: o.logger.WithField("overrides", path),
	}, nil
}

// Path returns the database path.
func (s *BoltStore) Path() string {
	return s.path
}

// Load reads every stored override. Undecodable values are skipped and
// logged.
func (s *BoltStore) Load() (map[string]keymap.Override, error) {
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOverrides)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				s.logger.WithError(err).WithField("command", string(k)).Warn("skipping corrupt override")
				return nil
			}
			r.Command = string(k)
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading overrides db")
	}

	overrides, errs := Overrides(records)
	warnRecords(s.logger, s.path, errs)
	return overrides, nil
}

// Save replaces every stored override in one transaction.
func (s *BoltStore) Save(overrides map[string]keymap.Override) error {
	records := Records(overrides)
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketOverrides); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket(bucketOverrides)
		if err != nil {
			return err
		}
		for _, r := range records {
			if err := putRecord(b, r); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "writing overrides db")
}

// SaveOne stores or deletes the override for one command.
func (s *BoltStore) SaveOne(commandID string, o keymap.Override) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketOverrides)
		if err != nil {
			return err
		}
		if o.IsEmpty() {
			return b.Delete([]byte(commandID))
		}
		return putRecord(b, NewRecord(commandID, o))
	})
	return errors.Wrapf(err, "writing override %s", commandID)
}

func putRecord(b *bolt.Bucket, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return b.Put([]byte(r.Command), data)
}

// Close closes the database.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
