package journal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creativeprojects/imapstatus/lib"
	bolt "go.etcd.io/bbolt"
)

const (
	metadataBucket     = "metadata"
	accountsBucket     = "accounts"
	versionKey         = "version"
	boltFileVersion    = 1
	DefaultMaxEntries  = 1000
	defaultOpenTimeout = 10 * time.Second
)

var ErrEmptyAccount = errors.New("journal entry has no account name")

// BoltJournal keeps the failure history of each account in a bbolt database
type BoltJournal struct {
	dbFile     string
	db         *bolt.DB
	log        lib.Logger
	maxEntries int
}

func Open(filename string) (*BoltJournal, error) {
	return OpenWithLogger(filename, nil)
}

func OpenWithLogger(filename string, logger lib.Logger) (*BoltJournal, error) {
	options := *bolt.DefaultOptions
	options.Timeout = defaultOpenTimeout

	err := os.MkdirAll(filepath.Dir(filename), 0700)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", filename, err)
	}

	db, err := bolt.Open(filename, 0600, &options)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", filename, err)
	}

	journal := &BoltJournal{
		dbFile:     filename,
		db:         db,
		log:        lib.OrNoLog(logger),
		maxEntries: DefaultMaxEntries,
	}
	err = journal.init()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return journal, nil
}

// SetMaxEntries sets the number of entries kept per account. The oldest are deleted first.
func (j *BoltJournal) SetMaxEntries(maxEntries int) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	j.maxEntries = maxEntries
}

func (j *BoltJournal) init() error {
	return j.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(metadataBucket))
		if err != nil {
			return err
		}
		version, err := serializeObject(&struct{ Version int }{boltFileVersion})
		if err != nil {
			return err
		}
		err = bucket.Put([]byte(versionKey), version)
		if err != nil {
			return err
		}
		_, err = tx.CreateBucketIfNotExists([]byte(accountsBucket))
		return err
	})
}

func (j *BoltJournal) Close() error {
	return j.db.Close()
}

func (j *BoltJournal) Record(entry Entry) error {
	if entry.Account == "" {
		return ErrEmptyAccount
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	data, err := serializeObject(&entry)
	if err != nil {
		return err
	}

	return j.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(accountsBucket))
		if root == nil {
			return errors.New("journal not initialized")
		}
		bucket, err := root.CreateBucketIfNotExists([]byte(entry.Account))
		if err != nil {
			return err
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		err = bucket.Put(sequenceKey(seq), data)
		if err != nil {
			return err
		}
		return j.prune(bucket)
	})
}

// prune deletes the oldest entries over the limit
func (j *BoltJournal) prune(bucket *bolt.Bucket) error {
	cursor := bucket.Cursor()
	count := 0
	for key, _ := cursor.First(); key != nil; key, _ = cursor.Next() {
		count++
	}
	over := count - j.maxEntries
	if over <= 0 {
		return nil
	}
	keys := make([][]byte, 0, over)
	for key, _ := cursor.First(); key != nil && len(keys) < over; key, _ = cursor.Next() {
		keys = append(keys, append([]byte{}, key...))
	}
	for _, key := range keys {
		err := bucket.Delete(key)
		if err != nil {
			return err
		}
	}
	j.log.Printf("journal pruned to %d entries", j.maxEntries)
	return nil
}

// List returns the latest entries of an account, oldest first. A limit of zero or less returns all entries.
func (j *BoltJournal) List(account string, limit int) ([]Entry, error) {
	entries := make([]Entry, 0)
	err := j.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(accountsBucket))
		if root == nil {
			return nil
		}
		bucket := root.Bucket([]byte(account))
		if bucket == nil {
			return nil
		}
		cursor := bucket.Cursor()
		for key, value := cursor.Last(); key != nil; key, value = cursor.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			entry, err := deserializeObject[Entry](value)
			if err != nil {
				return fmt.Errorf("cannot decode journal entry: %w", err)
			}
			entries = append(entries, *entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// reverse to oldest first
	for i, k := 0, len(entries)-1; i < k; i, k = i+1, k-1 {
		entries[i], entries[k] = entries[k], entries[i]
	}
	return entries, nil
}

// Accounts returns the name of all the accounts with entries in the journal
func (j *BoltJournal) Accounts() ([]string, error) {
	accounts := make([]string, 0)
	err := j.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(accountsBucket))
		if root == nil {
			return nil
		}
		return root.ForEach(func(k, v []byte) error {
			// if there's a value it's not a bucket
			if v != nil {
				return nil
			}
			accounts = append(accounts, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}
