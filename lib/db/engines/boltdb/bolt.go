package boltdb

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ValentinKolb/kvapp/lib/db"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var log = logger.GetLogger("engine")

const (
	// FileName is the name of the bolt file inside the store directory
	FileName = "kvapp.bolt"
)

var bucketName = []byte("kv")

// DBOptions configures the bolt engine during initialization
type DBOptions struct {
	// Timeout is how long to wait for the file lock of another process (0 = wait forever)
	Timeout time.Duration
	// NoSync skips fsync after each commit. Only useful for tests and benchmarks.
	NoSync bool
}

// DefaultOptions returns the default bolt engine options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		Timeout: time.Second,
	}
}

type boltImpl struct {
	path string

	// mu guards db against concurrent Close
	mu sync.RWMutex
	db *bolt.DB
}

// NewBoltDB opens (or creates) a bolt database inside the directory path.
func NewBoltDB(path string, opts *DBOptions) (db.KVDB, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errors.Wrapf(err, "bolt: create directory %s", path)
	}

	bdb, err := bolt.Open(filepath.Join(path, FileName), 0o600, &bolt.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, errors.Wrapf(err, "bolt: open %s", path)
	}
	bdb.NoSync = opts.NoSync

	err = bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = bdb.Close()
		return nil, errors.Wrap(err, "bolt: create bucket")
	}

	log.Infof("opened bolt database at %s", path)
	return &boltImpl{
		path: path,
		db:   bdb,
	}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see db.KVDB)
// --------------------------------------------------------------------------

func (b *boltImpl) Set(key, value []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return db.ErrClosed
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, value)
	})
	return errors.Wrap(err, "bolt: set")
}

func (b *boltImpl) Get(key []byte) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return nil, false, db.ErrClosed
	}

	var (
		value  []byte
		loaded bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		v, ok := seek(tx.Bucket(bucketName).Cursor(), key)
		if ok {
			// v is only valid for the lifetime of the transaction
			value = make([]byte, len(v))
			copy(value, v)
			loaded = true
		}
		return nil
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "bolt: get")
	}
	return value, loaded, nil
}

func (b *boltImpl) Delete(key []byte) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return false, db.ErrClosed
	}

	var existed bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		if _, ok := seek(c, key); !ok {
			return nil
		}
		existed = true
		return c.Delete()
	})
	if err != nil {
		return false, errors.Wrap(err, "bolt: delete")
	}
	return existed, nil
}

func (b *boltImpl) SizeOnDisk() (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return 0, db.ErrClosed
	}

	// the open file handle survives removal of the directory, stat the path instead
	st, err := os.Stat(filepath.Join(b.path, FileName))
	if err != nil {
		return 0, errors.Wrap(err, "bolt: stat data file")
	}
	return uint64(st.Size()), nil
}

func (b *boltImpl) Info() db.DatabaseInfo {
	info := db.DatabaseInfo{
		DbType: db.ImplBolt,
		Path:   b.path,
	}
	if size, err := b.SizeOnDisk(); err == nil {
		info.SizeBytes = size
	}
	return info
}

func (b *boltImpl) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}

	err := b.db.Close()
	b.db = nil
	if err != nil {
		return errors.Wrap(err, "bolt: close")
	}
	log.Infof("closed bolt database at %s", b.path)
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// seek positions c on key and reports whether key is present.
// Bucket.Get returns nil for a missing key and a nested bucket alike.
func seek(c *bolt.Cursor, key []byte) ([]byte, bool) {
	k, v := c.Seek(key)
	if k == nil || !bytes.Equal(k, key) {
		return nil, false
	}
	return v, true
}
