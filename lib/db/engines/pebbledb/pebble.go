package pebbledb

import (
	"fmt"
	"os"
	"sync"

	"github.com/ValentinKolb/kvapp/lib/db"
	"github.com/cockroachdb/pebble"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/pkg/errors"
)

var log = logger.GetLogger("engine")

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// DBOptions configures the pebble engine during initialization
type DBOptions struct {
	// Pebble is passed through to pebble.Open (nil = pebble defaults)
	Pebble *pebble.Options
	// Sync makes every write wait for the WAL to reach stable storage
	Sync bool
}

// DefaultOptions returns the default pebble engine options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		Pebble: &pebble.Options{},
		Sync:   true,
	}
}

// --------------------------------------------------------------------------
// Core structure
// --------------------------------------------------------------------------

type pebbleImpl struct {
	path      string
	writeOpts *pebble.WriteOptions

	// mu guards db against concurrent Close
	mu sync.RWMutex
	db *pebble.DB
}

// NewPebbleDB opens (or creates) a pebble database in the directory path.
func NewPebbleDB(path string, opts *DBOptions) (db.KVDB, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	pebbleOpts := opts.Pebble
	if pebbleOpts == nil {
		pebbleOpts = &pebble.Options{}
	}
	if pebbleOpts.Logger == nil {
		pebbleOpts.Logger = pebbleLogger{}
	}

	pdb, err := pebble.Open(path, pebbleOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "pebble: open %s", path)
	}

	writeOpts := pebble.NoSync
	if opts.Sync {
		writeOpts = pebble.Sync
	}

	log.Infof("opened pebble database at %s", path)
	return &pebbleImpl{
		path:      path,
		writeOpts: writeOpts,
		db:        pdb,
	}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see db.KVDB)
// --------------------------------------------------------------------------

func (p *pebbleImpl) Set(key, value []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.db == nil {
		return db.ErrClosed
	}

	if err := p.db.Set(key, value, p.writeOpts); err != nil {
		return errors.Wrap(err, "pebble: set")
	}
	return nil
}

func (p *pebbleImpl) Get(key []byte) ([]byte, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.db == nil {
		return nil, false, db.ErrClosed
	}
	return p.get(key)
}

// get must be called with mu held
func (p *pebbleImpl) get(key []byte) ([]byte, bool, error) {
	value, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "pebble: get")
	}

	// the slice returned by pebble is only valid until closer is closed
	out := make([]byte, len(value))
	copy(out, value)

	if err := closer.Close(); err != nil {
		return nil, false, errors.Wrap(err, "pebble: release value")
	}
	return out, true, nil
}

func (p *pebbleImpl) Delete(key []byte) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.db == nil {
		return false, db.ErrClosed
	}

	// pebble deletes blindly, the lookup tells the caller whether something was removed
	_, existed, err := p.get(key)
	if err != nil {
		return false, err
	}
	if !existed {
		return false, nil
	}

	if err := p.db.Delete(key, p.writeOpts); err != nil {
		return false, errors.Wrap(err, "pebble: delete")
	}
	return true, nil
}

func (p *pebbleImpl) SizeOnDisk() (uint64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.db == nil {
		return 0, db.ErrClosed
	}

	// pebble keeps working on open file handles, so probe the directory itself
	if _, err := os.Stat(p.path); err != nil {
		return 0, errors.Wrap(err, "pebble: stat data directory")
	}
	return p.db.Metrics().DiskSpaceUsage(), nil
}

func (p *pebbleImpl) Info() db.DatabaseInfo {
	info := db.DatabaseInfo{
		DbType: db.ImplPebble,
		Path:   p.path,
	}
	if size, err := p.SizeOnDisk(); err == nil {
		info.SizeBytes = size
	}
	return info
}

func (p *pebbleImpl) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}

	err := p.db.Close()
	p.db = nil
	if err != nil {
		return errors.Wrap(err, "pebble: close")
	}
	log.Infof("closed pebble database at %s", p.path)
	return nil
}

// --------------------------------------------------------------------------
// Logging
// --------------------------------------------------------------------------

// pebbleLogger forwards pebble's internal messages to the engine logger
type pebbleLogger struct{}

func (pebbleLogger) Infof(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

func (pebbleLogger) Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

func (pebbleLogger) Fatalf(format string, args ...interface{}) {
	log.Errorf(format, args...)
	panic(fmt.Sprintf(format, args...))
}
