package lstore

import (
	"errors"

	"github.com/ValentinKolb/kvapp/lib/db"
	"github.com/ValentinKolb/kvapp/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("store")

type storeImpl struct {
	db db.KVDB
}

// NewLocalStore opens the database through factory and wraps it in a store.
// The database is owned by the store and released by Close.
func NewLocalStore(factory store.DBFactory) (store.IStore, error) {
	database, err := factory()
	if err != nil {
		return nil, err
	}
	return &storeImpl{db: database}, nil
}

// wrap converts an engine error into a *store.Error
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	log.Debugf("%s failed: %v", op, err)
	if errors.Is(err, db.ErrClosed) {
		return store.WrapError(store.RetCClosed, op+": store is closed", err)
	}
	return store.WrapError(store.RetCInternalError, op+" failed", err)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(key []byte) ([]byte, bool, error) {
	value, ok, err := s.db.Get(key)
	if err != nil {
		return nil, false, wrap("get", err)
	}
	return value, ok, nil
}

func (s *storeImpl) Put(key, value []byte) error {
	return wrap("put", s.db.Set(key, value))
}

func (s *storeImpl) Delete(key []byte) (bool, error) {
	existed, err := s.db.Delete(key)
	if err != nil {
		return false, wrap("delete", err)
	}
	return existed, nil
}

func (s *storeImpl) Health() (uint64, error) {
	size, err := s.db.SizeOnDisk()
	if err != nil {
		return 0, wrap("health", err)
	}
	return size, nil
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	return s.db.Info(), nil
}

func (s *storeImpl) Close() error {
	return wrap("close", s.db.Close())
}
