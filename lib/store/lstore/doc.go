// Package lstore implements the local, single-node store.IStore on top of a db.KVDB.
//
// The store is a thin semantic layer: it forwards each call to exactly one engine
// operation and converts engine failures into *store.Error values (RetCInternalError,
// or RetCClosed after Close). Absence is passed through untouched as loaded=false /
// existed=false.
//
// Thread Safety:
//
//	The store adds no locking of its own. The engines are safe for concurrent use;
//	the HTTP layer additionally serializes every operation through the server state lock.
//
// Usage Example:
//
//	st, err := lstore.NewLocalStore(func() (db.KVDB, error) {
//		return pebbledb.NewPebbleDB("db.kv", nil)
//	})
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
//	err = st.Put([]byte("1"), []byte("helloworld"))
//	value, found, err := st.Get([]byte("1"))
package lstore
