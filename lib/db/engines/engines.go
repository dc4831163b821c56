// Package engines selects and opens one of the embedded storage engines by name.
package engines

import (
	"fmt"

	"github.com/ValentinKolb/kvapp/lib/db"
	"github.com/ValentinKolb/kvapp/lib/db/engines/boltdb"
	"github.com/ValentinKolb/kvapp/lib/db/engines/pebbledb"
)

// Open opens the engine impl rooted at the directory path with its default options.
func Open(impl db.Implementation, path string) (db.KVDB, error) {
	switch impl {
	case db.ImplPebble:
		return pebbledb.NewPebbleDB(path, nil)
	case db.ImplBolt:
		return boltdb.NewBoltDB(path, nil)
	default:
		return nil, fmt.Errorf("unsupported engine %q", impl)
	}
}
