package database

import (
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
)

// ErrBadBackend is returned for a backend other than goleveldb or memdb.
var ErrBadBackend = errors.New("db_backend must be goleveldb or memdb")

// NewDB return new DB according to backend, default is "goleveldb"
func NewDB(name string, backend string, dir string) (dbm.DB, error) {
	switch backend {
	case "":
		backend = string(dbm.GoLevelDBBackend)
	case string(dbm.GoLevelDBBackend), string(dbm.MemDBBackend):
	default:
		return nil, errors.Wrapf(ErrBadBackend, "got %q", backend)
	}

	db, err := dbm.NewDB(name, dbm.BackendType(backend), dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", name)
	}
	return db, nil
}
