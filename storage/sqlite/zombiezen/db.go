// Package zombiezen stores relation tables in a SQLite database through
// zombiezen.com/go/sqlite.
package zombiezen

import (
	"context"
	"embed"
	"io/fs"
	"path"
	"runtime"

	"github.com/pkg/errors"
	"zombiezen.com/go/sqlite/sqlitex"
)

//go:embed sql/*.sql
var scripts embed.FS

// NewPool opens the database file at dbPath, creating it if needed, with one
// connection per CPU. The default flags of sqlitex open it in WAL mode.
func NewPool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool("file:"+dbPath, sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite pool at %s", dbPath)
	}
	return pool, nil
}

// CreateSchemas runs the embedded scripts sql/<name>, in order, on one
// connection of pool. Scripts are idempotent.
func CreateSchemas(pool *sqlitex.Pool, names ...string) error {
	conn, err := pool.Take(context.Background())
	if err != nil {
		return err
	}
	defer pool.Put(conn)

	for _, name := range names {
		script, err := fs.ReadFile(scripts, path.Join("sql", name))
		if err != nil {
			return errors.Wrapf(err, "read schema %s", name)
		}
		if err := sqlitex.ExecuteScript(conn, string(script), nil); err != nil {
			return errors.Wrapf(err, "execute schema %s", name)
		}
	}

	return nil
}
