package zombiezen

import (
	"context"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/semgraph/storage"
)

// RelationSchema is the embedded script creating the relation tables.
const RelationSchema = "relations.sql"

type RelationStore struct {
	pool *sqlitex.Pool
}

var _ storage.RelationStore = (*RelationStore)(nil)

// NewRelationStore expects a pool on which RelationSchema has been created.
func NewRelationStore(pool *sqlitex.Pool) *RelationStore {
	return &RelationStore{pool: pool}
}

// Open creates the pool at dbPath and its schema.
func Open(dbPath string) (*RelationStore, error) {
	pool, err := NewPool(dbPath)
	if err != nil {
		return nil, err
	}
	if err := CreateSchemas(pool, RelationSchema); err != nil {
		pool.Close()
		return nil, err
	}
	return NewRelationStore(pool), nil
}

func (h *RelationStore) Close() error {
	return h.pool.Close()
}

func (h *RelationStore) Init(types []string) error {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	for _, t := range types {
		err := sqlitex.Execute(conn, "INSERT OR IGNORE INTO relation_types (name) VALUES (?)", &sqlitex.ExecOptions{
			Args: []interface{}{t},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *RelationStore) Increment(relation, source, target string) (err error) {
	if source == target {
		return nil
	}

	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	defer sqlitex.Save(conn)(&err)

	err = sqlitex.Execute(conn, "INSERT OR IGNORE INTO relation_types (name) VALUES (?)", &sqlitex.ExecOptions{
		Args: []interface{}{relation},
	})
	if err != nil {
		return err
	}

	return sqlitex.Execute(conn, `
		INSERT INTO relations (relation, source, target, recurrence)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(relation, source, target) DO UPDATE SET
			recurrence = recurrence + 1
	`, &sqlitex.ExecOptions{
		Args: []interface{}{relation, source, target},
	})
}

func (h *RelationStore) Scan(relation string) ([]storage.Relation, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	rows := []storage.Relation{}
	err = sqlitex.Execute(conn, "SELECT source, target, recurrence FROM relations WHERE relation = ? ORDER BY rowid", &sqlitex.ExecOptions{
		Args: []interface{}{relation},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rows = append(rows, storage.Relation{
				Source:     stmt.ColumnText(0),
				Target:     stmt.ColumnText(1),
				Recurrence: stmt.ColumnInt(2),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (h *RelationStore) Types() ([]string, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	types := []string{}
	err = sqlitex.Execute(conn, "SELECT name FROM relation_types ORDER BY name", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			types = append(types, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return types, nil
}
