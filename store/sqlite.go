package store

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	address BLOB PRIMARY KEY,
	value   BLOB NOT NULL
) WITHOUT ROWID;
`

// SQLiteStore keeps records in a single sqlite table keyed by address. The
// PRIMARY KEY enforces create-once; writers take BEGIN IMMEDIATE so two
// Updates never interleave. Writers from this process queue on a gate
// before taking a connection, so a burst of Updates waits on ctx instead
// of exhausting busy_timeout.
type SQLiteStore struct {
	pool   *sqlitex.Pool
	writes writeGate
	logger *slog.Logger
	path   string
}

// OpenSQLite opens the database at path, creating the schema if needed.
func OpenSQLite(path string, poolSize int, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if poolSize <= 0 {
		poolSize = 4
	}
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", path, err)
	}
	logger.Info("sqlite store opened", "path", path, "pool_size", poolSize)
	return &SQLiteStore{pool: pool, writes: newWriteGate(), logger: logger, path: path}, nil
}

// prepareConnection applies the pragmas every connection needs and makes sure the table exists.
func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, sqliteSchema, nil); err != nil {
		return fmt.Errorf("sqlite: creating schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, fn func(Txn) error) (err error) {
	if err := s.writes.enter(ctx); err != nil {
		return err
	}
	defer s.writes.leave()

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: take: %w", err)
	}
	defer s.pool.Put(conn)

	endFn, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer endFn(&err)
	return fn(&sqliteTxn{conn: conn})
}

func (s *SQLiteStore) View(ctx context.Context, fn func(Txn) error) (err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: take: %w", err)
	}
	defer s.pool.Put(conn)

	defer sqlitex.Transaction(conn)(&err)
	return fn(&sqliteTxn{conn: conn, readOnly: true})
}

func (s *SQLiteStore) Close() error {
	if err := s.pool.Close(); err != nil {
		s.logger.Error("sqlite store close error", "path", s.path, "error", err)
		return fmt.Errorf("sqlite: closing %s: %w", s.path, err)
	}
	return nil
}

type sqliteTxn struct {
	conn     *sqlite.Conn
	readOnly bool
}

func (t *sqliteTxn) Create(key, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	err := sqlitex.Execute(t.conn, "INSERT INTO records (address, value) VALUES (?, ?)", &sqlitex.ExecOptions{
		Args: []any{key, value},
	})
	if err != nil {
		if sqlite.ErrCode(err).ToPrimary() == sqlite.ResultConstraint {
			return fmt.Errorf("%w: %x", ErrAlreadyExists, key)
		}
		return fmt.Errorf("sqlite: insert: %w", err)
	}
	return nil
}

func (t *sqliteTxn) Get(key []byte) ([]byte, error) {
	var value []byte
	found := false
	err := sqlitex.Execute(t.conn, "SELECT value FROM records WHERE address = ?", &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, value)
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: select: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %x", ErrNotFound, key)
	}
	return value, nil
}

func (t *sqliteTxn) Put(key, value []byte) error {
	if t.readOnly {
		return ErrReadOnly
	}
	err := sqlitex.Execute(t.conn, "UPDATE records SET value = ? WHERE address = ?", &sqlitex.ExecOptions{
		Args: []any{value, key},
	})
	if err != nil {
		return fmt.Errorf("sqlite: update: %w", err)
	}
	if t.conn.Changes() == 0 {
		return fmt.Errorf("%w: %x", ErrNotFound, key)
	}
	return nil
}
