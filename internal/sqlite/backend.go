// Package sqlite implements the tabular note store on SQLite: workbooks hold
// named sheets, sheets hold string cells addressed by 1-based row and column,
// and each cell may carry link spans and a wrap flag.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// DBFileName is the database file created inside Config.DataDir.
const DBFileName = "playnotes.db"

// pragmas are applied once after opening. The pool is limited to a single
// connection so they hold for every statement.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA foreign_keys = ON",
}

// Backend implements types.Store on a single SQLite database file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (or creates) the database in config.DataDir and applies the
// schema. Existing data is kept.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if config.Backend == "" {
		return types.ErrBackendEmpty
	}
	if config.Backend != types.BackendSQLite {
		return fmt.Errorf("%w: %q", types.ErrBackendUnknown, config.Backend)
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return fmt.Errorf("apply %q: %w", p, err)
		}
	}
	for _, stmt := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("init schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Ping verifies the database connection is alive.
func (b *Backend) Ping() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrDetached
	}
	return b.db.Ping()
}

// CreateWorkbook registers a workbook id. Creating an existing workbook is a
// no-op.
func (b *Backend) CreateWorkbook(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", types.ErrWorkbookNotFound)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}
	_, err := b.db.Exec(
		"INSERT INTO workbooks (workbook_id, created_at) VALUES (?, ?) ON CONFLICT(workbook_id) DO NOTHING",
		id, now())
	if err != nil {
		return fmt.Errorf("create workbook %s: %w", id, err)
	}
	return nil
}

// OpenWorkbook returns the workbook with the given id.
// Returns ErrWorkbookNotFound if it has not been created.
func (b *Backend) OpenWorkbook(id string) (types.Workbook, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	var got string
	err := b.db.QueryRow("SELECT workbook_id FROM workbooks WHERE workbook_id = ?", id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", types.ErrWorkbookNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", id, err)
	}
	return &Workbook{backend: b, id: got}, nil
}

// Workbooks lists every workbook id in creation order.
func (b *Backend) Workbooks() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}

	rows, err := b.db.Query("SELECT workbook_id FROM workbooks ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list workbooks: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// newUUID generates a UUID v7 string for sheet ids.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// now returns the current time in the storage format.
func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// DataDir returns the directory the backend was attached with.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.DataDir
}

var (
	_ types.Backend  = (*Backend)(nil)
	_ types.Workbook = (*Workbook)(nil)
	_ types.Sheet    = (*Sheet)(nil)
)
