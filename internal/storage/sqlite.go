package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/quill-lang/quilldoc/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS modules (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	extracted_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS nodes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	module_id INTEGER NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	kind TEXT NOT NULL,
	namespace TEXT NOT NULL,
	name TEXT NOT NULL,
	exported INTEGER NOT NULL DEFAULT 0,
	is_setf INTEGER NOT NULL DEFAULT 0,
	docstring TEXT NOT NULL DEFAULT '',
	parameters TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS slots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	node_id INTEGER NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	namespace TEXT NOT NULL,
	name TEXT NOT NULL,
	docstring TEXT NOT NULL DEFAULT '',
	accessors TEXT NOT NULL DEFAULT '[]',
	readers TEXT NOT NULL DEFAULT '[]',
	writers TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_nodes_module ON nodes(module_id, seq);
CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(name);
CREATE INDEX IF NOT EXISTS idx_slots_node ON slots(node_id);
`

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SaveCatalogue stores a module's node sequence inside one transaction,
// replacing any earlier catalogue for the same module.
func (s *SQLiteStorage) SaveCatalogue(ctx context.Context, module string, nodes []types.Node) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM modules WHERE name = ?`, module); err != nil {
		return fmt.Errorf("failed to clear previous catalogue: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO modules (name, extracted_at) VALUES (?, ?)`,
		module, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert module: %w", err)
	}
	moduleID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for seq, node := range nodes {
		rec := FromNode(node, seq)
		params, err := json.Marshal(rec.Parameters)
		if err != nil {
			return fmt.Errorf("failed to encode parameters: %w", err)
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO nodes (module_id, seq, kind, namespace, name, exported, is_setf, docstring, parameters)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			moduleID, rec.Seq, rec.Kind, rec.Namespace, rec.Name,
			rec.Exported, rec.IsSetf, rec.Docstring, string(params))
		if err != nil {
			return fmt.Errorf("failed to insert node %s: %w", rec.Name, err)
		}
		nodeID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, slot := range rec.Slots {
			if err := insertSlot(ctx, tx, nodeID, slot); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func insertSlot(ctx context.Context, tx *sql.Tx, nodeID int64, slot *SlotRecord) error {
	accessors, err := json.Marshal(slot.Accessors)
	if err != nil {
		return err
	}
	readers, err := json.Marshal(slot.Readers)
	if err != nil {
		return err
	}
	writers, err := json.Marshal(slot.Writers)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO slots (node_id, namespace, name, docstring, accessors, readers, writers)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nodeID, slot.Namespace, slot.Name, slot.Docstring,
		string(accessors), string(readers), string(writers))
	if err != nil {
		return fmt.Errorf("failed to insert slot %s: %w", slot.Name, err)
	}
	return nil
}

// GetModule returns the stored entry for name
func (s *SQLiteStorage) GetModule(ctx context.Context, name string) (*Module, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT m.id, m.name, m.extracted_at,
		       (SELECT COUNT(*) FROM nodes n WHERE n.module_id = m.id)
		FROM modules m WHERE m.name = ?`, name)

	var m Module
	if err := row.Scan(&m.ID, &m.Name, &m.ExtractedAt, &m.NodeCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListModules returns all stored modules, most recently extracted first
func (s *SQLiteStorage) ListModules(ctx context.Context) ([]*Module, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.extracted_at,
		       (SELECT COUNT(*) FROM nodes n WHERE n.module_id = m.id)
		FROM modules m ORDER BY m.extracted_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var modules []*Module
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.ID, &m.Name, &m.ExtractedAt, &m.NodeCount); err != nil {
			return nil, err
		}
		modules = append(modules, &m)
	}
	return modules, rows.Err()
}

// ListNodes returns a module's nodes in stored order
func (s *SQLiteStorage) ListNodes(ctx context.Context, module string, kind string) ([]*NodeRecord, error) {
	m, err := s.GetModule(ctx, module)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, module_id, seq, kind, namespace, name, exported, is_setf, docstring, parameters
		FROM nodes WHERE module_id = ?`
	args := []interface{}{m.ID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	nodes, err := scanNodes(rows)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if n.Kind == string(types.KindStruct) || n.Kind == string(types.KindClass) {
			if n.Slots, err = s.listSlots(ctx, n.ID); err != nil {
				return nil, err
			}
		}
	}
	return nodes, nil
}

// SearchNodes returns nodes matching query by bare name, across all modules
func (s *SQLiteStorage) SearchNodes(ctx context.Context, query string, limit int) ([]*NodeRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, module_id, seq, kind, namespace, name, exported, is_setf, docstring, parameters
		FROM nodes WHERE name LIKE ? COLLATE NOCASE
		ORDER BY name, namespace LIMIT ?`,
		"%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanNodes(rows)
}

func scanNodes(rows *sql.Rows) ([]*NodeRecord, error) {
	var nodes []*NodeRecord
	for rows.Next() {
		var n NodeRecord
		var params string
		if err := rows.Scan(&n.ID, &n.ModuleID, &n.Seq, &n.Kind, &n.Namespace,
			&n.Name, &n.Exported, &n.IsSetf, &n.Docstring, &params); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(params), &n.Parameters); err != nil {
			return nil, fmt.Errorf("failed to decode parameters for %s: %w", n.Name, err)
		}
		nodes = append(nodes, &n)
	}
	return nodes, rows.Err()
}

func (s *SQLiteStorage) listSlots(ctx context.Context, nodeID int64) ([]*SlotRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, node_id, namespace, name, docstring, accessors, readers, writers
		FROM slots WHERE node_id = ? ORDER BY id`, nodeID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var slots []*SlotRecord
	for rows.Next() {
		var slot SlotRecord
		var accessors, readers, writers string
		if err := rows.Scan(&slot.ID, &slot.NodeID, &slot.Namespace, &slot.Name,
			&slot.Docstring, &accessors, &readers, &writers); err != nil {
			return nil, err
		}
		if err := decodeRefs(accessors, &slot.Accessors); err != nil {
			return nil, fmt.Errorf("failed to decode slot refs for %s: %w", slot.Name, err)
		}
		if err := decodeRefs(readers, &slot.Readers); err != nil {
			return nil, fmt.Errorf("failed to decode slot refs for %s: %w", slot.Name, err)
		}
		if err := decodeRefs(writers, &slot.Writers); err != nil {
			return nil, fmt.Errorf("failed to decode slot refs for %s: %w", slot.Name, err)
		}
		slots = append(slots, &slot)
	}
	return slots, rows.Err()
}

func decodeRefs(raw string, dst *[]string) error {
	return json.Unmarshal([]byte(raw), dst)
}
