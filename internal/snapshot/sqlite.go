package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// sqliteFile is the database file name inside the data directory.
const sqliteFile = "taxonomy.db"

// Schema DDL for the snapshot tables.
const (
	createArtifacts = `CREATE TABLE IF NOT EXISTS artifacts (
    kind TEXT NOT NULL,
    key TEXT NOT NULL,
    body TEXT NOT NULL,
    PRIMARY KEY (kind, key)
);`

	createHierarchy = `CREATE TABLE IF NOT EXISTS hierarchy (
    leaf TEXT NOT NULL,
    definition_id TEXT NOT NULL,
    body TEXT NOT NULL,
    PRIMARY KEY (leaf, definition_id)
);`

	createMeta = `CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`
)

// schemaSQL combines all DDL statements.
var schemaSQL = createArtifacts + "\n" + createHierarchy + "\n" + createMeta

// meta table keys.
const (
	metaVersion     = "version"
	metaNoHierarchy = "no_hierarchy"
)

// SQLiteStore keeps a snapshot in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ types.SnapshotStore = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) taxonomy.db in dir and ensures the
// schema exists.
func OpenSQLite(ctx context.Context, dir string) (*SQLiteStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, sqliteFile))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", sqliteFile, err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads the whole snapshot in one transaction.
func (s *SQLiteStore) Load(ctx context.Context) (*types.Taxonomy, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	flat := &flatTaxonomy{artifacts: make(map[types.ArtifactKind][]entry, len(sections))}

	metaRows, err := tx.QueryContext(ctx, "SELECT key, value FROM meta")
	if err != nil {
		return nil, fmt.Errorf("reading meta: %w", err)
	}
	for metaRows.Next() {
		var k, v string
		if err := metaRows.Scan(&k, &v); err != nil {
			metaRows.Close()
			return nil, fmt.Errorf("scanning meta: %w", err)
		}
		switch k {
		case metaVersion:
			flat.meta.Version = v
		case metaNoHierarchy:
			flat.meta.NoHierarchy, _ = strconv.ParseBool(v)
		}
	}
	if err := closeRows(metaRows); err != nil {
		return nil, fmt.Errorf("reading meta: %w", err)
	}

	artRows, err := tx.QueryContext(ctx, "SELECT kind, key, body FROM artifacts ORDER BY kind, key")
	if err != nil {
		return nil, fmt.Errorf("reading artifacts: %w", err)
	}
	for artRows.Next() {
		var kind, key, body string
		if err := artRows.Scan(&kind, &key, &body); err != nil {
			artRows.Close()
			return nil, fmt.Errorf("scanning artifact: %w", err)
		}
		k := types.ArtifactKind(kind)
		flat.artifacts[k] = append(flat.artifacts[k], entry{Key: key, Body: []byte(body)})
	}
	if err := closeRows(artRows); err != nil {
		return nil, fmt.Errorf("reading artifacts: %w", err)
	}

	leafRows, err := tx.QueryContext(ctx, "SELECT leaf, definition_id, body FROM hierarchy ORDER BY leaf, definition_id")
	if err != nil {
		return nil, fmt.Errorf("reading hierarchy: %w", err)
	}
	for leafRows.Next() {
		var leaf, id, body string
		if err := leafRows.Scan(&leaf, &id, &body); err != nil {
			leafRows.Close()
			return nil, fmt.Errorf("scanning hierarchy: %w", err)
		}
		flat.leaves = append(flat.leaves, leafEntry{Leaf: types.LeafPath(leaf), DefinitionID: id, Body: []byte(body)})
	}
	if err := closeRows(leafRows); err != nil {
		return nil, fmt.Errorf("reading hierarchy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing load transaction: %w", err)
	}
	return assemble(flat), nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

// Save replaces every row in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, tax *types.Taxonomy) error {
	flat, err := flatten(tax)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"artifacts", "hierarchy", "meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	artStmt, err := tx.PrepareContext(ctx, "INSERT INTO artifacts (kind, key, body) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing artifact insert: %w", err)
	}
	defer artStmt.Close()
	for _, sec := range sections {
		for _, row := range flat.artifacts[sec.kind] {
			if _, err := artStmt.ExecContext(ctx, string(sec.kind), row.Key, string(row.Body)); err != nil {
				return fmt.Errorf("inserting %s %q: %w", sec.name, row.Key, err)
			}
		}
	}

	leafStmt, err := tx.PrepareContext(ctx, "INSERT INTO hierarchy (leaf, definition_id, body) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing hierarchy insert: %w", err)
	}
	defer leafStmt.Close()
	for _, row := range flat.leaves {
		if _, err := leafStmt.ExecContext(ctx, string(row.Leaf), row.DefinitionID, string(row.Body)); err != nil {
			return fmt.Errorf("inserting hierarchy %s/%s: %w", row.Leaf, row.DefinitionID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO meta (key, value) VALUES (?, ?), (?, ?)",
		metaVersion, flat.meta.Version,
		metaNoHierarchy, strconv.FormatBool(flat.meta.NoHierarchy),
	); err != nil {
		return fmt.Errorf("writing meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
