// Package persistence provides SQLite-based map snapshot storage.
// A reloaded map carries the same coordinates, elevation, terrain and river
// edges it was saved with, so movement costs are reproduced exactly.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexroute/internal/units"
	"github.com/talgya/hexroute/internal/world"
)

// ErrNoSnapshot is returned by LoadMap when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no map snapshot")

// DB wraps a SQLite connection for map persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS hexes (
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		elevation INTEGER NOT NULL,
		terrain INTEGER NOT NULL,
		rivers INTEGER NOT NULL,
		PRIMARY KEY (q, r)
	);

	CREATE TABLE IF NOT EXISTS units (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		pos_q INTEGER NOT NULL,
		pos_r INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_units_pos ON units(pos_q, pos_r);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type hexRow struct {
	Q         int   `db:"q"`
	R         int   `db:"r"`
	Elevation int   `db:"elevation"`
	Terrain   uint8 `db:"terrain"`
	Rivers    uint8 `db:"rivers"`
}

type unitRow struct {
	ID   string `db:"id"`
	Type string `db:"type"`
	Q    int    `db:"pos_q"`
	R    int    `db:"pos_r"`
}

// SaveMap writes every hex of m (full replace) along with its dimensions.
// Occupants are not stored here; see SaveUnits.
func (db *DB) SaveMap(m *world.Map) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM hexes"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO hexes (q, r, elevation, terrain, rivers)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range m.Hexes {
		_, err := stmt.Exec(h.Coord.Q, h.Coord.R, h.Elevation, uint8(h.Terrain), uint8(h.Rivers))
		if err != nil {
			return fmt.Errorf("insert hex %v: %w", h.Coord, err)
		}
	}

	for key, value := range map[string]string{
		"width":  strconv.Itoa(m.Width),
		"height": strconv.Itoa(m.Height),
	} {
		if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("save meta %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("map saved", "width", m.Width, "height", m.Height, "hexes", m.HexCount())
	return nil
}

// HasMap returns true if a map snapshot has been saved.
func (db *DB) HasMap() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM hexes"); err != nil {
		return false
	}
	return count > 0
}

// LoadMap rebuilds the saved map. Returns ErrNoSnapshot if none exists.
func (db *DB) LoadMap() (*world.Map, error) {
	width, err := db.metaInt("width")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load width: %w", err)
	}
	height, err := db.metaInt("height")
	if err != nil {
		return nil, fmt.Errorf("load height: %w", err)
	}

	var rows []hexRow
	if err := db.conn.Select(&rows, "SELECT q, r, elevation, terrain, rivers FROM hexes"); err != nil {
		return nil, fmt.Errorf("load hexes: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoSnapshot
	}

	m := world.NewMap(width, height)
	for _, row := range rows {
		m.Set(&world.Hex{
			Coord:     world.HexCoord{Q: row.Q, R: row.R},
			Elevation: row.Elevation,
			Terrain:   world.Terrain(row.Terrain),
			Rivers:    world.RiverEdges(row.Rivers),
		})
	}
	return m, nil
}

// SaveUnits writes all unit placements (full replace).
func (db *DB) SaveUnits(list []units.Unit) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM units"); err != nil {
		return err
	}
	for _, u := range list {
		_, err := tx.Exec("INSERT INTO units (id, type, pos_q, pos_r) VALUES (?, ?, ?, ?)",
			u.ID.String(), u.Type, u.Position.Q, u.Position.R)
		if err != nil {
			return fmt.Errorf("insert unit %s: %w", u.ID, err)
		}
	}
	return tx.Commit()
}

// LoadUnits returns all saved unit placements.
func (db *DB) LoadUnits() ([]units.Unit, error) {
	var rows []unitRow
	if err := db.conn.Select(&rows, "SELECT id, type, pos_q, pos_r FROM units ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}
	out := make([]units.Unit, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, fmt.Errorf("unit id %q: %w", row.ID, err)
		}
		out = append(out, units.Unit{
			ID:       id,
			Type:     row.Type,
			Position: world.HexCoord{Q: row.Q, R: row.R},
		})
	}
	return out, nil
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

func (db *DB) metaInt(key string) (int, error) {
	s, err := db.GetMeta(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}
