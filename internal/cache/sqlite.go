// Package cache persists radial matrix elements in SQLite so Rydberg
// calculations do not repeat Numerov integrations across runs.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/san-kum/mmwave/internal/atom"
)

// Memory is the DSN of a private in-memory database.
const Memory = ":memory:"

const schema = `CREATE TABLE IF NOT EXISTS radial_elements (
	atom  TEXT    NOT NULL,
	n1    INTEGER NOT NULL,
	l1    INTEGER NOT NULL,
	j1x2  INTEGER NOT NULL,
	n2    INTEGER NOT NULL,
	l2    INTEGER NOT NULL,
	j2x2  INTEGER NOT NULL,
	power INTEGER NOT NULL,
	step  REAL    NOT NULL,
	value REAL    NOT NULL,
	PRIMARY KEY (atom, n1, l1, j1x2, n2, l2, j2x2, power, step)
)`

// SQLite is an atom.ElementCache for one atom species and grid step.
type SQLite struct {
	conn *sql.DB
	path string
	atom string
	step float64
}

var _ atom.ElementCache = (*SQLite)(nil)

// Open opens or creates the cache at path. Elements are partitioned by atom
// name and Numerov step since both change the stored values.
func Open(path, atomName string, step float64) (*SQLite, error) {
	dsn := Memory
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if path == Memory {
		// every pooled connection would see its own empty database
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(4)
		conn.SetMaxIdleConns(2)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping cache: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLite{conn: conn, path: path, atom: atomName, step: step}, nil
}

func twice(j float64) int { return int(math.Round(2 * j)) }

func (c *SQLite) Get(key atom.ElementKey) (float64, bool, error) {
	var v float64
	err := c.conn.QueryRow(
		`SELECT value FROM radial_elements
		 WHERE atom = ? AND n1 = ? AND l1 = ? AND j1x2 = ? AND n2 = ? AND l2 = ? AND j2x2 = ? AND power = ? AND step = ?`,
		c.atom, key.N1, key.L1, twice(key.J1), key.N2, key.L2, twice(key.J2), key.Power, c.step,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read element: %w", err)
	}
	return v, true, nil
}

func (c *SQLite) Put(key atom.ElementKey, value float64) error {
	_, err := c.conn.Exec(
		`INSERT OR REPLACE INTO radial_elements
		 (atom, n1, l1, j1x2, n2, l2, j2x2, power, step, value)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.atom, key.N1, key.L1, twice(key.J1), key.N2, key.L2, twice(key.J2), key.Power, c.step, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write element: %w", err)
	}
	return nil
}

// Len returns the number of stored elements for this atom and step.
func (c *SQLite) Len() (int, error) {
	var n int
	err := c.conn.QueryRow(`SELECT COUNT(*) FROM radial_elements WHERE atom = ? AND step = ?`, c.atom, c.step).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count elements: %w", err)
	}
	return n, nil
}

// Purge removes every element stored for this atom and step.
func (c *SQLite) Purge() error {
	if _, err := c.conn.Exec(`DELETE FROM radial_elements WHERE atom = ? AND step = ?`, c.atom, c.step); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

func (c *SQLite) Path() string { return c.path }

func (c *SQLite) Close() error {
	return c.conn.Close()
}
