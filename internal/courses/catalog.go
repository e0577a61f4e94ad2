package courses

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"

	"lectern/internal/services"
)

// DefaultCourse is seeded on first open and can never be removed.
const DefaultCourse = "General"

const sqliteBusyCode = 5

const schema = `
CREATE TABLE IF NOT EXISTS courses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Catalog stores courses in a local sqlite database.
type Catalog struct {
	db   *sql.DB
	path string
}

// Open creates or opens the catalog database at path, applies the schema,
// and seeds the default course.
func Open(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "courses", "open", "catalog path required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}

	catalog := &Catalog{db: db, path: path}
	if err := catalog.seedDefault(); err != nil {
		db.Close()
		return nil, err
	}
	return catalog, nil
}

// Close releases the underlying database handle.
func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Path returns the catalog database location.
func (c *Catalog) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

func (c *Catalog) seedDefault() error {
	err := c.withRetry(func() error {
		_, err := c.db.Exec(
			`INSERT OR IGNORE INTO courses (name, name_key, created_at) VALUES (?, ?, ?)`,
			DefaultCourse, nameKey(DefaultCourse), time.Now().UTC().Format(time.RFC3339),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("seed default course: %w", err)
	}
	return c.withRetry(func() error {
		_, err := c.db.Exec(
			`INSERT OR IGNORE INTO settings (key, value) VALUES ('active_course', ?)`,
			DefaultCourse,
		)
		return err
	})
}

// Add registers a new course. Names are unique case-insensitively; adding an
// existing name is an invalid operation.
func (c *Catalog) Add(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", services.Wrap(services.ErrValidation, "courses", "add", "course name required", nil)
	}
	err := c.withRetry(func() error {
		_, err := c.db.Exec(
			`INSERT INTO courses (name, name_key, created_at) VALUES (?, ?, ?)`,
			name, nameKey(name), time.Now().UTC().Format(time.RFC3339),
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return "", services.Wrap(services.ErrInvalidOperation, "courses", "add", fmt.Sprintf("course %q already exists", name), nil)
		}
		return "", fmt.Errorf("add course %q: %w", name, err)
	}
	return name, nil
}

// Remove deletes a course. The default course cannot be removed; removing
// the active course makes the default course active again.
func (c *Catalog) Remove(name string) error {
	name = strings.TrimSpace(name)
	if nameKey(name) == nameKey(DefaultCourse) {
		return services.Wrap(services.ErrInvalidOperation, "courses", "remove", "the default course cannot be removed", nil)
	}

	stored, err := c.lookup(name)
	if err != nil {
		return err
	}

	active, err := c.Active()
	if err != nil {
		return err
	}

	err = c.withRetry(func() error {
		_, err := c.db.Exec(`DELETE FROM courses WHERE name_key = ?`, nameKey(name))
		return err
	})
	if err != nil {
		return fmt.Errorf("remove course %q: %w", name, err)
	}

	if nameKey(active) == nameKey(stored) {
		return c.SetActive(DefaultCourse)
	}
	return nil
}

// List returns all course names, default course first, the rest
// alphabetically.
func (c *Catalog) List() ([]string, error) {
	var names []string
	err := c.withRetry(func() error {
		rows, err := c.db.Query(`SELECT name FROM courses`)
		if err != nil {
			return err
		}
		defer rows.Close()
		names = names[:0]
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == DefaultCourse {
			return true
		}
		if names[j] == DefaultCourse {
			return false
		}
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}

// SetActive marks an existing course as the active filing target.
func (c *Catalog) SetActive(name string) error {
	stored, err := c.lookup(name)
	if err != nil {
		return err
	}
	err = c.withRetry(func() error {
		_, err := c.db.Exec(
			`INSERT INTO settings (key, value) VALUES ('active_course', ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			stored,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("set active course %q: %w", name, err)
	}
	return nil
}

// Active returns the currently active course, falling back to the default
// if the stored value no longer resolves.
func (c *Catalog) Active() (string, error) {
	var value string
	err := c.withRetry(func() error {
		row := c.db.QueryRow(`SELECT value FROM settings WHERE key = 'active_course'`)
		return row.Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultCourse, nil
	}
	if err != nil {
		return "", fmt.Errorf("read active course: %w", err)
	}
	if stored, lookupErr := c.lookup(value); lookupErr == nil {
		return stored, nil
	}
	return DefaultCourse, nil
}

// Resolve maps a user-supplied name to the stored course name, or returns a
// not-found error.
func (c *Catalog) Resolve(name string) (string, error) {
	return c.lookup(name)
}

func (c *Catalog) lookup(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", services.Wrap(services.ErrValidation, "courses", "lookup", "course name required", nil)
	}
	var stored string
	err := c.withRetry(func() error {
		row := c.db.QueryRow(`SELECT name FROM courses WHERE name_key = ?`, nameKey(name))
		return row.Scan(&stored)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", services.Wrap(services.ErrNotFound, "courses", "lookup", fmt.Sprintf("course %q not found", name), nil)
	}
	if err != nil {
		return "", fmt.Errorf("lookup course %q: %w", name, err)
	}
	return stored, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *Catalog) withRetry(operation func() error) error {
	const maxAttempts = 5
	delay := 10 * time.Millisecond
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = operation()
		if err == nil || !isSQLiteBusy(err) {
			return err
		}
		time.Sleep(delay)
		delay *= 2
		if delay > 200*time.Millisecond {
			delay = 200 * time.Millisecond
		}
	}
	return err
}

func isSQLiteBusy(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqliteBusyCode
	}
	return false
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		// 19 = SQLITE_CONSTRAINT, 2067 = SQLITE_CONSTRAINT_UNIQUE.
		code := sqliteErr.Code()
		return code == 19 || code == 2067 || code == 1555
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
