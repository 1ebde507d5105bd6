// Package audit persists classification events in SQLite for operability.
// The verdict cache itself stays in memory; this log is observability, not
// verdict persistence.
package audit

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/pkg/filesystem"
	"github.com/doeshing/cmdgate/internal/ports"
)

// SQLiteStore appends classification records to ~/.cmdgate/audit.db. When the
// database cannot be opened the store degrades to a no-op so auditing can
// never block classification.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the audit database.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = filepath.Join(filesystem.UserHomeDir(), ".cmdgate", "audit.db")
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS classifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		command TEXT,
		level TEXT,
		reason TEXT,
		source TEXT,
		duration_ms INTEGER
	);`)
	return err
}

// Record inserts one classification event.
func (s *SQLiteStore) Record(record domain.AuditRecord) error {
	if s.db == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO classifications
		(timestamp, command, level, reason, source, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.Timestamp.Format(time.RFC3339),
		record.Command,
		string(record.Level),
		record.Reason,
		string(record.Source),
		record.DurationMS,
	)
	return err
}

// Recent returns the newest records, optionally filtered by a command
// substring.
func (s *SQLiteStore) Recent(limit int, search string) ([]domain.AuditRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, command, level, reason, source, duration_ms FROM classifications")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE command LIKE ?")
		args = append(args, "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var ts, level, source string
		if err := rows.Scan(&ts, &rec.Command, &level, &rec.Reason, &source, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Level = domain.Level(level)
		rec.Source = domain.Source(source)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all audit records.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec("DELETE FROM classifications")
	return err
}

// Path returns the database location.
func (s *SQLiteStore) Path() string {
	return s.path
}

var _ ports.AuditRepository = (*SQLiteStore)(nil)
