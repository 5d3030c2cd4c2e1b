// ABOUTME: SQLite-backed exchange ledger using modernc.org/sqlite
// ABOUTME: Records asks, answering-message ids, result kinds, and feedback

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested exchange does not exist.
var ErrNotFound = errors.New("not found")

// Result kinds recorded for an exchange.
const (
	KindText  = "text"
	KindTable = "table"
)

// Exchange is one recorded ask: the question, where it went, and what kind
// of answer came back.
type Exchange struct {
	ID              string
	ConversationID  string
	Question        string
	AnswerMessageID string
	Kind            string
	QueryText       string
	Feedback        string // "positive", "negative", or empty
	CreatedAt       time.Time
}

// Store persists exchanges in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore opens (or creates) the ledger database at the given path.
// Parent directories are created if needed.
func NewStore(path string) (*Store, error) {
	logger := slog.Default().With("component", "history")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL keeps concurrent readers cheap.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("history store initialized", "path", path)
	return s, nil
}

// createSchema creates the ledger table if it doesn't exist.
func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS exchanges (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			question TEXT NOT NULL,
			answer_message_id TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL,
			query_text TEXT NOT NULL DEFAULT '',
			feedback TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_exchanges_conversation
			ON exchanges(conversation_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts an exchange into the ledger, assigning an id and
// timestamp when the caller leaves them empty.
func (s *Store) Record(ctx context.Context, e *Exchange) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exchanges (id, conversation_id, question, answer_message_id, kind, query_text, feedback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ConversationID, e.Question, e.AnswerMessageID, e.Kind, e.QueryText, e.Feedback, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording exchange: %w", err)
	}
	return nil
}

// Get fetches a single exchange by id.
func (s *Store) Get(ctx context.Context, id string) (*Exchange, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, question, answer_message_id, kind, query_text, feedback, created_at
		FROM exchanges WHERE id = ?`, id)
	return scanExchange(row)
}

// Latest returns the most recently recorded exchange.
func (s *Store) Latest(ctx context.Context) (*Exchange, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, conversation_id, question, answer_message_id, kind, query_text, feedback, created_at
		FROM exchanges ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	return scanExchange(row)
}

// List returns up to limit exchanges, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Exchange, error) {
	query := `
		SELECT id, conversation_id, question, answer_message_id, kind, query_text, feedback, created_at
		FROM exchanges ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		var e Exchange
		if err := rows.Scan(&e.ID, &e.ConversationID, &e.Question, &e.AnswerMessageID, &e.Kind, &e.QueryText, &e.Feedback, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exchange: %w", err)
		}
		exchanges = append(exchanges, e)
	}
	return exchanges, rows.Err()
}

// SetFeedback records the sentiment submitted for an exchange.
func (s *Store) SetFeedback(ctx context.Context, id, sentiment string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE exchanges SET feedback = ? WHERE id = ?`, sentiment, id)
	if err != nil {
		return fmt.Errorf("updating feedback: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanExchange reads one exchange from a row, mapping no-rows to ErrNotFound.
func scanExchange(row *sql.Row) (*Exchange, error) {
	var e Exchange
	err := row.Scan(&e.ID, &e.ConversationID, &e.Question, &e.AnswerMessageID, &e.Kind, &e.QueryText, &e.Feedback, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
