package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	pgUniqueViolation = "unique_violation"

	sessionColumns = `session_id, document_hash, signer_address, signature, message, user_id,
		backend_timestamp, status, verification_link, document_url, created_at, updated_at, version`
)

// MigrationSource returns the embedded schema migrations of the Postgres store.
func MigrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations,
		Root:       "migrations",
	}
}

// Migrate applies all pending migrations (direction Up) or rolls back all of
// them (Down) and returns the number of applied migrations.
func Migrate(db *sql.DB, dir migrate.MigrationDirection) (int, error) {
	n, err := migrate.Exec(db, "postgres", MigrationSource(), dir)
	if err != nil {
		return n, fmt.Errorf("failed to run migrations: %w", err)
	}

	return n, nil
}

// Postgres persists sessions in the signing_sessions table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		session          Session
		signature        null.String
		message          null.String
		verificationLink null.String
		documentURL      null.String
		status           string
	)

	if err := row.Scan(
		&session.SessionID,
		&session.DocumentHash,
		&session.SignerAddress,
		&signature,
		&message,
		&session.UserID,
		&session.Timestamp,
		&status,
		&verificationLink,
		&documentURL,
		&session.CreatedAt,
		&session.UpdatedAt,
		&session.Version,
	); err != nil {
		return nil, err
	}

	session.Signature = signature.String
	session.Message = message.String
	session.Status = Status(status)
	session.VerificationLink = verificationLink.String
	session.DocumentURL = documentURL.String

	return &session, nil
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

func (p *Postgres) Save(ctx context.Context, session *Session) error {
	if session.SessionID == "" {
		return ErrMissingSessionID
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO signing_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		session.SessionID,
		session.DocumentHash,
		session.SignerAddress,
		nullString(session.Signature),
		nullString(session.Message),
		session.UserID,
		session.Timestamp,
		string(session.Status),
		nullString(session.VerificationLink),
		nullString(session.DocumentURL),
		session.CreatedAt,
		session.UpdatedAt,
		session.Version,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == pgUniqueViolation {
			return ErrAlreadyExists
		}

		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

func (p *Postgres) FindByID(ctx context.Context, sessionID string) (*Session, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM signing_sessions WHERE session_id = $1`, sessionID)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return session, nil
}

func (p *Postgres) FindByUserID(ctx context.Context, userID string) ([]*Session, error) {
	return p.query(ctx, `SELECT `+sessionColumns+` FROM signing_sessions WHERE user_id = $1 ORDER BY seq`, userID)
}

func (p *Postgres) FindByStatus(ctx context.Context, status Status, createdBefore time.Time) ([]*Session, error) {
	return p.query(ctx, `SELECT `+sessionColumns+` FROM signing_sessions WHERE status = $1 AND created_at < $2 ORDER BY seq`, string(status), createdBefore)
}

func (p *Postgres) query(ctx context.Context, query string, args ...interface{}) ([]*Session, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	res := make([]*Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		res = append(res, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return res, nil
}

func (p *Postgres) Update(ctx context.Context, session *Session) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	prev, err := scanSession(tx.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM signing_sessions WHERE session_id = $1 FOR UPDATE`, session.SessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}

		return fmt.Errorf("failed to lock session: %w", err)
	}

	if prev.Version != session.Version {
		return ErrConflict
	}

	if err := CheckUpdate(prev, session); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE signing_sessions
		SET signature = $2, message = $3, backend_timestamp = $4, status = $5,
			verification_link = $6, document_url = $7, updated_at = $8, version = version + 1
		WHERE session_id = $1`,
		session.SessionID,
		nullString(session.Signature),
		nullString(session.Message),
		session.Timestamp,
		string(session.Status),
		nullString(session.VerificationLink),
		nullString(session.DocumentURL),
		session.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session update: %w", err)
	}

	session.Version++

	return nil
}

func (p *Postgres) Delete(ctx context.Context, sessionID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM signing_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
