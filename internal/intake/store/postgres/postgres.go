// Package postgres persists client records as JSONB documents. The table is a
// document store keyed by client id; sections live in one JSONB column so the
// storage format stays opaque to the domain.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"intake/internal/intake/models"
	id "intake/pkg/domain"
	"intake/pkg/platform/sentinel"
	"intake/pkg/requestcontext"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the document table and client number sequence if they
// do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS intake_clients (
	id UUID PRIMARY KEY,
	client_number TEXT UNIQUE NOT NULL,
	status TEXT NOT NULL,
	completion_percentage INT NOT NULL,
	sections JSONB NOT NULL,
	version BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE SEQUENCE IF NOT EXISTS intake_client_number_seq;`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure intake schema: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, record *models.ClientRecord) error {
	sections, err := json.Marshal(record.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	now := requestcontext.Now(ctx)
	record.Version = 1
	record.CreatedAt = now
	record.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
INSERT INTO intake_clients (id, client_number, status, completion_percentage, sections, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID.String(), record.ClientNumber, string(record.Status),
		record.CompletionPercentage, sections, record.Version,
		record.CreatedAt, record.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert client record: %w", err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, clientID id.ClientID) (*models.ClientRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, client_number, status, completion_percentage, sections, version, created_at, updated_at
FROM intake_clients WHERE id = $1`, clientID.String())
	return scanRecord(row)
}

func (s *Store) Execute(ctx context.Context, clientID id.ClientID,
	validate func(*models.ClientRecord) error,
	mutate func(*models.ClientRecord)) (*models.ClientRecord, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
SELECT id, client_number, status, completion_percentage, sections, version, created_at, updated_at
FROM intake_clients WHERE id = $1 FOR UPDATE`, clientID.String())
	record, err := scanRecord(row)
	if err != nil {
		return nil, err
	}

	priorVersion := record.Version
	if err := validate(record); err != nil {
		return nil, err
	}
	mutate(record)
	record.Version = priorVersion + 1
	record.UpdatedAt = requestcontext.Now(ctx)

	sections, err := json.Marshal(record.Sections)
	if err != nil {
		return nil, fmt.Errorf("marshal sections: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
UPDATE intake_clients
SET status = $2, completion_percentage = $3, sections = $4, version = $5, updated_at = $6
WHERE id = $1 AND version = $7`,
		clientID.String(), string(record.Status), record.CompletionPercentage,
		sections, record.Version, record.UpdatedAt, priorVersion)
	if err != nil {
		return nil, fmt.Errorf("update client record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, sentinel.ErrVersionMismatch
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return record, nil
}

func (s *Store) NextSequence(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT nextval('intake_client_number_seq')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next client number: %w", err)
	}
	return seq, nil
}

func (s *Store) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanRecord(row *sql.Row) (*models.ClientRecord, error) {
	var (
		record   models.ClientRecord
		rawID    string
		status   string
		sections []byte
	)
	err := row.Scan(&rawID, &record.ClientNumber, &status,
		&record.CompletionPercentage, &sections, &record.Version,
		&record.CreatedAt, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan client record: %w", err)
	}
	clientID, err := id.ParseClientID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse stored client id: %w", err)
	}
	record.ID = clientID
	record.Status = models.Status(status)
	if err := json.Unmarshal(sections, &record.Sections); err != nil {
		return nil, fmt.Errorf("unmarshal sections: %w", err)
	}
	return &record, nil
}
