// Package warehouse reads owner assignments from the reporting database and
// persists generated reports back into it.
package warehouse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"execbrief/internal/models"
)

// ErrOwnerNotFound is returned when an owner id has no assignment row.
var ErrOwnerNotFound = errors.New("owner not found")

// Store is the warehouse access layer, backed by a pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open connects to the warehouse and verifies the connection.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging warehouse: %w", err)
	}

	logger.Debug("warehouse connected")
	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Assignments returns every owner's book of subjects. Rows with an
// unreadable subject list come back with an empty SubjectIDs slice rather
// than failing the whole read; the orchestrator skips empty books.
func (s *Store) Assignments(ctx context.Context) ([]models.Assignment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT owner_id, owner_name, owner_contact, subject_ids, region
		FROM owner_assignments
		ORDER BY owner_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer rows.Close()

	var out []models.Assignment
	for rows.Next() {
		var a models.Assignment
		var rawSubjects string
		if err := rows.Scan(&a.OwnerID, &a.OwnerName, &a.OwnerContact, &rawSubjects, &a.Region); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		a.SubjectIDs = parseSubjectIDs(rawSubjects)
		if len(a.SubjectIDs) == 0 {
			s.logger.Warn("assignment has no readable subjects", "owner_id", a.OwnerID)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading assignments: %w", err)
	}
	return out, nil
}

// Assignment returns one owner's book of subjects.
func (s *Store) Assignment(ctx context.Context, ownerID string) (*models.Assignment, error) {
	var a models.Assignment
	var rawSubjects string
	err := s.pool.QueryRow(ctx, `
		SELECT owner_id, owner_name, owner_contact, subject_ids, region
		FROM owner_assignments
		WHERE owner_id = $1
	`, ownerID).Scan(&a.OwnerID, &a.OwnerName, &a.OwnerContact, &rawSubjects, &a.Region)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("owner %s: %w", ownerID, ErrOwnerNotFound)
		}
		return nil, fmt.Errorf("querying assignment: %w", err)
	}
	a.SubjectIDs = parseSubjectIDs(rawSubjects)
	return &a, nil
}

// InsertReport persists one generated report. Section bodies are stored as a
// JSON document alongside the formatted full text.
func (s *Store) InsertReport(ctx context.Context, row models.ReportRow) error {
	sections, err := json.Marshal(row.Sections)
	if err != nil {
		return fmt.Errorf("encoding sections: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO subject_reports
			(owner_id, subject_id, generated_at, period_start, period_end, sections, full_report)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, row.OwnerID, row.SubjectID, row.GeneratedAt, row.PeriodStart, row.PeriodEnd, sections, row.FullReport)
	if err != nil {
		return fmt.Errorf("inserting report for subject %s: %w", row.SubjectID, err)
	}

	s.logger.Debug("report persisted", "owner_id", row.OwnerID, "subject_id", row.SubjectID)
	return nil
}

// parseSubjectIDs reads a subject list column. The canonical encoding is a
// JSON array of strings, but legacy rows hold comma-separated values; both
// are accepted. Blank entries are dropped.
func parseSubjectIDs(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(trimmed), &ids); err == nil {
		return dropBlank(ids)
	}

	return dropBlank(strings.Split(trimmed, ","))
}

func dropBlank(ids []string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
