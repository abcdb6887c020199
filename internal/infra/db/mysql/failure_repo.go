package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/db"
)

type FailureRepository struct {
	db *sql.DB
}

func NewFailureRepository(conn *sql.DB) *FailureRepository { return &FailureRepository{db: conn} }

func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO analysis_failures
  (stage, kind, source, message, created_at)
VALUES (?,?,?,?,?)
`
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	out, err := r.db.ExecContext(ctx, q,
		db.DashIfEmpty(f.Stage), db.DashIfEmpty(string(f.Kind)),
		db.DashIfEmpty(f.Source), db.DashIfEmpty(f.Message), created)
	if err != nil {
		return err
	}
	if id, err := out.LastInsertId(); err == nil {
		f.ID = id
	}
	return nil
}

func (r *FailureRepository) Latest(ctx context.Context, limit int) ([]*domain.Failure, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `
SELECT ` + db.FailureColumns + `
FROM analysis_failures
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Failure
	for rows.Next() {
		var f domain.Failure
		var kind string
		if err := rows.Scan(&f.ID, &f.Stage, &kind, &f.Source, &f.Message, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Kind = domain.Kind(kind)
		out = append(out, &f)
	}
	return out, rows.Err()
}
