package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
	"github.com/bryanwahyu/automaton-pricing/internal/infra/db"
)

// RecordRepository reads and updates precios_modulos.
type RecordRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRecordRepository(conn *sql.DB) *RecordRepository {
	return &RecordRepository{db: conn, now: time.Now}
}

// ListUnanalyzed returns up to limit rows with analizado_gpt = false, oldest first.
func (r *RecordRepository) ListUnanalyzed(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `
SELECT ` + db.RecordColumns + `
FROM precios_modulos
WHERE analizado_gpt = FALSE
  AND texto_extraido IS NOT NULL AND texto_extraido <> ''
ORDER BY id ASC
LIMIT ?;`
	return r.query(ctx, q, limit)
}

// SaveAnalysis stores the result and marks the row analyzed.
func (r *RecordRepository) SaveAnalysis(ctx context.Context, id int64, res domain.Result) error {
	const q = `
UPDATE precios_modulos SET
  precio_gpt = ?,
  clasificacion_gpt = ?,
  condiciones_comerciales = ?,
  confianza_analisis = ?,
  metodo_analisis = ?,
  fecha_analisis_gpt = ?,
  analizado_gpt = TRUE
WHERE id = ?;`
	res = res.Complete()
	terms, err := db.EncodeTerms(res.CommercialTerms)
	if err != nil {
		return err
	}
	out, err := r.db.ExecContext(ctx, q,
		res.EstimatedPrice, res.Module, terms,
		string(res.Confidence), string(res.Method), r.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update record %d: %w", id, err)
	}
	if n, err := out.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update record %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// Paginate returns a page of records ordered by newest first
func (r *RecordRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	limit, offset := db.NormalizePage(page, pageSize)
	q := `
SELECT ` + db.RecordColumns + `
FROM precios_modulos
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;`
	return r.query(ctx, q, limit, offset)
}

func (r *RecordRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var row db.RecordRow
		if err := rows.Scan(row.Dest()...); err != nil {
			return nil, err
		}
		rec, err := row.Record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
