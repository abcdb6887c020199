// Package db holds the row mapping shared by the SQL repositories.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

// RecordColumns is the select list scanned by RecordRow.Dest.
const RecordColumns = `id, proveedor, texto_extraido, fuente, analizado_gpt,
  precio_gpt, clasificacion_gpt, condiciones_comerciales, confianza_analisis,
  metodo_analisis, fecha_analisis_gpt, created_at`

const FailureColumns = `id, stage, kind, source, message, created_at`

// RecordRow mirrors a precios_modulos row; analysis columns are NULL until analyzed.
type RecordRow struct {
	ID         int64
	Provider   sql.NullString
	Text       sql.NullString
	Source     sql.NullString
	Analyzed   bool
	Price      sql.NullString
	Module     sql.NullString
	Terms      sql.NullString
	Confidence sql.NullString
	Method     sql.NullString
	AnalyzedAt sql.NullTime
	CreatedAt  time.Time
}

func (r *RecordRow) Dest() []any {
	return []any{
		&r.ID, &r.Provider, &r.Text, &r.Source, &r.Analyzed,
		&r.Price, &r.Module, &r.Terms, &r.Confidence,
		&r.Method, &r.AnalyzedAt, &r.CreatedAt,
	}
}

// Record converts the row. The analysis result is only attached to analyzed rows.
func (r *RecordRow) Record() (*domain.Record, error) {
	rec := &domain.Record{
		ID:        r.ID,
		Provider:  r.Provider.String,
		Text:      r.Text.String,
		Source:    r.Source.String,
		Analyzed:  r.Analyzed,
		CreatedAt: r.CreatedAt,
	}
	if r.AnalyzedAt.Valid {
		t := r.AnalyzedAt.Time
		rec.AnalyzedAt = &t
	}
	if !r.Analyzed {
		return rec, nil
	}

	res := domain.Result{
		EstimatedPrice: r.Price.String,
		Module:         r.Module.String,
		Confidence:     domain.Confidence(r.Confidence.String),
		Method:         domain.Method(r.Method.String),
	}
	if terms := strings.TrimSpace(r.Terms.String); terms != "" {
		if err := json.Unmarshal([]byte(terms), &res.CommercialTerms); err != nil {
			return nil, fmt.Errorf("record %d: decode condiciones_comerciales: %w", r.ID, err)
		}
	}
	res = res.Complete()
	rec.Result = &res
	return rec, nil
}

// EncodeTerms serializes commercial terms for the condiciones_comerciales column.
func EncodeTerms(t domain.CommercialTerms) (string, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DashIfEmpty returns "-" when the input is empty/whitespace
func DashIfEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// NormalizePage applies the default page and page size.
func NormalizePage(page, pageSize int) (limit, offset int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}
