package analysis

import "time"

// Record is one scraped text row in precios_modulos.
type Record struct {
	ID         int64      `json:"id"`
	Provider   string     `json:"proveedor,omitempty"`
	Text       string     `json:"texto_extraido"`
	Source     string     `json:"fuente"`
	Analyzed   bool       `json:"analizado_gpt"`
	Result     *Result    `json:"resultado,omitempty"`
	AnalyzedAt *time.Time `json:"fecha_analisis_gpt,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Failure is a persisted cascade stage failure.
type Failure struct {
	ID        int64     `json:"id"`
	Stage     string    `json:"stage"`
	Kind      Kind      `json:"kind"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
