package storage

// sqlite.go: snapshot local de la investigación.
//
// Estrategia:
//   - `markets`: UNA fila por ticker (UPSERT) con precio, categoría y volumen.
//   - `estimates`: UNA fila por ticker con la última estimación del investigador.
//   - LoadOpportunities hace el JOIN: solo salen tickers con precio y estimación.
//   - Los planes de asignación NO se guardan; cada ejecución parte de cero.
//   - Prune automático al arrancar: estimaciones no actualizadas en 7 días.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alejandrodnm/edgebot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS markets (
    ticker      TEXT PRIMARY KEY,
    label       TEXT,
    category    TEXT    NOT NULL DEFAULT '',
    price_cents INTEGER NOT NULL,
    volume      REAL    NOT NULL DEFAULT 0,
    updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS estimates (
    ticker      TEXT PRIMARY KEY,
    probability REAL    NOT NULL,
    confidence  REAL    NOT NULL DEFAULT 0,
    rationale   TEXT,
    updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_markets_cat   ON markets(lower(category));
CREATE INDEX IF NOT EXISTS idx_estimates_upd ON estimates(updated_at DESC);
`

const retentionEstimates = 7 * 24 * time.Hour // estimaciones viejas no sirven para apostar

// SQLiteStorage implementa ports.ResearchStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada,
// aplica el schema y limpia estimaciones antiguas.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db, now: time.Now}
	if err := s.pruneOld(context.Background()); err != nil {
		slog.Warn("research prune failed", "path", path, "err", err)
	}
	return s, nil
}

// SaveResearch hace upsert del mercado y la estimación de cada oportunidad en una transacción.
func (s *SQLiteStorage) SaveResearch(ctx context.Context, opps []domain.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}
	for _, o := range opps {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("storage.SaveResearch: %w", err)
		}
	}

	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveResearch: begin tx: %w", err)
	}
	defer tx.Rollback()

	mktStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO markets (ticker, label, category, price_cents, volume, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			label       = excluded.label,
			category    = excluded.category,
			price_cents = excluded.price_cents,
			volume      = excluded.volume,
			updated_at  = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveResearch: prepare markets: %w", err)
	}
	defer mktStmt.Close()

	estStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO estimates (ticker, probability, confidence, rationale, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			probability = excluded.probability,
			confidence  = excluded.confidence,
			rationale   = excluded.rationale,
			updated_at  = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveResearch: prepare estimates: %w", err)
	}
	defer estStmt.Close()

	for _, o := range opps {
		if _, err := mktStmt.ExecContext(ctx,
			o.Identifier, o.Label, o.Category, o.PriceCents, o.Volume, now,
		); err != nil {
			return fmt.Errorf("storage.SaveResearch: upsert market %s: %w", o.Identifier, err)
		}
		if _, err := estStmt.ExecContext(ctx,
			o.Identifier, o.Probability, o.Confidence, o.Rationale, now,
		); err != nil {
			return fmt.Errorf("storage.SaveResearch: upsert estimate %s: %w", o.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveResearch: commit: %w", err)
	}
	return nil
}

// LoadOpportunities devuelve los tickers con precio y estimación, filtrando por categoría
// (sin distinguir mayúsculas). Ordenados por ticker para que el resultado sea estable.
func (s *SQLiteStorage) LoadOpportunities(ctx context.Context, categories []string) ([]domain.Opportunity, error) {
	query := `
		SELECT m.ticker, COALESCE(m.label, ''), m.category, m.price_cents, m.volume,
		       e.probability, e.confidence, COALESCE(e.rationale, '')
		FROM markets m
		JOIN estimates e ON e.ticker = m.ticker`
	args := make([]any, 0, len(categories))
	if len(categories) > 0 {
		placeholders := make([]string, len(categories))
		for i, c := range categories {
			placeholders[i] = "?"
			args = append(args, strings.ToLower(strings.TrimSpace(c)))
		}
		query += ` WHERE lower(m.category) IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY m.ticker`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadOpportunities: query: %w", err)
	}
	defer rows.Close()

	var opps []domain.Opportunity
	for rows.Next() {
		var o domain.Opportunity
		if err := rows.Scan(
			&o.Identifier,
			&o.Label,
			&o.Category,
			&o.PriceCents,
			&o.Volume,
			&o.Probability,
			&o.Confidence,
			&o.Rationale,
		); err != nil {
			return nil, fmt.Errorf("storage.LoadOpportunities: scan row: %w", err)
		}
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina estimaciones caducadas y los mercados que quedan huérfanos.
func (s *SQLiteStorage) pruneOld(ctx context.Context) error {
	cutoff := s.now().UTC().Add(-retentionEstimates)
	if _, err := s.db.ExecContext(ctx, `DELETE FROM estimates WHERE updated_at < ?`, cutoff); err != nil {
		return fmt.Errorf("storage.pruneOld: estimates: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM markets WHERE ticker NOT IN (SELECT ticker FROM estimates)`); err != nil {
		return fmt.Errorf("storage.pruneOld: markets: %w", err)
	}
	return nil
}
