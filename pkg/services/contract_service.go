// Package services contains the business logic layer: contract reads,
// chat-context assembly, and the LLM orchestration.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oppdesarrollo/contratos-dashboard/pkg/models"
)

// contractsTable is left unqualified so tests can isolate via search_path.
// Production databases resolve it to public.sync_contratos, the table the
// extraction pipeline maintains.
const contractsTable = "sync_contratos"

// listLimit caps the dashboard listing; the front-end paginates client-side.
const listLimit = 1000

const contractColumns = `
	codigo_proceso,
	razon_social,
	representante,
	ruc,
	telefono,
	mail,
	domicilio,
	COALESCE(updated_at, fecha_actualizacion) AS extraido_en`

// hasContractorData keeps rows where the pipeline extracted at least one
// contractor field; rows that are pure process stubs are not listed.
const hasContractorData = `(
	razon_social IS NOT NULL OR
	representante IS NOT NULL OR
	ruc IS NOT NULL OR
	telefono IS NOT NULL OR
	mail IS NOT NULL OR
	domicilio IS NOT NULL
)`

// ContractService executes read-only queries against the contracts table.
// Every call uses a pooled connection with a short per-call deadline;
// connections are released on all exit paths.
type ContractService struct {
	db      *sql.DB
	timeout time.Duration
}

// NewContractService creates the service. timeout bounds each query; zero
// means a 5 second default.
func NewContractService(db *sql.DB, timeout time.Duration) *ContractService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ContractService{db: db, timeout: timeout}
}

// ListContracts returns contract rows ordered by extraction time, most
// recent first, with the code as a deterministic tiebreaker.
func (s *ContractService) ListContracts(httpCtx context.Context) ([]models.ContractRecord, error) {
	ctx, cancel := context.WithTimeout(httpCtx, s.timeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY extraido_en DESC NULLS LAST, codigo_proceso
		LIMIT %d`,
		contractColumns, contractsTable, hasContractorData, listLimit)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyDBError("list contracts", err)
	}
	defer rows.Close()

	records := make([]models.ContractRecord, 0)
	for rows.Next() {
		var rec models.ContractRecord
		if err := rows.Scan(
			&rec.Code,
			&rec.LegalName,
			&rec.Representative,
			&rec.TaxID,
			&rec.Phone,
			&rec.Email,
			&rec.Address,
			&rec.ExtractedAt,
		); err != nil {
			return nil, classifyDBError("scan contract row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyDBError("iterate contract rows", err)
	}

	return records, nil
}

// GetContract returns the single contract with the given code, or ErrNotFound.
func (s *ContractService) GetContract(httpCtx context.Context, code string) (models.ContractRecord, error) {
	if code == "" {
		return models.ContractRecord{}, NewValidationError("codigo_proceso", "required")
	}

	ctx, cancel := context.WithTimeout(httpCtx, s.timeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE codigo_proceso = $1`,
		contractColumns, contractsTable)

	var rec models.ContractRecord
	err := s.db.QueryRowContext(ctx, query, code).Scan(
		&rec.Code,
		&rec.LegalName,
		&rec.Representative,
		&rec.TaxID,
		&rec.Phone,
		&rec.Email,
		&rec.Address,
		&rec.ExtractedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ContractRecord{}, ErrNotFound
	}
	if err != nil {
		return models.ContractRecord{}, classifyDBError("get contract", err)
	}

	return rec, nil
}

// AggregateStats computes the counts-only table summary in SQL, so the
// result size is independent of how many rows have been extracted.
func (s *ContractService) AggregateStats(httpCtx context.Context) (models.ContractStats, error) {
	ctx, cancel := context.WithTimeout(httpCtx, s.timeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE razon_social IS NULL),
			COUNT(*) FILTER (WHERE representante IS NULL),
			COUNT(*) FILTER (WHERE ruc IS NULL),
			COUNT(*) FILTER (WHERE telefono IS NULL),
			COUNT(*) FILTER (WHERE mail IS NULL),
			COUNT(*) FILTER (WHERE domicilio IS NULL)
		FROM %s`, contractsTable)

	var stats models.ContractStats
	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.Total,
		&stats.MissingLegalName,
		&stats.MissingRepresentative,
		&stats.MissingTaxID,
		&stats.MissingPhone,
		&stats.MissingEmail,
		&stats.MissingAddress,
	)
	if err != nil {
		return models.ContractStats{}, classifyDBError("aggregate stats", err)
	}

	return stats, nil
}

// classifyDBError separates "cannot reach data" from "data is broken" so the
// dashboard can render a specific message. A server-reported error
// (*pgconn.PgError: missing table, bad column) means the query failed;
// anything else (dial, reset, deadline) means the database is unavailable.
func classifyDBError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %s: %s", ErrQueryFailed, op, pgErr.Message)
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabaseUnavailable, op, err)
}
