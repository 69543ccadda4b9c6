package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oppdesarrollo/contratos-dashboard/pkg/models"
)

// contractReader is the slice of ContractService the builder needs.
type contractReader interface {
	GetContract(ctx context.Context, code string) (models.ContractRecord, error)
	AggregateStats(ctx context.Context) (models.ContractStats, error)
}

// ContextBuilder assembles the bounded textual context sent to the LLM.
// Single-contract mode describes one selected row; aggregate mode summarizes
// the table as counts only, so the context never grows with table size.
type ContextBuilder struct {
	contracts contractReader
}

// NewContextBuilder creates a builder over the given contract reader.
func NewContextBuilder(contracts contractReader) *ContextBuilder {
	return &ContextBuilder{contracts: contracts}
}

// Build produces the chat context for a question. A selectedCode that no
// longer exists falls back to aggregate mode: a stale client-side selection
// must not block general questions. Database failures propagate.
func (b *ContextBuilder) Build(ctx context.Context, selectedCode string) (models.ChatContext, error) {
	if selectedCode != "" {
		rec, err := b.contracts.GetContract(ctx, selectedCode)
		if err == nil {
			return models.ChatContext{
				Mode: models.ContextModeContract,
				Text: FormatRecordContext(rec),
			}, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return models.ChatContext{}, err
		}
	}

	stats, err := b.contracts.AggregateStats(ctx)
	if err != nil {
		return models.ChatContext{}, err
	}

	return models.ChatContext{
		Mode: models.ContextModeAggregate,
		Text: FormatStatsContext(stats),
	}, nil
}

// FormatRecordContext renders one contract as the LLM context block.
// Pure function: same record, same text.
func FormatRecordContext(rec models.ContractRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Información del contrato %s:\n", rec.Code)
	fmt.Fprintf(&sb, "- Razón Social: %s\n", orNA(rec.LegalName))
	fmt.Fprintf(&sb, "- Representante: %s\n", orNA(rec.Representative))
	fmt.Fprintf(&sb, "- RUC: %s\n", orNA(rec.TaxID))
	fmt.Fprintf(&sb, "- Teléfono: %s\n", orNA(rec.Phone))
	fmt.Fprintf(&sb, "- Email: %s\n", orNA(rec.Email))
	fmt.Fprintf(&sb, "- Domicilio: %s\n", orNA(rec.Address))
	return sb.String()
}

// FormatStatsContext renders the counts-only table summary. Its length is
// bounded by the number of fields, never by the number of rows.
func FormatStatsContext(stats models.ContractStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Resumen de la tabla de contratos:\n")
	fmt.Fprintf(&sb, "- Contratos registrados: %d\n", stats.Total)
	fmt.Fprintf(&sb, "- Sin razón social: %d\n", stats.MissingLegalName)
	fmt.Fprintf(&sb, "- Sin representante: %d\n", stats.MissingRepresentative)
	fmt.Fprintf(&sb, "- Sin RUC: %d\n", stats.MissingTaxID)
	fmt.Fprintf(&sb, "- Sin teléfono: %d\n", stats.MissingPhone)
	fmt.Fprintf(&sb, "- Sin email: %d\n", stats.MissingEmail)
	fmt.Fprintf(&sb, "- Sin domicilio: %d\n", stats.MissingAddress)
	return sb.String()
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}
