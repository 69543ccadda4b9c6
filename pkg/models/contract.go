// Package models contains the domain types shared across the service and API layers.
package models

import "time"

// ContractRecord is one row of extracted contract metadata from the
// sync_contratos table. The table is populated by the external extraction
// pipeline; this system only reads it. Every field except Code may be
// absent; partial extraction is valid domain state, not an error.
type ContractRecord struct {
	Code           string     `json:"codigo_proceso"`
	LegalName      *string    `json:"razon_social"`
	Representative *string    `json:"representante"`
	TaxID          *string    `json:"ruc"`
	Phone          *string    `json:"telefono"`
	Email          *string    `json:"mail"`
	Address        *string    `json:"domicilio"`
	ExtractedAt    *time.Time `json:"fecha_extraccion"`
}

// ContractStats summarizes the contracts table as counts only. Its size is
// constant regardless of how many rows the pipeline has extracted, which is
// what keeps the aggregate chat context bounded.
type ContractStats struct {
	Total                 int `json:"total"`
	MissingLegalName      int `json:"sin_razon_social"`
	MissingRepresentative int `json:"sin_representante"`
	MissingTaxID          int `json:"sin_ruc"`
	MissingPhone          int `json:"sin_telefono"`
	MissingEmail          int `json:"sin_mail"`
	MissingAddress        int `json:"sin_domicilio"`
}
