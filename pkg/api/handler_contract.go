package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oppdesarrollo/contratos-dashboard/pkg/models"
)

// ListContractsResponse mirrors the shape the dashboard's table expects.
type ListContractsResponse struct {
	Contratos []models.ContractRecord `json:"contratos"`
	Total     int                     `json:"total"`
}

// GetContractResponse wraps a single record.
type GetContractResponse struct {
	Contrato models.ContractRecord `json:"contrato"`
}

// listContractsHandler handles GET /api/contratos.
func (s *Server) listContractsHandler(c *gin.Context) {
	records, err := s.contracts.ListContracts(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListContractsResponse{
		Contratos: records,
		Total:     len(records),
	})
}

// getContractHandler handles GET /api/contratos/:codigo.
func (s *Server) getContractHandler(c *gin.Context) {
	rec, err := s.contracts.GetContract(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, GetContractResponse{Contrato: rec})
}

// statsHandler handles GET /api/stats.
func (s *Server) statsHandler(c *gin.Context) {
	stats, err := s.contracts.AggregateStats(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
