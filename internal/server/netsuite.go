package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetEstimate resolves a NetSuite estimate so the UI can link a
// configuration to it before submitting.
func (s *Server) GetEstimate(c *gin.Context) {
	estimateRef := strings.TrimSpace(c.Param("estimateRef"))
	if estimateRef == "" {
		AbortWithError(c, newValidationError("estimateRef", "invalid_estimate_ref", "estimate reference is required"))
		return
	}

	estimate, err := s.netsuite.GetEstimate(c.Request.Context(), estimateRef)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": estimate})
}

// SearchRecords proxies a record search; recordType is required, every other
// query parameter is passed through as a search filter.
func (s *Server) SearchRecords(c *gin.Context) {
	recordType := strings.TrimSpace(c.Query("recordType"))
	if recordType == "" {
		AbortWithError(c, newValidationError("recordType", "invalid_record_type", "recordType is required"))
		return
	}

	filters := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if key == "recordType" || len(values) == 0 {
			continue
		}
		filters[key] = values[0]
	}

	raw, err := s.netsuite.Search(c.Request.Context(), recordType, filters)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}
