package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SubmitConfiguration pushes the configuration's current snapshot to
// NetSuite. Submitting an unchanged version again returns the stored result
// without touching the wire, so the endpoint is safe against double clicks.
func (s *Server) SubmitConfiguration(c *gin.Context) {
	resp, err := s.submissionSvc.SubmitConfiguration(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSubmissions(c *gin.Context) {
	resp, err := s.submissionSvc.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
