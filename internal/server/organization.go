package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	organizationdomain "github.com/openjass/aquanet/internal/organization/domain"
)

type updateOrganizationRequest struct {
	Name    *string `json:"name,omitempty"`
	LogoURL *string `json:"logo_url,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

func (s *Server) GetOrganization(c *gin.Context) {
	resp, err := s.organizationSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateOrganization(c *gin.Context) {
	var req updateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.organizationSvc.Update(c.Request.Context(), organizationdomain.UpdateOrganizationRequest{
		Name:    trimmedPtr(req.Name),
		LogoURL: trimmedPtr(req.LogoURL),
		Address: trimmedPtr(req.Address),
		Phone:   trimmedPtr(req.Phone),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
