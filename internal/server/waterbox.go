package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	waterboxdomain "github.com/openjass/aquanet/internal/waterbox/domain"
)

type createWaterBoxRequest struct {
	Code    string `json:"code"`
	Zone    string `json:"zone"`
	Address string `json:"address"`
}

type updateWaterBoxRequest struct {
	Zone    *string `json:"zone,omitempty"`
	Address *string `json:"address,omitempty"`
	Status  *string `json:"status,omitempty"`
}

func (s *Server) CreateWaterBox(c *gin.Context) {
	var req createWaterBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.waterBoxSvc.Create(c.Request.Context(), waterboxdomain.CreateWaterBoxRequest{
		Code:    strings.TrimSpace(req.Code),
		Zone:    strings.TrimSpace(req.Zone),
		Address: strings.TrimSpace(req.Address),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListWaterBoxes(c *gin.Context) {
	var query struct {
		PageToken string `form:"page_token"`
		PageSize  int32  `form:"page_size"`
		Code      string `form:"code"`
		Zone      string `form:"zone"`
		Status    string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.waterBoxSvc.List(c.Request.Context(), waterboxdomain.ListWaterBoxRequest{
		PageToken: strings.TrimSpace(query.PageToken),
		PageSize:  query.PageSize,
		Code:      strings.TrimSpace(query.Code),
		Zone:      strings.TrimSpace(query.Zone),
		Status:    strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetWaterBoxByID(c *gin.Context) {
	resp, err := s.waterBoxSvc.GetByID(c.Request.Context(), waterboxdomain.GetWaterBoxRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateWaterBox(c *gin.Context) {
	var req updateWaterBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.waterBoxSvc.Update(c.Request.Context(), waterboxdomain.UpdateWaterBoxRequest{
		ID:      strings.TrimSpace(c.Param("id")),
		Zone:    trimmedPtr(req.Zone),
		Address: trimmedPtr(req.Address),
		Status:  trimmedPtr(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ArchiveWaterBox(c *gin.Context) {
	resp, err := s.waterBoxSvc.Archive(c.Request.Context(), waterboxdomain.GetWaterBoxRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
