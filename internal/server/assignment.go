package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	assignmentdomain "github.com/openjass/aquanet/internal/assignment/domain"
)

type createAssignmentRequest struct {
	WaterBoxID string `json:"water_box_id"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	StartDate  string `json:"start_date"`
	MonthlyFee string `json:"monthly_fee"`
}

type closeAssignmentRequest struct {
	EndDate string `json:"end_date,omitempty"`
}

func (s *Server) CreateAssignment(c *gin.Context) {
	var req createAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startDate := time.Now().UTC()
	if parsed, err := parseOptionalTime(req.StartDate, false); err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start date"))
		return
	} else if parsed != nil {
		startDate = *parsed
	}

	resp, err := s.assignmentSvc.Create(c.Request.Context(), assignmentdomain.CreateAssignmentRequest{
		WaterBoxID: strings.TrimSpace(req.WaterBoxID),
		UserID:     strings.TrimSpace(req.UserID),
		UserName:   strings.TrimSpace(req.UserName),
		StartDate:  startDate,
		MonthlyFee: strings.TrimSpace(req.MonthlyFee),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAssignments(c *gin.Context) {
	var query struct {
		PageToken  string `form:"page_token"`
		PageSize   int32  `form:"page_size"`
		WaterBoxID string `form:"water_box_id"`
		UserID     string `form:"user_id"`
		Status     string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.assignmentSvc.List(c.Request.Context(), assignmentdomain.ListAssignmentRequest{
		PageToken:  strings.TrimSpace(query.PageToken),
		PageSize:   query.PageSize,
		WaterBoxID: strings.TrimSpace(query.WaterBoxID),
		UserID:     strings.TrimSpace(query.UserID),
		Status:     strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAssignmentByID(c *gin.Context) {
	resp, err := s.assignmentSvc.GetByID(c.Request.Context(), assignmentdomain.GetAssignmentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CloseAssignment(c *gin.Context) {
	var req closeAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	endDate, err := parseOptionalTime(req.EndDate, true)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end date"))
		return
	}

	resp, err := s.assignmentSvc.Close(c.Request.Context(), assignmentdomain.CloseAssignmentRequest{
		ID:      strings.TrimSpace(c.Param("id")),
		EndDate: endDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
