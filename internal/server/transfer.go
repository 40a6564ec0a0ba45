package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	transferdomain "github.com/openjass/aquanet/internal/transfer/domain"
)

type createTransferRequest struct {
	WaterBoxID string `json:"water_box_id"`
	ToUserID   string `json:"to_user_id"`
	ToUserName string `json:"to_user_name"`
	MonthlyFee string `json:"monthly_fee,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func (s *Server) CreateTransfer(c *gin.Context) {
	var req createTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.transferSvc.Create(c.Request.Context(), transferdomain.CreateTransferRequest{
		WaterBoxID: strings.TrimSpace(req.WaterBoxID),
		ToUserID:   strings.TrimSpace(req.ToUserID),
		ToUserName: strings.TrimSpace(req.ToUserName),
		MonthlyFee: strings.TrimSpace(req.MonthlyFee),
		Reason:     strings.TrimSpace(req.Reason),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTransfers(c *gin.Context) {
	var query struct {
		PageToken  string `form:"page_token"`
		PageSize   int32  `form:"page_size"`
		WaterBoxID string `form:"water_box_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.transferSvc.List(c.Request.Context(), transferdomain.ListTransferRequest{
		PageToken:  strings.TrimSpace(query.PageToken),
		PageSize:   query.PageSize,
		WaterBoxID: strings.TrimSpace(query.WaterBoxID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
