package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	assignmentdomain "github.com/openjass/aquanet/internal/assignment/domain"
	"github.com/openjass/aquanet/internal/config"
	organizationdomain "github.com/openjass/aquanet/internal/organization/domain"
	"github.com/openjass/aquanet/internal/orgcontext"
	reportdomain "github.com/openjass/aquanet/internal/report/domain"
)

// GenerateAssignmentsReport builds the assignments report for the acting
// organization and streams the artifact. A degraded run serves the HTML
// fallback with its own content type instead of failing the request.
func (s *Server) GenerateAssignmentsReport(c *gin.Context) {
	var query struct {
		Title      string `form:"title"`
		Filename   string `form:"filename"`
		Status     string `form:"status"`
		WaterBoxID string `form:"water_box_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		AbortWithError(c, newValidationError("org_id", "invalid_org_id", "missing organization id"))
		return
	}

	org, err := s.organizationSvc.Get(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	assignments, err := s.assignmentRepo.ListAll(ctx, s.db, orgID, assignmentdomain.ListAssignmentFilter{
		Status:     strings.ToUpper(strings.TrimSpace(query.Status)),
		WaterBoxID: strings.TrimSpace(query.WaterBoxID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	boxCodes, err := s.waterBoxCodes(c, orgID, assignments)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	userNames := make(map[string]string, len(assignments))
	records := make([]reportdomain.AssignmentRecord, 0, len(assignments))
	for _, a := range assignments {
		if a.UserName != "" {
			userNames[a.UserID] = a.UserName
		}
		startDate := a.StartDate
		records = append(records, reportdomain.AssignmentRecord{
			ID:         int64(a.ID),
			WaterBoxID: int64(a.WaterBoxID),
			UserID:     a.UserID,
			StartDate:  &startDate,
			EndDate:    a.EndDate,
			MonthlyFee: a.MonthlyFee.String(),
			Status:     string(a.Status),
		})
	}

	orgName, currency := reportHeaderValues(org, s.cfg.Report)

	artifact, err := s.reportSvc.Generate(ctx, records, reportdomain.Options{
		BoxCodeFor:  func(waterBoxID int64) string { return boxCodes[waterBoxID] },
		UserNameFor: func(userID string) string { return userNames[userID] },
		OrgRef:      strconv.FormatInt(int64(orgID), 10),
		OrgName:     orgName,
		OrgAddress:  org.Address,
		OrgPhone:    org.Phone,
		LogoPath:    s.cfg.Report.LogoPath,
		Currency:    currency,
		Title:       strings.TrimSpace(query.Title),
		Filename:    strings.TrimSpace(query.Filename),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	if artifact.Degraded {
		c.Header("X-Report-Degraded", "true")
	}
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// reportHeaderValues resolves the report header fields, falling back to the
// configured defaults when the organization record leaves them empty.
func reportHeaderValues(org organizationdomain.Organization, defaults config.ReportConfig) (name, currency string) {
	name = org.Name
	if name == "" {
		name = defaults.OrgName
	}
	currency = org.Currency
	if currency == "" {
		currency = defaults.Currency
	}
	return name, currency
}

func (s *Server) waterBoxCodes(c *gin.Context, orgID snowflake.ID, assignments []*assignmentdomain.Assignment) (map[int64]string, error) {
	seen := make(map[snowflake.ID]struct{}, len(assignments))
	ids := make([]snowflake.ID, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.WaterBoxID]; ok {
			continue
		}
		seen[a.WaterBoxID] = struct{}{}
		ids = append(ids, a.WaterBoxID)
	}

	codes := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return codes, nil
	}

	boxes, err := s.waterBoxRepo.FindByIDs(c.Request.Context(), s.db, orgID, ids)
	if err != nil {
		return nil, err
	}
	for _, box := range boxes {
		codes[int64(box.ID)] = box.Code
	}
	return codes, nil
}
