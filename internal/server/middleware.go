package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/openjass/aquanet/internal/orgcontext"
)

const HeaderOrg = "X-Org-ID"

// OrgContext resolves the acting organization from the X-Org-ID header and
// injects it into the request context. Requests without the header fall back
// to the configured default organization.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderOrg))

		orgID := snowflake.ID(s.cfg.DefaultOrgID)
		if raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil || parsed == 0 {
				AbortWithError(c, newValidationError("org_id", "invalid_org_id", "invalid organization id"))
				return
			}
			orgID = parsed
		}
		if orgID == 0 {
			AbortWithError(c, newValidationError("org_id", "invalid_org_id", "missing organization id"))
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), int64(orgID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
